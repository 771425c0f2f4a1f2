// cmd/client/cmd/init.go
package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"keepnotes/cmd/client/cmd/auth"
	"keepnotes/cmd/client/cmd/bin"
	"keepnotes/cmd/client/cmd/output"
	"keepnotes/cmd/client/cmd/record"
	"keepnotes/cmd/client/cmd/sync"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Инициализировать клиент KeepNotes",
	Long: `Команда init выполняет первоначальную настройку клиента:
	1. Создает каталог конфигурации
	2. Сохраняет адрес сервера в config.yaml
	3. Проверяет соединение с сервером`,
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Println("=== Инициализация KeepNotes ===")
		fmt.Println()

		path := filepath.Join(cfg.ConfigDir, "config.yaml")
		v := viper.New()
		v.Set("server_address", cfg.ServerAddress)
		v.Set("enable_tls", cfg.EnableTLS)
		v.Set("log_level", cfg.LogLevel)
		if err := v.WriteConfigAs(path); err != nil {
			return fmt.Errorf("ошибка записи конфигурации: %w", err)
		}
		output.Success(cmd.OutOrStdout(), "Конфигурация сохранена: %s", path)

		// Проверяем соединение с сервером
		fmt.Println("Проверка соединения с сервером...")
		if err := app.CheckConnection(cmd.Context()); err != nil {
			output.Warn(cmd.OutOrStdout(), "Не удалось подключиться к серверу %s: %v", cfg.BaseURL(), err)
			fmt.Println("Сохраненные списки будут доступны, но изменения невозможны.")
		} else {
			output.Success(cmd.OutOrStdout(), "Соединение с сервером установлено")
		}

		fmt.Println()
		fmt.Println("Что дальше:")
		fmt.Println("1. Зарегистрируйтесь на сервере: keepnotes auth register")
		fmt.Println("2. Войдите в систему: keepnotes auth login")
		fmt.Println("3. Создайте первую заметку: keepnotes note create -t \"Заголовок\" -c \"Текст\"")

		return nil
	},
}

var pingCmd = &cobra.Command{
	Use:   "ping",
	Short: "Проверить доступность сервера",
	RunE: func(cmd *cobra.Command, _ []string) error {
		if err := app.CheckConnection(cmd.Context()); err != nil {
			return fmt.Errorf("сервер %s недоступен: %w", cfg.BaseURL(), err)
		}
		output.Success(cmd.OutOrStdout(), "Сервер %s доступен", cfg.BaseURL())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(initCmd, pingCmd, searchCmd)

	// Добавляем команды аутентификации
	rootCmd.AddCommand(auth.AuthCmd)
	auth.AuthCmd.AddCommand(auth.RegisterCmd)
	auth.AuthCmd.AddCommand(auth.LoginCmd)
	auth.AuthCmd.AddCommand(auth.LogoutCmd)
	auth.AuthCmd.AddCommand(auth.StatusCmd)
	auth.AuthCmd.AddCommand(auth.RefreshCmd)
	auth.AuthCmd.AddCommand(auth.MeCmd)
	auth.AuthCmd.AddCommand(auth.ChangePasswordCmd)

	// Добавляем команды работы с сущностями
	rootCmd.AddCommand(record.Commands()...)
	rootCmd.AddCommand(bin.TrashCommand(), bin.ArchiveCommand())

	rootCmd.AddCommand(sync.SyncCmd)
}
