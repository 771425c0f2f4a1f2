// cmd/client/cmd/auth/login.go
package auth

import (
	"fmt"

	"github.com/spf13/cobra"

	"keepnotes/cmd/client/cmd/output"
	"keepnotes/cmd/client/cmd/types"
	"keepnotes/internal/domain/user"
)

var loginName string

var LoginCmd = &cobra.Command{
	Use:   "login",
	Short: "Войти в систему KeepNotes",
	Long: `Аутентификация на сервере KeepNotes по email или имени пользователя.

После входа токены сохраняются локально для последующих операций.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		app, err := types.App(cmd)
		if err != nil {
			return err
		}

		fmt.Println("=== Вход в систему ===")
		fmt.Println()

		if loginName == "" {
			if loginName, err = readLine("Email или имя пользователя: "); err != nil {
				return err
			}
		}
		password, err := readPassword("Пароль: ")
		if err != nil {
			return err
		}

		fmt.Println("Аутентификация...")
		if _, err := app.Login(cmd.Context(), user.LoginRequest{
			EmailOrUsername: loginName,
			Password:        password,
		}); err != nil {
			return fmt.Errorf("ошибка аутентификации: %w", err)
		}

		fmt.Println()
		output.Success(cmd.OutOrStdout(), "Вход выполнен успешно! Пользователь: %s", app.Session().Login())

		// Первичная загрузка наполняет резервный кэш.
		if _, _, err := app.Notes.Load(cmd.Context(), ""); err != nil {
			output.Warn(cmd.OutOrStdout(), "Не удалось загрузить заметки: %v", err)
		}
		return nil
	},
}

func init() {
	LoginCmd.Flags().StringVarP(&loginName, "login", "l", "", "email или имя пользователя")
}
