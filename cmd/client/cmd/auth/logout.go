package auth

import (
	"github.com/spf13/cobra"

	"keepnotes/cmd/client/cmd/output"
	"keepnotes/cmd/client/cmd/types"
)

var logoutAll bool

var LogoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Выйти из системы",
	Long: `Завершает сессию на сервере и удаляет локальные токены.

Локальная сессия завершается, даже если сервер недоступен.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		app, err := types.App(cmd)
		if err != nil {
			return err
		}
		if !app.IsAuthenticated() {
			output.Warn(cmd.OutOrStdout(), "Вход не выполнен")
			return nil
		}

		if err := app.Logout(cmd.Context(), logoutAll); err != nil {
			output.Warn(cmd.OutOrStdout(), "Сервер не подтвердил выход: %v", err)
		}
		if logoutAll {
			output.Success(cmd.OutOrStdout(), "Выход выполнен на всех устройствах")
			return nil
		}
		output.Success(cmd.OutOrStdout(), "Выход выполнен")
		return nil
	},
}

func init() {
	LogoutCmd.Flags().BoolVar(&logoutAll, "all", false, "завершить все сессии пользователя")
}
