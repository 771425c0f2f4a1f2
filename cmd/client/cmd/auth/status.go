package auth

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"keepnotes/cmd/client/cmd/output"
	"keepnotes/cmd/client/cmd/types"
	"keepnotes/internal/domain/user"
)

var StatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Состояние сессии",
	RunE: func(cmd *cobra.Command, _ []string) error {
		app, err := types.App(cmd)
		if err != nil {
			return err
		}

		st := app.Status()
		if types.Format(cmd, "") == output.JSON {
			return output.WriteJSON(cmd.OutOrStdout(), st)
		}

		fmt.Printf("Сервер: %s\n", st.Server)
		if !st.Authenticated {
			fmt.Println("Вход не выполнен. Выполните: keepnotes auth login")
			return nil
		}
		fmt.Printf("Пользователь: %s\n", st.Login)
		if st.ExpiresAt != nil {
			left := time.Until(*st.ExpiresAt).Round(time.Second)
			if st.Expired {
				output.Warn(cmd.OutOrStdout(), "Токен истек %s. Выполните: keepnotes auth refresh", st.ExpiresAt.Local().Format(time.DateTime))
			} else {
				fmt.Printf("Токен действителен до %s (еще %s)\n", st.ExpiresAt.Local().Format(time.DateTime), left)
			}
		}
		return nil
	},
}

var RefreshCmd = &cobra.Command{
	Use:   "refresh",
	Short: "Обновить access-токен",
	RunE: func(cmd *cobra.Command, _ []string) error {
		app, err := types.App(cmd)
		if err != nil {
			return err
		}
		if err := app.Refresh(cmd.Context()); err != nil {
			return fmt.Errorf("ошибка обновления токена: %w", err)
		}
		output.Success(cmd.OutOrStdout(), "Токен обновлен")
		return nil
	},
}

var MeCmd = &cobra.Command{
	Use:   "me",
	Short: "Профиль текущего пользователя",
	RunE: func(cmd *cobra.Command, _ []string) error {
		app, err := types.App(cmd)
		if err != nil {
			return err
		}
		p, err := app.Me(cmd.Context())
		if err != nil {
			return err
		}
		if types.Format(cmd, "") == output.JSON {
			return output.WriteJSON(cmd.OutOrStdout(), p)
		}
		fmt.Printf("ID: %s\nИмя: %s\nEmail: %s\n", p.ID, p.Username, p.Email)
		if !p.CreatedAt.IsZero() {
			fmt.Printf("Зарегистрирован: %s\n", p.CreatedAt.Local().Format(time.DateOnly))
		}
		return nil
	},
}

var ChangePasswordCmd = &cobra.Command{
	Use:   "change-password",
	Short: "Изменить пароль пользователя",
	RunE: func(cmd *cobra.Command, _ []string) error {
		app, err := types.App(cmd)
		if err != nil {
			return err
		}
		current, err := readPassword("Текущий пароль: ")
		if err != nil {
			return err
		}
		next, err := readNewPassword("Новый пароль: ")
		if err != nil {
			return err
		}
		msg, err := app.ChangePassword(cmd.Context(), user.ChangePasswordRequest{CurrentPassword: current, NewPassword: next})
		if err != nil {
			return fmt.Errorf("ошибка смены пароля: %w", err)
		}
		if msg == "" {
			msg = "Пароль изменен"
		}
		output.Success(cmd.OutOrStdout(), "%s", msg)
		return nil
	},
}
