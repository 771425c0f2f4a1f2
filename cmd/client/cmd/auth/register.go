// cmd/client/cmd/auth/register.go
package auth

import (
	"fmt"

	"github.com/spf13/cobra"

	"keepnotes/cmd/client/cmd/output"
	"keepnotes/cmd/client/cmd/types"
	"keepnotes/internal/domain/user"
)

var (
	regUsername string
	regEmail    string
)

var RegisterCmd = &cobra.Command{
	Use:   "register",
	Short: "Зарегистрировать нового пользователя",
	Long: `Регистрация нового пользователя на сервере KeepNotes.

Если сервер сразу выдает токен, сессия начинается без отдельного входа.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		app, err := types.App(cmd)
		if err != nil {
			return err
		}

		fmt.Println("=== Регистрация нового пользователя ===")
		fmt.Println()

		if regUsername == "" {
			if regUsername, err = readLine("Имя пользователя: "); err != nil {
				return err
			}
		}
		if regEmail == "" {
			if regEmail, err = readLine("Email: "); err != nil {
				return err
			}
		}
		password, err := readNewPassword("Пароль: ")
		if err != nil {
			return err
		}

		fmt.Println("Регистрация...")
		resp, err := app.Register(cmd.Context(), user.RegisterRequest{
			Username: regUsername,
			Email:    regEmail,
			Password: password,
		})
		if err != nil {
			return fmt.Errorf("ошибка регистрации: %w", err)
		}

		fmt.Println()
		output.Success(cmd.OutOrStdout(), "Регистрация успешно завершена!")
		if resp.Access() != "" {
			fmt.Printf("Вы вошли как %s\n", app.Session().Login())
			return nil
		}
		fmt.Println("Теперь вы можете войти в систему: keepnotes auth login")
		return nil
	},
}

func init() {
	RegisterCmd.Flags().StringVarP(&regUsername, "username", "u", "", "имя пользователя")
	RegisterCmd.Flags().StringVarP(&regEmail, "email", "e", "", "адрес электронной почты")
}
