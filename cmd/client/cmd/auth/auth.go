package auth

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// AuthCmd - родительская команда для всех операций с авторизацей пользователя
var AuthCmd = &cobra.Command{
	Use:   "auth",
	Short: "Управление пользователем",
	Long:  `Регистрация, вход и выход, состояние сессии, изменение пароля.`,
}

var stdin = bufio.NewReader(os.Stdin)

// readLine читает строку из stdin; prompt печатается, только если он задан.
func readLine(prompt string) (string, error) {
	if prompt != "" {
		fmt.Print(prompt)
	}
	line, err := stdin.ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("ошибка чтения ввода: %w", err)
	}
	return strings.TrimSpace(line), nil
}

// readPassword читает пароль без эха. Если stdin не терминал (скрипты,
// пайпы), пароль читается обычной строкой.
func readPassword(prompt string) (string, error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return readLine("")
	}
	fmt.Print(prompt)
	password, err := term.ReadPassword(fd)
	fmt.Println()
	if err != nil {
		return "", fmt.Errorf("ошибка чтения пароля: %w", err)
	}
	return string(password), nil
}

func readNewPassword(prompt string) (string, error) {
	password, err := readPassword(prompt)
	if err != nil {
		return "", err
	}
	confirm, err := readPassword("Повторите пароль: ")
	if err != nil {
		return "", err
	}
	if password != confirm {
		return "", fmt.Errorf("пароли не совпадают")
	}
	if len(password) < 8 {
		return "", fmt.Errorf("пароль должен содержать минимум 8 символов")
	}
	return password, nil
}
