// Package types — общие для команд клиента ключи контекста.
package types

import (
	"fmt"

	"github.com/spf13/cobra"

	"keepnotes/cmd/client/cmd/output"
	"keepnotes/internal/app/client"
)

type ctxKey string

const (
	ClientAppKey ctxKey = "app"
	OutputKey    ctxKey = "output"
)

// App достает приложение, подготовленное корневой командой.
func App(cmd *cobra.Command) (*client.App, error) {
	app, ok := cmd.Context().Value(ClientAppKey).(*client.App)
	if !ok || app == nil {
		return nil, fmt.Errorf("приложение не инициализировано")
	}
	return app, nil
}

// Format возвращает формат вывода: глобальный --json важнее локального --format.
func Format(cmd *cobra.Command, local string) output.Format {
	global, _ := cmd.Context().Value(OutputKey).(output.Format)
	if global == output.JSON {
		return output.JSON
	}
	return output.Parse(local)
}
