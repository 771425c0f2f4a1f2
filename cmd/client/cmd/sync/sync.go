package sync

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"keepnotes/cmd/client/cmd/output"
	"keepnotes/cmd/client/cmd/types"
	"keepnotes/internal/app/client"
	"keepnotes/internal/domain/item"
)

// Result — итог загрузки одного типа сущностей.
type Result struct {
	Kind   item.Kind `json:"kind"`
	Count  int       `json:"count"`
	Cached bool      `json:"cached"`
	Error  string    `json:"error,omitempty"`
}

var SyncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Загрузить активные списки с сервера",
	Long: `Загружает активные заметки, напоминания, документы и закладки.

Заметки, напоминания и закладки сохраняются локально и показываются,
когда сервер недоступен.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		app, err := types.App(cmd)
		if err != nil {
			return err
		}
		if !app.IsAuthenticated() {
			return client.ErrNotAuthenticated
		}

		start := time.Now()
		results := Run(cmd.Context(), app)

		if types.Format(cmd, "") == output.JSON {
			return output.WriteJSON(cmd.OutOrStdout(), results)
		}

		fmt.Println("=== Синхронизация данных ===")
		failed := 0
		for _, r := range results {
			switch {
			case r.Error != "":
				failed++
				output.Warn(cmd.OutOrStdout(), "%s: %s", r.Kind.DisplayName(), r.Error)
			case r.Cached:
				output.Warn(cmd.OutOrStdout(), "%s: %d (сохраненные данные, сервер недоступен)", r.Kind.DisplayName(), r.Count)
			default:
				output.Success(cmd.OutOrStdout(), "%s: %d", r.Kind.DisplayName(), r.Count)
			}
		}
		fmt.Printf("Время выполнения: %v\n", time.Since(start).Round(time.Millisecond))
		if failed == len(results) {
			return fmt.Errorf("не удалось загрузить ни одного списка")
		}
		return nil
	},
}

// Run загружает активные списки всех типов.
func Run(ctx context.Context, app *client.App) []Result {
	return []Result{
		load(ctx, app.Notes),
		load(ctx, app.Reminders),
		load(ctx, app.Documents),
		load(ctx, app.URLs),
	}
}

func load[E item.Record[E]](ctx context.Context, c *client.Collection[E]) Result {
	items, cached, err := c.Load(ctx, item.StateActive)
	r := Result{Kind: c.Kind(), Count: len(items), Cached: cached}
	if err != nil {
		r.Error = err.Error()
	}
	return r
}
