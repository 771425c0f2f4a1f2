package bin

import (
	"fmt"

	"github.com/spf13/cobra"

	"keepnotes/cmd/client/cmd/output"
	"keepnotes/cmd/client/cmd/types"
	"keepnotes/internal/app/client"
	"keepnotes/internal/domain/item"
)

func TrashCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "trash",
		Short: "Корзина",
		Long: `Просмотр корзины, восстановление и безвозвратное удаление.

Групповые операции принимают ссылки вида тип:id, например note:42 url:7.`,
	}

	cmd.AddCommand(
		listingCmd("Содержимое корзины", func(cmd *cobra.Command, a *client.App) (item.Listing, error) {
			return a.Trash(cmd.Context())
		}),
		statsCmd("Корзина", func(cmd *cobra.Command, a *client.App) (item.Stats, error) {
			return a.TrashStats(cmd.Context())
		}),
		emptyCmd(),
		bulkCmd(client.BulkTrash, "move", "Переместить в корзину"),
		bulkCmd(client.BulkRestore, "restore", "Восстановить из корзины"),
		bulkCmd(client.BulkDelete, "delete", "Удалить навсегда"),
	)
	return cmd
}

func emptyCmd() *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "empty",
		Short: "Очистить корзину",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := types.App(cmd)
			if err != nil {
				return err
			}
			if !yes {
				fmt.Fprint(cmd.OutOrStdout(), "Удалить все из корзины без возможности восстановления? [y/N]: ")
				var answer string
				_, _ = fmt.Fscanln(cmd.InOrStdin(), &answer)
				if answer != "y" && answer != "Y" {
					fmt.Fprintln(cmd.OutOrStdout(), "Отменено")
					return nil
				}
			}
			res, err := app.EmptyTrash(cmd.Context())
			if err != nil {
				return err
			}
			if types.Format(cmd, "") == output.JSON {
				return output.WriteJSON(cmd.OutOrStdout(), res)
			}
			output.Success(cmd.OutOrStdout(), "Корзина очищена, удалено: %d", res.Deleted)
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "не спрашивать подтверждение")
	return cmd
}
