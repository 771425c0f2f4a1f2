package bin

import (
	"github.com/spf13/cobra"

	"keepnotes/internal/app/client"
	"keepnotes/internal/domain/item"
)

func ArchiveCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "archive",
		Short: "Архив",
		Long: `Просмотр архива и групповые операции с ним.

Из архива нельзя удалить напрямую: сначала разархивируйте.`,
	}

	cmd.AddCommand(
		listingCmd("Содержимое архива", func(cmd *cobra.Command, a *client.App) (item.Listing, error) {
			return a.Archive(cmd.Context())
		}),
		statsCmd("Архив", func(cmd *cobra.Command, a *client.App) (item.Stats, error) {
			return a.ArchiveStats(cmd.Context())
		}),
		bulkCmd(client.BulkArchive, "move", "Переместить в архив"),
		bulkCmd(client.BulkUnarchive, "restore", "Вернуть из архива"),
	)
	return cmd
}
