package record

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"keepnotes/cmd/client/cmd/output"
	"keepnotes/cmd/client/cmd/types"
	"keepnotes/internal/app/client"
	"keepnotes/internal/domain/item"
)

// Документы создаются только загрузкой файла.
func documentCommand() *cobra.Command {
	cmd := newCommand(spec[*item.Document]{
		use:     "document",
		aliases: []string{"documents", "doc", "d"},
		kind:    item.KindDocument,
		coll:    func(a *client.App) *client.Collection[*item.Document] { return a.Documents },
		flags:   documentFlags,
		edit:    applyDocument,
	})
	cmd.AddCommand(uploadCmd(), downloadCmd())
	return cmd
}

func documentFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringP("title", "t", "", "название")
	f.StringP("description", "d", "", "описание")
	f.StringArray("tag", nil, "тег (можно повторять)")
}

func applyDocument(cmd *cobra.Command, d *item.Document) error {
	f := cmd.Flags()
	if f.Changed("title") {
		d.Title, _ = f.GetString("title")
	}
	if f.Changed("description") {
		d.Description, _ = f.GetString("description")
	}
	if f.Changed("tag") {
		d.Tags, _ = f.GetStringArray("tag")
	}
	return nil
}

func uploadCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "upload <file>",
		Short: "Загрузить файл",
		Long: `Загружает файл как документ.

При сбоях сети и ошибках сервера загрузка повторяется
(upload_max_attempts попыток с растущей паузой).`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := types.App(cmd)
			if err != nil {
				return err
			}
			doc := &item.Document{}
			if err := applyDocument(cmd, doc); err != nil {
				return err
			}
			created, err := app.UploadFile(cmd.Context(), args[0], doc)
			if err != nil {
				return fmt.Errorf("ошибка загрузки: %w", err)
			}
			if types.Format(cmd, "") == output.JSON {
				return output.WriteJSON(cmd.OutOrStdout(), created)
			}
			output.Success(cmd.OutOrStdout(), "Документ загружен: %s (ID: %s)", created.Label(), created.ID)
			return nil
		},
	}
	documentFlags(cmd)
	return cmd
}

func downloadCmd() *cobra.Command {
	var dir string
	cmd := &cobra.Command{
		Use:   "download <id>",
		Short: "Скачать файл документа",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := types.App(cmd)
			if err != nil {
				return err
			}
			if dir == "" {
				if dir, err = os.Getwd(); err != nil {
					return err
				}
			}
			path, err := app.DownloadFile(cmd.Context(), args[0], dir)
			if err != nil {
				return fmt.Errorf("ошибка скачивания: %w", err)
			}
			output.Success(cmd.OutOrStdout(), "Сохранено: %s", path)
			return nil
		},
	}
	cmd.Flags().StringVarP(&dir, "dir", "o", "", "каталог для сохранения (по умолчанию текущий)")
	return cmd
}
