// Package bin — команды корзины и архива, включая групповые операции.
package bin

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"keepnotes/cmd/client/cmd/output"
	"keepnotes/cmd/client/cmd/types"
	"keepnotes/internal/app/client"
	"keepnotes/internal/domain/item"
)

// ParseRefs разбирает аргументы вида note:42.
func ParseRefs(args []string) ([]item.Ref, error) {
	refs := make([]item.Ref, 0, len(args))
	for _, a := range args {
		kind, id, ok := strings.Cut(a, ":")
		if !ok || id == "" {
			return nil, fmt.Errorf("неверная ссылка %q, ожидается тип:id (например note:42)", a)
		}
		k, err := item.ParseKind(kind)
		if err != nil {
			return nil, err
		}
		refs = append(refs, item.Ref{Type: k, ID: id})
	}
	return refs, nil
}

func bulkCmd(op client.BulkOp, use, short string) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <тип:id>...",
		Short: short,
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := types.App(cmd)
			if err != nil {
				return err
			}
			refs, err := ParseRefs(args)
			if err != nil {
				return err
			}
			res, err := app.Bulk(cmd.Context(), op, refs)
			if err != nil {
				return err
			}
			return output.Bulk(cmd.OutOrStdout(), types.Format(cmd, ""), res)
		},
	}
}

func listingCmd(short string, load func(*cobra.Command, *client.App) (item.Listing, error)) *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "list",
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := types.App(cmd)
			if err != nil {
				return err
			}
			l, err := load(cmd, app)
			if err != nil {
				return err
			}
			return output.Listing(cmd.OutOrStdout(), types.Format(cmd, format), l)
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "simple", "формат вывода: simple, table, json")
	return cmd
}

func statsCmd(title string, load func(*cobra.Command, *client.App) (item.Stats, error)) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Количество по типам",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := types.App(cmd)
			if err != nil {
				return err
			}
			s, err := load(cmd, app)
			if err != nil {
				return err
			}
			return output.Stats(cmd.OutOrStdout(), types.Format(cmd, ""), title, s)
		},
	}
}
