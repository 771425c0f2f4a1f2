package cmd

import (
	"strings"

	"github.com/spf13/cobra"

	"keepnotes/cmd/client/cmd/output"
	"keepnotes/cmd/client/cmd/types"
	"keepnotes/internal/domain/item"
)

var (
	searchType   string
	searchStatus string
	searchFormat string
)

var searchCmd = &cobra.Command{
	Use:   "search <запрос>",
	Short: "Поиск по всем типам",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := types.App(cmd)
		if err != nil {
			return err
		}

		var f item.SearchFilter
		if searchType != "" {
			if f.Type, err = item.ParseKind(searchType); err != nil {
				return err
			}
		}
		if searchStatus != "" {
			if f.Status, err = item.ParseState(searchStatus); err != nil {
				return err
			}
		}

		l, err := app.Search(cmd.Context(), strings.Join(args, " "), f)
		if err != nil {
			return err
		}
		return output.Listing(cmd.OutOrStdout(), types.Format(cmd, searchFormat), l)
	},
}

func init() {
	searchCmd.Flags().StringVarP(&searchType, "type", "t", "", "тип: notes, reminders, documents, urls")
	searchCmd.Flags().StringVarP(&searchStatus, "status", "s", "", "состояние: active, trashed, archived")
	searchCmd.Flags().StringVarP(&searchFormat, "format", "f", "simple", "формат вывода: simple, table, json")
}
