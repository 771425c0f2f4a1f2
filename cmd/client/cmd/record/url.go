package record

import (
	"fmt"

	"github.com/spf13/cobra"

	"keepnotes/cmd/client/cmd/types"
	"keepnotes/internal/app/client"
	"keepnotes/internal/domain/item"
)

func urlCommand() *cobra.Command {
	cmd := newCommand(spec[*item.URLBookmark]{
		use:     "url",
		aliases: []string{"urls", "bookmark", "u"},
		kind:    item.KindURL,
		coll:    func(a *client.App) *client.Collection[*item.URLBookmark] { return a.URLs },
		flags: func(cmd *cobra.Command) {
			f := cmd.Flags()
			f.String("url", "", "адрес")
			f.StringP("title", "t", "", "название")
			f.String("category", "", "категория")
			f.StringArray("tag", nil, "тег (можно повторять)")
			f.StringP("priority", "p", "", "приоритет: low, medium, high")
		},
		draft: func(cmd *cobra.Command) (*item.URLBookmark, error) {
			u := &item.URLBookmark{Priority: item.PriorityMedium}
			return u, applyURL(cmd, u)
		},
		edit: applyURL,
	})
	cmd.AddCommand(openCmd())
	return cmd
}

func applyURL(cmd *cobra.Command, u *item.URLBookmark) error {
	f := cmd.Flags()
	if f.Changed("url") {
		u.URL, _ = f.GetString("url")
	}
	if f.Changed("title") {
		u.Title, _ = f.GetString("title")
	}
	if f.Changed("category") {
		u.Category, _ = f.GetString("category")
	}
	if f.Changed("tag") {
		u.Tags, _ = f.GetStringArray("tag")
	}
	if f.Changed("priority") {
		p, _ := f.GetString("priority")
		u.Priority = item.Priority(p)
	}
	return nil
}

// openCmd печатает адрес закладки и учитывает переход.
func openCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "open <id>",
		Short: "Открыть закладку",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := types.App(cmd)
			if err != nil {
				return err
			}
			addr, err := app.OpenURL(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), addr)
			return nil
		},
	}
}
