package record

import (
	"fmt"

	"github.com/spf13/cobra"

	"keepnotes/cmd/client/cmd/output"
	"keepnotes/cmd/client/cmd/types"
	"keepnotes/internal/app/client"
	"keepnotes/internal/domain/item"
)

func reminderCommand() *cobra.Command {
	cmd := newCommand(spec[*item.Reminder]{
		use:     "reminder",
		aliases: []string{"reminders", "r"},
		kind:    item.KindReminder,
		coll:    func(a *client.App) *client.Collection[*item.Reminder] { return a.Reminders },
		flags: func(cmd *cobra.Command) {
			f := cmd.Flags()
			f.StringP("title", "t", "", "заголовок")
			f.StringP("description", "d", "", "описание")
			f.String("due", "", "срок (YYYY-MM-DD HH:MM)")
			f.StringP("priority", "p", "", "приоритет: low, medium, high")
			f.Bool("done", false, "отметить выполненным")
		},
		draft: func(cmd *cobra.Command) (*item.Reminder, error) {
			r := &item.Reminder{Priority: item.PriorityMedium}
			return r, applyReminder(cmd, r)
		},
		edit: applyReminder,
	})
	cmd.AddCommand(dueCmd())
	return cmd
}

func applyReminder(cmd *cobra.Command, r *item.Reminder) error {
	f := cmd.Flags()
	if f.Changed("title") {
		r.Title, _ = f.GetString("title")
	}
	if f.Changed("description") {
		r.Description, _ = f.GetString("description")
	}
	if f.Changed("due") {
		raw, _ := f.GetString("due")
		t, err := parseTime(raw)
		if err != nil {
			return err
		}
		r.DueAt = t
		r.Notified = false
	}
	if f.Changed("priority") {
		p, _ := f.GetString("priority")
		r.Priority = item.Priority(p)
	}
	if f.Changed("done") {
		r.Completed, _ = f.GetBool("done")
	}
	return nil
}

func dueCmd() *cobra.Command {
	var mark bool
	cmd := &cobra.Command{
		Use:   "due",
		Short: "Напоминания, срок которых наступил",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := types.App(cmd)
			if err != nil {
				return err
			}
			due, err := app.DueReminders(cmd.Context())
			if err != nil {
				return err
			}
			if err := output.Entities(cmd.OutOrStdout(), types.Format(cmd, ""), due); err != nil {
				return err
			}
			if !mark {
				return nil
			}
			for _, r := range due {
				if _, err := app.MarkNotified(cmd.Context(), r.ID); err != nil {
					return fmt.Errorf("напоминание %s: %w", r.ID, err)
				}
			}
			if len(due) > 0 && types.Format(cmd, "") != output.JSON {
				output.Success(cmd.OutOrStdout(), "Отмечено показанными: %d", len(due))
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&mark, "mark", false, "отметить найденные напоминания показанными")
	return cmd
}
