// Package record — команды работы с заметками, напоминаниями, документами
// и закладками.
package record

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"keepnotes/cmd/client/cmd/output"
	"keepnotes/cmd/client/cmd/types"
	"keepnotes/internal/app/client"
	"keepnotes/internal/domain/item"
)

// spec описывает команды одного типа сущностей.
type spec[E item.Record[E]] struct {
	use     string
	aliases []string
	kind    item.Kind
	coll    func(*client.App) *client.Collection[E]
	// flags регистрирует поля сущности для create и edit.
	flags func(cmd *cobra.Command)
	// draft собирает новую сущность из флагов; nil — create не поддерживается.
	draft func(cmd *cobra.Command) (E, error)
	// edit переносит в сущность только явно заданные флаги.
	edit func(cmd *cobra.Command, e E) error
}

func newCommand[E item.Record[E]](s spec[E]) *cobra.Command {
	parent := &cobra.Command{
		Use:     s.use,
		Aliases: s.aliases,
		Short:   "Управление: " + strings.ToLower(s.kind.DisplayName()),
	}

	parent.AddCommand(listCmd(s), showCmd(s), editCmd(s))
	if s.draft != nil {
		parent.AddCommand(createCmd(s))
	}
	for _, a := range []struct {
		action item.Action
		use    string
		short  string
		done   string
	}{
		{item.ActionTrash, "trash", "Переместить в корзину", "перемещено в корзину"},
		{item.ActionRestore, "restore", "Восстановить из корзины", "восстановлено"},
		{item.ActionArchive, "archive", "Переместить в архив", "перемещено в архив"},
		{item.ActionUnarchive, "unarchive", "Вернуть из архива", "возвращено из архива"},
		{item.ActionPurge, "purge", "Удалить навсегда (только из корзины)", "удалено навсегда"},
	} {
		parent.AddCommand(actionCmd(s, a.action, a.use, a.short, a.done))
	}
	return parent
}

func listCmd[E item.Record[E]](s spec[E]) *cobra.Command {
	var status, format string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "Список",
		Long: `Список сущностей в состоянии --status (active, trashed, archived).

Если сервер недоступен, для активного списка показываются последние
сохраненные данные.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := types.App(cmd)
			if err != nil {
				return err
			}
			state, err := item.ParseState(status)
			if err != nil {
				return err
			}

			items, cached, err := s.coll(app).Load(cmd.Context(), state)
			if err != nil {
				return fmt.Errorf("ошибка получения списка: %w", err)
			}
			f := types.Format(cmd, format)
			if cached && f != output.JSON {
				output.Warn(cmd.ErrOrStderr(), "Сервер недоступен, показаны сохраненные данные")
			}
			return output.Entities(cmd.OutOrStdout(), f, items)
		},
	}
	cmd.Flags().StringVarP(&status, "status", "s", "", "состояние: active, trashed, archived")
	cmd.Flags().StringVarP(&format, "format", "f", "simple", "формат вывода: simple, table, json")
	return cmd
}

func showCmd[E item.Record[E]](s spec[E]) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Подробности",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := types.App(cmd)
			if err != nil {
				return err
			}
			e, err := find(cmd, s.coll(app), args[0])
			if err != nil {
				return err
			}
			return output.Entity(cmd.OutOrStdout(), types.Format(cmd, ""), e)
		},
	}
}

// find ищет сущность во всех состояниях.
func find[E item.Record[E]](cmd *cobra.Command, c *client.Collection[E], id string) (E, error) {
	var zero E
	for _, st := range item.States {
		if _, _, err := c.Load(cmd.Context(), st); err != nil {
			return zero, err
		}
		if e, ok := c.View(st).Get(id); ok {
			return e, nil
		}
	}
	return zero, fmt.Errorf("%s %s: %w", c.Kind().Singular(), id, item.ErrNotFound)
}

func createCmd[E item.Record[E]](s spec[E]) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Создать",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := types.App(cmd)
			if err != nil {
				return err
			}
			draft, err := s.draft(cmd)
			if err != nil {
				return err
			}
			created, err := s.coll(app).Create(cmd.Context(), draft)
			if err != nil {
				return fmt.Errorf("ошибка создания: %w", err)
			}
			if types.Format(cmd, "") == output.JSON {
				return output.WriteJSON(cmd.OutOrStdout(), created)
			}
			output.Success(cmd.OutOrStdout(), "Создано: %s (ID: %s)", created.Label(), created.Meta().ID)
			return nil
		},
	}
	s.flags(cmd)
	return cmd
}

func editCmd[E item.Record[E]](s spec[E]) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Изменить",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := types.App(cmd)
			if err != nil {
				return err
			}
			if !anyChanged(cmd) {
				return fmt.Errorf("не задано ни одного изменения")
			}
			updated, err := s.coll(app).Update(cmd.Context(), args[0], func(e E) error {
				return s.edit(cmd, e)
			})
			if err != nil {
				return fmt.Errorf("ошибка изменения: %w", err)
			}
			if types.Format(cmd, "") == output.JSON {
				return output.WriteJSON(cmd.OutOrStdout(), updated)
			}
			output.Success(cmd.OutOrStdout(), "Изменено: %s", updated.Label())
			return nil
		},
	}
	s.flags(cmd)
	return cmd
}

func actionCmd[E item.Record[E]](s spec[E], action item.Action, use, short, done string) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <id>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := types.App(cmd)
			if err != nil {
				return err
			}
			e, err := s.coll(app).Apply(cmd.Context(), args[0], action)
			if err != nil {
				return err
			}
			if types.Format(cmd, "") == output.JSON && action != item.ActionPurge {
				return output.WriteJSON(cmd.OutOrStdout(), e)
			}
			output.Success(cmd.OutOrStdout(), "%s %s: %s", s.kind.DisplayName(), args[0], done)
			return nil
		},
	}
}

func anyChanged(cmd *cobra.Command) bool {
	changed := false
	cmd.LocalFlags().VisitAll(func(f *pflag.Flag) {
		changed = changed || f.Changed
	})
	return changed
}

var timeLayouts = []string{time.RFC3339, "2006-01-02 15:04", "2006-01-02T15:04", time.DateOnly}

// parseTime принимает RFC3339 или локальное время без зоны.
func parseTime(s string) (time.Time, error) {
	for _, layout := range timeLayouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("неверный формат даты %q, ожидается YYYY-MM-DD HH:MM", s)
}

// Commands возвращает команды всех типов сущностей.
func Commands() []*cobra.Command {
	return []*cobra.Command{
		noteCommand(),
		reminderCommand(),
		documentCommand(),
		urlCommand(),
	}
}
