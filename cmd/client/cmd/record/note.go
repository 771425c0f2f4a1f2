package record

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"keepnotes/internal/app/client"
	"keepnotes/internal/domain/item"
)

func noteCommand() *cobra.Command {
	return newCommand(spec[*item.Note]{
		use:     "note",
		aliases: []string{"notes", "n"},
		kind:    item.KindNote,
		coll:    func(a *client.App) *client.Collection[*item.Note] { return a.Notes },
		flags: func(cmd *cobra.Command) {
			f := cmd.Flags()
			f.StringP("title", "t", "", "заголовок")
			f.StringP("content", "c", "", "текст заметки")
			f.String("color", "", "цвет карточки")
			f.Bool("pin", false, "закрепить заметку")
			f.String("remind", "", "напомнить в указанное время (YYYY-MM-DD HH:MM)")
			f.StringArrayP("item", "i", nil, "пункт чек-листа (можно повторять)")
			if cmd.Name() == "edit" {
				f.StringArray("check", nil, "отметить пункт чек-листа по id")
				f.StringArray("uncheck", nil, "снять отметку с пункта по id")
			}
		},
		draft: func(cmd *cobra.Command) (*item.Note, error) {
			n := &item.Note{}
			return n, applyNote(cmd, n)
		},
		edit: applyNote,
	})
}

func applyNote(cmd *cobra.Command, n *item.Note) error {
	f := cmd.Flags()
	if f.Changed("title") {
		n.Title, _ = f.GetString("title")
	}
	if f.Changed("content") {
		n.Content, _ = f.GetString("content")
	}
	if f.Changed("color") {
		n.Color, _ = f.GetString("color")
	}
	if f.Changed("pin") {
		n.Pinned, _ = f.GetBool("pin")
	}
	if f.Changed("remind") {
		raw, _ := f.GetString("remind")
		if raw == "" {
			n.ReminderAt = nil
		} else {
			t, err := parseTime(raw)
			if err != nil {
				return err
			}
			n.ReminderAt = &t
		}
	}
	if f.Changed("item") {
		texts, _ := f.GetStringArray("item")
		next := nextChecklistID(n.Checklist)
		for _, text := range texts {
			n.Checklist = append(n.Checklist, item.ChecklistItem{ID: strconv.Itoa(next), Text: text})
			next++
		}
	}
	for _, name := range []string{"check", "uncheck"} {
		if f.Lookup(name) == nil || !f.Changed(name) {
			continue
		}
		ids, _ := f.GetStringArray(name)
		for _, id := range ids {
			if !setChecked(n, id, name == "check") {
				return fmt.Errorf("пункт чек-листа %q не найден", id)
			}
		}
	}
	return nil
}

// nextChecklistID — следующий свободный числовой id пункта. Нечисловые id
// с сервера не мешают: новые номера идут после наибольшего числового.
func nextChecklistID(items []item.ChecklistItem) int {
	next := 1
	for _, c := range items {
		if n, err := strconv.Atoi(c.ID); err == nil && n >= next {
			next = n + 1
		}
	}
	return next
}

func setChecked(n *item.Note, id string, done bool) bool {
	for i := range n.Checklist {
		if n.Checklist[i].ID == id {
			n.Checklist[i].Done = done
			return true
		}
	}
	return false
}
