// Package output печатает сущности и результаты операций в терминал.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/fatih/color"

	"keepnotes/internal/domain/item"
)

type Format string

const (
	Simple Format = "simple"
	Table  Format = "table"
	JSON   Format = "json"
)

// Parse разбирает значение флага --format; неизвестное значение — simple.
func Parse(s string) Format {
	switch Format(strings.ToLower(s)) {
	case Table:
		return Table
	case JSON:
		return JSON
	}
	return Simple
}

const dateLayout = "2006-01-02 15:04"

var (
	okColor   = color.New(color.FgGreen)
	warnColor = color.New(color.FgYellow)
	dimColor  = color.New(color.Faint)
)

func Success(w io.Writer, format string, args ...any) {
	okColor.Fprint(w, "✓ ")
	fmt.Fprintf(w, format+"\n", args...)
}

func Warn(w io.Writer, format string, args ...any) {
	warnColor.Fprint(w, "⚠️  ")
	fmt.Fprintf(w, format+"\n", args...)
}

func WriteJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// Entities печатает список сущностей одного типа.
func Entities[E item.Entity](w io.Writer, f Format, items []E) error {
	if f == JSON {
		if items == nil {
			items = []E{}
		}
		return WriteJSON(w, items)
	}
	if len(items) == 0 {
		fmt.Fprintln(w, "Записи не найдены")
		return nil
	}

	if f == Table {
		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		fmt.Fprintf(tw, "ID\tТип\tНазвание\tСостояние\tПодробности\tОбновлено\t\n")
		fmt.Fprintf(tw, "---\t---\t---\t---\t---\t---\t\n")
		for _, e := range items {
			m := e.Meta()
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t\n",
				m.ID,
				e.Kind().Singular(),
				truncate(e.Label(), 30),
				m.State,
				truncate(Details(e), 40),
				formatTime(m.UpdatedAt),
			)
		}
		if err := tw.Flush(); err != nil {
			return err
		}
		fmt.Fprintf(w, "\nВсего: %d\n", len(items))
		return nil
	}

	fmt.Fprintf(w, "Найдено: %d\n\n", len(items))
	for i, e := range items {
		m := e.Meta()
		fmt.Fprintf(w, "%d. %s%s\n", i+1, pinMark(e), labelOrPlaceholder(e))
		dimColor.Fprintf(w, "   ID: %s | %s | Обновлено: %s\n", m.ID, Details(e), formatTime(m.UpdatedAt))
	}
	return nil
}

// Entity печатает одну сущность подробно.
func Entity(w io.Writer, f Format, e item.Entity) error {
	if f == JSON {
		return WriteJSON(w, e)
	}
	m := e.Meta()
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "ID:\t%s\n", m.ID)
	fmt.Fprintf(tw, "Тип:\t%s\n", e.Kind().DisplayName())
	fmt.Fprintf(tw, "Название:\t%s\n", labelOrPlaceholder(e))
	fmt.Fprintf(tw, "Состояние:\t%s\n", m.State.DisplayName())
	for _, row := range fields(e) {
		fmt.Fprintf(tw, "%s:\t%s\n", row[0], row[1])
	}
	fmt.Fprintf(tw, "Создано:\t%s\n", formatTime(m.CreatedAt))
	fmt.Fprintf(tw, "Обновлено:\t%s\n", formatTime(m.UpdatedAt))
	if m.TrashedAt != nil {
		fmt.Fprintf(tw, "В корзине с:\t%s\n", formatTime(*m.TrashedAt))
	}
	if m.ArchivedAt != nil {
		fmt.Fprintf(tw, "В архиве с:\t%s\n", formatTime(*m.ArchivedAt))
	}
	return tw.Flush()
}

// Listing печатает сводный список (корзина, архив, поиск) по типам.
func Listing(w io.Writer, f Format, l item.Listing) error {
	if f == JSON {
		return WriteJSON(w, l)
	}
	if l.Len() == 0 {
		fmt.Fprintln(w, "Ничего не найдено")
		return nil
	}
	groups := []struct {
		kind  item.Kind
		items []item.Entity
	}{
		{item.KindNote, entities(l.Notes)},
		{item.KindReminder, entities(l.Reminders)},
		{item.KindDocument, entities(l.Documents)},
		{item.KindURL, entities(l.URLs)},
	}
	for _, g := range groups {
		if len(g.items) == 0 {
			continue
		}
		color.New(color.Bold).Fprintf(w, "%s (%d)\n", g.kind.DisplayName(), len(g.items))
		if err := Entities(w, f, g.items); err != nil {
			return err
		}
		fmt.Fprintln(w)
	}
	return nil
}

func entities[E item.Entity](items []E) []item.Entity {
	out := make([]item.Entity, len(items))
	for i, e := range items {
		out[i] = e
	}
	return out
}

func Stats(w io.Writer, f Format, title string, s item.Stats) error {
	if f == JSON {
		return WriteJSON(w, s)
	}
	fmt.Fprintf(w, "=== %s ===\n", title)
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Заметки:\t%d\n", s.Notes)
	fmt.Fprintf(tw, "Напоминания:\t%d\n", s.Reminders)
	fmt.Fprintf(tw, "Документы:\t%d\n", s.Documents)
	fmt.Fprintf(tw, "Закладки:\t%d\n", s.URLs)
	fmt.Fprintf(tw, "Всего:\t%d\n", s.Total)
	return tw.Flush()
}

func Bulk(w io.Writer, f Format, res item.BulkResult) error {
	if f == JSON {
		return WriteJSON(w, res)
	}
	Success(w, "Выполнено: %d", len(res.Succeeded))
	if len(res.Failed) > 0 {
		Warn(w, "С ошибками: %d", len(res.Failed))
		for _, fl := range res.Failed {
			fmt.Fprintf(w, "  • %s: %s\n", fl.Ref, fl.Error)
		}
	}
	return nil
}

// Details — краткое описание содержимого сущности для списков.
func Details(e item.Entity) string {
	switch v := e.(type) {
	case *item.Note:
		if len(v.Checklist) > 0 {
			done := 0
			for _, c := range v.Checklist {
				if c.Done {
					done++
				}
			}
			return fmt.Sprintf("чек-лист %d/%d", done, len(v.Checklist))
		}
		return oneLine(v.Content)
	case *item.Reminder:
		s := "до " + formatTime(v.DueAt) + " [" + string(v.Priority) + "]"
		if v.Completed {
			s += " выполнено"
		}
		return s
	case *item.Document:
		return fmt.Sprintf("%s, %s", v.FileName, humanSize(v.FileSize))
	case *item.URLBookmark:
		return fmt.Sprintf("%s (%d)", v.URL, v.ClickCount)
	}
	return ""
}

func fields(e item.Entity) [][2]string {
	switch v := e.(type) {
	case *item.Note:
		rows := [][2]string{{"Текст", v.Content}}
		for _, c := range v.Checklist {
			mark := "[ ]"
			if c.Done {
				mark = "[x]"
			}
			rows = append(rows, [2]string{"Пункт " + c.ID, mark + " " + c.Text})
		}
		if v.Color != "" {
			rows = append(rows, [2]string{"Цвет", v.Color})
		}
		if v.Pinned {
			rows = append(rows, [2]string{"Закреплена", "да"})
		}
		if v.ReminderAt != nil {
			rows = append(rows, [2]string{"Напомнить", formatTime(*v.ReminderAt)})
		}
		return rows
	case *item.Reminder:
		return [][2]string{
			{"Описание", v.Description},
			{"Срок", formatTime(v.DueAt)},
			{"Приоритет", string(v.Priority)},
			{"Выполнено", yesNo(v.Completed)},
		}
	case *item.Document:
		return [][2]string{
			{"Описание", v.Description},
			{"Файл", v.FileName},
			{"Тип файла", v.FileType},
			{"Размер", humanSize(v.FileSize)},
			{"Теги", strings.Join(v.Tags, ", ")},
		}
	case *item.URLBookmark:
		return [][2]string{
			{"Адрес", v.URL},
			{"Категория", v.Category},
			{"Теги", strings.Join(v.Tags, ", ")},
			{"Приоритет", string(v.Priority)},
			{"Переходов", fmt.Sprint(v.ClickCount)},
		}
	}
	return nil
}

func pinMark(e item.Entity) string {
	if n, ok := e.(*item.Note); ok && n.Pinned {
		return "📌 "
	}
	return ""
}

func labelOrPlaceholder(e item.Entity) string {
	if l := e.Label(); l != "" {
		return l
	}
	return "Без названия"
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Local().Format(dateLayout)
}

func yesNo(b bool) string {
	if b {
		return "да"
	}
	return "нет"
}

func humanSize(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(n)/float64(div), "KMGTPE"[exp])
}

func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func truncate(s string, length int) string {
	r := []rune(s)
	if len(r) <= length {
		return s
	}
	return string(r[:length-3]) + "..."
}
