package record

import (
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"keepnotes/internal/domain/item"
)

func sub(t *testing.T, parent *cobra.Command, name string) *cobra.Command {
	t.Helper()
	c, _, err := parent.Find([]string{name})
	require.NoError(t, err)
	require.Equal(t, name, c.Name())
	return c
}

func TestNoteCommands(t *testing.T) {
	note := noteCommand()
	for _, name := range []string{"list", "show", "create", "edit", "trash", "restore", "archive", "unarchive", "purge"} {
		sub(t, note, name)
	}

	create := sub(t, note, "create")
	assert.Nil(t, create.Flags().Lookup("check"))
	assert.NotNil(t, sub(t, note, "edit").Flags().Lookup("check"))
}

func TestApplyNote_Edit(t *testing.T) {
	edit := sub(t, noteCommand(), "edit")
	require.NoError(t, edit.ParseFlags([]string{"--title", "Покупки", "--item", "хлеб", "--item", "молоко", "--check", "1"}))

	n := &item.Note{Content: "старый текст", Checklist: []item.ChecklistItem{{ID: "1", Text: "сыр"}}}
	require.NoError(t, applyNote(edit, n))

	assert.Equal(t, "Покупки", n.Title)
	assert.Equal(t, "старый текст", n.Content)
	require.Len(t, n.Checklist, 3)
	assert.True(t, n.Checklist[0].Done)
	assert.Equal(t, item.ChecklistItem{ID: "3", Text: "молоко"}, n.Checklist[2])
}

func TestApplyNote_SparseChecklistIDs(t *testing.T) {
	edit := sub(t, noteCommand(), "edit")
	require.NoError(t, edit.ParseFlags([]string{"--item", "чай"}))

	n := &item.Note{Checklist: []item.ChecklistItem{{ID: "2", Text: "сыр"}, {ID: "3", Text: "хлеб"}, {ID: "x7", Text: "кофе"}}}
	require.NoError(t, applyNote(edit, n))

	require.Len(t, n.Checklist, 4)
	assert.Equal(t, "4", n.Checklist[3].ID)
	assert.NoError(t, n.Validate())
}

func TestApplyNote_UnknownChecklistItem(t *testing.T) {
	edit := sub(t, noteCommand(), "edit")
	require.NoError(t, edit.ParseFlags([]string{"--uncheck", "9"}))
	assert.Error(t, applyNote(edit, &item.Note{}))
}

func TestDocumentHasNoCreate(t *testing.T) {
	doc := documentCommand()
	for _, c := range doc.Commands() {
		assert.NotEqual(t, "create", c.Name())
	}
	sub(t, doc, "upload")
	sub(t, doc, "download")
}

func TestApplyReminder(t *testing.T) {
	create := sub(t, reminderCommand(), "create")
	require.NoError(t, create.ParseFlags([]string{"-t", "Позвонить", "--due", "2026-05-01 09:30", "-p", "high"}))

	r := &item.Reminder{Priority: item.PriorityMedium, Notified: true}
	require.NoError(t, applyReminder(create, r))
	assert.Equal(t, "Позвонить", r.Title)
	assert.Equal(t, item.PriorityHigh, r.Priority)
	assert.False(t, r.Notified)
	assert.Equal(t, time.Date(2026, 5, 1, 9, 30, 0, 0, time.Local), r.DueAt)
}

func TestParseTime(t *testing.T) {
	_, err := parseTime("2026-05-01T09:30:00Z")
	assert.NoError(t, err)
	_, err = parseTime("2026-05-01")
	assert.NoError(t, err)
	_, err = parseTime("завтра")
	assert.Error(t, err)
}
