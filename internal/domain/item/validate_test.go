package item

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		entity  Entity
		wantErr bool
	}{
		{"note with title", &Note{Title: "A"}, false},
		{"empty note", &Note{}, true},
		{"checklist ok", &Note{Checklist: []ChecklistItem{{ID: "a", Text: "x"}, {ID: "b", Text: "y"}}}, false},
		{"checklist duplicate id", &Note{Checklist: []ChecklistItem{{ID: "a", Text: "x"}, {ID: "a", Text: "y"}}}, true},
		{"checklist empty text", &Note{Checklist: []ChecklistItem{{ID: "a", Text: " "}}}, true},
		{"checklist missing id", &Note{Checklist: []ChecklistItem{{Text: "x"}}}, true},
		{"pinned draft", &Note{Title: "A", Pinned: true}, false},
		{"pinned active", &Note{Base: Base{State: StateActive}, Title: "A", Pinned: true}, false},
		{"pinned trashed", &Note{Base: Base{State: StateTrashed}, Title: "A", Pinned: true}, true},
		{"pinned archived", &Note{Base: Base{State: StateArchived}, Title: "A", Pinned: true}, true},
		{"reminder ok", &Reminder{Title: "call", DueAt: time.Now(), Priority: PriorityHigh}, false},
		{"reminder without date", &Reminder{Title: "call"}, true},
		{"reminder bad priority", &Reminder{Title: "call", DueAt: time.Now(), Priority: "urgent"}, true},
		{"document by file name", &Document{FileName: "a.pdf"}, false},
		{"document empty", &Document{}, true},
		{"url ok", &URLBookmark{URL: "https://go.dev/doc"}, false},
		{"url relative", &URLBookmark{URL: "/doc"}, true},
		{"url empty", &URLBookmark{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.entity.Validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidData)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestReminderDue(t *testing.T) {
	now := time.Now()
	r := &Reminder{Base: Base{State: StateActive}, Title: "x", DueAt: now.Add(-time.Minute)}
	assert.True(t, r.Due(now))

	r.Notified = true
	assert.False(t, r.Due(now))

	r.Notified = false
	r.DueAt = now.Add(time.Minute)
	assert.False(t, r.Due(now))

	r.DueAt = now.Add(-time.Minute)
	r.State = StateArchived
	assert.False(t, r.Due(now))
}
