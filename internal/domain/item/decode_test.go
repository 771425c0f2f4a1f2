package item

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeList_NormalizesAlternateShapes(t *testing.T) {
	data := []byte(`[
		{"_id": "m1", "title": "mongo", "content": "x"},
		{"id": "n2", "title": "canon", "lifecycleState": "archived", "archivedAt": "2025-01-01T00:00:00Z"},
		{"_id": "m3", "title": "legacy", "trashed": true},
		{"id": "n4", "_id": "ignored", "title": "both", "lifecycleState": "active", "trashedAt": "2025-01-01T00:00:00Z"}
	]`)

	notes, err := DecodeList[*Note](data)
	require.NoError(t, err)
	require.Len(t, notes, 4)

	assert.Equal(t, "m1", notes[0].ID)
	assert.Equal(t, StateActive, notes[0].State)

	assert.Equal(t, "n2", notes[1].ID)
	assert.Equal(t, StateArchived, notes[1].State)
	require.NotNil(t, notes[1].ArchivedAt)

	assert.Equal(t, "m3", notes[2].ID)
	assert.Equal(t, StateTrashed, notes[2].State)

	assert.Equal(t, "n4", notes[3].ID)
	assert.Nil(t, notes[3].TrashedAt, "active records never carry trashedAt")
}

func TestDecodeList_Empty(t *testing.T) {
	for _, in := range []string{"", "null", "  ", "[]"} {
		out, err := DecodeList[*Reminder]([]byte(in))
		require.NoError(t, err, in)
		assert.NotNil(t, out)
		assert.Empty(t, out)
	}
}

func TestDecodeList_Malformed(t *testing.T) {
	_, err := DecodeList[*Note]([]byte(`{"id": "not-an-array"}`))
	assert.Error(t, err)

	_, err = DecodeList[*Note]([]byte(`[null]`))
	assert.ErrorIs(t, err, ErrInvalidData)
}

func TestDecode_Single(t *testing.T) {
	u, err := Decode[*URLBookmark]([]byte(`{"_id":"u1","url":"https://go.dev","clickCount":3}`))
	require.NoError(t, err)
	assert.Equal(t, "u1", u.ID)
	assert.Equal(t, 3, u.ClickCount)
	assert.Equal(t, StateActive, u.State)
}

func TestClone_IsDeep(t *testing.T) {
	now := time.Now()
	n := &Note{
		Title:     "A",
		Checklist: []ChecklistItem{{ID: "c1", Text: "milk"}},
	}
	Init(n, "1", now)
	n.TrashedAt = &now

	c := n.Clone()
	c.Checklist[0].Done = true
	*c.TrashedAt = now.Add(time.Hour)
	c.Title = "B"

	assert.False(t, n.Checklist[0].Done)
	assert.Equal(t, now, *n.TrashedAt)
	assert.Equal(t, "A", n.Title)
}

func TestFilter(t *testing.T) {
	items := []*Note{
		{Base: Base{ID: "1", State: StateActive}},
		{Base: Base{ID: "2", State: StateTrashed}},
		{Base: Base{ID: "3", State: StateActive}},
	}
	out := Filter(items, StateActive)
	require.Len(t, out, 2)
	assert.Equal(t, "1", out[0].ID)
	assert.Equal(t, "3", out[1].ID)
}
