package item_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/slog"

	"keepnotes/internal/domain/item"
	"keepnotes/internal/infrastructure/storage/memory"
)

func newNoteService() *item.Service[*item.Note] {
	repo := memory.NewItems[*item.Note](item.KindNote, slog.Default())
	return item.NewService[*item.Note](item.KindNote, repo, slog.Default())
}

func TestService_CreateIgnoresLifecycleFields(t *testing.T) {
	ctx := context.Background()
	svc := newNoteService()

	n, err := svc.Create(ctx, "ann", []byte(`{"id":"mine","title":"t","lifecycleState":"trashed","pinned":true}`))
	require.NoError(t, err)
	assert.NotEqual(t, "mine", n.ID)
	assert.Equal(t, item.StateActive, n.State)
	assert.Nil(t, n.TrashedAt)
	assert.True(t, n.Pinned)
}

func TestService_CreateRejectsInvalid(t *testing.T) {
	svc := newNoteService()

	_, err := svc.Create(context.Background(), "ann", []byte(`{"title":"t","checklist":[{"id":"1","text":""}]}`))
	assert.ErrorIs(t, err, item.ErrInvalidData)

	_, err = svc.Create(context.Background(), "ann", []byte(`not json`))
	assert.ErrorIs(t, err, item.ErrInvalidData)
}

func TestService_UpdateMergesFields(t *testing.T) {
	ctx := context.Background()
	svc := newNoteService()
	n, err := svc.Create(ctx, "ann", []byte(`{"title":"t","content":"body"}`))
	require.NoError(t, err)

	updated, err := svc.Update(ctx, "ann", n.ID, []byte(`{"title":"new","lifecycleState":"archived","id":"other"}`))
	require.NoError(t, err)
	assert.Equal(t, "new", updated.Title)
	assert.Equal(t, "body", updated.Content)
	assert.Equal(t, n.ID, updated.ID)
	assert.Equal(t, item.StateActive, updated.State)
	assert.Equal(t, n.CreatedAt, updated.CreatedAt)
}

func TestService_UpdateNullClearsField(t *testing.T) {
	ctx := context.Background()
	svc := newNoteService()
	n, err := svc.Create(ctx, "ann", []byte(`{"title":"t","color":"red","reminderAt":"2026-03-01T12:00:00Z","checklist":[{"id":"1","text":"x"}]}`))
	require.NoError(t, err)
	require.NotNil(t, n.ReminderAt)

	updated, err := svc.Update(ctx, "ann", n.ID, []byte(`{"color":null,"reminderAt":null,"checklist":null}`))
	require.NoError(t, err)
	assert.Empty(t, updated.Color)
	assert.Nil(t, updated.ReminderAt)
	assert.Empty(t, updated.Checklist)
	assert.Equal(t, "t", updated.Title)

	stored, err := svc.Get(ctx, "ann", n.ID)
	require.NoError(t, err)
	assert.Empty(t, stored.Color)
}

func TestService_UpdateRejectsPinOutsideActive(t *testing.T) {
	ctx := context.Background()
	svc := newNoteService()
	n, err := svc.Create(ctx, "ann", []byte(`{"title":"t","pinned":true}`))
	require.NoError(t, err)
	_, err = svc.Transition(ctx, "ann", n.ID, item.ActionTrash)
	require.NoError(t, err)

	_, err = svc.Update(ctx, "ann", n.ID, []byte(`{"pinned":true}`))
	assert.ErrorIs(t, err, item.ErrInvalidData)

	restored, err := svc.Transition(ctx, "ann", n.ID, item.ActionRestore)
	require.NoError(t, err)
	assert.False(t, restored.Pinned)

	pinned, err := svc.Update(ctx, "ann", n.ID, []byte(`{"pinned":true}`))
	require.NoError(t, err)
	assert.True(t, pinned.Pinned)
}

func TestService_TrashRestorePurge(t *testing.T) {
	ctx := context.Background()
	svc := newNoteService()
	n, err := svc.Create(ctx, "ann", []byte(`{"title":"t","pinned":true}`))
	require.NoError(t, err)

	trashed, err := svc.Transition(ctx, "ann", n.ID, item.ActionTrash)
	require.NoError(t, err)
	assert.Equal(t, item.StateTrashed, trashed.State)
	assert.False(t, trashed.Pinned)

	active, err := svc.List(ctx, "ann", item.StateActive)
	require.NoError(t, err)
	assert.Empty(t, active)

	_, err = svc.Transition(ctx, "ann", n.ID, item.ActionTrash)
	assert.ErrorIs(t, err, item.ErrInvalidTransition)

	restored, err := svc.Transition(ctx, "ann", n.ID, item.ActionRestore)
	require.NoError(t, err)
	assert.Equal(t, item.StateActive, restored.State)
	assert.Nil(t, restored.TrashedAt)

	_, err = svc.Transition(ctx, "ann", n.ID, item.ActionPurge)
	assert.ErrorIs(t, err, item.ErrInvalidTransition)

	_, err = svc.Transition(ctx, "ann", n.ID, item.ActionTrash)
	require.NoError(t, err)
	_, err = svc.Transition(ctx, "ann", n.ID, item.ActionPurge)
	require.NoError(t, err)
	_, err = svc.Get(ctx, "ann", n.ID)
	assert.ErrorIs(t, err, item.ErrNotFound)
}

func TestService_SearchAndPurgeTrashed(t *testing.T) {
	ctx := context.Background()
	svc := newNoteService()
	for _, body := range []string{`{"title":"Groceries"}`, `{"title":"groceries list"}`, `{"title":"other"}`} {
		_, err := svc.Create(ctx, "ann", []byte(body))
		require.NoError(t, err)
	}

	found, err := svc.Search(ctx, "ann", "GROCER", "")
	require.NoError(t, err)
	require.Len(t, found, 2)

	_, err = svc.Transition(ctx, "ann", found[0].ID, item.ActionTrash)
	require.NoError(t, err)

	active, err := svc.Search(ctx, "ann", "grocer", item.StateActive)
	require.NoError(t, err)
	assert.Len(t, active, 1)

	n, err := svc.PurgeTrashed(ctx, "ann")
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	all, err := svc.Search(ctx, "ann", "", "")
	require.NoError(t, err)
	assert.Len(t, all, 2)
}
