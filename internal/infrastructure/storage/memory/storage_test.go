package memory

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/slog"

	"keepnotes/internal/domain/item"
	"keepnotes/internal/domain/session"
	"keepnotes/internal/domain/user"
)

func TestItems_StoresCopies(t *testing.T) {
	ctx := context.Background()
	repo := NewItems[*item.Note](item.KindNote, slog.Default())

	n := &item.Note{Base: item.Base{ID: "n1", State: item.StateActive}, Title: "draft"}
	require.NoError(t, repo.Save(ctx, "ann", n))
	n.Title = "changed outside"

	got, err := repo.Get(ctx, "ann", "n1")
	require.NoError(t, err)
	assert.Equal(t, "draft", got.Title)

	got.Title = "changed again"
	again, err := repo.Get(ctx, "ann", "n1")
	require.NoError(t, err)
	assert.Equal(t, "draft", again.Title)
}

func TestItems_OwnerIsolation(t *testing.T) {
	ctx := context.Background()
	repo := NewItems[*item.Note](item.KindNote, slog.Default())
	require.NoError(t, repo.Save(ctx, "ann", &item.Note{Base: item.Base{ID: "n1"}}))

	_, err := repo.Get(ctx, "bob", "n1")
	assert.ErrorIs(t, err, item.ErrNotFound)

	list, err := repo.List(ctx, "bob")
	require.NoError(t, err)
	assert.Empty(t, list)

	assert.ErrorIs(t, repo.Delete(ctx, "bob", "n1"), item.ErrNotFound)
	require.NoError(t, repo.Delete(ctx, "ann", "n1"))
	assert.ErrorIs(t, repo.Delete(ctx, "ann", "n1"), item.ErrNotFound)
}

func TestItems_RejectsEmptyID(t *testing.T) {
	repo := NewItems[*item.URLBookmark](item.KindURL, slog.Default())
	assert.Error(t, repo.Save(context.Background(), "ann", &item.URLBookmark{}))
}

func TestItems_ConcurrentSave(t *testing.T) {
	ctx := context.Background()
	repo := NewItems[*item.Reminder](item.KindReminder, slog.Default())

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			id := string(rune('a' + i%26))
			_ = repo.Save(ctx, "ann", &item.Reminder{Base: item.Base{ID: id}})
			_, _ = repo.List(ctx, "ann")
		}(i)
	}
	wg.Wait()

	list, err := repo.List(ctx, "ann")
	require.NoError(t, err)
	assert.Len(t, list, 26)
}

func TestUserRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository(slog.Default())

	require.NoError(t, repo.Create(ctx, user.User{ID: "u1", Username: "Ann", Email: "ann@example.com"}))
	assert.ErrorIs(t, repo.Create(ctx, user.User{ID: "u2", Username: "ann", Email: "other@example.com"}), user.ErrAlreadyExists)
	assert.ErrorIs(t, repo.Create(ctx, user.User{ID: "u3", Username: "bob", Email: "ANN@example.com"}), user.ErrAlreadyExists)

	byName, err := repo.FindByLogin(ctx, "ann")
	require.NoError(t, err)
	assert.Equal(t, "u1", byName.ID)

	byEmail, err := repo.FindByLogin(ctx, "ann@example.com")
	require.NoError(t, err)
	assert.Equal(t, "u1", byEmail.ID)

	_, err = repo.FindByLogin(ctx, "nobody")
	assert.ErrorIs(t, err, user.ErrNotFound)

	require.NoError(t, repo.UpdatePassword(ctx, "u1", "hash"))
	u, err := repo.FindByID(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "hash", u.PasswordHash)
	assert.ErrorIs(t, repo.UpdatePassword(ctx, "missing", "hash"), user.ErrNotFound)
}

func TestSessionRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewSessionRepository(slog.Default())
	exp := time.Now().Add(time.Hour)

	require.NoError(t, repo.Create(ctx, session.Session{ID: "s1", UserID: "u1", RefreshHash: "h1", ExpiresAt: exp}))
	require.NoError(t, repo.Create(ctx, session.Session{ID: "s2", UserID: "u1", RefreshHash: "h2", ExpiresAt: exp}))
	require.NoError(t, repo.Create(ctx, session.Session{ID: "s3", UserID: "u2", RefreshHash: "h3", ExpiresAt: exp}))

	s, err := repo.FindByRefresh(ctx, "h2")
	require.NoError(t, err)
	assert.Equal(t, "s2", s.ID)

	require.NoError(t, repo.Rotate(ctx, "s2", "h2b", exp))
	_, err = repo.FindByRefresh(ctx, "h2")
	assert.ErrorIs(t, err, session.ErrNotFound)

	require.NoError(t, repo.Revoke(ctx, "s1"))
	n, err := repo.RevokeAll(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	other, err := repo.Get(ctx, "s3")
	require.NoError(t, err)
	assert.False(t, other.Revoked)
}
