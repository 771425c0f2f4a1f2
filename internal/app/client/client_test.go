package client

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"keepnotes/internal/app/client/api"
	"keepnotes/internal/app/client/cache"
	"keepnotes/internal/app/client/config"
	"keepnotes/internal/app/client/session"
	serverAPI "keepnotes/internal/app/server/api"
	serverConfig "keepnotes/internal/app/server/config"
	"keepnotes/internal/domain/item"
	"keepnotes/internal/domain/user"
	"keepnotes/internal/infrastructure/storage/memory"
	"keepnotes/internal/utils/logger"
)

var testNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

type fixture struct {
	app   *App
	srv   *httptest.Server
	cache *cache.Cache
}

func newFixture(t *testing.T, h http.HandlerFunc) *fixture {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	cfg := &config.Config{
		ServerAddress:     srv.URL,
		ConfigDir:         t.TempDir(),
		RequestTimeout:    2 * time.Second,
		UploadMaxAttempts: 3,
		UploadBackoff:     time.Millisecond,
	}
	c := cache.New(cache.NewMemoryStore(), logger.Discard())
	store := session.NewMemoryStore()
	require.NoError(t, store.Save(session.Tokens{Access: "tok", Refresh: "ref", Login: "ann"}))

	app, err := New(cfg, logger.Discard(), WithSessionStore(store), WithCache(c), WithClock(func() time.Time { return testNow }))
	require.NoError(t, err)
	return &fixture{app: app, srv: srv, cache: c}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func note(id, state string) map[string]any {
	return map[string]any{"id": id, "title": "n" + id, "lifecycleState": state}
}

func TestCollection_LoadFallsBackToCache(t *testing.T) {
	var down atomic.Bool
	f := newFixture(t, func(w http.ResponseWriter, r *http.Request) {
		if down.Load() {
			writeJSON(w, http.StatusBadGateway, map[string]string{"message": "upstream down"})
			return
		}
		writeJSON(w, http.StatusOK, []any{note("1", "active"), note("2", "active")})
	})
	ctx := context.Background()

	items, cached, err := f.app.Notes.Load(ctx, item.StateActive)
	require.NoError(t, err)
	assert.False(t, cached)
	assert.Len(t, items, 2)

	down.Store(true)
	items, cached, err = f.app.Notes.Load(ctx, item.StateActive)
	require.NoError(t, err)
	assert.True(t, cached)
	assert.Len(t, items, 2)
	assert.Equal(t, 2, f.app.Notes.View(item.StateActive).Len())

	// Корзина из кэша не восстанавливается.
	_, _, err = f.app.Notes.Load(ctx, item.StateTrashed)
	assert.Error(t, err)
}

func TestCollection_NetworkFailureUsesCache(t *testing.T) {
	f := newFixture(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, []any{note("1", "active")})
	})
	ctx := context.Background()

	_, _, err := f.app.Notes.Load(ctx, item.StateActive)
	require.NoError(t, err)

	f.srv.Close()
	items, cached, err := f.app.Notes.Load(ctx, item.StateActive)
	require.NoError(t, err)
	assert.True(t, cached)
	require.Len(t, items, 1)
	assert.Equal(t, "1", items[0].ID)
}

func TestCollection_ClientErrorIsNotMasked(t *testing.T) {
	var missing atomic.Bool
	f := newFixture(t, func(w http.ResponseWriter, r *http.Request) {
		if missing.Load() {
			writeJSON(w, http.StatusNotFound, map[string]string{"message": "no such route"})
			return
		}
		writeJSON(w, http.StatusOK, []any{note("1", "active")})
	})
	ctx := context.Background()

	_, _, err := f.app.Notes.Load(ctx, item.StateActive)
	require.NoError(t, err)

	missing.Store(true)
	_, cached, err := f.app.Notes.Load(ctx, item.StateActive)
	assert.Equal(t, http.StatusNotFound, api.StatusCode(err))
	assert.False(t, cached)
}

func TestCollection_AuthFailureIsNotMasked(t *testing.T) {
	var unauthorized atomic.Bool
	f := newFixture(t, func(w http.ResponseWriter, r *http.Request) {
		if unauthorized.Load() {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "token expired"})
			return
		}
		writeJSON(w, http.StatusOK, []any{note("1", "active")})
	})
	ctx := context.Background()

	_, _, err := f.app.Notes.Load(ctx, item.StateActive)
	require.NoError(t, err)

	unauthorized.Store(true)
	_, _, err = f.app.Notes.Load(ctx, item.StateActive)
	require.Error(t, err)
	assert.True(t, errors.Is(err, api.ErrAuthenticationFailed))
	assert.False(t, f.app.IsAuthenticated())
}

func TestCollection_TrashMovesBetweenViews(t *testing.T) {
	f := newFixture(t, func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodGet && r.URL.Query().Get("status") == "trashed":
			writeJSON(w, http.StatusOK, []any{})
		case r.Method == http.MethodGet:
			writeJSON(w, http.StatusOK, []any{note("1", "active"), note("2", "active")})
		case r.Method == http.MethodDelete && r.URL.Path == "/notes/1":
			writeJSON(w, http.StatusOK, map[string]any{"note": note("1", "trashed")})
		default:
			http.NotFound(w, r)
		}
	})
	ctx := context.Background()

	_, _, err := f.app.Notes.Load(ctx, item.StateActive)
	require.NoError(t, err)
	_, _, err = f.app.Notes.Load(ctx, item.StateTrashed)
	require.NoError(t, err)

	got, err := f.app.Notes.Trash(ctx, "1")
	require.NoError(t, err)
	assert.Equal(t, item.StateTrashed, got.State)

	assert.Equal(t, 1, f.app.Notes.View(item.StateActive).Len())
	trashed, ok := f.app.Notes.View(item.StateTrashed).Get("1")
	require.True(t, ok)
	assert.Equal(t, item.StateTrashed, trashed.State)
}

func TestCollection_ApplyLocatesAcrossViews(t *testing.T) {
	var unarchived atomic.Bool
	f := newFixture(t, func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodGet && r.URL.Query().Get("status") == "archived":
			writeJSON(w, http.StatusOK, []any{note("7", "archived")})
		case r.Method == http.MethodGet:
			writeJSON(w, http.StatusOK, []any{})
		case r.Method == http.MethodPut && r.URL.Path == "/notes/7/unarchive":
			unarchived.Store(true)
			writeJSON(w, http.StatusOK, map[string]string{"message": "Note unarchived"})
		default:
			http.NotFound(w, r)
		}
	})
	ctx := context.Background()

	got, err := f.app.Notes.Unarchive(ctx, "7")
	require.NoError(t, err)
	assert.True(t, unarchived.Load())
	assert.Equal(t, item.StateActive, got.State)
	assert.Nil(t, got.ArchivedAt)

	_, ok := f.app.Notes.View(item.StateArchived).Get("7")
	assert.False(t, ok)
	_, ok = f.app.Notes.View(item.StateActive).Get("7")
	assert.True(t, ok)
}

func TestCollection_RestoreFromArchiveIsRejectedLocally(t *testing.T) {
	var calls atomic.Int32
	f := newFixture(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			calls.Add(1)
		}
		if r.URL.Query().Get("status") == "archived" {
			writeJSON(w, http.StatusOK, []any{note("7", "archived")})
			return
		}
		writeJSON(w, http.StatusOK, []any{})
	})

	_, err := f.app.Notes.Restore(context.Background(), "7")
	var te *item.TransitionError
	require.ErrorAs(t, err, &te)
	assert.Zero(t, calls.Load())
}

func TestCollection_UnknownID(t *testing.T) {
	f := newFixture(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, []any{})
	})
	_, err := f.app.Notes.Trash(context.Background(), "404")
	assert.ErrorIs(t, err, item.ErrNotFound)
}

func TestCollection_CreateRollsBackOnFailure(t *testing.T) {
	var posts atomic.Int32
	f := newFixture(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			posts.Add(1)
			writeJSON(w, http.StatusInternalServerError, map[string]string{"message": "boom"})
			return
		}
		writeJSON(w, http.StatusOK, []any{})
	})
	ctx := context.Background()
	_, _, err := f.app.Notes.Load(ctx, item.StateActive)
	require.NoError(t, err)

	_, err = f.app.Notes.Create(ctx, &item.Note{Title: "draft"})
	require.Error(t, err)
	assert.Equal(t, int32(1), posts.Load())
	assert.Zero(t, f.app.Notes.View(item.StateActive).Len())
}

func TestCollection_CreateValidatesDraft(t *testing.T) {
	f := newFixture(t, func(w http.ResponseWriter, r *http.Request) {
		t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
	})
	_, err := f.app.URLs.Create(context.Background(), &item.URLBookmark{URL: "not a url"})
	assert.ErrorIs(t, err, item.ErrInvalidData)
}

func TestCollection_UpdateSendsChangedFields(t *testing.T) {
	var body map[string]any
	f := newFixture(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			writeJSON(w, http.StatusOK, []any{note("1", "active")})
		case http.MethodPut:
			raw, _ := io.ReadAll(r.Body)
			_ = json.Unmarshal(raw, &body)
			writeJSON(w, http.StatusOK, map[string]any{"id": "1", "title": "renamed", "lifecycleState": "active"})
		}
	})
	ctx := context.Background()

	got, err := f.app.Notes.Update(ctx, "1", func(n *item.Note) error {
		n.Title = "renamed"
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, "renamed", got.Title)
	assert.Equal(t, map[string]any{"title": "renamed"}, body)
}

// newBackendFixture поднимает эталонный сервер и регистрирует пользователя.
func newBackendFixture(t *testing.T) *App {
	t.Helper()
	log := logger.Discard()
	srvCfg, err := serverConfig.Load(viper.New())
	require.NoError(t, err)
	srv := httptest.NewServer(serverAPI.New(srvCfg, memory.New(log), log))
	t.Cleanup(srv.Close)

	cfg := &config.Config{
		ServerAddress:     srv.URL,
		ConfigDir:         t.TempDir(),
		RequestTimeout:    5 * time.Second,
		UploadMaxAttempts: 1,
	}
	app, err := New(cfg, log, WithSessionStore(session.NewMemoryStore()), WithCache(cache.New(cache.NewMemoryStore(), log)))
	require.NoError(t, err)

	_, err = app.Register(context.Background(), user.RegisterRequest{Username: "ann", Email: "ann@example.com", Password: "secret123"})
	require.NoError(t, err)
	return app
}

func TestCollection_UpdateClearsFields(t *testing.T) {
	ctx := context.Background()
	app := newBackendFixture(t)

	remind := time.Now().Add(time.Hour).UTC().Truncate(time.Second)
	n, err := app.Notes.Create(ctx, &item.Note{Title: "A", Color: "red", ReminderAt: &remind})
	require.NoError(t, err)
	require.NotNil(t, n.ReminderAt)

	got, err := app.Notes.Update(ctx, n.ID, func(e *item.Note) error {
		e.Color = ""
		e.ReminderAt = nil
		return nil
	})
	require.NoError(t, err)
	assert.Empty(t, got.Color)
	assert.Nil(t, got.ReminderAt)

	items, cached, err := app.Notes.Load(ctx, item.StateActive)
	require.NoError(t, err)
	assert.False(t, cached)
	require.Len(t, items, 1)
	assert.Empty(t, items[0].Color)
	assert.Nil(t, items[0].ReminderAt)
	assert.Equal(t, "A", items[0].Title)
}

func TestCollection_PinRequiresActiveNote(t *testing.T) {
	ctx := context.Background()
	app := newBackendFixture(t)

	n, err := app.Notes.Create(ctx, &item.Note{Title: "A", Pinned: true})
	require.NoError(t, err)
	_, err = app.Notes.Trash(ctx, n.ID)
	require.NoError(t, err)

	_, err = app.Notes.Update(ctx, n.ID, func(e *item.Note) error {
		e.Pinned = true
		return nil
	})
	assert.ErrorIs(t, err, item.ErrInvalidData)

	trashed, ok := app.Notes.View(item.StateTrashed).Get(n.ID)
	require.True(t, ok)
	assert.False(t, trashed.Pinned)

	restored, err := app.Notes.Restore(ctx, n.ID)
	require.NoError(t, err)
	assert.False(t, restored.Pinned)
}

func TestApp_UploadRetriesServerErrors(t *testing.T) {
	var posts atomic.Int32
	f := newFixture(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			writeJSON(w, http.StatusOK, []any{})
			return
		}
		if posts.Add(1) < 3 {
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"message": "busy"})
			return
		}
		var d item.Document
		require.NoError(t, json.NewDecoder(r.Body).Decode(&d))
		assert.Empty(t, d.ID)
		d.ID = "doc-1"
		d.State = item.StateActive
		writeJSON(w, http.StatusCreated, d)
	})

	path := filepath.Join(t.TempDir(), "report.txt")
	require.NoError(t, os.WriteFile(path, []byte("hello"), 0600))

	got, err := f.app.UploadFile(context.Background(), path, nil)
	require.NoError(t, err)
	assert.Equal(t, "doc-1", got.ID)
	assert.Equal(t, "report.txt", got.FileName)
	assert.Equal(t, int64(5), got.FileSize)
	assert.Equal(t, int32(3), posts.Load())
}

func TestApp_UploadDoesNotRetryClientErrors(t *testing.T) {
	var posts atomic.Int32
	f := newFixture(t, func(w http.ResponseWriter, r *http.Request) {
		posts.Add(1)
		writeJSON(w, http.StatusRequestEntityTooLarge, map[string]string{"message": "too large"})
	})

	path := filepath.Join(t.TempDir(), "big.bin")
	require.NoError(t, os.WriteFile(path, []byte{1, 2, 3}, 0600))

	_, err := f.app.UploadFile(context.Background(), path, nil)
	require.Error(t, err)
	assert.Equal(t, "too large", err.Error())
	assert.Equal(t, int32(1), posts.Load())
}

func TestApp_DueRemindersAndMarkNotified(t *testing.T) {
	var marked atomic.Bool
	f := newFixture(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			writeJSON(w, http.StatusOK, []any{
				map[string]any{"id": "1", "title": "past", "dueAt": testNow.Add(-time.Hour), "lifecycleState": "active"},
				map[string]any{"id": "2", "title": "future", "dueAt": testNow.Add(time.Hour), "lifecycleState": "active"},
				map[string]any{"id": "3", "title": "done", "dueAt": testNow.Add(-time.Hour), "completed": true, "lifecycleState": "active"},
			})
		case http.MethodPut:
			var rem item.Reminder
			require.NoError(t, json.NewDecoder(r.Body).Decode(&rem))
			marked.Store(rem.Notified)
			writeJSON(w, http.StatusOK, rem)
		}
	})
	ctx := context.Background()

	due, err := f.app.DueReminders(ctx)
	require.NoError(t, err)
	require.Len(t, due, 1)
	assert.Equal(t, "1", due[0].ID)

	r, err := f.app.MarkNotified(ctx, "1")
	require.NoError(t, err)
	assert.True(t, r.Notified)
	assert.True(t, marked.Load())
}

func TestApp_EmptyTrashClearsTrashViews(t *testing.T) {
	f := newFixture(t, func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodDelete && r.URL.Path == "/trash/empty":
			writeJSON(w, http.StatusOK, map[string]any{"message": "Trash emptied", "deleted": 1})
		default:
			writeJSON(w, http.StatusOK, []any{note("1", "trashed")})
		}
	})
	ctx := context.Background()
	_, _, err := f.app.Notes.Load(ctx, item.StateTrashed)
	require.NoError(t, err)

	res, err := f.app.EmptyTrash(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Deleted)
	assert.Zero(t, f.app.Notes.View(item.StateTrashed).Len())
}

func TestApp_OpenURLRecordsClick(t *testing.T) {
	f := newFixture(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			writeJSON(w, http.StatusOK, []any{map[string]any{"id": "u1", "url": "https://go.dev", "lifecycleState": "active", "clickCount": 1}})
		case http.MethodPost:
			assert.Equal(t, "/urls/u1/click", r.URL.Path)
			writeJSON(w, http.StatusOK, map[string]any{"id": "u1", "url": "https://go.dev", "lifecycleState": "active", "clickCount": 2})
		}
	})

	addr, err := f.app.OpenURL(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, "https://go.dev", addr)
	u, ok := f.app.URLs.View(item.StateActive).Get("u1")
	require.True(t, ok)
	assert.Equal(t, 2, u.ClickCount)
}

func TestApp_StatusReportsExpiry(t *testing.T) {
	f := newFixture(t, func(w http.ResponseWriter, r *http.Request) {})

	exp := testNow.Add(-time.Minute)
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(exp),
	}).SignedString([]byte("k"))
	require.NoError(t, err)
	require.NoError(t, f.app.Session().Init(session.Tokens{Access: token, Login: "ann"}))

	st := f.app.Status()
	assert.True(t, st.Authenticated)
	assert.Equal(t, "ann", st.Login)
	require.NotNil(t, st.ExpiresAt)
	assert.True(t, st.Expired)
}

func TestApp_RequiresSession(t *testing.T) {
	f := newFixture(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"message": "bye"})
	})
	require.NoError(t, f.app.Logout(context.Background(), false))

	_, err := f.app.TrashStats(context.Background())
	assert.ErrorIs(t, err, ErrNotAuthenticated)
}
