package session

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"keepnotes/internal/utils/logger"
)

func TestFileStore_RoundTripAndPermissions(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "token")
	store := NewFileStore(path)

	_, err := store.Load()
	assert.ErrorIs(t, err, ErrNoSession)

	require.NoError(t, store.Save(Tokens{Access: "a1", Refresh: "r1", Login: "ann"}))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	got, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, Tokens{Access: "a1", Refresh: "r1", Login: "ann"}, got)

	require.NoError(t, store.Clear())
	require.NoError(t, store.Clear())
	_, err = store.Load()
	assert.ErrorIs(t, err, ErrNoSession)
}

func TestFileStore_PlainTokenFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "token")
	require.NoError(t, os.WriteFile(path, []byte("raw-token\n"), 0o600))

	got, err := NewFileStore(path).Load()
	require.NoError(t, err)
	assert.Equal(t, "raw-token", got.Access)
	assert.Empty(t, got.Refresh)
}

func TestSession_RestoresFromStore(t *testing.T) {
	store := NewMemoryStore()
	require.NoError(t, store.Save(Tokens{Access: "a", Login: "bob"}))

	s := New(store, logger.Discard())
	assert.True(t, s.Authenticated())
	assert.Equal(t, "a", s.Token())
	assert.Equal(t, "bob", s.Login())
}

func TestSession_InitRotateTeardown(t *testing.T) {
	store := NewMemoryStore()
	s := New(store, logger.Discard())
	assert.False(t, s.Authenticated())

	assert.ErrorIs(t, s.Rotate("x", ""), ErrNoSession)
	assert.Error(t, s.Init(Tokens{}))

	require.NoError(t, s.Init(Tokens{Access: "a1", Refresh: "r1", Login: "ann"}))
	require.NoError(t, s.Rotate("a2", ""))
	assert.Equal(t, "a2", s.Token())
	assert.Equal(t, "r1", s.RefreshToken())
	assert.Equal(t, "ann", s.Login())

	stored, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, "a2", stored.Access)

	calls := 0
	s.OnTeardown(func() { calls++ })

	require.NoError(t, s.Teardown("unauthorized"))
	assert.False(t, s.Authenticated())
	assert.Equal(t, 1, calls)

	_, err = store.Load()
	assert.ErrorIs(t, err, ErrNoSession)

	require.NoError(t, s.Teardown("logout"))
	assert.Equal(t, 2, calls)
}

func TestSession_TeardownCallbackMayReadSession(t *testing.T) {
	s := New(NewMemoryStore(), logger.Discard())
	require.NoError(t, s.Init(Tokens{Access: "a"}))

	var seen string
	s.OnTeardown(func() { seen = s.Token() + "!" })
	require.NoError(t, s.Teardown("logout"))
	assert.Equal(t, "!", seen)
}
