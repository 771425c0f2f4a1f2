package cache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"keepnotes/internal/infrastructure/migration"
)

// Store хранит последний успешный список каждого типа целиком.
type Store interface {
	Get(ctx context.Context, kind string) ([]byte, bool, error)
	Put(ctx context.Context, kind string, payload []byte) error
	Close() error
}

type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore применяет миграции и открывает базу.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	if err := migration.NewMigration(migration.SQLiteURL(path), migration.DefaultEngine).Up(); err != nil {
		return nil, fmt.Errorf("ошибка миграции кэша: %w", err)
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("ошибка открытия базы данных: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ошибка открытия базы данных: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Get(ctx context.Context, kind string) ([]byte, bool, error) {
	var payload []byte
	err := s.db.QueryRowContext(ctx, `SELECT payload FROM fallback_cache WHERE kind = ?`, kind).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("ошибка чтения кэша: %w", err)
	}
	return payload, true, nil
}

// Put перезаписывает запись целиком.
func (s *SQLiteStore) Put(ctx context.Context, kind string, payload []byte) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO fallback_cache (kind, payload, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(kind) DO UPDATE SET payload = excluded.payload, updated_at = excluded.updated_at
	`, kind, payload, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("ошибка сохранения кэша: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// MemoryStore — кэш на время жизни процесса, когда SQLite недоступен.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string][]byte
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[string][]byte)}
}

func (m *MemoryStore) Get(_ context.Context, kind string) ([]byte, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	payload, ok := m.entries[kind]
	if !ok {
		return nil, false, nil
	}
	return append([]byte(nil), payload...), true, nil
}

func (m *MemoryStore) Put(_ context.Context, kind string, payload []byte) error {
	m.mu.Lock()
	m.entries[kind] = append([]byte(nil), payload...)
	m.mu.Unlock()
	return nil
}

func (m *MemoryStore) Close() error {
	return nil
}
