package session

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

var ErrNoSession = errors.New("no active session")

// Tokens — то, что переживает перезапуск клиента.
type Tokens struct {
	Access  string `json:"access_token"`
	Refresh string `json:"refresh_token,omitempty"`
	Login   string `json:"login,omitempty"`
}

type Store interface {
	Load() (Tokens, error)
	Save(Tokens) error
	Clear() error
}

// FileStore хранит токены в файле с правами 0600.
type FileStore struct {
	path string
}

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

func (f *FileStore) Load() (Tokens, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		if os.IsNotExist(err) {
			return Tokens{}, ErrNoSession
		}
		return Tokens{}, fmt.Errorf("ошибка чтения токена: %w", err)
	}

	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return Tokens{}, ErrNoSession
	}

	var t Tokens
	if data[0] != '{' {
		// Старый формат: в файле лежит только access-токен.
		t.Access = string(data)
		return t, nil
	}
	if err := json.Unmarshal(data, &t); err != nil {
		return Tokens{}, fmt.Errorf("ошибка разбора файла токена: %w", err)
	}
	if t.Access == "" {
		return Tokens{}, ErrNoSession
	}
	return t, nil
}

func (f *FileStore) Save(t Tokens) error {
	if err := os.MkdirAll(filepath.Dir(f.path), 0o700); err != nil {
		return fmt.Errorf("ошибка создания директории: %w", err)
	}
	data, err := json.Marshal(t)
	if err != nil {
		return fmt.Errorf("ошибка сериализации токена: %w", err)
	}
	if err := os.WriteFile(f.path, data, 0o600); err != nil {
		return fmt.Errorf("ошибка сохранения токена: %w", err)
	}
	return nil
}

func (f *FileStore) Clear() error {
	if err := os.Remove(f.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("ошибка удаления токена: %w", err)
	}
	return nil
}

// MemoryStore — хранилище на время жизни процесса.
type MemoryStore struct {
	mu     sync.Mutex
	tokens *Tokens
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (m *MemoryStore) Load() (Tokens, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.tokens == nil {
		return Tokens{}, ErrNoSession
	}
	return *m.tokens, nil
}

func (m *MemoryStore) Save(t Tokens) error {
	m.mu.Lock()
	m.tokens = &t
	m.mu.Unlock()
	return nil
}

func (m *MemoryStore) Clear() error {
	m.mu.Lock()
	m.tokens = nil
	m.mu.Unlock()
	return nil
}
