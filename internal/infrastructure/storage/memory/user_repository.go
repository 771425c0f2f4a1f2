package memory

import (
	"context"
	"strings"
	"sync"

	"golang.org/x/exp/slog"

	"keepnotes/internal/domain/user"
)

type UserRepository struct {
	mu    sync.RWMutex
	users map[string]user.User
	log   *slog.Logger
}

func NewUserRepository(log *slog.Logger) *UserRepository {
	return &UserRepository{
		users: make(map[string]user.User),
		log:   log.With("component", "user_repository"),
	}
}

// Create сохраняет пользователя. Имя и email уникальны без учета регистра.
func (r *UserRepository) Create(_ context.Context, u user.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.users {
		if strings.EqualFold(existing.Username, u.Username) || strings.EqualFold(existing.Email, u.Email) {
			return user.ErrAlreadyExists
		}
	}
	r.users[u.ID] = u
	return nil
}

// FindByLogin ищет пользователя по имени или email.
func (r *UserRepository) FindByLogin(_ context.Context, login string) (user.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, u := range r.users {
		if strings.EqualFold(u.Username, login) || strings.EqualFold(u.Email, login) {
			return u, nil
		}
	}
	return user.User{}, user.ErrNotFound
}

func (r *UserRepository) FindByID(_ context.Context, id string) (user.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.users[id]
	if !ok {
		return user.User{}, user.ErrNotFound
	}
	return u, nil
}

func (r *UserRepository) UpdatePassword(_ context.Context, id, passwordHash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.users[id]
	if !ok {
		return user.ErrNotFound
	}
	u.PasswordHash = passwordHash
	r.users[id] = u
	r.log.Debug("password updated", slog.String("user_id", id))
	return nil
}
