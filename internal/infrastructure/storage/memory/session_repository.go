package memory

import (
	"context"
	"sync"
	"time"

	"golang.org/x/exp/slog"

	"keepnotes/internal/domain/session"
)

type SessionRepository struct {
	mu       sync.RWMutex
	sessions map[string]session.Session
	log      *slog.Logger
}

func NewSessionRepository(log *slog.Logger) *SessionRepository {
	return &SessionRepository{
		sessions: make(map[string]session.Session),
		log:      log.With("component", "session_repository"),
	}
}

func (r *SessionRepository) Create(_ context.Context, s session.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[s.ID] = s
	return nil
}

func (r *SessionRepository) Get(_ context.Context, id string) (session.Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.sessions[id]
	if !ok {
		return session.Session{}, session.ErrNotFound
	}
	return s, nil
}

func (r *SessionRepository) FindByRefresh(_ context.Context, refreshHash string) (session.Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, s := range r.sessions {
		if s.RefreshHash == refreshHash {
			return s, nil
		}
	}
	return session.Session{}, session.ErrNotFound
}

func (r *SessionRepository) Rotate(_ context.Context, id, refreshHash string, expiresAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.sessions[id]
	if !ok {
		return session.ErrNotFound
	}
	s.RefreshHash = refreshHash
	s.ExpiresAt = expiresAt
	r.sessions[id] = s
	return nil
}

func (r *SessionRepository) Revoke(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.sessions[id]
	if !ok {
		return session.ErrNotFound
	}
	s.Revoked = true
	r.sessions[id] = s
	return nil
}

// RevokeAll отзывает все активные сессии пользователя и возвращает их число.
func (r *SessionRepository) RevokeAll(_ context.Context, userID string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	n := 0
	for id, s := range r.sessions {
		if s.UserID != userID || s.Revoked {
			continue
		}
		s.Revoked = true
		r.sessions[id] = s
		n++
	}
	r.log.Debug("sessions revoked", slog.String("user_id", userID), slog.Int("count", n))
	return n, nil
}
