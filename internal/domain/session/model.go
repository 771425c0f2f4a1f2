package session

import (
	"errors"
	"time"
)

var (
	ErrNotFound     = errors.New("session not found")
	ErrInvalidToken = errors.New("invalid or expired token")
)

// Session — серверная сессия пользователя. Хранится только хэш
// refresh-токена.
type Session struct {
	ID          string
	UserID      string
	RefreshHash string
	ExpiresAt   time.Time
	CreatedAt   time.Time
	Revoked     bool
}

// Active сообщает, можно ли продлевать сессию в момент now.
func (s Session) Active(now time.Time) bool {
	return !s.Revoked && now.Before(s.ExpiresAt)
}

// Tokens — пара токенов, выдаваемая при входе и обновлении.
type Tokens struct {
	Access    string
	Refresh   string
	ExpiresAt time.Time
}

// Claims — проверенное содержимое токена доступа.
type Claims struct {
	UserID    string
	SessionID string
}
