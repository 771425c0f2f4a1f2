package session

import (
	"context"
	"time"
)

type Repository interface {
	Create(ctx context.Context, s Session) error
	Get(ctx context.Context, id string) (Session, error)
	FindByRefresh(ctx context.Context, refreshHash string) (Session, error)
	Rotate(ctx context.Context, id, refreshHash string, expiresAt time.Time) error
	Revoke(ctx context.Context, id string) error
	RevokeAll(ctx context.Context, userID string) (int, error)
}
