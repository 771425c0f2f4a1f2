package user

import (
	"context"
)

// Repository хранит пользователей. Поиск по логину сравнивает и имя, и email
// без учета регистра.
type Repository interface {
	Create(ctx context.Context, u User) error
	FindByLogin(ctx context.Context, emailOrUsername string) (User, error)
	FindByID(ctx context.Context, id string) (User, error)
	UpdatePassword(ctx context.Context, id, passwordHash string) error
}
