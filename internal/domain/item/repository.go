package item

import "context"

// Repository хранит сущности одного типа в разрезе владельцев.
// Get возвращает ErrNotFound, если сущности нет или она чужая.
type Repository[E Record[E]] interface {
	List(ctx context.Context, owner string) ([]E, error)
	Get(ctx context.Context, owner, id string) (E, error)
	Save(ctx context.Context, owner string, e E) error
	Delete(ctx context.Context, owner, id string) error
}
