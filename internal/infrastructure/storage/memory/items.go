package memory

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/exp/slog"

	"keepnotes/internal/domain/item"
)

type key struct {
	owner string
	id    string
}

// Items хранит копии сущностей одного типа: изменения снаружи не
// затрагивают сохраненное состояние.
type Items[E item.Record[E]] struct {
	mu    sync.RWMutex
	kind  item.Kind
	items map[key]E
	log   *slog.Logger
}

func NewItems[E item.Record[E]](kind item.Kind, log *slog.Logger) *Items[E] {
	return &Items[E]{
		kind:  kind,
		items: make(map[key]E),
		log:   log.With("component", kind.Singular()+"_repository"),
	}
}

func (r *Items[E]) List(_ context.Context, owner string) ([]E, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]E, 0)
	for k, e := range r.items {
		if k.owner == owner {
			out = append(out, e.Clone())
		}
	}
	return out, nil
}

func (r *Items[E]) Get(_ context.Context, owner, id string) (E, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.items[key{owner, id}]
	if !ok {
		var zero E
		return zero, fmt.Errorf("%s %s: %w", r.kind.Singular(), id, item.ErrNotFound)
	}
	return e.Clone(), nil
}

func (r *Items[E]) Save(_ context.Context, owner string, e E) error {
	id := e.Meta().ID
	if id == "" {
		return fmt.Errorf("save %s: empty id", r.kind.Singular())
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[key{owner, id}] = e.Clone()
	return nil
}

func (r *Items[E]) Delete(_ context.Context, owner, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	k := key{owner, id}
	if _, ok := r.items[k]; !ok {
		return fmt.Errorf("%s %s: %w", r.kind.Singular(), id, item.ErrNotFound)
	}
	delete(r.items, k)
	r.log.Debug("deleted", slog.String("owner", owner), slog.String("id", id))
	return nil
}
