package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"golang.org/x/exp/slog"

	"keepnotes/internal/app/client/api"
	"keepnotes/internal/app/client/cache"
	"keepnotes/internal/app/client/view"
	"keepnotes/internal/domain/item"
	"keepnotes/internal/utils/retry"
)

// Collection — все представления одного типа сущностей (активные, корзина,
// архив) поверх ресурса API и резервного кэша.
type Collection[E item.Record[E]] struct {
	kind   item.Kind
	res    *api.Resource[E]
	cache  *cache.Cache
	views  map[item.State]*view.View[E]
	create retry.Policy
	log    *slog.Logger
}

func newCollection[E item.Record[E]](res *api.Resource[E], c *cache.Cache, log *slog.Logger) *Collection[E] {
	log = log.With(slog.String("kind", res.Kind().String()))
	views := make(map[item.State]*view.View[E], len(item.States))
	for _, s := range item.States {
		views[s] = view.New[E](s, log)
	}
	return &Collection[E]{
		kind:   res.Kind(),
		res:    res,
		cache:  c,
		views:  views,
		create: retry.Policy{MaxAttempts: 1},
		log:    log,
	}
}

func (c *Collection[E]) Kind() item.Kind {
	return c.kind
}

// View возвращает представление состояния state.
func (c *Collection[E]) View(state item.State) *view.View[E] {
	if state == "" {
		state = item.StateActive
	}
	return c.views[state]
}

// Load загружает список с сервера. Если активный список получить не удалось
// из-за сети или сервера, берется последний сохраненный (cached == true).
// Ошибки аутентификации кэшем не маскируются.
func (c *Collection[E]) Load(ctx context.Context, state item.State) (items []E, cached bool, err error) {
	if state == "" {
		state = item.StateActive
	}
	v, ok := c.views[state]
	if !ok {
		return nil, false, fmt.Errorf("load %s: %w", c.kind, state.Validate())
	}

	items, err = c.res.List(ctx, state)
	if err == nil {
		v.Replace(items)
		if state == item.StateActive {
			cache.Save(ctx, c.cache, c.kind, items)
		}
		return items, false, nil
	}

	if state != item.StateActive || !fallbackAllowed(err) {
		return nil, false, err
	}

	stored, found := cache.Load[E](ctx, c.cache, c.kind)
	if !found {
		return nil, false, err
	}
	c.log.Warn("Сервер недоступен, показываем сохраненные данные", slog.Int("count", len(stored)), slog.Any("error", err))
	v.Replace(stored)
	return stored, true, nil
}

// fallbackAllowed пропускает к кэшу только сетевые ошибки и 5xx.
func fallbackAllowed(err error) bool {
	return !errors.Is(err, api.ErrAuthenticationFailed) && api.Retryable(err)
}

// Create проверяет черновик, показывает его в активном списке сразу и
// заменяет записью сервера после подтверждения.
func (c *Collection[E]) Create(ctx context.Context, draft E) (E, error) {
	var zero E
	if err := draft.Validate(); err != nil {
		return zero, err
	}

	return c.views[item.StateActive].Insert(ctx, draft, func(ctx context.Context, toSend E) (E, error) {
		var created E
		err := retry.Do(ctx, c.log, "create "+c.kind.Singular(), c.create, api.Retryable, func(ctx context.Context) error {
			var err error
			created, err = c.res.Create(ctx, toSend)
			return err
		})
		return created, err
	})
}

// Update изменяет поля сущности через edit и отправляет серверу только
// измененные поля; очищенные уходят как null.
func (c *Collection[E]) Update(ctx context.Context, id string, edit func(E) error) (E, error) {
	var zero E
	v, err := c.locate(ctx, id)
	if err != nil {
		return zero, err
	}

	var patch map[string]json.RawMessage
	return v.Patch(ctx, id, func(e E) error {
		before := e.Clone()
		if err := edit(e); err != nil {
			return err
		}
		if err := e.Validate(); err != nil {
			return err
		}
		patch, err = item.Changes(before, e)
		return err
	}, func(ctx context.Context) (E, bool, error) {
		out, err := c.res.Update(ctx, id, patch)
		return out.Item, out.HasItem, err
	})
}

func (c *Collection[E]) Trash(ctx context.Context, id string) (E, error) {
	return c.Apply(ctx, id, item.ActionTrash)
}

func (c *Collection[E]) Restore(ctx context.Context, id string) (E, error) {
	return c.Apply(ctx, id, item.ActionRestore)
}

func (c *Collection[E]) Archive(ctx context.Context, id string) (E, error) {
	return c.Apply(ctx, id, item.ActionArchive)
}

func (c *Collection[E]) Unarchive(ctx context.Context, id string) (E, error) {
	return c.Apply(ctx, id, item.ActionUnarchive)
}

// Purge удаляет сущность из корзины навсегда.
func (c *Collection[E]) Purge(ctx context.Context, id string) (E, error) {
	return c.Apply(ctx, id, item.ActionPurge)
}

// Apply выполняет переход жизненного цикла над сущностью, где бы она ни
// находилась. Допустимость перехода решает автомат состояний.
func (c *Collection[E]) Apply(ctx context.Context, id string, action item.Action) (E, error) {
	var zero E
	v, err := c.locate(ctx, id)
	if err != nil {
		return zero, err
	}

	e, err := v.Mutate(ctx, id, action, func(ctx context.Context) (E, bool, error) {
		out, err := c.res.Action(ctx, id, action)
		return out.Item, out.HasItem, err
	})
	if err != nil {
		return zero, err
	}

	if action != item.ActionPurge {
		if dest, ok := c.views[e.Meta().State]; ok && dest != v && dest.Loaded() {
			dest.Accept(e)
		}
	}
	return e, nil
}

// locate находит представление, содержащее сущность, загружая
// недостающие представления по очереди.
func (c *Collection[E]) locate(ctx context.Context, id string) (*view.View[E], error) {
	for _, s := range item.States {
		v := c.views[s]
		if !v.Loaded() {
			continue
		}
		if _, ok := v.Get(id); ok {
			return v, nil
		}
	}

	for _, s := range item.States {
		v := c.views[s]
		if v.Loaded() {
			continue
		}
		if _, _, err := c.Load(ctx, s); err != nil {
			return nil, err
		}
		if _, ok := v.Get(id); ok {
			return v, nil
		}
	}

	return nil, fmt.Errorf("%s %s: %w", c.kind.Singular(), id, item.ErrNotFound)
}

// refresh перезагружает уже загруженные представления.
func (c *Collection[E]) refresh(ctx context.Context) {
	for _, s := range item.States {
		if !c.views[s].Loaded() {
			continue
		}
		if _, _, err := c.Load(ctx, s); err != nil {
			c.log.Warn("Не удалось обновить список", slog.String("state", s.String()), slog.Any("error", err))
		}
	}
}
