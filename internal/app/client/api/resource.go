package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"keepnotes/internal/app/client/guard"
	"keepnotes/internal/domain/item"
)

// Outcome — результат изменяющего запроса. HasItem == false, если сервер
// не вернул представление сущности (например, 204 или только message).
type Outcome[E any] struct {
	Item    E
	HasItem bool
	Message string
}

// Resource — типизированный клиент REST-ресурса одного типа сущностей.
type Resource[E item.Record[E]] struct {
	kind  item.Kind
	t     *transport
	guard *guard.Guard
}

func newResource[E item.Record[E]](kind item.Kind, t *transport, g *guard.Guard) *Resource[E] {
	return &Resource[E]{kind: kind, t: t, guard: g}
}

func (r *Resource[E]) Kind() item.Kind {
	return r.kind
}

func (r *Resource[E]) path(id string, action ...string) string {
	p := "/" + string(r.kind)
	if id != "" {
		p += "/" + url.PathEscape(id)
	}
	for _, a := range action {
		p += "/" + a
	}
	return p
}

func (r *Resource[E]) key(id string) string {
	return item.Ref{Type: r.kind, ID: id}.String()
}

// List возвращает сущности в состоянии state. Для active параметр status
// не передается.
func (r *Resource[E]) List(ctx context.Context, state item.State) ([]E, error) {
	var query url.Values
	if state != "" && state != item.StateActive {
		query = url.Values{"status": {string(state)}}
	}

	resp, err := r.t.doRequest(ctx, http.MethodGet, r.path(""), query, nil)
	if err != nil {
		return nil, err
	}

	items, err := item.DecodeList[E](resp.body)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", r.kind, err)
	}
	return items, nil
}

// Create не защищен guard: у новой сущности еще нет идентификатора.
func (r *Resource[E]) Create(ctx context.Context, e E) (E, error) {
	var zero E

	resp, err := r.t.doRequest(ctx, http.MethodPost, r.path(""), nil, e)
	if err != nil {
		return zero, err
	}

	out, err := r.outcome(resp)
	if err != nil {
		return zero, fmt.Errorf("create %s: %w", r.kind.Singular(), err)
	}
	if !out.HasItem {
		return zero, fmt.Errorf("create %s: %w: response has no record", r.kind.Singular(), item.ErrInvalidData)
	}
	return out.Item, nil
}

// Update отправляет частичное изменение; patch — любая JSON-сериализуемая
// структура или map.
func (r *Resource[E]) Update(ctx context.Context, id string, patch any) (Outcome[E], error) {
	return r.guarded(ctx, guard.OpUpdate, id, http.MethodPut, r.path(id), nil, patch, "")
}

// Delete переносит сущность в корзину или, при permanent, удаляет навсегда.
func (r *Resource[E]) Delete(ctx context.Context, id string, permanent bool) (Outcome[E], error) {
	var query url.Values
	fallback := r.kind.Singular() + " moved to trash"
	if permanent {
		query = url.Values{"permanent": {"true"}}
		fallback = r.kind.Singular() + " deleted permanently"
	}
	return r.guarded(ctx, guard.OpDelete, id, http.MethodDelete, r.path(id), query, nil, fallback)
}

func (r *Resource[E]) Restore(ctx context.Context, id string) (Outcome[E], error) {
	return r.guarded(ctx, guard.OpRestore, id, http.MethodPut, r.path(id, "restore"), nil, nil, "")
}

func (r *Resource[E]) Archive(ctx context.Context, id string) (Outcome[E], error) {
	return r.guarded(ctx, guard.OpArchive, id, http.MethodPut, r.path(id, "archive"), nil, nil, "")
}

// Unarchive использует тот же вид операции, что и Restore.
func (r *Resource[E]) Unarchive(ctx context.Context, id string) (Outcome[E], error) {
	return r.guarded(ctx, guard.OpRestore, id, http.MethodPut, r.path(id, "unarchive"), nil, nil, "")
}

// Action выполняет переход жизненного цикла по его имени.
func (r *Resource[E]) Action(ctx context.Context, id string, action item.Action) (Outcome[E], error) {
	switch action {
	case item.ActionTrash:
		return r.Delete(ctx, id, false)
	case item.ActionPurge:
		return r.Delete(ctx, id, true)
	case item.ActionRestore:
		return r.Restore(ctx, id)
	case item.ActionArchive:
		return r.Archive(ctx, id)
	case item.ActionUnarchive:
		return r.Unarchive(ctx, id)
	}
	return Outcome[E]{}, fmt.Errorf("unknown action %q", action)
}

func (r *Resource[E]) guarded(ctx context.Context, op guard.Op, id, method, path string, query url.Values, body any, fallback string) (Outcome[E], error) {
	release, err := r.guard.Acquire(op, r.key(id))
	if err != nil {
		return Outcome[E]{}, err
	}
	defer release()

	resp, err := r.t.doRequest(ctx, method, path, query, body)
	if err != nil {
		return Outcome[E]{}, err
	}

	if resp.status == http.StatusNoContent {
		return Outcome[E]{Message: fallback}, nil
	}

	out, err := r.outcome(resp)
	if err != nil {
		return Outcome[E]{}, fmt.Errorf("%s %s: %w", op, r.key(id), err)
	}
	if out.Message == "" {
		out.Message = fallback
	}
	return out, nil
}

func (r *Resource[E]) outcome(resp *response) (Outcome[E], error) {
	if len(resp.body) == 0 {
		return Outcome[E]{}, nil
	}
	e, msg, found, err := item.Envelope[E](resp.body, r.kind)
	if err != nil {
		return Outcome[E]{}, err
	}
	return Outcome[E]{Item: e, HasItem: found, Message: msg}, nil
}
