package item

import (
	"context"
	"errors"
	"fmt"
)

// Catalog объединяет сервисы всех типов для сводных операций: корзина,
// архив, поиск и массовые действия.
type Catalog struct {
	Notes     Servicer[*Note]
	Reminders Servicer[*Reminder]
	Documents Servicer[*Document]
	URLs      Servicer[*URLBookmark]
}

// Listing собирает сущности всех типов в состоянии state.
func (c *Catalog) Listing(ctx context.Context, owner string, state State) (Listing, error) {
	return c.collect(ctx, "", func(svc lister) ([]Entity, error) {
		return svc.list(ctx, owner, state)
	})
}

// Search ищет по всем типам или только по f.Type.
func (c *Catalog) Search(ctx context.Context, owner, q string, f SearchFilter) (Listing, error) {
	return c.collect(ctx, f.Type, func(svc lister) ([]Entity, error) {
		return svc.search(ctx, owner, q, f.Status)
	})
}

// Stats считает сущности в состоянии state.
func (c *Catalog) Stats(ctx context.Context, owner string, state State) (Stats, error) {
	l, err := c.Listing(ctx, owner, state)
	if err != nil {
		return Stats{}, err
	}
	return l.Stats(), nil
}

// Transition выполняет переход над сущностью, заданной ссылкой.
func (c *Catalog) Transition(ctx context.Context, owner string, ref Ref, action Action) error {
	var err error
	switch ref.Type {
	case KindNote:
		_, err = c.Notes.Transition(ctx, owner, ref.ID, action)
	case KindReminder:
		_, err = c.Reminders.Transition(ctx, owner, ref.ID, action)
	case KindDocument:
		_, err = c.Documents.Transition(ctx, owner, ref.ID, action)
	case KindURL:
		_, err = c.URLs.Transition(ctx, owner, ref.ID, action)
	default:
		err = fmt.Errorf("%w: unknown type %q", ErrInvalidData, ref.Type)
	}
	return err
}

// Bulk применяет action к каждой ссылке. Ошибка одной сущности не
// прерывает обработку остальных.
func (c *Catalog) Bulk(ctx context.Context, owner string, refs []Ref, action Action) BulkResult {
	res := BulkResult{Succeeded: []Ref{}, Failed: []BulkFailure{}}
	for _, ref := range refs {
		if err := c.Transition(ctx, owner, ref, action); err != nil {
			res.Failed = append(res.Failed, BulkFailure{Ref: ref, Error: err.Error()})
			continue
		}
		res.Succeeded = append(res.Succeeded, ref)
	}
	return res
}

// EmptyTrash удаляет навсегда все сущности из корзины.
func (c *Catalog) EmptyTrash(ctx context.Context, owner string) (int, error) {
	total := 0
	var errs []error
	for _, p := range []interface {
		PurgeTrashed(context.Context, string) (int, error)
	}{c.Notes, c.Reminders, c.Documents, c.URLs} {
		n, err := p.PurgeTrashed(ctx, owner)
		total += n
		if err != nil {
			errs = append(errs, err)
		}
	}
	return total, errors.Join(errs...)
}

type lister struct {
	list   func(ctx context.Context, owner string, state State) ([]Entity, error)
	search func(ctx context.Context, owner, q string, state State) ([]Entity, error)
}

func erase[E Record[E]](svc Servicer[E]) lister {
	return lister{
		list: func(ctx context.Context, owner string, state State) ([]Entity, error) {
			items, err := svc.List(ctx, owner, state)
			return entities(items), err
		},
		search: func(ctx context.Context, owner, q string, state State) ([]Entity, error) {
			items, err := svc.Search(ctx, owner, q, state)
			return entities(items), err
		},
	}
}

func entities[E Entity](items []E) []Entity {
	out := make([]Entity, 0, len(items))
	for _, e := range items {
		out = append(out, e)
	}
	return out
}

func (c *Catalog) collect(ctx context.Context, only Kind, fetch func(lister) ([]Entity, error)) (Listing, error) {
	l := NewListing()
	sources := []struct {
		kind Kind
		svc  lister
	}{
		{KindNote, erase(c.Notes)},
		{KindReminder, erase(c.Reminders)},
		{KindDocument, erase(c.Documents)},
		{KindURL, erase(c.URLs)},
	}

	for _, src := range sources {
		if only != "" && only != src.kind {
			continue
		}
		if err := ctx.Err(); err != nil {
			return l, err
		}
		found, err := fetch(src.svc)
		if err != nil {
			return l, fmt.Errorf("%s: %w", src.kind, err)
		}
		for _, e := range found {
			switch v := e.(type) {
			case *Note:
				l.Notes = append(l.Notes, v)
			case *Reminder:
				l.Reminders = append(l.Reminders, v)
			case *Document:
				l.Documents = append(l.Documents, v.Summary())
			case *URLBookmark:
				l.URLs = append(l.URLs, v)
			}
		}
	}
	return l, nil
}
