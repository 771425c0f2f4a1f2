// Package view держит локальную копию списка сущностей одного типа в одном
// состоянии и применяет изменения оптимистично: сначала локально, затем на
// сервере, с откатом при ошибке.
package view

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/exp/slog"

	"keepnotes/internal/domain/item"
)

// TempPrefix помечает идентификаторы, еще не подтвержденные сервером.
const TempPrefix = "tmp-"

// Call выполняет запрос к серверу и возвращает его представление сущности.
// found == false, если сервер не вернул запись.
type Call[E any] func(ctx context.Context) (e E, found bool, err error)

// View — список сущностей одного состояния (scope).
type View[E item.Record[E]] struct {
	mu     sync.Mutex
	scope  item.State
	items  []E
	loaded bool
	// gen растет при каждом изменении списка, seq — при каждом локальном
	// изменении конкретной сущности.
	gen uint64
	seq map[string]uint64
	log *slog.Logger
	now func() time.Time
}

func New[E item.Record[E]](scope item.State, log *slog.Logger) *View[E] {
	return &View[E]{
		scope: scope,
		items: []E{},
		seq:   make(map[string]uint64),
		log:   log,
		now:   time.Now,
	}
}

func (v *View[E]) Scope() item.State {
	return v.scope
}

// Loaded сообщает, был ли список хоть раз заполнен.
func (v *View[E]) Loaded() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.loaded
}

// Items возвращает глубокую копию списка.
func (v *View[E]) Items() []E {
	v.mu.Lock()
	defer v.mu.Unlock()
	return item.CloneAll(v.items)
}

func (v *View[E]) Len() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return len(v.items)
}

func (v *View[E]) Get(id string) (E, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if i := v.index(id); i >= 0 {
		return v.items[i].Clone(), true
	}
	var zero E
	return zero, false
}

// Replace заменяет список целиком, например после загрузки с сервера.
func (v *View[E]) Replace(items []E) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.items = item.CloneAll(items)
	v.loaded = true
	v.gen++
}

// Accept принимает серверное представление сущности, пришедшее извне
// (например, после перехода из другого представления): вставляет,
// заменяет или удаляет ее в зависимости от состояния.
func (v *View[E]) Accept(e E) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.accept(e.Clone())
	v.gen++
}

// Remove удаляет сущность из списка, если она там есть.
func (v *View[E]) Remove(id string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if i := v.index(id); i >= 0 {
		v.removeAt(i)
		v.gen++
	}
}

// Mutate выполняет переход жизненного цикла: проверяет его по автомату
// состояний, применяет локально, вызывает call и согласует результат.
func (v *View[E]) Mutate(ctx context.Context, id string, action item.Action, call Call[E]) (E, error) {
	return v.change(ctx, id, func(local E) (bool, error) {
		next, err := item.Apply(local, action, v.now())
		if err != nil {
			return false, err
		}
		return next != item.StateDestroyed && item.InScope(local, v.scope), nil
	}, call)
}

// Patch применяет произвольное изменение полей. edit получает копию
// сущности; ошибка edit отменяет операцию до обращения к серверу.
func (v *View[E]) Patch(ctx context.Context, id string, edit func(E) error, call Call[E]) (E, error) {
	return v.change(ctx, id, func(local E) (bool, error) {
		if err := edit(local); err != nil {
			return false, err
		}
		item.Touch(local, v.now())
		return item.InScope(local, v.scope), nil
	}, call)
}

func (v *View[E]) change(ctx context.Context, id string, apply func(E) (bool, error), call Call[E]) (E, error) {
	var zero E

	v.mu.Lock()
	i := v.index(id)
	if i < 0 {
		v.mu.Unlock()
		return zero, fmt.Errorf("%s %s: %w", v.scope, id, item.ErrNotFound)
	}

	snapshot := item.CloneAll(v.items)
	local := v.items[i].Clone()
	keep, err := apply(local)
	if err != nil {
		v.mu.Unlock()
		return zero, err
	}

	// Одна атомарная замена списка
	if keep {
		v.items[i] = local
	} else {
		v.removeAt(i)
	}
	gen, seq := v.bump(id)
	v.mu.Unlock()

	remote, found, err := call(ctx)

	v.mu.Lock()
	defer v.mu.Unlock()

	if err != nil {
		v.rollback(id, snapshot, gen, seq)
		return zero, err
	}

	if v.seq[id] != seq {
		v.log.Debug("Устаревший ответ сервера пропущен", slog.String("id", id), slog.String("scope", string(v.scope)))
		if found {
			return remote, nil
		}
		return local, nil
	}

	if !found {
		return local, nil
	}
	v.accept(remote.Clone())
	v.gen++
	return remote, nil
}

// Insert добавляет черновик с временным идентификатором в начало списка,
// затем заменяет его записью сервера.
func (v *View[E]) Insert(ctx context.Context, draft E, create func(ctx context.Context, draft E) (E, error)) (E, error) {
	var zero E

	tmpID := TempPrefix + uuid.NewString()
	local := draft.Clone()
	item.Init(local, tmpID, v.now())

	v.mu.Lock()
	snapshot := item.CloneAll(v.items)
	v.items = append([]E{local}, v.items...)
	gen, seq := v.bump(tmpID)
	v.mu.Unlock()

	// Сервер назначает свой идентификатор; временный ему не передается.
	toSend := draft.Clone()
	toSend.Meta().ID = ""

	created, err := create(ctx, toSend)

	v.mu.Lock()
	defer v.mu.Unlock()

	if err != nil {
		v.rollback(tmpID, snapshot, gen, seq)
		delete(v.seq, tmpID)
		return zero, err
	}

	if i := v.index(tmpID); i >= 0 {
		v.removeAt(i)
	}
	delete(v.seq, tmpID)
	if item.InScope(created, v.scope) {
		v.items = append([]E{created.Clone()}, v.items...)
	}
	v.gen++
	return created, nil
}

// rollback восстанавливает снимок целиком, если после локального изменения
// список больше не менялся. Иначе возвращает на место только эту сущность,
// чтобы не потерять чужие изменения.
func (v *View[E]) rollback(id string, snapshot []E, gen, seq uint64) {
	if v.gen == gen {
		v.items = snapshot
		v.gen++
		return
	}
	if v.seq[id] != seq {
		return
	}

	if i := v.index(id); i >= 0 {
		v.removeAt(i)
	}
	for pos, e := range snapshot {
		if e.Meta().ID == id {
			if pos > len(v.items) {
				pos = len(v.items)
			}
			v.items = append(v.items[:pos], append([]E{e}, v.items[pos:]...)...)
			break
		}
	}
	v.gen++
}

func (v *View[E]) bump(id string) (gen, seq uint64) {
	v.gen++
	v.seq[id]++
	return v.gen, v.seq[id]
}

func (v *View[E]) accept(e E) {
	id := e.Meta().ID
	i := v.index(id)
	switch {
	case !item.InScope(e, v.scope):
		if i >= 0 {
			v.removeAt(i)
		}
	case i >= 0:
		v.items[i] = e
	default:
		v.items = append([]E{e}, v.items...)
	}
}

func (v *View[E]) index(id string) int {
	for i, e := range v.items {
		if e.Meta().ID == id {
			return i
		}
	}
	return -1
}

func (v *View[E]) removeAt(i int) {
	v.items = append(v.items[:i:i], v.items[i+1:]...)
}
