package item

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"golang.org/x/exp/slog"
)

// Servicer — серверные операции над сущностями одного типа.
type Servicer[E Record[E]] interface {
	Kind() Kind
	List(ctx context.Context, owner string, state State) ([]E, error)
	Get(ctx context.Context, owner, id string) (E, error)
	Create(ctx context.Context, owner string, raw []byte) (E, error)
	Update(ctx context.Context, owner, id string, raw []byte) (E, error)
	Transition(ctx context.Context, owner, id string, action Action) (E, error)
	Modify(ctx context.Context, owner, id string, fn func(E) error) (E, error)
	Search(ctx context.Context, owner, q string, state State) ([]E, error)
	PurgeTrashed(ctx context.Context, owner string) (int, error)
}

type Service[E Record[E]] struct {
	kind Kind
	repo Repository[E]
	log  *slog.Logger
	now  func() time.Time
}

func NewService[E Record[E]](kind Kind, repo Repository[E], log *slog.Logger) *Service[E] {
	return &Service[E]{
		kind: kind,
		repo: repo,
		log:  log.With(slog.String("kind", kind.String())),
		now:  time.Now,
	}
}

func (s *Service[E]) Kind() Kind {
	return s.kind
}

// List возвращает сущности в состоянии state, новые сверху.
func (s *Service[E]) List(ctx context.Context, owner string, state State) ([]E, error) {
	all, err := s.repo.List(ctx, owner)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", s.kind, err)
	}
	out := Filter(all, state)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Meta().CreatedAt.After(out[j].Meta().CreatedAt)
	})
	return out, nil
}

func (s *Service[E]) Get(ctx context.Context, owner, id string) (E, error) {
	return s.repo.Get(ctx, owner, id)
}

// Create разбирает тело запроса и сохраняет новую активную сущность.
// Идентификатор и поля жизненного цикла из запроса игнорируются.
func (s *Service[E]) Create(ctx context.Context, owner string, raw []byte) (E, error) {
	var zero E
	e, err := Decode[E](raw)
	if err != nil {
		return zero, fmt.Errorf("%w: %v", ErrInvalidData, err)
	}
	Init(e, uuid.NewString(), s.now())
	if d, ok := any(e).(Defaulter); ok {
		d.ApplyDefaults()
	}
	if err := e.Validate(); err != nil {
		return zero, err
	}
	if err := s.repo.Save(ctx, owner, e); err != nil {
		return zero, fmt.Errorf("save %s: %w", s.kind.Singular(), err)
	}
	s.log.Debug("created", slog.String("id", e.Meta().ID))
	return e, nil
}

// Update накладывает поля из тела запроса на сохраненную сущность;
// поле со значением null сбрасывается. Поля жизненного цикла меняются
// только переходами.
func (s *Service[E]) Update(ctx context.Context, owner, id string, raw []byte) (E, error) {
	var zero E
	var patch map[string]json.RawMessage
	if err := json.Unmarshal(raw, &patch); err != nil {
		return zero, fmt.Errorf("%w: %v", ErrInvalidData, err)
	}
	for _, k := range protectedFields {
		delete(patch, k)
	}

	stored, err := s.repo.Get(ctx, owner, id)
	if err != nil {
		return zero, err
	}
	data, err := merge(stored, patch)
	if err != nil {
		return zero, err
	}
	e, err := Decode[E](data)
	if err != nil {
		return zero, fmt.Errorf("%w: %v", ErrInvalidData, err)
	}
	*e.Meta() = stored.Meta().clone()
	Touch(e, s.now())
	if err := e.Validate(); err != nil {
		return zero, err
	}

	if err := s.repo.Save(ctx, owner, e); err != nil {
		return zero, fmt.Errorf("save %s: %w", s.kind.Singular(), err)
	}
	s.log.Debug("updated", slog.String("id", id))
	return e, nil
}

// Modify применяет fn к копии сущности и сохраняет результат.
func (s *Service[E]) Modify(ctx context.Context, owner, id string, fn func(E) error) (E, error) {
	var zero E
	stored, err := s.repo.Get(ctx, owner, id)
	if err != nil {
		return zero, err
	}
	e := stored.Clone()
	if err := fn(e); err != nil {
		return zero, err
	}
	Touch(e, s.now())
	if err := s.repo.Save(ctx, owner, e); err != nil {
		return zero, fmt.Errorf("save %s: %w", s.kind.Singular(), err)
	}
	return e, nil
}

// Transition выполняет переход жизненного цикла. Для purge сущность
// удаляется, возвращается ее последнее состояние.
func (s *Service[E]) Transition(ctx context.Context, owner, id string, action Action) (E, error) {
	var zero E
	stored, err := s.repo.Get(ctx, owner, id)
	if err != nil {
		return zero, err
	}
	e := stored.Clone()
	to, err := Apply(e, action, s.now())
	if err != nil {
		return zero, err
	}

	if to == StateDestroyed {
		if err := s.repo.Delete(ctx, owner, id); err != nil {
			return zero, fmt.Errorf("delete %s: %w", s.kind.Singular(), err)
		}
		s.log.Debug("purged", slog.String("id", id))
		return stored, nil
	}

	if err := s.repo.Save(ctx, owner, e); err != nil {
		return zero, fmt.Errorf("save %s: %w", s.kind.Singular(), err)
	}
	s.log.Debug("transition", slog.String("id", id), slog.String("action", action.String()), slog.String("to", to.String()))
	return e, nil
}

// Search ищет по тексту сущностей; пустое state — во всех состояниях.
func (s *Service[E]) Search(ctx context.Context, owner, q string, state State) ([]E, error) {
	all, err := s.repo.List(ctx, owner)
	if err != nil {
		return nil, fmt.Errorf("search %s: %w", s.kind, err)
	}
	out := make([]E, 0)
	for _, e := range all {
		if state != "" && e.Meta().State != state {
			continue
		}
		if Matches(e, q) {
			out = append(out, e)
		}
	}
	return out, nil
}

// PurgeTrashed удаляет навсегда все сущности из корзины.
func (s *Service[E]) PurgeTrashed(ctx context.Context, owner string) (int, error) {
	trashed, err := s.List(ctx, owner, StateTrashed)
	if err != nil {
		return 0, err
	}
	n := 0
	for _, e := range trashed {
		if _, err := s.Transition(ctx, owner, e.Meta().ID, ActionPurge); err != nil {
			if errors.Is(err, ErrNotFound) {
				continue
			}
			return n, err
		}
		n++
	}
	return n, nil
}
