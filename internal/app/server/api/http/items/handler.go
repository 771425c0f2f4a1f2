package items

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/danielgtaylor/huma/v2"
	"golang.org/x/exp/slog"

	"keepnotes/internal/app/server/api/http/middleware/auth"
	"keepnotes/internal/domain/item"
)

// Handler обслуживает REST-ресурс одного типа сущностей.
type Handler[E item.Record[E]] struct {
	service    item.Servicer[E]
	log        *slog.Logger
	middleware huma.Middlewares
	present    func(E) E
}

type Option[E item.Record[E]] func(*Handler[E])

// WithPresenter задает представление сущностей в списке.
func WithPresenter[E item.Record[E]](fn func(E) E) Option[E] {
	return func(h *Handler[E]) {
		h.present = fn
	}
}

func NewHandler[E item.Record[E]](service item.Servicer[E], log *slog.Logger, middleware huma.Middlewares, opts ...Option[E]) *Handler[E] {
	h := &Handler[E]{
		service:    service,
		log:        log.With(slog.String("component", service.Kind().Singular()+"_handler")),
		middleware: middleware,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

func (h *Handler[E]) SetupRoutes(api huma.API) {
	huma.Register(api, h.listOp(), h.list)
	huma.Register(api, h.createOp(), h.create)
	huma.Register(api, h.updateOp(), h.update)
	huma.Register(api, h.deleteOp(), h.delete)
	huma.Register(api, h.restoreOp(), h.action(item.ActionRestore))
	huma.Register(api, h.archiveOp(), h.action(item.ActionArchive))
	huma.Register(api, h.unarchiveOp(), h.action(item.ActionUnarchive))
}

func (h *Handler[E]) list(ctx context.Context, input *listInput) (*listOutput[E], error) {
	owner, err := Owner(ctx)
	if err != nil {
		return nil, err
	}
	state, err := item.ParseState(input.Status)
	if err != nil {
		return nil, huma.Error422UnprocessableEntity(err.Error())
	}

	found, err := h.service.List(ctx, owner, state)
	if err != nil {
		return nil, h.fail(err)
	}
	if h.present != nil {
		for i, e := range found {
			found[i] = h.present(e)
		}
	}
	return &listOutput[E]{Body: found}, nil
}

func (h *Handler[E]) create(ctx context.Context, input *bodyInput) (*itemOutput[E], error) {
	owner, err := Owner(ctx)
	if err != nil {
		return nil, err
	}
	raw, err := json.Marshal(input.Body)
	if err != nil {
		return nil, huma.Error400BadRequest("malformed body")
	}

	e, err := h.service.Create(ctx, owner, raw)
	if err != nil {
		return nil, h.fail(err)
	}
	return &itemOutput[E]{Body: e}, nil
}

func (h *Handler[E]) update(ctx context.Context, input *updateInput) (*itemOutput[E], error) {
	owner, err := Owner(ctx)
	if err != nil {
		return nil, err
	}
	raw, err := json.Marshal(input.Body)
	if err != nil {
		return nil, huma.Error400BadRequest("malformed body")
	}

	e, err := h.service.Update(ctx, owner, input.ID, raw)
	if err != nil {
		return nil, h.fail(err)
	}
	return &itemOutput[E]{Body: e}, nil
}

// delete без permanent переносит сущность в корзину, с permanent удаляет
// ее из корзины навсегда.
func (h *Handler[E]) delete(ctx context.Context, input *deleteInput) (*deleteOutput, error) {
	owner, err := Owner(ctx)
	if err != nil {
		return nil, err
	}

	action := item.ActionTrash
	if input.Permanent {
		action = item.ActionPurge
	}
	e, err := h.service.Transition(ctx, owner, input.ID, action)
	if err != nil {
		return nil, h.fail(err)
	}
	if action == item.ActionPurge {
		return &deleteOutput{Body: item.Message{Message: e.Kind().DisplayName() + ": удалено навсегда"}}, nil
	}
	return &deleteOutput{Body: e}, nil
}

func (h *Handler[E]) action(action item.Action) func(context.Context, *idInput) (*itemOutput[E], error) {
	return func(ctx context.Context, input *idInput) (*itemOutput[E], error) {
		owner, err := Owner(ctx)
		if err != nil {
			return nil, err
		}
		e, err := h.service.Transition(ctx, owner, input.ID, action)
		if err != nil {
			return nil, h.fail(err)
		}
		return &itemOutput[E]{Body: e}, nil
	}
}

func (h *Handler[E]) fail(err error) error {
	return Error(h.log, err)
}

// Owner возвращает владельца запроса из проверенного токена.
func Owner(ctx context.Context) (string, error) {
	userID, ok := auth.GetUserID(ctx)
	if !ok {
		return "", huma.Error401Unauthorized("unauthorized")
	}
	return userID, nil
}

// Error переводит ошибки домена в HTTP-ответы.
func Error(log *slog.Logger, err error) error {
	switch {
	case errors.Is(err, item.ErrNotFound):
		return huma.Error404NotFound(err.Error())
	case errors.Is(err, item.ErrInvalidTransition):
		return huma.Error409Conflict(err.Error())
	case errors.Is(err, item.ErrInvalidData):
		return huma.Error422UnprocessableEntity(err.Error())
	case errors.Is(err, context.Canceled):
		return huma.NewError(499, "request canceled")
	}
	log.Error("item operation", slog.Any("error", err))
	return huma.Error500InternalServerError("internal error")
}
