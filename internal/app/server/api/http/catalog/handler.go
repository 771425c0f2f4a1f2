// Package catalog обслуживает сводные ресурсы: корзину, архив и поиск.
package catalog

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"golang.org/x/exp/slog"

	"keepnotes/internal/app/server/api/http/items"
	"keepnotes/internal/domain/item"
)

type Handler struct {
	catalog    *item.Catalog
	log        *slog.Logger
	middleware huma.Middlewares
}

func NewHandler(catalog *item.Catalog, log *slog.Logger, middleware huma.Middlewares) *Handler {
	return &Handler{
		catalog:    catalog,
		log:        log.With(slog.String("component", "catalog_handler")),
		middleware: middleware,
	}
}

func (h *Handler) SetupRoutes(api huma.API) {
	huma.Register(api, h.op("trash-list", http.MethodGet, "/trash", "Содержимое корзины", "trash"), h.listing(item.StateTrashed))
	huma.Register(api, h.op("trash-stats", http.MethodGet, "/trash/stats", "Количество сущностей в корзине", "trash"), h.stats(item.StateTrashed))
	huma.Register(api, h.op("trash-empty", http.MethodDelete, "/trash/empty", "Очистка корзины", "trash"), h.emptyTrash)
	huma.Register(api, h.op("trash-bulk-restore", http.MethodPost, "/trash/bulk/restore", "Массовое восстановление", "trash"), h.bulk(item.ActionRestore))
	huma.Register(api, h.op("trash-bulk-delete", http.MethodPost, "/trash/bulk/delete", "Массовое удаление навсегда", "trash"), h.bulk(item.ActionPurge))
	huma.Register(api, h.op("trash-bulk-move", http.MethodPost, "/trash/bulk/move", "Массовое перемещение в корзину", "trash"), h.bulk(item.ActionTrash))

	huma.Register(api, h.op("archive-list", http.MethodGet, "/archive", "Содержимое архива", "archive"), h.listing(item.StateArchived))
	huma.Register(api, h.op("archive-stats", http.MethodGet, "/archive/stats", "Количество сущностей в архиве", "archive"), h.stats(item.StateArchived))
	huma.Register(api, h.op("archive-bulk-archive", http.MethodPost, "/archive/bulk/archive", "Массовая архивация", "archive"), h.bulk(item.ActionArchive))
	huma.Register(api, h.op("archive-bulk-unarchive", http.MethodPost, "/archive/bulk/unarchive", "Массовый возврат из архива", "archive"), h.bulk(item.ActionUnarchive))

	huma.Register(api, h.op("search", http.MethodGet, "/search", "Поиск по всем типам сущностей", "search"), h.search)
}

func (h *Handler) listing(state item.State) func(context.Context, *struct{}) (*listingOutput, error) {
	return func(ctx context.Context, _ *struct{}) (*listingOutput, error) {
		owner, err := items.Owner(ctx)
		if err != nil {
			return nil, err
		}
		l, err := h.catalog.Listing(ctx, owner, state)
		if err != nil {
			return nil, items.Error(h.log, err)
		}
		return &listingOutput{Body: l}, nil
	}
}

func (h *Handler) stats(state item.State) func(context.Context, *struct{}) (*statsOutput, error) {
	return func(ctx context.Context, _ *struct{}) (*statsOutput, error) {
		owner, err := items.Owner(ctx)
		if err != nil {
			return nil, err
		}
		s, err := h.catalog.Stats(ctx, owner, state)
		if err != nil {
			return nil, items.Error(h.log, err)
		}
		return &statsOutput{Body: s}, nil
	}
}

func (h *Handler) emptyTrash(ctx context.Context, _ *struct{}) (*purgeOutput, error) {
	owner, err := items.Owner(ctx)
	if err != nil {
		return nil, err
	}
	n, err := h.catalog.EmptyTrash(ctx, owner)
	if err != nil {
		return nil, items.Error(h.log, err)
	}
	h.log.Info("trash emptied", slog.String("owner", owner), slog.Int("deleted", n))
	return &purgeOutput{Body: item.PurgeResult{Message: "Корзина очищена", Deleted: n}}, nil
}

// bulk применяет переход к каждой ссылке запроса; отказы по отдельным
// сущностям попадают в failed и не делают весь запрос ошибочным.
func (h *Handler) bulk(action item.Action) func(context.Context, *bulkInput) (*bulkOutput, error) {
	return func(ctx context.Context, input *bulkInput) (*bulkOutput, error) {
		owner, err := items.Owner(ctx)
		if err != nil {
			return nil, err
		}
		res := h.catalog.Bulk(ctx, owner, input.Body.Items, action)
		h.log.Debug("bulk", slog.String("action", action.String()),
			slog.Int("succeeded", len(res.Succeeded)), slog.Int("failed", len(res.Failed)))
		return &bulkOutput{Body: res}, nil
	}
}

func (h *Handler) search(ctx context.Context, input *searchInput) (*listingOutput, error) {
	owner, err := items.Owner(ctx)
	if err != nil {
		return nil, err
	}

	var f item.SearchFilter
	if input.Type != "" {
		kind, err := item.ParseKind(input.Type)
		if err != nil {
			return nil, huma.Error422UnprocessableEntity(err.Error())
		}
		f.Type = kind
	}
	if input.Status != "" {
		f.Status = item.State(input.Status)
	}

	l, err := h.catalog.Search(ctx, owner, input.Q, f)
	if err != nil {
		return nil, items.Error(h.log, err)
	}
	return &listingOutput{Body: l}, nil
}
