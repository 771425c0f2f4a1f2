package items

import (
	"context"
	"encoding/base64"
	"mime"

	"github.com/danielgtaylor/huma/v2"
	"golang.org/x/exp/slog"

	"keepnotes/internal/domain/item"
)

// Extras — операции, которые есть только у закладок и документов.
type Extras struct {
	urls       item.Servicer[*item.URLBookmark]
	documents  item.Servicer[*item.Document]
	log        *slog.Logger
	middleware huma.Middlewares
}

func NewExtras(urls item.Servicer[*item.URLBookmark], documents item.Servicer[*item.Document], log *slog.Logger, middleware huma.Middlewares) *Extras {
	return &Extras{
		urls:       urls,
		documents:  documents,
		log:        log.With(slog.String("component", "extras_handler")),
		middleware: middleware,
	}
}

func (h *Extras) SetupRoutes(api huma.API) {
	huma.Register(api, h.clickOp(), h.click)
	huma.Register(api, h.downloadOp(), h.download)
}

func (h *Extras) click(ctx context.Context, input *idInput) (*itemOutput[*item.URLBookmark], error) {
	owner, err := Owner(ctx)
	if err != nil {
		return nil, err
	}
	u, err := h.urls.Modify(ctx, owner, input.ID, func(u *item.URLBookmark) error {
		u.ClickCount++
		return nil
	})
	if err != nil {
		return nil, Error(h.log, err)
	}
	return &itemOutput[*item.URLBookmark]{Body: u}, nil
}

func (h *Extras) download(ctx context.Context, input *idInput) (*downloadOutput, error) {
	owner, err := Owner(ctx)
	if err != nil {
		return nil, err
	}
	d, err := h.documents.Get(ctx, owner, input.ID)
	if err != nil {
		return nil, Error(h.log, err)
	}
	if d.Content == "" {
		return nil, huma.Error404NotFound("document has no file content")
	}

	data, err := base64.StdEncoding.DecodeString(d.Content)
	if err != nil {
		h.log.Error("stored document content is not base64", slog.String("id", d.ID), slog.Any("error", err))
		return nil, huma.Error500InternalServerError("corrupted document content")
	}

	contentType := d.FileType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	name := d.FileName
	if name == "" {
		name = d.ID
	}
	return &downloadOutput{
		ContentType:        contentType,
		ContentDisposition: mime.FormatMediaType("attachment", map[string]string{"filename": name}),
		Body:               data,
	}, nil
}
