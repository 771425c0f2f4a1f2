package health

import (
	"context"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"golang.org/x/exp/slog"
)

type Handler struct {
	version    string
	log        *slog.Logger
	middleware huma.Middlewares
	started    time.Time
	now        func() time.Time
}

func NewHandler(version string, log *slog.Logger, middleware huma.Middlewares) *Handler {
	return &Handler{
		version:    version,
		log:        log,
		middleware: middleware,
		started:    time.Now(),
		now:        time.Now,
	}
}

func (h *Handler) SetupRoutes(api huma.API) {
	huma.Register(api, h.healthCheckOp(), h.healthCheck)
}

func (h *Handler) healthCheck(_ context.Context, _ *Input) (*Output, error) {
	now := h.now()
	h.log.Debug("health check request received")

	return &Output{
		Body: Response{
			Status:  "OK",
			Version: h.version,
			Uptime:  now.Sub(h.started).Truncate(time.Second).String(),
			Time:    now.UTC().Format(time.RFC3339),
		},
	}, nil
}
