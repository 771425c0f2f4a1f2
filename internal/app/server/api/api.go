// Package api собирает HTTP API эталонного сервера:
//
//	GET  /health                          # Проверка доступности (публичный)
//	POST /auth/register|login|refresh     # Вход и регистрация (публичный)
//	POST /auth/logout|logout-all          # Завершение сессий (auth)
//	GET  /auth/me, PUT /auth/change-password
//	GET|POST /{kind}                      # notes, reminders, documents, urls (auth)
//	PUT|DELETE /{kind}/{id}
//	PUT  /{kind}/{id}/restore|archive|unarchive
//	GET  /trash, /trash/stats, DELETE /trash/empty, POST /trash/bulk/...
//	GET  /archive, /archive/stats, POST /archive/bulk/...
//	GET  /search
//	POST /urls/{id}/click, GET /documents/{id}/download
package api

import (
	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"golang.org/x/exp/slog"

	"keepnotes/internal/app/server/api/http/catalog"
	healthAPI "keepnotes/internal/app/server/api/http/health"
	"keepnotes/internal/app/server/api/http/items"
	"keepnotes/internal/app/server/api/http/middleware"
	"keepnotes/internal/app/server/api/http/middleware/auth"
	"keepnotes/internal/app/server/api/http/middleware/logger"
	userAPI "keepnotes/internal/app/server/api/http/user"
	"keepnotes/internal/app/server/config"
	"keepnotes/internal/domain/item"
	"keepnotes/internal/domain/session"
	"keepnotes/internal/domain/user"
	"keepnotes/internal/infrastructure/storage/memory"
)

const Version = "1.0.0"

type routes interface {
	SetupRoutes(api huma.API)
}

// New создает *chi.Mux со всеми операциями, зарегистрированными через huma.
func New(cfg *config.Config, storage *memory.Storage, log *slog.Logger) *chi.Mux {
	mux := chi.NewMux()

	humaConfig := huma.DefaultConfig("Keepnotes API", Version)
	// Без ссылок $schema в ответах: сущности встраивают Base с методами,
	// и huma не может построить для них обертку.
	humaConfig.CreateHooks = nil
	humaConfig.Components.SecuritySchemes = map[string]*huma.SecurityScheme{
		"bearer": {Type: "http", Scheme: "bearer", BearerFormat: "JWT"},
	}

	API := humachi.New(mux, humaConfig)
	for _, h := range handlers(cfg, storage, log) {
		h.SetupRoutes(API)
	}

	return mux
}

func handlers(cfg *config.Config, storage *memory.Storage, log *slog.Logger) []routes {
	sessionService := session.NewService(storage.Sessions, session.Options{
		Secret:     []byte(cfg.Auth.Secret),
		AccessTTL:  cfg.Auth.AccessTTL,
		RefreshTTL: cfg.Auth.RefreshTTL,
	}, log)
	authMW := auth.New(sessionService, log)
	loggerMW := logger.New(log)
	middlewares := middleware.NewContainer()

	// Публичные операции
	healthHandler := healthAPI.NewHandler(Version, log, middlewares.Add(loggerMW.Middleware()).GetAllAndClear())

	userService := user.NewService(storage.Users, user.NewPasswordValidator(), log)
	public := middlewares.Add(loggerMW.Middleware()).GetAllAndClear()
	private := middlewares.Add(authMW.Middleware(), loggerMW.Middleware()).GetAllAndClear()
	userHandler := userAPI.NewHandler(userService, sessionService, log, public, private)

	// Операции над сущностями требуют токена
	cat := &item.Catalog{
		Notes:     item.NewService[*item.Note](item.KindNote, storage.Notes, log),
		Reminders: item.NewService[*item.Reminder](item.KindReminder, storage.Reminders, log),
		Documents: item.NewService[*item.Document](item.KindDocument, storage.Documents, log),
		URLs:      item.NewService[*item.URLBookmark](item.KindURL, storage.URLs, log),
	}
	secured := func() huma.Middlewares {
		return middlewares.Add(authMW.Middleware(), loggerMW.Middleware()).GetAllAndClear()
	}

	return []routes{
		healthHandler,
		userHandler,
		items.NewHandler(cat.Notes, log, secured()),
		items.NewHandler(cat.Reminders, log, secured()),
		items.NewHandler(cat.Documents, log, secured(), items.WithPresenter((*item.Document).Summary)),
		items.NewHandler(cat.URLs, log, secured()),
		items.NewExtras(cat.URLs, cat.Documents, log, secured()),
		catalog.NewHandler(cat, log, secured()),
	}
}
