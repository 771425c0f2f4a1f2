// Package api — типизированный клиент REST API заметок.
package api

import (
	"context"
	"errors"
	"fmt"
	"mime"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/exp/slog"

	"keepnotes/internal/app/client/guard"
	"keepnotes/internal/app/client/session"
	"keepnotes/internal/domain/item"
	"keepnotes/internal/domain/user"
)

type Options struct {
	BaseURL string
	Timeout time.Duration
}

type Client struct {
	t       *transport
	session *session.Session
	guard   *guard.Guard
	log     *slog.Logger

	Notes     *Resource[*item.Note]
	Reminders *Resource[*item.Reminder]
	Documents *Resource[*item.Document]
	URLs      *Resource[*item.URLBookmark]
}

// New создает клиент. Завершение сессии снимает все незавершенные
// операции guard.
func New(opts Options, sess *session.Session, g *guard.Guard, log *slog.Logger) *Client {
	log = log.With(slog.String("component", "api"))
	t := newTransport(opts.BaseURL, opts.Timeout, sess, log)

	sess.OnTeardown(g.Clear)

	return &Client{
		t:         t,
		session:   sess,
		guard:     g,
		log:       log,
		Notes:     newResource[*item.Note](item.KindNote, t, g),
		Reminders: newResource[*item.Reminder](item.KindReminder, t, g),
		Documents: newResource[*item.Document](item.KindDocument, t, g),
		URLs:      newResource[*item.URLBookmark](item.KindURL, t, g),
	}
}

func (c *Client) Session() *session.Session {
	return c.session
}

func (c *Client) Guard() *guard.Guard {
	return c.guard
}

// HealthCheck проверяет доступность сервера
func (c *Client) HealthCheck(ctx context.Context) error {
	var out struct {
		Status string `json:"status"`
	}
	if err := c.t.call(ctx, http.MethodGet, "/health", nil, nil, &out); err != nil {
		return err
	}
	if out.Status != "" && out.Status != "OK" {
		return fmt.Errorf("сервер вернул статус: %s", out.Status)
	}
	return nil
}

// ==================== Auth ====================

func (c *Client) Register(ctx context.Context, req user.RegisterRequest) (*user.AuthResponse, error) {
	var resp user.AuthResponse
	if err := c.t.call(ctx, http.MethodPost, "/auth/register", nil, req, &resp); err != nil {
		return nil, err
	}
	if resp.Access() != "" {
		if err := c.startSession(resp, req.Username); err != nil {
			return nil, err
		}
	}
	return &resp, nil
}

// Login выполняет вход и начинает сессию.
func (c *Client) Login(ctx context.Context, req user.LoginRequest) (*user.AuthResponse, error) {
	var resp user.AuthResponse
	if err := c.t.call(ctx, http.MethodPost, "/auth/login", nil, req, &resp); err != nil {
		return nil, err
	}
	if resp.Access() == "" {
		return nil, fmt.Errorf("login: %w: response has no token", item.ErrInvalidData)
	}
	if err := c.startSession(resp, req.EmailOrUsername); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) startSession(resp user.AuthResponse, fallbackLogin string) error {
	login := resp.User.Username
	if login == "" {
		login = fallbackLogin
	}
	return c.session.Init(session.Tokens{
		Access:  resp.Access(),
		Refresh: resp.RefreshToken,
		Login:   login,
	})
}

// Refresh обменивает refresh-токен на новый токен доступа.
func (c *Client) Refresh(ctx context.Context) error {
	refresh := c.session.RefreshToken()
	if refresh == "" {
		return fmt.Errorf("refresh: %w", session.ErrNoSession)
	}

	var resp user.AuthResponse
	if err := c.t.call(ctx, http.MethodPost, "/auth/refresh", nil, user.RefreshRequest{RefreshToken: refresh}, &resp); err != nil {
		return err
	}
	if resp.Access() == "" {
		return fmt.Errorf("refresh: %w: response has no token", item.ErrInvalidData)
	}
	return c.session.Rotate(resp.Access(), resp.RefreshToken)
}

// Logout завершает сессию на сервере и локально. Локальная сессия
// завершается даже если сервер недоступен.
func (c *Client) Logout(ctx context.Context) error {
	return c.logout(ctx, "/auth/logout")
}

// LogoutAll завершает все сессии пользователя.
func (c *Client) LogoutAll(ctx context.Context) error {
	return c.logout(ctx, "/auth/logout-all")
}

func (c *Client) logout(ctx context.Context, path string) error {
	err := c.t.call(ctx, http.MethodPost, path, nil, user.RefreshRequest{RefreshToken: c.session.RefreshToken()}, nil)
	if tdErr := c.session.Teardown("logout"); tdErr != nil {
		c.log.Warn("Не удалось удалить токен", slog.Any("error", tdErr))
	}
	if errors.Is(err, ErrAuthenticationFailed) {
		return nil
	}
	return err
}

func (c *Client) Me(ctx context.Context) (user.Profile, error) {
	var resp user.MeResponse
	if err := c.t.call(ctx, http.MethodGet, "/auth/me", nil, nil, &resp); err != nil {
		return user.Profile{}, err
	}
	return resp.User, nil
}

func (c *Client) ChangePassword(ctx context.Context, req user.ChangePasswordRequest) (string, error) {
	var resp item.Message
	if err := c.t.call(ctx, http.MethodPut, "/auth/change-password", nil, req, &resp); err != nil {
		return "", err
	}
	return resp.Message, nil
}

// ==================== Bulk ====================

func (c *Client) bulk(ctx context.Context, path string, refs []item.Ref) (item.BulkResult, error) {
	var resp item.BulkResult
	if len(refs) == 0 {
		return resp, nil
	}
	err := c.t.call(ctx, http.MethodPost, path, nil, item.BulkRequest{Items: refs}, &resp)
	return resp, err
}

func (c *Client) BulkRestore(ctx context.Context, refs []item.Ref) (item.BulkResult, error) {
	return c.bulk(ctx, "/trash/bulk/restore", refs)
}

// BulkDelete удаляет сущности из корзины навсегда.
func (c *Client) BulkDelete(ctx context.Context, refs []item.Ref) (item.BulkResult, error) {
	return c.bulk(ctx, "/trash/bulk/delete", refs)
}

// BulkTrash переносит активные сущности в корзину.
func (c *Client) BulkTrash(ctx context.Context, refs []item.Ref) (item.BulkResult, error) {
	return c.bulk(ctx, "/trash/bulk/move", refs)
}

func (c *Client) BulkArchive(ctx context.Context, refs []item.Ref) (item.BulkResult, error) {
	return c.bulk(ctx, "/archive/bulk/archive", refs)
}

func (c *Client) BulkUnarchive(ctx context.Context, refs []item.Ref) (item.BulkResult, error) {
	return c.bulk(ctx, "/archive/bulk/unarchive", refs)
}

// ==================== Trash & archive ====================

func (c *Client) TrashItems(ctx context.Context) (item.Listing, error) {
	l := item.NewListing()
	err := c.t.call(ctx, http.MethodGet, "/trash", nil, nil, &l)
	return l, err
}

func (c *Client) TrashStats(ctx context.Context) (item.Stats, error) {
	var s item.Stats
	err := c.t.call(ctx, http.MethodGet, "/trash/stats", nil, nil, &s)
	return s, err
}

func (c *Client) EmptyTrash(ctx context.Context) (item.PurgeResult, error) {
	var r item.PurgeResult
	err := c.t.call(ctx, http.MethodDelete, "/trash/empty", nil, nil, &r)
	return r, err
}

func (c *Client) ArchiveItems(ctx context.Context) (item.Listing, error) {
	l := item.NewListing()
	err := c.t.call(ctx, http.MethodGet, "/archive", nil, nil, &l)
	return l, err
}

func (c *Client) ArchiveStats(ctx context.Context) (item.Stats, error) {
	var s item.Stats
	err := c.t.call(ctx, http.MethodGet, "/archive/stats", nil, nil, &s)
	return s, err
}

// ==================== Search ====================

func (c *Client) Search(ctx context.Context, q string, f item.SearchFilter) (item.Listing, error) {
	query := url.Values{"q": {q}}
	if f.Type != "" {
		query.Set("type", string(f.Type))
	}
	if f.Status != "" {
		query.Set("status", string(f.Status))
	}

	l := item.NewListing()
	err := c.t.call(ctx, http.MethodGet, "/search", query, nil, &l)
	return l, err
}

// ==================== URL clicks ====================

// RecordClick отправляет телеметрию перехода по закладке. Ошибки только
// логируются: переход не должен зависеть от статистики.
func (c *Client) RecordClick(ctx context.Context, id string) (*item.URLBookmark, bool) {
	resp, err := c.t.doRequest(ctx, http.MethodPost, "/urls/"+url.PathEscape(id)+"/click", nil, nil)
	if err != nil {
		c.log.Warn("Не удалось записать переход", slog.String("id", id), slog.Any("error", err))
		return nil, false
	}
	u, _, found, err := item.Envelope[*item.URLBookmark](resp.body, item.KindURL)
	if err != nil || !found {
		return nil, false
	}
	return u, true
}

// ==================== Documents ====================

// Download — содержимое документа.
type Download struct {
	FileName    string
	ContentType string
	Data        []byte
}

func (c *Client) Download(ctx context.Context, id string) (*Download, error) {
	resp, err := c.t.doRequest(ctx, http.MethodGet, "/documents/"+url.PathEscape(id)+"/download", nil, nil)
	if err != nil {
		return nil, err
	}

	d := &Download{
		ContentType: resp.header.Get("Content-Type"),
		Data:        resp.body,
	}
	if _, params, err := mime.ParseMediaType(resp.header.Get("Content-Disposition")); err == nil {
		d.FileName = params["filename"]
	}
	return d, nil
}
