package client

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/exp/slog"

	"keepnotes/internal/app/client/api"
	"keepnotes/internal/app/client/cache"
	"keepnotes/internal/app/client/config"
	"keepnotes/internal/app/client/guard"
	"keepnotes/internal/app/client/session"
	"keepnotes/internal/domain/item"
	"keepnotes/internal/domain/user"
)

// ErrNotAuthenticated возвращается операциями, которым нужна сессия.
var ErrNotAuthenticated = errors.New("не выполнен вход. Выполните: keepnotes auth login")

type App struct {
	config  *config.Config
	log     *slog.Logger
	session *session.Session
	guard   *guard.Guard
	api     *api.Client
	cache   *cache.Cache
	now     func() time.Time

	Notes     *Collection[*item.Note]
	Reminders *Collection[*item.Reminder]
	Documents *Collection[*item.Document]
	URLs      *Collection[*item.URLBookmark]
}

type options struct {
	store session.Store
	cache *cache.Cache
	now   func() time.Time
}

type Option func(*options)

// WithSessionStore заменяет файловое хранилище токенов.
func WithSessionStore(s session.Store) Option {
	return func(o *options) { o.store = s }
}

// WithCache заменяет резервный кэш на диске.
func WithCache(c *cache.Cache) Option {
	return func(o *options) { o.cache = c }
}

func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

func New(cfg *config.Config, log *slog.Logger, opts ...Option) (*App, error) {
	o := options{now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}

	if o.store == nil || o.cache == nil {
		if err := os.MkdirAll(cfg.ConfigDir, 0700); err != nil {
			return nil, fmt.Errorf("ошибка создания каталога %s: %w", cfg.ConfigDir, err)
		}
	}
	if o.store == nil {
		o.store = session.NewFileStore(cfg.TokenPath)
	}
	if o.cache == nil {
		o.cache = cache.Open(cfg.CachePath, log)
	}

	sess := session.New(o.store, log.With(slog.String("component", "session")))
	g := guard.New()
	cl := api.New(api.Options{BaseURL: cfg.BaseURL(), Timeout: cfg.RequestTimeout}, sess, g, log)

	a := &App{
		config:    cfg,
		log:       log,
		session:   sess,
		guard:     g,
		api:       cl,
		cache:     o.cache,
		now:       o.now,
		Notes:     newCollection(cl.Notes, o.cache, log),
		Reminders: newCollection(cl.Reminders, o.cache, log),
		Documents: newCollection(cl.Documents, o.cache, log),
		URLs:      newCollection(cl.URLs, o.cache, log),
	}
	a.Documents.create = cfg.UploadPolicy()

	sess.OnTeardown(func() {
		log.Debug("Сессия завершена, незавершенные операции сброшены")
	})

	return a, nil
}

func (a *App) Config() *config.Config {
	return a.config
}

func (a *App) Session() *session.Session {
	return a.session
}

func (a *App) API() *api.Client {
	return a.api
}

// Close освобождает локальные ресурсы.
func (a *App) Close() error {
	return a.cache.Close()
}

// CheckConnection проверяет соединение с сервером
func (a *App) CheckConnection(ctx context.Context) error {
	return a.api.HealthCheck(ctx)
}

// ==================== Аутентификация ====================

func (a *App) IsAuthenticated() bool {
	return a.session.Authenticated()
}

func (a *App) requireSession() error {
	if !a.session.Authenticated() {
		return ErrNotAuthenticated
	}
	return nil
}

// Register регистрирует нового пользователя
func (a *App) Register(ctx context.Context, req user.RegisterRequest) (*user.AuthResponse, error) {
	resp, err := a.api.Register(ctx, req)
	if err != nil {
		return nil, err
	}
	a.log.Info("Пользователь успешно зарегистрирован", slog.String("username", req.Username))
	return resp, nil
}

// Login выполняет вход пользователя
func (a *App) Login(ctx context.Context, req user.LoginRequest) (*user.AuthResponse, error) {
	resp, err := a.api.Login(ctx, req)
	if err != nil {
		return nil, err
	}
	a.log.Info("Вход выполнен успешно", slog.String("login", a.session.Login()))
	return resp, nil
}

// Logout завершает сессию; all — на всех устройствах.
func (a *App) Logout(ctx context.Context, all bool) error {
	if all {
		return a.api.LogoutAll(ctx)
	}
	return a.api.Logout(ctx)
}

func (a *App) Refresh(ctx context.Context) error {
	if err := a.requireSession(); err != nil {
		return err
	}
	return a.api.Refresh(ctx)
}

func (a *App) Me(ctx context.Context) (user.Profile, error) {
	if err := a.requireSession(); err != nil {
		return user.Profile{}, err
	}
	return a.api.Me(ctx)
}

func (a *App) ChangePassword(ctx context.Context, req user.ChangePasswordRequest) (string, error) {
	if err := a.requireSession(); err != nil {
		return "", err
	}
	return a.api.ChangePassword(ctx, req)
}

// Status — сведения о текущей сессии.
type Status struct {
	Authenticated bool       `json:"authenticated"`
	Login         string     `json:"login,omitempty"`
	Server        string     `json:"server"`
	ExpiresAt     *time.Time `json:"expiresAt,omitempty"`
	Expired       bool       `json:"expired"`
}

func (a *App) Status() Status {
	st := Status{
		Authenticated: a.session.Authenticated(),
		Login:         a.session.Login(),
		Server:        a.config.BaseURL(),
	}
	if exp, ok := a.session.Expiry(); ok {
		st.ExpiresAt = &exp
		st.Expired = !exp.After(a.now())
	}
	return st
}

// ==================== Корзина и архив ====================

func (a *App) Trash(ctx context.Context) (item.Listing, error) {
	if err := a.requireSession(); err != nil {
		return item.Listing{}, err
	}
	return a.api.TrashItems(ctx)
}

func (a *App) TrashStats(ctx context.Context) (item.Stats, error) {
	if err := a.requireSession(); err != nil {
		return item.Stats{}, err
	}
	return a.api.TrashStats(ctx)
}

// EmptyTrash безвозвратно удаляет все из корзины.
func (a *App) EmptyTrash(ctx context.Context) (item.PurgeResult, error) {
	if err := a.requireSession(); err != nil {
		return item.PurgeResult{}, err
	}
	res, err := a.api.EmptyTrash(ctx)
	if err != nil {
		return res, err
	}
	a.Notes.View(item.StateTrashed).Replace(nil)
	a.Reminders.View(item.StateTrashed).Replace(nil)
	a.Documents.View(item.StateTrashed).Replace(nil)
	a.URLs.View(item.StateTrashed).Replace(nil)
	return res, nil
}

func (a *App) Archive(ctx context.Context) (item.Listing, error) {
	if err := a.requireSession(); err != nil {
		return item.Listing{}, err
	}
	return a.api.ArchiveItems(ctx)
}

func (a *App) ArchiveStats(ctx context.Context) (item.Stats, error) {
	if err := a.requireSession(); err != nil {
		return item.Stats{}, err
	}
	return a.api.ArchiveStats(ctx)
}

// BulkOp — групповая операция над сущностями разных типов.
type BulkOp string

const (
	BulkTrash     BulkOp = "trash"
	BulkRestore   BulkOp = "restore"
	BulkDelete    BulkOp = "delete"
	BulkArchive   BulkOp = "archive"
	BulkUnarchive BulkOp = "unarchive"
)

// Bulk выполняет групповую операцию и обновляет загруженные списки
// затронутых типов.
func (a *App) Bulk(ctx context.Context, op BulkOp, refs []item.Ref) (item.BulkResult, error) {
	if err := a.requireSession(); err != nil {
		return item.BulkResult{}, err
	}

	var (
		res item.BulkResult
		err error
	)
	switch op {
	case BulkTrash:
		res, err = a.api.BulkTrash(ctx, refs)
	case BulkRestore:
		res, err = a.api.BulkRestore(ctx, refs)
	case BulkDelete:
		res, err = a.api.BulkDelete(ctx, refs)
	case BulkArchive:
		res, err = a.api.BulkArchive(ctx, refs)
	case BulkUnarchive:
		res, err = a.api.BulkUnarchive(ctx, refs)
	default:
		return item.BulkResult{}, fmt.Errorf("неизвестная групповая операция: %s", op)
	}
	if err != nil {
		return res, err
	}

	kinds := make(map[item.Kind]bool)
	for _, r := range res.Succeeded {
		kinds[r.Type] = true
	}
	if kinds[item.KindNote] {
		a.Notes.refresh(ctx)
	}
	if kinds[item.KindReminder] {
		a.Reminders.refresh(ctx)
	}
	if kinds[item.KindDocument] {
		a.Documents.refresh(ctx)
	}
	if kinds[item.KindURL] {
		a.URLs.refresh(ctx)
	}
	return res, nil
}

func (a *App) Search(ctx context.Context, q string, f item.SearchFilter) (item.Listing, error) {
	if err := a.requireSession(); err != nil {
		return item.Listing{}, err
	}
	return a.api.Search(ctx, q, f)
}

// ==================== Напоминания ====================

// DueReminders возвращает активные напоминания, срок которых наступил.
func (a *App) DueReminders(ctx context.Context) ([]*item.Reminder, error) {
	all, _, err := a.Reminders.Load(ctx, item.StateActive)
	if err != nil {
		return nil, err
	}
	now := a.now()
	due := make([]*item.Reminder, 0)
	for _, r := range all {
		if r.Due(now) {
			due = append(due, r)
		}
	}
	return due, nil
}

// MarkNotified отмечает напоминание показанным.
func (a *App) MarkNotified(ctx context.Context, id string) (*item.Reminder, error) {
	return a.Reminders.Update(ctx, id, func(r *item.Reminder) error {
		r.Notified = true
		return nil
	})
}

// ==================== Документы ====================

// UploadFile читает файл и загружает его как документ. Сбои сети и
// ответы 5xx повторяются по политике загрузки.
func (a *App) UploadFile(ctx context.Context, path string, doc *item.Document) (*item.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("ошибка чтения файла: %w", err)
	}

	if doc == nil {
		doc = &item.Document{}
	}
	doc.FileName = filepath.Base(path)
	doc.FileSize = int64(len(data))
	doc.FileType = mime.TypeByExtension(filepath.Ext(path))
	if doc.FileType == "" {
		doc.FileType = http.DetectContentType(data)
	}
	if doc.Title == "" {
		doc.Title = doc.FileName
	}
	doc.Content = base64.StdEncoding.EncodeToString(data)

	created, err := a.Documents.Create(ctx, doc)
	if err != nil {
		return nil, err
	}
	a.log.Info("Документ загружен", slog.String("id", created.ID), slog.Int64("size", created.FileSize))
	return created, nil
}

// DownloadFile сохраняет содержимое документа в dir и возвращает путь.
func (a *App) DownloadFile(ctx context.Context, id, dir string) (string, error) {
	d, err := a.api.Download(ctx, id)
	if err != nil {
		return "", err
	}
	name := d.FileName
	if name == "" {
		name = "document-" + id
	}
	path := filepath.Join(dir, filepath.Base(name))
	if err := os.WriteFile(path, d.Data, 0600); err != nil {
		return "", fmt.Errorf("ошибка записи файла: %w", err)
	}
	return path, nil
}

// ==================== Закладки ====================

// OpenURL возвращает адрес закладки и фиксирует переход. Счетчик
// обновляется, только если сервер вернул закладку.
func (a *App) OpenURL(ctx context.Context, id string) (string, error) {
	u, ok := a.URLs.View(item.StateActive).Get(id)
	if !ok {
		if _, _, err := a.URLs.Load(ctx, item.StateActive); err != nil {
			return "", err
		}
		if u, ok = a.URLs.View(item.StateActive).Get(id); !ok {
			return "", fmt.Errorf("url %s: %w", id, item.ErrNotFound)
		}
	}

	if updated, ok := a.api.RecordClick(ctx, id); ok {
		a.URLs.View(item.StateActive).Accept(updated)
	}
	return u.URL, nil
}
