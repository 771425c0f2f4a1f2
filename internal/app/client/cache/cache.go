// Package cache — локальный резервный кэш списков. Последний успешный
// список активных сущностей сохраняется и отдается, когда сервер недоступен.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"golang.org/x/exp/slog"

	"keepnotes/internal/domain/item"
)

// ErrParse — сохраненная запись не разбирается. Наружу не возвращается,
// только логируется.
var ErrParse = errors.New("cached collection cannot be parsed")

type Cache struct {
	store Store
	log   *slog.Logger
}

func New(store Store, log *slog.Logger) *Cache {
	return &Cache{
		store: store,
		log:   log.With(slog.String("component", "cache")),
	}
}

// Open открывает SQLite-кэш, а при ошибке переходит на память.
func Open(path string, log *slog.Logger) *Cache {
	var store Store
	sqliteStore, err := NewSQLiteStore(path)
	if err != nil {
		log.Warn("Не удалось инициализировать SQLite, используем память", slog.Any("error", err))
		store = NewMemoryStore()
	} else {
		store = sqliteStore
	}
	return New(store, log)
}

func (c *Cache) Close() error {
	return c.store.Close()
}

// Save сохраняет список целиком. Типы, которые не кэшируются, пропускаются.
// Ошибки записи не мешают работе и только логируются.
func Save[E item.Record[E]](ctx context.Context, c *Cache, kind item.Kind, items []E) {
	if !kind.Cacheable() {
		return
	}

	payload, err := json.Marshal(items)
	if err != nil {
		c.log.Warn("Не удалось сериализовать список", slog.String("kind", kind.String()), slog.Any("error", err))
		return
	}
	if err := c.store.Put(ctx, kind.String(), payload); err != nil {
		c.log.Warn("Не удалось сохранить кэш", slog.String("kind", kind.String()), slog.Any("error", err))
		return
	}
	c.log.Debug("Кэш обновлен", slog.String("kind", kind.String()), slog.Int("count", len(items)))
}

// Load возвращает сохраненный список активных сущностей. ok == false, если
// для типа ничего не сохранено. Неразборчивая запись дает пустой список.
func Load[E item.Record[E]](ctx context.Context, c *Cache, kind item.Kind) (items []E, ok bool) {
	if !kind.Cacheable() {
		return nil, false
	}

	payload, found, err := c.store.Get(ctx, kind.String())
	if err != nil {
		c.log.Warn("Не удалось прочитать кэш", slog.String("kind", kind.String()), slog.Any("error", err))
		return nil, false
	}
	if !found {
		return nil, false
	}

	all, err := item.DecodeList[E](payload)
	if err != nil {
		c.log.Warn("Кэш поврежден", slog.String("kind", kind.String()), slog.Any("error", fmt.Errorf("%w: %v", ErrParse, err)))
		return []E{}, true
	}
	return item.Filter(all, item.StateActive), true
}
