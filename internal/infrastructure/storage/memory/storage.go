// Package memory — хранилище эталонного сервера в памяти процесса.
package memory

import (
	"golang.org/x/exp/slog"

	"keepnotes/internal/domain/item"
)

// Storage объединяет репозитории всех сущностей сервера.
type Storage struct {
	Notes     *Items[*item.Note]
	Reminders *Items[*item.Reminder]
	Documents *Items[*item.Document]
	URLs      *Items[*item.URLBookmark]
	Users     *UserRepository
	Sessions  *SessionRepository
}

func New(log *slog.Logger) *Storage {
	return &Storage{
		Notes:     NewItems[*item.Note](item.KindNote, log),
		Reminders: NewItems[*item.Reminder](item.KindReminder, log),
		Documents: NewItems[*item.Document](item.KindDocument, log),
		URLs:      NewItems[*item.URLBookmark](item.KindURL, log),
		Users:     NewUserRepository(log),
		Sessions:  NewSessionRepository(log),
	}
}
