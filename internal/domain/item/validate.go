package item

import (
	"fmt"
	"net/url"
	"strings"
)

func (n *Note) Validate() error {
	if strings.TrimSpace(n.Title) == "" && strings.TrimSpace(n.Content) == "" && len(n.Checklist) == 0 {
		return fmt.Errorf("%w: note needs a title, content or checklist", ErrInvalidData)
	}
	// Черновик еще без состояния; закрепить можно только активную заметку.
	if n.Pinned && n.State != "" && n.State != StateActive {
		return fmt.Errorf("%w: only active notes can be pinned, note is %s", ErrInvalidData, n.State)
	}
	seen := make(map[string]struct{}, len(n.Checklist))
	for i, c := range n.Checklist {
		if c.ID == "" {
			return fmt.Errorf("%w: checklist item %d has no id", ErrInvalidData, i)
		}
		if _, dup := seen[c.ID]; dup {
			return fmt.Errorf("%w: duplicate checklist item id %q", ErrInvalidData, c.ID)
		}
		seen[c.ID] = struct{}{}
		if strings.TrimSpace(c.Text) == "" {
			return fmt.Errorf("%w: checklist item %q has empty text", ErrInvalidData, c.ID)
		}
	}
	return nil
}

func (r *Reminder) Validate() error {
	if strings.TrimSpace(r.Title) == "" {
		return fmt.Errorf("%w: reminder title is required", ErrInvalidData)
	}
	if r.DueAt.IsZero() {
		return fmt.Errorf("%w: reminder date is required", ErrInvalidData)
	}
	if !r.Priority.Valid() {
		return fmt.Errorf("%w: unknown priority %q", ErrInvalidData, r.Priority)
	}
	return nil
}

func (d *Document) Validate() error {
	if strings.TrimSpace(d.Title) == "" && strings.TrimSpace(d.FileName) == "" {
		return fmt.Errorf("%w: document needs a title or file name", ErrInvalidData)
	}
	if d.FileSize < 0 {
		return fmt.Errorf("%w: negative file size", ErrInvalidData)
	}
	return nil
}

func (u *URLBookmark) Validate() error {
	if strings.TrimSpace(u.URL) == "" {
		return fmt.Errorf("%w: url is required", ErrInvalidData)
	}
	parsed, err := url.ParseRequestURI(u.URL)
	if err != nil || parsed.Host == "" {
		return fmt.Errorf("%w: malformed url %q", ErrInvalidData, u.URL)
	}
	if !u.Priority.Valid() {
		return fmt.Errorf("%w: unknown priority %q", ErrInvalidData, u.Priority)
	}
	return nil
}

// Defaulter заполняет поля, которые сервер выставляет сам.
type Defaulter interface {
	ApplyDefaults()
}

func (r *Reminder) ApplyDefaults() {
	if r.Priority == "" {
		r.Priority = PriorityMedium
	}
}

func (u *URLBookmark) ApplyDefaults() {
	if u.Priority == "" {
		u.Priority = PriorityMedium
	}
}
