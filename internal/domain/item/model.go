package item

import (
	"time"
)

// Base — общая для всех сущностей часть: идентичность и жизненный цикл.
type Base struct {
	ID         string     `json:"id"`
	State      State      `json:"lifecycleState"`
	TrashedAt  *time.Time `json:"trashedAt,omitempty"`
	ArchivedAt *time.Time `json:"archivedAt,omitempty"`
	CreatedAt  time.Time  `json:"createdAt"`
	UpdatedAt  time.Time  `json:"updatedAt"`
}

// Meta дает доступ к общей части через интерфейс Entity.
func (b *Base) Meta() *Base {
	return b
}

func (b Base) clone() Base {
	c := b
	c.TrashedAt = cloneTime(b.TrashedAt)
	c.ArchivedAt = cloneTime(b.ArchivedAt)
	return c
}

// Entity — сущность с жизненным циклом.
type Entity interface {
	Meta() *Base
	Kind() Kind
	Label() string
	Validate() error
}

// Record — сущность, умеющая делать глубокую копию своего конкретного типа.
// Используется как ограничение дженериков клиента и сервера.
type Record[E any] interface {
	Entity
	Clone() E
}

// Unpinner реализуют сущности с флагом закрепления.
type Unpinner interface {
	Unpin()
}

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// Valid допускает пустой приоритет: сервер подставит medium.
func (p Priority) Valid() bool {
	switch p {
	case "", PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

type ChecklistItem struct {
	ID   string `json:"id"`
	Text string `json:"text"`
	Done bool   `json:"done"`
}

type Note struct {
	Base
	Title      string          `json:"title"`
	Content    string          `json:"content"`
	Checklist  []ChecklistItem `json:"checklist,omitempty"`
	Color      string          `json:"color,omitempty"`
	Pinned     bool            `json:"pinned"`
	ReminderAt *time.Time      `json:"reminderAt,omitempty"`
}

func (n *Note) Kind() Kind { return KindNote }

func (n *Note) Label() string { return n.Title }

func (n *Note) Unpin() { n.Pinned = false }

func (n *Note) Clone() *Note {
	c := *n
	c.Base = n.Base.clone()
	if n.Checklist != nil {
		c.Checklist = make([]ChecklistItem, len(n.Checklist))
		copy(c.Checklist, n.Checklist)
	}
	c.ReminderAt = cloneTime(n.ReminderAt)
	return &c
}

type Reminder struct {
	Base
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	DueAt       time.Time `json:"dueAt"`
	Priority    Priority  `json:"priority"`
	Completed   bool      `json:"completed"`
	Notified    bool      `json:"notified"`
}

func (r *Reminder) Kind() Kind { return KindReminder }

func (r *Reminder) Label() string { return r.Title }

func (r *Reminder) Clone() *Reminder {
	c := *r
	c.Base = r.Base.clone()
	return &c
}

// Due сообщает, пора ли показать напоминание.
func (r *Reminder) Due(now time.Time) bool {
	return r.State == StateActive && !r.Completed && !r.Notified && !r.DueAt.After(now)
}

type Document struct {
	Base
	Title       string   `json:"title"`
	Description string   `json:"description,omitempty"`
	FileName    string   `json:"fileName"`
	FileType    string   `json:"fileType"`
	FileSize    int64    `json:"fileSize"`
	Content     string   `json:"content,omitempty"`
	Tags        []string `json:"tags,omitempty"`
}

func (d *Document) Kind() Kind { return KindDocument }

func (d *Document) Label() string {
	if d.Title != "" {
		return d.Title
	}
	return d.FileName
}

func (d *Document) Clone() *Document {
	c := *d
	c.Base = d.Base.clone()
	c.Tags = cloneStrings(d.Tags)
	return &c
}

type URLBookmark struct {
	Base
	Title      string   `json:"title"`
	URL        string   `json:"url"`
	Category   string   `json:"category,omitempty"`
	Tags       []string `json:"tags,omitempty"`
	Priority   Priority `json:"priority"`
	ClickCount int      `json:"clickCount"`
}

func (u *URLBookmark) Kind() Kind { return KindURL }

func (u *URLBookmark) Label() string {
	if u.Title != "" {
		return u.Title
	}
	return u.URL
}

func (u *URLBookmark) Clone() *URLBookmark {
	c := *u
	c.Base = u.Base.clone()
	c.Tags = cloneStrings(u.Tags)
	return &c
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	c := *t
	return &c
}

func cloneStrings(s []string) []string {
	if s == nil {
		return nil
	}
	c := make([]string, len(s))
	copy(c, s)
	return c
}

// CloneAll копирует список целиком; nil остается nil.
func CloneAll[E Record[E]](items []E) []E {
	if items == nil {
		return nil
	}
	out := make([]E, len(items))
	for i, it := range items {
		out[i] = it.Clone()
	}
	return out
}

// Summary — документ без содержимого файла, для списков.
func (d *Document) Summary() *Document {
	c := d.Clone()
	c.Content = ""
	return c
}
