package item

import (
	"encoding/json"
	"fmt"

	"github.com/danielgtaylor/huma/v2"
)

// Kind — тип сущности, совпадает с сегментом пути REST API.
type Kind string

const (
	KindNote     Kind = "notes"
	KindReminder Kind = "reminders"
	KindDocument Kind = "documents"
	KindURL      Kind = "urls"
)

// Kinds перечисляет все типы в порядке отображения.
var Kinds = []Kind{KindNote, KindReminder, KindDocument, KindURL}

func (Kind) Schema(_ huma.Registry) *huma.Schema {
	return &huma.Schema{
		Type: "string",
		Enum: []any{
			string(KindNote), "note",
			string(KindReminder), "reminder",
			string(KindDocument), "document",
			string(KindURL), "url",
		},
		Description: "Тип сущности",
		Examples:    []any{KindNote},
	}
}

// Validate реализует интерфейс huma.Validatable.
func (k Kind) Validate() error {
	switch k {
	case KindNote, KindReminder, KindDocument, KindURL:
		return nil
	}
	return fmt.Errorf("неверный тип сущности: %s", k)
}

// ParseKind принимает как множественную форму пути ("notes"),
// так и единственную, которую использует bulk API ("note").
func ParseKind(s string) (Kind, error) {
	switch s {
	case "notes", "note":
		return KindNote, nil
	case "reminders", "reminder":
		return KindReminder, nil
	case "documents", "document":
		return KindDocument, nil
	case "urls", "url":
		return KindURL, nil
	}
	return "", fmt.Errorf("неверный тип сущности: %s", s)
}

// UnmarshalJSON приводит любую из форм к множественной.
func (k *Kind) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseKind(s)
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

func (k Kind) String() string {
	return string(k)
}

// Singular возвращает имя типа в единственном числе.
func (k Kind) Singular() string {
	switch k {
	case KindNote:
		return "note"
	case KindReminder:
		return "reminder"
	case KindDocument:
		return "document"
	case KindURL:
		return "url"
	}
	return string(k)
}

// Cacheable сообщает, сохраняется ли список этого типа в локальный кэш.
func (k Kind) Cacheable() bool {
	return k == KindNote || k == KindReminder || k == KindURL
}

// DisplayName возвращает человекочитаемое название типа.
func (k Kind) DisplayName() string {
	switch k {
	case KindNote:
		return "Заметка"
	case KindReminder:
		return "Напоминание"
	case KindDocument:
		return "Документ"
	case KindURL:
		return "Закладка"
	default:
		return "Неизвестный тип"
	}
}

// Ref адресует сущность любого типа; формат элемента bulk-запросов.
// На проводе тип пишется в единственном числе: {"type":"note","id":"42"}.
type Ref struct {
	Type Kind   `json:"type"`
	ID   string `json:"id"`
}

func (r Ref) String() string {
	return r.Type.Singular() + ":" + r.ID
}

func (r Ref) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type string `json:"type"`
		ID   string `json:"id"`
	}{r.Type.Singular(), r.ID})
}

// Refs собирает ссылки на сущности одного типа.
func Refs(kind Kind, ids ...string) []Ref {
	out := make([]Ref, 0, len(ids))
	for _, id := range ids {
		out = append(out, Ref{Type: kind, ID: id})
	}
	return out
}
