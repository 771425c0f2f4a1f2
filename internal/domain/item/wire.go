package item

import (
	"encoding/json"
	"fmt"
)

// Message — ответ операций, у которых нет представления сущности.
type Message struct {
	Message string `json:"message"`
}

type BulkRequest struct {
	Items []Ref `json:"items" minItems:"1"`
}

type BulkFailure struct {
	Ref
	Error string `json:"error"`
}

func (f BulkFailure) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type  string `json:"type"`
		ID    string `json:"id"`
		Error string `json:"error"`
	}{f.Type.Singular(), f.ID, f.Error})
}

type BulkResult struct {
	Succeeded []Ref         `json:"succeeded"`
	Failed    []BulkFailure `json:"failed"`
}

// Stats — количество сущностей каждого типа в корзине или архиве.
type Stats struct {
	Notes     int `json:"notes"`
	Reminders int `json:"reminders"`
	Documents int `json:"documents"`
	URLs      int `json:"urls"`
	Total     int `json:"total"`
}

// Add учитывает одну сущность типа kind.
func (s *Stats) Add(kind Kind) {
	switch kind {
	case KindNote:
		s.Notes++
	case KindReminder:
		s.Reminders++
	case KindDocument:
		s.Documents++
	case KindURL:
		s.URLs++
	}
	s.Total++
}

// Listing — сводный список сущностей всех типов (корзина, архив, поиск).
type Listing struct {
	Notes     []*Note        `json:"notes"`
	Reminders []*Reminder    `json:"reminders"`
	Documents []*Document    `json:"documents"`
	URLs      []*URLBookmark `json:"urls"`
}

// NewListing возвращает листинг с пустыми, а не nil, срезами.
func NewListing() Listing {
	return Listing{
		Notes:     []*Note{},
		Reminders: []*Reminder{},
		Documents: []*Document{},
		URLs:      []*URLBookmark{},
	}
}

// UnmarshalJSON нормализует записи так же, как DecodeList.
func (l *Listing) UnmarshalJSON(data []byte) error {
	var raw struct {
		Notes     json.RawMessage `json:"notes"`
		Reminders json.RawMessage `json:"reminders"`
		Documents json.RawMessage `json:"documents"`
		URLs      json.RawMessage `json:"urls"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("decode listing: %w", err)
	}

	var err error
	if l.Notes, err = DecodeList[*Note](raw.Notes); err != nil {
		return fmt.Errorf("notes: %w", err)
	}
	if l.Reminders, err = DecodeList[*Reminder](raw.Reminders); err != nil {
		return fmt.Errorf("reminders: %w", err)
	}
	if l.Documents, err = DecodeList[*Document](raw.Documents); err != nil {
		return fmt.Errorf("documents: %w", err)
	}
	if l.URLs, err = DecodeList[*URLBookmark](raw.URLs); err != nil {
		return fmt.Errorf("urls: %w", err)
	}
	return nil
}

// Len возвращает общее число сущностей.
func (l Listing) Len() int {
	return len(l.Notes) + len(l.Reminders) + len(l.Documents) + len(l.URLs)
}

// Entities перечисляет сущности в порядке типов.
func (l Listing) Entities() []Entity {
	out := make([]Entity, 0, l.Len())
	for _, n := range l.Notes {
		out = append(out, n)
	}
	for _, r := range l.Reminders {
		out = append(out, r)
	}
	for _, d := range l.Documents {
		out = append(out, d)
	}
	for _, u := range l.URLs {
		out = append(out, u)
	}
	return out
}

// Stats подсчитывает сущности листинга.
func (l Listing) Stats() Stats {
	var s Stats
	for _, e := range l.Entities() {
		s.Add(e.Kind())
	}
	return s
}

// Envelope разбирает ответ на изменяющий запрос. Сервер может вернуть запись
// как есть или обернуть ее: {"message": "...", "note": {...}}.
// Если записи в ответе нет, found == false.
func Envelope[E Record[E]](data []byte, kind Kind) (e E, msg string, found bool, err error) {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(data, &obj); err != nil {
		return e, "", false, fmt.Errorf("decode response: %w", err)
	}

	if raw, ok := obj["message"]; ok {
		_ = json.Unmarshal(raw, &msg)
	}

	for _, key := range []string{kind.Singular(), "item", "data"} {
		if raw, ok := obj[key]; ok && len(raw) > 0 && raw[0] == '{' {
			e, err = Decode[E](raw)
			return e, msg, err == nil, err
		}
	}

	_, hasID := obj["id"]
	_, hasLegacyID := obj["_id"]
	if !hasID && !hasLegacyID {
		return e, msg, false, nil
	}
	e, err = Decode[E](data)
	return e, msg, err == nil, err
}

// PurgeResult — ответ на очистку корзины.
type PurgeResult struct {
	Message string `json:"message"`
	Deleted int    `json:"deleted"`
}

// SearchFilter сужает поиск; пустые поля не ограничивают выдачу.
type SearchFilter struct {
	Type   Kind
	Status State
}
