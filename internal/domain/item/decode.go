package item

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// shape — поля, по которым распознаются альтернативные формы записей:
// идентификатор под ключом _id и булевы флаги вместо lifecycleState.
type shape struct {
	LegacyID string `json:"_id"`
	Trashed  bool   `json:"trashed"`
	Archived bool   `json:"archived"`
}

// Decode разбирает одну запись и приводит ее к канонической форме.
func Decode[E Record[E]](data []byte) (E, error) {
	var e E
	if len(bytes.TrimSpace(data)) == 0 || bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		return e, fmt.Errorf("%w: empty record", ErrInvalidData)
	}
	if err := json.Unmarshal(data, &e); err != nil {
		return e, fmt.Errorf("decode record: %w", err)
	}

	var sh shape
	if err := json.Unmarshal(data, &sh); err != nil {
		return e, fmt.Errorf("decode record shape: %w", err)
	}
	normalize(e.Meta(), sh)

	return e, nil
}

// DecodeList разбирает JSON-массив записей. null и пустой ввод дают пустой список.
func DecodeList[E Record[E]](data []byte) ([]E, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return []E{}, nil
	}

	var raws []json.RawMessage
	if err := json.Unmarshal(trimmed, &raws); err != nil {
		return nil, fmt.Errorf("decode record list: %w", err)
	}

	out := make([]E, 0, len(raws))
	for i, raw := range raws {
		e, err := Decode[E](raw)
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
		out = append(out, e)
	}
	return out, nil
}

func normalize(meta *Base, sh shape) {
	if meta.ID == "" {
		meta.ID = sh.LegacyID
	}
	if meta.State == "" {
		switch {
		case sh.Trashed:
			meta.State = StateTrashed
		case sh.Archived:
			meta.State = StateArchived
		default:
			meta.State = StateActive
		}
	}
	if meta.State == StateActive {
		meta.TrashedAt = nil
		meta.ArchivedAt = nil
	}
}

// InScope сообщает, отображается ли сущность в представлении состояния scope.
func InScope(e Entity, scope State) bool {
	return e.Meta().State == scope
}

// Filter оставляет сущности с состоянием state.
func Filter[E Entity](items []E, state State) []E {
	out := make([]E, 0, len(items))
	for _, it := range items {
		if it.Meta().State == state {
			out = append(out, it)
		}
	}
	return out
}
