package item

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// protectedFields меняются только переходами жизненного цикла и сервером.
var protectedFields = []string{"id", "_id", "lifecycleState", "trashed", "archived", "trashedAt", "archivedAt", "createdAt", "updatedAt"}

var jsonNull = json.RawMessage("null")

// Changes собирает частичное обновление из полей after, отличающихся от
// before. Поле, пропавшее после правки, передается как null.
func Changes(before, after Entity) (map[string]json.RawMessage, error) {
	was, err := fields(before)
	if err != nil {
		return nil, err
	}
	now, err := fields(after)
	if err != nil {
		return nil, err
	}

	patch := make(map[string]json.RawMessage)
	for k, v := range now {
		if old, ok := was[k]; !ok || !bytes.Equal(old, v) {
			patch[k] = v
		}
	}
	for k := range was {
		if _, ok := now[k]; !ok {
			patch[k] = jsonNull
		}
	}
	for _, k := range protectedFields {
		delete(patch, k)
	}
	return patch, nil
}

// merge накладывает patch на сериализованную сущность; null удаляет поле.
func merge(e Entity, patch map[string]json.RawMessage) ([]byte, error) {
	merged, err := fields(e)
	if err != nil {
		return nil, err
	}
	for k, v := range patch {
		if isNull(v) {
			delete(merged, k)
			continue
		}
		merged[k] = v
	}
	return json.Marshal(merged)
}

func fields(e Entity) (map[string]json.RawMessage, error) {
	data, err := json.Marshal(e)
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", e.Kind().Singular(), err)
	}
	var out map[string]json.RawMessage
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("encode %s: %w", e.Kind().Singular(), err)
	}
	return out, nil
}

func isNull(v json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(v), jsonNull)
}
