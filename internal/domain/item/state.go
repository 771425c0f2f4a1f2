package item

import (
	"fmt"

	"github.com/danielgtaylor/huma/v2"
)

// State — состояние жизненного цикла сущности.
type State string

const (
	StateActive   State = "active"
	StateTrashed  State = "trashed"
	StateArchived State = "archived"

	// StateDestroyed — терминальное состояние после безвозвратного удаления.
	// Никогда не сохраняется и не передается по сети.
	StateDestroyed State = "destroyed"
)

// States перечисляет хранимые состояния.
var States = []State{StateActive, StateTrashed, StateArchived}

func (State) Schema(_ huma.Registry) *huma.Schema {
	return &huma.Schema{
		Type: "string",
		Enum: []any{
			string(StateActive),
			string(StateTrashed),
			string(StateArchived),
		},
		Description: "Состояние жизненного цикла",
		Examples:    []any{StateActive},
	}
}

// Validate реализует интерфейс huma.Validatable.
func (s State) Validate() error {
	switch s {
	case StateActive, StateTrashed, StateArchived:
		return nil
	}
	return fmt.Errorf("неверное состояние: %s", s)
}

// ParseState разбирает значение query-параметра status; пустая строка — active.
func ParseState(s string) (State, error) {
	if s == "" {
		return StateActive, nil
	}
	st := State(s)
	if err := st.Validate(); err != nil {
		return "", err
	}
	return st, nil
}

func (s State) String() string {
	return string(s)
}

// DisplayName возвращает человекочитаемое название состояния.
func (s State) DisplayName() string {
	switch s {
	case StateActive:
		return "Активные"
	case StateTrashed:
		return "Корзина"
	case StateArchived:
		return "Архив"
	default:
		return "Неизвестно"
	}
}
