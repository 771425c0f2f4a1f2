package item

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound          = errors.New("item not found")
	ErrInvalidData       = errors.New("invalid item data")
	ErrInvalidTransition = errors.New("invalid lifecycle transition")
)

// TransitionError описывает запрещенный переход; errors.Is(err, ErrInvalidTransition) == true.
type TransitionError struct {
	From   State
	Action Action
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("%s: cannot %s from %s", ErrInvalidTransition, e.Action, e.From)
}

func (e *TransitionError) Unwrap() error {
	return ErrInvalidTransition
}
