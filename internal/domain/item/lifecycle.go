package item

import "time"

// Action — действие пользователя, переводящее сущность между состояниями.
type Action string

const (
	ActionTrash     Action = "trash"
	ActionArchive   Action = "archive"
	ActionRestore   Action = "restore"
	ActionUnarchive Action = "unarchive"
	ActionPurge     Action = "purge"
)

func (a Action) String() string {
	return string(a)
}

type edge struct {
	from   State
	action Action
}

// transitions — полная таблица разрешенных переходов. archived -> trashed
// намеренно отсутствует: из архива сначала разархивируют.
var transitions = map[edge]State{
	{StateActive, ActionTrash}:       StateTrashed,
	{StateActive, ActionArchive}:     StateArchived,
	{StateTrashed, ActionRestore}:    StateActive,
	{StateArchived, ActionUnarchive}: StateActive,
	{StateTrashed, ActionPurge}:      StateDestroyed,
}

// Next возвращает целевое состояние перехода или *TransitionError.
func Next(from State, action Action) (State, error) {
	to, ok := transitions[edge{from, action}]
	if !ok {
		return "", &TransitionError{From: from, Action: action}
	}
	return to, nil
}

// Allowed перечисляет действия, допустимые из состояния from.
func Allowed(from State) []Action {
	var out []Action
	for _, a := range []Action{ActionTrash, ActionArchive, ActionRestore, ActionUnarchive, ActionPurge} {
		if _, ok := transitions[edge{from, a}]; ok {
			out = append(out, a)
		}
	}
	return out
}

// Apply выполняет переход над сущностью и его побочные эффекты.
// Для ActionPurge сущность не меняется: ее удаляет вызывающая сторона.
func Apply(e Entity, action Action, now time.Time) (State, error) {
	meta := e.Meta()
	to, err := Next(meta.State, action)
	if err != nil {
		return "", err
	}
	if to == StateDestroyed {
		return to, nil
	}

	ts := now
	switch action {
	case ActionTrash:
		meta.TrashedAt = &ts
		if p, ok := e.(Unpinner); ok {
			p.Unpin()
		}
	case ActionArchive:
		meta.ArchivedAt = &ts
	case ActionRestore:
		meta.TrashedAt = nil
	case ActionUnarchive:
		meta.ArchivedAt = nil
	}
	meta.State = to
	meta.UpdatedAt = now

	return to, nil
}

// Init подготавливает новую сущность: active, без меток корзины и архива.
func Init(e Entity, id string, now time.Time) {
	meta := e.Meta()
	meta.ID = id
	meta.State = StateActive
	meta.TrashedAt = nil
	meta.ArchivedAt = nil
	meta.CreatedAt = now
	meta.UpdatedAt = now
}

// Touch отмечает изменение содержимого сущности.
func Touch(e Entity, now time.Time) {
	e.Meta().UpdatedAt = now
}
