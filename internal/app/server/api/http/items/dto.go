package items

import "keepnotes/internal/domain/item"

type listInput struct {
	Status string `query:"status" enum:"active,trashed,archived" doc:"Состояние жизненного цикла, по умолчанию active"`
}

type listOutput[E item.Record[E]] struct {
	Body []E
}

// bodyInput принимает сущность как JSON-объект: сервис сам разбирает
// и нормализует поля.
type bodyInput struct {
	Body map[string]any
}

type updateInput struct {
	ID   string `path:"id" doc:"Идентификатор сущности"`
	Body map[string]any
}

type idInput struct {
	ID string `path:"id" doc:"Идентификатор сущности"`
}

type deleteInput struct {
	ID        string `path:"id" doc:"Идентификатор сущности"`
	Permanent bool   `query:"permanent" doc:"Удалить навсегда (только из корзины)"`
}

type itemOutput[E item.Record[E]] struct {
	Body E
}

// deleteOutput — перемещенная в корзину сущность либо item.Message после
// удаления навсегда.
type deleteOutput struct {
	Body any
}

type downloadOutput struct {
	ContentType        string `header:"Content-Type"`
	ContentDisposition string `header:"Content-Disposition"`
	Body               []byte
}
