package items

import (
	"net/http"

	"github.com/danielgtaylor/huma/v2"
)

var bearer = []map[string][]string{{"bearer": {}}}

func (h *Handler[E]) op(id, method, path, summary string) huma.Operation {
	return huma.Operation{
		OperationID: id + "-" + h.service.Kind().Singular(),
		Method:      method,
		Path:        "/" + h.service.Kind().String() + path,
		Summary:     summary,
		Tags:        []string{h.service.Kind().String()},
		Security:    bearer,
		Middlewares: h.middleware,
	}
}

func (h *Handler[E]) listOp() huma.Operation {
	return h.op("list", http.MethodGet, "", "Список сущностей в заданном состоянии")
}

func (h *Handler[E]) createOp() huma.Operation {
	op := h.op("create", http.MethodPost, "", "Создание сущности")
	op.DefaultStatus = http.StatusCreated
	return op
}

func (h *Handler[E]) updateOp() huma.Operation {
	return h.op("update", http.MethodPut, "/{id}", "Изменение полей сущности")
}

func (h *Handler[E]) deleteOp() huma.Operation {
	return h.op("delete", http.MethodDelete, "/{id}", "Перемещение в корзину или удаление навсегда")
}

func (h *Handler[E]) restoreOp() huma.Operation {
	return h.op("restore", http.MethodPut, "/{id}/restore", "Восстановление из корзины")
}

func (h *Handler[E]) archiveOp() huma.Operation {
	return h.op("archive", http.MethodPut, "/{id}/archive", "Перемещение в архив")
}

func (h *Handler[E]) unarchiveOp() huma.Operation {
	return h.op("unarchive", http.MethodPut, "/{id}/unarchive", "Возврат из архива")
}

func (h *Extras) clickOp() huma.Operation {
	return huma.Operation{
		OperationID: "click-url",
		Method:      http.MethodPost,
		Path:        "/urls/{id}/click",
		Summary:     "Учет перехода по закладке",
		Tags:        []string{"urls"},
		Security:    bearer,
		Middlewares: h.middleware,
	}
}

func (h *Extras) downloadOp() huma.Operation {
	return huma.Operation{
		OperationID: "download-document",
		Method:      http.MethodGet,
		Path:        "/documents/{id}/download",
		Summary:     "Скачивание файла документа",
		Tags:        []string{"documents"},
		Security:    bearer,
		Middlewares: h.middleware,
	}
}
