package health

import (
	"net/http"

	"github.com/danielgtaylor/huma/v2"
)

func (h *Handler) healthCheckOp() huma.Operation {
	return huma.Operation{
		OperationID: "health-check",
		Method:      http.MethodGet,
		Path:        "/health",
		Summary:     "Проверка доступности сервера",
		Description: "Публичная операция: клиент вызывает ее в ping и init",
		Tags:        []string{"health"},
		Middlewares: h.middleware,
	}
}
