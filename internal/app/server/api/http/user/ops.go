package user

import (
	"net/http"

	"github.com/danielgtaylor/huma/v2"
)

var bearer = []map[string][]string{{"bearer": {}}}

func (h *Handler) registerOp() huma.Operation {
	return huma.Operation{
		OperationID:   "auth-register",
		Method:        http.MethodPost,
		Path:          "/auth/register",
		Summary:       "Регистрация пользователя",
		Tags:          []string{"auth"},
		DefaultStatus: http.StatusCreated,
		Middlewares:   h.public,
	}
}

func (h *Handler) loginOp() huma.Operation {
	return huma.Operation{
		OperationID: "auth-login",
		Method:      http.MethodPost,
		Path:        "/auth/login",
		Summary:     "Вход по имени пользователя или почте",
		Tags:        []string{"auth"},
		Middlewares: h.public,
	}
}

func (h *Handler) refreshOp() huma.Operation {
	return huma.Operation{
		OperationID: "auth-refresh",
		Method:      http.MethodPost,
		Path:        "/auth/refresh",
		Summary:     "Обмен refresh-токена на новую пару токенов",
		Tags:        []string{"auth"},
		Middlewares: h.public,
	}
}

func (h *Handler) logoutOp() huma.Operation {
	return huma.Operation{
		OperationID: "auth-logout",
		Method:      http.MethodPost,
		Path:        "/auth/logout",
		Summary:     "Завершение текущей сессии",
		Tags:        []string{"auth"},
		Security:    bearer,
		Middlewares: h.private,
	}
}

func (h *Handler) logoutAllOp() huma.Operation {
	return huma.Operation{
		OperationID: "auth-logout-all",
		Method:      http.MethodPost,
		Path:        "/auth/logout-all",
		Summary:     "Завершение всех сессий пользователя",
		Tags:        []string{"auth"},
		Security:    bearer,
		Middlewares: h.private,
	}
}

func (h *Handler) meOp() huma.Operation {
	return huma.Operation{
		OperationID: "auth-me",
		Method:      http.MethodGet,
		Path:        "/auth/me",
		Summary:     "Профиль текущего пользователя",
		Tags:        []string{"auth"},
		Security:    bearer,
		Middlewares: h.private,
	}
}

func (h *Handler) changePasswordOp() huma.Operation {
	return huma.Operation{
		OperationID: "auth-change-password",
		Method:      http.MethodPut,
		Path:        "/auth/change-password",
		Summary:     "Смена пароля",
		Tags:        []string{"auth"},
		Security:    bearer,
		Middlewares: h.private,
	}
}
