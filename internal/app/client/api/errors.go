package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

var (
	// ErrAuthenticationFailed — сервер отверг учетные данные (401/403).
	// Сессия к этому моменту уже завершена.
	ErrAuthenticationFailed = errors.New("authentication failed, please login again")
	// ErrNetwork — запрос не дошел до сервера или ответ не получен.
	ErrNetwork = errors.New("network error")
)

// NetworkError — транспортная ошибка. errors.Is(err, ErrNetwork) == true,
// исходная причина (например, context.Canceled) тоже доступна через errors.Is.
type NetworkError struct {
	Op  string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("%s: %s: %v", e.Op, ErrNetwork, e.Err)
}

func (e *NetworkError) Unwrap() []error {
	return []error{ErrNetwork, e.Err}
}

// ServerError — ответ со статусом >= 400. Message передается как есть.
type ServerError struct {
	Status  int
	Message string
}

func (e *ServerError) Error() string {
	return e.Message
}

// Is сопоставляет 401/403 с ErrAuthenticationFailed.
func (e *ServerError) Is(target error) bool {
	return target == ErrAuthenticationFailed && isAuthStatus(e.Status)
}

func isAuthStatus(status int) bool {
	return status == http.StatusUnauthorized || status == http.StatusForbidden
}

// newServerError извлекает сообщение из тела ответа: поля message, error,
// detail (huma). Без них подставляется текст статуса.
func newServerError(status int, body []byte) *ServerError {
	var payload struct {
		Message string `json:"message"`
		Error   string `json:"error"`
		Detail  string `json:"detail"`
		Title   string `json:"title"`
	}

	msg := ""
	if err := json.Unmarshal(body, &payload); err == nil {
		for _, candidate := range []string{payload.Message, payload.Error, payload.Detail, payload.Title} {
			if candidate != "" {
				msg = candidate
				break
			}
		}
	}
	if msg == "" && isAuthStatus(status) {
		msg = ErrAuthenticationFailed.Error()
	}
	if msg == "" {
		msg = strings.ToLower(http.StatusText(status))
		if msg == "" {
			msg = fmt.Sprintf("status %d", status)
		}
	}
	return &ServerError{Status: status, Message: msg}
}

// Retryable сообщает, имеет ли смысл повторить запрос: сетевые ошибки и 5xx.
func Retryable(err error) bool {
	if errors.Is(err, ErrNetwork) {
		return true
	}
	var se *ServerError
	return errors.As(err, &se) && se.Status >= http.StatusInternalServerError
}

// StatusCode возвращает HTTP-статус ошибки сервера или 0.
func StatusCode(err error) int {
	var se *ServerError
	if errors.As(err, &se) {
		return se.Status
	}
	return 0
}
