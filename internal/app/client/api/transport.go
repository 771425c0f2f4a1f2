package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/exp/slog"
)

const userAgent = "KeepNotes-Client/1.0"

// Credentials — источник bearer-токена. Teardown вызывается, когда сервер
// отверг токен.
type Credentials interface {
	Token() string
	Teardown(reason string) error
}

type transport struct {
	client  *http.Client
	baseURL string
	creds   Credentials
	log     *slog.Logger
}

func newTransport(baseURL string, timeout time.Duration, creds Credentials, log *slog.Logger) *transport {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &transport{
		client: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				IdleConnTimeout:     90 * time.Second,
				MaxIdleConnsPerHost: 10,
			},
		},
		baseURL: baseURL,
		creds:   creds,
		log:     log,
	}
}

type response struct {
	status int
	body   []byte
	header http.Header
}

// doRequest выполняет запрос и возвращает тело успешного ответа.
// Статус >= 400 превращается в *ServerError, 401/403 дополнительно
// завершают сессию.
func (t *transport) doRequest(ctx context.Context, method, path string, query url.Values, body any) (*response, error) {
	op := method + " " + path

	var reqBody io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("%s: ошибка маршалинга тела запроса: %w", op, err)
		}
		reqBody = bytes.NewReader(jsonData)
	}

	target := t.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reqBody)
	if err != nil {
		return nil, fmt.Errorf("%s: ошибка создания запроса: %w", op, err)
	}

	// Добавляем заголовки
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	token := t.creds.Token()
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	t.log.Debug("Отправка запроса",
		slog.String("method", method),
		slog.String("url", req.URL.String()),
	)

	resp, err := t.client.Do(req)
	if err != nil {
		return nil, &NetworkError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &NetworkError{Op: op, Err: fmt.Errorf("ошибка чтения ответа: %w", err)}
	}

	t.log.Debug("Получен ответ",
		slog.String("method", method),
		slog.String("path", path),
		slog.Int("status", resp.StatusCode),
	)

	if resp.StatusCode >= http.StatusBadRequest {
		se := newServerError(resp.StatusCode, data)
		if isAuthStatus(resp.StatusCode) && token != "" {
			if err := t.creds.Teardown("server rejected credentials"); err != nil {
				t.log.Warn("Не удалось завершить сессию", slog.Any("error", err))
			}
		}
		return nil, se
	}

	return &response{status: resp.StatusCode, body: data, header: resp.Header}, nil
}

// call — doRequest с разбором JSON-ответа в result (если result != nil).
func (t *transport) call(ctx context.Context, method, path string, query url.Values, body, result any) error {
	resp, err := t.doRequest(ctx, method, path, query, body)
	if err != nil {
		return err
	}
	return parseResponse(resp, result)
}

func parseResponse(resp *response, result any) error {
	if result == nil || len(bytes.TrimSpace(resp.body)) == 0 {
		return nil
	}
	if err := json.Unmarshal(resp.body, result); err != nil {
		return fmt.Errorf("ошибка парсинга ответа: %w", err)
	}
	return nil
}
