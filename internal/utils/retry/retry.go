// Package retry повторяет операцию ограниченное число раз с экспоненциальной
// паузой между попытками.
package retry

import (
	"context"
	"time"

	goretry "github.com/sethvargo/go-retry"
	"golang.org/x/exp/slog"
)

// Policy задает число попыток (включая первую) и базовую паузу.
type Policy struct {
	MaxAttempts int
	Base        time.Duration
}

// DefaultUpload — политика загрузки документов: три попытки, пауза от 2с.
var DefaultUpload = Policy{MaxAttempts: 3, Base: 2 * time.Second}

// Do вызывает fn, пока она не вернет nil, попытки не закончатся или
// retryable не откажет. Возвращается последняя ошибка fn.
func Do(ctx context.Context, log *slog.Logger, name string, p Policy, retryable func(error) bool, fn func(ctx context.Context) error) error {
	if p.MaxAttempts < 1 {
		p.MaxAttempts = 1
	}
	if p.Base <= 0 {
		p.Base = time.Millisecond
	}

	backoff := goretry.WithMaxRetries(uint64(p.MaxAttempts-1), goretry.NewExponential(p.Base))

	attempt := 0
	return goretry.Do(ctx, backoff, func(ctx context.Context) error {
		attempt++
		err := fn(ctx)
		if err == nil {
			return nil
		}
		if retryable != nil && !retryable(err) {
			return err
		}
		if log != nil && attempt < p.MaxAttempts {
			log.Warn("attempt failed, retrying",
				slog.String("op", name),
				slog.Int("attempt", attempt),
				slog.Int("max_attempts", p.MaxAttempts),
				slog.Any("error", err),
			)
		}
		return goretry.RetryableError(err)
	})
}
