package logger

import (
	"io"
	"os"
	"strings"

	"golang.org/x/exp/slog"

	"keepnotes/internal/config"
	"keepnotes/internal/utils/logger/handlers/slogpretty"
)

type options struct {
	out   io.Writer
	level *slog.Level
}

type Option func(*options)

// WithOutput перенаправляет вывод логгера (по умолчанию stderr,
// чтобы не смешивать логи с выводом команд).
func WithOutput(w io.Writer) Option {
	return func(o *options) { o.out = w }
}

// WithLevel переопределяет уровень, выбранный по окружению.
// Пустая или неизвестная строка игнорируется.
func WithLevel(level string) Option {
	return func(o *options) {
		if l, ok := ParseLevel(level); ok {
			o.level = &l
		}
	}
}

// New создает логгер под окружение: local — цветной человекочитаемый вывод,
// dev — JSON с debug, prod — JSON с info.
func New(env string, opts ...Option) *slog.Logger {
	o := options{out: os.Stderr}
	for _, opt := range opts {
		opt(&o)
	}

	level := slog.LevelDebug
	if env == config.EnvProd {
		level = slog.LevelInfo
	}
	if o.level != nil {
		level = *o.level
	}

	switch env {
	case config.EnvDev, config.EnvProd:
		return slog.New(slog.NewJSONHandler(o.out, &slog.HandlerOptions{Level: level}))
	default:
		return setupPrettySlog(o.out, level)
	}
}

func setupPrettySlog(out io.Writer, level slog.Level) *slog.Logger {
	opts := slogpretty.PrettyHandlerOptions{
		SlogOpts: &slog.HandlerOptions{
			Level: level,
		},
	}

	return slog.New(opts.NewPrettyHandler(out))
}

// Discard возвращает логгер, который ничего не пишет. Для тестов.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func ParseLevel(s string) (slog.Level, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, true
	case "info":
		return slog.LevelInfo, true
	case "warn", "warning":
		return slog.LevelWarn, true
	case "error":
		return slog.LevelError, true
	}
	return slog.LevelInfo, false
}
