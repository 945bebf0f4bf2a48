package logger

import (
	"os"
	"strings"

	"golang.org/x/exp/slog"

	"lifehub/internal/app/server/config"
)

// New создает логгер для окружения env
func New(env string) *slog.Logger {
	return NewWithLevel(env, "")
}

// NewWithLevel создает логгер для окружения env; непустой level (debug, info, warn, error)
// переопределяет уровень окружения
func NewWithLevel(env, level string) *slog.Logger {
	var log *slog.Logger

	switch env {
	case config.EnvLocal:
		log = setupPrettySlog(levelOr(level, slog.LevelDebug))
	case config.EnvDev:
		log = slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: levelOr(level, slog.LevelDebug)}))
	default:
		log = slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: levelOr(level, slog.LevelInfo)}))
	}

	return log
}

func levelOr(level string, fallback slog.Level) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return fallback
	}
}

func setupPrettySlog(level slog.Level) *slog.Logger {
	opts := PrettyHandlerOptions{
		SlogOpts: &slog.HandlerOptions{Level: level},
	}

	return slog.New(opts.NewPrettyHandler(os.Stdout))
}
