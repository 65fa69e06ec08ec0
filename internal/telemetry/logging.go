package telemetry

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/shaiso/Releaser/internal/domain"
)

// Переменные окружения, управляющие логированием.
const (
	EnvLogLevel  = "LOG_LEVEL"
	EnvLogFormat = "LOG_FORMAT"
)

// LogConfig — параметры диагностического лога.
type LogConfig struct {
	Level slog.Level
	JSON  bool
}

// LogConfigFromEnv читает LOG_LEVEL (DEBUG, INFO, WARN, ERROR; по умолчанию INFO)
// и LOG_FORMAT (text или json; по умолчанию text).
func LogConfigFromEnv() LogConfig {
	return LogConfig{
		Level: LogLevel(),
		JSON:  strings.EqualFold(os.Getenv(EnvLogFormat), "json"),
	}
}

// LogLevel разбирает LOG_LEVEL. Нераспознанное значение даёт INFO.
func LogLevel() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(os.Getenv(EnvLogLevel)))); err != nil {
		return slog.LevelInfo
	}
	return level
}

// NewLogger строит логгер по cfg. На DEBUG к записям добавляется источник.
func NewLogger(w io.Writer, cfg LogConfig) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level:     cfg.Level,
		AddSource: cfg.Level <= slog.LevelDebug,
	}
	if cfg.JSON {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// SetupLogger строит логгер из окружения и делает его глобальным.
// CLI передаёт сюда stderr: stdout занят результатом команды.
func SetupLogger(w io.Writer) *slog.Logger {
	logger := NewLogger(w, LogConfigFromEnv())
	slog.SetDefault(logger)
	return logger
}

// RunLogger — логгер одного run: run_id, pipeline, version и пометка dry_run.
func RunLogger(logger *slog.Logger, run *domain.Run) *slog.Logger {
	logger = logger.With(
		"run_id", run.ID.String(),
		"pipeline", run.Pipeline,
		"version", run.Version,
	)
	if run.DryRun {
		logger = logger.With("dry_run", true)
	}
	return logger
}

type loggerKey struct{}

// WithLogger кладёт логгер в контекст. Шаги достают его через FromContext.
func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, logger)
}

// FromContext возвращает логгер из контекста или slog.Default().
func FromContext(ctx context.Context) *slog.Logger {
	if logger, ok := ctx.Value(loggerKey{}).(*slog.Logger); ok {
		return logger
	}
	return slog.Default()
}
