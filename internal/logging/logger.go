package logging

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"salesbot/internal/config"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// New создает zerolog логгер по настройкам.
// Пустые поля: JSON, уровень info, вывод в stdout.
func New(cfg config.LoggingConfig, app config.AppConfig) (*zerolog.Logger, io.Closer, error) {
	level := zerolog.InfoLevel
	if parsed, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(cfg.Level))); err == nil && parsed != zerolog.NoLevel {
		level = parsed
	}

	output := io.Writer(os.Stdout)
	var closer io.Closer

	switch strings.ToLower(strings.TrimSpace(cfg.Output)) {
	case "stderr":
		output = os.Stderr
	case "file":
		if cfg.FilePath == "" {
			return nil, nil, fmt.Errorf("logging.output=file requires logging.file_path")
		}
		file, err := os.OpenFile(cfg.FilePath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("open log file: %w", err)
		}
		output = file
		closer = file
	}

	if strings.ToLower(strings.TrimSpace(cfg.Format)) == "console" {
		output = zerolog.ConsoleWriter{Out: output, TimeFormat: time.RFC3339}
	}

	zerolog.TimeFieldFormat = time.RFC3339Nano
	base := zerolog.New(output).
		Level(level).
		With().
		Timestamp().
		Str("app", app.Name).
		Str("env", app.Environment).
		Str("version", app.Version).
		Logger()

	return &base, closer, nil
}

// Component дочерний логгер подсистемы
func Component(logger *zerolog.Logger, name string) *zerolog.Logger {
	l := logger.With().Str("component", name).Logger()
	return &l
}

// WithRequest привязывает к контексту логгер с request_id одного обновления
func WithRequest(ctx context.Context, logger *zerolog.Logger, userID int64) (context.Context, *zerolog.Logger) {
	l := logger.With().
		Str("request_id", uuid.NewString()).
		Int64("user_id", userID).
		Logger()
	return l.WithContext(ctx), &l
}

// FromContext логгер из контекста, либо fallback
func FromContext(ctx context.Context, fallback *zerolog.Logger) *zerolog.Logger {
	if l := zerolog.Ctx(ctx); l != nil && l.GetLevel() != zerolog.Disabled {
		return l
	}
	return fallback
}
