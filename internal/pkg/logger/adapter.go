package logger

import (
	"context"
	"log/slog"

	"options_sdk/internal/app/port"

	"go.uber.org/zap"
	"go.uber.org/zap/exp/zapslog"
)

// slogAdapter implements port.Logger on top of a slog.Logger.
type slogAdapter struct {
	logger *slog.Logger
}

// NewSlogAdapter returns a port.Logger writing through the given zap logger.
func NewSlogAdapter(z *zap.Logger) port.Logger {
	return &slogAdapter{logger: slog.New(zapslog.NewHandler(z.Core()))}
}

// NewNop returns a port.Logger that discards everything.
func NewNop() port.Logger {
	return NewSlogAdapter(zap.NewNop())
}

func (a *slogAdapter) Info(msg string, args ...any) {
	a.logger.Info(msg, args...)
}

func (a *slogAdapter) Debug(msg string, args ...any) {
	if a.logger.Enabled(context.Background(), slog.LevelDebug) {
		a.logger.Debug(msg, args...)
	}
}

func (a *slogAdapter) Warn(msg string, args ...any) {
	a.logger.Warn(msg, args...)
}

func (a *slogAdapter) Error(msg string, args ...any) {
	a.logger.Error(msg, args...)
}

func (a *slogAdapter) With(args ...any) port.Logger {
	return &slogAdapter{logger: a.logger.With(args...)}
}
