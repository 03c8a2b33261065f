// Package logging builds the service logger and carries request-scoped
// loggers through a context.
package logging

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

const (
	FormatJSON    = "json"
	FormatConsole = "console"
)

// New returns a production JSON logger for FormatJSON and a development
// console logger for anything else.
func New(format string) (*zap.Logger, error) {
	var (
		logger *zap.Logger
		err    error
	)

	if format == FormatJSON {
		logger, err = zap.NewProduction()
	} else {
		logger, err = zap.NewDevelopment()
	}

	if err != nil {
		return nil, fmt.Errorf("build %s logger: %w", format, err)
	}

	return logger, nil
}

type ctxKey struct{}

// WithLogger returns a copy of ctx carrying logger.
func WithLogger(ctx context.Context, logger *zap.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, logger)
}

// FromContext returns the logger stored in ctx, or fallback if there is none.
func FromContext(ctx context.Context, fallback *zap.Logger) *zap.Logger {
	if logger, _ := ctx.Value(ctxKey{}).(*zap.Logger); logger != nil {
		return logger
	}

	return fallback
}
