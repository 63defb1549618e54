package logging

import (
	"context"

	"github.com/charmbracelet/log"
)

type ctxKey struct{}

// WithLogger returns a copy of ctx carrying logger. A nil ctx is treated
// as context.Background.
func WithLogger(ctx context.Context, logger *log.Logger) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxKey{}, logger)
}

// FromContext returns the logger carried by ctx, falling back to Default.
func FromContext(ctx context.Context) *log.Logger {
	if ctx == nil {
		return Default()
	}
	logger, _ := ctx.Value(ctxKey{}).(*log.Logger)
	if logger == nil {
		return Default()
	}
	return logger
}

// ForFile is FromContext with the path field attached.
func ForFile(ctx context.Context, path string) *log.Logger {
	return FromContext(ctx).With(FieldPath, path)
}
