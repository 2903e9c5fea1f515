package contract

import (
	"context"
	"io"

	"github.com/charmbracelet/log"
)

// LogTimeFormat is the timestamp layout of every log line.
const LogTimeFormat = "15:04:05.00"

// NewLogger creates a logger with timestamps that filters below level.
func NewLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      LogTimeFormat,
		Level:           level,
	})
}

type loggerKey struct{}

// WithLogger returns a new context carrying l.
func WithLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, l)
}

// LoggerFrom returns the logger carried by ctx, or log.Default().
func LoggerFrom(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(loggerKey{}).(*log.Logger); ok {
		return l
	}
	return log.Default()
}
