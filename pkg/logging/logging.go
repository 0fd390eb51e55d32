// Package logging configures slog with a tint handler and adds
// request-scoped helpers.
//
// Usage:
//
//	logging.Setup("info")
//	ctx = logging.WithRequestID(ctx, rid)
//	logging.CtxInfo(ctx, "loan application created", slog.Uint64("application_id", id))
package logging

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/lmittmann/tint"
)

type contextKey string

const requestIDKey contextKey = "request_id"

// Setup installs a tint handler on stderr as the default slog logger.
func Setup(level string) {
	SetupWriter(os.Stderr, ParseLevel(level))
}

// SetupWriter installs a tint handler writing to w.
func SetupWriter(w io.Writer, level slog.Level) {
	slog.SetDefault(slog.New(
		tint.NewHandler(w, &tint.Options{
			Level:      level,
			TimeFormat: time.RFC3339,
			AddSource:  true,
		}),
	))
}

// ParseLevel maps debug, info, warn and error; anything else is info.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// WithRequestID returns a new context carrying the request id.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey, requestID)
}

// RequestID returns the request id stored in ctx, or "".
func RequestID(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	s, _ := ctx.Value(requestIDKey).(string)
	return s
}

func withRequestAttr(ctx context.Context, args []slog.Attr) []slog.Attr {
	if rid := RequestID(ctx); rid != "" {
		args = append(args, slog.String("request_id", rid))
	}
	return args
}

func CtxDebug(ctx context.Context, msg string, args ...slog.Attr) {
	slog.LogAttrs(ctx, slog.LevelDebug, msg, withRequestAttr(ctx, args)...)
}

func CtxInfo(ctx context.Context, msg string, args ...slog.Attr) {
	slog.LogAttrs(ctx, slog.LevelInfo, msg, withRequestAttr(ctx, args)...)
}

func CtxWarn(ctx context.Context, msg string, args ...slog.Attr) {
	slog.LogAttrs(ctx, slog.LevelWarn, msg, withRequestAttr(ctx, args)...)
}

// CtxError logs msg at error level with err attached.
func CtxError(ctx context.Context, msg string, err error, args ...slog.Attr) {
	args = append(withRequestAttr(ctx, args), slog.Any("error", err))
	slog.LogAttrs(ctx, slog.LevelError, msg, args...)
}
