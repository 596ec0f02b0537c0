package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"

	"go.opentelemetry.io/otel/trace"
)

type contextKey string

// Request-scoped identifiers. The key string doubles as the log attribute.
const (
	correlationIDKey contextKey = "correlation_id"
	profileIDKey     contextKey = "profile_id"
	sessionIDKey     contextKey = "session_id"
	loggerKey        contextKey = "logger"
)

// scopedKeys are copied onto a logger by WithContext, in this order.
var scopedKeys = []contextKey{correlationIDKey, profileIDKey, sessionIDKey}

// New creates a JSON logger on stdout tagged with the service name.
func New(serviceName, level string) *slog.Logger {
	return NewWithWriter(serviceName, level, os.Stdout)
}

// NewWithWriter creates a JSON logger writing to w. Source locations are
// added at debug level.
func NewWithWriter(serviceName, level string, w io.Writer) *slog.Logger {
	lvl := ParseLevel(level)
	handler := slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level:     lvl,
		AddSource: lvl <= slog.LevelDebug,
	})
	return slog.New(handler).With(slog.String("service", serviceName))
}

// ParseLevel maps "debug", "info", "warn" or "error" (any case, "warning"
// accepted) to a slog.Level. Anything else is info.
func ParseLevel(level string) slog.Level {
	level = strings.ToLower(strings.TrimSpace(level))
	if level == "warning" {
		level = "warn"
	}
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return slog.LevelInfo
	}
	return lvl
}

// Discard returns a logger that drops everything.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))
}

func withString(ctx context.Context, key contextKey, v string) context.Context {
	return context.WithValue(ctx, key, v)
}

func stringFrom(ctx context.Context, key contextKey) string {
	v, _ := ctx.Value(key).(string)
	return v
}

func WithCorrelationID(ctx context.Context, id string) context.Context {
	return withString(ctx, correlationIDKey, id)
}

func CorrelationIDFromContext(ctx context.Context) string {
	return stringFrom(ctx, correlationIDKey)
}

// WithProfileID tags ctx with the browser profile the request acts for.
func WithProfileID(ctx context.Context, id string) context.Context {
	return withString(ctx, profileIDKey, id)
}

func ProfileIDFromContext(ctx context.Context) string {
	return stringFrom(ctx, profileIDKey)
}

// WithSessionID tags ctx with the page session the request acts on.
func WithSessionID(ctx context.Context, id string) context.Context {
	return withString(ctx, sessionIDKey, id)
}

func SessionIDFromContext(ctx context.Context) string {
	return stringFrom(ctx, sessionIDKey)
}

// NewContext stores l in ctx for FromContext.
func NewContext(ctx context.Context, l *slog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// FromContext returns the request-scoped logger, or slog.Default().
func FromContext(ctx context.Context) *slog.Logger {
	if l, ok := ctx.Value(loggerKey).(*slog.Logger); ok {
		return l
	}
	return slog.Default()
}

// WithContext returns l with the request identifiers found in ctx, plus
// trace_id and span_id when ctx carries a valid span context.
func WithContext(ctx context.Context, l *slog.Logger) *slog.Logger {
	var attrs []any
	for _, key := range scopedKeys {
		if v := stringFrom(ctx, key); v != "" {
			attrs = append(attrs, slog.String(string(key), v))
		}
	}
	if sc := trace.SpanContextFromContext(ctx); sc.IsValid() {
		attrs = append(attrs,
			slog.String("trace_id", sc.TraceID().String()),
			slog.String("span_id", sc.SpanID().String()),
		)
	}
	if len(attrs) == 0 {
		return l
	}
	return l.With(attrs...)
}
