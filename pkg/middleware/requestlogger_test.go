package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace"

	"github.com/qasimqz1/ecommerce/pkg/logger"
)

func newTestLogger(w *bytes.Buffer) *slog.Logger {
	return logger.NewWithWriter("storefront", "info", w)
}

// logOnce serves req through RequestLogger and returns the single JSON line
// the inner handler logged.
func logOnce(t *testing.T, req *http.Request, wrap ...func(http.Handler) http.Handler) map[string]any {
	t.Helper()

	var buf bytes.Buffer
	var h http.Handler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger.FromContext(r.Context()).Info("handler log")
		w.WriteHeader(http.StatusOK)
	})
	h = RequestLogger(newTestLogger(&buf))(h)
	for _, mw := range wrap {
		h = mw(h)
	}
	h.ServeHTTP(httptest.NewRecorder(), req)

	var out map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &out))
	return out
}

func TestRequestLogger_StoresLoggerInContext(t *testing.T) {
	out := logOnce(t, httptest.NewRequest(http.MethodGet, "/test", nil))
	assert.Equal(t, "handler log", out["msg"])
	assert.Equal(t, "storefront", out["service"])
}

func TestRequestLogger_IncludesCorrelationID(t *testing.T) {
	ctx := logger.WithCorrelationID(context.Background(), "corr-test-123")
	req := httptest.NewRequest(http.MethodGet, "/test", nil).WithContext(ctx)

	out := logOnce(t, req)
	assert.Equal(t, "corr-test-123", out["correlation_id"])
}

func TestRequestLogger_ProfileAndSessionFromHeaders(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req.Header.Set(ProfileHeader, "profile-1")
	req.Header.Set(SessionHeader, "session-9")

	out := logOnce(t, req)
	assert.Equal(t, "profile-1", out["profile_id"])
	assert.Equal(t, "session-9", out["session_id"])
}

func TestRequestLogger_ProfileContextTakesPrecedenceOverHeader(t *testing.T) {
	ctx := logger.WithProfileID(context.Background(), "from-context")
	req := httptest.NewRequest(http.MethodGet, "/test", nil).WithContext(ctx)
	req.Header.Set(ProfileHeader, "from-header")

	out := logOnce(t, req)
	assert.Equal(t, "from-context", out["profile_id"])
}

func TestRequestLogger_IncludesTraceFields(t *testing.T) {
	traceID, _ := trace.TraceIDFromHex("4bf92f3577b34da6a3ce929d0e0e4736")
	spanID, _ := trace.SpanIDFromHex("00f067aa0ba902b7")
	sc := trace.NewSpanContext(trace.SpanContextConfig{
		TraceID:    traceID,
		SpanID:     spanID,
		TraceFlags: trace.FlagsSampled,
	})
	ctx := trace.ContextWithSpanContext(context.Background(), sc)
	req := httptest.NewRequest(http.MethodGet, "/test", nil).WithContext(ctx)

	out := logOnce(t, req)
	assert.Equal(t, "4bf92f3577b34da6a3ce929d0e0e4736", out["trace_id"])
	assert.Equal(t, "00f067aa0ba902b7", out["span_id"])
}

func TestRequestLogger_NoProfile_OmitsField(t *testing.T) {
	out := logOnce(t, httptest.NewRequest(http.MethodGet, "/test", nil))
	assert.NotContains(t, out, "profile_id")
	assert.NotContains(t, out, "session_id")
}
