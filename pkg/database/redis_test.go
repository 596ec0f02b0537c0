package database

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/qasimqz1/ecommerce/pkg/logger"
)

func setupTracer(t *testing.T) *tracetest.InMemoryExporter {
	t.Helper()

	exporter := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter))
	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	t.Cleanup(func() {
		_ = tp.Shutdown(context.Background())
		otel.SetTracerProvider(prev)
	})
	return exporter
}

func newClient(t *testing.T, hooks ...redis.Hook) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()

	mr := miniredis.RunT(t)
	cfg := DefaultRedisConfig()
	cfg.Addr = mr.Addr()

	client, err := NewRedisClient(context.Background(), cfg, hooks...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

func TestNewRedisClient_PingFails(t *testing.T) {
	cfg := DefaultRedisConfig()
	cfg.Addr = "127.0.0.1:1"
	cfg.DialTimeout = 100 * time.Millisecond

	_, err := NewRedisClient(context.Background(), cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ping redis 127.0.0.1:1")
}

func TestRedisCheck(t *testing.T) {
	mr, client := newClient(t)
	check := RedisCheck(client)

	assert.NoError(t, check(context.Background()))

	mr.Close()
	assert.Error(t, check(context.Background()))
}

func TestTracingHook_SpansPerCommand(t *testing.T) {
	exporter := setupTracer(t)
	mr, client := newClient(t)
	client.AddHook(NewTracingHook(mr.Addr(), 0, nil))
	ctx := context.Background()

	require.NoError(t, client.Set(ctx, "storefront:p1:theme", "dark", 0).Err())
	_, err := client.Get(ctx, "storefront:p1:wishlist").Result()
	require.ErrorIs(t, err, redis.Nil)

	byName := map[string]tracetest.SpanStub{}
	for _, s := range exporter.GetSpans() {
		byName[s.Name] = s
	}
	require.Contains(t, byName, "redis.set")
	require.Contains(t, byName, "redis.get")
	assert.Equal(t, codes.Unset, byName["redis.get"].Status.Code, "a missing key is not an error")
}

func TestTracingHook_MarksFailures(t *testing.T) {
	exporter := setupTracer(t)
	mr, client := newClient(t)
	client.AddHook(NewTracingHook(mr.Addr(), 0, nil))

	mr.SetError("ERR storage offline")
	require.Error(t, client.Get(context.Background(), "k").Err())

	var found bool
	for _, s := range exporter.GetSpans() {
		if s.Name == "redis.get" {
			found = true
			assert.Equal(t, codes.Error, s.Status.Code)
		}
	}
	assert.True(t, found)
}

func TestTracingHook_SlowCommandLogging(t *testing.T) {
	setupTracer(t)
	var buf bytes.Buffer
	mr, client := newClient(t)
	client.AddHook(NewTracingHook(mr.Addr(), time.Nanosecond, logger.NewWithWriter("storefront", "info", &buf)))

	pipe := client.Pipeline()
	pipe.Set(context.Background(), "a", "1", 0)
	pipe.Get(context.Background(), "a")
	_, err := pipe.Exec(context.Background())
	require.NoError(t, err)

	assert.Contains(t, buf.String(), "slow redis command")
	assert.Contains(t, buf.String(), "set get")
}

func TestPoolStatsCollector(t *testing.T) {
	_, client := newClient(t)
	reg := prometheus.NewRegistry()
	require.NoError(t, RegisterPoolMetrics(reg, client, "storefront"))

	families, err := reg.Gather()
	require.NoError(t, err)
	names := make([]string, 0, len(families))
	for _, f := range families {
		names = append(names, f.GetName())
	}
	assert.Contains(t, names, "redis_pool_total_connections")
	assert.Contains(t, names, "redis_pool_hits_total")
	assert.Len(t, names, 6)
}
