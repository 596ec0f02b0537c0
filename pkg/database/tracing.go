package database

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/qasimqz1/ecommerce/pkg/database"

// TracingHook is a redis.Hook that opens a client span per command and warns
// about commands slower than SlowThreshold. A missing key is not an error.
type TracingHook struct {
	tracer        trace.Tracer
	addr          string
	slowThreshold time.Duration
	logger        *slog.Logger
}

// NewTracingHook builds a hook for the server at addr. A zero slowThreshold
// or nil logger disables slow command logging.
func NewTracingHook(addr string, slowThreshold time.Duration, logger *slog.Logger) *TracingHook {
	return &TracingHook{
		tracer:        otel.Tracer(tracerName),
		addr:          addr,
		slowThreshold: slowThreshold,
		logger:        logger,
	}
}

var _ redis.Hook = (*TracingHook)(nil)

func (h *TracingHook) DialHook(next redis.DialHook) redis.DialHook {
	return func(ctx context.Context, network, addr string) (net.Conn, error) {
		ctx, span := h.tracer.Start(ctx, "redis.dial",
			trace.WithSpanKind(trace.SpanKindClient),
			trace.WithAttributes(h.attrs()...),
		)
		defer span.End()

		conn, err := next(ctx, network, addr)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		return conn, err
	}
}

func (h *TracingHook) ProcessHook(next redis.ProcessHook) redis.ProcessHook {
	return func(ctx context.Context, cmd redis.Cmder) error {
		name := cmd.Name()
		ctx, end := h.start(ctx, "redis."+name, attribute.String("db.operation", name))
		err := next(ctx, cmd)
		end(ctx, name, err)
		return err
	}
}

func (h *TracingHook) ProcessPipelineHook(next redis.ProcessPipelineHook) redis.ProcessPipelineHook {
	return func(ctx context.Context, cmds []redis.Cmder) error {
		names := make([]string, 0, len(cmds))
		for _, c := range cmds {
			names = append(names, c.Name())
		}
		op := strings.Join(names, " ")

		ctx, end := h.start(ctx, "redis.pipeline",
			attribute.String("db.operation", op),
			attribute.Int("db.redis.num_cmd", len(cmds)),
		)
		err := next(ctx, cmds)
		end(ctx, op, err)
		return err
	}
}

func (h *TracingHook) start(ctx context.Context, spanName string, extra ...attribute.KeyValue) (context.Context, func(context.Context, string, error)) {
	begin := time.Now()
	ctx, span := h.tracer.Start(ctx, spanName,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(append(h.attrs(), extra...)...),
	)

	return ctx, func(ctx context.Context, op string, err error) {
		if err != nil && !errors.Is(err, redis.Nil) {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()

		if h.slowThreshold <= 0 || h.logger == nil {
			return
		}
		if elapsed := time.Since(begin); elapsed >= h.slowThreshold {
			h.logger.WarnContext(ctx, "slow redis command",
				slog.String("operation", op),
				slog.Duration("duration", elapsed),
			)
		}
	}
}

func (h *TracingHook) attrs() []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.String("db.system", "redis"),
		attribute.String("server.address", h.addr),
	}
}
