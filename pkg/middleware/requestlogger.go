package middleware

import (
	"log/slog"
	"net/http"

	"github.com/qasimqz1/ecommerce/pkg/logger"
)

// SessionHeader lets clients tag requests with the page session they act on.
const SessionHeader = "X-Session-ID"

// RequestLogger stores a request-scoped logger in the context, enriched with
// correlation_id, profile_id, session_id, trace_id and span_id. Handlers get
// it back through logger.FromContext.
//
// Mount it after RequestLogging and Tracing so both ids are already present.
func RequestLogger(base *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			// Profile middleware may have run already; otherwise take the raw header.
			if logger.ProfileIDFromContext(ctx) == "" {
				if id := r.Header.Get(ProfileHeader); id != "" {
					ctx = logger.WithProfileID(ctx, id)
				}
			}
			if id := r.Header.Get(SessionHeader); id != "" {
				ctx = logger.WithSessionID(ctx, id)
			}

			enriched := logger.WithContext(ctx, base)
			ctx = logger.NewContext(ctx, enriched)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
