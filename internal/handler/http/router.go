package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/qasimqz1/ecommerce/pkg/health"
	"github.com/qasimqz1/ecommerce/pkg/middleware"

	"github.com/qasimqz1/ecommerce/internal/auth"
	"github.com/qasimqz1/ecommerce/internal/storefront"
)

// ServiceName labels metrics and spans.
const ServiceName = "storefront"

// catalogMaxAge is how long clients may cache the product list.
const catalogMaxAge = 300

// RouterConfig carries the deployment-specific router settings.
type RouterConfig struct {
	CORS       middleware.CORSConfig
	PprofCIDRs []string
}

// NewRouter creates a chi router with all storefront routes registered.
func NewRouter(
	manager *storefront.Manager,
	gate *auth.Gate,
	healthHandler *health.Handler,
	logger *slog.Logger,
	cfg RouterConfig,
) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.CORS(cfg.CORS))
	r.Use(chimw.Compress(5))
	r.Use(chimw.Timeout(30 * time.Second))
	r.Use(middleware.RequestLogging(logger))
	r.Use(middleware.PrometheusMetrics(ServiceName))
	r.Use(middleware.Tracing(ServiceName))
	r.Use(middleware.RequestLogger(logger))

	// Health check endpoints
	r.Get("/health/live", healthHandler.LivenessHandler())
	r.Get("/health/ready", healthHandler.ReadinessHandler())
	r.Handle("/metrics", promhttp.Handler())

	middleware.RegisterPprof(r, cfg.PprofCIDRs, logger)

	authHandler := NewAuthHandler(gate, logger)
	sessionHandler := NewSessionHandler(manager, logger)
	contactHandler := NewContactHandler(manager, logger)
	productHandler := NewProductHandler(manager.Catalog(), logger)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(ContentTypeJSON)

		r.Route("/products", func(r chi.Router) {
			r.Use(middleware.CacheControl(catalogMaxAge))
			r.Get("/", productHandler.List)
			r.Get("/{id}", productHandler.Get)
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.Profile)
			r.Use(middleware.NoStore)

			r.Route("/auth", func(r chi.Router) {
				r.Get("/", authHandler.Status)
				r.Post("/", authHandler.Submit)
				r.Post("/validate", authHandler.Validate)
			})

			r.Route("/contact", func(r chi.Router) {
				r.Post("/", contactHandler.Submit)
				r.Post("/validate", contactHandler.Validate)
			})

			r.Post("/sessions", sessionHandler.Open)
			r.Route("/sessions/{id}", func(r chi.Router) {
				r.Get("/", sessionHandler.Get)
				r.Delete("/", sessionHandler.Close)

				r.Post("/cart/items", sessionHandler.AddItem)
				r.Delete("/cart/items/{name}", sessionHandler.RemoveItem)
				r.Post("/checkout", sessionHandler.Checkout)

				r.Post("/wishlist/toggle", sessionHandler.ToggleWishlist)
				r.Delete("/wishlist/items/{name}", sessionHandler.RemoveWishlistItem)

				r.Post("/theme/toggle", sessionHandler.ToggleTheme)
				r.Post("/panels/{panel}/toggle", sessionHandler.TogglePanel)

				r.Post("/filter", sessionHandler.Filter)
				r.Post("/search", sessionHandler.Search)

				r.Get("/notifications", sessionHandler.Notifications)
				r.Get("/fragments/{name}", sessionHandler.Fragment)
			})
		})
	})

	return r
}
