package storefront

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	cartAdditions = promauto.NewCounter(prometheus.CounterOpts{
		Name: "storefront_cart_additions_total",
		Help: "Total number of add-to-cart actions",
	})

	checkouts = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "storefront_checkouts_total",
		Help: "Total number of checkout attempts by outcome",
	}, []string{"outcome"})

	wishlistToggles = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "storefront_wishlist_changes_total",
		Help: "Total number of wishlist changes by action",
	}, []string{"action"})

	storageFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "storefront_storage_failures_total",
		Help: "Storage reads and writes that failed and were ignored",
	}, []string{"op", "key"})

	activeSessions = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "storefront_active_sessions",
		Help: "Number of open page sessions",
	})
)
