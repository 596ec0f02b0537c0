package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// findMetric returns the sample of c whose labels include every pair in want.
func findMetric(c prometheus.Collector, want map[string]string) *dto.Metric {
	ch := make(chan prometheus.Metric, 256)
	c.Collect(ch)
	close(ch)

	for m := range ch {
		var d dto.Metric
		if err := m.Write(&d); err != nil {
			continue
		}
		got := make(map[string]string, len(d.GetLabel()))
		for _, lp := range d.GetLabel() {
			got[lp.GetName()] = lp.GetValue()
		}
		matched := true
		for k, v := range want {
			if got[k] != v {
				matched = false
				break
			}
		}
		if matched {
			return &d
		}
	}
	return nil
}

// storefrontMux mounts h under a parameterised session route.
func storefrontMux(service string, h http.HandlerFunc) *chi.Mux {
	r := chi.NewRouter()
	r.Use(PrometheusMetrics(service))
	r.Get("/api/v1/sessions/{id}", h)
	r.Post("/api/v1/sessions/{id}/checkout", h)
	return r
}

func TestPrometheusMetrics_LabelsUseRoutePattern(t *testing.T) {
	mux := storefrontMux("pattern-svc", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	for _, id := range []string{"a", "b", "c"} {
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/sessions/"+id, nil))
		require.Equal(t, http.StatusOK, rec.Code)
	}

	m := findMetric(httpRequestsTotal, map[string]string{
		"service": "pattern-svc", "method": "GET", "path": "/api/v1/sessions/{id}", "status": "200",
	})
	require.NotNil(t, m)
	assert.Equal(t, float64(3), m.GetCounter().GetValue())
}

func TestPrometheusMetrics_Status(t *testing.T) {
	tests := []struct {
		name    string
		service string
		handler http.HandlerFunc
		status  string
	}{
		{
			name:    "explicit status",
			service: "status-explicit-svc",
			handler: func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusUnprocessableEntity) },
			status:  "422",
		},
		{
			name:    "implicit 200 on write",
			service: "status-implicit-svc",
			handler: func(w http.ResponseWriter, _ *http.Request) { _, _ = w.Write([]byte("ok")) },
			status:  "200",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mux := storefrontMux(tt.service, tt.handler)
			mux.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/api/v1/sessions/x/checkout", nil))

			labels := map[string]string{"service": tt.service, "status": tt.status}
			require.NotNil(t, findMetric(httpRequestsTotal, labels))

			d := findMetric(httpRequestDuration, labels)
			require.NotNil(t, d)
			assert.Equal(t, uint64(1), d.GetHistogram().GetSampleCount())
		})
	}
}

func TestPrometheusMetrics_InFlightGauge(t *testing.T) {
	var during float64 = -1
	mux := storefrontMux("inflight-svc", func(w http.ResponseWriter, _ *http.Request) {
		if m := findMetric(httpRequestsInFlight, map[string]string{"service": "inflight-svc"}); m != nil {
			during = m.GetGauge().GetValue()
		}
		w.WriteHeader(http.StatusOK)
	})

	mux.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/v1/sessions/x", nil))

	assert.Equal(t, float64(1), during)
	after := findMetric(httpRequestsInFlight, map[string]string{"service": "inflight-svc"})
	require.NotNil(t, after)
	assert.Zero(t, after.GetGauge().GetValue())
}

func TestPrometheusMetrics_ResponseSize(t *testing.T) {
	mux := storefrontMux("size-svc", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("<div class=\"empty-cart\">Your cart is empty</div>"))
	})

	mux.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/v1/sessions/x", nil))

	m := findMetric(httpResponseSize, map[string]string{"service": "size-svc", "path": "/api/v1/sessions/{id}"})
	require.NotNil(t, m)
	assert.Equal(t, uint64(1), m.GetHistogram().GetSampleCount())
	assert.InDelta(t, 48, m.GetHistogram().GetSampleSum(), 0.1)
}

func TestPrometheusMetrics_UnmatchedRoute(t *testing.T) {
	h := PrometheusMetrics("unmatched-svc")(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/nowhere", nil))

	assert.NotNil(t, findMetric(httpRequestsTotal, map[string]string{
		"service": "unmatched-svc", "path": "unknown", "status": "404",
	}))
}
