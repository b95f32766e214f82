package metrics

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	apiRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storefront_api_requests_total",
			Help: "Total number of requests issued to the storefront API.",
		},
		[]string{"code", "method", "path"},
	)
	apiRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "storefront_api_request_duration_seconds",
			Help:    "Duration of storefront API requests in seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	apiRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "storefront_api_requests_in_flight",
			Help: "Current number of storefront API requests in flight.",
		},
	)

	sessionInvalidations = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "storefront_session_invalidations_total",
			Help: "Times the backend rejected the active session.",
		},
	)
)

func init() {
	if err := prometheus.Register(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{})); err != nil {
		slog.Debug("ProcessCollector registration skipped (likely already registered)",
			slog.String("error", err.Error()))
	}

	if err := prometheus.Register(collectors.NewGoCollector()); err != nil {
		slog.Debug("GoCollector registration skipped (likely already registered)",
			slog.String("error", err.Error()))
	}
}

func SessionInvalidated() {
	sessionInvalidations.Inc()
}

type roundTripper struct {
	next http.RoundTripper
}

// RoundTripper instruments outbound requests. Paths with numeric segments
// are collapsed before labeling so item IDs do not explode cardinality.
func RoundTripper(next http.RoundTripper) http.RoundTripper {
	if next == nil {
		next = http.DefaultTransport
	}

	return &roundTripper{next: next}
}

func (rt *roundTripper) RoundTrip(req *http.Request) (*http.Response, error) {

	start := time.Now()
	apiRequestsInFlight.Inc()

	pathPattern := collapseNumericSegments(req.URL.Path)

	resp, err := rt.next.RoundTrip(req)

	duration := time.Since(start)
	apiRequestsInFlight.Dec()
	apiRequestDuration.WithLabelValues(req.Method, pathPattern).Observe(duration.Seconds())

	code := "error"
	if err == nil {
		code = strconv.Itoa(resp.StatusCode)
	}

	apiRequestsTotal.WithLabelValues(code, req.Method, pathPattern).Inc()

	return resp, err
}

func collapseNumericSegments(path string) string {

	out := make([]byte, 0, len(path))
	i := 0

	for i < len(path) {

		if path[i] != '/' {
			out = append(out, path[i])
			i++

			continue
		}

		j := i + 1
		for j < len(path) && path[j] != '/' {
			j++
		}

		segment := path[i+1 : j]
		if isNumeric(segment) {
			out = append(out, "/{id}"...)
		} else {
			out = append(out, path[i:j]...)
		}

		i = j
	}

	return string(out)
}

func isNumeric(s string) bool {

	if s == "" {
		return false
	}

	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}

	return true
}

// http.Handler for the Prometheus /metrics endpoint
func Handler() http.Handler {

	return promhttp.Handler()
}
