// Package metrics registers the Prometheus collectors exposed on /metrics.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	RequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "petapintar_requests_total",
		Help: "Total HTTP requests by route and status",
	}, []string{"route", "status"})
	RequestDurationMs = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "petapintar_request_duration_ms",
		Help:    "Request duration in milliseconds",
		Buckets: []float64{1, 5, 10, 20, 50, 100, 200, 500, 1000},
	})
	RouteResolutionsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "petapintar_route_resolutions_total",
		Help: "Total road-routing lookups attempted",
	})
	RouteFallbacksTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "petapintar_route_fallbacks_total",
		Help: "Total routing lookups degraded to the straight-line fallback",
	})
	ReportsSubmittedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "petapintar_reports_submitted_total",
		Help: "Total change reports accepted from visitors",
	})
	ReportsDecidedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "petapintar_reports_decided_total",
		Help: "Total report decisions by action",
	}, []string{"action"})
	UploadsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "petapintar_uploads_total",
		Help: "Total images stored",
	})
)

func init() {
	prometheus.MustRegister(RequestsTotal)
	prometheus.MustRegister(RequestDurationMs)
	prometheus.MustRegister(RouteResolutionsTotal)
	prometheus.MustRegister(RouteFallbacksTotal)
	prometheus.MustRegister(ReportsSubmittedTotal)
	prometheus.MustRegister(ReportsDecidedTotal)
	prometheus.MustRegister(UploadsTotal)
}

// Handler exposes the registered collectors for Prometheus scraping.
func Handler() http.Handler { return promhttp.Handler() }

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// Middleware counts every request by path and status and observes its
// duration.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()
		next.ServeHTTP(rec, r)
		RequestsTotal.WithLabelValues(r.URL.Path, strconv.Itoa(rec.status)).Inc()
		RequestDurationMs.Observe(float64(time.Since(start).Milliseconds()))
	})
}
