package telemetry

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
)

var (
	httpReqs = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total HTTP requests",
		},
		[]string{"route", "method", "status"},
	)
	httpDur = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route", "method"},
	)

	ProxyReady = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "proxy_ready",
		Help: "1 once the proxy has completed its initial sync, 0 before",
	})
	MetricsBatchesAccepted = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "client_metrics_batches_accepted_total",
		Help: "Client metrics payloads accepted and forwarded",
	})
	MetricsBatchesRejected = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "client_metrics_batches_rejected_total",
		Help: "Client metrics payloads rejected by schema validation",
	})
)

func Init() {
	prometheus.MustRegister(httpReqs, httpDur, ProxyReady, MetricsBatchesAccepted, MetricsBatchesRejected)
}

func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// get route pattern if available
		route := r.URL.Path
		if rc := chi.RouteContext(r.Context()); rc != nil && rc.RoutePattern() != "" {
			route = rc.RoutePattern()
		}

		start := time.Now()
		ww := &statusWriter{ResponseWriter: w, status: 200}
		next.ServeHTTP(ww, r)

		httpReqs.WithLabelValues(route, r.Method, http.StatusText(ww.status)).Inc()
		httpDur.WithLabelValues(route, r.Method).Observe(time.Since(start).Seconds())
	})
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

func (w *statusWriter) Flush() {
	if f, ok := w.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}
