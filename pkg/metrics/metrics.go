// Package metrics provides Prometheus instrumentation.
//
// The HTTP metrics cover every request through the middleware; the catalog
// and websocket metrics are updated by the services and the realtime
// controller. Scrape GET /metrics.
package metrics

import (
	"bufio"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// RequestDuration tracks how long each HTTP request takes,
	// broken down by method, route path, and status code.
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "tienda",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	// RequestTotal counts all HTTP requests.
	RequestTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "tienda",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests.",
		},
		[]string{"method", "path", "status"},
	)

	// RequestInFlight tracks how many requests are currently being served.
	RequestInFlight = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "tienda",
		Subsystem: "http",
		Name:      "requests_in_flight",
		Help:      "Number of HTTP requests currently being served.",
	})

	// StoreOpDuration tracks persistence operations per backend.
	StoreOpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "tienda",
			Subsystem: "store",
			Name:      "op_duration_seconds",
			Help:      "Duration of persistence operations in seconds.",
			Buckets:   []float64{.001, .005, .01, .025, .05, .1, .5, 1},
		},
		[]string{"driver", "operation"},
	)

	// CatalogBroadcasts counts full-catalog pushes to websocket viewers.
	CatalogBroadcasts = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "tienda",
		Subsystem: "realtime",
		Name:      "catalog_broadcasts_total",
		Help:      "Total full-catalog broadcasts to websocket clients.",
	})

	// WSClients tracks the number of connected websocket viewers.
	WSClients = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "tienda",
		Subsystem: "realtime",
		Name:      "ws_clients",
		Help:      "Currently connected websocket clients.",
	})

	// CacheHits / CacheMisses track cache effectiveness.
	CacheHits = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "tienda",
			Subsystem: "cache",
			Name:      "hits_total",
			Help:      "Total cache hits.",
		},
		[]string{"driver"},
	)
	CacheMisses = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "tienda",
			Subsystem: "cache",
			Name:      "misses_total",
			Help:      "Total cache misses.",
		},
		[]string{"driver"},
	)
)

// DefaultRegistry is the Prometheus registry used by tienda.
var DefaultRegistry = prometheus.NewRegistry()

func init() {
	// Go runtime metrics (GC, goroutines, memory)
	DefaultRegistry.MustRegister(collectors.NewGoCollector())
	// OS process metrics (CPU, open FDs)
	DefaultRegistry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	DefaultRegistry.MustRegister(
		RequestDuration,
		RequestTotal,
		RequestInFlight,
		StoreOpDuration,
		CatalogBroadcasts,
		WSClients,
		CacheHits,
		CacheMisses,
	)
}

// Register adds your own prometheus.Collector to the registry.
func Register(c prometheus.Collector) error {
	return DefaultRegistry.Register(c)
}

// MustRegister panics if registration fails.
func MustRegister(c ...prometheus.Collector) {
	DefaultRegistry.MustRegister(c...)
}

// ObserveStoreOp records a persistence operation duration:
//
//	defer metrics.ObserveStoreOp("file", "save", time.Now())
func ObserveStoreOp(driver, operation string, start time.Time) {
	StoreOpDuration.WithLabelValues(driver, operation).Observe(time.Since(start).Seconds())
}

// responseRecorder wraps http.ResponseWriter to capture status code and size.
type responseRecorder struct {
	http.ResponseWriter
	status int
	size   int
}

func (r *responseRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (r *responseRecorder) Write(b []byte) (int, error) {
	n, err := r.ResponseWriter.Write(b)
	r.size += n
	return n, err
}

// Hijack lets websocket upgrades pass through the recorder.
func (r *responseRecorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	hj, ok := r.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, http.ErrNotSupported
	}
	return hj.Hijack()
}

// Middleware records Prometheus metrics for every request: duration
// histogram, total counter, in-flight gauge.
func Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			path := r.URL.Path // raw path; normalize in high-cardinality APIs

			RequestInFlight.Inc()
			defer RequestInFlight.Dec()

			rr := &responseRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rr, r)

			duration := time.Since(start).Seconds()
			status := strconv.Itoa(rr.status)

			RequestDuration.WithLabelValues(r.Method, path, status).Observe(duration)
			RequestTotal.WithLabelValues(r.Method, path, status).Inc()
		})
	}
}

// Handler returns an http.HandlerFunc that exposes the Prometheus metrics page.
// Mount it on GET /metrics in your router.
func Handler() http.HandlerFunc {
	h := promhttp.HandlerFor(DefaultRegistry, promhttp.HandlerOpts{
		EnableOpenMetrics: true,
	})
	return h.ServeHTTP
}
