// Package metrics exposes Prometheus counters for HTTP traffic and the
// business events of the booking service.
package metrics

import (
	"bufio"
	"errors"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/AchilleasB/activeplay/booking-service/internal/core/ports"
)

const namespace = "activeplay"

type Prometheus struct {
	registry      *prometheus.Registry
	requests      *prometheus.CounterVec
	duration      *prometheus.HistogramVec
	subscriptions *prometheus.CounterVec
	tracking      *prometheus.CounterVec
	booked        *prometheus.CounterVec
}

var _ ports.Metrics = (*Prometheus)(nil)

// NewPrometheus registers every collector on a private registry.
func NewPrometheus() *Prometheus {
	p := &Prometheus{
		registry: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by route, method and status code.",
		}, []string{"route", "method", "code"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route and method.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route", "method"}),
		subscriptions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "subscriptions_total",
			Help:      "Subscription changes by action.",
		}, []string{"action"}),
		tracking: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tracking_transitions_total",
			Help:      "Pickup tracking transitions by resulting status.",
		}, []string{"status"}),
		booked: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sessions_booked_total",
			Help:      "Booked sessions by booking mode.",
		}, []string{"mode"}),
	}
	p.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		p.requests, p.duration, p.subscriptions, p.tracking, p.booked,
	)
	return p
}

func (p *Prometheus) SubscriptionChanged(action string) {
	p.subscriptions.WithLabelValues(action).Inc()
}

func (p *Prometheus) TrackingTransitioned(status string) {
	p.tracking.WithLabelValues(status).Inc()
}

func (p *Prometheus) SessionsBooked(mode string, n int) {
	p.booked.WithLabelValues(mode).Add(float64(n))
}

// Handler serves the /metrics endpoint.
func (p *Prometheus) Handler() http.Handler {
	return promhttp.HandlerFor(p.registry, promhttp.HandlerOpts{Registry: p.registry})
}

// Middleware records request counts and latency, labelled with the mux
// route template so path parameters do not explode cardinality.
func (p *Prometheus) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		route := "unmatched"
		if current := mux.CurrentRoute(r); current != nil {
			if tpl, err := current.GetPathTemplate(); err == nil {
				route = tpl
			}
		}
		p.requests.WithLabelValues(route, r.Method, strconv.Itoa(rec.status)).Inc()
		p.duration.WithLabelValues(route, r.Method).Observe(time.Since(start).Seconds())
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// Hijack lets the tracking WebSocket upgrade pass through the middleware.
func (r *statusRecorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	h, ok := r.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, errors.New("response writer does not support hijacking")
	}
	r.status = http.StatusSwitchingProtocols
	return h.Hijack()
}

func (r *statusRecorder) Unwrap() http.ResponseWriter {
	return r.ResponseWriter
}
