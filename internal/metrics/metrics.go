// Package metrics exposes Prometheus metrics for the HTTP layer and the
// lending lifecycle. Every method is safe to call on a nil *Recorder, which
// records nothing.
package metrics

import (
	"database/sql"
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "library"

type Recorder struct {
	registry *prometheus.Registry

	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	httpInflight        prometheus.Gauge

	borrowsTotal          prometheus.Counter
	borrowRejectionsTotal *prometheus.CounterVec
	returnsTotal          *prometheus.CounterVec
	invariantViolations   prometheus.Counter
	rateLimitRejects      prometheus.Counter
}

// New builds a Recorder on its own registry, together with the Go runtime
// and process collectors.
func New() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),

		httpRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests processed",
		}, []string{"method", "path", "status"}),

		httpRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "Latency of HTTP requests",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "path"}),

		httpInflight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "http_inflight_requests",
			Help:      "Requests currently being served",
		}),

		borrowsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "borrows_total",
			Help:      "Borrows created",
		}),

		borrowRejectionsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "borrow_rejections_total",
			Help:      "Borrow attempts rejected, by reason code",
		}, []string{"code"}),

		returnsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "returns_total",
			Help:      "Books returned, split by whether the return was after the due date",
		}, []string{"overdue"}),

		invariantViolations: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "availability_invariant_violations_total",
			Help:      "Books observed with more active borrows than copies",
		}),

		rateLimitRejects: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rate_limit_rejects_total",
			Help:      "Requests rejected by the rate limiter",
		}),
	}

	r.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		r.httpRequestsTotal,
		r.httpRequestDuration,
		r.httpInflight,
		r.borrowsTotal,
		r.borrowRejectionsTotal,
		r.returnsTotal,
		r.invariantViolations,
		r.rateLimitRejects,
	)
	return r
}

// RegisterDBStats exposes connection pool statistics for db.
func (r *Recorder) RegisterDBStats(db *sql.DB) error {
	if r == nil || db == nil {
		return nil
	}
	err := r.registry.Register(collectors.NewDBStatsCollector(db, namespace))
	if _, ok := err.(prometheus.AlreadyRegisteredError); ok {
		return nil
	}
	return err
}

// Handler serves the registry in the Prometheus exposition format.
func (r *Recorder) Handler() http.Handler {
	if r == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{Registry: r.registry})
}

func (r *Recorder) Registry() *prometheus.Registry {
	if r == nil {
		return nil
	}
	return r.registry
}

func (r *Recorder) BorrowCreated() {
	if r == nil {
		return
	}
	r.borrowsTotal.Inc()
}

func (r *Recorder) BorrowRejected(code string) {
	if r == nil {
		return
	}
	r.borrowRejectionsTotal.WithLabelValues(code).Inc()
}

func (r *Recorder) BookReturned(overdue bool) {
	if r == nil {
		return
	}
	r.returnsTotal.WithLabelValues(strconv.FormatBool(overdue)).Inc()
}

func (r *Recorder) AvailabilityInvariantViolated() {
	if r == nil {
		return
	}
	r.invariantViolations.Inc()
}

func (r *Recorder) RateLimited() {
	if r == nil {
		return
	}
	r.rateLimitRejects.Inc()
}
