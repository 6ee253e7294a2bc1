// Package metrics exports engine and HTTP activity as Prometheus metrics.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/aryankumar/sep/internal/action"
	"github.com/aryankumar/sep/internal/executor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	outcomeSuccess = "success"
	outcomeFailure = "failure"
)

// Recorder holds the sep metric families
type Recorder struct {
	gatherer prometheus.Gatherer

	actionResults   *prometheus.CounterVec
	actionDuration  *prometheus.HistogramVec
	batches         *prometheus.CounterVec
	retryAttempts   *prometheus.CounterVec
	detachedRetries *prometheus.CounterVec
	httpRequests    *prometheus.CounterVec
	httpDuration    *prometheus.HistogramVec
}

// New creates a recorder registered with reg. A nil reg uses a fresh
// registry, which keeps tests and multiple servers in one process apart.
func New(reg *prometheus.Registry) *Recorder {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}

	r := &Recorder{
		gatherer: reg,
		actionResults: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "sep_action_results_total",
				Help: "Total number of settled actions.",
			},
			[]string{"pattern", "action", "outcome"},
		),
		actionDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "sep_action_duration_seconds",
				Help:    "Action execution duration in seconds.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"pattern"},
		),
		batches: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "sep_batches_total",
				Help: "Total number of dispatched batches.",
			},
			[]string{"pattern"},
		),
		retryAttempts: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "sep_retry_attempts_total",
				Help: "Total number of retry chain attempts.",
			},
			[]string{"action", "outcome"},
		),
		detachedRetries: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "sep_detached_retries_total",
				Help: "Total number of completed fire-and-forget retry chains.",
			},
			[]string{"action", "outcome"},
		),
		httpRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "sep_http_requests_total",
				Help: "Total number of HTTP requests.",
			},
			[]string{"method", "path", "status"},
		),
		httpDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "sep_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),
	}

	reg.MustRegister(
		r.actionResults,
		r.actionDuration,
		r.batches,
		r.retryAttempts,
		r.detachedRetries,
		r.httpRequests,
		r.httpDuration,
	)

	return r
}

// Observer returns engine hooks feeding the recorder
func (r *Recorder) Observer() executor.Observer {
	return executor.Observer{
		OnBatch: func(pattern string, batch, size int) {
			r.batches.WithLabelValues(pattern).Inc()
		},
		OnSettled: func(pattern, name string, res action.Result) {
			r.actionResults.WithLabelValues(pattern, name, outcome(res)).Inc()
			r.actionDuration.WithLabelValues(pattern).Observe(res.Duration.Seconds())
		},
		OnAttempt: func(name string, attempt int, res action.Result) {
			r.retryAttempts.WithLabelValues(name, outcome(res)).Inc()
		},
		OnDetachedRetry: func(name string, rs *action.ResultSet) {
			res, _ := rs.Get(name)
			r.detachedRetries.WithLabelValues(name, outcome(res)).Inc()
		},
	}
}

// ObserveRequest records one HTTP request. path should be a route pattern so
// cardinality stays bounded.
func (r *Recorder) ObserveRequest(method, path string, status int, d time.Duration) {
	r.httpRequests.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	r.httpDuration.WithLabelValues(method, path).Observe(d.Seconds())
}

// Handler returns the Prometheus scrape handler for the recorder's registry
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.gatherer, promhttp.HandlerOpts{})
}

// Gatherer exposes the underlying registry
func (r *Recorder) Gatherer() prometheus.Gatherer {
	return r.gatherer
}

func outcome(res action.Result) string {
	if res.OK() {
		return outcomeSuccess
	}
	return outcomeFailure
}
