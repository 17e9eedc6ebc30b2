package metrics

import (
	"strconv"
	"time"

	"github.com/SscSPs/journal_engine/internal/core/domain"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "journal_engine"

// Recorder holds the engine's Prometheus collectors on its own registry.
type Recorder struct {
	registry *prometheus.Registry

	entriesPosted    *prometheus.CounterVec
	postingDuration  *prometheus.HistogramVec
	linesPerEntry    prometheus.Histogram
	entriesReversed  prometheus.Counter
	entriesVoided    prometheus.Counter
	postingFailures  *prometheus.CounterVec
	recurringRuns    *prometheus.CounterVec
	httpRequests     *prometheus.CounterVec
	httpRequestTimes *prometheus.HistogramVec
}

// NewRecorder registers all collectors, plus the Go and process collectors.
func NewRecorder() *Recorder {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	f := promauto.With(reg)

	return &Recorder{
		registry: reg,
		entriesPosted: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "entries_posted_total",
			Help:      "Journal entries moved to POSTED, by entry type",
		}, []string{"entry_type"}),
		postingDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "posting_duration_seconds",
			Help:      "Time spent posting an entry, including lock waits",
			Buckets:   prometheus.DefBuckets,
		}, []string{"entry_type"}),
		linesPerEntry: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "lines_per_entry",
			Help:      "Number of lines in posted entries",
			Buckets:   []float64{2, 3, 4, 6, 10, 20, 50, 100},
		}),
		entriesReversed: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "entries_reversed_total",
			Help:      "Posted entries reversed",
		}),
		entriesVoided: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "entries_voided_total",
			Help:      "Drafts voided",
		}),
		postingFailures: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "posting_failures_total",
			Help:      "Failed post and reverse attempts, by error category",
		}, []string{"category"}),
		recurringRuns: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "recurring_runs_total",
			Help:      "Recurring template occurrences, by outcome",
		}, []string{"outcome"}),
		httpRequests: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		}, []string{"method", "route", "status"}),
		httpRequestTimes: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "Duration of HTTP requests in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}
}

func (r *Recorder) EntryPosted(entryType domain.EntryType, lines int, elapsed time.Duration) {
	r.entriesPosted.WithLabelValues(string(entryType)).Inc()
	r.postingDuration.WithLabelValues(string(entryType)).Observe(elapsed.Seconds())
	r.linesPerEntry.Observe(float64(lines))
}

func (r *Recorder) EntryReversed() { r.entriesReversed.Inc() }

func (r *Recorder) EntryVoided() { r.entriesVoided.Inc() }

func (r *Recorder) PostingFailed(category string) {
	r.postingFailures.WithLabelValues(category).Inc()
}

func (r *Recorder) RecurringRun(outcome string) {
	r.recurringRuns.WithLabelValues(outcome).Inc()
}

// Handler serves the registry in the Prometheus exposition format.
func (r *Recorder) Handler() gin.HandlerFunc {
	return gin.WrapH(promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{Registry: r.registry}))
}

// Middleware records request counts and latencies keyed by the matched route.
func (r *Recorder) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		r.httpRequests.WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).Inc()
		r.httpRequestTimes.WithLabelValues(c.Request.Method, route).Observe(time.Since(start).Seconds())
	}
}
