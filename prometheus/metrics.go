// Package prometheus exposes crawl progress as Prometheus metrics.
package prometheus

import (
	"github.com/fwojciec/guidecrawl/crawl"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics bundles Prometheus collectors for the crawler.
// A nil *Metrics ignores every observation.
type Metrics struct {
	Registry         *prometheus.Registry
	PagesDispatched  *prometheus.CounterVec
	CacheLookups     *prometheus.CounterVec
	RecordsAccepted  *prometheus.CounterVec
	PagesRejected    *prometheus.CounterVec
	FetchFailures    *prometheus.CounterVec
	SessionResets    *prometheus.CounterVec
	PlatformDuration *prometheus.GaugeVec
}

// NewMetrics constructs and registers all metrics on a dedicated registry.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()

	dispatched := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "guidecrawl_pages_dispatched_total",
			Help: "Pages taken off the work list and dispatched.",
		},
		[]string{"platform"},
	)
	lookups := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "guidecrawl_cache_lookups_total",
			Help: "Cache lookups by result.",
		},
		[]string{"platform", "result"},
	)
	accepted := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "guidecrawl_records_accepted_total",
			Help: "Page records produced by extraction or read from the cache.",
		},
		[]string{"platform"},
	)
	rejected := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "guidecrawl_pages_rejected_total",
			Help: "Fetched pages without relevant content.",
		},
		[]string{"platform"},
	)
	failures := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "guidecrawl_fetch_failures_total",
			Help: "Pages that could not be fetched, by chosen strategy.",
		},
		[]string{"platform", "strategy"},
	)
	resets := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "guidecrawl_session_resets_total",
			Help: "Browser session resets during platform crawls.",
		},
		[]string{"platform"},
	)
	duration := prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "guidecrawl_platform_duration_seconds",
			Help: "Wall time of the last crawl of each platform.",
		},
		[]string{"platform"},
	)

	registry.MustRegister(dispatched, lookups, accepted, rejected, failures, resets, duration)

	return &Metrics{
		Registry:         registry,
		PagesDispatched:  dispatched,
		CacheLookups:     lookups,
		RecordsAccepted:  accepted,
		PagesRejected:    rejected,
		FetchFailures:    failures,
		SessionResets:    resets,
		PlatformDuration: duration,
	}
}

// Observe records a crawl progress event. It is safe for concurrent use and
// can be passed straight to crawl.Driver.Progress.
func (m *Metrics) Observe(e crawl.ProgressEvent) {
	if m == nil {
		return
	}
	switch e.Type {
	case crawl.ProgressDispatched:
		m.PagesDispatched.WithLabelValues(e.Platform).Inc()
	case crawl.ProgressCacheHit:
		m.CacheLookups.WithLabelValues(e.Platform, "hit").Inc()
		m.RecordsAccepted.WithLabelValues(e.Platform).Add(float64(e.Records))
	case crawl.ProgressCacheMiss:
		m.CacheLookups.WithLabelValues(e.Platform, "miss").Inc()
	case crawl.ProgressAccepted:
		m.RecordsAccepted.WithLabelValues(e.Platform).Add(float64(e.Records))
	case crawl.ProgressRejected:
		m.PagesRejected.WithLabelValues(e.Platform).Inc()
	case crawl.ProgressFailed:
		m.FetchFailures.WithLabelValues(e.Platform, e.Strategy.String()).Inc()
	case crawl.ProgressPlatformFinished:
		if e.Run != nil {
			m.SessionResets.WithLabelValues(e.Platform).Add(float64(e.Run.Budget.DriverResets))
			m.PlatformDuration.WithLabelValues(e.Platform).Set(e.Run.Duration.Seconds())
		}
	}
}

// WriteToTextfile writes all metrics in the text exposition format, for
// collection by the node exporter's textfile collector.
func (m *Metrics) WriteToTextfile(path string) error {
	if m == nil {
		return nil
	}
	return prometheus.WriteToTextfile(path, m.Registry)
}
