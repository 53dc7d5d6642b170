package server

import (
	"context"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/matzehuels/linkgraph/pkg/observability"
)

const metricsNamespace = "linkgraph"

// Metrics implements observability.PipelineHooks and
// observability.CacheHooks with Prometheus collectors.
type Metrics struct {
	// ScanDuration measures reverse link index construction.
	ScanDuration prometheus.Histogram
	// ScannedDocuments is the document count of the latest scan.
	ScannedDocuments prometheus.Gauge
	// BuildsTotal counts graph builds by status (success, error).
	BuildsTotal *prometheus.CounterVec
	// BuildDuration measures graph builds.
	BuildDuration prometheus.Histogram
	// LoadedDocuments measures how many documents builds load.
	LoadedDocuments prometheus.Histogram
	// LayoutDuration measures layouts by algorithm.
	LayoutDuration *prometheus.HistogramVec
	// CacheEvents counts cache hits, misses and sets by cache.
	CacheEvents *prometheus.CounterVec
	// RequestsTotal counts HTTP requests by route and status code.
	RequestsTotal *prometheus.CounterVec
}

// NewMetrics registers the collectors with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		ScanDuration: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Name:      "scan_duration_seconds",
			Help:      "Time to scan a document tree and index its links.",
			Buckets:   prometheus.DefBuckets,
		}),
		ScannedDocuments: f.NewGauge(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Name:      "scanned_documents",
			Help:      "Documents found by the most recent scan.",
		}),
		BuildsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "builds_total",
			Help:      "Graph builds by status.",
		}, []string{"status"}),
		BuildDuration: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Name:      "build_duration_seconds",
			Help:      "Time to build a graph around a focus document.",
			Buckets:   prometheus.DefBuckets,
		}),
		LoadedDocuments: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Name:      "build_loaded_documents",
			Help:      "Documents loaded per build.",
			Buckets:   prometheus.ExponentialBuckets(1, 2, 10),
		}),
		LayoutDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Name:      "layout_duration_seconds",
			Help:      "Time to lay out a graph.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"algorithm", "status"}),
		CacheEvents: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "cache_events_total",
			Help:      "Cache hits, misses and writes.",
		}, []string{"cache", "event"}),
		RequestsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by route and status code.",
		}, []string{"method", "route", "code"}),
	}
}

// Install registers m as the process-wide pipeline and cache hooks.
func (m *Metrics) Install() {
	observability.SetPipelineHooks(m)
	observability.SetCacheHooks(m)
}

func status(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}

func (m *Metrics) OnScanComplete(_ context.Context, _ string, documents int, d time.Duration, err error) {
	m.ScanDuration.Observe(d.Seconds())
	if err == nil {
		m.ScannedDocuments.Set(float64(documents))
	}
}

func (m *Metrics) OnBuildStart(context.Context, string, string) {}

func (m *Metrics) OnBuildComplete(_ context.Context, _, _ string, loaded int, d time.Duration, err error) {
	m.BuildsTotal.WithLabelValues(status(err)).Inc()
	m.BuildDuration.Observe(d.Seconds())
	if err == nil {
		m.LoadedDocuments.Observe(float64(loaded))
	}
}

func (m *Metrics) OnLayoutStart(context.Context, string, int) {}

func (m *Metrics) OnLayoutComplete(_ context.Context, algorithm string, d time.Duration, err error) {
	m.LayoutDuration.WithLabelValues(algorithm, status(err)).Observe(d.Seconds())
}

func (m *Metrics) OnCacheHit(_ context.Context, c observability.CacheName) {
	m.CacheEvents.WithLabelValues(string(c), "hit").Inc()
}

func (m *Metrics) OnCacheMiss(_ context.Context, c observability.CacheName) {
	m.CacheEvents.WithLabelValues(string(c), "miss").Inc()
}

func (m *Metrics) OnCacheSet(_ context.Context, c observability.CacheName, _ int) {
	m.CacheEvents.WithLabelValues(string(c), "set").Inc()
}

func (m *Metrics) observeRequest(method, route string, code int) {
	m.RequestsTotal.WithLabelValues(method, route, strconv.Itoa(code)).Inc()
}
