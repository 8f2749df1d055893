// Package metrics exposes load counters for Prometheus.
package metrics

import (
	"net/http"

	"sec_extractor/pkg/core/companies"
	"sec_extractor/pkg/core/etl"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector owns its registry so tests and multiple servers don't clash on
// the global one.
type Collector struct {
	registry *prometheus.Registry

	loads         prometheus.Counter
	rowsRead      *prometheus.CounterVec
	recordsAdded  prometheus.Counter
	rowsSkipped   *prometheus.CounterVec
	loadDuration  prometheus.Histogram
	companiesSize prometheus.Gauge
	filingsSize   prometheus.Gauge
}

// NewCollector creates and registers the load metrics.
func NewCollector() *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		loads: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "sec_extractor_loads_total",
			Help: "Data set pairs loaded",
		}),
		rowsRead: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "sec_extractor_rows_read_total",
			Help: "Rows read by source",
		}, []string{"source"}),
		recordsAdded: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "sec_extractor_records_added_total",
			Help: "Fact records attached to a filing",
		}),
		rowsSkipped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "sec_extractor_rows_skipped_total",
			Help: "Rows skipped by reason",
		}, []string{"reason"}),
		loadDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "sec_extractor_load_duration_seconds",
			Help:    "Time to load one data set pair",
			Buckets: prometheus.ExponentialBuckets(0.1, 2, 10),
		}),
		companiesSize: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "sec_extractor_companies",
			Help: "Companies in the index",
		}),
		filingsSize: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "sec_extractor_filings",
			Help: "Filings claimed in the index",
		}),
	}
	c.registry.MustRegister(
		c.loads, c.rowsRead, c.recordsAdded, c.rowsSkipped,
		c.loadDuration, c.companiesSize, c.filingsSize,
	)
	return c
}

// Observe adds one load's stats.
func (c *Collector) Observe(s *etl.Stats) {
	c.loads.Inc()
	c.rowsRead.WithLabelValues("submissions").Add(float64(s.SubmissionRows))
	c.rowsRead.WithLabelValues("facts").Add(float64(s.FactRows))
	c.recordsAdded.Add(float64(s.RecordsAdded))
	c.rowsSkipped.WithLabelValues("filtered").Add(float64(s.FilteredRows))
	c.rowsSkipped.WithLabelValues("unclaimed").Add(float64(s.SkippedUnclaimed))
	c.rowsSkipped.WithLabelValues("unknown_filing").Add(float64(s.SkippedUnknownFiling))
	c.loadDuration.Observe(s.Duration.Seconds())
}

// SetIndexSize records the current index size
func (c *Collector) SetIndexSize(db *companies.DB) {
	c.companiesSize.Set(float64(db.Len()))
	c.filingsSize.Set(float64(db.FilingCount()))
}

// Registry returns the underlying registry
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// Handler serves the registry in the Prometheus text format
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}
