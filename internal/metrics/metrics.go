// Package metrics records scan results as Prometheus metrics and can export
// them in the node_exporter textfile format.
package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/oceanplexian/primescan/internal/scan"
)

const namespace = "primescan"

// Collector owns a private registry so repeated scans in one process do not
// collide on the default registerer.
type Collector struct {
	registry *prometheus.Registry

	checked    *prometheus.CounterVec
	checkTime  prometheus.Histogram
	elapsed    prometheus.Gauge
	rangeStart prometheus.Gauge
	rangeEnd   prometheus.Gauge
}

// NewCollector creates and registers the scan metrics.
func NewCollector() *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		checked: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "candidates_checked_total",
				Help:      "Total number of candidates checked, by result",
			},
			[]string{"result"},
		),
		checkTime: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "check_duration_seconds",
				Help:      "Time spent testing a single candidate",
				Buckets:   prometheus.ExponentialBuckets(1e-7, 4, 12),
			},
		),
		elapsed: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "scan_elapsed_seconds",
				Help:      "Wall-clock duration of the last scan",
			},
		),
		rangeStart: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "range_start",
				Help:      "First candidate of the last scan",
			},
		),
		rangeEnd: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "range_end",
				Help:      "Exclusive upper bound of the last scan",
			},
		),
	}
	c.registry.MustRegister(c.checked, c.checkTime, c.elapsed, c.rangeStart, c.rangeEnd)
	return c
}

// Registry exposes the underlying registry.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// ObserveCheck records a single candidate.
func (c *Collector) ObserveCheck(_ int64, isPrime bool, d time.Duration) {
	c.checked.WithLabelValues(resultLabel(isPrime)).Inc()
	c.checkTime.Observe(d.Seconds())
}

// ObserveScan records the totals of a finished scan.
func (c *Collector) ObserveScan(r *scan.Report) {
	c.elapsed.Set(r.Elapsed.Seconds())
	c.rangeStart.Set(float64(r.Start))
	c.rangeEnd.Set(float64(r.End))
}

// WriteTextfile writes all metrics to path.
func (c *Collector) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, c.registry); err != nil {
		return fmt.Errorf("write metrics textfile %s: %w", path, err)
	}
	return nil
}

func resultLabel(isPrime bool) string {
	if isPrime {
		return "prime"
	}
	return "composite"
}

var _ scan.Observer = (*Collector)(nil)
