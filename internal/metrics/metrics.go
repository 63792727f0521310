// Package metrics exports animator events as Prometheus metrics.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/gogpu/swirl"
)

// Collector implements swirl.Observer on top of a Prometheus registry.
type Collector struct {
	registry *prometheus.Registry

	renders    *prometheus.CounterVec
	frames     *prometheus.CounterVec
	duration   *prometheus.HistogramVec
	coalesced  *prometheus.CounterVec
	deliveries prometheus.Counter
	clones     prometheus.Gauge
}

var _ swirl.Observer = (*Collector)(nil)

// NewCollector creates a collector with its own registry, so several
// collectors can coexist in one process.
func NewCollector() *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		renders: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "swirl_renders_total",
				Help: "Total number of committed render jobs",
			},
			[]string{"kind", "dimmed"},
		),
		frames: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "swirl_frames_total",
				Help: "Total number of primary frames rendered by committed jobs",
			},
			[]string{"kind"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "swirl_render_duration_seconds",
				Help:    "Wall time of committed render jobs",
				Buckets: prometheus.ExponentialBuckets(0.001, 2, 12),
			},
			[]string{"kind"},
		),
		coalesced: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "swirl_coalesced_total",
				Help: "Render jobs dropped in favor of a newer one",
			},
			[]string{"kind"},
		),
		deliveries: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "swirl_deliveries_total",
			Help: "Deliveries handed to the display",
		}),
		clones: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "swirl_clones",
			Help: "Clones that received the last delivery",
		}),
	}
	c.registry.MustRegister(c.renders, c.frames, c.duration, c.coalesced, c.deliveries, c.clones)
	return c
}

// Registry returns the underlying registry.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// Handler serves the collector's metrics in the Prometheus text format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

func (c *Collector) ObserveRender(kind string, frames int, dimmed bool, elapsed time.Duration) {
	c.renders.WithLabelValues(kind, strconv.FormatBool(dimmed)).Inc()
	c.frames.WithLabelValues(kind).Add(float64(frames))
	c.duration.WithLabelValues(kind).Observe(elapsed.Seconds())
}

func (c *Collector) ObserveCoalesced(kind string) {
	c.coalesced.WithLabelValues(kind).Inc()
}

func (c *Collector) ObserveDelivery(frames, clones int) {
	c.deliveries.Inc()
	c.clones.Set(float64(clones))
}

// WatchCache exports the dimmed still cache statistics returned by stats,
// read at scrape time. Typically stats is Animator.CacheStats.
func (c *Collector) WatchCache(stats func() swirl.CacheStats) {
	c.registry.MustRegister(newCacheCollector(stats))
}

// cacheCollector turns cache statistics into const metrics on each scrape.
type cacheCollector struct {
	stats     func() swirl.CacheStats
	lookups   *prometheus.Desc
	evictions *prometheus.Desc
	entries   *prometheus.Desc
}

func newCacheCollector(stats func() swirl.CacheStats) *cacheCollector {
	return &cacheCollector{
		stats: stats,
		lookups: prometheus.NewDesc(
			"swirl_dimmed_cache_lookups_total",
			"Dimmed still cache lookups",
			[]string{"result"}, nil,
		),
		evictions: prometheus.NewDesc(
			"swirl_dimmed_cache_evictions_total",
			"Dimmed stills evicted for capacity",
			nil, nil,
		),
		entries: prometheus.NewDesc(
			"swirl_dimmed_cache_entries",
			"Dimmed stills currently cached",
			nil, nil,
		),
	}
}

func (cc *cacheCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- cc.lookups
	ch <- cc.evictions
	ch <- cc.entries
}

func (cc *cacheCollector) Collect(ch chan<- prometheus.Metric) {
	s := cc.stats()
	ch <- prometheus.MustNewConstMetric(cc.lookups, prometheus.CounterValue, float64(s.Hits), "hit")
	ch <- prometheus.MustNewConstMetric(cc.lookups, prometheus.CounterValue, float64(s.Misses), "miss")
	ch <- prometheus.MustNewConstMetric(cc.evictions, prometheus.CounterValue, float64(s.Evictions))
	ch <- prometheus.MustNewConstMetric(cc.entries, prometheus.GaugeValue, float64(s.Entries))
}
