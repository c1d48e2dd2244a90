// Package prom exports cache signals to Prometheus.
package prom

import (
	"github.com/IvanBrykalov/collection/cache"
	"github.com/prometheus/client_golang/prometheus"
)

// Adapter implements cache.Metrics and exports Prometheus counters/gauges.
// Safe for concurrent use; several caches may share one Adapter.
type Adapter struct {
	hits      prometheus.Counter
	misses    prometheus.Counter
	evictions *prometheus.CounterVec
	entries   prometheus.Gauge
	cost      prometheus.Gauge
}

// New constructs a Prometheus metrics adapter.
//   - reg:          registry to register metrics with (nil => prometheus.DefaultRegisterer)
//   - ns, sub:      Prometheus namespace and subsystem
//   - constLabels:  static labels applied to all metrics (may be nil)
func New(reg prometheus.Registerer, ns, sub string, constLabels prometheus.Labels) *Adapter {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	opts := func(name, help string) prometheus.Opts {
		return prometheus.Opts{Namespace: ns, Subsystem: sub, Name: name, Help: help, ConstLabels: constLabels}
	}
	a := &Adapter{
		hits:      prometheus.NewCounter(prometheus.CounterOpts(opts("hits_total", "Cache lookups that found the key"))),
		misses:    prometheus.NewCounter(prometheus.CounterOpts(opts("misses_total", "Cache lookups that missed"))),
		evictions: prometheus.NewCounterVec(prometheus.CounterOpts(opts("evictions_total", "Entries evicted, by reason")), []string{"reason"}),
		entries:   prometheus.NewGauge(prometheus.GaugeOpts(opts("entries", "Resident entries"))),
		cost:      prometheus.NewGauge(prometheus.GaugeOpts(opts("cost", "Sum of resident entry costs"))),
	}
	reg.MustRegister(a.hits, a.misses, a.evictions, a.entries, a.cost)
	return a
}

// Hit increments the hit counter.
func (a *Adapter) Hit() { a.hits.Inc() }

// Miss increments the miss counter.
func (a *Adapter) Miss() { a.misses.Inc() }

// Evict counts one eviction under its reason label ("capacity", "shrink").
func (a *Adapter) Evict(r cache.EvictReason) { a.evictions.WithLabelValues(r.String()).Inc() }

// Size updates the entry and cost gauges.
func (a *Adapter) Size(entries int, cost int64) {
	a.entries.Set(float64(entries))
	a.cost.Set(float64(cost))
}

var _ cache.Metrics = (*Adapter)(nil)
