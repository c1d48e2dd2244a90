package prom

import (
	"github.com/IvanBrykalov/collection/cache"
	"github.com/prometheus/client_golang/prometheus"
)

// StatsCollector reads cache.Stats on every scrape. Use it for counters the
// push-style Adapter does not see (limit, inserts, rejects).
//
// snapshot is called from the scraping goroutine; it must do its own
// locking if the cache is used elsewhere.
type StatsCollector struct {
	snapshot func() cache.Stats

	maxCost  *prometheus.Desc
	inserts  *prometheus.Desc
	rejects  *prometheus.Desc
	hitRatio *prometheus.Desc
}

// NewStatsCollector builds a collector; register it with reg.MustRegister.
func NewStatsCollector(ns, sub string, constLabels prometheus.Labels, snapshot func() cache.Stats) *StatsCollector {
	desc := func(name, help string) *prometheus.Desc {
		return prometheus.NewDesc(prometheus.BuildFQName(ns, sub, name), help, nil, constLabels)
	}
	return &StatsCollector{
		snapshot: snapshot,
		maxCost:  desc("max_cost", "Configured cost limit"),
		inserts:  desc("inserts_total", "Successful inserts"),
		rejects:  desc("rejects_total", "Inserts refused for lack of room"),
		hitRatio: desc("hit_ratio", "Hits over lookups since creation"),
	}
}

// Describe implements prometheus.Collector.
func (c *StatsCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.maxCost
	ch <- c.inserts
	ch <- c.rejects
	ch <- c.hitRatio
}

// Collect implements prometheus.Collector.
func (c *StatsCollector) Collect(ch chan<- prometheus.Metric) {
	s := c.snapshot()
	ch <- prometheus.MustNewConstMetric(c.maxCost, prometheus.GaugeValue, float64(s.MaxCost))
	ch <- prometheus.MustNewConstMetric(c.inserts, prometheus.CounterValue, float64(s.Inserts))
	ch <- prometheus.MustNewConstMetric(c.rejects, prometheus.CounterValue, float64(s.Rejects))
	ch <- prometheus.MustNewConstMetric(c.hitRatio, prometheus.GaugeValue, s.HitRatio())
}

var _ prometheus.Collector = (*StatsCollector)(nil)
