package dedupcache

import "github.com/prometheus/client_golang/prometheus"

// Collector exposes a cache's gauges and counters as Prometheus metrics.
// Register it with any prometheus.Registerer:
//
//	prometheus.MustRegister(dedupcache.NewCollector(c, "myapp"))
//
// Metrics are read through [Cache.Stats], so they carry the same
// best-effort snapshot semantics.
type Collector struct {
	cache *Cache

	entries  *prometheus.Desc
	bytes    *prometheus.Desc
	hits     *prometheus.Desc
	misses   *prometheus.Desc
	recycles *prometheus.Desc
}

// NewCollector creates a collector for c. The namespace may be empty.
func NewCollector(c *Cache, namespace string) *Collector {
	return &Collector{
		cache: c,
		entries: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "dedupcache", "entries"),
			"Number of strings in the active generation.",
			nil, nil,
		),
		bytes: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "dedupcache", "approx_bytes"),
			"Approximate heap footprint of both generations in bytes.",
			nil, nil,
		),
		hits: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "dedupcache", "hits_total"),
			"Intern calls that found an existing canonical instance.",
			nil, nil,
		),
		misses: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "dedupcache", "misses_total"),
			"Intern calls that inserted a new instance.",
			nil, nil,
		),
		recycles: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "dedupcache", "recycles_total"),
			"Completed generation swaps.",
			nil, nil,
		),
	}
}

// Describe implements prometheus.Collector.
func (col *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- col.entries
	ch <- col.bytes
	ch <- col.hits
	ch <- col.misses
	ch <- col.recycles
}

// Collect implements prometheus.Collector.
func (col *Collector) Collect(ch chan<- prometheus.Metric) {
	s := col.cache.Stats()
	ch <- prometheus.MustNewConstMetric(col.entries, prometheus.GaugeValue, float64(s.Entries))
	ch <- prometheus.MustNewConstMetric(col.bytes, prometheus.GaugeValue, float64(s.ApproxBytes))
	ch <- prometheus.MustNewConstMetric(col.hits, prometheus.CounterValue, float64(s.Hits))
	ch <- prometheus.MustNewConstMetric(col.misses, prometheus.CounterValue, float64(s.Misses))
	ch <- prometheus.MustNewConstMetric(col.recycles, prometheus.CounterValue, float64(s.Recycles))
}

var _ prometheus.Collector = (*Collector)(nil)
