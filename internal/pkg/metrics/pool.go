package metrics

import "github.com/prometheus/client_golang/prometheus"

// PoolStats is a point-in-time view of the database connection pool.
type PoolStats struct {
	AcquiredConns     int32
	IdleConns         int32
	TotalConns        int32
	MaxConns          int32
	AcquireCount      int64
	EmptyAcquireCount int64
}

// PoolStatsFunc returns the current pool statistics.
type PoolStatsFunc func() PoolStats

type poolCollector struct {
	stats PoolStatsFunc

	acquired     *prometheus.Desc
	idle         *prometheus.Desc
	total        *prometheus.Desc
	max          *prometheus.Desc
	acquires     *prometheus.Desc
	emptyAcquire *prometheus.Desc
}

func newPoolCollector(namespace string, stats PoolStatsFunc) *poolCollector {
	name := func(n string) string { return prometheus.BuildFQName(namespace, "db_pool", n) }
	return &poolCollector{
		stats:        stats,
		acquired:     prometheus.NewDesc(name("acquired_connections"), "Connections currently checked out of the pool", nil, nil),
		idle:         prometheus.NewDesc(name("idle_connections"), "Idle connections in the pool", nil, nil),
		total:        prometheus.NewDesc(name("total_connections"), "All connections owned by the pool", nil, nil),
		max:          prometheus.NewDesc(name("max_connections"), "Configured pool size", nil, nil),
		acquires:     prometheus.NewDesc(name("acquires_total"), "Successful connection acquisitions", nil, nil),
		emptyAcquire: prometheus.NewDesc(name("empty_acquires_total"), "Acquisitions that had to wait for a connection", nil, nil),
	}
}

func (c *poolCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.acquired
	ch <- c.idle
	ch <- c.total
	ch <- c.max
	ch <- c.acquires
	ch <- c.emptyAcquire
}

func (c *poolCollector) Collect(ch chan<- prometheus.Metric) {
	s := c.stats()
	ch <- prometheus.MustNewConstMetric(c.acquired, prometheus.GaugeValue, float64(s.AcquiredConns))
	ch <- prometheus.MustNewConstMetric(c.idle, prometheus.GaugeValue, float64(s.IdleConns))
	ch <- prometheus.MustNewConstMetric(c.total, prometheus.GaugeValue, float64(s.TotalConns))
	ch <- prometheus.MustNewConstMetric(c.max, prometheus.GaugeValue, float64(s.MaxConns))
	ch <- prometheus.MustNewConstMetric(c.acquires, prometheus.CounterValue, float64(s.AcquireCount))
	ch <- prometheus.MustNewConstMetric(c.emptyAcquire, prometheus.CounterValue, float64(s.EmptyAcquireCount))
}
