package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// PoolStats is a point-in-time snapshot of the pgx connection pool counters
// the collector exposes. Defined here so the metrics package does not import
// pgxpool.
type PoolStats struct {
	TotalConns        int32
	IdleConns         int32
	AcquiredConns     int32
	MaxConns          int32
	EmptyAcquireCount int64
	AcquireDuration   time.Duration
}

// DBPoolStatFunc returns the current pool statistics.
type DBPoolStatFunc func() PoolStats

// dbPoolCollector implements prometheus.Collector for DB pool stats.
type dbPoolCollector struct {
	statFunc DBPoolStatFunc

	totalDesc           *prometheus.Desc
	idleDesc            *prometheus.Desc
	acquiredDesc        *prometheus.Desc
	maxDesc             *prometheus.Desc
	emptyAcquireDesc    *prometheus.Desc
	acquireDurationDesc *prometheus.Desc
}

// NewDBPoolCollector creates a collector exposing pool saturation gauges and
// acquire-pressure counters. MaxConns next to AcquiredConns makes pool
// exhaustion visible; EmptyAcquireCount and the cumulative acquire time show
// how often requests waited for a free connection.
func NewDBPoolCollector(statFunc DBPoolStatFunc) prometheus.Collector {
	return &dbPoolCollector{
		statFunc: statFunc,
		totalDesc: prometheus.NewDesc(
			"clientbook_db_pool_total_conns",
			"Total number of connections in the DB pool.",
			nil, nil,
		),
		idleDesc: prometheus.NewDesc(
			"clientbook_db_pool_idle_conns",
			"Number of idle connections in the DB pool.",
			nil, nil,
		),
		acquiredDesc: prometheus.NewDesc(
			"clientbook_db_pool_acquired_conns",
			"Number of acquired connections in the DB pool.",
			nil, nil,
		),
		maxDesc: prometheus.NewDesc(
			"clientbook_db_pool_max_conns",
			"Configured maximum size of the DB pool.",
			nil, nil,
		),
		emptyAcquireDesc: prometheus.NewDesc(
			"clientbook_db_pool_empty_acquires_total",
			"Number of acquires that waited for a connection to free up.",
			nil, nil,
		),
		acquireDurationDesc: prometheus.NewDesc(
			"clientbook_db_pool_acquire_duration_seconds_total",
			"Cumulative time spent acquiring connections from the DB pool.",
			nil, nil,
		),
	}
}

// Describe sends the descriptors of each metric to the channel.
func (c *dbPoolCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.totalDesc
	ch <- c.idleDesc
	ch <- c.acquiredDesc
	ch <- c.maxDesc
	ch <- c.emptyAcquireDesc
	ch <- c.acquireDurationDesc
}

// Collect fetches pool stats and sends them as metrics.
func (c *dbPoolCollector) Collect(ch chan<- prometheus.Metric) {
	st := c.statFunc()
	ch <- prometheus.MustNewConstMetric(c.totalDesc, prometheus.GaugeValue, float64(st.TotalConns))
	ch <- prometheus.MustNewConstMetric(c.idleDesc, prometheus.GaugeValue, float64(st.IdleConns))
	ch <- prometheus.MustNewConstMetric(c.acquiredDesc, prometheus.GaugeValue, float64(st.AcquiredConns))
	ch <- prometheus.MustNewConstMetric(c.maxDesc, prometheus.GaugeValue, float64(st.MaxConns))
	ch <- prometheus.MustNewConstMetric(c.emptyAcquireDesc, prometheus.CounterValue, float64(st.EmptyAcquireCount))
	ch <- prometheus.MustNewConstMetric(c.acquireDurationDesc, prometheus.CounterValue, st.AcquireDuration.Seconds())
}
