package database

import (
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
)

// PoolStatsCollector exposes pgxpool.Stat counters to Prometheus. The pool
// snapshot is taken at scrape time, so no background goroutine is needed.
type PoolStatsCollector struct {
	pool    *pgxpool.Pool
	service string

	acquiredConns      *prometheus.Desc
	idleConns          *prometheus.Desc
	totalConns         *prometheus.Desc
	maxConns           *prometheus.Desc
	constructingConns  *prometheus.Desc
	acquireCount       *prometheus.Desc
	acquireDuration    *prometheus.Desc
	canceledAcquires   *prometheus.Desc
	emptyAcquires      *prometheus.Desc
	newConnsCount      *prometheus.Desc
	maxLifetimeDestroy *prometheus.Desc
	maxIdleDestroy     *prometheus.Desc
}

// NewPoolStatsCollector builds a collector for one pool. service becomes a
// label so several pools can share a registry.
func NewPoolStatsCollector(pool *pgxpool.Pool, service string) *PoolStatsCollector {
	labels := []string{"service"}
	desc := func(name, help string) *prometheus.Desc {
		return prometheus.NewDesc(name, help, labels, nil)
	}
	return &PoolStatsCollector{
		pool:               pool,
		service:            service,
		acquiredConns:      desc("db_pool_acquired_connections", "Number of currently acquired connections"),
		idleConns:          desc("db_pool_idle_connections", "Number of currently idle connections"),
		totalConns:         desc("db_pool_total_connections", "Total number of connections in the pool"),
		maxConns:           desc("db_pool_max_connections", "Maximum number of connections allowed"),
		constructingConns:  desc("db_pool_constructing_connections", "Number of connections currently being constructed"),
		acquireCount:       desc("db_pool_acquire_count_total", "Total number of connection acquires"),
		acquireDuration:    desc("db_pool_acquire_duration_seconds_total", "Total time spent acquiring connections in seconds"),
		canceledAcquires:   desc("db_pool_canceled_acquire_count_total", "Total number of canceled connection acquires"),
		emptyAcquires:      desc("db_pool_empty_acquire_count_total", "Total number of acquires that had to wait for a connection"),
		newConnsCount:      desc("db_pool_new_connections_total", "Total number of new connections created"),
		maxLifetimeDestroy: desc("db_pool_max_lifetime_destroy_total", "Total connections destroyed due to max lifetime"),
		maxIdleDestroy:     desc("db_pool_max_idle_destroy_total", "Total connections destroyed due to max idle time"),
	}
}

// Describe implements prometheus.Collector.
func (c *PoolStatsCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.acquiredConns
	ch <- c.idleConns
	ch <- c.totalConns
	ch <- c.maxConns
	ch <- c.constructingConns
	ch <- c.acquireCount
	ch <- c.acquireDuration
	ch <- c.canceledAcquires
	ch <- c.emptyAcquires
	ch <- c.newConnsCount
	ch <- c.maxLifetimeDestroy
	ch <- c.maxIdleDestroy
}

// Collect implements prometheus.Collector by snapshotting pool stats.
func (c *PoolStatsCollector) Collect(ch chan<- prometheus.Metric) {
	stat := c.pool.Stat()

	gauge := func(d *prometheus.Desc, v float64) prometheus.Metric {
		return prometheus.MustNewConstMetric(d, prometheus.GaugeValue, v, c.service)
	}
	counter := func(d *prometheus.Desc, v float64) prometheus.Metric {
		return prometheus.MustNewConstMetric(d, prometheus.CounterValue, v, c.service)
	}

	ch <- gauge(c.acquiredConns, float64(stat.AcquiredConns()))
	ch <- gauge(c.idleConns, float64(stat.IdleConns()))
	ch <- gauge(c.totalConns, float64(stat.TotalConns()))
	ch <- gauge(c.maxConns, float64(stat.MaxConns()))
	ch <- gauge(c.constructingConns, float64(stat.ConstructingConns()))
	ch <- counter(c.acquireCount, float64(stat.AcquireCount()))
	ch <- counter(c.acquireDuration, stat.AcquireDuration().Seconds())
	ch <- counter(c.canceledAcquires, float64(stat.CanceledAcquireCount()))
	ch <- counter(c.emptyAcquires, float64(stat.EmptyAcquireCount()))
	ch <- counter(c.newConnsCount, float64(stat.NewConnsCount()))
	ch <- counter(c.maxLifetimeDestroy, float64(stat.MaxLifetimeDestroyCount()))
	ch <- counter(c.maxIdleDestroy, float64(stat.MaxIdleDestroyCount()))
}

// RegisterPoolMetrics registers a pool collector with the default registry.
func RegisterPoolMetrics(pool *pgxpool.Pool, service string) {
	prometheus.MustRegister(NewPoolStatsCollector(pool, service))
}
