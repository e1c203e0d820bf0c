package metrics

import (
	"context"
	"errors"
	"time"

	"github.com/internlog/server/internal/storage"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Database metrics
var (
	// DBConnectionsOpen is the total number of open connections to the database
	DBConnectionsOpen = promauto.With(Registry).NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "db_connections_open",
			Help:      "Total number of open database connections",
		},
	)

	// DBConnectionsInUse is the number of database connections currently in use
	DBConnectionsInUse = promauto.With(Registry).NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "db_connections_in_use",
			Help:      "Number of database connections currently in use (acquired)",
		},
	)

	// DBConnectionsIdle is the number of idle database connections
	DBConnectionsIdle = promauto.With(Registry).NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "db_connections_idle",
			Help:      "Number of idle database connections",
		},
	)

	// DBConnectionsMaxOpen is the maximum number of open database connections
	DBConnectionsMaxOpen = promauto.With(Registry).NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "db_connections_max_open",
			Help:      "Maximum number of open database connections allowed",
		},
	)

	// DBQueryDuration records database query latency
	DBQueryDuration = promauto.With(Registry).NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "db_query_duration_seconds",
			Help:      "Database query duration in seconds",
			// Buckets: 1ms, 5ms, 10ms, 25ms, 50ms, 100ms, 250ms, 500ms, 1s, 2.5s, 5s
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
		},
		[]string{"operation"},
	)

	// DBErrors counts database errors by type
	DBErrors = promauto.With(Registry).NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "db_errors_total",
			Help:      "Total number of database errors",
		},
		[]string{"operation", "error_type"},
	)
)

// DBCollector samples pool statistics into the connection gauges.
type DBCollector struct {
	pool *pgxpool.Pool
}

func NewDBCollector(pool *pgxpool.Pool) *DBCollector {
	return &DBCollector{pool: pool}
}

// Run samples every interval until ctx is cancelled. It always returns nil so it can be
// used directly as an errgroup member.
func (c *DBCollector) Run(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	c.collect()
	for {
		select {
		case <-ticker.C:
			c.collect()
		case <-ctx.Done():
			return nil
		}
	}
}

func (c *DBCollector) collect() {
	if c.pool == nil {
		return
	}
	stat := c.pool.Stat()
	DBConnectionsOpen.Set(float64(stat.TotalConns()))
	DBConnectionsInUse.Set(float64(stat.AcquiredConns()))
	DBConnectionsIdle.Set(float64(stat.IdleConns()))
	DBConnectionsMaxOpen.Set(float64(stat.MaxConns()))
}

// RecordQuery observes a query's latency and counts its failure class. Defer it through a
// closure so the final error is seen:
//
//	start := time.Now()
//	defer func() { metrics.RecordQuery("insert_user", start, err) }()
//
// A miss (storage.ErrNotFound) is an answer, not a failure.
func RecordQuery(operation string, start time.Time, err error) {
	DBQueryDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())

	if errorType := classifyDBError(err); errorType != "" {
		DBErrors.WithLabelValues(operation, errorType).Inc()
	}
}

func classifyDBError(err error) string {
	switch {
	case err == nil, errors.Is(err, storage.ErrNotFound):
		return ""
	case errors.Is(err, storage.ErrConflict):
		return "conflict"
	case errors.Is(err, storage.ErrForeignKey):
		return "foreign_key"
	case errors.Is(err, context.Canceled):
		return "canceled"
	case errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	default:
		return "query_error"
	}
}
