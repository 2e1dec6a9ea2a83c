package telemetry

import (
	"context"
	"database/sql"

	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

// DBStatsFunc returns the current connection pool statistics
type DBStatsFunc func() (sql.DBStats, error)

// RegisterDBPoolMetrics publishes connection pool gauges read from stats on
// every collection. Unregister the returned registration on shutdown.
func RegisterDBPoolMetrics(meter metric.Meter, stats DBStatsFunc, logger *zap.Logger) (metric.Registration, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	connections, err := meter.Int64ObservableGauge(
		"db_pool_connections",
		metric.WithDescription("Number of connections in the pool by state"),
		metric.WithUnit("{connection}"),
	)
	if err != nil {
		return nil, err
	}
	maxOpen, err := meter.Int64ObservableGauge(
		"db_pool_connections_max",
		metric.WithDescription("Maximum number of open connections"),
		metric.WithUnit("{connection}"),
	)
	if err != nil {
		return nil, err
	}
	waitCount, err := meter.Int64ObservableCounter(
		"db_pool_wait_total",
		metric.WithDescription("Connections waited for"),
		metric.WithUnit("{wait}"),
	)
	if err != nil {
		return nil, err
	}
	waitDuration, err := meter.Float64ObservableCounter(
		"db_pool_wait_duration_seconds",
		metric.WithDescription("Total time blocked waiting for a connection"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	return meter.RegisterCallback(func(_ context.Context, o metric.Observer) error {
		s, err := stats()
		if err != nil {
			logger.Debug("pool stats unavailable", zap.Error(err))
			return nil
		}
		o.ObserveInt64(connections, int64(s.InUse), metric.WithAttributes(AttrDBState.String("in_use")))
		o.ObserveInt64(connections, int64(s.Idle), metric.WithAttributes(AttrDBState.String("idle")))
		o.ObserveInt64(connections, int64(s.OpenConnections), metric.WithAttributes(AttrDBState.String("open")))
		o.ObserveInt64(maxOpen, int64(s.MaxOpenConnections))
		o.ObserveInt64(waitCount, s.WaitCount)
		o.ObserveFloat64(waitDuration, s.WaitDuration.Seconds())
		return nil
	}, connections, maxOpen, waitCount, waitDuration)
}

