package sql

import (
	"context"
	"database/sql"

	"github.com/sllt/sqlbuilder/pkg/sqlb"
)

// Executor is the statement surface of DB. Repositories can depend on it
// instead of the concrete type.
type Executor interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	Exec(ctx context.Context, st sqlb.Statement) (sql.Result, error)
	Select(ctx context.Context, data any, st sqlb.Statement) error
}

var _ Executor = (*DB)(nil)

// Metrics is the recording side of metrics.Manager.
type Metrics interface {
	RecordHistogram(ctx context.Context, name string, value float64, labels ...string)
	IncrementCounter(ctx context.Context, name string, labels ...string)
}

// MetricsRegistrar creates the metrics DB records to.
type MetricsRegistrar interface {
	NewHistogram(name, desc string, buckets []float64, labelNames ...string) error
	NewCounter(name, desc string, labelNames ...string) error
}

const (
	metricStats  = "app_sql_stats"
	metricErrors = "app_sql_errors_total"
)

// RegisterMetrics creates the statement duration histogram and the error
// counter.
func RegisterMetrics(m MetricsRegistrar) error {
	if err := m.NewHistogram(metricStats, "Response time of SQL statements in milliseconds.",
		[]float64{.05, .075, .1, .125, .15, .2, .3, .5, .75, 1, 2, 3, 4, 5, 7.5, 10},
		"hostname", "database", "type"); err != nil {
		return err
	}

	return m.NewCounter(metricErrors, "Number of failed SQL statements.", "database", "type")
}
