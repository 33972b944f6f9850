package metrics

import (
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManager_Histogram(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewManager(reg)

	require.NoError(t, m.NewHistogram("app_sql_stats", "statement duration", []float64{1, 10}, "database", "type"))
	require.ErrorIs(t, m.NewHistogram("app_sql_stats", "dup", nil), errMetricAlreadyRegistered)

	ctx := context.Background()
	m.RecordHistogram(ctx, "app_sql_stats", 3, "database", "app", "type", "SELECT")
	m.RecordHistogram(ctx, "app_sql_stats", 3, "database", "app", "type", "INSERT")
	m.RecordHistogram(ctx, "app_sql_stats", 3, "database")
	m.RecordHistogram(ctx, "unknown", 3)

	assert.Equal(t, 2, testutil.CollectAndCount(m.histograms["app_sql_stats"]))
}

func TestManager_Counter(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewManager(reg)

	require.NoError(t, m.NewCounter("app_sql_errors_total", "failed statements", "type"))

	m.IncrementCounter(context.Background(), "app_sql_errors_total", "type", "UPDATE")
	m.IncrementCounter(context.Background(), "app_sql_errors_total", "type", "UPDATE")
	m.IncrementCounter(context.Background(), "app_sql_errors_total", "wrong", "UPDATE")

	c := m.counters["app_sql_errors_total"].WithLabelValues("UPDATE")
	assert.InDelta(t, 2, testutil.ToFloat64(c), 0)
}
