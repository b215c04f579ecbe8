package promadapters_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/gaze-slices-go/gazestore"
	"github.com/AntonStoeckl/gaze-slices-go/gazestore/pool"
	"github.com/AntonStoeckl/gaze-slices-go/gazestore/promadapters"
	"github.com/AntonStoeckl/gaze-slices-go/gazestore/sqlengine"
	"github.com/AntonStoeckl/gaze-slices-go/testutil/fixtures"
)

func Test_MetricsCollector_IncrementCounter(t *testing.T) {
	// setup
	registry := prometheus.NewRegistry()
	collector := promadapters.NewMetricsCollector(registry)
	labels := map[string]string{"operation": "gaze_samples", "status": "error", "error_type": "pool_exhausted"}

	// act
	collector.IncrementCounter("gazestore_database_errors_total", labels)
	collector.IncrementCounter("gazestore_database_errors_total", labels)

	// assert
	expected := `
# HELP gazestore_database_errors_total Count of gazestore events.
# TYPE gazestore_database_errors_total counter
gazestore_database_errors_total{error_type="pool_exhausted",operation="gaze_samples",status="error"} 2
`
	require.NoError(t, testutil.GatherAndCompare(registry, strings.NewReader(expected), "gazestore_database_errors_total"))
}

func Test_MetricsCollector_Histograms(t *testing.T) {
	// setup
	registry := prometheus.NewRegistry()
	collector := promadapters.NewMetricsCollector(registry, promadapters.WithNamespace("app"))
	labels := map[string]string{"operation": "slices", "status": "success"}

	// act
	collector.RecordDuration("gazestore_query_duration_seconds", 20*time.Millisecond, labels)
	collector.RecordValue("gazestore_rows_returned", 5, labels)
	collector.RecordValue("gazestore_rows_returned", 7, labels)

	// assert
	count, err := testutil.GatherAndCount(registry, "app_gazestore_query_duration_seconds", "app_gazestore_rows_returned")
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func Test_MetricsCollector_Label_Names_Are_Fixed_By_First_Observation(t *testing.T) {
	// setup
	registry := prometheus.NewRegistry()
	collector := promadapters.NewMetricsCollector(registry)

	// act
	collector.IncrementCounter("events_total", map[string]string{"operation": "a", "status": "error"})
	collector.IncrementCounter("events_total", map[string]string{"operation": "b", "extra": "dropped"})

	// assert
	expected := `
# HELP events_total Count of gazestore events.
# TYPE events_total counter
events_total{operation="a",status="error"} 1
events_total{operation="b",status=""} 1
`
	require.NoError(t, testutil.GatherAndCompare(registry, strings.NewReader(expected), "events_total"))
}

func Test_MetricsCollector_Shares_Registry(t *testing.T) {
	// setup
	registry := prometheus.NewRegistry()
	first := promadapters.NewMetricsCollector(registry)
	second := promadapters.NewMetricsCollector(registry)
	labels := map[string]string{"operation": "box_stats"}

	// act
	first.IncrementCounter("events_total", labels)
	second.IncrementCounter("events_total", labels)

	// assert
	expected := `
# HELP events_total Count of gazestore events.
# TYPE events_total counter
events_total{operation="box_stats"} 2
`
	require.NoError(t, testutil.GatherAndCompare(registry, strings.NewReader(expected), "events_total"))
}

func Test_MetricsCollector_With_Engine(t *testing.T) {
	// setup
	registry := prometheus.NewRegistry()

	store := fixtures.NewSQLiteStore(t)
	store.AddSamples(t, fixtures.Sample("A", "R1", "P1", "X", "0001"))

	db, err := pool.OpenSQLite(store.Path, pool.DefaultConfig())
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	engine, err := sqlengine.NewEngineFromSQLDB(
		db,
		gazestore.StaticOverlay(gazestore.NewSliceSet()),
		sqlengine.WithMetrics(promadapters.NewMetricsCollector(registry)),
	)
	require.NoError(t, err)

	// act
	_, err = engine.GazeSamples(context.Background(), gazestore.BuildFilter().ForTest("A").Finalize())
	_, errMissing := engine.GazeSamples(context.Background(), gazestore.BuildFilter().Finalize())

	// assert
	require.NoError(t, err)
	require.Error(t, errMissing)

	expected := `
# HELP gazestore_database_errors_total Count of gazestore events.
# TYPE gazestore_database_errors_total counter
gazestore_database_errors_total{error_type="missing_parameter",operation="gaze_samples",status="error"} 1
`
	require.NoError(t, testutil.GatherAndCompare(registry, strings.NewReader(expected), "gazestore_database_errors_total"))

	count, err := testutil.GatherAndCount(registry, "gazestore_query_duration_seconds")
	require.NoError(t, err)
	assert.Equal(t, 2, count) // success and error series
}
