package sqlengine

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/gaze-slices-go/gazestore"
)

func testEngine(dialect string) *Engine {
	return &Engine{
		dialect:       dialect,
		sampleTable:   defaultSampleTableName,
		catalogTable:  defaultCatalogTableName,
		durationTable: defaultDurationTableName,
	}
}

func Test_SelectSamples_Binds_Every_Value(t *testing.T) {
	// arrange
	hostile := `P'1"; DROP TABLE gaze_data; --`
	filter := gazestore.BuildFilter().
		ForTest(`it's A`).
		ForParticipants(hostile, "P2").
		OnTimeline("T1").
		InRecording("R1").
		Paged(10, 5).
		Finalize()
	overlay := gazestore.NewSliceSet(gazestore.S(`it's A`, "R1", "P2"), gazestore.S("B", "R1", "P2"))

	// act
	sqlQuery, args, err := testEngine(DialectPostgres).selectSamples(filter, overlay).Prepared(true).ToSQL()

	// assert
	require.NoError(t, err)
	assert.NotContains(t, sqlQuery, "DROP")
	assert.NotContains(t, sqlQuery, "it's")
	assert.Contains(t, sqlQuery, `"participant_name" IN ($2, $3)`)
	assert.Contains(t, sqlQuery, `(COALESCE("recording_name", '') || $6 || COALESCE("participant_name", '')) NOT IN ($7)`)
	assert.Contains(t, sqlQuery, `ORDER BY "exact_time" ASC`)
	assert.Contains(t, sqlQuery, "LIMIT $8")
	assert.Contains(t, sqlQuery, "OFFSET $9")
	require.Len(t, args, 9)
	assert.Equal(t, []any{`it's A`, hostile, "P2", "T1", "R1", "\x1f", "R1\x1fP2"}, args[:7])
}

func Test_SelectSamples_Splits_Large_Overlays(t *testing.T) {
	// arrange
	excluded := make([]gazestore.Slice, 0, 1201)
	for i := range 1201 {
		excluded = append(excluded, gazestore.S("A", fmt.Sprintf("R%d", i), "P1"))
	}
	filter := gazestore.BuildFilter().ForTest("A").Finalize()

	// act
	sqlQuery, args, err := testEngine(DialectSQLite).
		selectSamples(filter, gazestore.NewSliceSet(excluded...)).
		Prepared(true).
		ToSQL()

	// assert
	require.NoError(t, err)
	assert.Equal(t, 3, strings.Count(sqlQuery, "NOT IN"))
	assert.Equal(t, 1+3+1201, len(args))
}

func Test_SelectSamples_Without_Overlay_Or_Paging(t *testing.T) {
	filter := gazestore.BuildFilter().ForTest("A").Paged(0, 7).Finalize()

	sqlQuery, args, err := testEngine(DialectSQLite).selectSamples(filter, gazestore.NewSliceSet()).Prepared(true).ToSQL()

	require.NoError(t, err)
	assert.NotContains(t, sqlQuery, "NOT")
	assert.NotContains(t, sqlQuery, "LIMIT")
	assert.NotContains(t, sqlQuery, "OFFSET")
	assert.Equal(t, []any{"A"}, args)
}

func Test_SelectSamples_Offset_Requires_Positive_Value(t *testing.T) {
	filter := gazestore.BuildFilter().ForTest("A").Paged(3, 0).Finalize()

	sqlQuery, _, err := testEngine(DialectSQLite).selectSamples(filter, gazestore.NewSliceSet()).Prepared(true).ToSQL()

	require.NoError(t, err)
	assert.Contains(t, sqlQuery, "LIMIT ?")
	assert.NotContains(t, sqlQuery, "OFFSET")
}

func Test_SelectTableExists_Per_Dialect(t *testing.T) {
	pgQuery, pgArgs, err := testEngine(DialectPostgres).selectTableExists("test_catalog").Prepared(true).ToSQL()
	require.NoError(t, err)
	assert.Contains(t, pgQuery, `"information_schema"."tables"`)
	assert.Contains(t, pgQuery, "current_schema()")
	assert.Equal(t, []any{"test_catalog"}, pgArgs)

	liteQuery, liteArgs, err := testEngine(DialectSQLite).selectTableExists("test_catalog").Prepared(true).ToSQL()
	require.NoError(t, err)
	assert.Contains(t, liteQuery, "sqlite_master")
	assert.Equal(t, []any{"table", "test_catalog"}, liteArgs)
}

func Test_Stringify(t *testing.T) {
	assert.Nil(t, stringify(nil))
	assert.Equal(t, "abc", *stringify("abc"))
	assert.Equal(t, "AQI=", *stringify([]byte{1, 2}))
	assert.Equal(t, "42", *stringify(int64(42)))
	assert.Equal(t, "42", *stringify(int32(42)))
	assert.Equal(t, "0.1", *stringify(0.1))
	assert.Equal(t, "3", *stringify(float64(3)))
	assert.Equal(t, "true", *stringify(true))
}
