package sqlengine_test

import (
	"context"
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/gaze-slices-go/gazestore"
	"github.com/AntonStoeckl/gaze-slices-go/gazestore/sqlengine"
	"github.com/AntonStoeckl/gaze-slices-go/testutil/fixtures"
)

func Test_ReferenceTable_When_TableIsAbsent(t *testing.T) {
	engine := newEngine(t, scenarioStore(t), noExclusions())

	rows, err := engine.ReferenceTable(context.Background(), "test_catalog")

	require.NoError(t, err)
	assert.NotNil(t, rows)
	assert.Empty(t, rows)
}

func Test_ReferenceTable_When_NameIsEmpty(t *testing.T) {
	engine := newEngine(t, scenarioStore(t), noExclusions())

	_, err := engine.ReferenceTable(context.Background(), " ")

	assert.ErrorIs(t, err, gazestore.ErrEmptyTableName)
}

func Test_ReferenceTable_Stringifies_Values(t *testing.T) {
	// setup
	store := fixtures.NewSQLiteStore(t, fixtures.GroupTable)
	store.AddGroups(t, fixtures.GroupRecord{
		Name:      "reading",
		Order:     3,
		Weight:    2.5,
		Active:    true,
		Thumbnail: []byte{0x89, 'P', 'N', 'G'},
	})
	engine := newEngine(t, store, noExclusions())

	// act
	rows, err := engine.ReferenceTable(context.Background(), "test_group")

	// assert
	require.NoError(t, err)
	require.Len(t, rows, 1)

	row := rows[0]
	assert.Equal(t, []string{"group_name", "group_order", "weight", "active", "thumbnail"}, row.Columns())
	assert.Equal(t, "reading", row.LookupString("group_name"))
	assert.Equal(t, "3", row.LookupString("group_order"))
	assert.Equal(t, "2.5", row.LookupString("weight"))
	assert.Contains(t, []string{"1", "true"}, row.LookupString("active"))
	assert.Equal(t, base64.StdEncoding.EncodeToString([]byte{0x89, 'P', 'N', 'G'}), row.LookupString("thumbnail"))
}

func Test_ReferenceTable_Keeps_Nulls(t *testing.T) {
	store := fixtures.NewSQLiteStore(t, fixtures.CatalogTable)
	store.AddCatalog(t, fixtures.CatalogRecord{TestName: "A", Sentence: fixtures.Ptr("hello")})
	engine := newEngine(t, store, noExclusions())

	rows, err := engine.ReferenceTable(context.Background(), "test_catalog")

	require.NoError(t, err)
	require.Len(t, rows, 1)

	group, exists := rows[0].Get("group")
	assert.True(t, exists)
	assert.Nil(t, group)
	assert.Equal(t, "hello", rows[0].LookupString("sentence"))
}

func Test_Bootstrap(t *testing.T) {
	// setup
	store := catalogStore(t)
	excluded := gazestore.StaticOverlay(gazestore.NewSliceSet(gazestore.S("A", "R2", "P2")))
	engine := newEngine(t, store, excluded)

	// act
	data, err := engine.Bootstrap(context.Background())

	// assert
	require.NoError(t, err)
	assert.Len(t, data.TestCatalog, 1)
	assert.Len(t, data.TestGroup, 0)
	assert.Len(t, data.Recordings, 2)
	assert.Equal(t, []string{"P1"}, data.Participants)
	assert.Equal(t, []string{"A"}, data.TestNames)
	assert.Equal(t, map[string][]string{"A": {"P1"}}, data.ParticipantsByTest)
	assert.Equal(t, map[string][]string{"P1": {"A"}}, data.TestsByParticipant)
	assert.NotNil(t, data.AOIMap)
	assert.Empty(t, data.AOIMap)
}

func Test_Bootstrap_Includes_AOIMap(t *testing.T) {
	// setup
	store := fixtures.NewSQLiteStore(t, fixtures.AOITable)
	store.AddAOIs(t,
		fixtures.AOIRecord{TestName: "A", Tag: "target", RegionID: fixtures.Ptr("X"), RGBHex: fixtures.Ptr("#ff0000")},
		fixtures.AOIRecord{TestName: "B", Tag: "distractor", RegionID: fixtures.Ptr("Y")},
	)
	engine := newEngine(t, store, noExclusions())

	// act
	data, err := engine.Bootstrap(context.Background())

	// assert
	require.NoError(t, err)
	assert.Equal(t, []gazestore.AOIRegion{
		{TestName: "A", Tag: "target", RegionID: "X", RGBHex: fixtures.Ptr("#ff0000")},
		{TestName: "B", Tag: "distractor", RegionID: "Y"},
	}, data.AOIMap)
}

func Test_Bootstrap_With_Custom_Reference_Tables(t *testing.T) {
	engine := newEngine(
		t,
		scenarioStore(t),
		noExclusions(),
		sqlengine.WithReferenceTables("absent_catalog", "absent_group", "absent_recordings"),
	)

	data, err := engine.Bootstrap(context.Background())

	require.NoError(t, err)
	assert.Empty(t, data.TestCatalog)
	assert.Empty(t, data.TestGroup)
	assert.Empty(t, data.Recordings)
	assert.Equal(t, []string{"P1", "P2"}, data.Participants)
}

// catalogStore holds the scenario samples plus a catalog, an empty group table, and durations.
func catalogStore(t *testing.T) *fixtures.Store {
	t.Helper()

	store := fixtures.NewSQLiteStore(t, fixtures.CatalogTable, fixtures.GroupTable, fixtures.DurationTable)
	store.AddSamples(t,
		fixtures.Sample("A", "R1", "P1", "X", "0001"),
		fixtures.Sample("A", "R1", "P1", "Y", "0002"),
		fixtures.Sample("A", "R2", "P2", "X", "0003"),
	)
	store.AddCatalog(t, fixtures.CatalogRecord{TestName: "A", Group: fixtures.Ptr("g1"), Sentence: fixtures.Ptr("first")})
	store.AddDurations(t,
		fixtures.DurationRecord{TestName: "A", RecordingName: "R1", ParticipantName: "P1", MediaName: "a.mp4", DurationSeconds: fixtures.Ptr(2.0)},
		fixtures.DurationRecord{TestName: "A", RecordingName: "R1", ParticipantName: "P1", MediaName: "a.PNG", DurationSeconds: fixtures.Ptr(1.0)},
	)

	return store
}
