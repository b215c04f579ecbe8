package gazestore_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/gaze-slices-go/gazestore"
)

func Test_ComputeBoxStats_When_NoSamples(t *testing.T) {
	stats := gazestore.ComputeBoxStats(map[string]int{})

	assert.Empty(t, stats.BoxPercentages)
	assert.Equal(t, 0, stats.TotalPoints)
}

func Test_ComputeBoxStats_Percentages_Sum_To_100(t *testing.T) {
	stats := gazestore.ComputeBoxStats(map[string]int{"X": 2, "Y": 1, "Z": 7, "empty": 0})

	sum := 0.0
	for _, p := range stats.BoxPercentages {
		sum += p
	}

	assert.Equal(t, 10, stats.TotalPoints)
	assert.InDelta(t, 100.0, sum, 1e-9)
	assert.NotContains(t, stats.BoxPercentages, "empty")
	assert.InDelta(t, 70.0, stats.BoxPercentages["Z"], 1e-9)
}

func Test_ComputeBoxStats_ScenarioA(t *testing.T) {
	stats := gazestore.ComputeBoxStats(map[string]int{"X": 2, "Y": 1})

	assert.Equal(t, 3, stats.TotalPoints)
	assert.InDelta(t, 66.67, stats.BoxPercentages["X"], 0.01)
	assert.InDelta(t, 33.33, stats.BoxPercentages["Y"], 0.01)
}

func Test_BuildRelationMaps_Keeps_Pair_While_One_Recording_Remains(t *testing.T) {
	triples := []gazestore.Slice{
		gazestore.S("A", "R1", "P1"),
		gazestore.S("A", "R2", "P1"),
		gazestore.S("A", "R3", "P2"),
		gazestore.S("B", "R4", "P2"),
	}
	overlay := gazestore.NewSliceSet(
		gazestore.S("A", "R1", "P1"), // P1 still has R2 in A
		gazestore.S("A", "R3", "P2"), // P2 loses A completely
	)

	maps := gazestore.BuildRelationMaps(triples, overlay)

	assert.Equal(t, []string{"P1"}, maps.ParticipantsByTest["A"])
	assert.Equal(t, []string{"P2"}, maps.ParticipantsByTest["B"])
	assert.Equal(t, []string{"A"}, maps.TestsByParticipant["P1"])
	assert.Equal(t, []string{"B"}, maps.TestsByParticipant["P2"])
}

func Test_BuildRelationMaps_Deduplicates_And_Sorts(t *testing.T) {
	triples := []gazestore.Slice{
		gazestore.S("A", "R2", "P2"),
		gazestore.S("A", "R1", "P2"),
		gazestore.S("A", "R1", "P1"),
		gazestore.S("C", "R1", "P1"),
		gazestore.S("B", "R1", "P1"),
	}

	maps := gazestore.BuildRelationMaps(triples, gazestore.SliceSet{})

	assert.Equal(t, []string{"P1", "P2"}, maps.ParticipantsByTest["A"])
	assert.Equal(t, []string{"A", "B", "C"}, maps.TestsByParticipant["P1"])
	assert.Equal(t, []string{"A", "B", "C"}, gazestore.Keys(maps.ParticipantsByTest))
}

func Test_MediaKindOf(t *testing.T) {
	assert.Equal(t, gazestore.MediaMP4, gazestore.MediaKindOf("clip.MP4"))
	assert.Equal(t, gazestore.MediaPNG, gazestore.MediaKindOf(" still.png "))
	assert.Equal(t, gazestore.MediaOther, gazestore.MediaKindOf("notes.txt"))
}

func ptr[T any](v T) *T {
	return &v
}

func Test_AggregateSearchTests(t *testing.T) {
	// arrange
	catalog := []gazestore.CatalogEntry{
		{TestName: "A", Group: ptr("g1"), Sentence: ptr("first")},
		{TestName: "A", Group: ptr("ignored")},
		{TestName: "C", Group: ptr("g3")},
	}
	durations := []gazestore.SliceDurations{
		{Slice: gazestore.S("A", "R1", "P1"), MP4Rows: 1, MP4Seconds: 2, PNGRows: 1, PNGSeconds: 1},
		{Slice: gazestore.S("A", "R2", "P2"), MP4Rows: 2, MP4Seconds: 4, PNGRows: 1, PNGSeconds: 3},
		{Slice: gazestore.S("A", "R3", "P3"), MP4Rows: 1, MP4Seconds: 9},
		{Slice: gazestore.S("A", "R4", "P4"), MP4Rows: 1, MP4Seconds: 100, PNGRows: 1, PNGSeconds: 100},
		{Slice: gazestore.S("B", "R1", "P1"), PNGRows: 1, PNGSeconds: 5},
	}
	overlay := gazestore.NewSliceSet(gazestore.S("A", "R4", "P4"))

	// act
	rows := gazestore.AggregateSearchTests(catalog, durations, overlay)

	// assert
	require.Len(t, rows, 3)

	a, b, c := rows[0], rows[1], rows[2]

	assert.Equal(t, "A", a.TestName)
	assert.Equal(t, "g1", *a.Group)
	assert.Equal(t, "first", *a.Sentence)
	assert.Nil(t, a.ImageName)
	assert.Equal(t, 2, a.Occurrences)
	assert.Equal(t, 3, a.MP4Triples)
	assert.Equal(t, 2, a.PNGTriples)
	require.NotNil(t, a.AvgPairDurationSeconds)
	assert.InDelta(t, 5.0, *a.AvgPairDurationSeconds, 1e-9) // (3 + 7) / 2

	assert.Equal(t, "B", b.TestName)
	assert.Nil(t, b.Group)
	assert.Nil(t, b.AvgPairDurationSeconds)
	assert.Equal(t, 0, b.Occurrences)
	assert.Equal(t, 1, b.PNGTriples)

	assert.Equal(t, "C", c.TestName)
	assert.Equal(t, "g3", *c.Group)
	assert.Nil(t, c.AvgPairDurationSeconds)
	assert.Equal(t, 0, c.MP4Triples)
}

func Test_BuildSearchSliceRows(t *testing.T) {
	catalog := []gazestore.CatalogEntry{{TestName: "A", ImageName: ptr("a.png")}}
	durations := []gazestore.SliceDurations{
		{Slice: gazestore.S("B", "R1", "P1"), PNGRows: 1, PNGSeconds: 5},
		{Slice: gazestore.S("A", "R1", "P1"), MP4Rows: 1, MP4Seconds: 2, PNGRows: 1, PNGSeconds: 1},
	}
	overlay := gazestore.NewSliceSet(gazestore.S("B", "R1", "P1"))

	rows := gazestore.BuildSearchSliceRows(catalog, durations, overlay)

	require.Len(t, rows, 2)
	assert.Equal(t, "A", rows[0].TestName)
	assert.Equal(t, "a.png", *rows[0].ImageName)
	assert.InDelta(t, 3.0, *rows[0].PairDurationSeconds, 1e-9)
	assert.False(t, rows[0].Excluded)

	assert.Equal(t, "B", rows[1].TestName)
	assert.Nil(t, rows[1].ImageName)
	assert.Nil(t, rows[1].PairDurationSeconds)
	assert.Nil(t, rows[1].MP4DurationSeconds)
	assert.InDelta(t, 5.0, *rows[1].PNGDurationSeconds, 1e-9)
	assert.True(t, rows[1].Excluded)
}
