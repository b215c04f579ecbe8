package gazestore_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/AntonStoeckl/gaze-slices-go/gazestore"
)

func Test_SliceSet_IsImmutable(t *testing.T) {
	original := gazestore.NewSliceSet(gazestore.S("A", "R1", "P1"))

	extended := original.With(gazestore.S("A", "R2", "P2"))
	reduced := original.Without(gazestore.S("A", "R1", "P1"))

	assert.Equal(t, 1, original.Len())
	assert.Equal(t, 2, extended.Len())
	assert.Equal(t, 0, reduced.Len())
	assert.True(t, original.Contains(gazestore.S("A", "R1", "P1")))
}

func Test_SliceSet_Toggle_Is_Idempotent(t *testing.T) {
	s := gazestore.S("A", "R1", "P1")
	original := gazestore.NewSliceSet(gazestore.S("B", "R9", "P9"))

	offOn := original.With(s).Without(s)
	onOff := original.Without(s).With(s).Without(s)

	assert.True(t, original.Equal(offOn))
	assert.True(t, original.Equal(onOff))
}

func Test_SliceSet_Deduplicates_And_Sorts(t *testing.T) {
	set := gazestore.NewSliceSet(
		gazestore.S("B", "R1", "P1"),
		gazestore.S("A", "R2", "P2"),
		gazestore.S("A", "R1", "P2"),
		gazestore.S("B", "R1", "P1"),
	)

	assert.Equal(
		t,
		[]gazestore.Slice{
			gazestore.S("A", "R1", "P2"),
			gazestore.S("A", "R2", "P2"),
			gazestore.S("B", "R1", "P1"),
		},
		set.Slices(),
	)
}

func Test_SliceSet_ZeroValue_Is_Empty(t *testing.T) {
	var set gazestore.SliceSet

	assert.Equal(t, 0, set.Len())
	assert.False(t, set.Contains(gazestore.S("A", "R1", "P1")))
	assert.Empty(t, set.Slices())
	assert.Equal(t, 1, set.With(gazestore.S("A", "R1", "P1")).Len())
}

func Test_SliceSet_CompatibleWith(t *testing.T) {
	set := gazestore.NewSliceSet(
		gazestore.S("A", "R1", "P1"),
		gazestore.S("A", "R2", "P2"),
		gazestore.S("A", "R3", "P3"),
		gazestore.S("B", "R1", "P1"),
	)

	byTest := set.CompatibleWith(gazestore.BuildFilter().ForTest("A").Finalize())
	byParticipants := set.CompatibleWith(gazestore.BuildFilter().ForTest("A").ForParticipants("P1", "P3").Finalize())
	byRecording := set.CompatibleWith(gazestore.BuildFilter().ForTest("A").InRecording("R2").Finalize())

	assert.Len(t, byTest, 3)
	assert.Equal(t, []gazestore.Slice{gazestore.S("A", "R1", "P1"), gazestore.S("A", "R3", "P3")}, byParticipants)
	assert.Equal(t, []gazestore.Slice{gazestore.S("A", "R2", "P2")}, byRecording)
}
