package fixtures_test

import (
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/gaze-slices-go/testutil/fixtures"
	"github.com/AntonStoeckl/gaze-slices-go/testutil/helper"
)

func Test_LoadSamplesCSV_Skips_Malformed_Records(t *testing.T) {
	// arrange
	input := strings.Join([]string{
		"test_name,participant_name,recording_name,timeline_name,presented_media_name,box_name,exact_time,gaze_point_x,gaze_point_y",
		"A,P1,R1,T1,a.mp4,X,0001,0.5,0.25",
		"A,P1,R1,T1,a.mp4,Y,0002,not-a-number,0.25",
		"A,P2",
		",P2,R2,T1,a.mp4,X,0003,0.1,0.1",
		"A,P2,R2,T1,a.mp4,,0004,,",
	}, "\n")
	logger, spy := helper.NewSpyLogger()

	// act
	samples, skipped, err := fixtures.LoadSamplesCSV(strings.NewReader(input), logger)

	// assert
	require.NoError(t, err)
	assert.Equal(t, 3, skipped)
	require.Len(t, samples, 2)

	assert.Equal(t, "X", samples[0].Box)
	assert.InDelta(t, 0.5, *samples[0].X, 1e-9)
	assert.Nil(t, samples[1].X)
	assert.Nil(t, samples[1].Y)
	assert.Equal(t, "", samples[1].Box)
	assert.True(t, spy.HasLogWithAttr(slog.LevelWarn, "skipped malformed csv record", "line"))
}

func Test_LoadSamplesCSV_When_HeaderLacksColumn(t *testing.T) {
	_, _, err := fixtures.LoadSamplesCSV(strings.NewReader("test_name,participant_name\nA,P1\n"), nil)

	assert.Error(t, err)
}
