package main

import (
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_FilterFlags_Build_Filter(t *testing.T) {
	// setup
	var flags filterFlags
	cmd := &cobra.Command{Use: "probe"}
	flags.register(cmd, true)

	// act
	require.NoError(t, cmd.ParseFlags([]string{
		"--test", " A ",
		"--participant", "P2,P1",
		"--participant", "P1",
		"--timeline", "T1",
		"--limit", "10",
		"--offset", "5",
	}))
	filter := flags.filter()

	// assert
	assert.Equal(t, "A", filter.TestName())
	assert.Equal(t, []string{"P1", "P2"}, filter.Participants())
	assert.Equal(t, "T1", filter.Timeline())
	assert.Equal(t, "", filter.Recording())
	assert.Equal(t, uint(10), filter.Limit())
	assert.Equal(t, uint(5), filter.EffectiveOffset())
}

func Test_FilterFlags_Unpaged_Commands_Have_No_Paging_Flags(t *testing.T) {
	var flags filterFlags
	cmd := &cobra.Command{Use: "probe"}
	flags.register(cmd, false)

	assert.Nil(t, cmd.Flags().Lookup("limit"))
	assert.Nil(t, cmd.Flags().Lookup("offset"))
	assert.NotNil(t, cmd.Flags().Lookup("participant"))
}
