package main

import (
	"github.com/spf13/cobra"

	"github.com/AntonStoeckl/gaze-slices-go/gazestore"
)

// filterFlags are the sample filter flags shared by samples, boxstats and timelines.
type filterFlags struct {
	test         string
	participants []string
	timeline     string
	recording    string
	limit        uint
	offset       uint
}

func (f *filterFlags) register(cmd *cobra.Command, paged bool) {
	cmd.Flags().StringVar(&f.test, "test", "", "Test name (required)")
	cmd.Flags().StringSliceVar(&f.participants, "participant", nil, "Participant names; repeat or comma-separate (default all)")
	cmd.Flags().StringVar(&f.timeline, "timeline", "", "Timeline")
	cmd.Flags().StringVar(&f.recording, "recording", "", "Recording name")

	if paged {
		cmd.Flags().UintVar(&f.limit, "limit", 0, "Maximum number of samples (0 = unlimited)")
		cmd.Flags().UintVar(&f.offset, "offset", 0, "Samples to skip; ignored without --limit")
	}
}

func (f *filterFlags) filter() gazestore.Filter {
	return gazestore.BuildFilter().
		ForTest(f.test).
		ForParticipants(f.participants...).
		OnTimeline(f.timeline).
		InRecording(f.recording).
		Paged(f.limit, f.offset).
		Finalize()
}
