// Package gazestore provides core abstractions and types for querying eye-tracking gaze samples
// through a mutable exclusion overlay.
//
// This package defines the fundamental types used across the query engine and the overlay store,
// including the filter bundle, slices and slice sets, reference rows, the pure aggregation functions,
// and common error definitions.
//
// Gaze samples can be filtered by:
//   - Test name (required for sample queries)
//   - A participant allow-list
//   - Timeline and recording
//   - Limit/offset paging
//
// Every (test, recording, participant) triple is a Slice. Slices contained in the current
// exclusion overlay (a SliceSet) are hidden from every read path.
//
// Common usage pattern:
//
//	filter := gazestore.BuildFilter().
//		ForTest("reading-01").
//		ForParticipants("P01", "P02").
//		InRecording("Recording3").
//		Paged(100, 0).
//		Finalize()
//
//	samples, err := engine.GazeSamples(ctx, filter)
//	if err != nil {
//		// handle error
//	}
//
//	stats, err := engine.BoxStats(ctx, filter)
package gazestore
