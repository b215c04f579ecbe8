package sqlengine

import (
	"context"
	"database/sql"
	"slices"
	"strings"

	"github.com/AntonStoeckl/gaze-slices-go/gazestore"
	"github.com/AntonStoeckl/gaze-slices-go/gazestore/sqlengine/internal/adapters"
)

type sampleRow struct {
	x, y        sql.NullFloat64
	box         sql.NullString
	media       sql.NullString
	timeline    sql.NullString
	participant sql.NullString
	recording   sql.NullString
	timestamp   sql.NullString
	testName    sql.NullString
}

func (r *sampleRow) scan(rows adapters.DBRows) error {
	return rows.Scan(&r.x, &r.y, &r.box, &r.media, &r.timeline, &r.participant, &r.recording, &r.timestamp, &r.testName)
}

func (r *sampleRow) toSample() gazestore.GazeSample {
	return gazestore.GazeSample{
		X:           nullFloat(r.x),
		Y:           nullFloat(r.y),
		Box:         r.box.String,
		MediaName:   r.media.String,
		Timeline:    r.timeline.String,
		Participant: r.participant.String,
		Recording:   r.recording.String,
		Timestamp:   r.timestamp.String,
		TestName:    r.testName.String,
	}
}

func nullFloat(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}

	f := v.Float64

	return &f
}

// GazeSamples returns the samples matching filter ordered by timestamp ascending, minus every excluded slice.
// The test name is required. A limit of 0 returns all samples and ignores the offset.
func (e *Engine) GazeSamples(ctx context.Context, filter gazestore.Filter) (gazestore.GazeSamples, error) {
	ctx, observer := e.startOperation(ctx, operationGazeSamples, filterAttrs(filter))

	if err := e.requireTestName(ctx, filter); err != nil {
		return nil, observer.finishError(err)
	}

	samples := make(gazestore.GazeSamples, 0)
	row := sampleRow{}

	err := e.runQuery(ctx, operationGazeSamples, e.selectSamples(filter, e.snapshot()), func(rows adapters.DBRows) error {
		if err := row.scan(rows); err != nil {
			return err
		}
		samples = append(samples, row.toSample())

		return nil
	})

	if err != nil {
		return nil, observer.finishError(err)
	}

	observer.finishSuccess(len(samples))

	return samples, nil
}

// BoxStats returns per-box counts and percentages over the samples matching filter, minus every excluded slice.
// Paging is ignored. Samples without a box are counted under the empty box name.
func (e *Engine) BoxStats(ctx context.Context, filter gazestore.Filter) (gazestore.BoxStats, error) {
	ctx, observer := e.startOperation(ctx, operationBoxStats, filterAttrs(filter))

	if err := e.requireTestName(ctx, filter); err != nil {
		return gazestore.BoxStats{}, observer.finishError(err)
	}

	counts := make(map[string]int)

	err := e.runQuery(ctx, operationBoxStats, e.selectBoxCounts(filter, e.snapshot()), func(rows adapters.DBRows) error {
		var box sql.NullString
		var count int64
		if err := rows.Scan(&box, &count); err != nil {
			return err
		}
		counts[box.String] += int(count)

		return nil
	})

	if err != nil {
		return gazestore.BoxStats{}, observer.finishError(err)
	}

	stats := gazestore.ComputeBoxStats(counts)
	observer.finishSuccess(len(stats.BoxCounts))

	return stats, nil
}

// TimelineRecordings returns the distinct (timeline, recording) pairs of the samples matching filter,
// minus every excluded slice, sorted by timeline then recording.
func (e *Engine) TimelineRecordings(ctx context.Context, filter gazestore.Filter) ([]gazestore.TimelineRecording, error) {
	ctx, observer := e.startOperation(ctx, operationTimelineRecordings, filterAttrs(filter))

	if err := e.requireTestName(ctx, filter); err != nil {
		return nil, observer.finishError(err)
	}

	pairs := make([]gazestore.TimelineRecording, 0)

	err := e.runQuery(
		ctx,
		operationTimelineRecordings,
		e.selectTimelineRecordings(filter.Unpaged(), e.snapshot()),
		func(rows adapters.DBRows) error {
			var timeline, recording sql.NullString
			if err := rows.Scan(&timeline, &recording); err != nil {
				return err
			}

			if isBlank(timeline.String) || isBlank(recording.String) {
				return nil
			}
			pairs = append(pairs, gazestore.TimelineRecording{Timeline: timeline.String, Recording: recording.String})

			return nil
		},
	)

	if err != nil {
		return nil, observer.finishError(err)
	}

	observer.finishSuccess(len(pairs))

	return pairs, nil
}

// Participants returns every participant that occurs in at least one non-excluded slice, sorted.
func (e *Engine) Participants(ctx context.Context) ([]string, error) {
	return e.distinctNames(ctx, operationParticipants, func(s gazestore.Slice) string { return s.ParticipantName })
}

// TestNames returns every test that occurs in at least one non-excluded slice, sorted.
func (e *Engine) TestNames(ctx context.Context) ([]string, error) {
	return e.distinctNames(ctx, operationTestNames, func(s gazestore.Slice) string { return s.TestName })
}

func (e *Engine) distinctNames(ctx context.Context, operation string, pick func(gazestore.Slice) string) ([]string, error) {
	ctx, observer := e.startOperation(ctx, operation, nil)

	triples, err := e.triples(ctx, operation, "", nil)
	if err != nil {
		return nil, observer.finishError(err)
	}

	names := liveNames(triples, e.snapshot(), pick)
	observer.finishSuccess(len(names))

	return names, nil
}

// liveNames collects the non-blank names of all non-excluded triples, sorted and de-duplicated.
func liveNames(triples []gazestore.Slice, overlay gazestore.SliceSet, pick func(gazestore.Slice) string) []string {
	names := make([]string, 0)
	for _, s := range triples {
		if overlay.Contains(s) {
			continue
		}
		if name := pick(s); !isBlank(name) {
			names = append(names, name)
		}
	}

	slices.Sort(names)

	return slices.Clip(slices.Compact(names))
}

// Slices lists the distinct slices of a test, or of every test when testName is empty, optionally
// restricted to participants, each annotated with its exclusion status.
// Excluded slices stay in the listing so they can be re-enabled.
func (e *Engine) Slices(ctx context.Context, testName string, participants []string) ([]gazestore.SliceStatus, error) {
	filter := gazestore.BuildFilter().ForTest(testName).ForParticipants(participants...).Finalize()
	ctx, observer := e.startOperation(ctx, operationSlices, filterAttrs(filter))

	triples, err := e.triples(ctx, operationSlices, filter.TestName(), filter.Participants())
	if err != nil {
		return nil, observer.finishError(err)
	}

	statuses := gazestore.StatusOf(triples, e.snapshot())
	observer.finishSuccess(len(statuses))

	return statuses, nil
}

// RelationMaps relates tests and participants over all non-excluded slices.
// It is recomputed from the live overlay on every call.
func (e *Engine) RelationMaps(ctx context.Context) (gazestore.RelationMaps, error) {
	ctx, observer := e.startOperation(ctx, operationRelationMaps, nil)

	triples, err := e.triples(ctx, operationRelationMaps, "", nil)
	if err != nil {
		return gazestore.RelationMaps{}, observer.finishError(err)
	}

	maps := gazestore.BuildRelationMaps(triples, e.snapshot())
	observer.finishSuccess(len(maps.ParticipantsByTest))

	return maps, nil
}

// triples loads the distinct slices with non-blank test names, sorted by test, participant, recording.
func (e *Engine) triples(ctx context.Context, action, testName string, participants []string) ([]gazestore.Slice, error) {
	triples := make([]gazestore.Slice, 0)

	err := e.runQuery(ctx, action, e.selectTriples(testName, participants), func(rows adapters.DBRows) error {
		var test, recording, participant sql.NullString
		if err := rows.Scan(&test, &recording, &participant); err != nil {
			return err
		}

		if isBlank(test.String) {
			return nil
		}
		triples = append(triples, gazestore.S(test.String, recording.String, participant.String))

		return nil
	})

	if err != nil {
		return nil, err
	}

	// byte order regardless of the server collation
	gazestore.SortSlices(triples)

	return triples, nil
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}
