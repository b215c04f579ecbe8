package sqlengine

import (
	"context"
	"database/sql"

	"github.com/AntonStoeckl/gaze-slices-go/gazestore"
	"github.com/AntonStoeckl/gaze-slices-go/gazestore/sqlengine/internal/adapters"
)

// SearchTests returns one summary row per test: catalog metadata joined with the
// duration aggregates of its non-excluded slices. Tests known to only one side still appear.
func (e *Engine) SearchTests(ctx context.Context) ([]gazestore.SearchTestRow, error) {
	ctx, observer := e.startOperation(ctx, operationSearchTests, nil)

	catalog, durations, err := e.searchInputs(ctx, "", nil)
	if err != nil {
		return nil, observer.finishError(err)
	}

	rows := gazestore.AggregateSearchTests(catalog, durations, e.snapshot())
	observer.finishSuccess(len(rows))

	return rows, nil
}

// SearchSlices returns one row per slice of the duration table, optionally restricted to a test
// and participants, joined with the catalog and annotated with its exclusion status.
func (e *Engine) SearchSlices(ctx context.Context, testName string, participants []string) ([]gazestore.SearchSliceRow, error) {
	filter := gazestore.BuildFilter().ForTest(testName).ForParticipants(participants...).Finalize()
	ctx, observer := e.startOperation(ctx, operationSearchSlices, filterAttrs(filter))

	catalog, durations, err := e.searchInputs(ctx, filter.TestName(), filter.Participants())
	if err != nil {
		return nil, observer.finishError(err)
	}

	rows := gazestore.BuildSearchSliceRows(catalog, durations, e.snapshot())
	observer.finishSuccess(len(rows))

	return rows, nil
}

func (e *Engine) searchInputs(
	ctx context.Context,
	testName string,
	participants []string,
) ([]gazestore.CatalogEntry, []gazestore.SliceDurations, error) {

	catalogRows, err := e.referenceRows(ctx, e.catalogTable)
	if err != nil {
		return nil, nil, err
	}

	catalog := make([]gazestore.CatalogEntry, 0, len(catalogRows))
	for _, row := range catalogRows {
		catalog = append(catalog, gazestore.CatalogEntryFromRow(row))
	}

	durations, err := e.sliceDurations(ctx, testName, participants)
	if err != nil {
		return nil, nil, err
	}

	return catalog, durations, nil
}

// sliceDurations sums the MP4 and PNG durations per slice of the duration table.
// Media of any other kind is ignored. An absent duration table yields no durations.
func (e *Engine) sliceDurations(ctx context.Context, testName string, participants []string) ([]gazestore.SliceDurations, error) {
	exists, err := e.tableExists(ctx, e.durationTable)
	if err != nil {
		return nil, err
	}

	if !exists {
		e.logWarn(ctx, logMsgTableAbsent, logAttrTable, e.durationTable)
		return make([]gazestore.SliceDurations, 0), nil
	}

	bySlice := make(map[gazestore.Slice]*gazestore.SliceDurations)
	order := make([]gazestore.Slice, 0)

	err = e.runQuery(ctx, operationSearchSlices, e.selectDurations(testName, participants), func(rows adapters.DBRows) error {
		var test, recording, participant, media sql.NullString
		var seconds sql.NullFloat64
		if err := rows.Scan(&test, &recording, &participant, &media, &seconds); err != nil {
			return err
		}

		kind := gazestore.MediaKindOf(media.String)
		if test.String == "" || kind == gazestore.MediaOther {
			return nil
		}

		slice := gazestore.S(test.String, recording.String, participant.String)
		d, seen := bySlice[slice]
		if !seen {
			d = &gazestore.SliceDurations{Slice: slice}
			bySlice[slice] = d
			order = append(order, slice)
		}

		switch kind {
		case gazestore.MediaMP4:
			d.MP4Rows++
			d.MP4Seconds += seconds.Float64
		case gazestore.MediaPNG:
			d.PNGRows++
			d.PNGSeconds += seconds.Float64
		}

		return nil
	})

	if err != nil {
		return nil, err
	}

	out := make([]gazestore.SliceDurations, 0, len(order))
	for _, s := range order {
		out = append(out, *bySlice[s])
	}

	return out, nil
}
