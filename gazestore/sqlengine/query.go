package sqlengine

import (
	"context"
	"errors"
	"slices"
	"time"

	"github.com/doug-martin/goqu/v9"
	"github.com/doug-martin/goqu/v9/exp"

	"github.com/AntonStoeckl/gaze-slices-go/gazestore"
	"github.com/AntonStoeckl/gaze-slices-go/gazestore/sqlengine/internal/adapters"
)

const (
	// sliceKeySeparator joins recording and participant into one comparable key.
	sliceKeySeparator = "\x1f"

	maxExcludedPerPredicate = 500
)

// rowScanner receives every row of a result set.
type rowScanner func(rows adapters.DBRows) error

// runQuery renders ds as a prepared statement, executes it on a pooled connection, and hands
// every row to scan. No partial result survives an error: callers discard what scan collected.
func (e *Engine) runQuery(ctx context.Context, action string, ds *goqu.SelectDataset, scan rowScanner) error {
	sqlQuery, args, toSQLErr := ds.Prepared(true).ToSQL()
	if toSQLErr != nil {
		e.logError(ctx, logMsgBuildQueryFailed, toSQLErr, logAttrAction, action)
		return errors.Join(gazestore.ErrBuildingQueryFailed, toSQLErr)
	}

	start := time.Now()
	rows, queryErr := e.db.Query(ctx, sqlQuery, args...)
	e.logQueryWithDuration(ctx, sqlQuery, action, time.Since(start))

	if queryErr != nil {
		e.logError(ctx, logMsgDBQueryFailed, queryErr, logAttrQuery, sqlQuery)
		return classifyQueryErr(queryErr)
	}
	defer e.closeRows(ctx, rows)

	for rows.Next() {
		if scanErr := scan(rows); scanErr != nil {
			e.logError(ctx, logMsgScanRowFailed, scanErr, logAttrAction, action)
			return errors.Join(gazestore.ErrScanningDBRowFailed, scanErr)
		}
	}

	if iterErr := rows.Err(); iterErr != nil {
		e.logError(ctx, logMsgRowsIterationFailed, iterErr, logAttrQuery, sqlQuery)
		return classifyQueryErr(iterErr)
	}

	return nil
}

// closeRows safely closes database rows and logs any errors.
func (e *Engine) closeRows(ctx context.Context, rows adapters.DBRows) {
	if closeErr := rows.Close(); closeErr != nil {
		e.logWarn(ctx, logMsgCloseRowsFailed, logAttrError, closeErr.Error())
	}
}

// requireTestName rejects a filter without test name before any query is built.
func (e *Engine) requireTestName(ctx context.Context, filter gazestore.Filter) error {
	if err := filter.RequireTestName(); err != nil {
		e.logWarn(ctx, logMsgMissingParameter, logAttrError, err.Error())
		return err
	}

	return nil
}

/***** Query Builder *****/

// sampleConditions returns the predicates for filter, including the exclusion of every overlay
// slice compatible with it. Only those slices enter the query, never the whole overlay.
func sampleConditions(filter gazestore.Filter, overlay gazestore.SliceSet) []exp.Expression {
	conditions := []exp.Expression{goqu.C(colTestName).Eq(filter.TestName())}

	if filter.HasParticipants() {
		conditions = append(conditions, goqu.C(colParticipant).In(filter.Participants()))
	}

	if filter.Timeline() != "" {
		conditions = append(conditions, goqu.C(colTimeline).Eq(filter.Timeline()))
	}

	if filter.Recording() != "" {
		conditions = append(conditions, goqu.C(colRecording).Eq(filter.Recording()))
	}

	if exclusion := overlayExclusion(overlay.CompatibleWith(filter)); exclusion != nil {
		conditions = append(conditions, exclusion)
	}

	return conditions
}

// overlayExclusion renders <recording> || sep || <participant> NOT IN (?, ...) over the excluded slices,
// split into chunks so neither the bound parameter count nor the expression depth grows with the overlay.
// The test name is already fixed by the filter. COALESCE keeps rows with NULL names in the result.
func overlayExclusion(excluded []gazestore.Slice) exp.Expression {
	if len(excluded) == 0 {
		return nil
	}

	key := goqu.L(
		"(COALESCE(?, '') || ? || COALESCE(?, ''))",
		goqu.C(colRecording),
		sliceKeySeparator,
		goqu.C(colParticipant),
	)

	predicates := make([]exp.Expression, 0, len(excluded)/maxExcludedPerPredicate+1)
	for chunk := range slices.Chunk(excluded, maxExcludedPerPredicate) {
		keys := make([]string, len(chunk))
		for i, s := range chunk {
			keys[i] = s.RecordingName + sliceKeySeparator + s.ParticipantName
		}

		predicates = append(predicates, key.NotIn(keys))
	}

	return goqu.And(predicates...)
}

// applyPaging applies limit and offset. Without a limit the offset is ignored.
func applyPaging(ds *goqu.SelectDataset, filter gazestore.Filter) *goqu.SelectDataset {
	if filter.Limit() == 0 {
		return ds
	}

	ds = ds.Limit(filter.Limit())

	if offset := filter.EffectiveOffset(); offset > 0 {
		ds = ds.Offset(offset)
	}

	return ds
}

func (e *Engine) selectSamples(filter gazestore.Filter, overlay gazestore.SliceSet) *goqu.SelectDataset {
	ds := e.builder().
		From(e.sampleTable).
		Select(colGazeX, colGazeY, colBox, colMedia, colTimeline, colParticipant, colRecording, colTimestamp, colTestName).
		Where(sampleConditions(filter, overlay)...).
		Order(goqu.C(colTimestamp).Asc())

	return applyPaging(ds, filter)
}

func (e *Engine) selectBoxCounts(filter gazestore.Filter, overlay gazestore.SliceSet) *goqu.SelectDataset {
	return e.builder().
		From(e.sampleTable).
		Select(goqu.C(colBox), goqu.COUNT(goqu.Star()).As(aliasCount)).
		Where(sampleConditions(filter.Unpaged(), overlay)...).
		GroupBy(goqu.C(colBox))
}

func (e *Engine) selectTimelineRecordings(filter gazestore.Filter, overlay gazestore.SliceSet) *goqu.SelectDataset {
	conditions := append(
		sampleConditions(filter, overlay),
		goqu.C(colTimeline).IsNotNull(),
		goqu.C(colRecording).IsNotNull(),
	)

	return e.builder().
		From(e.sampleTable).
		Select(colTimeline, colRecording).
		Distinct().
		Where(conditions...).
		Order(goqu.C(colTimeline).Asc(), goqu.C(colRecording).Asc())
}

// selectTriples returns the distinct slices, optionally restricted to a test and participants.
// The overlay is not applied here; callers drop or annotate excluded slices themselves.
func (e *Engine) selectTriples(testName string, participants []string) *goqu.SelectDataset {
	conditions := make([]exp.Expression, 0, 2)

	if testName != "" {
		conditions = append(conditions, goqu.C(colTestName).Eq(testName))
	}

	if len(participants) > 0 {
		conditions = append(conditions, goqu.C(colParticipant).In(participants))
	}

	return e.builder().
		From(e.sampleTable).
		Select(colTestName, colRecording, colParticipant).
		Distinct().
		Where(conditions...).
		Order(goqu.C(colTestName).Asc(), goqu.C(colParticipant).Asc(), goqu.C(colRecording).Asc())
}

func (e *Engine) selectDurations(testName string, participants []string) *goqu.SelectDataset {
	conditions := make([]exp.Expression, 0, 2)

	if testName != "" {
		conditions = append(conditions, goqu.C(colTestName).Eq(testName))
	}

	if len(participants) > 0 {
		conditions = append(conditions, goqu.C(colParticipant).In(participants))
	}

	return e.builder().
		From(e.durationTable).
		Select(colTestName, colRecording, colParticipant, colMediaName, colDurationSeconds).
		Where(conditions...)
}

// selectTableExists counts the tables named table through the dialect's catalog.
func (e *Engine) selectTableExists(table string) *goqu.SelectDataset {
	if e.dialect == DialectPostgres {
		return e.builder().
			From(goqu.S("information_schema").Table("tables")).
			Select(goqu.COUNT(goqu.Star())).
			Where(
				goqu.C("table_schema").Eq(goqu.L("current_schema()")),
				goqu.C("table_name").Eq(table),
			)
	}

	return e.builder().
		From("sqlite_master").
		Select(goqu.COUNT(goqu.Star())).
		Where(
			goqu.C("type").Eq("table"),
			goqu.C("name").Eq(table),
		)
}

func (e *Engine) selectAll(table string) *goqu.SelectDataset {
	return e.builder().From(table)
}
