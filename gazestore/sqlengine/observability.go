package sqlengine

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/AntonStoeckl/gaze-slices-go/gazestore"
)

const (
	logMsgBuildQueryFailed     = "failed to build query"
	logMsgDBQueryFailed        = "database query execution failed"
	logMsgCloseRowsFailed      = "failed to close database rows"
	logMsgScanRowFailed        = "failed to scan database row"
	logMsgRowsIterationFailed  = "database rows iteration failed"
	logMsgMissingParameter     = "rejected query with missing parameter"
	logMsgTableAbsent          = "reference table absent, returning empty result"
	logMsgMalformedWordWindows = "malformed word windows json, returning empty result"
	logMsgAssetNotFound        = "image asset not found"
	logMsgAssetResolveFailed   = "resolving image asset failed"
	logMsgSQLExecuted          = "executed sql for: "
	logMsgOperation            = "gazestore operation: "
	logAttrError               = "error"
	logAttrQuery               = "query"
	logAttrAction              = "action"
	logAttrTable               = "table"
	logAttrTestName            = "test_name"
	logAttrAssetPath           = "asset_path"
	logAttrRowCount            = "row_count"
	logAttrDurationMS          = "duration_ms"
)

const (
	metricQueryDuration  = "gazestore_query_duration_seconds"
	metricRowsReturned   = "gazestore_rows_returned"
	metricDatabaseErrors = "gazestore_database_errors_total"
	metricLabelStatus    = "status"
	spanNamePrefix       = "gazestore."
	spanAttrOperation    = "operation"
	spanAttrTestName     = "test_name"
	spanAttrParticipants = "participants"
	spanAttrTimeline     = "timeline"
	spanAttrRecording    = "recording"
	spanAttrRowCount     = "row_count"
	spanAttrErrorType    = "error_type"
	spanAttrDurationMS   = "duration_ms"
	statusSuccess        = "success"
	statusError          = "error"
)

const (
	errorTypeMissingParameter = "missing_parameter"
	errorTypePoolExhausted    = "pool_exhausted"
	errorTypeBuildQuery       = "build_query"
	errorTypeRowScan          = "row_scan"
	errorTypeCanceled         = "canceled"
	errorTypeDatabaseQuery    = "database_query"
)

const (
	operationParticipants       = "participants"
	operationTestNames          = "test_names"
	operationTimelineRecordings = "timeline_recordings"
	operationGazeSamples        = "gaze_samples"
	operationBoxStats           = "box_stats"
	operationSlices             = "slices"
	operationRelationMaps       = "relation_maps"
	operationReferenceTable     = "reference_table"
	operationBootstrap          = "bootstrap"
	operationSearchTests        = "search_tests"
	operationSearchSlices       = "search_slices"
	operationTestImage          = "test_image"
	operationWordWindows        = "word_windows"
	operationAOIMap             = "aoi_map"
	operationImageByPath        = "image_by_path"
)

// logQueryWithDuration logs SQL queries with execution time at debug level if a logger is configured.
func (e *Engine) logQueryWithDuration(
	ctx context.Context,
	sqlQuery string,
	action string,
	duration time.Duration,
) {

	if e.logger != nil {
		e.logger.Debug(logMsgSQLExecuted+action, logAttrDurationMS, toMilliseconds(duration), logAttrQuery, sqlQuery)
	}

	if e.contextualLogger != nil {
		e.contextualLogger.DebugContext(ctx, logMsgSQLExecuted+action, logAttrDurationMS, toMilliseconds(duration), logAttrQuery, sqlQuery)
	}
}

// logOperation logs operational information at info level if a logger is configured.
func (e *Engine) logOperation(ctx context.Context, action string, args ...any) {
	if e.logger != nil {
		e.logger.Info(logMsgOperation+action, args...)
	}

	if e.contextualLogger != nil {
		e.contextualLogger.InfoContext(ctx, logMsgOperation+action, args...)
	}
}

// logWarn logs non-critical issues at warn level if a logger is configured.
func (e *Engine) logWarn(ctx context.Context, message string, args ...any) {
	if e.logger != nil {
		e.logger.Warn(message, args...)
	}

	if e.contextualLogger != nil {
		e.contextualLogger.WarnContext(ctx, message, args...)
	}
}

// logError logs error information at the error level if a logger is configured.
func (e *Engine) logError(
	ctx context.Context,
	message string,
	err error,
	args ...any,
) {

	if e.logger == nil && e.contextualLogger == nil {
		return
	}

	allArgs := []any{logAttrError, err.Error()}
	allArgs = append(allArgs, args...)

	if e.logger != nil {
		e.logger.Error(message, allArgs...)
	}

	if e.contextualLogger != nil {
		e.contextualLogger.ErrorContext(ctx, message, allArgs...)
	}
}

// toMilliseconds converts a time.Duration to float64 milliseconds with 3 decimal places.
func toMilliseconds(d time.Duration) float64 {
	return math.Round(float64(d.Nanoseconds())/1e6*1000) / 1000
}

// filterAttrs renders a filter as span attributes.
func filterAttrs(filter gazestore.Filter) map[string]string {
	attrs := map[string]string{spanAttrTestName: filter.TestName()}

	if filter.HasParticipants() {
		attrs[spanAttrParticipants] = strings.Join(filter.Participants(), ",")
	}

	if filter.Timeline() != "" {
		attrs[spanAttrTimeline] = filter.Timeline()
	}

	if filter.Recording() != "" {
		attrs[spanAttrRecording] = filter.Recording()
	}

	return attrs
}

// === Operation Observer Pattern ===
// One observer per public operation bundles its span, its metrics, and its summary log line.

type operationObserver struct {
	e         *Engine
	ctx       context.Context
	operation string
	span      gazestore.SpanContext
	start     time.Time
}

// startOperation opens the span for an operation and starts its clock.
func (e *Engine) startOperation(
	ctx context.Context,
	operation string,
	attrs map[string]string,
) (context.Context, *operationObserver) {

	if attrs == nil {
		attrs = make(map[string]string)
	}
	attrs[spanAttrOperation] = operation

	var span gazestore.SpanContext
	if e.tracingCollector != nil {
		ctx, span = e.tracingCollector.StartSpan(ctx, spanNamePrefix+operation, attrs)
	}

	return ctx, &operationObserver{
		e:         e,
		ctx:       ctx,
		operation: operation,
		span:      span,
		start:     time.Now(),
	}
}

// finishSuccess records the duration and row count of a successful operation.
func (o *operationObserver) finishSuccess(rowCount int) {
	duration := time.Since(o.start)

	if mc := o.e.metricsCollector; mc != nil {
		labels := map[string]string{spanAttrOperation: o.operation, metricLabelStatus: statusSuccess}
		mc.RecordDuration(metricQueryDuration, duration, labels)
		mc.RecordValue(metricRowsReturned, float64(rowCount), labels)
	}

	if o.span != nil && o.e.tracingCollector != nil {
		o.e.tracingCollector.FinishSpan(o.span, statusSuccess, map[string]string{
			spanAttrRowCount:   fmt.Sprintf("%d", rowCount),
			spanAttrDurationMS: fmt.Sprintf("%.2f", toMilliseconds(duration)),
		})
	}

	o.e.logOperation(
		o.ctx,
		o.operation,
		logAttrRowCount, rowCount,
		logAttrDurationMS, toMilliseconds(duration),
	)
}

// finishError records a failed operation and hands the error back to the caller.
func (o *operationObserver) finishError(err error) error {
	duration := time.Since(o.start)
	kind := errorType(err)

	if mc := o.e.metricsCollector; mc != nil {
		mc.RecordDuration(metricQueryDuration, duration, map[string]string{
			spanAttrOperation: o.operation,
			metricLabelStatus: statusError,
		})
		mc.IncrementCounter(metricDatabaseErrors, map[string]string{
			spanAttrOperation: o.operation,
			metricLabelStatus: statusError,
			spanAttrErrorType: kind,
		})
	}

	if o.span != nil && o.e.tracingCollector != nil {
		o.e.tracingCollector.FinishSpan(o.span, statusError, map[string]string{
			spanAttrErrorType:  kind,
			spanAttrDurationMS: fmt.Sprintf("%.2f", toMilliseconds(duration)),
		})
	}

	return err
}
