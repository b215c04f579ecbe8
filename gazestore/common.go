package gazestore

import (
	"errors"
)

var (
	// ErrNilDatabaseConnection is returned when a nil pool or connection is supplied to an engine constructor.
	ErrNilDatabaseConnection = errors.New("database connection must not be nil")

	// ErrNilOverlay is returned when an engine is constructed without an exclusion overlay.
	ErrNilOverlay = errors.New("exclusion overlay must not be nil")

	// ErrEmptyTableName is returned when an empty table name is supplied.
	ErrEmptyTableName = errors.New("empty table name supplied")

	// ErrUnsupportedDialect is returned when a SQL dialect other than sqlite3 or postgres is requested.
	ErrUnsupportedDialect = errors.New("unsupported sql dialect")

	// ErrMissingParameter is returned when a required filter field is absent. No query is executed.
	ErrMissingParameter = errors.New("missing required parameter")

	// ErrConnectionPoolExhausted is returned when no pooled connection became available within the acquire timeout.
	ErrConnectionPoolExhausted = errors.New("connection pool exhausted")

	// ErrBuildingQueryFailed is returned when a query could not be assembled.
	ErrBuildingQueryFailed = errors.New("building the query failed")

	// ErrQueryExecutionFailed is returned when the underlying store reports an error.
	ErrQueryExecutionFailed = errors.New("query execution failed")

	// ErrScanningDBRowFailed is returned when a result row could not be scanned.
	ErrScanningDBRowFailed = errors.New("scanning db row failed")

	// ErrPersistFailed is returned when the exclusion overlay could not be written to durable storage.
	ErrPersistFailed = errors.New("persisting the exclusion overlay failed")

	// ErrNoAssetResolver is returned when an image is requested but no AssetResolver was configured.
	ErrNoAssetResolver = errors.New("no asset resolver configured")

	// ErrAssetNotFound is returned by an AssetResolver when the requested asset does not exist.
	ErrAssetNotFound = errors.New("asset not found")
)

// OverlayReader provides point-in-time snapshots of the exclusion overlay.
// The overlay.Store implements it; tests may substitute any isolated instance.
type OverlayReader interface {
	Get() SliceSet
}

// StaticOverlay is an OverlayReader that always returns the same SliceSet.
type StaticOverlay SliceSet

// Get returns the wrapped SliceSet.
func (o StaticOverlay) Get() SliceSet {
	return SliceSet(o)
}
