package sqlengine

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres" // dialect registration
	_ "github.com/doug-martin/goqu/v9/dialect/sqlite3"  // dialect registration
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jmoiron/sqlx"

	"github.com/AntonStoeckl/gaze-slices-go/gazestore"
	"github.com/AntonStoeckl/gaze-slices-go/gazestore/sqlengine/internal/adapters"
)

const (
	// DialectSQLite is the goqu dialect for SQLite stores.
	DialectSQLite = "sqlite3"

	// DialectPostgres is the goqu dialect for PostgreSQL stores.
	DialectPostgres = "postgres"

	defaultSampleTableName   = "gaze_data"
	defaultCatalogTableName  = "test_catalog"
	defaultGroupTableName    = "test_group"
	defaultDurationTableName = "recordings"
	defaultAOITableName      = "aoi_map"
	defaultAcquireTimeout    = 5 * time.Second
)

// Table columns of the sample table.
const (
	colGazeX       = "gaze_point_x"
	colGazeY       = "gaze_point_y"
	colBox         = "box_name"
	colMedia       = "presented_media_name"
	colTimeline    = "timeline_name"
	colParticipant = "participant_name"
	colRecording   = "recording_name"
	colTimestamp   = "exact_time"
	colTestName    = "test_name"
)

// Columns of the duration and catalog tables.
const (
	colMediaName       = "media_name"
	colDurationSeconds = "duration_seconds"
	colImagePath       = "image_path"
	colImageName       = "image_name"
	colCatalogTimeline = "timeline"
	colWordWindows     = "word_windows_json"
	aliasCount         = "point_count"
)

// Engine executes overlay-aware read queries against the gaze sample store.
// It is safe for concurrent use; the only shared mutable state is the injected overlay.
type Engine struct {
	db               adapters.DBAdapter
	newAdapter       func(acquireTimeout time.Duration) adapters.DBAdapter
	overlay          gazestore.OverlayReader
	dialect          string
	sampleTable      string
	catalogTable     string
	durationTable    string
	aoiTable         string
	referenceTables  []string
	acquireTimeout   time.Duration
	assets           gazestore.AssetResolver
	logger           gazestore.Logger
	metricsCollector gazestore.MetricsCollector
	tracingCollector gazestore.TracingCollector
	contextualLogger gazestore.ContextualLogger
}

// NewEngineFromSQLDB creates a new Engine using a sql.DB with optional configuration.
// The dialect defaults to sqlite3.
func NewEngineFromSQLDB(db *sql.DB, overlay gazestore.OverlayReader, options ...Option) (*Engine, error) {
	if db == nil {
		return nil, gazestore.ErrNilDatabaseConnection
	}

	return newEngine(
		func(timeout time.Duration) adapters.DBAdapter { return adapters.NewSQLAdapter(db, timeout) },
		DialectSQLite,
		overlay,
		options,
	)
}

// NewEngineFromSQLX creates a new Engine using a sqlx.DB with optional configuration.
// The dialect defaults to sqlite3 unless the sqlx driver name is postgres.
func NewEngineFromSQLX(db *sqlx.DB, overlay gazestore.OverlayReader, options ...Option) (*Engine, error) {
	if db == nil {
		return nil, gazestore.ErrNilDatabaseConnection
	}

	dialect := DialectSQLite
	if db.DriverName() == "postgres" || db.DriverName() == "pgx" {
		dialect = DialectPostgres
	}

	return newEngine(
		func(timeout time.Duration) adapters.DBAdapter { return adapters.NewSQLXAdapter(db, timeout) },
		dialect,
		overlay,
		options,
	)
}

// NewEngineFromPGXPool creates a new Engine using a pgx Pool with optional configuration.
// The dialect defaults to postgres.
func NewEngineFromPGXPool(db *pgxpool.Pool, overlay gazestore.OverlayReader, options ...Option) (*Engine, error) {
	if db == nil {
		return nil, gazestore.ErrNilDatabaseConnection
	}

	return newEngine(
		func(timeout time.Duration) adapters.DBAdapter { return adapters.NewPGXAdapter(db, timeout) },
		DialectPostgres,
		overlay,
		options,
	)
}

func newEngine(
	newAdapter func(time.Duration) adapters.DBAdapter,
	dialect string,
	overlay gazestore.OverlayReader,
	options []Option,
) (*Engine, error) {

	if overlay == nil {
		return nil, gazestore.ErrNilOverlay
	}

	e := &Engine{
		newAdapter:      newAdapter,
		overlay:         overlay,
		dialect:         dialect,
		sampleTable:     defaultSampleTableName,
		catalogTable:    defaultCatalogTableName,
		durationTable:   defaultDurationTableName,
		aoiTable:        defaultAOITableName,
		referenceTables: []string{defaultCatalogTableName, defaultGroupTableName, defaultDurationTableName},
		acquireTimeout:  defaultAcquireTimeout,
	}

	for _, option := range options {
		if err := option(e); err != nil {
			return nil, err
		}
	}

	e.db = e.newAdapter(e.acquireTimeout)

	return e, nil
}

// Dialect returns the goqu dialect the engine builds queries for.
func (e *Engine) Dialect() string {
	return e.dialect
}

// builder returns a goqu dialect wrapper that always binds values as parameters.
func (e *Engine) builder() goqu.DialectWrapper {
	return goqu.Dialect(e.dialect)
}

// snapshot returns the current overlay snapshot, taken once per operation.
func (e *Engine) snapshot() gazestore.SliceSet {
	return e.overlay.Get()
}

// classifyQueryErr wraps a driver error with the matching sentinel.
func classifyQueryErr(err error) error {
	if errors.Is(err, adapters.ErrAcquireTimeout) {
		return errors.Join(gazestore.ErrConnectionPoolExhausted, err)
	}

	return errors.Join(gazestore.ErrQueryExecutionFailed, err)
}

// errorType returns a short label for metrics and tracing.
func errorType(err error) string {
	switch {
	case errors.Is(err, gazestore.ErrMissingParameter):
		return errorTypeMissingParameter
	case errors.Is(err, gazestore.ErrConnectionPoolExhausted):
		return errorTypePoolExhausted
	case errors.Is(err, gazestore.ErrBuildingQueryFailed):
		return errorTypeBuildQuery
	case errors.Is(err, gazestore.ErrScanningDBRowFailed):
		return errorTypeRowScan
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return errorTypeCanceled
	default:
		return errorTypeDatabaseQuery
	}
}
