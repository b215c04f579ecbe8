package sqlengine

import (
	"errors"
	"strings"
	"time"

	"github.com/AntonStoeckl/gaze-slices-go/gazestore"
)

// Option defines a functional option for configuring an Engine.
type Option func(*Engine) error

// WithTableName sets the sample table name for the Engine.
func WithTableName(tableName string) Option {
	return func(e *Engine) error {
		if strings.TrimSpace(tableName) == "" {
			return gazestore.ErrEmptyTableName
		}

		e.sampleTable = tableName

		return nil
	}
}

// WithCatalogTable sets the test catalog table used by search, image, and word window lookups.
func WithCatalogTable(tableName string) Option {
	return func(e *Engine) error {
		if strings.TrimSpace(tableName) == "" {
			return gazestore.ErrEmptyTableName
		}

		e.catalogTable = tableName

		return nil
	}
}

// WithDurationTable sets the per-media duration table used by search.
func WithDurationTable(tableName string) Option {
	return func(e *Engine) error {
		if strings.TrimSpace(tableName) == "" {
			return gazestore.ErrEmptyTableName
		}

		e.durationTable = tableName

		return nil
	}
}

// WithAOITable sets the area-of-interest table used by AOIMap and Bootstrap.
func WithAOITable(tableName string) Option {
	return func(e *Engine) error {
		if strings.TrimSpace(tableName) == "" {
			return gazestore.ErrEmptyTableName
		}

		e.aoiTable = tableName

		return nil
	}
}

// WithReferenceTables sets the tables loaded by Bootstrap, in order.
// The first three populate TestCatalog, TestGroup, and Recordings; any further table is ignored.
func WithReferenceTables(catalog, group, recordings string) Option {
	return func(e *Engine) error {
		for _, name := range []string{catalog, group, recordings} {
			if strings.TrimSpace(name) == "" {
				return gazestore.ErrEmptyTableName
			}
		}

		e.referenceTables = []string{catalog, group, recordings}

		return nil
	}
}

// WithDialect selects the goqu dialect: DialectSQLite or DialectPostgres.
func WithDialect(dialect string) Option {
	return func(e *Engine) error {
		switch dialect {
		case DialectSQLite, DialectPostgres:
			e.dialect = dialect
			return nil
		default:
			return errors.Join(gazestore.ErrUnsupportedDialect, errors.New(dialect))
		}
	}
}

// WithAcquireTimeout bounds how long a query waits for a pooled connection.
// When it elapses the query fails with gazestore.ErrConnectionPoolExhausted.
func WithAcquireTimeout(timeout time.Duration) Option {
	return func(e *Engine) error {
		if timeout <= 0 {
			return errors.New("acquire timeout must be positive")
		}

		e.acquireTimeout = timeout

		return nil
	}
}

// WithAssetResolver sets the resolver TestImage reads image bytes from.
func WithAssetResolver(resolver gazestore.AssetResolver) Option {
	return func(e *Engine) error {
		e.assets = resolver
		return nil
	}
}

// WithLogger sets the logger for the Engine.
// The logger will receive messages at different levels based on the logger's configured level:
//
// Debug level: SQL queries with execution timing (development use)
// Info level: Row counts and durations per operation (production-safe)
// Warn level: Non-critical issues like cleanup failures or malformed catalog data
// Error level: Critical failures that cause operation failures.
func WithLogger(logger gazestore.Logger) Option {
	return func(e *Engine) error {
		e.logger = logger
		return nil
	}
}

// WithMetrics sets the metrics collector for the Engine.
// It receives query durations, returned row counts, and database error counts.
func WithMetrics(collector gazestore.MetricsCollector) Option {
	return func(e *Engine) error {
		e.metricsCollector = collector
		return nil
	}
}

// WithTracing sets the tracing collector for the Engine.
// Every public operation runs in its own span.
func WithTracing(collector gazestore.TracingCollector) Option {
	return func(e *Engine) error {
		e.tracingCollector = collector
		return nil
	}
}

// WithContextualLogger sets the contextual logger for the Engine.
// The contextual logger will receive log messages with context information including
// automatic trace/span correlation when tracing is enabled.
func WithContextualLogger(logger gazestore.ContextualLogger) Option {
	return func(e *Engine) error {
		e.contextualLogger = logger
		return nil
	}
}
