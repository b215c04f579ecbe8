// Package postgreswrapper runs engine tests against a live Postgres through either adapter,
// selected with the ADAPTER_TYPE environment variable (pgxpool, the default, or sqlx).
package postgreswrapper

import (
	"context"
	"fmt"
	"os"
	"strings"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/gaze-slices-go/gazestore"
	"github.com/AntonStoeckl/gaze-slices-go/gazestore/pool"
	"github.com/AntonStoeckl/gaze-slices-go/gazestore/sqlengine"
	"github.com/AntonStoeckl/gaze-slices-go/testutil/fixtures"
)

const (
	typePGXPool = "pgxpool"
	typeSQLX    = "sqlx"
)

// Wrapper abstracts over the pool types an Engine can be built from.
type Wrapper interface {
	GetEngine() *sqlengine.Engine
	Close()
}

// PGXPoolWrapper wraps a pgxpool-based engine.
type PGXPoolWrapper struct {
	pool   *pgxpool.Pool
	engine *sqlengine.Engine
}

func (w *PGXPoolWrapper) GetEngine() *sqlengine.Engine {
	return w.engine
}

func (w *PGXPoolWrapper) Close() {
	w.pool.Close()
}

// SQLXWrapper wraps an sqlx-based engine on the lib/pq driver.
type SQLXWrapper struct {
	db     *sqlx.DB
	engine *sqlengine.Engine
}

func (w *SQLXWrapper) GetEngine() *sqlengine.Engine {
	return w.engine
}

func (w *SQLXWrapper) Close() {
	_ = w.db.Close()
}

// CreateWrapper builds an engine on store.URL with the adapter named by ADAPTER_TYPE.
// The wrapper is closed on test cleanup.
func CreateWrapper(
	t testing.TB,
	store *fixtures.Store,
	overlay gazestore.OverlayReader,
	options ...sqlengine.Option,
) Wrapper {

	t.Helper()

	var wrapper Wrapper

	switch adapterType := strings.ToLower(os.Getenv("ADAPTER_TYPE")); adapterType {
	case typePGXPool, "":
		connPool, err := pool.OpenPostgres(context.Background(), store.URL, pool.DefaultConfig())
		require.NoError(t, err, "error connecting to DB pool in test setup")

		engine, err := sqlengine.NewEngineFromPGXPool(connPool, overlay, options...)
		require.NoError(t, err)

		wrapper = &PGXPoolWrapper{pool: connPool, engine: engine}

	case typeSQLX:
		db, err := pool.OpenPostgresSQLX(store.URL, pool.DefaultConfig())
		require.NoError(t, err, "error connecting to DB in test setup")

		engine, err := sqlengine.NewEngineFromSQLX(db, overlay, options...)
		require.NoError(t, err)

		wrapper = &SQLXWrapper{db: db, engine: engine}

	default:
		panic(fmt.Sprintf("unsupported wrapper type from env: %s", adapterType))
	}

	t.Cleanup(wrapper.Close)

	return wrapper
}
