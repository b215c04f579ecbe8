// Package sqlengine provides the read-only query engine over the gaze sample store.
//
// The engine compiles a gazestore.Filter into a parameterized goqu query, applies the exclusion
// overlay on every read path, executes the query on a bounded connection pool, and shapes the
// raw rows into typed results (samples, box statistics, relation maps, search listings).
//
// Three database backends are supported, all through the same Engine:
//
//   - NewEngineFromSQLDB for a *sql.DB (SQLite via modernc.org/sqlite by default)
//   - NewEngineFromSQLX for a *sqlx.DB
//   - NewEngineFromPGXPool for a *pgxpool.Pool (postgres dialect by default)
//
// Example:
//
//	db, err := pool.OpenSQLite("gaze.db", pool.DefaultConfig())
//	store, err := overlay.Open(overlayPath)
//	engine, err := sqlengine.NewEngineFromSQLDB(db, store, sqlengine.WithLogger(slog.Default()))
//
//	filter := gazestore.BuildFilter().ForTest("A").ForParticipants("P1").Finalize()
//	stats, err := engine.BoxStats(ctx, filter)
//
// Every value supplied by a caller is bound as a query parameter; names containing quote
// characters are safe. Absent reference tables yield empty results instead of errors.
package sqlengine
