// Package adapters provide read-only database adapter implementations for the gaze query engine.
//
// This package implements the adapter pattern to support multiple database libraries:
// pgxpool.Pool, sql.DB, and sqlx.DB. All adapters provide equivalent functionality through
// a common DBAdapter interface.
//
// Every query first acquires a dedicated connection under its own acquisition deadline.
// When that deadline fires while the caller's context is still alive, the adapter returns
// ErrAcquireTimeout. The connection goes back to the pool when the returned rows are closed.
package adapters
