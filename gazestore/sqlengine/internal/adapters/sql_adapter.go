package adapters

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

// SQLAdapter implements DBAdapter for sql.DB.
type SQLAdapter struct {
	db             *sql.DB
	acquireTimeout time.Duration
}

// NewSQLAdapter creates a new SQL adapter.
func NewSQLAdapter(db *sql.DB, acquireTimeout time.Duration) *SQLAdapter {
	return &SQLAdapter{db: db, acquireTimeout: acquireTimeout}
}

// Query acquires a dedicated connection within the acquire timeout and runs the query on it.
func (s *SQLAdapter) Query(ctx context.Context, query string, args ...any) (DBRows, error) {
	acqCtx, cancel := acquireContext(ctx, s.acquireTimeout)
	conn, err := s.db.Conn(acqCtx)
	cancel()

	if err != nil {
		return nil, classifyAcquireErr(ctx, err)
	}

	rows, err := conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.Join(err, conn.Close())
	}

	return &stdRows{rows: rows, release: conn.Close}, nil
}
