package adapters

import (
	"context"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
)

// SQLXAdapter implements DBAdapter for sqlx.DB.
type SQLXAdapter struct {
	db             *sqlx.DB
	acquireTimeout time.Duration
}

// NewSQLXAdapter creates a new SQLX adapter.
func NewSQLXAdapter(db *sqlx.DB, acquireTimeout time.Duration) *SQLXAdapter {
	return &SQLXAdapter{db: db, acquireTimeout: acquireTimeout}
}

// Query acquires a dedicated connection within the acquire timeout and runs the query on it.
func (s *SQLXAdapter) Query(ctx context.Context, query string, args ...any) (DBRows, error) {
	acqCtx, cancel := acquireContext(ctx, s.acquireTimeout)
	conn, err := s.db.Connx(acqCtx)
	cancel()

	if err != nil {
		return nil, classifyAcquireErr(ctx, err)
	}

	rows, err := conn.QueryxContext(ctx, query, args...)
	if err != nil {
		return nil, errors.Join(err, conn.Close())
	}

	return &stdRows{rows: rows.Rows, release: conn.Close}, nil
}
