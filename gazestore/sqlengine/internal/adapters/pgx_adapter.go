package adapters

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PGXAdapter implements DBAdapter for pgxpool.Pool.
type PGXAdapter struct {
	pool           *pgxpool.Pool
	acquireTimeout time.Duration
}

// NewPGXAdapter creates a new PGX adapter.
func NewPGXAdapter(pool *pgxpool.Pool, acquireTimeout time.Duration) *PGXAdapter {
	return &PGXAdapter{pool: pool, acquireTimeout: acquireTimeout}
}

// Query acquires a pooled connection within the acquire timeout and runs the query on it.
func (p *PGXAdapter) Query(ctx context.Context, query string, args ...any) (DBRows, error) {
	acqCtx, cancel := acquireContext(ctx, p.acquireTimeout)
	conn, err := p.pool.Acquire(acqCtx)
	cancel()

	if err != nil {
		return nil, classifyAcquireErr(ctx, err)
	}

	rows, err := conn.Query(ctx, query, args...)
	if err != nil {
		conn.Release()
		return nil, err
	}

	return &pgxRows{rows: rows, conn: conn}, nil
}

// pgxRows wraps pgx.Rows to implement the DBRows interface.
type pgxRows struct {
	rows pgx.Rows
	conn *pgxpool.Conn
}

// Next advances to the next row.
func (p *pgxRows) Next() bool {
	return p.rows.Next()
}

// Scan copies row values into provided destinations.
func (p *pgxRows) Scan(dest ...any) error {
	return p.rows.Scan(dest...)
}

// Columns returns the result column names.
func (p *pgxRows) Columns() ([]string, error) {
	fields := p.rows.FieldDescriptions()
	names := make([]string, len(fields))
	for i, f := range fields {
		names[i] = f.Name
	}

	return names, nil
}

func (p *pgxRows) Err() error {
	return p.rows.Err()
}

// Close closes the rows iterator and returns the connection to the pool.
func (p *pgxRows) Close() error {
	p.rows.Close()
	p.conn.Release()

	return nil
}
