package adapters

import (
	"database/sql"
	"errors"
)

// stdRows wraps standard library sql.Rows and releases the dedicated connection on Close.
type stdRows struct {
	rows    *sql.Rows
	release func() error
}

func (s *stdRows) Next() bool {
	return s.rows.Next()
}

func (s *stdRows) Scan(dest ...any) error {
	return s.rows.Scan(dest...)
}

func (s *stdRows) Columns() ([]string, error) {
	return s.rows.Columns()
}

func (s *stdRows) Err() error {
	return s.rows.Err()
}

func (s *stdRows) Close() error {
	return errors.Join(s.rows.Close(), s.release())
}
