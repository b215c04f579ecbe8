package adapters

import (
	"context"
	"errors"
	"time"
)

// ErrAcquireTimeout is returned when no pooled connection became available within the acquire timeout.
var ErrAcquireTimeout = errors.New("timed out acquiring a pooled connection")

// DBAdapter defines the interface for the read operations needed by the query engine.
type DBAdapter interface {
	Query(ctx context.Context, query string, args ...any) (DBRows, error)
}

// DBRows defines the interface for query result rows.
type DBRows interface {
	Next() bool
	Scan(dest ...any) error
	Columns() ([]string, error)
	Err() error
	Close() error
}

// acquireContext derives the context used for connection acquisition only.
// A non-positive timeout disables the bound.
func acquireContext(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		return context.WithCancel(ctx)
	}

	return context.WithTimeout(ctx, timeout)
}

// classifyAcquireErr maps an acquisition deadline to ErrAcquireTimeout,
// unless the caller's own context is the one that ended.
func classifyAcquireErr(ctx context.Context, err error) error {
	if errors.Is(err, context.DeadlineExceeded) && ctx.Err() == nil {
		return errors.Join(ErrAcquireTimeout, err)
	}

	return err
}
