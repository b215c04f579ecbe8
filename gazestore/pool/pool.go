// Package pool opens bounded, read-only connection pools for the gaze query engine.
//
// The sizing knobs are shared by all three backends: a modernc SQLite file opened with
// query_only, a pgx pool, and an sqlx pool on lib/pq. Both Postgres variants run every
// session with default_transaction_read_only.
package pool

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/url"
	"os"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"  // postgres driver for sqlx
	_ "modernc.org/sqlite" // sqlite driver
)

const (
	defaultMaxConnections   = int32(8)
	defaultMinConnections   = int32(0)
	defaultMaxConnLifetime  = time.Hour
	defaultMaxConnIdleTime  = time.Minute * 5
	defaultAcquireTimeout   = time.Second * 5
	defaultConnectTimeout   = time.Second * 5
	defaultBusyTimeoutMS    = 5000
	driverSQLite            = "sqlite"
	driverPostgres          = "postgres"
	paramReadOnly           = "default_transaction_read_only"
	paramReadOnlyValue      = "on"
	paramConnectTimeout     = "connect_timeout"
	connectTimeoutSecondsPQ = "5"
)

// ErrDatabaseFileNotFound is returned when the SQLite file to open does not exist.
var ErrDatabaseFileNotFound = errors.New("database file not found")

// Config bounds a connection pool.
type Config struct {
	MaxConns        int32
	MinConns        int32
	MaxConnLifetime time.Duration
	MaxConnIdleTime time.Duration
	AcquireTimeout  time.Duration
}

// DefaultConfig returns the default pool bounds.
func DefaultConfig() Config {
	return Config{
		MaxConns:        defaultMaxConnections,
		MinConns:        defaultMinConnections,
		MaxConnLifetime: defaultMaxConnLifetime,
		MaxConnIdleTime: defaultMaxConnIdleTime,
		AcquireTimeout:  defaultAcquireTimeout,
	}
}

// withDefaults fills every zero field from DefaultConfig.
func (c Config) withDefaults() Config {
	d := DefaultConfig()

	if c.MaxConns <= 0 {
		c.MaxConns = d.MaxConns
	}

	if c.MinConns < 0 || c.MinConns > c.MaxConns {
		c.MinConns = d.MinConns
	}

	if c.MaxConnLifetime <= 0 {
		c.MaxConnLifetime = d.MaxConnLifetime
	}

	if c.MaxConnIdleTime <= 0 {
		c.MaxConnIdleTime = d.MaxConnIdleTime
	}

	if c.AcquireTimeout <= 0 {
		c.AcquireTimeout = d.AcquireTimeout
	}

	return c
}

// Normalized returns the config with defaults applied to every unset field.
func (c Config) Normalized() Config {
	return c.withDefaults()
}

// SQLiteDSN returns the modernc DSN that opens path read-only.
func SQLiteDSN(path string) string {
	return fmt.Sprintf("%s?_pragma=query_only(1)&_pragma=busy_timeout(%d)", path, defaultBusyTimeoutMS)
}

// OpenSQLite opens the SQLite file at path read-only and bounds the pool with cfg.
// The file must exist; the driver would otherwise create an empty one.
func OpenSQLite(path string, cfg Config) (*sql.DB, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, errors.Join(ErrDatabaseFileNotFound, err)
	}

	db, err := sql.Open(driverSQLite, SQLiteDSN(path))
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	applySQLBounds(db, cfg.withDefaults())

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}

	return db, nil
}

// OpenPostgres creates a pgx pool for databaseURL bounded by cfg.
func OpenPostgres(ctx context.Context, databaseURL string, cfg Config) (*pgxpool.Pool, error) {
	dbConfig, err := PGXPoolConfig(databaseURL, cfg)
	if err != nil {
		return nil, err
	}

	p, err := pgxpool.NewWithConfig(ctx, dbConfig)
	if err != nil {
		return nil, fmt.Errorf("create pgx pool: %w", err)
	}

	return p, nil
}

// PGXPoolConfig parses databaseURL into a read-only pgxpool.Config bounded by cfg.
func PGXPoolConfig(databaseURL string, cfg Config) (*pgxpool.Config, error) {
	cfg = cfg.withDefaults()

	dbConfig, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}

	dbConfig.MaxConns = cfg.MaxConns
	dbConfig.MinConns = cfg.MinConns
	dbConfig.MaxConnLifetime = cfg.MaxConnLifetime
	dbConfig.MaxConnIdleTime = cfg.MaxConnIdleTime
	dbConfig.HealthCheckPeriod = time.Minute
	dbConfig.ConnConfig.ConnectTimeout = defaultConnectTimeout
	dbConfig.ConnConfig.RuntimeParams[paramReadOnly] = paramReadOnlyValue

	return dbConfig, nil
}

// OpenPostgresSQLX opens an sqlx pool on the lib/pq driver bounded by cfg.
func OpenPostgresSQLX(databaseURL string, cfg Config) (*sqlx.DB, error) {
	dsn, err := readOnlyPQDSN(databaseURL)
	if err != nil {
		return nil, err
	}

	db, err := sqlx.Open(driverPostgres, dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}

	applySQLBounds(db.DB, cfg.withDefaults())

	return db, nil
}

// readOnlyPQDSN adds the read-only session parameter to a postgres:// URL.
func readOnlyPQDSN(databaseURL string) (string, error) {
	u, err := url.Parse(databaseURL)
	if err != nil {
		return "", fmt.Errorf("parse database url: %w", err)
	}

	if u.Scheme != "postgres" && u.Scheme != "postgresql" {
		return "", fmt.Errorf("parse database url: unsupported scheme %q", u.Scheme)
	}

	q := u.Query()
	q.Set(paramReadOnly, paramReadOnlyValue)

	if q.Get(paramConnectTimeout) == "" {
		q.Set(paramConnectTimeout, connectTimeoutSecondsPQ)
	}

	u.RawQuery = q.Encode()

	return u.String(), nil
}

func applySQLBounds(db *sql.DB, cfg Config) {
	db.SetMaxOpenConns(int(cfg.MaxConns))
	db.SetMaxIdleConns(int(max(cfg.MinConns, 1)))
	db.SetConnMaxLifetime(cfg.MaxConnLifetime)
	db.SetConnMaxIdleTime(cfg.MaxConnIdleTime)
}
