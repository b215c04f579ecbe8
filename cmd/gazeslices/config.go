package main

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/AntonStoeckl/gaze-slices-go/gazestore/overlay"
	"github.com/AntonStoeckl/gaze-slices-go/gazestore/pool"
)

const appName = "gazeslices"

const (
	driverPGX  = "pgx"
	driverSQLX = "sqlx"
)

// Config is the process configuration read from the environment.
type Config struct {
	DBPath   string `env:"GAZE_DB_PATH"`
	DBURL    string `env:"GAZE_DB_URL"`
	DBDriver string `env:"GAZE_DB_DRIVER" envDefault:"pgx"`

	OverlayPath string `env:"GAZE_OVERLAY_PATH"`

	AssetDir    string `env:"GAZE_ASSET_DIR"`
	S3Bucket    string `env:"GAZE_S3_BUCKET"`
	S3Prefix    string `env:"GAZE_S3_PREFIX"`
	S3Region    string `env:"GAZE_S3_REGION"`
	S3Endpoint  string `env:"GAZE_S3_ENDPOINT"`
	S3PathStyle bool   `env:"GAZE_S3_PATH_STYLE"`

	SampleTable     string `env:"GAZE_SAMPLE_TABLE" envDefault:"gaze_data"`
	CatalogTable    string `env:"GAZE_CATALOG_TABLE" envDefault:"test_catalog"`
	GroupTable      string `env:"GAZE_GROUP_TABLE" envDefault:"test_group"`
	RecordingsTable string `env:"GAZE_RECORDINGS_TABLE" envDefault:"recordings"`
	AOITable        string `env:"GAZE_AOI_TABLE" envDefault:"aoi_map"`

	MaxConns       int32         `env:"GAZE_MAX_CONNS" envDefault:"8"`
	AcquireTimeout time.Duration `env:"GAZE_ACQUIRE_TIMEOUT" envDefault:"5s"`

	LogLevel  string `env:"GAZE_LOG_LEVEL" envDefault:"warn"`
	LogFormat string `env:"GAZE_LOG_FORMAT" envDefault:"text"`

	Tracing     bool   `env:"GAZE_TRACING"`
	MetricsFile string `env:"GAZE_METRICS_FILE"`
}

// loadConfig parses the environment, applies flag overrides and fills derived defaults.
func loadConfig(overrides configOverrides) (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}

	overrides.apply(&cfg)

	if cfg.OverlayPath == "" {
		path, err := overlay.DefaultPath(appName)
		if err != nil {
			return Config{}, err
		}
		cfg.OverlayPath = path
	}

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func (c Config) validate() error {
	switch {
	case c.DBPath != "" && c.DBURL != "":
		return errors.New("GAZE_DB_PATH and GAZE_DB_URL are mutually exclusive")
	case c.DBDriver != driverPGX && c.DBDriver != driverSQLX:
		return fmt.Errorf("unsupported GAZE_DB_DRIVER %q (want %s or %s)", c.DBDriver, driverPGX, driverSQLX)
	case c.AssetDir != "" && c.S3Bucket != "":
		return errors.New("GAZE_ASSET_DIR and GAZE_S3_BUCKET are mutually exclusive")
	case c.LogFormat != "text" && c.LogFormat != "json":
		return fmt.Errorf("unsupported GAZE_LOG_FORMAT %q", c.LogFormat)
	}

	if _, err := c.logLevel(); err != nil {
		return err
	}

	return nil
}

// requireDatabase is checked only by commands that query the sample store.
func (c Config) requireDatabase() error {
	if c.DBPath == "" && c.DBURL == "" {
		return errors.New("one of GAZE_DB_PATH or GAZE_DB_URL is required")
	}

	return nil
}

func (c Config) logLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, fmt.Errorf("invalid GAZE_LOG_LEVEL: %w", err)
	}

	return level, nil
}

func (c Config) poolConfig() pool.Config {
	cfg := pool.DefaultConfig()
	cfg.MaxConns = c.MaxConns
	cfg.AcquireTimeout = c.AcquireTimeout

	return cfg.Normalized()
}

// configOverrides carries the persistent flag values; empty values leave the environment in charge.
type configOverrides struct {
	dbPath      string
	dbURL       string
	overlayPath string
	assetDir    string
	logLevel    string
}

func (o configOverrides) apply(cfg *Config) {
	if o.dbPath != "" {
		cfg.DBPath = o.dbPath
		cfg.DBURL = ""
	}

	if o.dbURL != "" {
		cfg.DBURL = o.dbURL
		cfg.DBPath = ""
	}

	if o.overlayPath != "" {
		cfg.OverlayPath = o.overlayPath
	}

	if o.assetDir != "" {
		cfg.AssetDir = o.assetDir
		cfg.S3Bucket = ""
	}

	if o.logLevel != "" {
		cfg.LogLevel = o.logLevel
	}
}
