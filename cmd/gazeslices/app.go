package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/AntonStoeckl/gaze-slices-go/gazestore"
	"github.com/AntonStoeckl/gaze-slices-go/gazestore/assets"
	"github.com/AntonStoeckl/gaze-slices-go/gazestore/oteladapters"
	"github.com/AntonStoeckl/gaze-slices-go/gazestore/overlay"
	"github.com/AntonStoeckl/gaze-slices-go/gazestore/pool"
	"github.com/AntonStoeckl/gaze-slices-go/gazestore/promadapters"
	"github.com/AntonStoeckl/gaze-slices-go/gazestore/sqlengine"
)

// app bundles what a command needs: the engine, the overlay store and their teardown.
type app struct {
	engine  *sqlengine.Engine
	overlay *overlay.Store
	logger  *slog.Logger
	closers []func()
}

func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
}

func newLogger(c Config, w io.Writer) (*slog.Logger, error) {
	level, err := c.logLevel()
	if err != nil {
		return nil, err
	}

	options := &slog.HandlerOptions{Level: level}
	if c.LogFormat == "json" {
		return slog.New(slog.NewJSONHandler(w, options)), nil
	}

	return slog.New(slog.NewTextHandler(w, options)), nil
}

// openOverlay opens only the overlay store; exclusion commands need no database.
func openOverlay(c Config, logger *slog.Logger) (*overlay.Store, error) {
	store, err := overlay.Open(c.OverlayPath, overlay.WithLogger(logger))
	if err != nil {
		return nil, fmt.Errorf("open overlay: %w", err)
	}

	return store, nil
}

func openApp(ctx context.Context, c Config, logOutput io.Writer) (*app, error) {
	if err := c.requireDatabase(); err != nil {
		return nil, err
	}

	logger, err := newLogger(c, logOutput)
	if err != nil {
		return nil, err
	}

	a := &app{logger: logger}

	a.overlay, err = openOverlay(c, logger)
	if err != nil {
		return nil, err
	}

	options := []sqlengine.Option{
		sqlengine.WithTableName(c.SampleTable),
		sqlengine.WithReferenceTables(c.CatalogTable, c.GroupTable, c.RecordingsTable),
		sqlengine.WithCatalogTable(c.CatalogTable),
		sqlengine.WithDurationTable(c.RecordingsTable),
		sqlengine.WithAOITable(c.AOITable),
		sqlengine.WithAcquireTimeout(c.poolConfig().AcquireTimeout),
		sqlengine.WithContextualLogger(
			oteladapters.NewSlogBridgeLoggerWithHandler(logger.Handler()).With("component", "sqlengine"),
		),
	}

	resolver, err := newAssetResolver(ctx, c)
	if err != nil {
		return nil, err
	}
	if resolver != nil {
		options = append(options, sqlengine.WithAssetResolver(resolver))
	}

	options = append(options, a.observability(c)...)

	if err := a.openEngine(ctx, c, options); err != nil {
		a.Close()
		return nil, err
	}

	return a, nil
}

// observability wires the optional tracing and metrics backends. Their teardown runs in Close.
func (a *app) observability(c Config) []sqlengine.Option {
	var options []sqlengine.Option

	if c.Tracing {
		provider := sdktrace.NewTracerProvider()
		a.closers = append(a.closers, func() { _ = provider.Shutdown(context.Background()) })

		options = append(options, sqlengine.WithTracing(oteladapters.NewTracingCollector(provider.Tracer(appName))))
	}

	if c.MetricsFile != "" {
		registry := prometheus.NewRegistry()
		a.closers = append(a.closers, func() {
			if err := prometheus.WriteToTextfile(c.MetricsFile, registry); err != nil {
				a.logger.Warn("writing metrics file failed", "path", c.MetricsFile, "error", err.Error())
			}
		})

		options = append(options, sqlengine.WithMetrics(promadapters.NewMetricsCollector(registry)))
	}

	return options
}

func (a *app) openEngine(ctx context.Context, c Config, options []sqlengine.Option) error {
	poolConfig := c.poolConfig()

	switch {
	case c.DBPath != "":
		db, err := pool.OpenSQLite(c.DBPath, poolConfig)
		if err != nil {
			return fmt.Errorf("open sqlite: %w", err)
		}
		a.closers = append(a.closers, func() { _ = db.Close() })

		a.engine, err = sqlengine.NewEngineFromSQLDB(db, a.overlay, options...)
		return err

	case c.DBDriver == driverSQLX:
		db, err := pool.OpenPostgresSQLX(c.DBURL, poolConfig)
		if err != nil {
			return fmt.Errorf("open postgres: %w", err)
		}
		a.closers = append(a.closers, func() { _ = db.Close() })

		a.engine, err = sqlengine.NewEngineFromSQLX(db, a.overlay, options...)
		return err

	default:
		db, err := pool.OpenPostgres(ctx, c.DBURL, poolConfig)
		if err != nil {
			return fmt.Errorf("open postgres: %w", err)
		}
		a.closers = append(a.closers, db.Close)

		a.engine, err = sqlengine.NewEngineFromPGXPool(db, a.overlay, options...)
		return err
	}
}

func newAssetResolver(ctx context.Context, c Config) (gazestore.AssetResolver, error) {
	switch {
	case c.AssetDir != "":
		return assets.NewDirResolver(c.AssetDir)
	case c.S3Bucket != "":
		return assets.NewS3Resolver(ctx, assets.S3Config{
			Bucket:    c.S3Bucket,
			Prefix:    c.S3Prefix,
			Region:    c.S3Region,
			Endpoint:  c.S3Endpoint,
			PathStyle: c.S3PathStyle,
		})
	default:
		return nil, nil
	}
}

// runWithApp opens the app for one command invocation and tears it down afterwards.
func runWithApp(cmd *cobra.Command, fn func(ctx context.Context, a *app) error) error {
	ctx := commandContext(cmd)

	a, err := openApp(ctx, cfg, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer a.Close()

	return fn(ctx, a)
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}

	return context.Background()
}
