// Command import builds a SQLite gaze sample store from a CSV export, for local development
// and manual testing of gazeslices.
//
//	go run ./testutil/cmd/import -csv samples.csv -db gaze.db
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/AntonStoeckl/gaze-slices-go/testutil/fixtures"
)

func main() {
	csvPath := flag.String("csv", "", "CSV export with a header row")
	dbPath := flag.String("db", "", "SQLite file to create")
	flag.Parse()

	if err := importCSV(context.Background(), *csvPath, *dbPath); err != nil {
		log.Fatalf("Error importing CSV data: %v", err)
	}
}

func importCSV(ctx context.Context, csvPath, dbPath string) error {
	if csvPath == "" || dbPath == "" {
		return fmt.Errorf("both -csv and -db are required")
	}

	startTime := time.Now()
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	file, err := os.Open(csvPath)
	if err != nil {
		return fmt.Errorf("open csv: %w", err)
	}
	defer func() { _ = file.Close() }()

	samples, skipped, err := fixtures.LoadSamplesCSV(file, logger)
	if err != nil {
		return err
	}

	store, err := fixtures.CreateSQLiteStore(dbPath)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	if err := store.InsertSamples(ctx, samples...); err != nil {
		return err
	}

	logger.Info(
		"csv import finished",
		"imported", len(samples),
		"skipped", skipped,
		"db", dbPath,
		"duration", time.Since(startTime).Round(time.Millisecond).String(),
	)

	return nil
}
