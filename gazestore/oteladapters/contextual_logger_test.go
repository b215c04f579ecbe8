package oteladapters_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/log"
	"go.opentelemetry.io/otel/log/embedded"
	"go.opentelemetry.io/otel/log/noop"

	"github.com/AntonStoeckl/gaze-slices-go/gazestore/oteladapters"
)

func Test_SlogBridgeLoggerWithHandler_AllLevels(t *testing.T) {
	// setup
	var buf bytes.Buffer
	handler := slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})
	logger := oteladapters.NewSlogBridgeLoggerWithHandler(handler)
	ctx := context.Background()

	// act
	logger.DebugContext(ctx, "debug message", "operation", "box_stats")
	logger.InfoContext(ctx, "info message", "row_count", 3)
	logger.WarnContext(ctx, "warn message")
	logger.ErrorContext(ctx, "error message")

	// assert
	output := buf.String()
	assert.Contains(t, output, `"level":"DEBUG","msg":"debug message","operation":"box_stats"`)
	assert.Contains(t, output, `"level":"INFO","msg":"info message","row_count":3`)
	assert.Contains(t, output, `"level":"WARN","msg":"warn message"`)
	assert.Contains(t, output, `"level":"ERROR","msg":"error message"`)
}

func Test_SlogBridgeLogger_Uses_Global_Provider(t *testing.T) {
	logger := oteladapters.NewSlogBridgeLogger("gazestore")
	ctx := context.Background()

	assert.NotPanics(t, func() {
		logger.DebugContext(ctx, "debug message", "key", "value")
		logger.InfoContext(ctx, "info message", "key", "value")
		logger.WarnContext(ctx, "warn message", "key", "value")
		logger.ErrorContext(ctx, "error message", "key", "value")
	})
}

func Test_OTelLogger_Emits_Without_Panicking(t *testing.T) {
	logger := oteladapters.NewOTelLogger(noop.NewLoggerProvider().Logger("gazestore"))
	ctx := context.Background()

	assert.NotPanics(t, func() {
		logger.DebugContext(ctx, "debug message", "row_count", 3)
		logger.InfoContext(ctx, "info message", "dangling")
		logger.WarnContext(ctx, "warn message", 42, "non-string key")
		logger.ErrorContext(ctx, "error message")
	})
}

func Test_SlogBridgeLogger_With_Adds_Attributes(t *testing.T) {
	// setup
	var buf bytes.Buffer
	logger := oteladapters.NewSlogBridgeLoggerWithHandler(slog.NewJSONHandler(&buf, nil)).With("component", "sqlengine")

	// act
	logger.InfoContext(context.Background(), "query finished")

	// assert
	assert.Contains(t, buf.String(), `"msg":"query finished","component":"sqlengine"`)
}

func Test_OTelLogger_Maps_Attribute_Types(t *testing.T) {
	// setup
	recorder := &recordingLogger{}
	logger := oteladapters.NewOTelLogger(recorder, log.String("service", "gazeslices"))

	// act
	logger.WarnContext(
		context.Background(),
		"pool exhausted",
		"operation", "box_stats",
		"row_count", 3,
		"exact", true,
		"elapsed", 1500*time.Millisecond,
		"error", errors.New("boom"),
		7, "skipped",
		"dangling",
	)

	// assert
	require.Len(t, recorder.records, 1)
	record := recorder.records[0]
	assert.Equal(t, log.SeverityWarn, record.Severity())
	assert.Equal(t, "pool exhausted", record.Body().AsString())

	attrs := make(map[string]log.Value)
	record.WalkAttributes(func(kv log.KeyValue) bool {
		attrs[kv.Key] = kv.Value
		return true
	})

	assert.Len(t, attrs, 6)
	assert.Equal(t, "gazeslices", attrs["service"].AsString())
	assert.Equal(t, "box_stats", attrs["operation"].AsString())
	assert.Equal(t, int64(3), attrs["row_count"].AsInt64())
	assert.True(t, attrs["exact"].AsBool())
	assert.Equal(t, int64(1500), attrs["elapsed"].AsInt64())
	assert.Equal(t, "boom", attrs["error"].AsString())
}

type recordingLogger struct {
	embedded.Logger

	mu      sync.Mutex
	records []log.Record
}

func (r *recordingLogger) Emit(_ context.Context, record log.Record) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records = append(r.records, record.Clone())
}

func (r *recordingLogger) Enabled(context.Context, log.EnabledParameters) bool {
	return true
}
