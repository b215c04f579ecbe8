package oteladapters

import (
	"context"
	"log/slog"
	"time"

	"go.opentelemetry.io/contrib/bridges/otelslog"
	"go.opentelemetry.io/otel/log"

	"github.com/AntonStoeckl/gaze-slices-go/gazestore"
)

// SlogBridgeLogger is a gazestore.ContextualLogger backed by a *slog.Logger.
// Built with NewSlogBridgeLogger, records go through the OpenTelemetry slog bridge
// and carry the trace and span IDs found in the context.
type SlogBridgeLogger struct {
	slogger *slog.Logger
}

// NewSlogBridgeLogger creates a SlogBridgeLogger on the global LoggerProvider.
func NewSlogBridgeLogger(name string) *SlogBridgeLogger {
	return &SlogBridgeLogger{slogger: otelslog.NewLogger(name)}
}

// NewSlogBridgeLoggerWithHandler wraps a plain slog.Handler, e.g. the CLI's stderr handler.
func NewSlogBridgeLoggerWithHandler(handler slog.Handler) *SlogBridgeLogger {
	return &SlogBridgeLogger{slogger: slog.New(handler)}
}

// With returns a logger that adds args to every record.
func (l *SlogBridgeLogger) With(args ...any) *SlogBridgeLogger {
	return &SlogBridgeLogger{slogger: l.slogger.With(args...)}
}

func (l *SlogBridgeLogger) DebugContext(ctx context.Context, msg string, args ...any) {
	l.slogger.Log(ctx, slog.LevelDebug, msg, args...)
}

func (l *SlogBridgeLogger) InfoContext(ctx context.Context, msg string, args ...any) {
	l.slogger.Log(ctx, slog.LevelInfo, msg, args...)
}

func (l *SlogBridgeLogger) WarnContext(ctx context.Context, msg string, args ...any) {
	l.slogger.Log(ctx, slog.LevelWarn, msg, args...)
}

func (l *SlogBridgeLogger) ErrorContext(ctx context.Context, msg string, args ...any) {
	l.slogger.Log(ctx, slog.LevelError, msg, args...)
}

var _ gazestore.ContextualLogger = (*SlogBridgeLogger)(nil)

// OTelLogger is a gazestore.ContextualLogger that emits log records on an OpenTelemetry log.Logger.
type OTelLogger struct {
	target log.Logger
	base   []log.KeyValue
}

// NewOTelLogger creates an OTelLogger. Optional base attributes are added to every record.
func NewOTelLogger(target log.Logger, base ...log.KeyValue) *OTelLogger {
	return &OTelLogger{target: target, base: base}
}

func (l *OTelLogger) DebugContext(ctx context.Context, msg string, args ...any) {
	l.emit(ctx, log.SeverityDebug, msg, args)
}

func (l *OTelLogger) InfoContext(ctx context.Context, msg string, args ...any) {
	l.emit(ctx, log.SeverityInfo, msg, args)
}

func (l *OTelLogger) WarnContext(ctx context.Context, msg string, args ...any) {
	l.emit(ctx, log.SeverityWarn, msg, args)
}

func (l *OTelLogger) ErrorContext(ctx context.Context, msg string, args ...any) {
	l.emit(ctx, log.SeverityError, msg, args)
}

func (l *OTelLogger) emit(ctx context.Context, severity log.Severity, msg string, args []any) {
	var record log.Record
	record.SetTimestamp(time.Now())
	record.SetSeverity(severity)
	record.SetSeverityText(severity.String())
	record.SetBody(log.StringValue(msg))
	record.AddAttributes(l.base...)
	record.AddAttributes(keyValues(args)...)

	l.target.Emit(ctx, record)
}

// keyValues pairs up slog-style arguments. Non-string keys and a trailing key without value are skipped.
func keyValues(args []any) []log.KeyValue {
	kvs := make([]log.KeyValue, 0, len(args)/2)

	for i := 0; i+1 < len(args); i += 2 {
		key, ok := args[i].(string)
		if !ok {
			continue
		}

		kvs = append(kvs, log.KeyValue{Key: key, Value: logValue(args[i+1])})
	}

	return kvs
}

func logValue(v any) log.Value {
	switch typed := v.(type) {
	case string:
		return log.StringValue(typed)
	case bool:
		return log.BoolValue(typed)
	case int:
		return log.IntValue(typed)
	case int32:
		return log.Int64Value(int64(typed))
	case int64:
		return log.Int64Value(typed)
	case float64:
		return log.Float64Value(typed)
	case time.Duration:
		return log.Int64Value(typed.Milliseconds())
	case error:
		return log.StringValue(typed.Error())
	default:
		return log.StringValue(slog.AnyValue(v).String())
	}
}

var _ gazestore.ContextualLogger = (*OTelLogger)(nil)
