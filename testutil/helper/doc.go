// Package helper provides test doubles shared by the gazestore test suites:
// a slog handler that captures records, and spies for the metrics and tracing collectors.
package helper
