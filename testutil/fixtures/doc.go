// Package fixtures builds throwaway SQLite gaze stores for tests.
//
// A store is a file in t.TempDir() with the sample, catalog, group, and duration tables,
// seeded through sqlx named inserts. LoadSamplesCSV turns a CSV export into samples,
// skipping malformed records.
package fixtures
