package fixtures

import (
	"net/url"
	"os"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq" // postgres driver
	"github.com/stretchr/testify/require"
)

// EnvTestDatabaseURL names the variable that enables the Postgres fixture tests.
const EnvTestDatabaseURL = "GAZE_TEST_DATABASE_URL"

// TestDatabaseURL returns the Postgres URL for integration tests or skips the test when it is unset.
func TestDatabaseURL(t testing.TB) string {
	t.Helper()

	databaseURL := os.Getenv(EnvTestDatabaseURL)
	if databaseURL == "" {
		t.Skipf("%s not set, skipping postgres test", EnvTestDatabaseURL)
	}

	return databaseURL
}

// NewPostgresStore creates a throwaway schema in the database at databaseURL with the sample table
// and the given optional tables. Store.URL points at that schema through search_path; the schema is
// dropped on cleanup.
func NewPostgresStore(t testing.TB, databaseURL string, tables ...Table) *Store {
	t.Helper()

	schema := "gaze_" + strings.ReplaceAll(uuid.NewString(), "-", "")

	admin, err := sqlx.Connect("postgres", databaseURL)
	require.NoError(t, err)
	t.Cleanup(func() { _ = admin.Close() })

	admin.MustExec(`CREATE SCHEMA ` + schema)
	t.Cleanup(func() { _, _ = admin.Exec(`DROP SCHEMA ` + schema + ` CASCADE`) })

	schemaURL := withSearchPath(t, databaseURL, schema)

	db, err := sqlx.Connect("postgres", schemaURL)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, createTables(db, "BYTEA", tables))

	return &Store{URL: schemaURL, db: db}
}

func withSearchPath(t testing.TB, databaseURL, schema string) string {
	t.Helper()

	u, err := url.Parse(databaseURL)
	require.NoError(t, err)

	q := u.Query()
	q.Set("search_path", schema)
	u.RawQuery = q.Encode()

	return u.String()
}
