package fixtures

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite" // sqlite driver

	"github.com/AntonStoeckl/gaze-slices-go/gazestore"
)

const (
	createSampleTable = `CREATE TABLE gaze_data (
		gaze_point_x REAL,
		gaze_point_y REAL,
		box_name TEXT,
		presented_media_name TEXT,
		timeline_name TEXT,
		participant_name TEXT,
		recording_name TEXT,
		exact_time TEXT,
		test_name TEXT
	)`

	createCatalogTable = `CREATE TABLE test_catalog (
		test_name TEXT,
		"group" TEXT,
		image_name TEXT,
		image_path TEXT,
		sentence TEXT,
		timeline TEXT,
		word_windows_json TEXT
	)`

	createGroupTable = `CREATE TABLE test_group (
		group_name TEXT,
		group_order INTEGER,
		weight REAL,
		active BOOLEAN,
		thumbnail %s
	)`

	createDurationTable = `CREATE TABLE recordings (
		test_name TEXT,
		recording_name TEXT,
		participant_name TEXT,
		media_name TEXT,
		duration_seconds REAL
	)`

	createAOITable = `CREATE TABLE aoi_map (
		test_name TEXT,
		tag TEXT,
		region_id TEXT,
		rgb_hex TEXT
	)`

	insertSample = `INSERT INTO gaze_data (
		gaze_point_x, gaze_point_y, box_name, presented_media_name, timeline_name,
		participant_name, recording_name, exact_time, test_name
	) VALUES (
		:gaze_point_x, :gaze_point_y, :box_name, :presented_media_name, :timeline_name,
		:participant_name, :recording_name, :exact_time, :test_name
	)`

	insertCatalog = `INSERT INTO test_catalog (
		test_name, "group", image_name, image_path, sentence, timeline, word_windows_json
	) VALUES (
		:test_name, :group, :image_name, :image_path, :sentence, :timeline, :word_windows_json
	)`

	insertGroup = `INSERT INTO test_group (group_name, group_order, weight, active, thumbnail)
		VALUES (:group_name, :group_order, :weight, :active, :thumbnail)`

	insertAOI = `INSERT INTO aoi_map (test_name, tag, region_id, rgb_hex)
		VALUES (:test_name, :tag, :region_id, :rgb_hex)`

	insertDuration = `INSERT INTO recordings (
		test_name, recording_name, participant_name, media_name, duration_seconds
	) VALUES (
		:test_name, :recording_name, :participant_name, :media_name, :duration_seconds
	)`
)

// Table selects which optional tables a store is created with.
type Table int

const (
	CatalogTable Table = iota
	GroupTable
	DurationTable
	AOITable
)

type sampleRecord struct {
	X           *float64 `db:"gaze_point_x"`
	Y           *float64 `db:"gaze_point_y"`
	Box         *string  `db:"box_name"`
	Media       string   `db:"presented_media_name"`
	Timeline    string   `db:"timeline_name"`
	Participant string   `db:"participant_name"`
	Recording   string   `db:"recording_name"`
	Timestamp   string   `db:"exact_time"`
	TestName    string   `db:"test_name"`
}

// CatalogRecord is one row of the test catalog.
type CatalogRecord struct {
	TestName    string  `db:"test_name"`
	Group       *string `db:"group"`
	ImageName   *string `db:"image_name"`
	ImagePath   *string `db:"image_path"`
	Sentence    *string `db:"sentence"`
	Timeline    *string `db:"timeline"`
	WordWindows *string `db:"word_windows_json"`
}

// GroupRecord is one row of the test group table, covering every stringified column type.
type GroupRecord struct {
	Name      string  `db:"group_name"`
	Order     int64   `db:"group_order"`
	Weight    float64 `db:"weight"`
	Active    bool    `db:"active"`
	Thumbnail []byte  `db:"thumbnail"`
}

// DurationRecord is one row of the per-media duration table.
type DurationRecord struct {
	TestName        string   `db:"test_name"`
	RecordingName   string   `db:"recording_name"`
	ParticipantName string   `db:"participant_name"`
	MediaName       string   `db:"media_name"`
	DurationSeconds *float64 `db:"duration_seconds"`
}

// AOIRecord is one row of the area-of-interest table.
type AOIRecord struct {
	TestName string  `db:"test_name"`
	Tag      string  `db:"tag"`
	RegionID *string `db:"region_id"`
	RGBHex   *string `db:"rgb_hex"`
}

// Store is a writable handle on a fixture database. Engines under test open the same
// database read-only: the SQLite file at Path through pool.OpenSQLite, or the Postgres
// schema at URL through pool.OpenPostgres / pool.OpenPostgresSQLX.
type Store struct {
	Path string
	URL  string
	db   *sqlx.DB
}

// NewSQLiteStore creates a fresh fixture database with the sample table and the given optional tables.
func NewSQLiteStore(t testing.TB, tables ...Table) *Store {
	t.Helper()

	store, err := CreateSQLiteStore(filepath.Join(t.TempDir(), uuid.NewString()+".db"), tables...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	return store
}

// CreateSQLiteStore creates the SQLite file at path with the sample table and the given optional tables.
// The file must not exist yet.
func CreateSQLiteStore(path string, tables ...Table) (*Store, error) {
	if _, err := os.Stat(path); err == nil {
		return nil, fmt.Errorf("create sqlite store: %s already exists", path)
	}

	db, err := sqlx.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("create sqlite store: %w", err)
	}

	if err := createTables(db, "BLOB", tables); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Store{Path: path, db: db}, nil
}

func createTables(db *sqlx.DB, blobType string, tables []Table) error {
	statements := []string{createSampleTable}

	for _, table := range tables {
		switch table {
		case CatalogTable:
			statements = append(statements, createCatalogTable)
		case GroupTable:
			statements = append(statements, fmt.Sprintf(createGroupTable, blobType))
		case DurationTable:
			statements = append(statements, createDurationTable)
		case AOITable:
			statements = append(statements, createAOITable)
		}
	}

	for _, statement := range statements {
		if _, err := db.Exec(statement); err != nil {
			return fmt.Errorf("create table: %w", err)
		}
	}

	return nil
}

// Close closes the writable handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// AddSamples inserts samples. A blank Box is stored as NULL.
func (s *Store) AddSamples(t testing.TB, samples ...gazestore.GazeSample) {
	t.Helper()

	require.NoError(t, s.InsertSamples(context.Background(), samples...))
}

// InsertSamples inserts samples in one transaction. A blank Box is stored as NULL.
func (s *Store) InsertSamples(ctx context.Context, samples ...gazestore.GazeSample) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, sample := range samples {
		record := sampleRecord{
			X:           sample.X,
			Y:           sample.Y,
			Media:       sample.MediaName,
			Timeline:    sample.Timeline,
			Participant: sample.Participant,
			Recording:   sample.Recording,
			Timestamp:   sample.Timestamp,
			TestName:    sample.TestName,
		}

		if sample.Box != "" {
			box := sample.Box
			record.Box = &box
		}

		if _, err := tx.NamedExecContext(ctx, insertSample, record); err != nil {
			return fmt.Errorf("insert sample: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}

	return nil
}

// AddCatalog inserts test catalog rows.
func (s *Store) AddCatalog(t testing.TB, rows ...CatalogRecord) {
	t.Helper()

	for _, row := range rows {
		_, err := s.db.NamedExec(insertCatalog, row)
		require.NoError(t, err)
	}
}

// AddGroups inserts test group rows.
func (s *Store) AddGroups(t testing.TB, rows ...GroupRecord) {
	t.Helper()

	for _, row := range rows {
		_, err := s.db.NamedExec(insertGroup, row)
		require.NoError(t, err)
	}
}

// AddDurations inserts duration rows.
func (s *Store) AddDurations(t testing.TB, rows ...DurationRecord) {
	t.Helper()

	for _, row := range rows {
		_, err := s.db.NamedExec(insertDuration, row)
		require.NoError(t, err)
	}
}

// AddAOIs inserts area-of-interest rows.
func (s *Store) AddAOIs(t testing.TB, rows ...AOIRecord) {
	t.Helper()

	for _, row := range rows {
		_, err := s.db.NamedExec(insertAOI, row)
		require.NoError(t, err)
	}
}

// Sample builds a sample with the fields the query layer filters on.
func Sample(testName, recording, participant, box, timestamp string) gazestore.GazeSample {
	x, y := 0.5, 0.25

	return gazestore.GazeSample{
		X:           &x,
		Y:           &y,
		Box:         box,
		MediaName:   "stimulus.mp4",
		Timeline:    "T1",
		Participant: participant,
		Recording:   recording,
		Timestamp:   timestamp,
		TestName:    testName,
	}
}

// Ptr returns a pointer to v.
func Ptr[T any](v T) *T {
	return &v
}
