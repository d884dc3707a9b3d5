package source

import (
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/Player6734/slskd-stats/internal/record"
)

func createDB(t *testing.T, schema string, inserts ...string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "transfers.db")

	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatalf("creating test database: %v", err)
	}
	defer db.Close()

	if _, err := db.Exec(schema); err != nil {
		t.Fatalf("applying schema: %v", err)
	}
	for _, stmt := range inserts {
		if _, err := db.Exec(stmt); err != nil {
			t.Fatalf("inserting row: %v", err)
		}
	}
	return path
}

const legacySchema = `
CREATE TABLE Transfers (
    Username TEXT, Filename TEXT, Direction TEXT,
    Size INTEGER, BytesTransferred INTEGER, AverageSpeed REAL,
    State TEXT, RequestedAt TEXT, StartedAt TEXT, EndedAt TEXT
);`

const modernSchema = `
CREATE TABLE Transfers (
    Username TEXT, Filename TEXT, Direction TEXT,
    Size INTEGER, BytesTransferred INTEGER, AverageSpeed REAL,
    State INTEGER, StateDescription TEXT,
    RequestedAt TEXT, StartedAt TEXT, EndedAt TEXT
);`

func TestOpenDetectsLegacySchema(t *testing.T) {
	path := createDB(t, legacySchema, `
		INSERT INTO Transfers VALUES
		('alice', 'a.flac', 'Upload', 1000, 1000, 125.0,
		 'Completed, Succeeded',
		 '2025-03-01T10:00:00Z', '2025-03-01T10:00:01Z', '2025-03-01T10:00:09Z')`)

	db, err := Open(path)
	if err != nil {
		t.Fatalf("Open returned error: %v", err)
	}
	defer db.Close()

	if db.Schema() != SchemaLegacy {
		t.Errorf("Schema = %v, want SchemaLegacy", db.Schema())
	}

	rows, err := db.Transfers()
	if err != nil {
		t.Fatalf("Transfers returned error: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("len(rows) = %d, want 1", len(rows))
	}

	row, ok := rows[0].(record.LegacyRow)
	if !ok {
		t.Fatalf("rows[0] is %T, want record.LegacyRow", rows[0])
	}
	if row.Username != "alice" || row.State != "Completed, Succeeded" {
		t.Errorf("unexpected row: %+v", row)
	}
	want := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	if !row.RequestedAt.Equal(want) {
		t.Errorf("RequestedAt = %v, want %v", row.RequestedAt, want)
	}
	if d := row.EndedAt.Sub(row.StartedAt); d != 8*time.Second {
		t.Errorf("started/ended span = %v, want 8s", d)
	}
}

func TestOpenDetectsModernSchema(t *testing.T) {
	path := createDB(t, modernSchema, `
		INSERT INTO Transfers VALUES
		('bob', 'b.mp3', 'Download', 2000, 500, 0,
		 272, 'Completed, Errored',
		 '2025-03-02 11:00:00', NULL, NULL)`)

	db, err := Open(path)
	if err != nil {
		t.Fatalf("Open returned error: %v", err)
	}
	defer db.Close()

	if db.Schema() != SchemaModern {
		t.Errorf("Schema = %v, want SchemaModern", db.Schema())
	}

	rows, err := db.Transfers()
	if err != nil {
		t.Fatalf("Transfers returned error: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("len(rows) = %d, want 1", len(rows))
	}

	row, ok := rows[0].(record.ModernRow)
	if !ok {
		t.Fatalf("rows[0] is %T, want record.ModernRow", rows[0])
	}
	if row.State != 272 {
		t.Errorf("State = %d, want 272", row.State)
	}
	if row.StartedAt.IsZero() != true || row.EndedAt.IsZero() != true {
		t.Error("NULL timestamps should map to the zero time")
	}
}

func TestOpenMissingFile(t *testing.T) {
	if _, err := Open(filepath.Join(t.TempDir(), "nope.db")); err == nil {
		t.Error("Open should fail for a missing file")
	}
}

func TestLoadPartialFailure(t *testing.T) {
	good := createDB(t, legacySchema, `
		INSERT INTO Transfers VALUES
		('alice', 'a.flac', 'Upload', 1000, 1000, 0,
		 'Completed, Succeeded', '2025-03-01T10:00:00Z', NULL, NULL)`)
	missing := filepath.Join(t.TempDir(), "gone.db")

	rows, warnings, err := Load([]string{good, missing}, nil)
	if err != nil {
		t.Fatalf("Load should recover from one bad source, got error: %v", err)
	}
	if len(rows) != 1 {
		t.Errorf("len(rows) = %d, want 1", len(rows))
	}
	if len(warnings) != 1 {
		t.Errorf("warnings = %v, want one entry for the missing file", warnings)
	}
}

func TestLoadAllSourcesFailed(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "gone.db")
	if _, _, err := Load([]string{missing}, nil); err == nil {
		t.Error("Load should fail when every source is unreadable")
	}
}
