// Package source extracts raw transfer rows from slskd data files: transfer
// databases in either schema generation, and exported uploads HTML pages.
package source

import (
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	_ "modernc.org/sqlite"

	"github.com/Player6734/slskd-stats/internal/record"
)

// SchemaGen identifies which generation of the slskd Transfers schema a
// database file uses.
type SchemaGen int

const (
	// SchemaLegacy stores the transfer state as free text in State.
	SchemaLegacy SchemaGen = iota
	// SchemaModern stores an integer State plus a StateDescription column.
	SchemaModern
)

// DB wraps read-only access to one slskd transfers database.
type DB struct {
	db     *sql.DB
	path   string
	schema SchemaGen
}

// Open opens a transfers database read-only and detects its schema
// generation. The file is never written to.
func Open(path string) (*DB, error) {
	db, err := sql.Open("sqlite", "file:"+path+"?mode=ro&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database %s: %w", path, err)
	}

	schema, err := detectSchema(db)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("inspecting database %s: %w", path, err)
	}

	slog.Info("database opened", "path", path, "schema", schema)

	return &DB{db: db, path: path, schema: schema}, nil
}

// Close closes the database.
func (d *DB) Close() error {
	if d.db != nil {
		return d.db.Close()
	}
	return nil
}

// Path returns the database file path.
func (d *DB) Path() string {
	return d.path
}

// Schema returns the detected schema generation.
func (d *DB) Schema() SchemaGen {
	return d.schema
}

// detectSchema checks for the StateDescription column, which only the modern
// schema generation has.
func detectSchema(db *sql.DB) (SchemaGen, error) {
	rows, err := db.Query("PRAGMA table_info(Transfers)")
	if err != nil {
		return SchemaLegacy, err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			cid, notnull, pk int
			name, ctype      string
			dflt             sql.NullString
		)
		if err := rows.Scan(&cid, &name, &ctype, &notnull, &dflt, &pk); err != nil {
			return SchemaLegacy, err
		}
		if name == "StateDescription" {
			return SchemaModern, nil
		}
	}
	return SchemaLegacy, rows.Err()
}

// Transfers reads every Transfers row and returns it tagged with the schema
// generation it came from. Rows are returned raw; classification and
// validation happen in the record normalizer.
func (d *DB) Transfers() ([]record.RawRow, error) {
	if d.schema == SchemaModern {
		return d.modernTransfers()
	}
	return d.legacyTransfers()
}

func (d *DB) legacyTransfers() ([]record.RawRow, error) {
	rows, err := d.db.Query(`
		SELECT Direction, Username, Filename, Size, BytesTransferred, AverageSpeed,
		       State, RequestedAt, StartedAt, EndedAt
		FROM Transfers
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []record.RawRow
	for rows.Next() {
		var (
			direction, username, filename sql.NullString
			size, transferred             sql.NullInt64
			speed                         sql.NullFloat64
			state                         sql.NullString
			requestedAt, startedAt, endAt sql.NullString
		)
		if err := rows.Scan(&direction, &username, &filename, &size, &transferred,
			&speed, &state, &requestedAt, &startedAt, &endAt); err != nil {
			return nil, err
		}
		result = append(result, record.LegacyRow{
			Direction:        direction.String,
			Username:         username.String,
			Filename:         filename.String,
			Size:             nullInt(size),
			BytesTransferred: nullInt(transferred),
			AverageSpeed:     speed.Float64,
			State:            state.String,
			RequestedAt:      parseTime(requestedAt),
			StartedAt:        parseTime(startedAt),
			EndedAt:          parseTime(endAt),
		})
	}
	return result, rows.Err()
}

func (d *DB) modernTransfers() ([]record.RawRow, error) {
	rows, err := d.db.Query(`
		SELECT Direction, Username, Filename, Size, BytesTransferred, AverageSpeed,
		       State, StateDescription, RequestedAt, StartedAt, EndedAt
		FROM Transfers
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []record.RawRow
	for rows.Next() {
		var (
			direction, username, filename sql.NullString
			size, transferred             sql.NullInt64
			speed                         sql.NullFloat64
			state                         sql.NullInt64
			stateDesc                     sql.NullString
			requestedAt, startedAt, endAt sql.NullString
		)
		if err := rows.Scan(&direction, &username, &filename, &size, &transferred,
			&speed, &state, &stateDesc, &requestedAt, &startedAt, &endAt); err != nil {
			return nil, err
		}
		result = append(result, record.ModernRow{
			Direction:        direction.String,
			Username:         username.String,
			Filename:         filename.String,
			Size:             nullInt(size),
			BytesTransferred: nullInt(transferred),
			AverageSpeed:     speed.Float64,
			State:            int(state.Int64),
			StateDescription: stateDesc.String,
			RequestedAt:      parseTime(requestedAt),
			StartedAt:        parseTime(startedAt),
			EndedAt:          parseTime(endAt),
		})
	}
	return result, rows.Err()
}

func nullInt(v sql.NullInt64) int64 {
	if !v.Valid {
		return -1
	}
	return v.Int64
}

// timeLayouts covers the timestamp renderings slskd has written over time.
var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02 15:04:05",
}

func parseTime(v sql.NullString) time.Time {
	if !v.Valid || v.String == "" {
		return time.Time{}
	}
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, v.String); err == nil {
			return t
		}
	}
	slog.Debug("unparseable timestamp", "value", v.String)
	return time.Time{}
}
