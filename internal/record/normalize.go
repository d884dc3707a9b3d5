package record

import (
	"fmt"
	"time"
)

// RawRow is one row as extracted by a source collaborator, tagged with the
// schema generation it came from. The variant set is closed: adding a new
// schema generation means adding a type here and a case in Normalize.
type RawRow interface {
	Kind() SourceKind
}

// LegacyRow is a Transfers row from the first-generation slskd database,
// where State is a free-text status string.
type LegacyRow struct {
	Direction        string
	Username         string
	Filename         string
	Size             int64 // -1 when the column was NULL
	BytesTransferred int64 // -1 when the column was NULL
	AverageSpeed     float64
	State            string
	RequestedAt      time.Time
	StartedAt        time.Time
	EndedAt          time.Time
}

func (LegacyRow) Kind() SourceKind { return SourceLegacyDB }

// ModernRow is a Transfers row from the second-generation slskd database,
// where State is an integer flag set and StateDescription carries the
// human-readable form.
type ModernRow struct {
	Direction        string
	Username         string
	Filename         string
	Size             int64 // -1 when the column was NULL
	BytesTransferred int64 // -1 when the column was NULL
	AverageSpeed     float64
	State            int
	StateDescription string
	RequestedAt      time.Time
	StartedAt        time.Time
	EndedAt          time.Time
}

func (ModernRow) Kind() SourceKind { return SourceModernDB }

// HTMLRow is one table row scraped from an exported slskd uploads page.
// The page models uploads only and carries no timestamps, durations or
// speeds; sizes come from the "transferred/total" cell.
type HTMLRow struct {
	Username         string
	Filename         string
	TransferredBytes int64 // -1 when the size cell could not be parsed
	SizeBytes        int64 // -1 when the size cell could not be parsed
	Status           string
}

func (HTMLRow) Kind() SourceKind { return SourceHTMLExport }

// Normalize converts a raw row into the canonical TransferRecord. It is a
// pure transform: it fails with ErrMalformedRecord when the username or every
// byte-count field is unresolved, and never fabricates values the source did
// not report.
func Normalize(row RawRow) (TransferRecord, error) {
	switch r := row.(type) {
	case LegacyRow:
		rec, err := normalizeDB(r.Direction, r.Username, r.Filename, r.Size, r.BytesTransferred,
			r.AverageSpeed, r.RequestedAt, r.StartedAt, r.EndedAt)
		if err != nil {
			return TransferRecord{}, err
		}
		rec.State = ClassifyStateText(r.State)
		return rec, nil

	case ModernRow:
		rec, err := normalizeDB(r.Direction, r.Username, r.Filename, r.Size, r.BytesTransferred,
			r.AverageSpeed, r.RequestedAt, r.StartedAt, r.EndedAt)
		if err != nil {
			return TransferRecord{}, err
		}
		rec.State = ClassifyStateCode(r.State)
		return rec, nil

	case HTMLRow:
		if r.Username == "" {
			return TransferRecord{}, fmt.Errorf("%w: empty username", ErrMalformedRecord)
		}
		if r.SizeBytes < 0 && r.TransferredBytes < 0 {
			return TransferRecord{}, fmt.Errorf("%w: no byte counts for %q", ErrMalformedRecord, r.Filename)
		}
		return TransferRecord{
			Direction:        Upload,
			Username:         r.Username,
			Filename:         r.Filename,
			SizeBytes:        max64(r.SizeBytes, 0),
			TransferredBytes: max64(r.TransferredBytes, 0),
			State:            ClassifyStateText(r.Status),
		}, nil

	default:
		return TransferRecord{}, fmt.Errorf("%w: unknown source kind %v", ErrMalformedRecord, row.Kind())
	}
}

func normalizeDB(direction, username, filename string, size, transferred int64,
	avgSpeed float64, requestedAt, startedAt, endedAt time.Time) (TransferRecord, error) {

	if username == "" {
		return TransferRecord{}, fmt.Errorf("%w: empty username", ErrMalformedRecord)
	}
	if size < 0 && transferred < 0 {
		return TransferRecord{}, fmt.Errorf("%w: no byte counts for %q", ErrMalformedRecord, filename)
	}

	dir := Upload
	if direction == Download.String() {
		dir = Download
	}

	var duration float64
	if !startedAt.IsZero() && !endedAt.IsZero() {
		if d := endedAt.Sub(startedAt).Seconds(); d > 0 {
			duration = d
		}
	}

	speed := avgSpeed
	if speed <= 0 {
		speed = 0
		if duration > 0 && transferred > 0 {
			speed = float64(transferred) / duration
		}
	}

	return TransferRecord{
		Direction:        dir,
		Username:         username,
		Filename:         filename,
		SizeBytes:        max64(size, 0),
		TransferredBytes: max64(transferred, 0),
		SpeedBytesPerSec: speed,
		DurationSec:      duration,
		Timestamp:        requestedAt,
	}, nil
}

func max64(a, b int64) int64 {
	if a > b {
		return a
	}
	return b
}
