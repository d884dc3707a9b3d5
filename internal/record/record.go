// Package record defines the canonical transfer record and the normalization
// of raw rows from the supported source schemas into it.
package record

import (
	"errors"
	"strings"
	"time"
)

// Direction indicates which way a transfer moved.
type Direction int

const (
	Upload Direction = iota
	Download
)

// String returns the slskd-style direction name.
func (d Direction) String() string {
	if d == Download {
		return "Download"
	}
	return "Upload"
}

// State is the reconciled transfer outcome, independent of source schema.
type State int

const (
	StateOther State = iota
	StateSucceeded
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateSucceeded:
		return "Succeeded"
	case StateFailed:
		return "Failed"
	default:
		return "Other"
	}
}

// SourceKind tags which schema generation a raw row came from.
type SourceKind int

const (
	SourceLegacyDB SourceKind = iota
	SourceModernDB
	SourceHTMLExport
)

func (k SourceKind) String() string {
	switch k {
	case SourceLegacyDB:
		return "legacy-db"
	case SourceModernDB:
		return "modern-db"
	case SourceHTMLExport:
		return "html-export"
	default:
		return "unknown"
	}
}

// ErrMalformedRecord is returned when a raw row is missing a mandatory field.
// Callers skip the row and count it rather than aborting the whole report.
var ErrMalformedRecord = errors.New("malformed transfer record")

// TransferRecord is the canonical representation of one transfer. It is
// immutable once created; all aggregation works over values of this type.
type TransferRecord struct {
	Direction        Direction
	Username         string
	Filename         string
	SizeBytes        int64
	TransferredBytes int64
	SpeedBytesPerSec float64
	DurationSec      float64
	State            State
	// Timestamp is the requested-at instant. The zero value means the source
	// carries no time information (HTML exports); such records cannot be
	// time-filtered or bucketed.
	Timestamp time.Time
}

// HasTimestamp reports whether the record carries time information.
func (r TransferRecord) HasTimestamp() bool {
	return !r.Timestamp.IsZero()
}

// ExtOther is the file-type key for names without an extension.
const ExtOther = "other"

// Ext returns the lower-cased extension of the record's filename without the
// leading dot, or ExtOther when none can be derived.
func (r TransferRecord) Ext() string {
	return ExtKey(r.Filename)
}

// ExtKey derives the file-type rollup key from a file name or path.
func ExtKey(name string) string {
	// slskd file names may use Windows separators regardless of host OS.
	if i := strings.LastIndexAny(name, `/\`); i >= 0 {
		name = name[i+1:]
	}
	i := strings.LastIndexByte(name, '.')
	if i < 0 || i == len(name)-1 {
		return ExtOther
	}
	return strings.ToLower(name[i+1:])
}
