// Package stats computes transfer statistics: time-window filtering,
// aggregation, rankings and the assembled report result.
package stats

import (
	"fmt"
	"time"

	"github.com/Player6734/slskd-stats/internal/record"
)

// WindowKind selects how a time window is specified.
type WindowKind int

const (
	AllTime WindowKind = iota
	LastNDays
	LastNMonths
	LastNYears
	ExplicitRange
)

// Window is a time filter over record timestamps. Relative windows are
// resolved against a caller-supplied reference time so filtering stays
// deterministic under test.
type Window struct {
	Kind  WindowKind
	N     int       // for the LastN kinds
	Start time.Time // for ExplicitRange
	End   time.Time // for ExplicitRange
}

// Resolve returns the inclusive [start, end] bounds of the window relative to
// the reference time. AllTime returns zero times, meaning unbounded.
func (w Window) Resolve(reference time.Time) (start, end time.Time) {
	loc := reference.Location()
	switch w.Kind {
	case LastNDays:
		end = reference
		start = reference.AddDate(0, 0, -w.N+1) // -n+1 to include today
		start = time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, loc)
	case LastNMonths:
		end = reference
		start = reference.AddDate(0, -w.N, 0)
		start = time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, loc)
	case LastNYears:
		end = reference
		start = reference.AddDate(-w.N, 0, 0)
		start = time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, loc)
	case ExplicitRange:
		start, end = w.Start, w.End
	}
	return start, end
}

// String describes the window for report headers.
func (w Window) String() string {
	switch w.Kind {
	case LastNDays:
		return fmt.Sprintf("last %d days", w.N)
	case LastNMonths:
		return fmt.Sprintf("last %d months", w.N)
	case LastNYears:
		return fmt.Sprintf("last %d years", w.N)
	case ExplicitRange:
		return w.Start.Format("2006-01-02") + " to " + w.End.Format("2006-01-02")
	default:
		return "all time"
	}
}

// FilterOutcome reports what the filter kept and what it excluded, so callers
// can distinguish records outside the window from records the filter could
// not apply to at all.
type FilterOutcome struct {
	Kept []record.TransferRecord
	// NoTimestamp counts records without time information that were dropped
	// because the window is narrower than all-time. The filter is unsupported
	// for those sources rather than them simply falling outside the range.
	NoTimestamp int
	// OutOfRange counts timestamped records outside the window bounds.
	OutOfRange int
}

// Filter returns the subsequence of records whose timestamp falls inside the
// window, bounds inclusive. AllTime keeps every record, including those
// without timestamps. Filtering an already-filtered sequence with the same
// window yields an identical sequence.
func Filter(records []record.TransferRecord, w Window, reference time.Time) FilterOutcome {
	out := FilterOutcome{Kept: make([]record.TransferRecord, 0, len(records))}

	if w.Kind == AllTime {
		out.Kept = append(out.Kept, records...)
		return out
	}

	start, end := w.Resolve(reference)
	for _, r := range records {
		if !r.HasTimestamp() {
			out.NoTimestamp++
			continue
		}
		if r.Timestamp.Before(start) || r.Timestamp.After(end) {
			out.OutOfRange++
			continue
		}
		out.Kept = append(out.Kept, r)
	}
	return out
}
