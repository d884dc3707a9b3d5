package stats

import (
	"sort"
	"time"

	"github.com/Player6734/slskd-stats/internal/record"
)

// BucketUnit is the width of a time-series bucket.
type BucketUnit int

const (
	BucketDay BucketUnit = iota
	BucketMonth
)

func (u BucketUnit) String() string {
	if u == BucketMonth {
		return "month"
	}
	return "day"
}

// Truncate returns the bucket start for a timestamp.
func (u BucketUnit) Truncate(t time.Time) time.Time {
	y, m, d := t.Date()
	if u == BucketMonth {
		d = 1
	}
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// Mean accumulates samples and distinguishes "no samples" from a zero mean.
type Mean struct {
	Sum float64 `json:"sum"`
	N   int     `json:"n"`
}

// Add records one sample.
func (m *Mean) Add(v float64) {
	m.Sum += v
	m.N++
}

// Value returns the mean and whether it is defined. An empty sample set has
// no mean; it is never reported as 0.
func (m Mean) Value() (float64, bool) {
	if m.N == 0 {
		return 0, false
	}
	return m.Sum / float64(m.N), true
}

// Totals holds the overall counters for a record sequence.
type Totals struct {
	Count        int   `json:"count"`
	TotalBytes   int64 `json:"total_bytes"`
	SuccessCount int   `json:"success_count"`
	SuccessBytes int64 `json:"success_bytes"`
	FailedCount  int   `json:"failed_count"`
	FailedBytes  int64 `json:"failed_bytes"`
	OtherCount   int   `json:"other_count"`
}

// UserTotals is the per-user rollup.
type UserTotals struct {
	Count        int   `json:"count"`
	TotalBytes   int64 `json:"total_bytes"`
	SuccessCount int   `json:"success_count"`
	SuccessBytes int64 `json:"success_bytes"`
}

// TypeTotals is the per-file-type rollup.
type TypeTotals struct {
	Count      int   `json:"count"`
	TotalBytes int64 `json:"total_bytes"`
}

// Bucket is one time-series point. The series is sparse: buckets with no
// records are omitted.
type Bucket struct {
	Start      time.Time `json:"start"`
	TotalBytes int64     `json:"total_bytes"`
	Count      int       `json:"count"`
}

// Aggregate holds everything computed in one pass over a filtered sequence.
type Aggregate struct {
	Totals      Totals                `json:"totals"`
	ByUser      map[string]UserTotals `json:"by_user"`
	ByFiletype  map[string]TypeTotals `json:"by_filetype"`
	TimeSeries  []Bucket              `json:"time_series"`
	AvgSpeed    Mean                  `json:"avg_speed"`    // bytes/sec, successful transfers only
	AvgDuration Mean                  `json:"avg_duration"` // seconds, successful transfers only
}

// volumeBytes returns the byte count a record contributes to volume totals:
// bytes actually moved for successful transfers, attempted size for failed
// ones. The two states never share a denominator.
func volumeBytes(r record.TransferRecord) int64 {
	if r.State == record.StateFailed {
		return r.SizeBytes
	}
	return r.TransferredBytes
}

// Compute aggregates a filtered record sequence. The input is not mutated and
// the result is fresh on every call; maps and slices are always non-nil so an
// empty input yields a valid all-zero report.
func Compute(records []record.TransferRecord, unit BucketUnit) Aggregate {
	agg := Aggregate{
		ByUser:     make(map[string]UserTotals),
		ByFiletype: make(map[string]TypeTotals),
		TimeSeries: []Bucket{},
	}

	buckets := make(map[time.Time]Bucket)

	for _, r := range records {
		vol := volumeBytes(r)

		agg.Totals.Count++
		agg.Totals.TotalBytes += vol
		switch r.State {
		case record.StateSucceeded:
			agg.Totals.SuccessCount++
			agg.Totals.SuccessBytes += r.TransferredBytes
			if r.SpeedBytesPerSec > 0 {
				agg.AvgSpeed.Add(r.SpeedBytesPerSec)
			}
			if r.DurationSec > 0 {
				agg.AvgDuration.Add(r.DurationSec)
			}
		case record.StateFailed:
			agg.Totals.FailedCount++
			agg.Totals.FailedBytes += r.SizeBytes
		default:
			agg.Totals.OtherCount++
		}

		user := agg.ByUser[r.Username]
		user.Count++
		user.TotalBytes += vol
		if r.State == record.StateSucceeded {
			user.SuccessCount++
			user.SuccessBytes += r.TransferredBytes
		}
		agg.ByUser[r.Username] = user

		ext := r.Ext()
		ft := agg.ByFiletype[ext]
		ft.Count++
		ft.TotalBytes += vol
		agg.ByFiletype[ext] = ft

		if r.HasTimestamp() {
			start := unit.Truncate(r.Timestamp)
			b := buckets[start]
			b.Start = start
			b.TotalBytes += vol
			b.Count++
			buckets[start] = b
		}
	}

	for _, b := range buckets {
		agg.TimeSeries = append(agg.TimeSeries, b)
	}
	sort.Slice(agg.TimeSeries, func(i, j int) bool {
		return agg.TimeSeries[i].Start.Before(agg.TimeSeries[j].Start)
	})

	return agg
}
