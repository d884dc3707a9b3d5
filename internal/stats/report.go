package stats

import (
	"time"

	"github.com/Player6734/slskd-stats/internal/record"
)

// DirectionStats bundles the aggregate and rankings for one transfer
// direction. Fields are always populated; a direction with no qualifying
// records carries empty rollups and rankings, never nil.
type DirectionStats struct {
	Aggregate
	UniqueUsers       int          `json:"unique_users"`
	TopByVolume       []RankedUser `json:"top_by_volume"`
	TopBySuccessCount []RankedUser `json:"top_by_success_count"`
	TopFiletypes      []RankedType `json:"top_filetypes"`
}

// Meta surfaces what the report had to leave out.
type Meta struct {
	// SkippedRows counts raw rows dropped as malformed during normalization.
	SkippedRows int `json:"skipped_rows"`
	// NoTimestampRows counts records a narrower-than-all-time window could
	// not be applied to because their source carries no timestamps.
	NoTimestampRows int `json:"no_timestamp_rows"`
	// FilterUnsupported is set when NoTimestampRows > 0, flagging that the
	// requested time filter was unsupported for part of the input.
	FilterUnsupported bool `json:"filter_unsupported"`
	// OutOfRangeRows counts timestamped records outside the window.
	OutOfRangeRows int      `json:"out_of_range_rows"`
	Warnings       []string `json:"warnings"`
}

// StatsResult is the immutable output of one report request.
type StatsResult struct {
	Window     string         `json:"window"`
	BucketUnit string         `json:"bucket_unit"`
	TopK       int            `json:"top_k"`
	Upload     DirectionStats `json:"upload"`
	Download   DirectionStats `json:"download"`
	Meta       Meta           `json:"meta"`
}

// Options parameterizes a report request.
type Options struct {
	Window    Window
	Reference time.Time // zero means time.Now()
	TopK      int
	Bucket    BucketUnit
	// Warnings from source collaborators (e.g. a file that yielded no valid
	// rows) carried through into the result metadata.
	Warnings []string
}

// BuildReport runs the full engine pipeline over a raw-row snapshot:
// normalize, filter, aggregate and rank, for both directions. Per-row
// failures are recovered locally; a bad row never aborts the report. Zero
// input rows produce a valid all-empty result.
func BuildReport(rows []record.RawRow, opts Options) StatsResult {
	if opts.Reference.IsZero() {
		opts.Reference = time.Now()
	}

	records := make([]record.TransferRecord, 0, len(rows))
	skipped := 0
	for _, row := range rows {
		rec, err := record.Normalize(row)
		if err != nil {
			skipped++
			continue
		}
		records = append(records, rec)
	}

	outcome := Filter(records, opts.Window, opts.Reference)

	var uploads, downloads []record.TransferRecord
	for _, r := range outcome.Kept {
		if r.Direction == record.Download {
			downloads = append(downloads, r)
		} else {
			uploads = append(uploads, r)
		}
	}

	warnings := append([]string{}, opts.Warnings...)

	return StatsResult{
		Window:     opts.Window.String(),
		BucketUnit: opts.Bucket.String(),
		TopK:       opts.TopK,
		Upload:     buildDirection(uploads, opts),
		Download:   buildDirection(downloads, opts),
		Meta: Meta{
			SkippedRows:       skipped,
			NoTimestampRows:   outcome.NoTimestamp,
			FilterUnsupported: outcome.NoTimestamp > 0,
			OutOfRangeRows:    outcome.OutOfRange,
			Warnings:          warnings,
		},
	}
}

func buildDirection(records []record.TransferRecord, opts Options) DirectionStats {
	agg := Compute(records, opts.Bucket)
	return DirectionStats{
		Aggregate:         agg,
		UniqueUsers:       len(agg.ByUser),
		TopByVolume:       TopUsers(agg.ByUser, RankByVolume, opts.TopK),
		TopBySuccessCount: TopUsers(agg.ByUser, RankBySuccessCount, opts.TopK),
		TopFiletypes:      TopFiletypes(agg.ByFiletype, opts.TopK),
	}
}
