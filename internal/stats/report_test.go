package stats

import (
	"testing"
	"time"

	"github.com/Player6734/slskd-stats/internal/record"
)

func legacyRow(user string, ts time.Time) record.LegacyRow {
	return record.LegacyRow{
		Direction:        "Upload",
		Username:         user,
		Filename:         "track.flac",
		Size:             1000,
		BytesTransferred: 1000,
		State:            "Completed, Succeeded",
		RequestedAt:      ts,
	}
}

func htmlRow(user string) record.HTMLRow {
	return record.HTMLRow{
		Username:         user,
		Filename:         "track.mp3",
		TransferredBytes: 500,
		SizeBytes:        500,
		Status:           "Completed, Succeeded",
	}
}

func TestBuildReportEmptyInput(t *testing.T) {
	res := BuildReport(nil, Options{Window: Window{Kind: AllTime}, TopK: 10})

	if res.Upload.ByUser == nil || res.Download.ByUser == nil {
		t.Error("rollup maps must be non-nil on empty input")
	}
	if res.Upload.TopByVolume == nil || res.Download.TopBySuccessCount == nil {
		t.Error("rankings must be non-nil on empty input")
	}
	if res.Upload.Totals.Count != 0 || res.Download.Totals.Count != 0 {
		t.Error("empty input must produce zero totals")
	}
	if res.Meta.Warnings == nil {
		t.Error("warnings slice must be non-nil")
	}
}

func TestBuildReportSkipsMalformed(t *testing.T) {
	ts := time.Now()
	rows := []record.RawRow{
		legacyRow("good", ts),
		record.LegacyRow{Username: "", Size: 1, BytesTransferred: 1}, // malformed
		legacyRow("also-good", ts),
	}

	res := BuildReport(rows, Options{Window: Window{Kind: AllTime}, TopK: 10})

	if res.Meta.SkippedRows != 1 {
		t.Errorf("SkippedRows = %d, want 1", res.Meta.SkippedRows)
	}
	if res.Upload.Totals.Count != 2 {
		t.Errorf("Count = %d, want 2 (bad row must not abort the report)", res.Upload.Totals.Count)
	}
}

// Mixing timestamped database rows with timestamp-free HTML rows under a
// narrow filter must report the two exclusion reasons separately.
func TestBuildReportMixedSourcesFiltered(t *testing.T) {
	ref := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	rows := []record.RawRow{
		legacyRow("db-recent", ref.AddDate(0, 0, -5)),
		legacyRow("db-old", ref.AddDate(0, 0, -200)),
		htmlRow("html-1"),
		htmlRow("html-2"),
	}

	res := BuildReport(rows, Options{
		Window:    Window{Kind: LastNDays, N: 30},
		Reference: ref,
		TopK:      10,
	})

	if res.Upload.Totals.Count != 1 {
		t.Errorf("Count = %d, want 1", res.Upload.Totals.Count)
	}
	if res.Meta.NoTimestampRows != 2 {
		t.Errorf("NoTimestampRows = %d, want 2", res.Meta.NoTimestampRows)
	}
	if !res.Meta.FilterUnsupported {
		t.Error("FilterUnsupported must be set when timestamp-free rows were excluded")
	}
	if res.Meta.OutOfRangeRows != 1 {
		t.Errorf("OutOfRangeRows = %d, want 1", res.Meta.OutOfRangeRows)
	}
}

func TestBuildReportSplitsDirections(t *testing.T) {
	ts := time.Now()
	up := legacyRow("uploader", ts)
	down := legacyRow("downloader", ts)
	down.Direction = "Download"

	res := BuildReport([]record.RawRow{up, down}, Options{Window: Window{Kind: AllTime}, TopK: 5})

	if res.Upload.Totals.Count != 1 {
		t.Errorf("Upload.Count = %d, want 1", res.Upload.Totals.Count)
	}
	if res.Download.Totals.Count != 1 {
		t.Errorf("Download.Count = %d, want 1", res.Download.Totals.Count)
	}
	if res.Upload.TopByVolume[0].Username != "uploader" {
		t.Errorf("Upload top user = %s, want uploader", res.Upload.TopByVolume[0].Username)
	}
}

func TestBuildReportCarriesWarnings(t *testing.T) {
	res := BuildReport(nil, Options{
		Window:   Window{Kind: AllTime},
		Warnings: []string{"database x.db: no transfer rows"},
	})
	if len(res.Meta.Warnings) != 1 {
		t.Errorf("Warnings = %v, want the source warning carried through", res.Meta.Warnings)
	}
}
