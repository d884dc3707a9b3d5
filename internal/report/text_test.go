package report

import (
	"strings"
	"testing"
	"time"

	"github.com/Player6734/slskd-stats/internal/record"
	"github.com/Player6734/slskd-stats/internal/stats"
)

func sampleResult(t *testing.T) stats.StatsResult {
	t.Helper()
	ts := time.Date(2025, 4, 10, 8, 0, 0, 0, time.UTC)
	rows := []record.RawRow{
		record.LegacyRow{
			Direction: "Upload", Username: "alice", Filename: "a.flac",
			Size: 2 * 1024 * 1024, BytesTransferred: 2 * 1024 * 1024,
			State: "Completed, Succeeded", RequestedAt: ts,
		},
		record.LegacyRow{
			Direction: "Upload", Username: "bob", Filename: "b.mp3",
			Size: 1024 * 1024, BytesTransferred: 0,
			State: "Completed, Errored", RequestedAt: ts,
		},
	}
	return stats.BuildReport(rows, stats.Options{
		Window: stats.Window{Kind: stats.AllTime},
		TopK:   10,
	})
}

func TestRenderUploadSection(t *testing.T) {
	out := Render(sampleResult(t), true, false)

	for _, want := range []string{
		"=== UPLOAD STATISTICS ===",
		"Total Uploads: 2",
		"Succeeded: 1 files, 2.00 MB",
		"Failed:    1 files, 1.00 MB",
		"Unique Users: 2",
		"Error Rate: 50.00% (1 of 2)",
		"1. alice: 1 files, 2.00 MB",
		"flac: 1 files, 2.00 MB",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("report missing %q\n%s", want, out)
		}
	}
	if strings.Contains(out, "DOWNLOAD STATISTICS") {
		t.Error("download section rendered while disabled")
	}
}

func TestRenderEmptyDirection(t *testing.T) {
	out := Render(sampleResult(t), false, true)
	if !strings.Contains(out, "No download data found for the specified period.") {
		t.Errorf("missing empty-direction notice:\n%s", out)
	}
}

func TestRenderUndefinedAverages(t *testing.T) {
	// No speed or duration samples: averages must read n/a, never 0.
	out := Render(sampleResult(t), true, false)
	if !strings.Contains(out, "Average Upload Speed: n/a") {
		t.Errorf("undefined speed not reported as n/a:\n%s", out)
	}
	if strings.Contains(out, "Average Upload Speed: 0") {
		t.Error("undefined average rendered as a measured zero")
	}
}

func TestRenderNotes(t *testing.T) {
	res := sampleResult(t)
	res.Meta.SkippedRows = 3
	res.Meta.FilterUnsupported = true
	res.Meta.NoTimestampRows = 5
	res.Meta.Warnings = []string{"database x.db: no transfer rows"}

	out := Render(res, true, true)
	for _, want := range []string{
		"Skipped 3 malformed row(s).",
		"Time filter unsupported for 5 row(s) without timestamps",
		"Warning: database x.db: no transfer rows",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("notes missing %q\n%s", want, out)
		}
	}
}
