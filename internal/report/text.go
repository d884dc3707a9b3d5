package report

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/Player6734/slskd-stats/internal/stats"
)

// Render formats a full statistics result as a text report. Directions with
// no qualifying records render a one-line notice instead of empty tables.
func Render(res stats.StatsResult, showUploads, showDownloads bool) string {
	var b strings.Builder

	if showUploads {
		renderDirection(&b, "Upload", res.Upload, res)
	}
	if showDownloads {
		renderDirection(&b, "Download", res.Download, res)
	}
	renderMeta(&b, res.Meta)

	return b.String()
}

func renderDirection(b *strings.Builder, name string, d stats.DirectionStats, res stats.StatsResult) {
	fmt.Fprintf(b, "\n=== %s STATISTICS ===\n\n", strings.ToUpper(name))

	if d.Totals.Count == 0 {
		fmt.Fprintf(b, "No %s data found for the specified period.\n", strings.ToLower(name))
		return
	}

	t := d.Totals
	fmt.Fprintf(b, "Period: %s\n", res.Window)
	fmt.Fprintf(b, "Total %ss: %s\n", name, humanize.Comma(int64(t.Count)))
	fmt.Fprintf(b, "Total Data %sed: %s\n", name, FormatBytes(float64(t.TotalBytes)))
	fmt.Fprintf(b, "  Succeeded: %s files, %s\n",
		humanize.Comma(int64(t.SuccessCount)), FormatBytes(float64(t.SuccessBytes)))
	fmt.Fprintf(b, "  Failed:    %s files, %s\n",
		humanize.Comma(int64(t.FailedCount)), FormatBytes(float64(t.FailedBytes)))
	if t.OtherCount > 0 {
		fmt.Fprintf(b, "  Other:     %s files\n", humanize.Comma(int64(t.OtherCount)))
	}
	fmt.Fprintf(b, "Unique Users: %d\n", d.UniqueUsers)

	if avg, ok := d.AvgSpeed.Value(); ok {
		fmt.Fprintf(b, "Average %s Speed: %s\n", name, FormatSpeed(avg))
	} else {
		fmt.Fprintf(b, "Average %s Speed: n/a\n", name)
	}
	if avg, ok := d.AvgDuration.Value(); ok {
		fmt.Fprintf(b, "Average %s Duration: %s\n", name, FormatDuration(avg))
	} else {
		fmt.Fprintf(b, "Average %s Duration: n/a\n", name)
	}

	if attempts := t.SuccessCount + t.FailedCount; attempts > 0 {
		rate := float64(t.FailedCount) / float64(attempts) * 100
		fmt.Fprintf(b, "Error Rate: %.2f%% (%d of %d)\n", rate, t.FailedCount, attempts)
	}

	if len(d.TopByVolume) > 0 {
		fmt.Fprintf(b, "\n--- Top Users by Data %sed ---\n", name)
		for i, u := range d.TopByVolume {
			fmt.Fprintf(b, "%d. %s: %s files, %s\n",
				i+1, u.Username, humanize.Comma(int64(u.Count)), FormatBytes(float64(u.TotalBytes)))
		}
	}

	if len(d.TopBySuccessCount) > 0 {
		fmt.Fprintf(b, "\n--- Top Users by Successful Transfers ---\n")
		for i, u := range d.TopBySuccessCount {
			fmt.Fprintf(b, "%d. %s: %s files, %s\n",
				i+1, u.Username, humanize.Comma(int64(u.SuccessCount)), FormatBytes(float64(u.SuccessBytes)))
		}
	}

	if len(d.TopFiletypes) > 0 {
		fmt.Fprintf(b, "\n--- Top File Types ---\n")
		for i, ft := range d.TopFiletypes {
			fmt.Fprintf(b, "%d. %s: %s files, %s\n",
				i+1, ft.Ext, humanize.Comma(int64(ft.Count)), FormatBytes(float64(ft.TotalBytes)))
		}
	}

	if len(d.TimeSeries) > 0 {
		fmt.Fprintf(b, "\n--- Trend (per %s) ---\n", res.BucketUnit)
		layout := "2006-01-02"
		if res.BucketUnit == "month" {
			layout = "2006-01"
		}
		for _, bucket := range d.TimeSeries {
			fmt.Fprintf(b, "%s  %6s files  %s\n",
				bucket.Start.Format(layout),
				humanize.Comma(int64(bucket.Count)),
				FormatBytes(float64(bucket.TotalBytes)))
		}
	}
}

func renderMeta(b *strings.Builder, meta stats.Meta) {
	if meta.SkippedRows == 0 && !meta.FilterUnsupported && meta.OutOfRangeRows == 0 && len(meta.Warnings) == 0 {
		return
	}

	b.WriteString("\n--- Notes ---\n")
	if meta.SkippedRows > 0 {
		fmt.Fprintf(b, "Skipped %d malformed row(s).\n", meta.SkippedRows)
	}
	if meta.FilterUnsupported {
		fmt.Fprintf(b, "Time filter unsupported for %d row(s) without timestamps (excluded).\n", meta.NoTimestampRows)
	}
	if meta.OutOfRangeRows > 0 {
		fmt.Fprintf(b, "%d row(s) outside the selected period.\n", meta.OutOfRangeRows)
	}
	for _, w := range meta.Warnings {
		fmt.Fprintf(b, "Warning: %s\n", w)
	}
}
