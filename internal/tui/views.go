package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/Player6734/slskd-stats/internal/record"
	"github.com/Player6734/slskd-stats/internal/report"
	"github.com/Player6734/slskd-stats/internal/stats"
)

// current returns the stats for the selected direction.
func (m Model) current() *stats.DirectionStats {
	if m.result == nil {
		return nil
	}
	if m.direction == record.Download {
		return &m.result.Download
	}
	return &m.result.Upload
}

// viewDashboard renders the main dashboard
func (m Model) viewDashboard() string {
	var b strings.Builder

	// Header
	b.WriteString(m.renderHeader())
	b.WriteString("\n")

	switch {
	case m.loading:
		b.WriteString(PanelStyle.Width(m.width - 2).Render(LabelStyle.Render("Loading sources...")))

	case m.loadErr != "":
		errMsg := ErrorStyle.Render("⚠ Could not load sources")
		errMsg += "\n" + LabelStyle.Render(m.loadErr)
		b.WriteString(PanelStyle.Width(m.width - 2).Render(errMsg))

	default:
		// Summary and top users side by side
		summary := m.renderSummary()
		topUsers := m.renderTopUsers()

		leftWidth := m.width/2 - 2
		rightWidth := m.width - leftWidth - 4

		summaryPanel := PanelStyle.Width(leftWidth).Render(summary)
		usersPanel := PanelStyle.Width(rightWidth).Render(topUsers)

		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, summaryPanel, " ", usersPanel))
		b.WriteString("\n")

		// File types and trend chart side by side
		typesPanel := PanelStyle.Width(leftWidth).Render(m.renderFiletypes())
		chartPanel := PanelStyle.Width(rightWidth).Render(m.renderChart())

		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, typesPanel, " ", chartPanel))
	}

	b.WriteString("\n")

	// Result metadata notes
	if notes := m.renderNotes(); notes != "" {
		b.WriteString(notes)
		b.WriteString("\n")
	}

	// Help bar
	b.WriteString(m.renderHelpBar())

	return b.String()
}

// renderHeader renders the top header bar
func (m Model) renderHeader() string {
	var parts []string

	parts = append(parts, TitleStyle.Render("slskd-stats"))

	symbol := SymbolUpload
	if m.direction == record.Download {
		symbol = SymbolDownload
	}
	parts = append(parts, LabelStyle.Render("Direction: ")+ValueStyle.Render(symbol+" "+m.direction.String()))

	if m.result != nil {
		parts = append(parts, LabelStyle.Render("Period: ")+ValueStyle.Render(m.result.Window))
		parts = append(parts, LabelStyle.Render("Bucket: ")+ValueStyle.Render(m.result.BucketUnit))
	}

	sources := len(m.dbPaths) + len(m.htmlPaths)
	parts = append(parts, LabelStyle.Render(fmt.Sprintf("Sources: %d", sources)))

	return lipgloss.JoinHorizontal(lipgloss.Center, "  "+strings.Join(parts, "  │  "))
}

// renderSummary renders the totals panel for the selected direction
func (m Model) renderSummary() string {
	var b strings.Builder

	b.WriteString(PanelTitleStyle.Render(m.direction.String() + " Summary"))
	b.WriteString("\n\n")

	d := m.current()
	if d == nil || d.Totals.Count == 0 {
		b.WriteString(LabelStyle.Render("No data for this period"))
		return b.String()
	}

	t := d.Totals
	b.WriteString(fmt.Sprintf("  Transfers: %s\n", ValueStyle.Render(fmt.Sprintf("%d", t.Count))))
	b.WriteString(fmt.Sprintf("  %s Volume: %s\n",
		TotalStyle.Render(SymbolTotal),
		ValueStyle.Render(report.FormatBytes(float64(t.TotalBytes)))))
	b.WriteString(fmt.Sprintf("  Succeeded: %s (%s)\n",
		SuccessStyle.Render(fmt.Sprintf("%d", t.SuccessCount)),
		ValueStyle.Render(report.FormatBytes(float64(t.SuccessBytes)))))
	b.WriteString(fmt.Sprintf("  Failed:    %s (%s)\n",
		FailedStyle.Render(fmt.Sprintf("%d", t.FailedCount)),
		ValueStyle.Render(report.FormatBytes(float64(t.FailedBytes)))))
	if t.OtherCount > 0 {
		b.WriteString(fmt.Sprintf("  Other:     %s\n", LabelStyle.Render(fmt.Sprintf("%d", t.OtherCount))))
	}
	b.WriteString(fmt.Sprintf("  Users:     %s\n", ValueStyle.Render(fmt.Sprintf("%d", d.UniqueUsers))))

	b.WriteString("\n")
	if avg, ok := d.AvgSpeed.Value(); ok {
		b.WriteString(fmt.Sprintf("  Avg Speed:    %s\n", ValueStyle.Render(report.FormatSpeed(avg))))
	} else {
		b.WriteString(fmt.Sprintf("  Avg Speed:    %s\n", LabelStyle.Render("n/a")))
	}
	if avg, ok := d.AvgDuration.Value(); ok {
		b.WriteString(fmt.Sprintf("  Avg Duration: %s\n", ValueStyle.Render(report.FormatDuration(avg))))
	} else {
		b.WriteString(fmt.Sprintf("  Avg Duration: %s\n", LabelStyle.Render("n/a")))
	}

	return b.String()
}

// renderTopUsers renders the top-users panel
func (m Model) renderTopUsers() string {
	var b strings.Builder

	b.WriteString(PanelTitleStyle.Render("Top Users by Volume"))
	b.WriteString("\n\n")

	d := m.current()
	if d == nil || len(d.TopByVolume) == 0 {
		b.WriteString(LabelStyle.Render("No data"))
		return b.String()
	}

	for i, u := range d.TopByVolume {
		name := u.Username
		if len(name) > 24 {
			name = name[:21] + "..."
		}
		b.WriteString(fmt.Sprintf("  %2d. %-24s %s  %s\n",
			i+1,
			ValueStyle.Render(name),
			LabelStyle.Render(fmt.Sprintf("%4d files", u.Count)),
			ValueStyle.Render(report.FormatBytes(float64(u.TotalBytes)))))
	}

	return b.String()
}

// renderFiletypes renders the top file types panel
func (m Model) renderFiletypes() string {
	var b strings.Builder

	b.WriteString(PanelTitleStyle.Render("Top File Types"))
	b.WriteString("\n\n")

	d := m.current()
	if d == nil || len(d.TopFiletypes) == 0 {
		b.WriteString(LabelStyle.Render("No data"))
		return b.String()
	}

	for i, ft := range d.TopFiletypes {
		b.WriteString(fmt.Sprintf("  %2d. %-8s %s  %s\n",
			i+1,
			ValueStyle.Render(ft.Ext),
			LabelStyle.Render(fmt.Sprintf("%4d files", ft.Count)),
			ValueStyle.Render(report.FormatBytes(float64(ft.TotalBytes)))))
	}

	return b.String()
}

// renderChart renders the bucketed volume bar chart
func (m Model) renderChart() string {
	var b strings.Builder

	b.WriteString(PanelTitleStyle.Render("Trend"))
	b.WriteString("\n\n")

	d := m.current()
	if d == nil || len(d.TimeSeries) == 0 {
		b.WriteString(LabelStyle.Render("No time data (HTML sources carry no timestamps)"))
		return b.String()
	}

	// Find max value for scaling
	var maxBytes int64
	for _, bucket := range d.TimeSeries {
		if bucket.TotalBytes > maxBytes {
			maxBytes = bucket.TotalBytes
		}
	}
	if maxBytes == 0 {
		b.WriteString(LabelStyle.Render("No volume recorded"))
		return b.String()
	}

	chartWidth := m.width/2 - 30
	if chartWidth < 16 {
		chartWidth = 16
	}

	layout := "2006-01-02"
	if m.bucket == stats.BucketMonth {
		layout = "2006-01"
	}

	// Limit to the most recent buckets
	series := d.TimeSeries
	if len(series) > 12 {
		series = series[len(series)-12:]
	}

	for _, bucket := range series {
		label := ChartLabel.Render(fmt.Sprintf("%-10s", bucket.Start.Format(layout)))

		barLen := int(float64(bucket.TotalBytes) / float64(maxBytes) * float64(chartWidth))
		if barLen == 0 && bucket.TotalBytes > 0 {
			barLen = 1
		}
		bar := ChartBar.Render(strings.Repeat(SymbolBar, barLen))

		value := LabelStyle.Render(report.FormatBytes(float64(bucket.TotalBytes)))
		b.WriteString(fmt.Sprintf("  %s %s %s\n", label, bar, value))
	}

	return b.String()
}

// renderNotes renders result metadata worth surfacing
func (m Model) renderNotes() string {
	if m.result == nil {
		return ""
	}

	meta := m.result.Meta
	var parts []string
	if meta.SkippedRows > 0 {
		parts = append(parts, fmt.Sprintf("%d malformed rows skipped", meta.SkippedRows))
	}
	if meta.FilterUnsupported {
		parts = append(parts, fmt.Sprintf("time filter unsupported for %d rows", meta.NoTimestampRows))
	}
	if meta.OutOfRangeRows > 0 {
		parts = append(parts, fmt.Sprintf("%d rows outside period", meta.OutOfRangeRows))
	}
	if n := len(meta.Warnings); n > 0 {
		parts = append(parts, fmt.Sprintf("%d source warnings", n))
	}

	if len(parts) == 0 {
		return ""
	}
	return "  " + WarnStyle.Render("⚠ "+strings.Join(parts, "  ·  "))
}

// renderHelpBar renders the bottom help bar
func (m Model) renderHelpBar() string {
	keys := []string{
		HelpKeyStyle.Render("q") + HelpStyle.Render(" quit"),
		HelpKeyStyle.Render("d") + HelpStyle.Render(" date"),
		HelpKeyStyle.Render("tab") + HelpStyle.Render(" direction"),
		HelpKeyStyle.Render("b") + HelpStyle.Render(" bucket"),
		HelpKeyStyle.Render("r") + HelpStyle.Render(" reload"),
		HelpKeyStyle.Render("?") + HelpStyle.Render(" help"),
	}
	return "  " + strings.Join(keys, "  ")
}
