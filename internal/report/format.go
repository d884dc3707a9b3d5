// Package report renders a StatsResult into the human-readable text report.
package report

import "fmt"

var byteUnits = [...]string{"B", "KB", "MB", "GB", "TB"}

// FormatBytes formats a byte count with 1024-based units.
func FormatBytes(b float64) string {
	if b == 0 {
		return "0 B"
	}
	i := 0
	for b >= 1024 && i < len(byteUnits)-1 {
		b /= 1024
		i++
	}
	if i == 0 {
		return fmt.Sprintf("%.0f B", b)
	}
	return fmt.Sprintf("%.2f %s", b, byteUnits[i])
}

// FormatSpeed formats a transfer rate.
func FormatSpeed(bytesPerSec float64) string {
	return FormatBytes(bytesPerSec) + "/s"
}

// FormatDuration formats seconds into a readable unit.
func FormatDuration(seconds float64) string {
	switch {
	case seconds < 60:
		return fmt.Sprintf("%.2f seconds", seconds)
	case seconds < 3600:
		return fmt.Sprintf("%.2f minutes", seconds/60)
	default:
		return fmt.Sprintf("%.2f hours", seconds/3600)
	}
}
