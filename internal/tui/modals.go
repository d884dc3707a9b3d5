package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Preset labels
var presetLabels = []string{
	"All time",
	"Last 7 days",
	"Last 30 days",
	"Last 90 days",
	"Last year",
}

// viewDatePicker renders the date range picker modal
func (m Model) viewDatePicker() string {
	var b strings.Builder

	b.WriteString(ModalTitleStyle.Render("Select Time Period"))
	b.WriteString("\n\n")

	for i, label := range presetLabels {
		cursor := "  "
		style := UnselectedStyle
		if i == m.presetCursor {
			cursor = "▶ "
			style = SelectedStyle
		}

		b.WriteString(fmt.Sprintf("%s%s", cursor, style.Render(label)))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(HelpStyle.Render("↑/↓ navigate  Enter select  Esc cancel"))

	return m.centerModal(b.String())
}

// viewHelp renders the help modal
func (m Model) viewHelp() string {
	var b strings.Builder

	b.WriteString(ModalTitleStyle.Render("Keyboard Shortcuts"))
	b.WriteString("\n\n")

	helpItems := []struct{ key, desc string }{
		{"q", "Quit"},
		{"d", "Change time period"},
		{"tab", "Toggle upload/download"},
		{"b", "Toggle day/month buckets"},
		{"r", "Reload source files"},
		{"?", "Toggle help"},
		{"Esc", "Close modal"},
	}

	for _, item := range helpItems {
		b.WriteString(fmt.Sprintf("  %s  %s\n",
			HelpKeyStyle.Render(fmt.Sprintf("%-6s", item.key)),
			HelpStyle.Render(item.desc)))
	}

	b.WriteString("\n")
	b.WriteString(HelpStyle.Render("Press any key to close"))

	return m.centerModal(b.String())
}

// centerModal centers rendered modal content in the window.
func (m Model) centerModal(content string) string {
	modal := ModalStyle.Render(content)

	modalWidth := lipgloss.Width(modal)
	modalHeight := lipgloss.Height(modal)

	padLeft := (m.width - modalWidth) / 2
	padTop := (m.height - modalHeight) / 2

	if padLeft < 0 {
		padLeft = 0
	}
	if padTop < 0 {
		padTop = 0
	}

	var out strings.Builder
	out.WriteString(strings.Repeat("\n", padTop))
	for _, line := range strings.Split(modal, "\n") {
		out.WriteString(strings.Repeat(" ", padLeft))
		out.WriteString(line)
		out.WriteString("\n")
	}

	return out.String()
}
