// Package tui provides the terminal dashboard for slskd-stats.
package tui

import (
	"github.com/charmbracelet/lipgloss"
)

// Colors
var (
	primaryColor = lipgloss.Color("#7C3AED") // Purple
	successColor = lipgloss.Color("#10B981") // Green
	accentColor  = lipgloss.Color("#F59E0B") // Amber
	errorColor   = lipgloss.Color("#EF4444") // Red
	mutedColor   = lipgloss.Color("#6B7280") // Gray
	textColor    = lipgloss.Color("#F3F4F6") // Light gray
	bgColor      = lipgloss.Color("#1F2937") // Dark gray
)

// Styles
var (
	// Title bar
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(primaryColor).
			Background(bgColor).
			Padding(0, 1)

	// Panel styles
	PanelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(mutedColor).
			Padding(0, 1)

	PanelTitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(primaryColor)

	// Stats display
	LabelStyle = lipgloss.NewStyle().
			Foreground(mutedColor)

	ValueStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(textColor)

	SuccessStyle = lipgloss.NewStyle().
			Foreground(successColor).
			Bold(true)

	FailedStyle = lipgloss.NewStyle().
			Foreground(errorColor).
			Bold(true)

	TotalStyle = lipgloss.NewStyle().
			Foreground(primaryColor).
			Bold(true)

	// Chart styles
	ChartBar = lipgloss.NewStyle().
			Foreground(successColor)

	ChartLabel = lipgloss.NewStyle().
			Foreground(mutedColor)

	// Help bar
	HelpStyle = lipgloss.NewStyle().
			Foreground(mutedColor)

	HelpKeyStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(primaryColor)

	// Modal styles
	ModalStyle = lipgloss.NewStyle().
			Border(lipgloss.DoubleBorder()).
			BorderForeground(primaryColor).
			Padding(1, 2).
			Background(bgColor)

	ModalTitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(primaryColor).
			MarginBottom(1)

	SelectedStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(textColor).
			Background(primaryColor).
			Padding(0, 1)

	UnselectedStyle = lipgloss.NewStyle().
			Foreground(textColor).
			Padding(0, 1)

	// Error display
	ErrorStyle = lipgloss.NewStyle().
			Foreground(errorColor).
			Bold(true)

	// Warning display
	WarnStyle = lipgloss.NewStyle().
			Foreground(accentColor)
)

// Symbols
const (
	SymbolUpload   = "▲"
	SymbolDownload = "▼"
	SymbolTotal    = "⇅"
	SymbolBar      = "█"
)
