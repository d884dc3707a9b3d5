// Package tui provides the terminal dashboard for slskd-stats.
package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/Player6734/slskd-stats/internal/record"
	"github.com/Player6734/slskd-stats/internal/source"
	"github.com/Player6734/slskd-stats/internal/stats"
)

// View represents the current view state
type View int

const (
	ViewDashboard View = iota
	ViewDatePicker
	ViewHelp
)

// WindowPreset represents a date range option
type WindowPreset int

const (
	PresetAllTime WindowPreset = iota
	PresetLast7Days
	PresetLast30Days
	PresetLast90Days
	PresetLastYear
)

// window maps a preset to the engine's filter parameter.
func (p WindowPreset) window() stats.Window {
	switch p {
	case PresetLast7Days:
		return stats.Window{Kind: stats.LastNDays, N: 7}
	case PresetLast30Days:
		return stats.Window{Kind: stats.LastNDays, N: 30}
	case PresetLast90Days:
		return stats.Window{Kind: stats.LastNDays, N: 90}
	case PresetLastYear:
		return stats.Window{Kind: stats.LastNYears, N: 1}
	default:
		return stats.Window{Kind: stats.AllTime}
	}
}

// KeyMap defines the key bindings
type KeyMap struct {
	Quit      key.Binding
	DateRange key.Binding
	Direction key.Binding
	Bucket    key.Binding
	Refresh   key.Binding
	Help      key.Binding
	Up        key.Binding
	Down      key.Binding
	Enter     key.Binding
	Escape    key.Binding
}

var DefaultKeyMap = KeyMap{
	Quit:      key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	DateRange: key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "date range")),
	Direction: key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "direction")),
	Bucket:    key.NewBinding(key.WithKeys("b"), key.WithHelp("b", "bucket unit")),
	Refresh:   key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reload")),
	Help:      key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
	Up:        key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
	Down:      key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
	Enter:     key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "select")),
	Escape:    key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
}

// Messages
type loadedMsg struct {
	rows     []record.RawRow
	warnings []string
	err      error
}

// Model is the main TUI model
type Model struct {
	// Sources
	dbPaths   []string
	htmlPaths []string

	// Raw-row snapshot; reports recompute from it without touching the files.
	rows     []record.RawRow
	warnings []string
	loading  bool
	loadErr  string

	// Report parameters
	preset    WindowPreset
	topK      int
	bucket    stats.BucketUnit
	direction record.Direction

	// Computed result
	result *stats.StatsResult

	// UI state
	currentView   View
	presetCursor  int
	width, height int
	keys          KeyMap
}

// New creates a new TUI model.
func New(dbPaths, htmlPaths []string, topK int, bucket stats.BucketUnit) Model {
	return Model{
		dbPaths:     dbPaths,
		htmlPaths:   htmlPaths,
		topK:        topK,
		bucket:      bucket,
		preset:      PresetAllTime,
		currentView: ViewDashboard,
		loading:     true,
		keys:        DefaultKeyMap,
	}
}

// Init initializes the model
func (m Model) Init() tea.Cmd {
	return m.load()
}

// load reads every source off the UI goroutine so the interface stays
// responsive while large files are read.
func (m Model) load() tea.Cmd {
	dbPaths, htmlPaths := m.dbPaths, m.htmlPaths
	return func() tea.Msg {
		rows, warnings, err := source.Load(dbPaths, htmlPaths)
		return loadedMsg{rows: rows, warnings: warnings, err: err}
	}
}

// recompute rebuilds the report from the in-memory snapshot.
func (m *Model) recompute() {
	res := stats.BuildReport(m.rows, stats.Options{
		Window:   m.preset.window(),
		TopK:     m.topK,
		Bucket:   m.bucket,
		Warnings: m.warnings,
	})
	m.result = &res
}

// Update handles messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case loadedMsg:
		m.loading = false
		if msg.err != nil {
			m.loadErr = msg.err.Error()
			return m, nil
		}
		m.loadErr = ""
		m.rows = msg.rows
		m.warnings = msg.warnings
		m.recompute()
		return m, nil
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.currentView {
	case ViewDashboard:
		return m.handleDashboardKey(msg)
	case ViewDatePicker:
		return m.handleDatePickerKey(msg)
	case ViewHelp:
		return m.handleHelpKey(msg)
	}
	return m, nil
}

func (m Model) handleDashboardKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.DateRange):
		m.currentView = ViewDatePicker
		m.presetCursor = int(m.preset)
		return m, nil

	case key.Matches(msg, m.keys.Help):
		m.currentView = ViewHelp
		return m, nil

	case key.Matches(msg, m.keys.Direction):
		if m.direction == record.Upload {
			m.direction = record.Download
		} else {
			m.direction = record.Upload
		}
		return m, nil

	case key.Matches(msg, m.keys.Bucket):
		if m.bucket == stats.BucketDay {
			m.bucket = stats.BucketMonth
		} else {
			m.bucket = stats.BucketDay
		}
		m.recompute()
		return m, nil

	case key.Matches(msg, m.keys.Refresh):
		m.loading = true
		return m, m.load()
	}
	return m, nil
}

func (m Model) handleDatePickerKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Escape):
		m.currentView = ViewDashboard
		return m, nil

	case key.Matches(msg, m.keys.Up):
		if m.presetCursor > 0 {
			m.presetCursor--
		}
		return m, nil

	case key.Matches(msg, m.keys.Down):
		if m.presetCursor < len(presetLabels)-1 {
			m.presetCursor++
		}
		return m, nil

	case key.Matches(msg, m.keys.Enter):
		m.preset = WindowPreset(m.presetCursor)
		m.currentView = ViewDashboard
		m.recompute()
		return m, nil
	}
	return m, nil
}

func (m Model) handleHelpKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Escape), key.Matches(msg, m.keys.Help), key.Matches(msg, m.keys.Quit):
		m.currentView = ViewDashboard
		return m, nil
	}
	return m, nil
}

// View renders the UI
func (m Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	switch m.currentView {
	case ViewDatePicker:
		return m.viewDatePicker()
	case ViewHelp:
		return m.viewHelp()
	default:
		return m.viewDashboard()
	}
}
