// Package tui is the interactive front end: scan, review, confirm, clean,
// report. Blocking work runs inside tea commands so the event loop stays
// responsive.
package tui

import (
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/NeosRain/proxy-env-cleaner/internal/cleaner"
	"github.com/NeosRain/proxy-env-cleaner/internal/styles"
	"github.com/NeosRain/proxy-env-cleaner/internal/types"
)

// View state
type View int

const (
	ViewScanning View = iota
	ViewList
	ViewConfirm
	ViewCleaning
	ViewReport
)

// Messages
type (
	scanDoneMsg  struct{ findings []types.Finding }
	cleanDoneMsg struct{ report *types.Report }
)

// Model is the main TUI model.
type Model struct {
	cleaner cleaner.Cleaner
	opts    types.CleanOptions
	lang    types.Language

	view     View
	spinner  spinner.Model
	findings []types.Finding
	report   *types.Report

	scroll int
	width  int
	height int
}

// NewModel creates a new model.
func NewModel(c cleaner.Cleaner, opts types.CleanOptions, lang types.Language) *Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(styles.ColorPrimary)

	return &Model{
		cleaner: c,
		opts:    opts,
		lang:    lang,
		view:    ViewScanning,
		spinner: s,
	}
}

func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.doScan())
}

func (m *Model) doScan() tea.Cmd {
	return func() tea.Msg {
		return scanDoneMsg{findings: m.cleaner.DetectAll()}
	}
}

func (m *Model) doClean() tea.Cmd {
	return func() tea.Msg {
		return cleanDoneMsg{report: m.cleaner.CleanAll(m.opts)}
	}
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case scanDoneMsg:
		m.findings = msg.findings
		m.view = ViewList
		return m, nil

	case cleanDoneMsg:
		m.report = msg.report
		m.view = ViewReport
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q":
		return m, tea.Quit
	}

	switch m.view {
	case ViewList:
		switch msg.String() {
		case "up", "k":
			if m.scroll > 0 {
				m.scroll--
			}
		case "down", "j":
			if m.scroll < len(m.foundFindings())-1 {
				m.scroll++
			}
		case "enter", "c":
			if len(m.foundFindings()) > 0 {
				m.view = ViewConfirm
			}
		case "r":
			m.view = ViewScanning
			return m, tea.Batch(m.spinner.Tick, m.doScan())
		}
	case ViewConfirm:
		switch msg.String() {
		case "y", "enter":
			m.view = ViewCleaning
			return m, tea.Batch(m.spinner.Tick, m.doClean())
		case "n", "esc":
			m.view = ViewList
		}
	case ViewReport:
		switch msg.String() {
		case "enter", "esc":
			return m, tea.Quit
		case "r":
			m.view = ViewScanning
			m.report = nil
			return m, tea.Batch(m.spinner.Tick, m.doScan())
		}
	}
	return m, nil
}

func (m *Model) foundFindings() []types.Finding {
	var found []types.Finding
	for _, f := range m.findings {
		if f.Found {
			found = append(found, f)
		}
	}
	return found
}
