package main

import (
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/olivier-w/jorik/internal/ui"
	zlog "github.com/rs/zerolog/log"
)

// startupResolvedMsg reports that the initial fetch finished. Its outcome
// is already in the store; err is only logged.
type startupResolvedMsg struct {
	err error
}

// startupModel shows a splash while the first authoritative fetch runs, then
// hands the program over to the main model.
type startupModel struct {
	next    ui.Model
	host    string
	initial func() error
	width   int
	height  int
	spinner spinner.Model
}

func newStartupModel(next ui.Model, host string, initial func() error) startupModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = startupStatusStyle

	return startupModel{
		next:    next,
		host:    host,
		initial: initial,
		spinner: s,
	}
}

func (m startupModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.fetchCmd(), tea.SetWindowTitle("jorik"))
}

func (m startupModel) fetchCmd() tea.Cmd {
	initial := m.initial
	return func() tea.Msg {
		if initial == nil {
			return startupResolvedMsg{}
		}
		return startupResolvedMsg{err: initial()}
	}
}

func (m startupModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case startupResolvedMsg:
		if msg.err != nil {
			zlog.Warn().Err(msg.err).Msg("initial fetch failed")
		}

		cmds := []tea.Cmd{m.next.Init()}
		if m.width > 0 || m.height > 0 {
			w, h := m.width, m.height
			cmds = append(cmds, func() tea.Msg {
				return tea.WindowSizeMsg{Width: w, Height: h}
			})
		}
		return m.next, tea.Batch(cmds...)

	case tea.KeyMsg:
		if startupIsQuit(msg) {
			return m, tea.Sequence(tea.SetWindowTitle(""), tea.Quit)
		}
	}
	return m, nil
}

func (m startupModel) View() string {
	var b strings.Builder
	b.WriteString("\n  ")
	b.WriteString(startupHeaderStyle.Render("jorik"))
	b.WriteString("\n\n  ")
	b.WriteString(m.spinner.View())
	b.WriteString(" ")
	b.WriteString(startupStatusStyle.Render("Connecting to " + m.host + "..."))
	b.WriteString("\n\n  ")
	b.WriteString(startupHelpStyle.Render("q quit"))
	b.WriteString("\n")
	return b.String()
}

func startupIsQuit(msg tea.KeyMsg) bool {
	switch msg.String() {
	case "q", "й", "esc", "ctrl+c":
		return true
	}
	return false
}

var (
	startupHeaderStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.AdaptiveColor{Light: "#5A3FC0", Dark: "#A08CFA"})
	startupStatusStyle = lipgloss.NewStyle().
				Foreground(lipgloss.AdaptiveColor{Light: "#555555", Dark: "#BBBBBB"})
	startupHelpStyle = lipgloss.NewStyle().
				Foreground(lipgloss.AdaptiveColor{Light: "#999999", Dark: "#666666"})
)
