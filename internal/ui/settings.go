package ui

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/olivier-w/jorik/internal/config"
	"github.com/olivier-w/jorik/internal/session"
	zlog "github.com/rs/zerolog/log"
)

type settingsForm struct {
	host   textinput.Model
	offset textinput.Model
	field  int
	from   view
	err    string
	// shownHost is the host the form opened with. It may be a session-only
	// override that must not reach the settings file.
	shownHost string
}

func newSettingsForm() settingsForm {
	host := textinput.New()
	host.Prompt = "Host:   "
	host.CharLimit = 256
	host.Width = 48

	offset := textinput.New()
	offset.Prompt = "Offset: "
	offset.Placeholder = "ms"
	offset.CharLimit = 6
	offset.Width = 8

	return settingsForm{host: host, offset: offset}
}

func (f *settingsForm) focus(field int) tea.Cmd {
	f.field = field
	if field == 0 {
		f.offset.Blur()
		return f.host.Focus()
	}
	f.host.Blur()
	return f.offset.Focus()
}

// values parses the form into settings. An unparsable offset keeps fallback.
func (f settingsForm) values(fallbackOffsetMs int) config.Settings {
	s := config.Settings{
		BaseURL:            strings.TrimRight(strings.TrimSpace(f.host.Value()), "/"),
		VisualizerOffsetMs: fallbackOffsetMs,
	}
	if v, err := strconv.Atoi(strings.TrimSpace(f.offset.Value())); err == nil {
		s.VisualizerOffsetMs = v
	}
	return s
}

// ApplySettings folds settings into the session. A changed host flags the
// push stream for reconnection.
func ApplySettings(store *session.Store, s config.Settings) {
	store.Update(func(st *session.State) {
		if s.BaseURL != "" && s.BaseURL != st.BaseURL {
			st.Logf("Host changed to %s", s.BaseURL)
			st.BaseURL = s.BaseURL
			st.NeedsReconnect = true
		}
		st.VisualizerOffset = s.VisualizerOffset()
	})
}

func (m Model) openSettings(from view) (Model, tea.Cmd) {
	m.view = viewSettings
	m.settings.from = from
	m.settings.err = ""
	m.settings.shownHost = m.snap.BaseURL
	m.settings.host.SetValue(m.snap.BaseURL)
	m.settings.offset.SetValue(strconv.FormatInt(m.snap.VisualizerOffset.Milliseconds(), 10))
	return m, m.settings.focus(0)
}

func (m Model) handleSettingsKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.view = m.settings.from
		return m, nil
	case "tab", "shift+tab", "up", "down":
		return m, m.settings.focus(1 - m.settings.field)
	case "enter":
		return m.saveSettings()
	}

	var cmd tea.Cmd
	if m.settings.field == 0 {
		m.settings.host, cmd = m.settings.host.Update(msg)
	} else {
		m.settings.offset, cmd = m.settings.offset.Update(msg)
	}
	return m, cmd
}

func (m Model) saveSettings() (Model, tea.Cmd) {
	s := m.settings.values(int(m.snap.VisualizerOffset.Milliseconds()))
	if err := s.Validate(); err != nil {
		m.settings.err = err.Error()
		return m, nil
	}

	ApplySettings(m.store, s)
	path := config.SettingsPath(m.configDir)
	if err := config.SaveSettings(path, m.persisted(path, s)); err != nil {
		zlog.Error().Err(err).Msg("could not save settings")
		m.store.Logf("Could not save settings: %v", err)
	}
	m.snap = m.store.Snapshot()
	m.view = m.settings.from
	m.statusMsg = "Settings saved"
	if m.snap.Token == "" {
		return m, nil
	}
	return m, m.refreshCmd()
}

// persisted returns what to write to disk for s. An untouched host keeps
// whatever the file already holds.
func (m Model) persisted(path string, s config.Settings) config.Settings {
	if s.BaseURL != strings.TrimRight(m.settings.shownHost, "/") {
		return s
	}
	onDisk, err := config.LoadSettings(path)
	if err != nil {
		zlog.Warn().Err(err).Msg("could not read settings, saving the shown host")
		return s
	}
	s.BaseURL = onDisk.BaseURL
	return s
}
