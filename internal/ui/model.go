// Package ui is the interactive terminal client. It renders the shared
// session state and turns key presses into dispatcher requests.
package ui

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/olivier-w/jorik/internal/api"
	"github.com/olivier-w/jorik/internal/auth"
	"github.com/olivier-w/jorik/internal/config"
	"github.com/olivier-w/jorik/internal/dispatch"
	"github.com/olivier-w/jorik/internal/playback"
	"github.com/olivier-w/jorik/internal/session"
	"github.com/olivier-w/jorik/internal/stream"
	"github.com/olivier-w/jorik/internal/visualizer"
)

type view int

const (
	viewMain view = iota
	viewMenu
	viewFilterMenu
	viewLyrics
	viewAuthMenu
	viewAuthResult
	viewLoginRequired
	viewSettings
	viewDebug
)

// StreamStatus reports where the push stream is in its connect cycle.
type StreamStatus interface {
	State() stream.ReconnectState
}

// Deps are the long-lived collaborators the model drives.
type Deps struct {
	Ctx        context.Context
	Store      *session.Store
	Dispatcher *dispatch.Dispatcher
	Smoother   *visualizer.Smoother
	// Stream is shown on the debug screen when set.
	Stream StreamStatus
	// ConfigDir holds settings.yaml and auth.yaml.
	ConfigDir string
	// Login defaults to auth.Login.
	Login func(context.Context, auth.Options) (*config.Credentials, error)
	// ExportDir defaults to export.DesktopDir.
	ExportDir string
}

// Model is the Bubbletea model for the jorik TUI.
type Model struct {
	ctx        context.Context
	store      *session.Store
	dispatcher *dispatch.Dispatcher
	smoother   *visualizer.Smoother
	stream     StreamStatus
	configDir  string
	exportDir  string
	login      func(context.Context, auth.Options) (*config.Credentials, error)

	snap    session.State
	modes   []visualizer.Visualizer
	modeIdx int

	view    view
	editing bool
	input   textinput.Model

	menu       list.Model
	filterMenu list.Model
	authMenu   list.Model

	settings     settingsForm
	lyricsScroll int
	loginFrom    view
	statusMsg    string

	spinner  spinner.Model
	width    int
	height   int
	quitting bool
}

// New creates the TUI model. It starts on the login screen when the store
// holds no token.
func New(d Deps) Model {
	ctx := d.Ctx
	if ctx == nil {
		ctx = context.Background()
	}
	login := d.Login
	if login == nil {
		login = auth.Login
	}

	in := textinput.New()
	in.Placeholder = "search or paste a link"
	in.Prompt = "▶ "
	in.CharLimit = 512
	in.Width = 60

	sp := spinner.New()
	sp.Spinner = spinner.MiniDot
	sp.Style = statusStyle

	m := Model{
		ctx:        ctx,
		store:      d.Store,
		dispatcher: d.Dispatcher,
		smoother:   d.Smoother,
		stream:     d.Stream,
		configDir:  d.ConfigDir,
		exportDir:  d.ExportDir,
		login:      login,
		modes:      visualizer.Modes(),
		input:      in,
		menu:       newMenu("jorik", mainMenuItems),
		filterMenu: newMenu("Filters", filterMenuItems(api.Presets)),
		authMenu:   newMenu("Auth", authMenuItems),
		settings:   newSettingsForm(),
		spinner:    sp,
	}
	m.snap = m.store.Snapshot()
	if m.snap.Token == "" {
		m.view = viewLoginRequired
	}
	return m
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(frameCmd(), m.spinner.Tick, tea.SetWindowTitle("jorik"))
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	return m.handleMsg(msg)
}

func (m Model) handleMsg(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.input.Width = max(msg.Width-8, 10)
		return m, nil

	case frameMsg:
		now := time.Time(msg)
		m.store.Update(func(st *session.State) {
			playback.Tick(st, now, m.smoother)
		})
		m.snap = m.store.Snapshot()
		w, h := m.chartSize()
		m.modes[m.modeIdx].Update(m.snap.Bars, w, h)
		return m, frameCmd()

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case commandDoneMsg, lyricsLoadedMsg:
		m.snap = m.store.Snapshot()
		return m, nil

	case loginDoneMsg:
		m.snap = m.store.Snapshot()
		if msg.err == nil && m.loginFrom == viewLoginRequired {
			m.view = viewMain
		}
		return m, nil

	case signedOutMsg:
		m.store.Update(func(st *session.State) { st.AuthInfo = "" })
		m.snap = m.store.Snapshot()
		m.view = viewLoginRequired
		return m, nil

	case exportDoneMsg:
		if msg.err != nil {
			m.statusMsg = "Export failed: " + msg.err.Error()
		} else {
			m.statusMsg = "Saved " + msg.path
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m.quit()
	}

	// A fatal error blocks everything but the reload key.
	if m.snap.FatalError != "" {
		if keyName(msg) == "r" {
			m.store.Update(func(st *session.State) {
				st.FatalError = ""
				st.ErrorMessage = ""
			})
			m.snap = m.store.Snapshot()
			return m, m.refreshCmd()
		}
		return m, nil
	}

	if m.editing {
		return m.handleInputKey(msg)
	}

	switch m.view {
	case viewMenu:
		return m.handleMenuKey(msg)
	case viewFilterMenu:
		return m.handleFilterKey(msg)
	case viewAuthMenu:
		return m.handleAuthKey(msg)
	case viewAuthResult:
		if k := msg.String(); k == "esc" || k == "enter" {
			m.view = viewMain
			if m.snap.Token == "" {
				m.view = viewLoginRequired
			}
		}
		return m, nil
	case viewLyrics:
		return m.handleLyricsKey(msg)
	case viewLoginRequired:
		return m.handleLoginRequiredKey(msg)
	case viewSettings:
		return m.handleSettingsKey(msg)
	case viewDebug:
		return m.handleDebugKey(msg)
	}
	return m.handleMainKey(msg)
}

func (m Model) handleMainKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch keyName(msg) {
	case "q":
		return m.quit()
	case "r":
		return m, m.refreshCmd()
	case "tab":
		m.view = viewMenu
		return m, nil
	case "enter":
		return m.startEditing("")
	case "l":
		next := m.snap.Loop.Next()
		m.store.Update(func(st *session.State) { st.Loop = next })
		m.snap.Loop = next
		return m, m.sendCmd(api.Loop(next.String()))
	case "s":
		return m, m.sendCmd(api.Simple(api.ActionSkip))
	case "w":
		return m, m.sendCmd(api.Simple(api.ActionStop))
	case "c":
		return m, m.sendCmd(api.Simple(api.ActionClear))
	case "v":
		m.modeIdx = (m.modeIdx + 1) % len(m.modes)
		m.statusMsg = "Visualizer: " + m.modes[m.modeIdx].Name()
		return m, nil
	case "ctrl+d":
		m.view = viewDebug
		return m, nil
	}

	// Any other printable key starts a search with that character.
	if msg.Type == tea.KeyRunes && len(msg.Runes) > 0 {
		return m.startEditing(string(msg.Runes))
	}
	return m, nil
}

func (m Model) startEditing(seed string) (Model, tea.Cmd) {
	m.editing = true
	m.input.SetValue(seed)
	m.input.CursorEnd()
	return m, m.input.Focus()
}

func (m Model) handleInputKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.editing = false
		m.input.Reset()
		m.input.Blur()
		return m, nil
	case "enter":
		query := strings.TrimSpace(m.input.Value())
		m.editing = false
		m.input.Reset()
		m.input.Blur()
		if query == "" {
			return m, nil
		}
		m.statusMsg = "Queued: " + query
		return m, m.sendCmd(api.Play(query))
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) handleMenuKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	k := keyName(msg)
	if navigate(&m.menu, k) {
		return m, nil
	}
	switch k {
	case "esc", "tab", "q":
		m.view = viewMain
		return m, nil
	case "enter":
	default:
		return m, nil
	}

	m.view = viewMain
	switch selected(m.menu) {
	case itemSkip:
		return m, m.sendCmd(api.Simple(api.ActionSkip))
	case itemPause:
		return m, m.sendCmd(api.Simple(api.ActionPause))
	case itemStop:
		return m, m.sendCmd(api.Simple(api.ActionStop))
	case itemShuffle:
		return m, m.sendCmd(api.Simple(api.ActionShuffle))
	case itemClear:
		return m, m.sendCmd(api.Simple(api.ActionClear))
	case itemLoopTrack:
		return m.setLoop(session.LoopTrack)
	case itemLoopQueue:
		return m.setLoop(session.LoopQueue)
	case itemLoopOff:
		return m.setLoop(session.LoopOff)
	case item247:
		return m, m.sendCmd(api.TwentyFourSeven())
	case itemFilters:
		m.view = viewFilterMenu
		return m, nil
	case itemLyrics:
		m.view = viewLyrics
		m.lyricsScroll = 0
		m.store.Update(func(st *session.State) { st.Lyrics = "Loading lyrics..." })
		m.snap = m.store.Snapshot()
		return m, m.lyricsCmd()
	case itemAuth:
		m.view = viewAuthMenu
		return m, nil
	case itemSettings:
		return m.openSettings(viewMain)
	case itemExit:
		return m.quit()
	}
	return m, nil
}

func (m Model) setLoop(mode session.LoopMode) (Model, tea.Cmd) {
	m.store.Update(func(st *session.State) { st.Loop = mode })
	m.snap.Loop = mode
	return m, m.sendCmd(api.Loop(mode.String()))
}

func (m Model) handleFilterKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	k := keyName(msg)
	if navigate(&m.filterMenu, k) {
		return m, nil
	}
	switch k {
	case "esc", "backspace":
		m.view = viewMenu
	case "enter":
		name := selected(m.filterMenu)
		m.view = viewMain
		m.statusMsg = "Filter: " + name
		return m, m.sendCmd(api.Filter(api.Preset(name)))
	}
	return m, nil
}

func (m Model) handleAuthKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	k := keyName(msg)
	if navigate(&m.authMenu, k) {
		return m, nil
	}
	switch k {
	case "esc", "backspace":
		m.view = viewMenu
		return m, nil
	case "enter":
	default:
		return m, nil
	}

	switch selected(m.authMenu) {
	case itemLogin:
		return m.startLogin(viewAuthMenu)
	case itemSignout:
		m.view = viewAuthResult
		m.store.Update(func(st *session.State) { st.AuthInfo = "Signing out..." })
		m.snap = m.store.Snapshot()
		return m, m.signoutCmd()
	case itemInfo:
		m.view = viewAuthResult
		info := credentialInfo(m.configDir)
		m.store.Update(func(st *session.State) { st.AuthInfo = info })
		m.snap = m.store.Snapshot()
	}
	return m, nil
}

func (m Model) handleLyricsKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch k := keyName(msg); {
	case isDown(k):
		m.lyricsScroll++
	case isUp(k):
		m.lyricsScroll = max(m.lyricsScroll-1, 0)
	case k == "esc" || k == "q":
		m.view = viewMain
	case k == "backspace":
		m.view = viewMenu
	}
	return m, nil
}

func (m Model) handleLoginRequiredKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch keyName(msg) {
	case "q":
		return m.quit()
	case "enter":
		return m.startLogin(viewLoginRequired)
	case "\\":
		return m.openSettings(viewLoginRequired)
	}
	return m, nil
}

func (m Model) handleDebugKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch keyName(msg) {
	case "esc", "q", "ctrl+d":
		m.view = viewMain
	case "s":
		m.statusMsg = "Exporting spectrogram..."
		return m, m.exportCmd()
	}
	return m, nil
}

func (m Model) quit() (Model, tea.Cmd) {
	m.quitting = true
	return m, tea.Sequence(tea.SetWindowTitle(""), tea.Quit)
}

// chartSize returns the cell area given to the visualizer.
func (m Model) chartSize() (int, int) {
	w := m.width - 4
	if w < 12 {
		w = 12
	}
	h := m.height - 16
	if h < 4 {
		h = 4
	}
	return w, min(h, 16)
}

// Quitting reports whether the user asked to leave.
func (m Model) Quitting() bool {
	return m.quitting
}
