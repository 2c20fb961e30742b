package ui

import (
	"context"
	"os"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/olivier-w/jorik/internal/api"
	"github.com/olivier-w/jorik/internal/auth"
	"github.com/olivier-w/jorik/internal/config"
	"github.com/olivier-w/jorik/internal/dispatch"
	"github.com/olivier-w/jorik/internal/queue"
	"github.com/olivier-w/jorik/internal/session"
	"github.com/olivier-w/jorik/internal/stream"
	"github.com/olivier-w/jorik/internal/visualizer"
)

type modelOpts struct {
	token string
	login func(context.Context, auth.Options) (*config.Credentials, error)
}

// newTestModel builds a model whose context is already cancelled, so any
// request a command issues fails without touching the network.
func newTestModel(t *testing.T, o modelOpts) Model {
	t.Helper()
	store := session.NewDefaultStore()
	store.Update(func(st *session.State) {
		st.BaseURL = "http://127.0.0.1:1"
		st.Token = o.token
		st.GuildID = "g1"
		st.UserID = "u1"
	})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	m := New(Deps{
		Ctx:        ctx,
		Store:      store,
		Dispatcher: dispatch.New(store, api.NewClient(time.Second)),
		Smoother:   visualizer.NewSmoother(visualizer.DefaultConfig()),
		ConfigDir:  t.TempDir(),
		ExportDir:  t.TempDir(),
		Login:      o.login,
	})
	m, _ = m.handleMsg(tea.WindowSizeMsg{Width: 100, Height: 40})
	return m
}

func loggedIn(t *testing.T) Model {
	return newTestModel(t, modelOpts{token: "tok_abcdefghijkl"})
}

var specialKeys = map[string]tea.KeyType{
	"enter":     tea.KeyEnter,
	"esc":       tea.KeyEsc,
	"tab":       tea.KeyTab,
	"up":        tea.KeyUp,
	"down":      tea.KeyDown,
	"backspace": tea.KeyBackspace,
	"ctrl+d":    tea.KeyCtrlD,
}

func press(m Model, k string) (Model, tea.Cmd) {
	if typ, ok := specialKeys[k]; ok {
		return m.handleMsg(tea.KeyMsg{Type: typ})
	}
	return m.handleMsg(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)})
}

func (m Model) sync() Model {
	m.snap = m.store.Snapshot()
	return m
}

func TestNewWithoutTokenShowsLoginScreen(t *testing.T) {
	m := newTestModel(t, modelOpts{})
	if m.view != viewLoginRequired {
		t.Fatalf("expected login screen, got view %d", m.view)
	}
	if !strings.Contains(m.View(), "not logged in") {
		t.Fatal("expected login prompt in view")
	}
}

func TestFrameMsgAdvancesPlayback(t *testing.T) {
	m := loggedIn(t)
	t0 := time.Now()
	m.store.Update(func(st *session.State) {
		st.Current = &queue.Track{Title: "Song", Author: "Artist"}
		st.Paused = false
		st.Duration = 10 * time.Second
		st.Anchor = t0
	})

	next, cmd := m.handleMsg(frameMsg(t0.Add(100 * time.Millisecond)))
	if cmd == nil {
		t.Fatal("expected next frame to be scheduled")
	}
	if got := next.snap.Elapsed; got != 100*time.Millisecond {
		t.Fatalf("expected 100ms elapsed, got %v", got)
	}
}

func TestKeyNameMapsCyrillicLayout(t *testing.T) {
	cases := map[string]string{
		"й": "q",
		"к": "r",
		"д": "l",
		"ы": "s",
		"і": "s",
		"ц": "w",
		"с": "c",
		"о": "j",
		"л": "k",
		"x": "x",
	}
	for in, want := range cases {
		got := keyName(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(in)})
		if got != want {
			t.Errorf("keyName(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestLoopKeyCyclesMode(t *testing.T) {
	m := loggedIn(t)

	m, cmd := press(m, "l")
	if cmd == nil {
		t.Fatal("expected loop request")
	}
	if got := m.store.Snapshot().Loop; got != session.LoopTrack {
		t.Fatalf("expected track loop, got %v", got)
	}

	m, _ = press(m, "д")
	if got := m.store.Snapshot().Loop; got != session.LoopQueue {
		t.Fatalf("expected queue loop, got %v", got)
	}
}

func TestTypingStartsSearchAndEnterPlays(t *testing.T) {
	m := loggedIn(t)

	m, _ = press(m, "x")
	if !m.editing {
		t.Fatal("expected search input to open")
	}
	if got := m.input.Value(); got != "x" {
		t.Fatalf("expected seeded input, got %q", got)
	}

	m, cmd := press(m, "enter")
	if m.editing {
		t.Fatal("expected search input to close")
	}
	if cmd == nil {
		t.Fatal("expected play request")
	}
	if m.statusMsg != "Queued: x" {
		t.Fatalf("unexpected status %q", m.statusMsg)
	}
}

func TestEscCancelsSearch(t *testing.T) {
	m := loggedIn(t)
	m, _ = press(m, "enter")
	m, _ = press(m, "a")
	m, cmd := press(m, "esc")
	if m.editing || m.input.Value() != "" {
		t.Fatal("expected search to be cancelled and cleared")
	}
	if cmd != nil {
		t.Fatal("expected no request on cancel")
	}
}

func TestFatalErrorAcceptsOnlyReload(t *testing.T) {
	m := loggedIn(t)
	m.store.Update(func(st *session.State) {
		st.FatalError = "User not in voice channel or guild unknown."
		st.ErrorMessage = "stale"
	})
	m = m.sync()

	m, cmd := press(m, "s")
	if cmd != nil {
		t.Fatal("expected skip to be swallowed")
	}
	m, _ = press(m, "tab")
	if m.view != viewMain {
		t.Fatal("expected menu to stay closed")
	}
	if !strings.Contains(m.View(), "voice channel") {
		t.Fatal("expected fatal modal in view")
	}

	m, cmd = press(m, "к")
	if cmd == nil {
		t.Fatal("expected reload request")
	}
	snap := m.store.Snapshot()
	if snap.FatalError != "" || snap.ErrorMessage != "" {
		t.Fatalf("expected errors cleared, got %q / %q", snap.FatalError, snap.ErrorMessage)
	}
}

func TestMenuSelectsAction(t *testing.T) {
	m := loggedIn(t)

	m, _ = press(m, "tab")
	if m.view != viewMenu {
		t.Fatalf("expected menu, got view %d", m.view)
	}
	m, _ = press(m, "о")
	if got := selected(m.menu); got != itemPause {
		t.Fatalf("expected %q selected, got %q", itemPause, got)
	}

	m, cmd := press(m, "enter")
	if m.view != viewMain {
		t.Fatal("expected menu to close after action")
	}
	if cmd == nil {
		t.Fatal("expected pause request")
	}
}

func TestMenuFilterPreset(t *testing.T) {
	m := loggedIn(t)
	m, _ = press(m, "tab")
	for range 9 {
		m, _ = press(m, "down")
	}
	if got := selected(m.menu); got != itemFilters {
		t.Fatalf("expected %q selected, got %q", itemFilters, got)
	}

	m, _ = press(m, "enter")
	if m.view != viewFilterMenu {
		t.Fatalf("expected filter menu, got view %d", m.view)
	}
	m, _ = press(m, "down")
	m, cmd := press(m, "enter")
	if cmd == nil {
		t.Fatal("expected filter request")
	}
	if m.statusMsg != "Filter: Bassboost" {
		t.Fatalf("unexpected status %q", m.statusMsg)
	}
}

func TestMenuLoopItemSetsMode(t *testing.T) {
	m := loggedIn(t)
	m, _ = press(m, "tab")
	for range 6 {
		m, _ = press(m, "j")
	}
	m, _ = press(m, "enter")
	if got := m.store.Snapshot().Loop; got != session.LoopQueue {
		t.Fatalf("expected queue loop, got %v", got)
	}
}

func TestVisualizerCycles(t *testing.T) {
	m := loggedIn(t)
	for i := 1; i <= len(m.modes); i++ {
		m, _ = press(m, "v")
		if want := i % len(m.modes); m.modeIdx != want {
			t.Fatalf("press %d: expected mode %d, got %d", i, want, m.modeIdx)
		}
	}
}

func TestLyricsScroll(t *testing.T) {
	m := loggedIn(t)
	m.view = viewLyrics
	m, _ = press(m, "j")
	m, _ = press(m, "j")
	m, _ = press(m, "k")
	if m.lyricsScroll != 1 {
		t.Fatalf("expected scroll 1, got %d", m.lyricsScroll)
	}
	m, _ = press(m, "л")
	m, _ = press(m, "k")
	if m.lyricsScroll != 0 {
		t.Fatalf("expected scroll clamped at 0, got %d", m.lyricsScroll)
	}
	m, _ = press(m, "esc")
	if m.view != viewMain {
		t.Fatal("expected lyrics to close")
	}
}

func TestDebugExportsSpectrogram(t *testing.T) {
	m := loggedIn(t)
	m.store.Update(func(st *session.State) {
		st.Spectrogram = [][]uint8{{1, 2}, {3, 4}}
	})
	m = m.sync()

	m, _ = press(m, "ctrl+d")
	if m.view != viewDebug {
		t.Fatalf("expected debug view, got %d", m.view)
	}
	if !strings.Contains(m.View(), "2 frames") {
		t.Fatal("expected spectrogram stats in debug view")
	}

	m, cmd := press(m, "s")
	if cmd == nil {
		t.Fatal("expected export command")
	}
	msg, ok := cmd().(exportDoneMsg)
	if !ok {
		t.Fatal("expected exportDoneMsg")
	}
	if msg.err != nil {
		t.Fatalf("export failed: %v", msg.err)
	}
	if _, err := os.Stat(msg.path); err != nil {
		t.Fatalf("expected exported file: %v", err)
	}

	m, _ = m.handleMsg(msg)
	if !strings.HasPrefix(m.statusMsg, "Saved ") {
		t.Fatalf("unexpected status %q", m.statusMsg)
	}
}

type fixedStream stream.ReconnectState

func (f fixedStream) State() stream.ReconnectState { return stream.ReconnectState(f) }

func TestDebugShowsStreamState(t *testing.T) {
	m := loggedIn(t)
	m, _ = press(m, "ctrl+d")
	if !strings.Contains(m.View(), "Stream:      n/a") {
		t.Fatal("expected n/a without a stream client")
	}

	m.stream = fixedStream(stream.BackoffWait)
	if want := "Stream:      " + stream.BackoffWait.String(); !strings.Contains(m.View(), want) {
		t.Fatalf("expected %q in debug view", want)
	}
}

func TestDebugShowsLogTail(t *testing.T) {
	m := loggedIn(t)
	for i := range debugLogLines + 5 {
		m.store.Logf("line %02d", i)
	}
	m = m.sync()
	m, _ = press(m, "ctrl+d")

	out := m.View()
	if strings.Contains(out, "line 04") {
		t.Fatal("expected oldest lines to be cut from the debug view")
	}
	if !strings.Contains(out, "line 05") || !strings.Contains(out, "line 19") {
		t.Fatal("expected the most recent lines in the debug view")
	}
}

func TestSettingsSaveAppliesAndPersists(t *testing.T) {
	m := loggedIn(t)
	m, _ = m.openSettings(viewMain)
	m.settings.host.SetValue("http://example.com/")
	m.settings.offset.SetValue("450")

	m, cmd := press(m, "enter")
	if m.view != viewMain {
		t.Fatalf("expected settings to close, got view %d", m.view)
	}
	if cmd == nil {
		t.Fatal("expected refresh after saving")
	}

	snap := m.store.Snapshot()
	if snap.BaseURL != "http://example.com" {
		t.Fatalf("unexpected base url %q", snap.BaseURL)
	}
	if !snap.NeedsReconnect {
		t.Fatal("expected host change to request a reconnect")
	}
	if snap.VisualizerOffset != 450*time.Millisecond {
		t.Fatalf("unexpected offset %v", snap.VisualizerOffset)
	}

	saved, err := config.LoadSettings(config.SettingsPath(m.configDir))
	if err != nil {
		t.Fatalf("load settings: %v", err)
	}
	if saved.VisualizerOffsetMs != 450 || saved.BaseURL != "http://example.com" {
		t.Fatalf("unexpected saved settings %+v", saved)
	}
}

func TestSettingsSaveKeepsSavedHostWhenUntouched(t *testing.T) {
	m := loggedIn(t)
	path := config.SettingsPath(m.configDir)
	if err := config.SaveSettings(path, config.Settings{BaseURL: "https://saved.example", VisualizerOffsetMs: 0}); err != nil {
		t.Fatalf("save settings: %v", err)
	}
	// The session runs against a --base-url override.
	m.store.Update(func(st *session.State) { st.BaseURL = "https://override.example" })
	m = m.sync()

	m, _ = m.openSettings(viewMain)
	if got := m.settings.host.Value(); got != "https://override.example" {
		t.Fatalf("expected form to show the active host, got %q", got)
	}
	m.settings.offset.SetValue("120")
	m, _ = press(m, "enter")
	if m.view != viewMain {
		t.Fatalf("expected settings to close, got view %d", m.view)
	}

	saved, err := config.LoadSettings(path)
	if err != nil {
		t.Fatalf("load settings: %v", err)
	}
	if saved.BaseURL != "https://saved.example" || saved.VisualizerOffsetMs != 120 {
		t.Fatalf("unexpected saved settings %+v", saved)
	}
	snap := m.store.Snapshot()
	if snap.BaseURL != "https://override.example" || snap.NeedsReconnect {
		t.Fatalf("expected session host untouched, got %q (reconnect %t)", snap.BaseURL, snap.NeedsReconnect)
	}
	if snap.VisualizerOffset != 120*time.Millisecond {
		t.Fatalf("unexpected offset %v", snap.VisualizerOffset)
	}
}

func TestSettingsRejectsInvalidHost(t *testing.T) {
	m := loggedIn(t)
	m, _ = m.openSettings(viewMain)
	m.settings.host.SetValue("not a url")

	m, _ = press(m, "enter")
	if m.view != viewSettings {
		t.Fatal("expected settings to stay open")
	}
	if m.settings.err == "" {
		t.Fatal("expected validation error")
	}
	if m.store.Snapshot().NeedsReconnect {
		t.Fatal("expected no reconnect for rejected settings")
	}
}

func TestApplySettingsSameHostKeepsConnection(t *testing.T) {
	store := session.NewDefaultStore()
	store.Update(func(st *session.State) { st.BaseURL = "https://a.example" })

	ApplySettings(store, config.Settings{BaseURL: "https://a.example", VisualizerOffsetMs: -100})

	snap := store.Snapshot()
	if snap.NeedsReconnect {
		t.Fatal("expected no reconnect when host is unchanged")
	}
	if snap.VisualizerOffset != -100*time.Millisecond {
		t.Fatalf("unexpected offset %v", snap.VisualizerOffset)
	}
}

func TestLoginFromLoginScreen(t *testing.T) {
	var gotURL string
	m := newTestModel(t, modelOpts{
		login: func(_ context.Context, o auth.Options) (*config.Credentials, error) {
			o.OnURL("http://127.0.0.1:1/authorize")
			creds := config.Credentials{Token: "fresh_token_value", Username: "alice"}
			if err := o.Save(creds); err != nil {
				return nil, err
			}
			gotURL = o.BaseURL
			return &creds, nil
		},
	})

	m, cmd := press(m, "enter")
	if m.snap.AuthInfo != "Initializing login..." {
		t.Fatalf("unexpected auth info %q", m.snap.AuthInfo)
	}
	m, _ = m.handleMsg(cmd())

	if gotURL != "http://127.0.0.1:1" {
		t.Fatalf("expected login against store base url, got %q", gotURL)
	}
	if m.view != viewMain {
		t.Fatalf("expected main view after login, got %d", m.view)
	}
	if m.snap.Token != "fresh_token_value" || m.snap.Username != "alice" {
		t.Fatalf("unexpected session after login: %q %q", m.snap.Token, m.snap.Username)
	}
	if !strings.Contains(m.snap.AuthInfo, "Login Successful!") {
		t.Fatalf("unexpected auth info %q", m.snap.AuthInfo)
	}

	creds, err := config.LoadCredentials(config.AuthPath(m.configDir))
	if err != nil || creds == nil || creds.Token != "fresh_token_value" {
		t.Fatalf("expected saved credentials, got %+v, %v", creds, err)
	}
}

func TestLoginTimeout(t *testing.T) {
	m := newTestModel(t, modelOpts{
		login: func(context.Context, auth.Options) (*config.Credentials, error) {
			return nil, auth.ErrTimeout
		},
	})

	m, cmd := press(m, "enter")
	m, _ = m.handleMsg(cmd())
	if m.view != viewLoginRequired {
		t.Fatalf("expected to stay on login screen, got %d", m.view)
	}
	if m.snap.AuthInfo != "Login timed out." {
		t.Fatalf("unexpected auth info %q", m.snap.AuthInfo)
	}
}

func TestSignoutReturnsToLoginScreen(t *testing.T) {
	m := loggedIn(t)
	authPath := config.AuthPath(m.configDir)
	if err := config.SaveCredentials(authPath, config.Credentials{Token: "tok_abcdefghijkl"}); err != nil {
		t.Fatal(err)
	}

	m, _ = press(m, "tab")
	for range 11 {
		m, _ = press(m, "down")
	}
	m, _ = press(m, "enter")
	if m.view != viewAuthMenu {
		t.Fatalf("expected auth menu, got view %d", m.view)
	}
	m, _ = press(m, "down")
	m, cmd := press(m, "enter")
	if m.view != viewAuthResult || m.snap.AuthInfo != "Signing out..." {
		t.Fatalf("unexpected state: view %d info %q", m.view, m.snap.AuthInfo)
	}

	m, _ = m.handleMsg(cmd())
	if m.view != viewLoginRequired {
		t.Fatalf("expected login screen, got view %d", m.view)
	}
	if m.snap.Token != "" {
		t.Fatal("expected token to be cleared")
	}
	if _, err := os.Stat(authPath); !os.IsNotExist(err) {
		t.Fatal("expected credentials file to be removed")
	}
}

func TestCredentialInfoMasksToken(t *testing.T) {
	dir := t.TempDir()
	if got := credentialInfo(dir); got != "Not logged in." {
		t.Fatalf("unexpected info %q", got)
	}

	if err := config.SaveCredentials(config.AuthPath(dir), config.Credentials{Token: "abcd1234567890wxyz", Username: "bob"}); err != nil {
		t.Fatal(err)
	}
	got := credentialInfo(dir)
	if !strings.Contains(got, "abcd...wxyz") || strings.Contains(got, "1234567890") {
		t.Fatalf("expected masked token, got %q", got)
	}
	if !strings.Contains(got, "bob") {
		t.Fatalf("expected username, got %q", got)
	}
}

func TestMainViewShowsTrackAndQueue(t *testing.T) {
	m := loggedIn(t)
	m.store.Update(func(st *session.State) {
		st.Current = &queue.Track{Title: "Song", Author: "Artist"}
		st.Queue = []queue.Track{{Title: "Next", Author: "Someone"}}
	})
	m, _ = m.handleMsg(frameMsg(time.Now()))

	out := m.View()
	for _, want := range []string{"Song", "Artist", "Up next (1)", "Next - Someone"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in view", want)
		}
	}
}

func TestQuit(t *testing.T) {
	m := loggedIn(t)
	m, cmd := press(m, "й")
	if !m.Quitting() {
		t.Fatal("expected quitting")
	}
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if m.View() != "" {
		t.Fatal("expected empty view after quit")
	}
}
