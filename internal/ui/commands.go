package ui

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/cockroachdb/errors"
	"github.com/olivier-w/jorik/internal/api"
	"github.com/olivier-w/jorik/internal/auth"
	"github.com/olivier-w/jorik/internal/config"
	"github.com/olivier-w/jorik/internal/export"
	"github.com/olivier-w/jorik/internal/session"
	"github.com/olivier-w/jorik/internal/util"
	zlog "github.com/rs/zerolog/log"
)

// loginSettle gives the server a moment to register a fresh token before
// the first authenticated fetch.
const loginSettle = 500 * time.Millisecond

func (m Model) sendCmd(req api.Request) tea.Cmd {
	d, ctx := m.dispatcher, m.ctx
	return func() tea.Msg {
		_ = d.Send(ctx, req)
		return commandDoneMsg{}
	}
}

func (m Model) refreshCmd() tea.Cmd {
	d, ctx := m.dispatcher, m.ctx
	return func() tea.Msg {
		_ = d.Refresh(ctx)
		return commandDoneMsg{}
	}
}

func (m Model) lyricsCmd() tea.Cmd {
	d, ctx := m.dispatcher, m.ctx
	return func() tea.Msg {
		d.Lyrics(ctx)
		return lyricsLoadedMsg{}
	}
}

func (m Model) startLogin(from view) (Model, tea.Cmd) {
	m.loginFrom = from
	if from != viewLoginRequired {
		m.view = viewAuthResult
	}
	m.store.Update(func(st *session.State) { st.AuthInfo = "Initializing login..." })
	m.snap = m.store.Snapshot()
	return m, m.loginCmd()
}

func (m Model) loginCmd() tea.Cmd {
	store, d, ctx, login := m.store, m.dispatcher, m.ctx, m.login
	authPath := config.AuthPath(m.configDir)
	baseURL := m.snap.BaseURL
	return func() tea.Msg {
		creds, err := login(ctx, auth.Options{
			BaseURL: baseURL,
			Save:    func(c config.Credentials) error { return config.SaveCredentials(authPath, c) },
			SavedTo: authPath,
			OnURL: func(u string) {
				store.Update(func(st *session.State) {
					st.AuthInfo = "Opening browser...\n\nIf it doesn't open, visit:\n" + u
				})
			},
		})
		if err != nil {
			info := "Login failed: " + err.Error()
			switch {
			case errors.Is(err, auth.ErrTimeout):
				info = "Login timed out."
			case errors.Is(err, auth.ErrMissingToken):
				info = "Login failed: Missing token in callback."
			}
			store.Update(func(st *session.State) {
				st.AuthInfo = info
				st.Logf("Login failed: %v", err)
			})
			return loginDoneMsg{err: err}
		}

		store.Update(func(st *session.State) {
			st.Token = creds.Token
			st.Username = creds.Username
			st.AuthInfo = fmt.Sprintf("Login Successful!\n\nUser: %s\nToken saved.", creds.Username)
			st.Logf("Logged in as %s", creds.Username)
		})
		select {
		case <-ctx.Done():
		case <-time.After(loginSettle):
			_ = d.Refresh(ctx)
		}
		return loginDoneMsg{creds: creds}
	}
}

func (m Model) signoutCmd() tea.Cmd {
	d, ctx := m.dispatcher, m.ctx
	authPath := config.AuthPath(m.configDir)
	return func() tea.Msg {
		if err := d.Revoke(ctx); err != nil {
			zlog.Warn().Err(err).Msg("token revoke failed, removing local credentials anyway")
		}
		if err := config.RemoveCredentials(authPath); err != nil {
			zlog.Error().Err(err).Msg("could not remove credentials")
		}
		return signedOutMsg{}
	}
}

func (m Model) exportCmd() tea.Cmd {
	frames := m.snap.Spectrogram
	dir := m.exportDir
	store := m.store
	return func() tea.Msg {
		if dir == "" {
			dir = export.DesktopDir()
		}
		path, err := export.Spectrogram(frames, dir, time.Now())
		if err != nil {
			store.Logf("Spectrogram export failed: %v", err)
		} else {
			store.Logf("Spectrogram saved to %s", path)
		}
		return exportDoneMsg{path: path, err: err}
	}
}

// credentialInfo describes the stored credentials with the token masked.
func credentialInfo(dir string) string {
	creds, err := config.LoadCredentials(config.AuthPath(dir))
	switch {
	case err != nil:
		return "Could not read credentials: " + err.Error()
	case creds == nil:
		return "Not logged in."
	}
	user := creds.Username
	if user == "" {
		user = "unknown"
	}
	return fmt.Sprintf("User: %s\nToken: %s", user, util.MaskToken(creds.Token))
}
