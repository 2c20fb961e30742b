package ui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/olivier-w/jorik/internal/config"
)

// frameInterval paces the render loop at roughly 60 Hz.
const frameInterval = 16 * time.Millisecond

type frameMsg time.Time

// commandDoneMsg reports that a fire-and-forget request finished. Its
// effects are already in the store.
type commandDoneMsg struct{}

type lyricsLoadedMsg struct{}

type loginDoneMsg struct {
	creds *config.Credentials
	err   error
}

type signedOutMsg struct{}

type exportDoneMsg struct {
	path string
	err  error
}

func frameCmd() tea.Cmd {
	return tea.Tick(frameInterval, func(t time.Time) tea.Msg {
		return frameMsg(t)
	})
}
