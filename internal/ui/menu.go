package ui

import (
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/lipgloss"
)

type menuItem struct {
	label string
	desc  string
}

func (i menuItem) Title() string       { return i.label }
func (i menuItem) Description() string { return i.desc }
func (i menuItem) FilterValue() string { return i.label }

const (
	itemSkip      = "Skip"
	itemPause     = "Pause/Resume"
	itemStop      = "Stop"
	itemShuffle   = "Shuffle"
	itemClear     = "Clear Queue"
	itemLoopTrack = "Loop Track"
	itemLoopQueue = "Loop Queue"
	itemLoopOff   = "Loop Off"
	item247       = "24/7 Mode Toggle"
	itemFilters   = "Filters..."
	itemLyrics    = "Lyrics"
	itemAuth      = "Auth"
	itemSettings  = "Settings"
	itemExit      = "Exit TUI"

	itemLogin   = "Login"
	itemSignout = "Signout"
	itemInfo    = "Info"
)

var mainMenuItems = []menuItem{
	{itemSkip, "play the next track"},
	{itemPause, "toggle playback"},
	{itemStop, "stop and leave the channel"},
	{itemShuffle, "shuffle the queue"},
	{itemClear, "remove all upcoming tracks"},
	{itemLoopTrack, "repeat the current track"},
	{itemLoopQueue, "repeat the whole queue"},
	{itemLoopOff, "disable repeat"},
	{item247, "stay in the channel when idle"},
	{itemFilters, "audio filter presets"},
	{itemLyrics, "lyrics of the current track"},
	{itemAuth, "login, signout, token info"},
	{itemSettings, "server and visualizer offset"},
	{itemExit, "quit jorik"},
}

var authMenuItems = []menuItem{
	{itemLogin, "sign in through the browser"},
	{itemSignout, "revoke and forget the token"},
	{itemInfo, "show the stored credentials"},
}

func filterMenuItems(presets []string) []menuItem {
	items := make([]menuItem, len(presets))
	for i, p := range presets {
		items[i] = menuItem{label: p, desc: "apply the " + p + " preset"}
	}
	return items
}

// newMenu builds a non-filtering list. Navigation is driven by the model
// so that layout aliases reach it too.
func newMenu(title string, items []menuItem) list.Model {
	li := make([]list.Item, len(items))
	for i, it := range items {
		li[i] = it
	}

	delegate := list.NewDefaultDelegate()
	delegate.ShowDescription = false
	delegate.SetSpacing(0)
	delegate.Styles.SelectedTitle = delegate.Styles.SelectedTitle.
		Foreground(accent).
		BorderLeftForeground(accent)
	delegate.Styles.NormalTitle = delegate.Styles.NormalTitle.
		Foreground(lipgloss.AdaptiveColor{Light: "#333333", Dark: "#DDDDDD"})

	l := list.New(li, delegate, 36, len(items)+4)
	l.Title = title
	l.Styles.Title = headerStyle
	l.SetShowStatusBar(false)
	l.SetShowHelp(false)
	l.SetShowPagination(false)
	l.SetFilteringEnabled(false)
	return l
}

func selected(l list.Model) string {
	it, ok := l.SelectedItem().(menuItem)
	if !ok {
		return ""
	}
	return it.label
}

// navigate moves the cursor for up/down keys and reports whether k was one.
func navigate(l *list.Model, k string) bool {
	switch {
	case isDown(k):
		l.CursorDown()
	case isUp(k):
		l.CursorUp()
	default:
		return false
	}
	return true
}
