package ui

import (
	"fmt"
	"strings"

	"github.com/olivier-w/jorik/internal/util"
	"github.com/olivier-w/jorik/internal/visualizer"
)

// debugLogLines is how much of the diagnostic log the debug screen shows.
const debugLogLines = 15

func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if m.snap.FatalError != "" {
		return centered(m.width, m.height, fatalBoxStyle, errorStyle.Render(m.snap.FatalError))
	}

	switch m.view {
	case viewMenu:
		return centered(m.width, m.height, boxStyle, m.menu.View())
	case viewFilterMenu:
		return centered(m.width, m.height, boxStyle, m.filterMenu.View())
	case viewAuthMenu:
		return centered(m.width, m.height, boxStyle, m.authMenu.View())
	case viewAuthResult:
		return centered(m.width, m.height, boxStyle, m.authResultView())
	case viewLyrics:
		return centered(m.width, m.height, boxStyle, m.lyricsView())
	case viewLoginRequired:
		return centered(m.width, m.height, boxStyle, m.loginRequiredView())
	case viewSettings:
		return centered(m.width, m.height, boxStyle, m.settingsView())
	case viewDebug:
		return m.debugView()
	}
	return m.mainView()
}

func (m Model) mainView() string {
	w := max(m.width, 40)
	var lines []string

	header := headerStyle.Render("jorik") + "  " + renderConn(m.snap.Conn)
	if m.snap.Loading {
		header += "  " + m.spinner.View()
	}
	if icon := m.snap.Loop.Icon(); icon != "" {
		header += "  " + statusStyle.Render(icon)
	}
	lines = append(lines, header, "")

	if m.snap.Current != nil {
		lines = append(lines, titleStyle.Render(util.Truncate(m.snap.Current.Title, w-4)))
		lines = append(lines, artistStyle.Render(util.Truncate(m.snap.Current.Author, w-4)))
	} else {
		lines = append(lines, titleStyle.Render("Nothing playing"), "")
	}

	state := "▶"
	if m.snap.Paused {
		state = "⏸"
	}
	lines = append(lines,
		statusStyle.Render(state)+" "+renderProgressBar(m.snap.Elapsed, m.snap.Duration, w-24)+" "+renderTime(m.snap.Elapsed, m.snap.Duration),
		"",
	)

	chartW, _ := m.chartSize()
	lines = append(lines, m.modes[m.modeIdx].View())
	lines = append(lines, helpStyle.Render(visualizer.Labels(chartW)), "")

	lines = append(lines, renderQueue(m.snap.Queue, w)...)
	lines = append(lines, "")

	if m.editing {
		lines = append(lines, m.input.View())
	} else {
		lines = append(lines, helpStyle.Render("Press Enter or start typing to search/play"))
	}

	switch {
	case m.snap.ErrorMessage != "":
		lines = append(lines, errorStyle.Render(m.snap.ErrorMessage))
	case m.statusMsg != "":
		lines = append(lines, statusStyle.Render(m.statusMsg))
	default:
		lines = append(lines, "")
	}
	lines = append(lines, helpStyle.Render(helpText(m.view, m.editing)))

	return indent(lines)
}

func (m Model) lyricsView() string {
	text := m.snap.Lyrics
	if text == "" {
		text = "No lyrics found."
	}
	all := strings.Split(text, "\n")
	rows := max(m.height-10, 5)
	start := min(m.lyricsScroll, max(len(all)-1, 0))
	end := min(start+rows, len(all))

	var b strings.Builder
	b.WriteString(headerStyle.Render("Lyrics"))
	if m.snap.Current != nil {
		b.WriteString("  " + artistStyle.Render(m.snap.Current.String()))
	}
	b.WriteString("\n\n")
	b.WriteString(strings.Join(all[start:end], "\n"))
	b.WriteString("\n\n" + helpStyle.Render(helpText(viewLyrics, false)))
	return b.String()
}

func (m Model) authResultView() string {
	return headerStyle.Render("Auth") + "\n\n" + m.snap.AuthInfo + "\n\n" + helpStyle.Render(helpText(viewAuthResult, false))
}

func (m Model) loginRequiredView() string {
	body := "You are not logged in.\n\nPress Enter to login with Discord."
	if m.snap.AuthInfo != "" {
		body = m.snap.AuthInfo
	}
	return headerStyle.Render("jorik") + "\n\n" + body + "\n\n" +
		statusStyle.Render("Server: "+m.snap.BaseURL) + "\n" +
		helpStyle.Render(helpText(viewLoginRequired, false))
}

func (m Model) settingsView() string {
	lines := []string{
		headerStyle.Render("Settings"),
		"",
		m.settings.host.View(),
		m.settings.offset.View(),
		"",
		helpStyle.Render("Offset shifts the visualizer against playback, in ms."),
	}
	if m.settings.err != "" {
		lines = append(lines, errorStyle.Render(m.settings.err))
	}
	lines = append(lines, helpStyle.Render(helpText(viewSettings, false)))
	return strings.Join(lines, "\n")
}

func (m Model) debugView() string {
	frame := visualizer.FrameIndex(m.snap.ElapsedMs(), m.snap.VisualizerOffset.Milliseconds(), m.smoother.Config().FrameDurationMs)
	lines := []string{
		headerStyle.Render("Debug"),
		"",
		fmt.Sprintf("Connection:  %s (reconnect pending: %t)", m.snap.Conn, m.snap.NeedsReconnect),
		fmt.Sprintf("Stream:      %s", m.streamState()),
		fmt.Sprintf("Guild:       %s", m.snap.GuildID),
		fmt.Sprintf("User:        %s", m.snap.UserID),
		fmt.Sprintf("Position:    %dms / %dms (paused: %t)", m.snap.ElapsedMs(), m.snap.DurationMs(), m.snap.Paused),
		fmt.Sprintf("Spectrogram: %d frames, frame %d, offset %s", len(m.snap.Spectrogram), frame, m.snap.VisualizerOffset),
		fmt.Sprintf("Visualizer:  %s", m.modes[m.modeIdx].Name()),
		"",
		statusStyle.Render("Log"),
	}

	for _, l := range m.snap.LogTail(debugLogLines) {
		lines = append(lines, helpStyle.Render(util.Truncate(l, max(m.width-4, 20))))
	}
	if m.statusMsg != "" {
		lines = append(lines, "", statusStyle.Render(m.statusMsg))
	}
	lines = append(lines, "", helpStyle.Render(helpText(viewDebug, false)))
	return indent(lines)
}

func (m Model) streamState() string {
	if m.stream == nil {
		return "n/a"
	}
	return m.stream.State().String()
}

func indent(lines []string) string {
	var b strings.Builder
	b.WriteString("\n")
	for _, l := range lines {
		for _, part := range strings.Split(l, "\n") {
			b.WriteString("  ")
			b.WriteString(part)
			b.WriteString("\n")
		}
	}
	return b.String()
}
