package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/olivier-w/jorik/internal/queue"
	"github.com/olivier-w/jorik/internal/session"
	"github.com/olivier-w/jorik/internal/util"
)

// maxQueueLines bounds the queue list under the chart.
const maxQueueLines = 8

func renderProgressBar(elapsed, total time.Duration, width int) string {
	if width < 10 {
		width = 10
	}
	barWidth := width - 2

	var ratio float64
	if total > 0 {
		ratio = float64(elapsed) / float64(total)
	}
	ratio = max(0, min(ratio, 1))

	filled := int(ratio * float64(barWidth))
	return progressStyle.Render(strings.Repeat("━", filled)) + strings.Repeat("─", barWidth-filled)
}

func renderTime(elapsed, total time.Duration) string {
	if total <= 0 {
		return timeStyle.Render(util.FormatDuration(elapsed) + " / live")
	}
	return timeStyle.Render(util.FormatDuration(elapsed) + " / " + util.FormatDuration(total))
}

func renderConn(c session.ConnStatus) string {
	switch c {
	case session.Connected:
		return connectedStyle.Render("● live")
	case session.Connecting:
		return statusStyle.Render("◌ connecting")
	default:
		return helpStyle.Render("○ offline")
	}
}

func renderQueue(tracks []queue.Track, width int) []string {
	if len(tracks) == 0 {
		return []string{helpStyle.Render("Queue is empty")}
	}
	lines := []string{statusStyle.Render(fmt.Sprintf("Up next (%d)", len(tracks)))}
	for i, t := range tracks {
		if i == maxQueueLines {
			lines = append(lines, helpStyle.Render(fmt.Sprintf("  … %d more", len(tracks)-i)))
			break
		}
		line := fmt.Sprintf("%2d. %s", i+1, t.String())
		lines = append(lines, artistStyle.Render(util.Truncate(line, max(width-2, 10))))
	}
	return lines
}

// centered places a framed box in the middle of the screen.
func centered(width, height int, style lipgloss.Style, content string) string {
	box := style.Render(content)
	if width <= 0 || height <= 0 {
		return box
	}
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, box)
}
