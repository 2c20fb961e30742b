package ui

import "github.com/charmbracelet/lipgloss"

var (
	accent     = lipgloss.AdaptiveColor{Light: "#5A3FC0", Dark: "#A08CFA"}
	accentDim  = lipgloss.AdaptiveColor{Light: "#7C6BC9", Dark: "#6E5AD2"}
	errorColor = lipgloss.AdaptiveColor{Light: "#A00000", Dark: "#FF8080"}

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(accent)

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.AdaptiveColor{Light: "#333333", Dark: "#FFFFFF"})

	artistStyle = lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#666666", Dark: "#AAAAAA"})

	timeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#888888", Dark: "#888888"})

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#555555", Dark: "#BBBBBB"})

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#999999", Dark: "#666666"})

	errorStyle = lipgloss.NewStyle().
			Foreground(errorColor)

	progressStyle = lipgloss.NewStyle().
			Foreground(accent)

	connectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#2E8B57", Dark: "#43B581"})

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(accentDim).
			Padding(1, 2)

	fatalBoxStyle = boxStyle.
			BorderForeground(errorColor)
)
