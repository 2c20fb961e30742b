package visualizer

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

type colorRGB struct {
	R uint8
	G uint8
	B uint8
}

func (c colorRGB) hex() string {
	return fmt.Sprintf("#%02X%02X%02X", c.R, c.G, c.B)
}

func lerpColor(a, b colorRGB, t float64) colorRGB {
	t = clamp01(t)
	return colorRGB{
		R: uint8(float64(a.R) + (float64(b.R)-float64(a.R))*t),
		G: uint8(float64(a.G) + (float64(b.G)-float64(a.G))*t),
		B: uint8(float64(a.B) + (float64(b.B)-float64(a.B))*t),
	}
}

// Purple runs from the dim base at the bottom of the chart to a pink-white
// highlight at the top.
var (
	gradientLow  = colorRGB{R: 72, G: 52, B: 140}
	gradientMid  = colorRGB{R: 130, G: 110, B: 230}
	gradientHigh = colorRGB{R: 236, G: 190, B: 255}
)

func purpleAt(t float64) colorRGB {
	t = clamp01(t)
	if t < 0.6 {
		return lerpColor(gradientLow, gradientMid, t/0.6)
	}
	return lerpColor(gradientMid, gradientHigh, (t-0.6)/0.4)
}

// rowStyles returns one foreground style per chart row, top row first.
// lipgloss degrades the colors to whatever the terminal supports.
func rowStyles(height int) []lipgloss.Style {
	styles := make([]lipgloss.Style, height)
	for row := range height {
		t := 1.0
		if height > 1 {
			t = float64(height-1-row) / float64(height-1)
		}
		styles[row] = lipgloss.NewStyle().Foreground(lipgloss.Color(purpleAt(t).hex()))
	}
	return styles
}
