package visualizer

import "strings"

var barChars = []rune(" ▁▂▃▄▅▆▇█")

const (
	barWidth = 2
	barGap   = 1
	capChar  = '▔'
)

// Bars draws one block-character column per aggregated slot, two cells wide
// with a one-cell gap, topped by a spring-damped peak cap.
type Bars struct {
	peaks  peakCaps
	output string
}

// NewBars creates the bar renderer.
func NewBars() *Bars {
	return &Bars{peaks: newPeakCaps(60, 4.0, 0.9)}
}

func (b *Bars) Name() string { return "bars" }

func (b *Bars) Update(levels []float64, width, height int) {
	if height < 1 {
		height = 1
	}
	slots := Slots(width)
	norm := normalize(Aggregate(levels, slots), 100)
	b.peaks.resize(len(norm))

	caps := make([]float64, len(norm))
	for i, v := range norm {
		caps[i] = b.peaks.step(i, v*float64(height))
	}

	styles := rowStyles(height)
	rows := make([]string, height)
	for row := range height {
		var line strings.Builder
		rowFromBottom := float64(height - 1 - row)
		for s, v := range norm {
			if s > 0 {
				line.WriteString(strings.Repeat(" ", barGap))
			}
			level := v * float64(height)
			ch := barChars[0]
			switch {
			case level > rowFromBottom+1:
				ch = barChars[len(barChars)-1]
			case level > rowFromBottom:
				ch = barChars[int((level-rowFromBottom)*float64(len(barChars)-1))]
			case caps[s] > rowFromBottom && caps[s] <= rowFromBottom+1 && caps[s] > level+0.5:
				ch = capChar
			}
			line.WriteString(strings.Repeat(string(ch), barWidth))
		}
		rows[row] = styles[row].Render(line.String())
	}

	b.output = strings.Join(rows, "\n")
}

func (b *Bars) View() string {
	return b.output
}
