package visualizer

import "strings"

var densityRamp = []byte(" .:-=+*#%@")

// Dense renders a filled area chart using ASCII density characters, dense at
// the baseline and sparse toward the surface.
type Dense struct {
	output string
}

func NewDense() *Dense {
	return &Dense{}
}

func (d *Dense) Name() string { return "dense" }

func (d *Dense) Update(levels []float64, width, height int) {
	if height < 1 {
		height = 1
	}
	cols := max(width, 4)
	colLevels := interpolate(normalize(levels, 100), cols)

	rampLen := len(densityRamp)
	rows := make([]string, height)
	for row := range height {
		var line strings.Builder
		rowFromBottom := float64(height - 1 - row)
		for c := range cols {
			dist := colLevels[c]*float64(height) - rowFromBottom

			var ch byte
			switch {
			case dist <= 0:
				ch = ' '
			case dist >= 1:
				idx := min(int(dist/float64(height)*float64(rampLen-1)), rampLen-1)
				ch = densityRamp[max(idx, 1)]
			default:
				ch = densityRamp[min(int(dist*float64(rampLen-1)), rampLen-1)]
			}
			line.WriteByte(ch)
		}
		rows[row] = line.String()
	}

	d.output = strings.Join(rows, "\n")
}

func (d *Dense) View() string {
	return d.output
}
