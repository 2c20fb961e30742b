package visualizer

import "strings"

// Braille renders a high-resolution spectrum using Unicode Braille characters.
// Each cell is a 2x4 dot grid, giving 2x horizontal and 4x vertical resolution.
type Braille struct {
	output string
}

func NewBraille() *Braille {
	return &Braille{}
}

func (b *Braille) Name() string { return "braille" }

// Braille dot positions (col, row) → bit offset:
//
//	(0,0)=0  (1,0)=3
//	(0,1)=1  (1,1)=4
//	(0,2)=2  (1,2)=5
//	(0,3)=6  (1,3)=7
var brailleBits = [2][4]uint{
	{0, 1, 2, 6},
	{3, 4, 5, 7},
}

func (b *Braille) Update(levels []float64, width, height int) {
	if height < 1 {
		height = 1
	}
	cols := max(width, 2)

	dotCols := cols * 2
	dotRows := height * 4
	dotLevels := interpolate(normalize(levels, 100), dotCols)

	styles := rowStyles(height)
	rows := make([]string, height)
	for row := range height {
		var line strings.Builder
		for col := range cols {
			var pattern uint
			for dx := range 2 {
				level := dotLevels[col*2+dx] * float64(dotRows)
				for dy := range 4 {
					dotFromBottom := float64(dotRows - 1 - (row*4 + dy))
					if level > dotFromBottom {
						pattern |= 1 << brailleBits[dx][dy]
					}
				}
			}
			line.WriteRune(rune(0x2800 + pattern))
		}
		rows[row] = styles[row].Render(line.String())
	}

	b.output = strings.Join(rows, "\n")
}

func (b *Braille) View() string {
	return b.output
}
