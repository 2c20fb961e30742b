// Package visualizer turns spectrogram frames into smoothed bar levels and
// draws them in the terminal.
package visualizer

// MaxSlots bounds how many display columns a chart aggregates into.
const MaxSlots = 64

// Visualizer draws smoothed band levels (0..100) into a width x height cell
// area. Update is called once per rendered frame.
type Visualizer interface {
	Name() string
	Update(levels []float64, width, height int)
	View() string
}

// Modes returns all available visualizers, in cycle order.
func Modes() []Visualizer {
	return []Visualizer{
		NewBars(),
		NewDense(),
		NewBraille(),
	}
}

// Slots returns how many 3-cell bar slots fit in width, capped at MaxSlots.
func Slots(width int) int {
	return max(min(width/3, MaxSlots), 1)
}

func normalize(levels []float64, ceiling float64) []float64 {
	out := make([]float64, len(levels))
	for i, v := range levels {
		out[i] = clamp01(v / ceiling)
	}
	return out
}
