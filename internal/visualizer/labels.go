package visualizer

import "strings"

var frequencyLabels = []string{"30", "100", "500", "1k", "5k", "10k", "20k"}

// Labels returns the frequency axis row for a chart of the given width. The
// labels are spread evenly, first flush left and last flush right.
func Labels(width int) string {
	if width <= 0 {
		return ""
	}
	row := []rune(strings.Repeat(" ", width))
	n := len(frequencyLabels)
	for i, label := range frequencyLabels {
		pos := 0
		if n > 1 {
			pos = i * (width - len(label)) / (n - 1)
		}
		if pos < 0 {
			continue
		}
		for j, r := range label {
			if pos+j < width {
				row[pos+j] = r
			}
		}
	}
	return string(row)
}
