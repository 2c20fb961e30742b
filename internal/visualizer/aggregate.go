package visualizer

// Aggregate merges bands into slots display columns. Slot j covers the
// fractional band range [j*k, (j+1)*k) with k = len(bands)/slots; each band
// contributes in proportion to its overlap with that range. When slots is
// at least len(bands) the bands are returned as-is.
func Aggregate(bands []float64, slots int) []float64 {
	if slots <= 0 || len(bands) == 0 {
		return nil
	}
	if slots >= len(bands) {
		return append([]float64(nil), bands...)
	}

	out := make([]float64, slots)
	per := float64(len(bands)) / float64(slots)
	for j := range slots {
		start := float64(j) * per
		end := float64(j+1) * per

		var sum, weight float64
		for i := int(start); i < len(bands) && float64(i) < end; i++ {
			overlap := min(float64(i+1), end) - max(float64(i), start)
			if overlap > 0 {
				sum += bands[i] * overlap
				weight += overlap
			}
		}
		if weight > 0 {
			out[j] = sum / weight
		}
	}
	return out
}

// interpolate resamples levels to n columns by linear interpolation, for
// renderers drawing finer than one cell per band.
func interpolate(levels []float64, n int) []float64 {
	out := make([]float64, n)
	if len(levels) == 0 {
		return out
	}
	for c := range n {
		frac := float64(c) / float64(n) * float64(len(levels))
		lo := int(frac)
		hi := lo + 1
		t := frac - float64(lo)
		if lo >= len(levels) {
			lo = len(levels) - 1
		}
		if hi >= len(levels) {
			hi = len(levels) - 1
		}
		out[c] = levels[lo]*(1-t) + levels[hi]*t
	}
	return out
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
