package visualizer

import "github.com/charmbracelet/harmonica"

// peakCaps tracks one falling cap per slot. A cap jumps up with its bar and
// springs back down when the bar drops.
type peakCaps struct {
	spring harmonica.Spring
	pos    []float64
	vel    []float64
}

func newPeakCaps(fps int, frequency, damping float64) peakCaps {
	return peakCaps{spring: harmonica.NewSpring(harmonica.FPS(fps), frequency, damping)}
}

func (p *peakCaps) resize(n int) {
	if len(p.pos) == n {
		return
	}
	p.pos = make([]float64, n)
	p.vel = make([]float64, n)
}

// step advances cap i toward level and returns its new height.
func (p *peakCaps) step(i int, level float64) float64 {
	if level >= p.pos[i] {
		p.pos[i] = level
		p.vel[i] = 0
		return level
	}
	pos, vel := p.spring.Update(p.pos[i], p.vel[i], level)
	p.pos[i] = max(pos, level)
	p.vel[i] = vel
	return p.pos[i]
}
