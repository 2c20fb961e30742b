package visualizer

import "math"

// Config holds the smoothing constants. They are tuned for a ~60 Hz render
// loop and are not structurally significant.
type Config struct {
	// FrameDurationMs is the analysis hop of the server's spectrogram.
	FrameDurationMs float64

	// LowBands is how many of the lowest bands use LowFloor instead of Floor.
	LowBands int
	LowFloor float64
	Floor    float64

	// BassGain applies to band 0 only; Gain to every other band.
	BassGain float64
	Gain     float64
	Ceiling  float64

	Attack  float64 // fraction of the gap closed per tick when rising
	Release float64 // fraction of the gap closed per tick when falling
	Decay   float64 // multiplicative per-tick factor while idle
}

// DefaultConfig returns the constants the visualizer ships with.
func DefaultConfig() Config {
	return Config{
		FrameDurationMs: 42.66,
		LowBands:        3,
		LowFloor:        60,
		Floor:           30,
		BassGain:        0.1,
		Gain:            0.6,
		Ceiling:         100,
		Attack:          0.4,
		Release:         0.15,
		Decay:           0.95,
	}
}

// Smoother advances a fixed-width bar vector toward spectrogram frames.
type Smoother struct {
	cfg Config
}

// NewSmoother creates a smoother. A zero FrameDurationMs falls back to the
// default so FrameIndex never divides by zero.
func NewSmoother(cfg Config) *Smoother {
	if cfg.FrameDurationMs <= 0 {
		cfg.FrameDurationMs = DefaultConfig().FrameDurationMs
	}
	return &Smoother{cfg: cfg}
}

// Config returns the smoother's constants.
func (s *Smoother) Config() Config { return s.cfg }

// FrameIndex maps a position to a spectrogram frame. A position shifted
// below zero by a negative offset reads frame 0.
func FrameIndex(elapsedMs, offsetMs int64, frameDurationMs float64) int {
	adjusted := elapsedMs + offsetMs
	if adjusted < 0 {
		adjusted = 0
	}
	return int(math.Floor(float64(adjusted) / frameDurationMs))
}

// SelectFrame returns frame idx, or false when idx is out of range.
func SelectFrame(spectrogram [][]uint8, idx int) ([]uint8, bool) {
	if idx < 0 || idx >= len(spectrogram) {
		return nil, false
	}
	return spectrogram[idx], true
}

// Tick runs one render tick. While active (a track is current and not
// paused) the bars move toward the frame selected by elapsed+offset; an
// out-of-range frame leaves them untouched. While idle every bar decays.
func (s *Smoother) Tick(bars []float64, spectrogram [][]uint8, elapsedMs, offsetMs int64, active bool) {
	if !active {
		s.Decay(bars)
		return
	}
	frame, ok := SelectFrame(spectrogram, FrameIndex(elapsedMs, offsetMs, s.cfg.FrameDurationMs))
	if !ok {
		return
	}
	s.Step(bars, frame)
}

// Step moves each bar toward its processed target from frame: noise floor,
// gain, ceiling, then fast attack / slow release.
func (s *Smoother) Step(bars []float64, frame []uint8) {
	n := min(len(bars), len(frame))
	for i := range n {
		target := s.target(i, frame[i])
		cur := bars[i]
		if target > cur {
			bars[i] = cur + (target-cur)*s.cfg.Attack
		} else {
			bars[i] = cur - (cur-target)*s.cfg.Release
		}
	}
}

func (s *Smoother) target(band int, v uint8) float64 {
	floor := s.cfg.Floor
	if band < s.cfg.LowBands {
		floor = s.cfg.LowFloor
	}
	raw := math.Max(float64(v)-floor, 0)

	gain := s.cfg.Gain
	if band == 0 {
		gain = s.cfg.BassGain
	}
	return math.Min(raw*gain, s.cfg.Ceiling)
}

// Decay scales every bar by the idle decay factor.
func (s *Smoother) Decay(bars []float64) {
	for i := range bars {
		bars[i] *= s.cfg.Decay
	}
}
