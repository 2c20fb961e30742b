// Package playback advances the locally extrapolated position and the
// visualizer between authoritative snapshots.
package playback

import (
	"time"

	"github.com/olivier-w/jorik/internal/session"
	"github.com/olivier-w/jorik/internal/visualizer"
)

// Advance moves the elapsed position forward by the wall-clock time since
// the anchor while a track is playing, clamped to the duration when it is
// known. In every case the anchor moves to now.
func Advance(st *session.State, now time.Time) {
	if st.HasTrack() && !st.Paused {
		if delta := now.Sub(st.Anchor); delta > 0 {
			st.Elapsed += delta
		}
		if st.Duration > 0 && st.Elapsed > st.Duration {
			st.Elapsed = st.Duration
		}
	}
	st.Anchor = now
}

// Tick is one render-loop step: extrapolate, then smooth the bars toward the
// frame for the new position. Call it under the store lock.
func Tick(st *session.State, now time.Time, s *visualizer.Smoother) {
	Advance(st, now)
	active := st.HasTrack() && !st.Paused
	s.Tick(st.Bars, st.Spectrogram, st.ElapsedMs(), st.VisualizerOffset.Milliseconds(), active)
}
