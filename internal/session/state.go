// Package session holds the shared client state that every background task
// and the render loop read and write under a single lock.
package session

import (
	"fmt"
	"time"

	"github.com/olivier-w/jorik/internal/queue"
	zlog "github.com/rs/zerolog/log"
)

// BandCount is the width of one spectrogram frame and of the smoothed bars.
const BandCount = 64

// Playback is an authoritative playback snapshot pushed by the server or
// embedded in a queue reply.
type Playback struct {
	ElapsedMs   int64     `json:"elapsedMs" mapstructure:"elapsedMs"`
	DurationMs  int64     `json:"durationMs" mapstructure:"durationMs"`
	Paused      bool      `json:"paused" mapstructure:"paused"`
	Spectrogram [][]uint8 `json:"spectrogram,omitempty" mapstructure:"spectrogram"`
}

// State is everything the client renders. Access it only through a Store.
type State struct {
	// Connection target.
	BaseURL  string
	Token    string
	GuildID  string
	UserID   string
	Username string

	Current *queue.Track
	Queue   []queue.Track
	Loop    LoopMode
	Conn    ConnStatus

	Elapsed  time.Duration
	Duration time.Duration
	Paused   bool
	Anchor   time.Time

	// Spectrogram frames are immutable once stored; they are only ever
	// replaced wholesale.
	Spectrogram [][]uint8
	Bars        []float64

	VisualizerOffset time.Duration
	NeedsReconnect   bool

	Loading      bool
	ErrorMessage string
	FatalError   string
	Lyrics       string
	AuthInfo     string

	logs *Log
}

// NewState returns the startup defaults: nothing playing, paused, empty bars.
func NewState(now time.Time) State {
	return State{
		Paused: true,
		Anchor: now,
		Bars:   make([]float64, BandCount),
		logs:   NewLog(LogCapacity),
	}
}

// ElapsedMs returns the elapsed position in whole milliseconds.
func (s State) ElapsedMs() int64 { return s.Elapsed.Milliseconds() }

// DurationMs returns the track duration in whole milliseconds.
func (s State) DurationMs() int64 { return s.Duration.Milliseconds() }

// HasTrack reports whether a track is current.
func (s State) HasTrack() bool { return s.Current != nil }

// HasTarget reports whether both credential and guild are known, which is
// what the push stream needs before it can connect.
func (s State) HasTarget() bool { return s.Token != "" && s.GuildID != "" }

// ApplyPlayback overwrites the position with an authoritative snapshot and
// resets the extrapolation anchor. An embedded spectrogram replaces the buffer.
func (s *State) ApplyPlayback(p Playback, now time.Time) {
	if s.Elapsed == 0 && p.ElapsedMs > 0 {
		s.Logf("Synced playback to %dms", p.ElapsedMs)
	}
	s.Elapsed = time.Duration(p.ElapsedMs) * time.Millisecond
	s.Duration = time.Duration(p.DurationMs) * time.Millisecond
	s.Paused = p.Paused
	s.Anchor = now
	if p.Spectrogram != nil {
		s.Logf("Received spectrogram in state (%d frames)", len(p.Spectrogram))
		s.Spectrogram = p.Spectrogram
	}
}

// ApplyQueue replaces current track and queue with an authoritative snapshot,
// adopting the guild id when the reply names one.
func (s *State) ApplyQueue(snap queue.Snapshot) {
	if snap.GuildID != "" {
		if s.GuildID == "" {
			s.Logf("Discovered guild ID: %s", snap.GuildID)
		}
		s.GuildID = snap.GuildID
	}
	s.Current = snap.Current
	s.Queue = snap.Upcoming
}

// Logf appends a timestamped diagnostic line and mirrors it to the
// structured log.
func (s *State) Logf(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	if s.logs == nil {
		s.logs = NewLog(LogCapacity)
	}
	s.logs.Append(fmt.Sprintf("[%s] %s", time.Now().Format(time.TimeOnly), msg))
	zlog.Debug().Str("guild", s.GuildID).Msg(msg)
}

// Logs returns the held diagnostic lines, oldest first.
func (s State) Logs() []string {
	if s.logs == nil {
		return nil
	}
	return s.logs.Lines()
}

// LogTail returns up to n of the most recent diagnostic lines, oldest first.
func (s State) LogTail(n int) []string {
	if s.logs == nil {
		return nil
	}
	return s.logs.Tail(n)
}

// LogLen returns the number of held diagnostic lines.
func (s State) LogLen() int {
	if s.logs == nil {
		return 0
	}
	return s.logs.Len()
}

// clone copies the state so that slices owned by the store cannot be
// mutated through the copy. Spectrogram frames are shared since they are
// never written in place.
func (s *State) clone() State {
	c := *s
	if s.Current != nil {
		t := *s.Current
		c.Current = &t
	}
	c.Queue = append([]queue.Track(nil), s.Queue...)
	c.Bars = append([]float64(nil), s.Bars...)
	if s.logs != nil {
		c.logs = s.logs.clone()
	}
	return c
}
