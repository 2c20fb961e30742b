package session

import (
	"fmt"
	"testing"
	"time"

	"github.com/olivier-w/jorik/internal/queue"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogEvictsOldestPastCapacity(t *testing.T) {
	st := NewState(time.Now())
	for i := range LogCapacity {
		st.Logf("line %d", i)
	}
	require.Equal(t, LogCapacity, st.LogLen())

	st.Logf("newest")

	lines := st.Logs()
	assert.Len(t, lines, LogCapacity)
	assert.Contains(t, lines[0], "line 1")
	assert.Contains(t, lines[len(lines)-1], "newest")
}

func TestLogTail(t *testing.T) {
	l := NewLog(3)
	for i := range 5 {
		l.Append(fmt.Sprint(i))
	}
	assert.Equal(t, []string{"2", "3", "4"}, l.Lines())
	assert.Equal(t, []string{"3", "4"}, l.Tail(2))
	assert.Equal(t, []string{"2", "3", "4"}, l.Tail(10))
}

func TestLoopModeCycles(t *testing.T) {
	m := LoopOff
	m = m.Next()
	assert.Equal(t, LoopTrack, m)
	m = m.Next()
	assert.Equal(t, LoopQueue, m)
	m = m.Next()
	assert.Equal(t, LoopOff, m)
	assert.Equal(t, "queue", LoopQueue.String())
}

func TestSnapshotIsDetached(t *testing.T) {
	s := NewDefaultStore()
	s.Update(func(st *State) {
		st.Current = &queue.Track{Title: "a", Author: "b"}
		st.Queue = []queue.Track{{Title: "q"}}
		st.Bars[0] = 5
	})

	snap := s.Snapshot()
	snap.Current.Title = "changed"
	snap.Queue[0].Title = "changed"
	snap.Bars[0] = 99

	again := s.Snapshot()
	assert.Equal(t, "a", again.Current.Title)
	assert.Equal(t, "q", again.Queue[0].Title)
	assert.Equal(t, 5.0, again.Bars[0])
	assert.Len(t, again.Bars, BandCount)
}

func TestSnapshotAccessorsOnReturnedValue(t *testing.T) {
	s := NewDefaultStore()
	s.Update(func(st *State) {
		st.Token = "tok"
		st.GuildID = "g1"
		st.Elapsed = 1500 * time.Millisecond
		st.Duration = 3 * time.Second
	})
	for i := range 4 {
		s.Logf("entry %d", i)
	}

	assert.Equal(t, int64(1500), s.Snapshot().ElapsedMs())
	assert.Equal(t, int64(3000), s.Snapshot().DurationMs())
	assert.True(t, s.Snapshot().HasTarget())
	assert.Len(t, s.Snapshot().Logs(), 4)
	assert.Equal(t, 4, s.Snapshot().LogLen())

	tail := s.Snapshot().LogTail(2)
	require.Len(t, tail, 2)
	assert.Contains(t, tail[0], "entry 2")
	assert.Contains(t, tail[1], "entry 3")

	s.Update(func(st *State) { st.GuildID = "" })
	assert.False(t, s.Snapshot().HasTarget())
}

func TestApplyPlaybackResetsAnchor(t *testing.T) {
	t0 := time.Now()
	st := NewState(t0.Add(-time.Hour))

	st.ApplyPlayback(Playback{ElapsedMs: 1500, DurationMs: 9000, Paused: false}, t0)

	assert.Equal(t, int64(1500), st.ElapsedMs())
	assert.Equal(t, int64(9000), st.DurationMs())
	assert.False(t, st.Paused)
	assert.Equal(t, t0, st.Anchor)
	assert.Nil(t, st.Spectrogram)
}

func TestApplyQueueAdoptsGuild(t *testing.T) {
	st := NewState(time.Now())
	st.ApplyQueue(queue.Snapshot{GuildID: "g", Upcoming: []queue.Track{{Title: "x"}}})
	assert.Equal(t, "g", st.GuildID)
	assert.Nil(t, st.Current)
	assert.Len(t, st.Queue, 1)
}
