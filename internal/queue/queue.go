package queue

import (
	"encoding/json"

	"github.com/cockroachdb/errors"
)

// Track is a single entry shown in the now-playing line or the queue.
type Track struct {
	Title  string `json:"title"`
	Author string `json:"author"`
}

// String renders the track as "Title - Author".
func (t Track) String() string {
	return t.Title + " - " + t.Author
}

// Snapshot is the authoritative queue state returned by the server, either
// in a queue fetch reply or embedded in a queue_update event.
type Snapshot struct {
	GuildID  string
	Current  *Track
	Upcoming []Track
	Playback json.RawMessage
}

type rawTrack struct {
	Title  *string `json:"title"`
	Author *string `json:"author"`
}

func (r rawTrack) track() Track {
	t := Track{Title: "Unknown"}
	if r.Title != nil {
		t.Title = *r.Title
	}
	if r.Author != nil {
		t.Author = *r.Author
	}
	return t
}

type rawSnapshot struct {
	GuildID      string          `json:"guild_id"`
	GuildIDCamel string          `json:"guildId"`
	Current      *rawTrack       `json:"current"`
	Upcoming     []rawTrack      `json:"upcoming"`
	Playback     json.RawMessage `json:"playback"`
}

// ParseSnapshot decodes a queue reply. Missing titles become "Unknown" and
// missing authors stay empty. A reply without "upcoming" yields an empty queue.
func ParseSnapshot(data []byte) (Snapshot, error) {
	var raw rawSnapshot
	if err := json.Unmarshal(data, &raw); err != nil {
		return Snapshot{}, errors.Wrap(err, "decoding queue snapshot")
	}

	s := Snapshot{
		GuildID:  raw.GuildID,
		Upcoming: make([]Track, 0, len(raw.Upcoming)),
		Playback: raw.Playback,
	}
	if s.GuildID == "" {
		s.GuildID = raw.GuildIDCamel
	}
	if raw.Current != nil {
		t := raw.Current.track()
		s.Current = &t
	}
	for _, r := range raw.Upcoming {
		s.Upcoming = append(s.Upcoming, r.track())
	}
	if string(s.Playback) == "null" {
		s.Playback = nil
	}
	return s, nil
}

// Equal reports whether two queues hold the same tracks in the same order.
func Equal(a, b []Track) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
