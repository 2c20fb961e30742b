package stream

import (
	"encoding/json"

	"github.com/cockroachdb/errors"
	"github.com/olivier-w/jorik/internal/session"
)

// Kind classifies a push event by its type tag.
type Kind int

const (
	KindUnknown Kind = iota
	KindSpectrogram
	KindState
	KindQueue
	KindNotice
)

func (k Kind) String() string {
	switch k {
	case KindSpectrogram:
		return "spectrogram"
	case KindState:
		return "state"
	case KindQueue:
		return "queue"
	case KindNotice:
		return "notice"
	default:
		return "unknown"
	}
}

// Event is one message from the push stream.
type Event struct {
	Type     string            `json:"type"`
	GuildID  string            `json:"guildId,omitempty"`
	Data     json.RawMessage   `json:"data,omitempty"`
	Playback *session.Playback `json:"playback,omitempty"`
}

// Kind maps the type tag to a Kind.
func (e Event) Kind() Kind {
	switch e.Type {
	case "spectrogram_update":
		return KindSpectrogram
	case "state_update", "initial_state":
		return KindState
	case "queue_update":
		return KindQueue
	case "track_start", "track_end", "player_update":
		return KindNotice
	default:
		return KindUnknown
	}
}

// HasData reports whether the event carries a non-null data member.
func (e Event) HasData() bool {
	return len(e.Data) > 0 && string(e.Data) != "null"
}

// Decode parses one text frame. A frame without a type tag is malformed.
func Decode(msg []byte) (Event, error) {
	var ev Event
	if err := json.Unmarshal(msg, &ev); err != nil {
		return Event{}, errors.Wrap(err, "decoding stream event")
	}
	if ev.Type == "" {
		return Event{}, errors.New("stream event has no type")
	}
	return ev, nil
}

type subscribe struct {
	Type    string `json:"type"`
	GuildID string `json:"guildId"`
}

func subscribeMessage(guildID string) subscribe {
	return subscribe{Type: "subscribe", GuildID: guildID}
}
