package stream

import (
	"encoding/json"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/mitchellh/mapstructure"
	"github.com/olivier-w/jorik/internal/queue"
	"github.com/olivier-w/jorik/internal/session"
)

// Apply folds ev into st and reports whether the caller should follow up
// with an authoritative refetch. Events for another guild are dropped.
// It runs under the store lock and must not block.
func Apply(st *session.State, ev Event, now time.Time) (refetch bool) {
	kind := ev.Kind()
	if kind == KindUnknown {
		st.Logf("WS Unhandled Event: %s", ev.Type)
		return false
	}
	if ev.GuildID != st.GuildID {
		return false
	}

	switch kind {
	case KindSpectrogram:
		if !ev.HasData() {
			return false
		}
		var frames [][]uint8
		if err := json.Unmarshal(ev.Data, &frames); err != nil {
			st.Logf("WS bad spectrogram: %v", err)
			return false
		}
		st.Logf("Received Spectrogram (%d frames)", len(frames))
		st.Spectrogram = frames

	case KindState:
		pb, err := statePlayback(ev)
		if err != nil {
			st.Logf("WS bad playback: %v", err)
			return false
		}
		if pb == nil {
			return false
		}
		if pb.ElapsedMs%5000 < 500 {
			st.Logf("State Update: elapsed=%dms, paused=%t", pb.ElapsedMs, pb.Paused)
		}
		st.ApplyPlayback(*pb, now)

	case KindQueue:
		st.Logf("Received Queue Update")
		if !ev.HasData() {
			return true
		}
		snap, err := queue.ParseSnapshot(ev.Data)
		if err != nil {
			st.Logf("WS bad queue data: %v", err)
			return false
		}
		st.ApplyQueue(snap)

	case KindNotice:
		st.Logf("WS Event: %s, refreshing queue", ev.Type)
		return true
	}
	return false
}

// statePlayback prefers the top-level playback member and falls back to
// data.playback, which some server versions nest inside an opaque object.
func statePlayback(ev Event) (*session.Playback, error) {
	if ev.Playback != nil {
		return ev.Playback, nil
	}
	if !ev.HasData() {
		return nil, nil
	}
	var data map[string]any
	if err := json.Unmarshal(ev.Data, &data); err != nil {
		// data is not an object, so there is nothing nested to find.
		return nil, nil
	}
	raw, ok := data["playback"]
	if !ok || raw == nil {
		return nil, nil
	}

	var pb session.Playback
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:  &pb,
		TagName: "mapstructure",
	})
	if err != nil {
		return nil, errors.Wrap(err, "creating playback decoder")
	}
	if err := dec.Decode(raw); err != nil {
		return nil, errors.Wrap(err, "decoding nested playback")
	}
	return &pb, nil
}
