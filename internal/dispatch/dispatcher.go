// Package dispatch sends user commands to the server and folds the
// authoritative replies back into the session store.
package dispatch

import (
	"context"
	"encoding/json"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/olivier-w/jorik/internal/api"
	"github.com/olivier-w/jorik/internal/queue"
	"github.com/olivier-w/jorik/internal/session"
	zlog "github.com/rs/zerolog/log"
)

const (
	// QueueLimit is the page size of every authoritative fetch.
	QueueLimit = 20

	DefaultSimpleSettle = 200 * time.Millisecond
	DefaultPlaySettle   = 500 * time.Millisecond
)

// Dispatcher issues one request per call. It never holds the store lock
// while a request is in flight.
type Dispatcher struct {
	store  *session.Store
	client *api.Client

	simpleSettle time.Duration
	playSettle   time.Duration
	now          func() time.Time
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithSettle overrides the delay between a command and its follow-up refresh.
func WithSettle(simple, play time.Duration) Option {
	return func(d *Dispatcher) {
		d.simpleSettle = simple
		d.playSettle = play
	}
}

// New creates a dispatcher writing into store.
func New(store *session.Store, client *api.Client, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		store:        store,
		client:       client,
		simpleSettle: DefaultSimpleSettle,
		playSettle:   DefaultPlaySettle,
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

type target struct {
	baseURL string
	token   string
	guildID string
	userID  string
}

// begin marks the store busy and copies out what a request needs.
func (d *Dispatcher) begin() target {
	var t target
	d.store.Update(func(st *session.State) {
		st.Loading = true
		t = target{baseURL: st.BaseURL, token: st.Token, guildID: st.GuildID, userID: st.UserID}
	})
	return t
}

// Refresh performs the authoritative fetch: current track, the first page
// of the queue, and the playback position when the server includes it.
func (d *Dispatcher) Refresh(ctx context.Context) error {
	t := d.begin()
	body, err := d.client.Audio(ctx, t.baseURL, t.token, api.Queue(QueueLimit, 0).For(t.guildID, t.userID))
	now := d.now()

	var snap queue.Snapshot
	if err == nil {
		snap, err = queue.ParseSnapshot(body)
	}
	var pb *session.Playback
	if err == nil && len(snap.Playback) > 0 {
		pb = new(session.Playback)
		if perr := json.Unmarshal(snap.Playback, pb); perr != nil {
			zlog.Warn().Err(perr).Msg("ignoring malformed playback in queue reply")
			pb = nil
		}
	}

	d.store.Update(func(st *session.State) {
		st.Loading = false
		if err != nil {
			recordError(st, err)
			return
		}
		st.ApplyQueue(snap)
		if pb != nil {
			st.ApplyPlayback(*pb, now)
		}
		st.ErrorMessage = ""
	})
	return err
}

// RefreshAsync runs Refresh on its own goroutine.
func (d *Dispatcher) RefreshAsync(ctx context.Context) {
	go func() {
		_ = d.Refresh(ctx)
	}()
}

// Send posts one command. When the server accepts it, Send waits for the
// settle delay and then refreshes, so the view reflects the command's
// effect. A rejected command leaves its error in the store and skips the
// refresh.
func (d *Dispatcher) Send(ctx context.Context, req api.Request) error {
	t := d.begin()
	_, err := d.client.Audio(ctx, t.baseURL, t.token, req.For(t.guildID, t.userID))
	if err != nil {
		d.store.Update(func(st *session.State) {
			st.Loading = false
			recordError(st, err)
		})
		return err
	}

	settle := d.simpleSettle
	if req.Action == api.ActionPlay {
		settle = d.playSettle
	}
	select {
	case <-ctx.Done():
		d.store.Update(func(st *session.State) { st.Loading = false })
		return ctx.Err()
	case <-time.After(settle):
	}
	return d.Refresh(ctx)
}

// Lyrics fetches the lyrics of the current track into the store.
func (d *Dispatcher) Lyrics(ctx context.Context) {
	t := d.begin()
	resp, err := d.client.Post(ctx, t.baseURL, t.token, api.Lyrics().For(t.guildID, t.userID))

	d.store.Update(func(st *session.State) {
		st.Loading = false
		if err != nil {
			st.Lyrics = "Failed to fetch lyrics: " + err.Error()
			st.Logf("Lyrics fetch failed: %v", err)
			return
		}
		st.Lyrics = api.ParseLyrics(resp.Body)
	})
}

// Revoke signs the token out on the server. The caller removes the local
// credentials either way.
func (d *Dispatcher) Revoke(ctx context.Context) error {
	t := d.begin()
	var err error
	if t.token != "" {
		err = d.client.Revoke(ctx, t.baseURL, t.token)
	}
	d.store.Update(func(st *session.State) {
		st.Loading = false
		st.Token = ""
		if err != nil {
			st.Logf("Token revoke failed: %v", err)
		}
	})
	return err
}

func recordError(st *session.State, err error) {
	msg := api.Describe(err)
	if errors.Is(err, api.ErrContextUnknown) {
		st.FatalError = msg
	} else {
		st.ErrorMessage = msg
	}
	st.Logf("Request failed: %v", err)
}
