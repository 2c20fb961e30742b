// Package stream keeps a push connection to the server open and applies
// its events to the session store.
package stream

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/olivier-w/jorik/internal/session"
	zlog "github.com/rs/zerolog/log"
)

// ReconnectState is the client's position in its connect cycle.
type ReconnectState int32

const (
	Idle ReconnectState = iota
	Connecting
	Connected
	BackoffWait
)

func (s ReconnectState) String() string {
	switch s {
	case Connecting:
		return "connecting"
	case Connected:
		return "connected"
	case BackoffWait:
		return "backoff"
	default:
		return "idle"
	}
}

// Timing holds the client's fixed delays.
type Timing struct {
	// Cooldown is the wait after every disconnect before the next attempt.
	Cooldown time.Duration
	// WaitRecheck is how often a client without token or guild looks again.
	WaitRecheck time.Duration
	// WaitLogInterval limits the "waiting" diagnostic.
	WaitLogInterval time.Duration
	// ReconnectCheck is how often an idle connection checks the reconnect flag.
	ReconnectCheck time.Duration
}

// DefaultTiming returns the production delays.
func DefaultTiming() Timing {
	return Timing{
		Cooldown:        5 * time.Second,
		WaitRecheck:     time.Second,
		WaitLogInterval: 10 * time.Second,
		ReconnectCheck:  500 * time.Millisecond,
	}
}

// Client is the long-lived stream task.
type Client struct {
	store   *session.Store
	dialer  Dialer
	refetch func()
	timing  Timing
	state   atomic.Int32
}

// Option configures a Client.
type Option func(*Client)

// WithTiming overrides the client's delays.
func WithTiming(t Timing) Option {
	return func(c *Client) { c.timing = t }
}

// New creates a stream client. refetch is called, outside the store lock,
// whenever an event asks for an authoritative refresh; it must not block.
func New(store *session.Store, dialer Dialer, refetch func(), opts ...Option) *Client {
	c := &Client{
		store:   store,
		dialer:  dialer,
		refetch: refetch,
		timing:  DefaultTiming(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// State returns the current reconnect state.
func (c *Client) State() ReconnectState {
	return ReconnectState(c.state.Load())
}

func (c *Client) setState(s ReconnectState) {
	c.state.Store(int32(s))
	var status session.ConnStatus
	switch s {
	case Connecting:
		status = session.Connecting
	case Connected:
		status = session.Connected
	default:
		status = session.Disconnected
	}
	c.store.Update(func(st *session.State) { st.Conn = status })
}

// Run connects, consumes events, and reconnects after a cool-down until
// ctx is done. Connection failures are logged, never surfaced as errors.
func (c *Client) Run(ctx context.Context) {
	lastWaitLog := time.Now()
	for ctx.Err() == nil {
		var baseURL, token, guildID string
		var ready bool
		c.store.Update(func(st *session.State) {
			baseURL, token, guildID = st.BaseURL, st.Token, st.GuildID
			ready = st.HasTarget()
		})

		if !ready {
			if time.Since(lastWaitLog) > c.timing.WaitLogInterval {
				if token == "" {
					c.store.Logf("WS waiting for token...")
				} else {
					c.store.Logf("WS waiting for Guild ID (join a voice channel or specify --guild-id)...")
				}
				lastWaitLog = time.Now()
			}
			if !sleep(ctx, c.timing.WaitRecheck) {
				return
			}
			continue
		}

		c.connectOnce(ctx, baseURL, token, guildID)

		c.setState(BackoffWait)
		if !sleep(ctx, c.timing.Cooldown) {
			c.setState(Idle)
			return
		}
		c.setState(Idle)
	}
}

func (c *Client) connectOnce(ctx context.Context, baseURL, token, guildID string) {
	url, err := WebSocketURL(baseURL, token)
	if err != nil {
		c.store.Logf("WS URL Parse Error: %v", err)
		return
	}

	c.setState(Connecting)
	c.store.Logf("WS Connecting to %s", baseURL)
	conn, err := c.dialer.Dial(ctx, url)
	if err != nil {
		c.store.Logf("WS Connection Failed: %v", err)
		return
	}
	defer conn.Close()

	c.setState(Connected)
	c.store.Logf("WS Connected")
	if err := conn.WriteJSON(subscribeMessage(guildID)); err != nil {
		c.store.Logf("WS subscribe failed: %v", err)
	}

	c.consume(ctx, conn)
}

type frame struct {
	data []byte
	err  error
}

// consume reads until the connection fails, ctx ends, or the reconnect
// flag is raised.
func (c *Client) consume(ctx context.Context, conn Conn) {
	frames := make(chan frame)
	done := make(chan struct{})
	defer close(done)

	go func() {
		for {
			data, err := conn.ReadMessage()
			select {
			case frames <- frame{data: data, err: err}:
			case <-done:
				return
			}
			if err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(c.timing.ReconnectCheck)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case f := <-frames:
			if f.err != nil {
				c.store.Logf("WS Error: %v", f.err)
				return
			}
			c.handle(f.data)
		case <-ticker.C:
			reconnect := false
			c.store.Update(func(st *session.State) {
				if st.NeedsReconnect {
					st.NeedsReconnect = false
					reconnect = true
					st.Logf("WS Forcing reconnect due to settings change")
				}
			})
			if reconnect {
				return
			}
		}
	}
}

func (c *Client) handle(data []byte) {
	ev, err := Decode(data)
	if err != nil {
		c.store.Logf("WS Unparsed Message: %s", truncate(data, 200))
		zlog.Debug().Err(err).Msg("malformed stream message")
		return
	}

	now := time.Now()
	var refetch bool
	c.store.Update(func(st *session.State) {
		st.Logf("WS Event: %s", ev.Type)
		refetch = Apply(st, ev, now)
	})
	if refetch && c.refetch != nil {
		c.refetch()
	}
}

func sleep(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
