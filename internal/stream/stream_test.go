package stream

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/olivier-w/jorik/internal/queue"
	"github.com/olivier-w/jorik/internal/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func guildState(guild string) session.State {
	st := session.NewState(time.Now())
	st.GuildID = guild
	return st
}

func mustDecode(t *testing.T, msg string) Event {
	t.Helper()
	ev, err := Decode([]byte(msg))
	require.NoError(t, err)
	return ev
}

func TestDecodeKinds(t *testing.T) {
	tests := map[string]Kind{
		"spectrogram_update": KindSpectrogram,
		"state_update":       KindState,
		"initial_state":      KindState,
		"queue_update":       KindQueue,
		"track_start":        KindNotice,
		"track_end":          KindNotice,
		"player_update":      KindNotice,
		"something_new":      KindUnknown,
	}
	for typ, want := range tests {
		ev := mustDecode(t, `{"type":"`+typ+`","guildId":"g"}`)
		assert.Equal(t, want, ev.Kind(), typ)
	}

	_, err := Decode([]byte(`not json`))
	assert.Error(t, err)
	_, err = Decode([]byte(`{"guildId":"g"}`))
	assert.Error(t, err)
}

func TestApplyDropsOtherGuilds(t *testing.T) {
	st := guildState("g1")
	ev := mustDecode(t, `{"type":"state_update","guildId":"g2","playback":{"elapsedMs":9000,"durationMs":10000,"paused":false}}`)

	assert.False(t, Apply(&st, ev, time.Now()))
	assert.Zero(t, st.Elapsed)
	assert.True(t, st.Paused)

	notice := mustDecode(t, `{"type":"track_start","guildId":"g2"}`)
	assert.False(t, Apply(&st, notice, time.Now()))
}

func TestApplyStateTopLevelPlayback(t *testing.T) {
	st := guildState("g1")
	now := time.Now()
	ev := mustDecode(t, `{"type":"state_update","guildId":"g1","playback":{"elapsedMs":1200,"durationMs":5000,"paused":false,"spectrogram":[[1,2],[3,4]]}}`)

	assert.False(t, Apply(&st, ev, now))

	assert.Equal(t, int64(1200), st.ElapsedMs())
	assert.Equal(t, int64(5000), st.DurationMs())
	assert.False(t, st.Paused)
	assert.Equal(t, now, st.Anchor)
	assert.Equal(t, [][]uint8{{1, 2}, {3, 4}}, st.Spectrogram)
}

func TestApplyStateNestedPlayback(t *testing.T) {
	st := guildState("g1")
	now := time.Now()
	ev := mustDecode(t, `{"type":"initial_state","guildId":"g1","data":{"playback":{"elapsedMs":777,"durationMs":9000,"paused":true,"spectrogram":[[10,20,30]]}}}`)

	Apply(&st, ev, now)

	assert.Equal(t, int64(777), st.ElapsedMs())
	assert.Equal(t, int64(9000), st.DurationMs())
	assert.True(t, st.Paused)
	assert.Equal(t, [][]uint8{{10, 20, 30}}, st.Spectrogram)
}

func TestApplyStateWithoutPlaybackIsNoop(t *testing.T) {
	st := guildState("g1")
	st.Elapsed = time.Second
	Apply(&st, mustDecode(t, `{"type":"state_update","guildId":"g1","data":{"volume":3}}`), time.Now())
	Apply(&st, mustDecode(t, `{"type":"state_update","guildId":"g1","data":[1,2]}`), time.Now())
	assert.Equal(t, int64(1000), st.ElapsedMs())
}

func TestApplySpectrogramReplacesBuffer(t *testing.T) {
	st := guildState("g1")
	st.Spectrogram = [][]uint8{{9}}
	Apply(&st, mustDecode(t, `{"type":"spectrogram_update","guildId":"g1","data":[[1],[2],[3]]}`), time.Now())
	assert.Equal(t, [][]uint8{{1}, {2}, {3}}, st.Spectrogram)
}

func TestApplyQueueUpdateIsIdempotent(t *testing.T) {
	st := guildState("g1")
	ev := mustDecode(t, `{"type":"queue_update","guildId":"g1","data":{"current":{"title":"A","author":"B"},"upcoming":[{"title":"C","author":"D"}]}}`)

	assert.False(t, Apply(&st, ev, time.Now()))
	first := append([]queue.Track(nil), st.Queue...)
	firstCurrent := *st.Current

	assert.False(t, Apply(&st, ev, time.Now()))
	assert.True(t, queue.Equal(first, st.Queue))
	assert.Equal(t, firstCurrent, *st.Current)
}

func TestApplyRefetchTriggers(t *testing.T) {
	st := guildState("g1")
	assert.True(t, Apply(&st, mustDecode(t, `{"type":"queue_update","guildId":"g1"}`), time.Now()))
	assert.True(t, Apply(&st, mustDecode(t, `{"type":"track_end","guildId":"g1"}`), time.Now()))
	assert.True(t, Apply(&st, mustDecode(t, `{"type":"player_update","guildId":"g1"}`), time.Now()))
}

func TestApplyUnknownIsLogged(t *testing.T) {
	st := guildState("g1")
	before := st.LogLen()
	assert.False(t, Apply(&st, mustDecode(t, `{"type":"mystery","guildId":"g1"}`), time.Now()))
	require.Equal(t, before+1, st.LogLen())
	assert.Contains(t, st.Logs()[before], "WS Unhandled Event: mystery")
}

func TestWebSocketURL(t *testing.T) {
	u, err := WebSocketURL("https://jorik.example.com/", "a b")
	require.NoError(t, err)
	assert.Equal(t, "wss://jorik.example.com/ws?token=a+b", u)

	u, err = WebSocketURL("http://localhost:8080/api", "t")
	require.NoError(t, err)
	assert.Equal(t, "ws://localhost:8080/ws?token=t", u)

	_, err = WebSocketURL("::bad", "t")
	assert.Error(t, err)
	_, err = WebSocketURL("nohost", "t")
	assert.Error(t, err)
}

type failingDialer struct {
	mu    sync.Mutex
	calls []time.Time
}

func (d *failingDialer) Dial(ctx context.Context, url string) (Conn, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.calls = append(d.calls, time.Now())
	return nil, errors.New("refused")
}

func (d *failingDialer) attempts() []time.Time {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]time.Time(nil), d.calls...)
}

func testTiming() Timing {
	return Timing{
		Cooldown:        50 * time.Millisecond,
		WaitRecheck:     5 * time.Millisecond,
		WaitLogInterval: 20 * time.Millisecond,
		ReconnectCheck:  10 * time.Millisecond,
	}
}

func targetStore(baseURL string) *session.Store {
	store := session.NewDefaultStore()
	store.Update(func(st *session.State) {
		st.BaseURL = baseURL
		st.Token = "tok"
		st.GuildID = "g1"
	})
	return store
}

func TestClientWaitsCooldownBetweenAttempts(t *testing.T) {
	d := &failingDialer{}
	c := New(targetStore("http://127.0.0.1:1"), d, nil, WithTiming(testTiming()))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		c.Run(ctx)
		close(done)
	}()

	require.Eventually(t, func() bool { return len(d.attempts()) >= 3 }, 3*time.Second, 5*time.Millisecond)
	cancel()
	<-done

	calls := d.attempts()
	for i := 1; i < len(calls); i++ {
		assert.GreaterOrEqual(t, calls[i].Sub(calls[i-1]), 50*time.Millisecond)
	}
	assert.Equal(t, session.Disconnected, c.store.Snapshot().Conn)
}

func TestClientWaitsForTarget(t *testing.T) {
	d := &failingDialer{}
	store := session.NewDefaultStore()
	store.Update(func(st *session.State) {
		st.BaseURL = "http://127.0.0.1:1"
		st.Token = "tok"
	})
	c := New(store, d, nil, WithTiming(testTiming()))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go c.Run(ctx)

	require.Eventually(t, func() bool {
		for _, l := range store.Snapshot().Logs() {
			if strings.Contains(l, "WS waiting for Guild ID") {
				return true
			}
		}
		return false
	}, 2*time.Second, 5*time.Millisecond)
	assert.Empty(t, d.attempts())
	assert.Equal(t, Idle, c.State())
}

func TestClientSubscribesAndAppliesEvents(t *testing.T) {
	upgrader := websocket.Upgrader{}
	subscribed := make(chan map[string]string, 4)
	connections := make(chan struct{}, 4)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/ws", r.URL.Path)
		assert.Equal(t, "tok", r.URL.Query().Get("token"))
		conn, err := upgrader.Upgrade(w, r, nil)
		if !assert.NoError(t, err) {
			return
		}
		defer conn.Close()
		connections <- struct{}{}

		var sub map[string]string
		if !assert.NoError(t, conn.ReadJSON(&sub)) {
			return
		}
		subscribed <- sub

		conn.WriteMessage(websocket.TextMessage, []byte(`garbage`))
		conn.WriteMessage(websocket.TextMessage, []byte(`{"type":"state_update","guildId":"g1","playback":{"elapsedMs":42000,"durationMs":60000,"paused":false}}`))
		conn.WriteMessage(websocket.TextMessage, []byte(`{"type":"track_start","guildId":"g1"}`))

		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}))
	defer srv.Close()

	store := targetStore(srv.URL)
	refetched := make(chan struct{}, 4)
	c := New(store, WebSocketDialer{}, func() { refetched <- struct{}{} }, WithTiming(testTiming()))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go c.Run(ctx)

	select {
	case sub := <-subscribed:
		assert.Equal(t, map[string]string{"type": "subscribe", "guildId": "g1"}, sub)
	case <-time.After(3 * time.Second):
		t.Fatal("no subscribe message")
	}
	select {
	case <-refetched:
	case <-time.After(3 * time.Second):
		t.Fatal("track_start did not trigger a refetch")
	}

	require.Eventually(t, func() bool { return store.Snapshot().ElapsedMs() >= 42000 }, 3*time.Second, 5*time.Millisecond)
	assert.Equal(t, Connected, c.State())
	assert.Equal(t, session.Connected, store.Snapshot().Conn)

	store.Update(func(st *session.State) { st.NeedsReconnect = true })

	<-connections
	select {
	case <-connections:
	case <-time.After(3 * time.Second):
		t.Fatal("client did not reconnect after the reconnect flag")
	}
	assert.False(t, store.Snapshot().NeedsReconnect)
}

func TestClientReconnectsAfterServerClose(t *testing.T) {
	upgrader := websocket.Upgrader{}
	var mu sync.Mutex
	var accepted []time.Time
	connections := func() []time.Time {
		mu.Lock()
		defer mu.Unlock()
		return append([]time.Time(nil), accepted...)
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		mu.Lock()
		accepted = append(accepted, time.Now())
		mu.Unlock()

		var sub map[string]string
		if err := conn.ReadJSON(&sub); err != nil {
			return
		}
		conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, "bye"))
	}))
	defer srv.Close()

	c := New(targetStore(srv.URL), WebSocketDialer{}, nil, WithTiming(testTiming()))
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		c.Run(ctx)
		close(done)
	}()

	require.Eventually(t, func() bool { return len(connections()) >= 3 }, 5*time.Second, 5*time.Millisecond)
	cancel()
	<-done

	got := connections()
	for i := 1; i < len(got); i++ {
		assert.GreaterOrEqual(t, got[i].Sub(got[i-1]), 50*time.Millisecond)
	}
}
