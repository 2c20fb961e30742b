package stream

import (
	"context"
	"net/http"
	"net/url"

	"github.com/cockroachdb/errors"
	"github.com/gorilla/websocket"
)

// Conn is one open stream connection.
type Conn interface {
	// ReadMessage blocks for the next text or binary frame.
	ReadMessage() ([]byte, error)
	WriteJSON(v any) error
	Close() error
}

// Dialer opens stream connections.
type Dialer interface {
	Dial(ctx context.Context, url string) (Conn, error)
}

// WebSocketDialer dials with gorilla/websocket.
type WebSocketDialer struct {
	Dialer *websocket.Dialer
}

func (d WebSocketDialer) Dial(ctx context.Context, url string) (Conn, error) {
	dialer := d.Dialer
	if dialer == nil {
		dialer = websocket.DefaultDialer
	}
	header := http.Header{}
	header.Set("User-Agent", "jorik-cli")
	conn, _, err := dialer.DialContext(ctx, url, header)
	if err != nil {
		return nil, err
	}
	return wsConn{conn}, nil
}

type wsConn struct {
	*websocket.Conn
}

func (c wsConn) ReadMessage() ([]byte, error) {
	for {
		typ, data, err := c.Conn.ReadMessage()
		if err != nil {
			return nil, err
		}
		if typ == websocket.TextMessage || typ == websocket.BinaryMessage {
			return data, nil
		}
	}
}

// WebSocketURL derives the stream endpoint from the HTTP base URL: https
// becomes wss, anything else ws, the path is /ws and the token rides in
// the query.
func WebSocketURL(baseURL, token string) (string, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return "", errors.Wrap(err, "parsing base URL")
	}
	if u.Host == "" {
		return "", errors.Newf("base URL %q has no host", baseURL)
	}
	if u.Scheme == "https" {
		u.Scheme = "wss"
	} else {
		u.Scheme = "ws"
	}
	u.Path = "/ws"
	u.RawPath = ""
	q := u.Query()
	q.Add("token", token)
	u.RawQuery = q.Encode()
	return u.String(), nil
}
