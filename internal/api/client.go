// Package api is the client for the bot's HTTP command interface.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	zlog "github.com/rs/zerolog/log"
)

const (
	audioPath  = "/webhook/audio"
	healthPath = "/health"
	revokePath = "/webhook/auth/revoke"

	// DefaultTimeout bounds every request.
	DefaultTimeout = 10 * time.Second

	userAgent = "jorik-cli"
)

// Response is a raw server reply.
type Response struct {
	Status int
	Body   []byte
}

// OK reports whether the status is 2xx.
func (r *Response) OK() bool {
	return r.Status >= 200 && r.Status < 300
}

// Client sends requests to the server. It is safe for concurrent use.
type Client struct {
	http *http.Client
}

// NewClient creates a client with the given per-request timeout.
func NewClient(timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{http: &http.Client{Timeout: timeout}}
}

// Post sends an audio command and returns the reply whatever its status.
// Only a failure to get a reply is an error.
func (c *Client) Post(ctx context.Context, baseURL, token string, req Request) (*Response, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, errors.Wrap(err, "failed to encode request")
	}
	return c.do(ctx, http.MethodPost, BuildURL(baseURL, audioPath), token, body)
}

// Audio sends an audio command and returns the body of a 2xx reply. Other
// replies become an *APIError.
func (c *Client) Audio(ctx context.Context, baseURL, token string, req Request) (json.RawMessage, error) {
	resp, err := c.Post(ctx, baseURL, token, req)
	if err != nil {
		return nil, err
	}
	if !resp.OK() {
		return nil, newAPIError(resp.Status, resp.Body)
	}
	return resp.Body, nil
}

// Health queries the health endpoint.
func (c *Client) Health(ctx context.Context, baseURL string) (*Response, error) {
	return c.do(ctx, http.MethodGet, BuildURL(baseURL, healthPath), "", nil)
}

// Revoke invalidates token on the server.
func (c *Client) Revoke(ctx context.Context, baseURL, token string) error {
	resp, err := c.do(ctx, http.MethodPost, BuildURL(baseURL, revokePath), token, nil)
	if err != nil {
		return err
	}
	if !resp.OK() {
		return newAPIError(resp.Status, resp.Body)
	}
	return nil
}

func (c *Client) do(ctx context.Context, method, url, token string, body []byte) (*Response, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to build request for %s", url)
	}
	requestID := uuid.NewString()
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("X-Request-Id", requestID)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, errors.Mark(errors.Wrapf(err, "%s %s", method, url), ErrTransport)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Mark(errors.Wrap(err, "failed to read response body"), ErrTransport)
	}
	zlog.Debug().
		Str("request_id", requestID).
		Str("method", method).
		Str("url", url).
		Int("status", resp.StatusCode).
		Dur("took", time.Since(start)).
		Msg("api request")
	return &Response{Status: resp.StatusCode, Body: data}, nil
}
