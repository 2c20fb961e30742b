package api

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/cockroachdb/errors"
)

var (
	// ErrTransport marks failures to reach the server at all.
	ErrTransport = errors.New("transport error")
	// ErrContextUnknown marks the server's refusal to act because the user is
	// not in a voice channel or the guild cannot be determined. It is fatal
	// until the user explicitly reloads.
	ErrContextUnknown = errors.New("user not in voice channel or guild unknown")
)

const contextUnknownMessage = "user_not_in_voice_channel_or_guild_unknown"

// APIError is a non-2xx reply from the server.
type APIError struct {
	Status  int
	Code    string
	Message string
	Body    string
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("%d %s: %s", e.Status, e.Code, e.Message)
	}
	return fmt.Sprintf("%d: %s", e.Status, e.Body)
}

// newAPIError decodes the structured {"error","message"} body when present
// and marks the context-unknown reply.
func newAPIError(status int, body []byte) error {
	e := &APIError{Status: status, Body: string(body)}
	var payload struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if json.Unmarshal(body, &payload) == nil {
		e.Code = payload.Error
		e.Message = payload.Message
	}
	if e.Code == "bad_request" && e.Message == contextUnknownMessage {
		return errors.Mark(e, ErrContextUnknown)
	}
	return e
}

// Describe turns a command error into the single line shown to the user.
func Describe(err error) string {
	if err == nil {
		return ""
	}
	if errors.Is(err, ErrContextUnknown) {
		return "User not in voice channel or guild unknown.\n\nPress 'r' to reload."
	}
	if errors.Is(err, ErrTransport) {
		return "Network error: " + err.Error()
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		if strings.Contains(apiErr.Body, "guild_id is required") {
			return "Not connected to a voice channel or Guild ID missing."
		}
		return "Error: " + apiErr.Body
	}
	return "Error: " + err.Error()
}
