package api

// Action names accepted by the audio webhook.
const (
	ActionPlay            = "play"
	ActionSkip            = "skip"
	ActionPause           = "pause"
	ActionStop            = "stop"
	ActionShuffle         = "shuffle"
	ActionClear           = "clear"
	ActionLoop            = "loop"
	ActionTwentyFourSeven = "247"
	ActionFilter          = "filter"
	ActionQueue           = "queue"
	ActionLyrics          = "lyrics"
)

// Request is the body of POST /webhook/audio. Only the fields relevant to
// the action are sent.
type Request struct {
	Action      string   `json:"action"`
	GuildID     string   `json:"guild_id,omitempty"`
	UserID      string   `json:"user_id,omitempty"`
	ChannelID   string   `json:"channel_id,omitempty"`
	Query       string   `json:"query,omitempty"`
	RequestedBy string   `json:"requested_by,omitempty"`
	AvatarURL   string   `json:"avatar_url,omitempty"`
	Limit       int      `json:"limit,omitempty"`
	Offset      *int     `json:"offset,omitempty"`
	LoopMode    string   `json:"loop_mode,omitempty"`
	Enabled     *bool    `json:"enabled,omitempty"`
	Filters     *Filters `json:"filters,omitempty"`
}

// For returns a copy of r addressed to the given guild and user.
func (r Request) For(guildID, userID string) Request {
	r.GuildID = guildID
	r.UserID = userID
	return r
}

// Simple builds a request that carries nothing but its action.
func Simple(action string) Request {
	return Request{Action: action}
}

// Play enqueues a query or URL. Tracking parameters are stripped.
func Play(query string) Request {
	return Request{Action: ActionPlay, Query: CleanQuery(query)}
}

// Queue asks for the current track and a page of the upcoming queue.
func Queue(limit, offset int) Request {
	return Request{Action: ActionQueue, Limit: limit, Offset: &offset}
}

// Loop sets the loop mode ("off", "track" or "queue").
func Loop(mode string) Request {
	return Request{Action: ActionLoop, LoopMode: mode}
}

// TwentyFourSeven toggles 24/7 mode on the server.
func TwentyFourSeven() Request {
	return Request{Action: ActionTwentyFourSeven}
}

// Filter applies a filter set. An empty set clears all filters.
func Filter(f Filters) Request {
	return Request{Action: ActionFilter, Filters: &f}
}

// Lyrics asks for the lyrics of the current track.
func Lyrics() Request {
	return Request{Action: ActionLyrics}
}
