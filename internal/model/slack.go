package model

// SlackEvent is the envelope Slack delivers to the events endpoint. Only the
// fields the relay acts on are mapped; everything else in the payload is
// ignored.
type SlackEvent struct {
	Token          string          `json:"token"`
	TeamID         string          `json:"team_id"`
	APIAppID       string          `json:"api_app_id"`
	Type           string          `json:"type"`
	Challenge      string          `json:"challenge"`
	Event          Event           `json:"event"`
	EventID        string          `json:"event_id"`
	EventTime      int             `json:"event_time"`
	Authorizations []Authorization `json:"authorizations"`
}

// Event is the inner message event
type Event struct {
	Type     string `json:"type"`
	SubType  string `json:"subtype"`
	User     string `json:"user"`
	BotID    string `json:"bot_id"`
	Text     string `json:"text"`
	Channel  string `json:"channel"`
	TS       string `json:"ts"`
	ThreadTS string `json:"thread_ts"`
}

// Authorization identifies an installation the event was delivered for. The
// first entry carries the bot's own user id.
type Authorization struct {
	EnterpriseID string `json:"enterprise_id"`
	TeamID       string `json:"team_id"`
	UserID       string `json:"user_id"`
	IsBot        bool   `json:"is_bot"`
}

// BotUserID returns the bot's own Slack user id from the first authorization,
// or "" when the envelope carries none.
func (e SlackEvent) BotUserID() string {
	if len(e.Authorizations) == 0 {
		return ""
	}
	return e.Authorizations[0].UserID
}

// ThreadKey identifies the conversation the event belongs to: the thread root
// timestamp when the message is a thread reply, otherwise the message's own
// timestamp (which becomes the root if a thread forms under it).
func (e Event) ThreadKey() string {
	if e.ThreadTS != "" {
		return e.ThreadTS
	}
	return e.TS
}

// FromBot reports whether the message was authored by a bot. Bot-authored
// messages are never answered to avoid reply loops.
func (e Event) FromBot() bool {
	return e.BotID != "" || e.SubType == "bot_message"
}
