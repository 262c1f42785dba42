package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestThreadKey(t *testing.T) {
	ev := Event{TS: "100.1"}
	assert.Equal(t, "100.1", ev.ThreadKey())

	ev.ThreadTS = "99.0"
	assert.Equal(t, "99.0", ev.ThreadKey())
}

func TestBotUserID(t *testing.T) {
	var ev SlackEvent
	assert.Equal(t, "", ev.BotUserID())

	ev.Authorizations = []Authorization{{UserID: "U0BOT"}, {UserID: "U0OTHER"}}
	assert.Equal(t, "U0BOT", ev.BotUserID())
}

func TestFromBot(t *testing.T) {
	assert.False(t, Event{User: "U123"}.FromBot())
	assert.True(t, Event{BotID: "B123"}.FromBot())
	assert.True(t, Event{SubType: "bot_message"}.FromBot())
}

func TestUnmarshalEnvelope(t *testing.T) {
	payload := `{
		"type": "event_callback",
		"event": {
			"type": "message",
			"text": "<@U0BOT> hello",
			"channel": "C1",
			"ts": "1.0",
			"thread_ts": ""
		},
		"authorizations": [{"user_id": "U0BOT", "is_bot": true}]
	}`

	var ev SlackEvent
	require.NoError(t, json.Unmarshal([]byte(payload), &ev))
	assert.Equal(t, "event_callback", ev.Type)
	assert.Equal(t, "<@U0BOT> hello", ev.Event.Text)
	assert.Equal(t, "1.0", ev.Event.ThreadKey())
	assert.Equal(t, "U0BOT", ev.BotUserID())
}
