package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"slack_scribe/internal/service/openai"
	"slack_scribe/internal/session"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// countQueue records submissions without running them, so intake behavior is
// observable independently of the dispatcher.
type countQueue struct {
	submitted int
}

func (q *countQueue) Submit(task func()) bool {
	q.submitted++
	return true
}

func post(t *testing.T, router *gin.Engine, payload string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/slack/events", bytes.NewBufferString(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func newIntakeRouter(jobs TaskQueue, slack *fakeSlack, engine *fakeEngine) (*gin.Engine, *session.Store) {
	sessions := session.New(time.Hour, 100)
	h := NewEventHandler(slack, engine, &fakePublisher{}, nil, sessions, jobs, "persona")
	return NewRouter(h), sessions
}

func TestURLVerificationEchoesChallenge(t *testing.T) {
	for _, challenge := range []string{"3eZbrw1aBm2rZgRNFdxV2595E9CY3gmdALWMmHkvFXO7tYXAYM8P", ""} {
		queue := &countQueue{}
		router, _ := newIntakeRouter(queue, &fakeSlack{}, &fakeEngine{})

		body, err := json.Marshal(map[string]string{"type": "url_verification", "challenge": challenge})
		require.NoError(t, err)

		w := post(t, router, string(body))
		require.Equal(t, http.StatusOK, w.Code)

		var resp map[string]string
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, challenge, resp["challenge"])
		assert.Zero(t, queue.submitted, "handshake must schedule nothing")
	}
}

func TestInvalidEventTypeRejectedWithoutScheduling(t *testing.T) {
	queue := &countQueue{}
	slack := &fakeSlack{}
	router, _ := newIntakeRouter(queue, slack, &fakeEngine{})

	w := post(t, router, `{"type":"app_rate_limited"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "invalid event type")
	assert.Zero(t, queue.submitted)
	assert.Empty(t, slack.posted())
}

func TestEmptyBodyRejected(t *testing.T) {
	queue := &countQueue{}
	router, _ := newIntakeRouter(queue, &fakeSlack{}, &fakeEngine{})

	w := post(t, router, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Zero(t, queue.submitted)
}

func TestCallbackAcknowledgedBeforeDispatch(t *testing.T) {
	queue := &countQueue{}
	router, _ := newIntakeRouter(queue, &fakeSlack{}, &fakeEngine{})

	w := post(t, router, `{"type":"event_callback","event":{"type":"message","text":"<@U0BOT> hi","channel":"C1","ts":"1.0"},"authorizations":[{"user_id":"U0BOT"}]}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
	assert.Equal(t, 1, queue.submitted, "callback must be scheduled exactly once")
}

func TestEndToEndCallback(t *testing.T) {
	slack := &fakeSlack{}
	engine := &fakeEngine{responses: []*openai.ChatResponse{reply("hello human")}}
	router, sessions := newIntakeRouter(syncQueue{}, slack, engine)

	w := post(t, router, `{"type":"event_callback","event":{"type":"message","text":"<@BOT> hello","channel":"C1","ts":"1.0","thread_ts":""},"authorizations":[{"user_id":"BOT"}]}`)
	require.Equal(t, http.StatusOK, w.Code)

	posts := slack.posted()
	require.Len(t, posts, 1)
	assert.Equal(t, "C1", posts[0].channel)
	assert.Equal(t, "1.0", posts[0].threadTS)

	history, ok := sessions.Get("1.0")
	require.True(t, ok)
	assert.NotEmpty(t, history)
}

func TestSlackRetryStillProcessed(t *testing.T) {
	queue := &countQueue{}
	router, _ := newIntakeRouter(queue, &fakeSlack{}, &fakeEngine{})

	req := httptest.NewRequest(http.MethodPost, "/slack/events",
		bytes.NewBufferString(`{"type":"event_callback","event":{"type":"message","text":"hi","channel":"C1","ts":"1.0"}}`))
	req.Header.Set("X-Slack-Retry-Num", "1")
	req.Header.Set("X-Slack-Retry-Reason", "http_timeout")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, queue.submitted, "redeliveries go through the normal addressing check")
}
