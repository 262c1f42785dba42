// Package slackapi wraps the Slack Web API calls the relay needs: posting a
// reply into a thread and fetching a thread's full message list.
package slackapi

import (
	"context"
	"fmt"

	"github.com/slack-go/slack"
)

// APIError is returned for any failed Slack Web API call. It carries the API
// method for logging; HTTP-level detail (status code) is available via
// errors.As on the wrapped slack.StatusCodeError.
type APIError struct {
	Method string
	Err    error
}

func (e *APIError) Error() string {
	return fmt.Sprintf("slack %s: %v", e.Method, e.Err)
}

func (e *APIError) Unwrap() error {
	return e.Err
}

// Client calls the Slack Web API with the configured bot token. It holds no
// mutable state; each call is independent.
type Client struct {
	api *slack.Client
}

// New creates a client authenticated with the given bot token. Options are
// passed through to slack-go (tests use slack.OptionAPIURL).
func New(token string, opts ...slack.Option) *Client {
	return &Client{api: slack.New(token, opts...)}
}

// PostMessage posts text to a channel. A non-empty threadTS anchors the
// message as a reply in that thread. No retries; the caller decides.
func (c *Client) PostMessage(ctx context.Context, channel, text, threadTS string) error {
	opts := []slack.MsgOption{slack.MsgOptionText(text, false)}
	if threadTS != "" {
		opts = append(opts, slack.MsgOptionTS(threadTS))
	}
	_, _, err := c.api.PostMessageContext(ctx, channel, opts...)
	if err != nil {
		return &APIError{Method: "chat.postMessage", Err: err}
	}
	return nil
}

// FetchThreadReplies returns the text of every message in a thread, oldest
// first, paging through conversations.replies. Messages without text yield
// an empty string.
func (c *Client) FetchThreadReplies(ctx context.Context, channel, threadTS string) ([]string, error) {
	params := &slack.GetConversationRepliesParameters{
		ChannelID: channel,
		Timestamp: threadTS,
		Limit:     100, // messages per page
	}

	var texts []string
	for {
		messages, hasMore, nextCursor, err := c.api.GetConversationRepliesContext(ctx, params)
		if err != nil {
			return nil, &APIError{Method: "conversations.replies", Err: err}
		}
		for _, msg := range messages {
			texts = append(texts, msg.Text)
		}
		if !hasMore {
			break
		}
		params.Cursor = nextCursor
	}

	return texts, nil
}
