// Package archive implements the archive_thread capability: fetch a Slack
// thread's messages and publish them as a Discourse post. The tool is handed
// to the response engine per dispatch, bound to the triggering event's
// channel and thread.
package archive

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"slack_scribe/internal/logger"
	"slack_scribe/internal/service/discourse"
	"slack_scribe/internal/service/openai"
	"slack_scribe/internal/storage"

	"go.uber.org/zap"
)

// ToolName is the function name the response engine calls the tool by.
const ToolName = "archive_thread"

// Error wraps any failure fetching the thread or publishing the post.
type Error struct {
	Err error
}

func (e *Error) Error() string {
	return fmt.Sprintf("archive thread: %v", e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// ThreadFetcher fetches a thread's message texts, oldest first.
type ThreadFetcher interface {
	FetchThreadReplies(ctx context.Context, channel, threadTS string) ([]string, error)
}

// Publisher creates a post in the external publishing system.
type Publisher interface {
	CreatePost(ctx context.Context, post discourse.Post) (*discourse.CreatedPost, error)
}

// Tool archives one Slack thread. Channel and thread default to the values
// bound at construction; arguments supplied by the engine take precedence.
type Tool struct {
	slack     ThreadFetcher
	publisher Publisher
	records   storage.RecordStore // optional audit trail, may be nil
	channel   string
	threadTS  string
}

func NewTool(slack ThreadFetcher, publisher Publisher, records storage.RecordStore, channel, threadTS string) *Tool {
	return &Tool{
		slack:     slack,
		publisher: publisher,
		records:   records,
		channel:   channel,
		threadTS:  threadTS,
	}
}

// Definition describes the tool to the response engine.
func (t *Tool) Definition() openai.Tool {
	return openai.Tool{
		Name: ToolName,
		Description: fmt.Sprintf(
			"Create a new Discourse post from a Slack thread. The current channel is %s and the current thread is %s; omit the arguments to archive this conversation.",
			t.channel, t.threadTS),
		Parameters: `{
			"type": "object",
			"properties": {
				"channel": {"type": "string", "description": "Slack channel id, defaults to the current channel"},
				"thread_ts": {"type": "string", "description": "Thread root timestamp, defaults to the current thread"}
			},
			"required": []
		}`,
	}
}

type result struct {
	PostID  int    `json:"post_id"`
	TopicID int    `json:"topic_id"`
	URL     string `json:"url"`
}

// Run fetches the thread, publishes it and returns the created post identity
// as a JSON string for the engine to mention in its reply.
func (t *Tool) Run(ctx context.Context, args map[string]interface{}) (string, error) {
	channel := t.channel
	if v, ok := args["channel"].(string); ok && v != "" {
		channel = v
	}
	threadTS := t.threadTS
	if v, ok := args["thread_ts"].(string); ok && v != "" {
		threadTS = v
	}

	messages, err := t.slack.FetchThreadReplies(ctx, channel, threadTS)
	if err != nil {
		return "", &Error{Err: err}
	}

	created, err := t.publisher.CreatePost(ctx, discourse.BuildPost(messages))
	if err != nil {
		return "", &Error{Err: err}
	}

	if t.records != nil {
		record := storage.ArchiveRecord{
			Channel:      channel,
			ThreadTS:     threadTS,
			PostID:       created.ID,
			TopicID:      created.TopicID,
			URL:          created.URL,
			MessageCount: len(messages),
			ArchivedAt:   time.Now().UTC(),
		}
		// Audit only; a failed record never fails the archive.
		if err := t.records.Save(ctx, record); err != nil {
			logger.GetLogger().Error("failed to save archive record", zap.Error(err))
		}
	}

	out, err := json.Marshal(result{PostID: created.ID, TopicID: created.TopicID, URL: created.URL})
	if err != nil {
		return "", &Error{Err: err}
	}
	return string(out), nil
}
