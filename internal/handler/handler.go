package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"slack_scribe/internal/archive"
	"slack_scribe/internal/logger"
	"slack_scribe/internal/model"
	"slack_scribe/internal/service/openai"
	"slack_scribe/internal/session"
	"slack_scribe/internal/storage"

	"github.com/Azure/azure-sdk-for-go/sdk/ai/azopenai"
	"github.com/gin-gonic/gin"
	"github.com/slack-go/slack/slackevents"
	"go.uber.org/zap"
)

// ErrInvalidEventType is surfaced to the webhook caller as a client error for
// any envelope type other than url_verification or event_callback.
var ErrInvalidEventType = errors.New("invalid event type")

// ChatEngine produces a completion from messages, possibly requesting calls
// to the declared tools.
type ChatEngine interface {
	ChatWithTools(ctx context.Context, messages []azopenai.ChatRequestMessageClassification, tools []openai.Tool) (*openai.ChatResponse, error)
}

// SlackGateway is the subset of the Slack Web API the dispatcher and the
// archival tool need.
type SlackGateway interface {
	PostMessage(ctx context.Context, channel, text, threadTS string) error
	FetchThreadReplies(ctx context.Context, channel, threadTS string) ([]string, error)
}

// TaskQueue runs a unit of work detached from the webhook request cycle.
// Submit reports false when the task was dropped.
type TaskQueue interface {
	Submit(task func()) bool
}

// EventHandler is the webhook entry point and the response dispatcher. The
// session store is injected so tests and multiple instances stay isolated.
type EventHandler struct {
	slack     SlackGateway
	engine    ChatEngine
	publisher archive.Publisher
	records   storage.RecordStore // optional, may be nil
	sessions  *session.Store
	jobs      TaskQueue
	persona   string
}

func NewEventHandler(slack SlackGateway, engine ChatEngine, publisher archive.Publisher, records storage.RecordStore, sessions *session.Store, jobs TaskQueue, persona string) *EventHandler {
	return &EventHandler{
		slack:     slack,
		engine:    engine,
		publisher: publisher,
		records:   records,
		sessions:  sessions,
		jobs:      jobs,
		persona:   persona,
	}
}

// HandleRequest accepts one Slack event envelope. The url_verification
// handshake is answered synchronously with no side effects; event callbacks
// are acknowledged immediately and processed on the task queue. Dispatch
// failures never reach the webhook caller.
func (h *EventHandler) HandleRequest(c *gin.Context) {
	log := logger.GetLogger()

	body, err := c.GetRawData()
	if err != nil || len(body) == 0 {
		log.Error("empty request body")
		c.JSON(http.StatusBadRequest, gin.H{"error": "empty request body"})
		return
	}

	var ev model.SlackEvent
	if err := json.Unmarshal(body, &ev); err != nil {
		log.Error("failed to parse slack event", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to parse slack event"})
		return
	}

	switch ev.Type {
	case slackevents.URLVerification:
		c.JSON(http.StatusOK, gin.H{"challenge": ev.Challenge})

	case slackevents.CallbackEvent:
		if ok := h.jobs.Submit(func() {
			if _, err := h.respondToMention(context.Background(), ev); err != nil {
				log.Error("dispatch failed",
					zap.Error(err),
					zap.String("event_id", ev.EventID),
					zap.String("channel", ev.Event.Channel))
			}
		}); !ok {
			log.Warn("dispatch queue saturated, dropping event", zap.String("event_id", ev.EventID))
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})

	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("%v: %q", ErrInvalidEventType, ev.Type)})
	}
}

// NewRouter builds the gin engine serving the events webhook.
func NewRouter(h *EventHandler) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(logger.GinLogMiddleware())
	r.Use(HandleSlackRetry())
	r.POST("/slack/events", h.HandleRequest)
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	return r
}
