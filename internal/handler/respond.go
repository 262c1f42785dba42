package handler

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"slack_scribe/internal/archive"
	"slack_scribe/internal/logger"
	"slack_scribe/internal/model"
	"slack_scribe/internal/service/openai"
	"slack_scribe/internal/session"

	"github.com/Azure/azure-sdk-for-go/sdk/ai/azopenai"
	"go.uber.org/zap"
)

var mentionPattern = regexp.MustCompile(`<@(\w+)>`)

const (
	// maxToolRounds bounds the tool-call loop per dispatch.
	maxToolRounds = 10
	// engineTimeout caps one whole dispatch including tool calls.
	engineTimeout = 5 * time.Minute
)

// respondToMention runs one detached dispatch: decide addressing, load the
// thread's history, invoke the engine with the archival tool attached, save
// the updated history and post the reply. The returned reply is for tests;
// nothing is delivered back to the webhook caller.
//
// Messages that carry no mention, mention someone else, or come from a bot
// terminate silently. Two near-simultaneous mentions in the same thread race
// on the session read-modify-write; the last write wins.
func (h *EventHandler) respondToMention(ctx context.Context, ev model.SlackEvent) (string, error) {
	event := ev.Event
	if event.FromBot() {
		return "", nil
	}

	match := mentionPattern.FindStringSubmatch(event.Text)
	if match == nil {
		return "", nil
	}
	if match[1] != ev.BotUserID() {
		logger.GetLogger().Info("skipping message not meant for the bot",
			zap.String("mentioned_user", match[1]),
			zap.String("channel", event.Channel))
		return "", nil
	}

	ctx, cancel := context.WithTimeout(ctx, engineTimeout)
	defer cancel()

	threadKey := event.ThreadKey()
	prompt := strings.TrimSpace(mentionPattern.ReplaceAllString(event.Text, ""))

	// A miss (absent or expired) starts the conversation fresh.
	history, _ := h.sessions.Get(threadKey)

	tool := archive.NewTool(h.slack, h.publisher, h.records, event.Channel, threadKey)
	reply, err := h.runEngine(ctx, prompt, history, tool)
	if err != nil {
		return "", fmt.Errorf("engine invocation failed: %w", err)
	}

	// Save the turn before posting so a failed post never loses history.
	updated := append(history,
		session.Message{Role: "user", Content: prompt},
		session.Message{Role: "assistant", Content: reply})
	h.sessions.Put(threadKey, updated)

	if err := h.slack.PostMessage(ctx, event.Channel, reply, threadKey); err != nil {
		logger.GetLogger().Error("failed to post reply",
			zap.Error(err),
			zap.String("channel", event.Channel),
			zap.String("thread_ts", threadKey))
	}

	return reply, nil
}

// runEngine drives the completion loop, executing archive tool calls the
// model requests until it produces a final reply or the round budget runs
// out. A failed tool call is fed back to the model so it can surface the
// problem conversationally instead of aborting the dispatch.
func (h *EventHandler) runEngine(ctx context.Context, prompt string, history []session.Message, tool *archive.Tool) (string, error) {
	messages := buildMessages(h.persona, history, prompt)
	tools := []openai.Tool{tool.Definition()}

	for round := 0; round < maxToolRounds; round++ {
		response, err := h.engine.ChatWithTools(ctx, messages, tools)
		if err != nil {
			return "", err
		}
		if response.IsComplete {
			return response.Content, nil
		}

		for _, call := range response.ToolCalls {
			if call.Name != archive.ToolName {
				messages = append(messages, &azopenai.ChatRequestUserMessage{
					Content: azopenai.NewChatRequestUserMessageContent(
						fmt.Sprintf("The tool %s is not available. Use %s or answer directly.", call.Name, archive.ToolName)),
				})
				continue
			}

			result, err := tool.Run(ctx, call.Args)
			if err != nil {
				logger.GetLogger().Error("archive tool failed", zap.Error(err))
				messages = append(messages, &azopenai.ChatRequestUserMessage{
					Content: azopenai.NewChatRequestUserMessageContent(
						fmt.Sprintf("Error occurred when calling tool %s: %v. Tell the user the archive attempt failed.", call.Name, err)),
				})
				continue
			}

			messages = append(messages, &azopenai.ChatRequestAssistantMessage{
				Content: azopenai.NewChatRequestAssistantMessageContent(
					fmt.Sprintf("The tool `%s` was called with arguments `%v`, and the result is: %s", call.Name, call.Args, result)),
			})
		}
	}

	return "", fmt.Errorf("no final reply after %d tool rounds", maxToolRounds)
}

// buildMessages assembles the engine request: persona, prior turns, then the
// current prompt.
func buildMessages(persona string, history []session.Message, prompt string) []azopenai.ChatRequestMessageClassification {
	messages := []azopenai.ChatRequestMessageClassification{
		&azopenai.ChatRequestSystemMessage{
			Content: azopenai.NewChatRequestSystemMessageContent(persona),
		},
	}

	for _, msg := range history {
		switch msg.Role {
		case "user":
			messages = append(messages, &azopenai.ChatRequestUserMessage{
				Content: azopenai.NewChatRequestUserMessageContent(msg.Content),
			})
		case "assistant":
			messages = append(messages, &azopenai.ChatRequestAssistantMessage{
				Content: azopenai.NewChatRequestAssistantMessageContent(msg.Content),
			})
		}
	}

	messages = append(messages, &azopenai.ChatRequestUserMessage{
		Content: azopenai.NewChatRequestUserMessageContent(prompt),
	})

	return messages
}
