// Package openai wraps the Azure OpenAI chat completions API, exposing plain
// chat plus a function-tool variant used by the response dispatcher.
package openai

import (
	"context"
	"encoding/json"
	"fmt"

	"slack_scribe/internal/logger"

	"github.com/Azure/azure-sdk-for-go/sdk/ai/azopenai"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/to"
	"go.uber.org/zap"
)

type Client struct {
	client         *azopenai.Client
	deploymentName string
}

func NewClient(endpoint, apiKey, deploymentName string) (*Client, error) {
	keyCredential := azcore.NewKeyCredential(apiKey)
	client, err := azopenai.NewClientWithKeyCredential(endpoint, keyCredential, nil)
	if err != nil {
		return nil, err
	}

	return &Client{
		client:         client,
		deploymentName: deploymentName,
	}, nil
}

// Tool declares one callable capability offered to the model.
type Tool struct {
	Name        string
	Description string
	Parameters  string // JSON schema for the arguments
}

// ToolCall is one tool invocation requested by the model.
type ToolCall struct {
	ID   string
	Name string
	Args map[string]interface{}
}

// ChatResponse is the outcome of one completion round. IsComplete is false
// when the model asked for tool calls instead of producing a final answer.
type ChatResponse struct {
	Content    string
	ToolCalls  []ToolCall
	IsComplete bool
}

func (c *Client) Chat(ctx context.Context, messages []azopenai.ChatRequestMessageClassification) (string, error) {
	resp, err := c.client.GetChatCompletions(ctx, azopenai.ChatCompletionsOptions{
		DeploymentName: to.Ptr(c.deploymentName),
		Messages:       messages,
		N:              to.Ptr[int32](1),
	}, nil)
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", nil
	}
	return *resp.Choices[0].Message.Content, nil
}

func (c *Client) ChatWithTools(ctx context.Context, messages []azopenai.ChatRequestMessageClassification, tools []Tool) (*ChatResponse, error) {
	var azureTools []azopenai.ChatCompletionsToolDefinitionClassification
	for _, tool := range tools {
		azureTools = append(azureTools, &azopenai.ChatCompletionsFunctionToolDefinition{
			Function: &azopenai.ChatCompletionsFunctionToolDefinitionFunction{
				Name:        to.Ptr(tool.Name),
				Description: to.Ptr(tool.Description),
				Parameters:  []byte(tool.Parameters),
			},
		})
	}

	logger.GetLogger().Debug("sending messages to AI", zap.Int("message_count", len(messages)))
	resp, err := c.client.GetChatCompletions(ctx, azopenai.ChatCompletionsOptions{
		DeploymentName: to.Ptr(c.deploymentName),
		Messages:       messages,
		N:              to.Ptr[int32](1),
		Tools:          azureTools,
	}, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to get chat completion: %w", err)
	}

	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("no choices returned from chat completion")
	}

	choice := resp.Choices[0]
	response := &ChatResponse{IsComplete: true}
	if choice.Message != nil && choice.Message.Content != nil {
		response.Content = *choice.Message.Content
	}

	if choice.Message != nil && len(choice.Message.ToolCalls) > 0 {
		response.IsComplete = false
		for _, call := range choice.Message.ToolCalls {
			switch v := call.(type) {
			case *azopenai.ChatCompletionsFunctionToolCall:
				var args map[string]interface{}
				if err := json.Unmarshal([]byte(*v.Function.Arguments), &args); err != nil {
					return nil, fmt.Errorf("failed to parse tool arguments: %w", err)
				}
				response.ToolCalls = append(response.ToolCalls, ToolCall{
					ID:   *v.ID,
					Name: *v.Function.Name,
					Args: args,
				})
			default:
				logger.GetLogger().Error("unknown tool call type", zap.Any("tool", v))
			}
		}
	}

	return response, nil
}
