package groq

import (
	"context"
	"fmt"

	"github.com/conneroisu/groq-go"

	"storyframe/internal/llm"
)

// Client adapts the Groq chat completion API to the Completer interface.
type Client struct {
	client *groq.Client
	model  groq.ChatModel
}

func NewClient(apiKey, model string) (*Client, error) {
	client, err := groq.NewClient(apiKey)
	if err != nil {
		return nil, fmt.Errorf("create groq client: %w", err)
	}

	return &Client{
		client: client,
		model:  groq.ChatModel(model),
	}, nil
}

func (c *Client) Complete(ctx context.Context, messages []llm.Message) (string, error) {
	resp, err := c.client.ChatCompletion(ctx, groq.ChatCompletionRequest{
		Model:    c.model,
		Messages: convertMessages(messages),
	})
	if err != nil {
		return "", fmt.Errorf("complete: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no response")
	}

	content := resp.Choices[0].Message.Content
	if content == "" {
		return "", fmt.Errorf("empty response")
	}

	return content, nil
}

func convertMessages(messages []llm.Message) []groq.ChatCompletionMessage {
	converted := make([]groq.ChatCompletionMessage, len(messages))
	for i, message := range messages {
		role := groq.RoleUser
		switch message.Role {
		case llm.RoleSystem:
			role = groq.RoleSystem
		case llm.RoleAssistant:
			role = groq.RoleAssistant
		}
		converted[i] = groq.ChatCompletionMessage{
			Role:    role,
			Content: message.Content,
		}
	}
	return converted
}
