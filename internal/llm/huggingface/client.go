package huggingface

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"storyframe/internal/llm"
)

const (
	defaultBaseURL = "https://api-inference.huggingface.co/models"
	defaultTimeout = 60 * time.Second
)

// Client talks to the Hugging Face Inference API. The API exposes plain text
// generation, so chat messages are flattened into an instruction-style prompt
// before the call.
type Client struct {
	apiToken   string
	model      string
	httpClient *http.Client
	baseURL    string
}

type Options struct {
	Model string
}

type parameters struct {
	MaxNewTokens int     `json:"max_new_tokens"`
	Temperature  float64 `json:"temperature"`
	DoSample     bool    `json:"do_sample"`
}

type request struct {
	Inputs     string     `json:"inputs"`
	Parameters parameters `json:"parameters"`
}

type generation struct {
	GeneratedText string `json:"generated_text"`
}

func NewClient(apiToken string, opts Options) *Client {
	return &Client{
		apiToken: apiToken,
		model:    opts.Model,
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
		baseURL: defaultBaseURL,
	}
}

func (c *Client) Complete(ctx context.Context, messages []llm.Message) (string, error) {
	prompt := formatMessages(messages)

	data, err := json.Marshal(request{
		Inputs: prompt,
		Parameters: parameters{
			MaxNewTokens: 512,
			Temperature:  0.7,
			DoSample:     true,
		},
	})
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	body, err := c.doRequest(ctx, data)
	if err != nil {
		return "", err
	}

	return parseResponse(body, prompt)
}

func (c *Client) Model() string {
	return c.model
}

func (c *Client) doRequest(ctx context.Context, data []byte) ([]byte, error) {
	url := fmt.Sprintf("%s/%s", c.baseURL, c.model)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(data))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("send request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("huggingface api error: %s", string(body))
	}

	return body, nil
}

// parseResponse handles both response shapes the inference API produces: a
// list of generation results or a single object. The echoed prompt prefix is
// stripped from the generated text.
func parseResponse(body []byte, prompt string) (string, error) {
	var list []generation
	if err := json.Unmarshal(body, &list); err == nil {
		if len(list) == 0 {
			return "", fmt.Errorf("no generation in response")
		}
		return cleanGeneration(list[0].GeneratedText, prompt), nil
	}

	var single generation
	if err := json.Unmarshal(body, &single); err != nil {
		return "", fmt.Errorf("unexpected response format: %w", err)
	}
	return cleanGeneration(single.GeneratedText, prompt), nil
}

func cleanGeneration(text, prompt string) string {
	return strings.TrimSpace(strings.ReplaceAll(text, prompt, ""))
}

// formatMessages flattens role-tagged messages into the [INST] template that
// Mistral-style instruct models expect.
func formatMessages(messages []llm.Message) string {
	var b strings.Builder

	for _, message := range messages {
		switch message.Role {
		case llm.RoleSystem:
			b.WriteString(fmt.Sprintf("<s>[INST] %s [/INST]\n\n", message.Content))
		case llm.RoleUser:
			if b.Len() > 0 {
				b.WriteString(fmt.Sprintf("%s [/INST]\n\n", message.Content))
			} else {
				b.WriteString(fmt.Sprintf("<s>[INST] %s [/INST]\n\n", message.Content))
			}
		case llm.RoleAssistant:
			b.WriteString(fmt.Sprintf("%s\n\n", message.Content))
		}
	}

	return strings.TrimSpace(b.String())
}
