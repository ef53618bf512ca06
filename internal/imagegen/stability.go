package imagegen

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const (
	defaultBaseURL = "https://api.stability.ai"
	defaultEngine  = "stable-diffusion-xl-1024-v1-0"
	defaultTimeout = 120 * time.Second
	defaultWidth   = 1024
	defaultHeight  = 1024
	defaultSteps   = 30
	defaultScale   = 7.0
)

// Client renders text prompts into images via the Stability text-to-image
// endpoint.
type Client struct {
	apiKey     string
	engine     string
	httpClient *http.Client
	baseURL    string

	width    int
	height   int
	steps    int
	cfgScale float64
}

type Options struct {
	Engine   string
	Width    int
	Height   int
	Steps    int
	CFGScale float64
}

type textPrompt struct {
	Text   string  `json:"text"`
	Weight float64 `json:"weight"`
}

type generationRequest struct {
	TextPrompts []textPrompt `json:"text_prompts"`
	CFGScale    float64      `json:"cfg_scale"`
	Height      int          `json:"height"`
	Width       int          `json:"width"`
	Samples     int          `json:"samples"`
	Steps       int          `json:"steps"`
}

type generationResponse struct {
	Artifacts []artifact `json:"artifacts"`
}

type artifact struct {
	Base64 string `json:"base64"`
}

func NewClient(apiKey string, opts Options) *Client {
	if opts.Engine == "" {
		opts.Engine = defaultEngine
	}
	if opts.Width == 0 {
		opts.Width = defaultWidth
	}
	if opts.Height == 0 {
		opts.Height = defaultHeight
	}
	if opts.Steps == 0 {
		opts.Steps = defaultSteps
	}
	if opts.CFGScale == 0 {
		opts.CFGScale = defaultScale
	}

	return &Client{
		apiKey: apiKey,
		engine: opts.Engine,
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
		baseURL:  defaultBaseURL,
		width:    opts.Width,
		height:   opts.Height,
		steps:    opts.Steps,
		cfgScale: opts.CFGScale,
	}
}

// Generate renders a single image and returns the raw PNG bytes. A non-empty
// negativePrompt is sent with negative weight to steer the model away from
// unwanted content.
func (c *Client) Generate(ctx context.Context, prompt, negativePrompt string) ([]byte, error) {
	body := generationRequest{
		TextPrompts: []textPrompt{{Text: prompt, Weight: 1.0}},
		CFGScale:    c.cfgScale,
		Height:      c.height,
		Width:       c.width,
		Samples:     1,
		Steps:       c.steps,
	}
	if negativePrompt != "" {
		body.TextPrompts = append(body.TextPrompts, textPrompt{Text: negativePrompt, Weight: -1.0})
	}

	data, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/v1/generation/%s/text-to-image", c.baseURL, c.engine)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(data))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("send request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("stability api error: %s, body: %s", resp.Status, string(respBody))
	}

	var result generationResponse
	if err := json.Unmarshal(respBody, &result); err != nil {
		return nil, fmt.Errorf("parse response: %w", err)
	}

	if len(result.Artifacts) == 0 {
		return nil, fmt.Errorf("no image artifact in response")
	}

	image, err := base64.StdEncoding.DecodeString(result.Artifacts[0].Base64)
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}

	return image, nil
}
