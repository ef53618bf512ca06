package imagegen

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestGenerate(t *testing.T) {
	imageBytes := []byte("fake-png-data")

	tests := []struct {
		name         string
		responseBody string
		serverStatus int
		wantErr      bool
	}{
		{
			name: "successfulGeneration",
			responseBody: `{"artifacts": [{"base64": "` +
				base64.StdEncoding.EncodeToString(imageBytes) + `"}]}`,
			serverStatus: http.StatusOK,
		},
		{
			name:         "noArtifacts",
			responseBody: `{"artifacts": []}`,
			serverStatus: http.StatusOK,
			wantErr:      true,
		},
		{
			name:         "invalidBase64",
			responseBody: `{"artifacts": [{"base64": "not base64!!"}]}`,
			serverStatus: http.StatusOK,
			wantErr:      true,
		},
		{
			name:         "apiError",
			responseBody: `{"message": "invalid api key"}`,
			serverStatus: http.StatusUnauthorized,
			wantErr:      true,
		},
		{
			name:         "rateLimited",
			responseBody: `{"message": "too many requests"}`,
			serverStatus: http.StatusTooManyRequests,
			wantErr:      true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.Method != http.MethodPost {
					t.Errorf("expected POST, got %s", r.Method)
				}
				if r.Header.Get("Authorization") != "Bearer test-key" {
					t.Errorf("expected Authorization header with Bearer token")
				}
				if !strings.Contains(r.URL.Path, "/v1/generation/test-engine/text-to-image") {
					t.Errorf("unexpected path: %s", r.URL.Path)
				}

				w.WriteHeader(tt.serverStatus)
				_, _ = w.Write([]byte(tt.responseBody))
			}))
			defer server.Close()

			client := NewClient("test-key", Options{Engine: "test-engine"})
			client.baseURL = server.URL

			got, err := client.Generate(context.Background(), "a cat wakes up", "")

			if tt.wantErr {
				if err == nil {
					t.Fatal("Generate() expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("Generate() error = %v", err)
			}
			if string(got) != string(imageBytes) {
				t.Errorf("Generate() = %q, want %q", got, imageBytes)
			}
		})
	}
}

func TestGenerateRequestBody(t *testing.T) {
	var received generationRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&received)
		_, _ = w.Write([]byte(`{"artifacts": [{"base64": "aW1n"}]}`))
	}))
	defer server.Close()

	client := NewClient("test-key", Options{
		Width:    512,
		Height:   768,
		Steps:    20,
		CFGScale: 8.5,
	})
	client.baseURL = server.URL

	_, err := client.Generate(context.Background(), "a cat wakes up", "blurry, low quality")
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	if len(received.TextPrompts) != 2 {
		t.Fatalf("len(text_prompts) = %d, want 2", len(received.TextPrompts))
	}
	if received.TextPrompts[0].Text != "a cat wakes up" || received.TextPrompts[0].Weight != 1.0 {
		t.Errorf("unexpected positive prompt: %+v", received.TextPrompts[0])
	}
	if received.TextPrompts[1].Text != "blurry, low quality" || received.TextPrompts[1].Weight != -1.0 {
		t.Errorf("unexpected negative prompt: %+v", received.TextPrompts[1])
	}
	if received.Width != 512 || received.Height != 768 {
		t.Errorf("dimensions = %dx%d, want 512x768", received.Width, received.Height)
	}
	if received.Steps != 20 || received.CFGScale != 8.5 {
		t.Errorf("steps = %d, cfg_scale = %v, want 20 and 8.5", received.Steps, received.CFGScale)
	}
	if received.Samples != 1 {
		t.Errorf("samples = %d, want 1", received.Samples)
	}
}

func TestGenerateOmitsNegativePromptWhenEmpty(t *testing.T) {
	var received generationRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&received)
		_, _ = w.Write([]byte(`{"artifacts": [{"base64": "aW1n"}]}`))
	}))
	defer server.Close()

	client := NewClient("test-key", Options{})
	client.baseURL = server.URL

	if _, err := client.Generate(context.Background(), "a cat wakes up", ""); err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	if len(received.TextPrompts) != 1 {
		t.Errorf("len(text_prompts) = %d, want 1", len(received.TextPrompts))
	}
}
