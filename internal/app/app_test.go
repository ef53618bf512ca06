package app

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"storyframe/internal/llm"
	"storyframe/internal/storage"
	"storyframe/internal/storyboard"
	"storyframe/pkg/config"
	"storyframe/pkg/prompts"
)

type scriptedCompleter struct {
	replies []string
	calls   int
}

func (c *scriptedCompleter) Complete(_ context.Context, _ []llm.Message) (string, error) {
	if c.calls >= len(c.replies) {
		return "", errors.New("unexpected completion call")
	}
	reply := c.replies[c.calls]
	c.calls++
	return reply, nil
}

// fakeRenderer fails on configured call indexes (1-based) and returns fixed
// bytes otherwise.
type fakeRenderer struct {
	calls  int
	failOn map[int]bool
}

func (r *fakeRenderer) Generate(_ context.Context, prompt, negativePrompt string) ([]byte, error) {
	r.calls++
	if r.failOn[r.calls] {
		return nil, errors.New("render failed")
	}
	return []byte("img-" + prompt), nil
}

func testConfig(outputDir string) *config.Config {
	return &config.Config{
		Storyboard: config.StoryboardConfig{
			FrameCount:     5,
			StylePrompt:    "cinematic",
			NegativePrompt: "blurry",
		},
		Output: config.OutputConfig{Dir: outputDir},
	}
}

func testService(cfg *config.Config, completer llm.Completer, renderer Renderer) *Service {
	p := &prompts.Prompts{
		System: prompts.SystemPrompts{
			Generate:   "Describe {{.FrameCount}} frames.",
			Structured: "Strict format, {{.FrameCount}} frames.",
			Refine:     "Refine the frames.",
		},
		Generate: prompts.GeneratePrompts{Request: `Convert "{{.Prompt}}" into {{.FrameCount}} frames.`},
		Refine:   prompts.RefinePrompts{Request: "Refine:\n{{.Frames}}"},
	}

	return NewService(ServiceOptions{
		Config:   cfg,
		Builder:  storyboard.NewBuilder(completer, p),
		Renderer: renderer,
		Storage:  storage.NewLocalStorage(cfg.Output.Dir),
	})
}

func TestRenderImagesSkipsFailedFrames(t *testing.T) {
	dir := t.TempDir()
	renderer := &fakeRenderer{failOn: map[int]bool{2: true}}
	service := testService(testConfig(dir), nil, renderer)
	pipeline := NewPipeline(service)

	frames := []storyboard.FrameDescription{
		{Number: 1, Description: "One"},
		{Number: 2, Description: "Two"},
		{Number: 3, Description: "Three"},
		{Number: 4, Description: "Four"},
		{Number: 5, Description: "Five"},
	}

	images := pipeline.RenderImages(context.Background(), frames, dir, "cinematic", "blurry")

	if len(images) != 4 {
		t.Fatalf("len(images) = %d, want 4", len(images))
	}
	wantNumbers := []int{1, 3, 4, 5}
	for i, image := range images {
		if image.Number != wantNumbers[i] {
			t.Errorf("images[%d].Number = %d, want %d", i, image.Number, wantNumbers[i])
		}
		if _, err := os.Stat(image.Path); err != nil {
			t.Errorf("image file missing: %v", err)
		}
	}
	if renderer.calls != 5 {
		t.Errorf("renderer calls = %d, want 5", renderer.calls)
	}
}

func TestRenderImagesAppliesStylePrompt(t *testing.T) {
	dir := t.TempDir()
	renderer := &fakeRenderer{}
	service := testService(testConfig(dir), nil, renderer)
	pipeline := NewPipeline(service)

	frames := []storyboard.FrameDescription{{Number: 1, Description: "A cat wakes up"}}
	images := pipeline.RenderImages(context.Background(), frames, dir, "cinematic", "")

	if len(images) != 1 {
		t.Fatalf("len(images) = %d, want 1", len(images))
	}
	data, err := os.ReadFile(images[0].Path)
	if err != nil {
		t.Fatalf("read image: %v", err)
	}
	if !strings.Contains(string(data), "A cat wakes up, cinematic") {
		t.Errorf("style prompt not appended: %q", data)
	}
}

func TestRenderImagesWithoutRenderer(t *testing.T) {
	dir := t.TempDir()
	service := testService(testConfig(dir), nil, nil)
	pipeline := NewPipeline(service)

	frames := []storyboard.FrameDescription{{Number: 1, Description: "One"}}
	if images := pipeline.RenderImages(context.Background(), frames, dir, "", ""); images != nil {
		t.Errorf("images = %v, want nil", images)
	}
}

func TestRun(t *testing.T) {
	dir := t.TempDir()
	completer := &scriptedCompleter{replies: []string{
		"Frame 1: A cat sleeps\nFrame 2: The cat wakes up",
		"Frame 1: A tabby cat sleeps\nFrame 2: The tabby cat wakes up",
	}}
	renderer := &fakeRenderer{}
	service := testService(testConfig(dir), completer, renderer)
	pipeline := NewPipeline(service)

	result, err := pipeline.Run(context.Background(), RunRequest{
		Prompt:       "a cat's morning",
		FrameCount:   2,
		HTMLOverview: true,
	})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if len(result.Sequence.Frames) != 2 || len(result.Sequence.RefinedFrames) != 2 {
		t.Fatalf("frames = %d/%d, want 2/2",
			len(result.Sequence.Frames), len(result.Sequence.RefinedFrames))
	}
	if result.Sequence.RefinedFrames[0].Description != "A tabby cat sleeps" {
		t.Errorf("refined[0] = %q", result.Sequence.RefinedFrames[0].Description)
	}

	content, err := os.ReadFile(result.FramesPath)
	if err != nil {
		t.Fatalf("read frames file: %v", err)
	}
	if !strings.Contains(string(content), "Frame 2: The tabby cat wakes up") {
		t.Errorf("frames file missing refined frame: %q", content)
	}

	if len(result.Images) != 2 {
		t.Errorf("len(images) = %d, want 2", len(result.Images))
	}
	if result.OverviewPath == "" {
		t.Fatal("overview path not set")
	}
	if _, err := os.Stat(result.OverviewPath); err != nil {
		t.Errorf("overview file missing: %v", err)
	}
	if !strings.HasPrefix(result.OutputDir, dir) {
		t.Errorf("output dir %s not under %s", result.OutputDir, dir)
	}
}

func TestRunSkipImages(t *testing.T) {
	dir := t.TempDir()
	completer := &scriptedCompleter{replies: []string{
		"Frame 1: One\nFrame 2: Two",
		"Frame 1: One\nFrame 2: Two",
	}}
	renderer := &fakeRenderer{}
	service := testService(testConfig(dir), completer, renderer)
	pipeline := NewPipeline(service)

	result, err := pipeline.Run(context.Background(), RunRequest{
		Prompt:     "a story",
		FrameCount: 2,
		SkipImages: true,
	})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if len(result.Images) != 0 {
		t.Errorf("len(images) = %d, want 0", len(result.Images))
	}
	if renderer.calls != 0 {
		t.Errorf("renderer calls = %d, want 0", renderer.calls)
	}
}

func TestSessionFinalize(t *testing.T) {
	base := t.TempDir()
	sess := newSession(base)

	if err := sess.finalize("A Cat's Morning Routine!"); err != nil {
		t.Fatalf("finalize() error = %v", err)
	}

	name := filepath.Base(sess.dir)
	if !strings.HasSuffix(name, "_a_cat_s_morning_routine") {
		t.Errorf("unexpected session dir name: %s", name)
	}
	if info, err := os.Stat(sess.dir); err != nil || !info.IsDir() {
		t.Errorf("session dir not created: %v", err)
	}
	if sess.overviewPath() != filepath.Join(sess.dir, "storyboard.html") {
		t.Errorf("overviewPath() = %s", sess.overviewPath())
	}
}

func TestBuildCompleter(t *testing.T) {
	tests := []struct {
		name    string
		cfg     *config.Config
		wantErr bool
	}{
		{
			name: "huggingfaceConfigured",
			cfg: &config.Config{
				HFAPIToken: "token",
				LLM:        config.LLMConfig{Provider: "huggingface"},
			},
		},
		{
			name: "huggingfaceMissingToken",
			cfg: &config.Config{
				LLM: config.LLMConfig{Provider: "huggingface"},
			},
			wantErr: true,
		},
		{
			name: "groqMissingKey",
			cfg: &config.Config{
				LLM: config.LLMConfig{Provider: "groq"},
			},
			wantErr: true,
		},
		{
			name: "unknownProvider",
			cfg: &config.Config{
				LLM: config.LLMConfig{Provider: "openai"},
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			completer, err := buildCompleter(tt.cfg)
			if tt.wantErr {
				if err == nil {
					t.Fatal("buildCompleter() expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("buildCompleter() error = %v", err)
			}
			if completer == nil {
				t.Fatal("buildCompleter() returned nil completer")
			}
		})
	}
}
