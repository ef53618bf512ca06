package app

import (
	"context"
	"fmt"
	"log/slog"

	"google.golang.org/api/option"

	"storyframe/internal/imagegen"
	"storyframe/internal/llm"
	"storyframe/internal/llm/groq"
	"storyframe/internal/llm/huggingface"
	"storyframe/internal/storage"
	"storyframe/internal/storyboard"
	"storyframe/pkg/config"
	"storyframe/pkg/prompts"
)

// BuildService wires the configured providers into a Service. The completion
// provider is required; image rendering and publishing are attached only when
// their credentials are present.
func BuildService(ctx context.Context, cfg *config.Config) (*Service, error) {
	p, err := prompts.Load()
	if err != nil {
		return nil, err
	}

	completer, err := buildCompleter(cfg)
	if err != nil {
		return nil, err
	}

	localStorage := storage.NewLocalStorage(cfg.Output.Dir)
	if err := localStorage.EnsureDirectories(); err != nil {
		return nil, err
	}

	var renderer Renderer
	if cfg.StabilityAPIKey != "" {
		renderer = imagegen.NewClient(cfg.StabilityAPIKey, imagegen.Options{
			Engine:   cfg.Image.Engine,
			Width:    cfg.Image.Width,
			Height:   cfg.Image.Height,
			Steps:    cfg.Image.Steps,
			CFGScale: cfg.Image.CFGScale,
		})
	} else {
		slog.Warn("STABILITY_API_KEY not set, image generation disabled")
	}

	var publisher *storage.GCSStorage
	if cfg.GCSBucket != "" {
		var opts []option.ClientOption
		if cfg.GoogleCredentials != "" {
			opts = append(opts, option.WithCredentialsFile(cfg.GoogleCredentials))
		}
		publisher, err = storage.NewGCSStorage(ctx, cfg.GCSBucket, cfg.GCS.Prefix, opts...)
		if err != nil {
			return nil, err
		}
	}

	return NewService(ServiceOptions{
		Config:    cfg,
		Builder:   storyboard.NewBuilder(completer, p),
		Renderer:  renderer,
		Storage:   localStorage,
		Publisher: publisher,
	}), nil
}

func buildCompleter(cfg *config.Config) (llm.Completer, error) {
	switch cfg.LLM.Provider {
	case "groq":
		if cfg.GroqAPIKey == "" {
			return nil, fmt.Errorf("GROQ_API_KEY is required when llm.provider is groq")
		}
		return groq.NewClient(cfg.GroqAPIKey, cfg.Groq.Model)
	case "huggingface":
		if cfg.HFAPIToken == "" {
			return nil, fmt.Errorf("HF_API_TOKEN environment variable is required")
		}
		return huggingface.NewClient(cfg.HFAPIToken, huggingface.Options{Model: cfg.HuggingFace.Model}), nil
	default:
		return nil, fmt.Errorf("unknown llm provider: %s", cfg.LLM.Provider)
	}
}
