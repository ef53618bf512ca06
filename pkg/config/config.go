package config

import (
	"context"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	defaultConfigPath     = "config.yaml"
	defaultOutputDir      = "./storyboards"
	defaultFrameCount     = 5
	defaultLLMProvider    = "huggingface"
	defaultHFModel        = "mistralai/Mistral-7B-Instruct-v0.2"
	defaultGroqModel      = "llama-3.3-70b-versatile"
	defaultEngine         = "stable-diffusion-xl-1024-v1-0"
	defaultImageWidth     = 1024
	defaultImageHeight    = 1024
	defaultImageSteps     = 30
	defaultCFGScale       = 7.0
	defaultPauseSeconds   = 1.0
	defaultStylePrompt    = "high quality, detailed, cinematic lighting"
	defaultNegativePrompt = "blurry, low quality, distorted, deformed"
	defaultGCSPrefix      = "storyboards"
)

type Config struct {
	HFAPIToken        string
	GroqAPIKey        string
	StabilityAPIKey   string
	GoogleProject     string
	GoogleCredentials string
	GCSBucket         string

	LLM         LLMConfig         `yaml:"llm"`
	HuggingFace HuggingFaceConfig `yaml:"huggingface"`
	Groq        GroqConfig        `yaml:"groq"`
	Image       ImageConfig       `yaml:"image"`
	Storyboard  StoryboardConfig  `yaml:"storyboard"`
	Output      OutputConfig      `yaml:"output"`
	GCS         GCSConfig         `yaml:"gcs"`
}

type LLMConfig struct {
	Provider string `yaml:"provider"` // "huggingface" or "groq"
}

type HuggingFaceConfig struct {
	Model string `yaml:"model"`
}

type GroqConfig struct {
	Model string `yaml:"model"`
}

type ImageConfig struct {
	Engine       string  `yaml:"engine"`
	Width        int     `yaml:"width"`
	Height       int     `yaml:"height"`
	Steps        int     `yaml:"steps"`
	CFGScale     float64 `yaml:"cfg_scale"`
	PauseSeconds float64 `yaml:"pause_seconds"`
}

type StoryboardConfig struct {
	FrameCount     int    `yaml:"frame_count"`
	StylePrompt    string `yaml:"style_prompt"`
	NegativePrompt string `yaml:"negative_prompt"`
}

type OutputConfig struct {
	Dir string `yaml:"dir"`
}

type GCSConfig struct {
	Prefix string `yaml:"prefix"`
}

func Load(ctx context.Context) (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Warn("No .env file found, relying on environment variables")
	}

	cfg := &Config{
		HFAPIToken:        os.Getenv("HF_API_TOKEN"),
		GroqAPIKey:        os.Getenv("GROQ_API_KEY"),
		StabilityAPIKey:   os.Getenv("STABILITY_API_KEY"),
		GoogleProject:     os.Getenv("GOOGLE_CLOUD_PROJECT"),
		GoogleCredentials: os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"),
		GCSBucket:         os.Getenv("GCS_BUCKET"),
	}

	loadYAMLConfig(cfg)
	applyDefaults(cfg)
	resolveSecrets(ctx, cfg)

	return cfg, nil
}

func loadYAMLConfig(cfg *Config) {
	data, err := os.ReadFile(defaultConfigPath)
	if err != nil {
		slog.Warn("No config.yaml found, using defaults")
		return
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		slog.Error("Failed to parse config.yaml", "error", err)
	}
}

func applyDefaults(cfg *Config) {
	applyLLMDefaults(cfg)
	applyImageDefaults(cfg)
	applyStoryboardDefaults(cfg)
	applyOutputDefaults(cfg)
	applyGCSDefaults(cfg)
}

func applyLLMDefaults(cfg *Config) {
	if cfg.LLM.Provider == "" {
		cfg.LLM.Provider = defaultLLMProvider
	}
	if cfg.HuggingFace.Model == "" {
		cfg.HuggingFace.Model = defaultHFModel
	}
	if cfg.Groq.Model == "" {
		cfg.Groq.Model = defaultGroqModel
	}
}

func applyImageDefaults(cfg *Config) {
	if cfg.Image.Engine == "" {
		cfg.Image.Engine = defaultEngine
	}
	if cfg.Image.Width == 0 {
		cfg.Image.Width = defaultImageWidth
	}
	if cfg.Image.Height == 0 {
		cfg.Image.Height = defaultImageHeight
	}
	if cfg.Image.Steps == 0 {
		cfg.Image.Steps = defaultImageSteps
	}
	if cfg.Image.CFGScale == 0 {
		cfg.Image.CFGScale = defaultCFGScale
	}
	if cfg.Image.PauseSeconds == 0 {
		cfg.Image.PauseSeconds = defaultPauseSeconds
	}
}

func applyStoryboardDefaults(cfg *Config) {
	if cfg.Storyboard.FrameCount == 0 {
		cfg.Storyboard.FrameCount = defaultFrameCount
	}
	if cfg.Storyboard.StylePrompt == "" {
		cfg.Storyboard.StylePrompt = defaultStylePrompt
	}
	if cfg.Storyboard.NegativePrompt == "" {
		cfg.Storyboard.NegativePrompt = defaultNegativePrompt
	}
}

func applyOutputDefaults(cfg *Config) {
	if cfg.Output.Dir == "" {
		cfg.Output.Dir = defaultOutputDir
	}
}

func applyGCSDefaults(cfg *Config) {
	if cfg.GCS.Prefix == "" {
		cfg.GCS.Prefix = defaultGCSPrefix
	}
}
