package app

import (
	"context"

	"storyframe/internal/storage"
	"storyframe/internal/storyboard"
	"storyframe/pkg/config"
)

// Renderer turns a frame description into image bytes. It is nil when no
// image backend is configured.
type Renderer interface {
	Generate(ctx context.Context, prompt, negativePrompt string) ([]byte, error)
}

type Service struct {
	cfg       *config.Config
	builder   *storyboard.Builder
	renderer  Renderer
	storage   *storage.LocalStorage
	publisher *storage.GCSStorage
}

type ServiceOptions struct {
	Config    *config.Config
	Builder   *storyboard.Builder
	Renderer  Renderer
	Storage   *storage.LocalStorage
	Publisher *storage.GCSStorage
}

func NewService(opts ServiceOptions) *Service {
	return &Service{
		cfg:       opts.Config,
		builder:   opts.Builder,
		renderer:  opts.Renderer,
		storage:   opts.Storage,
		publisher: opts.Publisher,
	}
}

func (s *Service) Config() *config.Config         { return s.cfg }
func (s *Service) Builder() *storyboard.Builder   { return s.builder }
func (s *Service) Renderer() Renderer             { return s.renderer }
func (s *Service) Storage() *storage.LocalStorage { return s.storage }
func (s *Service) Publisher() *storage.GCSStorage { return s.publisher }
