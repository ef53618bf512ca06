package app

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"golang.org/x/time/rate"

	"storyframe/internal/report"
	"storyframe/internal/storyboard"
)

type Pipeline struct {
	service *Service
}

type RunRequest struct {
	Prompt         string
	FrameCount     int
	StylePrompt    string
	NegativePrompt string
	SkipImages     bool
	HTMLOverview   bool
	Publish        bool
}

// FrameImage is a rendered frame saved to disk. Frames whose rendering
// failed are absent.
type FrameImage struct {
	Number int
	Path   string
}

type RunResult struct {
	Sequence     *storyboard.Sequence
	OutputDir    string
	FramesPath   string
	OverviewPath string
	Images       []FrameImage
	Published    []string
}

func NewPipeline(service *Service) *Pipeline {
	return &Pipeline{service: service}
}

// Run executes the full storyboard flow: generate, refine, save the frame
// list, then optionally render images, write the HTML overview and publish
// the session directory.
func (p *Pipeline) Run(ctx context.Context, request RunRequest) (*RunResult, error) {
	cfg := p.service.Config()
	if request.FrameCount <= 0 {
		request.FrameCount = cfg.Storyboard.FrameCount
	}
	if request.StylePrompt == "" {
		request.StylePrompt = cfg.Storyboard.StylePrompt
	}
	if request.NegativePrompt == "" {
		request.NegativePrompt = cfg.Storyboard.NegativePrompt
	}

	sequence, err := p.Process(ctx, request.Prompt, request.FrameCount)
	if err != nil {
		return nil, err
	}

	sess := newSession(cfg.Output.Dir)
	if err := sess.finalize(request.Prompt); err != nil {
		return nil, fmt.Errorf("create session directory: %w", err)
	}

	framesPath, err := p.service.Storage().SaveText(sess.dir, "frames.txt",
		storyboard.FormatFrames(sequence.RefinedFrames)+"\n")
	if err != nil {
		return nil, err
	}

	result := &RunResult{
		Sequence:   sequence,
		OutputDir:  sess.dir,
		FramesPath: framesPath,
	}

	if !request.SkipImages {
		result.Images = p.RenderImages(ctx, sequence.RefinedFrames, sess.dir,
			request.StylePrompt, request.NegativePrompt)
	}

	if request.HTMLOverview {
		if err := report.WriteOverview(sess.overviewPath(), overviewData(sequence, result.Images)); err != nil {
			slog.Warn("Failed to write HTML overview", "error", err)
		} else {
			result.OverviewPath = sess.overviewPath()
		}
	}

	if request.Publish {
		publisher := p.service.Publisher()
		if publisher == nil {
			slog.Warn("Publishing not configured (missing GCS_BUCKET)")
		} else {
			objects, err := publisher.UploadDir(ctx, sess.dir)
			if err != nil {
				return result, fmt.Errorf("publish session: %w", err)
			}
			result.Published = objects
		}
	}

	return result, nil
}

// Process generates the draft frames for a prompt and refines them. The
// refined list always matches the draft in length, order and numbering.
func (p *Pipeline) Process(ctx context.Context, prompt string, frameCount int) (*storyboard.Sequence, error) {
	slog.Info("Generating storyboard frames...", "frames", frameCount)
	frames, err := p.service.Builder().Generate(ctx, prompt, frameCount)
	if err != nil {
		return nil, err
	}

	slog.Info("Refining frame descriptions...")
	refined, err := p.service.Builder().Refine(ctx, frames, prompt)
	if err != nil {
		return nil, err
	}

	return &storyboard.Sequence{
		Prompt:        prompt,
		Frames:        frames,
		RefinedFrames: refined,
	}, nil
}

// RenderImages renders one image per frame into dir, pacing requests and
// skipping frames whose rendering or saving fails. It returns the images
// that were written.
func (p *Pipeline) RenderImages(ctx context.Context, frames []storyboard.FrameDescription, dir, stylePrompt, negativePrompt string) []FrameImage {
	renderer := p.service.Renderer()
	if renderer == nil {
		slog.Warn("Image renderer not configured (missing STABILITY_API_KEY)")
		return nil
	}

	pause := time.Duration(p.service.Config().Image.PauseSeconds * float64(time.Second))
	limiter := rate.NewLimiter(rate.Every(pause), 1)

	var images []FrameImage
	for _, frame := range frames {
		if err := limiter.Wait(ctx); err != nil {
			slog.Warn("Image generation interrupted", "error", err)
			return images
		}

		slog.Info("Generating image", "frame", frame.Number, "total", len(frames))
		imagePrompt := frame.Description
		if stylePrompt != "" {
			imagePrompt = fmt.Sprintf("%s, %s", frame.Description, stylePrompt)
		}

		data, err := renderer.Generate(ctx, imagePrompt, negativePrompt)
		if err != nil {
			slog.Warn("Failed to generate image, skipping frame", "frame", frame.Number, "error", err)
			continue
		}

		path, err := p.service.Storage().SaveFrameImage(dir, frame.Number, frame.Description, data)
		if err != nil {
			slog.Warn("Failed to save image, skipping frame", "frame", frame.Number, "error", err)
			continue
		}

		images = append(images, FrameImage{Number: frame.Number, Path: path})
	}

	return images
}

func overviewData(sequence *storyboard.Sequence, images []FrameImage) report.Overview {
	files := make(map[int]string, len(images))
	for _, image := range images {
		files[image.Number] = filepath.Base(image.Path)
	}

	overview := report.Overview{Prompt: sequence.Prompt}
	for _, frame := range sequence.RefinedFrames {
		overview.Frames = append(overview.Frames, report.Frame{
			Number:      frame.Number,
			Description: frame.Description,
			ImageFile:   files[frame.Number],
		})
	}
	return overview
}
