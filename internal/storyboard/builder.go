package storyboard

import (
	"context"
	"fmt"

	"storyframe/internal/llm"
	"storyframe/pkg/prompts"
)

// Builder turns a text prompt into an ordered list of frame descriptions
// using a text-completion capability. It always returns exactly the requested
// number of frames, degrading to placeholder descriptions when the model
// output falls short; only completion failures themselves surface as errors.
type Builder struct {
	completer llm.Completer
	prompts   *prompts.Prompts
}

func NewBuilder(completer llm.Completer, p *prompts.Prompts) *Builder {
	return &Builder{
		completer: completer,
		prompts:   p,
	}
}

// Generate asks for n sequential frames for the prompt and parses the reply
// leniently. If the loose parse yields fewer than n frames, it falls back to
// a re-prompt with a rigid line format.
func (b *Builder) Generate(ctx context.Context, prompt string, n int) ([]FrameDescription, error) {
	params := prompts.GenerateParams{Prompt: prompt, FrameCount: n}

	system, err := b.prompts.RenderGenerateSystem(params)
	if err != nil {
		return nil, fmt.Errorf("render prompt: %w", err)
	}
	request, err := b.prompts.RenderGenerateRequest(params)
	if err != nil {
		return nil, fmt.Errorf("render prompt: %w", err)
	}

	reply, err := b.complete(ctx, system, request)
	if err != nil {
		return nil, fmt.Errorf("generate frames: %w", err)
	}

	frames := parseLoose(reply)
	if len(frames) < n {
		return b.generateStructured(ctx, prompt, n)
	}
	return frames[:n], nil
}

// generateStructured re-prompts with an explicit "Frame k: description" format
// instruction and pads the result with placeholders until exactly n frames
// exist.
func (b *Builder) generateStructured(ctx context.Context, prompt string, n int) ([]FrameDescription, error) {
	params := prompts.GenerateParams{Prompt: prompt, FrameCount: n}

	system, err := b.prompts.RenderStructuredSystem(params)
	if err != nil {
		return nil, fmt.Errorf("render prompt: %w", err)
	}
	request, err := b.prompts.RenderGenerateRequest(params)
	if err != nil {
		return nil, fmt.Errorf("render prompt: %w", err)
	}

	reply, err := b.complete(ctx, system, request)
	if err != nil {
		return nil, fmt.Errorf("generate structured frames: %w", err)
	}

	frames := parseStructured(reply, n)
	for len(frames) < n {
		frames = append(frames, FrameDescription{
			Number:      len(frames) + 1,
			Description: fmt.Sprintf("Continuation of the scene from %s", prompt),
		})
	}
	return frames, nil
}

// Refine asks the model to rewrite the frames for consistency, then
// reconciles the reply against the original list: the output always has the
// same length, order, and numbering as the input, substituting refined
// descriptions only where the reply provided one for that frame number.
func (b *Builder) Refine(ctx context.Context, frames []FrameDescription, prompt string) ([]FrameDescription, error) {
	request, err := b.prompts.RenderRefineRequest(prompts.RefineParams{
		Prompt: prompt,
		Frames: FormatFrames(frames),
	})
	if err != nil {
		return nil, fmt.Errorf("render prompt: %w", err)
	}

	reply, err := b.complete(ctx, b.prompts.System.Refine, request)
	if err != nil {
		return nil, fmt.Errorf("refine frames: %w", err)
	}

	refined := parseRefinement(reply)

	result := make([]FrameDescription, len(frames))
	for i, original := range frames {
		result[i] = original
		if description, ok := refined[original.Number]; ok {
			result[i].Description = description
		}
	}
	return result, nil
}

func (b *Builder) complete(ctx context.Context, system, request string) (string, error) {
	return b.completer.Complete(ctx, []llm.Message{
		{Role: llm.RoleSystem, Content: system},
		{Role: llm.RoleUser, Content: request},
	})
}
