package prompts

import (
	"bytes"
	"fmt"
	"os"
	"text/template"

	"gopkg.in/yaml.v3"
)

const defaultPromptsPath = "prompts.yaml"

type Prompts struct {
	System   SystemPrompts   `yaml:"system"`
	Generate GeneratePrompts `yaml:"generate"`
	Refine   RefinePrompts   `yaml:"refine"`
}

type SystemPrompts struct {
	Generate   string `yaml:"generate"`
	Structured string `yaml:"structured"`
	Refine     string `yaml:"refine"`
}

type GeneratePrompts struct {
	Request string `yaml:"request"`
}

type RefinePrompts struct {
	Request string `yaml:"request"`
}

type GenerateParams struct {
	Prompt     string
	FrameCount int
}

type RefineParams struct {
	Prompt string
	Frames string
}

func Load() (*Prompts, error) {
	return LoadFrom(defaultPromptsPath)
}

func LoadFrom(path string) (*Prompts, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read prompts file: %w", err)
	}

	var p Prompts
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("failed to parse prompts file: %w", err)
	}

	return &p, nil
}

func (p *Prompts) RenderGenerateSystem(params GenerateParams) (string, error) {
	return render(p.System.Generate, params)
}

func (p *Prompts) RenderStructuredSystem(params GenerateParams) (string, error) {
	return render(p.System.Structured, params)
}

func (p *Prompts) RenderGenerateRequest(params GenerateParams) (string, error) {
	return render(p.Generate.Request, params)
}

func (p *Prompts) RenderRefineRequest(params RefineParams) (string, error) {
	return render(p.Refine.Request, params)
}

func render(tmpl string, data any) (string, error) {
	t, err := template.New("prompt").Parse(tmpl)
	if err != nil {
		return "", fmt.Errorf("failed to parse template: %w", err)
	}

	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute template: %w", err)
	}

	return buf.String(), nil
}
