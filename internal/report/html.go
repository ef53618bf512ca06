package report

import (
	"fmt"
	"html/template"
	"os"
)

// Frame is one card in the storyboard overview. ImageFile is the image
// filename relative to the report, empty when no image was rendered for the
// frame.
type Frame struct {
	Number      int
	Description string
	ImageFile   string
}

type Overview struct {
	Prompt string
	Frames []Frame
}

const overviewTemplate = `<!DOCTYPE html>
<html>
<head>
    <title>Storyboard: {{.Prompt}}</title>
    <style>
        body { font-family: Arial, sans-serif; margin: 20px; }
        h1 { color: #333; }
        .storyboard { display: flex; flex-wrap: wrap; gap: 20px; }
        .frame {
            width: 300px;
            border: 1px solid #ddd;
            padding: 10px;
            border-radius: 5px;
            box-shadow: 0 2px 5px rgba(0,0,0,0.1);
        }
        .frame img { width: 100%; height: auto; border-radius: 5px; }
        .frame-number { font-weight: bold; margin: 10px 0 5px; }
        .description { color: #555; }
    </style>
</head>
<body>
    <h1>Storyboard: {{.Prompt}}</h1>
    <div class="storyboard">
{{- range .Frames}}
        <div class="frame">
{{- if .ImageFile}}
            <img src="{{.ImageFile}}" alt="Frame {{.Number}}">
{{- end}}
            <p class="frame-number">Frame {{.Number}}</p>
            <p class="description">{{.Description}}</p>
        </div>
{{- end}}
    </div>
</body>
</html>
`

var overview = template.Must(template.New("overview").Parse(overviewTemplate))

// WriteOverview renders the storyboard overview page to path.
func WriteOverview(path string, data Overview) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create overview file: %w", err)
	}
	defer func() { _ = f.Close() }()

	if err := overview.Execute(f, data); err != nil {
		return fmt.Errorf("failed to render overview: %w", err)
	}

	return nil
}
