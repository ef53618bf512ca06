package cmd

import (
	"fmt"
	"log/slog"

	"storyframe/internal/app"
	"storyframe/internal/storyboard"
	"storyframe/pkg/config"

	"github.com/spf13/cobra"
)

var (
	generateFrames     int
	generateStyle      string
	generateNegative   string
	generateSkipImages bool
	generateHTML       bool
	generatePublish    bool
)

var generateCmd = &cobra.Command{
	Use:   "generate <prompt>",
	Short: "Generate a storyboard from a prompt",
	Long: `Generate a storyboard from a text prompt: drafts the requested number of
frame descriptions, refines them for consistency, and optionally renders an
image per frame.`,
	Args: cobra.ExactArgs(1),
	RunE: runGenerate,
}

func init() {
	generateCmd.Flags().IntVarP(&generateFrames, "frames", "f", 0, "Number of frames to generate")
	generateCmd.Flags().StringVarP(&generateStyle, "style", "s", "", "Style suffix appended to each image prompt")
	generateCmd.Flags().StringVarP(&generateNegative, "negative", "n", "", "Negative prompt for image generation")
	generateCmd.Flags().BoolVar(&generateSkipImages, "skip-images", false, "Skip image generation")
	generateCmd.Flags().BoolVar(&generateHTML, "html", false, "Write an HTML overview page")
	generateCmd.Flags().BoolVar(&generatePublish, "publish", false, "Upload the session directory to Cloud Storage")
	rootCmd.AddCommand(generateCmd)
}

func runGenerate(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	cfg, err := config.Load(ctx)
	if err != nil {
		return err
	}

	service, err := app.BuildService(ctx, cfg)
	if err != nil {
		return err
	}
	if publisher := service.Publisher(); publisher != nil {
		defer func() { _ = publisher.Close() }()
	}

	pipeline := app.NewPipeline(service)

	result, err := pipeline.Run(ctx, app.RunRequest{
		Prompt:         args[0],
		FrameCount:     generateFrames,
		StylePrompt:    generateStyle,
		NegativePrompt: generateNegative,
		SkipImages:     generateSkipImages,
		HTMLOverview:   generateHTML,
		Publish:        generatePublish,
	})
	if err != nil {
		return err
	}

	printFrames("Draft frames", result.Sequence.Frames)
	printFrames("Refined frames", result.Sequence.RefinedFrames)

	slog.Info("Storyboard saved", "dir", result.OutputDir, "frames", result.FramesPath)
	if len(result.Images) > 0 {
		slog.Info("Images rendered", "count", len(result.Images))
	}
	if result.OverviewPath != "" {
		slog.Info("Overview written", "path", result.OverviewPath)
	}
	for _, object := range result.Published {
		slog.Info("Published", "object", object)
	}

	return nil
}

func printFrames(title string, frames []storyboard.FrameDescription) {
	fmt.Printf("\n%s:\n", title)
	fmt.Println(storyboard.FormatFrames(frames))
}
