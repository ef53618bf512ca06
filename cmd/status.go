package cmd

import (
	"fmt"

	"storyframe/pkg/config"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

var (
	statusInfoStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
	statusSuccessStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	statusErrorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Check which services are configured",
	Long:  `Show which API keys and integrations are configured for this environment.`,
	RunE:  runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	cfg, err := config.Load(ctx)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	fmt.Println(statusInfoStyle.Render("\nService Configuration Status:\n"))

	switch cfg.LLM.Provider {
	case "groq":
		if cfg.GroqAPIKey != "" {
			fmt.Println(statusSuccessStyle.Render(fmt.Sprintf("✓ Groq: API key configured (model %s)", cfg.Groq.Model)))
		} else {
			fmt.Println(statusErrorStyle.Render("✗ Groq: missing GROQ_API_KEY"))
		}
	default:
		if cfg.HFAPIToken != "" {
			fmt.Println(statusSuccessStyle.Render(fmt.Sprintf("✓ Hugging Face: token configured (model %s)", cfg.HuggingFace.Model)))
		} else {
			fmt.Println(statusErrorStyle.Render("✗ Hugging Face: missing HF_API_TOKEN"))
		}
	}

	if cfg.StabilityAPIKey != "" {
		fmt.Println(statusSuccessStyle.Render(fmt.Sprintf("✓ Stability: API key configured (engine %s)", cfg.Image.Engine)))
	} else {
		fmt.Println(statusInfoStyle.Render("○ Stability: not configured (images disabled)"))
	}

	if cfg.GCSBucket != "" {
		fmt.Println(statusSuccessStyle.Render(fmt.Sprintf("✓ Cloud Storage: bucket %s", cfg.GCSBucket)))
	} else {
		fmt.Println(statusInfoStyle.Render("○ Cloud Storage: not configured (publishing disabled)"))
	}

	if cfg.GoogleProject != "" {
		fmt.Println(statusSuccessStyle.Render(fmt.Sprintf("✓ Secret Manager: project %s", cfg.GoogleProject)))
	} else {
		fmt.Println(statusInfoStyle.Render("○ Secret Manager: not configured (optional)"))
	}

	fmt.Println()
	return nil
}
