package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/huh/spinner"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212")).MarginBottom(1)
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	infoStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Interactive setup wizard for Storyframe",
	Long:  `Configure API keys, create the output directory, and set up the environment for Storyframe.`,
	RunE:  runSetup,
}

func init() {
	rootCmd.AddCommand(setupCmd)
}

func runSetup(cmd *cobra.Command, args []string) error {
	fmt.Println(titleStyle.Render("🎞  Storyframe Setup"))

	steps := []struct {
		name string
		fn   func() error
	}{
		{"Creating directories", createDirectories},
		{"Configuring environment", configureEnv},
	}

	for _, step := range steps {
		if err := step.fn(); err != nil {
			return fmt.Errorf("%s: %w", step.name, err)
		}
	}

	return nil
}

func createDirectories() error {
	return runWithSpinner("Creating output directory", func() error {
		return os.MkdirAll("storyboards", 0755)
	})
}

func configureEnv() error {
	if _, err := os.Stat(".env"); err == nil {
		var overwrite bool
		if err := huh.NewConfirm().
			Title("Found existing .env file").
			Description("Overwrite?").
			Value(&overwrite).
			Run(); err != nil {
			return err
		}
		if !overwrite {
			fmt.Println(infoStyle.Render("Kept existing .env"))
			return nil
		}
	}

	env := make(map[string]string)

	if err := configureCompletionKeys(env); err != nil {
		return err
	}

	if err := configureStability(env); err != nil {
		return err
	}

	if err := configureGCP(env); err != nil {
		return err
	}

	return writeEnvFile(env)
}

func configureCompletionKeys(env map[string]string) error {
	var hfToken, groqKey string

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Hugging Face API Token").
				Description("https://huggingface.co/settings/tokens").
				EchoMode(huh.EchoModePassword).
				Value(&hfToken),
			huh.NewInput().
				Title("GROQ API Key").
				Description("https://console.groq.com/keys (optional, alternative provider)").
				EchoMode(huh.EchoModePassword).
				Value(&groqKey),
		),
	)

	if err := form.Run(); err != nil {
		return err
	}

	hfToken = strings.TrimSpace(hfToken)
	groqKey = strings.TrimSpace(groqKey)

	if hfToken == "" && groqKey == "" {
		return fmt.Errorf("at least one completion provider key is required")
	}

	if hfToken != "" {
		env["HF_API_TOKEN"] = hfToken
	}
	if groqKey != "" {
		env["GROQ_API_KEY"] = groqKey
	}
	return nil
}

func configureStability(env map[string]string) error {
	var setup bool
	if err := huh.NewConfirm().
		Title("Setup Stability AI?").
		Description("Required for rendering frame images (optional)").
		Value(&setup).
		Run(); err != nil {
		return err
	}

	if !setup {
		fmt.Println(warnStyle.Render("Image generation will be disabled without a Stability key"))
		return nil
	}

	var apiKey string
	if err := huh.NewInput().
		Title("Stability API Key").
		Description("https://platform.stability.ai/account/keys").
		EchoMode(huh.EchoModePassword).
		Value(&apiKey).
		Run(); err != nil {
		return err
	}

	apiKey = strings.TrimSpace(apiKey)
	if apiKey != "" {
		env["STABILITY_API_KEY"] = apiKey
	}
	return nil
}

func configureGCP(env map[string]string) error {
	var setup bool
	if err := huh.NewConfirm().
		Title("Setup Google Cloud?").
		Description("For publishing storyboards to Cloud Storage and reading keys from Secret Manager (optional)").
		Value(&setup).
		Run(); err != nil {
		return err
	}

	if !setup {
		return nil
	}

	var project, bucket string
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Google Cloud Project ID").
				Value(&project),
			huh.NewInput().
				Title("Cloud Storage Bucket").
				Description("Bucket name for published storyboards").
				Value(&bucket),
		),
	)

	if err := form.Run(); err != nil {
		return err
	}

	project = strings.TrimSpace(project)
	bucket = strings.TrimSpace(bucket)

	if project != "" {
		env["GOOGLE_CLOUD_PROJECT"] = project
	}
	if bucket != "" {
		env["GCS_BUCKET"] = bucket
	}
	return nil
}

func writeEnvFile(env map[string]string) error {
	f, err := os.Create(".env")
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()

	order := []string{
		"HF_API_TOKEN",
		"GROQ_API_KEY",
		"STABILITY_API_KEY",
		"GOOGLE_CLOUD_PROJECT",
		"GCS_BUCKET",
	}

	for _, key := range order {
		if val, ok := env[key]; ok && val != "" {
			_, _ = fmt.Fprintf(f, "%s=%s\n", key, val)
		}
	}

	fmt.Println(successStyle.Render("✓ Created .env file"))
	printNextSteps()
	return nil
}

func printNextSteps() {
	fmt.Println()
	fmt.Println(titleStyle.Render("Next steps:"))
	fmt.Println("  1. Optionally tweak config.yaml (frame count, style, image settings)")
	fmt.Println("  2. Run: storyframe generate \"a cat wakes up\"")
}

func runWithSpinner(title string, fn func() error) error {
	var err error
	_ = spinner.New().
		Title(title).
		Action(func() { err = fn() }).
		Run()
	if err != nil {
		return err
	}
	fmt.Println(successStyle.Render("✓ " + title))
	return nil
}
