package config

import (
	"context"
	"fmt"
	"log/slog"

	secretmanager "cloud.google.com/go/secretmanager/apiv1"
	"cloud.google.com/go/secretmanager/apiv1/secretmanagerpb"
)

// Secret names looked up in GCP Secret Manager when the corresponding
// environment variable is unset and a project is configured.
const (
	secretHFAPIToken   = "hf-api-token"
	secretGroqAPIKey   = "groq-api-key"
	secretStabilityKey = "stability-api-key"
)

// resolveSecrets fills missing API keys from Secret Manager. Lookup failures
// are not fatal: a key that stays empty is handled downstream as the service
// being unavailable.
func resolveSecrets(ctx context.Context, cfg *Config) {
	if cfg.GoogleProject == "" {
		return
	}
	if cfg.HFAPIToken != "" && cfg.GroqAPIKey != "" && cfg.StabilityAPIKey != "" {
		return
	}

	client, err := secretmanager.NewClient(ctx)
	if err != nil {
		slog.Debug("Secret Manager unavailable", "error", err)
		return
	}
	defer func() { _ = client.Close() }()

	access := func(name string) string {
		resp, err := client.AccessSecretVersion(ctx, &secretmanagerpb.AccessSecretVersionRequest{
			Name: fmt.Sprintf("projects/%s/secrets/%s/versions/latest", cfg.GoogleProject, name),
		})
		if err != nil {
			slog.Debug("Secret not found", "secret", name, "error", err)
			return ""
		}
		return string(resp.Payload.Data)
	}

	if cfg.HFAPIToken == "" {
		cfg.HFAPIToken = access(secretHFAPIToken)
	}
	if cfg.GroqAPIKey == "" {
		cfg.GroqAPIKey = access(secretGroqAPIKey)
	}
	if cfg.StabilityAPIKey == "" {
		cfg.StabilityAPIKey = access(secretStabilityKey)
	}
}
