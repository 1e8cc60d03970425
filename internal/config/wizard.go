package config

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"
	"gopkg.in/yaml.v3"
)

// WizardResult holds the user's choices from the configuration wizard.
type WizardResult struct {
	Listen              string
	GitHubClientID      string
	GitHubClientSecret  string
	ComputeClientID     string
	ComputeClientSecret string
	ComputeAuthURL      string
	ComputeTokenURL     string
	DomainSuffix        string
	SecretName          string
}

// RunWizard interactively collects the configuration needed to run the
// server.
func RunWizard(ctx context.Context) (*WizardResult, error) {
	result := &WizardResult{
		// Defaults
		Listen:       ":8080",
		DomainSuffix: "edgecompute.app",
		SecretName:   "FASTLY_API_TOKEN",
	}

	form := huh.NewForm(
		// Server
		huh.NewGroup(
			huh.NewInput().
				Title("Listen address").
				Description("host:port the HTTP server binds to").
				Placeholder(":8080").
				Value(&result.Listen),
		),

		// GitHub OAuth application
		huh.NewGroup(
			huh.NewInput().
				Title("GitHub client ID").
				Description("From your GitHub OAuth application settings").
				Value(&result.GitHubClientID).
				Validate(validateRequired("client ID")),
			huh.NewInput().
				Title("GitHub client secret").
				EchoMode(huh.EchoModePassword).
				Value(&result.GitHubClientSecret).
				Validate(validateRequired("client secret")),
		),

		// Compute platform OAuth application
		huh.NewGroup(
			huh.NewInput().
				Title("Compute platform client ID").
				Value(&result.ComputeClientID).
				Validate(validateRequired("client ID")),
			huh.NewInput().
				Title("Compute platform client secret").
				EchoMode(huh.EchoModePassword).
				Value(&result.ComputeClientSecret).
				Validate(validateRequired("client secret")),
			huh.NewInput().
				Title("Compute authorize URL").
				Placeholder("https://platform.example/oauth/authorize").
				Value(&result.ComputeAuthURL).
				Validate(validateRequired("authorize URL")),
			huh.NewInput().
				Title("Compute token URL").
				Placeholder("https://platform.example/oauth/token").
				Value(&result.ComputeTokenURL).
				Validate(validateRequired("token URL")),
		),

		// Deploy conventions
		huh.NewGroup(
			huh.NewInput().
				Title("Domain suffix").
				Description("Zone new service domains are created under").
				Value(&result.DomainSuffix),
			huh.NewInput().
				Title("Deployment secret name").
				Description("Repository secret the sealed compute token is stored as").
				Value(&result.SecretName),
		),
	)

	if err := form.RunWithContext(ctx); err != nil {
		return nil, fmt.Errorf("wizard canceled: %w", err)
	}

	return result, nil
}

func validateRequired(field string) func(string) error {
	return func(value string) error {
		if strings.TrimSpace(value) == "" {
			return fmt.Errorf("%s is required", field)
		}
		return nil
	}
}

// ToConfig converts the wizard result to a Config.
func (r *WizardResult) ToConfig() *Config {
	return &Config{
		Listen: r.Listen,
		GitHub: Provider{
			ClientID:     r.GitHubClientID,
			ClientSecret: r.GitHubClientSecret,
		},
		Compute: Provider{
			ClientID:     r.ComputeClientID,
			ClientSecret: r.ComputeClientSecret,
			AuthURL:      r.ComputeAuthURL,
			TokenURL:     r.ComputeTokenURL,
		},
		Deploy: Deploy{
			DomainSuffix: r.DomainSuffix,
			SecretName:   r.SecretName,
		},
	}
}

// MarshalYAML renders the wizard result as a config file.
func (r *WizardResult) MarshalYAML() ([]byte, error) {
	doc := map[string]any{
		"listen": r.Listen,
		"github": map[string]any{
			"client_id":     r.GitHubClientID,
			"client_secret": r.GitHubClientSecret,
		},
		"compute": map[string]any{
			"client_id":     r.ComputeClientID,
			"client_secret": r.ComputeClientSecret,
			"auth_url":      r.ComputeAuthURL,
			"token_url":     r.ComputeTokenURL,
		},
		"deploy": map[string]any{
			"domain_suffix": r.DomainSuffix,
			"secret_name":   r.SecretName,
		},
	}
	return yaml.Marshal(doc)
}
