package config

import (
	"fmt"
	"os"

	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// LoadFile reads and parses the configuration from a YAML file.
func LoadFile(path string) (*Config, error) {
	// #nosec G304
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return Load(data)
}

// Load parses configuration from YAML bytes, applies defaults and
// environment overrides, and validates the result.
func Load(data []byte) (*Config, error) {
	var rawConfig map[string]interface{}
	if err := yaml.Unmarshal(data, &rawConfig); err != nil {
		return nil, fmt.Errorf("failed to unmarshal yaml: %w", err)
	}

	var cfg Config
	if err := mapstructure.Decode(rawConfig, &cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	applyDefaults(&cfg)
	applyEnvOverrides(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Listen == "" {
		cfg.Listen = ":8080"
	}
	if cfg.GitHub.AuthURL == "" {
		cfg.GitHub.AuthURL = "https://github.com/login/oauth/authorize"
	}
	if cfg.GitHub.TokenURL == "" {
		cfg.GitHub.TokenURL = "https://github.com/login/oauth/access_token"
	}
	if len(cfg.GitHub.Scopes) == 0 {
		cfg.GitHub.Scopes = []string{"repo", "workflow"}
	}
	if cfg.Deploy.DomainSuffix == "" {
		cfg.Deploy.DomainSuffix = "edgecompute.app"
	}
	if cfg.Deploy.SecretName == "" {
		cfg.Deploy.SecretName = "FASTLY_API_TOKEN"
	}
	if cfg.Deploy.WorkflowFile == "" {
		cfg.Deploy.WorkflowFile = "deploy.yml"
	}
	if cfg.Deploy.SpecFile == "" {
		cfg.Deploy.SpecFile = "quick-deploy.toml"
	}
	if cfg.Deploy.ManifestFile == "" {
		cfg.Deploy.ManifestFile = "fastly.toml"
	}
}

// applyEnvOverrides lets secrets come from the environment instead of the
// config file.
func applyEnvOverrides(cfg *Config) {
	overrides := map[string]*string{
		"QUICKDEPLOY_GITHUB_CLIENT_ID":      &cfg.GitHub.ClientID,
		"QUICKDEPLOY_GITHUB_CLIENT_SECRET":  &cfg.GitHub.ClientSecret,
		"QUICKDEPLOY_COMPUTE_CLIENT_ID":     &cfg.Compute.ClientID,
		"QUICKDEPLOY_COMPUTE_CLIENT_SECRET": &cfg.Compute.ClientSecret,
	}
	for name, target := range overrides {
		if value := os.Getenv(name); value != "" {
			*target = value
		}
	}
}
