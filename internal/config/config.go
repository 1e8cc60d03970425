// Package config defines the server configuration: where to listen, the
// OAuth applications for both providers, and the deploy conventions
// (domain suffix, secret name, well-known file paths).
package config

import "fmt"

// Provider holds one OAuth application's settings.
type Provider struct {
	ClientID     string   `mapstructure:"client_id"`
	ClientSecret string   `mapstructure:"client_secret"`
	AuthURL      string   `mapstructure:"auth_url"`
	TokenURL     string   `mapstructure:"token_url"`
	Scopes       []string `mapstructure:"scopes"`

	// APIURL overrides the provider's API base URL. Empty selects the
	// public endpoint; tests point it at a local server.
	APIURL string `mapstructure:"api_url"`
}

// Deploy holds the conventions applied to every deployment.
type Deploy struct {
	// DomainSuffix is the zone new service domains are created under.
	DomainSuffix string `mapstructure:"domain_suffix"`

	// SecretName is the repository secret holding the sealed compute
	// token.
	SecretName string `mapstructure:"secret_name"`

	// WorkflowFile is the CI workflow enabled in the fork.
	WorkflowFile string `mapstructure:"workflow_file"`

	// SpecFile and ManifestFile are the well-known paths read from the
	// template repository.
	SpecFile     string `mapstructure:"spec_file"`
	ManifestFile string `mapstructure:"manifest_file"`
}

// Config is the full server configuration.
type Config struct {
	Listen     string   `mapstructure:"listen"`
	CookieName string   `mapstructure:"cookie_name"`
	GitHub     Provider `mapstructure:"github"`
	Compute    Provider `mapstructure:"compute"`
	Deploy     Deploy   `mapstructure:"deploy"`
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	if c.GitHub.ClientID == "" || c.GitHub.ClientSecret == "" {
		return fmt.Errorf("github oauth application is not configured (client_id/client_secret)")
	}
	if c.Compute.ClientID == "" || c.Compute.ClientSecret == "" {
		return fmt.Errorf("compute oauth application is not configured (client_id/client_secret)")
	}
	if c.Compute.AuthURL == "" || c.Compute.TokenURL == "" {
		return fmt.Errorf("compute oauth endpoints are not configured (auth_url/token_url)")
	}
	return nil
}
