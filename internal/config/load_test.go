package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validYAML = `
listen: ":9000"
github:
  client_id: gh-id
  client_secret: gh-secret
compute:
  client_id: cp-id
  client_secret: cp-secret
  auth_url: https://platform.example/oauth/authorize
  token_url: https://platform.example/oauth/token
`

func TestLoad(t *testing.T) {
	cfg, err := Load([]byte(validYAML))
	require.NoError(t, err)

	assert.Equal(t, ":9000", cfg.Listen)
	assert.Equal(t, "gh-id", cfg.GitHub.ClientID)
	assert.Equal(t, "cp-secret", cfg.Compute.ClientSecret)
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load([]byte(validYAML))
	require.NoError(t, err)

	assert.Equal(t, "https://github.com/login/oauth/authorize", cfg.GitHub.AuthURL)
	assert.Equal(t, "https://github.com/login/oauth/access_token", cfg.GitHub.TokenURL)
	assert.Equal(t, []string{"repo", "workflow"}, cfg.GitHub.Scopes)
	assert.Equal(t, "edgecompute.app", cfg.Deploy.DomainSuffix)
	assert.Equal(t, "FASTLY_API_TOKEN", cfg.Deploy.SecretName)
	assert.Equal(t, "deploy.yml", cfg.Deploy.WorkflowFile)
	assert.Equal(t, "quick-deploy.toml", cfg.Deploy.SpecFile)
	assert.Equal(t, "fastly.toml", cfg.Deploy.ManifestFile)
}

func TestLoad_MissingCredentials(t *testing.T) {
	_, err := Load([]byte("listen: \":8080\"\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "github oauth application")
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("QUICKDEPLOY_GITHUB_CLIENT_SECRET", "from-env")

	cfg, err := Load([]byte(validYAML))
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.GitHub.ClientSecret)
}

func TestLoad_MalformedYAML(t *testing.T) {
	_, err := Load([]byte("listen: [unclosed"))
	require.Error(t, err)
}

func TestWizardResult_ToConfigValidates(t *testing.T) {
	r := &WizardResult{
		Listen:              ":8080",
		GitHubClientID:      "gh-id",
		GitHubClientSecret:  "gh-secret",
		ComputeClientID:     "cp-id",
		ComputeClientSecret: "cp-secret",
		ComputeAuthURL:      "https://platform.example/oauth/authorize",
		ComputeTokenURL:     "https://platform.example/oauth/token",
		DomainSuffix:        "edgecompute.app",
		SecretName:          "FASTLY_API_TOKEN",
	}

	require.NoError(t, r.ToConfig().Validate())

	data, err := r.MarshalYAML()
	require.NoError(t, err)

	cfg, err := Load(data)
	require.NoError(t, err)
	assert.Equal(t, "gh-id", cfg.GitHub.ClientID)
	assert.Equal(t, "edgecompute.app", cfg.Deploy.DomainSuffix)
}
