// Package auth drives the OAuth handshakes against the two providers and
// resolves the per-request identity view from the session's credentials.
package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"golang.org/x/oauth2"

	"github.com/imamik/quickdeploy/internal/platform"
	"github.com/imamik/quickdeploy/internal/platform/compute"
	"github.com/imamik/quickdeploy/internal/platform/github"
	"github.com/imamik/quickdeploy/internal/session"
)

// Provider identifies one of the two identity providers.
type Provider string

const (
	// ProviderGitHub is the source-control platform.
	ProviderGitHub Provider = "github"
	// ProviderCompute is the edge-compute platform.
	ProviderCompute Provider = "compute"
)

// ErrUnknownProvider is returned for a provider name outside the two
// supported ones.
var ErrUnknownProvider = errors.New("unknown auth provider")

// ErrNotAuthenticated indicates a handler requires a credential the
// session does not carry.
var ErrNotAuthenticated = errors.New("not authenticated")

// ProviderConfig describes one provider's OAuth application.
type ProviderConfig struct {
	ClientID     string
	ClientSecret string
	AuthURL      string
	TokenURL     string
	Scopes       []string
}

// Identity is the resolved per-request view of who the user is on each
// provider. A nil field means anonymous on that provider.
type Identity struct {
	GitHub  *github.User
	Compute *compute.User
}

// Coordinator owns the redirect/callback flows and identity resolution.
// It is the only component that produces new LoginState credentials.
type Coordinator struct {
	configs map[Provider]*oauth2.Config
	github  github.Factory
	compute compute.Factory
}

// NewCoordinator wires the two provider configurations with the client
// factories used for profile lookups.
func NewCoordinator(gh, cp ProviderConfig, ghFactory github.Factory, cpFactory compute.Factory) *Coordinator {
	toOAuth := func(p ProviderConfig) *oauth2.Config {
		return &oauth2.Config{
			ClientID:     p.ClientID,
			ClientSecret: p.ClientSecret,
			Scopes:       p.Scopes,
			Endpoint: oauth2.Endpoint{
				AuthURL:  p.AuthURL,
				TokenURL: p.TokenURL,
			},
		}
	}
	return &Coordinator{
		configs: map[Provider]*oauth2.Config{
			ProviderGitHub:  toOAuth(gh),
			ProviderCompute: toOAuth(cp),
		},
		github:  ghFactory,
		compute: cpFactory,
	}
}

// BeginAuthorizeFlow returns the provider's authorize URL with the client
// id and scopes embedded.
func (c *Coordinator) BeginAuthorizeFlow(provider Provider) (string, error) {
	cfg, ok := c.configs[provider]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownProvider, provider)
	}
	return cfg.AuthCodeURL(""), nil
}

// CompleteAuthorizeFlow exchanges a one-time code for a bearer credential.
// A provider rejection surfaces as *platform.APIError with the provider's
// response body verbatim.
func (c *Coordinator) CompleteAuthorizeFlow(ctx context.Context, provider Provider, code string) (string, error) {
	cfg, ok := c.configs[provider]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownProvider, provider)
	}

	token, err := cfg.Exchange(ctx, code)
	if err != nil {
		var retrieveErr *oauth2.RetrieveError
		if errors.As(err, &retrieveErr) {
			return "", &platform.APIError{
				Provider: string(provider),
				Status:   retrieveErr.Response.StatusCode,
				Message:  string(retrieveErr.Body),
			}
		}
		return "", fmt.Errorf("exchange %s code: %w", provider, err)
	}
	if token.AccessToken == "" {
		return "", fmt.Errorf("%s returned an empty access token", provider)
	}
	return token.AccessToken, nil
}

// Resolve fetches the user profile for each credential in the login state.
// Absent credentials resolve to anonymous without a network call, and an
// expired or revoked credential (401/403) also downgrades to anonymous so
// the page degrades instead of failing.
func (c *Coordinator) Resolve(ctx context.Context, login session.LoginState) (Identity, error) {
	var id Identity

	if login.GitHubToken != "" {
		user, err := c.github(login.GitHubToken).FetchUser(ctx)
		if err != nil {
			if !isCredentialRejection(err) {
				return Identity{}, err
			}
		} else {
			id.GitHub = user
		}
	}

	if login.ComputeToken != "" {
		user, err := c.compute(login.ComputeToken).FetchUser(ctx)
		if err != nil {
			if !isCredentialRejection(err) {
				return Identity{}, err
			}
		} else {
			id.Compute = user
		}
	}

	return id, nil
}

func isCredentialRejection(err error) bool {
	var apiErr *platform.APIError
	if !errors.As(err, &apiErr) {
		return false
	}
	return apiErr.Status == http.StatusUnauthorized || apiErr.Status == http.StatusForbidden
}
