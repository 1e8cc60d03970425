// Package github provides a minimal GitHub REST client for the deploy
// wizard: repository lookup, template generation, file contents, workflow
// enablement and encrypted action secrets.
package github

import (
	"context"
	"errors"
)

// ErrNotTemplate is returned when a repository exists but is not flagged as
// a template, so it cannot be generated from.
var ErrNotTemplate = errors.New("repository is not a template")

// User is an authenticated GitHub account.
type User struct {
	Login string `json:"login"`
	Name  string `json:"name"`
}

// Repository is the subset of repository metadata the wizard shows.
type Repository struct {
	Name            string `json:"name"`
	DefaultBranch   string `json:"default_branch"`
	Owner           User   `json:"owner"`
	ForksCount      int    `json:"forks_count"`
	StargazersCount int    `json:"stargazers_count"`
	IsTemplate      bool   `json:"is_template"`
}

// NWO returns the repository's owner/name identifier.
func (r *Repository) NWO() string {
	return r.Owner.Login + "/" + r.Name
}

// File is a repository file with the SHA needed for a conditional update.
type File struct {
	Path    string `json:"path"`
	Content string `json:"content"`
	SHA     string `json:"sha"`
}

// PublicKey is a repository's actions secret encryption key.
type PublicKey struct {
	KeyID string
	Key   [32]byte
}

// API is the surface of GitHub the wizard depends on. Lookups return
// (nil, nil) when the resource does not exist; all other non-success
// responses surface as *platform.APIError.
type API interface {
	// FetchUser returns the account the client's token belongs to.
	FetchUser(ctx context.Context) (*User, error)

	// FetchRepository looks up a repository by NWO.
	FetchRepository(ctx context.Context, nwo string) (*Repository, error)

	// GenerateFromTemplate creates a new repository named name under the
	// authenticated user's account from the template at nwo.
	GenerateFromTemplate(ctx context.Context, nwo, name string) (*Repository, error)

	// GetFile fetches a file with its content decoded.
	GetFile(ctx context.Context, nwo, path string) (*File, error)

	// UpdateFile replaces a file's content, conditioned on the SHA the
	// file was read with. A stale SHA fails the update.
	UpdateFile(ctx context.Context, nwo string, file *File, content, message string) error

	// EnableWorkflow enables an actions workflow in the repository.
	EnableWorkflow(ctx context.Context, nwo, workflow string) error

	// GetPublicKey fetches the repository's secret encryption key.
	GetPublicKey(ctx context.Context, nwo string) (*PublicKey, error)

	// CreateSecret seals value for the repository's public key and
	// creates or updates the named actions secret.
	CreateSecret(ctx context.Context, nwo, name, value string) error
}

// Factory builds an API client bound to a user token. An empty token
// yields an anonymous client (public reads only).
type Factory func(token string) API
