package github

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"golang.org/x/crypto/nacl/box"

	"github.com/imamik/quickdeploy/internal/platform"
)

const (
	defaultBaseURL = "https://api.github.com"
	userAgent      = "quickdeploy"
	acceptHeader   = "application/vnd.github+json"
)

// Client is the real GitHub API client.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

var _ API = (*Client)(nil)

// NewClient creates a client authenticated with the given user token.
// An empty token makes the client anonymous.
func NewClient(token string) *Client {
	return &Client{
		baseURL:    defaultBaseURL,
		token:      token,
		httpClient: &http.Client{},
	}
}

// NewFactory returns a Factory producing real clients against baseURL.
// An empty baseURL selects the public GitHub API.
func NewFactory(baseURL string) Factory {
	return func(token string) API {
		c := NewClient(token)
		if baseURL != "" {
			c.baseURL = baseURL
		}
		return c
	}
}

// FetchUser implements API.
func (c *Client) FetchUser(ctx context.Context) (*User, error) {
	var user User
	if _, err := c.do(ctx, http.MethodGet, "/user", nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// FetchRepository implements API.
func (c *Client) FetchRepository(ctx context.Context, nwo string) (*Repository, error) {
	var repo Repository
	status, err := c.do(ctx, http.MethodGet, "/repos/"+nwo, nil, &repo)
	if status == http.StatusNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &repo, nil
}

// GenerateFromTemplate implements API.
func (c *Client) GenerateFromTemplate(ctx context.Context, nwo, name string) (*Repository, error) {
	body := map[string]string{"name": name}
	var repo Repository
	if _, err := c.do(ctx, http.MethodPost, "/repos/"+nwo+"/generate", body, &repo); err != nil {
		return nil, err
	}
	return &repo, nil
}

type contentsResponse struct {
	Path    string `json:"path"`
	Content string `json:"content"`
	SHA     string `json:"sha"`
}

// GetFile implements API. File contents arrive base64-encoded with
// embedded newlines; both are undone here.
func (c *Client) GetFile(ctx context.Context, nwo, path string) (*File, error) {
	var resp contentsResponse
	status, err := c.do(ctx, http.MethodGet, "/repos/"+nwo+"/contents/"+path, nil, &resp)
	if status == http.StatusNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	decoded, err := base64.StdEncoding.DecodeString(strings.ReplaceAll(resp.Content, "\n", ""))
	if err != nil {
		return nil, fmt.Errorf("decode %s from %s: %w", path, nwo, err)
	}

	return &File{Path: resp.Path, Content: string(decoded), SHA: resp.SHA}, nil
}

type fileUpdateRequest struct {
	Content string `json:"content"`
	Message string `json:"message"`
	SHA     string `json:"sha"`
}

// UpdateFile implements API. The SHA from the original read acts as an
// optimistic concurrency guard: GitHub rejects the update when the file
// changed since it was fetched.
func (c *Client) UpdateFile(ctx context.Context, nwo string, file *File, content, message string) error {
	body := fileUpdateRequest{
		Content: base64.StdEncoding.EncodeToString([]byte(content)),
		Message: message,
		SHA:     file.SHA,
	}
	_, err := c.do(ctx, http.MethodPut, "/repos/"+nwo+"/contents/"+file.Path, body, nil)
	return err
}

// EnableWorkflow implements API.
func (c *Client) EnableWorkflow(ctx context.Context, nwo, workflow string) error {
	path := fmt.Sprintf("/repos/%s/actions/workflows/%s/enable", nwo, workflow)
	_, err := c.do(ctx, http.MethodPut, path, nil, nil)
	return err
}

type publicKeyResponse struct {
	KeyID string `json:"key_id"`
	Key   string `json:"key"`
}

// GetPublicKey implements API.
func (c *Client) GetPublicKey(ctx context.Context, nwo string) (*PublicKey, error) {
	var resp publicKeyResponse
	if _, err := c.do(ctx, http.MethodGet, "/repos/"+nwo+"/actions/secrets/public-key", nil, &resp); err != nil {
		return nil, err
	}

	raw, err := base64.StdEncoding.DecodeString(resp.Key)
	if err != nil {
		return nil, fmt.Errorf("decode public key for %s: %w", nwo, err)
	}
	if len(raw) != 32 {
		return nil, fmt.Errorf("public key for %s has %d bytes, want 32", nwo, len(raw))
	}

	key := &PublicKey{KeyID: resp.KeyID}
	copy(key.Key[:], raw)
	return key, nil
}

type createSecretRequest struct {
	EncryptedValue string `json:"encrypted_value"`
	KeyID          string `json:"key_id"`
}

// CreateSecret implements API. The value is sealed-box encrypted under the
// repository public key, so the plaintext never leaves this process.
func (c *Client) CreateSecret(ctx context.Context, nwo, name, value string) error {
	key, err := c.GetPublicKey(ctx, nwo)
	if err != nil {
		return err
	}

	sealed, err := box.SealAnonymous(nil, []byte(value), &key.Key, nil)
	if err != nil {
		return fmt.Errorf("seal secret %s: %w", name, err)
	}

	body := createSecretRequest{
		EncryptedValue: base64.StdEncoding.EncodeToString(sealed),
		KeyID:          key.KeyID,
	}
	_, err = c.do(ctx, http.MethodPut, "/repos/"+nwo+"/actions/secrets/"+name, body, nil)
	return err
}

func (c *Client) newRequest(ctx context.Context, method, path string, body any) (*http.Request, error) {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", acceptHeader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "token "+c.token)
	}
	return req, nil
}

// do executes a request and decodes the JSON response into out (when
// non-nil). It returns the HTTP status so callers can map 404 to absence;
// other non-2xx statuses become *platform.APIError with the body verbatim.
func (c *Client) do(ctx context.Context, method, path string, body, out any) (int, error) {
	req, err := c.newRequest(ctx, method, path, body)
	if err != nil {
		return 0, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, err
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return resp.StatusCode, &platform.APIError{
			Provider: "GitHub",
			Status:   resp.StatusCode,
			Message:  strings.TrimSpace(string(data)),
		}
	}

	if out != nil {
		if err := json.Unmarshal(data, out); err != nil {
			return resp.StatusCode, fmt.Errorf("parse response: %w (status %d)", err, resp.StatusCode)
		}
	}
	return resp.StatusCode, nil
}
