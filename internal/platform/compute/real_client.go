package compute

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/imamik/quickdeploy/internal/platform"
)

const (
	defaultBaseURL = "https://api.fastly.com"
	userAgent      = "quickdeploy"
)

// Client is the real compute platform API client.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

var _ API = (*Client)(nil)

// NewClient creates a client authenticated with the given API token.
func NewClient(token string) *Client {
	return &Client{
		baseURL:    defaultBaseURL,
		token:      token,
		httpClient: &http.Client{},
	}
}

// NewFactory returns a Factory producing real clients against baseURL.
// An empty baseURL selects the platform's public API.
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
	if err := c.do(ctx, http.MethodGet, "/current_user", nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

type serviceRequest struct {
	Type string `json:"type"`
	Name string `json:"name"`
}

// CreateService implements API.
func (c *Client) CreateService(ctx context.Context, name string) (*Service, error) {
	body := serviceRequest{Type: "wasm", Name: name}
	var svc Service
	if err := c.do(ctx, http.MethodPost, "/service", body, &svc); err != nil {
		return nil, err
	}
	return &svc, nil
}

type domainRequest struct {
	Name string `json:"name"`
}

// CreateDomain implements API.
func (c *Client) CreateDomain(ctx context.Context, serviceID, name string) error {
	path := fmt.Sprintf("/service/%s/version/1/domain", serviceID)
	return c.do(ctx, http.MethodPost, path, domainRequest{Name: name}, nil)
}

// CreateBackend implements API.
func (c *Client) CreateBackend(ctx context.Context, serviceID string, backend Backend) error {
	path := fmt.Sprintf("/service/%s/version/1/backend", serviceID)
	return c.do(ctx, http.MethodPost, path, backend, nil)
}

// CreateDictionary implements API.
func (c *Client) CreateDictionary(ctx context.Context, serviceID, name string) (*Dictionary, error) {
	path := fmt.Sprintf("/service/%s/version/1/dictionary", serviceID)
	var dict Dictionary
	if err := c.do(ctx, http.MethodPost, path, Dictionary{Name: name}, &dict); err != nil {
		return nil, err
	}
	return &dict, nil
}

type itemAction struct {
	Op        string `json:"op"`
	ItemKey   string `json:"item_key"`
	ItemValue string `json:"item_value"`
}

type itemsUpdateRequest struct {
	Items []itemAction `json:"items"`
}

// UpdateDictionaryItems implements API.
func (c *Client) UpdateDictionaryItems(ctx context.Context, serviceID, dictionaryID string, items []DictionaryItem) error {
	body := itemsUpdateRequest{Items: make([]itemAction, 0, len(items))}
	for _, item := range items {
		body.Items = append(body.Items, itemAction{
			Op:        "create",
			ItemKey:   item.Key,
			ItemValue: item.Value,
		})
	}

	path := fmt.Sprintf("/service/%s/dictionary/%s/items", serviceID, dictionaryID)
	return c.do(ctx, http.MethodPatch, path, body, nil)
}

type versionStatusResponse struct {
	Active bool `json:"active"`
}

// GetServiceVersionStatus implements API.
func (c *Client) GetServiceVersionStatus(ctx context.Context, serviceID string) (bool, error) {
	path := fmt.Sprintf("/service/%s/version/1", serviceID)
	var status versionStatusResponse
	if err := c.do(ctx, http.MethodGet, path, nil, &status); err != nil {
		return false, err
	}
	return status.Active, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Fastly-Key", c.token)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &platform.APIError{
			Provider: "compute platform",
			Status:   resp.StatusCode,
			Message:  strings.TrimSpace(string(data)),
		}
	}

	if out != nil {
		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("parse response: %w (status %d)", err, resp.StatusCode)
		}
	}
	return nil
}
