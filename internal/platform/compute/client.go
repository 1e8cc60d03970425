// Package compute provides a client for the edge-compute platform API:
// service, domain, backend and dictionary provisioning plus activation
// status checks. All resources are created against version 1 of a service,
// which is the version the CI workflow later activates.
package compute

import "context"

// User is an authenticated platform account.
type User struct {
	Name       string `json:"name"`
	CustomerID string `json:"customer_id"`
}

// Service is a created compute service.
type Service struct {
	ID string `json:"id"`
}

// Backend is an origin server attached to a service version.
type Backend struct {
	Name    string `json:"name"`
	Address string `json:"address"`
	Port    int    `json:"port"`
}

// Dictionary is an edge dictionary attached to a service version.
type Dictionary struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// DictionaryItem is a single key/value pair in a dictionary bulk update.
type DictionaryItem struct {
	Key   string
	Value string
}

// API is the surface of the compute platform the wizard depends on.
// Non-success responses surface as *platform.APIError.
type API interface {
	// FetchUser returns the account the client's token belongs to.
	FetchUser(ctx context.Context) (*User, error)

	// CreateService creates a new wasm compute service.
	CreateService(ctx context.Context, name string) (*Service, error)

	// CreateDomain binds a domain name to version 1 of the service.
	CreateDomain(ctx context.Context, serviceID, name string) error

	// CreateBackend adds a backend to version 1 of the service.
	CreateBackend(ctx context.Context, serviceID string, backend Backend) error

	// CreateDictionary adds an empty dictionary to version 1 of the
	// service and returns it with its assigned ID.
	CreateDictionary(ctx context.Context, serviceID, name string) (*Dictionary, error)

	// UpdateDictionaryItems applies all item creations for a dictionary
	// as a single bulk PATCH.
	UpdateDictionaryItems(ctx context.Context, serviceID, dictionaryID string, items []DictionaryItem) error

	// GetServiceVersionStatus reports whether version 1 of the service
	// has been activated.
	GetServiceVersionStatus(ctx context.Context, serviceID string) (bool, error)
}

// Factory builds an API client bound to a user token.
type Factory func(token string) API
