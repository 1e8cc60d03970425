// Package platform holds types shared by the external provider clients.
package platform

import "fmt"

// APIError is a non-success response from an external provider. The body is
// carried verbatim so the user sees exactly what the provider said.
type APIError struct {
	Provider string
	Status   int
	Message  string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s API error (status %d): %s", e.Provider, e.Status, e.Message)
}
