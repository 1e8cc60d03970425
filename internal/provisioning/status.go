package provisioning

import (
	"context"

	"github.com/imamik/quickdeploy/internal/platform/compute"
)

// StatusPoller checks whether a provisioned service has gone live. Each
// call is one stateless poll; the browser re-invokes it via page reloads.
type StatusPoller struct {
	Compute compute.API
}

// IsActive reports whether version 1 of the service has been activated by
// the platform.
func (p *StatusPoller) IsActive(ctx context.Context, serviceID string) (bool, error) {
	if serviceID == "" {
		return false, &PreconditionError{Missing: "provisioned service"}
	}
	return p.Compute.GetServiceVersionStatus(ctx, serviceID)
}
