// Package provisioning implements the deployment pipeline: the ordered
// sequence of external-API side effects that turns a forked template
// repository plus a parsed deploy spec into a live compute service.
//
// The pipeline is strictly sequential and non-transactional. Each step is
// attempted once, the first failure aborts the remaining steps, and
// resources created by earlier steps are not rolled back; an orphaned
// service or dictionary after a partial failure is a documented,
// user-visible consequence.
package provisioning

import (
	"fmt"
	"time"

	"github.com/imamik/quickdeploy/internal/manifest"
)

// Phase is one step of the deployment pipeline.
type Phase interface {
	// Name returns the human-readable name of this phase.
	Name() string

	// Provision executes the phase against the shared context.
	Provision(ctx *Context) error
}

// Deploy runs the full pipeline for one deploy request and returns the
// created service. The manifest is parsed before any side effect so a
// malformed document fails the run cleanly.
func Deploy(ctx *Context) (*CreatedService, error) {
	if ctx.Input.Repo == "" {
		return nil, &PreconditionError{Missing: "destination repository"}
	}
	if ctx.Input.RawManifest == nil {
		return nil, &PreconditionError{Missing: "service manifest"}
	}

	editable, err := manifest.Load(ctx.Input.RawManifest.Content)
	if err != nil {
		return nil, err
	}
	ctx.State.Editable = editable

	ctx.State.Slug = ctx.Input.ServiceName
	if ctx.State.Slug == "" {
		ctx.State.Slug = NewSlug()
	}

	phases := []Phase{
		&servicePhase{},
		&domainPhase{},
		&backendsPhase{},
		&dictionariesPhase{},
		&workflowPhase{},
		&secretPhase{},
		&manifestPhase{},
	}
	if err := runPhases(ctx, phases); err != nil {
		return nil, err
	}

	return &CreatedService{ID: ctx.State.ServiceID, Domain: ctx.State.Domain}, nil
}

// runPhases executes all pipeline phases sequentially. The first failure
// aborts the run; completed phases are not compensated.
func runPhases(ctx *Context, phases []Phase) error {
	start := time.Now()
	ctx.Observer.Printf("Starting deployment of %s with %d phases...", ctx.Input.Repo, len(phases))

	for i, phase := range phases {
		phaseStart := time.Now()
		name := fmt.Sprintf("%s (%d/%d)", phase.Name(), i+1, len(phases))

		ctx.Observer.Printf("[%s] starting", name)

		if err := phase.Provision(ctx); err != nil {
			ctx.Observer.Printf("[%s] failed: %v", name, err)
			return fmt.Errorf("%s phase failed: %w", phase.Name(), err)
		}

		ctx.Observer.Printf("[%s] completed in %v", name, time.Since(phaseStart).Round(time.Millisecond))
	}

	ctx.Observer.Printf("Deployment completed in %v", time.Since(start).Round(time.Millisecond))
	return nil
}
