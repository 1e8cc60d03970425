package provisioning

import (
	"context"

	"github.com/imamik/quickdeploy/internal/manifest"
	"github.com/imamik/quickdeploy/internal/platform/compute"
	"github.com/imamik/quickdeploy/internal/platform/github"
)

// Input carries everything a single pipeline run needs. It is assembled by
// the deploy handler from the session, the form submission and the files
// fetched from the destination repository.
type Input struct {
	// Repo is the destination (forked) repository NWO.
	Repo string

	// RawManifest is the service manifest as read from Repo, including
	// the SHA used to guard the final conditional write.
	RawManifest *github.File

	// Spec is the parsed deploy configuration from the repository.
	Spec manifest.Spec

	// Overrides are user-supplied dictionary values keyed
	// "<dictionary-name>.<item-key>".
	Overrides map[string]string

	// ComputeToken is sealed into the repository's deployment secret. It
	// is never logged.
	ComputeToken string

	// ServiceName pre-selects the service slug; empty means generate one.
	ServiceName string

	// DomainSuffix is the zone new service domains are created under.
	DomainSuffix string

	// SecretName is the actions secret receiving the sealed token.
	SecretName string

	// WorkflowFile is the CI workflow to enable in the repository.
	WorkflowFile string
}

// State holds the shared results of pipeline phases. It is progressively
// populated as each phase completes and read by later phases that need
// earlier results.
type State struct {
	Slug      string
	ServiceID string
	Domain    string

	// DictionaryIDs maps declared dictionary names to their created IDs.
	DictionaryIDs map[string]string

	// Editable is the manifest being rewritten with the new service id.
	Editable *manifest.File
}

// NewState creates an empty pipeline state.
func NewState() *State {
	return &State{DictionaryIDs: make(map[string]string)}
}

// Context wraps all dependencies and state needed by a pipeline phase.
type Context struct {
	context.Context
	GitHub   github.API
	Compute  compute.API
	Input    Input
	State    *State
	Observer Observer
}

// NewContext creates a pipeline context for one deploy run.
func NewContext(ctx context.Context, gh github.API, cp compute.API, input Input) *Context {
	return &Context{
		Context:  ctx,
		GitHub:   gh,
		Compute:  cp,
		Input:    input,
		State:    NewState(),
		Observer: ConsoleObserver{},
	}
}

// CreatedService is the pipeline's result, promoted into the deployment
// state by the caller.
type CreatedService struct {
	ID     string
	Domain string
}
