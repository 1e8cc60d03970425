package provisioning

import (
	"fmt"

	"github.com/imamik/quickdeploy/internal/manifest"
	"github.com/imamik/quickdeploy/internal/platform/compute"
)

const defaultBackendPort = 80

// servicePhase creates the compute service record. This is the only phase
// whose failure leaves nothing behind.
type servicePhase struct{}

func (servicePhase) Name() string { return "service" }

func (servicePhase) Provision(ctx *Context) error {
	svc, err := ctx.Compute.CreateService(ctx, ServiceName(ctx.State.Slug))
	if err != nil {
		return err
	}
	ctx.State.ServiceID = svc.ID
	ctx.Observer.Printf("Created service %s", svc.ID)
	return nil
}

// domainPhase binds a deterministically named domain to the new service.
type domainPhase struct{}

func (domainPhase) Name() string { return "domain" }

func (domainPhase) Provision(ctx *Context) error {
	domain := Domain(ctx.State.Slug, ctx.Input.DomainSuffix)
	if err := ctx.Compute.CreateDomain(ctx, ctx.State.ServiceID, domain); err != nil {
		return err
	}
	ctx.State.Domain = domain
	ctx.Observer.Printf("Created domain %s", domain)
	return nil
}

// backendsPhase creates the declared backends in order. A spec with no
// backends gets a single loopback backend so the service is always
// minimally functional.
type backendsPhase struct{}

func (backendsPhase) Name() string { return "backends" }

func (backendsPhase) Provision(ctx *Context) error {
	backends := ctx.Input.Spec.Backends
	if len(backends) == 0 {
		backends = []manifest.BackendSpec{{Name: "127.0.0.1", Address: "127.0.0.1"}}
	}

	for _, spec := range backends {
		port := defaultBackendPort
		if spec.Port != nil {
			port = *spec.Port
		}
		backend := compute.Backend{Name: spec.Name, Address: spec.Address, Port: port}
		if err := ctx.Compute.CreateBackend(ctx, ctx.State.ServiceID, backend); err != nil {
			return fmt.Errorf("create backend %s: %w", spec.Name, err)
		}
		ctx.Observer.Printf("Created backend %s", spec.Name)
	}
	return nil
}

// dictionariesPhase creates each declared dictionary and bulk-applies its
// items. Item values resolve override-before-default; a key with neither
// fails the run after the dictionary was created (the documented orphan
// case).
type dictionariesPhase struct{}

func (dictionariesPhase) Name() string { return "dictionaries" }

func (dictionariesPhase) Provision(ctx *Context) error {
	for _, spec := range ctx.Input.Spec.Dictionaries {
		dict, err := ctx.Compute.CreateDictionary(ctx, ctx.State.ServiceID, spec.Name)
		if err != nil {
			return fmt.Errorf("create dictionary %s: %w", spec.Name, err)
		}
		ctx.State.DictionaryIDs[spec.Name] = dict.ID
		ctx.Observer.Printf("Created dictionary %s", spec.Name)

		items := make([]compute.DictionaryItem, 0, len(spec.Items))
		for _, item := range spec.Items {
			value, err := resolveItemValue(ctx.Input.Overrides, spec.Name, item)
			if err != nil {
				return err
			}
			items = append(items, compute.DictionaryItem{Key: item.Key, Value: value})
		}

		if err := ctx.Compute.UpdateDictionaryItems(ctx, ctx.State.ServiceID, dict.ID, items); err != nil {
			return fmt.Errorf("populate dictionary %s: %w", spec.Name, err)
		}
		ctx.Observer.Printf("Populated dictionary %s with %d items", spec.Name, len(items))
	}
	return nil
}

// resolveItemValue applies the value precedence: user override, then the
// spec's declared default.
func resolveItemValue(overrides map[string]string, dictName string, item manifest.DictionaryItemSpec) (string, error) {
	if value, ok := overrides[dictName+"."+item.Key]; ok {
		return value, nil
	}
	if item.Value != nil {
		return *item.Value, nil
	}
	return "", &MissingValueError{Key: item.Key}
}

// workflowPhase enables the CI workflow in the destination repository.
type workflowPhase struct{}

func (workflowPhase) Name() string { return "workflow" }

func (workflowPhase) Provision(ctx *Context) error {
	if err := ctx.GitHub.EnableWorkflow(ctx, ctx.Input.Repo, ctx.Input.WorkflowFile); err != nil {
		return err
	}
	ctx.Observer.Printf("Enabled workflow in %s", ctx.Input.Repo)
	return nil
}

// secretPhase seals the compute credential under the repository's public
// key and stores it as the deployment secret.
type secretPhase struct{}

func (secretPhase) Name() string { return "secret" }

func (secretPhase) Provision(ctx *Context) error {
	if err := ctx.GitHub.CreateSecret(ctx, ctx.Input.Repo, ctx.Input.SecretName, ctx.Input.ComputeToken); err != nil {
		return err
	}
	ctx.Observer.Printf("Created repository secret %s", ctx.Input.SecretName)
	return nil
}

// manifestPhase rewrites the manifest with the new service id and pushes
// it back, conditioned on the SHA captured when the file was read. It runs
// last so a partially provisioned service is never reported as pushed.
type manifestPhase struct{}

func (manifestPhase) Name() string { return "manifest" }

func (manifestPhase) Provision(ctx *Context) error {
	ctx.State.Editable.SetServiceID(ctx.State.ServiceID)

	message := "Provision service via quickdeploy"
	if err := ctx.GitHub.UpdateFile(ctx, ctx.Input.Repo, ctx.Input.RawManifest, ctx.State.Editable.Render(), message); err != nil {
		return err
	}
	ctx.Observer.Printf("Manifest pushed to %s", ctx.Input.Repo)
	return nil
}
