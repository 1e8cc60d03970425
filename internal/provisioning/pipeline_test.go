package provisioning

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/imamik/quickdeploy/internal/manifest"
	"github.com/imamik/quickdeploy/internal/platform/compute"
	"github.com/imamik/quickdeploy/internal/platform/github"
	"github.com/imamik/quickdeploy/internal/util/ptr"
)

const testManifest = "name = \"demo\"\nservice_id = \"\"\n"

// recorder tracks the order of external API calls across both providers.
type recorder struct {
	calls []string
}

func (r *recorder) record(name string) { r.calls = append(r.calls, name) }

func testClients(r *recorder) (*github.MockClient, *compute.MockClient) {
	gh := &github.MockClient{
		EnableWorkflowFunc: func(context.Context, string, string) error {
			r.record("workflow")
			return nil
		},
		CreateSecretFunc: func(context.Context, string, string, string) error {
			r.record("secret")
			return nil
		},
		UpdateFileFunc: func(context.Context, string, *github.File, string, string) error {
			r.record("manifest")
			return nil
		},
	}
	cp := &compute.MockClient{
		CreateServiceFunc: func(context.Context, string) (*compute.Service, error) {
			r.record("service")
			return &compute.Service{ID: "SVC1"}, nil
		},
		CreateDomainFunc: func(context.Context, string, string) error {
			r.record("domain")
			return nil
		},
		CreateBackendFunc: func(context.Context, string, compute.Backend) error {
			r.record("backend")
			return nil
		},
		CreateDictionaryFunc: func(_ context.Context, _, name string) (*compute.Dictionary, error) {
			r.record("dictionary")
			return &compute.Dictionary{ID: "DICT1", Name: name}, nil
		},
		UpdateDictionaryItemsFunc: func(context.Context, string, string, []compute.DictionaryItem) error {
			r.record("items")
			return nil
		},
	}
	return gh, cp
}

func testContext(gh github.API, cp compute.API, input Input) *Context {
	if input.Repo == "" {
		input.Repo = "user/app"
	}
	if input.RawManifest == nil {
		input.RawManifest = &github.File{Path: "fastly.toml", Content: testManifest, SHA: "sha1"}
	}
	if input.DomainSuffix == "" {
		input.DomainSuffix = "edgecompute.app"
	}
	if input.SecretName == "" {
		input.SecretName = "DEPLOY_TOKEN"
	}
	if input.WorkflowFile == "" {
		input.WorkflowFile = "deploy.yml"
	}

	ctx := NewContext(context.Background(), gh, cp, input)
	ctx.Observer = NopObserver{}
	return ctx
}

func TestDeploy_OrderingInvariant(t *testing.T) {
	t.Parallel()
	r := &recorder{}
	gh, cp := testClients(r)

	spec := manifest.Spec{
		Backends: []manifest.BackendSpec{{Name: "origin", Address: "origin.example.com"}},
		Dictionaries: []manifest.DictionarySpec{{
			Name:  "config",
			Items: []manifest.DictionaryItemSpec{{Key: "greeting", InputType: "string", Value: ptr.String("hello")}},
		}},
	}

	created, err := Deploy(testContext(gh, cp, Input{Spec: spec}))
	require.NoError(t, err)

	assert.Equal(t, []string{
		"service", "domain", "backend", "dictionary", "items",
		"workflow", "secret", "manifest",
	}, r.calls)
	assert.Equal(t, "SVC1", created.ID)
}

func TestDeploy_DefaultLoopbackBackend(t *testing.T) {
	t.Parallel()
	r := &recorder{}
	gh, cp := testClients(r)

	var backends []compute.Backend
	cp.CreateBackendFunc = func(_ context.Context, _ string, b compute.Backend) error {
		r.record("backend")
		backends = append(backends, b)
		return nil
	}

	_, err := Deploy(testContext(gh, cp, Input{}))
	require.NoError(t, err)

	require.Len(t, backends, 1)
	assert.Equal(t, compute.Backend{Name: "127.0.0.1", Address: "127.0.0.1", Port: 80}, backends[0])
}

func TestDeploy_BackendPortDefault(t *testing.T) {
	t.Parallel()
	r := &recorder{}
	gh, cp := testClients(r)

	var backends []compute.Backend
	cp.CreateBackendFunc = func(_ context.Context, _ string, b compute.Backend) error {
		backends = append(backends, b)
		return nil
	}

	spec := manifest.Spec{Backends: []manifest.BackendSpec{
		{Name: "plain", Address: "a.example.com"},
		{Name: "tls", Address: "b.example.com", Port: ptr.Int(443)},
	}}

	_, err := Deploy(testContext(gh, cp, Input{Spec: spec}))
	require.NoError(t, err)

	require.Len(t, backends, 2)
	assert.Equal(t, 80, backends[0].Port)
	assert.Equal(t, 443, backends[1].Port)
}

func TestDeploy_ValuePrecedence(t *testing.T) {
	t.Parallel()

	spec := manifest.Spec{Dictionaries: []manifest.DictionarySpec{{
		Name: "config",
		Items: []manifest.DictionaryItemSpec{
			{Key: "greeting", InputType: "string", Value: ptr.String("default-hello")},
			{Key: "mode", InputType: "string", Value: ptr.String("staging")},
		},
	}}}

	r := &recorder{}
	gh, cp := testClients(r)
	var applied []compute.DictionaryItem
	cp.UpdateDictionaryItemsFunc = func(_ context.Context, _, _ string, items []compute.DictionaryItem) error {
		applied = items
		return nil
	}

	overrides := map[string]string{"config.greeting": "override-hi"}
	_, err := Deploy(testContext(gh, cp, Input{Spec: spec, Overrides: overrides}))
	require.NoError(t, err)

	require.Len(t, applied, 2)
	assert.Equal(t, compute.DictionaryItem{Key: "greeting", Value: "override-hi"}, applied[0])
	assert.Equal(t, compute.DictionaryItem{Key: "mode", Value: "staging"}, applied[1])
}

func TestDeploy_MissingValueFailsBeforeItems(t *testing.T) {
	t.Parallel()

	spec := manifest.Spec{Dictionaries: []manifest.DictionarySpec{{
		Name:  "config",
		Items: []manifest.DictionaryItemSpec{{Key: "greeting", InputType: "string"}},
	}}}

	r := &recorder{}
	gh, cp := testClients(r)

	_, err := Deploy(testContext(gh, cp, Input{Spec: spec}))

	var missing *MissingValueError
	require.True(t, errors.As(err, &missing))
	assert.Equal(t, "greeting", missing.Key)

	// The dictionary was created (orphan case) but no item call was made
	// and no later phase ran.
	assert.Equal(t, []string{"service", "domain", "backend", "dictionary"}, r.calls)
}

func TestDeploy_FirstFailureAborts(t *testing.T) {
	t.Parallel()
	r := &recorder{}
	gh, cp := testClients(r)

	cp.CreateDomainFunc = func(context.Context, string, string) error {
		r.record("domain")
		return errors.New("domain taken")
	}

	_, err := Deploy(testContext(gh, cp, Input{}))
	require.Error(t, err)
	assert.ErrorContains(t, err, "domain taken")

	// Service creation happened and was not rolled back; nothing after
	// the failing phase ran.
	assert.Equal(t, []string{"service", "domain"}, r.calls)
}

func TestDeploy_MalformedManifestFailsBeforeSideEffects(t *testing.T) {
	t.Parallel()
	r := &recorder{}
	gh, cp := testClients(r)

	input := Input{RawManifest: &github.File{Path: "fastly.toml", Content: "[broken", SHA: "x"}}
	_, err := Deploy(testContext(gh, cp, input))

	var parseErr *manifest.ParseError
	require.True(t, errors.As(err, &parseErr))
	assert.Empty(t, r.calls)
}

func TestDeploy_PushesManifestWithServiceID(t *testing.T) {
	t.Parallel()
	r := &recorder{}
	gh, cp := testClients(r)

	var pushed string
	var pushedFile *github.File
	gh.UpdateFileFunc = func(_ context.Context, _ string, file *github.File, content, _ string) error {
		pushedFile = file
		pushed = content
		return nil
	}

	raw := &github.File{Path: "fastly.toml", Content: testManifest, SHA: "read-sha"}
	_, err := Deploy(testContext(gh, cp, Input{RawManifest: raw}))
	require.NoError(t, err)

	assert.Contains(t, pushed, "service_id = \"SVC1\"")
	assert.Contains(t, pushed, "name = \"demo\"")
	// The update is conditioned on the SHA the manifest was read with.
	assert.Equal(t, "read-sha", pushedFile.SHA)
}

func TestDeploy_EndToEndScenario(t *testing.T) {
	t.Parallel()

	// Spec: no backends, one dictionary with a defaulted item, no
	// overrides submitted.
	spec := manifest.Spec{Dictionaries: []manifest.DictionarySpec{{
		Name:  "config",
		Items: []manifest.DictionaryItemSpec{{Key: "greeting", InputType: "string", Value: ptr.String("hello")}},
	}}}

	r := &recorder{}
	gh, cp := testClients(r)

	var domains []string
	cp.CreateDomainFunc = func(_ context.Context, _, name string) error {
		r.record("domain")
		domains = append(domains, name)
		return nil
	}
	var applied []compute.DictionaryItem
	cp.UpdateDictionaryItemsFunc = func(_ context.Context, _, _ string, items []compute.DictionaryItem) error {
		r.record("items")
		applied = items
		return nil
	}

	created, err := Deploy(testContext(gh, cp, Input{Spec: spec, ServiceName: "misty-meadow"}))
	require.NoError(t, err)

	assert.Equal(t, []string{
		"service", "domain", "backend", "dictionary", "items",
		"workflow", "secret", "manifest",
	}, r.calls)
	require.Len(t, applied, 1)
	assert.Equal(t, compute.DictionaryItem{Key: "greeting", Value: "hello"}, applied[0])
	assert.Equal(t, "SVC1", created.ID)
	assert.Equal(t, "misty-meadow.edgecompute.app", created.Domain)
	require.Len(t, domains, 1)
	assert.Equal(t, "misty-meadow.edgecompute.app", domains[0])
}

func TestDeploy_MissingInputs(t *testing.T) {
	t.Parallel()
	gh, cp := testClients(&recorder{})

	ctx := NewContext(context.Background(), gh, cp, Input{})
	ctx.Observer = NopObserver{}
	_, err := Deploy(ctx)

	var precondition *PreconditionError
	require.True(t, errors.As(err, &precondition))
}
