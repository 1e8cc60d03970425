package manifest

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/imamik/quickdeploy/internal/util/ptr"
)

const sampleSpec = `
[[setup.backends]]
name = "origin"
address = "origin.example.com"
port = 443
prompt = "Origin server"

[[setup.backends]]
name = "assets"
address = "assets.example.com"

[[setup.dictionaries]]
name = "config"

[[setup.dictionaries.items]]
key = "greeting"
input_type = "string"
value = "hello"

[[setup.dictionaries.items]]
key = "api_key"
input_type = "password"
prompt = "Your API key"
`

func TestParseSpec(t *testing.T) {
	t.Parallel()
	spec, err := ParseSpec(sampleSpec)
	require.NoError(t, err)

	require.Len(t, spec.Backends, 2)
	assert.Equal(t, BackendSpec{
		Name:    "origin",
		Address: "origin.example.com",
		Port:    ptr.Int(443),
		Prompt:  "Origin server",
	}, spec.Backends[0])
	assert.Nil(t, spec.Backends[1].Port)

	require.Len(t, spec.Dictionaries, 1)
	dict := spec.Dictionaries[0]
	assert.Equal(t, "config", dict.Name)
	require.Len(t, dict.Items, 2)
	assert.Equal(t, ptr.String("hello"), dict.Items[0].Value)
	assert.Nil(t, dict.Items[1].Value)
	assert.Equal(t, "password", dict.Items[1].InputType)
}

func TestParseSpec_MissingSetupIsEmptySpec(t *testing.T) {
	t.Parallel()
	for _, text := range []string{"", "# nothing here\n", "[setup]\n"} {
		spec, err := ParseSpec(text)
		require.NoError(t, err, "input %q", text)
		assert.Empty(t, spec.Backends)
		assert.Empty(t, spec.Dictionaries)
	}
}

func TestParseSpec_Malformed(t *testing.T) {
	t.Parallel()
	_, err := ParseSpec("[[setup.backends]\nname =")
	var specErr *SpecError
	require.True(t, errors.As(err, &specErr))
}

const sampleManifest = `# This file describes a package to be deployed.
authors = ["dev@example.com"]
description = "Demo app"
language = "rust"
manifest_version = 2
name = "demo-app"
service_id = ""

[scripts]
build = "cargo build --release"
`

func TestLoad_Malformed(t *testing.T) {
	t.Parallel()
	_, err := Load("name = \"demo\"\n[scripts\n")
	var parseErr *ParseError
	require.True(t, errors.As(err, &parseErr))
}

func TestSetServiceID_ChangesExactlyOneLine(t *testing.T) {
	t.Parallel()
	f, err := Load(sampleManifest)
	require.NoError(t, err)

	f.SetServiceID("SVC123")
	out := f.Render()

	inLines := strings.Split(sampleManifest, "\n")
	outLines := strings.Split(out, "\n")
	require.Equal(t, len(inLines), len(outLines))

	changed := 0
	for i := range inLines {
		if inLines[i] != outLines[i] {
			changed++
			assert.Equal(t, `service_id = "SVC123"`, outLines[i])
		}
	}
	assert.Equal(t, 1, changed)
}

func TestSetServiceID_InsertsWhenAbsent(t *testing.T) {
	t.Parallel()
	input := "name = \"demo\"\nlanguage = \"rust\"\n\n[scripts]\nbuild = \"make\"\n"
	f, err := Load(input)
	require.NoError(t, err)

	f.SetServiceID("SVC456")
	out := f.Render()

	assert.Contains(t, out, "service_id = \"SVC456\"\n")
	// Everything else survives byte-for-byte.
	assert.Equal(t, input, strings.Replace(out, "service_id = \"SVC456\"\n", "", 1))

	// The key lands in the top-level zone, not inside [scripts].
	assert.Less(t, strings.Index(out, "service_id"), strings.Index(out, "[scripts]"))

	// Result is still valid TOML.
	_, err = Load(out)
	require.NoError(t, err)
}

func TestSetServiceID_DoesNotTouchTableKeys(t *testing.T) {
	t.Parallel()
	input := "name = \"demo\"\n\n[local_server]\nservice_id = \"keepme\"\n"
	f, err := Load(input)
	require.NoError(t, err)

	f.SetServiceID("SVC789")
	out := f.Render()

	assert.Contains(t, out, "service_id = \"keepme\"")
	assert.Contains(t, out, "service_id = \"SVC789\"")
}
