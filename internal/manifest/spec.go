// Package manifest handles the two TOML documents involved in a deploy:
// the declarative deploy configuration spec shipped by the template
// repository and the service manifest whose service_id gets rewritten.
package manifest

import (
	"fmt"

	"github.com/BurntSushi/toml"
)

// SpecError is a malformed deploy configuration document.
type SpecError struct {
	Err error
}

func (e *SpecError) Error() string { return fmt.Sprintf("invalid deploy spec: %v", e.Err) }
func (e *SpecError) Unwrap() error { return e.Err }

// BackendSpec declares a backend the service needs. Port defaults to 80
// when unset; Prompt is display text for the wizard form.
type BackendSpec struct {
	Name    string `toml:"name"`
	Address string `toml:"address"`
	Port    *int   `toml:"port"`
	Prompt  string `toml:"prompt"`
}

// DictionaryItemSpec declares one dictionary key. Value, when present, is
// the default used if the user supplies no override.
type DictionaryItemSpec struct {
	Key       string  `toml:"key"`
	InputType string  `toml:"input_type"`
	Prompt    string  `toml:"prompt"`
	Value     *string `toml:"value"`
}

// DictionarySpec declares an edge dictionary and its items.
type DictionarySpec struct {
	Name  string               `toml:"name"`
	Items []DictionaryItemSpec `toml:"items"`
}

// Spec is the parsed deploy configuration. The zero value (no backends, no
// dictionaries) is a valid spec.
type Spec struct {
	Backends     []BackendSpec    `toml:"backends"`
	Dictionaries []DictionarySpec `toml:"dictionaries"`
}

type specDocument struct {
	Setup *Spec `toml:"setup"`
}

// ParseSpec parses a deploy configuration document. A missing or empty
// [setup] table is the declared default: a spec with zero backends and
// zero dictionaries.
func ParseSpec(text string) (Spec, error) {
	var doc specDocument
	if _, err := toml.Decode(text, &doc); err != nil {
		return Spec{}, &SpecError{Err: err}
	}
	if doc.Setup == nil {
		return Spec{}, nil
	}
	return *doc.Setup, nil
}
