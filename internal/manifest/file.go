package manifest

import (
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"
)

// ParseError is a service manifest that is not well-formed TOML.
type ParseError struct {
	Err error
}

func (e *ParseError) Error() string { return fmt.Sprintf("invalid manifest: %v", e.Err) }
func (e *ParseError) Unwrap() error { return e.Err }

// File is an editable service manifest. Edits are applied as line-level
// text operations against the original document so that comments, key
// order and formatting survive re-rendering untouched; only the edited
// key changes.
type File struct {
	text string
}

// Load validates that text is well-formed TOML and wraps it for editing.
func Load(text string) (*File, error) {
	var doc map[string]any
	if _, err := toml.Decode(text, &doc); err != nil {
		return nil, &ParseError{Err: err}
	}
	return &File{text: text}, nil
}

// SetServiceID overwrites the top-level service_id key, adding it when the
// manifest has none. All other bytes of the document are preserved.
func (f *File) SetServiceID(id string) {
	entry := fmt.Sprintf("service_id = %q", id)
	lines := strings.Split(f.text, "\n")

	topLevelEnd := len(lines)
	for i, line := range lines {
		trimmed := strings.TrimSpace(line)

		// Tables end the top-level key zone.
		if strings.HasPrefix(trimmed, "[") {
			topLevelEnd = i
			break
		}

		if isServiceIDLine(trimmed) {
			lines[i] = entry
			f.text = strings.Join(lines, "\n")
			return
		}
	}

	// No existing key: insert at the end of the top-level zone, above any
	// blank lines separating it from the first table.
	for topLevelEnd > 0 && strings.TrimSpace(lines[topLevelEnd-1]) == "" {
		topLevelEnd--
	}
	inserted := make([]string, 0, len(lines)+1)
	inserted = append(inserted, lines[:topLevelEnd]...)
	inserted = append(inserted, entry)
	inserted = append(inserted, lines[topLevelEnd:]...)
	f.text = strings.Join(inserted, "\n")
}

func isServiceIDLine(trimmed string) bool {
	rest, found := strings.CutPrefix(trimmed, "service_id")
	if !found {
		return false
	}
	rest = strings.TrimSpace(rest)
	return strings.HasPrefix(rest, "=")
}

// Render returns the manifest text.
func (f *File) Render() string {
	return f.text
}
