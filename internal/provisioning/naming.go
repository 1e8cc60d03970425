package provisioning

import (
	"fmt"
	"math/rand/v2"
)

// Slug words chosen to produce friendly, pronounceable service names.
var (
	slugAdjectives = []string{
		"amber", "bold", "brisk", "calm", "clever", "crisp", "deep",
		"eager", "fleet", "gentle", "keen", "light", "lively", "lucid",
		"merry", "misty", "noble", "quiet", "rapid", "solar", "swift",
		"tidal", "vivid", "warm",
	}
	slugNouns = []string{
		"aurora", "breeze", "brook", "canyon", "cedar", "cliff", "comet",
		"dawn", "dune", "ember", "fjord", "glade", "harbor", "lagoon",
		"meadow", "orchid", "peak", "pine", "prairie", "reef", "ridge",
		"river", "summit", "tundra",
	}
)

// NewSlug generates a two-word human-readable identifier used to name the
// service and its domain.
func NewSlug() string {
	adjective := slugAdjectives[rand.IntN(len(slugAdjectives))]
	noun := slugNouns[rand.IntN(len(slugNouns))]
	return adjective + "-" + noun
}

// ServiceName returns the display name for a service created from slug.
func ServiceName(slug string) string {
	return fmt.Sprintf("%s via quickdeploy", slug)
}

// Domain returns the fully qualified domain for a service created from
// slug.
func Domain(slug, suffix string) string {
	return fmt.Sprintf("%s.%s", slug, suffix)
}
