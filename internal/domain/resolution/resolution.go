// Package resolution defines the embedding resolutions supported by the
// matryoshka vector schema: multiple vectors of different dimensionality
// derived from the same content, trading latency against ranking fidelity.
package resolution

import "fmt"

// Resolution selects which embedding vector a search runs against.
type Resolution string

// Supported resolutions.
const (
	// Fast is the high-volume guest chat default.
	Fast     Resolution = "fast"
	Balanced Resolution = "balanced"
	// Full is used by admin and diagnostic tooling.
	Full Resolution = "full"
)

// Dimensions returns the vector size for the resolution, 0 if unknown.
func (r Resolution) Dimensions() int {
	switch r {
	case Fast:
		return 1024
	case Balanced:
		return 1536
	case Full:
		return 3072
	}
	return 0
}

// VectorField returns the index field holding the vector at this resolution.
func (r Resolution) VectorField() string {
	return "embedding_" + string(r)
}

// IsValid checks if the resolution is one of the supported values.
func (r Resolution) IsValid() bool {
	return r == Fast || r == Balanced || r == Full
}

// Parse validates a string as a Resolution.
func Parse(s string) (Resolution, error) {
	r := Resolution(s)
	if !r.IsValid() {
		return "", fmt.Errorf("unknown resolution %q", s)
	}
	return r, nil
}
