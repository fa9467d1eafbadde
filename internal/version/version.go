// Package version exposes build metadata stamped in by the release
// pipeline via -ldflags.
package version

//nolint:revive // Overwritten by -X flags at build time.
var (
	Version = "dev"
	Commit  = "unknown"
	Date    = "unknown"
)

// String renders the build identity for startup logs: "dev (unknown)" in
// local builds, "v1.4.2 (3fa9c01)" in released ones.
func String() string {
	return Version + " (" + Commit + ")"
}
