// Package version carries build identification, overridable at link time.
package version

import "fmt"

var (
	// Version is the semantic version, set via -ldflags.
	Version = "0.1.0-dev"
	// Commit is the VCS revision the binary was built from.
	Commit = "unknown"
)

// String returns the human-readable version line.
func String() string {
	return fmt.Sprintf("nesgo %s (%s)", Version, Commit)
}
