// Package version carries the build identity of the retexturing studio,
// injected via -ldflags at release time.
package version

import "fmt"

var (
	// Version is the semantic version of the studio.
	Version = "0.1.0"

	// BuildTime is the UTC time the binary was built.
	BuildTime = "unknown"

	// GitCommit is the git commit hash the binary was built from.
	GitCommit = "unknown"
)

// String formats the full build identity for logs and the status bar.
func String() string {
	return fmt.Sprintf("%s (commit %s, built %s)", Version, GitCommit, BuildTime)
}
