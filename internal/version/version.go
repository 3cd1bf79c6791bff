// Package version holds build metadata injected at link time.
package version

import "fmt"

// Version is the release of autobuilder, set with
// -ldflags "-X git.home.luguber.info/inful/autobuilder/internal/version.Version=v1.0.0".
var Version = "unknown"

// Build metadata, set the same way as Version.
var (
	BuildTime = "unknown"
	GitCommit = "unknown"
)

// String renders the version line printed by --version.
func String() string {
	return fmt.Sprintf("autobuilder %s (commit %s, built %s)", Version, GitCommit, BuildTime)
}
