// Package version holds build metadata stamped in with -ldflags, e.g.
//
//	go build -ldflags "-X raster-points/internal/version.Version=1.2.0 -X raster-points/internal/version.GitCommit=$(git rev-parse --short HEAD)"
package version

import "fmt"

// These variables are set at build time using -ldflags
var (
	// Version is the semantic version
	Version = "0.1.0"

	// BuildTime is the UTC time when the binary was built
	BuildTime = "unknown"

	// GitCommit is the git commit hash
	GitCommit = "unknown"
)

// String formats the version line printed by a command's -version flag.
func String(command string) string {
	return fmt.Sprintf("%s %s (%s, built %s)", command, Version, GitCommit, BuildTime)
}
