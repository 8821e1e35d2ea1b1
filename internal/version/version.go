// Package version holds build metadata injected at link time.
package version

var (
	// Version is the application version, set via -ldflags.
	Version = "dev"
	// BuildTime is the build timestamp, set via -ldflags.
	BuildTime = "unknown"
	// GitCommit is the source revision, set via -ldflags.
	GitCommit = "unknown"
)
