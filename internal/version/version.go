// Package version holds the single source of truth for the FileMaster version.
package version

// Version is the current FileMaster version.
// Overridden at release time via -ldflags "-X .../internal/version.Version=...".
var Version = "v2.1.0-dev"

// BuildTime is the build timestamp, injected via ldflags for releases.
var BuildTime = "unknown"
