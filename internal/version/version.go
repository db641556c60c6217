// Package version holds the jimpact version string.
package version

// Version is the current jimpact version, overridable at build time via
// -ldflags "-X jimpact/internal/version.Version=...".
var Version = "0.3.0"
