// Package version holds the application version string.
package version

// Version is the application version, set at build time via -ldflags.
var Version = "dev"
