// Package version contains the tool's version. The Version variable is
// set at build time with -ldflags.
package version

// Version is this tool's version.
var Version = "v0.1.0-dev"
