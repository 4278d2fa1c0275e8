// Package version exposes the release version baked into the binary.
package version

import (
	_ "embed"
)

// Version is the release string embedded from the VERSION file at build time.
//
//go:embed VERSION
var Version string

// Get reports the server release version
func Get() string {
	return Version
}
