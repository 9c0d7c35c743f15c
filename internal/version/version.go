// Package version holds build metadata set via ldflags:
//
//	go build -ldflags "-X github.com/podabio/podabio/internal/version.Version=1.2.0"
package version

import (
	"fmt"
	"runtime"
)

// Build-time variables.
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildDate = "unknown"
)

// Short returns the version number alone.
func Short() string {
	return Version
}

// String returns a one-line version summary.
func String() string {
	return fmt.Sprintf("podabio %s (commit %s, built %s, %s/%s)",
		Version, commitShort(), BuildDate, runtime.GOOS, runtime.GOARCH)
}

// Map returns the build metadata for JSON responses.
func Map() map[string]string {
	return map[string]string{
		"version":    Version,
		"commit":     Commit,
		"build_date": BuildDate,
		"go_version": runtime.Version(),
	}
}

func commitShort() string {
	if len(Commit) >= 7 {
		return Commit[:7]
	}
	return Commit
}
