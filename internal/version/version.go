// Package version holds build metadata injected with -ldflags.
package version

import (
	"fmt"
	"runtime"
)

// Set at build time, e.g. -ldflags "-X github.com/longkey1/chatpanel/internal/version.Version=v1.0.0"
var (
	Version   = "dev"
	CommitSHA = "unknown"
	BuildTime = "unknown"
)

// Short returns the version number only.
func Short() string {
	return Version
}

// Info returns the full version description.
func Info() string {
	return fmt.Sprintf("chatpanel %s\nCommit: %s\nBuilt: %s\nGo: %s",
		Version, CommitSHA, BuildTime, runtime.Version())
}
