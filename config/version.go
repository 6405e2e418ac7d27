package config

import (
	"fmt"
	"runtime"
	"time"
)

// These are injected at build time via -ldflags
var (
	Version   string
	GitCommit string
	BuildTime string
)

func init() {
	// Local / dev fallback
	if Version == "" {
		Version = "dev"
	}
	if GitCommit == "" {
		GitCommit = "local"
	}
	if BuildTime == "" {
		BuildTime = time.Now().Format("2006-01-02 15:04:05")
	}
}

// VersionString is the one-line build description printed by `batodl version`.
func VersionString() string {
	return fmt.Sprintf("batodl %s (commit %s, built %s, %s/%s)",
		Version, GitCommit, BuildTime, runtime.GOOS, runtime.GOARCH)
}
