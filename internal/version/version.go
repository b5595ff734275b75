package version

import (
	"fmt"
	"runtime"
)

const (
	Major    = 0
	Minor    = 1
	Patch    = 0
	RepoName = "yukid"
)

var (
	BuildTime = "unknown"
	GitCommit = "unknown"
	GitBranch = "unknown"
)

func Version() string {
	return fmt.Sprintf("v%d.%d.%d", Major, Minor, Patch)
}

func FullVersion() string {
	return fmt.Sprintf("%s (commit: %s, branch: %s, built: %s, go: %s)",
		Version(), GitCommit, GitBranch, BuildTime, runtime.Version())
}

func Short() string {
	return fmt.Sprintf("%d.%d.%d", Major, Minor, Patch)
}
