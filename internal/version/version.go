// Package version holds build-time metadata injected via ldflags.
package version

import "fmt"

// Set at build time:
//
//	-X 'github.com/janekbaraniewski/pacewatch/internal/version.Version=...'
//	-X 'github.com/janekbaraniewski/pacewatch/internal/version.CommitHash=...'
//	-X 'github.com/janekbaraniewski/pacewatch/internal/version.BuildDate=...'
var (
	Version    = "dev"
	CommitHash = "unknown"
	BuildDate  = "unknown"
)

func String() string {
	return fmt.Sprintf("%s (%s) built %s", Version, CommitHash, BuildDate)
}
