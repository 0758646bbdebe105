// Package version holds build metadata injected with -ldflags -X.
package version

var (
	Version = "dev"
	Commit  = "unknown"
	Date    = "unknown"
)

// String formats the build metadata for --version.
func String() string {
	return Version + " (commit: " + Commit + ", built: " + Date + ")"
}
