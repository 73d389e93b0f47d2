// Package version holds build-time metadata injected via -ldflags.
// When a field is not set, helpers fall back to development defaults.
package version

import "runtime"

var (
	// Version is a SemVer tag like v1.2.3 for releases. Empty for dev builds.
	Version = ""
	// Commit is the short git SHA for the build.
	Commit = ""
	// Date is the UTC build timestamp in RFC3339 format.
	Date = ""
	// Dirty is "dirty" when the working tree had uncommitted changes, otherwise "clean".
	Dirty = ""
)

// Info is the JSON body served by GET /version.
type Info struct {
	Version string `json:"version"`
	Commit  string `json:"commit,omitempty"`
	Date    string `json:"date,omitempty"`
	Dirty   bool   `json:"dirty"`
	Go      string `json:"go"`
}

// String returns a compact human-readable version. Releases return Version;
// dev builds return "dev-<sha>" ("dev-<sha>*" when dirty) or plain "dev".
func String() string {
	if Version != "" {
		return Version
	}
	if Commit != "" {
		suffix := Commit
		if Dirty == "dirty" {
			suffix += "*"
		}
		return "dev-" + suffix
	}
	return "dev"
}

// Current snapshots the build metadata.
func Current() Info {
	return Info{
		Version: String(),
		Commit:  Commit,
		Date:    Date,
		Dirty:   Dirty == "dirty",
		Go:      runtime.Version(),
	}
}
