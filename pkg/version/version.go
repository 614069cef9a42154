// Package version reports the strbench build: the release set through
// ldflags, falling back to the VCS stamp Go embeds in the binary.
package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
)

// Version is the strbench release. Set at build time with
// -X github.com/Aman-CERP/strbench/pkg/version.Version=$(VERSION)
var Version = "dev"

// Commit and Date are set the same way. When empty they are read from the
// vcs.revision and vcs.time build settings.
var (
	Commit = ""
	Date   = ""
)

// unknown is reported for any field neither ldflags nor VCS provide.
const unknown = "unknown"

// shortCommitLen is how much of the commit hash String prints.
const shortCommitLen = 7

// readBuildInfo is replaced in tests.
var readBuildInfo = debug.ReadBuildInfo

// BuildInfo is the JSON shape of `strbench version --json`.
type BuildInfo struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	Date      string `json:"date"`
	Modified  bool   `json:"modified,omitempty"`
	GoVersion string `json:"go_version"`
	OS        string `json:"os"`
	Arch      string `json:"arch"`
}

// GetInfo collects the build information.
func GetInfo() BuildInfo {
	info := BuildInfo{
		Version:   Version,
		Commit:    Commit,
		Date:      Date,
		GoVersion: runtime.Version(),
		OS:        runtime.GOOS,
		Arch:      runtime.GOARCH,
	}

	if bi, ok := readBuildInfo(); ok {
		for _, s := range bi.Settings {
			switch s.Key {
			case "vcs.revision":
				if info.Commit == "" {
					info.Commit = s.Value
				}
			case "vcs.time":
				if info.Date == "" {
					info.Date = s.Value
				}
			case "vcs.modified":
				info.Modified = s.Value == "true"
			}
		}
	}

	if info.Version == "" {
		info.Version = "dev"
	}
	if info.Commit == "" {
		info.Commit = unknown
	}
	if info.Date == "" {
		info.Date = unknown
	}
	return info
}

// Short returns the version alone, as printed by --short.
func Short() string {
	return GetInfo().Version
}

// String returns a one-line description such as
// "strbench 1.2.0 (commit 3f2a9c1, built 2026-01-02T15:04:05Z, go1.25.0 linux/amd64)".
func String() string {
	info := GetInfo()

	commit := info.Commit
	if len(commit) > shortCommitLen && commit != unknown {
		commit = commit[:shortCommitLen]
	}
	if info.Modified {
		commit += "-dirty"
	}

	return fmt.Sprintf("strbench %s (commit %s, built %s, %s %s/%s)",
		info.Version, commit, info.Date, info.GoVersion, info.OS, info.Arch)
}
