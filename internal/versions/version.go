// Package versions provides build version information for lakecat.
package versions

import (
	"fmt"
	"runtime"
	"runtime/debug"
	"time"
)

const unknownStr = "unknown"

// Version information set by the build using -ldflags.
var (
	// Version is the current lakecat version.
	Version = "dev"
	// Commit is the git commit hash of the build.
	Commit = unknownStr
	// BuildDate is the date when the binary was built.
	BuildDate = unknownStr
)

// VersionInfo represents the version information.
type VersionInfo struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	BuildDate string `json:"build_date"`
	GoVersion string `json:"go_version"`
	Platform  string `json:"platform"`
}

// GetVersionInfo returns the version information.
func GetVersionInfo() VersionInfo {
	ver := Version
	commit := Commit
	buildDate := BuildDate

	if ver == "dev" {
		if info, ok := debug.ReadBuildInfo(); ok {
			for _, setting := range info.Settings {
				switch setting.Key {
				case "vcs.revision":
					if commit == unknownStr {
						commit = setting.Value
					}
				case "vcs.time":
					if buildDate == unknownStr {
						buildDate = setting.Value
					}
				}
			}
		}
		if commit != unknownStr {
			ver = fmt.Sprintf("build-%.8s", commit)
		}
	}

	if buildDate != unknownStr {
		if t, err := time.Parse(time.RFC3339, buildDate); err == nil {
			buildDate = t.Format("2006-01-02 15:04:05 MST")
		}
	}

	return VersionInfo{
		Version:   ver,
		Commit:    commit,
		BuildDate: buildDate,
		GoVersion: runtime.Version(),
		Platform:  fmt.Sprintf("%s/%s", runtime.GOOS, runtime.GOARCH),
	}
}
