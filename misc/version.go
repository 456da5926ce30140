// Package misc holds build stamps.
package misc

import (
	"runtime/debug"
)

// Set with -ldflags "-X wscss/misc.version=... -X wscss/misc.gitHash=...".
var (
	appName = "wscss"
	version = "dev"
	gitHash = ""
)

func GetAppName() string {
	return appName
}

func GetVersion() string {
	return version
}

// GetGitHash returns the stamped commit, falling back to the VCS revision
// recorded by the go tool.
func GetGitHash() string {
	if gitHash != "" {
		return gitHash
	}
	if info, ok := debug.ReadBuildInfo(); ok {
		for _, s := range info.Settings {
			if s.Key == "vcs.revision" {
				return s.Value
			}
		}
	}
	return "unknown"
}
