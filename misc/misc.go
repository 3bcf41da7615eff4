// Package misc holds small cross-cutting helpers with no better home.
package misc

import (
	"runtime/debug"
)

const appName = "hdc"

// Build metadata, overridable at link time.
var (
	version = "dev"
	gitHash = ""
)

// GetAppName returns the short program name used in logs and file names.
func GetAppName() string {
	return appName
}

// GetVersion returns the program version set at build time, falling back to
// module build info.
func GetVersion() string {
	if version != "dev" {
		return version
	}
	if bi, ok := debug.ReadBuildInfo(); ok && bi.Main.Version != "" && bi.Main.Version != "(devel)" {
		return bi.Main.Version
	}
	return version
}

// GetGitHash returns the vcs revision when available.
func GetGitHash() string {
	if gitHash != "" {
		return gitHash
	}
	if bi, ok := debug.ReadBuildInfo(); ok {
		for _, s := range bi.Settings {
			if s.Key == "vcs.revision" {
				return s.Value
			}
		}
	}
	return "unknown"
}
