// Package misc keeps build time information.
package misc

import (
	"runtime/debug"
)

const appName = "symconv"

var (
	version = "dev"
	// set by linker
	gitHash = ""
)

// GetAppName returns the short program name used for logs and report files.
func GetAppName() string {
	return appName
}

// GetVersion returns program version.
func GetVersion() string {
	return version
}

// GetGitHash returns VCS revision program was built from, if known.
func GetGitHash() string {
	if len(gitHash) > 0 {
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

