// Package misc keeps build time values shared by the whole program.
package misc

import "runtime/debug"

// Set with -ldflags "-X pxrem/misc.version=... -X pxrem/misc.gitHash=...".
var (
	appName = "pxrem"
	version = "dev"
	gitHash = ""
)

func GetAppName() string {
	return appName
}

func GetVersion() string {
	return version
}

// GetGitHash returns commit hash of the build, falling back to vcs
// information embedded by the toolchain.
func GetGitHash() string {
	if len(gitHash) > 0 {
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
