// Package version reports which build of tabula is running.
package version

import "runtime/debug"

// Version is set with -ldflags for release builds.
var Version string

// GetVersion returns [Version]. Builds without it report the module version
// for go install builds, or the VCS revision for local ones.
func GetVersion() string {
	if Version != "" {
		return Version
	}

	info, ok := debug.ReadBuildInfo()
	if !ok {
		return "unknown"
	}

	if v := info.Main.Version; v != "" && v != "(devel)" {
		return v
	}

	return revision(info.Settings)
}

func revision(settings []debug.BuildSetting) string {
	var rev, modified string
	for _, s := range settings {
		switch s.Key {
		case "vcs.revision":
			rev = s.Value[:min(len(s.Value), 7)]
		case "vcs.modified":
			modified = s.Value
		}
	}

	if rev == "" {
		return "unknown"
	}
	if modified == "true" {
		rev += "-dirty"
	}

	return rev
}
