// Copyright (c) 2026 Keymaster Team
// Trustkeep - local trust-list storage
// This source code is licensed under the MIT license found in the LICENSE file.

// Package buildvars contains variables injected at build time.
package buildvars

import "runtime/debug"

const modulePath = "github.com/toeirei/trustkeep"

// Set at link time via
// `-ldflags "-X github.com/toeirei/trustkeep/buildvars.Version=..."`.
// Empty for local or development builds.
var (
	Version   string
	Commit    string
	BuildDate string
)

// VersionOrDefault returns `Version` if set, otherwise returns the provided default.
func VersionOrDefault(def string) string {
	if len(Version) > 0 {
		return Version
	}
	return def
}

// Resolve combines the link-time variables with module build info. Link-time
// values win; info fills the gaps. A nil info reads the running binary's.
func Resolve(info *debug.BuildInfo) (version, commit, date string) {
	version, commit, date = VersionOrDefault("dev"), Commit, BuildDate

	if info == nil {
		var ok bool
		if info, ok = debug.ReadBuildInfo(); !ok {
			return version, commit, date
		}
	}

	if version == "dev" {
		if info.Main.Version != "" && info.Main.Version != "(devel)" {
			version = info.Main.Version
		} else {
			for _, dep := range info.Deps {
				if dep.Path == modulePath && dep.Version != "" {
					version = dep.Version
					break
				}
			}
		}
	}
	for _, s := range info.Settings {
		switch s.Key {
		case "vcs.revision":
			if commit == "" {
				commit = s.Value
			}
		case "vcs.time":
			if date == "" {
				date = s.Value
			}
		}
	}
	return version, commit, date
}

// String renders "version (commit) built: date", omitting empty parts.
func String(info *debug.BuildInfo) string {
	v, c, d := Resolve(info)
	if c != "" {
		v += " (" + c + ")"
	}
	if d != "" {
		v += " built: " + d
	}
	return v
}
