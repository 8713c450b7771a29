// Package version reports what build of shoptui is running.
package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
	"strings"
	"sync"
	"time"
)

// Project constants
const (
	License     = "MIT License"
	ProjectName = "shoptui"
	// StartYear is the first year of the copyright notice.
	StartYear = 2026
)

// BuildInfo contains build-time information
type BuildInfo struct {
	Version   string
	BuildDate string
	Commit    string
	// Dirty is set when the binary was built from a modified tree.
	Dirty     bool
	GoVersion string
	OS        string
	Arch      string
}

// Set at build time via -ldflags "-X .../internal/version.version=1.2.0".
var (
	version   = "dev"
	buildDate = "unknown"
	commit    = "unknown"
)

var (
	infoOnce sync.Once
	info     *BuildInfo
)

// GetBuildInfo returns the build information. Values injected with ldflags
// win; a `go install` build falls back to the module and VCS stamps.
func GetBuildInfo() *BuildInfo {
	infoOnce.Do(func() {
		info = readBuildInfo(debug.ReadBuildInfo)
	})

	return info
}

func readBuildInfo(read func() (*debug.BuildInfo, bool)) *BuildInfo {
	b := &BuildInfo{
		Version:   version,
		BuildDate: buildDate,
		Commit:    commit,
		GoVersion: runtime.Version(),
		OS:        runtime.GOOS,
		Arch:      runtime.GOARCH,
	}

	if b.Version != "dev" {
		return b
	}

	bi, ok := read()
	if !ok {
		return b
	}

	if v := bi.Main.Version; v != "" && v != "(devel)" {
		b.Version = strings.TrimPrefix(v, "v")
	}

	for _, s := range bi.Settings {
		switch s.Key {
		case "vcs.revision":
			if b.Commit == "unknown" && len(s.Value) >= 7 {
				b.Commit = s.Value[:7]
			}
		case "vcs.time":
			if b.BuildDate == "unknown" {
				b.BuildDate = s.Value
			}
		case "vcs.modified":
			b.Dirty = s.Value == "true"
		}
	}

	return b
}

// GetVersionString returns the version as shown by --version, e.g. "v1.2.0".
func GetVersionString() string {
	return "v" + GetBuildInfo().Version
}

// IsDevBuild returns true if this is a development build
func IsDevBuild() bool {
	return version == "dev"
}

// UserAgent identifies the dashboard to the shop backend, e.g.
// "shoptui/1.2.0 (linux/amd64)".
func UserAgent() string {
	b := GetBuildInfo()
	return fmt.Sprintf("%s/%s (%s/%s)", ProjectName, b.Version, b.OS, b.Arch)
}

// String renders the build info the way `shoptui version` prints it.
func (b *BuildInfo) String() string {
	commit := b.Commit
	if b.Dirty {
		commit += "-dirty"
	}

	return fmt.Sprintf("%s version %s\nBuild date: %s\nCommit: %s\nGo version: %s\nOS/Arch: %s/%s\n",
		ProjectName, b.Version, b.BuildDate, commit, b.GoVersion, b.OS, b.Arch)
}

// About is the one-line notice shown in the help screen, e.g.
// "shoptui v1.2.0 · MIT License · © 2026".
func About(now time.Time) string {
	years := fmt.Sprint(StartYear)
	if now.Year() > StartYear {
		years = fmt.Sprintf("%d-%d", StartYear, now.Year())
	}

	return fmt.Sprintf("%s %s · %s · © %s", ProjectName, GetVersionString(), License, years)
}
