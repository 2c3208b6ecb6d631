// Package version reports what build of webos3d is running.
package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
	"strings"
	"sync"
)

// Set at release time:
//
//	go build -ldflags="-X github.com/muurk/webos3d/internal/version.Version=v1.2.3 \
//	                   -X github.com/muurk/webos3d/internal/version.Commit=abc1234"
//
// Builds made with 'go install ...@vX' or from a git checkout fill in the
// gaps from the embedded build info.
var (
	Version = ""
	Commit  = ""
)

// Info describes one build
type Info struct {
	Version   string // release tag, module version, or "dev"
	Commit    string // short VCS revision, or "unknown"
	Built     string // VCS commit time (RFC 3339), if known
	Dirty     bool   // built from a modified working tree
	GoVersion string
}

var (
	once sync.Once
	info Info
)

// Get returns the build information, resolving it on first use.
func Get() Info {
	once.Do(func() {
		bi, _ := debug.ReadBuildInfo()
		info = resolve(Version, Commit, bi)
	})
	return info
}

// resolve merges ldflags values with the embedded build info. ldflags win.
func resolve(version, commit string, bi *debug.BuildInfo) Info {
	i := Info{Version: version, Commit: commit, GoVersion: runtime.Version()}

	if bi != nil {
		if i.Version == "" && bi.Main.Version != "" && bi.Main.Version != "(devel)" {
			i.Version = bi.Main.Version
		}
		for _, s := range bi.Settings {
			switch s.Key {
			case "vcs.revision":
				if i.Commit == "" {
					i.Commit = s.Value
				}
			case "vcs.time":
				i.Built = s.Value
			case "vcs.modified":
				i.Dirty = s.Value == "true"
			}
		}
		if bi.GoVersion != "" {
			i.GoVersion = bi.GoVersion
		}
	}

	if len(i.Commit) > 7 {
		i.Commit = i.Commit[:7]
	}
	if i.Version == "" {
		i.Version = "dev"
	}
	if i.Commit == "" {
		i.Commit = "unknown"
	}
	return i
}

// String renders the info for 'webos3d version'.
func (i Info) String() string {
	commit := i.Commit
	if i.Dirty {
		commit += "-dirty"
	}
	parts := []string{"commit " + commit}
	if i.Built != "" {
		parts = append(parts, "built "+i.Built)
	}
	parts = append(parts, i.GoVersion)
	return fmt.Sprintf("%s (%s)", i.Version, strings.Join(parts, ", "))
}
