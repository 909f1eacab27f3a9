// Package buildinfo reports which pinout build is running.
//
// Release builds stamp the variables with the linker:
//
//	go build -ldflags "-X github.com/matzehuels/pinout/pkg/buildinfo.Version=v1.0.0 \
//	    -X github.com/matzehuels/pinout/pkg/buildinfo.Commit=$(git rev-parse HEAD) \
//	    -X github.com/matzehuels/pinout/pkg/buildinfo.Date=$(date -u +%Y-%m-%dT%H:%M:%SZ)"
//
// Builds from `go install` leave them unset and fall back to the module
// version and VCS stamp the toolchain embeds.
package buildinfo

import (
	"fmt"
	"runtime"
	"runtime/debug"
)

// Linker-stamped values. Empty Commit and Date mean unknown.
var (
	Version = "dev"
	Commit  = ""
	Date    = ""
)

// Info is the build as reported by `pinout --version` and GET /healthz.
type Info struct {
	Version  string `json:"version"`
	Commit   string `json:"commit,omitempty"`
	Date     string `json:"date,omitempty"`
	Modified bool   `json:"modified,omitempty"`
	Go       string `json:"go"`
}

// Get merges the stamped values with the embedded build info.
func Get() Info {
	bi, _ := debug.ReadBuildInfo()
	return resolve(bi)
}

func resolve(bi *debug.BuildInfo) Info {
	info := Info{Version: Version, Commit: Commit, Date: Date, Go: runtime.Version()}
	if bi == nil {
		return info
	}
	if v := bi.Main.Version; info.Version == "dev" && v != "" && v != "(devel)" {
		info.Version = v
	}
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
	return info
}

// Revision is the short commit, marked "-dirty" for modified trees.
func (i Info) Revision() string {
	rev := i.Commit
	if len(rev) > 12 {
		rev = rev[:12]
	}
	if rev == "" {
		rev = "unknown"
	}
	if i.Modified {
		rev += "-dirty"
	}
	return rev
}

// Template is the cobra version template.
func Template() string {
	i := Get()
	date := i.Date
	if date == "" {
		date = "unknown"
	}
	return fmt.Sprintf("{{.Name}} %s (%s, built %s, %s)\n", i.Version, i.Revision(), date, i.Go)
}
