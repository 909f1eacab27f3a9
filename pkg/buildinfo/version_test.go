package buildinfo

import (
	"runtime/debug"
	"strings"
	"testing"
)

func TestResolveStamped(t *testing.T) {
	defer func(v, c, d string) { Version, Commit, Date = v, c, d }(Version, Commit, Date)
	Version, Commit, Date = "v1.2.0", "0123456789abcdef0123", "2026-01-02T03:04:05Z"

	info := resolve(&debug.BuildInfo{
		Main:     debug.Module{Version: "v0.9.0"},
		Settings: []debug.BuildSetting{{Key: "vcs.revision", Value: "ffff"}},
	})
	if info.Version != "v1.2.0" || info.Commit != "0123456789abcdef0123" {
		t.Errorf("stamped values overridden: %+v", info)
	}
	if got := info.Revision(); got != "0123456789ab" {
		t.Errorf("Revision() = %q", got)
	}
}

func TestResolveFromBuildInfo(t *testing.T) {
	defer func(v, c, d string) { Version, Commit, Date = v, c, d }(Version, Commit, Date)
	Version, Commit, Date = "dev", "", ""

	info := resolve(&debug.BuildInfo{
		Main: debug.Module{Version: "v0.3.1"},
		Settings: []debug.BuildSetting{
			{Key: "vcs.revision", Value: "abc123"},
			{Key: "vcs.time", Value: "2026-05-01T00:00:00Z"},
			{Key: "vcs.modified", Value: "true"},
		},
	})
	if info.Version != "v0.3.1" || info.Date != "2026-05-01T00:00:00Z" {
		t.Errorf("info = %+v", info)
	}
	if got := info.Revision(); got != "abc123-dirty" {
		t.Errorf("Revision() = %q", got)
	}

	if info := resolve(&debug.BuildInfo{Main: debug.Module{Version: "(devel)"}}); info.Version != "dev" {
		t.Errorf("(devel) should keep %q, got %q", "dev", info.Version)
	}
	if info := resolve(nil); info.Revision() != "unknown" || info.Go == "" {
		t.Errorf("resolve(nil) = %+v", info)
	}
}

func TestTemplate(t *testing.T) {
	if tmpl := Template(); !strings.HasPrefix(tmpl, "{{.Name}} ") || !strings.HasSuffix(tmpl, ")\n") {
		t.Errorf("Template() = %q", tmpl)
	}
}
