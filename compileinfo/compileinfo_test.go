package compileinfo

import (
	"runtime/debug"
	"strings"
	"testing"
)

func TestFromBuildInfo(t *testing.T) {
	info := fromBuildInfo(&debug.BuildInfo{
		GoVersion: "go1.18",
		Path:      "github.com/carbocation/tank/cmd/tank",
		Main:      debug.Module{Version: "(devel)"},
		Settings: []debug.BuildSetting{
			{Key: "vcs.revision", Value: "abc123"},
			{Key: "vcs.time", Value: "2022-06-01T00:00:00Z"},
			{Key: "vcs.modified", Value: "true"},
		},
	}, true)

	if info.Commit != "abc123" || !info.Modified || info.Version != "(devel)" {
		t.Fatalf("unexpected compile info %+v", info)
	}
	if s := info.String(); !strings.Contains(s, "abc123") || !strings.Contains(s, "modified") {
		t.Fatalf("unexpected description %q", s)
	}

	if s := fromBuildInfo(nil, false).String(); !strings.Contains(s, "unavailable") {
		t.Fatalf("unexpected description %q", s)
	}
}
