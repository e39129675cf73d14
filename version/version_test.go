package version

import (
	"runtime/debug"
	"testing"
)

func stubBuildInfo(t *testing.T, bi *debug.BuildInfo) {
	t.Helper()
	origRead, origVersion, origCommit, origTime := readBuildInfo, Version, Commit, BuildTime
	t.Cleanup(func() {
		readBuildInfo, Version, Commit, BuildTime = origRead, origVersion, origCommit, origTime
	})
	readBuildInfo = func() (*debug.BuildInfo, bool) { return bi, bi != nil }
}

func TestGetFromBuildInfo(t *testing.T) {
	stubBuildInfo(t, &debug.BuildInfo{
		GoVersion: "go1.26.0",
		Main:      debug.Module{Version: "v1.4.0"},
		Settings: []debug.BuildSetting{
			{Key: "vcs.revision", Value: "abc1234def5678"},
			{Key: "vcs.time", Value: "2026-01-15T10:30:00Z"},
			{Key: "vcs.modified", Value: "true"},
		},
	})
	Version, Commit, BuildTime = "dev", "", ""

	info := Get()
	want := Info{Version: "1.4.0", Commit: "abc1234", BuildTime: "2026-01-15T10:30:00Z", GoVersion: "go1.26.0", Dirty: true}
	if info != want {
		t.Errorf("Get() = %+v, want %+v", info, want)
	}
	if got := info.String(); got != "1.4.0 (abc1234, dirty)" {
		t.Errorf("String() = %q", got)
	}
}

func TestLinkerValuesWin(t *testing.T) {
	stubBuildInfo(t, &debug.BuildInfo{
		Main:     debug.Module{Version: "(devel)"},
		Settings: []debug.BuildSetting{{Key: "vcs.revision", Value: "ffffffffff"}},
	})
	Version, Commit, BuildTime = "2.0.0", "1234567", "2026-02-01T00:00:00Z"

	info := Get()
	if info.Version != "2.0.0" || info.Commit != "1234567" || info.BuildTime != "2026-02-01T00:00:00Z" {
		t.Errorf("Get() = %+v", info)
	}
	if got := info.String(); got != "2.0.0 (1234567)" {
		t.Errorf("String() = %q", got)
	}
}

func TestNoBuildInfo(t *testing.T) {
	stubBuildInfo(t, nil)
	Version, Commit, BuildTime = "dev", "", ""

	info := Get()
	if info.Version != "dev" || info.GoVersion != "" || info.String() != "dev" {
		t.Errorf("Get() = %+v", info)
	}
}
