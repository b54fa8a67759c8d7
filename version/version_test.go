package version

import (
	"runtime/debug"
	"strings"
	"testing"
)

func TestFromBuildInfo(t *testing.T) {
	tests := []struct {
		name    string
		start   Info
		bi      debug.BuildInfo
		want    Info
		release bool
	}{
		{
			name:  "vcs stamps fill gaps",
			start: Info{Version: "dev"},
			bi: debug.BuildInfo{
				Main: debug.Module{Path: "github.com/kbukum/streamkit", Version: "(devel)"},
				Settings: []debug.BuildSetting{
					{Key: "vcs.revision", Value: "0123456789abcdef"},
					{Key: "vcs.time", Value: "2026-10-01T12:00:00Z"},
					{Key: "vcs.modified", Value: "true"},
				},
			},
			want: Info{Version: "dev", GitCommit: "0123456", BuildTime: "2026-10-01T12:00:00Z", Dirty: true,
				Module: "github.com/kbukum/streamkit"},
		},
		{
			name:  "ldflags win",
			start: Info{Version: "1.2.0", GitCommit: "abc1234", BuildTime: "yesterday"},
			bi: debug.BuildInfo{
				Main:     debug.Module{Path: "github.com/kbukum/streamkit", Version: "v1.1.0"},
				Settings: []debug.BuildSetting{{Key: "vcs.revision", Value: "ffffffffff"}},
			},
			want: Info{Version: "1.2.0", GitCommit: "abc1234", BuildTime: "yesterday",
				Module: "github.com/kbukum/streamkit"},
			release: true,
		},
		{
			name:    "module version used for dev builds",
			start:   Info{Version: "dev"},
			bi:      debug.BuildInfo{Main: debug.Module{Path: "m", Version: "v0.3.0"}},
			want:    Info{Version: "v0.3.0", Module: "m"},
			release: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info := tt.start
			fromBuildInfo(&info, &tt.bi)
			if info != tt.want {
				t.Fatalf("got %+v, want %+v", info, tt.want)
			}
			if info.IsRelease() != tt.release {
				t.Fatalf("IsRelease() = %v, want %v", info.IsRelease(), tt.release)
			}
		})
	}
}

func TestShortAndString(t *testing.T) {
	info := Info{Version: "1.0.0", GitCommit: "abc1234", Dirty: true, GoVersion: "go1.26.0", Platform: "linux/amd64"}
	if got := info.Short(); got != "1.0.0-abc1234-dirty" {
		t.Errorf("Short() = %q", got)
	}
	if got := info.String(); !strings.HasPrefix(got, "streamkit 1.0.0-abc1234-dirty (go1.26.0, linux/amd64)") {
		t.Errorf("String() = %q", got)
	}
	if got := (Info{Version: "dev"}).Short(); got != "dev" {
		t.Errorf("Short() = %q", got)
	}
}

func TestGet(t *testing.T) {
	orig := Version
	defer func() { Version = orig }()
	Version = "9.9.9"

	info := Get()
	if info.Version != "9.9.9" {
		t.Errorf("expected ldflags version, got %q", info.Version)
	}
	if info.GoVersion == "" || info.Platform == "" {
		t.Errorf("expected toolchain fields, got %+v", info)
	}
}
