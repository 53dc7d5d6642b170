package cli

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/matzehuels/linkgraph/pkg/layout"
	"github.com/matzehuels/linkgraph/pkg/pipeline"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(p, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return p
}

func TestLoadConfig(t *testing.T) {
	p := writeConfig(t, `
[build]
max_depth = 2
ignore_dirs = ["archive"]

[layout]
algorithm = "hierarchical"
direction = "LR"

[watch]
debounce = "1s"
`)
	cfg, err := LoadConfig(p)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Build.MaxDepth != 2 || cfg.Build.MaxNodes != pipeline.DefaultMaxNodes {
		t.Errorf("build = %+v", cfg.Build)
	}
	if len(cfg.Build.IgnoreDirs) != 1 || cfg.Build.IgnoreDirs[0] != "archive" {
		t.Errorf("ignore dirs = %v", cfg.Build.IgnoreDirs)
	}
	if cfg.Layout.Algorithm != "hierarchical" || cfg.Layout.Direction != layout.LeftRight {
		t.Errorf("layout = %+v", cfg.Layout)
	}
	if cfg.Watch.Debounce != time.Second {
		t.Errorf("debounce = %v", cfg.Watch.Debounce)
	}
	if cfg.Server.Addr != defaultServerAddr {
		t.Errorf("addr = %q, want default", cfg.Server.Addr)
	}
}

func TestLoadConfigErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"unknown key", "[build]\nmax_dept = 2\n", "unknown keys"},
		{"bad direction", "[layout]\ndirection = \"RL\"\n", "TB or LR"},
		{"negative depth", "[build]\nmax_depth = -1\n", "negative"},
		{"syntax", "[build\n", "load config"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadConfig(writeConfig(t, tt.body))
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("err = %v, want %q", err, tt.want)
			}
		})
	}
}

func TestLoadConfigMissing(t *testing.T) {
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "nope.toml")); err == nil {
		t.Error("missing explicit config should fail")
	}

	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	cfg, err := LoadConfig("")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Build.MaxDepth != pipeline.DefaultMaxDepth || cfg.Watch.Debounce != defaultDebounce {
		t.Errorf("cfg = %+v, want defaults", cfg)
	}
}

func TestConfigPathXDG(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/xdg")
	p, err := configPath()
	if err != nil {
		t.Fatal(err)
	}
	if want := filepath.Join("/xdg", "linkgraph", "config.toml"); p != want {
		t.Errorf("configPath() = %q, want %q", p, want)
	}
}
