package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "depscope.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad_FullConfig(t *testing.T) {
	path := writeConfig(t, `
roots = ["./src", "./lib"]

[exclude]
dirs = ["vendor"]
files = ["*.min.js"]

[resolver]
extensions = [".ts", ".js"]

[entry_points]
stems = ["index"]

[analysis]
skip_type_only_exports = true

[history]
path = "/tmp/depscope.db"

[observability]
addr = "0.0.0.0:9999"
otlp_endpoint = "localhost:4317"

[performance]
concurrency = 4
rate_limit = 200.0
rate_burst = 16
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if len(cfg.Roots) != 2 || cfg.Roots[0] != "./src" {
		t.Errorf("unexpected roots: %v", cfg.Roots)
	}
	if len(cfg.Exclude.Dirs) != 1 || cfg.Exclude.Dirs[0] != "vendor" {
		t.Errorf("unexpected exclude dirs: %v", cfg.Exclude.Dirs)
	}
	if len(cfg.Resolver.Extensions) != 2 {
		t.Errorf("unexpected resolver extensions: %v", cfg.Resolver.Extensions)
	}
	if !cfg.Analysis.SkipTypeOnlyExports {
		t.Error("skip_type_only_exports not decoded")
	}
	if cfg.History.Path != "/tmp/depscope.db" {
		t.Errorf("unexpected history path: %s", cfg.History.Path)
	}
	if cfg.Observe.Addr != "0.0.0.0:9999" || cfg.Observe.OTLPEndpoint != "localhost:4317" {
		t.Errorf("unexpected observability config: %+v", cfg.Observe)
	}
	if cfg.Performance.Concurrency != 4 || cfg.Performance.RateLimit != 200.0 || cfg.Performance.RateBurst != 16 {
		t.Errorf("unexpected performance config: %+v", cfg.Performance)
	}
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, ""))
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if len(cfg.Roots) != 1 || cfg.Roots[0] != "." {
		t.Errorf("expected default root, got %v", cfg.Roots)
	}
	if cfg.Watch.Debounce != 500*time.Millisecond {
		t.Errorf("expected default debounce, got %v", cfg.Watch.Debounce)
	}
	if cfg.Performance.Concurrency != 8 {
		t.Errorf("expected default concurrency, got %d", cfg.Performance.Concurrency)
	}
	if len(cfg.EntryPoints.Stems) == 0 || len(cfg.EntryPoints.ConfigPatterns) == 0 {
		t.Error("entry point defaults missing")
	}
	if cfg.History.Path != "" {
		t.Errorf("history must be opt-in, got %q", cfg.History.Path)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load("/nonexistent/depscope.toml"); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestDefault(t *testing.T) {
	cfg := Default()
	if len(cfg.Exclude.Dirs) == 0 {
		t.Error("default excludes missing")
	}
	if cfg.Observe.Addr == "" {
		t.Error("default observability addr missing")
	}
}
