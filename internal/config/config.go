package config

import (
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

type Config struct {
	Roots       []string      `toml:"roots"`
	Exclude     Exclude       `toml:"exclude"`
	Resolver    Resolver      `toml:"resolver"`
	EntryPoints EntryPoints   `toml:"entry_points"`
	Analysis    Analysis      `toml:"analysis"`
	Watch       Watch         `toml:"watch"`
	History     History       `toml:"history"`
	Observe     Observability `toml:"observability"`
	Performance Performance   `toml:"performance"`
}

type Exclude struct {
	Dirs  []string `toml:"dirs"`
	Files []string `toml:"files"`
}

type Resolver struct {
	// Extensions is the probe order for extension-less specifiers.
	Extensions []string `toml:"extensions"`
}

type EntryPoints struct {
	Stems          []string `toml:"stems"`
	DirNames       []string `toml:"dir_names"`
	TestSuffixes   []string `toml:"test_suffixes"`
	ConfigPatterns []string `toml:"config_patterns"`
}

type Analysis struct {
	SkipTypeOnlyExports bool `toml:"skip_type_only_exports"`
	SkipUnusedFiles     bool `toml:"skip_unused_files"`
}

type Watch struct {
	Debounce time.Duration `toml:"debounce"`
}

type History struct {
	Path string `toml:"path"`
}

type Observability struct {
	Addr         string `toml:"addr"`
	OTLPEndpoint string `toml:"otlp_endpoint"`
}

type Performance struct {
	Concurrency int     `toml:"concurrency"`
	RateLimit   float64 `toml:"rate_limit"` // files per second, 0 disables
	RateBurst   int     `toml:"rate_burst"`
}

// Load reads path and fills in defaults for everything the file leaves
// out. A missing file is an error; use Default for config-less runs.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if _, err := toml.Decode(string(data), &cfg); err != nil {
		return nil, err
	}

	cfg.applyDefaults()
	return &cfg, nil
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

func (cfg *Config) applyDefaults() {
	if len(cfg.Roots) == 0 {
		cfg.Roots = []string{"."}
	}
	if len(cfg.Exclude.Dirs) == 0 {
		cfg.Exclude.Dirs = []string{"node_modules", ".git", "dist", "build", "coverage"}
	}
	if len(cfg.EntryPoints.Stems) == 0 {
		cfg.EntryPoints.Stems = []string{"index", "main", "bin", "cli", "server", "app"}
	}
	if len(cfg.EntryPoints.DirNames) == 0 {
		cfg.EntryPoints.DirNames = []string{"test", "tests", "__tests__", "example", "examples", "script", "scripts", "bin"}
	}
	if len(cfg.EntryPoints.TestSuffixes) == 0 {
		cfg.EntryPoints.TestSuffixes = []string{".test", ".spec"}
	}
	if len(cfg.EntryPoints.ConfigPatterns) == 0 {
		cfg.EntryPoints.ConfigPatterns = []string{"*.config.*", "*rc.js", "*rc.ts", "*rc.cjs", "*rc.mjs"}
	}
	if cfg.Watch.Debounce == 0 {
		cfg.Watch.Debounce = 500 * time.Millisecond
	}
	if cfg.Observe.Addr == "" {
		cfg.Observe.Addr = "127.0.0.1:9120"
	}
	if cfg.Performance.Concurrency <= 0 {
		cfg.Performance.Concurrency = 8
	}
	if cfg.Performance.RateBurst <= 0 {
		cfg.Performance.RateBurst = 64
	}
}
