package graph

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/gobwas/glob"
)

// EntryPointPolicy names the structural conventions that mark a file as a
// root of execution. A file matching any rule is an entry point; files
// nothing imports are entry points regardless of the policy.
type EntryPointPolicy struct {
	// Stems are extension-less base names, e.g. "index", "main".
	Stems []string
	// DirNames mark every file under a directory with one of these names.
	DirNames []string
	// TestSuffixes match against the extension-less base name,
	// e.g. ".test", ".spec".
	TestSuffixes []string
	// ConfigPatterns are glob patterns matched against the base name,
	// e.g. "*.config.*", ".*rc.js".
	ConfigPatterns []string
}

func DefaultEntryPointPolicy() EntryPointPolicy {
	return EntryPointPolicy{
		Stems:          []string{"index", "main", "bin", "cli", "server", "app"},
		DirNames:       []string{"test", "tests", "__tests__", "example", "examples", "script", "scripts", "bin"},
		TestSuffixes:   []string{".test", ".spec"},
		ConfigPatterns: []string{"*.config.*", "*rc.js", "*rc.ts", "*rc.cjs", "*rc.mjs"},
	}
}

type entryPointClassifier struct {
	policy EntryPointPolicy
	globs  []glob.Glob
	stems  map[string]bool
	dirs   map[string]bool
}

func newEntryPointClassifier(policy EntryPointPolicy) (*entryPointClassifier, error) {
	c := &entryPointClassifier{
		policy: policy,
		stems:  make(map[string]bool, len(policy.Stems)),
		dirs:   make(map[string]bool, len(policy.DirNames)),
	}
	for _, s := range policy.Stems {
		c.stems[s] = true
	}
	for _, d := range policy.DirNames {
		c.dirs[d] = true
	}
	for _, pattern := range policy.ConfigPatterns {
		g, err := glob.Compile(pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid entry point pattern %q: %w", pattern, err)
		}
		c.globs = append(c.globs, g)
	}
	return c, nil
}

func (c *entryPointClassifier) matches(path string) bool {
	base := filepath.Base(path)
	stem := strings.TrimSuffix(base, filepath.Ext(base))

	if c.stems[stem] {
		return true
	}
	for _, suffix := range c.policy.TestSuffixes {
		if strings.HasSuffix(stem, suffix) {
			return true
		}
	}
	for _, g := range c.globs {
		if g.Match(base) {
			return true
		}
	}

	for dir := filepath.Dir(path); ; dir = filepath.Dir(dir) {
		if c.dirs[filepath.Base(dir)] {
			return true
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return false
		}
	}
}
