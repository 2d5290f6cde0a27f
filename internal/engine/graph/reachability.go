package graph

import (
	"path/filepath"
	"strings"
)

// UnusedCategory is a coarse label for an unreachable file, derived from
// path and name conventions so reports can distinguish a forgotten utility
// from a generated artifact.
type UnusedCategory string

const (
	CategoryGenerated             UnusedCategory = "generated"
	CategoryScript                UnusedCategory = "script"
	CategoryUtilityWithExports    UnusedCategory = "utility-with-exports"
	CategoryUtilityWithoutExports UnusedCategory = "utility-without-exports"
	CategoryTypeOnly              UnusedCategory = "type-only"
	CategoryContract              UnusedCategory = "contract"
)

type UnusedFile struct {
	Path     string         `json:"path"`
	Category UnusedCategory `json:"category"`
}

// FindUnusedFiles walks the graph from every entry point and reports the
// files no walk reaches. Entry points themselves are never unused. Results
// are ordered by path.
func (g *Graph) FindUnusedFiles() []UnusedFile {
	reached := make(map[string]bool, len(g.nodes))
	queue := g.EntryPoints()
	for _, p := range queue {
		reached[p] = true
	}

	for len(queue) > 0 {
		curr := queue[0]
		queue = queue[1:]
		for _, to := range sortedKeys(g.edges[curr]) {
			if !reached[to] {
				reached[to] = true
				queue = append(queue, to)
			}
		}
	}

	var unused []UnusedFile
	for _, p := range g.nodes {
		if reached[p] {
			continue
		}
		unused = append(unused, UnusedFile{Path: p, Category: g.categorize(p)})
	}
	return unused
}

func (g *Graph) categorize(path string) UnusedCategory {
	base := filepath.Base(path)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	lower := strings.ToLower(base)

	switch {
	case strings.HasSuffix(lower, ".d.ts") || strings.Contains(lower, ".generated.") || strings.HasSuffix(stem, "_pb") || strings.HasSuffix(stem, ".g"):
		return CategoryGenerated
	case strings.Contains(lower, "contract") || strings.Contains(lower, "schema") || strings.HasSuffix(stem, ".spec"):
		return CategoryContract
	case underDir(path, "script", "scripts", "bin", "tools"):
		return CategoryScript
	}

	file, ok := g.files[path]
	if !ok || len(file.Exports) == 0 {
		return CategoryUtilityWithoutExports
	}

	allTypes := true
	for _, e := range file.Exports {
		if e.Class != "" {
			continue
		}
		if !e.TypeOnly {
			allTypes = false
			break
		}
	}
	if allTypes {
		return CategoryTypeOnly
	}
	return CategoryUtilityWithExports
}

func underDir(path string, names ...string) bool {
	for dir := filepath.Dir(path); ; dir = filepath.Dir(dir) {
		base := filepath.Base(dir)
		for _, name := range names {
			if base == name {
				return true
			}
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return false
		}
	}
}
