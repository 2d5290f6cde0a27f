package graph

import "depscope/internal/engine/parser"

// SymbolUsage is one file's use of a queried symbol.
type SymbolUsage struct {
	File    string
	Line    int
	Members []string
}

// UnusedExport names an exported symbol no incoming edge asks for.
type UnusedExport struct {
	File   string `json:"file"`
	Symbol string `json:"symbol"`
}

// UnusedExportPolicy tunes which exports the dead-symbol report includes.
type UnusedExportPolicy struct {
	// SkipTypeOnly drops interfaces and type aliases, which are erased at
	// runtime and often consumed by tooling the graph cannot see.
	SkipTypeOnly bool
	// SkipUnusedFiles drops exports of files already reported unreachable,
	// so one dead file does not flood the report with its symbols.
	SkipUnusedFiles bool
}

// FilesUsing returns the sorted paths of files with an edge into target.
// An unknown target yields an empty result, not an error.
func (g *Graph) FilesUsing(target string) []string {
	return sortedKeys(g.importedBy[target])
}

// FilesUsingSymbol reports every file whose edge members include
// symbolName. When className is non-empty the query asks about a class
// member: a file uses it when its edge into the defining file carries the
// class itself, since member access flows through the imported class.
func (g *Graph) FilesUsingSymbol(className, symbolName string) []SymbolUsage {
	wanted := symbolName
	if className != "" {
		wanted = className
	}

	var usages []SymbolUsage
	for _, definer := range g.nodes {
		if !g.definesSymbol(definer, className, symbolName) {
			continue
		}
		for _, from := range sortedKeys(g.importedBy[definer]) {
			edge := g.edges[from][definer]
			if edge == nil || !contains(edge.Members, wanted) {
				continue
			}
			usages = append(usages, SymbolUsage{
				File:    from,
				Line:    edge.Line,
				Members: append([]string(nil), edge.Members...),
			})
		}
	}
	return usages
}

func (g *Graph) definesSymbol(path, className, symbolName string) bool {
	file, ok := g.files[path]
	if !ok {
		return false
	}
	for _, e := range file.Exports {
		if className != "" {
			if e.Name == symbolName && e.Class == className {
				return true
			}
			continue
		}
		if e.Name == symbolName && e.Class == "" {
			return true
		}
	}
	return false
}

// UnusedExports reports exported symbols that no incoming edge names.
// Namespace and side-effect edges carry no members, so a file consumed
// only that way keeps all its exports in the report; that is deliberate,
// the graph cannot prove any single symbol is used.
func (g *Graph) UnusedExports(policy UnusedExportPolicy) []UnusedExport {
	skipFiles := make(map[string]bool)
	if policy.SkipUnusedFiles {
		for _, u := range g.FindUnusedFiles() {
			skipFiles[u.Path] = true
		}
	}

	var res []UnusedExport
	for _, path := range g.nodes {
		if skipFiles[path] {
			continue
		}
		file := g.files[path]

		used := make(map[string]bool)
		for from := range g.importedBy[path] {
			if edge := g.edges[from][path]; edge != nil {
				for _, m := range edge.Members {
					used[m] = true
				}
			}
		}

		for _, e := range file.Exports {
			if e.Class != "" {
				continue
			}
			if policy.SkipTypeOnly && e.TypeOnly {
				continue
			}
			if !used[e.Name] {
				res = append(res, UnusedExport{File: path, Symbol: e.Name})
			}
		}
	}
	return res
}

// ExportCatalog returns every export of every node, keyed by path with
// symbols sorted by name. It backs the report's symbol inventory.
func (g *Graph) ExportCatalog() map[string][]parser.ExportSymbol {
	res := make(map[string][]parser.ExportSymbol, len(g.nodes))
	for _, p := range g.nodes {
		if exports := g.Exports(p); len(exports) > 0 {
			res[p] = exports
		}
	}
	return res
}

func contains(values []string, want string) bool {
	for _, v := range values {
		if v == want {
			return true
		}
	}
	return false
}
