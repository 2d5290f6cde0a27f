package graph

import (
	"sort"

	"depscope/internal/engine/parser"
)

// Edge is one validated dependency between two files. Members lists the
// named symbols the importer actually pulls in; a nil Members slice means
// the dependency is structural only (namespace, side-effect, or a default
// import of a target with no default export).
type Edge struct {
	From    string   `json:"from"`
	To      string   `json:"to"`
	Members []string `json:"members,omitempty"`
	Line    int      `json:"line"`
}

// Warning records a non-fatal defect found while building the graph. The
// file stays in the graph; the warning tells the user what was skipped.
type Warning struct {
	Path      string `json:"path"`
	Specifier string `json:"specifier,omitempty"`
	Symbol    string `json:"symbol,omitempty"`
	Line      int    `json:"line,omitempty"`
	Message   string `json:"message"`
}

// Graph is the dependency graph of one analysis run. It is built once by
// a Builder and never mutated afterwards, so accessors need no locking;
// they still return copies so callers cannot reach into shared state.
type Graph struct {
	nodes   []string // sorted absolute paths
	nodeSet map[string]bool

	files map[string]*parser.File

	edges      map[string]map[string]*Edge // from -> to
	importedBy map[string]map[string]bool  // to -> from

	entryPoints map[string]bool
	warnings    []Warning
}

func (g *Graph) Nodes() []string {
	return append([]string(nil), g.nodes...)
}

func (g *Graph) NodeCount() int { return len(g.nodes) }

func (g *Graph) HasNode(path string) bool { return g.nodeSet[path] }

func (g *Graph) File(path string) (*parser.File, bool) {
	f, ok := g.files[path]
	if !ok {
		return nil, false
	}
	return cloneFile(f), true
}

// Edges returns all edges ordered by (From, To).
func (g *Graph) Edges() []Edge {
	res := make([]Edge, 0, g.EdgeCount())
	for _, from := range g.nodes {
		targets := sortedKeys(g.edges[from])
		for _, to := range targets {
			res = append(res, cloneEdge(g.edges[from][to]))
		}
	}
	return res
}

func (g *Graph) EdgeCount() int {
	count := 0
	for _, targets := range g.edges {
		count += len(targets)
	}
	return count
}

// EdgesFrom returns the outgoing edges of path, ordered by target.
func (g *Graph) EdgesFrom(path string) []Edge {
	targets := sortedKeys(g.edges[path])
	res := make([]Edge, 0, len(targets))
	for _, to := range targets {
		res = append(res, cloneEdge(g.edges[path][to]))
	}
	return res
}

// ImportersOf returns the sorted paths of files with an edge into path.
func (g *Graph) ImportersOf(path string) []string {
	return sortedKeys(g.importedBy[path])
}

// EntryPoints returns the sorted entry-point paths.
func (g *Graph) EntryPoints() []string {
	return sortedKeys(g.entryPoints)
}

func (g *Graph) IsEntryPoint(path string) bool { return g.entryPoints[path] }

// Warnings returns the defects collected during the build, ordered by
// (Path, Line, Message).
func (g *Graph) Warnings() []Warning {
	res := append([]Warning(nil), g.warnings...)
	sort.Slice(res, func(i, j int) bool {
		if res[i].Path != res[j].Path {
			return res[i].Path < res[j].Path
		}
		if res[i].Line != res[j].Line {
			return res[i].Line < res[j].Line
		}
		return res[i].Message < res[j].Message
	})
	return res
}

// Exports returns the export catalog entry for path, ordered by symbol
// name then class.
func (g *Graph) Exports(path string) []parser.ExportSymbol {
	f, ok := g.files[path]
	if !ok {
		return nil
	}
	res := append([]parser.ExportSymbol(nil), f.Exports...)
	sort.Slice(res, func(i, j int) bool {
		if res[i].Name != res[j].Name {
			return res[i].Name < res[j].Name
		}
		return res[i].Class < res[j].Class
	})
	return res
}

func cloneEdge(e *Edge) Edge {
	c := *e
	c.Members = append([]string(nil), e.Members...)
	return c
}

func cloneFile(f *parser.File) *parser.File {
	if f == nil {
		return nil
	}
	c := *f
	c.Exports = append([]parser.ExportSymbol(nil), f.Exports...)
	c.Imports = append([]parser.ImportDeclaration(nil), f.Imports...)
	for i := range c.Imports {
		c.Imports[i].Members = append([]string(nil), f.Imports[i].Members...)
	}
	return &c
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
