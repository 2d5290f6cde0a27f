package graph

import (
	"context"
	"fmt"
	"sort"
	"time"

	"depscope/internal/engine/parser"
	"depscope/internal/engine/resolver"
	"depscope/internal/shared/observability"
	"depscope/internal/shared/util"
)

// Builder assembles a Graph from a list of source files. Each Build call
// is independent: the parse cache and resolver it was given define the
// run's scope, and the returned Graph is immutable.
type Builder struct {
	parser      FileParser
	resolver    *resolver.Resolver
	policy      EntryPointPolicy
	concurrency int
	limiter     *util.Limiter
}

type BuilderOption func(*Builder)

func WithEntryPointPolicy(policy EntryPointPolicy) BuilderOption {
	return func(b *Builder) { b.policy = policy }
}

func WithConcurrency(n int) BuilderOption {
	return func(b *Builder) {
		if n > 0 {
			b.concurrency = n
		}
	}
}

func WithLimiter(l *util.Limiter) BuilderOption {
	return func(b *Builder) { b.limiter = l }
}

func NewBuilder(fileParser FileParser, res *resolver.Resolver, opts ...BuilderOption) *Builder {
	b := &Builder{
		parser:      fileParser,
		resolver:    res,
		policy:      DefaultEntryPointPolicy(),
		concurrency: 8,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Build parses paths, resolves every import declaration and returns the
// validated dependency graph. Identical inputs produce identical graphs;
// all iteration happens over sorted paths.
func (b *Builder) Build(ctx context.Context, paths []string) (*Graph, error) {
	start := time.Now()

	sorted := dedupeSorted(paths)
	files, warnings, err := b.loadFiles(ctx, sorted)
	if err != nil {
		return nil, err
	}

	g := &Graph{
		nodes:       sorted,
		nodeSet:     make(map[string]bool, len(sorted)),
		files:       files,
		edges:       make(map[string]map[string]*Edge),
		importedBy:  make(map[string]map[string]bool),
		entryPoints: make(map[string]bool),
		warnings:    warnings,
	}
	for _, p := range sorted {
		g.nodeSet[p] = true
	}

	for _, from := range sorted {
		for _, imp := range files[from].Imports {
			b.connect(g, from, imp)
		}
	}

	classifier, err := newEntryPointClassifier(b.policy)
	if err != nil {
		return nil, err
	}
	for _, p := range sorted {
		if classifier.matches(p) || len(g.importedBy[p]) == 0 {
			g.entryPoints[p] = true
		}
	}

	observability.GraphNodes.Set(float64(g.NodeCount()))
	observability.GraphEdges.Set(float64(g.EdgeCount()))
	observability.AnalysisDuration.WithLabelValues("build").Observe(time.Since(start).Seconds())
	return g, nil
}

// connect turns one import declaration into at most one edge contribution.
// External specifiers never produce edges; unresolved relative specifiers
// and invalid members produce warnings instead.
func (b *Builder) connect(g *Graph, from string, imp parser.ImportDeclaration) {
	if !resolver.IsRelative(imp.Specifier) {
		return
	}

	to := b.resolver.Resolve(from, imp.Specifier)
	if to == "" {
		g.warn(Warning{
			Path:      from,
			Specifier: imp.Specifier,
			Line:      imp.Location.Line,
			Message:   "unresolved import",
		})
		return
	}
	if !g.nodeSet[to] {
		g.warn(Warning{
			Path:      from,
			Specifier: imp.Specifier,
			Line:      imp.Location.Line,
			Message:   "import resolves outside the analyzed roots",
		})
		return
	}

	exports := exportSet(g.files[to])

	switch imp.Kind {
	case parser.ImportNamed:
		var valid []string
		for _, member := range imp.Members {
			if exports[member] {
				valid = append(valid, member)
				continue
			}
			g.warn(Warning{
				Path:      from,
				Specifier: imp.Specifier,
				Symbol:    member,
				Line:      imp.Location.Line,
				Message:   fmt.Sprintf("imported symbol %q is not exported by target", member),
			})
		}
		if len(valid) == 0 {
			return
		}
		g.addEdge(from, to, valid, imp.Location.Line)

	case parser.ImportDefault:
		if exports[parser.DefaultExportName] {
			g.addEdge(from, to, []string{parser.DefaultExportName}, imp.Location.Line)
			return
		}
		g.addEdge(from, to, nil, imp.Location.Line)

	case parser.ImportNamespace, parser.ImportSideEffect:
		g.addEdge(from, to, nil, imp.Location.Line)
	}
}

func (g *Graph) addEdge(from, to string, members []string, line int) {
	if g.edges[from] == nil {
		g.edges[from] = make(map[string]*Edge)
	}
	edge, ok := g.edges[from][to]
	if !ok {
		g.edges[from][to] = &Edge{
			From:    from,
			To:      to,
			Members: dedupeSorted(members),
			Line:    line,
		}
	} else {
		edge.Members = dedupeSorted(append(edge.Members, members...))
		if line > 0 && (edge.Line == 0 || line < edge.Line) {
			edge.Line = line
		}
	}

	if g.importedBy[to] == nil {
		g.importedBy[to] = make(map[string]bool)
	}
	g.importedBy[to][from] = true
}

func (g *Graph) warn(w Warning) {
	observability.BuildWarnings.Inc()
	g.warnings = append(g.warnings, w)
}

func exportSet(f *parser.File) map[string]bool {
	set := make(map[string]bool, len(f.Exports))
	for _, e := range f.Exports {
		if e.Class != "" {
			continue // class members are addressed through their class
		}
		set[e.Name] = true
	}
	return set
}

func dedupeSorted(values []string) []string {
	if len(values) == 0 {
		return nil
	}
	seen := make(map[string]bool, len(values))
	res := make([]string, 0, len(values))
	for _, v := range values {
		if !seen[v] {
			seen[v] = true
			res = append(res, v)
		}
	}
	sort.Strings(res)
	return res
}
