package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"depscope/internal/config"
	"depscope/internal/data/history"
	"depscope/internal/engine/graph"
	"depscope/internal/engine/parser"
	"depscope/internal/engine/resolver"
	"depscope/internal/report"
	"depscope/internal/scanner"
	"depscope/internal/shared/observability"
	"depscope/internal/shared/util"
)

// App wires the analysis pipeline together. Each Run builds a fresh parse
// cache, resolver and graph; nothing analytical survives between runs.
type App struct {
	cfg     *config.Config
	parser  *parser.Parser
	scanner *scanner.Scanner
	store   *history.Store
	writer  *report.Writer

	mu      sync.Mutex
	lastRun history.Run
}

func NewApp(cfg *config.Config) (*App, error) {
	p := parser.NewParser(parser.NewGrammarLoader())
	p.RegisterDefaultExtractors()

	sc, err := scanner.New(p, cfg.Exclude.Dirs, cfg.Exclude.Files)
	if err != nil {
		return nil, fmt.Errorf("configure scanner: %w", err)
	}

	a := &App{
		cfg:     cfg,
		parser:  p,
		scanner: sc,
		writer:  report.NewWriter(reportRoot(cfg.Roots)),
	}

	if cfg.History.Path != "" {
		store, err := history.Open(cfg.History.Path)
		if err != nil {
			slog.Warn("history store unavailable", "path", cfg.History.Path, "error", err)
		} else {
			a.store = store
		}
	}

	return a, nil
}

func (a *App) Close() error {
	if a.store != nil {
		return a.store.Close()
	}
	return nil
}

// Run performs one full analysis and returns its snapshot.
func (a *App) Run(ctx context.Context) (*graph.Snapshot, error) {
	ctx, span := observability.Tracer.Start(ctx, "app.Run")
	defer span.End()

	start := time.Now()

	files, err := a.scanner.Scan(a.cfg.Roots)
	if err != nil {
		return nil, err
	}
	slog.Debug("scan complete", "files", len(files))

	var limiter *util.Limiter
	if a.cfg.Performance.RateLimit > 0 {
		limiter = util.NewLimiter(a.cfg.Performance.RateLimit, a.cfg.Performance.RateBurst)
	}

	builder := graph.NewBuilder(
		parser.NewParseCache(a.parser),
		resolver.New(nil, a.cfg.Resolver.Extensions),
		graph.WithEntryPointPolicy(graph.EntryPointPolicy{
			Stems:          a.cfg.EntryPoints.Stems,
			DirNames:       a.cfg.EntryPoints.DirNames,
			TestSuffixes:   a.cfg.EntryPoints.TestSuffixes,
			ConfigPatterns: a.cfg.EntryPoints.ConfigPatterns,
		}),
		graph.WithConcurrency(a.cfg.Performance.Concurrency),
		graph.WithLimiter(limiter),
	)

	g, err := builder.Build(ctx, files)
	if err != nil {
		return nil, err
	}

	_, analysisSpan := observability.Tracer.Start(ctx, "app.Analyze")
	snap := g.Snapshot(graph.UnusedExportPolicy{
		SkipTypeOnly:    a.cfg.Analysis.SkipTypeOnlyExports,
		SkipUnusedFiles: a.cfg.Analysis.SkipUnusedFiles,
	})
	analysisSpan.End()

	a.recordRun(snap, time.Since(start))
	return snap, nil
}

func (a *App) recordRun(snap *graph.Snapshot, duration time.Duration) {
	run := history.Run{
		Timestamp:         snap.GeneratedAt,
		NodeCount:         snap.NodeCount,
		EdgeCount:         snap.EdgeCount,
		EntryPointCount:   len(snap.EntryPoints),
		CycleCount:        len(snap.Cycles),
		UnusedFileCount:   len(snap.UnusedFiles),
		UnusedExportCount: len(snap.UnusedExports),
		WarningCount:      len(snap.Warnings),
		Duration:          duration,
	}

	if a.store != nil {
		id, err := a.store.SaveRun(projectKey(a.cfg.Roots), run)
		if err != nil {
			observability.HistoryWriteErrors.Inc()
			slog.Warn("failed to persist run history", "error", err)
		} else {
			run.RunID = id
		}
	}

	a.mu.Lock()
	a.lastRun = run
	a.mu.Unlock()
}

// Health backs the /health endpoint in watch mode.
func (a *App) Health(ctx context.Context) observability.HealthStatus {
	a.mu.Lock()
	defer a.mu.Unlock()

	status := observability.HealthStatus{
		Status:     "up",
		LastRunID:  a.lastRun.RunID,
		GraphNodes: a.lastRun.NodeCount,
		GraphEdges: a.lastRun.EdgeCount,
	}
	if !a.lastRun.Timestamp.IsZero() {
		status.LastRunUnix = a.lastRun.Timestamp.Unix()
	}
	return status
}

// Uses answers the --uses query against a fresh snapshot's graph.
func (a *App) Uses(ctx context.Context, target string) ([]string, error) {
	g, err := a.buildGraph(ctx)
	if err != nil {
		return nil, err
	}
	abs, err := filepath.Abs(target)
	if err != nil {
		return nil, err
	}
	return g.FilesUsing(abs), nil
}

// UsesSymbol answers the --uses-symbol query. The argument is either a
// bare symbol name or "Class.member".
func (a *App) UsesSymbol(ctx context.Context, query string) ([]graph.SymbolUsage, error) {
	g, err := a.buildGraph(ctx)
	if err != nil {
		return nil, err
	}

	className, symbol := "", query
	if i := strings.IndexByte(query, '.'); i > 0 {
		className, symbol = query[:i], query[i+1:]
	}
	return g.FilesUsingSymbol(className, symbol), nil
}

// Exports answers the --exports query with a fresh graph's symbol
// inventory.
func (a *App) Exports(ctx context.Context) (map[string][]parser.ExportSymbol, error) {
	g, err := a.buildGraph(ctx)
	if err != nil {
		return nil, err
	}
	return g.ExportCatalog(), nil
}

// History returns this project's newest n recorded runs, oldest first.
func (a *App) History(n int) ([]history.Run, error) {
	if a.store == nil {
		return nil, fmt.Errorf("run history is not configured; set history.path in the config")
	}
	return a.store.RecentRuns(projectKey(a.cfg.Roots), n)
}

func (a *App) buildGraph(ctx context.Context) (*graph.Graph, error) {
	files, err := a.scanner.Scan(a.cfg.Roots)
	if err != nil {
		return nil, err
	}
	builder := graph.NewBuilder(
		parser.NewParseCache(a.parser),
		resolver.New(nil, a.cfg.Resolver.Extensions),
		graph.WithConcurrency(a.cfg.Performance.Concurrency),
	)
	return builder.Build(ctx, files)
}

func reportRoot(roots []string) string {
	if len(roots) == 1 {
		if abs, err := filepath.Abs(roots[0]); err == nil {
			return abs
		}
	}
	cwd, _ := os.Getwd()
	return cwd
}

func projectKey(roots []string) string {
	return filepath.Base(reportRoot(roots))
}
