package report

import (
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"depscope/internal/data/history"
	"depscope/internal/engine/graph"
	"depscope/internal/engine/parser"
)

// Writer renders analysis snapshots. Paths are shown relative to root when
// possible; the JSON form keeps them absolute for machine consumers.
type Writer struct {
	root string
}

func NewWriter(root string) *Writer {
	return &Writer{root: root}
}

func (w *Writer) WriteJSON(out io.Writer, snap *graph.Snapshot) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(snap)
}

func (w *Writer) WriteText(out io.Writer, snap *graph.Snapshot) error {
	var b strings.Builder

	fmt.Fprintf(&b, "Dependency graph: %d files, %d edges, %d entry points\n",
		snap.NodeCount, snap.EdgeCount, len(snap.EntryPoints))

	if len(snap.Cycles) > 0 {
		fmt.Fprintf(&b, "\nCycles (%d):\n", len(snap.Cycles))
		for _, group := range snap.Cycles {
			rel := make([]string, 0, len(group))
			for _, p := range group {
				rel = append(rel, w.rel(p))
			}
			fmt.Fprintf(&b, "  %s\n", strings.Join(rel, " <-> "))
		}
	} else {
		b.WriteString("\nNo dependency cycles.\n")
	}

	if len(snap.UnusedFiles) > 0 {
		fmt.Fprintf(&b, "\nUnused files (%d):\n", len(snap.UnusedFiles))
		for _, u := range snap.UnusedFiles {
			fmt.Fprintf(&b, "  %-60s %s\n", w.rel(u.Path), u.Category)
		}
	}

	if len(snap.UnusedExports) > 0 {
		fmt.Fprintf(&b, "\nUnused exports (%d):\n", len(snap.UnusedExports))
		for _, u := range snap.UnusedExports {
			fmt.Fprintf(&b, "  %s: %s\n", w.rel(u.File), u.Symbol)
		}
	}

	if len(snap.Warnings) > 0 {
		fmt.Fprintf(&b, "\nWarnings (%d):\n", len(snap.Warnings))
		for _, warn := range snap.Warnings {
			loc := w.rel(warn.Path)
			if warn.Line > 0 {
				loc = fmt.Sprintf("%s:%d", loc, warn.Line)
			}
			fmt.Fprintf(&b, "  %s: %s\n", loc, warn.Message)
		}
	}

	_, err := io.WriteString(out, b.String())
	return err
}

// WriteExports renders the per-file symbol inventory. Class members are
// shown qualified so they read the way a caller would write them.
func (w *Writer) WriteExports(out io.Writer, catalog map[string][]parser.ExportSymbol) error {
	paths := make([]string, 0, len(catalog))
	for p := range catalog {
		paths = append(paths, p)
	}
	sort.Strings(paths)

	var b strings.Builder
	fmt.Fprintf(&b, "Exported symbols (%d files):\n", len(paths))
	for _, p := range paths {
		fmt.Fprintf(&b, "  %s:\n", w.rel(p))
		for _, e := range catalog[p] {
			name := e.Name
			if e.Class != "" {
				name = e.Class + "." + e.Name
			}
			fmt.Fprintf(&b, "    %-40s %s\n", name, e.Kind)
		}
	}

	_, err := io.WriteString(out, b.String())
	return err
}

// WriteHistory renders recorded run summaries, oldest first, so growth in
// nodes, warnings or dead code is visible across runs.
func (w *Writer) WriteHistory(out io.Writer, runs []history.Run) error {
	var b strings.Builder

	if len(runs) == 0 {
		b.WriteString("No recorded runs.\n")
	} else {
		fmt.Fprintf(&b, "Run history (%d runs):\n", len(runs))
		for _, r := range runs {
			fmt.Fprintf(&b, "  %s  nodes=%d edges=%d entries=%d cycles=%d unused-files=%d unused-exports=%d warnings=%d  %s\n",
				r.Timestamp.UTC().Format(time.RFC3339),
				r.NodeCount,
				r.EdgeCount,
				r.EntryPointCount,
				r.CycleCount,
				r.UnusedFileCount,
				r.UnusedExportCount,
				r.WarningCount,
				r.Duration.Round(time.Millisecond))
		}
	}

	_, err := io.WriteString(out, b.String())
	return err
}

func (w *Writer) rel(path string) string {
	if w.root == "" {
		return path
	}
	rel, err := filepath.Rel(w.root, path)
	if err != nil || strings.HasPrefix(rel, "..") {
		return path
	}
	return rel
}
