package graph

import "time"

// Snapshot is the serializable view of one analysis run. The report
// writer emits it as JSON and the history store persists its counts.
type Snapshot struct {
	GeneratedAt   time.Time      `json:"generated_at"`
	NodeCount     int            `json:"node_count"`
	EdgeCount     int            `json:"edge_count"`
	EntryPoints   []string       `json:"entry_points"`
	Edges         []Edge         `json:"edges"`
	UnusedFiles   []UnusedFile   `json:"unused_files"`
	UnusedExports []UnusedExport `json:"unused_exports"`
	Cycles        [][]string     `json:"cycles"`
	Warnings      []Warning      `json:"warnings"`
}

// Snapshot assembles the full analysis result. policy controls the
// unused-export section only; the rest of the snapshot is policy-free.
func (g *Graph) Snapshot(policy UnusedExportPolicy) *Snapshot {
	return &Snapshot{
		GeneratedAt:   time.Now().UTC(),
		NodeCount:     g.NodeCount(),
		EdgeCount:     g.EdgeCount(),
		EntryPoints:   g.EntryPoints(),
		Edges:         g.Edges(),
		UnusedFiles:   g.FindUnusedFiles(),
		UnusedExports: g.UnusedExports(policy),
		Cycles:        g.FindCycles(),
		Warnings:      g.Warnings(),
	}
}
