package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics definitions
var (
	ParsingDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "depscope_parsing_seconds",
		Help:    "Time spent parsing a source file.",
		Buckets: prometheus.DefBuckets,
	}, []string{"language"})

	GraphNodes = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "depscope_graph_nodes_total",
		Help: "Total number of files in the dependency graph.",
	})

	GraphEdges = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "depscope_graph_edges_total",
		Help: "Total number of edges in the dependency graph.",
	})

	AnalysisDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "depscope_analysis_seconds",
		Help:    "Time spent on high-level analysis tasks.",
		Buckets: prometheus.DefBuckets,
	}, []string{"task"})

	BuildWarnings = promauto.NewCounter(prometheus.CounterOpts{
		Name: "depscope_build_warnings_total",
		Help: "Total number of warnings emitted while building graphs.",
	})

	WatcherEventsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "depscope_watcher_events_total",
		Help: "Total number of file system events received by the watcher.",
	})

	ScannedFiles = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "depscope_scanned_files_total",
		Help: "Number of files selected by the most recent scan.",
	})

	HistoryWriteErrors = promauto.NewCounter(prometheus.CounterOpts{
		Name: "depscope_history_write_errors_total",
		Help: "Total number of failed history snapshot writes.",
	})
)
