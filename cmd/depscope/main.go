package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"depscope/internal/config"
	"depscope/internal/shared/observability"
	"depscope/internal/watcher"
)

var (
	configPath   = flag.String("config", "./depscope.toml", "Path to config file")
	once         = flag.Bool("once", false, "Run single analysis and exit")
	jsonOut      = flag.Bool("json", false, "Emit the snapshot as JSON instead of text")
	watch        = flag.Bool("watch", false, "Re-analyze on file changes")
	verbose      = flag.Bool("verbose", false, "Enable verbose logging")
	serveMetrics = flag.Bool("serve-metrics", false, "Expose /metrics and /health")
	uses         = flag.String("uses", "", "List files importing the given file")
	usesSymbol   = flag.String("uses-symbol", "", "List files using a symbol (name or Class.member)")
	exports      = flag.Bool("exports", false, "List every exported symbol per file")
	historyN     = flag.Int("history", 0, "Show the last N recorded runs and exit")
	version      = flag.Bool("version", false, "Print version and exit")
)

const VERSION = "1.0.0"

func main() {
	flag.Parse()

	if *version {
		fmt.Printf("depscope v%s\n", VERSION)
		os.Exit(0)
	}

	logLevel := slog.LevelInfo
	if *verbose {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	cfg, err := config.Load(*configPath)
	if err != nil {
		if *configPath != "./depscope.toml" {
			slog.Error("failed to load config", "path", *configPath, "error", err)
			os.Exit(1)
		}
		// No config file next to the invocation is fine for ad-hoc runs.
		cfg = config.Default()
	}

	if flag.NArg() > 0 {
		cfg.Roots = flag.Args()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := observability.InitTracing(ctx, cfg.Observe.OTLPEndpoint, VERSION)
	if err != nil {
		slog.Warn("tracing disabled", "error", err)
	} else {
		defer func() {
			if err := shutdownTracing(context.Background()); err != nil {
				slog.Warn("trace shutdown failed", "error", err)
			}
		}()
	}

	app, err := NewApp(cfg)
	if err != nil {
		slog.Error("failed to initialize", "error", err)
		os.Exit(1)
	}
	defer app.Close()

	switch {
	case *uses != "":
		importers, err := app.Uses(ctx, *uses)
		if err != nil {
			slog.Error("query failed", "error", err)
			os.Exit(1)
		}
		for _, p := range importers {
			fmt.Println(p)
		}
		return
	case *usesSymbol != "":
		usages, err := app.UsesSymbol(ctx, *usesSymbol)
		if err != nil {
			slog.Error("query failed", "error", err)
			os.Exit(1)
		}
		for _, u := range usages {
			fmt.Printf("%s:%d\n", u.File, u.Line)
		}
		return
	case *exports:
		catalog, err := app.Exports(ctx)
		if err != nil {
			slog.Error("query failed", "error", err)
			os.Exit(1)
		}
		if err := app.writer.WriteExports(os.Stdout, catalog); err != nil {
			slog.Error("failed to write exports", "error", err)
			os.Exit(1)
		}
		return
	case *historyN > 0:
		runs, err := app.History(*historyN)
		if err != nil {
			slog.Error("failed to load run history", "error", err)
			os.Exit(1)
		}
		if err := app.writer.WriteHistory(os.Stdout, runs); err != nil {
			slog.Error("failed to write history", "error", err)
			os.Exit(1)
		}
		return
	}

	if *serveMetrics {
		server := observability.NewServer(cfg.Observe.Addr, app.Health)
		if err := server.Start(ctx); err != nil {
			slog.Error("failed to start observability server", "error", err)
			os.Exit(1)
		}
		defer server.Stop(context.Background())
	}

	if err := runAndReport(ctx, app); err != nil {
		slog.Error("analysis failed", "error", err)
		os.Exit(1)
	}

	if *once || !*watch {
		return
	}

	runs := make(chan struct{}, 1)
	w, err := watcher.NewWatcher(app.parser, cfg.Watch.Debounce, cfg.Exclude.Dirs, cfg.Exclude.Files, func(paths []string) {
		slog.Info("changes detected", "files", len(paths))
		select {
		case runs <- struct{}{}:
		default:
		}
	})
	if err != nil {
		slog.Error("failed to create watcher", "error", err)
		os.Exit(1)
	}
	defer w.Close()

	if err := w.Watch(cfg.Roots); err != nil {
		slog.Error("failed to watch roots", "error", err)
		os.Exit(1)
	}
	slog.Info("watching for changes", "roots", cfg.Roots)

	for {
		select {
		case <-ctx.Done():
			slog.Info("shutting down")
			return
		case <-runs:
			if err := runAndReport(ctx, app); err != nil {
				slog.Error("analysis failed", "error", err)
			}
		}
	}
}

func runAndReport(ctx context.Context, app *App) error {
	snap, err := app.Run(ctx)
	if err != nil {
		return err
	}
	if *jsonOut {
		return app.writer.WriteJSON(os.Stdout, snap)
	}
	return app.writer.WriteText(os.Stdout, snap)
}
