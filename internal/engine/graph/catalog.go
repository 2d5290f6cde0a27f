package graph

import (
	"context"
	"log/slog"
	"sync"

	"depscope/internal/engine/parser"
	"depscope/internal/shared/observability"
)

// FileParser supplies parsed modules to the builder. *parser.ParseCache
// satisfies it; tests plug in canned files instead.
type FileParser interface {
	Get(path string) (*parser.File, error)
}

// loadFiles parses every path with a bounded worker pool and returns the
// export catalog input. A file that fails to parse stays in the run as a
// node with no exports and no imports; the failure becomes a warning.
// Cancellation and a limiter that cannot satisfy the context deadline abort
// the run with an error; a partial catalog is never returned, since the
// builder dereferences an entry for every path.
func (b *Builder) loadFiles(ctx context.Context, paths []string) (map[string]*parser.File, []Warning, error) {
	files := make(map[string]*parser.File, len(paths))
	var warnings []Warning

	var mu sync.Mutex
	var wg sync.WaitGroup
	sem := make(chan struct{}, b.concurrency)

	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			wg.Wait()
			return nil, nil, err
		}
		if b.limiter != nil {
			if err := b.limiter.Wait(ctx, 1); err != nil {
				wg.Wait()
				return nil, nil, err
			}
		}

		wg.Add(1)
		sem <- struct{}{}
		go func(path string) {
			defer wg.Done()
			defer func() { <-sem }()

			file, err := b.parser.Get(path)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				slog.Warn("failed to parse file", "path", path, "error", err)
				observability.BuildWarnings.Inc()
				warnings = append(warnings, Warning{
					Path:    path,
					Message: "parse failure: " + err.Error(),
				})
				files[path] = &parser.File{Path: path}
				return
			}
			files[path] = file
		}(path)
	}
	wg.Wait()

	return files, warnings, ctx.Err()
}
