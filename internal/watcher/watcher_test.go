package watcher

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

type tsFilter struct{}

func (tsFilter) IsSupportedPath(path string) bool {
	ext := filepath.Ext(path)
	return ext == ".ts" || ext == ".js"
}

func TestWatcher(t *testing.T) {
	tmpDir := t.TempDir()

	changedFiles := make(chan []string, 1)
	w, err := NewWatcher(tsFilter{}, 100*time.Millisecond, []string{"node_modules"}, []string{"*.min.js"}, func(paths []string) {
		changedFiles <- paths
	})
	if err != nil {
		t.Fatal(err)
	}
	defer w.Close()

	if err := w.Watch([]string{tmpDir}); err != nil {
		t.Fatal(err)
	}

	// Create a supported file
	testFile := filepath.Join(tmpDir, "app.ts")
	os.WriteFile(testFile, []byte("export const x = 1;"), 0644)

	select {
	case paths := <-changedFiles:
		found := false
		for _, p := range paths {
			if p == testFile {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("expected %s in changed files %v", testFile, paths)
		}
	case <-time.After(2 * time.Second):
		t.Error("timed out waiting for file change event")
	}

	// Unsupported extension must not trigger
	os.WriteFile(filepath.Join(tmpDir, "notes.md"), []byte("# notes"), 0644)
	// Excluded pattern must not trigger
	os.WriteFile(filepath.Join(tmpDir, "bundle.min.js"), []byte(";"), 0644)

	select {
	case paths := <-changedFiles:
		for _, p := range paths {
			base := filepath.Base(p)
			if base == "notes.md" || base == "bundle.min.js" {
				t.Errorf("filtered file triggered event: %s", p)
			}
		}
	case <-time.After(500 * time.Millisecond):
		// Expected
	}

	// New directory should be recursively watched after create.
	subdir := filepath.Join(tmpDir, "feature")
	if err := os.MkdirAll(subdir, 0755); err != nil {
		t.Fatal(err)
	}
	subFile := filepath.Join(subdir, "nested.ts")
	if err := os.WriteFile(subFile, []byte("export {}"), 0644); err != nil {
		t.Fatal(err)
	}

	foundNested := false
	timeout := time.After(2 * time.Second)
	for !foundNested {
		select {
		case paths := <-changedFiles:
			for _, p := range paths {
				if p == subFile {
					foundNested = true
				}
			}
		case <-timeout:
			t.Fatal("timed out waiting for nested file event")
		}
	}
}

func TestWatcher_DebounceBatchesEvents(t *testing.T) {
	tmpDir := t.TempDir()

	batches := make(chan []string, 8)
	w, err := NewWatcher(tsFilter{}, 200*time.Millisecond, nil, nil, func(paths []string) {
		batches <- paths
	})
	if err != nil {
		t.Fatal(err)
	}
	defer w.Close()

	if err := w.Watch([]string{tmpDir}); err != nil {
		t.Fatal(err)
	}

	// Burst of writes inside one debounce window.
	for _, name := range []string{"a.ts", "b.ts", "c.ts"} {
		os.WriteFile(filepath.Join(tmpDir, name), []byte("export {}"), 0644)
	}

	select {
	case paths := <-batches:
		if len(paths) < 2 {
			t.Errorf("expected batched paths, got %v", paths)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for batch")
	}
}
