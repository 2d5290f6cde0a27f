package scanner

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"

	"depscope/internal/core/errors"
)

type extFilter struct{}

func (extFilter) IsSupportedPath(path string) bool {
	switch filepath.Ext(path) {
	case ".ts", ".tsx", ".js":
		return true
	}
	return false
}

func writeFiles(t *testing.T, root string, paths []string) {
	t.Helper()
	for _, p := range paths {
		full := filepath.Join(root, p)
		if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(full, []byte("export const x = 1;\n"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
}

func TestScan_FiltersAndSorts(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, []string{
		"src/b.ts",
		"src/a.ts",
		"src/view.tsx",
		"src/readme.md",
		"node_modules/pkg/index.js",
		"dist/bundle.js",
	})

	s, err := New(extFilter{}, []string{"node_modules", "dist"}, nil)
	if err != nil {
		t.Fatal(err)
	}

	files, err := s.Scan([]string{root})
	if err != nil {
		t.Fatalf("scan: %v", err)
	}

	if !sort.StringsAreSorted(files) {
		t.Errorf("result must be sorted: %v", files)
	}
	if len(files) != 3 {
		t.Fatalf("expected 3 files, got %v", files)
	}
	for _, f := range files {
		if !filepath.IsAbs(f) {
			t.Errorf("expected absolute path, got %s", f)
		}
		if strings.Contains(f, "node_modules") || strings.Contains(f, "dist") {
			t.Errorf("excluded dir leaked into result: %s", f)
		}
	}
}

func TestScan_FileExcludes(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, []string{"src/app.ts", "src/app.min.js"})

	s, err := New(extFilter{}, nil, []string{"*.min.js"})
	if err != nil {
		t.Fatal(err)
	}

	files, err := s.Scan([]string{root})
	if err != nil {
		t.Fatal(err)
	}
	if len(files) != 1 || filepath.Base(files[0]) != "app.ts" {
		t.Errorf("expected only app.ts, got %v", files)
	}
}

func TestScan_MissingRoot(t *testing.T) {
	s, err := New(extFilter{}, nil, nil)
	if err != nil {
		t.Fatal(err)
	}

	_, err = s.Scan([]string{"/nonexistent/depscope-test-root"})
	if err == nil {
		t.Fatal("expected error for missing root")
	}
	if !errors.IsCode(err, errors.CodeNotFound) {
		t.Errorf("expected NOT_FOUND, got %v", err)
	}
}

func TestScan_OverlappingRootsDeduplicate(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, []string{"src/a.ts"})

	s, err := New(extFilter{}, nil, nil)
	if err != nil {
		t.Fatal(err)
	}

	files, err := s.Scan([]string{root, filepath.Join(root, "src")})
	if err != nil {
		t.Fatal(err)
	}
	if len(files) != 1 {
		t.Errorf("expected deduplicated result, got %v", files)
	}
}

func TestNew_InvalidPattern(t *testing.T) {
	if _, err := New(extFilter{}, []string{"[bad"}, nil); err == nil {
		t.Fatal("expected error for invalid glob")
	}
}
