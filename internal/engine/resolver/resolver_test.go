package resolver

import (
	"io/fs"
	"testing"
	"time"
)

type fakeInfo struct {
	name string
	dir  bool
}

func (f fakeInfo) Name() string       { return f.name }
func (f fakeInfo) Size() int64        { return 0 }
func (f fakeInfo) Mode() fs.FileMode  { return 0 }
func (f fakeInfo) ModTime() time.Time { return time.Time{} }
func (f fakeInfo) IsDir() bool        { return f.dir }
func (f fakeInfo) Sys() any           { return nil }

type fakeFS struct {
	files map[string]bool // path -> isDir
	stats int
}

func newFakeFS(files []string, dirs []string) *fakeFS {
	m := make(map[string]bool)
	for _, f := range files {
		m[f] = false
	}
	for _, d := range dirs {
		m[d] = true
	}
	return &fakeFS{files: m}
}

func (f *fakeFS) Stat(path string) (fs.FileInfo, error) {
	f.stats++
	isDir, ok := f.files[path]
	if !ok {
		return nil, fs.ErrNotExist
	}
	return fakeInfo{name: path, dir: isDir}, nil
}

func TestResolve_ExactFile(t *testing.T) {
	fsys := newFakeFS([]string{"/proj/src/util.ts"}, nil)
	r := New(fsys, nil)

	got := r.Resolve("/proj/src/app.ts", "./util.ts")
	if got != "/proj/src/util.ts" {
		t.Errorf("expected exact match, got %q", got)
	}
}

func TestResolve_CompiledExtensionSwap(t *testing.T) {
	cases := []struct {
		specifier string
		onDisk    string
	}{
		{"./util.js", "/proj/src/util.ts"},
		{"./view.jsx", "/proj/src/view.tsx"},
		{"./mod.mjs", "/proj/src/mod.mts"},
		{"./legacy.cjs", "/proj/src/legacy.cts"},
	}
	for _, tc := range cases {
		fsys := newFakeFS([]string{tc.onDisk}, nil)
		r := New(fsys, nil)
		if got := r.Resolve("/proj/src/app.ts", tc.specifier); got != tc.onDisk {
			t.Errorf("%s: expected %q, got %q", tc.specifier, tc.onDisk, got)
		}
	}
}

func TestResolve_ExtensionPriority(t *testing.T) {
	// Both source and compiled exist; source must win.
	fsys := newFakeFS([]string{"/proj/src/util.ts", "/proj/src/util.js"}, nil)
	r := New(fsys, nil)

	if got := r.Resolve("/proj/src/app.ts", "./util"); got != "/proj/src/util.ts" {
		t.Errorf("expected source extension to win, got %q", got)
	}
}

func TestResolve_DirectoryIndex(t *testing.T) {
	fsys := newFakeFS(
		[]string{"/proj/src/lib/index.ts"},
		[]string{"/proj/src/lib"},
	)
	r := New(fsys, nil)

	if got := r.Resolve("/proj/src/app.ts", "./lib"); got != "/proj/src/lib/index.ts" {
		t.Errorf("expected index resolution, got %q", got)
	}
}

func TestResolve_ParentTraversal(t *testing.T) {
	fsys := newFakeFS([]string{"/proj/shared/types.ts"}, nil)
	r := New(fsys, nil)

	if got := r.Resolve("/proj/src/app.ts", "../shared/types"); got != "/proj/shared/types.ts" {
		t.Errorf("expected parent traversal, got %q", got)
	}
}

func TestResolve_ExternalSpecifier(t *testing.T) {
	fsys := newFakeFS([]string{"/proj/node_modules/react/index.js"}, nil)
	r := New(fsys, nil)

	for _, spec := range []string{"react", "lodash/merge", "@scope/pkg"} {
		if got := r.Resolve("/proj/src/app.ts", spec); got != "" {
			t.Errorf("%s: external specifier must not resolve, got %q", spec, got)
		}
	}
	if fsys.stats != 0 {
		t.Errorf("external specifiers must not touch the filesystem, saw %d stats", fsys.stats)
	}
}

func TestResolve_Unresolvable(t *testing.T) {
	fsys := newFakeFS(nil, nil)
	r := New(fsys, nil)

	if got := r.Resolve("/proj/src/app.ts", "./missing"); got != "" {
		t.Errorf("expected empty result for missing target, got %q", got)
	}
}

func TestResolve_ProbeMemoization(t *testing.T) {
	fsys := newFakeFS([]string{"/proj/src/util.ts"}, nil)
	r := New(fsys, nil)

	r.Resolve("/proj/src/app.ts", "./util")
	statsAfterFirst := fsys.stats
	r.Resolve("/proj/src/other.ts", "./util") // same dir, same specifier
	if fsys.stats != statsAfterFirst {
		t.Errorf("expected cached probe, stats went %d -> %d", statsAfterFirst, fsys.stats)
	}

	// A different importing directory is a distinct probe.
	r.Resolve("/proj/lib/app.ts", "./util")
	if fsys.stats == statsAfterFirst {
		t.Error("expected fresh probes for a new directory")
	}
}

func TestResolve_DirectoryIsNotAFile(t *testing.T) {
	// './util' names a directory with no index file; must not resolve to it.
	fsys := newFakeFS(nil, []string{"/proj/src/util"})
	r := New(fsys, nil)

	if got := r.Resolve("/proj/src/app.ts", "./util"); got != "" {
		t.Errorf("directory without index must not resolve, got %q", got)
	}
}

func TestIsRelative(t *testing.T) {
	relative := []string{"./a", "../a", "/abs/a"}
	external := []string{"react", "@scope/pkg", "lodash/merge"}

	for _, s := range relative {
		if !IsRelative(s) {
			t.Errorf("%s should be relative", s)
		}
	}
	for _, s := range external {
		if IsRelative(s) {
			t.Errorf("%s should be external", s)
		}
	}
}
