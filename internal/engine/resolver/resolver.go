package resolver

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// FileSystem is the minimal disk surface the resolver needs. Tests provide
// an in-memory implementation; production code uses the os-backed default.
type FileSystem interface {
	Stat(path string) (fs.FileInfo, error)
}

type osFS struct{}

func (osFS) Stat(path string) (fs.FileInfo, error) { return os.Stat(path) }

// OSFileSystem returns the real-disk FileSystem.
func OSFileSystem() FileSystem { return osFS{} }

// compiledSwap maps compiled-output extensions to the source extension a
// project typically authors. TypeScript emits .js for .ts sources, so an
// import of './util.js' frequently means the on-disk file './util.ts'.
var compiledSwap = map[string]string{
	".js":  ".ts",
	".jsx": ".tsx",
	".mjs": ".mts",
	".cjs": ".cts",
}

// DefaultExtensions is the probe order for extension-less specifiers.
// Source extensions come before compiled ones so a checked-in build
// artifact never shadows its source.
var DefaultExtensions = []string{
	".ts", ".tsx", ".mts", ".cts",
	".js", ".jsx", ".mjs", ".cjs",
}

type cacheKey struct {
	dir       string
	specifier string
}

// Resolver maps relative import specifiers to absolute file paths. All
// probe results are memoized for the lifetime of the resolver, which is
// one analysis run; a fresh run builds a fresh resolver.
type Resolver struct {
	fsys       FileSystem
	extensions []string

	mu    sync.Mutex
	cache map[cacheKey]string
}

func New(fsys FileSystem, extensions []string) *Resolver {
	if fsys == nil {
		fsys = OSFileSystem()
	}
	if len(extensions) == 0 {
		extensions = DefaultExtensions
	}
	return &Resolver{
		fsys:       fsys,
		extensions: extensions,
		cache:      make(map[cacheKey]string),
	}
}

// IsRelative reports whether the specifier addresses a file inside the
// project. Anything not starting with './', '../' or '/' is treated as an
// external package and never resolved against the tree.
func IsRelative(specifier string) bool {
	return strings.HasPrefix(specifier, "./") ||
		strings.HasPrefix(specifier, "../") ||
		strings.HasPrefix(specifier, "/")
}

// Resolve maps specifier, as written in importingFile, to the absolute
// path of the target file. It returns "" when the specifier is external
// or no probe matches.
func (r *Resolver) Resolve(importingFile, specifier string) string {
	if !IsRelative(specifier) {
		return ""
	}

	dir := filepath.Dir(importingFile)
	key := cacheKey{dir: dir, specifier: specifier}

	r.mu.Lock()
	if resolved, ok := r.cache[key]; ok {
		r.mu.Unlock()
		return resolved
	}
	r.mu.Unlock()

	resolved := r.probe(dir, specifier)

	r.mu.Lock()
	r.cache[key] = resolved
	r.mu.Unlock()
	return resolved
}

func (r *Resolver) probe(dir, specifier string) string {
	candidate := specifier
	if !filepath.IsAbs(candidate) {
		candidate = filepath.Join(dir, specifier)
	}
	candidate = filepath.Clean(candidate)

	// Exact match first: the specifier already names a real file.
	if r.isFile(candidate) {
		return candidate
	}

	// Compiled-extension swap: './util.js' written against 'util.ts'.
	ext := filepath.Ext(candidate)
	if source, ok := compiledSwap[ext]; ok {
		swapped := strings.TrimSuffix(candidate, ext) + source
		if r.isFile(swapped) {
			return swapped
		}
	}

	// Extension-less specifier: probe candidate+ext in priority order.
	for _, probeExt := range r.extensions {
		if r.isFile(candidate + probeExt) {
			return candidate + probeExt
		}
	}

	// Directory import: candidate/index+ext.
	for _, probeExt := range r.extensions {
		indexPath := filepath.Join(candidate, "index"+probeExt)
		if r.isFile(indexPath) {
			return indexPath
		}
	}

	return ""
}

func (r *Resolver) isFile(path string) bool {
	info, err := r.fsys.Stat(path)
	return err == nil && !info.IsDir()
}
