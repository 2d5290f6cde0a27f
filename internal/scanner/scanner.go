package scanner

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/gobwas/glob"

	"depscope/internal/core/errors"
	"depscope/internal/shared/observability"
)

// PathFilter decides whether a file belongs to the analysis. The parser's
// extension registry satisfies it.
type PathFilter interface {
	IsSupportedPath(path string) bool
}

// Scanner walks the configured roots and selects the source files one run
// analyzes.
type Scanner struct {
	filter    PathFilter
	dirGlobs  []glob.Glob
	fileGlobs []glob.Glob
}

func New(filter PathFilter, excludeDirs, excludeFiles []string) (*Scanner, error) {
	s := &Scanner{filter: filter}

	for _, p := range excludeDirs {
		g, err := glob.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("invalid exclude dir pattern %q: %w", p, err)
		}
		s.dirGlobs = append(s.dirGlobs, g)
	}
	for _, p := range excludeFiles {
		g, err := glob.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("invalid exclude file pattern %q: %w", p, err)
		}
		s.fileGlobs = append(s.fileGlobs, g)
	}
	return s, nil
}

// Scan returns the sorted absolute paths of every supported file under
// roots. A root that does not exist is an error; unreadable entries below
// an existing root are skipped.
func (s *Scanner) Scan(roots []string) ([]string, error) {
	seen := make(map[string]bool)
	var files []string

	for _, root := range roots {
		absRoot, err := filepath.Abs(root)
		if err != nil {
			return nil, errors.AddContext(
				errors.Wrap(err, errors.CodeFileAccess, "resolve scan root"),
				errors.CtxPath, root)
		}
		if _, err := os.Stat(absRoot); err != nil {
			return nil, errors.AddContext(
				errors.Wrap(err, errors.CodeNotFound, "scan root does not exist"),
				errors.CtxPath, absRoot)
		}

		err = filepath.WalkDir(absRoot, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return nil
			}

			base := filepath.Base(path)
			if d.IsDir() {
				for _, g := range s.dirGlobs {
					if g.Match(base) {
						return filepath.SkipDir
					}
				}
				return nil
			}

			if !s.filter.IsSupportedPath(path) {
				return nil
			}
			for _, g := range s.fileGlobs {
				if g.Match(base) {
					return nil
				}
			}

			if !seen[path] {
				seen[path] = true
				files = append(files, path)
			}
			return nil
		})
		if err != nil {
			return nil, errors.AddContext(
				errors.Wrap(err, errors.CodeFileAccess, "walk scan root"),
				errors.CtxPath, absRoot)
		}
	}

	sort.Strings(files)
	observability.ScannedFiles.Set(float64(len(files)))
	return files, nil
}
