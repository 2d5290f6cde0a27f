package parser

import (
	"sync"
)

// SourceParser is the collaborator contract the cache wraps. It must be
// deterministic for identical input; the cache does not assume the parser
// memoizes anything itself.
type SourceParser interface {
	ParseFile(path string, content []byte) (*File, error)
}

// ParseCache memoizes parse results per absolute path for the duration of
// one analysis run. It is owned by the run that created it and discarded
// with it; there is no process-wide cache, so concurrent runs and tests
// stay isolated.
//
// Lookups are single-flight: when several goroutines request the same path
// the parser is invoked exactly once and the rest wait for that result.
type ParseCache struct {
	parser SourceParser

	mu      sync.Mutex
	entries map[string]*cacheEntry
}

type cacheEntry struct {
	once sync.Once
	file *File
	err  error
}

func NewParseCache(parser SourceParser) *ParseCache {
	return &ParseCache{
		parser:  parser,
		entries: make(map[string]*cacheEntry),
	}
}

// Get returns the parsed file for path, invoking the underlying parser at
// most once per path per run.
func (c *ParseCache) Get(path string) (*File, error) {
	c.mu.Lock()
	entry, ok := c.entries[path]
	if !ok {
		entry = &cacheEntry{}
		c.entries[path] = entry
	}
	c.mu.Unlock()

	entry.once.Do(func() {
		entry.file, entry.err = c.parser.ParseFile(path, nil)
	})
	return entry.file, entry.err
}

// Len reports how many distinct paths have been requested.
func (c *ParseCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
