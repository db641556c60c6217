package javaparse

import (
	"os"

	lru "github.com/hashicorp/golang-lru/v2"
)

// Arena caches parsed units keyed by file path for the lifetime of one
// analysis run. Multiple queries in a run (indexing, caller resolution,
// endpoint detection) hit the same files repeatedly; the arena makes each
// file parse at most once. Failures are cached too so a broken file costs
// one parse attempt, not one per query.
//
// An Arena must not be shared across concurrent analysis runs over a
// mutating tree; within one run it is safe because entries are immutable
// once stored.
type Arena struct {
	cache *lru.Cache[string, arenaEntry]
}

type arenaEntry struct {
	unit *Unit
	err  error
}

// DefaultArenaSize bounds the number of cached units per run.
const DefaultArenaSize = 4096

// NewArena creates an Arena holding up to size parsed units.
func NewArena(size int) *Arena {
	if size <= 0 {
		size = DefaultArenaSize
	}
	cache, err := lru.New[string, arenaEntry](size)
	if err != nil {
		// lru.New only fails on size <= 0, which is handled above.
		panic(err)
	}
	return &Arena{cache: cache}
}

// Load reads and parses the file at path, consulting the cache first.
func (a *Arena) Load(path string) (*Unit, error) {
	if e, ok := a.cache.Get(path); ok {
		return e.unit, e.err
	}
	src, err := os.ReadFile(path)
	if err != nil {
		a.cache.Add(path, arenaEntry{err: err})
		return nil, err
	}
	return a.LoadBytes(path, src)
}

// LoadBytes parses already-read source bytes, consulting the cache first.
// Callers that pre-read files for substring checks use this to avoid a
// second read.
func (a *Arena) LoadBytes(path string, src []byte) (*Unit, error) {
	if e, ok := a.cache.Get(path); ok {
		return e.unit, e.err
	}
	unit, err := Parse(path, src)
	a.cache.Add(path, arenaEntry{unit: unit, err: err})
	return unit, err
}

// Len returns the number of cached entries.
func (a *Arena) Len() int { return a.cache.Len() }

// Purge empties the cache. Called between analysis runs when the tree may
// have changed.
func (a *Arena) Purge() { a.cache.Purge() }
