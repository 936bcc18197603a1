// Package services – SearchCache
//
// Memoizes ranked search results per (corrected query, limit, language)
// triple. Eviction is flush-all: once the entry count exceeds the
// configured threshold, the whole cache is cleared before the new entry is
// inserted. Do not swap this for LRU; that changes the observable latency
// profile after a flush.
package services

import (
	"sync"

	"github.com/tbourn/go-movie-backend/internal/domain"
)

// cacheKey identifies one memoized result set. Query is the corrected,
// lower-cased query string: correction happens before the cache lookup,
// so variant spellings share an entry; expansion and prefix cleaning
// happen after and are not part of the key.
type cacheKey struct {
	query    string
	limit    int
	language string
}

// SearchCache is a mutex-guarded map with flush-all eviction. Safe for
// concurrent use. A non-positive max disables caching entirely.
type SearchCache struct {
	mu      sync.Mutex
	max     int
	entries map[cacheKey][]domain.ScoredMovie
}

// NewSearchCache returns a cache that flushes wholesale once it holds
// more than max entries. max <= 0 disables the cache.
func NewSearchCache(max int) *SearchCache {
	return &SearchCache{
		max:     max,
		entries: make(map[cacheKey][]domain.ScoredMovie),
	}
}

// Get returns the cached result for the key, if present.
func (sc *SearchCache) Get(query string, limit int, language string) ([]domain.ScoredMovie, bool) {
	if sc.max <= 0 {
		return nil, false
	}
	key := cacheKey{query: query, limit: limit, language: language}
	sc.mu.Lock()
	v, ok := sc.entries[key]
	sc.mu.Unlock()
	return v, ok
}

// Put stores a result. The size check, the possible full clear, and the
// insert form one critical section: two goroutines must never both
// observe "over threshold" and clear a cache the other just repopulated.
func (sc *SearchCache) Put(query string, limit int, language string, results []domain.ScoredMovie) {
	if sc.max <= 0 {
		return
	}
	key := cacheKey{query: query, limit: limit, language: language}
	sc.mu.Lock()
	if len(sc.entries) > sc.max {
		sc.entries = make(map[cacheKey][]domain.ScoredMovie)
	}
	sc.entries[key] = results
	sc.mu.Unlock()
}

// Flush drops every entry. Called when a new corpus snapshot is published.
func (sc *SearchCache) Flush() {
	sc.mu.Lock()
	sc.entries = make(map[cacheKey][]domain.ScoredMovie)
	sc.mu.Unlock()
}

// Len reports the current entry count.
func (sc *SearchCache) Len() int {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	return len(sc.entries)
}
