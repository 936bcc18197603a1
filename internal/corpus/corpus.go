// Package corpus holds an immutable, ordered snapshot of the movie catalog.
// The snapshot's slice order is the row identity used by the vector space
// index: row i of the index always corresponds to Items()[i]. Any change in
// size or order requires building a new Corpus and a new index; neither is
// ever mutated in place.
package corpus

import "github.com/tbourn/go-movie-backend/internal/domain"

// Corpus is a read-only, ordered collection of movies with an id lookup.
// Safe for concurrent use after construction.
type Corpus struct {
	items []domain.Movie
	byID  map[int]int // movie id -> row index
}

// New builds a Corpus from the given slice. The slice is copied so later
// mutation by the caller cannot affect the snapshot. Duplicate ids keep the
// first occurrence, matching the ingestion pipeline's dedupe-by-id rule.
func New(items []domain.Movie) *Corpus {
	cp := make([]domain.Movie, len(items))
	copy(cp, items)
	byID := make(map[int]int, len(cp))
	for i := range cp {
		if _, ok := byID[cp[i].ID]; !ok {
			byID[cp[i].ID] = i
		}
	}
	return &Corpus{items: cp, byID: byID}
}

// Len returns the number of movies in the snapshot.
func (c *Corpus) Len() int { return len(c.items) }

// Items returns the ordered movie slice. Callers must treat it as read-only.
func (c *Corpus) Items() []domain.Movie { return c.items }

// At returns the movie at row index i.
func (c *Corpus) At(i int) *domain.Movie { return &c.items[i] }

// RowOf returns the row index for a movie id, or -1 when the id is absent.
func (c *Corpus) RowOf(id int) int {
	if i, ok := c.byID[id]; ok {
		return i
	}
	return -1
}

// ByID returns the movie with the given id, or nil when absent.
func (c *Corpus) ByID(id int) *domain.Movie {
	i := c.RowOf(id)
	if i < 0 {
		return nil
	}
	return &c.items[i]
}

// Languages returns the distinct language codes present in the snapshot,
// in first-seen order.
func (c *Corpus) Languages() []string {
	seen := make(map[string]struct{}, 4)
	out := make([]string, 0, 4)
	for i := range c.items {
		l := c.items[i].Language
		if l == "" {
			continue
		}
		if _, ok := seen[l]; ok {
			continue
		}
		seen[l] = struct{}{}
		out = append(out, l)
	}
	return out
}
