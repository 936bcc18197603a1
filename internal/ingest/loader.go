// Package ingest – corpus loading helpers.
//
// The catalog normally lives in SQLite (see internal/repo); this file
// adds a JSON import path compatible with the legacy flat-file dump
// (movie_data.json) so an existing dataset can seed the database without
// re-fetching everything from TMDB.
package ingest

import (
	"context"
	"encoding/json"
	"os"

	"gorm.io/gorm"

	"github.com/tbourn/go-movie-backend/internal/domain"
	"github.com/tbourn/go-movie-backend/internal/repo"
)

// ImportJSON reads a flat-file movie dump and returns the deduplicated
// corpus. Records missing a derived document get one computed here;
// afterwards the document is treated as immutable.
func ImportJSON(path string) ([]domain.Movie, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var movies []domain.Movie
	if err := json.Unmarshal(b, &movies); err != nil {
		return nil, err
	}

	seen := make(map[int]struct{}, len(movies))
	out := make([]domain.Movie, 0, len(movies))
	for i := range movies {
		m := movies[i]
		if _, dup := seen[m.ID]; dup {
			continue
		}
		seen[m.ID] = struct{}{}
		if m.Document == "" {
			m.Document = domain.BuildDocument(&m)
			if m.Language == "hi" {
				m.Document += " bollywood hindi indian"
			}
		}
		out = append(out, m)
	}
	return out, nil
}

// SeedFromJSON imports a flat-file dump into the catalog database,
// replacing whatever is there. Returns the imported corpus.
func SeedFromJSON(ctx context.Context, db *gorm.DB, path string) ([]domain.Movie, error) {
	movies, err := ImportJSON(path)
	if err != nil {
		return nil, err
	}
	if err := repo.ReplaceMovies(ctx, db, movies); err != nil {
		return nil, err
	}
	return movies, nil
}

// LoadCorpus reads the full catalog from the database in stable id order.
func LoadCorpus(ctx context.Context, db *gorm.DB) ([]domain.Movie, error) {
	return repo.ListMovies(ctx, db)
}
