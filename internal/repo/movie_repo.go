// Package repo implements the data persistence layer for the movie
// catalog, backed by GORM. This file provides repository functions for
// the Movie model.
//
// All functions are context-aware and accept a *gorm.DB handle, making
// them safe for use within transactions. They follow the "thin
// repository" approach: no business logic, only CRUD persistence and
// query composition. Corpus semantics (ordering as row identity, index
// rebuilds) live in the service layer.
//
// Error semantics:
//   - When a movie is not found, functions return gorm.ErrRecordNotFound
//     (also exported here as ErrNotFound for convenience).
//   - On DB errors the raw gorm error is propagated.
package repo

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/tbourn/go-movie-backend/internal/domain"
)

// ErrNotFound is returned when a requested record does not exist.
// It aliases gorm.ErrRecordNotFound for consistency across layers.
var ErrNotFound = gorm.ErrRecordNotFound

// batchSize bounds multi-row inserts so large ingestion runs do not
// exceed SQLite's bound-variable limit.
const batchSize = 200

// ListMovies returns the whole catalog ordered by primary key. The order
// is stable across calls, which keeps index row identity reproducible
// between process restarts.
func ListMovies(ctx context.Context, db *gorm.DB) ([]domain.Movie, error) {
	var out []domain.Movie
	err := db.WithContext(ctx).Order("id ASC").Find(&out).Error
	return out, err
}

// CountMovies returns the catalog size.
func CountMovies(ctx context.Context, db *gorm.DB) (int64, error) {
	var n int64
	err := db.WithContext(ctx).Model(&domain.Movie{}).Count(&n).Error
	return n, err
}

// GetMovie fetches one movie by id, or ErrNotFound.
func GetMovie(ctx context.Context, db *gorm.DB, id int) (*domain.Movie, error) {
	var m domain.Movie
	if err := db.WithContext(ctx).First(&m, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &m, nil
}

// UpsertMovies inserts or replaces movies in batches. Ingestion runs are
// idempotent: re-fetching the same TMDB page overwrites rows in place
// rather than duplicating them.
func UpsertMovies(ctx context.Context, db *gorm.DB, movies []domain.Movie) error {
	if len(movies) == 0 {
		return nil
	}
	return db.WithContext(ctx).
		Clauses(clause.OnConflict{UpdateAll: true}).
		CreateInBatches(movies, batchSize).Error
}

// ReplaceMovies swaps the whole catalog for a new one in a single
// transaction, so a crashed ingestion run never leaves a half-written
// corpus behind.
func ReplaceMovies(ctx context.Context, db *gorm.DB, movies []domain.Movie) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&domain.Movie{}).Error; err != nil {
			return err
		}
		if len(movies) == 0 {
			return nil
		}
		return tx.CreateInBatches(movies, batchSize).Error
	})
}
