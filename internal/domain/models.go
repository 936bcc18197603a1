// Package domain defines the movie catalog models shared by the search
// engine, the persistence layer, and the HTTP API. Movie rows are mapped
// with GORM and mirror the record shape produced by the TMDB ingestion
// pipeline.
package domain

import (
	"strconv"
	"strings"
)

// Movie is a single catalog entry. Movies are immutable once stored: the
// ingestion pipeline computes the derived Document string exactly once and
// the search core treats every field as read-only.
//
// Fields:
//   - ID: TMDB movie id, stable identity and primary key.
//   - Title / OriginalTitle / Overview: free text from TMDB.
//   - Genres / Cast / Keywords: display-ordered string lists (JSON columns).
//   - Director: single name, may be empty when TMDB lists no director.
//   - Language: original-language code ("en", "hi"); used only for
//     exact-match filtering.
//   - ReleaseDate: ISO date string; only the leading 4-digit year matters.
//   - Document: concatenation of title, original title, overview, genres,
//     director, cast and keywords. This is the only text the index sees.
//   - VoteAverage / Runtime / PosterPath: display-only, never ranked on.
type Movie struct {
	ID            int      `json:"id"             gorm:"primaryKey"`
	Title         string   `json:"title"          gorm:"type:varchar(255);not null"`
	OriginalTitle string   `json:"original_title" gorm:"type:varchar(255)"`
	Overview      string   `json:"overview"       gorm:"type:text"`
	Genres        []string `json:"genres"         gorm:"serializer:json"`
	Director      string   `json:"director"       gorm:"type:varchar(128)"`
	Cast          []string `json:"cast"           gorm:"serializer:json"`
	Keywords      []string `json:"keywords"       gorm:"serializer:json"`
	Language      string   `json:"language"       gorm:"type:varchar(8);index"`
	ReleaseDate   string   `json:"release_date"   gorm:"type:varchar(10)"`
	Document      string   `json:"document"       gorm:"type:text"`
	VoteAverage   float64  `json:"vote_average"`
	Runtime       int      `json:"runtime"`
	PosterPath    string   `json:"poster_path"`
}

// TableName returns the database table name for Movie.
func (Movie) TableName() string { return "movies" }

// Year returns the release year parsed from the leading four digits of
// ReleaseDate, or 0 when the date is missing or malformed.
func (m *Movie) Year() int {
	if len(m.ReleaseDate) < 4 {
		return 0
	}
	y, err := strconv.Atoi(m.ReleaseDate[:4])
	if err != nil {
		return 0
	}
	return y
}

// BuildDocument assembles the derived search document from the metadata
// fields. The ingestion pipeline calls this once per movie; the search
// core never recomputes it.
func BuildDocument(m *Movie) string {
	parts := []string{
		m.Title,
		m.OriginalTitle,
		m.Overview,
		strings.Join(m.Genres, " "),
		m.Director,
		strings.Join(m.Cast, " "),
		strings.Join(m.Keywords, " "),
	}
	return strings.Join(parts, " ")
}

// ScoredMovie pairs a movie with its similarity score for API responses.
// Score is the final ranking score (cosine similarity times any intent
// boost), or 0.0 for random-sample results.
type ScoredMovie struct {
	Movie
	Score float64 `json:"similarity"`
}
