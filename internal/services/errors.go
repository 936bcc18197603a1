// Package services implements the application layer of the movie search
// backend: the MovieService engine that owns the corpus/index snapshot,
// the result cache, and the random-sample fallback. This file centralizes
// service-level error values so they can be consistently returned by
// service methods and checked by callers.
//
// Translation into HTTP status codes is performed at the handler layer.
// "Nothing matched" is never an error here: an empty corpus or a query
// that reduces to no known vocabulary terms yields a normal (fallback)
// result, while an unknown movie id is always surfaced as ErrMovieNotFound
// so callers can distinguish a caller bug from an empty result.
package services

import "errors"

var (
	// ErrMovieNotFound indicates that the requested movie id is not part
	// of the current corpus snapshot.
	ErrMovieNotFound = errors.New("movie not found")

	// ErrInvalidLimit is returned when a caller passes a negative result
	// limit.
	ErrInvalidLimit = errors.New("limit must be >= 0")
)
