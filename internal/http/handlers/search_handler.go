// Search HTTP handlers.
//
// This file exposes the content-search endpoint:
//   - GET /search?query=...&limit=...&language=...
//
// Handlers are transport-thin: they validate input, call application services,
// and translate results into HTTP responses.
package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-movie-backend/internal/domain"
	"github.com/tbourn/go-movie-backend/internal/services"
	"github.com/tbourn/go-movie-backend/internal/utils"
)

//
// Service contracts (context-aware)
//

// MovieService defines the search and catalog operations consumed by HTTP
// handlers.
//
// Implementations should be safe for concurrent use and must honor the
// provided context for cancellation and timeouts.
type MovieService interface {
	// Search ranks the catalog against a free-text query.
	Search(ctx context.Context, query string, limit int, language string) ([]domain.ScoredMovie, error)
	// Recommend returns movies similar to the given movie id.
	Recommend(ctx context.Context, id, limit int, language string) ([]domain.ScoredMovie, error)
	// RandomSample returns a uniform random selection from the catalog.
	RandomSample(ctx context.Context, limit int, language string) ([]domain.ScoredMovie, error)
	// GetMovie looks up a single movie by id.
	GetMovie(ctx context.Context, id int) (*domain.Movie, error)
	// Languages lists the distinct language codes present in the catalog.
	Languages() []string
	// Count reports the catalog size.
	Count() int
}

// TrailerSource looks up trailer video keys for catalog movies. It is an
// optional dependency: deployments without TMDB credentials run without
// the trailer endpoint.
type TrailerSource interface {
	// MovieTrailer returns the YouTube key of the movie's trailer, or ""
	// when none is listed.
	MovieTrailer(ctx context.Context, id int) (string, error)
}

//
// Handler wiring
//

// Handlers groups the HTTP endpoints for search, movies, and recommendations.
// It depends on an abstract service interface to keep transport concerns
// separate from ranking logic.
type Handlers struct {
	svc MovieService

	// DefaultLimit is used when the client omits ?limit. Zero falls back to 5.
	DefaultLimit int

	// Trailers serves the trailer endpoint when set; nil disables it.
	Trailers TrailerSource
}

// New constructs and returns a Handlers instance bound to the given service.
func New(svc MovieService) *Handlers {
	return &Handlers{svc: svc}
}

// limitParam parses ?limit, applying the configured default when absent.
// Negative values are passed through so the service can reject them.
func (h *Handlers) limitParam(c *gin.Context) int {
	def := h.DefaultLimit
	if def <= 0 {
		def = 5
	}
	return utils.AtoiDefault(c.Query("limit"), def)
}

//
// DTOs
//

// SearchResponse wraps ranked search results.
type SearchResponse struct {
	// Query echoes the raw query string as received.
	Query string `json:"query"`
	// Results are ordered by descending similarity.
	Results []domain.ScoredMovie `json:"results"`
	Count   int                  `json:"count"`
}

//
// Handlers
//

// SearchMovies godoc
// @ID          searchMovies
// @Summary     Search the movie catalog
// @Description Ranks the catalog against a free-text query using TF-IDF similarity with intent boosting. Queries with no recognizable signal return a random sample with similarity 0.
// @Tags        Search
// @Produce     json
//
// @Param       query     query  string  true   "Free-text query"              example(scary movies from the 80s)
// @Param       limit     query  int     false  "Maximum results"              minimum(0) default(5)
// @Param       language  query  string  false  "Filter by language code"      example(en)
//
// @Success     200  {object}  handlers.SearchResponse
// @Failure     400  {object}  handlers.ErrorResponse  "Bad request"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /search [get]
func (h *Handlers) SearchMovies(c *gin.Context) {
	query := c.Query("query")
	if strings.TrimSpace(query) == "" {
		// Treated as a browse request downstream (random sample), but an
		// entirely absent parameter is a client mistake worth flagging.
		if _, present := c.GetQuery("query"); !present {
			fail(c, http.StatusBadRequest, ErrCodeBadRequest, "missing required query parameter")
			return
		}
	}
	limit := h.limitParam(c)
	language := strings.TrimSpace(c.Query("language"))

	results, err := h.svc.Search(c.Request.Context(), query, limit, language)
	if err != nil {
		if errors.Is(err, services.ErrInvalidLimit) {
			fail(c, http.StatusBadRequest, ErrCodeBadRequest, err.Error())
			return
		}
		fail(c, http.StatusInternalServerError, ErrCodeSearchFailed, err.Error())
		return
	}
	ok(c, http.StatusOK, SearchResponse{Query: query, Results: results, Count: len(results)})
}
