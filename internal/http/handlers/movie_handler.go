// Movie catalog HTTP handlers.
//
// This file exposes REST endpoints for individual movies and catalog
// discovery:
//   - GET /movies/{id}                    (lookup)
//   - GET /movies/{id}/recommendations   (item-to-item similarity)
//   - GET /movies/{id}/trailer           (YouTube trailer key via TMDB)
//   - GET /random                        (uniform random sample)
//   - GET /languages                     (available catalog languages)
package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-movie-backend/internal/domain"
	"github.com/tbourn/go-movie-backend/internal/services"
	"github.com/tbourn/go-movie-backend/internal/sysutil"
)

// languageLabels maps catalog language codes to human-readable names.
// Codes without an entry are echoed back verbatim.
var languageLabels = map[string]string{
	"en": "English (Hollywood)",
	"hi": "Hindi (Bollywood)",
}

// RecommendationsResponse wraps similar-movie results for a source movie.
type RecommendationsResponse struct {
	MovieID int                  `json:"movie_id"`
	Results []domain.ScoredMovie `json:"results"`
	Count   int                  `json:"count"`
}

// TrailerResponse carries a movie's YouTube trailer key.
type TrailerResponse struct {
	MovieID int    `json:"movie_id"`
	Key     string `json:"key"`
}

// RandomResponse wraps a random catalog sample.
type RandomResponse struct {
	Results []domain.ScoredMovie `json:"results"`
	Count   int                  `json:"count"`
}

// GetMovie godoc
// @ID          getMovie
// @Summary     Get a movie by id
// @Tags        Movies
// @Produce     json
//
// @Param       id  path  int  true  "Movie ID"  example(603)
//
// @Success     200  {object}  domain.Movie
// @Failure     400  {object}  handlers.ErrorResponse  "Bad request"
// @Failure     404  {object}  handlers.ErrorResponse  "Not found"
// @Router      /movies/{id} [get]
func (h *Handlers) GetMovie(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "movie id must be an integer")
		return
	}
	m, err := h.svc.GetMovie(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, services.ErrMovieNotFound) {
			fail(c, http.StatusNotFound, ErrCodeNotFound, "movie not found")
			return
		}
		fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		return
	}
	ok(c, http.StatusOK, m)
}

// GetRecommendations godoc
// @ID          getRecommendations
// @Summary     Recommend movies similar to a given movie
// @Description Ranks the rest of the catalog by cosine similarity to the source movie's document vector. The source movie is never included in its own results.
// @Tags        Movies
// @Produce     json
//
// @Param       id        path   int     true   "Movie ID"                 example(603)
// @Param       limit     query  int     false  "Maximum results"          minimum(0) default(5)
// @Param       language  query  string  false  "Filter by language code"  example(en)
//
// @Success     200  {object}  handlers.RecommendationsResponse
// @Failure     400  {object}  handlers.ErrorResponse  "Bad request"
// @Failure     404  {object}  handlers.ErrorResponse  "Not found"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /movies/{id}/recommendations [get]
func (h *Handlers) GetRecommendations(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "movie id must be an integer")
		return
	}
	limit := h.limitParam(c)
	language := strings.TrimSpace(c.Query("language"))

	results, err := h.svc.Recommend(c.Request.Context(), id, limit, language)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrMovieNotFound):
			fail(c, http.StatusNotFound, ErrCodeNotFound, "movie not found")
		case errors.Is(err, services.ErrInvalidLimit):
			fail(c, http.StatusBadRequest, ErrCodeBadRequest, err.Error())
		default:
			fail(c, http.StatusInternalServerError, ErrCodeRecommendFailed, err.Error())
		}
		return
	}
	ok(c, http.StatusOK, RecommendationsResponse{MovieID: id, Results: results, Count: len(results)})
}

// GetTrailer godoc
// @ID          getTrailer
// @Summary     Get a movie's trailer
// @Description Looks up the movie's videos on TMDB and returns the YouTube key of the first trailer.
// @Tags        Movies
// @Produce     json
//
// @Param       id  path  int  true  "Movie ID"  example(603)
//
// @Success     200  {object}  handlers.TrailerResponse
// @Failure     400  {object}  handlers.ErrorResponse  "Bad request"
// @Failure     404  {object}  handlers.ErrorResponse  "Not found"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /movies/{id}/trailer [get]
func (h *Handlers) GetTrailer(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "movie id must be an integer")
		return
	}
	if h.Trailers == nil {
		fail(c, http.StatusNotFound, ErrCodeNotFound, "trailer not found")
		return
	}
	key, err := h.Trailers.MovieTrailer(c.Request.Context(), id)
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeTrailerFailed, err.Error())
		return
	}
	if key == "" {
		fail(c, http.StatusNotFound, ErrCodeNotFound, "trailer not found")
		return
	}
	ok(c, http.StatusOK, TrailerResponse{MovieID: id, Key: key})
}

// GetRandom godoc
// @ID          getRandom
// @Summary     Get a random sample of movies
// @Tags        Movies
// @Produce     json
//
// @Param       limit     query  int     false  "Sample size"              minimum(0) default(5)
// @Param       language  query  string  false  "Filter by language code"  example(hi)
//
// @Success     200  {object}  handlers.RandomResponse
// @Failure     400  {object}  handlers.ErrorResponse  "Bad request"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /random [get]
func (h *Handlers) GetRandom(c *gin.Context) {
	limit := h.limitParam(c)
	language := strings.TrimSpace(c.Query("language"))

	results, err := h.svc.RandomSample(c.Request.Context(), limit, language)
	if err != nil {
		if errors.Is(err, services.ErrInvalidLimit) {
			fail(c, http.StatusBadRequest, ErrCodeBadRequest, err.Error())
			return
		}
		fail(c, http.StatusInternalServerError, ErrCodeListFailed, err.Error())
		return
	}
	ok(c, http.StatusOK, RandomResponse{Results: results, Count: len(results)})
}

// GetLanguages godoc
// @ID          getLanguages
// @Summary     List catalog languages
// @Description Returns the language codes present in the catalog mapped to display names.
// @Tags        Movies
// @Produce     json
//
// @Success     200  {object}  map[string]string
// @Router      /languages [get]
func (h *Handlers) GetLanguages(c *gin.Context) {
	out := make(map[string]string)
	for _, code := range h.svc.Languages() {
		out[code] = sysutil.FirstNonEmpty(languageLabels[code], code)
	}
	ok(c, http.StatusOK, out)
}
