// Package services – MovieService
//
// This file implements MovieService, the application-level component that
// owns the search engine's shared state: an immutable (corpus, index)
// snapshot behind an atomically swappable handle, the result cache, and
// the seeded random source used for no-signal fallbacks.
//
// Concurrency model: ranking is pure computation over the snapshot, so
// concurrent requests read it without coordination. Publishing a new
// snapshot (after corpus growth) builds the index off to the side and
// swaps the pointer; in-flight requests finish against the old snapshot
// and never observe a half-built matrix.
//
// Observability: all public methods are OpenTelemetry-instrumented.
package services

import (
	"context"
	"math/rand"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/tbourn/go-movie-backend/internal/corpus"
	"github.com/tbourn/go-movie-backend/internal/domain"
	"github.com/tbourn/go-movie-backend/internal/search"
)

// snapshot pairs a corpus with the index built from it. Both are
// immutable; a snapshot is replaced wholesale, never patched.
type snapshot struct {
	corpus *corpus.Corpus
	index  *search.Index
}

// Option customizes a MovieService at construction.
type Option func(*MovieService)

// WithCacheSize sets the flush threshold of the result cache; n <= 0
// disables caching (useful for determinism tests).
func WithCacheSize(n int) Option {
	return func(s *MovieService) { s.cache = NewSearchCache(n) }
}

// WithRandSeed seeds the fallback sampler deterministically.
func WithRandSeed(seed int64) Option {
	return func(s *MovieService) { s.rng = rand.New(rand.NewSource(seed)) }
}

// defaultCacheSize is the production flush threshold.
const defaultCacheSize = 1000

// MovieService exposes search, item-to-item recommendation, random
// sampling, and item lookup over the current corpus snapshot.
type MovieService struct {
	pipeline *search.Pipeline
	ranker   *search.Ranker
	norm     *search.Normalizer
	cfg      search.Config

	snap  atomic.Pointer[snapshot]
	cache *SearchCache

	rngMu sync.Mutex
	rng   *rand.Rand
}

// NewMovieService builds the engine from the heuristic table set and an
// initial corpus. The index for the initial corpus is built synchronously
// so the service is ready to rank as soon as the constructor returns.
func NewMovieService(cfg search.Config, movies []domain.Movie, opts ...Option) *MovieService {
	s := &MovieService{
		pipeline: search.NewPipeline(cfg),
		ranker:   search.NewRanker(cfg),
		norm:     search.NewNormalizer(cfg.Stopwords, cfg.Lemmas),
		cfg:      cfg,
		cache:    NewSearchCache(defaultCacheSize),
		rng:      rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	for _, o := range opts {
		o(s)
	}
	s.publish(movies)
	return s
}

// ReplaceCorpus builds a fresh index from the new movie set and atomically
// publishes it. The result cache is flushed: cached rankings refer to the
// old snapshot. The rebuild always covers the whole corpus: IDF depends on
// global document frequency, so there is no incremental path.
func (s *MovieService) ReplaceCorpus(movies []domain.Movie) {
	s.publish(movies)
	s.cache.Flush()
}

func (s *MovieService) publish(movies []domain.Movie) {
	c := corpus.New(movies)
	docs := make([]string, c.Len())
	for i := range docs {
		docs[i] = c.At(i).Document
	}
	idx := search.BuildIndex(docs, s.norm, s.cfg.MaxFeatures)
	s.snap.Store(&snapshot{corpus: c, index: idx})
}

// Count returns the number of movies in the current snapshot.
func (s *MovieService) Count() int { return s.snap.Load().corpus.Len() }

// Languages returns the distinct language codes in the current snapshot.
func (s *MovieService) Languages() []string { return s.snap.Load().corpus.Languages() }

// Search runs the full query understanding pipeline and returns up to
// limit ranked movies, optionally filtered to one language.
//
// Spelling correction runs before the cache lookup so variant spellings
// share a cache entry. A query with no residual signal (empty, all
// stopwords, or nothing in the vocabulary) falls back to a uniform random
// sample with similarity 0.0; fallback results are never cached.
func (s *MovieService) Search(ctx context.Context, query string, limit int, language string) ([]domain.ScoredMovie, error) {
	tr := otel.Tracer("services/MovieService")
	_, span := tr.Start(ctx, "Search",
		trace.WithAttributes(
			attribute.String("query", query),
			attribute.Int("limit", limit),
			attribute.String("language", language),
		),
	)
	defer span.End()

	if limit < 0 {
		return nil, ErrInvalidLimit
	}

	snap := s.snap.Load()
	corrected := s.pipeline.Correct(query)
	if strings.TrimSpace(corrected) == "" {
		return s.randomScored(snap, limit, language), nil
	}

	key := strings.ToLower(corrected)
	if hit, ok := s.cache.Get(key, limit, language); ok {
		span.SetAttributes(attribute.Bool("cache.hit", true))
		return hit, nil
	}

	qc := s.pipeline.Understand(corrected, snap.index)
	if len(qc.Vector) == 0 {
		// No known vocabulary terms left. Uniform zero scores would
		// rank nothing meaningfully, so sample instead.
		return s.randomScored(snap, limit, language), nil
	}

	results := s.ranker.Rank(snap.corpus, snap.index, qc, language, limit)
	s.cache.Put(key, limit, language, results)
	return results, nil
}

// Recommend returns up to limit movies most similar to the given movie,
// using its precomputed corpus vector. No intent boosting applies and the
// reference movie is excluded. An unknown id is a caller bug or a stale
// id and is reported as ErrMovieNotFound, never an empty list.
func (s *MovieService) Recommend(ctx context.Context, id, limit int, language string) ([]domain.ScoredMovie, error) {
	tr := otel.Tracer("services/MovieService")
	_, span := tr.Start(ctx, "Recommend",
		trace.WithAttributes(
			attribute.Int("movie.id", id),
			attribute.Int("limit", limit),
			attribute.String("language", language),
		),
	)
	defer span.End()

	if limit < 0 {
		return nil, ErrInvalidLimit
	}

	snap := s.snap.Load()
	row := snap.corpus.RowOf(id)
	if row < 0 {
		return nil, ErrMovieNotFound
	}
	return s.ranker.Recommend(snap.corpus, snap.index, row, language, limit), nil
}

// RandomSample returns min(limit, filtered corpus size) movies chosen
// uniformly without replacement, each with similarity 0.0.
func (s *MovieService) RandomSample(ctx context.Context, limit int, language string) ([]domain.ScoredMovie, error) {
	tr := otel.Tracer("services/MovieService")
	_, span := tr.Start(ctx, "RandomSample",
		trace.WithAttributes(
			attribute.Int("limit", limit),
			attribute.String("language", language),
		),
	)
	defer span.End()

	if limit < 0 {
		return nil, ErrInvalidLimit
	}
	return s.randomScored(s.snap.Load(), limit, language), nil
}

// GetMovie looks up a movie by id in the current snapshot.
func (s *MovieService) GetMovie(ctx context.Context, id int) (*domain.Movie, error) {
	tr := otel.Tracer("services/MovieService")
	_, span := tr.Start(ctx, "GetMovie",
		trace.WithAttributes(attribute.Int("movie.id", id)),
	)
	defer span.End()

	m := s.snap.Load().corpus.ByID(id)
	if m == nil {
		return nil, ErrMovieNotFound
	}
	return m, nil
}

// randomScored samples uniformly without replacement from the (optionally
// language-filtered) corpus. The shared rand source is not goroutine-safe,
// so draws are serialized behind a mutex.
func (s *MovieService) randomScored(snap *snapshot, limit int, language string) []domain.ScoredMovie {
	rows := make([]int, 0, snap.corpus.Len())
	for i := 0; i < snap.corpus.Len(); i++ {
		if language != "" && snap.corpus.At(i).Language != language {
			continue
		}
		rows = append(rows, i)
	}
	n := len(rows)
	if limit < n {
		n = limit
	}

	s.rngMu.Lock()
	perm := s.rng.Perm(len(rows))
	s.rngMu.Unlock()

	out := make([]domain.ScoredMovie, 0, n)
	for _, p := range perm[:n] {
		out = append(out, domain.ScoredMovie{Movie: *snap.corpus.At(rows[p]), Score: 0})
	}
	return out
}
