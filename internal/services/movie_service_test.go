package services

import (
	"context"
	"errors"
	"testing"

	"github.com/tbourn/go-movie-backend/internal/domain"
	"github.com/tbourn/go-movie-backend/internal/search"
)

func fixtureMovies() []domain.Movie {
	ms := []domain.Movie{
		{ID: 10, Title: "Alien Dawn", Overview: "terrifying alien horror on a ship", Genres: []string{"Horror", "Science Fiction"}, Cast: []string{"Tom Hanks"}, Language: "en", ReleaseDate: "1986-05-01"},
		{ID: 20, Title: "Alien Dusk", Overview: "alien invasion drama", Genres: []string{"Drama"}, Language: "en", ReleaseDate: "2001-02-01"},
		{ID: 30, Title: "Desert Song", Overview: "romantic musical in the desert", Genres: []string{"Romance"}, Language: "hi", ReleaseDate: "1988-09-09"},
		{ID: 40, Title: "City Lights", Overview: "comedy about city life", Genres: []string{"Comedy"}, Language: "en", ReleaseDate: "1995-01-01"},
	}
	for i := range ms {
		ms[i].Document = domain.BuildDocument(&ms[i])
	}
	return ms
}

func newTestService(opts ...Option) *MovieService {
	base := []Option{WithRandSeed(42)}
	return NewMovieService(search.DefaultConfig(), fixtureMovies(), append(base, opts...)...)
}

func TestSearch_RanksRelevantFirst(t *testing.T) {
	s := newTestService()
	got, err := s.Search(context.Background(), "terrifying alien horror", 10, "")
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(got) == 0 || got[0].ID != 10 {
		t.Fatalf("expected Alien Dawn first, got %+v", got)
	}
	if got[0].Score <= 0 {
		t.Fatalf("top result should have positive similarity")
	}
}

func TestSearch_NegativeLimit(t *testing.T) {
	s := newTestService()
	if _, err := s.Search(context.Background(), "alien", -1, ""); !errors.Is(err, ErrInvalidLimit) {
		t.Fatalf("expected ErrInvalidLimit, got %v", err)
	}
	if _, err := s.Recommend(context.Background(), 10, -1, ""); !errors.Is(err, ErrInvalidLimit) {
		t.Fatalf("Recommend expected ErrInvalidLimit, got %v", err)
	}
	if _, err := s.RandomSample(context.Background(), -1, ""); !errors.Is(err, ErrInvalidLimit) {
		t.Fatalf("RandomSample expected ErrInvalidLimit, got %v", err)
	}
}

func TestSearch_ZeroLimit(t *testing.T) {
	s := newTestService()
	got, err := s.Search(context.Background(), "alien", 0, "")
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("limit 0 should return empty, got %d", len(got))
	}
}

func TestSearch_EmptyQueryFallsBackToRandom(t *testing.T) {
	s := newTestService()
	got, err := s.Search(context.Background(), "   ", 3, "")
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 random movies, got %d", len(got))
	}
	for _, m := range got {
		if m.Score != 0 {
			t.Fatalf("random fallback must carry similarity 0, got %v", m.Score)
		}
	}
	// No duplicates: sampling is without replacement.
	seen := map[int]struct{}{}
	for _, m := range got {
		if _, dup := seen[m.ID]; dup {
			t.Fatalf("duplicate id %d in random sample", m.ID)
		}
		seen[m.ID] = struct{}{}
	}
}

func TestSearch_UnknownTermsFallBackToRandom(t *testing.T) {
	s := newTestService()
	got, err := s.Search(context.Background(), "zzzqqq xxyyzz", 2, "")
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 fallback movies, got %d", len(got))
	}
	for _, m := range got {
		if m.Score != 0 {
			t.Fatalf("fallback results must score 0, got %v", m.Score)
		}
	}
}

func TestSearch_LanguageFilter(t *testing.T) {
	s := newTestService()
	got, err := s.Search(context.Background(), "romantic desert musical", 10, "hi")
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	for _, m := range got {
		if m.Language != "hi" {
			t.Fatalf("language filter leaked %q", m.Language)
		}
	}
	if len(got) != 1 || got[0].ID != 30 {
		t.Fatalf("expected the hindi movie only, got %+v", got)
	}
}

func TestSearch_CacheSharedAcrossSpellings(t *testing.T) {
	s := newTestService() // default cache enabled

	// Prime with a misspelled query; correction maps "horor" → "horror".
	first, err := s.Search(context.Background(), "horor movies", 5, "")
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(first) == 0 {
		t.Fatalf("expected results for horror query")
	}

	// Same corrected form (different case) must hit the same entry.
	second, err := s.Search(context.Background(), "HORROR movies", 5, "")
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(second) != len(first) {
		t.Fatalf("cache shared entry mismatch: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i].ID != second[i].ID || first[i].Score != second[i].Score {
			t.Fatalf("cached results differ at %d: %+v vs %+v", i, first[i], second[i])
		}
	}
}

func TestSearch_DeterministicWithCacheDisabled(t *testing.T) {
	s := newTestService(WithCacheSize(0))
	first, err := s.Search(context.Background(), "alien invasion", 10, "")
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	for i := 0; i < 5; i++ {
		again, err := s.Search(context.Background(), "alien invasion", 10, "")
		if err != nil {
			t.Fatalf("Search: %v", err)
		}
		if len(again) != len(first) {
			t.Fatalf("result count changed across runs")
		}
		for j := range first {
			if first[j].ID != again[j].ID || first[j].Score != again[j].Score {
				t.Fatalf("ranking not deterministic at %d", j)
			}
		}
	}
}

func TestRecommend_Basics(t *testing.T) {
	s := newTestService()

	got, err := s.Recommend(context.Background(), 10, 10, "")
	if err != nil {
		t.Fatalf("Recommend: %v", err)
	}
	for _, m := range got {
		if m.ID == 10 {
			t.Fatalf("source movie in its own recommendations")
		}
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 recommendations, got %d", len(got))
	}

	if _, err := s.Recommend(context.Background(), 999, 5, ""); !errors.Is(err, ErrMovieNotFound) {
		t.Fatalf("unknown id expected ErrMovieNotFound, got %v", err)
	}
}

func TestGetMovie(t *testing.T) {
	s := newTestService()
	m, err := s.GetMovie(context.Background(), 30)
	if err != nil || m.Title != "Desert Song" {
		t.Fatalf("GetMovie(30) = %+v, %v", m, err)
	}
	if _, err := s.GetMovie(context.Background(), 999); !errors.Is(err, ErrMovieNotFound) {
		t.Fatalf("unknown id expected ErrMovieNotFound, got %v", err)
	}
}

func TestRandomSample_LimitAndFilter(t *testing.T) {
	s := newTestService()

	got, err := s.RandomSample(context.Background(), 2, "en")
	if err != nil {
		t.Fatalf("RandomSample: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2, got %d", len(got))
	}
	for _, m := range got {
		if m.Language != "en" {
			t.Fatalf("language filter leaked %q", m.Language)
		}
	}

	// Limit above the filtered population returns everything available.
	got, err = s.RandomSample(context.Background(), 10, "hi")
	if err != nil {
		t.Fatalf("RandomSample: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected the single hindi movie, got %d", len(got))
	}
}

func TestLanguagesAndCount(t *testing.T) {
	s := newTestService()
	if s.Count() != 4 {
		t.Fatalf("Count = %d, want 4", s.Count())
	}
	langs := s.Languages()
	if len(langs) != 2 || langs[0] != "en" || langs[1] != "hi" {
		t.Fatalf("Languages = %v", langs)
	}
}

func TestReplaceCorpus_RebuildsAndFlushes(t *testing.T) {
	s := newTestService()

	// Prime the cache.
	if _, err := s.Search(context.Background(), "alien", 5, ""); err != nil {
		t.Fatalf("Search: %v", err)
	}

	repl := []domain.Movie{
		{ID: 100, Title: "Ocean Deep", Overview: "documentary about the ocean", Genres: []string{"Documentary"}, Language: "en", ReleaseDate: "2020-01-01"},
	}
	for i := range repl {
		repl[i].Document = domain.BuildDocument(&repl[i])
	}
	s.ReplaceCorpus(repl)

	if s.Count() != 1 {
		t.Fatalf("Count after replace = %d, want 1", s.Count())
	}

	// Old ids are gone from the new snapshot.
	if _, err := s.GetMovie(context.Background(), 10); !errors.Is(err, ErrMovieNotFound) {
		t.Fatalf("old id should be gone, got %v", err)
	}

	// Searching the old query ranks against the new index, not the stale
	// cached rankings.
	got, err := s.Search(context.Background(), "ocean documentary", 5, "")
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(got) != 1 || got[0].ID != 100 {
		t.Fatalf("new corpus not served: %+v", got)
	}
}
