package search

import (
	"testing"

	"github.com/tbourn/go-movie-backend/internal/corpus"
	"github.com/tbourn/go-movie-backend/internal/domain"
)

func fixtureMovies() []domain.Movie {
	ms := []domain.Movie{
		{ID: 10, Title: "Alien Dawn", Overview: "terrifying alien horror on a ship", Genres: []string{"Horror", "Science Fiction"}, Cast: []string{"Jane Doe", "Tom Hanks"}, Language: "en", ReleaseDate: "1986-05-01"},
		{ID: 20, Title: "Alien Dusk", Overview: "alien invasion drama", Genres: []string{"Drama"}, Cast: []string{"John Roe"}, Language: "en", ReleaseDate: "2001-02-01"},
		{ID: 30, Title: "Desert Song", Overview: "romantic musical in the desert", Genres: []string{"Romance"}, Cast: []string{"Asha Rani"}, Language: "hi", ReleaseDate: "1988-09-09"},
		{ID: 40, Title: "Alien Noon", Overview: "alien invasion drama", Genres: []string{"Drama"}, Cast: []string{"Ann Poe"}, Language: "en", ReleaseDate: "1984-01-01"},
	}
	for i := range ms {
		ms[i].Document = domain.BuildDocument(&ms[i])
	}
	return ms
}

func fixtureEngine(t *testing.T) (*corpus.Corpus, *Index, *Ranker, *Pipeline) {
	t.Helper()
	cfg := DefaultConfig()
	movies := fixtureMovies()
	c := corpus.New(movies)
	docs := make([]string, c.Len())
	for i := 0; i < c.Len(); i++ {
		docs[i] = c.At(i).Document
	}
	norm := NewNormalizer(cfg.Stopwords, cfg.Lemmas)
	idx := BuildIndex(docs, norm, cfg.MaxFeatures)
	return c, idx, NewRanker(cfg), NewPipeline(cfg)
}

func TestRank_OrderAndScores(t *testing.T) {
	c, idx, r, p := fixtureEngine(t)
	qc := p.Understand("terrifying alien horror", idx)

	got := r.Rank(c, idx, qc, "", 10)
	if len(got) != 4 {
		t.Fatalf("expected all 4 rows, got %d", len(got))
	}
	if got[0].ID != 10 {
		t.Fatalf("best match should be Alien Dawn, got %d", got[0].ID)
	}
	for i := 1; i < len(got); i++ {
		if got[i].Score > got[i-1].Score {
			t.Fatalf("scores not descending at %d: %v > %v", i, got[i].Score, got[i-1].Score)
		}
	}
}

func TestCollect_StableTieBreakByCorpusOrder(t *testing.T) {
	c, _, r, _ := fixtureEngine(t)
	// Rows 1 and 3 tie exactly; stable sort must keep corpus order.
	scores := []float64{0.2, 0.5, 0.1, 0.5}
	got := r.collect(c, scores, -1, "", 10)
	wantIDs := []int{20, 40, 10, 30}
	for i, id := range wantIDs {
		if got[i].ID != id {
			t.Fatalf("position %d: got id %d, want %d (full: %+v)", i, got[i].ID, id, got)
		}
	}
}

func TestRank_FilterThenLimit(t *testing.T) {
	c, idx, r, p := fixtureEngine(t)
	qc := p.Understand("alien invasion", idx)

	// Language filter runs before truncation: limit counts only matches.
	got := r.Rank(c, idx, qc, "en", 2)
	if len(got) != 2 {
		t.Fatalf("expected 2 results, got %d", len(got))
	}
	for _, m := range got {
		if m.Language != "en" {
			t.Fatalf("language filter leaked %q", m.Language)
		}
	}

	// Limit larger than the filtered set returns everything, no error.
	got = r.Rank(c, idx, qc, "hi", 10)
	if len(got) != 1 || got[0].ID != 30 {
		t.Fatalf("hi filter should return the single hindi movie: %+v", got)
	}
}

func TestRank_NonPositiveLimit(t *testing.T) {
	c, idx, r, p := fixtureEngine(t)
	qc := p.Understand("alien", idx)
	if got := r.Rank(c, idx, qc, "", 0); len(got) != 0 {
		t.Fatalf("limit 0 should return empty, got %d", len(got))
	}
}

func TestRecommend_ExcludesSelf(t *testing.T) {
	c, idx, r, _ := fixtureEngine(t)
	got := r.Recommend(c, idx, 0, "", 10)
	if len(got) != 3 {
		t.Fatalf("expected 3 results, got %d", len(got))
	}
	for _, m := range got {
		if m.ID == 10 {
			t.Fatalf("reference movie leaked into its own recommendations")
		}
	}
	// The two alien-invasion movies should outrank the romance.
	if got[len(got)-1].ID != 30 {
		t.Fatalf("least similar should be the romance: %+v", got)
	}
}

func TestBoostFactor_Increments(t *testing.T) {
	cfg := DefaultConfig()
	r := NewRanker(cfg)
	m := &domain.Movie{
		Genres:      []string{"Horror"},
		Overview:    "a scary haunted house",
		Keywords:    []string{"ghost"},
		Cast:        []string{"Tom Hanks"},
		ReleaseDate: "1985-06-01",
	}

	if got := r.boostFactor(m, Intent{}); !closeTo(got, 1.0) {
		t.Fatalf("empty intent factor = %v, want 1.0", got)
	}
	if got := r.boostFactor(m, Intent{Genre: "horror"}); !closeTo(got, 1.5) {
		t.Fatalf("genre factor = %v, want 1.5", got)
	}
	// Mood name in overview (+0.3) plus keyword pattern hit (+0.1, once).
	if got := r.boostFactor(m, Intent{Mood: "scary"}); !closeTo(got, 1.4) {
		t.Fatalf("mood factor = %v, want 1.4", got)
	}
	if got := r.boostFactor(m, Intent{Actor: "Tom Hanks"}); !closeTo(got, 1.4) {
		t.Fatalf("actor factor = %v, want 1.4", got)
	}
	if got := r.boostFactor(m, Intent{Decade: 1980}); !closeTo(got, 1.3) {
		t.Fatalf("decade factor = %v, want 1.3", got)
	}
	// Stacked: 1 + 0.5 + 0.4 + 0.3 + 0.3 + 0.1 = 2.6
	all := Intent{Genre: "Horror", Mood: "scary", Actor: "tom hanks", Decade: 1980}
	if got := r.boostFactor(m, all); !closeTo(got, 2.6) {
		t.Fatalf("stacked factor = %v, want 2.6", got)
	}
}

func closeTo(got, want float64) bool {
	d := got - want
	return d < 1e-9 && d > -1e-9
}

func TestBoostFactor_BareDecadeWithGenre(t *testing.T) {
	cfg := DefaultConfig()
	p := NewPipeline(cfg)
	r := NewRanker(cfg)

	in := p.extractIntent("90s action")
	if in.Genre != "action" || in.Decade != 1990 {
		t.Fatalf("extractIntent(%q) = %+v, want genre action and decade 1990", "90s action", in)
	}

	m := &domain.Movie{
		Genres:      []string{"Action"},
		ReleaseDate: "1994-05-20",
	}
	// 1 + 0.5 (genre) + 0.3 (decade)
	if got := r.boostFactor(m, in); !closeTo(got, 1.8) {
		t.Fatalf("factor = %v, want 1.8", got)
	}
}

func TestBoostFactor_MoodKeywordAppliesOnce(t *testing.T) {
	cfg := DefaultConfig()
	r := NewRanker(cfg)
	// Overview hits several scary patterns but not the literal mood name.
	m := &domain.Movie{Overview: "creepy spooky haunted mansion"}
	if got := r.boostFactor(m, Intent{Mood: "scary"}); !closeTo(got, 1.1) {
		t.Fatalf("keyword-only mood factor = %v, want 1.1", got)
	}
}

func TestBoostFactor_DecadeBoundaries(t *testing.T) {
	cfg := DefaultConfig()
	r := NewRanker(cfg)

	in := Intent{Decade: 1990}
	tests := []struct {
		date string
		want float64
	}{
		{"1990-01-01", 1.3},
		{"1999-12-31", 1.3},
		{"2000-01-01", 1.0}, // exclusive upper bound
		{"1989-12-31", 1.0},
		{"", 1.0}, // unknown year never matches
	}
	for _, tc := range tests {
		m := &domain.Movie{ReleaseDate: tc.date}
		if got := r.boostFactor(m, in); !closeTo(got, tc.want) {
			t.Fatalf("decade boost for %q = %v, want %v", tc.date, got, tc.want)
		}
	}
}

func TestRank_BoostPromotesIntentMatch(t *testing.T) {
	c, idx, r, p := fixtureEngine(t)

	// Without intent, the two invasion movies tie; a decade intent for the
	// 80s promotes the 1984 release above the 2001 one.
	qc := p.Understand("alien invasion from the 80s", idx)
	if qc.Intent.Decade != 1980 {
		t.Fatalf("decade intent missing: %+v", qc.Intent)
	}
	got := r.Rank(c, idx, qc, "", 10)
	pos := map[int]int{}
	for i, m := range got {
		pos[m.ID] = i
	}
	if pos[40] > pos[20] {
		t.Fatalf("boosted 1984 movie should outrank 2001 movie: %v", pos)
	}
}
