package search

import (
	"regexp"
	"sort"
	"strings"

	"github.com/tbourn/go-movie-backend/internal/corpus"
	"github.com/tbourn/go-movie-backend/internal/domain"
)

// Ranker orders corpus items by cosine similarity with intent boosting.
// It is stateless apart from its precompiled mood patterns and is safe
// for concurrent use.
type Ranker struct {
	boost BoostConfig
	moods map[string][]*regexp.Regexp
}

// NewRanker builds a Ranker from the same Config that feeds the Pipeline,
// so mood keyword patterns stay consistent between extraction and boosting.
func NewRanker(cfg Config) *Ranker {
	moods := make(map[string][]*regexp.Regexp, len(cfg.Moods))
	for _, m := range cfg.Moods {
		res := make([]*regexp.Regexp, 0, len(m.Patterns))
		for _, pat := range m.Patterns {
			res = append(res, regexp.MustCompile(`(?i)\b(?:`+pat+`)\b`))
		}
		moods[m.Name] = res
	}
	return &Ranker{boost: cfg.Boost, moods: moods}
}

// Rank scores every corpus row against the query vector, applies the
// intent boost, sorts by final score descending (ties keep original
// corpus order, a reproducible tie-break), then filters by
// language and truncates to limit. The language predicate runs before
// truncation, so limit always counts post-filter matches. A limit larger
// than the filtered result count returns everything; never an error.
func (r *Ranker) Rank(c *corpus.Corpus, idx *Index, qc QueryContext, language string, limit int) []domain.ScoredMovie {
	base := idx.Scores(qc.Vector)
	scores := make([]float64, len(base))
	for i := range base {
		scores[i] = base[i] * r.boostFactor(c.At(i), qc.Intent)
	}
	return r.collect(c, scores, -1, language, limit)
}

// Recommend ranks every other row by similarity to row i's precomputed
// corpus vector. No query text exists, so no intent boost applies; the
// reference row itself is excluded.
func (r *Ranker) Recommend(c *corpus.Corpus, idx *Index, row int, language string, limit int) []domain.ScoredMovie {
	scores := idx.RowScores(row)
	return r.collect(c, scores, row, language, limit)
}

// collect sorts row indices by score (stable, so equal scores keep corpus
// order), then walks the order applying the exclusion and language
// predicates before truncating to limit.
func (r *Ranker) collect(c *corpus.Corpus, scores []float64, exclude int, language string, limit int) []domain.ScoredMovie {
	if limit <= 0 {
		return []domain.ScoredMovie{}
	}
	order := make([]int, len(scores))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return scores[order[a]] > scores[order[b]]
	})

	out := make([]domain.ScoredMovie, 0, min(limit, len(order)))
	for _, i := range order {
		if len(out) >= limit {
			break
		}
		if i == exclude {
			continue
		}
		m := c.At(i)
		if language != "" && m.Language != language {
			continue
		}
		out = append(out, domain.ScoredMovie{Movie: *m, Score: scores[i]})
	}
	return out
}

// boostFactor computes the multiplicative boost for one item. The factor
// starts at 1.0 and only grows, so a boosted score is always >= the base
// cosine score.
func (r *Ranker) boostFactor(m *domain.Movie, in Intent) float64 {
	factor := 1.0

	if in.Genre != "" {
		for _, g := range m.Genres {
			if strings.EqualFold(g, in.Genre) {
				factor += r.boost.Genre
				break
			}
		}
	}

	if in.Mood != "" {
		text := strings.ToLower(m.Overview + " " + strings.Join(m.Keywords, " "))
		if strings.Contains(text, strings.ToLower(in.Mood)) {
			factor += r.boost.Mood
		}
		// Keyword bonus applies at most once, no matter how many
		// configured patterns hit.
		for _, re := range r.moods[in.Mood] {
			if re.MatchString(text) {
				factor += r.boost.MoodKeyword
				break
			}
		}
	}

	if in.Actor != "" {
		for _, a := range m.Cast {
			if strings.EqualFold(a, in.Actor) {
				factor += r.boost.Actor
				break
			}
		}
	}

	if in.Decade != 0 {
		if y := m.Year(); y >= in.Decade && y < in.Decade+10 {
			factor += r.boost.Decade
		}
	}

	return factor
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
