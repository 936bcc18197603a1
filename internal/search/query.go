package search

import (
	"regexp"
	"sort"
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Intent carries the structured hints extracted from a query. Every field
// is optional; zero values mean "no signal". Intents boost ranking, they
// never filter.
type Intent struct {
	Genre  string
	Mood   string
	Actor  string
	Decade int // first year of the decade, e.g. 1990; 0 when absent
}

// QueryContext is the transient, per-request result of running the full
// understanding pipeline over a raw query. It is never persisted.
type QueryContext struct {
	Raw       string
	Corrected string
	Expanded  string
	Cleaned   string
	Tokens    []string
	Vector    map[int]float64
	Intent    Intent
}

// Pipeline turns loosely-phrased natural language into (a) a searchable
// vector in the index's vocabulary space and (b) intent hints for
// boosting. Stages run in a fixed order: spelling correction → intent
// extraction → query expansion → prefix cleaning → normalize + vectorize.
// Only raw queries pass through the pipeline; item documents never do.
//
// A Pipeline precompiles every pattern at construction and is safe for
// concurrent use.
type Pipeline struct {
	cfg         Config
	corrections []correction
	genres      []genrePattern
	moods       []moodPattern
	actorRE     []*regexp.Regexp
	decadeRE    []*regexp.Regexp
	titleCaser  cases.Caser
}

type correction struct {
	re   *regexp.Regexp
	repl string
}

type genrePattern struct {
	name string
	re   *regexp.Regexp
}

type moodPattern struct {
	name string
	res  []*regexp.Regexp
}

// Actor: two capitalized words after a cue word, or immediately preceding
// "movies". Decade: 2- or 4-digit number with an "s" suffix next to
// "movies"/"films", after "from the", or standing on its own ("90s
// action"); the bare form is tried last.
var (
	actorCueRE    = regexp.MustCompile(`(?:\b[Ww]ith|\b[Ss]tarring)\s+([A-Z][a-z]+\s+[A-Z][a-z]+)`)
	actorMoviesRE = regexp.MustCompile(`([A-Z][a-z]+\s+[A-Z][a-z]+)\s+movies\b`)
	decadeWordRE  = regexp.MustCompile(`(?i)\b(\d{4}|\d{2})s\s+(?:movies|films)\b`)
	decadeFromRE  = regexp.MustCompile(`(?i)\bfrom\s+the\s+(\d{4}|\d{2})s\b`)
	decadeBareRE  = regexp.MustCompile(`(?i)\b(\d{4}|\d{2})s\b`)
)

// NewPipeline compiles the configured tables into a ready Pipeline.
func NewPipeline(cfg Config) *Pipeline {
	p := &Pipeline{
		cfg:        cfg,
		titleCaser: cases.Title(language.English),
		actorRE:    []*regexp.Regexp{actorCueRE, actorMoviesRE},
		decadeRE:   []*regexp.Regexp{decadeWordRE, decadeFromRE, decadeBareRE},
	}
	// Longest misspelling first so multi-word variants ("sci fi") are
	// rewritten before any of their single-word parts.
	wrongs := make([]string, 0, len(cfg.Misspellings))
	for w := range cfg.Misspellings {
		wrongs = append(wrongs, w)
	}
	sort.Slice(wrongs, func(a, b int) bool {
		if len(wrongs[a]) != len(wrongs[b]) {
			return len(wrongs[a]) > len(wrongs[b])
		}
		return wrongs[a] < wrongs[b]
	})
	for _, wrong := range wrongs {
		re := regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(wrong) + `\b`)
		p.corrections = append(p.corrections, correction{re: re, repl: cfg.Misspellings[wrong]})
	}
	for _, g := range cfg.Genres {
		re := regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(g) + `\b`)
		p.genres = append(p.genres, genrePattern{name: g, re: re})
	}
	for _, m := range cfg.Moods {
		mp := moodPattern{name: m.Name}
		for _, pat := range m.Patterns {
			mp.res = append(mp.res, regexp.MustCompile(`(?i)\b(?:`+pat+`)\b`))
		}
		p.moods = append(p.moods, mp)
	}
	return p
}

// Correct applies whole-word, case-insensitive misspelling replacement.
// Every occurrence is corrected; unmapped words pass through unchanged.
// Correction runs before the result cache lookup, so variant spellings of
// the same query share one cache entry.
func (p *Pipeline) Correct(raw string) string {
	q := strings.TrimSpace(raw)
	for _, c := range p.corrections {
		q = c.re.ReplaceAllString(q, c.repl)
	}
	return q
}

// Understand runs the remaining stages on an already-corrected query and
// projects the final text through idx. The returned context carries the
// intermediate strings for observability.
func (p *Pipeline) Understand(corrected string, idx *Index) QueryContext {
	qc := QueryContext{
		Raw:       corrected,
		Corrected: corrected,
		Intent:    p.extractIntent(corrected),
	}
	qc.Expanded = p.expand(corrected)
	qc.Cleaned = p.cleanPrefix(qc.Expanded)
	qc.Tokens = idx.norm.Tokens(qc.Cleaned)
	qc.Vector = idx.Vectorize(qc.Cleaned)
	return qc
}

// extractIntent runs the four extractors independently against the
// corrected query. At most one match per category; the first pattern in
// priority order wins.
func (p *Pipeline) extractIntent(q string) Intent {
	var in Intent
	for _, g := range p.genres {
		if g.re.MatchString(q) {
			in.Genre = g.name
			break
		}
	}
mood:
	for _, m := range p.moods {
		for _, re := range m.res {
			if re.MatchString(q) {
				in.Mood = m.name
				break mood
			}
		}
	}
	for _, re := range p.actorRE {
		if m := re.FindStringSubmatch(q); m != nil {
			in.Actor = p.titleCaser.String(strings.ToLower(m[1]))
			break
		}
	}
	for _, re := range p.decadeRE {
		m := re.FindStringSubmatch(q)
		if m == nil {
			continue
		}
		if d, ok := parseDecade(m[1]); ok {
			in.Decade = d
			break
		}
		// Malformed number: drop this one signal, keep the rest.
	}
	return in
}

// parseDecade maps a 2- or 4-digit decade number to the first year of the
// decade. Two-digit values ≤ 20 land in 20xx, everything else in 19xx.
// Returns ok=false for unparsable input; the caller discards the signal.
func parseDecade(digits string) (int, bool) {
	n, err := strconv.Atoi(digits)
	if err != nil {
		return 0, false
	}
	switch len(digits) {
	case 2:
		if n <= 20 {
			n += 2000
		} else {
			n += 1900
		}
	case 4:
	default:
		return 0, false
	}
	return n - n%10, true
}

// expand appends the synonym list of every trigger that occurs as a
// substring of the corrected query, in table order. Multiple triggers all
// fire.
func (p *Pipeline) expand(q string) string {
	lower := strings.ToLower(q)
	out := q
	for _, e := range p.cfg.Expansions {
		if strings.Contains(lower, strings.ToLower(e.Trigger)) {
			out += " " + strings.Join(e.Synonyms, " ")
		}
	}
	return out
}

// cleanPrefix strips configured conversational lead-ins from the start of
// the expanded query, case-insensitively, repeating until none match.
func (p *Pipeline) cleanPrefix(q string) string {
	trimmed := strings.TrimSpace(q)
	for {
		stripped := false
		lower := strings.ToLower(trimmed)
		for _, pre := range p.cfg.Prefixes {
			pl := strings.ToLower(pre)
			if lower == pl {
				return ""
			}
			if strings.HasPrefix(lower, pl+" ") {
				trimmed = strings.TrimSpace(trimmed[len(pl):])
				stripped = true
				break
			}
		}
		if !stripped {
			return trimmed
		}
	}
}
