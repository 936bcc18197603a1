// Package search implements the vector-space retrieval core: text
// normalization, a TF-IDF index over the movie corpus, the query
// understanding pipeline, and similarity ranking with intent boosting.
//
// The package performs no logging and no I/O; every type is immutable and
// safe for concurrent reads after construction. All heuristic tables
// (stopwords, lemma
// exceptions, misspellings, genre/mood/actor/decade patterns, expansion
// synonyms, boost increments) are injected via Config so tests can swap
// in small fixtures and deployments can swap tables per locale.
package search

import (
	"strings"
	"unicode"

	"github.com/kljensen/snowball/english"
)

// Normalizer turns free text into a deterministic token sequence:
// lowercase → strip punctuation → split on whitespace → drop tokens that
// are not purely alphabetic → drop stopwords → reduce to lemma.
//
// Lemmatization consults the injected exception table first (irregular
// forms such as "men" → "man") and falls back to Snowball stemming, so
// inflected forms of the same word collapse to one vocabulary term. The
// same Normalizer must be used for corpus documents and queries; mixing
// normalizers breaks the shared vocabulary space.
type Normalizer struct {
	stopwords map[string]struct{}
	lemmas    map[string]string
}

// NewNormalizer builds a Normalizer from a stopword list and a lemma
// exception table. Both may be nil or empty; an empty Normalizer still
// lowercases, strips punctuation and stems.
func NewNormalizer(stopwords []string, lemmas map[string]string) *Normalizer {
	stop := make(map[string]struct{}, len(stopwords))
	for _, w := range stopwords {
		w = strings.ToLower(strings.TrimSpace(w))
		if w != "" {
			stop[w] = struct{}{}
		}
	}
	lm := make(map[string]string, len(lemmas))
	for k, v := range lemmas {
		k = strings.ToLower(strings.TrimSpace(k))
		v = strings.ToLower(strings.TrimSpace(v))
		if k != "" && v != "" {
			lm[k] = v
		}
	}
	return &Normalizer{stopwords: stop, lemmas: lm}
}

// Tokens normalizes text into its token sequence. Empty or all-stopword
// input yields an empty (nil) slice; callers must handle empty documents
// without failing.
func (n *Normalizer) Tokens(text string) []string {
	if text == "" {
		return nil
	}
	cleaned := stripPunct(strings.ToLower(text))
	fields := strings.Fields(cleaned)
	if len(fields) == 0 {
		return nil
	}
	out := make([]string, 0, len(fields))
	for _, w := range fields {
		if !isAlpha(w) {
			continue
		}
		if _, skip := n.stopwords[w]; skip {
			continue
		}
		out = append(out, n.lemma(w))
	}
	return out
}

// lemma reduces a lowercase word to its base form: exception table first,
// Snowball English stemmer otherwise.
func (n *Normalizer) lemma(w string) string {
	if l, ok := n.lemmas[w]; ok {
		return l
	}
	if s := english.Stem(w, false); s != "" {
		return s
	}
	return w
}

// stripPunct removes every rune that is neither a letter, a digit, nor
// whitespace. Punctuation is deleted rather than replaced so hyphenated
// forms like "sci-fi" collapse to a single token ("scifi").
func stripPunct(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsSpace(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// isAlpha reports whether every rune in s is a letter.
func isAlpha(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsLetter(r) {
			return false
		}
	}
	return true
}
