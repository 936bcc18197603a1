package search

import (
	"math"
	"sort"
)

// entry is one non-zero cell of a sparse row: column index and weight.
type entry struct {
	col int
	w   float64
}

// Index is the vector space model over a fixed corpus: a capped vocabulary
// plus an N×V sparse TF-IDF matrix with L2-normalized rows, so cosine
// similarity between rows (or a vectorized query) reduces to a plain dot
// product.
//
// An Index is immutable. It is rebuilt from scratch whenever the corpus
// changes: IDF depends on global document frequency, so there is no
// incremental update path; the caller publishes the fresh Index atomically.
type Index struct {
	norm  *Normalizer
	vocab map[string]int // term -> column
	terms []string       // column -> term
	idf   []float64
	rows  [][]entry
}

// BuildIndex normalizes every document, selects the vocabulary (top
// maxFeatures terms by global term frequency, ties broken alphabetically),
// and computes smoothed TF-IDF weights:
//
//	idf = ln((1+N)/(1+df)) + 1, tf = raw count
//
// Columns are assigned in alphabetical vocabulary order and each row is
// L2-normalized. An empty document slice yields a legal Index that reports
// zero results everywhere.
func BuildIndex(docs []string, norm *Normalizer, maxFeatures int) *Index {
	tokenized := make([][]string, len(docs))
	totalFreq := make(map[string]int)
	df := make(map[string]int)
	for i, d := range docs {
		toks := norm.Tokens(d)
		tokenized[i] = toks
		seen := make(map[string]struct{}, len(toks))
		for _, t := range toks {
			totalFreq[t]++
			if _, ok := seen[t]; ok {
				continue
			}
			seen[t] = struct{}{}
			df[t]++
		}
	}

	terms := make([]string, 0, len(totalFreq))
	for t := range totalFreq {
		terms = append(terms, t)
	}
	if maxFeatures > 0 && len(terms) > maxFeatures {
		sort.Slice(terms, func(a, b int) bool {
			if totalFreq[terms[a]] != totalFreq[terms[b]] {
				return totalFreq[terms[a]] > totalFreq[terms[b]]
			}
			return terms[a] < terms[b]
		})
		terms = terms[:maxFeatures]
	}
	sort.Strings(terms)

	idx := &Index{
		norm:  norm,
		vocab: make(map[string]int, len(terms)),
		terms: terms,
		idf:   make([]float64, len(terms)),
		rows:  make([][]entry, len(docs)),
	}
	n := float64(len(docs))
	for col, t := range terms {
		idx.vocab[t] = col
		idx.idf[col] = math.Log((1+n)/(1+float64(df[t]))) + 1
	}
	for i, toks := range tokenized {
		idx.rows[i] = idx.weigh(toks)
	}
	return idx
}

// weigh converts a token sequence into a sorted, L2-normalized sparse row.
// Terms outside the vocabulary are dropped, never added.
func (x *Index) weigh(tokens []string) []entry {
	counts := make(map[int]int, len(tokens))
	for _, t := range tokens {
		if col, ok := x.vocab[t]; ok {
			counts[col]++
		}
	}
	if len(counts) == 0 {
		return nil
	}
	row := make([]entry, 0, len(counts))
	norm := 0.0
	for col, c := range counts {
		w := float64(c) * x.idf[col]
		row = append(row, entry{col: col, w: w})
		norm += w * w
	}
	norm = math.Sqrt(norm)
	for i := range row {
		row[i].w /= norm
	}
	sort.Slice(row, func(a, b int) bool { return row[a].col < row[b].col })
	return row
}

// Len returns the number of corpus rows.
func (x *Index) Len() int { return len(x.rows) }

// VocabSize returns the number of vocabulary terms (columns).
func (x *Index) VocabSize() int { return len(x.terms) }

// Vectorize projects arbitrary text into the vocabulary space, returning an
// L2-normalized sparse vector keyed by column. Text that reduces to zero
// known terms yields an empty vector, a normal outcome for the caller to
// fall back on, not an error.
func (x *Index) Vectorize(text string) map[int]float64 {
	tokens := x.norm.Tokens(text)
	counts := make(map[int]int, len(tokens))
	for _, t := range tokens {
		if col, ok := x.vocab[t]; ok {
			counts[col]++
		}
	}
	vec := make(map[int]float64, len(counts))
	norm := 0.0
	for col, c := range counts {
		w := float64(c) * x.idf[col]
		vec[col] = w
		norm += w * w
	}
	if norm > 0 {
		norm = math.Sqrt(norm)
		for col := range vec {
			vec[col] /= norm
		}
	}
	return vec
}

// Scores returns the cosine similarity of the query vector against every
// corpus row, in row order. Rows and query are pre-normalized, so this is
// a sparse dot product per row.
func (x *Index) Scores(query map[int]float64) []float64 {
	out := make([]float64, len(x.rows))
	if len(query) == 0 {
		return out
	}
	for i, row := range x.rows {
		s := 0.0
		for _, e := range row {
			if qv, ok := query[e.col]; ok {
				s += qv * e.w
			}
		}
		out[i] = s
	}
	return out
}

// RowScores returns the cosine similarity of corpus row i against every
// row, in row order. It reuses the precomputed row vector instead of
// re-parsing the item's document.
func (x *Index) RowScores(i int) []float64 {
	row := x.rows[i]
	vec := make(map[int]float64, len(row))
	for _, e := range row {
		vec[e.col] = e.w
	}
	return x.Scores(vec)
}

// HasTerm reports whether the normalized term is part of the vocabulary.
// Intended for tests and diagnostics.
func (x *Index) HasTerm(term string) bool {
	_, ok := x.vocab[term]
	return ok
}
