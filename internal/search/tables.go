package search

// Config bundles every heuristic lookup table the retrieval core depends
// on. The tables are data, not code: they are loaded once at startup and
// can be replaced wholesale (e.g. per locale) without touching ranking
// logic. Tests substitute small fixture tables.
type Config struct {
	// Stopwords are dropped during normalization.
	Stopwords []string
	// Lemmas maps irregular inflected forms to their dictionary base form.
	Lemmas map[string]string
	// Misspellings maps common misspellings/variants to canonical terms.
	// Replacement is whole-word and case-insensitive.
	Misspellings map[string]string
	// Genres is the genre vocabulary in priority order; the first
	// word-boundary match in a query wins.
	Genres []string
	// Moods maps mood names to word patterns, in priority order.
	Moods []MoodRule
	// Expansions append synonyms when their trigger occurs as a substring
	// of the corrected query, in table order.
	Expansions []ExpansionRule
	// Prefixes are conversational lead-ins stripped from the start of the
	// expanded query.
	Prefixes []string
	// Boost holds the intent boost increments.
	Boost BoostConfig
	// MaxFeatures caps the vocabulary size; 0 means unlimited.
	MaxFeatures int
}

// MoodRule names a mood and the regex word patterns that signal it.
// Patterns are matched with word boundaries, case-insensitively.
type MoodRule struct {
	Name     string
	Patterns []string
}

// ExpansionRule appends Synonyms to the query text when Trigger occurs
// anywhere in the corrected query.
type ExpansionRule struct {
	Trigger  string
	Synonyms []string
}

// BoostConfig holds the additive increments that make up an item's
// multiplicative boost factor. The factor starts at 1.0, so a scored item
// is never penalized by boosting.
type BoostConfig struct {
	Genre       float64 // item genre list contains the extracted genre
	Mood        float64 // mood name appears in overview+keywords text
	MoodKeyword float64 // any mood pattern appears; applied at most once
	Actor       float64 // extracted actor appears in the cast list
	Decade      float64 // release year falls in the extracted decade
}

// DefaultBoost returns the production boost increments.
func DefaultBoost() BoostConfig {
	return BoostConfig{Genre: 0.5, Mood: 0.3, MoodKeyword: 0.1, Actor: 0.4, Decade: 0.3}
}

// DefaultConfig returns the full production table set for the English
// catalog.
func DefaultConfig() Config {
	return Config{
		Stopwords:    DefaultStopwords(),
		Lemmas:       DefaultLemmas(),
		Misspellings: DefaultMisspellings(),
		Genres:       DefaultGenres(),
		Moods:        DefaultMoods(),
		Expansions:   DefaultExpansions(),
		Prefixes:     DefaultPrefixes(),
		Boost:        DefaultBoost(),
		MaxFeatures:  5000,
	}
}

// DefaultStopwords returns a common English stopword set.
func DefaultStopwords() []string {
	return []string{
		"a", "an", "the", "and", "or", "but", "if", "then", "else",
		"to", "in", "of", "on", "for", "with", "as", "at", "by", "from",
		"is", "are", "was", "were", "be", "been", "being",
		"this", "that", "these", "those", "it", "its",
		"i", "me", "my", "we", "our", "you", "your",
		"he", "him", "his", "she", "her", "they", "them", "their",
		"do", "does", "did", "doing", "have", "has", "had", "having",
		"not", "no", "nor", "only", "very", "too", "so", "just",
		"can", "could", "should", "would", "may", "might", "must", "will",
		"than", "because", "while", "when", "where", "how", "what", "which", "who",
		"about", "above", "below", "under", "over", "into", "out", "up", "down",
		"again", "further", "once", "here", "there", "all", "any", "both", "each",
		"some", "such", "own", "same", "s", "t", "don",
	}
}

// DefaultLemmas maps irregular English forms the stemmer cannot reduce.
func DefaultLemmas() map[string]string {
	return map[string]string{
		"men":      "man",
		"women":    "woman",
		"children": "child",
		"people":   "person",
		"feet":     "foot",
		"teeth":    "tooth",
		"mice":     "mouse",
		"wolves":   "wolf",
		"ran":      "run",
		"saw":      "see",
		"went":     "go",
		"best":     "good",
		"better":   "good",
	}
}

// DefaultMisspellings maps common query misspellings and spacing variants
// to canonical terms.
func DefaultMisspellings() map[string]string {
	return map[string]string{
		"scifi":     "sci-fi",
		"sci fi":    "sci-fi",
		"starwars":  "star wars",
		"startrek":  "star trek",
		"comdy":     "comedy",
		"commedy":   "comedy",
		"horor":     "horror",
		"horrer":    "horror",
		"thriler":   "thriller",
		"advanture": "adventure",
		"adventur":  "adventure",
		"romcom":    "romantic comedy",
		"bollywod":  "bollywood",
		"bolywood":  "bollywood",
		"dramma":    "drama",
		"documentry": "documentary",
	}
}

// DefaultGenres is the genre vocabulary in match priority order.
// Multi-word genres come before their single-word substrings.
func DefaultGenres() []string {
	return []string{
		"science fiction", "sci-fi",
		"action", "adventure", "animation", "comedy", "crime",
		"documentary", "drama", "family", "fantasy", "history",
		"horror", "music", "musical", "mystery", "romance",
		"thriller", "war", "western", "bollywood",
	}
}

// DefaultMoods returns the mood table in match priority order. The mood
// name itself is always an implicit pattern.
func DefaultMoods() []MoodRule {
	return []MoodRule{
		{Name: "scary", Patterns: []string{"scary", "frightening", "terrifying", "creepy", "spooky", "haunted", "horror"}},
		{Name: "funny", Patterns: []string{"funny", "hilarious", "laugh", "humorous", "comedy", "comedies"}},
		{Name: "romantic", Patterns: []string{"romantic", "romance", "love", "passion"}},
		{Name: "exciting", Patterns: []string{"exciting", "thrilling", "adrenaline", "action packed", "action-packed"}},
		{Name: "sad", Patterns: []string{"sad", "emotional", "tearjerker", "tragedy", "heartbreaking"}},
		{Name: "uplifting", Patterns: []string{"uplifting", "feel good", "feel-good", "heartwarming", "inspiring"}},
		{Name: "dark", Patterns: []string{"dark", "gritty", "bleak", "noir"}},
	}
}

// DefaultExpansions returns the query expansion table, applied in order.
func DefaultExpansions() []ExpansionRule {
	return []ExpansionRule{
		{Trigger: "kids", Synonyms: []string{"children", "family", "animated"}},
		{Trigger: "superhero", Synonyms: []string{"marvel", "dc", "comic", "hero"}},
		{Trigger: "space", Synonyms: []string{"sci-fi", "galaxy", "astronaut", "alien"}},
		{Trigger: "classic", Synonyms: []string{"old", "vintage", "timeless"}},
		{Trigger: "scary", Synonyms: []string{"horror", "ghost", "haunted"}},
		{Trigger: "bollywood", Synonyms: []string{"hindi", "indian"}},
	}
}

// DefaultPrefixes returns the conversational lead-ins stripped from query
// starts. Longer phrases precede their own prefixes so "find me" wins
// over "find".
func DefaultPrefixes() []string {
	return []string{
		"can you find me", "can you find", "i want to watch", "i want to see",
		"i would like to watch", "show me some", "show me", "find me", "find",
		"search for", "looking for", "recommend me some", "recommend me",
		"recommend", "suggest me", "suggest", "give me", "play",
	}
}
