// Package matcher scores user questions against a static FAQ catalog.
//
// Matching blends a sequence-similarity ratio over the normalized question
// text with keyword overlap against tokens derived from the catalog entry.
// The catalog is immutable after construction, so a Matcher is safe for
// concurrent use without locking.
package matcher

import (
	"github.com/hbollon/go-edlib"
)

// Default blend weights and acceptance threshold, overridable through Config.
const (
	DefaultSimilarityWeight = 0.6
	DefaultOverlapWeight    = 0.4
	DefaultThreshold        = 0.7
	DefaultAlgorithm        = "lcs"
)

// QA is a raw question/answer pair supplied by the catalog.
type QA struct {
	Question string `yaml:"question"`
	Answer   string `yaml:"answer"`
}

// Config holds the scoring knobs.
type Config struct {
	SimilarityWeight float64
	OverlapWeight    float64
	Threshold        float64
	Algorithm        string // lcs, levenshtein, jaro-winkler or cosine
	Stemming         bool
}

func (c Config) withDefaults() Config {
	if c.SimilarityWeight <= 0 {
		c.SimilarityWeight = DefaultSimilarityWeight
	}
	if c.OverlapWeight <= 0 {
		c.OverlapWeight = DefaultOverlapWeight
	}
	if c.Threshold <= 0 {
		c.Threshold = DefaultThreshold
	}
	if c.Algorithm == "" {
		c.Algorithm = DefaultAlgorithm
	}
	return c
}

// Entry is an immutable catalog record with its derived keyword set.
type Entry struct {
	Question string
	Answer   string
	Keywords []string
}

// Result reports the outcome of matching one query. Entry is nil when no
// catalog entry cleared the threshold; Confidence still carries the best
// score observed so the caller can surface it.
type Result struct {
	Entry      *Entry
	Confidence float64
	Matched    bool
}

// Matcher evaluates queries against the derived catalog.
type Matcher struct {
	cfg        Config
	alg        edlib.Algorithm
	entries    []Entry
	normalized []string
	keySets    []map[string]struct{}
}

// New derives keyword sets for every catalog pair and returns a ready
// matcher. Catalog order is preserved: it is the tie-break order.
func New(cfg Config, catalog []QA) *Matcher {
	cfg = cfg.withDefaults()
	m := &Matcher{
		cfg:        cfg,
		alg:        resolveAlgorithm(cfg.Algorithm),
		entries:    make([]Entry, 0, len(catalog)),
		normalized: make([]string, 0, len(catalog)),
		keySets:    make([]map[string]struct{}, 0, len(catalog)),
	}
	for _, qa := range catalog {
		tokens := tokenize(qa.Question, cfg.Stemming)
		set := tokenSet(tokens)
		keywords := make([]string, 0, len(set))
		seen := make(map[string]struct{}, len(set))
		for _, tok := range tokens {
			if _, dup := seen[tok]; dup {
				continue
			}
			seen[tok] = struct{}{}
			keywords = append(keywords, tok)
		}
		m.entries = append(m.entries, Entry{
			Question: qa.Question,
			Answer:   qa.Answer,
			Keywords: keywords,
		})
		m.normalized = append(m.normalized, normalizeText(qa.Question, cfg.Stemming))
		m.keySets = append(m.keySets, set)
	}
	return m
}

// Len reports the catalog size.
func (m *Matcher) Len() int {
	return len(m.entries)
}

// Entries returns a copy of the derived catalog.
func (m *Matcher) Entries() []Entry {
	out := make([]Entry, len(m.entries))
	copy(out, m.entries)
	return out
}

// Canonical returns the normalized form of a query, used as a stable key for
// counting repeated questions.
func (m *Matcher) Canonical(query string) string {
	return normalizeText(query, m.cfg.Stemming)
}

// Score rates how well query matches entry, in [0,1]. It is a pure function
// of its arguments: an empty or all-punctuation query scores 0 against every
// entry.
func (m *Matcher) Score(query string, entry Entry) float64 {
	queryTokens := tokenize(query, m.cfg.Stemming)
	queryNorm := normalizeText(query, m.cfg.Stemming)
	entryNorm := normalizeText(entry.Question, m.cfg.Stemming)
	return m.blend(queryNorm, tokenSet(queryTokens), entryNorm, tokenSet(entry.Keywords))
}

// Match scores every catalog entry and selects the best one. Ties keep the
// entry that appears first in the catalog. The call never fails: an empty
// catalog yields the zero Result.
func (m *Matcher) Match(query string) Result {
	if len(m.entries) == 0 {
		return Result{}
	}

	queryNorm := normalizeText(query, m.cfg.Stemming)
	querySet := tokenSet(tokenize(query, m.cfg.Stemming))

	bestIdx := 0
	bestScore := m.blend(queryNorm, querySet, m.normalized[0], m.keySets[0])
	for i := 1; i < len(m.entries); i++ {
		score := m.blend(queryNorm, querySet, m.normalized[i], m.keySets[i])
		if score > bestScore {
			bestScore = score
			bestIdx = i
		}
	}

	if bestScore < m.cfg.Threshold {
		return Result{Confidence: bestScore}
	}
	entry := m.entries[bestIdx]
	return Result{Entry: &entry, Confidence: bestScore, Matched: true}
}

func (m *Matcher) blend(queryNorm string, querySet map[string]struct{}, entryNorm string, keywords map[string]struct{}) float64 {
	similarity := m.similarity(queryNorm, entryNorm)
	overlap := keywordOverlap(querySet, keywords)
	return clamp01(m.cfg.SimilarityWeight*similarity + m.cfg.OverlapWeight*overlap)
}

func (m *Matcher) similarity(a, b string) float64 {
	if a == "" || b == "" {
		return 0
	}
	if a == b {
		return 1
	}
	score, err := edlib.StringsSimilarity(a, b, m.alg)
	if err != nil {
		return 0
	}
	return clamp01(float64(score))
}

// keywordOverlap divides by the entry keyword cardinality, so swapping query
// and entry text does not have to produce the same score.
func keywordOverlap(querySet, keywords map[string]struct{}) float64 {
	if len(querySet) == 0 || len(keywords) == 0 {
		return 0
	}
	shared := 0
	for tok := range querySet {
		if _, ok := keywords[tok]; ok {
			shared++
		}
	}
	return float64(shared) / float64(len(keywords))
}

func resolveAlgorithm(name string) edlib.Algorithm {
	switch name {
	case "levenshtein":
		return edlib.Levenshtein
	case "jaro-winkler":
		return edlib.JaroWinkler
	case "cosine":
		return edlib.Cosine
	default:
		return edlib.Lcs
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
