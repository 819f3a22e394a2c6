// Package ctfidf labels clusters by comparing term frequency inside each
// cluster against document frequency across the whole corpus. Naming is
// deterministic, derived from the top keywords, so labelling never needs a
// generative step and reruns reproduce the same names.
package ctfidf

import (
	"math"
	"sort"
	"strings"
	"unicode"

	"github.com/meridian-labs/topiclens/internal/core/ports/driven"
)

// Ensure Labeler implements the interface.
var _ driven.TopicLabeler = (*Labeler)(nil)

// PlaceholderName labels clusters that yielded no usable keywords.
const PlaceholderName = "Unlabelled Topic"

// Number of keywords joined into a topic name.
const nameKeywords = 3

// Labeler scores cluster terms with a document-frequency-weighted
// importance score and keeps the top N per cluster.
type Labeler struct {
	keywords int
}

// New creates a labeler retaining keywordsPerTopic ranked keywords.
func New(keywordsPerTopic int) *Labeler {
	if keywordsPerTopic < 1 {
		keywordsPerTopic = 1
	}
	return &Labeler{keywords: keywordsPerTopic}
}

// Label derives a name and ranked keyword list for every cluster.
func (l *Labeler) Label(clusters map[int][]string, corpus []string) map[int]driven.ClusterLabel {
	df := documentFrequencies(corpus)
	n := len(corpus)

	labels := make(map[int]driven.ClusterLabel, len(clusters))
	for id, texts := range clusters {
		keywords := l.rankTerms(texts, df, n)
		if len(keywords) == 0 {
			labels[id] = driven.ClusterLabel{
				Name:          PlaceholderName,
				LowConfidence: true,
			}
			continue
		}
		labels[id] = driven.ClusterLabel{
			Name:     deriveName(keywords),
			Keywords: keywords,
		}
	}
	return labels
}

// rankTerms scores every term in the cluster and returns the top keywords.
// Score is the cluster-relative term frequency weighted by smoothed
// inverse document frequency over the whole corpus, so terms common
// everywhere rank below terms distinctive to this cluster.
func (l *Labeler) rankTerms(texts []string, df map[string]int, corpusSize int) []string {
	counts := make(map[string]int)
	total := 0
	for _, text := range texts {
		for _, term := range tokenize(text) {
			counts[term]++
			total++
		}
	}
	if total == 0 {
		return nil
	}

	type scored struct {
		term  string
		score float64
	}
	terms := make([]scored, 0, len(counts))
	for term, count := range counts {
		tf := float64(count) / float64(total)
		idf := math.Log(float64(1+corpusSize)/float64(1+df[term])) + 1
		terms = append(terms, scored{term: term, score: tf * idf})
	}

	// Ties broken alphabetically for reproducible keyword order.
	sort.Slice(terms, func(i, j int) bool {
		if terms[i].score != terms[j].score {
			return terms[i].score > terms[j].score
		}
		return terms[i].term < terms[j].term
	})

	k := l.keywords
	if len(terms) < k {
		k = len(terms)
	}
	keywords := make([]string, k)
	for i := 0; i < k; i++ {
		keywords[i] = terms[i].term
	}
	return keywords
}

// documentFrequencies counts how many corpus documents contain each term.
func documentFrequencies(corpus []string) map[string]int {
	df := make(map[string]int)
	for _, text := range corpus {
		seen := make(map[string]struct{})
		for _, term := range tokenize(text) {
			if _, ok := seen[term]; ok {
				continue
			}
			seen[term] = struct{}{}
			df[term]++
		}
	}
	return df
}

// deriveName joins the top keywords, title-cased.
func deriveName(keywords []string) string {
	k := nameKeywords
	if len(keywords) < k {
		k = len(keywords)
	}
	parts := make([]string, k)
	for i := 0; i < k; i++ {
		parts[i] = titleCase(keywords[i])
	}
	return strings.Join(parts, ", ")
}

// titleCase upper-cases the first rune of a term.
func titleCase(s string) string {
	runes := []rune(s)
	if len(runes) == 0 {
		return s
	}
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}

// tokenize lower-cases, strips punctuation and drops stop words and
// single-character tokens.
func tokenize(text string) []string {
	var tokens []string
	for _, field := range strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	}) {
		if len(field) < 2 {
			continue
		}
		if _, ok := stopWords[field]; ok {
			continue
		}
		tokens = append(tokens, field)
	}
	return tokens
}
