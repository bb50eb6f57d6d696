// Package summarizer builds a short extractive overview of a markdown document.
package summarizer

import (
	"math"
	"regexp"
	"sort"
	"strings"

	"docqa/internal/domain"
)

// DefaultSentences is the overview length used when none is given.
const DefaultSentences = 3

var _ domain.Summarizer = (*FrequencySummarizer)(nil)

var (
	tokenPattern    = regexp.MustCompile(`\p{L}+(?:['’]\p{L}+)*`)
	sentencePattern = regexp.MustCompile(`[^.!?\n]+[.!?]`)
	fencePattern    = regexp.MustCompile("(?s)```.*?```")
	linkPattern     = regexp.MustCompile(`!?\[([^\]]*)\]\([^)]*\)`)
	markupPattern   = regexp.MustCompile("(?m)^\\s*(?:#{1,6}|[-*+>]|\\d+\\.)\\s+|[`*_|]")
)

// FrequencySummarizer ranks sentences by the normalized frequency of their
// non-stopword terms.
type FrequencySummarizer struct {
	stopwords map[string]struct{}
}

// NewFrequencySummarizer creates a frequency-based sentence ranker.
func NewFrequencySummarizer() *FrequencySummarizer {
	return &FrequencySummarizer{stopwords: defaultStopwords()}
}

// Summarize returns up to maxSentences of the best ranked sentences in
// document order. Code blocks, links and markdown markup are ignored.
func (s *FrequencySummarizer) Summarize(text string, maxSentences int) (string, error) {
	if maxSentences <= 0 {
		maxSentences = DefaultSentences
	}
	plain := Plain(text)
	sentences := sentencePattern.FindAllString(plain, -1)
	if len(sentences) == 0 {
		return strings.Join(strings.Fields(plain), " "), nil
	}

	freq := map[string]float64{}
	for _, sent := range sentences {
		for _, tok := range s.terms(sent) {
			freq[tok]++
		}
	}
	top := 0.0
	for _, v := range freq {
		top = math.Max(top, v)
	}

	type ranked struct {
		idx   int
		score float64
	}
	scores := make([]ranked, len(sentences))
	for i, sent := range sentences {
		terms := s.terms(sent)
		score := 0.0
		for _, tok := range terms {
			score += freq[tok] / top
		}
		// normalize by sentence length
		if n := len(terms); n > 0 {
			score /= math.Sqrt(float64(n))
		}
		scores[i] = ranked{i, score}
	}
	sort.SliceStable(scores, func(i, j int) bool { return scores[i].score > scores[j].score })
	if maxSentences > len(scores) {
		maxSentences = len(scores)
	}

	selected := make([]int, maxSentences)
	for i := range selected {
		selected[i] = scores[i].idx
	}
	sort.Ints(selected)
	out := make([]string, len(selected))
	for i, idx := range selected {
		out[i] = strings.TrimSpace(sentences[idx])
	}
	return strings.Join(out, " "), nil
}

// Plain strips fenced code, link targets and inline markup from markdown.
func Plain(markdown string) string {
	text := fencePattern.ReplaceAllString(markdown, "\n")
	text = linkPattern.ReplaceAllString(text, "$1")
	return markupPattern.ReplaceAllString(text, "")
}

func (s *FrequencySummarizer) terms(text string) []string {
	tokens := tokenPattern.FindAllString(strings.ToLower(text), -1)
	out := tokens[:0]
	for _, tok := range tokens {
		if _, stop := s.stopwords[tok]; !stop {
			out = append(out, tok)
		}
	}
	return out
}

func defaultStopwords() map[string]struct{} {
	words := []string{
		"a", "an", "the", "and", "or", "but", "if", "then", "else", "for", "to", "of", "in", "on", "at", "by", "with", "as", "is", "are", "was", "were", "be", "been", "being", "it", "its", "this", "that", "these", "those", "from", "up", "down", "over", "under", "again", "further", "than", "so", "such", "into", "about", "between", "through", "during", "before", "after", "above", "below", "out", "off", "own", "same", "too", "very", "can", "will", "just", "should", "now", "you", "your", "we", "our",
	}
	m := make(map[string]struct{}, len(words))
	for _, w := range words {
		m[w] = struct{}{}
	}
	return m
}
