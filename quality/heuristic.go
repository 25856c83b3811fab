// Package quality scores generated text on a 0-100 scale, either with
// surface text statistics or by delegating to a local judge model.
package quality

import (
	"strings"
	"unicode"
)

const (
	MethodHeuristic = "heuristic"
	MethodLLMJudge  = "llm_judge"
)

// TextStats are the surface statistics of one response.
type TextStats struct {
	CharCount       int     `json:"char_count"`
	WordCount       int     `json:"word_count"`
	UniqueWords     int     `json:"unique_words"`
	UniqueWordRatio float64 `json:"unique_word_ratio"`
	AvgWordLength   float64 `json:"avg_word_length"`
	SentenceCount   int     `json:"sentence_count"`
}

// Result is one scoring outcome.
type Result struct {
	Score  float64
	Method string
	Stats  TextStats
}

// Analyze computes surface statistics for a response. An empty response
// is valid input and yields zeroed stats.
func Analyze(response string) TextStats {
	stats := TextStats{CharCount: len([]rune(response))}

	words := strings.Fields(response)
	stats.WordCount = len(words)
	if stats.WordCount == 0 {
		return stats
	}

	seen := make(map[string]struct{}, len(words))
	var runeTotal int
	for _, w := range words {
		runeTotal += len([]rune(w))
		seen[strings.ToLower(strings.Trim(w, ".,!?;:\"'()"))] = struct{}{}
	}
	stats.UniqueWords = len(seen)
	stats.UniqueWordRatio = float64(stats.UniqueWords) / float64(stats.WordCount)
	stats.AvgWordLength = float64(runeTotal) / float64(stats.WordCount)
	stats.SentenceCount = countSentences(response)
	return stats
}

// HeuristicScore combines vocabulary diversity, sentence structure, and
// length sufficiency into a bounded score. Degenerate output (empty or
// a couple of tokens) lands near zero.
func HeuristicScore(response string) Result {
	stats := Analyze(response)
	if stats.WordCount == 0 {
		return Result{Score: 0, Method: MethodHeuristic, Stats: stats}
	}

	w := float64(stats.WordCount)
	diversity := 45 * stats.UniqueWordRatio * minf(w/20, 1)
	structure := 25 * minf(float64(stats.SentenceCount)/4, 1)
	length := 20 * minf(w/120, 1)
	wordLen := 10 * clamp01((stats.AvgWordLength-2)/4)

	score := diversity + structure + length + wordLen
	if stats.WordCount < 3 {
		if limit := float64(stats.WordCount) * 3; score > limit {
			score = limit
		}
	}
	if score > 100 {
		score = 100
	}
	return Result{Score: score, Method: MethodHeuristic, Stats: stats}
}

func countSentences(text string) int {
	count := 0
	for _, seg := range strings.FieldsFunc(text, func(r rune) bool {
		return r == '.' || r == '!' || r == '?'
	}) {
		if strings.IndexFunc(seg, unicode.IsLetter) >= 0 {
			count++
		}
	}
	return count
}

func minf(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
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
