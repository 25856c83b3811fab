package quality

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHeuristicScoreBounds(t *testing.T) {
	inputs := []string{
		"",
		"ok",
		"word word word word word",
		strings.Repeat("the quick brown fox jumps over the lazy dog. ", 40),
		"A thorough explanation covering several distinct concepts, with varied vocabulary and complete sentences. It elaborates carefully. It concludes properly.",
	}
	for _, in := range inputs {
		res := HeuristicScore(in)
		assert.GreaterOrEqual(t, res.Score, 0.0, "input %q", in)
		assert.LessOrEqual(t, res.Score, 100.0, "input %q", in)
		assert.Equal(t, MethodHeuristic, res.Method)
	}
}

func TestHeuristicScoreEmptyResponse(t *testing.T) {
	res := HeuristicScore("")
	assert.Less(t, res.Score, 10.0)
	assert.Zero(t, res.Stats.WordCount)
}

func TestHeuristicScoreDegenerateOutput(t *testing.T) {
	assert.Less(t, HeuristicScore("yes").Score, 10.0)
	assert.Less(t, HeuristicScore("a b").Score, 10.0)
}

func TestHeuristicScoreRewardsSubstance(t *testing.T) {
	poor := HeuristicScore("no no no no no no no no")
	good := HeuristicScore("Renewable sources such as solar and wind replenish naturally over time. " +
		"Non-renewable sources like coal and oil exist in finite quantities. " +
		"Burning fossil fuels releases stored carbon, while renewables generate electricity without depleting reserves. " +
		"The distinction matters for long-term energy planning.")

	assert.Greater(t, good.Score, poor.Score)
	assert.Greater(t, good.Score, 50.0)
}

func TestAnalyzeStats(t *testing.T) {
	stats := Analyze("The cat sat. The cat ran!")

	assert.Equal(t, 6, stats.WordCount)
	assert.Equal(t, 4, stats.UniqueWords) // the, cat, sat, ran
	assert.InDelta(t, 4.0/6.0, stats.UniqueWordRatio, 1e-9)
	assert.Equal(t, 2, stats.SentenceCount)
	assert.Equal(t, len([]rune("The cat sat. The cat ran!")), stats.CharCount)
}

func TestCountSentencesIgnoresBareDelimiters(t *testing.T) {
	assert.Equal(t, 0, countSentences("... !!! ???"))
	assert.Equal(t, 1, countSentences("One sentence without terminal punctuation"))
	assert.Equal(t, 3, countSentences("One. Two? Three!"))
}
