package quality

import (
	"context"
	"fmt"
	"log"
	"regexp"
	"strconv"

	"github.com/envirollm/llm-energy-bench/providers"
)

var judgeScorePattern = regexp.MustCompile(`\d+(?:\.\d+)?`)

// Scorer scores responses, preferring the judge model when one is
// configured and falling back to the heuristic when it is not available
// or returns something unusable. Judge failure never fails a benchmark.
type Scorer struct {
	judge      providers.Provider
	judgeModel string
}

// NewScorer creates a heuristic-only scorer.
func NewScorer() *Scorer {
	return &Scorer{}
}

// NewJudgeScorer creates a scorer that asks judgeModel, served by the
// given provider, to rate responses.
func NewJudgeScorer(judge providers.Provider, judgeModel string) *Scorer {
	return &Scorer{judge: judge, judgeModel: judgeModel}
}

// Score rates a response against the prompt that produced it. The
// returned Stats always come from surface analysis; the score and
// method depend on whether the judge answered usably.
func (s *Scorer) Score(ctx context.Context, prompt, response string) Result {
	heuristic := HeuristicScore(response)
	if s.judge == nil || s.judgeModel == "" {
		return heuristic
	}

	score, err := s.askJudge(ctx, prompt, response)
	if err != nil {
		log.Printf("judge unavailable, falling back to heuristic: %v", err)
		return heuristic
	}

	return Result{Score: score, Method: MethodLLMJudge, Stats: heuristic.Stats}
}

func (s *Scorer) askJudge(ctx context.Context, prompt, response string) (float64, error) {
	judgePrompt := fmt.Sprintf(
		"You are grading the quality of an AI response.\n\nPrompt:\n%s\n\nResponse:\n%s\n\n"+
			"Rate the response from 0 to 100 considering relevance, coherence, and completeness. "+
			"Reply with only the number.",
		prompt, response)

	result, err := s.judge.Generate(ctx, s.judgeModel, judgePrompt)
	if err != nil {
		return 0, err
	}

	match := judgeScorePattern.FindString(result.Response)
	if match == "" {
		return 0, fmt.Errorf("unparsable judge reply: %q", truncate(result.Response, 80))
	}
	score, err := strconv.ParseFloat(match, 64)
	if err != nil || score < 0 || score > 100 {
		return 0, fmt.Errorf("judge score out of range: %q", match)
	}
	return score, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
