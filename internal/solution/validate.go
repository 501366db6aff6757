// internal/solution/validate.go
//
// Flexible validation of a player's proposed solution.
//
// Strategies, first match wins:
//   1. Exact match after text.Normalize → valid, score 100.
//   2. Word overlap: solution words longer than two letters are matched
//      against proposal words (exact, or ≥80% positional character agreement).
//      At least 75% of them matched → valid, score = that percentage.
//   3. Global positional similarity → never valid, score is informative only.
//
// The positional comparisons are deliberately not edit distances: the
// acceptance thresholds were tuned against this behavior.

package solution

import (
	"fmt"
	"math"

	"github.com/samber/lo"

	"github.com/yoakh/thewheelofthefortune/internal/text"
)

const (
	minWordLen     = 3   // words shorter than this are ignored by the overlap pass
	wordMatchRatio = 0.8 // positional agreement needed for a fuzzy word match
	acceptPercent  = 75  // overlap percentage needed to accept the proposal
	perfectScore   = 100
)

// Result is the outcome of validating a proposal.
type Result struct {
	Valid        bool   `json:"valid"`
	Score        int    `json:"score"` // 0..100
	Reason       string `json:"reason"`
	CorrectWords int    `json:"correctWords,omitempty"`
	TotalWords   int    `json:"totalWords,omitempty"`
}

// Validate scores proposal against solution.
func Validate(proposal, solution string) Result {
	p := text.Normalize(proposal)
	s := text.Normalize(solution)

	if p == s {
		return Result{Valid: true, Score: perfectScore, Reason: "Perfect!"}
	}

	solWords := significantWords(s)
	if len(solWords) > 0 {
		propWords := significantWords(p)
		correct := lo.CountBy(solWords, func(sw string) bool {
			return lo.SomeBy(propWords, func(pw string) bool { return wordsMatch(pw, sw) })
		})
		pct := int(math.Round(float64(correct) / float64(len(solWords)) * 100))
		if pct >= acceptPercent {
			return Result{
				Valid:        true,
				Score:        pct,
				Reason:       fmt.Sprintf("%d/%d words correct", correct, len(solWords)),
				CorrectWords: correct,
				TotalWords:   len(solWords),
			}
		}
	}

	sim := Similarity(p, s)
	return Result{Valid: false, Score: sim, Reason: fmt.Sprintf("Only %d%% similarity", sim)}
}

// Similarity compares a and b position by position up to the shorter length,
// counts the length difference as extra mismatches, and maps the result onto
// 0..100 relative to the longer string.
func Similarity(a, b string) int {
	if a == b {
		return perfectScore
	}
	longest := max(len(a), len(b))
	if longest == 0 {
		return perfectScore
	}
	shortest := min(len(a), len(b))

	distance := 0
	for i := 0; i < shortest; i++ {
		if a[i] != b[i] {
			distance++
		}
	}
	distance += longest - shortest

	sim := math.Max(0, 100-float64(distance)/float64(longest)*100)
	return int(math.Round(sim))
}

func significantWords(normalized string) []string {
	return lo.Filter(text.Words(normalized), func(w string, _ int) bool {
		return len(w) >= minWordLen
	})
}

// wordsMatch reports an exact match or ≥80% agreement over the common prefix.
func wordsMatch(proposed, target string) bool {
	if proposed == target {
		return true
	}
	if len(proposed) < minWordLen || len(target) < minWordLen {
		return false
	}
	n := min(len(proposed), len(target))
	same := 0
	for i := 0; i < n; i++ {
		if proposed[i] == target[i] {
			same++
		}
	}
	return float64(same) >= float64(n)*wordMatchRatio
}
