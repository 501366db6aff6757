// Package scoring holds the pure scoring rules of a round.
package scoring

import (
	"math"
	"strings"
)

// Vowels must be bought rather than guessed after a spin.
const Vowels = "AEIOUY"

const (
	// SolutionBase is the bonus for proposing an exact solution.
	SolutionBase = 1000
	// SolutionFloor is the smallest fraction of SolutionBase a valid but
	// imperfect proposal earns.
	SolutionFloor = 0.7
	// MaxPenalty caps what a wrong proposal costs.
	MaxPenalty = 500
)

// IsVowel reports whether letter is one of Vowels.
func IsVowel(letter rune) bool {
	return strings.ContainsRune(Vowels, letter)
}

// LetterPoints is matches × value; non-positive wheel values score nothing.
func LetterPoints(matches, value int) int {
	if value <= 0 || matches <= 0 {
		return 0
	}
	return matches * value
}

// CanAfford reports whether a round score covers price.
func CanAfford(scoreRound, price int) bool {
	return scoreRound >= price
}

// SolutionBonus is the bonus for a valid proposal scored 0..100.
func SolutionBonus(score int) int {
	if score >= 100 {
		return SolutionBase
	}
	return int(math.Round(SolutionBase * math.Max(SolutionFloor, float64(score)/100)))
}

// WrongSolutionPenalty is what a rejected proposal costs, never more than the
// round score.
func WrongSolutionPenalty(scoreRound int) int {
	return max(0, min(MaxPenalty, scoreRound))
}

// Tier grades how close a rejected proposal was.
type Tier string

const (
	TierClose Tier = "close"
	TierWarm  Tier = "warm"
	TierCold  Tier = "cold"
)

// Encouragement picks the message tier for a rejected proposal's score.
func Encouragement(score int) Tier {
	switch {
	case score > 60:
		return TierClose
	case score > 30:
		return TierWarm
	default:
		return TierCold
	}
}

// Message is the player-facing line for t.
func (t Tier) Message() string {
	switch t {
	case TierClose:
		return "So close! Keep going!"
	case TierWarm:
		return "Not bad, but not close enough!"
	default:
		return "Way off the mark!"
	}
}
