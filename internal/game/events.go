// internal/game/events.go
//
// Notifications emitted to the presentation layer. Listeners are called
// synchronously, in order, from inside the operation that caused the event;
// they must not call back into the Game.

package game

import (
	"github.com/yoakh/thewheelofthefortune/internal/catalog"
	"github.com/yoakh/thewheelofthefortune/internal/scoring"
	"github.com/yoakh/thewheelofthefortune/internal/wheel"
)

// EventKind names a notification.
type EventKind string

const (
	EventSectorsReady    EventKind = "sectorsReady"
	EventPhraseLoaded    EventKind = "phraseLoaded"
	EventLettersRevealed EventKind = "lettersRevealed"
	EventLetterResult    EventKind = "letterResult"
	EventGuessRejected   EventKind = "guessRejected"
	EventModeChanged     EventKind = "modeChanged"
	EventRoundComplete   EventKind = "roundComplete"
	EventSolutionResult  EventKind = "solutionResult"
	EventSpinStarted     EventKind = "spinStarted"
	EventWheelOutcome    EventKind = "wheelOutcome"
	EventCheatOutcome    EventKind = "cheatOutcome"
)

// Event is one notification. Data holds the payload type matching Kind.
type Event struct {
	Kind EventKind `json:"kind"`
	Data any       `json:"data,omitempty"`
}

// Listener receives events.
type Listener func(Event)

type SectorsReady struct {
	Sectors []wheel.Sector `json:"sectors"`
}

type PhraseLoaded struct {
	Phrase catalog.Phrase `json:"phrase"`
	Lines  []string       `json:"lines"` // masked board
}

type LettersRevealed struct {
	Letters []string `json:"letters"`
	Given   bool     `json:"given"`
}

// LetterResult is the outcome of one resolved guess.
type LetterResult struct {
	Letter     string `json:"letter"`
	Hit        bool   `json:"hit"`
	Matches    int    `json:"matches"`
	Points     int    `json:"points"`
	Purchased  bool   `json:"purchased"`
	ScoreRound int    `json:"scoreRound"`
}

type GuessRejected struct {
	Code   string `json:"code"`
	Reason string `json:"reason"`
}

type ModeChanged struct {
	Mode Mode `json:"mode"`
}

type RoundComplete struct {
	ScoreRound int `json:"scoreRound"`
	Bonus      int `json:"bonus"`
	ScoreTotal int `json:"scoreTotal"`
}

// SolutionResult is the outcome of a proposed solution.
type SolutionResult struct {
	Valid      bool         `json:"valid"`
	Score      int          `json:"score"`
	Reason     string       `json:"reason"`
	Proposal   string       `json:"proposal"`
	Bonus      int          `json:"bonus,omitempty"`
	Penalty    int          `json:"penalty,omitempty"`
	Tier       scoring.Tier `json:"tier,omitempty"`
	Message    string       `json:"message,omitempty"`
	Solution   string       `json:"solution,omitempty"`
	ScoreRound int          `json:"scoreRound"`
	ScoreTotal int          `json:"scoreTotal"`
}

type SpinStarted struct {
	Plan wheel.Plan `json:"plan"`
}

type WheelOutcome struct {
	Sector     wheel.Sector `json:"sector"`
	Kind       wheel.Kind   `json:"kind"`
	ScoreRound int          `json:"scoreRound"`
}

// CheatOutcome carries the letter the cheat revealed; empty when nothing was
// left to reveal.
type CheatOutcome struct {
	Letter string `json:"letter,omitempty"`
}
