// internal/game/types.go
//
// Core type definitions for the round engine.
// Defines:
//   - Mode: whether the next letter is a spin guess or a vowel purchase.
//   - State: read-only snapshot handed to the presentation layer.
//   - HistoryEntry: record of a finished round.

package game

import (
	"time"

	"github.com/yoakh/thewheelofthefortune/internal/catalog"
	"github.com/yoakh/thewheelofthefortune/internal/grid"
	"github.com/yoakh/thewheelofthefortune/internal/wheel"
)

// Mode is the letter input mode.
type Mode string

const (
	ModeNormal      Mode = "normal"
	ModeBuyingVowel Mode = "buyingVowel"
)

// Outcome is how a round ended.
type Outcome string

const (
	OutcomeCompleted Outcome = "completed" // every letter revealed
	OutcomeSolved    Outcome = "solved"    // valid proposal
)

// HistoryEntry records a finished round.
type HistoryEntry struct {
	PhraseText   string    `json:"phrase"`
	CategoryKey  string    `json:"categoryKey"`
	CategoryName string    `json:"categoryName"`
	ScoreRound   int       `json:"scoreRound"`
	ScoreTotal   int       `json:"scoreTotal"`
	Outcome      Outcome   `json:"outcome"`
	Timestamp    time.Time `json:"timestamp"`
}

// CellView is a board cell as the player may see it; Char is empty while the
// cell is hidden.
type CellView struct {
	Kind     grid.Kind `json:"kind"`
	Char     string    `json:"char,omitempty"`
	Revealed bool      `json:"revealed"`
	Given    bool      `json:"given,omitempty"`
}

// State is a snapshot of a game. It never exposes hidden letters while the
// round is running.
type State struct {
	GameID       string          `json:"gameId"`
	ScoreTotal   int             `json:"scoreTotal"`
	ScoreRound   int             `json:"scoreRound"`
	Mode         Mode            `json:"mode"`
	UsedLetters  []string        `json:"usedLetters"`
	FoundLetters []string        `json:"foundLetters"`
	Pending      *wheel.Sector   `json:"pending,omitempty"`
	SpinInFlight bool            `json:"spinInFlight"`
	Phrase       *catalog.Phrase `json:"phrase,omitempty"`
	Board        [][]CellView    `json:"board,omitempty"`
	Revealed     int             `json:"revealed"`
	Total        int             `json:"total"`
	Finished     bool            `json:"finished"`
	Solution     string          `json:"solution,omitempty"`
	VowelPrice   int             `json:"vowelPrice"`
	CanBuyVowel  bool            `json:"canBuyVowel"`
	Playable     []string        `json:"playable"` // letters the player may pick now
	Rounds       int             `json:"rounds"`
}
