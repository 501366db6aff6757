package game

import (
	"errors"

	"github.com/yoakh/thewheelofthefortune/internal/catalog"
)

// Rejection categories. Every rejected intent returns a *Rejection wrapping
// one of these and leaves the round as it was.
var (
	ErrInvalidGuess      = errors.New("invalid guess")
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrNoActivePhrase    = errors.New("no active phrase")
	ErrSpinInFlight      = errors.New("spin in progress")
	ErrNoSpinInFlight    = errors.New("no spin to resolve")
	ErrRoundOver         = errors.New("round is over")
	ErrUnknownCategory   = catalog.ErrUnknownCategory
)

// Rejection is a refused intent with a player-facing reason.
type Rejection struct {
	Err    error
	Reason string
}

func (r *Rejection) Error() string { return r.Err.Error() + ": " + r.Reason }

func (r *Rejection) Unwrap() error { return r.Err }

// Reason extracts the player-facing reason from err, or err's text.
func Reason(err error) string {
	var r *Rejection
	if errors.As(err, &r) {
		return r.Reason
	}
	return err.Error()
}

// Code is a stable machine-readable name for a rejection.
func Code(err error) string {
	var r *Rejection
	if errors.As(err, &r) {
		return codeOf(r.Err)
	}
	return "internal"
}
