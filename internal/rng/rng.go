// Package rng provides the randomness used for wheel spins, phrase picks and
// cheat letters. Production code uses frand; tests inject seeded sources.
package rng

import (
	"math/rand/v2"

	"lukechampine.com/frand"
)

// Source is the subset of a random generator the game needs.
type Source interface {
	IntN(n int) int
	Float64() float64
}

type cryptoSource struct{}

func (cryptoSource) IntN(n int) int   { return frand.Intn(n) }
func (cryptoSource) Float64() float64 { return frand.Float64() }

// Default returns a CSPRNG-backed Source safe for concurrent use.
func Default() Source { return cryptoSource{} }

// Seeded returns a deterministic Source. Not safe for concurrent use.
func Seeded(seed uint64) Source {
	// #nosec G404
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}
