// internal/wheel/wheel.go
//
// Wheel geometry and spin generation.
// Responsibilities:
//   - Build equal-width sectors from the configured list (angles are derived).
//   - Produce spin parameters for the presentation layer to animate.
//   - Map the settled wheel angle back to the sector under the fixed pointer.
//
// The pointer sits at 0° and the wheel turns clockwise, so the sector under the
// pointer is the one containing (360 - angle) mod 360.

package wheel

import (
	"errors"
	"fmt"
	"math"

	"github.com/yoakh/thewheelofthefortune/internal/rng"
)

// Sentinel sector values. Any positive value is a per-letter multiplier.
const (
	Bankrupt    = 0
	SkipTurn    = -1
	RespinAgain = -2
)

const (
	minDurationMs = 5000
	maxDurationMs = 10000
	minTurns      = 8
	maxTurns      = 15
)

// Kind classifies a sector by its effect.
type Kind string

const (
	KindPoints   Kind = "points"
	KindBankrupt Kind = "bankrupt"
	KindSkip     Kind = "skip"
	KindRespin   Kind = "respin"
)

// SectorConfig is one configured wheel slice, in wheel order.
type SectorConfig struct {
	ID    int    `json:"id" yaml:"id"`
	Value int    `json:"value" yaml:"value"`
	Label string `json:"label" yaml:"label"`
	Color string `json:"color" yaml:"color"`
}

// Sector is a configured slice with its derived angles, in degrees.
// A sector covers [AngleStart, AngleEnd).
type Sector struct {
	ID          int     `json:"id"`
	Value       int     `json:"value"`
	Label       string  `json:"label"`
	Color       string  `json:"color"`
	AngleStart  float64 `json:"angleStart"`
	AngleEnd    float64 `json:"angleEnd"`
	AngleCenter float64 `json:"angleCenter"`
}

// Kind reports the effect of landing on s.
func (s Sector) Kind() Kind {
	switch {
	case s.Value > 0:
		return KindPoints
	case s.Value == Bankrupt:
		return KindBankrupt
	case s.Value == SkipTurn:
		return KindSkip
	case s.Value == RespinAgain:
		return KindRespin
	}
	// Unknown negative values behave like a lost turn.
	return KindSkip
}

// ErrNoSectors is returned by Build for an empty configuration.
var ErrNoSectors = errors.New("wheel: no sectors configured")

// Build derives equal-width sectors from cfgs, preserving order. Together the
// sectors partition [0, 360) with no gaps or overlaps.
func Build(cfgs []SectorConfig) ([]Sector, error) {
	if len(cfgs) == 0 {
		return nil, ErrNoSectors
	}
	width := 360.0 / float64(len(cfgs))
	out := make([]Sector, len(cfgs))
	for i, c := range cfgs {
		start := float64(i) * width
		end := float64(i+1) * width
		if i == len(cfgs)-1 {
			end = 360
		}
		out[i] = Sector{
			ID:          c.ID,
			Value:       c.Value,
			Label:       c.Label,
			Color:       c.Color,
			AngleStart:  start,
			AngleEnd:    end,
			AngleCenter: start + width/2,
		}
	}
	return out, nil
}

// Plan describes one spin for the presentation layer to animate.
type Plan struct {
	RotationDegrees float64 `json:"rotationDegrees"`
	DurationMs      int     `json:"durationMs"`
	Turns           float64 `json:"turns"`
	FinalOffset     float64 `json:"finalOffset"`
}

// SettledAngle is where the wheel rests once the plan has fully played.
func (p Plan) SettledAngle() float64 {
	return normalizeAngle(p.RotationDegrees)
}

func (p Plan) String() string {
	return fmt.Sprintf("%.1f turns +%.1f° over %dms", p.Turns, p.FinalOffset, p.DurationMs)
}

// Spin draws a new spin plan from src.
func Spin(src rng.Source) Plan {
	duration := minDurationMs + int(src.Float64()*(maxDurationMs-minDurationMs))
	turns := minTurns + src.Float64()*(maxTurns-minTurns)
	offset := src.Float64() * 360
	return Plan{
		RotationDegrees: turns*360 + offset,
		DurationMs:      duration,
		Turns:           turns,
		FinalOffset:     offset,
	}
}

// Resolve returns the sector under the pointer when the wheel has settled at
// angle degrees. It falls back to the first sector when no sector matches,
// which only happens for non-finite angles or rounding at exactly 360°.
// sectors must be non-empty.
func Resolve(sectors []Sector, angle float64) Sector {
	pointer := math.Mod(360-normalizeAngle(angle), 360)
	for _, s := range sectors {
		if pointer >= s.AngleStart && pointer < s.AngleEnd {
			return s
		}
	}
	return sectors[0]
}

func normalizeAngle(a float64) float64 {
	r := math.Mod(a, 360)
	if r < 0 {
		r += 360
	}
	return r
}
