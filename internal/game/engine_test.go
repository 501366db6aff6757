package game

import (
	"errors"
	"testing"
	"time"

	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yoakh/thewheelofthefortune/internal/catalog"
	"github.com/yoakh/thewheelofthefortune/internal/rng"
	"github.com/yoakh/thewheelofthefortune/internal/wheel"
)

// Four 90° sectors. The angles below settle the pointer mid-sector.
const (
	angle300      = 315.0
	angleBankrupt = 225.0
	angleSkip     = 135.0
	angleRespin   = 45.0
)

func testCatalog(t *testing.T, phrases ...string) *catalog.Catalog {
	t.Helper()
	var entries []catalog.PhraseEntry
	for i, p := range phrases {
		entries = append(entries, catalog.PhraseEntry{ID: i + 1, Phrase: p})
	}
	cat, _, err := catalog.New(
		[]wheel.SectorConfig{
			{ID: 1, Value: 300, Label: "300"},
			{ID: 2, Value: wheel.Bankrupt, Label: "Bankrupt"},
			{ID: 3, Value: wheel.SkipTurn, Label: "Lose a turn"},
			{ID: 4, Value: wheel.RespinAgain, Label: "Spin again"},
		},
		[]catalog.Category{{Key: "expressions", Name: "Expressions", Phrases: entries}},
		catalog.Params{},
	)
	require.NoError(t, err)
	return cat
}

type recorder struct{ events []Event }

func (r *recorder) listen(e Event) { r.events = append(r.events, e) }

func (r *recorder) kinds() []EventKind {
	out := make([]EventKind, len(r.events))
	for i, e := range r.events {
		out[i] = e.Kind
	}
	return out
}

func (r *recorder) reset() { r.events = nil }

func newTestGame(t *testing.T, phrases ...string) (*Game, *recorder) {
	t.Helper()
	if len(phrases) == 0 {
		phrases = []string{"TOMBER DES NUES"}
	}
	rec := &recorder{}
	g := New(testCatalog(t, phrases...), WithRand(rng.Seeded(1)), WithListener(rec.listen))
	require.NoError(t, g.NewGame(""))
	return g, rec
}

func spinTo(t *testing.T, g *Game, angle float64) wheel.Sector {
	t.Helper()
	_, err := g.StartSpin()
	require.NoError(t, err)
	s, err := g.ResolveSpin(angle)
	require.NoError(t, err)
	return s
}

func TestNewEmitsSectorsReady(t *testing.T) {
	rec := &recorder{}
	g := New(testCatalog(t, "TARTE TATIN"), WithListener(rec.listen))
	require.Len(t, rec.events, 1)
	assert.Equal(t, EventSectorsReady, rec.events[0].Kind)
	assert.Len(t, rec.events[0].Data.(SectorsReady).Sectors, 4)

	s := g.Snapshot()
	assert.Nil(t, s.Phrase)
	assert.False(t, s.Finished)
}

func TestRoundStartRevealsGivenLetters(t *testing.T) {
	g, rec := newTestGame(t)

	assert.Equal(t, []EventKind{EventSectorsReady, EventPhraseLoaded, EventLettersRevealed}, rec.kinds())
	assert.Equal(t, []string{"R", "S", "T", "N", "E"}, rec.events[2].Data.(LettersRevealed).Letters)

	s := g.Snapshot()
	assert.Equal(t, []string{"E", "N", "R", "S", "T"}, s.FoundLetters)
	assert.Empty(t, s.UsedLetters)
	assert.Equal(t, 0, s.ScoreRound)
	assert.Equal(t, ModeNormal, s.Mode)
	assert.Empty(t, s.Solution)
	// T_M_ER _ES _UES: O M B D U hidden.
	assert.Equal(t, 13, s.Total)
	assert.Equal(t, 8, s.Revealed)
}

func TestConsonantHitScoresSectorValue(t *testing.T) {
	g, rec := newTestGame(t)
	rec.reset()

	sector := spinTo(t, g, angle300)
	assert.Equal(t, 300, sector.Value)
	assert.Equal(t, 300, g.Snapshot().Pending.Value)

	res, err := g.GuessLetter('d')
	require.NoError(t, err)
	assert.Equal(t, LetterResult{Letter: "D", Hit: true, Matches: 1, Points: 300, ScoreRound: 300}, res)
	assert.Equal(t, []EventKind{EventSpinStarted, EventWheelOutcome, EventLetterResult}, rec.kinds())

	s := g.Snapshot()
	assert.Nil(t, s.Pending)
	assert.Contains(t, s.FoundLetters, "D")
	assert.Equal(t, 300, s.ScoreRound)
}

func TestConsonantMissIsUsed(t *testing.T) {
	g, _ := newTestGame(t)
	spinTo(t, g, angle300)

	res, err := g.GuessLetter('K')
	require.NoError(t, err)
	assert.False(t, res.Hit)
	assert.Equal(t, 0, res.Points)

	s := g.Snapshot()
	assert.Equal(t, []string{"K"}, s.UsedLetters)
	assert.Nil(t, s.Pending)
	assert.Equal(t, 0, s.ScoreRound)
}

func TestGuessRejections(t *testing.T) {
	g, rec := newTestGame(t)

	_, err := g.GuessLetter('M')
	assert.ErrorIs(t, err, ErrInvalidGuess)
	assert.Equal(t, "spin the wheel first", Reason(err))

	_, err = g.GuessLetter('7')
	assert.ErrorIs(t, err, ErrInvalidGuess)

	spinTo(t, g, angle300)
	_, err = g.GuessLetter('T')
	assert.Equal(t, "letter already revealed", Reason(err))

	_, err = g.GuessLetter('O')
	assert.Equal(t, "vowels must be bought", Reason(err))

	_, err = g.GuessLetter('K')
	require.NoError(t, err)
	spinTo(t, g, angle300)
	_, err = g.GuessLetter('K')
	assert.Equal(t, "letter already used", Reason(err))

	// Rejections leave the pending result in place.
	assert.NotNil(t, g.Snapshot().Pending)

	last := rec.events[len(rec.events)-1]
	assert.Equal(t, EventGuessRejected, last.Kind)
	assert.Equal(t, GuessRejected{Code: "invalid_guess", Reason: "letter already used"}, last.Data)
}

func TestSpinInFlight(t *testing.T) {
	g, _ := newTestGame(t)

	_, err := g.ResolveSpin(0)
	assert.ErrorIs(t, err, ErrNoSpinInFlight)

	plan, err := g.StartSpin()
	require.NoError(t, err)
	assert.GreaterOrEqual(t, plan.DurationMs, 5000)
	assert.True(t, g.Snapshot().SpinInFlight)

	_, err = g.StartSpin()
	assert.ErrorIs(t, err, ErrSpinInFlight)

	_, err = g.GuessLetter('M')
	assert.ErrorIs(t, err, ErrSpinInFlight)
	assert.Equal(t, "spin_in_flight", Code(err))

	_, err = g.ResolveSpin(plan.SettledAngle())
	require.NoError(t, err)
	assert.False(t, g.Snapshot().SpinInFlight)
}

func TestStartSpinDiscardsPending(t *testing.T) {
	g, _ := newTestGame(t)
	spinTo(t, g, angle300)
	_, err := g.StartSpin()
	require.NoError(t, err)
	assert.Nil(t, g.Snapshot().Pending)
}

func TestSpecialSectors(t *testing.T) {
	g, rec := newTestGame(t)
	spinTo(t, g, angle300)
	_, err := g.GuessLetter('D')
	require.NoError(t, err)

	for _, angle := range []float64{angleSkip, angleRespin} {
		s := spinTo(t, g, angle)
		assert.LessOrEqual(t, s.Value, 0)
		assert.Nil(t, g.Snapshot().Pending)
		assert.Equal(t, 300, g.Snapshot().ScoreRound)
		_, err = g.GuessLetter('M')
		assert.ErrorIs(t, err, ErrInvalidGuess)
	}

	rec.reset()
	spinTo(t, g, angleBankrupt)
	assert.Equal(t, 0, g.Snapshot().ScoreRound)
	assert.Nil(t, g.Snapshot().Pending)
	out := rec.events[1].Data.(WheelOutcome)
	assert.Equal(t, wheel.KindBankrupt, out.Kind)
	assert.Equal(t, 0, out.ScoreRound)
}

func TestBuyVowel(t *testing.T) {
	g, rec := newTestGame(t)

	err := g.BuyVowel()
	assert.ErrorIs(t, err, ErrInsufficientFunds)
	assert.Equal(t, ModeNormal, g.Snapshot().Mode)

	spinTo(t, g, angle300)
	_, err = g.GuessLetter('D')
	require.NoError(t, err)
	assert.True(t, g.Snapshot().CanBuyVowel)

	rec.reset()
	require.NoError(t, g.BuyVowel())
	assert.Equal(t, ModeBuyingVowel, g.Snapshot().Mode)
	assert.Equal(t, []string{"A", "I", "O", "U", "Y"}, g.Snapshot().Playable)
	assert.ErrorIs(t, g.BuyVowel(), ErrInvalidGuess)

	_, err = g.GuessLetter('M')
	assert.Equal(t, "choose a vowel", Reason(err))

	res, err := g.GuessLetter('O')
	require.NoError(t, err)
	assert.True(t, res.Purchased)
	assert.Equal(t, 0, res.Points)
	assert.Equal(t, 50, res.ScoreRound)
	assert.Equal(t, ModeNormal, g.Snapshot().Mode)
	assert.Equal(t, []EventKind{
		EventModeChanged, EventGuessRejected, EventGuessRejected, EventModeChanged, EventLetterResult,
	}, rec.kinds())
}

func TestBuyVowelMiss(t *testing.T) {
	g, _ := newTestGame(t)
	spinTo(t, g, angle300)
	_, err := g.GuessLetter('D')
	require.NoError(t, err)
	require.NoError(t, g.BuyVowel())

	res, err := g.GuessLetter('A')
	require.NoError(t, err)
	assert.False(t, res.Hit)
	assert.Equal(t, 50, g.Snapshot().ScoreRound)
	assert.Contains(t, g.Snapshot().UsedLetters, "A")
}

func TestVowelUnaffordableRevertsMode(t *testing.T) {
	g, _ := newTestGame(t)
	spinTo(t, g, angle300)
	_, err := g.GuessLetter('D')
	require.NoError(t, err)
	require.NoError(t, g.BuyVowel())

	// A bankrupt while choosing drains the funds.
	spinTo(t, g, angleBankrupt)
	_, err = g.GuessLetter('O')
	assert.ErrorIs(t, err, ErrInsufficientFunds)
	assert.Equal(t, ModeNormal, g.Snapshot().Mode)
	assert.NotContains(t, g.Snapshot().FoundLetters, "O")
}

func TestCancelVowel(t *testing.T) {
	g, _ := newTestGame(t)
	assert.ErrorIs(t, g.CancelVowel(), ErrInvalidGuess)

	spinTo(t, g, angle300)
	_, err := g.GuessLetter('D')
	require.NoError(t, err)
	require.NoError(t, g.BuyVowel())
	require.NoError(t, g.CancelVowel())
	assert.Equal(t, ModeNormal, g.Snapshot().Mode)
	assert.Equal(t, 300, g.Snapshot().ScoreRound)
}

func TestCompletingTheBoard(t *testing.T) {
	g, rec := newTestGame(t)
	for _, l := range "DMB" {
		spinTo(t, g, angle300)
		_, err := g.GuessLetter(l)
		require.NoError(t, err)
	}
	for _, v := range "OU" {
		require.NoError(t, g.BuyVowel())
		_, err := g.GuessLetter(v)
		require.NoError(t, err)
	}

	last := rec.events[len(rec.events)-1]
	assert.Equal(t, EventRoundComplete, last.Kind)
	assert.Equal(t, RoundComplete{ScoreRound: 1400, Bonus: 1000, ScoreTotal: 1400}, last.Data)

	s := g.Snapshot()
	assert.True(t, s.Finished)
	assert.Equal(t, "TOMBER DES NUES", s.Solution)
	assert.Equal(t, 1400, s.ScoreTotal)
	assert.Empty(t, s.Playable)

	h := g.History()
	require.Len(t, h, 1)
	assert.Equal(t, OutcomeCompleted, h[0].Outcome)
	assert.Equal(t, 1400, h[0].ScoreRound)

	_, err := g.StartSpin()
	assert.ErrorIs(t, err, ErrRoundOver)
	_, err = g.ProposeSolution("TOMBER DES NUES")
	assert.ErrorIs(t, err, ErrRoundOver)
	assert.Len(t, g.History(), 1)
}

func TestProposeSolutionValid(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	rec := &recorder{}
	g := New(testCatalog(t, "TOMBER DES NUES"), WithRand(rng.Seeded(2)), WithListener(rec.listen), WithClock(func() time.Time { return now }))
	require.NoError(t, g.NewGame(""))
	spinTo(t, g, angle300)
	_, err := g.GuessLetter('D')
	require.NoError(t, err)

	res, err := g.ProposeSolution("tomber des nues")
	require.NoError(t, err)
	assert.True(t, res.Valid)
	assert.Equal(t, 100, res.Score)
	assert.Equal(t, 1000, res.Bonus)
	assert.Equal(t, 1300, res.ScoreRound)
	assert.Equal(t, 1300, res.ScoreTotal)
	assert.Equal(t, "TOMBER DES NUES", res.Solution)

	s := g.Snapshot()
	assert.True(t, s.Finished)
	assert.Equal(t, s.Total, s.Revealed)
	assert.Equal(t, []HistoryEntry{{
		PhraseText:   "TOMBER DES NUES",
		CategoryKey:  "expressions",
		CategoryName: "Expressions",
		ScoreRound:   1300,
		ScoreTotal:   1300,
		Outcome:      OutcomeSolved,
		Timestamp:    now,
	}}, g.History())
}

func TestProposeSolutionPartialBonus(t *testing.T) {
	g, _ := newTestGame(t, "AVOIR LE COEUR SUR LA MAIN")
	res, err := g.ProposeSolution("avoir le cœur sur la main")
	require.NoError(t, err)
	assert.True(t, res.Valid)
	assert.Equal(t, 75, res.Score)
	assert.Equal(t, 750, res.Bonus)
}

func TestProposeSolutionInvalid(t *testing.T) {
	g, _ := newTestGame(t)
	spinTo(t, g, angle300)
	_, err := g.GuessLetter('D')
	require.NoError(t, err)

	res, err := g.ProposeSolution("AVOIR FAIM")
	require.NoError(t, err)
	assert.False(t, res.Valid)
	assert.Equal(t, 300, res.Penalty)
	assert.Equal(t, 0, res.ScoreRound)
	assert.NotEmpty(t, res.Tier)
	assert.Equal(t, res.Tier.Message(), res.Message)
	assert.Empty(t, res.Solution)
	assert.False(t, g.Snapshot().Finished)

	// Nothing left to lose.
	res, err = g.ProposeSolution("AVOIR FAIM")
	require.NoError(t, err)
	assert.Equal(t, 0, res.Penalty)

	_, err = g.ProposeSolution("")
	assert.ErrorIs(t, err, ErrInvalidGuess)
}

func TestProposeSolutionBlankCostsPenalty(t *testing.T) {
	for _, proposal := range []string{"   ", "?!"} {
		g, _ := newTestGame(t)
		spinTo(t, g, angle300)
		_, err := g.GuessLetter('D')
		require.NoError(t, err)

		res, err := g.ProposeSolution(proposal)
		require.NoError(t, err, proposal)
		assert.False(t, res.Valid, proposal)
		assert.Equal(t, 0, res.Score, proposal)
		assert.Equal(t, 300, res.Penalty, proposal)
		assert.Equal(t, 0, res.ScoreRound, proposal)
		assert.Equal(t, 0, g.Snapshot().ScoreRound, proposal)
	}
}

func TestCheat(t *testing.T) {
	g, rec := newTestGame(t)
	rec.reset()

	letter, err := g.Cheat()
	require.NoError(t, err)
	assert.Contains(t, "OMBDU", string(letter))
	assert.Equal(t, []EventKind{EventCheatOutcome, EventLetterResult}, rec.kinds())

	res := rec.events[1].Data.(LetterResult)
	assert.True(t, res.Hit)
	assert.Equal(t, 0, res.Points)
	assert.Equal(t, 0, g.Snapshot().ScoreRound)
	assert.Nil(t, g.Snapshot().Pending)
}

func TestCheatExhaustsLetters(t *testing.T) {
	g, rec := newTestGame(t)
	for i := 0; i < 5; i++ {
		_, err := g.Cheat()
		require.NoError(t, err)
	}
	s := g.Snapshot()
	assert.True(t, s.Finished)
	// The cheat earns nothing; only the completion bonus is scored.
	assert.Equal(t, 1000, s.ScoreTotal)

	_, err := g.Cheat()
	assert.ErrorIs(t, err, ErrRoundOver)

	rec.reset()
	require.NoError(t, g.NewRound(""))
	// Reveal everything by hand, leaving no cheat candidates.
	for _, l := range "OMBDU" {
		g.found[l] = true
	}
	letter, err := g.Cheat()
	require.NoError(t, err)
	assert.Equal(t, rune(0), letter)
	assert.Equal(t, Event{Kind: EventCheatOutcome, Data: CheatOutcome{}}, rec.events[len(rec.events)-1])
}

func TestNewRoundKeepsTotal(t *testing.T) {
	g, _ := newTestGame(t)
	_, err := g.ProposeSolution("TOMBER DES NUES")
	require.NoError(t, err)
	require.Equal(t, 1000, g.Snapshot().ScoreTotal)

	require.NoError(t, g.NewRound("expressions"))
	s := g.Snapshot()
	assert.Equal(t, 1000, s.ScoreTotal)
	assert.Equal(t, 0, s.ScoreRound)
	assert.False(t, s.Finished)
	assert.Equal(t, 1, s.Rounds)

	require.NoError(t, g.NewGame(""))
	assert.Equal(t, 0, g.Snapshot().ScoreTotal)
	assert.Empty(t, g.History())
}

func TestUnknownCategoryLeavesRoundAlone(t *testing.T) {
	g, _ := newTestGame(t)
	spinTo(t, g, angle300)
	_, err := g.GuessLetter('D')
	require.NoError(t, err)
	before := g.Snapshot()

	err = g.NewRound("nope")
	assert.True(t, errors.Is(err, ErrUnknownCategory))
	assert.Equal(t, "unknown_category", Code(err))
	assert.Equal(t, before, g.Snapshot())
}

func TestNoActivePhrase(t *testing.T) {
	g := New(testCatalog(t, "TARTE TATIN"))
	_, err := g.StartSpin()
	assert.ErrorIs(t, err, ErrNoActivePhrase)
	_, err = g.GuessLetter('A')
	assert.ErrorIs(t, err, ErrNoActivePhrase)
	_, err = g.Cheat()
	assert.ErrorIs(t, err, ErrNoActivePhrase)
	assert.ErrorIs(t, g.BuyVowel(), ErrNoActivePhrase)
}

func TestSnapshotHidesLetters(t *testing.T) {
	g, _ := newTestGame(t)
	s := g.Snapshot()
	require.Len(t, s.Board, 1)
	first := s.Board[0][0]
	assert.Equal(t, CellView{Kind: "letter", Char: "T", Revealed: true, Given: true}, first)
	second := s.Board[0][1]
	assert.Equal(t, CellView{Kind: "letter"}, second)
	assert.Empty(t, s.Playable)

	spinTo(t, g, angle300)
	assert.Equal(t, []string{"B", "C", "D", "F", "G", "H", "J", "K", "L", "M", "P", "Q", "V", "W", "X", "Z"}, g.Snapshot().Playable)
}

func TestDailyRoundIsStable(t *testing.T) {
	cat := testCatalog(t, "TARTE TATIN", "TOMBER DES NUES", "COUP DE FOUDRE")
	day := time.Date(2026, 10, 18, 0, 0, 0, 0, time.UTC)

	a := New(cat)
	a.NewDailyRound(day, "salt")
	b := New(cat)
	b.NewDailyRound(day.Add(5*time.Hour), "salt")
	assert.Equal(t, a.Snapshot().Phrase, b.Snapshot().Phrase)
}

func TestBuyVowelWithExactFunds(t *testing.T) {
	base := testCatalog(t, "TOMBER DES NUES")
	sectors := lo.Map(base.Sectors(), func(s wheel.Sector, _ int) wheel.SectorConfig {
		return wheel.SectorConfig{ID: s.ID, Value: s.Value, Label: s.Label}
	})
	cat, _, err := catalog.New(sectors, []catalog.Category{{Key: "x", Phrases: []catalog.PhraseEntry{{ID: 1, Phrase: "TOMBER DES NUES"}}}}, catalog.Params{VowelPrice: 300})
	require.NoError(t, err)

	g := New(cat, WithRand(rng.Seeded(3)))
	require.NoError(t, g.NewGame(""))
	spinTo(t, g, angle300)
	_, err = g.GuessLetter('D')
	require.NoError(t, err)

	require.NoError(t, g.BuyVowel())
	_, err = g.GuessLetter('U')
	require.NoError(t, err)
	assert.Equal(t, 0, g.Snapshot().ScoreRound)
	assert.ErrorIs(t, g.BuyVowel(), ErrInsufficientFunds)
}

func TestLetterSetsStayDisjoint(t *testing.T) {
	g, _ := newTestGame(t, "PETIT A PETIT L'OISEAU FAIT SON NID")
	src := rng.Seeded(42)
	angles := []float64{angle300, angle300, angleBankrupt, angleSkip, angleRespin}
	seen := 0
	for i := 0; i < 200 && !g.Finished(); i++ {
		switch src.IntN(4) {
		case 0:
			if _, err := g.StartSpin(); err == nil {
				_, _ = g.ResolveSpin(angles[src.IntN(len(angles))])
			}
		case 1:
			_ = g.BuyVowel()
		case 2:
			_, _ = g.GuessLetter(rune('A' + src.IntN(26)))
		case 3:
			if src.IntN(10) == 0 {
				_, _ = g.Cheat()
			}
		}
		s := g.Snapshot()
		assert.Empty(t, lo.Intersect(s.UsedLetters, s.FoundLetters))
		n := len(s.UsedLetters) + len(s.FoundLetters)
		assert.GreaterOrEqual(t, n, seen)
		seen = n
		assert.GreaterOrEqual(t, s.ScoreRound, 0)
	}
}
