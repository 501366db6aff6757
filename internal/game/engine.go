// internal/game/engine.go
//
// Round engine for a single player session.
// Responsibilities:
//   - Start games and rounds from the catalog (random, by category, daily).
//   - Drive the wheel: start a spin, resolve where it settled.
//   - Validate and apply letter guesses and vowel purchases.
//   - Validate proposed solutions and apply bonuses or penalties.
//   - Report every change to listeners, in order.
//
// Notes:
//   - A Game is not safe for concurrent use; the session store serializes
//     access per session.
//   - randomID() is a compact hex identifier for correlating server state.
package game

import (
	"crypto/rand"
	"encoding/hex"
	"slices"
	"time"
	"unicode"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/samber/lo"

	"github.com/yoakh/thewheelofthefortune/internal/catalog"
	"github.com/yoakh/thewheelofthefortune/internal/grid"
	"github.com/yoakh/thewheelofthefortune/internal/rng"
	"github.com/yoakh/thewheelofthefortune/internal/scoring"
	"github.com/yoakh/thewheelofthefortune/internal/solution"
	"github.com/yoakh/thewheelofthefortune/internal/text"
	"github.com/yoakh/thewheelofthefortune/internal/wheel"
)

// Game is one player's session: a running total across rounds and the
// state of the current round.
type Game struct {
	ID string

	cat       *catalog.Catalog
	params    catalog.Params
	sectors   []wheel.Sector
	src       rng.Source
	now       func() time.Time
	logger    zerolog.Logger
	listeners []Listener

	scoreTotal int
	scoreRound int
	used       map[rune]bool
	found      map[rune]bool
	mode       Mode
	pending    *wheel.Sector
	spin       *wheel.Plan
	phrase     *catalog.Phrase
	board      *grid.Grid
	finished   bool
	history    []HistoryEntry
}

// Option configures a Game.
type Option func(*Game)

// WithRand sets the random source for spins, picks and cheats.
func WithRand(src rng.Source) Option { return func(g *Game) { g.src = src } }

// WithListener adds an event listener.
func WithListener(l Listener) Option {
	return func(g *Game) { g.listeners = append(g.listeners, l) }
}

// WithClock sets the clock used to timestamp history entries.
func WithClock(now func() time.Time) Option { return func(g *Game) { g.now = now } }

// WithLogger sets the logger; the game ID is added to it.
func WithLogger(l zerolog.Logger) Option { return func(g *Game) { g.logger = l } }

// New creates a session with no active phrase and announces the wheel.
func New(cat *catalog.Catalog, opts ...Option) *Game {
	g := &Game{
		ID:      randomID(),
		cat:     cat,
		params:  cat.Params(),
		sectors: cat.Sectors(),
		src:     rng.Default(),
		now:     time.Now,
		logger:  log.Logger,
		used:    map[rune]bool{},
		found:   map[rune]bool{},
		mode:    ModeNormal,
	}
	for _, o := range opts {
		o(g)
	}
	g.logger = g.logger.With().Str("game", g.ID).Logger()
	g.emit(EventSectorsReady, SectorsReady{Sectors: g.sectors})
	return g
}

// NewGame resets the total and history and starts a round. An empty category
// picks one at random.
func (g *Game) NewGame(category string) error {
	p, err := g.pick(category)
	if err != nil {
		return err
	}
	g.scoreTotal = 0
	g.history = nil
	g.startRound(p)
	return nil
}

// NewRound starts a round and keeps the running total.
func (g *Game) NewRound(category string) error {
	p, err := g.pick(category)
	if err != nil {
		return err
	}
	g.startRound(p)
	return nil
}

// NewDailyRound starts a fresh game on the phrase of the day.
func (g *Game) NewDailyRound(date time.Time, salt string) {
	g.scoreTotal = 0
	g.history = nil
	g.startRound(g.cat.Daily(date, salt))
}

func (g *Game) pick(category string) (catalog.Phrase, error) {
	if category != "" && !g.cat.HasCategory(category) {
		return catalog.Phrase{}, g.reject(ErrUnknownCategory, "unknown category "+category)
	}
	return g.cat.Pick(category, g.src)
}

func (g *Game) startRound(p catalog.Phrase) {
	g.scoreRound = 0
	g.used = map[rune]bool{}
	g.found = map[rune]bool{}
	g.pending = nil
	g.spin = nil
	g.finished = false
	g.setMode(ModeNormal)
	g.phrase = &p
	g.board = grid.Load(p.Text)
	g.logger.Debug().Str("category", p.CategoryKey).Int("phrase", p.ID).Msg("round started")
	g.emit(EventPhraseLoaded, PhraseLoaded{Phrase: p, Lines: g.board.Masked()})

	given := p.Revealed
	if len(given) == 0 {
		given = g.params.RevealedLetters
	}
	var shown []string
	for _, l := range given {
		if len(g.board.RevealLetter(l, true)) > 0 {
			g.found[l] = true
			shown = append(shown, string(l))
		}
	}
	if len(shown) > 0 {
		g.emit(EventLettersRevealed, LettersRevealed{Letters: shown, Given: true})
	}
}

// StartSpin launches the wheel. Any unconsumed wheel result is discarded.
func (g *Game) StartSpin() (wheel.Plan, error) {
	if err := g.requireActive(); err != nil {
		return wheel.Plan{}, err
	}
	if g.spin != nil {
		return wheel.Plan{}, g.reject(ErrSpinInFlight, "the wheel is already spinning")
	}
	plan := wheel.Spin(g.src)
	g.spin = &plan
	g.pending = nil
	g.logger.Debug().Stringer("plan", plan).Msg("spin started")
	g.emit(EventSpinStarted, SpinStarted{Plan: plan})
	return plan, nil
}

// ResolveSpin settles the in-flight spin at angle (degrees) and applies the
// sector's effect. Only a points sector stays pending for a letter guess.
func (g *Game) ResolveSpin(angle float64) (wheel.Sector, error) {
	if g.spin == nil {
		return wheel.Sector{}, g.reject(ErrNoSpinInFlight, "spin the wheel first")
	}
	g.spin = nil
	sector := wheel.Resolve(g.sectors, angle)
	kind := sector.Kind()
	switch kind {
	case wheel.KindPoints:
		g.pending = &sector
	case wheel.KindBankrupt:
		g.scoreRound = 0
	}
	g.logger.Debug().Str("sector", sector.Label).Str("kind", string(kind)).Msg("spin resolved")
	g.emit(EventWheelOutcome, WheelOutcome{Sector: sector, Kind: kind, ScoreRound: g.scoreRound})
	return sector, nil
}

// BuyVowel switches to vowel purchase when the round score covers the price.
func (g *Game) BuyVowel() error {
	if err := g.requireActive(); err != nil {
		return err
	}
	if g.mode == ModeBuyingVowel {
		return g.reject(ErrInvalidGuess, "already buying a vowel")
	}
	if !scoring.CanAfford(g.scoreRound, g.params.VowelPrice) {
		return g.reject(ErrInsufficientFunds, "not enough points to buy a vowel")
	}
	g.setMode(ModeBuyingVowel)
	return nil
}

// CancelVowel leaves vowel purchase without spending anything.
func (g *Game) CancelVowel() error {
	if g.mode != ModeBuyingVowel {
		return g.reject(ErrInvalidGuess, "not buying a vowel")
	}
	g.setMode(ModeNormal)
	return nil
}

// GuessLetter plays letter. In normal mode it needs a pending points sector
// and must be a consonant; while buying it must be an affordable vowel.
func (g *Game) GuessLetter(letter rune) (LetterResult, error) {
	letter = unicode.ToUpper(letter)
	if !grid.IsLetter(letter) {
		return LetterResult{}, g.reject(ErrInvalidGuess, "not a letter")
	}
	if err := g.requireActive(); err != nil {
		return LetterResult{}, err
	}
	if g.used[letter] {
		return LetterResult{}, g.reject(ErrInvalidGuess, "letter already used")
	}
	if g.found[letter] {
		return LetterResult{}, g.reject(ErrInvalidGuess, "letter already revealed")
	}

	if g.mode == ModeBuyingVowel {
		if !scoring.IsVowel(letter) {
			return LetterResult{}, g.reject(ErrInvalidGuess, "choose a vowel")
		}
		if !scoring.CanAfford(g.scoreRound, g.params.VowelPrice) {
			g.setMode(ModeNormal)
			return LetterResult{}, g.reject(ErrInsufficientFunds, "not enough points to buy a vowel")
		}
		g.scoreRound -= g.params.VowelPrice
		g.setMode(ModeNormal)
		return g.resolve(letter, true), nil
	}

	if g.pending == nil {
		if g.spin != nil {
			return LetterResult{}, g.reject(ErrSpinInFlight, "the wheel is still spinning")
		}
		return LetterResult{}, g.reject(ErrInvalidGuess, "spin the wheel first")
	}
	if scoring.IsVowel(letter) {
		return LetterResult{}, g.reject(ErrInvalidGuess, "vowels must be bought")
	}
	return g.resolve(letter, false), nil
}

// resolve reveals letter and consumes the pending wheel result.
func (g *Game) resolve(letter rune, purchased bool) LetterResult {
	matched := g.board.RevealLetter(letter, false)
	res := LetterResult{Letter: string(letter), Hit: len(matched) > 0, Matches: len(matched), Purchased: purchased}
	if res.Hit {
		g.found[letter] = true
		if !purchased && g.pending != nil {
			res.Points = scoring.LetterPoints(len(matched), g.pending.Value)
			g.scoreRound += res.Points
		}
	} else {
		g.used[letter] = true
	}
	g.pending = nil
	res.ScoreRound = g.scoreRound
	g.logger.Debug().Str("letter", res.Letter).Int("matches", res.Matches).Int("points", res.Points).Msg("letter resolved")
	g.emit(EventLetterResult, res)

	if g.board.IsComplete() {
		bonus := g.params.CompletionBonus
		g.scoreRound += bonus
		g.finish(OutcomeCompleted)
		g.emit(EventRoundComplete, RoundComplete{ScoreRound: g.scoreRound, Bonus: bonus, ScoreTotal: g.scoreTotal})
	}
	return res
}

// ProposeSolution checks proposal against the phrase. A valid proposal ends
// the round with a bonus; an invalid one costs a capped penalty.
func (g *Game) ProposeSolution(proposal string) (SolutionResult, error) {
	if err := g.requireActive(); err != nil {
		return SolutionResult{}, err
	}
	if proposal == "" {
		return SolutionResult{}, g.reject(ErrInvalidGuess, "empty proposal")
	}
	v := solution.Validate(proposal, g.phrase.Text)
	out := SolutionResult{Valid: v.Valid, Score: v.Score, Reason: v.Reason, Proposal: proposal}
	if v.Valid {
		out.Bonus = scoring.SolutionBonus(v.Score)
		g.scoreRound += out.Bonus
		g.board.RevealAll()
		g.setMode(ModeNormal)
		g.finish(OutcomeSolved)
		out.Solution = g.phrase.Text
	} else {
		out.Penalty = scoring.WrongSolutionPenalty(g.scoreRound)
		g.scoreRound -= out.Penalty
		out.Tier = scoring.Encouragement(v.Score)
		out.Message = out.Tier.Message()
	}
	out.ScoreRound, out.ScoreTotal = g.scoreRound, g.scoreTotal
	g.logger.Debug().Bool("valid", v.Valid).Int("score", v.Score).Msg("solution proposed")
	g.emit(EventSolutionResult, out)
	return out, nil
}

// Cheat reveals one random unplayed letter at no cost and no gain. It returns
// 0 when every letter is already played.
func (g *Game) Cheat() (rune, error) {
	if err := g.requireActive(); err != nil {
		return 0, err
	}
	candidates := lo.Filter(lo.Uniq([]rune(text.Normalize(g.phrase.Text))), func(r rune, _ int) bool {
		return grid.IsLetter(r) && !g.used[r] && !g.found[r]
	})
	if len(candidates) == 0 {
		g.emit(EventCheatOutcome, CheatOutcome{})
		return 0, nil
	}
	letter := candidates[g.src.IntN(len(candidates))]
	g.logger.Info().Str("letter", string(letter)).Msg("cheat used")
	g.emit(EventCheatOutcome, CheatOutcome{Letter: string(letter)})
	g.pending = &wheel.Sector{Label: "cheat"}
	g.setMode(ModeNormal)
	g.resolve(letter, false)
	return letter, nil
}

// finish folds the round into the total and records it.
func (g *Game) finish(outcome Outcome) {
	g.scoreTotal += g.scoreRound
	g.finished = true
	g.pending = nil
	g.spin = nil
	g.history = append(g.history, HistoryEntry{
		PhraseText:   g.phrase.Text,
		CategoryKey:  g.phrase.CategoryKey,
		CategoryName: g.phrase.CategoryName,
		ScoreRound:   g.scoreRound,
		ScoreTotal:   g.scoreTotal,
		Outcome:      outcome,
		Timestamp:    g.now(),
	})
	g.logger.Info().Str("outcome", string(outcome)).Int("scoreRound", g.scoreRound).Int("scoreTotal", g.scoreTotal).Msg("round finished")
}

func (g *Game) requireActive() error {
	if g.phrase == nil {
		return g.reject(ErrNoActivePhrase, "start a round first")
	}
	if g.finished {
		return g.reject(ErrRoundOver, "the round is over")
	}
	return nil
}

func (g *Game) setMode(m Mode) {
	if g.mode == m {
		return
	}
	g.mode = m
	g.emit(EventModeChanged, ModeChanged{Mode: m})
}

func (g *Game) reject(err error, reason string) error {
	g.emit(EventGuessRejected, GuessRejected{Code: codeOf(err), Reason: reason})
	return &Rejection{Err: err, Reason: reason}
}

func (g *Game) emit(kind EventKind, data any) {
	e := Event{Kind: kind, Data: data}
	for _, l := range g.listeners {
		l(e)
	}
}

// InFlight returns the spin awaiting resolution, if any.
func (g *Game) InFlight() (wheel.Plan, bool) {
	if g.spin == nil {
		return wheel.Plan{}, false
	}
	return *g.spin, true
}

// Finished reports whether the current round is over.
func (g *Game) Finished() bool { return g.finished }

// History returns finished rounds, oldest first.
func (g *Game) History() []HistoryEntry { return slices.Clone(g.history) }

// Snapshot returns the current state.
func (g *Game) Snapshot() State {
	s := State{
		GameID:       g.ID,
		ScoreTotal:   g.scoreTotal,
		ScoreRound:   g.scoreRound,
		Mode:         g.mode,
		UsedLetters:  sortedLetters(g.used),
		FoundLetters: sortedLetters(g.found),
		SpinInFlight: g.spin != nil,
		Finished:     g.finished,
		VowelPrice:   g.params.VowelPrice,
		Playable:     []string{},
		Rounds:       len(g.history),
	}
	if g.pending != nil {
		p := *g.pending
		s.Pending = &p
	}
	if g.phrase == nil {
		return s
	}
	p := *g.phrase
	s.Phrase = &p
	s.Revealed, s.Total = g.board.Progress()
	for _, line := range g.board.Lines() {
		row := make([]CellView, len(line))
		for i, c := range line {
			row[i] = CellView{Kind: c.Kind, Revealed: c.Revealed, Given: c.Given}
			if c.Revealed {
				row[i].Char = string(c.Char)
			}
		}
		s.Board = append(s.Board, row)
	}
	if g.finished {
		s.Solution = g.phrase.Text
		return s
	}
	s.CanBuyVowel = g.mode == ModeNormal && scoring.CanAfford(g.scoreRound, g.params.VowelPrice)
	for l := 'A'; l <= 'Z'; l++ {
		if g.used[l] || g.found[l] {
			continue
		}
		vowel := scoring.IsVowel(l)
		if (g.mode == ModeBuyingVowel && vowel) || (g.mode == ModeNormal && g.pending != nil && !vowel) {
			s.Playable = append(s.Playable, string(l))
		}
	}
	return s
}

func sortedLetters(set map[rune]bool) []string {
	out := lo.Map(lo.Keys(set), func(r rune, _ int) string { return string(r) })
	slices.Sort(out)
	return out
}

func codeOf(err error) string {
	switch err {
	case ErrInsufficientFunds:
		return "insufficient_funds"
	case ErrNoActivePhrase:
		return "no_active_phrase"
	case ErrSpinInFlight:
		return "spin_in_flight"
	case ErrNoSpinInFlight:
		return "no_spin"
	case ErrRoundOver:
		return "round_over"
	case ErrUnknownCategory:
		return "unknown_category"
	}
	return "invalid_guess"
}

// randomID returns a 16-byte random hex string (32 chars).
// Used for game IDs; not intended as a secret.
func randomID() string {
	var b [16]byte
	_, _ = rand.Read(b[:])
	return hex.EncodeToString(b[:])
}
