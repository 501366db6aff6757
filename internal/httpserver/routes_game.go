// internal/httpserver/routes_game.go
//
// Game endpoints, mounted under /game:
//   - POST   /game/new                {category?, daily?}
//   - GET    /game/{id}
//   - GET    /game/{id}/history
//   - POST   /game/{id}/round         {category?}
//   - POST   /game/{id}/spin
//   - POST   /game/{id}/spin/resolve  {angle?}  (defaults to where the spin settles)
//   - POST   /game/{id}/guess         {letter}
//   - POST   /game/{id}/vowel         enter vowel purchase
//   - DELETE /game/{id}/vowel         leave it
//   - POST   /game/{id}/solve         {proposal}
//   - POST   /game/{id}/cheat
//
// Only the identity that created a game may drive it.

package httpserver

import (
	"context"
	"errors"
	"net/http"
	"unicode/utf8"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/yoakh/thewheelofthefortune/internal/game"
	"github.com/yoakh/thewheelofthefortune/internal/history"
	"github.com/yoakh/thewheelofthefortune/internal/store"
)

func (s *Server) mountGame(r chi.Router) {
	r.Route("/game", func(r chi.Router) {
		r.Post("/new", s.handleNewGame)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.intent(func(*http.Request, *game.Game) error { return nil }))
			r.Get("/history", s.handleHistory)
			r.Post("/round", s.intent(s.newRound))
			r.Post("/spin", s.intent(func(_ *http.Request, g *game.Game) error {
				_, err := g.StartSpin()
				return err
			}))
			r.Post("/spin/resolve", s.intent(resolveSpin))
			r.Post("/guess", s.intent(guessLetter))
			r.Post("/vowel", s.intent(func(_ *http.Request, g *game.Game) error { return g.BuyVowel() }))
			r.Delete("/vowel", s.intent(func(_ *http.Request, g *game.Game) error { return g.CancelVowel() }))
			r.Post("/solve", s.intent(proposeSolution))
			r.Post("/cheat", s.intent(func(_ *http.Request, g *game.Game) error {
				_, err := g.Cheat()
				return err
			}))
		})
	})
}

// intentRes is the answer to every game intent.
type intentRes struct {
	Error  string       `json:"error,omitempty"`
	Reason string       `json:"reason,omitempty"`
	Events []game.Event `json:"events"`
	State  game.State   `json:"state"`
}

// errBadRequest marks malformed payloads, answered before the game is touched.
var errBadRequest = errors.New("bad request")

type badRequest struct{ reason string }

func (b badRequest) Error() string { return b.reason }
func (b badRequest) Unwrap() error { return errBadRequest }

// ------------------------------ new game -----------------------------------

type newGameReq struct {
	Category string `json:"category"`
	Daily    bool   `json:"daily"`
}

func (s *Server) handleNewGame(w http.ResponseWriter, r *http.Request) {
	var req newGameReq
	if err := decode(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_json", "")
		return
	}
	if req.Category != "" && !s.cat.HasCategory(req.Category) {
		writeError(w, http.StatusBadRequest, "unknown_category", "unknown category "+req.Category)
		return
	}
	id := s.identity(w, r)
	sess, res, err := s.sessions.Start(id, func(l game.Listener) *game.Game {
		return game.New(s.cat, game.WithRand(s.rand), game.WithClock(s.now), game.WithListener(l))
	}, func(g *game.Game) error {
		if req.Daily {
			g.NewDailyRound(s.now().UTC(), s.cfg.DailySalt)
			return nil
		}
		return g.NewGame(req.Category)
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "start_failed", game.Reason(err))
		return
	}
	log.Info().Str("game", sess.ID()).Bool("daily", req.Daily).Bool("user", id.UserID != "").Msg("game created")
	writeJSON(w, http.StatusCreated, intentRes{Events: res.Events, State: res.State})
}

// ------------------------------ intents ------------------------------------

// intent wraps fn as a handler: it finds the caller's session, runs fn with
// the session locked, persists rounds that fn finished, and answers
// {events, state}.
func (s *Server) intent(fn func(*http.Request, *game.Game) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := s.identity(w, r)
		sess, ok := s.session(w, r, id)
		if !ok {
			return
		}
		res, err := sess.Do(func(g *game.Game) error { return fn(r, g) })
		s.persist(r.Context(), id, res)

		out := intentRes{Events: res.Events, State: res.State}
		if err != nil {
			status, code := statusOf(err)
			out.Error, out.Reason = code, game.Reason(err)
			writeJSON(w, status, out)
			return
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func (s *Server) session(w http.ResponseWriter, r *http.Request, id store.Identity) (*store.Session, bool) {
	sess, err := s.sessions.Get(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusNotFound, "not_found", "no such game")
		return nil, false
	}
	if !sess.OwnedBy(id) {
		writeError(w, http.StatusForbidden, "forbidden", "not your game")
		return nil, false
	}
	return sess, true
}

// persist appends finished rounds to the history log. Failures are logged,
// never surfaced: the round already happened.
func (s *Server) persist(ctx context.Context, id store.Identity, res store.Result) {
	owner := history.Owner{UserID: id.UserID}
	if owner.UserID == "" {
		owner.AnonID = id.AnonID
	}
	for _, h := range res.History {
		err := s.rounds.Insert(ctx, owner, history.Round{
			GameID:     res.State.GameID,
			Phrase:     h.PhraseText,
			Category:   h.CategoryName,
			ScoreRound: h.ScoreRound,
			ScoreTotal: h.ScoreTotal,
			Outcome:    string(h.Outcome),
			CreatedAt:  h.Timestamp,
		})
		if err != nil {
			log.Warn().Err(err).Str("game", res.State.GameID).Msg("persist round")
		}
	}
}

func statusOf(err error) (int, string) {
	if errors.Is(err, errBadRequest) {
		return http.StatusBadRequest, "bad_request"
	}
	code := game.Code(err)
	switch {
	case errors.Is(err, game.ErrInvalidGuess), errors.Is(err, game.ErrUnknownCategory):
		return http.StatusBadRequest, code
	case errors.Is(err, game.ErrInsufficientFunds), errors.Is(err, game.ErrNoActivePhrase),
		errors.Is(err, game.ErrSpinInFlight), errors.Is(err, game.ErrNoSpinInFlight),
		errors.Is(err, game.ErrRoundOver):
		return http.StatusConflict, code
	}
	return http.StatusInternalServerError, code
}

type roundReq struct {
	Category string `json:"category"`
}

func (s *Server) newRound(r *http.Request, g *game.Game) error {
	var req roundReq
	if err := decode(r, &req); err != nil {
		return badRequest{"invalid json"}
	}
	return g.NewRound(req.Category)
}

type resolveReq struct {
	Angle *float64 `json:"angle"`
}

func resolveSpin(r *http.Request, g *game.Game) error {
	var req resolveReq
	if err := decode(r, &req); err != nil {
		return badRequest{"invalid json"}
	}
	angle := 0.0
	if req.Angle != nil {
		angle = *req.Angle
	} else if plan, ok := g.InFlight(); ok {
		angle = plan.SettledAngle()
	}
	_, err := g.ResolveSpin(angle)
	return err
}

type guessReq struct {
	Letter string `json:"letter"`
}

func guessLetter(r *http.Request, g *game.Game) error {
	var req guessReq
	if err := decode(r, &req); err != nil {
		return badRequest{"invalid json"}
	}
	if utf8.RuneCountInString(req.Letter) != 1 {
		return badRequest{"letter must be a single character"}
	}
	l, _ := utf8.DecodeRuneInString(req.Letter)
	_, err := g.GuessLetter(l)
	return err
}

type solveReq struct {
	Proposal string `json:"proposal"`
}

func proposeSolution(r *http.Request, g *game.Game) error {
	var req solveReq
	if err := decode(r, &req); err != nil {
		return badRequest{"invalid json"}
	}
	_, err := g.ProposeSolution(req.Proposal)
	return err
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r, s.identity(w, r))
	if !ok {
		return
	}
	var h []game.HistoryEntry
	_, _ = sess.Do(func(g *game.Game) error {
		h = g.History()
		return nil
	})
	if h == nil {
		h = []game.HistoryEntry{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"rounds": h})
}
