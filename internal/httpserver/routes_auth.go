// internal/httpserver/routes_auth.go
//
// Authentication and profile endpoints.
//   - POST /auth/signup, /auth/login: set the auth cookie and move the
//     caller's guest rounds onto the account.
//   - POST /auth/logout: clear the cookie.
//   - GET  /auth/me, /rounds/mine: require auth.

package httpserver

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/yoakh/thewheelofthefortune/internal/auth"
	"github.com/yoakh/thewheelofthefortune/internal/history"
)

type credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (s *Server) mountAuthRoutes() {
	s.r.Post("/auth/signup", s.handleSignup)
	s.r.Post("/auth/login", s.handleLogin)
	s.r.Post("/auth/logout", s.handleLogout)

	s.r.With(s.requireAuth()).Get("/auth/me", func(w http.ResponseWriter, r *http.Request) {
		u, err := s.users.ByID(r.Context(), currentUser(r).ID)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "db_error", "")
			return
		}
		writeJSON(w, http.StatusOK, u)
	})

	s.r.With(s.requireAuth()).Get("/rounds/mine", func(w http.ResponseWriter, r *http.Request) {
		limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
		rounds, err := s.rounds.Recent(r.Context(), history.Owner{UserID: currentUser(r).ID}, limit)
		if err != nil {
			log.Error().Err(err).Msg("recent rounds")
			writeError(w, http.StatusInternalServerError, "db_error", "")
			return
		}
		writeJSON(w, http.StatusOK, rounds)
	})
}

// handleSignup creates a new user, signs a JWT, sets auth cookie, and claims anon history.
func (s *Server) handleSignup(w http.ResponseWriter, r *http.Request) {
	var body credentials
	if err := decode(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "")
		return
	}
	u, err := s.users.Create(r.Context(), body.Username, body.Password)
	var ve *auth.ValidationError
	switch {
	case errors.Is(err, auth.ErrUsernameTaken):
		writeError(w, http.StatusConflict, "username_taken", "Username taken")
		return
	case errors.As(err, &ve):
		writeError(w, http.StatusBadRequest, "invalid_signup", ve.Msg)
		return
	case err != nil:
		log.Error().Err(err).Msg("create user")
		writeError(w, http.StatusInternalServerError, "db_error", "")
		return
	}
	log.Info().Str("user", u.ID).Msg("signup")
	s.signIn(w, r, u, http.StatusCreated)
}

// handleLogin authenticates user, sets cookie, and claims anon history.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var body credentials
	if err := decode(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "")
		return
	}
	u, err := s.users.Login(r.Context(), body.Username, body.Password)
	if errors.Is(err, auth.ErrBadLogin) {
		writeError(w, http.StatusUnauthorized, "bad_login", "Invalid username or password")
		return
	}
	if err != nil {
		log.Error().Err(err).Msg("login")
		writeError(w, http.StatusInternalServerError, "db_error", "")
		return
	}
	s.signIn(w, r, u, http.StatusOK)
}

func (s *Server) signIn(w http.ResponseWriter, r *http.Request, u *auth.User, status int) {
	tok, exp, err := s.tokens.Sign(u)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "sign_failed", "")
		return
	}
	http.SetCookie(w, s.cookie(s.cfg.CookieName, tok, exp))
	if err := s.rounds.Claim(r.Context(), s.ensureAnonID(w, r), u.ID); err != nil {
		log.Warn().Err(err).Str("user", u.ID).Msg("claim guest rounds")
	}
	writeJSON(w, status, map[string]any{"id": u.ID, "username": u.Username, "token": tok})
}

// handleLogout clears the auth cookie.
func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, s.cookie(s.cfg.CookieName, "", time.Time{}))
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}
