// internal/httpserver/server.go
//
// HTTP server wiring for the Wheel of Fortune backend.
// Responsibilities:
//   - Router + middleware (JSON, CORS, timeouts, panic recovery, request IDs, access log).
//   - Public endpoints: "/", "/health", "/wheel", "/categories", "/leaderboard".
//   - Game endpoints (optional auth): mounted under /game.
//   - Auth + profile endpoints: /auth/*, /rounds/mine.
//
// Notes:
//   - CORS is origin‑aware and credentials‑enabled (so cookies work).
//   - Every game intent answers {events, state}; rejected intents carry the
//     reason and the unchanged state.
//   - Finished rounds are appended to the rounds table, best effort.

package httpserver

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog/log"

	"github.com/yoakh/thewheelofthefortune/internal/auth"
	"github.com/yoakh/thewheelofthefortune/internal/catalog"
	"github.com/yoakh/thewheelofthefortune/internal/config"
	"github.com/yoakh/thewheelofthefortune/internal/history"
	"github.com/yoakh/thewheelofthefortune/internal/rng"
	"github.com/yoakh/thewheelofthefortune/internal/store"
)

// Deps are the collaborators a Server needs.
type Deps struct {
	Config   config.Config
	Catalog  *catalog.Catalog
	Sessions *store.Memory
	DB       *sql.DB
	// Rand overrides the game randomness (tests); nil means rng.Default.
	Rand rng.Source
	// BcryptCost overrides the password hashing cost (tests); 0 means default.
	BcryptCost int
	// Now overrides the clock used for daily phrases (tests).
	Now func() time.Time
}

// Server bundles router, session store, and persistence.
type Server struct {
	r        *chi.Mux
	cfg      config.Config
	cat      *catalog.Catalog
	sessions *store.Memory
	rounds   *history.Store
	users    *auth.Users
	tokens   *auth.Tokens
	rand     rng.Source
	now      func() time.Time
}

// New constructs a Server, installs middleware, and registers routes.
func New(d Deps) *Server {
	s := &Server{
		r:        chi.NewRouter(),
		cfg:      d.Config,
		cat:      d.Catalog,
		sessions: d.Sessions,
		rounds:   history.NewStore(d.DB),
		users:    auth.NewUsers(d.DB, d.BcryptCost),
		tokens:   auth.NewTokens(d.Config.JWTSecret, d.Config.JWTTTL),
		rand:     d.Rand,
		now:      d.Now,
	}
	if s.rand == nil {
		s.rand = rng.Default()
	}
	if s.now == nil {
		s.now = time.Now
	}

	// --- middleware ---
	s.r.Use(chimw.RequestID)                 // add X-Request-ID
	s.r.Use(chimw.RealIP)                    // set RemoteAddr from X-Forwarded-For etc.
	s.r.Use(accessLog)                       // one zerolog line per request
	s.r.Use(chimw.Recoverer)                 // recover from panics
	s.r.Use(chimw.Timeout(10 * time.Second)) // bound handler time
	s.r.Use(jsonContentType)                 // default JSON responses
	s.r.Use(cors.Handler(cors.Options{       // credentials-friendly CORS
		AllowedOrigins:   []string{d.Config.ClientOrigin},
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           60 * 15,
	}))

	// --- diagnostics ---
	s.r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"service":   "wheel-go",
			"catalog":   s.cat.Source(),
			"endpoints": []string{"/health", "/wheel", "/categories", "/leaderboard", "POST /game/new", "/auth/*"},
		})
	})
	s.r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"ok": true, "sessions": s.sessions.Len()})
	})

	// --- catalog ---
	s.r.Get("/wheel", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"sectors": s.cat.Sectors(), "params": s.cat.Params()})
	})
	s.r.Get("/categories", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, s.cat.Categories())
	})
	s.r.Get("/leaderboard", s.handleLeaderboard)

	// Game endpoints — OPTIONAL AUTH (guests can play)
	s.mountGame(s.r.With(s.withOptionalAuth()))

	// Auth + profile
	s.mountAuthRoutes()

	s.r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "not_found", "path": r.URL.Path})
	})
	return s
}

// Start serves HTTP on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) Start(ctx context.Context, addr string) error {
	srv := &http.Server{Addr: addr, Handler: s.r, ReadHeaderTimeout: 5 * time.Second}
	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}

// Router exposes the internal router (useful for tests).
func (s *Server) Router() chi.Router { return s.r }

func (s *Server) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	top, err := s.rounds.Leaderboard(r.Context(), limit)
	if err != nil {
		log.Error().Err(err).Msg("leaderboard")
		writeError(w, http.StatusInternalServerError, "db_error", "")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"top": top})
}

// ------------------------------- small util --------------------------------

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Warn().Err(err).Msg("encode response")
	}
}

type errorRes struct {
	Error  string `json:"error"`
	Reason string `json:"reason,omitempty"`
}

func writeError(w http.ResponseWriter, status int, code, reason string) {
	writeJSON(w, status, errorRes{Error: code, Reason: reason})
}

// decode reads an optional JSON body into v; an empty body leaves v as is.
func decode(r *http.Request, v any) error {
	if r.Body == nil || r.ContentLength == 0 {
		return nil
	}
	err := json.NewDecoder(r.Body).Decode(v)
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}
