// internal/store/memory.go
//
// In-memory session store for running games.
//
// Characteristics:
//   - Sessions keyed by game ID in a map guarded by an RWMutex.
//   - Each session has its own mutex; intents on one game run one at a time,
//     which is what game.Game requires.
//   - Events a game emits during an intent are collected and handed back
//     with the resulting snapshot.
//   - Idle sessions are swept; state is lost when the process restarts.

package store

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/yoakh/thewheelofthefortune/internal/game"
)

var ErrNotFound = errors.New("session not found")

// Identity is who is making a request: a signed-in user, an anonymous
// cookie, or both.
type Identity struct {
	UserID string
	AnonID string
}

// Session is one running game and the identity that started it.
type Session struct {
	mu      sync.Mutex
	game    *game.Game
	owner   Identity
	events  []game.Event
	touched time.Time
}

// OwnedBy reports whether id may drive the session.
func (s *Session) OwnedBy(id Identity) bool {
	return (id.UserID != "" && id.UserID == s.owner.UserID) ||
		(id.AnonID != "" && id.AnonID == s.owner.AnonID)
}

// Result is the outcome of one intent.
type Result struct {
	Events  []game.Event
	State   game.State
	History []game.HistoryEntry // rounds finished by this intent
}

// ID is the game ID the session is stored under.
func (s *Session) ID() string { return s.game.ID }

// Do runs fn against the game with the session locked. Events pending from
// before the first intent (the game's own announcement) are returned with it.
func (s *Session) Do(fn func(*game.Game) error) (Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touched = time.Now()
	before := len(s.game.History())

	err := fn(s.game)

	res := Result{Events: s.events, State: s.game.Snapshot()}
	if res.Events == nil {
		res.Events = []game.Event{}
	}
	// NewGame resets history, so only count growth from the same game.
	if h := s.game.History(); len(h) > before {
		res.History = h[before:]
	}
	s.events = nil
	return res, err
}

func (s *Session) record(e game.Event) { s.events = append(s.events, e) }

// Memory maps game IDs to sessions.
type Memory struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	maxIdle  time.Duration
}

// NewMemory returns a store whose sessions expire after maxIdle without an
// intent. maxIdle <= 0 disables expiry.
func NewMemory(maxIdle time.Duration) *Memory {
	return &Memory{sessions: make(map[string]*Session), maxIdle: maxIdle}
}

// Start builds a game with the session's recorder attached, runs start on it
// and registers the session for owner only if start succeeds.
func (m *Memory) Start(owner Identity, build func(game.Listener) *game.Game, start func(*game.Game) error) (*Session, Result, error) {
	s := &Session{owner: owner, touched: time.Now()}
	s.game = build(s.record)
	res, err := s.Do(start)
	if err != nil {
		return nil, res, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[s.game.ID] = s
	return s, res, nil
}

// Get looks up a session by game ID.
func (m *Memory) Get(id string) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if s, ok := m.sessions[id]; ok {
		return s, nil
	}
	return nil, ErrNotFound
}

// Len reports the number of live sessions.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// Sweep drops sessions idle since before now-maxIdle and returns how many.
func (m *Memory) Sweep(now time.Time) int {
	if m.maxIdle <= 0 {
		return 0
	}
	cutoff := now.Add(-m.maxIdle)
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for id, s := range m.sessions {
		s.mu.Lock()
		idle := s.touched.Before(cutoff)
		s.mu.Unlock()
		if idle {
			delete(m.sessions, id)
			n++
		}
	}
	return n
}

// Janitor sweeps every interval until ctx is done.
func (m *Memory) Janitor(ctx context.Context, interval time.Duration) {
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-t.C:
			if n := m.Sweep(now); n > 0 {
				log.Debug().Int("expired", n).Int("live", m.Len()).Msg("sessions swept")
			}
		}
	}
}
