// internal/history/store.go
//
// Persistent log of finished rounds.
// Responsibilities:
//   - Record each finished round against its owner (user or anonymous cookie).
//   - Keep per-user counters (rounds played, best round) in step, in one tx.
//   - Serve a player's recent rounds and the all-time leaderboard.
//   - Move anonymous rounds to an account on signup/login.

package history

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

// Owner identifies who played a round. Exactly one field is set.
type Owner struct {
	UserID string
	AnonID string
}

func (o Owner) valid() bool { return (o.UserID == "") != (o.AnonID == "") }

// ErrNoOwner is returned when an Owner has neither or both ids.
var ErrNoOwner = errors.New("history: round needs exactly one owner")

// Round is one finished round.
type Round struct {
	ID         int64     `json:"id"`
	GameID     string    `json:"gameId"`
	Phrase     string    `json:"phrase"`
	Category   string    `json:"category"`
	ScoreRound int       `json:"scoreRound"`
	ScoreTotal int       `json:"scoreTotal"`
	Outcome    string    `json:"outcome"`
	CreatedAt  time.Time `json:"createdAt"`
}

// LBRow is one leaderboard line.
type LBRow struct {
	Player     string    `json:"player"`
	ScoreRound int       `json:"scoreRound"`
	Phrase     string    `json:"phrase"`
	Category   string    `json:"category"`
	CreatedAt  time.Time `json:"createdAt"`
}

const timeLayout = "2006-01-02T15:04:05Z"

type Store struct{ db *sql.DB }

func NewStore(db *sql.DB) *Store { return &Store{db: db} }

// Insert records r for owner and bumps the user's counters.
func (s *Store) Insert(ctx context.Context, owner Owner, r Round) error {
	if !owner.valid() {
		return ErrNoOwner
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now()
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO rounds (game_id, user_id, anonymous_id, phrase, category, score_round, score_total, outcome, created_at)
		 VALUES (?,?,?,?,?,?,?,?,?)`,
		r.GameID, nullable(owner.UserID), nullable(owner.AnonID), r.Phrase, r.Category,
		r.ScoreRound, r.ScoreTotal, r.Outcome, r.CreatedAt.UTC().Format(timeLayout),
	); err != nil {
		return err
	}
	if owner.UserID != "" {
		if _, err := tx.ExecContext(ctx,
			`UPDATE users SET rounds_played = rounds_played + 1, best_round = MAX(best_round, ?) WHERE id=?`,
			r.ScoreRound, owner.UserID,
		); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// Recent returns owner's latest rounds, newest first.
func (s *Store) Recent(ctx context.Context, owner Owner, limit int) ([]Round, error) {
	if !owner.valid() {
		return nil, ErrNoOwner
	}
	if limit <= 0 {
		limit = 50
	}
	col, id := "user_id", owner.UserID
	if owner.AnonID != "" {
		col, id = "anonymous_id", owner.AnonID
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, game_id, phrase, category, score_round, score_total, outcome, created_at
		 FROM rounds WHERE `+col+`=? ORDER BY created_at DESC, id DESC LIMIT ?`, id, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Round{}
	for rows.Next() {
		var r Round
		var created string
		if err := rows.Scan(&r.ID, &r.GameID, &r.Phrase, &r.Category, &r.ScoreRound, &r.ScoreTotal, &r.Outcome, &created); err != nil {
			return nil, err
		}
		r.CreatedAt = parseTime(created)
		out = append(out, r)
	}
	return out, rows.Err()
}

// Leaderboard returns the best rounds of all time, best first. Guests show
// as "guest".
func (s *Store) Leaderboard(ctx context.Context, limit int) ([]LBRow, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT COALESCE(u.username, 'guest'), r.score_round, r.phrase, r.category, r.created_at
		 FROM rounds r LEFT JOIN users u ON u.id = r.user_id
		 ORDER BY r.score_round DESC, r.created_at ASC, r.id ASC
		 LIMIT ?`, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]LBRow, 0, limit)
	for rows.Next() {
		var r LBRow
		var created string
		if err := rows.Scan(&r.Player, &r.ScoreRound, &r.Phrase, &r.Category, &created); err != nil {
			return nil, err
		}
		r.CreatedAt = parseTime(created)
		out = append(out, r)
	}
	return out, rows.Err()
}

// Claim transfers anonymous rounds to userID and credits their counters.
func (s *Store) Claim(ctx context.Context, anonID, userID string) error {
	if anonID == "" || userID == "" {
		return nil
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	var n, best int
	if err := tx.QueryRowContext(ctx,
		`SELECT COUNT(1), COALESCE(MAX(score_round), 0) FROM rounds WHERE anonymous_id=?`, anonID,
	).Scan(&n, &best); err != nil {
		return err
	}
	if n == 0 {
		return nil
	}
	if _, err := tx.ExecContext(ctx,
		`UPDATE rounds SET user_id=?, anonymous_id=NULL WHERE anonymous_id=?`, userID, anonID,
	); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx,
		`UPDATE users SET rounds_played = rounds_played + ?, best_round = MAX(best_round, ?) WHERE id=?`,
		n, best, userID,
	); err != nil {
		return err
	}
	return tx.Commit()
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func parseTime(s string) time.Time {
	t, _ := time.Parse(timeLayout, s)
	return t
}
