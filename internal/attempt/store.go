// internal/attempt/store.go
//
// SQLite persistence for attempts. The attempts table carries
// UNIQUE(user_id, puzzle_id), and every write path is an upsert keyed by
// that pair, so concurrent first-touch requests collapse into a single
// row and debounced autosave never needs read-modify-write.

package attempt

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/letterbox-games/gridword/internal/database"
	"github.com/letterbox-games/gridword/internal/grid"
)

type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store { return &Store{db: db} }

// Get loads the attempt for a (user, puzzle) pair.
func (s *Store) Get(ctx context.Context, userID, puzzleID string) (Attempt, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, user_id, puzzle_id, current_grid, status, hint_used, hint_used_at,
		       started_at, completed_at, finished_at, time_taken_seconds, checks, created_at
		FROM attempts WHERE user_id=? AND puzzle_id=?`, userID, puzzleID)
	return scanAttempt(row)
}

// GetOrCreate returns the existing attempt or inserts fresh. Two
// concurrent callers both end up reading the same row: the insert is
// OR IGNORE, so the (user, puzzle) uniqueness constraint decides.
func (s *Store) GetOrCreate(ctx context.Context, fresh Attempt) (Attempt, error) {
	if err := s.insertIgnore(ctx, fresh); err != nil {
		return Attempt{}, err
	}
	return s.Get(ctx, fresh.UserID, fresh.PuzzleID)
}

// SaveProgress upserts the current grid for a (user, puzzle) pair.
// On conflict only current_grid changes; status, counters, and
// timestamps are left alone. Idempotent and safe to call on every
// debounced keystroke.
func (s *Store) SaveProgress(ctx context.Context, fresh Attempt) error {
	gridJSON, err := json.Marshal(fresh.CurrentGrid)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO attempts (id, user_id, puzzle_id, current_grid, status, hint_used,
		                      started_at, checks, created_at)
		VALUES (?,?,?,?,?,0,?,0,?)
		ON CONFLICT(user_id, puzzle_id) DO UPDATE SET current_grid=excluded.current_grid`,
		fresh.ID, fresh.UserID, fresh.PuzzleID, string(gridJSON), fresh.Status,
		fresh.StartedAt.UTC().Format(time.RFC3339), fresh.CreatedAt.UTC().Format(time.RFC3339))
	return err
}

// Record persists a post-transition snapshot (hint, check, finish).
// started_at and created_at are write-once and never updated here.
func (s *Store) Record(ctx context.Context, a Attempt) error {
	gridJSON, err := json.Marshal(a.CurrentGrid)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `
		UPDATE attempts
		SET current_grid=?, status=?, hint_used=?, hint_used_at=?,
		    completed_at=?, finished_at=?, time_taken_seconds=?, checks=?
		WHERE user_id=? AND puzzle_id=?`,
		string(gridJSON), string(a.Status), boolToInt(a.HintUsed), nullTime(a.HintUsedAt),
		nullTime(a.CompletedAt), nullTime(a.FinishedAt), a.TimeTakenSeconds, a.Checks,
		a.UserID, a.PuzzleID)
	return err
}

func (s *Store) insertIgnore(ctx context.Context, fresh Attempt) error {
	gridJSON, err := json.Marshal(fresh.CurrentGrid)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT OR IGNORE INTO attempts (id, user_id, puzzle_id, current_grid, status,
		                                hint_used, started_at, checks, created_at)
		VALUES (?,?,?,?,?,0,?,0,?)`,
		fresh.ID, fresh.UserID, fresh.PuzzleID, string(gridJSON), string(fresh.Status),
		fresh.StartedAt.UTC().Format(time.RFC3339), fresh.CreatedAt.UTC().Format(time.RFC3339))
	return err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAttempt(row rowScanner) (Attempt, error) {
	var a Attempt
	var gridJSON, status, startedAt, createdAt string
	var hintUsed int
	var hintUsedAt, completedAt, finishedAt sql.NullString
	err := row.Scan(&a.ID, &a.UserID, &a.PuzzleID, &gridJSON, &status, &hintUsed, &hintUsedAt,
		&startedAt, &completedAt, &finishedAt, &a.TimeTakenSeconds, &a.Checks, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return a, database.ErrNotFound
	}
	if err != nil {
		return a, err
	}
	if err := json.Unmarshal([]byte(gridJSON), &a.CurrentGrid); err != nil {
		return a, err
	}
	a.Status = grid.Status(status)
	a.HintUsed = hintUsed != 0
	a.HintUsedAt = parseNullTime(hintUsedAt)
	a.CompletedAt = parseNullTime(completedAt)
	a.FinishedAt = parseNullTime(finishedAt)
	a.StartedAt, _ = time.Parse(time.RFC3339, startedAt)
	a.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	return a, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func nullTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.UTC().Format(time.RFC3339)
}

func parseNullTime(s sql.NullString) *time.Time {
	if !s.Valid || s.String == "" {
		return nil
	}
	t, err := time.Parse(time.RFC3339, s.String)
	if err != nil {
		return nil
	}
	return &t
}
