package report

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/letterbox-games/gridword/internal/database"
)

type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store { return &Store{db: db} }

func (s *Store) Create(ctx context.Context, r Report) error {
	snap, err := json.Marshal(r.Snapshot)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO reports (id, user_id, puzzle_id, attempt_snapshot, description, status, created_at)
		VALUES (?,?,?,?,?,?,?)`,
		r.ID, r.UserID, r.PuzzleID, string(snap), r.Description, string(r.Status),
		r.CreatedAt.UTC().Format(time.RFC3339))
	return err
}

func (s *Store) ByID(ctx context.Context, id string) (Report, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, user_id, puzzle_id, attempt_snapshot, description, status,
		       admin_notes, resolved_by, resolved_at, created_at
		FROM reports WHERE id=?`, id)
	return scanReport(row)
}

// List returns reports newest first, optionally filtered by status.
func (s *Store) List(ctx context.Context, status Status) ([]Report, error) {
	query := `
		SELECT id, user_id, puzzle_id, attempt_snapshot, description, status,
		       admin_notes, resolved_by, resolved_at, created_at
		FROM reports`
	args := []any{}
	if status != "" {
		query += ` WHERE status=?`
		args = append(args, string(status))
	}
	query += ` ORDER BY created_at DESC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Report{}
	for rows.Next() {
		r, err := scanReport(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// Resolve applies an admin decision: status, notes, and the resolver
// stamp. Everything else on the report stays frozen.
func (s *Store) Resolve(ctx context.Context, id string, status Status, notes, adminID string, now time.Time) (Report, error) {
	res, err := s.db.ExecContext(ctx, `
		UPDATE reports SET status=?, admin_notes=?, resolved_by=?, resolved_at=?
		WHERE id=?`,
		string(status), notes, adminID, now.UTC().Format(time.RFC3339), id)
	if err != nil {
		return Report{}, err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return Report{}, database.ErrNotFound
	}
	return s.ByID(ctx, id)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanReport(row rowScanner) (Report, error) {
	var r Report
	var snap, status, created string
	var resolvedBy, resolvedAt sql.NullString
	err := row.Scan(&r.ID, &r.UserID, &r.PuzzleID, &snap, &r.Description, &status,
		&r.AdminNotes, &resolvedBy, &resolvedAt, &created)
	if errors.Is(err, sql.ErrNoRows) {
		return r, database.ErrNotFound
	}
	if err != nil {
		return r, err
	}
	if err := json.Unmarshal([]byte(snap), &r.Snapshot); err != nil {
		return r, err
	}
	r.Status = Status(status)
	if resolvedBy.Valid {
		r.ResolvedBy = &resolvedBy.String
	}
	if resolvedAt.Valid {
		if t, err := time.Parse(time.RFC3339, resolvedAt.String); err == nil {
			r.ResolvedAt = &t
		}
	}
	r.CreatedAt, _ = time.Parse(time.RFC3339, created)
	return r, nil
}
