// internal/puzzle/store.go
//
// SQLite persistence for puzzles. Grid-shaped fields are stored as JSON
// text columns; puzzle_date carries a UNIQUE constraint enforcing one
// puzzle per day.

package puzzle

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/letterbox-games/gridword/internal/database"
	"github.com/letterbox-games/gridword/internal/grid"
)

type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store { return &Store{db: db} }

// ErrDateTaken is returned by Create/Update when another puzzle already
// occupies the requested date.
var ErrDateTaken = errors.New("a puzzle already exists for that date")

func (s *Store) Create(ctx context.Context, p Puzzle) error {
	words, solution, visible, hints, across, down, err := marshalFields(p)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO puzzles (id, puzzle_date, grid_size, words, solution_grid,
		                     visible_cells, hint_cells, daily_message, across_clues, down_clues, created_at)
		VALUES (?,?,?,?,?,?,?,?,?,?,?)`,
		p.ID, p.PuzzleDate, p.GridSize, words, solution, visible, hints,
		p.DailyMessage, across, down, p.CreatedAt.UTC().Format(time.RFC3339))
	if isUniqueViolation(err) {
		return ErrDateTaken
	}
	return err
}

// Update replaces every editable field, solution grid included. Callers
// rebuild the solution before calling; the write is a single atomic
// replace, never an incremental patch.
func (s *Store) Update(ctx context.Context, p Puzzle) error {
	words, solution, visible, hints, across, down, err := marshalFields(p)
	if err != nil {
		return err
	}
	res, err := s.db.ExecContext(ctx, `
		UPDATE puzzles
		SET puzzle_date=?, grid_size=?, words=?, solution_grid=?,
		    visible_cells=?, hint_cells=?, daily_message=?, across_clues=?, down_clues=?
		WHERE id=?`,
		p.PuzzleDate, p.GridSize, words, solution, visible, hints,
		p.DailyMessage, across, down, p.ID)
	if isUniqueViolation(err) {
		return ErrDateTaken
	}
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return database.ErrNotFound
	}
	return nil
}

func (s *Store) ByID(ctx context.Context, id string) (Puzzle, error) {
	return s.get(ctx, `WHERE id=?`, id)
}

// ByDate looks up the puzzle for a day key (see DateKey).
func (s *Store) ByDate(ctx context.Context, date string) (Puzzle, error) {
	return s.get(ctx, `WHERE puzzle_date=?`, date)
}

func (s *Store) get(ctx context.Context, where string, arg any) (Puzzle, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, puzzle_date, grid_size, words, solution_grid,
		       visible_cells, hint_cells, daily_message, across_clues, down_clues, created_at
		FROM puzzles `+where, arg)

	var p Puzzle
	var words, solution, visible, hints, across, down, created string
	err := row.Scan(&p.ID, &p.PuzzleDate, &p.GridSize, &words, &solution,
		&visible, &hints, &p.DailyMessage, &across, &down, &created)
	if errors.Is(err, sql.ErrNoRows) {
		return p, database.ErrNotFound
	}
	if err != nil {
		return p, err
	}
	cols := []struct {
		raw string
		dst any
	}{
		{words, &p.Words}, {solution, &p.SolutionGrid}, {visible, &p.VisibleCells},
		{hints, &p.HintCells}, {across, &p.AcrossClues}, {down, &p.DownClues},
	}
	for _, c := range cols {
		if err := json.Unmarshal([]byte(c.raw), c.dst); err != nil {
			return p, err
		}
	}
	p.CreatedAt, _ = time.Parse(time.RFC3339, created)
	return p, nil
}

// List returns a page of puzzle summaries ordered by date descending,
// plus the total row count for pagination.
func (s *Store) List(ctx context.Context, page, limit int) ([]Summary, int, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if page < 1 {
		page = 1
	}

	var total int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM puzzles`).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, puzzle_date, grid_size, words, created_at
		FROM puzzles ORDER BY puzzle_date DESC LIMIT ? OFFSET ?`,
		limit, (page-1)*limit)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := []Summary{}
	for rows.Next() {
		var sm Summary
		var words, created string
		if err := rows.Scan(&sm.ID, &sm.PuzzleDate, &sm.GridSize, &words, &created); err != nil {
			return nil, 0, err
		}
		var list []json.RawMessage
		json.Unmarshal([]byte(words), &list)
		sm.WordCount = len(list)
		sm.CreatedAt, _ = time.Parse(time.RFC3339, created)
		out = append(out, sm)
	}
	return out, total, rows.Err()
}

func (s *Store) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM puzzles WHERE id=?`, id)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return database.ErrNotFound
	}
	return nil
}

func marshalFields(p Puzzle) (words, solution, visible, hints, across, down string, err error) {
	enc := func(v any) string {
		if err != nil {
			return ""
		}
		var b []byte
		b, err = json.Marshal(v)
		return string(b)
	}
	words = enc(p.Words)
	solution = enc(p.SolutionGrid)
	visible = enc(emptyCells(p.VisibleCells))
	hints = enc(emptyCells(p.HintCells))
	across = enc(emptyStrings(p.AcrossClues))
	down = enc(emptyStrings(p.DownClues))
	return
}

func emptyCells(v []grid.Cell) []grid.Cell {
	if v == nil {
		return []grid.Cell{}
	}
	return v
}

func emptyStrings(v []string) []string {
	if v == nil {
		return []string{}
	}
	return v
}

func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
