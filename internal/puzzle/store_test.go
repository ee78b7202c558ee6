package puzzle

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/letterbox-games/gridword/internal/database"
	"github.com/letterbox-games/gridword/internal/database/migrations"
	"github.com/letterbox-games/gridword/internal/grid"
)

func testDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := migrations.Run(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func samplePuzzle(date string) Puzzle {
	words := []grid.Placement{
		{Word: "WORD", StartRow: 0, StartCol: 0, Direction: grid.Horizontal},
		{Word: "OPEN", StartRow: 0, StartCol: 1, Direction: grid.Vertical},
	}
	built := grid.Build(4, words)
	return Puzzle{
		ID:           uuid.NewString(),
		PuzzleDate:   date,
		GridSize:     4,
		Words:        words,
		SolutionGrid: built.Grid,
		VisibleCells: []grid.Cell{{Row: 0, Col: 0}},
		HintCells:    []grid.Cell{{Row: 3, Col: 1}},
		DailyMessage: "have fun",
		AcrossClues:  []string{"1. a unit of language"},
		DownClues:    []string{"2. not closed"},
		CreatedAt:    time.Date(2026, 8, 29, 0, 0, 0, 0, time.UTC),
	}
}

func TestCreateAndLookup(t *testing.T) {
	store := NewStore(testDB(t))
	ctx := context.Background()
	p := samplePuzzle("2026-08-29")

	if err := store.Create(ctx, p); err != nil {
		t.Fatalf("create: %v", err)
	}

	got, err := store.ByDate(ctx, "2026-08-29")
	if err != nil {
		t.Fatalf("by date: %v", err)
	}
	if got.ID != p.ID || got.GridSize != 4 || len(got.Words) != 2 {
		t.Errorf("round trip mismatch: %+v", got)
	}
	if got.SolutionGrid.LetterAt(0, 1) != "O" {
		t.Errorf("solution grid lost: %v", got.SolutionGrid)
	}
	if len(got.AcrossClues) != 1 || got.DailyMessage != "have fun" {
		t.Errorf("metadata lost: %+v", got)
	}
}

func TestCreateDuplicateDate(t *testing.T) {
	store := NewStore(testDB(t))
	ctx := context.Background()

	if err := store.Create(ctx, samplePuzzle("2026-08-29")); err != nil {
		t.Fatal(err)
	}
	err := store.Create(ctx, samplePuzzle("2026-08-29"))
	if !errors.Is(err, ErrDateTaken) {
		t.Fatalf("expected ErrDateTaken, got %v", err)
	}
}

func TestUpdateReplacesSolution(t *testing.T) {
	store := NewStore(testDB(t))
	ctx := context.Background()
	p := samplePuzzle("2026-08-29")
	if err := store.Create(ctx, p); err != nil {
		t.Fatal(err)
	}

	p.Words = []grid.Placement{{Word: "CAT", StartRow: 0, StartCol: 0, Direction: grid.Horizontal}}
	p.GridSize = 3
	p.SolutionGrid = grid.Build(3, p.Words).Grid
	if err := store.Update(ctx, p); err != nil {
		t.Fatalf("update: %v", err)
	}

	got, err := store.ByID(ctx, p.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.GridSize != 3 || got.SolutionGrid.LetterAt(0, 0) != "C" {
		t.Errorf("solution not rebuilt: %+v", got)
	}
	if got.SolutionGrid.LetterAt(0, 3) != "" {
		t.Error("old solution leaked through update")
	}
}

func TestUpdateMissing(t *testing.T) {
	store := NewStore(testDB(t))
	p := samplePuzzle("2026-08-29")
	if err := store.Update(context.Background(), p); !errors.Is(err, database.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestListPagination(t *testing.T) {
	store := NewStore(testDB(t))
	ctx := context.Background()
	for _, d := range []string{"2026-08-27", "2026-08-28", "2026-08-29"} {
		if err := store.Create(ctx, samplePuzzle(d)); err != nil {
			t.Fatal(err)
		}
	}

	page, total, err := store.List(ctx, 1, 2)
	if err != nil {
		t.Fatal(err)
	}
	if total != 3 || len(page) != 2 {
		t.Fatalf("total=%d len=%d, want 3 and 2", total, len(page))
	}
	if page[0].PuzzleDate != "2026-08-29" {
		t.Errorf("expected newest first, got %s", page[0].PuzzleDate)
	}
	if page[0].WordCount != 2 {
		t.Errorf("wordCount = %d, want 2", page[0].WordCount)
	}

	page2, _, err := store.List(ctx, 2, 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(page2) != 1 || page2[0].PuzzleDate != "2026-08-27" {
		t.Errorf("unexpected second page: %+v", page2)
	}
}

func TestDelete(t *testing.T) {
	store := NewStore(testDB(t))
	ctx := context.Background()
	p := samplePuzzle("2026-08-29")
	if err := store.Create(ctx, p); err != nil {
		t.Fatal(err)
	}
	if err := store.Delete(ctx, p.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := store.ByID(ctx, p.ID); !errors.Is(err, database.ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
	if err := store.Delete(ctx, p.ID); !errors.Is(err, database.ErrNotFound) {
		t.Fatalf("double delete: expected ErrNotFound, got %v", err)
	}
}

func TestValidateMeta(t *testing.T) {
	long := make([]byte, 501)
	for i := range long {
		long[i] = 'x'
	}
	errs := ValidateMeta(string(long), []string{string(long[:301])}, nil)
	if len(errs) != 2 {
		t.Fatalf("expected 2 errors, got %v", errs)
	}
	if errs := ValidateMeta("ok", []string{"fine"}, []string{"fine"}); len(errs) != 0 {
		t.Fatalf("expected no errors, got %v", errs)
	}
}
