package httpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/letterbox-games/gridword/internal/config"
	"github.com/letterbox-games/gridword/internal/database"
	"github.com/letterbox-games/gridword/internal/database/migrations"
	"github.com/letterbox-games/gridword/internal/grid"
	"github.com/letterbox-games/gridword/internal/puzzle"
)

var testClock = time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	if err := migrations.Run(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	cfg := &config.Config{
		ClientOrigin:   "http://localhost:5173",
		JWTSecret:      "test_secret",
		JWTExpiresDays: 3650,
		CookieName:     "gridword_token",
	}
	s := New(cfg, db)
	s.now = func() time.Time { return testClock }
	return s
}

// seedPuzzle inserts a 4x4 puzzle (WORD across, OPEN down) for the date.
func seedPuzzle(t *testing.T, s *Server, date string) puzzle.Puzzle {
	t.Helper()
	words := []grid.Placement{
		{Word: "WORD", StartRow: 0, StartCol: 0, Direction: grid.Horizontal},
		{Word: "OPEN", StartRow: 0, StartCol: 1, Direction: grid.Vertical},
	}
	built := grid.Build(4, words)
	if len(built.Errors) != 0 {
		t.Fatalf("seed build errors: %v", built.Errors)
	}
	p := puzzle.Puzzle{
		ID:           uuid.NewString(),
		PuzzleDate:   date,
		GridSize:     4,
		Words:        words,
		SolutionGrid: built.Grid,
		VisibleCells: []grid.Cell{{Row: 0, Col: 0}},
		HintCells:    []grid.Cell{{Row: 0, Col: 3}},
		DailyMessage: "have fun",
		AcrossClues:  []string{"1A: a unit of language"},
		DownClues:    []string{"1D: not closed"},
		CreatedAt:    testClock,
	}
	if err := s.puzzles.Create(context.Background(), p); err != nil {
		t.Fatalf("seed puzzle: %v", err)
	}
	return p
}

// solvedGrid copies the solution so it grades as correct.
func solvedGrid(p puzzle.Puzzle) grid.Grid {
	g := grid.New(p.GridSize)
	for r := range p.SolutionGrid {
		copy(g[r], p.SolutionGrid[r])
	}
	return g
}

func doJSON(t *testing.T, s *Server, method, path string, body any, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
	return out
}

func TestTodayHidesSolution(t *testing.T) {
	s := newTestServer(t)
	seedPuzzle(t, s, "2026-08-29")

	rec := doJSON(t, s, http.MethodGet, "/puzzle/today", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	body := decodeBody(t, rec)
	pz, ok := body["puzzle"].(map[string]any)
	if !ok {
		t.Fatalf("missing puzzle object in %v", body)
	}
	if _, leaked := pz["solutionGrid"]; leaked {
		t.Fatal("today's response leaked the solution grid")
	}
	if pz["gridSize"].(float64) != 4 {
		t.Fatalf("gridSize = %v", pz["gridSize"])
	}
	visible := pz["visibleLetters"].([]any)
	if len(visible) != 1 {
		t.Fatalf("visibleLetters = %v", visible)
	}
	if cell := visible[0].(map[string]any); cell["letter"] != "W" {
		t.Fatalf("visible letter = %v, want W", cell["letter"])
	}
	if body["attempt"] != nil {
		t.Fatalf("attempt = %v, want null before any play", body["attempt"])
	}
}

func TestTodayWithoutPuzzle(t *testing.T) {
	s := newTestServer(t)
	rec := doJSON(t, s, http.MethodGet, "/puzzle/today", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

func TestYesterdayIncludesSolution(t *testing.T) {
	s := newTestServer(t)
	seedPuzzle(t, s, "2026-08-28")

	rec := doJSON(t, s, http.MethodGet, "/puzzle/yesterday", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	body := decodeBody(t, rec)
	solution, ok := body["solutionGrid"].([]any)
	if !ok || len(solution) != 4 {
		t.Fatalf("solutionGrid = %v", body["solutionGrid"])
	}
	row0 := solution[0].([]any)
	if row0[0] != "W" || row0[3] != "D" {
		t.Fatalf("solution row 0 = %v", row0)
	}
}

func TestSaveRejectsNonArrayGrid(t *testing.T) {
	s := newTestServer(t)
	p := seedPuzzle(t, s, "2026-08-29")

	rec := doJSON(t, s, http.MethodPost, "/puzzle/save", map[string]any{
		"puzzleId": p.ID,
		"grid":     "not a grid",
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if body := decodeBody(t, rec); body["error"] != "grid must be an array" {
		t.Fatalf("error = %v", body["error"])
	}
}

func TestSaveRejectsNullGridAndKeepsProgress(t *testing.T) {
	s := newTestServer(t)
	p := seedPuzzle(t, s, "2026-08-29")

	partial := grid.Grid{{"W", "O", "", ""}, {"", "", "", ""}, {"", "", "", ""}, {"", "", "", ""}}
	rec := doJSON(t, s, http.MethodPost, "/puzzle/save", map[string]any{"puzzleId": p.ID, "grid": partial})
	if rec.Code != http.StatusOK {
		t.Fatalf("save status = %d: %s", rec.Code, rec.Body.String())
	}
	anon := anonCookie(t, rec)

	rec = doJSON(t, s, http.MethodPost, "/puzzle/save", map[string]any{"puzzleId": p.ID, "grid": nil}, anon)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("save with null grid = %d, want 400", rec.Code)
	}
	if body := decodeBody(t, rec); body["error"] != "grid must be an array" {
		t.Fatalf("error = %v", body["error"])
	}

	// The earlier grid must survive the rejected write.
	rec = doJSON(t, s, http.MethodGet, "/puzzle/today", nil, anon)
	att := decodeBody(t, rec)["attempt"].(map[string]any)
	row0 := att["currentGrid"].([]any)[0].([]any)
	if row0[0] != "W" || row0[1] != "O" {
		t.Fatalf("saved grid row 0 = %v after rejected null save", row0)
	}
}

func TestSaveThenTodayShowsProgress(t *testing.T) {
	s := newTestServer(t)
	p := seedPuzzle(t, s, "2026-08-29")

	partial := grid.Grid{{"W", "O", "", ""}, {"", "", "", ""}, {"", "", "", ""}, {"", "", "", ""}}
	rec := doJSON(t, s, http.MethodPost, "/puzzle/save", map[string]any{"puzzleId": p.ID, "grid": partial})
	if rec.Code != http.StatusOK {
		t.Fatalf("save status = %d: %s", rec.Code, rec.Body.String())
	}
	anon := anonCookie(t, rec)

	rec = doJSON(t, s, http.MethodGet, "/puzzle/today", nil, anon)
	body := decodeBody(t, rec)
	att, ok := body["attempt"].(map[string]any)
	if !ok {
		t.Fatalf("attempt missing after save: %v", body)
	}
	row0 := att["currentGrid"].([]any)[0].([]any)
	if row0[0] != "W" || row0[1] != "O" {
		t.Fatalf("saved grid row 0 = %v", row0)
	}
	if att["status"] != string(grid.StatusIncomplete) {
		t.Fatalf("status = %v", att["status"])
	}
}

// anonCookie extracts the guest identity cookie set by the handler.
func anonCookie(t *testing.T, rec *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range rec.Result().Cookies() {
		if c.Name == anonCookieName {
			return c
		}
	}
	t.Fatal("no anonymous cookie set")
	return nil
}

func TestCheckVerdicts(t *testing.T) {
	s := newTestServer(t)
	p := seedPuzzle(t, s, "2026-08-29")

	partial := grid.Grid{{"W", "", "", ""}, {"", "", "", ""}, {"", "", "", ""}, {"", "", "", ""}}
	rec := doJSON(t, s, http.MethodPost, "/puzzle/check", map[string]any{"puzzleId": p.ID, "grid": partial})
	if rec.Code != http.StatusOK {
		t.Fatalf("check status = %d: %s", rec.Code, rec.Body.String())
	}
	result := decodeBody(t, rec)["result"].(map[string]any)
	if result["status"] != string(grid.StatusIncomplete) {
		t.Fatalf("status = %v, want incomplete", result["status"])
	}
	if result["message"] != "Please fill in all cells" {
		t.Fatalf("message = %v", result["message"])
	}

	wrong := solvedGrid(p)
	wrong[0][0] = "X"
	rec = doJSON(t, s, http.MethodPost, "/puzzle/check", map[string]any{"puzzleId": p.ID, "grid": wrong})
	result = decodeBody(t, rec)["result"].(map[string]any)
	if result["status"] != string(grid.StatusIncorrect) {
		t.Fatalf("status = %v, want incorrect", result["status"])
	}

	rec = doJSON(t, s, http.MethodPost, "/puzzle/check", map[string]any{"puzzleId": p.ID, "grid": solvedGrid(p)})
	result = decodeBody(t, rec)["result"].(map[string]any)
	if result["status"] != string(grid.StatusCorrect) {
		t.Fatalf("status = %v, want correct", result["status"])
	}
	if result["message"] != "Congratulations! You solved the puzzle!" {
		t.Fatalf("message = %v", result["message"])
	}
}

func TestFinishStampsTime(t *testing.T) {
	s := newTestServer(t)
	p := seedPuzzle(t, s, "2026-08-29")

	start := grid.Grid{{"W", "", "", ""}, {"", "", "", ""}, {"", "", "", ""}, {"", "", "", ""}}
	rec := doJSON(t, s, http.MethodPost, "/puzzle/save", map[string]any{"puzzleId": p.ID, "grid": start})
	anon := anonCookie(t, rec)

	// Three minutes pass before the final submission.
	s.now = func() time.Time { return testClock.Add(3 * time.Minute) }

	rec = doJSON(t, s, http.MethodPost, "/attempt/finish",
		map[string]any{"puzzleId": p.ID, "grid": solvedGrid(p)}, anon)
	if rec.Code != http.StatusOK {
		t.Fatalf("finish status = %d: %s", rec.Code, rec.Body.String())
	}
	result := decodeBody(t, rec)["result"].(map[string]any)
	if result["status"] != string(grid.StatusCorrect) {
		t.Fatalf("status = %v", result["status"])
	}
	if secs := result["timeTakenSeconds"].(float64); secs != 180 {
		t.Fatalf("timeTakenSeconds = %v, want 180", secs)
	}
	if _, ok := result["finishedAt"]; !ok {
		t.Fatal("finishedAt missing from correct finish")
	}
}

func TestFinishIncompleteOmitsTime(t *testing.T) {
	s := newTestServer(t)
	p := seedPuzzle(t, s, "2026-08-29")

	rec := doJSON(t, s, http.MethodPost, "/attempt/finish", map[string]any{"puzzleId": p.ID, "grid": grid.New(4)})
	result := decodeBody(t, rec)["result"].(map[string]any)
	if result["status"] != string(grid.StatusIncomplete) {
		t.Fatalf("status = %v", result["status"])
	}
	if _, ok := result["timeTakenSeconds"]; ok {
		t.Fatal("timeTakenSeconds should only appear on a correct finish")
	}
}

func TestHintRevealsCells(t *testing.T) {
	s := newTestServer(t)
	p := seedPuzzle(t, s, "2026-08-29")

	rec := doJSON(t, s, http.MethodPost, "/puzzle/hint", map[string]any{"puzzleId": p.ID})
	if rec.Code != http.StatusOK {
		t.Fatalf("hint status = %d: %s", rec.Code, rec.Body.String())
	}
	anon := anonCookie(t, rec)
	cells := decodeBody(t, rec)["hintCells"].([]any)
	if len(cells) != 1 {
		t.Fatalf("hintCells = %v", cells)
	}
	if cell := cells[0].(map[string]any); cell["letter"] != "D" {
		t.Fatalf("hint letter = %v, want D", cell["letter"])
	}

	rec = doJSON(t, s, http.MethodGet, "/puzzle/today", nil, anon)
	att := decodeBody(t, rec)["attempt"].(map[string]any)
	if att["hintUsed"] != true {
		t.Fatalf("hintUsed = %v after taking a hint", att["hintUsed"])
	}
}

func TestShareRequiresSolvedAttempt(t *testing.T) {
	s := newTestServer(t)
	p := seedPuzzle(t, s, "2026-08-29")

	rec := doJSON(t, s, http.MethodPost, "/puzzle/share", map[string]any{"puzzleId": p.ID})
	if rec.Code != http.StatusConflict {
		t.Fatalf("share before solve = %d, want 409", rec.Code)
	}
	anon := anonCookie(t, rec)

	rec = doJSON(t, s, http.MethodPost, "/attempt/finish",
		map[string]any{"puzzleId": p.ID, "grid": solvedGrid(p)}, anon)
	if rec.Code != http.StatusOK {
		t.Fatalf("finish status = %d", rec.Code)
	}

	rec = doJSON(t, s, http.MethodPost, "/puzzle/share", map[string]any{"puzzleId": p.ID}, anon)
	if rec.Code != http.StatusOK {
		t.Fatalf("share after solve = %d: %s", rec.Code, rec.Body.String())
	}
	text := decodeBody(t, rec)["text"].(string)
	if !strings.HasPrefix(text, "Gridword 2026-08-29 0:00") {
		t.Fatalf("share text = %q", text)
	}
	if !strings.Contains(text, "🟩") {
		t.Fatalf("share text has no filled squares: %q", text)
	}
}

func TestCreateReport(t *testing.T) {
	s := newTestServer(t)
	p := seedPuzzle(t, s, "2026-08-29")

	rec := doJSON(t, s, http.MethodPost, "/report", map[string]any{"puzzleId": p.ID})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("empty description = %d, want 400", rec.Code)
	}

	rec = doJSON(t, s, http.MethodPost, "/report", map[string]any{
		"puzzleId":    p.ID,
		"description": "clue 1A is misleading",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("report status = %d: %s", rec.Code, rec.Body.String())
	}
	body := decodeBody(t, rec)
	if body["status"] != "open" {
		t.Fatalf("status = %v, want open", body["status"])
	}
	if body["id"] == "" {
		t.Fatal("report id missing")
	}
}
