// internal/httpserver/routes_puzzle.go
//
// Player-facing puzzle endpoints.
// The attempt lifecycle is create-on-first-touch: a save, hint, or check
// against today's puzzle implicitly creates the (user, puzzle) attempt
// row, so only puzzle lookups can 404. Malformed client grids degrade to
// an "incomplete" verdict instead of erroring, since this path is
// reachable from client-controlled input.

package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/letterbox-games/gridword/internal/attempt"
	"github.com/letterbox-games/gridword/internal/database"
	"github.com/letterbox-games/gridword/internal/grid"
	"github.com/letterbox-games/gridword/internal/puzzle"
	"github.com/letterbox-games/gridword/internal/report"

	"github.com/google/uuid"
)

// puzzleView is the non-privileged shape of a puzzle: the solution stays
// server-side, only the unconditionally visible letters are included.
type puzzleView struct {
	ID             string              `json:"id"`
	PuzzleDate     string              `json:"puzzleDate"`
	GridSize       int                 `json:"gridSize"`
	VisibleLetters []puzzle.CellLetter `json:"visibleLetters"`
	DailyMessage   string              `json:"dailyMessage"`
	AcrossClues    []string            `json:"acrossClues"`
	DownClues      []string            `json:"downClues"`
}

type attemptView struct {
	CurrentGrid grid.Grid   `json:"currentGrid"`
	HintUsed    bool        `json:"hintUsed"`
	Status      grid.Status `json:"status"`
}

func toPuzzleView(p puzzle.Puzzle) puzzleView {
	return puzzleView{
		ID:             p.ID,
		PuzzleDate:     p.PuzzleDate,
		GridSize:       p.GridSize,
		VisibleLetters: p.Reveal(p.VisibleCells),
		DailyMessage:   p.DailyMessage,
		AcrossClues:    p.AcrossClues,
		DownClues:      p.DownClues,
	}
}

// handleToday returns today's puzzle plus the caller's attempt, if any.
func (s *Server) handleToday(w http.ResponseWriter, r *http.Request) {
	p, err := s.puzzles.ByDate(r.Context(), puzzle.DateKey(s.now()))
	if errors.Is(err, database.ErrNotFound) {
		writeError(w, http.StatusNotFound, "no puzzle for today")
		return
	}
	if err != nil {
		log.Error().Err(err).Msg("load today's puzzle")
		writeError(w, http.StatusInternalServerError, "db_error")
		return
	}

	resp := map[string]any{"puzzle": toPuzzleView(p), "attempt": nil}
	uid := s.playerID(w, r)
	if a, err := s.attempts.Get(r.Context(), uid, p.ID); err == nil {
		resp["attempt"] = attemptView{CurrentGrid: a.CurrentGrid, HintUsed: a.HintUsed, Status: a.Status}
	}
	writeJSON(w, http.StatusOK, resp)
}

// handleYesterday returns the previous day's puzzle including its
// solution grid. This is the only non-privileged path that exposes a
// solution.
func (s *Server) handleYesterday(w http.ResponseWriter, r *http.Request) {
	p, err := s.puzzles.ByDate(r.Context(), puzzle.DateKey(s.now().AddDate(0, 0, -1)))
	if errors.Is(err, database.ErrNotFound) {
		writeError(w, http.StatusNotFound, "no puzzle for yesterday")
		return
	}
	if err != nil {
		log.Error().Err(err).Msg("load yesterday's puzzle")
		writeError(w, http.StatusInternalServerError, "db_error")
		return
	}

	view := toPuzzleView(p)
	writeJSON(w, http.StatusOK, map[string]any{
		"puzzle":       view,
		"solutionGrid": p.SolutionGrid,
	})
}

type gridReq struct {
	PuzzleID string          `json:"puzzleId"`
	Grid     json.RawMessage `json:"grid"`
}

// decodeGrid enforces the save/check contract: the grid field must be a
// JSON array. Ragged or short rows are fine, non-arrays are a 400.
// A JSON null unmarshals without error but leaves the grid nil, and a
// nil grid written through the save upsert would erase real progress,
// so it is rejected the same as any other non-array.
func decodeGrid(raw json.RawMessage) (grid.Grid, error) {
	if len(raw) == 0 {
		return nil, errors.New("grid is required")
	}
	var g grid.Grid
	if err := json.Unmarshal(raw, &g); err != nil || g == nil {
		return nil, errors.New("grid must be an array")
	}
	return g, nil
}

func (s *Server) loadPuzzle(w http.ResponseWriter, r *http.Request, id string) (puzzle.Puzzle, bool) {
	p, err := s.puzzles.ByID(r.Context(), id)
	if errors.Is(err, database.ErrNotFound) {
		writeError(w, http.StatusNotFound, "puzzle not found")
		return p, false
	}
	if err != nil {
		log.Error().Err(err).Str("puzzleId", id).Msg("load puzzle")
		writeError(w, http.StatusInternalServerError, "db_error")
		return p, false
	}
	return p, true
}

// handleSave upserts the caller's in-progress grid. Invoked on every
// debounced keystroke, so it must stay a single idempotent write.
func (s *Server) handleSave(w http.ResponseWriter, r *http.Request) {
	var req gridReq
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json")
		return
	}
	g, err := decodeGrid(req.Grid)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	p, ok := s.loadPuzzle(w, r, req.PuzzleID)
	if !ok {
		return
	}

	uid := s.playerID(w, r)
	fresh := attempt.New(uid, p.ID, g, p.GridSize, s.now())
	if err := s.attempts.SaveProgress(r.Context(), fresh); err != nil {
		log.Error().Err(err).Msg("save progress")
		writeError(w, http.StatusInternalServerError, "save_failed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Progress saved"})
}

// handleCheck grades the submitted grid and records the verdict.
func (s *Server) handleCheck(w http.ResponseWriter, r *http.Request) {
	s.grade(w, r, false)
}

// handleFinish is the final-submission path: on a correct verdict it
// stamps finishedAt and computes the server-side solve time.
func (s *Server) handleFinish(w http.ResponseWriter, r *http.Request) {
	s.grade(w, r, true)
}

func (s *Server) grade(w http.ResponseWriter, r *http.Request, finish bool) {
	var req gridReq
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json")
		return
	}
	// A missing or malformed grid grades as incomplete rather than 400:
	// the comparator's guard clause owns this case.
	g, _ := decodeGrid(req.Grid)

	p, ok := s.loadPuzzle(w, r, req.PuzzleID)
	if !ok {
		return
	}

	uid := s.playerID(w, r)
	now := s.now()
	a, err := s.attempts.GetOrCreate(r.Context(), attempt.New(uid, p.ID, g, p.GridSize, now))
	if err != nil {
		log.Error().Err(err).Msg("load attempt")
		writeError(w, http.StatusInternalServerError, "db_error")
		return
	}

	verdict := grid.Compare(g, p.SolutionGrid)
	wasFinished := a.FinishedAt != nil

	if finish {
		a = attempt.Finish(a, verdict, g, now)
	} else {
		a = attempt.ApplyCheck(a, verdict, g, now)
	}
	if err := s.attempts.Record(r.Context(), a); err != nil {
		log.Error().Err(err).Msg("record attempt")
		writeError(w, http.StatusInternalServerError, "save_failed")
		return
	}

	result := map[string]any{"status": verdict.Status, "message": verdict.Message}
	if finish && verdict.Status == grid.StatusCorrect {
		result["timeTakenSeconds"] = a.TimeTakenSeconds
		result["finishedAt"] = a.FinishedAt.UTC().Format(time.RFC3339)

		// First solve counts toward the profile stats (best effort).
		if me := s.currentUser(r); me != nil && !wasFinished {
			if err := s.bumpStats(me.ID, true); err != nil {
				log.Warn().Err(err).Str("user", me.ID).Msg("bump stats")
			}
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{"result": result})
}

type hintReq struct {
	PuzzleID string `json:"puzzleId"`
}

// handleHint marks hint usage (first call only) and returns the hint
// cells with their letters. Repeat calls return the same cells.
func (s *Server) handleHint(w http.ResponseWriter, r *http.Request) {
	var req hintReq
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json")
		return
	}
	p, ok := s.loadPuzzle(w, r, req.PuzzleID)
	if !ok {
		return
	}

	uid := s.playerID(w, r)
	now := s.now()
	a, err := s.attempts.GetOrCreate(r.Context(), attempt.New(uid, p.ID, nil, p.GridSize, now))
	if err != nil {
		log.Error().Err(err).Msg("load attempt")
		writeError(w, http.StatusInternalServerError, "db_error")
		return
	}
	if a, changed := attempt.UseHint(a, now); changed {
		if err := s.attempts.Record(r.Context(), a); err != nil {
			log.Error().Err(err).Msg("record hint")
			writeError(w, http.StatusInternalServerError, "save_failed")
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"hintCells": p.Reveal(p.HintCells),
		"message":   "Hint revealed",
	})
}

// handleShare renders the clipboard text for a solved attempt.
func (s *Server) handleShare(w http.ResponseWriter, r *http.Request) {
	var req hintReq
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json")
		return
	}
	p, ok := s.loadPuzzle(w, r, req.PuzzleID)
	if !ok {
		return
	}

	uid := s.playerID(w, r)
	a, err := s.attempts.Get(r.Context(), uid, p.ID)
	if errors.Is(err, database.ErrNotFound) || (err == nil && a.Status != grid.StatusCorrect) {
		writeError(w, http.StatusConflict, "puzzle not solved yet")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "db_error")
		return
	}
	text := grid.ShareText(a.CurrentGrid, p.PuzzleDate, a.TimeTakenSeconds, a.HintUsed)
	writeJSON(w, http.StatusOK, map[string]string{"text": text})
}

type reportReq struct {
	PuzzleID    string `json:"puzzleId"`
	Description string `json:"description"`
}

// handleCreateReport files a report against a puzzle, freezing a
// snapshot of the caller's attempt at filing time.
func (s *Server) handleCreateReport(w http.ResponseWriter, r *http.Request) {
	var req reportReq
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json")
		return
	}
	if req.Description == "" {
		writeError(w, http.StatusBadRequest, "description is required")
		return
	}
	p, ok := s.loadPuzzle(w, r, req.PuzzleID)
	if !ok {
		return
	}

	uid := s.playerID(w, r)
	snap := report.Snapshot{Status: string(grid.StatusIncomplete)}
	if a, err := s.attempts.Get(r.Context(), uid, p.ID); err == nil {
		snap = report.Snapshot{Status: string(a.Status), Checks: a.Checks, HintUsed: a.HintUsed}
	}

	rep := report.Report{
		ID:          uuid.NewString(),
		UserID:      uid,
		PuzzleID:    p.ID,
		Snapshot:    snap,
		Description: req.Description,
		Status:      report.StatusOpen,
		CreatedAt:   s.now(),
	}
	if err := s.reports.Create(r.Context(), rep); err != nil {
		log.Error().Err(err).Msg("create report")
		writeError(w, http.StatusInternalServerError, "save_failed")
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"id": rep.ID, "status": string(rep.Status)})
}
