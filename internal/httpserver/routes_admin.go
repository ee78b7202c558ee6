// internal/httpserver/routes_admin.go
//
// Admin CRUD for puzzles and report triage. Every handler in this file
// sits behind requireAdmin. Validation accumulates: a bad payload comes
// back as a 400 with the full error list, not just the first failure.

package httpserver

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/letterbox-games/gridword/internal/database"
	"github.com/letterbox-games/gridword/internal/grid"
	"github.com/letterbox-games/gridword/internal/puzzle"
	"github.com/letterbox-games/gridword/internal/report"
)

type adminPuzzleReq struct {
	PuzzleDate   string           `json:"puzzleDate"`
	GridSize     int              `json:"gridSize"`
	Words        []grid.Placement `json:"words"`
	VisibleCells []grid.Cell      `json:"visibleCells"`
	HintCells    []grid.Cell      `json:"hintCells"`
	DailyMessage string           `json:"dailyMessage"`
	AcrossClues  []string         `json:"acrossClues"`
	DownClues    []string         `json:"downClues"`
}

// validate runs the full accumulation pass and, when clean, returns the
// built solution grid.
func (req adminPuzzleReq) validate() (grid.Grid, []string) {
	var errs []string
	if _, err := time.Parse("2006-01-02", req.PuzzleDate); err != nil {
		errs = append(errs, "puzzleDate must be YYYY-MM-DD")
	}
	res := grid.Validate(grid.Config{
		GridSize:     req.GridSize,
		Words:        req.Words,
		VisibleCells: req.VisibleCells,
		HintCells:    req.HintCells,
	})
	errs = append(errs, res.Errors...)
	errs = append(errs, puzzle.ValidateMeta(req.DailyMessage, req.AcrossClues, req.DownClues)...)
	if len(errs) > 0 {
		return nil, errs
	}
	return res.SolutionGrid, nil
}

func (req adminPuzzleReq) apply(p *puzzle.Puzzle, solution grid.Grid) {
	p.PuzzleDate = req.PuzzleDate
	p.GridSize = req.GridSize
	p.Words = req.Words
	p.SolutionGrid = solution
	p.VisibleCells = req.VisibleCells
	p.HintCells = req.HintCells
	p.DailyMessage = req.DailyMessage
	p.AcrossClues = req.AcrossClues
	p.DownClues = req.DownClues
}

func (s *Server) handleAdminCreatePuzzle(w http.ResponseWriter, r *http.Request) {
	var req adminPuzzleReq
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json")
		return
	}
	solution, errs := req.validate()
	if len(errs) > 0 {
		writeErrors(w, http.StatusBadRequest, errs)
		return
	}

	p := puzzle.Puzzle{ID: uuid.NewString(), CreatedAt: s.now()}
	req.apply(&p, solution)

	err := s.puzzles.Create(r.Context(), p)
	if errors.Is(err, puzzle.ErrDateTaken) {
		writeError(w, http.StatusConflict, err.Error())
		return
	}
	if err != nil {
		log.Error().Err(err).Msg("create puzzle")
		writeError(w, http.StatusInternalServerError, "save_failed")
		return
	}
	writeJSON(w, http.StatusCreated, puzzle.Summary{
		ID: p.ID, PuzzleDate: p.PuzzleDate, GridSize: p.GridSize,
		WordCount: len(p.Words), CreatedAt: p.CreatedAt,
	})
}

func (s *Server) handleAdminUpdatePuzzle(w http.ResponseWriter, r *http.Request) {
	var req adminPuzzleReq
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json")
		return
	}
	solution, errs := req.validate()
	if len(errs) > 0 {
		writeErrors(w, http.StatusBadRequest, errs)
		return
	}

	p, err := s.puzzles.ByID(r.Context(), chi.URLParam(r, "id"))
	if errors.Is(err, database.ErrNotFound) {
		writeError(w, http.StatusNotFound, "puzzle not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "db_error")
		return
	}
	req.apply(&p, solution)

	err = s.puzzles.Update(r.Context(), p)
	if errors.Is(err, puzzle.ErrDateTaken) {
		writeError(w, http.StatusConflict, err.Error())
		return
	}
	if errors.Is(err, database.ErrNotFound) {
		writeError(w, http.StatusNotFound, "puzzle not found")
		return
	}
	if err != nil {
		log.Error().Err(err).Str("puzzleId", p.ID).Msg("update puzzle")
		writeError(w, http.StatusInternalServerError, "save_failed")
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// handleAdminGetPuzzle returns the full puzzle, solution included.
func (s *Server) handleAdminGetPuzzle(w http.ResponseWriter, r *http.Request) {
	p, err := s.puzzles.ByID(r.Context(), chi.URLParam(r, "id"))
	if errors.Is(err, database.ErrNotFound) {
		writeError(w, http.StatusNotFound, "puzzle not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "db_error")
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) handleAdminListPuzzles(w http.ResponseWriter, r *http.Request) {
	page := queryInt(r, "page", 1)
	limit := queryInt(r, "limit", 20)
	puzzles, total, err := s.puzzles.List(r.Context(), page, limit)
	if err != nil {
		log.Error().Err(err).Msg("list puzzles")
		writeError(w, http.StatusInternalServerError, "db_error")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"puzzles": puzzles,
		"total":   total,
		"page":    page,
		"limit":   limit,
	})
}

func (s *Server) handleAdminDeletePuzzle(w http.ResponseWriter, r *http.Request) {
	err := s.puzzles.Delete(r.Context(), chi.URLParam(r, "id"))
	if errors.Is(err, database.ErrNotFound) {
		writeError(w, http.StatusNotFound, "puzzle not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "db_error")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleAdminListReports(w http.ResponseWriter, r *http.Request) {
	status := report.Status(r.URL.Query().Get("status"))
	if status != "" && !status.Valid() {
		writeError(w, http.StatusBadRequest, "unknown report status")
		return
	}
	reports, err := s.reports.List(r.Context(), status)
	if err != nil {
		log.Error().Err(err).Msg("list reports")
		writeError(w, http.StatusInternalServerError, "db_error")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"reports": reports})
}

type resolveReportReq struct {
	Status     report.Status `json:"status"`
	AdminNotes string        `json:"adminNotes"`
}

func (s *Server) handleAdminResolveReport(w http.ResponseWriter, r *http.Request) {
	var req resolveReportReq
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json")
		return
	}
	if !req.Status.Valid() {
		writeError(w, http.StatusBadRequest, "unknown report status")
		return
	}

	me := s.currentUser(r)
	rep, err := s.reports.Resolve(r.Context(), chi.URLParam(r, "id"), req.Status, req.AdminNotes, me.ID, s.now())
	if errors.Is(err, database.ErrNotFound) {
		writeError(w, http.StatusNotFound, "report not found")
		return
	}
	if err != nil {
		log.Error().Err(err).Msg("resolve report")
		writeError(w, http.StatusInternalServerError, "save_failed")
		return
	}
	writeJSON(w, http.StatusOK, rep)
}
