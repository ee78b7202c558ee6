// internal/puzzle/puzzle.go
//
// Puzzle model. One puzzle exists per calendar day; its solution grid is
// built from the word list by the grid package and treated as an atomic
// value: admin edits that change words or size replace it wholesale.

package puzzle

import (
	"fmt"
	"time"

	"github.com/letterbox-games/gridword/internal/grid"
)

const (
	maxMessageLen = 500
	maxClueLen    = 300
)

// Puzzle is the daily puzzle with its authoritative solution.
// SolutionGrid is never exposed to non-privileged callers, except for
// the previous day's puzzle.
type Puzzle struct {
	ID           string           `json:"id"`
	PuzzleDate   string           `json:"puzzleDate"` // YYYY-MM-DD, UTC
	GridSize     int              `json:"gridSize"`
	Words        []grid.Placement `json:"words"`
	SolutionGrid grid.Grid        `json:"solutionGrid"`
	VisibleCells []grid.Cell      `json:"visibleCells"`
	HintCells    []grid.Cell      `json:"hintCells"`
	DailyMessage string           `json:"dailyMessage"`
	AcrossClues  []string         `json:"acrossClues"`
	DownClues    []string         `json:"downClues"`
	CreatedAt    time.Time        `json:"createdAt"`
}

// Summary is the list-view shape for admin screens.
type Summary struct {
	ID         string    `json:"id"`
	PuzzleDate string    `json:"puzzleDate"`
	GridSize   int       `json:"gridSize"`
	WordCount  int       `json:"wordCount"`
	CreatedAt  time.Time `json:"createdAt"`
}

// CellLetter is a revealed cell: position plus its solution letter.
type CellLetter struct {
	Row    int    `json:"row"`
	Col    int    `json:"col"`
	Letter string `json:"letter"`
}

// DateKey truncates t to day granularity: YYYY-MM-DD in UTC.
func DateKey(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

// Reveal resolves cells against the solution grid.
func (p Puzzle) Reveal(cells []grid.Cell) []CellLetter {
	out := make([]CellLetter, 0, len(cells))
	for _, c := range cells {
		out = append(out, CellLetter{Row: c.Row, Col: c.Col, Letter: p.SolutionGrid.LetterAt(c.Row, c.Col)})
	}
	return out
}

// ValidateMeta checks the presentation metadata length limits,
// accumulating errors in the same style as grid.Validate.
func ValidateMeta(dailyMessage string, acrossClues, downClues []string) []string {
	var errs []string
	if len(dailyMessage) > maxMessageLen {
		errs = append(errs, fmt.Sprintf("dailyMessage exceeds %d characters", maxMessageLen))
	}
	for i, c := range acrossClues {
		if len(c) > maxClueLen {
			errs = append(errs, fmt.Sprintf("across clue %d exceeds %d characters", i+1, maxClueLen))
		}
	}
	for i, c := range downClues {
		if len(c) > maxClueLen {
			errs = append(errs, fmt.Sprintf("down clue %d exceeds %d characters", i+1, maxClueLen))
		}
	}
	return errs
}
