// internal/grid/grid.go
//
// Core types for the puzzle grid model.
// Defines:
//   - Grid: an NxN letter matrix ("" marks an empty cell).
//   - Cell: a row/col coordinate.
//   - Placement: one word with its start position and direction.
//   - Status/Verdict: the tri-state grading outcome.

package grid

// Direction of a word placement within the grid.
type Direction string

const (
	Horizontal Direction = "horizontal"
	Vertical   Direction = "vertical"
)

// Cell identifies a single grid position.
type Cell struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// Placement describes a word and where it sits in the grid.
type Placement struct {
	Word      string    `json:"word"`
	StartRow  int       `json:"startRow"`
	StartCol  int       `json:"startCol"`
	Direction Direction `json:"direction"`
}

// Grid is a square letter matrix. Cells hold a single uppercase letter
// or "" when unfilled. Rows may be ragged on client-supplied grids;
// LetterAt treats missing cells as empty.
type Grid [][]string

// New allocates an empty size x size grid.
func New(size int) Grid {
	g := make(Grid, size)
	for i := range g {
		g[i] = make([]string, size)
	}
	return g
}

// LetterAt returns the letter at (row, col), or "" if the cell is
// missing (nil grid, short row, out-of-range index).
func (g Grid) LetterAt(row, col int) string {
	if row < 0 || row >= len(g) {
		return ""
	}
	r := g[row]
	if col < 0 || col >= len(r) {
		return ""
	}
	return r[col]
}

// Status is the grading outcome of comparing a user grid to a solution.
type Status string

const (
	StatusIncomplete Status = "incomplete"
	StatusIncorrect  Status = "incorrect"
	StatusCorrect    Status = "correct"
)

// Verdict pairs a grading status with a player-facing message.
type Verdict struct {
	Status  Status `json:"status"`
	Message string `json:"message"`
}
