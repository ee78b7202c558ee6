// internal/grid/compare.go
//
// Cell-by-cell grading of a candidate grid against the solution.
// Filledness takes priority over correctness: a single empty cell yields
// "incomplete" even when every filled cell is wrong.

package grid

import "strings"

// Messages returned with each verdict; consumed verbatim by the frontend.
const (
	msgInvalidGrid = "Invalid grid data"
	msgIncomplete  = "Please fill in all cells"
	msgIncorrect   = "Some letters are incorrect. Keep trying!"
	msgCorrect     = "Congratulations! You solved the puzzle!"
)

// Compare grades userGrid against solution. Comparison is
// case-insensitive and tolerates ragged rows on either side (a missing
// cell reads as ""). Empty solution cells are skipped: solutions are not
// expected to contain gaps, but the comparator tolerates them.
func Compare(userGrid, solution Grid) Verdict {
	if userGrid == nil || solution == nil {
		return Verdict{Status: StatusIncomplete, Message: msgInvalidGrid}
	}

	allFilled, allCorrect := true, true
	for row := range solution {
		for col := range solution[row] {
			want := strings.ToUpper(solution.LetterAt(row, col))
			if want == "" {
				continue
			}
			got := strings.ToUpper(userGrid.LetterAt(row, col))
			if got == "" {
				allFilled = false
			} else if got != want {
				allCorrect = false
			}
		}
	}

	switch {
	case !allFilled:
		return Verdict{Status: StatusIncomplete, Message: msgIncomplete}
	case !allCorrect:
		return Verdict{Status: StatusIncorrect, Message: msgIncorrect}
	default:
		return Verdict{Status: StatusCorrect, Message: msgCorrect}
	}
}
