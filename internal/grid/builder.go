// internal/grid/builder.go
//
// Solution-grid construction from an ordered word list.
// Responsibilities:
//   - Uppercase each word and resolve its cells from start position + direction.
//   - Reject placements that extend beyond the grid bounds.
//   - Detect letter conflicts where overlapping words disagree.
//
// Notes:
//   - Errors are collected as human-readable strings, never thrown; a word
//     list producing zero errors yields a grid usable as a puzzle solution.
//   - On conflict the first-written letter is kept. Processing order decides
//     which letter wins if a caller ignores the errors; the validator treats
//     any conflict as fatal, so that only matters for callers that don't.

package grid

import (
	"fmt"
	"strings"
)

// BuildResult is the outcome of assembling a solution grid.
type BuildResult struct {
	Grid   Grid     `json:"grid"`
	Errors []string `json:"errors"`
}

// Build places words into a gridSize x gridSize grid in input order.
// A word that does not fit contributes no letters; a conflicting letter
// is reported and does not overwrite the cell's existing letter.
func Build(gridSize int, words []Placement) BuildResult {
	res := BuildResult{Grid: New(gridSize)}
	if gridSize <= 0 {
		return res
	}

	for _, p := range words {
		word := strings.ToUpper(strings.TrimSpace(p.Word))
		if word == "" {
			continue
		}
		// One cell per rune, so length and indexing stay correct for
		// letters outside ASCII.
		letters := []rune(word)

		switch p.Direction {
		case Horizontal:
			if p.StartRow < 0 || p.StartRow >= gridSize || p.StartCol < 0 {
				res.Errors = append(res.Errors, fmt.Sprintf(
					"word %q starts outside the grid at (%d,%d)", word, p.StartRow, p.StartCol))
				continue
			}
			if p.StartCol+len(letters) > gridSize {
				res.Errors = append(res.Errors, fmt.Sprintf(
					"word %q extends beyond grid horizontally", word))
				continue
			}
			for i, r := range letters {
				res.place(p.StartRow, p.StartCol+i, string(r), word)
			}
		case Vertical:
			if p.StartCol < 0 || p.StartCol >= gridSize || p.StartRow < 0 {
				res.Errors = append(res.Errors, fmt.Sprintf(
					"word %q starts outside the grid at (%d,%d)", word, p.StartRow, p.StartCol))
				continue
			}
			if p.StartRow+len(letters) > gridSize {
				res.Errors = append(res.Errors, fmt.Sprintf(
					"word %q extends beyond grid vertically", word))
				continue
			}
			for i, r := range letters {
				res.place(p.StartRow+i, p.StartCol, string(r), word)
			}
		default:
			res.Errors = append(res.Errors, fmt.Sprintf(
				"word %q has invalid direction %q", word, p.Direction))
		}
	}
	return res
}

// place writes letter into (row, col). If the cell already holds a
// different letter the existing letter is kept and a conflict recorded;
// a same-letter overlap is a no-op.
func (res *BuildResult) place(row, col int, letter, word string) {
	existing := res.Grid[row][col]
	if existing != "" && existing != letter {
		res.Errors = append(res.Errors, fmt.Sprintf(
			"conflict at cell (%d,%d): %q from word %q collides with existing letter %q",
			row, col, letter, word, existing))
		return
	}
	res.Grid[row][col] = letter
}
