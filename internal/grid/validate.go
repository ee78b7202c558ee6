// internal/grid/validate.go
//
// Full puzzle-configuration validation, run before create/update.
// All checks accumulate into one error list so an admin UI can surface
// every problem at once rather than the first failure.

package grid

import "fmt"

const (
	MinGridSize = 3
	MaxGridSize = 10
)

// Config is the buildable part of a puzzle configuration.
type Config struct {
	GridSize     int         `json:"gridSize"`
	Words        []Placement `json:"words"`
	VisibleCells []Cell      `json:"visibleCells"`
	HintCells    []Cell      `json:"hintCells"`
}

// ValidationResult reports whether a configuration is usable and, when
// it is, the solution grid built from its word list.
type ValidationResult struct {
	Valid        bool     `json:"valid"`
	Errors       []string `json:"errors"`
	SolutionGrid Grid     `json:"solutionGrid"`
}

// Validate checks grid size, word list presence, cell bounds, and word
// placement (via Build). Pure function over its inputs.
func Validate(cfg Config) ValidationResult {
	var errs []string

	if cfg.GridSize < MinGridSize || cfg.GridSize > MaxGridSize {
		errs = append(errs, fmt.Sprintf(
			"gridSize must be between %d and %d, got %d", MinGridSize, MaxGridSize, cfg.GridSize))
	}
	if len(cfg.Words) == 0 {
		errs = append(errs, "at least one word is required")
	}
	errs = append(errs, checkCells("visible", cfg.VisibleCells, cfg.GridSize)...)
	errs = append(errs, checkCells("hint", cfg.HintCells, cfg.GridSize)...)

	built := Build(cfg.GridSize, cfg.Words)
	errs = append(errs, built.Errors...)

	return ValidationResult{
		Valid:        len(errs) == 0,
		Errors:       errs,
		SolutionGrid: built.Grid,
	}
}

func checkCells(kind string, cells []Cell, gridSize int) []string {
	var errs []string
	for _, c := range cells {
		if c.Row < 0 || c.Row >= gridSize || c.Col < 0 || c.Col >= gridSize {
			errs = append(errs, fmt.Sprintf(
				"%s cell (%d,%d) is outside the grid", kind, c.Row, c.Col))
		}
	}
	return errs
}
