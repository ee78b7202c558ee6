// internal/attempt/attempt.go
//
// Attempt lifecycle state machine.
// An Attempt tracks one user's progress on one puzzle: current grid,
// hint usage, grading status, and timestamps. Transitions are free
// functions over an immutable snapshot with an explicit clock value, so
// elapsed-time computation stays deterministic in tests and the logic is
// decoupled from storage.
//
// States: incomplete → correct, or incomplete → incorrect → incomplete
// → … → correct. "incorrect" is not sticky: the next check can move the
// status anywhere. Once correct via Finish, callers are expected to stop
// writing, but the model does not hard-block further transitions.

package attempt

import (
	"time"

	"github.com/google/uuid"

	"github.com/letterbox-games/gridword/internal/grid"
)

// Attempt is the mutable record of one user's progress on one puzzle.
// Exactly one exists per (user, puzzle) pair.
type Attempt struct {
	ID               string      `json:"id"`
	UserID           string      `json:"-"`
	PuzzleID         string      `json:"puzzleId"`
	CurrentGrid      grid.Grid   `json:"currentGrid"`
	Status           grid.Status `json:"status"`
	HintUsed         bool        `json:"hintUsed"`
	HintUsedAt       *time.Time  `json:"hintUsedAt,omitempty"`
	StartedAt        time.Time   `json:"startedAt"`
	CompletedAt      *time.Time  `json:"completedAt,omitempty"`
	FinishedAt       *time.Time  `json:"finishedAt,omitempty"`
	TimeTakenSeconds int         `json:"timeTakenSeconds"`
	Checks           int         `json:"attempts"` // grading submissions so far
	CreatedAt        time.Time   `json:"-"`
}

// New creates a fresh attempt on first touch (save, hint, or check).
// If g is nil an empty gridSize x gridSize grid is allocated.
func New(userID, puzzleID string, g grid.Grid, gridSize int, now time.Time) Attempt {
	if g == nil {
		g = grid.New(gridSize)
	}
	return Attempt{
		ID:          uuid.NewString(),
		UserID:      userID,
		PuzzleID:    puzzleID,
		CurrentGrid: g,
		Status:      grid.StatusIncomplete,
		StartedAt:   now,
		CreatedAt:   now,
	}
}

// WithProgress returns a copy with the grid replaced. Saves never touch
// status, counters, or timestamps.
func WithProgress(a Attempt, g grid.Grid) Attempt {
	a.CurrentGrid = g
	return a
}

// UseHint marks the hint as used on first call and reports whether the
// snapshot changed. HintUsedAt is set once and never moves afterward.
func UseHint(a Attempt, now time.Time) (Attempt, bool) {
	if a.HintUsed {
		return a, false
	}
	a.HintUsed = true
	t := now
	a.HintUsedAt = &t
	return a, true
}

// ApplyCheck records a grading submission: the grid is persisted, the
// check counter increments, and status follows the verdict. A correct
// verdict stamps CompletedAt (first time only).
func ApplyCheck(a Attempt, v grid.Verdict, g grid.Grid, now time.Time) Attempt {
	a.CurrentGrid = g
	a.Checks++
	a.Status = v.Status
	if v.Status == grid.StatusCorrect && a.CompletedAt == nil {
		t := now
		a.CompletedAt = &t
	}
	return a
}

// Finish is the final-submission path: like ApplyCheck, but a correct
// verdict also stamps FinishedAt and derives TimeTakenSeconds from the
// server clock. Elapsed time is floored at zero to protect against
// clock skew, and a missing StartedAt falls back to the attempt's
// creation time, then to now.
func Finish(a Attempt, v grid.Verdict, g grid.Grid, now time.Time) Attempt {
	a = ApplyCheck(a, v, g, now)
	if v.Status != grid.StatusCorrect {
		return a
	}
	if a.FinishedAt == nil {
		t := now
		a.FinishedAt = &t
	}
	start := a.StartedAt
	if start.IsZero() {
		start = a.CreatedAt
	}
	if start.IsZero() {
		start = now
	}
	secs := int(a.FinishedAt.Sub(start) / time.Second)
	if secs < 0 {
		secs = 0
	}
	a.TimeTakenSeconds = secs
	return a
}
