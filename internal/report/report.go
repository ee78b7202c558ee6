// internal/report/report.go
//
// User-filed puzzle reports. A report captures a snapshot of the
// reporter's attempt at filing time and is immutable afterward except
// for the admin-set resolution fields.

package report

import "time"

type Status string

const (
	StatusOpen      Status = "open"
	StatusReviewing Status = "reviewing"
	StatusResolved  Status = "resolved"
	StatusDismissed Status = "dismissed"
)

// Valid reports whether s is a known report status.
func (s Status) Valid() bool {
	switch s {
	case StatusOpen, StatusReviewing, StatusResolved, StatusDismissed:
		return true
	}
	return false
}

// Snapshot is the attempt state frozen into the report when it's filed.
type Snapshot struct {
	Status   string `json:"status"`
	Checks   int    `json:"attempts"`
	HintUsed bool   `json:"hintUsed"`
}

type Report struct {
	ID          string     `json:"id"`
	UserID      string     `json:"userId"`
	PuzzleID    string     `json:"puzzleId"`
	Snapshot    Snapshot   `json:"attemptSnapshot"`
	Description string     `json:"description"`
	Status      Status     `json:"status"`
	AdminNotes  string     `json:"adminNotes,omitempty"`
	ResolvedBy  *string    `json:"resolvedBy,omitempty"`
	ResolvedAt  *time.Time `json:"resolvedAt,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
}
