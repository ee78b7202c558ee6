package attempt

import (
	"testing"
	"time"

	"github.com/letterbox-games/gridword/internal/grid"
)

var (
	t0 = time.Date(2026, 8, 29, 9, 0, 0, 0, time.UTC)
	t1 = t0.Add(3 * time.Minute)
)

func TestNewDefaults(t *testing.T) {
	a := New("u1", "p1", nil, 4, t0)
	if a.Status != grid.StatusIncomplete {
		t.Errorf("status = %q, want incomplete", a.Status)
	}
	if a.HintUsed || a.Checks != 0 {
		t.Error("fresh attempt should have no hint usage or checks")
	}
	if !a.StartedAt.Equal(t0) {
		t.Errorf("startedAt = %v, want %v", a.StartedAt, t0)
	}
	if len(a.CurrentGrid) != 4 || len(a.CurrentGrid[0]) != 4 {
		t.Errorf("expected empty 4x4 grid, got %v", a.CurrentGrid)
	}
}

func TestUseHintMonotonic(t *testing.T) {
	a := New("u1", "p1", nil, 4, t0)

	a, changed := UseHint(a, t0)
	if !changed || !a.HintUsed || a.HintUsedAt == nil {
		t.Fatal("first hint call should mark usage")
	}
	first := *a.HintUsedAt

	a, changed = UseHint(a, t1)
	if changed {
		t.Error("second hint call should be a no-op")
	}
	if !a.HintUsedAt.Equal(first) {
		t.Errorf("hintUsedAt moved from %v to %v", first, *a.HintUsedAt)
	}
}

func TestApplyCheckCountsAndStamps(t *testing.T) {
	a := New("u1", "p1", nil, 2, t0)
	g := grid.Grid{{"A", "B"}, {"C", "D"}}

	a = ApplyCheck(a, grid.Verdict{Status: grid.StatusIncorrect}, g, t0)
	if a.Checks != 1 || a.Status != grid.StatusIncorrect || a.CompletedAt != nil {
		t.Fatalf("after incorrect check: %+v", a)
	}

	// Incorrect is not sticky.
	a = ApplyCheck(a, grid.Verdict{Status: grid.StatusIncomplete}, g, t0)
	if a.Status != grid.StatusIncomplete {
		t.Errorf("status = %q, want incomplete", a.Status)
	}

	a = ApplyCheck(a, grid.Verdict{Status: grid.StatusCorrect}, g, t1)
	if a.Checks != 3 || a.CompletedAt == nil || !a.CompletedAt.Equal(t1) {
		t.Fatalf("after correct check: %+v", a)
	}
	if a.FinishedAt != nil {
		t.Error("plain check must not stamp finishedAt")
	}
}

func TestFinishComputesElapsed(t *testing.T) {
	a := New("u1", "p1", nil, 2, t0)
	a = Finish(a, grid.Verdict{Status: grid.StatusCorrect}, grid.Grid{{"A"}}, t1)
	if a.FinishedAt == nil || a.CompletedAt == nil {
		t.Fatal("finish with correct verdict should stamp both timestamps")
	}
	if a.TimeTakenSeconds != 180 {
		t.Errorf("timeTakenSeconds = %d, want 180", a.TimeTakenSeconds)
	}
}

func TestFinishClockSkewClampsToZero(t *testing.T) {
	a := New("u1", "p1", nil, 2, t0)
	a = Finish(a, grid.Verdict{Status: grid.StatusCorrect}, grid.Grid{{"A"}}, t0.Add(-time.Minute))
	if a.TimeTakenSeconds != 0 {
		t.Errorf("timeTakenSeconds = %d, want 0", a.TimeTakenSeconds)
	}
}

func TestFinishIncorrectLeavesTimestamps(t *testing.T) {
	a := New("u1", "p1", nil, 2, t0)
	a = Finish(a, grid.Verdict{Status: grid.StatusIncorrect}, grid.Grid{{"A"}}, t1)
	if a.FinishedAt != nil || a.CompletedAt != nil || a.TimeTakenSeconds != 0 {
		t.Fatalf("incorrect finish should not finalize: %+v", a)
	}
	if a.Checks != 1 {
		t.Errorf("checks = %d, want 1", a.Checks)
	}
}

func TestFinishMissingStartFallsBack(t *testing.T) {
	a := New("u1", "p1", nil, 2, t0)
	a.StartedAt = time.Time{}
	a = Finish(a, grid.Verdict{Status: grid.StatusCorrect}, grid.Grid{{"A"}}, t1)
	// CreatedAt (t0) is the fallback start.
	if a.TimeTakenSeconds != 180 {
		t.Errorf("timeTakenSeconds = %d, want 180", a.TimeTakenSeconds)
	}

	b := New("u1", "p2", nil, 2, t0)
	b.StartedAt = time.Time{}
	b.CreatedAt = time.Time{}
	b = Finish(b, grid.Verdict{Status: grid.StatusCorrect}, grid.Grid{{"A"}}, t1)
	if b.TimeTakenSeconds != 0 {
		t.Errorf("now-fallback should yield 0, got %d", b.TimeTakenSeconds)
	}
}
