package engine

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/Raop2/ScheduleSmartNew/internal/models"
	"github.com/Raop2/ScheduleSmartNew/internal/solver"
)

// stubBackend returns a canned solution, or an error, without searching.
type stubBackend struct {
	sol solver.Solution
	err error
}

func (s stubBackend) Solve(ctx context.Context, m *solver.Model, limit time.Duration) (solver.Solution, error) {
	return s.sol, s.err
}

func optimalEngine(t *testing.T, backend solver.Backend) *Engine {
	t.Helper()
	return New(backend, Options{SolverTimeLimit: 5 * time.Second}, zerolog.Nop())
}

func TestOptimalMinimizesMakespan(t *testing.T) {
	e := optimalEngine(t, solver.NewBranchBound())
	now := time.Date(2026, 1, 5, 8, 30, 0, 0, time.UTC)
	anchor := time.Date(2026, 1, 5, 8, 0, 0, 0, time.UTC) // truncated to the hour
	tasks := []models.Task{
		flexTask("a", 60, models.PriorityMedium),
		flexTask("b", 60, models.PriorityMedium),
	}

	result := mustSchedule(t, e, tasks, testPrefs(), StrategyOptimal, now)

	if result.Status != StatusOptimized {
		t.Fatalf("expected status optimized, got %s (unscheduled: %+v)", result.Status, result.Unscheduled)
	}
	if len(result.Scheduled) != 2 {
		t.Fatalf("expected 2 scheduled, got %d", len(result.Scheduled))
	}
	if !result.Scheduled[0].StartsAt.Equal(anchor) {
		t.Errorf("first task starts at %v, want anchor %v", result.Scheduled[0].StartsAt, anchor)
	}
	if !result.Scheduled[1].StartsAt.Equal(result.Scheduled[0].EndsAt) {
		t.Errorf("optimal plan should be gapless: %v vs %v",
			result.Scheduled[1].StartsAt, result.Scheduled[0].EndsAt)
	}
	wantEnd := anchor.Add(2 * time.Hour)
	if !result.Scheduled[1].EndsAt.Equal(wantEnd) {
		t.Errorf("makespan end %v, want %v", result.Scheduled[1].EndsAt, wantEnd)
	}
	if result.Scheduled[0].Reason != reasonOptimized {
		t.Errorf("unexpected reason %q", result.Scheduled[0].Reason)
	}
}

func TestOptimalRespectsFixedSlot(t *testing.T) {
	e := optimalEngine(t, solver.NewBranchBound())
	now := time.Date(2026, 1, 5, 8, 0, 0, 0, time.UTC)
	slot := time.Date(2026, 1, 5, 9, 0, 0, 0, time.UTC)
	tasks := []models.Task{
		{ID: "fixed", Name: "meeting", DurationMinutes: 60, Priority: models.PriorityHigh, FixedSlot: &slot},
		flexTask("flex", 60, models.PriorityMedium),
	}

	result := mustSchedule(t, e, tasks, testPrefs(), StrategyOptimal, now)

	if result.Status != StatusOptimized {
		t.Fatalf("expected status optimized, got %s", result.Status)
	}

	byID := make(map[string]Assignment)
	for _, a := range result.Scheduled {
		byID[a.TaskID] = a
	}
	if !byID["fixed"].StartsAt.Equal(slot) {
		t.Errorf("fixed task placed at %v, want %v", byID["fixed"].StartsAt, slot)
	}
	// Minimizing the makespan tucks the flexible hour in front of the meeting.
	if !byID["flex"].StartsAt.Equal(now) {
		t.Errorf("flexible task placed at %v, want %v", byID["flex"].StartsAt, now)
	}
}

func TestOptimalInfeasibleBatchAllOrNothing(t *testing.T) {
	e := optimalEngine(t, solver.NewBranchBound())
	now := time.Date(2026, 1, 5, 8, 0, 0, 0, time.UTC)
	deadline := now.Add(90 * time.Minute)

	// Three hours of work against a 90 minute deadline for every task.
	var tasks []models.Task
	for _, id := range []string{"a", "b", "c"} {
		task := flexTask(id, 60, models.PriorityHigh)
		task.Deadline = &deadline
		tasks = append(tasks, task)
	}

	result := mustSchedule(t, e, tasks, testPrefs(), StrategyOptimal, now)

	if result.Status != StatusFailed {
		t.Fatalf("expected status failed, got %s", result.Status)
	}
	if len(result.Scheduled) != 0 {
		t.Fatalf("infeasible batch must schedule nothing, got %+v", result.Scheduled)
	}
	if len(result.Unscheduled) != 3 {
		t.Fatalf("expected 3 unscheduled, got %d", len(result.Unscheduled))
	}
	for _, u := range result.Unscheduled {
		if u.Reason != reasonBatchInfeasible {
			t.Errorf("task %s reason %q, want %q", u.TaskID, u.Reason, reasonBatchInfeasible)
		}
	}
}

func TestOptimalNilBackend(t *testing.T) {
	e := optimalEngine(t, nil)
	tasks := []models.Task{flexTask("a", 60, models.PriorityMedium)}

	result := mustSchedule(t, e, tasks, testPrefs(), StrategyOptimal, testMonday)

	if result.Status != StatusFailed {
		t.Fatalf("expected status failed, got %s", result.Status)
	}
	want := "Scheduling backend unavailable; no solve was attempted."
	if len(result.Unscheduled) != 1 || result.Unscheduled[0].Reason != want {
		t.Fatalf("unexpected unscheduled set: %+v", result.Unscheduled)
	}
}

func TestOptimalBackendError(t *testing.T) {
	e := optimalEngine(t, stubBackend{err: errors.New("boom")})
	tasks := []models.Task{flexTask("a", 60, models.PriorityMedium)}

	result := mustSchedule(t, e, tasks, testPrefs(), StrategyOptimal, testMonday)

	if result.Status != StatusFailed {
		t.Fatalf("expected status failed, got %s", result.Status)
	}
	want := "Scheduling backend failed: boom."
	if len(result.Unscheduled) != 1 || result.Unscheduled[0].Reason != want {
		t.Fatalf("unexpected unscheduled set: %+v", result.Unscheduled)
	}
}

func TestOptimalTimeoutReason(t *testing.T) {
	e := optimalEngine(t, stubBackend{sol: solver.Solution{Status: solver.StatusUnknown}})
	tasks := []models.Task{
		flexTask("a", 60, models.PriorityMedium),
		flexTask("b", 60, models.PriorityMedium),
	}

	result := mustSchedule(t, e, tasks, testPrefs(), StrategyOptimal, testMonday)

	if result.Status != StatusFailed {
		t.Fatalf("expected status failed, got %s", result.Status)
	}
	if len(result.Unscheduled) != 2 {
		t.Fatalf("expected 2 unscheduled, got %d", len(result.Unscheduled))
	}
	for _, u := range result.Unscheduled {
		if u.Reason != reasonSolverTimeout {
			t.Errorf("task %s reason %q, want %q", u.TaskID, u.Reason, reasonSolverTimeout)
		}
	}
}

func TestBuildConstraintModelAnchorTruncation(t *testing.T) {
	now := time.Date(2026, 1, 5, 8, 45, 30, 0, time.UTC)
	tasks := []models.Task{flexTask("a", 30, models.PriorityMedium)}

	cm := buildConstraintModel(tasks, now, 14)

	want := time.Date(2026, 1, 5, 8, 0, 0, 0, time.UTC)
	if !cm.anchor.Equal(want) {
		t.Errorf("anchor %v, want %v", cm.anchor, want)
	}
}
