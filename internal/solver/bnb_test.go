package solver

import (
	"context"
	"testing"
	"time"
)

const testHorizon = int64(14 * 24 * 60)

func solve(t *testing.T, m *Model) Solution {
	t.Helper()
	sol, err := NewBranchBound().Solve(context.Background(), m, 5*time.Second)
	if err != nil {
		t.Fatalf("Solve: %v", err)
	}
	return sol
}

// addJob registers one task-shaped interval: bounded start/end plus the
// linking constraint.
func addJob(m *Model, name string, size int64) (IntVar, IntVar, Interval) {
	start := m.NewIntVar(0, testHorizon, "start:"+name)
	end := m.NewIntVar(0, testHorizon, "end:"+name)
	iv := m.AddInterval(start, size, end, name)
	return start, end, iv
}

func TestSolveEmptyModel(t *testing.T) {
	sol := solve(t, NewModel())
	if sol.Status != StatusOptimal {
		t.Fatalf("expected optimal for empty model, got %s", sol.Status)
	}
}

func TestSolveMinimizesMakespan(t *testing.T) {
	m := NewModel()
	_, endA, ivA := addJob(m, "a", 60)
	_, endB, ivB := addJob(m, "b", 90)
	m.AddNoOverlap([]Interval{ivA, ivB})

	makespan := m.NewIntVar(0, testHorizon, "makespan")
	m.AddMaxEquality(makespan, []IntVar{endA, endB})
	m.Minimize(makespan)

	sol := solve(t, m)

	if sol.Status != StatusOptimal {
		t.Fatalf("expected optimal, got %s", sol.Status)
	}
	if got := sol.Value(makespan); got != 150 {
		t.Errorf("makespan %d, want 150", got)
	}
}

func TestSolveNoOverlapHolds(t *testing.T) {
	m := NewModel()
	startA, _, ivA := addJob(m, "a", 60)
	startB, _, ivB := addJob(m, "b", 60)
	startC, _, ivC := addJob(m, "c", 60)
	m.AddNoOverlap([]Interval{ivA, ivB, ivC})

	sol := solve(t, m)

	if sol.Status != StatusOptimal {
		t.Fatalf("expected optimal, got %s", sol.Status)
	}
	starts := []int64{sol.Value(startA), sol.Value(startB), sol.Value(startC)}
	for i := range starts {
		for j := i + 1; j < len(starts); j++ {
			lo, hi := starts[i], starts[j]
			if lo > hi {
				lo, hi = hi, lo
			}
			if hi < lo+60 {
				t.Errorf("jobs %d and %d overlap: starts %v", i, j, starts)
			}
		}
	}
}

func TestSolvePacksAroundPinnedInterval(t *testing.T) {
	m := NewModel()
	startFixed, endFixed, ivFixed := addJob(m, "fixed", 60)
	m.AddEquality(startFixed, 60)
	startFree, endFree, ivFree := addJob(m, "free", 60)
	m.AddNoOverlap([]Interval{ivFixed, ivFree})

	makespan := m.NewIntVar(0, testHorizon, "makespan")
	m.AddMaxEquality(makespan, []IntVar{endFixed, endFree})
	m.Minimize(makespan)

	sol := solve(t, m)

	if sol.Status != StatusOptimal {
		t.Fatalf("expected optimal, got %s", sol.Status)
	}
	if got := sol.Value(startFree); got != 0 {
		t.Errorf("free job start %d, want 0 (tucked before the pinned hour)", got)
	}
	if got := sol.Value(endFree); got != 60 {
		t.Errorf("free job end %d, want 60", got)
	}
	if got := sol.Value(makespan); got != 120 {
		t.Errorf("makespan %d, want 120", got)
	}
}

func TestSolvePinnedCollisionInfeasible(t *testing.T) {
	m := NewModel()
	startA, _, ivA := addJob(m, "a", 60)
	startB, _, ivB := addJob(m, "b", 60)
	m.AddEquality(startA, 100)
	m.AddEquality(startB, 130)
	m.AddNoOverlap([]Interval{ivA, ivB})

	sol := solve(t, m)

	if sol.Status != StatusInfeasible {
		t.Fatalf("expected infeasible for colliding pinned intervals, got %s", sol.Status)
	}
	if sol.HasValues() {
		t.Error("infeasible solution must not carry values")
	}
}

func TestSolveDeadlinesTooTight(t *testing.T) {
	m := NewModel()
	var ivs []Interval
	for _, name := range []string{"a", "b", "c"} {
		_, end, iv := addJob(m, name, 60)
		m.AddUpperBound(end, 90)
		ivs = append(ivs, iv)
	}
	m.AddNoOverlap(ivs)

	sol := solve(t, m)

	if sol.Status != StatusInfeasible {
		t.Fatalf("expected infeasible, got %s", sol.Status)
	}
}

func TestSolveCollapsedDomainInfeasible(t *testing.T) {
	m := NewModel()
	start, _, _ := addJob(m, "a", 60)
	// Pinning below an already-raised floor empties the domain.
	m.AddUpperBound(start, 100)
	m.AddEquality(start, 200)

	sol := solve(t, m)

	if sol.Status != StatusInfeasible {
		t.Fatalf("expected infeasible for empty start domain, got %s", sol.Status)
	}
}

func TestSolveUnconstrainedVarDefaultsToFloor(t *testing.T) {
	m := NewModel()
	v := m.NewIntVar(7, 100, "loose")
	_, _, iv := addJob(m, "a", 30)
	m.AddNoOverlap([]Interval{iv})

	sol := solve(t, m)

	if sol.Status != StatusOptimal {
		t.Fatalf("expected optimal, got %s", sol.Status)
	}
	if got := sol.Value(v); got != 7 {
		t.Errorf("unconstrained variable value %d, want its domain floor 7", got)
	}
}
