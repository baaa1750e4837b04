/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package solver

import (
	"context"
	"sort"
	"time"
)

// BranchBound is the default backend: a depth-first branch-and-bound over
// single-resource interval sequencings. Every interval in a no-overlap group
// is placed left-shifted in some order, so enumerating orders covers all
// candidate optima; pinned intervals (collapsed start domains) are placed
// up front and free intervals are packed around them.
type BranchBound struct{}

// NewBranchBound returns the default search backend.
func NewBranchBound() *BranchBound {
	return &BranchBound{}
}

// job is an interval prepared for search with effective start bounds derived
// from both its start and end variable domains.
type job struct {
	iv     int // index into model.intervals
	size   int64
	lo, hi int64 // effective start domain
	pinned bool
}

type span struct {
	start, end int64
}

type searchState struct {
	model    *Model
	deadline time.Time
	ctx      context.Context

	jobs     []job // free jobs, search order
	occupied []span

	starts []int64 // candidate assignment per free job index
	nodes  int

	bestObj    int64
	bestStarts []int64
	found      bool
	expired    bool
}

// Solve runs the bounded search. The returned solution is StatusOptimal when
// the tree was exhausted, StatusFeasible when the budget expired with an
// incumbent, StatusInfeasible when exhaustion proved no assignment exists,
// and StatusUnknown when the budget expired empty-handed.
func (b *BranchBound) Solve(ctx context.Context, m *Model, limit time.Duration) (Solution, error) {
	if limit <= 0 {
		limit = time.Second
	}

	if len(m.intervals) == 0 {
		return completeSolution(m, nil, nil, StatusOptimal)
	}

	jobs := make([]job, 0, len(m.intervals))
	for i, iv := range m.intervals {
		sv, ev := m.vars[iv.start], m.vars[iv.end]
		lo := maxInt64(sv.lo, ev.lo-iv.size)
		hi := minInt64(sv.hi, ev.hi-iv.size)
		if lo > hi {
			return Solution{Status: StatusInfeasible}, nil
		}
		jobs = append(jobs, job{iv: i, size: iv.size, lo: lo, hi: hi, pinned: lo == hi})
	}

	var pinned, free []job
	for _, j := range jobs {
		if j.pinned {
			pinned = append(pinned, j)
		} else {
			free = append(free, j)
		}
	}

	// Pinned intervals that collide with each other leave no valid assignment.
	occupied := make([]span, 0, len(pinned))
	pinnedStarts := make(map[int]int64, len(pinned))
	for _, j := range pinned {
		s := span{start: j.lo, end: j.lo + j.size}
		for _, o := range occupied {
			if s.start < o.end && s.end > o.start {
				return Solution{Status: StatusInfeasible}, nil
			}
		}
		occupied = append(occupied, s)
		pinnedStarts[j.iv] = j.lo
	}
	sort.Slice(occupied, func(i, k int) bool { return occupied[i].start < occupied[k].start })

	// Earliest-deadline-first ordering finds good incumbents early, which
	// tightens the bound for the rest of the tree.
	sort.Slice(free, func(i, k int) bool {
		if free[i].hi != free[k].hi {
			return free[i].hi < free[k].hi
		}
		return free[i].lo < free[k].lo
	})

	st := &searchState{
		model:    m,
		deadline: time.Now().Add(limit),
		ctx:      ctx,
		jobs:     free,
		occupied: occupied,
		starts:   make([]int64, len(free)),
	}

	used := make([]bool, len(free))
	st.branch(used, 0, pinnedMakespan(pinned))

	switch {
	case st.found && !st.expired:
		return completeSolution(m, st.bestAssignments(), pinnedStarts, StatusOptimal)
	case st.found && st.expired:
		return completeSolution(m, st.bestAssignments(), pinnedStarts, StatusFeasible)
	case st.expired:
		return Solution{Status: StatusUnknown}, nil
	default:
		return Solution{Status: StatusInfeasible}, nil
	}
}

// branch extends a partial sequencing by one job. depth counts placed free
// jobs; makespan is the maximum end over everything placed so far.
func (s *searchState) branch(used []bool, depth int, makespan int64) {
	s.nodes++
	if s.nodes%512 == 0 {
		if time.Now().After(s.deadline) || s.ctx.Err() != nil {
			s.expired = true
		}
	}
	if s.expired {
		return
	}

	if depth == len(s.jobs) {
		if !s.found || makespan < s.bestObj {
			s.found = true
			s.bestObj = makespan
			s.bestStarts = append(s.bestStarts[:0], s.starts...)
		}
		return
	}

	if s.found && makespan >= s.bestObj {
		return
	}

	for i := range s.jobs {
		if used[i] {
			continue
		}
		j := s.jobs[i]

		// Occupied time only grows along a branch, so a job that cannot
		// fit here can never fit deeper: the whole node is dead.
		start, ok := earliestFit(s.occupied, j.lo, j.hi, j.size)
		if !ok {
			return
		}

		placed := span{start: start, end: start + j.size}
		s.occupied = insertSpan(s.occupied, placed)
		s.starts[i] = start
		used[i] = true

		s.branch(used, depth+1, maxInt64(makespan, placed.end))

		used[i] = false
		s.occupied = removeSpan(s.occupied, placed)

		if s.expired {
			return
		}
	}
}

func (s *searchState) bestAssignments() map[int]int64 {
	out := make(map[int]int64, len(s.jobs))
	for i, j := range s.jobs {
		out[j.iv] = s.bestStarts[i]
	}
	return out
}

// earliestFit finds the smallest start in [lo, hi] so that [start, start+size)
// clears every occupied span. Spans are kept sorted by start.
func earliestFit(occupied []span, lo, hi, size int64) (int64, bool) {
	start := lo
	for _, o := range occupied {
		if start+size <= o.start {
			break
		}
		if start < o.end {
			start = o.end
		}
	}
	if start > hi {
		return 0, false
	}
	return start, true
}

func insertSpan(spans []span, s span) []span {
	idx := sort.Search(len(spans), func(i int) bool { return spans[i].start >= s.start })
	spans = append(spans, span{})
	copy(spans[idx+1:], spans[idx:])
	spans[idx] = s
	return spans
}

func removeSpan(spans []span, s span) []span {
	for i, o := range spans {
		if o == s {
			return append(spans[:i], spans[i+1:]...)
		}
	}
	return spans
}

func pinnedMakespan(pinned []job) int64 {
	var m int64
	for _, j := range pinned {
		if end := j.lo + j.size; end > m {
			m = end
		}
	}
	return m
}

// completeSolution materializes values for every model variable: interval
// starts from the search, ends from start+size, max-equality targets from
// their operands, and untouched variables from their domain floor.
func completeSolution(m *Model, freeStarts map[int]int64, pinnedStarts map[int]int64, status Status) (Solution, error) {
	values := make([]int64, len(m.vars))
	for i, v := range m.vars {
		values[i] = v.lo
	}

	for i, iv := range m.intervals {
		start, ok := freeStarts[i]
		if !ok {
			start, ok = pinnedStarts[i]
			if !ok {
				continue
			}
		}
		values[iv.start] = start
		values[iv.end] = start + iv.size
	}

	for _, me := range m.maxEqs {
		var max int64
		for _, v := range me.vars {
			if values[v] > max {
				max = values[v]
			}
		}
		values[me.target] = max
	}

	return Solution{Status: status, values: values}, nil
}

func maxInt64(a, b int64) int64 {
	if a > b {
		return a
	}
	return b
}

func minInt64(a, b int64) int64 {
	if a < b {
		return a
	}
	return b
}
