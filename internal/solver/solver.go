/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

// Package solver provides a narrow constraint-solving capability: bounded
// integer variables, fixed-size interval constraints, a global no-overlap
// constraint, and a minimize objective, searched under a wall-clock budget.
// The model shape mirrors CP-style interval scheduling so alternative
// backends (or deterministic test stubs) can be substituted freely.
package solver

import (
	"context"
	"time"
)

// Status classifies the outcome of a bounded search.
type Status string

const (
	// StatusOptimal means the search completed and the incumbent is proven best.
	StatusOptimal Status = "optimal"
	// StatusFeasible means the budget expired with a valid incumbent in hand.
	StatusFeasible Status = "feasible"
	// StatusInfeasible means the search completed without any valid assignment.
	StatusInfeasible Status = "infeasible"
	// StatusUnknown means the budget expired before any assignment was found.
	StatusUnknown Status = "unknown"
)

// IntVar is a handle to a bounded integer decision variable.
type IntVar int

// Interval is a handle to a fixed-size interval constraint end = start + size.
type Interval int

type variable struct {
	lo, hi int64
	name   string
}

type intervalSpec struct {
	start IntVar
	size  int64
	end   IntVar
	name  string
}

type maxEquality struct {
	target IntVar
	vars   []IntVar
}

// Model accumulates decision variables and constraints for one solve.
// A Model is built once per scheduling run and is not safe for concurrent use.
type Model struct {
	vars      []variable
	intervals []intervalSpec
	noOverlap [][]Interval
	maxEqs    []maxEquality

	objective    IntVar
	hasObjective bool
}

// NewModel returns an empty model.
func NewModel() *Model {
	return &Model{}
}

// NewIntVar registers a bounded integer variable with domain [lo, hi].
func (m *Model) NewIntVar(lo, hi int64, name string) IntVar {
	m.vars = append(m.vars, variable{lo: lo, hi: hi, name: name})
	return IntVar(len(m.vars) - 1)
}

// AddEquality pins v to value by collapsing its domain.
func (m *Model) AddEquality(v IntVar, value int64) {
	m.narrow(v, value, value)
}

// AddUpperBound constrains v <= bound.
func (m *Model) AddUpperBound(v IntVar, bound int64) {
	m.narrow(v, m.vars[v].lo, bound)
}

// AddInterval links start and end through end = start + size and returns the
// interval handle for no-overlap grouping.
func (m *Model) AddInterval(start IntVar, size int64, end IntVar, name string) Interval {
	m.intervals = append(m.intervals, intervalSpec{start: start, size: size, end: end, name: name})
	return Interval(len(m.intervals) - 1)
}

// AddNoOverlap demands that no two intervals in the group intersect in time.
func (m *Model) AddNoOverlap(group []Interval) {
	m.noOverlap = append(m.noOverlap, group)
}

// AddMaxEquality constrains target == max(vars).
func (m *Model) AddMaxEquality(target IntVar, vars []IntVar) {
	m.maxEqs = append(m.maxEqs, maxEquality{target: target, vars: vars})
}

// Minimize sets the objective variable to drive toward its minimum.
func (m *Model) Minimize(v IntVar) {
	m.objective = v
	m.hasObjective = true
}

func (m *Model) narrow(v IntVar, lo, hi int64) {
	if int(v) < 0 || int(v) >= len(m.vars) {
		return
	}
	if lo > m.vars[v].lo {
		m.vars[v].lo = lo
	}
	if hi < m.vars[v].hi {
		m.vars[v].hi = hi
	}
}

// Solution carries the search status and, for optimal/feasible statuses, a
// concrete value per registered variable.
type Solution struct {
	Status Status
	values []int64
}

// Value returns the assigned value of v. Only meaningful when Status is
// optimal or feasible.
func (s Solution) Value(v IntVar) int64 {
	if int(v) < 0 || int(v) >= len(s.values) {
		return 0
	}
	return s.values[int(v)]
}

// HasValues reports whether the solution carries variable assignments.
func (s Solution) HasValues() bool {
	return s.Status == StatusOptimal || s.Status == StatusFeasible
}

// Backend runs a bounded search over a model. Implementations must always
// return within roughly the given time limit and must never panic on
// infeasible models; infeasibility is a status, not an error.
type Backend interface {
	Solve(ctx context.Context, m *Model, limit time.Duration) (Solution, error)
}
