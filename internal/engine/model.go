/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package engine

import (
	"time"

	"github.com/Raop2/ScheduleSmartNew/internal/models"
	"github.com/Raop2/ScheduleSmartNew/internal/solver"
)

// constraintModel carries the encoded model plus everything the decoder needs
// to map solver values back to calendar time. The anchor is fixed once per
// run and reused for decoding.
type constraintModel struct {
	model  *solver.Model
	anchor time.Time
	tasks  []models.Task
	starts map[string]solver.IntVar
}

// buildConstraintModel translates tasks into minute-offset decision variables
// from the anchor (now truncated to the hour).
//
// The model is the basic no-overlap + deadline + fixed-slot + makespan
// encoding: time is one uninterrupted timeline from the anchor, and the work
// window and weekend preferences are not added as hard constraints. The
// greedy strategy remains the one that honors window preferences strictly.
func buildConstraintModel(tasks []models.Task, now time.Time, horizonDays int) *constraintModel {
	anchor := now.Truncate(time.Hour)
	horizon := int64(horizonDays) * 24 * 60

	m := solver.NewModel()
	cm := &constraintModel{
		model:  m,
		anchor: anchor,
		tasks:  tasks,
		starts: make(map[string]solver.IntVar, len(tasks)),
	}

	intervals := make([]solver.Interval, 0, len(tasks))
	ends := make([]solver.IntVar, 0, len(tasks))

	for _, t := range tasks {
		dur := int64(t.DurationMinutes)
		start := m.NewIntVar(0, horizon, "start:"+t.ID)
		end := m.NewIntVar(0, horizon, "end:"+t.ID)
		intervals = append(intervals, m.AddInterval(start, dur, end, t.ID))
		ends = append(ends, end)
		cm.starts[t.ID] = start

		if t.Deadline != nil {
			bound := minutesFrom(anchor, *t.Deadline)
			if bound < 0 {
				bound = 0
			}
			m.AddUpperBound(end, bound)
		}

		if t.FixedSlot != nil {
			// A fixed slot before the anchor collapses the start domain
			// to nothing, which the solver reports as infeasible.
			m.AddEquality(start, minutesFrom(anchor, *t.FixedSlot))
		}
	}

	m.AddNoOverlap(intervals)

	makespan := m.NewIntVar(0, horizon, "makespan")
	m.AddMaxEquality(makespan, ends)
	m.Minimize(makespan)

	return cm
}

func minutesFrom(anchor, t time.Time) int64 {
	return int64(t.Sub(anchor) / time.Minute)
}
