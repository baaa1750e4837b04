/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package engine

import (
	"time"

	"github.com/Raop2/ScheduleSmartNew/internal/solver"
)

const (
	reasonOptimized       = "Optimized placement minimizing total schedule length."
	reasonBatchInfeasible = "No feasible schedule exists for this task batch within the horizon."
	reasonSolverTimeout   = "The optimizer could not find a schedule within its time budget."
)

// decodeSolution maps solver variable values back to calendar timestamps.
// The optimal strategy is all-or-nothing: either every task receives an
// assignment, or the whole batch is reported unscheduled.
func decodeSolution(cm *constraintModel, sol solver.Solution) *Result {
	if !sol.HasValues() {
		reason := reasonBatchInfeasible
		if sol.Status == solver.StatusUnknown {
			reason = reasonSolverTimeout
		}
		result := &Result{Scheduled: []Assignment{}, Unscheduled: []UnscheduledTask{}, Status: StatusFailed}
		for _, t := range cm.tasks {
			result.Unscheduled = append(result.Unscheduled, UnscheduledTask{TaskID: t.ID, Reason: reason})
		}
		return result
	}

	result := &Result{Scheduled: []Assignment{}, Unscheduled: []UnscheduledTask{}, Status: StatusOptimized}
	for _, t := range cm.tasks {
		offset := sol.Value(cm.starts[t.ID])
		start := cm.anchor.Add(time.Duration(offset) * time.Minute)
		result.Scheduled = append(result.Scheduled, Assignment{
			TaskID:   t.ID,
			Name:     t.Name,
			StartsAt: start,
			EndsAt:   start.Add(t.Duration()),
			Reason:   reasonOptimized,
		})
	}

	sortAssignments(result.Scheduled)
	return result
}
