/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

// Package engine assigns concrete start and end times to tasks. Two
// interchangeable strategies are offered: a deterministic greedy sweep and a
// constraint-based optimizer driven through the solver capability. The engine
// is stateless across calls: every run is a pure function of the task
// snapshot, the preferences, and the caller-supplied reference time.
package engine

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/rs/zerolog"

	"github.com/Raop2/ScheduleSmartNew/internal/models"
	"github.com/Raop2/ScheduleSmartNew/internal/solver"
	"github.com/Raop2/ScheduleSmartNew/internal/telemetry"
)

var (
	// ErrInvalidInput indicates malformed tasks or preferences. No
	// scheduling is attempted when it is returned.
	ErrInvalidInput = errors.New("invalid scheduling input")

	// ErrUnknownStrategy indicates an unrecognized strategy name.
	ErrUnknownStrategy = errors.New("unknown scheduling strategy")
)

// Strategy selects a placement algorithm.
type Strategy string

const (
	StrategyGreedy  Strategy = "greedy"
	StrategyOptimal Strategy = "optimal"
)

// ParseStrategy maps a caller-facing strategy name to a Strategy.
func ParseStrategy(name string) (Strategy, error) {
	switch Strategy(name) {
	case StrategyGreedy:
		return StrategyGreedy, nil
	case StrategyOptimal:
		return StrategyOptimal, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownStrategy, name)
	}
}

// Status classifies a scheduling run.
type Status string

const (
	StatusEmpty     Status = "empty"
	StatusCompleted Status = "completed"
	StatusOptimized Status = "optimized"
	StatusFailed    Status = "failed"
)

// Assignment is a concrete placement for one task.
type Assignment struct {
	TaskID   string    `json:"task_id"`
	Name     string    `json:"name"`
	StartsAt time.Time `json:"start_time"`
	EndsAt   time.Time `json:"end_time"`
	Reason   string    `json:"reason"`
}

// UnscheduledTask records a task the run could not place, with the reason.
type UnscheduledTask struct {
	TaskID string `json:"task_id"`
	Reason string `json:"reason"`
}

// Result is the outcome of one scheduling run. Every input task id appears in
// exactly one of Scheduled or Unscheduled; Scheduled is ordered by start time.
type Result struct {
	Scheduled   []Assignment      `json:"scheduled"`
	Unscheduled []UnscheduledTask `json:"unscheduled"`
	Status      Status            `json:"status"`
}

// Options tunes the engine. Zero values fall back to defaults.
type Options struct {
	GreedyHorizonDays  int
	OptimalHorizonDays int
	SolverTimeLimit    time.Duration
}

// Engine dispatches scheduling runs to the selected strategy.
type Engine struct {
	backend            solver.Backend
	greedyHorizonDays  int
	optimalHorizonDays int
	solveLimit         time.Duration
	logger             zerolog.Logger
}

// New constructs the scheduling engine.
func New(backend solver.Backend, opts Options, logger zerolog.Logger) *Engine {
	if opts.GreedyHorizonDays <= 0 {
		opts.GreedyHorizonDays = 14
	}
	if opts.OptimalHorizonDays <= 0 {
		opts.OptimalHorizonDays = 14
	}
	if opts.SolverTimeLimit <= 0 {
		opts.SolverTimeLimit = 10 * time.Second
	}
	return &Engine{
		backend:            backend,
		greedyHorizonDays:  opts.GreedyHorizonDays,
		optimalHorizonDays: opts.OptimalHorizonDays,
		solveLimit:         opts.SolverTimeLimit,
		logger:             logger.With().Str("component", "engine").Logger(),
	}
}

// Schedule runs one placement over a snapshot of tasks. Malformed input is
// rejected with ErrInvalidInput before any scheduling; every other failure is
// reported through the result status, never as an error.
func (e *Engine) Schedule(ctx context.Context, tasks []models.Task, prefs models.SchedulePreferences, strategy Strategy, now time.Time) (*Result, error) {
	if err := validateInput(tasks, prefs); err != nil {
		return nil, err
	}

	if len(tasks) == 0 {
		return &Result{Scheduled: []Assignment{}, Unscheduled: []UnscheduledTask{}, Status: StatusEmpty}, nil
	}

	started := time.Now()
	var result *Result
	switch strategy {
	case StrategyGreedy:
		result = e.scheduleGreedy(tasks, prefs, now)
	case StrategyOptimal:
		result = e.scheduleOptimal(ctx, tasks, prefs, now)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownStrategy, strategy)
	}

	telemetry.ScheduleRunsTotal.WithLabelValues(string(strategy), string(result.Status)).Inc()
	telemetry.ScheduleRunDuration.WithLabelValues(string(strategy)).Observe(time.Since(started).Seconds())
	telemetry.TasksScheduledTotal.Add(float64(len(result.Scheduled)))
	telemetry.TasksUnscheduledTotal.Add(float64(len(result.Unscheduled)))

	e.logger.Info().
		Str("strategy", string(strategy)).
		Str("status", string(result.Status)).
		Int("scheduled", len(result.Scheduled)).
		Int("unscheduled", len(result.Unscheduled)).
		Msg("scheduling run completed")

	return result, nil
}

// scheduleOptimal drives the solver capability: encode, solve, decode.
func (e *Engine) scheduleOptimal(ctx context.Context, tasks []models.Task, prefs models.SchedulePreferences, now time.Time) *Result {
	if e.backend == nil {
		e.logger.Error().Msg("no solver backend configured")
		return batchFailure(tasks, "Scheduling backend unavailable; no solve was attempted.")
	}

	cm := buildConstraintModel(tasks, now, e.optimalHorizonDays)

	sol, err := e.backend.Solve(ctx, cm.model, e.solveLimit)
	if err != nil {
		e.logger.Error().Err(err).Msg("solver backend failed")
		return batchFailure(tasks, fmt.Sprintf("Scheduling backend failed: %v.", err))
	}

	telemetry.SolverOutcomesTotal.WithLabelValues(string(sol.Status)).Inc()

	return decodeSolution(cm, sol)
}

// batchFailure marks the whole batch unscheduled with a single shared reason.
func batchFailure(tasks []models.Task, reason string) *Result {
	unscheduled := make([]UnscheduledTask, 0, len(tasks))
	for _, t := range tasks {
		unscheduled = append(unscheduled, UnscheduledTask{TaskID: t.ID, Reason: reason})
	}
	return &Result{Scheduled: []Assignment{}, Unscheduled: unscheduled, Status: StatusFailed}
}

func validateInput(tasks []models.Task, prefs models.SchedulePreferences) error {
	if prefs.StartHour < 0 || prefs.StartHour > 23 || prefs.EndHour < 0 || prefs.EndHour > 23 {
		return fmt.Errorf("%w: work window hours must be within 0-23", ErrInvalidInput)
	}
	if prefs.StartHour >= prefs.EndHour {
		return fmt.Errorf("%w: start hour %d must precede end hour %d", ErrInvalidInput, prefs.StartHour, prefs.EndHour)
	}
	for _, t := range tasks {
		if t.DurationMinutes <= 0 {
			return fmt.Errorf("%w: task %q has non-positive duration %d", ErrInvalidInput, t.ID, t.DurationMinutes)
		}
	}
	return nil
}

func sortAssignments(assignments []Assignment) {
	sort.SliceStable(assignments, func(i, j int) bool {
		if !assignments[i].StartsAt.Equal(assignments[j].StartsAt) {
			return assignments[i].StartsAt.Before(assignments[j].StartsAt)
		}
		return assignments[i].TaskID < assignments[j].TaskID
	})
}
