/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package engine

import (
	"fmt"
	"sort"
	"time"

	"github.com/Raop2/ScheduleSmartNew/internal/models"
)

const (
	reasonFixedCommitment = "Fixed commitment defined by user."
	reasonEarliestSlot    = "Earliest available slot that fits your preferences."
)

// interval is an occupied stretch of calendar time.
type interval struct {
	start, end time.Time
}

func (iv interval) overlaps(start, end time.Time) bool {
	return start.Before(iv.end) && end.After(iv.start)
}

// scheduleGreedy places tasks with a deterministic earliest-fit sweep.
//
// Fixed commitments are pre-occupied and never rejected, even when they
// overlap each other. Flexible tasks are placed in urgency order; each task
// restarts its sweep from the global anchor, and on conflict the cursor jumps
// to the end of the first conflicting interval rather than rescanning for an
// earlier gap. That jump can land later than a full rescan would, which is
// the heuristic's intended speed/simplicity trade-off.
func (e *Engine) scheduleGreedy(tasks []models.Task, prefs models.SchedulePreferences, now time.Time) *Result {
	result := &Result{
		Scheduled:   []Assignment{},
		Unscheduled: []UnscheduledTask{},
		Status:      StatusCompleted,
	}

	var fixed, flexible []models.Task
	for _, t := range tasks {
		if t.FixedSlot != nil {
			fixed = append(fixed, t)
		} else {
			flexible = append(flexible, t)
		}
	}

	occupied := make([]interval, 0, len(tasks))
	for _, t := range fixed {
		iv := interval{start: *t.FixedSlot, end: t.FixedEnd()}
		occupied = append(occupied, iv)
		result.Scheduled = append(result.Scheduled, Assignment{
			TaskID:   t.ID,
			Name:     t.Name,
			StartsAt: iv.start,
			EndsAt:   iv.end,
			Reason:   reasonFixedCommitment,
		})
	}

	// Earliest deadline first; missing deadlines sort last. Priority only
	// breaks ties between equally urgent tasks.
	sort.SliceStable(flexible, func(i, j int) bool {
		di, dj := flexible[i].Deadline, flexible[j].Deadline
		switch {
		case di != nil && dj != nil && !di.Equal(*dj):
			return di.Before(*dj)
		case di != nil && dj == nil:
			return true
		case di == nil && dj != nil:
			return false
		}
		return flexible[i].Priority.Rank() < flexible[j].Priority.Rank()
	})

	anchor := scheduleAnchor(now, prefs)

	for _, t := range flexible {
		placed, reason := e.sweep(t, prefs, anchor, occupied)
		if reason != "" {
			result.Unscheduled = append(result.Unscheduled, UnscheduledTask{TaskID: t.ID, Reason: reason})
			continue
		}
		occupied = append(occupied, placed)
		result.Scheduled = append(result.Scheduled, Assignment{
			TaskID:   t.ID,
			Name:     t.Name,
			StartsAt: placed.start,
			EndsAt:   placed.end,
			Reason:   reasonEarliestSlot,
		})
	}

	sortAssignments(result.Scheduled)
	return result
}

// sweep searches forward from the anchor for the earliest in-window slot.
// It returns the placed interval, or an empty reason-carrying failure when
// the deadline cannot be met or the horizon is exhausted.
func (e *Engine) sweep(t models.Task, prefs models.SchedulePreferences, anchor time.Time, occupied []interval) (interval, string) {
	cursor := anchor
	daysAdvanced := 0

	for daysAdvanced < e.greedyHorizonDays {
		if cursor.Hour() >= prefs.EndHour {
			cursor = nextDayStart(cursor, prefs.StartHour)
			daysAdvanced++
			continue
		}

		if !prefs.IncludeWeekends && isWeekend(cursor) {
			cursor = nextDayStart(cursor, prefs.StartHour)
			daysAdvanced++
			continue
		}

		end := cursor.Add(t.Duration())

		// Jump to the end of the first conflicting interval; earlier
		// intervals need no rescan under the earliest-fit contract.
		conflicted := false
		for _, iv := range occupied {
			if iv.overlaps(cursor, end) {
				cursor = iv.end
				conflicted = true
				break
			}
		}
		if conflicted {
			continue
		}

		if !sameDay(cursor, end) || end.Hour() > prefs.EndHour {
			cursor = nextDayStart(cursor, prefs.StartHour)
			daysAdvanced++
			continue
		}

		if t.Deadline != nil && end.After(*t.Deadline) {
			return interval{}, fmt.Sprintf("Could not find time before deadline %s.", t.Deadline.Format(time.RFC3339))
		}

		return interval{start: cursor, end: end}, ""
	}

	return interval{}, fmt.Sprintf("No suitable slot found within %d days.", e.greedyHorizonDays)
}

// scheduleAnchor computes the sweep's starting point: today at the window
// start, or tomorrow when the working day is already over.
func scheduleAnchor(now time.Time, prefs models.SchedulePreferences) time.Time {
	day := now
	if now.Hour() >= prefs.EndHour {
		day = day.AddDate(0, 0, 1)
	}
	return time.Date(day.Year(), day.Month(), day.Day(), prefs.StartHour, 0, 0, 0, now.Location())
}

func nextDayStart(t time.Time, startHour int) time.Time {
	next := t.AddDate(0, 0, 1)
	return time.Date(next.Year(), next.Month(), next.Day(), startHour, 0, 0, 0, t.Location())
}

func isWeekend(t time.Time) bool {
	wd := t.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
