package models

import (
	"time"
)

// TaskPriority orders tasks of equal urgency. Lower rank wins ties.
type TaskPriority string

const (
	PriorityHigh   TaskPriority = "high"
	PriorityMedium TaskPriority = "medium"
	PriorityLow    TaskPriority = "low"
)

// Rank maps a priority to its sort position. Unknown values sort last.
func (p TaskPriority) Rank() int {
	switch p {
	case PriorityHigh:
		return 0
	case PriorityMedium:
		return 1
	case PriorityLow:
		return 2
	default:
		return 3
	}
}

// Valid reports whether p is one of the known priority levels.
func (p TaskPriority) Valid() bool {
	return p == PriorityHigh || p == PriorityMedium || p == PriorityLow
}

// Task is a unit of work to be placed on the calendar.
//
// Deadline and FixedSlot are optional. A task with FixedSlot set is a pinned
// commitment: its interval [FixedSlot, FixedSlot+Duration) is honored exactly
// and is never subject to search. ScheduledStart/ScheduledEnd carry the last
// engine placement once a result has been persisted.
type Task struct {
	ID              string       `gorm:"type:uuid;primaryKey" json:"id" yaml:"id"`
	Name            string       `gorm:"index" json:"name" yaml:"name"`
	DurationMinutes int          `json:"duration_minutes" yaml:"duration_minutes"`
	Deadline        *time.Time   `json:"deadline,omitempty" yaml:"deadline,omitempty"`
	Priority        TaskPriority `gorm:"type:varchar(16)" json:"priority" yaml:"priority"`
	FixedSlot       *time.Time   `json:"fixed_slot,omitempty" yaml:"fixed_slot,omitempty"`
	Notes           string       `gorm:"type:text" json:"notes,omitempty" yaml:"notes,omitempty"`

	ScheduledStart  *time.Time `json:"scheduled_start,omitempty" yaml:"-"`
	ScheduledEnd    *time.Time `json:"scheduled_end,omitempty" yaml:"-"`
	PlacementReason string     `gorm:"type:text" json:"placement_reason,omitempty" yaml:"-"`

	CreatedAt time.Time `json:"created_at" yaml:"-"`
	UpdatedAt time.Time `json:"updated_at" yaml:"-"`
}

// Duration returns the task length as a time.Duration.
func (t Task) Duration() time.Duration {
	return time.Duration(t.DurationMinutes) * time.Minute
}

// FixedEnd returns the end of the pinned interval, or the zero time when the
// task has no fixed slot.
func (t Task) FixedEnd() time.Time {
	if t.FixedSlot == nil {
		return time.Time{}
	}
	return t.FixedSlot.Add(t.Duration())
}

// SchedulePreferences defines the daily working window applied to flexible
// placements. Hours are local wall-clock hours in [0, 23].
type SchedulePreferences struct {
	ID              uint `gorm:"primaryKey" json:"-" yaml:"-"`
	StartHour       int  `json:"start_hour" yaml:"start_hour"`
	EndHour         int  `json:"end_hour" yaml:"end_hour"`
	IncludeWeekends bool `json:"include_weekends" yaml:"include_weekends"`

	UpdatedAt time.Time `json:"updated_at" yaml:"-"`
}

// DefaultPreferences returns the 9-to-17 weekday window used when no
// preferences row exists yet.
func DefaultPreferences() SchedulePreferences {
	return SchedulePreferences{StartHour: 9, EndHour: 17, IncludeWeekends: false}
}
