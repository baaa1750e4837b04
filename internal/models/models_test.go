package models

import (
	"testing"
	"time"
)

func TestPriorityRankOrdering(t *testing.T) {
	if !(PriorityHigh.Rank() < PriorityMedium.Rank() && PriorityMedium.Rank() < PriorityLow.Rank()) {
		t.Fatalf("priority ranks out of order: high=%d medium=%d low=%d",
			PriorityHigh.Rank(), PriorityMedium.Rank(), PriorityLow.Rank())
	}
	if TaskPriority("urgent").Valid() {
		t.Error("unknown priority must not validate")
	}
}

func TestTaskFixedEnd(t *testing.T) {
	slot := time.Date(2026, 1, 5, 13, 0, 0, 0, time.UTC)
	task := Task{DurationMinutes: 90, FixedSlot: &slot}

	want := time.Date(2026, 1, 5, 14, 30, 0, 0, time.UTC)
	if got := task.FixedEnd(); !got.Equal(want) {
		t.Errorf("FixedEnd %v, want %v", got, want)
	}
}

func TestDefaultPreferences(t *testing.T) {
	prefs := DefaultPreferences()
	if prefs.StartHour != 9 || prefs.EndHour != 17 || prefs.IncludeWeekends {
		t.Errorf("unexpected defaults: %+v", prefs)
	}
}
