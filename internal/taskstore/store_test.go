package taskstore

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/Raop2/ScheduleSmartNew/internal/engine"
	"github.com/Raop2/ScheduleSmartNew/internal/models"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.AutoMigrate(&models.Task{}, &models.SchedulePreferences{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return New(db, zerolog.Nop())
}

func TestTaskCRUD(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	task := models.Task{Name: "write report", DurationMinutes: 90, Priority: models.PriorityHigh}
	if err := store.CreateTask(ctx, &task); err != nil {
		t.Fatalf("CreateTask: %v", err)
	}
	if task.ID == "" {
		t.Fatal("expected generated task id")
	}

	got, err := store.GetTask(ctx, task.ID)
	if err != nil {
		t.Fatalf("GetTask: %v", err)
	}
	if got.Name != "write report" || got.DurationMinutes != 90 {
		t.Fatalf("unexpected task: %+v", got)
	}

	got.Name = "write final report"
	got.DurationMinutes = 120
	if err := store.UpdateTask(ctx, got); err != nil {
		t.Fatalf("UpdateTask: %v", err)
	}

	updated, err := store.GetTask(ctx, task.ID)
	if err != nil {
		t.Fatalf("GetTask after update: %v", err)
	}
	if updated.Name != "write final report" || updated.DurationMinutes != 120 {
		t.Fatalf("update not applied: %+v", updated)
	}

	tasks, err := store.ListTasks(ctx)
	if err != nil {
		t.Fatalf("ListTasks: %v", err)
	}
	if len(tasks) != 1 {
		t.Fatalf("expected 1 task, got %d", len(tasks))
	}

	if err := store.DeleteTask(ctx, task.ID); err != nil {
		t.Fatalf("DeleteTask: %v", err)
	}
	if _, err := store.GetTask(ctx, task.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestNotFoundPaths(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	if _, err := store.GetTask(ctx, "nope"); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetTask: expected ErrNotFound, got %v", err)
	}
	if err := store.UpdateTask(ctx, &models.Task{ID: "nope", Name: "x", DurationMinutes: 10}); !errors.Is(err, ErrNotFound) {
		t.Errorf("UpdateTask: expected ErrNotFound, got %v", err)
	}
	if err := store.DeleteTask(ctx, "nope"); !errors.Is(err, ErrNotFound) {
		t.Errorf("DeleteTask: expected ErrNotFound, got %v", err)
	}
}

func TestPreferencesDefaultsAndUpsert(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	prefs, err := store.GetPreferences(ctx)
	if err != nil {
		t.Fatalf("GetPreferences: %v", err)
	}
	defaults := models.DefaultPreferences()
	if prefs.StartHour != defaults.StartHour || prefs.EndHour != defaults.EndHour {
		t.Fatalf("expected defaults, got %+v", prefs)
	}

	saved := models.SchedulePreferences{StartHour: 8, EndHour: 20, IncludeWeekends: true}
	if err := store.SavePreferences(ctx, &saved); err != nil {
		t.Fatalf("SavePreferences: %v", err)
	}

	// A second save must update the same row, not add one.
	saved.EndHour = 18
	if err := store.SavePreferences(ctx, &saved); err != nil {
		t.Fatalf("SavePreferences again: %v", err)
	}

	got, err := store.GetPreferences(ctx)
	if err != nil {
		t.Fatalf("GetPreferences after save: %v", err)
	}
	if got.StartHour != 8 || got.EndHour != 18 || !got.IncludeWeekends {
		t.Fatalf("unexpected preferences: %+v", got)
	}
}

func TestApplyAndClearResult(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	placed := models.Task{Name: "placed", DurationMinutes: 60, Priority: models.PriorityMedium}
	skipped := models.Task{Name: "skipped", DurationMinutes: 60, Priority: models.PriorityLow}
	for _, task := range []*models.Task{&placed, &skipped} {
		if err := store.CreateTask(ctx, task); err != nil {
			t.Fatalf("CreateTask: %v", err)
		}
	}

	start := time.Date(2026, 1, 5, 9, 0, 0, 0, time.UTC)
	result := &engine.Result{
		Scheduled: []engine.Assignment{{
			TaskID:   placed.ID,
			Name:     placed.Name,
			StartsAt: start,
			EndsAt:   start.Add(time.Hour),
			Reason:   "Earliest available slot that fits your preferences.",
		}},
		Unscheduled: []engine.UnscheduledTask{{
			TaskID: skipped.ID,
			Reason: "No suitable slot found within 14 days.",
		}},
		Status: engine.StatusCompleted,
	}

	if err := store.ApplyResult(ctx, result); err != nil {
		t.Fatalf("ApplyResult: %v", err)
	}

	gotPlaced, err := store.GetTask(ctx, placed.ID)
	if err != nil {
		t.Fatalf("GetTask: %v", err)
	}
	if gotPlaced.ScheduledStart == nil || !gotPlaced.ScheduledStart.Equal(start) {
		t.Fatalf("placement not recorded: %+v", gotPlaced)
	}

	gotSkipped, err := store.GetTask(ctx, skipped.ID)
	if err != nil {
		t.Fatalf("GetTask: %v", err)
	}
	if gotSkipped.ScheduledStart != nil {
		t.Fatal("unscheduled task must not carry a start")
	}
	if gotSkipped.PlacementReason == "" {
		t.Fatal("unscheduled task must carry a reason")
	}

	if err := store.ClearAssignments(ctx); err != nil {
		t.Fatalf("ClearAssignments: %v", err)
	}
	cleared, err := store.GetTask(ctx, placed.ID)
	if err != nil {
		t.Fatalf("GetTask: %v", err)
	}
	if cleared.ScheduledStart != nil || cleared.PlacementReason != "" {
		t.Fatalf("assignments not cleared: %+v", cleared)
	}
}
