/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package taskstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/Raop2/ScheduleSmartNew/internal/engine"
	"github.com/Raop2/ScheduleSmartNew/internal/models"
)

// ErrNotFound is returned when a task does not exist.
var ErrNotFound = errors.New("task not found")

// Store persists tasks and scheduling preferences.
type Store struct {
	db     *gorm.DB
	logger zerolog.Logger
}

// New constructs a task store.
func New(db *gorm.DB, logger zerolog.Logger) *Store {
	return &Store{db: db, logger: logger.With().Str("component", "taskstore").Logger()}
}

// CreateTask inserts a task. A missing ID is generated.
func (s *Store) CreateTask(ctx context.Context, task *models.Task) error {
	if task.ID == "" {
		task.ID = uuid.NewString()
	}
	if err := s.db.WithContext(ctx).Create(task).Error; err != nil {
		return fmt.Errorf("create task: %w", err)
	}
	return nil
}

// GetTask loads a single task by ID.
func (s *Store) GetTask(ctx context.Context, id string) (*models.Task, error) {
	var task models.Task
	err := s.db.WithContext(ctx).First(&task, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load task: %w", err)
	}
	return &task, nil
}

// ListTasks returns all tasks ordered by creation time.
func (s *Store) ListTasks(ctx context.Context) ([]models.Task, error) {
	var tasks []models.Task
	if err := s.db.WithContext(ctx).Order("created_at ASC").Find(&tasks).Error; err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	return tasks, nil
}

// UpdateTask replaces the mutable fields of an existing task.
func (s *Store) UpdateTask(ctx context.Context, task *models.Task) error {
	result := s.db.WithContext(ctx).Model(&models.Task{}).
		Where("id = ?", task.ID).
		Updates(map[string]any{
			"name":             task.Name,
			"duration_minutes": task.DurationMinutes,
			"deadline":         task.Deadline,
			"priority":         task.Priority,
			"fixed_slot":       task.FixedSlot,
			"notes":            task.Notes,
			"updated_at":       time.Now().UTC(),
		})
	if result.Error != nil {
		return fmt.Errorf("update task: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteTask removes a task by ID.
func (s *Store) DeleteTask(ctx context.Context, id string) error {
	result := s.db.WithContext(ctx).Delete(&models.Task{}, "id = ?", id)
	if result.Error != nil {
		return fmt.Errorf("delete task: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// GetPreferences loads the stored preferences, falling back to defaults
// when none have been saved yet.
func (s *Store) GetPreferences(ctx context.Context) (*models.SchedulePreferences, error) {
	var prefs models.SchedulePreferences
	err := s.db.WithContext(ctx).First(&prefs).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		defaults := models.DefaultPreferences()
		return &defaults, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load preferences: %w", err)
	}
	return &prefs, nil
}

// SavePreferences upserts the single preferences row.
func (s *Store) SavePreferences(ctx context.Context, prefs *models.SchedulePreferences) error {
	var existing models.SchedulePreferences
	err := s.db.WithContext(ctx).First(&existing).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		if err := s.db.WithContext(ctx).Create(prefs).Error; err != nil {
			return fmt.Errorf("save preferences: %w", err)
		}
		return nil
	case err != nil:
		return fmt.Errorf("load preferences: %w", err)
	}

	prefs.ID = existing.ID
	if err := s.db.WithContext(ctx).Save(prefs).Error; err != nil {
		return fmt.Errorf("save preferences: %w", err)
	}
	return nil
}

// ApplyResult writes a schedule result back onto the stored task rows.
// Scheduled tasks get their placement recorded; unscheduled tasks get
// the failure reason with cleared timestamps.
func (s *Store) ApplyResult(ctx context.Context, result *engine.Result) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, assignment := range result.Scheduled {
			start := assignment.StartsAt
			end := assignment.EndsAt
			err := tx.Model(&models.Task{}).
				Where("id = ?", assignment.TaskID).
				Updates(map[string]any{
					"scheduled_start":  &start,
					"scheduled_end":    &end,
					"placement_reason": assignment.Reason,
					"updated_at":       time.Now().UTC(),
				}).Error
			if err != nil {
				return fmt.Errorf("record placement for %s: %w", assignment.TaskID, err)
			}
		}
		for _, unscheduled := range result.Unscheduled {
			err := tx.Model(&models.Task{}).
				Where("id = ?", unscheduled.TaskID).
				Updates(map[string]any{
					"scheduled_start":  nil,
					"scheduled_end":    nil,
					"placement_reason": unscheduled.Reason,
					"updated_at":       time.Now().UTC(),
				}).Error
			if err != nil {
				return fmt.Errorf("record failure for %s: %w", unscheduled.TaskID, err)
			}
		}
		return nil
	})
}

// ClearAssignments removes all recorded placements.
func (s *Store) ClearAssignments(ctx context.Context) error {
	err := s.db.WithContext(ctx).Model(&models.Task{}).
		Where("scheduled_start IS NOT NULL OR placement_reason <> ''").
		Updates(map[string]any{
			"scheduled_start":  nil,
			"scheduled_end":    nil,
			"placement_reason": "",
			"updated_at":       time.Now().UTC(),
		}).Error
	if err != nil {
		return fmt.Errorf("clear assignments: %w", err)
	}
	return nil
}
