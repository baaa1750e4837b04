/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package api

import (
	"encoding/json"
	"errors"
	"math"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/Raop2/ScheduleSmartNew/internal/engine"
	"github.com/Raop2/ScheduleSmartNew/internal/models"
)

// scheduleRequest runs one scheduling pass. When Tasks is non-empty the
// run is ad-hoc and nothing is persisted; otherwise the stored tasks are
// scheduled and the outcome written back.
type scheduleRequest struct {
	Strategy    string                      `json:"strategy,omitempty"`
	Tasks       []taskRequest               `json:"tasks,omitempty"`
	Preferences *models.SchedulePreferences `json:"preferences,omitempty"`
}

type scheduleResponse struct {
	Scheduled   []engine.Assignment      `json:"scheduled"`
	Unscheduled []engine.UnscheduledTask `json:"unscheduled"`
	TotalHours  float64                  `json:"total_hours"`
	Status      engine.Status            `json:"status"`
}

func (a *API) handleScheduleRun(w http.ResponseWriter, r *http.Request) {
	var req scheduleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json")
		return
	}

	if req.Strategy == "" {
		req.Strategy = string(engine.StrategyGreedy)
	}
	strategy, err := engine.ParseStrategy(req.Strategy)
	if err != nil {
		writeError(w, http.StatusBadRequest, "unknown_strategy")
		return
	}

	inline := len(req.Tasks) > 0

	var tasks []models.Task
	if inline {
		for i := range req.Tasks {
			if code := req.Tasks[i].validate(); code != "" {
				writeError(w, http.StatusBadRequest, code)
				return
			}
			tasks = append(tasks, models.Task{
				ID:              uuid.NewString(),
				Name:            req.Tasks[i].Name,
				DurationMinutes: req.Tasks[i].DurationMinutes,
				Deadline:        req.Tasks[i].Deadline,
				Priority:        req.Tasks[i].Priority,
				FixedSlot:       req.Tasks[i].FixedSlot,
				Notes:           req.Tasks[i].Notes,
			})
		}
	} else {
		tasks, err = a.store.ListTasks(r.Context())
		if err != nil {
			a.storeError(w, err, "list tasks")
			return
		}
	}

	var prefs models.SchedulePreferences
	if req.Preferences != nil {
		prefs = *req.Preferences
	} else {
		stored, err := a.store.GetPreferences(r.Context())
		if err != nil {
			a.storeError(w, err, "get preferences")
			return
		}
		prefs = *stored
	}

	result, err := a.engine.Schedule(r.Context(), tasks, prefs, strategy, time.Now())
	if err != nil {
		if errors.Is(err, engine.ErrInvalidInput) {
			writeError(w, http.StatusBadRequest, "invalid_input")
			return
		}
		a.logger.Error().Err(err).Msg("schedule run failed")
		writeError(w, http.StatusInternalServerError, "schedule_error")
		return
	}

	if !inline {
		if err := a.store.ApplyResult(r.Context(), result); err != nil {
			a.storeError(w, err, "persist schedule")
			return
		}
	}

	writeJSON(w, http.StatusOK, scheduleResponse{
		Scheduled:   result.Scheduled,
		Unscheduled: result.Unscheduled,
		TotalHours:  totalHours(result.Scheduled),
		Status:      result.Status,
	})
}

func (a *API) handleScheduleClear(w http.ResponseWriter, r *http.Request) {
	if err := a.store.ClearAssignments(r.Context()); err != nil {
		a.storeError(w, err, "clear schedule")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (a *API) handleScheduleExportICal(w http.ResponseWriter, r *http.Request) {
	result, err := a.exporter.ExportToICal(r.Context())
	if err != nil {
		a.logger.Error().Err(err).Msg("ical export failed")
		writeError(w, http.StatusInternalServerError, "export_error")
		return
	}

	w.Header().Set("Content-Type", result.ContentType)
	w.Header().Set("Content-Disposition", "attachment; filename=\""+result.Filename+"\"")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(result.Data)
}

func (a *API) handleScheduleExportHTML(w http.ResponseWriter, r *http.Request) {
	data, err := a.exporter.ExportToHTML(r.Context())
	if err != nil {
		a.logger.Error().Err(err).Msg("html export failed")
		writeError(w, http.StatusInternalServerError, "export_error")
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// totalHours sums scheduled durations, rounded to two decimals.
func totalHours(assignments []engine.Assignment) float64 {
	var total time.Duration
	for _, a := range assignments {
		total += a.EndsAt.Sub(a.StartsAt)
	}
	return math.Round(total.Hours()*100) / 100
}
