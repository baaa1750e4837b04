/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/Raop2/ScheduleSmartNew/internal/models"
)

func (a *API) handleTasksList(w http.ResponseWriter, r *http.Request) {
	tasks, err := a.store.ListTasks(r.Context())
	if err != nil {
		a.storeError(w, err, "list tasks")
		return
	}
	writeJSON(w, http.StatusOK, tasks)
}

func (a *API) handleTasksCreate(w http.ResponseWriter, r *http.Request) {
	var req taskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json")
		return
	}
	if code := req.validate(); code != "" {
		writeError(w, http.StatusBadRequest, code)
		return
	}

	task := models.Task{
		ID:              uuid.NewString(),
		Name:            req.Name,
		DurationMinutes: req.DurationMinutes,
		Deadline:        req.Deadline,
		Priority:        req.Priority,
		FixedSlot:       req.FixedSlot,
		Notes:           req.Notes,
	}

	if err := a.store.CreateTask(r.Context(), &task); err != nil {
		a.storeError(w, err, "create task")
		return
	}

	writeJSON(w, http.StatusCreated, task)
}

func (a *API) handleTasksGet(w http.ResponseWriter, r *http.Request) {
	task, err := a.store.GetTask(r.Context(), chi.URLParam(r, "taskID"))
	if err != nil {
		a.storeError(w, err, "get task")
		return
	}
	writeJSON(w, http.StatusOK, task)
}

func (a *API) handleTasksUpdate(w http.ResponseWriter, r *http.Request) {
	var req taskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json")
		return
	}
	if code := req.validate(); code != "" {
		writeError(w, http.StatusBadRequest, code)
		return
	}

	task := models.Task{
		ID:              chi.URLParam(r, "taskID"),
		Name:            req.Name,
		DurationMinutes: req.DurationMinutes,
		Deadline:        req.Deadline,
		Priority:        req.Priority,
		FixedSlot:       req.FixedSlot,
		Notes:           req.Notes,
	}

	if err := a.store.UpdateTask(r.Context(), &task); err != nil {
		a.storeError(w, err, "update task")
		return
	}

	updated, err := a.store.GetTask(r.Context(), task.ID)
	if err != nil {
		a.storeError(w, err, "get task")
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (a *API) handleTasksDelete(w http.ResponseWriter, r *http.Request) {
	if err := a.store.DeleteTask(r.Context(), chi.URLParam(r, "taskID")); err != nil {
		a.storeError(w, err, "delete task")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (a *API) handlePreferencesGet(w http.ResponseWriter, r *http.Request) {
	prefs, err := a.store.GetPreferences(r.Context())
	if err != nil {
		a.storeError(w, err, "get preferences")
		return
	}
	writeJSON(w, http.StatusOK, prefs)
}

func (a *API) handlePreferencesPut(w http.ResponseWriter, r *http.Request) {
	var req struct {
		StartHour       int  `json:"start_hour"`
		EndHour         int  `json:"end_hour"`
		IncludeWeekends bool `json:"include_weekends"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json")
		return
	}
	if req.StartHour < 0 || req.StartHour > 23 || req.EndHour < 0 || req.EndHour > 23 {
		writeError(w, http.StatusBadRequest, "hours_out_of_range")
		return
	}
	if req.StartHour >= req.EndHour {
		writeError(w, http.StatusBadRequest, "start_hour_after_end_hour")
		return
	}

	prefs := models.SchedulePreferences{
		StartHour:       req.StartHour,
		EndHour:         req.EndHour,
		IncludeWeekends: req.IncludeWeekends,
	}
	if err := a.store.SavePreferences(r.Context(), &prefs); err != nil {
		a.storeError(w, err, "save preferences")
		return
	}
	writeJSON(w, http.StatusOK, prefs)
}
