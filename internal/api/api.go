/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package api

import (
	"crypto/subtle"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/Raop2/ScheduleSmartNew/internal/auth"
	"github.com/Raop2/ScheduleSmartNew/internal/engine"
	"github.com/Raop2/ScheduleSmartNew/internal/export"
	"github.com/Raop2/ScheduleSmartNew/internal/models"
	"github.com/Raop2/ScheduleSmartNew/internal/taskstore"
)

// API exposes HTTP handlers.
type API struct {
	store     *taskstore.Store
	engine    *engine.Engine
	exporter  *export.Service
	jwtSecret []byte
	logger    zerolog.Logger
}

// New creates the API router wrapper.
func New(store *taskstore.Store, eng *engine.Engine, exporter *export.Service, jwtSecret []byte, logger zerolog.Logger) *API {
	return &API{
		store:     store,
		engine:    eng,
		exporter:  exporter,
		jwtSecret: jwtSecret,
		logger:    logger.With().Str("component", "api").Logger(),
	}
}

// Routes mounts all API routes on the router.
func (a *API) Routes(r chi.Router) {
	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", a.handleHealth)
		r.Post("/auth/token", a.handleAuthToken)

		r.Group(func(pr chi.Router) {
			pr.Use(auth.Middleware(a.jwtSecret))

			pr.Route("/tasks", func(r chi.Router) {
				r.Get("/", a.handleTasksList)
				r.Post("/", a.handleTasksCreate)
				r.Route("/{taskID}", func(r chi.Router) {
					r.Get("/", a.handleTasksGet)
					r.Put("/", a.handleTasksUpdate)
					r.Delete("/", a.handleTasksDelete)
				})
			})

			pr.Route("/preferences", func(r chi.Router) {
				r.Get("/", a.handlePreferencesGet)
				r.Put("/", a.handlePreferencesPut)
			})

			pr.Route("/schedule", func(r chi.Router) {
				r.Post("/", a.handleScheduleRun)
				r.Delete("/", a.handleScheduleClear)
				r.Get("/export.ics", a.handleScheduleExportICal)
				r.Get("/agenda.html", a.handleScheduleExportHTML)
			})
		})
	})
}

func (a *API) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleAuthToken exchanges the shared API secret for a bearer token.
func (a *API) handleAuthToken(w http.ResponseWriter, r *http.Request) {
	if len(a.jwtSecret) == 0 {
		writeError(w, http.StatusNotFound, "auth_disabled")
		return
	}

	var req struct {
		Secret string `json:"secret"`
		UserID string `json:"user_id"`
		Name   string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json")
		return
	}
	if subtle.ConstantTimeCompare([]byte(req.Secret), a.jwtSecret) != 1 {
		writeError(w, http.StatusUnauthorized, "invalid_secret")
		return
	}
	if req.UserID == "" {
		req.UserID = "default"
	}

	token, err := auth.Issue(a.jwtSecret, auth.Claims{UserID: req.UserID, Name: req.Name}, 24*time.Hour)
	if err != nil {
		a.logger.Error().Err(err).Msg("token issue failed")
		writeError(w, http.StatusInternalServerError, "token_error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"token": token})
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, code string) {
	writeJSON(w, status, map[string]string{"error": code})
}

func (a *API) storeError(w http.ResponseWriter, err error, action string) {
	if errors.Is(err, taskstore.ErrNotFound) {
		writeError(w, http.StatusNotFound, "task_not_found")
		return
	}
	a.logger.Error().Err(err).Msg(action + " failed")
	writeError(w, http.StatusInternalServerError, "db_error")
}

// taskRequest is the JSON body for creating or updating a task.
type taskRequest struct {
	Name            string              `json:"name"`
	DurationMinutes int                 `json:"duration_minutes"`
	Deadline        *time.Time          `json:"deadline,omitempty"`
	Priority        models.TaskPriority `json:"priority,omitempty"`
	FixedSlot       *time.Time          `json:"fixed_slot,omitempty"`
	Notes           string              `json:"notes,omitempty"`
}

func (req *taskRequest) validate() string {
	if req.Name == "" {
		return "name_required"
	}
	if req.DurationMinutes <= 0 {
		return "duration_must_be_positive"
	}
	if req.Priority == "" {
		req.Priority = models.PriorityMedium
	}
	if !req.Priority.Valid() {
		return "invalid_priority"
	}
	return ""
}
