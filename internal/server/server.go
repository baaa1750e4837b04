/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package server

import (
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/Raop2/ScheduleSmartNew/internal/api"
	"github.com/Raop2/ScheduleSmartNew/internal/config"
	"github.com/Raop2/ScheduleSmartNew/internal/db"
	"github.com/Raop2/ScheduleSmartNew/internal/engine"
	"github.com/Raop2/ScheduleSmartNew/internal/export"
	"github.com/Raop2/ScheduleSmartNew/internal/solver"
	"github.com/Raop2/ScheduleSmartNew/internal/taskstore"
	"github.com/Raop2/ScheduleSmartNew/internal/telemetry"
)

// Server bundles the HTTP surface and its supporting services.
type Server struct {
	cfg        *config.Config
	logger     zerolog.Logger
	router     chi.Router
	httpServer *http.Server
	closers    []func() error

	db       *gorm.DB
	store    *taskstore.Store
	engine   *engine.Engine
	exporter *export.Service
	api      *api.API
}

// New wires up the database, engine, and HTTP router.
func New(cfg *config.Config, logger zerolog.Logger) (*Server, error) {
	router := chi.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(securityHeadersMiddleware)
	router.Use(telemetry.MetricsMiddleware)
	router.Use(middleware.Timeout(60 * time.Second))

	srv := &Server{
		cfg:    cfg,
		logger: logger,
		router: router,
	}

	if err := srv.initDependencies(); err != nil {
		return nil, err
	}

	srv.configureRoutes()

	addr := fmt.Sprintf("%s:%d", cfg.HTTPBind, cfg.HTTPPort)
	srv.httpServer = &http.Server{
		Addr:              addr,
		Handler:           srv.router,
		ReadHeaderTimeout: 15 * time.Second,
	}

	return srv, nil
}

func (s *Server) initDependencies() error {
	database, err := db.Connect(s.cfg)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	s.db = database
	s.DeferClose(func() error { return db.Close(database) })

	if err := db.RegisterCallbacks(database); err != nil {
		return fmt.Errorf("register database callbacks: %w", err)
	}

	if err := db.Migrate(database); err != nil {
		return fmt.Errorf("migrate database: %w", err)
	}

	s.store = taskstore.New(database, s.logger)
	s.exporter = export.NewService(database, s.logger)

	s.engine = engine.New(&solver.BranchBound{}, engine.Options{
		GreedyHorizonDays:  s.cfg.GreedyHorizonDays,
		OptimalHorizonDays: s.cfg.OptimalHorizonDays,
		SolverTimeLimit:    s.cfg.SolverTimeLimit,
	}, s.logger)

	s.api = api.New(s.store, s.engine, s.exporter, []byte(s.cfg.APISecret), s.logger)

	s.startPoolSampler()

	return nil
}

// startPoolSampler refreshes the connection pool gauge until Close.
func (s *Server) startPoolSampler() {
	done := make(chan struct{})
	s.DeferClose(func() error {
		close(done)
		return nil
	})

	go func() {
		ticker := time.NewTicker(30 * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				db.UpdateConnectionMetrics(s.db)
			}
		}
	}()
}

func (s *Server) configureRoutes() {
	s.api.Routes(s.router)
	s.router.Handle("/metrics", telemetry.Handler())
}

// HTTPServer exposes the underlying net/http server.
func (s *Server) HTTPServer() *http.Server {
	return s.httpServer
}

// Store exposes the task store, mainly for the CLI commands.
func (s *Server) Store() *taskstore.Store {
	return s.store
}

// Close releases owned resources in reverse order.
func (s *Server) Close() error {
	var firstErr error
	for i := len(s.closers) - 1; i >= 0; i-- {
		if err := s.closers[i](); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// DeferClose registers a cleanup hook.
func (s *Server) DeferClose(fn func() error) {
	s.closers = append(s.closers, fn)
}

func securityHeadersMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")
		w.Header().Set("X-Frame-Options", "DENY")
		next.ServeHTTP(w, r)
	})
}
