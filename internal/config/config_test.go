/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Environment != "development" {
		t.Errorf("Environment = %q, want development", cfg.Environment)
	}
	if cfg.DBBackend != DatabaseSQLite {
		t.Errorf("DBBackend = %q, want sqlite", cfg.DBBackend)
	}
	if cfg.HTTPPort != 8080 {
		t.Errorf("HTTPPort = %d, want 8080", cfg.HTTPPort)
	}
	if cfg.GreedyHorizonDays != 14 {
		t.Errorf("GreedyHorizonDays = %d, want 14", cfg.GreedyHorizonDays)
	}
	if cfg.SolverTimeLimit != 10*time.Second {
		t.Errorf("SolverTimeLimit = %v, want 10s", cfg.SolverTimeLimit)
	}
}

func TestLoadValidation(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{
			name: "unknown backend rejected",
			env:  map[string]string{"SCHEDULESMART_DB_BACKEND": "oracle"},
		},
		{
			name: "zero greedy horizon rejected",
			env:  map[string]string{"SCHEDULESMART_GREEDY_HORIZON_DAYS": "0"},
		},
		{
			name: "negative solver limit rejected",
			env:  map[string]string{"SCHEDULESMART_SOLVER_TIME_LIMIT_SECONDS": "-1"},
		},
		{
			name: "production requires api secret",
			env:  map[string]string{"SCHEDULESMART_ENV": "production"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			if _, err := Load(); err == nil {
				t.Error("Load() expected error, got nil")
			}
		})
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("SCHEDULESMART_DB_BACKEND", "postgres")
	t.Setenv("SCHEDULESMART_DB_DSN", "host=localhost user=smart dbname=smart")
	t.Setenv("SCHEDULESMART_OPTIMAL_HORIZON_DAYS", "7")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.DBBackend != DatabasePostgres {
		t.Errorf("DBBackend = %q, want postgres", cfg.DBBackend)
	}
	if cfg.OptimalHorizonDays != 7 {
		t.Errorf("OptimalHorizonDays = %d, want 7", cfg.OptimalHorizonDays)
	}
}
