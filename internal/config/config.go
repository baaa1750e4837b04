/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Database backend selection.
type DatabaseBackend string

const (
	DatabasePostgres DatabaseBackend = "postgres"
	DatabaseMySQL    DatabaseBackend = "mysql"
	DatabaseSQLite   DatabaseBackend = "sqlite"
)

// Config covers process level configuration read from environment variables.
type Config struct {
	Environment string
	HTTPBind    string
	HTTPPort    int
	DBBackend   DatabaseBackend
	DBDSN       string

	// APISecret signs JWT bearer tokens and authorizes token minting.
	// When empty the API runs unauthenticated (development only).
	APISecret string

	// Engine knobs. GreedyHorizonDays bounds the greedy sweep,
	// OptimalHorizonDays bounds the solver's variable domains, and
	// SolverTimeLimit caps a single optimal-strategy search.
	GreedyHorizonDays  int
	OptimalHorizonDays int
	SolverTimeLimit    time.Duration
}

// Load reads environment variables, applies defaults, and validates the result.
func Load() (*Config, error) {
	cfg := &Config{
		Environment:        getEnv("SCHEDULESMART_ENV", "development"),
		HTTPBind:           getEnv("SCHEDULESMART_HTTP_BIND", "0.0.0.0"),
		HTTPPort:           getEnvInt("SCHEDULESMART_HTTP_PORT", 8080),
		DBBackend:          DatabaseBackend(getEnv("SCHEDULESMART_DB_BACKEND", string(DatabaseSQLite))),
		DBDSN:              getEnv("SCHEDULESMART_DB_DSN", "schedulesmart.db"),
		APISecret:          getEnv("SCHEDULESMART_API_SECRET", ""),
		GreedyHorizonDays:  getEnvInt("SCHEDULESMART_GREEDY_HORIZON_DAYS", 14),
		OptimalHorizonDays: getEnvInt("SCHEDULESMART_OPTIMAL_HORIZON_DAYS", 14),
		SolverTimeLimit:    time.Duration(getEnvInt("SCHEDULESMART_SOLVER_TIME_LIMIT_SECONDS", 10)) * time.Second,
	}

	if cfg.DBBackend != DatabasePostgres && cfg.DBBackend != DatabaseMySQL && cfg.DBBackend != DatabaseSQLite {
		return nil, fmt.Errorf("unsupported database backend %q", cfg.DBBackend)
	}

	if cfg.DBDSN == "" {
		return nil, fmt.Errorf("SCHEDULESMART_DB_DSN must be provided")
	}

	if cfg.GreedyHorizonDays <= 0 || cfg.OptimalHorizonDays <= 0 {
		return nil, fmt.Errorf("scheduling horizons must be positive")
	}

	if cfg.SolverTimeLimit <= 0 {
		return nil, fmt.Errorf("SCHEDULESMART_SOLVER_TIME_LIMIT_SECONDS must be positive")
	}

	if strings.EqualFold(cfg.Environment, "production") && cfg.APISecret == "" {
		return nil, fmt.Errorf("SCHEDULESMART_API_SECRET must be set in production")
	}

	return cfg, nil
}

func getEnv(key, def string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return def
}

func getEnvInt(key string, def int) int {
	if val := os.Getenv(key); val != "" {
		if parsed, err := strconv.Atoi(val); err == nil {
			return parsed
		}
	}
	return def
}
