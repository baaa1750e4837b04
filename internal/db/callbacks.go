/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package db

import (
	"time"

	"gorm.io/gorm"

	"github.com/Raop2/ScheduleSmartNew/internal/telemetry"
)

const startTimeKey = "gorm:start_time"

// RegisterCallbacks hooks query timing and error metrics into every CRUD
// operation of the connection.
func RegisterCallbacks(database *gorm.DB) error {
	cb := database.Callback()

	if err := cb.Query().Before("gorm:query").Register("telemetry:before_query", recordStart); err != nil {
		return err
	}
	if err := cb.Query().After("gorm:query").Register("telemetry:after_query", recordMetrics("query")); err != nil {
		return err
	}

	if err := cb.Create().Before("gorm:create").Register("telemetry:before_create", recordStart); err != nil {
		return err
	}
	if err := cb.Create().After("gorm:create").Register("telemetry:after_create", recordMetrics("create")); err != nil {
		return err
	}

	if err := cb.Update().Before("gorm:update").Register("telemetry:before_update", recordStart); err != nil {
		return err
	}
	if err := cb.Update().After("gorm:update").Register("telemetry:after_update", recordMetrics("update")); err != nil {
		return err
	}

	if err := cb.Delete().Before("gorm:delete").Register("telemetry:before_delete", recordStart); err != nil {
		return err
	}
	if err := cb.Delete().After("gorm:delete").Register("telemetry:after_delete", recordMetrics("delete")); err != nil {
		return err
	}

	return nil
}

func recordStart(database *gorm.DB) {
	database.InstanceSet(startTimeKey, time.Now())
}

func recordMetrics(operation string) func(*gorm.DB) {
	return func(database *gorm.DB) {
		value, exists := database.InstanceGet(startTimeKey)
		if !exists {
			return
		}
		started, ok := value.(time.Time)
		if !ok {
			return
		}

		table := database.Statement.Table
		if table == "" {
			table = "unknown"
		}

		telemetry.DatabaseQueryDuration.WithLabelValues(operation, table).Observe(time.Since(started).Seconds())

		if database.Error != nil && database.Error != gorm.ErrRecordNotFound {
			telemetry.DatabaseErrorsTotal.WithLabelValues(operation, table).Inc()
		}
	}
}

// UpdateConnectionMetrics samples the connection pool gauge. Called
// periodically by the server.
func UpdateConnectionMetrics(database *gorm.DB) {
	sqlDB, err := database.DB()
	if err != nil {
		return
	}
	telemetry.DatabaseConnectionsActive.Set(float64(sqlDB.Stats().OpenConnections))
}
