package database

import (
	"fmt"
	"log/slog"
	"strings"

	"gorm.io/gorm"
)

type indexSpec struct {
	table   string
	name    string
	columns []string
}

// lookupIndexes back the overlap query and the worker/admin listings
var lookupIndexes = []indexSpec{
	{"assignments", "idx_assignments_worker_date_slot", []string{"worker_id", "date", "slot_start"}},
	{"assignments", "idx_assignments_assigned_by_created", []string{"assigned_by_id", "created_at"}},
	{"attendances", "idx_attendances_worker_assignment_status", []string{"worker_id", "assignment_id", "status"}},
	{"attendances", "idx_attendances_assignment_start", []string{"assignment_id", "start_time"}},
}

// AddIndexes adds performance-critical indexes to the database
func AddIndexes(db *gorm.DB) error {
	migrator := db.Migrator()

	for _, idx := range lookupIndexes {
		if migrator.HasIndex(idx.table, idx.name) {
			slog.Debug("index already exists, skipping", "index", idx.name)
			continue
		}

		sql := fmt.Sprintf("CREATE INDEX %s ON %s (%s)", idx.name, idx.table, strings.Join(idx.columns, ", "))
		if err := db.Exec(sql).Error; err != nil {
			return fmt.Errorf("failed to create index %s: %w", idx.name, err)
		}

		slog.Info("created index", "index", idx.name, "table", idx.table, "columns", idx.columns)
	}

	return nil
}

// MigrateDatabase runs all database migrations
func MigrateDatabase(db *gorm.DB) error {
	if err := db.AutoMigrate(Models()...); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	if err := AddIndexes(db); err != nil {
		return fmt.Errorf("failed to add indexes: %w", err)
	}

	return nil
}
