package database

import (
	"fmt"
	"log"

	"github.com/yukikurage/task-tracker/internal/models"
	"gorm.io/gorm"
)

type index struct {
	model   interface{}
	table   string
	name    string
	columns string
}

// taskIndexes back the list filters, the visibility predicate and the
// newest-first ordering.
var taskIndexes = []index{
	{&models.Task{}, "tasks", "idx_tasks_created_by_id", "created_by_id"},
	{&models.Task{}, "tasks", "idx_tasks_assigned_to_id", "assigned_to_id"},
	{&models.Task{}, "tasks", "idx_tasks_status", "status"},
	{&models.Task{}, "tasks", "idx_tasks_priority", "priority"},
	{&models.Task{}, "tasks", "idx_tasks_due_date", "due_date"},
	{&models.Task{}, "tasks", "idx_tasks_created_at", "created_at"},
}

// AddIndexes adds performance-critical indexes to the database. It is safe
// to run repeatedly.
func AddIndexes(db *gorm.DB) error {
	migrator := db.Migrator()

	for _, idx := range taskIndexes {
		if migrator.HasIndex(idx.model, idx.name) {
			continue
		}

		sql := fmt.Sprintf("CREATE INDEX %s ON %s (%s)", idx.name, idx.table, idx.columns)
		if err := db.Exec(sql).Error; err != nil {
			return fmt.Errorf("failed to create index %s: %w", idx.name, err)
		}

		log.Printf("Created index %s on %s(%s)", idx.name, idx.table, idx.columns)
	}

	return nil
}
