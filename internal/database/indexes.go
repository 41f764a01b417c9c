package database

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/fuelbuddy/fuelbuddy-api/internal/logging"
)

// AddIndexes creates the lookup indexes the handlers rely on. Only the
// postgres driver supports the existence probe; other drivers skip.
func AddIndexes(db *gorm.DB) error {
	if db.Dialector.Name() != "postgres" {
		return nil
	}

	indexes := []struct {
		table   string
		name    string
		columns string
	}{
		{"tasks", "idx_tasks_creator_id", "creator_id"},
		{"tasks", "idx_tasks_status", "status"},
		{"task_assignees", "idx_task_assignees_task_id", "task_id"},
		{"task_assignees", "idx_task_assignees_user_id", "user_id"},
	}

	for _, idx := range indexes {
		var count int64
		err := db.Raw(`
			SELECT COUNT(*)
			FROM pg_indexes
			WHERE tablename = ? AND indexname = ?
		`, idx.table, idx.name).Count(&count).Error
		if err != nil {
			return fmt.Errorf("failed to check index %s: %w", idx.name, err)
		}

		if count > 0 {
			continue
		}

		sql := fmt.Sprintf("CREATE INDEX %s ON %s (%s)", idx.name, idx.table, idx.columns)
		if err := db.Exec(sql).Error; err != nil {
			return fmt.Errorf("failed to create index %s: %w", idx.name, err)
		}

		logging.L().Info().
			Str("index", idx.name).
			Str("table", idx.table).
			Msg("created index")
	}

	return nil
}
