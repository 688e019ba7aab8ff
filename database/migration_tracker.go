package database

import (
	"database/sql"
	"fmt"
	"time"

	"datacleaner/logger"
)

const migrationsTableName = "schema_migrations"

// migration именованная миграция схемы журнала
type migration struct {
	name  string
	apply func(*sql.DB) error
}

// ensureMigrationTable создает таблицу schema_migrations при необходимости.
func ensureMigrationTable(db *sql.DB) error {
	query := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			name TEXT PRIMARY KEY,
			applied_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)
	`, migrationsTableName)

	if _, err := db.Exec(query); err != nil {
		return fmt.Errorf("failed to ensure schema_migrations table: %w", err)
	}
	return nil
}

// isMigrationApplied проверяет, была ли уже применена миграция.
func isMigrationApplied(db *sql.DB, name string) (bool, error) {
	var appliedAt sql.NullTime
	query := fmt.Sprintf(`SELECT applied_at FROM %s WHERE name = ?`, migrationsTableName)
	err := db.QueryRow(query, name).Scan(&appliedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("failed to check migration %s: %w", name, err)
	}
	return appliedAt.Valid, nil
}

// markMigrationApplied сохраняет информацию о примененной миграции.
func markMigrationApplied(db *sql.DB, name string) error {
	query := fmt.Sprintf(`INSERT OR REPLACE INTO %s(name, applied_at) VALUES(?, ?)`, migrationsTableName)
	if _, err := db.Exec(query, name, time.Now()); err != nil {
		return fmt.Errorf("failed to mark migration %s as applied: %w", name, err)
	}
	return nil
}

// applyMigrations выполняет каждую миграцию не более одного раза, в порядке списка.
func applyMigrations(db *sql.DB, migrations []migration) error {
	if err := ensureMigrationTable(db); err != nil {
		return err
	}
	for _, m := range migrations {
		applied, err := isMigrationApplied(db, m.name)
		if err != nil {
			return err
		}
		if applied {
			logger.LogDebug("Migration already applied", "migration", m.name)
			continue
		}
		if err := m.apply(db); err != nil {
			return fmt.Errorf("migration %s failed: %w", m.name, err)
		}
		if err := markMigrationApplied(db, m.name); err != nil {
			return err
		}
		logger.LogDebug("Migration applied", "migration", m.name)
	}
	return nil
}
