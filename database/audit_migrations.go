package database

import "database/sql"

// auditMigrations схема журнала аудита прогонов
var auditMigrations = []migration{
	{name: "001_create_runs", apply: createRunsTable},
	{name: "002_create_decisions", apply: createDecisionsTable},
	{name: "003_add_run_output_counts", apply: addRunOutputCounts},
}

func createRunsTable(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			input_path TEXT NOT NULL,
			output_path TEXT,
			status TEXT NOT NULL DEFAULT 'running',
			error TEXT,
			started_at TIMESTAMP NOT NULL,
			finished_at TIMESTAMP
		)
	`)
	return err
}

func createDecisionsTable(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS decisions (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
			stage TEXT NOT NULL,
			action TEXT NOT NULL,
			detail TEXT,
			created_at TIMESTAMP NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_decisions_run_id ON decisions(run_id);
	`)
	return err
}

func addRunOutputCounts(db *sql.DB) error {
	if _, err := db.Exec(`ALTER TABLE runs ADD COLUMN rows_out INTEGER NOT NULL DEFAULT 0`); err != nil {
		return err
	}
	_, err := db.Exec(`ALTER TABLE runs ADD COLUMN columns_out INTEGER NOT NULL DEFAULT 0`)
	return err
}
