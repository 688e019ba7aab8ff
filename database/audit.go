// Package database хранит журнал аудита прогонов очистки в SQLite:
// прогоны и принятые в них решения оператора и эвристик.
package database

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
)

// Статусы прогона
const (
	RunStatusRunning   = "running"
	RunStatusCompleted = "completed"
	RunStatusFailed    = "failed"
)

// Run запись о прогоне
type Run struct {
	ID         string     `json:"id"`
	InputPath  string     `json:"input_path"`
	OutputPath string     `json:"output_path,omitempty"`
	Status     string     `json:"status"`
	Error      string     `json:"error,omitempty"`
	RowsOut    int        `json:"rows_out"`
	ColumnsOut int        `json:"columns_out"`
	StartedAt  time.Time  `json:"started_at"`
	FinishedAt *time.Time `json:"finished_at,omitempty"`
}

// RunOutcome итог прогона для FinishRun
type RunOutcome struct {
	OutputPath string
	Rows       int
	Columns    int
	Err        error
}

// Decision одно решение этапа
type Decision struct {
	ID        int64           `json:"id"`
	RunID     string          `json:"run_id"`
	Stage     string          `json:"stage"`
	Action    string          `json:"action"`
	Detail    json.RawMessage `json:"detail,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
}

// AuditDB обертка для работы с журналом аудита
type AuditDB struct {
	conn *sql.DB
}

// NewAuditDB открывает (и при необходимости создает) журнал аудита
func NewAuditDB(path string) (*AuditDB, error) {
	conn, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open audit database: %w", err)
	}

	// Журнал пишется из одного потока. PRAGMA foreign_keys и in-memory БД
	// действуют в пределах соединения, поэтому соединение одно.
	conn.SetMaxOpenConns(1)

	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to ping audit database: %w", err)
	}

	if _, err := conn.Exec("PRAGMA foreign_keys = ON"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	if err := applyMigrations(conn, auditMigrations); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to initialize audit schema: %w", err)
	}

	return &AuditDB{conn: conn}, nil
}

// Close закрывает подключение
func (db *AuditDB) Close() error {
	return db.conn.Close()
}

// GetConnection возвращает указатель на sql.DB для прямого доступа
func (db *AuditDB) GetConnection() *sql.DB {
	return db.conn
}

// StartRun создает запись о прогоне и возвращает его ID
func (db *AuditDB) StartRun(inputPath string) (string, error) {
	id := uuid.New().String()
	_, err := db.conn.Exec(
		`INSERT INTO runs (id, input_path, status, started_at) VALUES (?, ?, ?, ?)`,
		id, inputPath, RunStatusRunning, time.Now(),
	)
	if err != nil {
		return "", fmt.Errorf("failed to start run: %w", err)
	}
	return id, nil
}

// Record сохраняет решение этапа; detail сериализуется в JSON
func (db *AuditDB) Record(runID, stage, action string, detail any) error {
	var payload sql.NullString
	if detail != nil {
		data, err := json.Marshal(detail)
		if err != nil {
			return fmt.Errorf("failed to marshal decision detail: %w", err)
		}
		payload = sql.NullString{String: string(data), Valid: true}
	}

	_, err := db.conn.Exec(
		`INSERT INTO decisions (run_id, stage, action, detail, created_at) VALUES (?, ?, ?, ?, ?)`,
		runID, stage, action, payload, time.Now(),
	)
	if err != nil {
		return fmt.Errorf("failed to record decision: %w", err)
	}
	return nil
}

// FinishRun фиксирует итог прогона
func (db *AuditDB) FinishRun(runID string, outcome RunOutcome) error {
	status := RunStatusCompleted
	var errText sql.NullString
	if outcome.Err != nil {
		status = RunStatusFailed
		errText = sql.NullString{String: outcome.Err.Error(), Valid: true}
	}

	result, err := db.conn.Exec(`
		UPDATE runs
		SET output_path = ?, status = ?, error = ?, rows_out = ?, columns_out = ?, finished_at = ?
		WHERE id = ?
	`, outcome.OutputPath, status, errText, outcome.Rows, outcome.Columns, time.Now(), runID)
	if err != nil {
		return fmt.Errorf("failed to finish run: %w", err)
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("run not found: %s", runID)
	}
	return nil
}

// GetRun получает прогон по ID
func (db *AuditDB) GetRun(id string) (*Run, error) {
	var (
		run        Run
		outputPath sql.NullString
		errText    sql.NullString
		finishedAt sql.NullTime
	)
	err := db.conn.QueryRow(`
		SELECT id, input_path, output_path, status, error, rows_out, columns_out, started_at, finished_at
		FROM runs
		WHERE id = ?
	`, id).Scan(
		&run.ID,
		&run.InputPath,
		&outputPath,
		&run.Status,
		&errText,
		&run.RowsOut,
		&run.ColumnsOut,
		&run.StartedAt,
		&finishedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("run not found: %s", id)
		}
		return nil, fmt.Errorf("failed to get run: %w", err)
	}

	run.OutputPath = outputPath.String
	run.Error = errText.String
	if finishedAt.Valid {
		t := finishedAt.Time
		run.FinishedAt = &t
	}
	return &run, nil
}

// ListDecisions возвращает решения прогона в порядке записи
func (db *AuditDB) ListDecisions(runID string) ([]Decision, error) {
	rows, err := db.conn.Query(`
		SELECT id, run_id, stage, action, detail, created_at
		FROM decisions
		WHERE run_id = ?
		ORDER BY id
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to list decisions: %w", err)
	}
	defer rows.Close()

	var decisions []Decision
	for rows.Next() {
		var (
			d      Decision
			detail sql.NullString
		)
		if err := rows.Scan(&d.ID, &d.RunID, &d.Stage, &d.Action, &detail, &d.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan decision: %w", err)
		}
		if detail.Valid {
			d.Detail = json.RawMessage(detail.String)
		}
		decisions = append(decisions, d)
	}
	return decisions, rows.Err()
}
