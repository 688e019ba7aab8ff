package database

import (
	"encoding/json"
	"errors"
	"path/filepath"
	"testing"
)

// setupTestAuditDB создает временный журнал аудита
func setupTestAuditDB(t *testing.T) (*AuditDB, string) {
	dbPath := filepath.Join(t.TempDir(), "audit.db")

	db, err := NewAuditDB(dbPath)
	if err != nil {
		t.Fatalf("Failed to create audit DB: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db, dbPath
}

func TestAuditDB_RunLifecycle(t *testing.T) {
	db, _ := setupTestAuditDB(t)

	runID, err := db.StartRun("customers.csv")
	if err != nil {
		t.Fatalf("StartRun() error = %v", err)
	}
	if len(runID) != 36 {
		t.Errorf("expected uuid run id, got %q", runID)
	}

	run, err := db.GetRun(runID)
	if err != nil {
		t.Fatalf("GetRun() error = %v", err)
	}
	if run.Status != RunStatusRunning || run.FinishedAt != nil {
		t.Errorf("new run must be running and unfinished, got %+v", run)
	}

	err = db.FinishRun(runID, RunOutcome{OutputPath: "customers_cleaned.csv", Rows: 12, Columns: 4})
	if err != nil {
		t.Fatalf("FinishRun() error = %v", err)
	}

	run, err = db.GetRun(runID)
	if err != nil {
		t.Fatalf("GetRun() error = %v", err)
	}
	if run.Status != RunStatusCompleted {
		t.Errorf("Status = %q, want %q", run.Status, RunStatusCompleted)
	}
	if run.OutputPath != "customers_cleaned.csv" || run.RowsOut != 12 || run.ColumnsOut != 4 {
		t.Errorf("unexpected run outcome: %+v", run)
	}
	if run.FinishedAt == nil {
		t.Error("FinishedAt must be set")
	}
}

func TestAuditDB_FailedRun(t *testing.T) {
	db, _ := setupTestAuditDB(t)

	runID, _ := db.StartRun("broken.csv")
	if err := db.FinishRun(runID, RunOutcome{Err: errors.New("malformed row")}); err != nil {
		t.Fatalf("FinishRun() error = %v", err)
	}

	run, _ := db.GetRun(runID)
	if run.Status != RunStatusFailed || run.Error != "malformed row" {
		t.Errorf("unexpected failed run: %+v", run)
	}
}

func TestAuditDB_FinishUnknownRun(t *testing.T) {
	db, _ := setupTestAuditDB(t)

	if err := db.FinishRun("missing", RunOutcome{}); err == nil {
		t.Error("expected error for unknown run")
	}
	if _, err := db.GetRun("missing"); err == nil {
		t.Error("expected error for unknown run")
	}
}

func TestAuditDB_Decisions(t *testing.T) {
	db, _ := setupTestAuditDB(t)
	runID, _ := db.StartRun("in.xlsx")

	if err := db.Record(runID, "headers", "confirmed", map[string][]string{"after": {"name", "age"}}); err != nil {
		t.Fatalf("Record() error = %v", err)
	}
	if err := db.Record(runID, "nulls", "highlighted", nil); err != nil {
		t.Fatalf("Record() error = %v", err)
	}

	decisions, err := db.ListDecisions(runID)
	if err != nil {
		t.Fatalf("ListDecisions() error = %v", err)
	}
	if len(decisions) != 2 {
		t.Fatalf("expected 2 decisions, got %d", len(decisions))
	}
	if decisions[0].Stage != "headers" || decisions[1].Action != "highlighted" {
		t.Errorf("decisions out of order: %+v", decisions)
	}

	var detail map[string][]string
	if err := json.Unmarshal(decisions[0].Detail, &detail); err != nil {
		t.Fatalf("detail is not JSON: %v", err)
	}
	if len(detail["after"]) != 2 {
		t.Errorf("unexpected detail: %v", detail)
	}
	if decisions[1].Detail != nil {
		t.Errorf("nil detail must stay empty, got %s", decisions[1].Detail)
	}
}

func TestAuditDB_RecordRequiresRun(t *testing.T) {
	db, _ := setupTestAuditDB(t)

	if err := db.Record("no-such-run", "headers", "confirmed", nil); err == nil {
		t.Error("expected foreign key violation")
	}
}

func TestAuditDB_ReopenKeepsSchema(t *testing.T) {
	db, path := setupTestAuditDB(t)
	runID, _ := db.StartRun("a.csv")
	db.Close()

	reopened, err := NewAuditDB(path)
	if err != nil {
		t.Fatalf("reopen error = %v", err)
	}
	defer reopened.Close()

	if _, err := reopened.GetRun(runID); err != nil {
		t.Errorf("run lost after reopen: %v", err)
	}
	var applied int
	if err := reopened.GetConnection().QueryRow(`SELECT COUNT(*) FROM schema_migrations`).Scan(&applied); err != nil {
		t.Fatal(err)
	}
	if applied != len(auditMigrations) {
		t.Errorf("applied migrations = %d, want %d", applied, len(auditMigrations))
	}
}

func TestAuditDB_InMemory(t *testing.T) {
	db, err := NewAuditDB(":memory:")
	if err != nil {
		t.Fatalf("NewAuditDB(:memory:) error = %v", err)
	}
	defer db.Close()

	if _, err := db.StartRun("x.csv"); err != nil {
		t.Errorf("StartRun() error = %v", err)
	}
}

func TestNopRecorder(t *testing.T) {
	var r Recorder = NopRecorder{}
	id, err := r.StartRun("x.csv")
	if err != nil || id != "" {
		t.Errorf("NopRecorder.StartRun() = %q, %v", id, err)
	}
}
