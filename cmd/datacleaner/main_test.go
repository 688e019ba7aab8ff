package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"datacleaner/database"
)

func writeCSV(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func runCLI(args ...string) (int, string, string) {
	var out, errOut bytes.Buffer
	code := execute(context.Background(), args, &out, &errOut)
	return code, out.String(), errOut.String()
}

func TestExecute_MissingArgument(t *testing.T) {
	code, _, stderr := runCLI()

	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "usage: datacleaner <file_path>")
}

func TestExecute_MalformedRow(t *testing.T) {
	input := writeCSV(t, "pay.csv", "name,salary,city\nAnn,$1,200,Pune\n")

	code, stdout, stderr := runCLI("--yes", input)

	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "Malformed CSV: Row 2 has 4 columns but header has 3.")
	assert.Contains(t, stderr, "Tip: Check for unquoted currency values with commas")
	assert.Contains(t, stderr, "Fix: Wrap currency values in double quotes to preserve column structure.")
	assert.NotContains(t, stdout, "Cleaned file saved to")
	assert.NoFileExists(t, filepath.Join(filepath.Dir(input), "pay_cleaned.csv"))
}

func TestExecute_BatchModeSavesOutput(t *testing.T) {
	input := writeCSV(t, "people.csv", "name,city\nann,Pune\nbob,\n")
	output := filepath.Join(filepath.Dir(input), "people_cleaned.csv")

	code, stdout, stderr := runCLI("--yes", input)

	require.Equal(t, 0, code, stderr)
	assert.Contains(t, stdout, "Cleaned file saved to: "+output)
	data, err := os.ReadFile(output)
	require.NoError(t, err)
	assert.Equal(t, "name,city\nAnn,Pune\nBob,\n", string(data))
}

func TestExecute_BatchModeKeepsDuplicatedHeaders(t *testing.T) {
	input := writeCSV(t, "people.csv", "name,name,city\nann,ann,Pune\n")

	code, _, stderr := runCLI("--yes", input)
	require.Equal(t, 0, code, stderr)

	data, err := os.ReadFile(filepath.Join(filepath.Dir(input), "people_cleaned.csv"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "name,name.1,city\n"), string(data))
}

func TestExecute_AuditJournal(t *testing.T) {
	input := writeCSV(t, "people.csv", "name,city\nann,Pune\n")
	auditPath := filepath.Join(t.TempDir(), "audit.db")

	code, _, stderr := runCLI("--yes", "--audit-db", auditPath, input)
	require.Equal(t, 0, code, stderr)

	audit, err := database.NewAuditDB(auditPath)
	require.NoError(t, err)
	defer audit.Close()

	var status string
	require.NoError(t, audit.GetConnection().QueryRow(`SELECT status FROM runs`).Scan(&status))
	assert.Equal(t, database.RunStatusCompleted, status)
}

func TestExecute_CancelledRun(t *testing.T) {
	input := writeCSV(t, "people.csv", "name,city\nann,Pune\n")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var out, errOut bytes.Buffer
	code := execute(ctx, []string{"--yes", input}, &out, &errOut)

	assert.Equal(t, 1, code)
	assert.Contains(t, errOut.String(), "Cancelled: cleaning cancelled")
	assert.NoFileExists(t, filepath.Join(filepath.Dir(input), "people_cleaned.csv"))
}

func TestExecute_UnsupportedExtension(t *testing.T) {
	input := writeCSV(t, "data.json", "{}")

	code, _, stderr := runCLI("--yes", input)

	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "unsupported file type")
}

func TestExecute_InvalidTypeOverride(t *testing.T) {
	input := writeCSV(t, "people.csv", "name\nann\n")

	code, _, stderr := runCLI("--yes", "--type", "name=money", input)

	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "invalid --type flag")
}

func TestExecute_TypeOverrideApplied(t *testing.T) {
	input := writeCSV(t, "codes.csv", "zip,name\n 560001 ,ann\n011001,bob\n")

	code, _, stderr := runCLI("--yes", "--type", "zip=postal", input)
	require.Equal(t, 0, code, stderr)

	data, err := os.ReadFile(filepath.Join(filepath.Dir(input), "codes_cleaned.csv"))
	require.NoError(t, err)
	assert.Equal(t, "zip,name\n560001,Ann\n011001,Bob\n", string(data))
}
