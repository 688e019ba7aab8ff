package pipeline

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"datacleaner/database"
	"datacleaner/dataset"
	apperrors "datacleaner/errors"
	"datacleaner/internal/config"
	"datacleaner/prompts"
)

const messyCustomers = `name,city,phone,salary
alice smith,Bangalore,9876543210,"$1,200"
bob jones,Bangalore,+91 98765 43211,1.5k
carol white,Banglore,9876543212,2000
alice smith,Bangalore,9876543210,"$1,200"
dave brown,Pune,9876543213,
eve black,Pune,9876543214,3000
frank green,Pune,9876543215,2500
`

const cleanedCustomers = `name,city,phone,salary
Alice Smith,Bangalore,+91 9876543210,1200
Bob Jones,Bangalore,+91 9876543211,1500
Carol White,Bangalore,+91 9876543212,2000
Eve Black,Pune,+91 9876543214,3000
Frank Green,Pune,+91 9876543215,2500
`

func writeInput(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// firstRunAnswers заголовки верны, ключ name, строки с пропусками удаляются
func firstRunAnswers() *prompts.ScriptedPrompter {
	return &prompts.ScriptedPrompter{
		Confirms:     []bool{true, true, true},
		MultiSelects: [][]string{{"name"}},
	}
}

func TestCleanFile_EndToEnd(t *testing.T) {
	input := writeInput(t, "customers.csv", messyCustomers)
	var out bytes.Buffer

	summary, err := New(firstRunAnswers(), nil, NewDefaultConfig(), &out).CleanFile(context.Background(), input)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(filepath.Dir(input), "customers_cleaned.csv"), summary.OutputPath)
	assert.Contains(t, out.String(), "Cleaned file saved to: "+summary.OutputPath)

	types := make(map[string]dataset.SemanticType)
	for _, inf := range summary.Types {
		types[inf.Column] = inf.Type
	}
	assert.Equal(t, map[string]dataset.SemanticType{
		"name":   dataset.TypeText,
		"city":   dataset.TypeCategorical,
		"phone":  dataset.TypePhone,
		"salary": dataset.TypeCurrency,
	}, types)

	assert.Equal(t, 1, summary.Duplicates.AutoDrop)
	assert.True(t, summary.Nulls.Deleted)
	require.Len(t, summary.Corrections, 1)
	assert.Equal(t, []dataset.Correction{{From: "banglore", To: "bangalore"}}, summary.Corrections[0].Corrections)

	data, err := os.ReadFile(summary.OutputPath)
	require.NoError(t, err)
	assert.Equal(t, cleanedCustomers, string(data))
}

func TestCleanFile_RerunOnOutputIsNoOp(t *testing.T) {
	input := writeInput(t, "customers.csv", messyCustomers)
	first, err := New(firstRunAnswers(), nil, NewDefaultConfig(), &bytes.Buffer{}).CleanFile(context.Background(), input)
	require.NoError(t, err)

	p := &prompts.ScriptedPrompter{
		Confirms:     []bool{true, true},
		MultiSelects: [][]string{{"name"}},
	}
	second, err := New(p, nil, NewDefaultConfig(), &bytes.Buffer{}).CleanFile(context.Background(), first.OutputPath)
	require.NoError(t, err)

	assert.False(t, second.Headers.Changed())
	assert.Zero(t, second.Duplicates.Groups)
	assert.Empty(t, second.Nulls.AffectedRows)
	for _, report := range second.Corrections {
		assert.False(t, report.Found(), "column %s corrected again", report.Column)
	}

	before, err := os.ReadFile(first.OutputPath)
	require.NoError(t, err)
	after, err := os.ReadFile(second.OutputPath)
	require.NoError(t, err)
	assert.Equal(t, string(before), string(after))
}

func TestCleanFile_JournalsDecisions(t *testing.T) {
	audit, err := database.NewAuditDB(":memory:")
	require.NoError(t, err)
	defer audit.Close()

	input := writeInput(t, "customers.csv", messyCustomers)
	summary, err := New(firstRunAnswers(), audit, NewDefaultConfig(), &bytes.Buffer{}).CleanFile(context.Background(), input)
	require.NoError(t, err)
	require.NotEmpty(t, summary.RunID)

	run, err := audit.GetRun(summary.RunID)
	require.NoError(t, err)
	assert.Equal(t, database.RunStatusCompleted, run.Status)
	assert.Equal(t, 5, run.RowsOut)
	assert.Equal(t, 4, run.ColumnsOut)

	decisions, err := audit.ListDecisions(summary.RunID)
	require.NoError(t, err)
	var stages []string
	for _, d := range decisions {
		stages = append(stages, d.Stage+":"+d.Action)
	}
	assert.Equal(t, []string{
		"load:loaded",
		"headers:confirmed",
		"inference:types_inferred",
		"duplicates:resolved",
		"nulls:deleted",
		"normalization:categorical_corrected",
		"save:saved",
	}, stages)
}

func TestCleanFile_DeclinedHeadersProduceNoOutput(t *testing.T) {
	audit, err := database.NewAuditDB(":memory:")
	require.NoError(t, err)
	defer audit.Close()

	input := writeInput(t, "numbers.csv", "1,2,3\nName,Age,City\nAnn,31,Pune\n")
	summary, err := New(&prompts.ScriptedPrompter{}, audit, NewDefaultConfig(), &bytes.Buffer{}).CleanFile(context.Background(), input)

	require.Error(t, err)
	assert.Equal(t, apperrors.KindDeclined, apperrors.KindOf(err))
	assert.True(t, errors.Is(err, prompts.ErrDeclined))
	assert.Empty(t, summary.OutputPath)
	assert.NoFileExists(t, filepath.Join(filepath.Dir(input), "numbers_cleaned.csv"))

	run, err := audit.GetRun(summary.RunID)
	require.NoError(t, err)
	assert.Equal(t, database.RunStatusFailed, run.Status)
}

func TestCleanFile_MalformedRow(t *testing.T) {
	input := writeInput(t, "pay.csv", "name,salary,city\nAnn,$1,200,Pune\n")

	_, err := New(&prompts.ScriptedPrompter{}, nil, NewDefaultConfig(), &bytes.Buffer{}).CleanFile(context.Background(), input)

	var malformed *apperrors.MalformedRowError
	require.ErrorAs(t, err, &malformed)
	assert.Equal(t, 2, malformed.Row)
	assert.True(t, apperrors.IsFatal(err))
	assert.NoFileExists(t, filepath.Join(filepath.Dir(input), "pay_cleaned.csv"))
}

func TestCleanFile_UnsupportedExtension(t *testing.T) {
	input := writeInput(t, "data.json", "{}")

	_, err := New(&prompts.ScriptedPrompter{}, nil, NewDefaultConfig(), &bytes.Buffer{}).CleanFile(context.Background(), input)

	assert.True(t, apperrors.IsFatal(err))
}

func TestRun_CancelledContextStopsBeforeFirstStage(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	p := &prompts.ScriptedPrompter{}
	pc := dataset.NewPipelineContext(dataset.NewTable([]string{"a"}, [][]dataset.Value{{dataset.Text("x")}}))

	_, err := New(p, nil, NewDefaultConfig(), &bytes.Buffer{}).Run(ctx, pc)

	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
	assert.Empty(t, p.Asked)
	assert.Nil(t, pc.Types)
}

func TestRun_HighlightsNullsWhenNotDeleted(t *testing.T) {
	pc := dataset.NewPipelineContext(dataset.NewTable([]string{"name", "city"}, [][]dataset.Value{
		{dataset.Text("ann"), dataset.Text("Pune")},
		{dataset.Text("bob"), dataset.Absent()},
	}))
	p := &prompts.ScriptedPrompter{Confirms: []bool{true, false, false}}

	summary, err := New(p, nil, NewDefaultConfig(), &bytes.Buffer{}).Run(context.Background(), pc)

	require.NoError(t, err)
	assert.True(t, summary.Duplicates.Skipped())
	assert.Equal(t, []int{1}, pc.Highlight.Positions())
	assert.True(t, pc.Table.Cell(1, 1).IsAbsent())
}

func TestConfigFrom(t *testing.T) {
	cfg := &config.Config{
		InputEncoding:      "windows-1251",
		DefaultCountryCode: "44",
		FuzzyThreshold:     90,
		DefaultDateFormat:  dataset.DateFormatISO,
		SampleSize:         10,
		DateParseRatio:     0.7,
		CurrencyRatio:      0.5,
		TypeOverrides:      map[string]dataset.SemanticType{"zip": dataset.TypePostal},
	}

	got := ConfigFrom(cfg)

	assert.Equal(t, "windows-1251", got.Import.Encoding)
	assert.Equal(t, "44", got.Normalizer.CountryCode)
	assert.Equal(t, 90, got.Normalizer.TypoThreshold)
	assert.Equal(t, 10, got.Engine.SampleSize)
	assert.Equal(t, dataset.TypePostal, got.Engine.Overrides["zip"])
	assert.Equal(t, dataset.DateFormatISO, got.Normalizer.DefaultDateFormat)
}
