package quality

import (
	"fmt"
	"io"
	"os"
	"strings"

	"datacleaner/dataset"
	"datacleaner/logger"
	"datacleaner/prompts"
)

// NullReport итог аудита отсутствующих значений
type NullReport struct {
	AbsentCells  int   `json:"absent_cells"`
	AffectedRows []int `json:"affected_rows"`
	Deleted      bool  `json:"deleted"`
}

// NullAuditor находит строки с отсутствующими значениями
type NullAuditor struct {
	prompter prompts.Prompter
	out      io.Writer
}

// NewNullAuditor создает NullAuditor
func NewNullAuditor(p prompts.Prompter, out io.Writer) *NullAuditor {
	if out == nil {
		out = os.Stdout
	}
	return &NullAuditor{prompter: p, out: out}
}

// Audit считает пропуски и по решению оператора удаляет затронутые строки.
// При отказе позиции строк попадают в pc.Highlight, значения не меняются.
func (a *NullAuditor) Audit(pc *dataset.PipelineContext) NullReport {
	t := pc.Table
	var report NullReport

	for row := 0; row < t.Len(); row++ {
		missing := 0
		for col := 0; col < t.Width(); col++ {
			if t.Cell(row, col).IsAbsent() {
				missing++
			}
		}
		if missing > 0 {
			report.AbsentCells += missing
			report.AffectedRows = append(report.AffectedRows, row)
		}
	}

	if len(report.AffectedRows) == 0 {
		fmt.Fprintln(a.out, "No null values found.")
		return report
	}

	fmt.Fprintf(a.out, "\nFound %d null values in %d rows.\n", report.AbsentCells, len(report.AffectedRows))
	fmt.Fprintln(a.out, "Rows with null values:")
	fmt.Fprintf(a.out, "\t%s\n", strings.Join(t.Columns(), "\t"))
	for _, row := range report.AffectedRows {
		fmt.Fprintf(a.out, "%d\t%s\n", row, joinRow(t.Row(row), "\t"))
	}

	if prompts.Confirmed(a.prompter, "Would you like to delete all rows with null values?", false) {
		removed := t.RemoveRows(report.AffectedRows)
		report.Deleted = true
		fmt.Fprintf(a.out, "Deleted %d rows with null values.\n", removed)
		logger.LogInfo("Rows with null values deleted", "rows", removed)
		return report
	}

	pc.Highlight = dataset.NewHighlightSet(report.AffectedRows...)
	fmt.Fprintln(a.out, "Rows with null values will be highlighted in the output.")
	logger.LogInfo("Rows with null values highlighted", "rows", len(report.AffectedRows), "cells", report.AbsentCells)
	return report
}
