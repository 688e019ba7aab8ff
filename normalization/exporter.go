package normalization

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"datacleaner/dataset"
	apperrors "datacleaner/errors"
)

// ExportFormat формат экспорта
type ExportFormat string

const (
	FormatCSV   ExportFormat = "csv"
	FormatExcel ExportFormat = "excel"
)

// HighlightColor цвет заливки строк с пропусками
const HighlightColor = "FFC7CE"

// DefaultSheetName лист, в который сохраняется таблица
const DefaultSheetName = "Sheet1"

// ColumnWidth ширина колонок листа
const ColumnWidth = 15

// FormatFromPath определяет формат по расширению файла
func FormatFromPath(path string) (ExportFormat, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".csv":
		return FormatCSV, nil
	case ".xlsx", ".xlsm":
		return FormatExcel, nil
	default:
		return "", apperrors.NewUnsupportedFormatError(ext)
	}
}

// OutputPath вставляет маркер "_cleaned" перед расширением исходного файла
func OutputPath(input string) string {
	ext := filepath.Ext(input)
	return strings.TrimSuffix(input, ext) + "_cleaned" + ext
}

// Exporter сохраняет очищенную таблицу в формате исходного файла
type Exporter struct{}

// NewExporter создает новый экспортер
func NewExporter() *Exporter {
	return &Exporter{}
}

// Save сохраняет таблицу контекста; для Excel строки из HighlightSet подсвечиваются
func (e *Exporter) Save(pc *dataset.PipelineContext, path string) error {
	format, err := FormatFromPath(path)
	if err != nil {
		return err
	}
	switch format {
	case FormatCSV:
		return e.ExportToCSV(pc.Table, path)
	default:
		return e.ExportToExcel(pc.Table, pc.Highlight, path)
	}
}

// ExportToCSV экспортирует таблицу в CSV
func (e *Exporter) ExportToCSV(t *dataset.Table, filename string) error {
	file, err := os.Create(filename)
	if err != nil {
		return apperrors.NewFatalError("failed to create file", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)

	if err := writer.Write(t.Columns()); err != nil {
		return apperrors.NewFatalError("failed to write headers", err)
	}

	record := make([]string, t.Width())
	for row := 0; row < t.Len(); row++ {
		for col := range record {
			record[col] = t.Cell(row, col).String()
		}
		if err := writer.Write(record); err != nil {
			return apperrors.NewFatalError("failed to write record", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return apperrors.NewFatalError("failed to flush CSV", err)
	}
	return nil
}

// ExportToExcel экспортирует таблицу в Excel и заливает помеченные строки
func (e *Exporter) ExportToExcel(t *dataset.Table, highlight *dataset.HighlightSet, filename string) error {
	f := excelize.NewFile()
	defer f.Close()

	sheetName := DefaultSheetName

	// Стиль заголовков
	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 11},
	})
	if err != nil {
		return apperrors.NewFatalError("failed to create header style", err)
	}

	highlightStyle, err := f.NewStyle(&excelize.Style{
		Fill: excelize.Fill{Type: "pattern", Color: []string{HighlightColor}, Pattern: 1},
	})
	if err != nil {
		return apperrors.NewFatalError("failed to create highlight style", err)
	}

	// Заголовки
	for i, header := range t.Columns() {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return apperrors.NewFatalError("failed to write header", err).WithContext(header)
		}
		if err := f.SetCellValue(sheetName, cell, header); err != nil {
			return apperrors.NewFatalError("failed to write header", err).WithContext(header)
		}
		if err := f.SetCellStyle(sheetName, cell, cell, headerStyle); err != nil {
			return apperrors.NewFatalError("failed to style header", err).WithContext(header)
		}
	}

	// Данные
	for row := 0; row < t.Len(); row++ {
		excelRow := row + 2
		for col := 0; col < t.Width(); col++ {
			v := t.Cell(row, col)
			if v.IsAbsent() {
				continue
			}
			cell, _ := excelize.CoordinatesToCellName(col+1, excelRow)
			if err := f.SetCellValue(sheetName, cell, excelValue(v)); err != nil {
				return apperrors.NewFatalError("failed to write cell", err).WithContext("cell " + cell)
			}
		}
		if highlight.Contains(row) && t.Width() > 0 {
			first, _ := excelize.CoordinatesToCellName(1, excelRow)
			last, _ := excelize.CoordinatesToCellName(t.Width(), excelRow)
			if err := f.SetCellStyle(sheetName, first, last, highlightStyle); err != nil {
				return apperrors.NewFatalError("failed to highlight row", err).WithContext(fmt.Sprintf("row %d", row))
			}
		}
	}

	// Ширина колонок
	if t.Width() > 0 {
		last, err := excelize.ColumnNumberToName(t.Width())
		if err != nil {
			return apperrors.NewFatalError("failed to set column width", err)
		}
		if err := f.SetColWidth(sheetName, "A", last, ColumnWidth); err != nil {
			return apperrors.NewFatalError("failed to set column width", err)
		}
	}

	if err := f.SaveAs(filename); err != nil {
		return apperrors.NewFatalError("failed to save Excel file", err)
	}
	return nil
}

// excelValue приводит значение ячейки к типу, понятному excelize
func excelValue(v dataset.Value) interface{} {
	switch v.Kind() {
	case dataset.KindNumber:
		f, _ := v.AsNumber()
		return f
	case dataset.KindBoolean:
		b, _ := v.AsBool()
		return b
	default:
		return v.String()
	}
}
