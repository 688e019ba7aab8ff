// Package importer загружает табличные файлы (CSV, Excel) в dataset.Table
// с теми же соглашениями о заголовках и пропусках, что и pandas.
package importer

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"datacleaner/dataset"
	apperrors "datacleaner/errors"
	"datacleaner/logger"
)

// DefaultNAValues строки, которые читаются как отсутствующие значения
var DefaultNAValues = []string{
	"", "#N/A", "#N/A N/A", "#NA", "-1.#IND", "-1.#QNAN", "-NaN", "-nan",
	"1.#IND", "1.#QNAN", "<NA>", "N/A", "NA", "NULL", "NaN", "None", "n/a", "nan", "null",
}

// Options параметры загрузки
type Options struct {
	Encoding string   // Кодировка CSV: utf-8 (по умолчанию), windows-1251, windows-1252
	NAValues []string // Маркеры пропусков; nil - DefaultNAValues
}

func (o Options) naSet() map[string]bool {
	values := o.NAValues
	if values == nil {
		values = DefaultNAValues
	}
	set := make(map[string]bool, len(values))
	for _, v := range values {
		set[v] = true
	}
	return set
}

// Load загружает файл по расширению: .csv или .xlsx/.xlsm
func Load(path string, opts Options) (*dataset.Table, error) {
	ext := strings.ToLower(filepath.Ext(path))
	var (
		t   *dataset.Table
		err error
	)
	switch ext {
	case ".csv":
		t, err = LoadCSVFile(path, opts)
	case ".xlsx", ".xlsm":
		t, err = LoadExcelFile(path, opts)
	default:
		return nil, apperrors.NewUnsupportedFormatError(ext)
	}
	if err != nil {
		return nil, err
	}
	logger.LogInfo("Loaded file", "path", path, "rows", t.Len(), "columns", t.Width())
	return t, nil
}

// LoadCSVFile читает CSV-файл
func LoadCSVFile(path string, opts Options) (*dataset.Table, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, apperrors.NewFatalError("failed to open CSV file", err).WithContext(path)
	}
	defer file.Close()

	return ReadCSV(file, opts)
}

// decoder возвращает декодер для кодировки из настроек
func decoder(name string) (*encoding.Decoder, error) {
	switch strings.ToLower(name) {
	case "", "utf-8", "utf8":
		return unicode.UTF8BOM.NewDecoder(), nil
	case "windows-1251", "cp1251":
		return charmap.Windows1251.NewDecoder(), nil
	case "windows-1252", "cp1252":
		return charmap.Windows1252.NewDecoder(), nil
	default:
		return nil, fmt.Errorf("unsupported input encoding: %s", name)
	}
}

// ReadCSV читает CSV из потока. Все записи проверяются на совпадение числа полей
// с заголовком до построения таблицы; первая несовпадающая запись - фатальная ошибка.
func ReadCSV(r io.Reader, opts Options) (*dataset.Table, error) {
	dec, err := decoder(opts.Encoding)
	if err != nil {
		return nil, apperrors.NewFatalError("failed to decode CSV", err)
	}

	reader := csv.NewReader(transform.NewReader(r, dec))
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, apperrors.NewFatalError("file is empty", nil)
	}
	if err != nil {
		return nil, apperrors.NewFatalError("failed to read CSV headers", err)
	}

	var records [][]string
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			// csv.ParseError уже содержит номер строки файла
			return nil, apperrors.NewFatalError("failed to read CSV record", err)
		}
		if len(record) != len(header) {
			// номер строки файла, где начинается запись: пустые строки и
			// многострочные поля в кавычках учитываются
			line, _ := reader.FieldPos(0)
			column, hint := malformedHint(record, len(header))
			return nil, apperrors.NewMalformedRowError(line, len(record), len(header), column, hint)
		}
		records = append(records, record)
	}

	return buildTable(header, records, opts.naSet()), nil
}

// malformedHint ищет первое поле с запятой среди общих колонок
func malformedHint(record []string, expected int) (int, string) {
	limit := min(len(record), expected)
	for i := 0; i < limit; i++ {
		field := record[i]
		quoted := strings.HasPrefix(field, `"`) && strings.HasSuffix(field, `"`)
		if strings.Contains(field, ",") && !quoted {
			return i + 1, fmt.Sprintf("Possible issue at column %d", i+1)
		}
	}
	return 0, "Check currency columns"
}

// LoadExcelFile читает первый лист Excel-файла
func LoadExcelFile(path string, opts Options) (*dataset.Table, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, apperrors.NewFatalError("failed to open Excel file", err).WithContext(path)
	}
	defer f.Close()

	// Получаем имя первого листа
	sheetName := f.GetSheetName(0)
	if sheetName == "" {
		return nil, apperrors.NewFatalError("no sheets found in Excel file", nil)
	}

	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, apperrors.NewFatalError("failed to get rows", err)
	}
	if len(rows) == 0 {
		return nil, apperrors.NewFatalError("file is empty", nil)
	}

	// строки листа могут быть разной длины: ширина по самой длинной
	width := 0
	for _, row := range rows {
		width = max(width, len(row))
	}
	header := make([]string, width)
	copy(header, rows[0])

	records := make([][]string, 0, len(rows)-1)
	for _, row := range rows[1:] {
		record := make([]string, width)
		copy(record, row)
		records = append(records, record)
	}

	return buildTable(header, records, opts.naSet()), nil
}

// buildTable строит таблицу: пустые заголовки получают имя "Unnamed: N",
// повторы - суффиксы ".1", ".2", маркеры пропусков становятся Absent
func buildTable(header []string, records [][]string, na map[string]bool) *dataset.Table {
	columns := uniqueHeaders(header)

	rows := make([][]dataset.Value, 0, len(records))
	for _, record := range records {
		row := make([]dataset.Value, len(columns))
		for i := range row {
			if i >= len(record) || na[record[i]] {
				row[i] = dataset.Absent()
				continue
			}
			row[i] = dataset.Text(record[i])
		}
		rows = append(rows, row)
	}
	return dataset.NewTable(columns, rows)
}

func uniqueHeaders(header []string) []string {
	columns := make([]string, len(header))
	used := make(map[string]bool, len(header))
	suffix := make(map[string]int)
	for i, h := range header {
		if strings.TrimSpace(h) == "" {
			h = fmt.Sprintf("Unnamed: %d", i)
		}
		name := h
		for used[name] {
			suffix[h]++
			name = fmt.Sprintf("%s.%d", h, suffix[h])
		}
		used[name] = true
		columns[i] = name
	}
	return columns
}

// ReadCSVBytes читает CSV из среза байтов
func ReadCSVBytes(data []byte, opts Options) (*dataset.Table, error) {
	return ReadCSV(bytes.NewReader(data), opts)
}
