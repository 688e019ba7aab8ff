package dataset

import (
	"fmt"
	"sort"
)

// Table упорядоченный набор именованных колонок с построчным хранением значений.
// Все строки имеют ровно по одной ячейке на колонку.
type Table struct {
	columns []string
	rows    [][]Value
}

// NewTable создает таблицу. Строки короче заголовка дополняются отсутствующими значениями,
// лишние ячейки отбрасываются.
func NewTable(columns []string, rows [][]Value) *Table {
	t := &Table{
		columns: append([]string(nil), columns...),
		rows:    make([][]Value, 0, len(rows)),
	}
	for _, row := range rows {
		t.rows = append(t.rows, t.fit(row))
	}
	return t
}

// fit приводит строку к ширине таблицы
func (t *Table) fit(row []Value) []Value {
	out := make([]Value, len(t.columns))
	for i := range out {
		if i < len(row) {
			out[i] = row[i]
		} else {
			out[i] = Absent()
		}
	}
	return out
}

// Columns возвращает копию списка заголовков
func (t *Table) Columns() []string {
	return append([]string(nil), t.columns...)
}

// ColumnIndex возвращает индекс колонки по имени или -1
func (t *Table) ColumnIndex(name string) int {
	for i, c := range t.columns {
		if c == name {
			return i
		}
	}
	return -1
}

// Len возвращает количество строк
func (t *Table) Len() int {
	return len(t.rows)
}

// Width возвращает количество колонок
func (t *Table) Width() int {
	return len(t.columns)
}

// Row возвращает копию строки
func (t *Table) Row(i int) []Value {
	return append([]Value(nil), t.rows[i]...)
}

// Cell возвращает значение ячейки
func (t *Table) Cell(row, col int) Value {
	return t.rows[row][col]
}

// Set записывает значение ячейки
func (t *Table) Set(row, col int, v Value) {
	t.rows[row][col] = v
}

// Column возвращает копию значений колонки
func (t *Table) Column(col int) []Value {
	out := make([]Value, len(t.rows))
	for i, row := range t.rows {
		out[i] = row[col]
	}
	return out
}

// SetColumn заменяет значения колонки
func (t *Table) SetColumn(col int, values []Value) error {
	if len(values) != len(t.rows) {
		return fmt.Errorf("column length mismatch: got %d values for %d rows", len(values), len(t.rows))
	}
	for i := range t.rows {
		t.rows[i][col] = values[i]
	}
	return nil
}

// MapColumn применяет функцию к каждой ячейке колонки
func (t *Table) MapColumn(col int, fn func(Value) Value) {
	for i := range t.rows {
		t.rows[i][col] = fn(t.rows[i][col])
	}
}

// DropColumns удаляет колонки по индексам
func (t *Table) DropColumns(indices []int) {
	if len(indices) == 0 {
		return
	}
	drop := make(map[int]bool, len(indices))
	for _, i := range indices {
		drop[i] = true
	}

	columns := make([]string, 0, len(t.columns))
	for i, c := range t.columns {
		if !drop[i] {
			columns = append(columns, c)
		}
	}
	for r, row := range t.rows {
		kept := make([]Value, 0, len(columns))
		for i, v := range row {
			if !drop[i] {
				kept = append(kept, v)
			}
		}
		t.rows[r] = kept
	}
	t.columns = columns
}

// InsertRow вставляет строку в позицию at, сдвигая последующие строки вниз
func (t *Table) InsertRow(at int, row []Value) {
	if at < 0 {
		at = 0
	}
	if at > len(t.rows) {
		at = len(t.rows)
	}
	t.rows = append(t.rows, nil)
	copy(t.rows[at+1:], t.rows[at:])
	t.rows[at] = t.fit(row)
}

// RemoveRows удаляет строки по позициям; оставшиеся строки перенумеровываются с нуля
func (t *Table) RemoveRows(positions []int) int {
	if len(positions) == 0 {
		return 0
	}
	drop := make(map[int]bool, len(positions))
	for _, p := range positions {
		if p >= 0 && p < len(t.rows) {
			drop[p] = true
		}
	}
	kept := make([][]Value, 0, len(t.rows)-len(drop))
	for i, row := range t.rows {
		if !drop[i] {
			kept = append(kept, row)
		}
	}
	t.rows = kept
	return len(drop)
}

// SetHeaders заменяет все заголовки
func (t *Table) SetHeaders(headers []string) error {
	if len(headers) != len(t.columns) {
		return fmt.Errorf("header count mismatch: got %d, table has %d columns", len(headers), len(t.columns))
	}
	t.columns = append([]string(nil), headers...)
	return nil
}

// Clone возвращает глубокую копию таблицы
func (t *Table) Clone() *Table {
	return NewTable(t.columns, t.rows)
}

// Preview возвращает первые n значений колонки
func (t *Table) Preview(col, n int) []Value {
	if n > len(t.rows) {
		n = len(t.rows)
	}
	out := make([]Value, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, t.rows[i][col])
	}
	return out
}

// HighlightSet множество позиций строк, помеченных для подсветки при сохранении
type HighlightSet struct {
	rows map[int]struct{}
}

// NewHighlightSet создает множество из позиций
func NewHighlightSet(positions ...int) *HighlightSet {
	hs := &HighlightSet{rows: make(map[int]struct{}, len(positions))}
	for _, p := range positions {
		hs.rows[p] = struct{}{}
	}
	return hs
}

// Contains сообщает, помечена ли строка
func (hs *HighlightSet) Contains(row int) bool {
	if hs == nil {
		return false
	}
	_, ok := hs.rows[row]
	return ok
}

// Len возвращает количество помеченных строк
func (hs *HighlightSet) Len() int {
	if hs == nil {
		return 0
	}
	return len(hs.rows)
}

// Positions возвращает позиции по возрастанию
func (hs *HighlightSet) Positions() []int {
	if hs == nil {
		return nil
	}
	out := make([]int, 0, len(hs.rows))
	for p := range hs.rows {
		out = append(out, p)
	}
	sort.Ints(out)
	return out
}
