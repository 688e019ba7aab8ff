// Package quality содержит этапы проверки качества строк: разрешение дубликатов
// по ключевым колонкам и аудит отсутствующих значений.
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

// DuplicateReport итог разрешения дубликатов
type DuplicateReport struct {
	Keys       []string `json:"keys"`
	Groups     int      `json:"groups"`
	AutoDrop   int      `json:"auto_dropped"`   // Полные копии, удаленные без вопроса
	ChosenDrop int      `json:"chosen_dropped"` // Удалены по выбору оператора
	Unresolved int      `json:"unresolved"`     // Группы, оставленные целиком после отказа
}

// Removed общее число удаленных строк
func (r DuplicateReport) Removed() int {
	return r.AutoDrop + r.ChosenDrop
}

// Skipped сообщает, что оператор не выбрал ключевые колонки
func (r DuplicateReport) Skipped() bool {
	return len(r.Keys) == 0
}

// DuplicateResolver удаляет строки с одинаковыми значениями ключевых колонок
type DuplicateResolver struct {
	prompter prompts.Prompter
	out      io.Writer
}

// NewDuplicateResolver создает DuplicateResolver
func NewDuplicateResolver(p prompts.Prompter, out io.Writer) *DuplicateResolver {
	if out == nil {
		out = os.Stdout
	}
	return &DuplicateResolver{prompter: p, out: out}
}

// Resolve выполняет один проход по группам дубликатов.
// Группа из полностью одинаковых строк сокращается до первой строки,
// для различающихся строк оператор выбирает одну оставляемую.
func (d *DuplicateResolver) Resolve(pc *dataset.PipelineContext) DuplicateReport {
	var report DuplicateReport
	t := pc.Table

	if !prompts.Confirmed(d.prompter, "Is there a unique column (or set of columns) to identify duplicates?", true) {
		fmt.Fprintln(d.out, "Skipping duplicate check.")
		return report
	}

	keys, err := d.prompter.AskMultiSelect("Select columns to check for uniqueness:", t.Columns())
	if err != nil || len(keys) == 0 {
		fmt.Fprintln(d.out, "No columns selected. Skipping duplicate check.")
		return report
	}
	report.Keys = keys

	keyCols := make([]int, 0, len(keys))
	for _, k := range keys {
		if idx := t.ColumnIndex(k); idx >= 0 {
			keyCols = append(keyCols, idx)
		}
	}

	groups := groupByKey(t, keyCols)
	if len(groups) == 0 {
		fmt.Fprintf(d.out, "No duplicates found for columns: %v\n", keys)
		return report
	}
	report.Groups = len(groups)
	fmt.Fprintf(d.out, "Found %d duplicate groups for columns: %v\n", len(groups), keys)

	resolved := make(map[int]bool)
	var drop []int
	for _, group := range groups {
		members := make([]int, 0, len(group))
		for _, pos := range group {
			if !resolved[pos] {
				members = append(members, pos)
			}
		}
		if len(members) < 2 {
			continue
		}
		for _, pos := range members {
			resolved[pos] = true
		}

		if identicalRows(t, members) {
			drop = append(drop, members[1:]...)
			report.AutoDrop += len(members) - 1
			continue
		}

		keep, ok := d.chooseRow(t, members)
		if !ok {
			report.Unresolved++
			logger.LogWarn("Duplicate group left unresolved", "rows", members, "keys", keys)
			continue
		}
		for _, pos := range members {
			if pos != keep {
				drop = append(drop, pos)
				report.ChosenDrop++
			}
		}
	}

	t.RemoveRows(drop)
	fmt.Fprintf(d.out, "Removed %d duplicate rows.\n", report.Removed())
	logger.LogInfo("Duplicates resolved",
		"keys", keys,
		"groups", report.Groups,
		"removed", report.Removed(),
		"unresolved", report.Unresolved,
	)
	return report
}

// chooseRow показывает строки группы и спрашивает, какую оставить
func (d *DuplicateResolver) chooseRow(t *dataset.Table, members []int) (int, bool) {
	fmt.Fprintln(d.out, "\nDuplicate rows differ in other columns:")
	options := make([]string, len(members))
	for i, pos := range members {
		options[i] = fmt.Sprintf("[%d] %s", pos, joinRow(t.Row(pos), ", "))
		fmt.Fprintln(d.out, options[i])
	}

	idx, err := d.prompter.AskSelect("Which row would you like to KEEP?", options)
	if err != nil || idx < 0 || idx >= len(members) {
		return 0, false
	}
	return members[idx], true
}

// groupByKey возвращает группы позиций с одинаковым ключом (больше одной строки)
// в порядке первого появления ключа
func groupByKey(t *dataset.Table, keyCols []int) [][]int {
	if len(keyCols) == 0 {
		return nil
	}
	index := make(map[string]int)
	var groups [][]int
	for row := 0; row < t.Len(); row++ {
		parts := make([]string, len(keyCols))
		for i, col := range keyCols {
			parts[i] = t.Cell(row, col).Key()
		}
		key := strings.Join(parts, "\x1e")
		if g, ok := index[key]; ok {
			groups[g] = append(groups[g], row)
			continue
		}
		index[key] = len(groups)
		groups = append(groups, []int{row})
	}

	out := groups[:0]
	for _, g := range groups {
		if len(g) > 1 {
			out = append(out, g)
		}
	}
	return out
}

// identicalRows сравнивает строки группы по всем колонкам
func identicalRows(t *dataset.Table, members []int) bool {
	first := members[0]
	for _, pos := range members[1:] {
		for col := 0; col < t.Width(); col++ {
			if !t.Cell(first, col).Equal(t.Cell(pos, col)) {
				return false
			}
		}
	}
	return true
}

func joinRow(row []dataset.Value, sep string) string {
	parts := make([]string, len(row))
	for i, v := range row {
		parts[i] = displayValue(v)
	}
	return strings.Join(parts, sep)
}

func displayValue(v dataset.Value) string {
	if v.IsAbsent() {
		return "NaN"
	}
	return v.String()
}
