// Package headers проверяет и исправляет заголовки таблицы до любой типизированной обработки.
package headers

import (
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"

	"datacleaner/dataset"
	apperrors "datacleaner/errors"
	"datacleaner/logger"
	"datacleaner/prompts"
)

// PreviewSize число значений в предпросмотре колонки без имени
const PreviewSize = 5

var symbolsOrDigits = regexp.MustCompile(`[0-9@#$%^&*()\-+=|\\/<>\[\]{}]`)

// Action итог проверки заголовков
type Action string

const (
	// ActionConfirmed оператор подтвердил исходные заголовки
	ActionConfirmed Action = "confirmed"
	// ActionNamedPlaceholders оператор назвал колонки без имени
	ActionNamedPlaceholders Action = "named_placeholders"
	// ActionReplacedAll строка заголовков перенесена в данные, все имена введены заново
	ActionReplacedAll Action = "replaced_all"
	// ActionKept заголовки требуют правки, но вводить имена некому (пакетный режим)
	ActionKept Action = "kept"
)

// Result результат исправления заголовков
type Result struct {
	Action  Action   `json:"action"`
	Dropped []string `json:"dropped,omitempty"` // Удаленные пустые колонки без имени
	Before  []string `json:"before"`            // Заголовки после удаления пустых колонок
	After   []string `json:"after"`             // Итоговые заголовки
}

// Changed сообщает, изменились ли заголовки или состав колонок
func (r Result) Changed() bool {
	if len(r.Dropped) > 0 || len(r.Before) != len(r.After) {
		return true
	}
	for i := range r.Before {
		if r.Before[i] != r.After[i] {
			return true
		}
	}
	return false
}

// Repairer исправляет заголовки таблицы с подтверждением оператора
type Repairer struct {
	prompter prompts.Prompter
	out      io.Writer
}

// NewRepairer создает Repairer; out получает предпросмотр для оператора
func NewRepairer(p prompts.Prompter, out io.Writer) *Repairer {
	if out == nil {
		out = os.Stdout
	}
	return &Repairer{prompter: p, out: out}
}

// IsPlaceholder пустой заголовок или автоматически сгенерированный ("Unnamed: N")
func IsPlaceholder(header string) bool {
	h := strings.ToLower(strings.TrimSpace(header))
	return h == "" || strings.HasPrefix(h, "unnamed")
}

// HasSymbolsOrNumbers заголовок содержит цифры или служебные символы.
// Заголовки-заглушки не проверяются.
func HasSymbolsOrNumbers(header string) bool {
	if strings.HasPrefix(strings.ToLower(header), "unnamed") {
		return false
	}
	return symbolsOrDigits.MatchString(header)
}

// Repair исправляет заголовки таблицы на месте.
// Ошибка возвращается только если оператор не ввел новые имена колонок.
func (r *Repairer) Repair(t *dataset.Table) (Result, error) {
	fmt.Fprintln(r.out, "\nChecking headers...")
	var result Result

	// 1. пустые колонки без имени удаляются
	result.Dropped = r.dropEmptyPlaceholders(t)

	headers := t.Columns()
	result.Before = headers

	// 2. цифры и символы в заголовках: строка заголовков - это данные
	for _, h := range headers {
		if HasSymbolsOrNumbers(h) {
			fmt.Fprintf(r.out, "Invalid headers found (symbols/numbers): %v\n", headers)
			if prompts.IsNonInteractive(r.prompter) {
				return r.keep(t, result), nil
			}
			return r.replaceAll(t, result)
		}
	}

	// 3. колонки без имени, но с данными
	var missing []int
	for i, h := range headers {
		if IsPlaceholder(h) {
			missing = append(missing, i)
		}
	}
	if len(missing) > 0 {
		fmt.Fprintf(r.out, "Some headers are blank or unnamed: %v\n", missing)
		if prompts.IsNonInteractive(r.prompter) {
			return r.keep(t, result), nil
		}
		if !prompts.Confirmed(r.prompter, "Would you like to manually enter new headers?", true) {
			return r.replaceAll(t, result)
		}
		return r.namePlaceholders(t, missing, result)
	}

	// 4. подтверждение
	fmt.Fprintln(r.out, "Detected headers:")
	for i, h := range headers {
		fmt.Fprintf(r.out, "%d) %s\n", i+1, h)
	}
	fmt.Fprintln(r.out, "\nFirst row of data:")
	if t.Len() == 0 {
		fmt.Fprintln(r.out, "(no data rows)")
	} else {
		for i, h := range headers {
			fmt.Fprintf(r.out, "%s\t%s\n", h, displayValue(t.Cell(0, i)))
		}
	}

	if prompts.Confirmed(r.prompter, "Do the current headers look correct?", true) {
		result.Action = ActionConfirmed
		result.After = t.Columns()
		return result, nil
	}

	fmt.Fprintln(r.out, "Treating current headers as first row data.")
	return r.replaceAll(t, result)
}

// keep оставляет заголовки без изменений, когда ввести новые имена нельзя
func (r *Repairer) keep(t *dataset.Table, result Result) Result {
	logger.LogWarn("Header names cannot be entered in non-interactive mode, keeping headers", "headers", t.Columns())
	fmt.Fprintln(r.out, "Keeping current headers (non-interactive mode).")
	result.Action = ActionKept
	result.After = t.Columns()
	return result
}

func (r *Repairer) dropEmptyPlaceholders(t *dataset.Table) []string {
	var (
		indices []int
		names   []string
	)
	for i, h := range t.Columns() {
		if !IsPlaceholder(h) || !allAbsent(t.Column(i)) {
			continue
		}
		indices = append(indices, i)
		names = append(names, h)
	}
	if len(indices) == 0 {
		return nil
	}
	fmt.Fprintf(r.out, "Dropping %d fully empty columns: %v\n", len(names), names)
	logger.LogWarn("Dropping empty unnamed columns", "columns", names)
	t.DropColumns(indices)
	return names
}

// replaceAll переносит строку заголовков в данные и запрашивает имена всех колонок
func (r *Repairer) replaceAll(t *dataset.Table, result Result) (Result, error) {
	pushHeadersToRow(t)

	names, err := r.askNames(t.Width(), 0)
	if err != nil {
		return result, err
	}
	if err := t.SetHeaders(names); err != nil {
		return result, apperrors.NewFatalError("failed to set headers", err)
	}

	result.Action = ActionReplacedAll
	result.After = t.Columns()
	fmt.Fprintf(r.out, "Headers updated: %v\n", result.After)
	return result, nil
}

// namePlaceholders показывает первые значения каждой колонки без имени и запрашивает имя
func (r *Repairer) namePlaceholders(t *dataset.Table, missing []int, result Result) (Result, error) {
	names := t.Columns()
	for _, idx := range missing {
		fmt.Fprintf(r.out, "\nPreview of column %d (first %d cells):\n", idx, PreviewSize)
		for i, v := range t.Preview(idx, PreviewSize) {
			fmt.Fprintf(r.out, "  %d) %s\n", i+1, displayValue(v))
		}
		answer, err := r.askNames(1, idx)
		if err != nil {
			return result, err
		}
		names[idx] = answer[0]
	}

	if err := t.SetHeaders(Sanitize(names)); err != nil {
		return result, apperrors.NewFatalError("failed to set headers", err)
	}
	result.Action = ActionNamedPlaceholders
	result.After = t.Columns()
	fmt.Fprintf(r.out, "Headers updated: %v\n", result.After)
	return result, nil
}

// askNames запрашивает count имен; offset - индекс первой колонки
func (r *Repairer) askNames(count, offset int) ([]string, error) {
	labels := make([]string, count)
	for i := range labels {
		labels[i] = fmt.Sprintf("Enter name for column %d:", offset+i+1)
	}
	names, err := r.prompter.AskText(labels)
	if err != nil {
		return nil, apperrors.NewDeclinedError("no header names provided", err)
	}
	if count > 1 {
		return Sanitize(names), nil
	}
	return names, nil
}

// pushHeadersToRow вставляет текущие заголовки первой строкой данных.
// Заголовки-заглушки становятся отсутствующими значениями.
func pushHeadersToRow(t *dataset.Table) {
	headers := t.Columns()
	row := make([]dataset.Value, len(headers))
	for i, h := range headers {
		if IsPlaceholder(h) {
			row[i] = dataset.Absent()
		} else {
			row[i] = dataset.Text(h)
		}
	}
	t.InsertRow(0, row)
}

// Sanitize обрезает пробелы, заменяет пустые имена на column_N
// и добавляет суффикс _K повторяющимся именам
func Sanitize(names []string) []string {
	out := make([]string, len(names))
	used := make(map[string]bool, len(names))
	for i, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			name = fmt.Sprintf("column_%d", i+1)
		}
		candidate := name
		for k := 2; used[candidate]; k++ {
			candidate = fmt.Sprintf("%s_%d", name, k)
		}
		used[candidate] = true
		out[i] = candidate
	}
	return out
}

func allAbsent(values []dataset.Value) bool {
	for _, v := range values {
		if !v.IsAbsent() {
			return false
		}
	}
	return true
}

func displayValue(v dataset.Value) string {
	if v.IsAbsent() {
		return "NaN"
	}
	return v.String()
}
