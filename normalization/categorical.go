package normalization

import (
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"

	"datacleaner/dataset"
	"datacleaner/normalization/algorithms"
)

// DefaultTypoThreshold минимальная схожесть (0..100) для исправления опечатки
const DefaultTypoThreshold = 85

var lettersAndSpaces = regexp.MustCompile(`^[a-zA-Z\s]+$`)

// CategoricalCorrector исправляет редкие опечатки в категориальной колонке,
// заменяя их на похожее частое значение
type CategoricalCorrector struct {
	Threshold int
	metrics   *algorithms.SimilarityMetrics
}

// NewCategoricalCorrector создает корректор с порогом схожести
func NewCategoricalCorrector(threshold int) *CategoricalCorrector {
	if threshold <= 0 {
		threshold = DefaultTypoThreshold
	}
	return &CategoricalCorrector{
		Threshold: threshold,
		metrics:   algorithms.NewSimilarityMetrics(),
	}
}

// cleanCategory приводит значение к форме для сравнения
func cleanCategory(v dataset.Value) string {
	return strings.ToLower(strings.TrimSpace(norm.NFC.String(v.String())))
}

// Correct исправляет колонку col на месте и возвращает отчет.
// Все непустые значения записываются обратно в виде "С Заглавной".
func (c *CategoricalCorrector) Correct(t *dataset.Table, col int) dataset.CorrectionReport {
	report := dataset.CorrectionReport{Column: t.Columns()[col]}

	// 1-2. очищенные значения по позициям строк, отсутствующие пропускаются
	cleaned := make(map[int]string, t.Len())
	order := make([]string, 0, t.Len())
	freq := make(map[string]int)
	for row := 0; row < t.Len(); row++ {
		v := t.Cell(row, col)
		if v.IsAbsent() {
			continue
		}
		s := cleanCategory(v)
		cleaned[row] = s
		if freq[s] == 0 {
			order = append(order, s)
		}
		freq[s]++
	}

	// 3-4. кандидаты (только буквы и пробелы) и частые значения в порядке появления
	for _, s := range order {
		if lettersAndSpaces.MatchString(s) {
			report.Candidates = append(report.Candidates, s)
		}
		if freq[s] > 1 {
			report.Anchors = append(report.Anchors, s)
		}
	}

	// 5. для редких кандидатов ищем лучший якорь; при равенстве побеждает первый
	corrections := make(map[string]string)
	for _, candidate := range report.Candidates {
		if freq[candidate] > 1 {
			continue
		}
		best, bestScore := "", 0
		for _, anchor := range report.Anchors {
			score := c.metrics.Ratio(candidate, anchor)
			if score >= c.Threshold && score > bestScore {
				best, bestScore = anchor, score
			}
		}
		if best != "" {
			corrections[candidate] = best
			report.Corrections = append(report.Corrections, dataset.Correction{From: candidate, To: best})
		}
	}

	// 6. применение и запись обратно
	for row, s := range cleaned {
		if target, ok := corrections[s]; ok {
			s = target
		}
		t.Set(row, col, dataset.Text(titleCase(s)))
	}
	return report
}
