// Package inference определяет семантический тип каждой колонки и выполняет
// первичное приведение значений.
package inference

import (
	"net/mail"
	"regexp"
	"strings"

	"datacleaner/dataset"
	"datacleaner/normalization"
)

// CoarseType грубый тип колонки, предлагаемый профилировщиком
type CoarseType string

const (
	CoarseText        CoarseType = "Text"
	CoarseCategorical CoarseType = "Categorical"
	CoarseNumeric     CoarseType = "Numeric"
	CoarseDateTime    CoarseType = "DateTime"
	CoarseBoolean     CoarseType = "Boolean"
	CoarseUnsupported CoarseType = "Unsupported"
)

// Profile сигнал профилировщика для одной колонки
type Profile struct {
	Tags []string   // Семантические теги (например "string", "date"); первый тег - основной
	Type CoarseType // Предлагаемый грубый тип
}

// Profiler внешний источник сигнала о типе колонки
type Profiler interface {
	Profile(column string, values []dataset.Value) Profile
}

// Пороги встроенного профилировщика
const (
	stringTagRatio      = 0.8
	dateTimeRatio       = 0.9
	categoricalRatio    = 0.5
	maxCategoricalCount = 50
)

var (
	urlPattern        = regexp.MustCompile(`(?i)^(https?://|www\.)\S+$`)
	booleanVocabulary = map[string]bool{
		"true": true, "false": true, "yes": true, "no": true,
		"t": true, "f": true, "y": true, "n": true,
	}
)

// HeuristicProfiler профилировщик по содержимому колонки
type HeuristicProfiler struct {
	SampleSize int
}

// NewHeuristicProfiler создает профилировщик
func NewHeuristicProfiler(sampleSize int) *HeuristicProfiler {
	if sampleSize <= 0 {
		sampleSize = DefaultSampleSize
	}
	return &HeuristicProfiler{SampleSize: sampleSize}
}

// Profile вычисляет теги и грубый тип колонки
func (p *HeuristicProfiler) Profile(column string, values []dataset.Value) Profile {
	present := nonAbsent(values)
	if len(present) == 0 {
		return Profile{Type: CoarseUnsupported}
	}

	var profile Profile
	if ratio(sample(present, p.SampleSize), looksLikeAddress) >= stringTagRatio {
		profile.Tags = append(profile.Tags, "string")
	}

	switch {
	case all(present, isBooleanToken):
		profile.Type = CoarseBoolean
	case all(present, isNumeric):
		profile.Type = CoarseNumeric
	case ratio(present, isDate) >= dateTimeRatio:
		profile.Type = CoarseDateTime
	case isCategorical(present):
		profile.Type = CoarseCategorical
	default:
		profile.Type = CoarseText
	}
	return profile
}

func isCategorical(present []dataset.Value) bool {
	distinct := make(map[string]struct{})
	for _, v := range present {
		distinct[strings.ToLower(strings.TrimSpace(v.String()))] = struct{}{}
	}
	return len(distinct) <= maxCategoricalCount &&
		float64(len(distinct)) <= categoricalRatio*float64(len(present))
}

func looksLikeAddress(v dataset.Value) bool {
	s := strings.TrimSpace(v.String())
	if urlPattern.MatchString(s) {
		return true
	}
	addr, err := mail.ParseAddress(s)
	return err == nil && addr.Address == s
}

func isBooleanToken(v dataset.Value) bool {
	if v.Kind() == dataset.KindBoolean {
		return true
	}
	s, ok := v.AsText()
	return ok && booleanVocabulary[strings.ToLower(strings.TrimSpace(s))]
}

func isNumeric(v dataset.Value) bool {
	if v.Kind() == dataset.KindNumber {
		return true
	}
	s, ok := v.AsText()
	if !ok {
		return false
	}
	_, ok = dataset.ParseNumber(s)
	return ok
}

func isDate(v dataset.Value) bool {
	_, ok := normalization.ParseDateValue(v)
	return ok
}

func nonAbsent(values []dataset.Value) []dataset.Value {
	out := make([]dataset.Value, 0, len(values))
	for _, v := range values {
		if !v.IsAbsent() {
			out = append(out, v)
		}
	}
	return out
}

// sample первые n значений
func sample(values []dataset.Value, n int) []dataset.Value {
	if n > 0 && len(values) > n {
		return values[:n]
	}
	return values
}

func ratio(values []dataset.Value, pred func(dataset.Value) bool) float64 {
	if len(values) == 0 {
		return 0
	}
	return float64(count(values, pred)) / float64(len(values))
}

func count(values []dataset.Value, pred func(dataset.Value) bool) int {
	n := 0
	for _, v := range values {
		if pred(v) {
			n++
		}
	}
	return n
}

func all(values []dataset.Value, pred func(dataset.Value) bool) bool {
	return count(values, pred) == len(values)
}
