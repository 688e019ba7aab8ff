package normalization

import (
	"regexp"
	"strings"
	"time"

	"github.com/araddon/dateparse"

	"datacleaner/dataset"
)

var (
	// Фрагменты, похожие на дату, внутри произвольного текста
	numericDatePattern = regexp.MustCompile(`\d{1,4}[./-]\d{1,2}[./-]\d{1,4}`)
	dayMonthPattern    = regexp.MustCompile(`(?i)\d{1,2}\s+(jan|feb|mar|apr|may|jun|jul|aug|sep|sept|oct|nov|dec)[a-z]*\.?,?\s+\d{2,4}`)
	monthDayPattern    = regexp.MustCompile(`(?i)(jan|feb|mar|apr|may|jun|jul|aug|sep|sept|oct|nov|dec)[a-z]*\.?\s+\d{1,2},?\s+\d{2,4}`)
	ordinalPattern     = regexp.MustCompile(`(?i)(\d{1,2})(st|nd|rd|th)\b`)
	hasSeparatorOrWord = regexp.MustCompile(`[./\-:\s]|[a-zA-Z]`)
)

var dayFirst = []dateparse.ParserOption{
	dateparse.PreferMonthFirst(false),
	dateparse.RetryAmbiguousDateWithSwap(true),
}

// ParseDate разбирает дату из строки: сначала строка целиком (день раньше месяца
// при неоднозначности), затем первый похожий на дату фрагмент внутри текста.
// Строки, которые разбираются как число, датами не считаются.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" || !hasSeparatorOrWord.MatchString(s) {
		return time.Time{}, false
	}
	if _, isNumber := dataset.ParseNumber(s); isNumber {
		return time.Time{}, false
	}
	s = ordinalPattern.ReplaceAllString(s, "$1")

	if t, err := dateparse.ParseIn(s, time.UTC, dayFirst...); err == nil {
		return t, true
	}

	for _, p := range []*regexp.Regexp{numericDatePattern, dayMonthPattern, monthDayPattern} {
		fragment := p.FindString(s)
		if fragment == "" {
			continue
		}
		if t, err := dateparse.ParseIn(fragment, time.UTC, dayFirst...); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// ParseDateValue разбирает дату из значения ячейки.
// Числа и логические значения датами не считаются.
func ParseDateValue(v dataset.Value) (time.Time, bool) {
	switch v.Kind() {
	case dataset.KindTemporal:
		t, _ := v.AsTime()
		return t, true
	case dataset.KindText:
		s, _ := v.AsText()
		return ParseDate(s)
	default:
		return time.Time{}, false
	}
}

// FormatDate форматирует дату в выбранном формате вывода
func FormatDate(t time.Time, f dataset.DateFormat) string {
	return t.Format(f.Layout())
}

// Date нормализует значение даты в формат f; неразобранные значения не меняются
func Date(v dataset.Value, f dataset.DateFormat) dataset.Value {
	if v.IsAbsent() {
		return v
	}
	t, ok := ParseDateValue(v)
	if !ok {
		return v
	}
	return dataset.Text(FormatDate(t, f))
}
