package normalization

import (
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"datacleaner/dataset"
)

// DefaultCountryCode код страны для телефонов без явного кода
const DefaultCountryCode = "91"

var (
	nonDigit         = regexp.MustCompile(`\D`)
	nonNumericSymbol = regexp.MustCompile(`[^0-9.\-]`)
	urlLike          = regexp.MustCompile(`(?i)http|www|\.\w{2,}$`)
	identifierColumn = regexp.MustCompile(`(?i)email|e-mail|mail|username|user_name|site|url|link`)
)

var (
	trueTokens  = map[string]bool{"true": true, "t": true, "yes": true, "y": true, "1": true}
	falseTokens = map[string]bool{"false": true, "f": true, "no": true, "n": true, "0": true}
)

// Phone приводит номер к виду "+<код> <10 цифр>".
// Меньше 10 цифр - значение не меняется. Без кода страны подставляется countryCode.
// Ведущие нули кода (международный префикс 00, междугородний 0) отбрасываются.
func Phone(v dataset.Value, countryCode string) dataset.Value {
	if v.IsAbsent() {
		return v
	}
	digits := nonDigit.ReplaceAllString(v.String(), "")
	if len(digits) < 10 {
		return v
	}
	number := digits[len(digits)-10:]
	code := strings.TrimLeft(digits[:len(digits)-10], "0")
	if code == "" {
		code = countryCode
	}
	if code == "" {
		code = DefaultCountryCode
	}
	return dataset.Text("+" + code + " " + number)
}

// Currency разбирает денежное значение с учетом суффиксов k/thousand и m/million.
// Проценты и неразбираемые значения не меняются, числа пропускаются как есть.
func Currency(v dataset.Value) dataset.Value {
	s, ok := v.AsText()
	if !ok {
		return v
	}
	s = strings.TrimSpace(s)
	if strings.HasSuffix(s, "%") {
		return v
	}

	multiplier := 1.0
	lower := strings.ToLower(s)
	switch {
	case strings.Contains(lower, "k") || strings.Contains(lower, "thousand"):
		multiplier = 1_000
	case strings.Contains(lower, "m") || strings.Contains(lower, "million"):
		multiplier = 1_000_000
	}

	f, err := strconv.ParseFloat(nonNumericSymbol.ReplaceAllString(s, ""), 64)
	if err != nil {
		return v
	}
	return dataset.Number(f * multiplier)
}

// Boolean распознает логические значения; неоднозначные значения не меняются
func Boolean(v dataset.Value) dataset.Value {
	if v.IsAbsent() || v.Kind() == dataset.KindBoolean {
		return v
	}
	token := strings.ToLower(strings.TrimSpace(v.String()))
	switch {
	case trueTokens[token]:
		return dataset.Bool(true)
	case falseTokens[token]:
		return dataset.Bool(false)
	}

	// короткие токены: по первому символу
	if len(token) > 0 && len(token) <= 4 {
		switch token[0] {
		case 't', 'y', '1':
			return dataset.Bool(true)
		case 'f', 'n', '0':
			return dataset.Bool(false)
		}
	}
	return v
}

// Postal обрезает пробелы по краям
func Postal(v dataset.Value) dataset.Value {
	switch v.Kind() {
	case dataset.KindAbsent:
		return v
	case dataset.KindText:
		s, _ := v.AsText()
		return dataset.Text(strings.TrimSpace(s))
	default:
		return dataset.Text(strings.TrimSpace(v.String()))
	}
}

// IsIdentifierColumn колонки с адресами и логинами не приводятся к заглавным буквам
func IsIdentifierColumn(name string) bool {
	return identifierColumn.MatchString(name)
}

// Text приводит текст к виду "Каждое Слово С Заглавной", если значение не похоже
// на адрес, путь или идентификатор
func Text(v dataset.Value) dataset.Value {
	s, ok := v.AsText()
	if !ok || !safeForTitle(s) {
		return v
	}
	return dataset.Text(titleCase(s))
}

// PlainText приводит значение к строке без изменения регистра
func PlainText(v dataset.Value) dataset.Value {
	if v.IsAbsent() || v.Kind() == dataset.KindText {
		return v
	}
	return dataset.Text(v.String())
}

func safeForTitle(s string) bool {
	if strings.ContainsAny(s, `@/\_`) {
		return false
	}
	return !urlLike.MatchString(s)
}

func titleCase(s string) string {
	return cases.Title(language.Und).String(s)
}
