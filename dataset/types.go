package dataset

import (
	"fmt"
	"strings"
)

// SemanticType семантический тип колонки
type SemanticType int

const (
	TypeUnknown SemanticType = iota
	TypeText
	TypeNumeric
	TypeDate
	TypeDatetime
	TypePhone
	TypeCurrency
	TypeBoolean
	TypePostal
	TypeCategorical
)

var semanticTypeNames = map[SemanticType]string{
	TypeUnknown:     "unknown",
	TypeText:        "text",
	TypeNumeric:     "numeric",
	TypeDate:        "date",
	TypeDatetime:    "datetime",
	TypePhone:       "phone",
	TypeCurrency:    "currency",
	TypeBoolean:     "boolean",
	TypePostal:      "postal",
	TypeCategorical: "categorical",
}

// String возвращает имя типа
func (t SemanticType) String() string {
	if name, ok := semanticTypeNames[t]; ok {
		return name
	}
	return "unknown"
}

// MarshalText сериализует тип по имени
func (t SemanticType) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// UnmarshalText разбирает тип по имени
func (t *SemanticType) UnmarshalText(data []byte) error {
	st, err := ParseSemanticType(string(data))
	if err != nil {
		return err
	}
	*t = st
	return nil
}

// ParseSemanticType разбирает имя типа без учета регистра
func ParseSemanticType(s string) (SemanticType, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for t, name := range semanticTypeNames {
		if name == s {
			return t, nil
		}
	}
	return TypeUnknown, fmt.Errorf("unknown semantic type: %q", s)
}

// TypeMap соответствие колонка -> семантический тип
type TypeMap map[string]SemanticType

// Get возвращает тип колонки и признак наличия записи
func (m TypeMap) Get(column string) (SemanticType, bool) {
	t, ok := m[column]
	return t, ok
}

// Sync удаляет записи для колонок, которых больше нет в таблице, и добавляет
// TypeUnknown для колонок без записи. Возвращает имена удаленных записей.
func (m TypeMap) Sync(t *Table) []string {
	present := make(map[string]bool, t.Width())
	for _, c := range t.Columns() {
		present[c] = true
		if _, ok := m[c]; !ok {
			m[c] = TypeUnknown
		}
	}
	var removed []string
	for col := range m {
		if !present[col] {
			delete(m, col)
			removed = append(removed, col)
		}
	}
	return removed
}

// DateFormat формат вывода дат, выбираемый оператором
type DateFormat string

const (
	DateFormatYMD     DateFormat = "%Y/%m/%d"
	DateFormatDMY     DateFormat = "%d/%m/%Y"
	DateFormatISO     DateFormat = "%Y-%m-%d"
	DefaultDateFormat            = DateFormatDMY
)

// DateFormats перечисление допустимых форматов в порядке показа оператору
var DateFormats = []DateFormat{DateFormatYMD, DateFormatDMY, DateFormatISO}

// Layout возвращает Go-раскладку для формата
func (f DateFormat) Layout() string {
	switch f {
	case DateFormatYMD:
		return "2006/01/02"
	case DateFormatISO:
		return "2006-01-02"
	default:
		return "02/01/2006"
	}
}

// Label возвращает человекочитаемое имя формата
func (f DateFormat) Label() string {
	switch f {
	case DateFormatYMD:
		return "yyyy/mm/dd"
	case DateFormatDMY:
		return "dd/mm/yyyy"
	case DateFormatISO:
		return "yyyy-mm-dd"
	default:
		return string(f)
	}
}

// ParseDateFormat проверяет токен формата
func ParseDateFormat(s string) (DateFormat, error) {
	for _, f := range DateFormats {
		if string(f) == s || f.Label() == strings.ToLower(s) {
			return f, nil
		}
	}
	return "", fmt.Errorf("unsupported date format: %q", s)
}
