// Package dataset содержит модель данных очистки: таблицу, значения ячеек,
// семантические типы колонок и контекст одного прогона pipeline.
package dataset

import (
	"math"
	"strconv"
	"strings"
	"time"
)

// ValueKind вид значения ячейки
type ValueKind int

const (
	// KindAbsent отсутствующее значение (не то же самое, что пустая строка)
	KindAbsent ValueKind = iota
	// KindText строковое значение
	KindText
	// KindNumber числовое значение
	KindNumber
	// KindBoolean логическое значение
	KindBoolean
	// KindTemporal дата/время
	KindTemporal
)

// String возвращает имя вида значения
func (k ValueKind) String() string {
	switch k {
	case KindAbsent:
		return "absent"
	case KindText:
		return "text"
	case KindNumber:
		return "number"
	case KindBoolean:
		return "boolean"
	case KindTemporal:
		return "temporal"
	default:
		return "unknown"
	}
}

// Value значение ячейки таблицы
type Value struct {
	kind ValueKind
	text string
	num  float64
	b    bool
	t    time.Time
}

// Absent создает отсутствующее значение
func Absent() Value {
	return Value{kind: KindAbsent}
}

// Text создает строковое значение
func Text(s string) Value {
	return Value{kind: KindText, text: s}
}

// Number создает числовое значение
func Number(f float64) Value {
	return Value{kind: KindNumber, num: f}
}

// Bool создает логическое значение
func Bool(b bool) Value {
	return Value{kind: KindBoolean, b: b}
}

// Temporal создает значение даты/времени
func Temporal(t time.Time) Value {
	return Value{kind: KindTemporal, t: t}
}

// Kind возвращает вид значения
func (v Value) Kind() ValueKind {
	return v.kind
}

// IsAbsent сообщает, отсутствует ли значение
func (v Value) IsAbsent() bool {
	return v.kind == KindAbsent
}

// AsText возвращает строку для KindText
func (v Value) AsText() (string, bool) {
	return v.text, v.kind == KindText
}

// AsNumber возвращает число для KindNumber
func (v Value) AsNumber() (float64, bool) {
	return v.num, v.kind == KindNumber
}

// AsBool возвращает логическое значение для KindBoolean
func (v Value) AsBool() (bool, bool) {
	return v.b, v.kind == KindBoolean
}

// AsTime возвращает время для KindTemporal
func (v Value) AsTime() (time.Time, bool) {
	return v.t, v.kind == KindTemporal
}

// String возвращает текстовое представление значения.
// Для отсутствующего значения возвращается пустая строка.
func (v Value) String() string {
	switch v.kind {
	case KindText:
		return v.text
	case KindNumber:
		return FormatNumber(v.num)
	case KindBoolean:
		if v.b {
			return "True"
		}
		return "False"
	case KindTemporal:
		return FormatTime(v.t)
	default:
		return ""
	}
}

// Equal сравнивает два значения с учетом вида.
// Два отсутствующих значения считаются равными.
func (v Value) Equal(other Value) bool {
	if v.kind != other.kind {
		return false
	}
	switch v.kind {
	case KindAbsent:
		return true
	case KindText:
		return v.text == other.text
	case KindNumber:
		return v.num == other.num
	case KindBoolean:
		return v.b == other.b
	case KindTemporal:
		return v.t.Equal(other.t)
	}
	return false
}

// Key возвращает ключ значения для группировки (вид + представление)
func (v Value) Key() string {
	return v.kind.String() + "\x1f" + v.String()
}

// FormatNumber форматирует число без экспоненты: 9876543210, 1500, 2.5
func FormatNumber(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// FormatTime форматирует время; полночь выводится только датой
func FormatTime(t time.Time) string {
	if t.Hour() == 0 && t.Minute() == 0 && t.Second() == 0 && t.Nanosecond() == 0 {
		return t.Format("2006-01-02")
	}
	return t.Format("2006-01-02 15:04:05")
}

// ParseNumber разбирает строку как число с плавающей точкой после обрезки пробелов
func ParseNumber(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}
