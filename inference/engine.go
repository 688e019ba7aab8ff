package inference

import (
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"

	"datacleaner/dataset"
	"datacleaner/logger"
	"datacleaner/normalization"
	"datacleaner/prompts"
)

// Значения по умолчанию для выборок
const (
	DefaultSampleSize     = 30
	DefaultDateParseRatio = 0.8
	DefaultCurrencyRatio  = 0.6
)

var (
	dateColumn     = regexp.MustCompile(`(?i)date`)
	phoneColumn    = regexp.MustCompile(`(?i)phone|ph\s*no|contact`)
	moneyColumn    = regexp.MustCompile(`(?i)salary|price|amount|cost|currency`)
	currencyMarker = regexp.MustCompile(`(?i)[$₹€£]|USD|INR|Rs`)
	whitespace     = regexp.MustCompile(`\s+`)
	nonDigit       = regexp.MustCompile(`\D`)
)

// EngineConfig настройки определения типов
type EngineConfig struct {
	SampleSize        int                             // Размер выборки для проверок по содержимому
	DateParseRatio    float64                         // Доля разобранных дат для типа date
	CurrencyRatio     float64                         // Доля значений с валютой для типа currency
	DefaultDateFormat dataset.DateFormat              // Формат, если оператор не выбрал свой
	Overrides         map[string]dataset.SemanticType // Типы, заданные оператором
}

// NewDefaultEngineConfig создает конфигурацию по умолчанию
func NewDefaultEngineConfig() EngineConfig {
	return EngineConfig{
		SampleSize:        DefaultSampleSize,
		DateParseRatio:    DefaultDateParseRatio,
		CurrencyRatio:     DefaultCurrencyRatio,
		DefaultDateFormat: dataset.DefaultDateFormat,
	}
}

// Inference решение о типе одной колонки
type Inference struct {
	Column string               `json:"column"`
	Type   dataset.SemanticType `json:"type"`
	Reason string               `json:"reason"`
}

// Engine определяет семантические типы колонок
type Engine struct {
	profiler Profiler
	prompter prompts.Prompter
	config   EngineConfig
	out      io.Writer
}

// NewEngine создает движок определения типов
func NewEngine(profiler Profiler, prompter prompts.Prompter, config EngineConfig, out io.Writer) *Engine {
	if config.SampleSize <= 0 {
		config.SampleSize = DefaultSampleSize
	}
	if config.DateParseRatio <= 0 {
		config.DateParseRatio = DefaultDateParseRatio
	}
	if config.CurrencyRatio <= 0 {
		config.CurrencyRatio = DefaultCurrencyRatio
	}
	if config.DefaultDateFormat == "" {
		config.DefaultDateFormat = dataset.DefaultDateFormat
	}
	if profiler == nil {
		profiler = NewHeuristicProfiler(config.SampleSize)
	}
	if out == nil {
		out = os.Stdout
	}
	return &Engine{profiler: profiler, prompter: prompter, config: config, out: out}
}

// Infer заполняет pc.Types и приводит значения колонок.
// Правила проверяются по порядку, первое сработавшее решает тип.
func (e *Engine) Infer(pc *dataset.PipelineContext) []Inference {
	fmt.Fprintln(e.out, "\nAnalyzing column types...")
	t := pc.Table

	for col, name := range t.Columns() {
		if _, ok := e.config.Overrides[name]; !ok {
			coerceDigitColumn(t, col)
		}
	}

	pc.Types = make(dataset.TypeMap, t.Width())
	decisions := make([]Inference, 0, t.Width())
	for col, name := range t.Columns() {
		var (
			st     dataset.SemanticType
			reason string
		)
		if override, ok := e.config.Overrides[name]; ok {
			t.MapColumn(col, trimText)
			e.applyOverride(pc, col, override)
			st, reason = override, "operator override"
		} else {
			profile := e.profiler.Profile(name, t.Column(col))
			t.MapColumn(col, trimText)
			st, reason = e.inferColumn(pc, col, name, profile)
		}

		pc.Types[name] = st
		decisions = append(decisions, Inference{Column: name, Type: st, Reason: reason})
		logger.LogColumnType(name, st.String(), reason)
		fmt.Fprintf(e.out, "Detected '%s' as %s (%s)\n", name, st, reason)
	}

	for name := range e.config.Overrides {
		if t.ColumnIndex(name) < 0 {
			logger.LogWarn("Type override for unknown column ignored", "column", name)
		}
	}
	return decisions
}

func (e *Engine) inferColumn(pc *dataset.PipelineContext, col int, name string, profile Profile) (dataset.SemanticType, string) {
	t := pc.Table
	primary := ""
	if len(profile.Tags) > 0 {
		primary = strings.ToLower(profile.Tags[0])
	}

	switch {
	case hasTag(profile.Tags, "date") || dateColumn.MatchString(name):
		present := sample(nonAbsent(t.Column(col)), e.config.SampleSize)
		parsed := count(present, isDate)
		if len(present) > 0 && float64(parsed) >= e.config.DateParseRatio*float64(len(present)) {
			format := e.dateFormat(pc)
			t.MapColumn(col, func(v dataset.Value) dataset.Value {
				return normalization.Date(v, format)
			})
			return dataset.TypeDate, "semantic: date"
		}
		// дата не подтвердилась: дальше только правила по имени и запасной тип
	case strings.Contains(primary, "text") || strings.Contains(primary, "string"):
		t.MapColumn(col, toText)
		return dataset.TypeText, "semantic: " + profile.Tags[0]
	case strings.Contains(primary, "numeric"):
		t.MapColumn(col, toNumber)
		return dataset.TypeNumeric, "semantic: " + profile.Tags[0]
	}

	if phoneColumn.MatchString(name) {
		return dataset.TypePhone, "phone column name"
	}

	present := sample(nonAbsent(t.Column(col)), e.config.SampleSize)
	marked := count(present, func(v dataset.Value) bool { return currencyMarker.MatchString(v.String()) })
	if (len(present) > 0 && float64(marked) >= e.config.CurrencyRatio*float64(len(present))) || moneyColumn.MatchString(name) {
		logger.LogWarn("Assumed all values are of the same currency", "column", name)
		fmt.Fprintf(e.out, "Assumed all values in '%s' are of the same currency\n", name)
		return dataset.TypeCurrency, "currency name/content"
	}

	reason := fmt.Sprintf("fallback type %s", profile.Type)
	switch strings.ToLower(string(profile.Type)) {
	case "text", "string":
		t.MapColumn(col, toText)
		return dataset.TypeText, reason
	case "categorical":
		t.MapColumn(col, toText)
		return dataset.TypeCategorical, reason
	case "numeric", "integer", "float":
		t.MapColumn(col, func(v dataset.Value) dataset.Value {
			if v.Kind() == dataset.KindText {
				v = dataset.Text(whitespace.ReplaceAllString(v.String(), ""))
			}
			return toNumber(v)
		})
		return dataset.TypeNumeric, reason
	case "datetime":
		t.MapColumn(col, toTemporal)
		return dataset.TypeDatetime, reason
	case "boolean":
		return dataset.TypeBoolean, reason
	default:
		logger.LogWarn("Column has unclear type, leaving unchanged", "column", name, "type", string(profile.Type))
		return dataset.TypeUnknown, reason
	}
}

// applyOverride приводит исходные значения колонки к типу, заданному оператором.
// Типы без приведения (postal, phone, currency, boolean) остаются текстом для нормализатора.
func (e *Engine) applyOverride(pc *dataset.PipelineContext, col int, st dataset.SemanticType) {
	t := pc.Table
	switch st {
	case dataset.TypeDate:
		format := e.dateFormat(pc)
		t.MapColumn(col, func(v dataset.Value) dataset.Value {
			return normalization.Date(v, format)
		})
	case dataset.TypeText, dataset.TypeCategorical:
		t.MapColumn(col, toText)
	case dataset.TypeNumeric:
		t.MapColumn(col, toNumber)
	case dataset.TypeDatetime:
		t.MapColumn(col, toTemporal)
	}
}

// dateFormat возвращает формат дат прогона; спрашивает оператора один раз
func (e *Engine) dateFormat(pc *dataset.PipelineContext) dataset.DateFormat {
	if pc.DateFormat != "" {
		return pc.DateFormat
	}
	format, err := e.prompter.AskDateFormat(dataset.DateFormats)
	if err != nil || format == "" {
		logger.LogWarn("Date format not chosen, using default", "format", string(e.config.DefaultDateFormat))
		format = e.config.DefaultDateFormat
	}
	pc.DateFormat = format
	return format
}

// coerceDigitColumn если все значения колонки состоят из цифр (пробелы не в счет),
// оставляет только цифры и приводит к числу
func coerceDigitColumn(t *dataset.Table, col int) {
	values := nonAbsent(t.Column(col))
	if len(values) == 0 || !all(values, isDigitString) {
		return
	}
	t.MapColumn(col, func(v dataset.Value) dataset.Value {
		if v.Kind() != dataset.KindText {
			return v
		}
		return toNumber(dataset.Text(nonDigit.ReplaceAllString(v.String(), "")))
	})
}

func isDigitString(v dataset.Value) bool {
	switch v.Kind() {
	case dataset.KindNumber:
		f, _ := v.AsNumber()
		return f >= 0 && f == float64(int64(f))
	case dataset.KindText:
		s := strings.ReplaceAll(strings.TrimSpace(v.String()), " ", "")
		if s == "" {
			return false
		}
		for _, r := range s {
			if r < '0' || r > '9' {
				return false
			}
		}
		return true
	default:
		return false
	}
}

func hasTag(tags []string, want string) bool {
	for _, tag := range tags {
		if strings.Contains(strings.ToLower(tag), want) {
			return true
		}
	}
	return false
}

func trimText(v dataset.Value) dataset.Value {
	if s, ok := v.AsText(); ok {
		return dataset.Text(strings.TrimSpace(s))
	}
	return v
}

// toText приводит значение к строке; отсутствующие значения остаются отсутствующими
func toText(v dataset.Value) dataset.Value {
	if v.IsAbsent() || v.Kind() == dataset.KindText {
		return v
	}
	return dataset.Text(v.String())
}

// toNumber разбирает число; неразобранные значения становятся отсутствующими
func toNumber(v dataset.Value) dataset.Value {
	switch v.Kind() {
	case dataset.KindNumber, dataset.KindAbsent:
		return v
	case dataset.KindBoolean:
		if b, _ := v.AsBool(); b {
			return dataset.Number(1)
		}
		return dataset.Number(0)
	}
	if f, ok := dataset.ParseNumber(v.String()); ok {
		return dataset.Number(f)
	}
	return dataset.Absent()
}

// toTemporal разбирает дату; неразобранные значения становятся отсутствующими
func toTemporal(v dataset.Value) dataset.Value {
	if v.IsAbsent() {
		return v
	}
	if tm, ok := normalization.ParseDateValue(v); ok {
		return dataset.Temporal(tm)
	}
	return dataset.Absent()
}
