package normalization

import (
	"fmt"
	"io"
	"os"
	"strings"

	"datacleaner/dataset"
	apperrors "datacleaner/errors"
	"datacleaner/logger"
)

// NormalizerConfig настройки нормализаторов
type NormalizerConfig struct {
	CountryCode       string             // Код страны для телефонов без кода
	TypoThreshold     int                // Порог схожести для исправления опечаток (0..100)
	DefaultDateFormat dataset.DateFormat // Формат дат, если оператор его не выбирал
}

// NewDefaultNormalizerConfig создает конфигурацию по умолчанию
func NewDefaultNormalizerConfig() NormalizerConfig {
	return NormalizerConfig{
		CountryCode:       DefaultCountryCode,
		TypoThreshold:     DefaultTypoThreshold,
		DefaultDateFormat: dataset.DefaultDateFormat,
	}
}

// Normalizer применяет нормализатор каждой колонки по ее семантическому типу
type Normalizer struct {
	config    NormalizerConfig
	corrector *CategoricalCorrector
	out       io.Writer
}

// NewNormalizer создает диспетчер нормализаторов; out получает отчеты для оператора
func NewNormalizer(config NormalizerConfig, out io.Writer) *Normalizer {
	if out == nil {
		out = os.Stdout
	}
	if config.DefaultDateFormat == "" {
		config.DefaultDateFormat = dataset.DefaultDateFormat
	}
	return &Normalizer{
		config:    config,
		corrector: NewCategoricalCorrector(config.TypoThreshold),
		out:       out,
	}
}

// NormalizeColumns нормализует все колонки таблицы контекста на месте.
// Без карты типов этап пропускается. Отчеты корректора сохраняются в pc.Corrections.
func (n *Normalizer) NormalizeColumns(pc *dataset.PipelineContext) error {
	if pc.Types == nil {
		err := apperrors.NewMissingPreconditionError("no inferred types found, run type inference first")
		logger.LogWarn("Skipping normalization", "error", err)
		return nil
	}

	if removed := pc.Types.Sync(pc.Table); len(removed) > 0 {
		logger.LogDebug("Dropped stale type entries", "columns", removed)
	}

	t := pc.Table
	pc.Corrections = pc.Corrections[:0]
	for col, name := range t.Columns() {
		st := pc.Types[name]
		logger.LogDebug("Normalizing column", "column", name, "type", st.String())

		switch st {
		case dataset.TypePhone:
			t.MapColumn(col, func(v dataset.Value) dataset.Value {
				return Phone(v, n.config.CountryCode)
			})
		case dataset.TypeCurrency:
			fmt.Fprintf(n.out, "Assuming a single currency in column %q\n", name)
			t.MapColumn(col, Currency)
		case dataset.TypeBoolean:
			t.MapColumn(col, Boolean)
		case dataset.TypeText:
			if IsIdentifierColumn(name) {
				t.MapColumn(col, PlainText)
			} else {
				t.MapColumn(col, Text)
			}
		case dataset.TypePostal:
			t.MapColumn(col, Postal)
		case dataset.TypeDate:
			format := pc.EffectiveDateFormat(n.config.DefaultDateFormat)
			unparsed := 0
			t.MapColumn(col, func(v dataset.Value) dataset.Value {
				if _, ok := ParseDateValue(v); !ok && !v.IsAbsent() {
					unparsed++
				}
				return Date(v, format)
			})
			fmt.Fprintf(n.out, "Date normalization complete for %q using format: %s\n", name, format.Label())
			if unparsed > 0 {
				err := apperrors.NewRecoverableError(fmt.Sprintf("%d values are not dates", unparsed), nil)
				logger.LogWarn("Leaving unparsed values unchanged", "column", name, "error", err)
				fmt.Fprintf(n.out, "Could not parse %d values in %q as dates, left unchanged\n", unparsed, name)
			}
		case dataset.TypeCategorical:
			report := n.corrector.Correct(t, col)
			n.printReport(report)
			pc.Corrections = append(pc.Corrections, report)
		case dataset.TypeNumeric, dataset.TypeDatetime, dataset.TypeUnknown:
			// значения уже приведены при определении типов
		default:
			logger.LogWarn("No normalizer for semantic type", "column", name, "type", st.String())
		}
	}
	return nil
}

func (n *Normalizer) printReport(r dataset.CorrectionReport) {
	fmt.Fprintf(n.out, "\nChecking column: %s\n", r.Column)
	fmt.Fprintf(n.out, "Unique cleaned values (matching pattern): [%s]\n", strings.Join(r.Candidates, ", "))
	if !r.Found() {
		fmt.Fprintf(n.out, "No typos found to fix in column: %s\n", r.Column)
		return
	}
	fmt.Fprintln(n.out, "Auto-corrected fuzzy typos:")
	for _, c := range r.Corrections {
		fmt.Fprintf(n.out, "  - '%s' -> '%s'\n", c.From, c.To)
	}
}
