// Package pipeline последовательно выполняет этапы очистки над одной таблицей:
// заголовки, типы, дубликаты, пропуски, нормализация.
package pipeline

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"datacleaner/database"
	"datacleaner/dataset"
	apperrors "datacleaner/errors"
	"datacleaner/headers"
	"datacleaner/importer"
	"datacleaner/inference"
	"datacleaner/internal/config"
	"datacleaner/logger"
	"datacleaner/normalization"
	"datacleaner/prompts"
	"datacleaner/quality"
)

// Имена этапов в логах и журнале аудита
const (
	StageLoad          = "load"
	StageHeaders       = "headers"
	StageInference     = "inference"
	StageDuplicates    = "duplicates"
	StageNulls         = "nulls"
	StageNormalization = "normalization"
	StageSave          = "save"
)

// Config настройки всех этапов
type Config struct {
	Import     importer.Options
	Engine     inference.EngineConfig
	Normalizer normalization.NormalizerConfig
}

// NewDefaultConfig создает конфигурацию по умолчанию
func NewDefaultConfig() Config {
	return Config{
		Engine:     inference.NewDefaultEngineConfig(),
		Normalizer: normalization.NewDefaultNormalizerConfig(),
	}
}

// ConfigFrom переносит настройки приложения в настройки этапов
func ConfigFrom(cfg *config.Config) Config {
	return Config{
		Import: importer.Options{Encoding: cfg.InputEncoding},
		Engine: inference.EngineConfig{
			SampleSize:        cfg.SampleSize,
			DateParseRatio:    cfg.DateParseRatio,
			CurrencyRatio:     cfg.CurrencyRatio,
			DefaultDateFormat: cfg.DefaultDateFormat,
			Overrides:         cfg.TypeOverrides,
		},
		Normalizer: normalization.NormalizerConfig{
			CountryCode:       cfg.DefaultCountryCode,
			TypoThreshold:     cfg.FuzzyThreshold,
			DefaultDateFormat: cfg.DefaultDateFormat,
		},
	}
}

// Summary итог прогона
type Summary struct {
	RunID       string                     `json:"run_id,omitempty"`
	Headers     headers.Result             `json:"headers"`
	Types       []inference.Inference      `json:"types"`
	Duplicates  quality.DuplicateReport    `json:"duplicates"`
	Nulls       quality.NullReport         `json:"nulls"`
	Corrections []dataset.CorrectionReport `json:"corrections"`
	OutputPath  string                     `json:"output_path,omitempty"`
}

// Pipeline драйвер этапов очистки
type Pipeline struct {
	recorder database.Recorder
	config   Config
	out      io.Writer

	repairer   *headers.Repairer
	engine     *inference.Engine
	duplicates *quality.DuplicateResolver
	nulls      *quality.NullAuditor
	normalizer *normalization.Normalizer
	exporter   *normalization.Exporter
}

// New создает pipeline; recorder может быть nil (журнал отключен)
func New(p prompts.Prompter, recorder database.Recorder, cfg Config, out io.Writer) *Pipeline {
	if recorder == nil {
		recorder = database.NopRecorder{}
	}
	if out == nil {
		out = os.Stdout
	}
	return &Pipeline{
		recorder:   recorder,
		config:     cfg,
		out:        out,
		repairer:   headers.NewRepairer(p, out),
		engine:     inference.NewEngine(nil, p, cfg.Engine, out),
		duplicates: quality.NewDuplicateResolver(p, out),
		nulls:      quality.NewNullAuditor(p, out),
		normalizer: normalization.NewNormalizer(cfg.Normalizer, out),
		exporter:   normalization.NewExporter(),
	}
}

type stage struct {
	name string
	run  func(pc *dataset.PipelineContext, s *Summary) error
}

func (p *Pipeline) stages() []stage {
	return []stage{
		{StageHeaders, func(pc *dataset.PipelineContext, s *Summary) error {
			result, err := p.repairer.Repair(pc.Table)
			s.Headers = result
			if err != nil {
				p.record(s.RunID, StageHeaders, "declined", result)
				return err
			}
			p.record(s.RunID, StageHeaders, string(result.Action), result)
			return nil
		}},
		{StageInference, func(pc *dataset.PipelineContext, s *Summary) error {
			s.Types = p.engine.Infer(pc)
			p.record(s.RunID, StageInference, "types_inferred", s.Types)
			if pc.DateFormat != "" {
				p.record(s.RunID, StageInference, "date_format", pc.DateFormat.Label())
			}
			return nil
		}},
		{StageDuplicates, func(pc *dataset.PipelineContext, s *Summary) error {
			s.Duplicates = p.duplicates.Resolve(pc)
			action := "resolved"
			if s.Duplicates.Skipped() {
				action = "skipped"
			}
			p.record(s.RunID, StageDuplicates, action, s.Duplicates)
			return nil
		}},
		{StageNulls, func(pc *dataset.PipelineContext, s *Summary) error {
			s.Nulls = p.nulls.Audit(pc)
			action := "none"
			switch {
			case s.Nulls.Deleted:
				action = "deleted"
			case len(s.Nulls.AffectedRows) > 0:
				action = "highlighted"
			}
			p.record(s.RunID, StageNulls, action, s.Nulls)
			return nil
		}},
		{StageNormalization, func(pc *dataset.PipelineContext, s *Summary) error {
			if err := p.normalizer.NormalizeColumns(pc); err != nil {
				return err
			}
			s.Corrections = pc.Corrections
			for _, report := range pc.Corrections {
				if report.Found() {
					p.record(s.RunID, StageNormalization, "categorical_corrected", report)
				}
			}
			return nil
		}},
	}
}

// Run выполняет этапы над таблицей контекста по порядку.
// Контекст проверяется только между этапами.
func (p *Pipeline) Run(ctx context.Context, pc *dataset.PipelineContext) (*Summary, error) {
	return p.run(ctx, pc, &Summary{})
}

func (p *Pipeline) run(ctx context.Context, pc *dataset.PipelineContext, summary *Summary) (*Summary, error) {
	for _, st := range p.stages() {
		if err := ctx.Err(); err != nil {
			return summary, apperrors.NewDeclinedError("cleaning cancelled", err).WithContext("before " + st.name)
		}

		logger.LogStageStart(st.name, pc.Table.Len(), pc.Table.Width())
		start := time.Now()
		if err := st.run(pc, summary); err != nil {
			logger.LogStageError(st.name, err)
			return summary, apperrors.WrapError(err, st.name+" stage failed")
		}
		logger.LogStageComplete(st.name, pc.Table.Len(), pc.Table.Width(), time.Since(start))
	}
	return summary, nil
}

// CleanFile загружает файл, выполняет этапы и сохраняет результат рядом с исходным
// файлом с суффиксом _cleaned. Прогон записывается в журнал аудита.
func (p *Pipeline) CleanFile(ctx context.Context, input string) (summary *Summary, err error) {
	summary = &Summary{}
	runID, recErr := p.recorder.StartRun(input)
	if recErr != nil {
		logger.LogWarn("Audit journal unavailable", "error", recErr)
	}
	summary.RunID = runID

	var pc *dataset.PipelineContext
	defer func() {
		outcome := database.RunOutcome{OutputPath: summary.OutputPath, Err: err}
		if pc != nil {
			outcome.Rows, outcome.Columns = pc.Table.Len(), pc.Table.Width()
		}
		if runID != "" {
			if ferr := p.recorder.FinishRun(runID, outcome); ferr != nil {
				logger.LogWarn("Failed to finish audit run", "run_id", runID, "error", ferr)
			}
		}
	}()

	table, err := importer.Load(input, p.config.Import)
	if err != nil {
		logger.LogStageError(StageLoad, err)
		return summary, err
	}
	p.record(runID, StageLoad, "loaded", map[string]int{"rows": table.Len(), "columns": table.Width()})

	pc = dataset.NewPipelineContext(table)
	if _, err = p.run(ctx, pc, summary); err != nil {
		return summary, err
	}

	output := normalization.OutputPath(input)
	if err = p.exporter.Save(pc, output); err != nil {
		logger.LogStageError(StageSave, err)
		return summary, err
	}
	summary.OutputPath = output
	p.record(runID, StageSave, "saved", map[string]any{"path": output, "highlighted_rows": pc.Highlight.Len()})
	fmt.Fprintf(p.out, "\nCleaned file saved to: %s\n", output)
	return summary, nil
}

// record пишет решение в журнал; сбой журнала не прерывает очистку
func (p *Pipeline) record(runID, stage, action string, detail any) {
	if runID == "" {
		return
	}
	if err := p.recorder.Record(runID, stage, action, detail); err != nil {
		logger.LogWarn("Failed to record audit decision", "stage", stage, "action", action, "error", err)
	}
}
