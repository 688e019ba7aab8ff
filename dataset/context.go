package dataset

// Correction одно примененное исправление категориального значения
type Correction struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// CorrectionReport отчет об исправлениях в одной категориальной колонке
type CorrectionReport struct {
	Column      string       `json:"column"`
	Candidates  []string     `json:"candidates"`
	Anchors     []string     `json:"anchors"`
	Corrections []Correction `json:"corrections"`
}

// Found сообщает, были ли найдены исправления
func (r CorrectionReport) Found() bool {
	return len(r.Corrections) > 0
}

// PipelineContext явный контекст прогона: таблица и прикрепленные к ней метаданные.
// Принадлежит драйверу pipeline на время одного прогона.
type PipelineContext struct {
	Table *Table

	// Types заполняется на этапе определения типов, далее только читается
	Types TypeMap

	// Highlight заполняется аудитом пропусков, читается только при сохранении
	Highlight *HighlightSet

	// DateFormat выбранный оператором формат дат (пустой, если не выбирался)
	DateFormat DateFormat

	// Corrections отчеты корректора категорий по колонкам
	Corrections []CorrectionReport
}

// NewPipelineContext создает контекст для таблицы
func NewPipelineContext(t *Table) *PipelineContext {
	return &PipelineContext{Table: t}
}

// EffectiveDateFormat возвращает выбранный формат или запасной
func (pc *PipelineContext) EffectiveDateFormat(fallback DateFormat) DateFormat {
	if pc.DateFormat != "" {
		return pc.DateFormat
	}
	if fallback != "" {
		return fallback
	}
	return DefaultDateFormat
}
