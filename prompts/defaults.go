package prompts

import (
	"datacleaner/dataset"
	"datacleaner/logger"
)

// DefaultsPrompter пакетный режим: подтверждения получают ответ по умолчанию,
// выбор строки - первый вариант, свободный текст и множественный выбор отклоняются.
type DefaultsPrompter struct {
	DateFormat dataset.DateFormat
}

// NewDefaultsPrompter создает Prompter для пакетного режима
func NewDefaultsPrompter(dateFormat dataset.DateFormat) *DefaultsPrompter {
	return &DefaultsPrompter{DateFormat: dateFormat}
}

// NonInteractive всегда true
func (p *DefaultsPrompter) NonInteractive() bool {
	return true
}

// Confirm возвращает ответ по умолчанию
func (p *DefaultsPrompter) Confirm(question string, def bool) (bool, error) {
	logger.LogInfo("Non-interactive answer", "question", question, "answer", def)
	return def, nil
}

// AskText в пакетном режиме недоступен
func (p *DefaultsPrompter) AskText(labels []string) ([]string, error) {
	logger.LogWarn("Free-text input is not available in non-interactive mode", "prompts", len(labels))
	return nil, ErrDeclined
}

// AskMultiSelect в пакетном режиме ничего не выбирает
func (p *DefaultsPrompter) AskMultiSelect(message string, options []string) ([]string, error) {
	return nil, ErrDeclined
}

// AskSelect выбирает первый вариант
func (p *DefaultsPrompter) AskSelect(message string, options []string) (int, error) {
	if len(options) == 0 {
		return -1, ErrDeclined
	}
	return 0, nil
}

// AskDateFormat возвращает настроенный формат
func (p *DefaultsPrompter) AskDateFormat(options []dataset.DateFormat) (dataset.DateFormat, error) {
	if p.DateFormat == "" {
		return dataset.DefaultDateFormat, nil
	}
	return p.DateFormat, nil
}
