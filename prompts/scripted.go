package prompts

import (
	"datacleaner/dataset"
)

// ScriptedPrompter отвечает заранее заданными ответами, очередь на каждый вид запроса.
// Исчерпанная очередь означает отказ (ErrDeclined).
type ScriptedPrompter struct {
	Confirms     []bool
	Texts        []string
	MultiSelects [][]string
	Selects      []int
	DateFormats  []dataset.DateFormat

	// Asked журнал заданных вопросов в порядке появления
	Asked []string
}

// Confirm возвращает следующий ответ да/нет
func (p *ScriptedPrompter) Confirm(question string, def bool) (bool, error) {
	p.Asked = append(p.Asked, question)
	if len(p.Confirms) == 0 {
		return false, ErrDeclined
	}
	answer := p.Confirms[0]
	p.Confirms = p.Confirms[1:]
	return answer, nil
}

// AskText возвращает по одному заготовленному ответу на подсказку
func (p *ScriptedPrompter) AskText(labels []string) ([]string, error) {
	p.Asked = append(p.Asked, labels...)
	if len(p.Texts) < len(labels) {
		p.Texts = nil
		return nil, ErrDeclined
	}
	answers := append([]string(nil), p.Texts[:len(labels)]...)
	p.Texts = p.Texts[len(labels):]
	return answers, nil
}

// AskMultiSelect возвращает следующий заготовленный выбор
func (p *ScriptedPrompter) AskMultiSelect(message string, options []string) ([]string, error) {
	p.Asked = append(p.Asked, message)
	if len(p.MultiSelects) == 0 {
		return nil, ErrDeclined
	}
	chosen := p.MultiSelects[0]
	p.MultiSelects = p.MultiSelects[1:]
	return orderedSubset(options, chosen), nil
}

// AskSelect возвращает следующий заготовленный индекс
func (p *ScriptedPrompter) AskSelect(message string, options []string) (int, error) {
	p.Asked = append(p.Asked, message)
	if len(p.Selects) == 0 {
		return -1, ErrDeclined
	}
	idx := p.Selects[0]
	p.Selects = p.Selects[1:]
	if idx < 0 || idx >= len(options) {
		return -1, ErrDeclined
	}
	return idx, nil
}

// AskDateFormat возвращает следующий заготовленный формат
func (p *ScriptedPrompter) AskDateFormat(options []dataset.DateFormat) (dataset.DateFormat, error) {
	p.Asked = append(p.Asked, "date format")
	if len(p.DateFormats) == 0 {
		return "", ErrDeclined
	}
	f := p.DateFormats[0]
	p.DateFormats = p.DateFormats[1:]
	return f, nil
}
