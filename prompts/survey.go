package prompts

import (
	"errors"
	"fmt"

	"github.com/AlecAivazis/survey/v2"
	"github.com/AlecAivazis/survey/v2/terminal"

	"datacleaner/dataset"
)

// SurveyPrompter интерактивная реализация для терминала
type SurveyPrompter struct {
	opts []survey.AskOpt
}

// NewSurveyPrompter создает терминальный Prompter
func NewSurveyPrompter(opts ...survey.AskOpt) *SurveyPrompter {
	return &SurveyPrompter{opts: opts}
}

// translate приводит отмену (Ctrl+C) к ErrDeclined
func translate(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, terminal.InterruptErr) {
		return ErrDeclined
	}
	return fmt.Errorf("%w: %v", ErrDeclined, err)
}

// Confirm задает вопрос да/нет
func (p *SurveyPrompter) Confirm(question string, def bool) (bool, error) {
	answer := def
	err := survey.AskOne(&survey.Confirm{Message: question, Default: def}, &answer, p.opts...)
	if err != nil {
		return false, translate(err)
	}
	return answer, nil
}

// AskText запрашивает строки по одной на подсказку
func (p *SurveyPrompter) AskText(labels []string) ([]string, error) {
	answers := make([]string, 0, len(labels))
	for _, label := range labels {
		var answer string
		if err := survey.AskOne(&survey.Input{Message: label}, &answer, p.opts...); err != nil {
			return nil, translate(err)
		}
		answers = append(answers, answer)
	}
	return answers, nil
}

// AskMultiSelect предлагает выбрать несколько вариантов
func (p *SurveyPrompter) AskMultiSelect(message string, options []string) ([]string, error) {
	var chosen []string
	err := survey.AskOne(&survey.MultiSelect{Message: message, Options: options}, &chosen, p.opts...)
	if err != nil {
		return nil, translate(err)
	}
	return orderedSubset(options, chosen), nil
}

// AskSelect предлагает выбрать один вариант
func (p *SurveyPrompter) AskSelect(message string, options []string) (int, error) {
	if len(options) == 0 {
		return -1, ErrDeclined
	}
	var idx int
	err := survey.AskOne(&survey.Select{Message: message, Options: options}, &idx, p.opts...)
	if err != nil {
		return -1, translate(err)
	}
	return idx, nil
}

// AskDateFormat предлагает выбрать формат вывода дат
func (p *SurveyPrompter) AskDateFormat(options []dataset.DateFormat) (dataset.DateFormat, error) {
	labels := make([]string, len(options))
	for i, f := range options {
		labels[i] = f.Label()
	}
	idx, err := p.AskSelect("Choose your preferred date format for output:", labels)
	if err != nil {
		return "", err
	}
	return options[idx], nil
}
