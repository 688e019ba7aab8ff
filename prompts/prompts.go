// Package prompts описывает интерактивные точки подтверждения pipeline очистки
// и их реализации: терминальную, скриптовую (для тестов) и пакетную.
package prompts

import (
	"errors"

	"datacleaner/dataset"
	"datacleaner/logger"
)

// ErrDeclined оператор отменил запрос или ответ отсутствует
var ErrDeclined = errors.New("prompt declined")

// Prompter синхронный интерфейс запросов к оператору.
// Любой метод может вернуть ErrDeclined; ядро трактует это как отказ.
type Prompter interface {
	// Confirm задает вопрос да/нет; def - ответ по умолчанию
	Confirm(question string, def bool) (bool, error)
	// AskText запрашивает по одной строке на каждую подсказку, порядок сохраняется
	AskText(labels []string) ([]string, error)
	// AskMultiSelect возвращает подмножество вариантов в исходном порядке
	AskMultiSelect(message string, options []string) ([]string, error)
	// AskSelect возвращает индекс выбранного варианта
	AskSelect(message string, options []string) (int, error)
	// AskDateFormat возвращает один из перечисленных форматов
	AskDateFormat(options []dataset.DateFormat) (dataset.DateFormat, error)
}

// Confirmed задает вопрос и трактует отмену как "нет"
func Confirmed(p Prompter, question string, def bool) bool {
	ok, err := p.Confirm(question, def)
	if err != nil {
		logger.LogDebug("Confirmation declined", "question", question, "error", err)
		return false
	}
	return ok
}

// IsNonInteractive сообщает, что на запросы отвечает не оператор (пакетный режим)
func IsNonInteractive(p Prompter) bool {
	b, ok := p.(interface{ NonInteractive() bool })
	return ok && b.NonInteractive()
}

// orderedSubset оставляет только известные варианты в порядке options
func orderedSubset(options, chosen []string) []string {
	picked := make(map[string]bool, len(chosen))
	for _, c := range chosen {
		picked[c] = true
	}
	out := make([]string, 0, len(chosen))
	for _, o := range options {
		if picked[o] {
			out = append(out, o)
		}
	}
	return out
}
