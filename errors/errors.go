package errors

import (
	"errors"
	"fmt"
)

// Kind класс ошибки в таксономии очистки
type Kind int

const (
	// KindFatal структурная ошибка: прерывает прогон до начала очистки, без частичного вывода
	KindFatal Kind = iota
	// KindRecoverable ошибка разбора отдельной ячейки: значение остается без изменений
	KindRecoverable
	// KindMissingPrecondition этап вызван без необходимых данных: логируется, этап пропускается
	KindMissingPrecondition
	// KindDeclined оператор отказался или отменил запрос
	KindDeclined
)

// String возвращает имя класса ошибки
func (k Kind) String() string {
	switch k {
	case KindFatal:
		return "fatal"
	case KindRecoverable:
		return "recoverable"
	case KindMissingPrecondition:
		return "missing_precondition"
	case KindDeclined:
		return "declined"
	default:
		return "unknown"
	}
}

// AppError представляет ошибку приложения с классом и контекстом
type AppError struct {
	Kind    Kind   `json:"kind"`    // Класс ошибки
	Message string `json:"message"` // Сообщение для оператора
	Err     error  `json:"-"`       // Внутренняя ошибка для логов
	Context string `json:"-"`       // Дополнительный контекст (файл, колонка, этап)
}

// Error реализует интерфейс error
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap возвращает вложенную ошибку для errors.Is и errors.As
func (e *AppError) Unwrap() error {
	return e.Err
}

// GetContext возвращает контекст ошибки
func (e *AppError) GetContext() string {
	return e.Context
}

// WithContext добавляет контекст к ошибке
func (e *AppError) WithContext(context string) *AppError {
	e.Context = context
	return e
}

// NewFatalError создает структурную ошибку
func NewFatalError(message string, err error) *AppError {
	return &AppError{
		Kind:    KindFatal,
		Message: message,
		Err:     err,
	}
}

// NewUnsupportedFormatError создает ошибку неподдерживаемого расширения файла
func NewUnsupportedFormatError(ext string) *AppError {
	return &AppError{
		Kind:    KindFatal,
		Message: fmt.Sprintf("unsupported file type %q (supported: .csv, .xlsx, .xlsm)", ext),
	}
}

// NewRecoverableError создает ошибку разбора ячейки
func NewRecoverableError(message string, err error) *AppError {
	return &AppError{
		Kind:    KindRecoverable,
		Message: message,
		Err:     err,
	}
}

// NewMissingPreconditionError создает ошибку отсутствующего предусловия этапа
func NewMissingPreconditionError(message string) *AppError {
	return &AppError{
		Kind:    KindMissingPrecondition,
		Message: message,
	}
}

// NewDeclinedError создает ошибку отказа оператора
func NewDeclinedError(message string, err error) *AppError {
	return &AppError{
		Kind:    KindDeclined,
		Message: message,
		Err:     err,
	}
}

// MalformedRowError строка CSV с числом полей, отличным от заголовка
type MalformedRowError struct {
	Row      int    // Номер строки в файле (заголовок = 1)
	Got      int    // Фактическое число полей
	Expected int    // Число полей в заголовке
	Column   int    // Предполагаемая колонка с ошибкой (1-based), 0 если неизвестна
	Hint     string // Подсказка для оператора
}

// Error реализует интерфейс error
func (e *MalformedRowError) Error() string {
	return fmt.Sprintf("malformed CSV: row %d has %d columns but header has %d", e.Row, e.Got, e.Expected)
}

// NewMalformedRowError оборачивает MalformedRowError в фатальную AppError
func NewMalformedRowError(row, got, expected, column int, hint string) *AppError {
	return &AppError{
		Kind:    KindFatal,
		Message: "malformed delimited file",
		Err: &MalformedRowError{
			Row:      row,
			Got:      got,
			Expected: expected,
			Column:   column,
			Hint:     hint,
		},
	}
}

// KindOf возвращает класс ошибки; ошибки вне таксономии считаются фатальными
func KindOf(err error) Kind {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindFatal
}

// IsFatal сообщает, должна ли ошибка завершить процесс
func IsFatal(err error) bool {
	return err != nil && KindOf(err) == KindFatal
}

// ExitCode возвращает код завершения процесса: 0 без ошибки, 1 для любой ошибки.
// Отказ оператора тоже завершает прогон без вывода, поэтому код не различается.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	return 1
}

// WrapError оборачивает существующую ошибку с сообщением.
// Если ошибка уже AppError, класс и контекст сохраняются. Иначе создается фатальная ошибка.
func WrapError(err error, message string) *AppError {
	if err == nil {
		return nil
	}

	var appErr *AppError
	if errors.As(err, &appErr) {
		return &AppError{
			Kind:    appErr.Kind,
			Message: fmt.Sprintf("%s: %s", message, appErr.Message),
			Err:     appErr.Err,
			Context: appErr.Context,
		}
	}

	return NewFatalError(message, err)
}
