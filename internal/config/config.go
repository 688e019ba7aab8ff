package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"datacleaner/dataset"
)

// Config конфигурация очистки данных
type Config struct {
	// Логирование
	LogLevel  string `json:"log_level"`
	LogFormat string `json:"log_format"`

	// Журнал аудита (пустой путь - журнал отключен)
	AuditDBPath string `json:"audit_db_path"`

	// Чтение входного файла
	InputEncoding string `json:"input_encoding"`

	// Нормализация
	DefaultCountryCode string             `json:"default_country_code"`
	FuzzyThreshold     int                `json:"fuzzy_threshold"`
	DefaultDateFormat  dataset.DateFormat `json:"default_date_format"`

	// Определение типов
	SampleSize     int                             `json:"sample_size"`
	DateParseRatio float64                         `json:"date_parse_ratio"`
	CurrencyRatio  float64                         `json:"currency_ratio"`
	TypeOverrides  map[string]dataset.SemanticType `json:"type_overrides"`

	// Пакетный режим: ответы по умолчанию вместо интерактивных запросов
	NonInteractive bool `json:"non_interactive"`
}

// LoadConfig загружает конфигурацию из переменных окружения
func LoadConfig() (*Config, error) {
	overrides, err := ParseTypeOverrides(os.Getenv("DATA_CLEANER_TYPE_OVERRIDES"))
	if err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	config := &Config{
		// Логирование
		LogLevel:  getEnv("DATA_CLEANER_LOG_LEVEL", "INFO"),
		LogFormat: getEnv("DATA_CLEANER_LOG_FORMAT", "text"),

		// Аудит
		AuditDBPath: os.Getenv("DATA_CLEANER_AUDIT_DB"),

		// Чтение
		InputEncoding: getEnv("DATA_CLEANER_INPUT_ENCODING", "utf-8"),

		// Нормализация
		DefaultCountryCode: getEnv("DATA_CLEANER_COUNTRY_CODE", "91"),
		FuzzyThreshold:     getEnvInt("DATA_CLEANER_FUZZY_THRESHOLD", 85),
		DefaultDateFormat:  dataset.DateFormat(getEnv("DATA_CLEANER_DATE_FORMAT", string(dataset.DefaultDateFormat))),

		// Определение типов
		SampleSize:     getEnvInt("DATA_CLEANER_SAMPLE_SIZE", 30),
		DateParseRatio: getEnvFloat("DATA_CLEANER_DATE_PARSE_RATIO", 0.8),
		CurrencyRatio:  getEnvFloat("DATA_CLEANER_CURRENCY_RATIO", 0.6),
		TypeOverrides:  overrides,

		NonInteractive: getEnv("DATA_CLEANER_NON_INTERACTIVE", "false") == "true",
	}

	// Валидация
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	// "dd/mm/yyyy" и "%d/%m/%Y" приводятся к одному токену
	if f, err := dataset.ParseDateFormat(string(config.DefaultDateFormat)); err == nil {
		config.DefaultDateFormat = f
	}

	return config, nil
}

// ParseTypeOverrides разбирает список вида "col=type,col2=type2"
func ParseTypeOverrides(raw string) (map[string]dataset.SemanticType, error) {
	overrides := make(map[string]dataset.SemanticType)
	if strings.TrimSpace(raw) == "" {
		return overrides, nil
	}
	for _, pair := range strings.Split(raw, ",") {
		if err := AddTypeOverride(overrides, pair); err != nil {
			return nil, err
		}
	}
	return overrides, nil
}

// AddTypeOverride добавляет одну пару "col=type"
func AddTypeOverride(overrides map[string]dataset.SemanticType, pair string) error {
	name, typeName, ok := strings.Cut(pair, "=")
	name = strings.TrimSpace(name)
	if !ok || name == "" {
		return fmt.Errorf("invalid type override %q, expected column=type", pair)
	}
	st, err := dataset.ParseSemanticType(typeName)
	if err != nil {
		return fmt.Errorf("invalid type override %q: %w", pair, err)
	}
	overrides[name] = st
	return nil
}

// getEnv получает переменную окружения или возвращает значение по умолчанию
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt получает переменную окружения как int или возвращает значение по умолчанию
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getEnvFloat получает переменную окружения как float64 или возвращает значение по умолчанию
func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}
