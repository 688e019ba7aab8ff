package config

import (
	"fmt"
	"strings"

	"datacleaner/dataset"
)

// Validate проверяет корректность конфигурации
func (c *Config) Validate() error {
	var errors []string

	// Валидация уровня логирования
	validLogLevels := []string{"DEBUG", "INFO", "WARN", "ERROR"}
	if c.LogLevel != "" {
		valid := false
		logLevelUpper := strings.ToUpper(c.LogLevel)
		for _, level := range validLogLevels {
			if logLevelUpper == level {
				valid = true
				break
			}
		}
		if !valid {
			errors = append(errors, fmt.Sprintf("invalid log level: %s (valid: %s)",
				c.LogLevel, strings.Join(validLogLevels, ", ")))
		}
	}

	if c.LogFormat != "" && c.LogFormat != "text" && c.LogFormat != "json" {
		errors = append(errors, fmt.Sprintf("invalid log format: %s (valid: text, json)", c.LogFormat))
	}

	// Кодировка входного файла
	switch strings.ToLower(c.InputEncoding) {
	case "", "utf-8", "utf8", "windows-1251", "cp1251", "windows-1252", "cp1252":
	default:
		errors = append(errors, fmt.Sprintf("unsupported input encoding: %s", c.InputEncoding))
	}

	// Код страны для телефонов
	if c.DefaultCountryCode == "" {
		errors = append(errors, "default country code is required")
	} else {
		for _, r := range c.DefaultCountryCode {
			if r < '0' || r > '9' {
				errors = append(errors, fmt.Sprintf("country code must contain digits only, got %s", c.DefaultCountryCode))
				break
			}
		}
	}

	// Порог нечеткого сравнения (шкала 0-100)
	if c.FuzzyThreshold < 1 || c.FuzzyThreshold > 100 {
		errors = append(errors, fmt.Sprintf("fuzzy threshold must be between 1 and 100, got %d", c.FuzzyThreshold))
	}

	if c.DefaultDateFormat != "" {
		if _, err := dataset.ParseDateFormat(string(c.DefaultDateFormat)); err != nil {
			errors = append(errors, err.Error())
		}
	}

	// Параметры выборки
	if c.SampleSize < 1 {
		errors = append(errors, "sample size must be at least 1")
	}
	if c.DateParseRatio <= 0 || c.DateParseRatio > 1 {
		errors = append(errors, fmt.Sprintf("date parse ratio must be in (0, 1], got %g", c.DateParseRatio))
	}
	if c.CurrencyRatio <= 0 || c.CurrencyRatio > 1 {
		errors = append(errors, fmt.Sprintf("currency ratio must be in (0, 1], got %g", c.CurrencyRatio))
	}

	if len(errors) > 0 {
		return fmt.Errorf("config validation failed: %s", strings.Join(errors, "; "))
	}

	return nil
}
