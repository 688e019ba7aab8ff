package main

import (
	"fmt"
	"os"
	"sort"

	"datacleaner/internal/config"
)

func main() {
	fmt.Println("=== Configuration check ===")
	fmt.Println("")

	// Загружаем конфигурацию (включает валидацию)
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Printf("Configuration error: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("Configuration loaded")
	fmt.Println("")

	fmt.Println("Logging:")
	fmt.Printf("  Level: %s\n", cfg.LogLevel)
	fmt.Printf("  Format: %s\n", cfg.LogFormat)
	fmt.Println("")

	fmt.Println("Input:")
	fmt.Printf("  Encoding: %s\n", cfg.InputEncoding)
	if cfg.AuditDBPath != "" {
		fmt.Printf("  Audit journal: %s\n", cfg.AuditDBPath)
	} else {
		fmt.Printf("  Audit journal: [disabled]\n")
	}
	fmt.Printf("  Non-interactive: %v\n", cfg.NonInteractive)
	fmt.Println("")

	fmt.Println("Type inference:")
	fmt.Printf("  Sample size: %d\n", cfg.SampleSize)
	fmt.Printf("  Date parse ratio: %.2f\n", cfg.DateParseRatio)
	fmt.Printf("  Currency ratio: %.2f\n", cfg.CurrencyRatio)
	if len(cfg.TypeOverrides) > 0 {
		columns := make([]string, 0, len(cfg.TypeOverrides))
		for col := range cfg.TypeOverrides {
			columns = append(columns, col)
		}
		sort.Strings(columns)
		for _, col := range columns {
			fmt.Printf("  Override: %s = %s\n", col, cfg.TypeOverrides[col])
		}
	}
	fmt.Println("")

	fmt.Println("Normalization:")
	fmt.Printf("  Country code: +%s\n", cfg.DefaultCountryCode)
	fmt.Printf("  Fuzzy threshold: %d\n", cfg.FuzzyThreshold)
	fmt.Printf("  Date format: %s\n", cfg.DefaultDateFormat.Label())
	fmt.Println("")

	fmt.Println("=== Check complete ===")
}
