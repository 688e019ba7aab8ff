package main

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"datacleaner/importer"
	"datacleaner/inference"
)

// Показывает, в какой кодировке читать CSV, и грубый профиль колонок
// без интерактивной очистки.
func main() {
	if len(os.Args) != 2 {
		log.Fatalf("usage: analyze_csv <file_path>")
	}
	filePath := os.Args[1]
	fmt.Printf("Analyzing file: %s\n\n", filePath)

	encodingName := "utf-8"
	if strings.EqualFold(filepath.Ext(filePath), ".csv") {
		encodingName = detectEncoding(filePath)
	}

	table, err := importer.Load(filePath, importer.Options{Encoding: encodingName})
	if err != nil {
		log.Fatalf("Failed to load: %v", err)
	}

	fmt.Printf("\nRows: %d, columns: %d\n", table.Len(), table.Width())
	fmt.Println(strings.Repeat("=", 80))

	profiler := inference.NewHeuristicProfiler(inference.DefaultSampleSize)
	for col, name := range table.Columns() {
		profile := profiler.Profile(name, table.Column(col))
		sample := make([]string, 0, 3)
		for _, v := range table.Preview(col, 3) {
			sample = append(sample, truncate(v.String(), 20))
		}
		fmt.Printf("%-24s %-12s tags=%v sample=%v\n", truncate(name, 24), profile.Type, profile.Tags, sample)
	}
}

// detectEncoding пробует кодировки на первых 2000 байтах и возвращает подходящую
func detectEncoding(filePath string) string {
	file, err := os.Open(filePath)
	if err != nil {
		log.Fatalf("Failed to open file: %v", err)
	}
	defer file.Close()

	data := make([]byte, 2000)
	n, err := io.ReadFull(file, data)
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		log.Fatalf("Failed to read: %v", err)
	}
	data = data[:n]
	fmt.Printf("Read %d bytes\n", len(data))

	fmt.Println("First 64 bytes (hex):")
	for i := 0; i < len(data) && i < 64; i++ {
		if i%16 == 0 {
			fmt.Printf("\n%04x: ", i)
		}
		fmt.Printf("%02x ", data[i])
	}
	fmt.Println()

	if utf8.Valid(data) {
		fmt.Printf("\nValid UTF-8. Sample: %s\n", truncate(string(data), 150))
		return "utf-8"
	}

	candidates := []struct {
		name string
		enc  encoding.Encoding
	}{
		{"windows-1251", charmap.Windows1251},
		{"windows-1252", charmap.Windows1252},
	}
	for _, c := range candidates {
		decoded, _, err := transform.Bytes(c.enc.NewDecoder(), data)
		if err != nil || !utf8.Valid(decoded) {
			continue
		}
		fmt.Printf("\nAs %s. Sample: %s\n", c.name, truncate(string(decoded), 150))
	}
	fmt.Println("\nNot UTF-8, reading as windows-1251 (pass --encoding windows-1252 to datacleaner for Western files)")
	return "windows-1251"
}

func truncate(s string, maxLen int) string {
	if utf8.RuneCountInString(s) <= maxLen {
		return s
	}
	return string([]rune(s)[:maxLen]) + "..."
}
