package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/brianvoe/gofakeit/v6"

	"datacleaner/dataset"
	"datacleaner/normalization"
)

// Генерирует "грязные" наборы данных для ручной проверки очистки:
// опечатки в городах, дубликаты, пропуски, телефоны и суммы в разных записях.
func main() {
	var (
		dir  = flag.String("dir", filepath.Join("testdata", "messy"), "output directory")
		seed = flag.Int64("seed", 0, "random seed (0 = random)")
	)
	flag.Parse()

	faker := gofakeit.New(*seed)

	sizes := []struct {
		name string
		size int
	}{
		{"100", 100},
		{"1K", 1000},
		{"10K", 10000},
	}

	if err := os.MkdirAll(*dir, 0755); err != nil {
		log.Fatalf("Failed to create data directory: %v", err)
	}

	exporter := normalization.NewExporter()
	for _, size := range sizes {
		fmt.Printf("Generating %s records...\n", size.name)
		table := generateTable(faker, size.size)

		for _, ext := range []string{".csv", ".xlsx"} {
			filename := filepath.Join(*dir, fmt.Sprintf("customers_%s%s", size.name, ext))
			pc := dataset.NewPipelineContext(table)
			if err := exporter.Save(pc, filename); err != nil {
				log.Fatalf("Failed to write file %s: %v", filename, err)
			}
			fmt.Printf("Generated %s records in %s\n", size.name, filename)
		}
	}
}

var cities = []string{"Bangalore", "Mumbai", "Delhi", "Pune", "Chennai", "Hyderabad", "Kolkata"}

var columns = []string{"Customer ID", "name", "email", "City", "phone no", "salary", "joining date", "active", "pin code"}

func generateTable(faker *gofakeit.Faker, n int) *dataset.Table {
	rows := make([][]dataset.Value, 0, n+n/20)
	for i := 0; i < n; i++ {
		row := []dataset.Value{
			dataset.Text(fmt.Sprintf("CUST-%05d", i+1)),
			dataset.Text(messyName(faker)),
			dataset.Text(strings.ToLower(faker.Email())),
			dataset.Text(typo(faker, faker.RandomString(cities))),
			dataset.Text(messyPhone(faker)),
			dataset.Text(messySalary(faker)),
			dataset.Text(messyDate(faker)),
			dataset.Text(faker.RandomString([]string{"Yes", "no", "Y", "N", "true", "False"})),
			dataset.Text(faker.Numerify("######")),
		}

		// Иногда оставляем пропуски
		if faker.Number(1, 25) == 1 {
			row[faker.Number(1, len(row)-1)] = dataset.Absent()
		}
		rows = append(rows, row)

		// Иногда добавляем точную копию строки
		if faker.Number(1, 20) == 1 {
			rows = append(rows, append([]dataset.Value(nil), row...))
		}
	}
	return dataset.NewTable(columns, rows)
}

// messyName имя в случайном регистре с лишними пробелами
func messyName(faker *gofakeit.Faker) string {
	name := faker.Name()
	switch faker.Number(1, 4) {
	case 1:
		return strings.ToLower(name)
	case 2:
		return strings.ToUpper(name)
	case 3:
		return "  " + name + " "
	default:
		return name
	}
}

// typo редко удаляет одну букву из названия
func typo(faker *gofakeit.Faker, s string) string {
	if len(s) < 5 || faker.Number(1, 30) != 1 {
		return s
	}
	i := faker.Number(1, len(s)-2)
	return s[:i] + s[i+1:]
}

func messyPhone(faker *gofakeit.Faker) string {
	digits := faker.Numerify("9#########")
	switch faker.Number(1, 4) {
	case 1:
		return "+91 " + digits
	case 2:
		return digits[:5] + " " + digits[5:]
	case 3:
		return "0091-" + digits
	default:
		return digits
	}
}

func messySalary(faker *gofakeit.Faker) string {
	amount := faker.Number(15, 250) * 1000
	switch faker.Number(1, 4) {
	case 1:
		return fmt.Sprintf("₹%d", amount)
	case 2:
		return fmt.Sprintf("%gk", float64(amount)/1000)
	case 3:
		return fmt.Sprintf("$%d,%03d", amount/1000, amount%1000)
	default:
		return fmt.Sprintf("%d", amount)
	}
}

func messyDate(faker *gofakeit.Faker) string {
	d := faker.DateRange(
		time.Date(2015, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2025, 12, 31, 0, 0, 0, 0, time.UTC),
	)
	layouts := []string{"2006-01-02", "02/01/2006", "Jan 2, 2006", "2 January 2006", "2006/01/02"}
	return d.Format(layouts[faker.Number(0, len(layouts)-1)])
}
