package normalization

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"datacleaner/dataset"
)

func TestParseDate(t *testing.T) {
	march15 := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)
	tests := []struct {
		name  string
		input string
		want  time.Time
		ok    bool
	}{
		{"day first", "15/03/2024", march15, true},
		{"year first", "2024/03/15", march15, true},
		{"iso", "2024-03-15", march15, true},
		{"month name", "March 15, 2024", march15, true},
		{"ordinal", "15th March 2024", march15, true},
		{"fuzzy text", "joined on 15 March 2024", march15, true},
		{"ambiguous is day first", "05/03/2024", time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC), true},
		{"plain words", "not a date", time.Time{}, false},
		{"number", "12.5", time.Time{}, false},
		{"digits only", "20240315", time.Time{}, false},
		{"empty", "  ", time.Time{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseDate(tt.input)
			require.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.True(t, tt.want.Equal(got), "ParseDate(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestDate_FormatsAndIsIdempotent(t *testing.T) {
	inputs := []dataset.Value{
		dataset.Text("15/03/2024"),
		dataset.Text("March 15, 2024"),
		dataset.Temporal(time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)),
	}
	want := map[dataset.DateFormat]string{
		dataset.DateFormatDMY: "15/03/2024",
		dataset.DateFormatYMD: "2024/03/15",
		dataset.DateFormatISO: "2024-03-15",
	}

	for format, expected := range want {
		for _, in := range inputs {
			once := Date(in, format)
			assert.Equal(t, expected, once.String(), "format %s input %v", format, in)
			assert.True(t, once.Equal(Date(once, format)), "re-normalizing %v must be a no-op", once)
		}
	}
}

func TestDate_UnparseablePassesThrough(t *testing.T) {
	assert.Equal(t, dataset.Text("soon"), Date(dataset.Text("soon"), dataset.DateFormatDMY))
	assert.True(t, Date(dataset.Absent(), dataset.DateFormatDMY).IsAbsent())
	assert.Equal(t, dataset.Number(3), Date(dataset.Number(3), dataset.DateFormatDMY))
}
