package exporter

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExport_WordFrequencies(t *testing.T) {
	table := NewTable().
		AddColumn("words", []any{`foo"bar`, "baz"}).
		AddColumn("frequencies", []any{3, 1})

	data, err := Export(table, []string{"words", "frequencies"}, Options{
		QuoteColumns: []string{"words"},
	})
	require.NoError(t, err)

	want := "words,frequencies\n" +
		"\"foo\"\"bar\",3\n" +
		"\"baz\",1\n"
	assert.Equal(t, want, string(data))
}

func TestExport_TrendLabels(t *testing.T) {
	table := NewTable().
		AddColumn("dates", []any{time.Date(2020, 5, 1, 0, 0, 0, 0, time.UTC)}).
		AddColumn("trend0", []any{12}).
		AddColumn("trend2", []any{7})

	data, err := Export(table, []string{"dates"}, Options{
		DateColumns: []string{"dates"},
		TrendLabels: []string{"Temp", "", "Rain"},
	})
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSuffix(string(data), "\n"), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "trend 1: Temp,trend 3: Rain", lines[0])
	assert.Equal(t, "dates,trend0,trend2", lines[1])
	assert.Equal(t, "2020-05-01,12,7", lines[2])
}

func TestExport_TrendLabelQuotesDoubled(t *testing.T) {
	table := NewTable().
		AddColumn("dates", []any{}).
		AddColumn("trend0", []any{})

	data, err := Export(table, []string{"dates"}, Options{
		DateColumns: []string{"dates"},
		TrendLabels: []string{`say "hi"`},
	})
	require.NoError(t, err)

	lines := strings.Split(string(data), "\n")
	assert.Equal(t, `trend 1: say ""hi""`, lines[0])
}

func TestExport_EmptyTable(t *testing.T) {
	table := NewTable().
		AddColumn("words", []any{}).
		AddColumn("freqs", []any{})

	data, err := Export(table, []string{"words", "freqs"}, Options{})
	require.NoError(t, err)

	assert.Equal(t, "words,freqs\n", string(data))
}

func TestExport_LineAndFieldCounts(t *testing.T) {
	table := NewTable().
		AddColumn("a", []any{1, 2, 3, 4}).
		AddColumn("b", []any{"w", "x", "y", "z"}).
		AddColumn("c", []any{1.5, 2.5, 3.5, 4.5})

	data, err := Export(table, []string{"a", "b", "c"}, Options{})
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSuffix(string(data), "\n"), "\n")
	require.Len(t, lines, 5) // header + 4 rows
	for _, line := range lines {
		assert.Len(t, strings.Split(line, ","), 3)
	}

	assert.True(t, strings.HasSuffix(string(data), "\n"))
	assert.False(t, strings.HasSuffix(string(data), "\n\n"))
}

func TestExport_Idempotent(t *testing.T) {
	table := NewTable().
		AddColumn("words", []any{"alpha", "beta"}).
		AddColumn("freqs", []any{10, 20})

	opts := Options{QuoteColumns: []string{"words"}}
	first, err := Export(table, []string{"words", "freqs"}, opts)
	require.NoError(t, err)
	second, err := Export(table, []string{"words", "freqs"}, opts)
	require.NoError(t, err)

	assert.True(t, bytes.Equal(first, second))
}

func TestExport_RoundTrip(t *testing.T) {
	table := NewTable().
		AddColumn("words", []any{`quote"inside`, "with,comma", "plain"}).
		AddColumn("freqs", []any{3, 2, 1})

	data, err := Export(table, []string{"words", "freqs"}, Options{
		QuoteColumns: []string{"words"},
	})
	require.NoError(t, err)

	reader := csv.NewReader(bytes.NewReader(data))
	records, err := reader.ReadAll()
	require.NoError(t, err)

	require.Len(t, records, 4)
	assert.Equal(t, []string{"words", "freqs"}, records[0])
	assert.Equal(t, []string{`quote"inside`, "3"}, records[1])
	assert.Equal(t, []string{"with,comma", "2"}, records[2])
	assert.Equal(t, []string{"plain", "1"}, records[3])
}

func TestExport_QuoteAllStrings(t *testing.T) {
	table := NewTable().
		AddColumn("mixed", []any{"text", 42, 1.5, true}).
		AddColumn("names", []any{"a", "b", "c", "d"})

	data, err := Export(table, []string{"mixed", "names"}, Options{
		QuoteAllStrings: true,
	})
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSuffix(string(data), "\n"), "\n")
	require.Len(t, lines, 5)
	assert.Equal(t, `"text","a"`, lines[1])
	assert.Equal(t, `42,"b"`, lines[2])
	assert.Equal(t, `1.5,"c"`, lines[3])
	assert.Equal(t, `true,"d"`, lines[4])
}

func TestExport_DateLaw(t *testing.T) {
	// Time-of-day and zone must not leak into the calendar date.
	newYork, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)

	table := NewTable().
		AddColumn("dates", []any{
			time.Date(2020, 5, 1, 23, 59, 59, 0, time.UTC),
			time.Date(2020, 5, 1, 22, 0, 0, 0, newYork), // 2020-05-02 UTC
		}).
		AddColumn("count", []any{5, 6})

	data, err := Export(table, []string{"dates", "count"}, Options{
		DateColumns: []string{"dates"},
	})
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSuffix(string(data), "\n"), "\n")
	assert.Equal(t, "2020-05-01,5", lines[1])
	assert.Equal(t, "2020-05-02,6", lines[2])
}

func TestExport_Errors(t *testing.T) {
	tests := []struct {
		name        string
		table       *Table
		columnOrder []string
		opts        Options
		wantErr     error
	}{
		{
			name: "inconsistent column lengths",
			table: NewTable().
				AddColumn("a", []any{1, 2}).
				AddColumn("b", []any{1}),
			columnOrder: []string{"a", "b"},
			wantErr:     ErrInconsistentLength,
		},
		{
			name:        "unknown column in order",
			table:       NewTable().AddColumn("a", []any{1}),
			columnOrder: []string{"a", "missing"},
			wantErr:     ErrUnknownColumn,
		},
		{
			name:        "trend label without trend column",
			table:       NewTable().AddColumn("dates", []any{}),
			columnOrder: []string{"dates"},
			opts:        Options{TrendLabels: []string{"Temp"}},
			wantErr:     ErrUnknownColumn,
		},
		{
			name:        "unsupported cell value",
			table:       NewTable().AddColumn("a", []any{struct{}{}}),
			columnOrder: []string{"a"},
			wantErr:     ErrUnsupportedValue,
		},
		{
			name:        "non-time value in date column",
			table:       NewTable().AddColumn("dates", []any{"2020-05-01"}),
			columnOrder: []string{"dates"},
			opts:        Options{DateColumns: []string{"dates"}},
			wantErr:     ErrUnsupportedValue,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Export(tt.table, tt.columnOrder, tt.opts)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestExport_ExplicitOrderOnly(t *testing.T) {
	// Columns outside columnOrder (and ungated trend columns) are not
	// exported; insertion order of the table is irrelevant.
	table := NewTable().
		AddColumn("ignored", []any{0, 0}).
		AddColumn("freqs", []any{1, 2}).
		AddColumn("words", []any{"a", "b"})

	data, err := Export(table, []string{"words", "freqs"}, Options{})
	require.NoError(t, err)

	lines := strings.Split(string(data), "\n")
	assert.Equal(t, "words,freqs", lines[0])
	assert.Equal(t, "a,1", lines[1])
}

func TestExport_NilCellRendersEmpty(t *testing.T) {
	table := NewTable().
		AddColumn("a", []any{nil, "x"}).
		AddColumn("b", []any{1, nil})

	data, err := Export(table, []string{"a", "b"}, Options{})
	require.NoError(t, err)

	lines := strings.Split(string(data), "\n")
	assert.Equal(t, ",1", lines[1])
	assert.Equal(t, "x,", lines[2])
}

func TestExport_AnnotationRowParsesWithRelaxedReader(t *testing.T) {
	table := NewTable().
		AddColumn("dates", []any{time.Date(2021, 1, 2, 0, 0, 0, 0, time.UTC)}).
		AddColumn("trend0", []any{4}).
		AddColumn("trend1", []any{9})

	data, err := Export(table, []string{"dates"}, Options{
		DateColumns: []string{"dates"},
		TrendLabels: []string{"one", "two"},
	})
	require.NoError(t, err)

	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	require.NoError(t, err)

	require.Len(t, records, 3)
	assert.Equal(t, []string{"trend 1: one", "trend 2: two"}, records[0])
	assert.Equal(t, []string{"dates", "trend0", "trend1"}, records[1])
	assert.Equal(t, []string{"2021-01-02", "4", "9"}, records[2])
}

func BenchmarkExport(b *testing.B) {
	words := make([]any, 1000)
	freqs := make([]any, 1000)
	for i := range words {
		words[i] = "word"
		freqs[i] = i
	}
	table := NewTable().
		AddColumn("words", words).
		AddColumn("freqs", freqs)
	opts := Options{QuoteColumns: []string{"words"}}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := Export(table, []string{"words", "freqs"}, opts); err != nil {
			b.Fatal(err)
		}
	}
}
