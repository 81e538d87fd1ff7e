package exporter

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestXLSXExport(t *testing.T) {
	table := NewTable().
		AddColumn("words", []any{`foo"bar`, "baz"}).
		AddColumn("freqs", []any{3, 1})

	data, err := XLSXExport(table, []string{"words", "freqs"}, Options{
		QuoteColumns: []string{"words"},
	})
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(xlsxSheet)
	require.NoError(t, err)

	require.Len(t, rows, 3)
	assert.Equal(t, []string{"words", "freqs"}, rows[0])
	// No CSV quoting inside workbook cells.
	assert.Equal(t, []string{`foo"bar`, "3"}, rows[1])
	assert.Equal(t, []string{"baz", "1"}, rows[2])
}

func TestXLSXExport_TrendAnnotations(t *testing.T) {
	table := NewTable().
		AddColumn("dates", []any{time.Date(2020, 5, 1, 0, 0, 0, 0, time.UTC)}).
		AddColumn("trend0", []any{2})

	data, err := XLSXExport(table, []string{"dates"}, Options{
		DateColumns: []string{"dates"},
		TrendLabels: []string{"Temp"},
	})
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(xlsxSheet)
	require.NoError(t, err)

	require.Len(t, rows, 3)
	assert.Equal(t, "trend 1: Temp", rows[0][0])
	assert.Equal(t, []string{"dates", "trend0"}, rows[1])
	assert.Equal(t, []string{"2020-05-01", "2"}, rows[2])
}

func TestXLSXExport_PropagatesTableErrors(t *testing.T) {
	table := NewTable().
		AddColumn("a", []any{1, 2}).
		AddColumn("b", []any{1})

	_, err := XLSXExport(table, []string{"a", "b"}, Options{})
	assert.ErrorIs(t, err, ErrInconsistentLength)
}
