package services

import (
	"context"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wordtrend/internal/config"
	"wordtrend/internal/download"
	"wordtrend/internal/exporter"
	"wordtrend/internal/freqs"
)

func day(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

type captureDownloader struct {
	payload download.Payload
}

func (c *captureDownloader) Download(ctx context.Context, payload download.Payload) error {
	c.payload = payload
	return nil
}

func testExportService(t *testing.T) *ExportService {
	t.Helper()
	dataset := freqs.NewDataset(day("2020-05-01"), 2)
	freqsService := freqs.NewServiceWithDataset(dataset, slog.Default())
	return NewExportService(freqsService, nil, config.ExportConfig{Filename: "data.csv"}, slog.Default())
}

func TestExportService_ExportTable(t *testing.T) {
	svc := testExportService(t)

	table := exporter.NewTable().
		AddColumn("words", []any{"corona"}).
		AddColumn("freqs", []any{7})

	payload, err := svc.ExportTable(context.Background(), table,
		[]string{"words", "freqs"}, exporter.Options{QuoteColumns: []string{"words"}}, FormatCSV)
	require.NoError(t, err)

	assert.Equal(t, "data.csv", payload.Filename)
	assert.Equal(t, download.MIMECSV, payload.MIME)
	assert.Equal(t, "words,freqs\n\"corona\",7\n", string(payload.Data))
}

func TestExportService_ExportTableXLSXFilename(t *testing.T) {
	svc := testExportService(t)

	table := exporter.NewTable().AddColumn("words", []any{"a"})
	payload, err := svc.ExportTable(context.Background(), table,
		[]string{"words"}, exporter.Options{}, FormatXLSX)
	require.NoError(t, err)

	assert.Equal(t, "data.xlsx", payload.Filename)
	assert.Equal(t, download.MIMEXLSX, payload.MIME)
}

func TestExportService_ExportTableUnsupportedFormat(t *testing.T) {
	svc := testExportService(t)

	table := exporter.NewTable().AddColumn("words", []any{"a"})
	_, err := svc.ExportTable(context.Background(), table, []string{"words"}, exporter.Options{}, "pdf")
	assert.Error(t, err)
}

func TestExportService_ExportTopWords(t *testing.T) {
	dataset := freqs.NewDataset(day("2020-05-01"), 1)
	svc := NewExportService(
		freqs.NewServiceWithDataset(dataset, slog.Default()),
		nil, config.ExportConfig{Filename: "data.csv"}, slog.Default())

	payload, err := svc.ExportTopWords(context.Background(), freqs.TopWordsQuery{
		From: day("2020-05-01"),
		To:   day("2020-05-01"),
		TopN: 5,
	}, FormatCSV)
	require.NoError(t, err)

	// Empty corpus still yields the header line.
	assert.Equal(t, "words,freqs\n", string(payload.Data))
}

func TestExportService_ExportTrends(t *testing.T) {
	dataset := freqs.NewDataset(day("2020-05-01"), 2)
	dataset.Add("corona", day("2020-05-01"), 5)
	dataset.Add("corona", day("2020-05-02"), 3)
	svc := NewExportService(
		freqs.NewServiceWithDataset(dataset, slog.Default()),
		nil, config.ExportConfig{Filename: "data.csv"}, slog.Default())

	payload, err := svc.ExportTrends(context.Background(), freqs.TrendsQuery{
		Words: []string{"corona"},
		From:  day("2020-05-01"),
		To:    day("2020-05-02"),
	}, FormatCSV)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSuffix(string(payload.Data), "\n"), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "trend 1: corona", lines[0])
	assert.Equal(t, "dates,trend0", lines[1])
	assert.True(t, strings.HasPrefix(lines[2], "2020-05-01,"))
}

func TestExportService_Deliver(t *testing.T) {
	svc := testExportService(t)
	capture := &captureDownloader{}

	payload := download.Payload{
		Data:     []byte("words,freqs\n"),
		Filename: "data.csv",
		MIME:     download.MIMECSV,
	}
	require.NoError(t, svc.Deliver(context.Background(), "top-words", payload, capture))
	assert.Equal(t, payload, capture.payload)
}
