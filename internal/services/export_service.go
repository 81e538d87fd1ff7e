// Package services wires the frequency corpus, the exporter and the
// delivery boundary together for the transport layer.
package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"wordtrend/internal/config"
	"wordtrend/internal/download"
	"wordtrend/internal/exporter"
	"wordtrend/internal/freqs"
	ws "wordtrend/internal/websocket"
)

// Export formats
const (
	FormatCSV  = "csv"
	FormatXLSX = "xlsx"
)

// ExportService builds export payloads from dataset queries and hands
// them to a Downloader picked by the caller.
type ExportService struct {
	freqs         *freqs.Service
	hub           *ws.Hub
	cfg           config.ExportConfig
	logger        *slog.Logger
	exportCounter metric.Int64Counter
	exportBytes   metric.Int64Counter
}

// NewExportService creates an export service
func NewExportService(freqsService *freqs.Service, hub *ws.Hub, cfg config.ExportConfig, logger *slog.Logger) *ExportService {
	if logger == nil {
		logger = slog.Default()
	}

	meter := otel.Meter("wordtrend")
	exportCounter, err := meter.Int64Counter("exports_total",
		metric.WithDescription("Completed exports by kind and format"))
	if err != nil {
		logger.Warn("Failed to create export counter", slog.String("error", err.Error()))
	}
	exportBytes, err := meter.Int64Counter("export_bytes_total",
		metric.WithDescription("Total bytes produced by exports"))
	if err != nil {
		logger.Warn("Failed to create export bytes counter", slog.String("error", err.Error()))
	}

	return &ExportService{
		freqs:         freqsService,
		hub:           hub,
		cfg:           cfg,
		logger:        logger,
		exportCounter: exportCounter,
		exportBytes:   exportBytes,
	}
}

// render serializes a table in the requested format
func render(table *exporter.Table, columnOrder []string, opts exporter.Options, format string) ([]byte, string, error) {
	switch strings.ToLower(format) {
	case "", FormatCSV:
		data, err := exporter.Export(table, columnOrder, opts)
		return data, download.MIMECSV, err
	case FormatXLSX:
		data, err := exporter.XLSXExport(table, columnOrder, opts)
		return data, download.MIMEXLSX, err
	default:
		return nil, "", fmt.Errorf("unsupported export format %q", format)
	}
}

// filename derives the payload filename from the configured base name
func (s *ExportService) filename(format string) string {
	name := s.cfg.Filename
	if name == "" {
		name = "data.csv"
	}
	if strings.EqualFold(format, FormatXLSX) {
		name = strings.TrimSuffix(name, ".csv") + ".xlsx"
	}
	return name
}

// ExportTable serializes a caller-supplied table. This is the raw
// export operation behind POST /api/export.
func (s *ExportService) ExportTable(ctx context.Context, table *exporter.Table, columnOrder []string, opts exporter.Options, format string) (download.Payload, error) {
	data, mime, err := render(table, columnOrder, opts, format)
	if err != nil {
		return download.Payload{}, err
	}
	return download.Payload{
		Data:     data,
		Filename: s.filename(format),
		MIME:     mime,
	}, nil
}

// ExportTopWords builds the {words, freqs} payload for the current
// corpus.
func (s *ExportService) ExportTopWords(ctx context.Context, q freqs.TopWordsQuery, format string) (download.Payload, error) {
	table, err := s.freqs.TopWords(ctx, q)
	if err != nil {
		return download.Payload{}, err
	}

	opts := exporter.Options{QuoteColumns: []string{"words"}}
	data, mime, err := render(table, []string{"words", "freqs"}, opts, format)
	if err != nil {
		return download.Payload{}, err
	}
	return download.Payload{
		Data:     data,
		Filename: s.filename(format),
		MIME:     mime,
	}, nil
}

// ExportTrends builds the dated trends payload with one annotated
// trend column per queried word.
func (s *ExportService) ExportTrends(ctx context.Context, q freqs.TrendsQuery, format string) (download.Payload, error) {
	table, labels, err := s.freqs.Trends(ctx, q)
	if err != nil {
		return download.Payload{}, err
	}

	opts := exporter.Options{
		DateColumns: []string{"dates"},
		TrendLabels: labels,
	}
	data, mime, err := render(table, []string{"dates"}, opts, format)
	if err != nil {
		return download.Payload{}, err
	}
	return download.Payload{
		Data:     data,
		Filename: s.filename(format),
		MIME:     mime,
	}, nil
}

// Deliver hands a finished payload to the downloader, records metrics
// and notifies connected dashboards.
func (s *ExportService) Deliver(ctx context.Context, kind string, payload download.Payload, downloader download.Downloader) error {
	if err := downloader.Download(ctx, payload); err != nil {
		s.logger.ErrorContext(ctx, "Export delivery failed",
			slog.String("kind", kind),
			slog.String("filename", payload.Filename),
			slog.String("error", err.Error()))
		return fmt.Errorf("failed to deliver export: %w", err)
	}

	attrs := metric.WithAttributes(
		attribute.String("kind", kind),
		attribute.String("mime", payload.MIME))
	if s.exportCounter != nil {
		s.exportCounter.Add(ctx, 1, attrs)
	}
	if s.exportBytes != nil {
		s.exportBytes.Add(ctx, int64(len(payload.Data)), attrs)
	}

	if s.hub != nil {
		s.hub.BroadcastExport(kind, payload.Filename, len(payload.Data))
	}

	s.logger.InfoContext(ctx, "Export delivered",
		slog.String("kind", kind),
		slog.String("filename", payload.Filename),
		slog.Int("bytes", len(payload.Data)))
	return nil
}
