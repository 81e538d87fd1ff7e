// Command exportcsv runs the dashboard export pipeline offline: it
// loads a per-day frequency corpus and writes the top-words or trends
// table as CSV or XLSX.
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"strings"
	"time"

	"wordtrend/internal/config"
	"wordtrend/internal/download"
	"wordtrend/internal/exporter"
	"wordtrend/internal/freqs"
	"wordtrend/internal/infrastructure"
	"wordtrend/internal/services"
)

const dateLayout = "2006-01-02"

func main() {
	dir := flag.String("dir", "", "corpus directory with per-day CSV files (defaults to data/freqs relative to executable)")
	out := flag.String("out", "", "output directory (defaults to data/downloads)")
	kind := flag.String("kind", "freqs", "freqs | trends")
	format := flag.String("format", "csv", "csv | xlsx")
	words := flag.String("words", "", "comma-separated words for -kind trends")
	from := flag.String("from", "", "start date YYYY-MM-DD (defaults to corpus start)")
	to := flag.String("to", "", "end date YYYY-MM-DD (defaults to corpus end)")
	topN := flag.Int("top", 15, "number of words for -kind freqs")
	normalize := flag.Bool("normalize", false, "normalize frequencies by per-day document counts")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		slog.Warn("Failed to load config, using defaults", "error", err)
		cfg = config.Default()
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		slog.Warn("Failed to initialize logger, using default", "error", err)
		logger = slog.Default()
	}

	paths, err := config.GetPaths(cfg)
	if err != nil {
		logger.Error("Failed to resolve paths", "error", err)
		os.Exit(1)
	}
	if *dir == "" {
		*dir = paths.FreqsDir
	}
	if *out == "" {
		*out = paths.DownloadsDir
	}

	ctx := context.Background()

	dataset, err := freqs.LoadDir(*dir)
	if err != nil {
		logger.Error("Failed to load corpus", "dir", *dir, "error", err)
		os.Exit(1)
	}

	fromDate, toDate := dataset.MinDate(), dataset.MaxDate()
	if *from != "" {
		if fromDate, err = time.Parse(dateLayout, *from); err != nil {
			logger.Error("Invalid -from date", "value", *from)
			os.Exit(1)
		}
	}
	if *to != "" {
		if toDate, err = time.Parse(dateLayout, *to); err != nil {
			logger.Error("Invalid -to date", "value", *to)
			os.Exit(1)
		}
	}

	freqsService := freqs.NewServiceWithDataset(dataset, logger)
	exportService := services.NewExportService(freqsService, nil, cfg.Export, logger)

	payload, err := buildPayload(ctx, exportService, *kind, *format, *words, fromDate, toDate, *topN, *normalize)
	if err != nil {
		logger.Error("Export failed", "kind", *kind, "error", err)
		os.Exit(1)
	}

	writer := exporter.NewFileWriter(*out, cfg.Export.BOMPrefix)
	path, err := writer.Write(payload.Filename, payload.Data)
	if err != nil {
		logger.Error("Failed to write export", "error", err)
		os.Exit(1)
	}

	logger.Info("Export written",
		"path", path,
		"bytes", len(payload.Data),
		"kind", *kind)
}

func buildPayload(ctx context.Context, svc *services.ExportService, kind, format, words string, from, to time.Time, topN int, normalize bool) (download.Payload, error) {
	switch kind {
	case "trends":
		var selected []string
		for _, word := range strings.Split(words, ",") {
			if word = strings.TrimSpace(word); word != "" {
				selected = append(selected, word)
			}
		}
		return svc.ExportTrends(ctx, freqs.TrendsQuery{
			Words: selected,
			From:  from,
			To:    to,
		}, format)
	default:
		return svc.ExportTopWords(ctx, freqs.TopWordsQuery{
			From:      from,
			To:        to,
			TopN:      topN,
			Normalize: normalize,
		}, format)
	}
}
