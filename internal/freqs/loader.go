package freqs

import (
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"
)

// Words shorter than this are dropped while loading, they are almost
// always stop-word fragments.
const minWordLength = 3

const dateLayout = "2006-01-02"

// LoadDir reads a per-day frequency corpus from dir. Each file is
// named <YYYY-MM-DD>.csv and holds word,count rows for that day. Days
// between the earliest and latest file that have no file are kept as
// zero days so trend series stay consecutive.
func LoadDir(dir string) (*Dataset, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read dataset directory: %w", err)
	}

	type dayFile struct {
		date time.Time
		path string
	}
	var files []dayFile
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".csv") {
			continue
		}
		date, err := time.Parse(dateLayout, strings.TrimSuffix(entry.Name(), ".csv"))
		if err != nil {
			slog.Warn("skipping dataset file with unparseable name",
				"file", entry.Name())
			continue
		}
		files = append(files, dayFile{date: date, path: filepath.Join(dir, entry.Name())})
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no frequency files in %s: %w", dir, ErrEmptyDataset)
	}

	sort.Slice(files, func(i, j int) bool { return files[i].date.Before(files[j].date) })

	first := files[0].date
	last := files[len(files)-1].date
	days := int(last.Sub(first).Hours()/24) + 1

	dataset := NewDataset(first, days)
	for _, file := range files {
		index, ok := dataset.dayIndex(file.date)
		if !ok {
			continue
		}
		if err := loadDayFile(dataset, index, file.path); err != nil {
			return nil, fmt.Errorf("failed to load %s: %w", file.path, err)
		}
	}

	slog.Info("frequency corpus loaded",
		"dir", dir,
		"days", dataset.Days(),
		"words", len(dataset.wordFreqs),
		"from", first.Format(dateLayout),
		"to", last.Format(dateLayout))
	return dataset, nil
}

// loadDayFile merges one word,count file into day index
func loadDayFile(dataset *Dataset, index int, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = 2
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("malformed row: %w", err)
		}

		word := strings.TrimSpace(record[0])
		if utf8.RuneCountInString(word) < minWordLength {
			continue
		}
		count, err := strconv.Atoi(strings.TrimSpace(record[1]))
		if err != nil {
			return fmt.Errorf("bad count for %q: %w", word, err)
		}
		if count <= 0 {
			continue
		}
		dataset.addFreq(word, index, count)
	}
	return nil
}
