// Package freqs holds the per-day word frequency corpus behind the
// dashboard panels and builds the columnar tables the exporter
// consumes.
package freqs

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"wordtrend/internal/exporter"
)

// Additive smoothing applied when normalizing frequencies by the
// per-day document counts.
const smoothingFactor = 0.1

// ErrEmptyDataset is returned when a query runs against a dataset
// with no days loaded.
var ErrEmptyDataset = errors.New("dataset has no days loaded")

// Dataset is an immutable snapshot of per-day word frequencies over a
// consecutive date range.
type Dataset struct {
	dates      []time.Time
	docsPerDay []int
	wordFreqs  map[string][]int
}

// NewDataset creates a dataset over consecutive days starting at
// start, with all counts zero
func NewDataset(start time.Time, days int) *Dataset {
	d := &Dataset{
		dates:      make([]time.Time, days),
		docsPerDay: make([]int, days),
		wordFreqs:  make(map[string][]int),
	}
	day := start.UTC().Truncate(24 * time.Hour)
	for i := range d.dates {
		d.dates[i] = day.AddDate(0, 0, i)
	}
	return d
}

// Days returns the number of days covered
func (d *Dataset) Days() int {
	return len(d.dates)
}

// Words returns the vocabulary size
func (d *Dataset) Words() int {
	return len(d.wordFreqs)
}

// MinDate returns the first covered date
func (d *Dataset) MinDate() time.Time {
	if len(d.dates) == 0 {
		return time.Time{}
	}
	return d.dates[0]
}

// MaxDate returns the last covered date
func (d *Dataset) MaxDate() time.Time {
	if len(d.dates) == 0 {
		return time.Time{}
	}
	return d.dates[len(d.dates)-1]
}

// Add records count occurrences of word on the given calendar date.
// Dates outside the dataset range are ignored and reported as false.
func (d *Dataset) Add(word string, date time.Time, count int) bool {
	i, ok := d.dayIndex(date)
	if !ok {
		return false
	}
	d.addFreq(word, i, count)
	return true
}

// addFreq records count occurrences of word on day index i
func (d *Dataset) addFreq(word string, i, count int) {
	series, ok := d.wordFreqs[word]
	if !ok {
		series = make([]int, len(d.dates))
		d.wordFreqs[word] = series
	}
	series[i] += count
	d.docsPerDay[i] += count
}

// dayIndex returns the index of the given calendar date
func (d *Dataset) dayIndex(t time.Time) (int, bool) {
	if len(d.dates) == 0 {
		return 0, false
	}
	i := int(t.UTC().Truncate(24*time.Hour).Sub(d.dates[0]).Hours() / 24)
	if i < 0 || i >= len(d.dates) {
		return 0, false
	}
	return i, true
}

// dateSlice clamps [from, to] to the dataset range and returns the
// inclusive index bounds
func (d *Dataset) dateSlice(from, to time.Time) (lo, hi int, err error) {
	if len(d.dates) == 0 {
		return 0, 0, ErrEmptyDataset
	}

	lo, ok := d.dayIndex(from)
	if !ok {
		lo = 0
	}
	hi, ok = d.dayIndex(to)
	if !ok {
		hi = len(d.dates) - 1
	}
	if lo > hi {
		return 0, 0, fmt.Errorf("date range %s..%s is empty",
			from.Format("2006-01-02"), to.Format("2006-01-02"))
	}
	return lo, hi, nil
}

// TopWordsQuery selects the word-frequency table
type TopWordsQuery struct {
	From      time.Time
	To        time.Time
	TopN      int
	Normalize bool
}

// wordFreq pairs a word with its aggregated frequency for sorting
type wordFreq struct {
	word string
	freq float64
}

// TopWords aggregates frequencies over the date range and returns the
// two-column {words, freqs} table for the top N words, frequency
// descending. With Normalize, per-day frequencies are divided by the
// smoothed per-day document counts before summing.
func (d *Dataset) TopWords(q TopWordsQuery) (*exporter.Table, error) {
	lo, hi, err := d.dateSlice(q.From, q.To)
	if err != nil {
		return nil, err
	}

	days := hi - lo + 1
	smoothingDenominator := smoothingFactor * float64(days)

	ranked := make([]wordFreq, 0, len(d.wordFreqs))
	for word, series := range d.wordFreqs {
		var sum float64
		if q.Normalize {
			for i := lo; i <= hi; i++ {
				sum += (float64(series[i]) + smoothingFactor) /
					(float64(d.docsPerDay[i]) + smoothingDenominator)
			}
		} else {
			for i := lo; i <= hi; i++ {
				sum += float64(series[i])
			}
		}
		if sum > 0 {
			ranked = append(ranked, wordFreq{word: word, freq: sum})
		}
	}

	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].freq != ranked[j].freq {
			return ranked[i].freq > ranked[j].freq
		}
		return ranked[i].word < ranked[j].word
	})

	if q.TopN > 0 && len(ranked) > q.TopN {
		ranked = ranked[:q.TopN]
	}

	words := make([]any, len(ranked))
	freqs := make([]any, len(ranked))
	for i, wf := range ranked {
		words[i] = wf.word
		if q.Normalize {
			freqs[i] = wf.freq
		} else {
			freqs[i] = int(wf.freq)
		}
	}

	return exporter.NewTable().
		AddColumn("words", words).
		AddColumn("freqs", freqs), nil
}

// TrendsQuery selects the word-trends table
type TrendsQuery struct {
	Words []string
	From  time.Time
	To    time.Time
}

// Trends returns a table with a dates column plus one trend{i} column
// per queried word, and the words as the matching trend labels. A word
// absent from the corpus yields an all-zero series, matching the
// upstream panels.
func (d *Dataset) Trends(q TrendsQuery) (*exporter.Table, []string, error) {
	lo, hi, err := d.dateSlice(q.From, q.To)
	if err != nil {
		return nil, nil, err
	}

	days := hi - lo + 1
	dates := make([]any, days)
	for i := 0; i < days; i++ {
		dates[i] = d.dates[lo+i]
	}

	table := exporter.NewTable().AddColumn("dates", dates)

	labels := make([]string, len(q.Words))
	for w, word := range q.Words {
		labels[w] = word

		cells := make([]any, days)
		series := d.wordFreqs[word]
		for i := 0; i < days; i++ {
			if series == nil {
				cells[i] = 0
			} else {
				cells[i] = series[lo+i]
			}
		}
		table.AddColumn(fmt.Sprintf("trend%d", w), cells)
	}

	return table, labels, nil
}
