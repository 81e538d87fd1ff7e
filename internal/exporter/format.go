package exporter

import (
	"strconv"
	"time"
)

// isoDateLayout is the on-the-wire format for date columns: the UTC
// calendar date, no time component.
const isoDateLayout = "2006-01-02"

// formatFloat formats a float64 value for CSV output without locale
// or trailing-zero artifacts
func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// formatInt formats an int64 value for CSV output
func formatInt(i int64) string {
	return strconv.FormatInt(i, 10)
}

// formatBool formats a boolean value for CSV output
func formatBool(b bool) string {
	if b {
		return "true"
	}
	return "false"
}

// formatDate formats a timestamp as its UTC calendar date,
// independent of the input's time-of-day and zone
func formatDate(t time.Time) string {
	return t.UTC().Format(isoDateLayout)
}
