package exporter

import "errors"

// Sentinel errors returned by export operations. Callers match them
// with errors.Is; the wrapped message carries the offending column or
// value.
var (
	// ErrInconsistentLength reports that the table's column sequences
	// have differing lengths.
	ErrInconsistentLength = errors.New("column lengths differ")

	// ErrUnknownColumn reports that a requested column is absent from
	// the table.
	ErrUnknownColumn = errors.New("unknown column")

	// ErrUnsupportedValue reports a cell value with no defined
	// stringification policy.
	ErrUnsupportedValue = errors.New("unsupported cell value")
)
