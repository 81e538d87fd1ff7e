// Package exporter provides CSV export functionality for columnar
// dashboard tables.
//
// This package contains three main components:
//
// Table: an ordered columnar table (column name to equal-length cell
// sequence) that the export operations read as an immutable snapshot.
//
// Export: the core CSV serialization with per-column quoting, ISO date
// formatting and trend-label gating. Output is a UTF-8 document with
// one header line (plus an annotation line when trend labels are
// active), one line per row and a single trailing newline.
//
// FileWriter and XLSXExport: host-side companions that persist an
// export beneath a downloads directory or render the same table as an
// Excel workbook.
//
// Example usage:
//
//	table := exporter.NewTable().
//		AddColumn("words", []any{"foo", "bar"}).
//		AddColumn("freqs", []any{3, 1})
//
//	data, err := exporter.Export(table, []string{"words", "freqs"}, exporter.Options{
//		QuoteColumns: []string{"words"},
//	})
package exporter
