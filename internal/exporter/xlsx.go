package exporter

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

// xlsxSheet is the single sheet name used for workbook exports
const xlsxSheet = "Sheet1"

// XLSXExport renders the table as an Excel workbook using the same
// column selection, trend gating and date formatting rules as Export.
// CSV quoting does not apply: text cells are written as text values.
func XLSXExport(table *Table, columnOrder []string, opts Options) ([]byte, error) {
	plan, err := newExportPlan(table, columnOrder, opts)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer f.Close()

	rowIdx := 1

	if len(plan.annotations) > 0 {
		cells := make([]any, len(plan.annotations))
		for i, annotation := range plan.annotations {
			cells[i] = annotation
		}
		if err := setRow(f, rowIdx, cells); err != nil {
			return nil, err
		}
		rowIdx++
	}

	header := make([]any, len(plan.columns))
	for i, name := range plan.columns {
		header[i] = name
	}
	if err := setRow(f, rowIdx, header); err != nil {
		return nil, err
	}
	rowIdx++

	for row := 0; row < plan.rows; row++ {
		cells := make([]any, len(plan.columns))
		for i, name := range plan.columns {
			col, _ := table.Column(name)
			text, _, err := renderCell(col[row], plan.dated[name])
			if err != nil {
				return nil, fmt.Errorf("column %q row %d: %w", name, row, err)
			}
			cells[i] = text
		}
		if err := setRow(f, rowIdx, cells); err != nil {
			return nil, err
		}
		rowIdx++
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to render workbook: %w", err)
	}
	return buf.Bytes(), nil
}

// setRow writes one row of cells starting at column A
func setRow(f *excelize.File, row int, cells []any) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return fmt.Errorf("failed to compute cell name: %w", err)
	}
	if err := f.SetSheetRow(xlsxSheet, cell, &cells); err != nil {
		return fmt.Errorf("failed to write row %d: %w", row, err)
	}
	return nil
}
