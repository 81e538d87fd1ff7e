package exporter

import (
	"fmt"
	"strings"
	"time"
)

// Options configures CSV export behavior
type Options struct {
	// QuoteColumns lists columns whose values are always quoted as
	// text, even when they look numeric.
	QuoteColumns []string

	// QuoteAllStrings quotes any value whose runtime type is a string,
	// regardless of column membership.
	QuoteAllStrings bool

	// DateColumns lists columns whose values are timestamps to be
	// formatted as the UTC calendar date (YYYY-MM-DD).
	DateColumns []string

	// TrendLabels gates extra trend columns: a non-empty label at
	// index i includes column "trend{i}" and contributes the header
	// annotation cell "trend {i+1}: {label}".
	TrendLabels []string
}

// exportPlan is the resolved column selection, shared between the CSV
// and XLSX renderers
type exportPlan struct {
	columns     []string
	annotations []string
	quoted      map[string]bool
	dated       map[string]bool
	rows        int
}

// newExportPlan validates the table and resolves which columns the
// export includes, in order
func newExportPlan(table *Table, columnOrder []string, opts Options) (*exportPlan, error) {
	if err := table.Validate(); err != nil {
		return nil, err
	}

	plan := &exportPlan{
		quoted: make(map[string]bool, len(opts.QuoteColumns)),
		dated:  make(map[string]bool, len(opts.DateColumns)),
		rows:   table.Len(),
	}
	for _, name := range opts.QuoteColumns {
		plan.quoted[name] = true
	}
	for _, name := range opts.DateColumns {
		plan.dated[name] = true
	}

	for _, name := range columnOrder {
		if _, ok := table.Column(name); !ok {
			return nil, fmt.Errorf("column %q: %w", name, ErrUnknownColumn)
		}
		plan.columns = append(plan.columns, name)
	}

	for i, label := range opts.TrendLabels {
		if label == "" {
			continue
		}
		name := fmt.Sprintf("trend%d", i)
		if _, ok := table.Column(name); !ok {
			return nil, fmt.Errorf("trend column %q: %w", name, ErrUnknownColumn)
		}
		plan.columns = append(plan.columns, name)
		plan.annotations = append(plan.annotations,
			fmt.Sprintf("trend %d: %s", i+1, strings.ReplaceAll(label, `"`, `""`)))
	}

	return plan, nil
}

// Export serializes the table to a UTF-8 CSV document.
//
// The included columns are the explicit columnOrder followed by any
// trend columns gated by active TrendLabels. Output is one header line
// (preceded by a trend annotation line when labels are active), one
// line per row, lines joined with \n and a single trailing \n. The
// table is read as a snapshot; exporting the same table twice yields
// byte-identical output.
func Export(table *Table, columnOrder []string, opts Options) ([]byte, error) {
	plan, err := newExportPlan(table, columnOrder, opts)
	if err != nil {
		return nil, err
	}

	var b strings.Builder

	if len(plan.annotations) > 0 {
		b.WriteString(strings.Join(plan.annotations, ","))
		b.WriteByte('\n')
	}

	for i, name := range plan.columns {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(csvField(name, false))
	}
	b.WriteByte('\n')

	for row := 0; row < plan.rows; row++ {
		for i, name := range plan.columns {
			if i > 0 {
				b.WriteByte(',')
			}

			cells, _ := table.Column(name)
			text, isString, err := renderCell(cells[row], plan.dated[name])
			if err != nil {
				return nil, fmt.Errorf("column %q row %d: %w", name, row, err)
			}

			forced := plan.quoted[name] || (opts.QuoteAllStrings && isString)
			b.WriteString(csvField(text, forced))
		}
		b.WriteByte('\n')
	}

	return []byte(b.String()), nil
}

// renderCell stringifies a single cell value. Date columns accept only
// timestamps; other columns accept text, booleans and numbers. A nil
// cell renders as an empty field.
func renderCell(value any, dated bool) (text string, isString bool, err error) {
	if dated {
		t, ok := value.(time.Time)
		if !ok {
			return "", false, fmt.Errorf("%T in date column: %w", value, ErrUnsupportedValue)
		}
		return formatDate(t), false, nil
	}

	switch v := value.(type) {
	case nil:
		return "", false, nil
	case string:
		return v, true, nil
	case bool:
		return formatBool(v), false, nil
	case int:
		return formatInt(int64(v)), false, nil
	case int32:
		return formatInt(int64(v)), false, nil
	case int64:
		return formatInt(v), false, nil
	case float32:
		return formatFloat(float64(v)), false, nil
	case float64:
		return formatFloat(v), false, nil
	default:
		return "", false, fmt.Errorf("%T: %w", value, ErrUnsupportedValue)
	}
}

// csvField renders one field, quoting when forced or when the text
// contains a quote, comma or line break. Internal quotes are doubled.
func csvField(text string, forced bool) string {
	if !forced && !strings.ContainsAny(text, "\",\n\r") {
		return text
	}
	return `"` + strings.ReplaceAll(text, `"`, `""`) + `"`
}
