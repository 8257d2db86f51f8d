package tabula

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

func printColumn(c Column) string {
	var buf strings.Builder
	buf.WriteString(c.Name())
	buf.WriteByte('\n')
	for r := range c.Len() {
		buf.WriteString(c.GetString(r))
		buf.WriteByte('\n')
	}
	return buf.String()
}

// Print renders every row as a text grid.
func (t *Table) Print() string {
	return t.PrintN(t.RowCount())
}

// PrintN renders up to n rows, noting how many were left out.
func (t *Table) PrintN(n int) string {
	rows := max(0, min(n, t.RowCount()))
	cells := make([][]string, len(t.cols))
	widths := make([]int, len(t.cols))
	for i, c := range t.cols {
		widths[i] = utf8.RuneCountInString(c.Name())
		cells[i] = make([]string, rows)
		for r := range rows {
			s := c.GetString(r)
			cells[i][r] = s
			widths[i] = max(widths[i], utf8.RuneCountInString(s))
		}
	}

	var buf strings.Builder
	buf.WriteString(t.displayName())
	buf.WriteByte('\n')
	total := 0
	for i, c := range t.cols {
		if i > 0 {
			buf.WriteString("  |  ")
			total += 5
		}
		buf.WriteString(rpad(c.Name(), widths[i], ' '))
		total += widths[i]
	}
	buf.WriteByte('\n')
	buf.WriteString(strings.Repeat("-", total))
	buf.WriteByte('\n')
	for r := range rows {
		for i, c := range t.cols {
			if i > 0 {
				buf.WriteString("  |  ")
			}
			if c.Type().IsNumeric() {
				buf.WriteString(lpad(cells[i][r], widths[i], ' '))
			} else {
				buf.WriteString(rpad(cells[i][r], widths[i], ' '))
			}
		}
		buf.WriteByte('\n')
	}
	if more := t.RowCount() - rows; more > 0 {
		fmt.Fprintf(&buf, "... %d more rows\n", more)
	}
	return buf.String()
}

// Summary describes each column in one row: count of present and missing
// cells, distinct values, extremes and, for numeric columns, mean and
// standard deviation.
func (t *Table) Summary() (*Table, error) {
	var (
		names   = NewTextColumn("Column")
		types   = NewCategoryColumn("Type")
		count   = NewInt32Column("Count")
		missing = NewInt32Column("Missing")
		unique  = NewInt32Column("Unique")
		lo      = NewTextColumn("Min")
		hi      = NewTextColumn("Max")
		means   = NewFloat64Column("Mean")
		stddevs = NewFloat64Column("Std. Deviation")
	)
	for _, c := range t.cols {
		names.Append(c.Name())
		types.Append(c.Type().String())
		m := c.CountMissing()
		count.Append(int32(c.Len() - m))
		missing.Append(int32(m))
		unique.Append(int32(c.CountUnique()))
		minRow, maxRow := extremeRows(c)
		if minRow < 0 {
			lo.AppendMissing()
			hi.AppendMissing()
		} else {
			lo.Append(c.GetString(minRow))
			hi.Append(c.GetString(maxRow))
		}
		if nc, ok := c.(NumericColumn); ok {
			means.Append(nc.Summarize(Mean))
			stddevs.Append(nc.Summarize(StandardDeviation))
		} else {
			means.AppendMissing()
			stddevs.AppendMissing()
		}
	}
	return NewTable(t.name+" summary", names, types, count, missing, unique, lo, hi, means, stddevs)
}

// extremeRows finds rows holding the smallest and largest present values,
// -1 if every cell is missing.
func extremeRows(c Column) (int, int) {
	lo, hi := -1, -1
	for r := range c.Len() {
		if c.IsMissingAt(r) {
			continue
		}
		if lo < 0 {
			lo, hi = r, r
			continue
		}
		if c.Compare(r, lo) < 0 {
			lo = r
		}
		if c.Compare(r, hi) > 0 {
			hi = r
		}
	}
	return lo, hi
}
