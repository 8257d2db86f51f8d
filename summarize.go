package tabula

import (
	"fmt"

	"github.com/andreyvit/tabula/selection"
)

// Summarizer applies aggregate functions to one numeric column of a table,
// either over the whole table or per group.
type Summarizer struct {
	t      *Table
	column string
	fns    []AggregateFunc
}

func (t *Table) Summarize(column string, fns ...AggregateFunc) *Summarizer {
	return &Summarizer{t: t, column: column, fns: fns}
}

func (s *Summarizer) target() (NumericColumn, error) {
	if len(s.fns) == 0 {
		return nil, tableErrf(s.t, s.column, ErrInvalidArgument, "no aggregate functions")
	}
	c, err := s.t.Column(s.column)
	if err != nil {
		return nil, err
	}
	nc, ok := c.(NumericColumn)
	if !ok {
		return nil, tableErrf(s.t, s.column, ErrTypeMismatch, "cannot summarize a %v column", c.Type())
	}
	return nc, nil
}

func (s *Summarizer) resultName(fn AggregateFunc, col Column) string {
	return fmt.Sprintf("%s [%s]", fn.Name(), col.Name())
}

// Apply returns a one-row table with a float64 column per function.
func (s *Summarizer) Apply() (*Table, error) {
	col, err := s.target()
	if err != nil {
		return nil, err
	}
	cols := make([]Column, len(s.fns))
	for i, fn := range s.fns {
		cols[i] = NewFloat64Column(s.resultName(fn, col), col.Summarize(fn))
	}
	return NewTable(s.t.name+" summary", cols...)
}

// By groups rows on the given columns and returns one row per group, in
// order of first appearance: the key columns, then a float64 column per
// function.
func (s *Summarizer) By(groupColumns ...string) (*Table, error) {
	col, err := s.target()
	if err != nil {
		return nil, err
	}
	if len(groupColumns) == 0 {
		return s.Apply()
	}
	keys, err := s.t.columns(groupColumns)
	if err != nil {
		return nil, err
	}
	firsts, groups := groupRows(keys, s.t.RowCount())

	cols := make([]Column, 0, len(keys)+len(s.fns))
	for _, k := range keys {
		cols = append(cols, k.Gather(firsts))
	}
	values := col.AsFloat64s()
	results := make([]*Float64Column, len(s.fns))
	for i, fn := range s.fns {
		results[i] = NewFloat64Column(s.resultName(fn, col))
		cols = append(cols, results[i])
	}
	for _, g := range groups {
		part := groupValues(values, g)
		for i, fn := range s.fns {
			results[i].Append(summarize(fn, part))
		}
	}
	return NewTable(s.t.name+" summary", cols...)
}

func groupValues(values []float64, g *selection.Selection) []float64 {
	out := make([]float64, 0, g.Len())
	for r := range g.All() {
		out = append(out, values[r])
	}
	return out
}
