package tabula

import (
	"slices"
	"strconv"
	"strings"
)

// DefaultMissingIndicators are the raw cell values read as missing when
// ParseOptions does not say otherwise.
var DefaultMissingIndicators = []string{"", "NA", "N/A", "NaN", "null", "*"}

const (
	DefaultDateFormat     = "2006-01-02"
	DefaultTimeFormat     = "15:04:05"
	DefaultDateTimeFormat = "2006-01-02T15:04:05"
)

// ParseOptions controls how raw cells from a source reader are turned into
// values. A nil *ParseOptions means the defaults.
type ParseOptions struct {
	MissingIndicators []string
	DateFormat        string
	TimeFormat        string
	DateTimeFormat    string
	// TrueValues and FalseValues are matched case-insensitively.
	TrueValues  []string
	FalseValues []string
}

var defaultParseOptions = ParseOptions{
	MissingIndicators: DefaultMissingIndicators,
	DateFormat:        DefaultDateFormat,
	TimeFormat:        DefaultTimeFormat,
	DateTimeFormat:    DefaultDateTimeFormat,
	TrueValues:        []string{"true", "t", "yes", "y", "1"},
	FalseValues:       []string{"false", "f", "no", "n", "0"},
}

func DefaultParseOptions() *ParseOptions {
	opt := defaultParseOptions
	opt.MissingIndicators = slices.Clone(opt.MissingIndicators)
	opt.TrueValues = slices.Clone(opt.TrueValues)
	opt.FalseValues = slices.Clone(opt.FalseValues)
	return &opt
}

// resolve fills zero fields with defaults.
func (opt *ParseOptions) resolve() *ParseOptions {
	if opt == nil {
		return &defaultParseOptions
	}
	r := *opt
	if r.MissingIndicators == nil {
		r.MissingIndicators = defaultParseOptions.MissingIndicators
	}
	if r.DateFormat == "" {
		r.DateFormat = DefaultDateFormat
	}
	if r.TimeFormat == "" {
		r.TimeFormat = DefaultTimeFormat
	}
	if r.DateTimeFormat == "" {
		r.DateTimeFormat = DefaultDateTimeFormat
	}
	if r.TrueValues == nil {
		r.TrueValues = defaultParseOptions.TrueValues
	}
	if r.FalseValues == nil {
		r.FalseValues = defaultParseOptions.FalseValues
	}
	return &r
}

func (opt *ParseOptions) IsMissing(s string) bool {
	return slices.Contains(opt.resolve().MissingIndicators, s)
}

func parseErr(col Column, s string, err error) error {
	if ne, ok := err.(*strconv.NumError); ok {
		err = ne.Err
	}
	return &ParseError{Column: col.Name(), Type: col.Type(), Input: s, Err: err}
}

func parseBool(s string, opt *ParseOptions) (bool, bool) {
	for _, t := range opt.TrueValues {
		if strings.EqualFold(s, t) {
			return true, true
		}
	}
	for _, f := range opt.FalseValues {
		if strings.EqualFold(s, f) {
			return false, true
		}
	}
	return false, false
}

// AppendCells appends one row of raw cells, one per column. If any cell
// fails to parse, the columns are rolled back and the table is unchanged.
func (t *Table) AppendCells(row []string, opt *ParseOptions) error {
	if len(row) != len(t.cols) {
		return tableErrf(t, "", ErrLengthMismatch, "row has %d cells, table has %d columns", len(row), len(t.cols))
	}
	opt = opt.resolve()
	n := t.RowCount()
	for i, col := range t.cols {
		if err := col.AppendCell(row[i], opt); err != nil {
			for _, c := range t.cols[:i] {
				c.truncate(n)
			}
			return tableErrf(t, col.Name(), err, "row %d", n)
		}
	}
	t.modified()
	return nil
}
