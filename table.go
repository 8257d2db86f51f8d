package tabula

import (
	"fmt"
	"math/rand/v2"
	"slices"
	"strings"

	"github.com/andreyvit/tabula/selection"
)

// Table is an ordered set of equally long, uniquely named columns.
//
// Column names are compared case-insensitively. Tables are not safe for
// concurrent mutation.
type Table struct {
	name string
	cols []Column
	mod  uint64
}

func NewTable(name string, cols ...Column) (*Table, error) {
	t := &Table{name: name}
	if err := t.AddColumns(cols...); err != nil {
		return nil, err
	}
	return t, nil
}

// newTableUnchecked is for columns derived from an already valid table.
func newTableUnchecked(name string, cols []Column) *Table {
	return &Table{name: name, cols: cols}
}

func (t *Table) Name() string        { return t.name }
func (t *Table) SetName(name string) { t.name = name }

// modified invalidates row cursors.
func (t *Table) modified() {
	t.mod++
}

func (t *Table) ColumnCount() int {
	return len(t.cols)
}

func (t *Table) RowCount() int {
	if len(t.cols) == 0 {
		return 0
	}
	return t.cols[0].Len()
}

func (t *Table) Columns() []Column {
	return slices.Clone(t.cols)
}

func (t *Table) ColumnNames() []string {
	names := make([]string, len(t.cols))
	for i, c := range t.cols {
		names[i] = c.Name()
	}
	return names
}

// ColumnIndex returns -1 if there is no such column.
func (t *Table) ColumnIndex(name string) int {
	for i, c := range t.cols {
		if strings.EqualFold(c.Name(), name) {
			return i
		}
	}
	return -1
}

func (t *Table) HasColumn(name string) bool {
	return t.ColumnIndex(name) >= 0
}

func (t *Table) Column(name string) (Column, error) {
	i := t.ColumnIndex(name)
	if i < 0 {
		return nil, tableErrf(t, name, ErrColumnNotFound, "")
	}
	return t.cols[i], nil
}

// ColumnAt panics if i is out of range.
func (t *Table) ColumnAt(i int) Column {
	return t.cols[i]
}

func (t *Table) columns(names []string) ([]Column, error) {
	cols := make([]Column, len(names))
	for i, name := range names {
		c, err := t.Column(name)
		if err != nil {
			return nil, err
		}
		cols[i] = c
	}
	return cols, nil
}

func typedColumn[C Column](t *Table, name string) (C, error) {
	var zero C
	c, err := t.Column(name)
	if err != nil {
		return zero, err
	}
	tc, ok := c.(C)
	if !ok {
		return zero, tableErrf(t, name, ErrTypeMismatch, "column is %v", c.Type())
	}
	return tc, nil
}

func (t *Table) BoolColumn(name string) (*BoolColumn, error) {
	return typedColumn[*BoolColumn](t, name)
}

// NumberColumn returns any numeric column.
func (t *Table) NumberColumn(name string) (NumericColumn, error) {
	return typedColumn[NumericColumn](t, name)
}

func (t *Table) Int16Column(name string) (*Int16Column, error) {
	return typedColumn[*Int16Column](t, name)
}

func (t *Table) Int32Column(name string) (*Int32Column, error) {
	return typedColumn[*Int32Column](t, name)
}

func (t *Table) Int64Column(name string) (*Int64Column, error) {
	return typedColumn[*Int64Column](t, name)
}

func (t *Table) Float32Column(name string) (*Float32Column, error) {
	return typedColumn[*Float32Column](t, name)
}

func (t *Table) Float64Column(name string) (*Float64Column, error) {
	return typedColumn[*Float64Column](t, name)
}

func (t *Table) StringColumn(name string) (*StringColumn, error) {
	return typedColumn[*StringColumn](t, name)
}

func (t *Table) DateColumn(name string) (*DateColumn, error) {
	return typedColumn[*DateColumn](t, name)
}

func (t *Table) TimeColumn(name string) (*TimeColumn, error) {
	return typedColumn[*TimeColumn](t, name)
}

func (t *Table) DateTimeColumn(name string) (*DateTimeColumn, error) {
	return typedColumn[*DateTimeColumn](t, name)
}

// checkNewColumns validates adding cols, optionally ignoring the existing
// column at index skip.
func (t *Table) checkNewColumns(skip int, cols []Column) error {
	rows := -1
	for i, c := range t.cols {
		if i != skip {
			rows = c.Len()
			break
		}
	}
	for i, c := range cols {
		if c == nil {
			return tableErrf(t, "", ErrInvalidArgument, "column #%d is nil", i)
		}
		name := c.Name()
		if name == "" {
			return tableErrf(t, "", ErrInvalidArgument, "column #%d has no name", i)
		}
		if j := t.ColumnIndex(name); j >= 0 && j != skip {
			return tableErrf(t, name, ErrDuplicateColumn, "")
		}
		for _, prev := range cols[:i] {
			if strings.EqualFold(prev.Name(), name) {
				return tableErrf(t, name, ErrDuplicateColumn, "")
			}
		}
		if rows < 0 {
			rows = c.Len()
		} else if c.Len() != rows {
			return tableErrf(t, name, ErrLengthMismatch, "column has %d rows, table has %d", c.Len(), rows)
		}
	}
	return nil
}

// AddColumns appends columns. Nothing is added if any of them has the
// wrong length or a taken name.
func (t *Table) AddColumns(cols ...Column) error {
	if err := t.checkNewColumns(-1, cols); err != nil {
		return err
	}
	t.cols = append(t.cols, cols...)
	t.modified()
	return nil
}

func (t *Table) InsertColumn(i int, col Column) error {
	if i < 0 || i > len(t.cols) {
		return tableErrf(t, "", ErrIndexOutOfRange, "column position %d of %d", i, len(t.cols))
	}
	if err := t.checkNewColumns(-1, []Column{col}); err != nil {
		return err
	}
	t.cols = slices.Insert(t.cols, i, col)
	t.modified()
	return nil
}

// ReplaceColumn puts col in place of the named column. col may have a
// different name.
func (t *Table) ReplaceColumn(name string, col Column) error {
	i := t.ColumnIndex(name)
	if i < 0 {
		return tableErrf(t, name, ErrColumnNotFound, "")
	}
	if err := t.checkNewColumns(i, []Column{col}); err != nil {
		return err
	}
	t.cols[i] = col
	t.modified()
	return nil
}

func (t *Table) RemoveColumns(names ...string) error {
	idx := make([]int, len(names))
	for k, name := range names {
		i := t.ColumnIndex(name)
		if i < 0 {
			return tableErrf(t, name, ErrColumnNotFound, "")
		}
		idx[k] = i
	}
	return t.RemoveColumnsAt(idx...)
}

func (t *Table) RemoveColumnsAt(indices ...int) error {
	drop := make(map[int]bool, len(indices))
	for _, i := range indices {
		if i < 0 || i >= len(t.cols) {
			return tableErrf(t, "", ErrIndexOutOfRange, "column position %d of %d", i, len(t.cols))
		}
		drop[i] = true
	}
	kept := t.cols[:0:0]
	for i, c := range t.cols {
		if !drop[i] {
			kept = append(kept, c)
		}
	}
	t.cols = kept
	t.modified()
	return nil
}

// RetainColumns keeps only the named columns, in their current order.
func (t *Table) RetainColumns(names ...string) error {
	keep := make(map[int]bool, len(names))
	for _, name := range names {
		i := t.ColumnIndex(name)
		if i < 0 {
			return tableErrf(t, name, ErrColumnNotFound, "")
		}
		keep[i] = true
	}
	var drop []int
	for i := range t.cols {
		if !keep[i] {
			drop = append(drop, i)
		}
	}
	return t.RemoveColumnsAt(drop...)
}

// Validate re-checks the column invariants, for callers that mutated
// columns directly.
func (t *Table) Validate() error {
	for i, c := range t.cols {
		if c.Len() != t.cols[0].Len() {
			return tableErrf(t, c.Name(), ErrLengthMismatch, "column has %d rows, %s has %d", c.Len(), t.cols[0].Name(), t.cols[0].Len())
		}
		for _, prev := range t.cols[:i] {
			if strings.EqualFold(prev.Name(), c.Name()) {
				return tableErrf(t, c.Name(), ErrDuplicateColumn, "")
			}
		}
	}
	return nil
}

func (t *Table) checkSelection(sel *selection.Selection) error {
	if n := t.RowCount(); sel.Max() >= n {
		return tableErrf(t, "", ErrIndexOutOfRange, "selection row %d, table has %d rows", sel.Max(), n)
	}
	return nil
}

func (t *Table) checkRows(rows []int) error {
	n := t.RowCount()
	for _, r := range rows {
		if r < 0 || r >= n {
			return tableErrf(t, "", ErrIndexOutOfRange, "row %d, table has %d rows", r, n)
		}
	}
	return nil
}

// Where returns a new table holding the selected rows of every column.
func (t *Table) Where(sel *selection.Selection) (*Table, error) {
	if err := t.checkSelection(sel); err != nil {
		return nil, err
	}
	cols := make([]Column, len(t.cols))
	for i, c := range t.cols {
		cols[i] = c.Where(sel)
	}
	return newTableUnchecked(t.name, cols), nil
}

// DropWhere returns a new table without the selected rows.
func (t *Table) DropWhere(sel *selection.Selection) (*Table, error) {
	if err := t.checkSelection(sel); err != nil {
		return nil, err
	}
	return t.Where(selection.Not(sel, t.RowCount()))
}

// Rows returns a new table holding the given rows in the given order.
func (t *Table) Rows(rows ...int) (*Table, error) {
	if err := t.checkRows(rows); err != nil {
		return nil, err
	}
	return t.gather(rows), nil
}

func (t *Table) gather(rows []int) *Table {
	cols := make([]Column, len(t.cols))
	for i, c := range t.cols {
		cols[i] = c.Gather(rows)
	}
	return newTableUnchecked(t.name, cols)
}

func (t *Table) DropRows(rows ...int) (*Table, error) {
	if err := t.checkRows(rows); err != nil {
		return nil, err
	}
	return t.DropWhere(selection.Of(rows...))
}

// InRange returns rows lo (inclusive) to hi (exclusive).
func (t *Table) InRange(lo, hi int) (*Table, error) {
	if lo < 0 || hi < lo || hi > t.RowCount() {
		return nil, tableErrf(t, "", ErrIndexOutOfRange, "range [%d, %d) of %d rows", lo, hi, t.RowCount())
	}
	return t.Where(selection.Range(lo, hi))
}

func (t *Table) DropRange(lo, hi int) (*Table, error) {
	if lo < 0 || hi < lo || hi > t.RowCount() {
		return nil, tableErrf(t, "", ErrIndexOutOfRange, "range [%d, %d) of %d rows", lo, hi, t.RowCount())
	}
	return t.DropWhere(selection.Range(lo, hi))
}

// First returns up to n leading rows.
func (t *Table) First(n int) *Table {
	n = max(0, min(n, t.RowCount()))
	return must(t.InRange(0, n))
}

// Last returns up to n trailing rows.
func (t *Table) Last(n int) *Table {
	rows := t.RowCount()
	n = max(0, min(n, rows))
	return must(t.InRange(rows-n, rows))
}

// SampleN returns n distinct random rows in their original order. A nil
// rng uses the global source.
func (t *Table) SampleN(n int, rng *rand.Rand) (*Table, error) {
	rows := t.RowCount()
	if n < 0 || n > rows {
		return nil, tableErrf(t, "", ErrInvalidArgument, "cannot sample %d of %d rows", n, rows)
	}
	var perm []int
	if rng != nil {
		perm = rng.Perm(rows)
	} else {
		perm = rand.Perm(rows)
	}
	return t.Where(selection.Of(perm[:n]...))
}

// DropRowsWithMissingValues keeps rows with no missing cells.
func (t *Table) DropRowsWithMissingValues() *Table {
	missing := selection.New()
	for _, c := range t.cols {
		missing.OrWith(c.IsMissing())
	}
	return must(t.DropWhere(missing))
}

// sameStructure reports whether o has the same column names and types in
// the same order.
func (t *Table) sameStructure(o *Table) error {
	if len(t.cols) != len(o.cols) {
		return tableErrf(t, "", ErrTypeMismatch, "%d columns vs %d in %s", len(t.cols), len(o.cols), o.name)
	}
	for i, c := range t.cols {
		oc := o.cols[i]
		if !strings.EqualFold(c.Name(), oc.Name()) {
			return tableErrf(t, c.Name(), ErrColumnNotFound, "column #%d of %s is %s", i, o.name, oc.Name())
		}
		if c.Type() != oc.Type() {
			return tableErrf(t, c.Name(), ErrTypeMismatch, "%v vs %v in %s", c.Type(), oc.Type(), o.name)
		}
	}
	return nil
}

// Append adds all rows of other, which must have the same column names
// and types in the same order.
func (t *Table) Append(other *Table) error {
	if err := t.sameStructure(other); err != nil {
		return err
	}
	n := other.RowCount()
	if other == t {
		other = t.Copy()
	}
	for i, c := range t.cols {
		src := other.cols[i]
		for r := range n {
			c.appendFrom(src, r)
		}
	}
	t.modified()
	return nil
}

// AppendRow copies row r of src, a table with the same structure.
func (t *Table) AppendRow(src *Table, r int) error {
	if err := t.sameStructure(src); err != nil {
		return err
	}
	if err := src.checkRows([]int{r}); err != nil {
		return err
	}
	for i, c := range t.cols {
		c.appendFrom(src.cols[i], r)
	}
	t.modified()
	return nil
}

// Concat adds copies of all columns of other.
func (t *Table) Concat(other *Table) error {
	cols := make([]Column, len(other.cols))
	for i, c := range other.cols {
		cols[i] = c.Copy()
	}
	return t.AddColumns(cols...)
}

func (t *Table) Copy() *Table {
	cols := make([]Column, len(t.cols))
	for i, c := range t.cols {
		cols[i] = c.Copy()
	}
	return newTableUnchecked(t.name, cols)
}

func (t *Table) EmptyCopy() *Table {
	cols := make([]Column, len(t.cols))
	for i, c := range t.cols {
		cols[i] = c.EmptyCopy()
	}
	return newTableUnchecked(t.name, cols)
}

// Structure describes the columns: one row per column with its index,
// name and type.
func (t *Table) Structure() *Table {
	idx := NewInt32Column("Index")
	names := NewTextColumn("Column Name")
	types := NewCategoryColumn("Column Type")
	for i, c := range t.cols {
		idx.Append(int32(i))
		names.Append(c.Name())
		types.Append(c.Type().String())
	}
	return must(NewTable(t.name+" structure", idx, names, types))
}

// RowsEqual compares row i of a with row j of b cell by cell. Tables with
// different column names or types never have equal rows.
func RowsEqual(a *Table, i int, b *Table, j int) bool {
	if a.sameStructure(b) != nil {
		return false
	}
	return rowsEqual(a.cols, i, b.cols, j)
}

func rowsEqual(a []Column, i int, b []Column, j int) bool {
	for k, c := range a {
		if !c.equalCells(i, b[k], j) {
			return false
		}
	}
	return true
}

// Equal reports whether o has the same columns and the same cells. Table
// names are ignored.
func (t *Table) Equal(o *Table) bool {
	if t.sameStructure(o) != nil || t.RowCount() != o.RowCount() {
		return false
	}
	for r := range t.RowCount() {
		if !rowsEqual(t.cols, r, o.cols, r) {
			return false
		}
	}
	return true
}

func (t *Table) String() string {
	return fmt.Sprintf("%s: %d rows x %d cols", t.displayName(), t.RowCount(), len(t.cols))
}

func (t *Table) displayName() string {
	if t.name == "" {
		return "<unnamed>"
	}
	return t.name
}
