package tabula

import (
	"fmt"
)

// Row is a cursor over the rows of a table. It reads and writes the
// table's columns directly, so cell edits through a Row are visible to
// everyone.
//
// Structural changes to the table (adding or removing columns, appending
// rows, sorting) invalidate the cursor; any further use panics with an
// error wrapping ErrCursorInvalidated.
type Row struct {
	t   *Table
	row int
	mod uint64
}

// Cursor returns a Row positioned before the first row.
func (t *Table) Cursor() *Row {
	return &Row{t: t, row: -1, mod: t.mod}
}

func (r *Row) check() {
	if r.mod != r.t.mod {
		panic(tableErrf(r.t, "", ErrCursorInvalidated, "at row %d", r.row))
	}
}

func (r *Row) Table() *Table {
	return r.t
}

// Index is the current row, -1 before the first call to Next.
func (r *Row) Index() int {
	return r.row
}

func (r *Row) HasNext() bool {
	r.check()
	return r.row+1 < r.t.RowCount()
}

// Next advances to the next row and reports whether there is one.
func (r *Row) Next() bool {
	r.check()
	if r.row+1 < r.t.RowCount() {
		r.row++
		return true
	}
	r.row = r.t.RowCount()
	return false
}

// At moves the cursor to the given row.
func (r *Row) At(row int) error {
	r.check()
	if row < 0 || row >= r.t.RowCount() {
		return tableErrf(r.t, "", ErrIndexOutOfRange, "row %d, table has %d rows", row, r.t.RowCount())
	}
	r.row = row
	return nil
}

func (r *Row) colAt(i int) Column {
	r.check()
	if r.row < 0 || r.row >= r.t.RowCount() {
		panic(tableErrf(r.t, "", ErrIndexOutOfRange, "cursor is not on a row (at %d)", r.row))
	}
	if i < 0 || i >= len(r.t.cols) {
		panic(tableErrf(r.t, "", ErrIndexOutOfRange, "column position %d of %d", i, len(r.t.cols)))
	}
	return r.t.cols[i]
}

func (r *Row) col(name string) Column {
	i := r.t.ColumnIndex(name)
	if i < 0 {
		r.check()
		panic(tableErrf(r.t, name, ErrColumnNotFound, ""))
	}
	return r.colAt(i)
}

func rowColumn[C Column](r *Row, name string) C {
	c := r.col(name)
	tc, ok := c.(C)
	if !ok {
		panic(tableErrf(r.t, name, ErrTypeMismatch, "column is %v", c.Type()))
	}
	return tc
}

func (r *Row) IsMissing(name string) bool {
	return r.col(name).IsMissingAt(r.row)
}

// Get returns the cell as Column.Get does, nil if missing.
func (r *Row) Get(name string) any {
	return r.col(name).Get(r.row)
}

func (r *Row) GetString(name string) string {
	return r.col(name).GetString(r.row)
}

func (r *Row) GetAt(i int) any {
	return r.colAt(i).Get(r.row)
}

func (r *Row) Set(name string, v any) error {
	return r.col(name).Set(r.row, v)
}

func (r *Row) SetAt(i int, v any) error {
	return r.colAt(i).Set(r.row, v)
}

func (r *Row) SetMissing(name string) {
	r.col(name).SetMissing(r.row)
}

// Bool returns false for a missing cell; use IsMissing to tell apart.
func (r *Row) Bool(name string) bool {
	return rowColumn[*BoolColumn](r, name).Bool(r.row)
}

func (r *Row) Int16(name string) int16 {
	return rowColumn[*Int16Column](r, name).Value(r.row)
}

func (r *Row) Int32(name string) int32 {
	return rowColumn[*Int32Column](r, name).Value(r.row)
}

func (r *Row) Int64(name string) int64 {
	return rowColumn[*Int64Column](r, name).Value(r.row)
}

func (r *Row) Float32(name string) float32 {
	return rowColumn[*Float32Column](r, name).Value(r.row)
}

// Float64 reads any numeric column as float64, NaN if missing.
func (r *Row) Float64(name string) float64 {
	return rowColumn[NumericColumn](r, name).Float64(r.row)
}

func (r *Row) String(name string) string {
	return rowColumn[*StringColumn](r, name).Value(r.row)
}

func (r *Row) Date(name string) int32 {
	return rowColumn[*DateColumn](r, name).Value(r.row)
}

func (r *Row) Time(name string) int32 {
	return rowColumn[*TimeColumn](r, name).Value(r.row)
}

func (r *Row) DateTime(name string) int64 {
	return rowColumn[*DateTimeColumn](r, name).Value(r.row)
}

func (r *Row) SetBool(name string, v bool) {
	rowColumn[*BoolColumn](r, name).SetBool(r.row, v)
}

func (r *Row) SetInt16(name string, v int16) {
	rowColumn[*Int16Column](r, name).SetValue(r.row, v)
}

func (r *Row) SetInt32(name string, v int32) {
	rowColumn[*Int32Column](r, name).SetValue(r.row, v)
}

func (r *Row) SetInt64(name string, v int64) {
	rowColumn[*Int64Column](r, name).SetValue(r.row, v)
}

func (r *Row) SetFloat32(name string, v float32) {
	rowColumn[*Float32Column](r, name).SetValue(r.row, v)
}

func (r *Row) SetFloat64(name string, v float64) {
	rowColumn[*Float64Column](r, name).SetValue(r.row, v)
}

func (r *Row) SetString(name string, v string) {
	rowColumn[*StringColumn](r, name).SetString(r.row, v)
}

func (r *Row) SetDate(name string, v int32) {
	ensure(rowColumn[*DateColumn](r, name).Set(r.row, v))
}

func (r *Row) SetTime(name string, v int32) {
	ensure(rowColumn[*TimeColumn](r, name).Set(r.row, v))
}

func (r *Row) SetDateTime(name string, v int64) {
	ensure(rowColumn[*DateTimeColumn](r, name).Set(r.row, v))
}

func (r *Row) Format() string {
	return fmt.Sprintf("%s[%d]", r.t.displayName(), r.row)
}
