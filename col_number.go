package tabula

import (
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"

	"github.com/andreyvit/tabula/selection"
)

type Number interface {
	int16 | int32 | int64 | float32 | float64
}

// NumberColumn holds int16, int32, int64, float32 or float64 cells.
// Missing integers are the type's minimum value; missing floats are NaN.
type NumberColumn[T Number] struct {
	vec[T]
}

type (
	Int16Column   = NumberColumn[int16]
	Int32Column   = NumberColumn[int32]
	Int64Column   = NumberColumn[int64]
	Float32Column = NumberColumn[float32]
	Float64Column = NumberColumn[float64]
)

var (
	_ NumericColumn = (*Int16Column)(nil)
	_ NumericColumn = (*Int32Column)(nil)
	_ NumericColumn = (*Int64Column)(nil)
	_ NumericColumn = (*Float32Column)(nil)
	_ NumericColumn = (*Float64Column)(nil)
)

func NewNumberColumn[T Number](name string, values ...T) *NumberColumn[T] {
	c := &NumberColumn[T]{newVec[T](name, len(values))}
	c.data = append(c.data, values...)
	return c
}

func NewInt16Column(name string, values ...int16) *Int16Column {
	return NewNumberColumn(name, values...)
}

func NewInt32Column(name string, values ...int32) *Int32Column {
	return NewNumberColumn(name, values...)
}

func NewInt64Column(name string, values ...int64) *Int64Column {
	return NewNumberColumn(name, values...)
}

func NewFloat32Column(name string, values ...float32) *Float32Column {
	return NewNumberColumn(name, values...)
}

func NewFloat64Column(name string, values ...float64) *Float64Column {
	return NewNumberColumn(name, values...)
}

func wrapNumbers[T Number](name string, data []T) *NumberColumn[T] {
	return &NumberColumn[T]{vec[T]{name: name, data: data, missing: missingOf[T]()}}
}

func isFloat[T Number]() bool {
	var z T
	switch any(z).(type) {
	case float32, float64:
		return true
	}
	return false
}

func (c *NumberColumn[T]) Type() ColumnType {
	var z T
	switch any(z).(type) {
	case int16:
		return Int16Type
	case int32:
		return Int32Type
	case int64:
		return Int64Type
	case float32:
		return Float32Type
	default:
		return Float64Type
	}
}

// Value returns the cell, the missing sentinel for a missing cell.
func (c *NumberColumn[T]) Value(row int) T {
	return c.data[row]
}

// Values returns a copy of the cells.
func (c *NumberColumn[T]) Values() []T {
	return slices.Clone(c.data)
}

func (c *NumberColumn[T]) SetValue(row int, v T) {
	checkRow(c.name, row, len(c.data))
	c.data[row] = v
}

func (c *NumberColumn[T]) Append(values ...T) *NumberColumn[T] {
	c.data = append(c.data, values...)
	return c
}

func (c *NumberColumn[T]) Get(row int) any {
	x := c.data[row]
	if c.isMissing(x) {
		return nil
	}
	return x
}

func (c *NumberColumn[T]) GetString(row int) string {
	x := c.data[row]
	if c.isMissing(x) {
		return ""
	}
	switch x := any(x).(type) {
	case int16:
		return strconv.FormatInt(int64(x), 10)
	case int32:
		return strconv.FormatInt(int64(x), 10)
	case int64:
		return strconv.FormatInt(x, 10)
	case float32:
		return strconv.FormatFloat(float64(x), 'g', -1, 32)
	case float64:
		return strconv.FormatFloat(x, 'g', -1, 64)
	}
	panic("unreachable")
}

func (c *NumberColumn[T]) Float64(row int) float64 {
	x := c.data[row]
	if c.isMissing(x) {
		return math.NaN()
	}
	return float64(x)
}

func (c *NumberColumn[T]) AsFloat64s() []float64 {
	out := make([]float64, len(c.data))
	for i, x := range c.data {
		if c.isMissing(x) {
			out[i] = math.NaN()
		} else {
			out[i] = float64(x)
		}
	}
	return out
}

// AsFloat64Column converts the column, keeping missing cells missing.
func (c *NumberColumn[T]) AsFloat64Column() *Float64Column {
	return wrapNumbers(c.name, c.AsFloat64s())
}

func (c *NumberColumn[T]) Summarize(fn AggregateFunc) float64 {
	return summarize(fn, c.AsFloat64s())
}

// toCell accepts T itself, nil, and any Go integer or float that converts
// to T without loss.
func (c *NumberColumn[T]) toCell(v any) (T, error) {
	var f float64
	switch v := v.(type) {
	case nil:
		return c.missing, nil
	case T:
		return v, nil
	case int:
		f = float64(v)
	case int8:
		f = float64(v)
	case int16:
		f = float64(v)
	case int32:
		f = float64(v)
	case int64:
		if x := T(v); int64(x) == v && !c.isMissing(x) {
			return x, nil
		}
		return c.missing, columnErrf(c.name, -1, ErrInvalidArgument, "%d does not fit in %v", v, c.Type())
	case float32:
		f = float64(v)
	case float64:
		f = v
	default:
		return c.missing, typeMismatch(c, v)
	}
	x := T(f)
	if isFloat[T]() {
		return x, nil
	}
	if float64(x) != f {
		return c.missing, columnErrf(c.name, -1, ErrInvalidArgument, "%v does not fit in %v", v, c.Type())
	}
	if c.isMissing(x) {
		return c.missing, columnErrf(c.name, -1, ErrInvalidArgument, "%v is the missing value of %v", v, c.Type())
	}
	return x, nil
}

func (c *NumberColumn[T]) Set(row int, v any) error {
	checkRow(c.name, row, len(c.data))
	x, err := c.toCell(v)
	if err != nil {
		return err
	}
	c.data[row] = x
	return nil
}

func (c *NumberColumn[T]) AppendValue(v any) error {
	x, err := c.toCell(v)
	if err != nil {
		return err
	}
	c.data = append(c.data, x)
	return nil
}

func (c *NumberColumn[T]) parseCell(s string, opt *ParseOptions) (T, error) {
	if opt.resolve().IsMissing(s) {
		return c.missing, nil
	}
	str := strings.TrimSpace(s)
	var z T
	switch any(z).(type) {
	case int16, int32, int64:
		n, err := strconv.ParseInt(str, 10, c.ByteSize()*8)
		if err != nil {
			return c.missing, parseErr(c, s, err)
		}
		x := T(n)
		if c.isMissing(x) {
			return c.missing, parseErr(c, s, strconv.ErrRange)
		}
		return x, nil
	default:
		f, err := strconv.ParseFloat(str, c.ByteSize()*8)
		if err != nil {
			return c.missing, parseErr(c, s, err)
		}
		return T(f), nil
	}
}

func (c *NumberColumn[T]) AppendCell(s string, opt *ParseOptions) error {
	x, err := c.parseCell(s, opt)
	if err != nil {
		return err
	}
	c.data = append(c.data, x)
	return nil
}

func (c *NumberColumn[T]) SetCell(row int, s string, opt *ParseOptions) error {
	checkRow(c.name, row, len(c.data))
	x, err := c.parseCell(s, opt)
	if err != nil {
		return err
	}
	c.data[row] = x
	return nil
}

func (c *NumberColumn[T]) AppendFromBytes(b []byte) error {
	return c.appendFromBytes(b)
}

func (c *NumberColumn[T]) Copy() Column {
	return &NumberColumn[T]{c.clone(c.name)}
}

func (c *NumberColumn[T]) EmptyCopy() Column {
	return NewNumberColumn[T](c.name)
}

func (c *NumberColumn[T]) Where(sel *selection.Selection) Column {
	return wrapNumbers(c.name, c.where(sel))
}

func (c *NumberColumn[T]) Gather(rows []int) Column {
	return wrapNumbers(c.name, c.gather(rows))
}

func (c *NumberColumn[T]) Unique() Column {
	return wrapNumbers(c.name, c.unique())
}

func (c *NumberColumn[T]) Print() string {
	return printColumn(c)
}

func (c *NumberColumn[T]) String() string {
	return fmt.Sprintf("%v column: %s", c.Type(), c.name)
}

func (c *NumberColumn[T]) appendFrom(src Column, row int) {
	c.data = append(c.data, src.(*NumberColumn[T]).data[row])
}

func (c *NumberColumn[T]) equalCells(i int, other Column, j int) bool {
	o, ok := other.(*NumberColumn[T])
	if !ok {
		return false
	}
	a, b := c.data[i], o.data[j]
	if c.isMissing(a) || o.isMissing(b) {
		return c.isMissing(a) && o.isMissing(b)
	}
	return a == b
}

func (c *NumberColumn[T]) IsLessThan(v T) *selection.Selection {
	return c.eval(func(x T) bool { return x < v })
}

func (c *NumberColumn[T]) IsLessThanOrEqualTo(v T) *selection.Selection {
	return c.eval(func(x T) bool { return x <= v })
}

func (c *NumberColumn[T]) IsGreaterThan(v T) *selection.Selection {
	return c.eval(func(x T) bool { return x > v })
}

func (c *NumberColumn[T]) IsGreaterThanOrEqualTo(v T) *selection.Selection {
	return c.eval(func(x T) bool { return x >= v })
}

func (c *NumberColumn[T]) IsEqualTo(v T) *selection.Selection {
	return c.eval(func(x T) bool { return x == v })
}

func (c *NumberColumn[T]) IsNotEqualTo(v T) *selection.Selection {
	return c.eval(func(x T) bool { return x != v })
}

// IsBetweenExclusive selects lo < x < hi.
func (c *NumberColumn[T]) IsBetweenExclusive(lo, hi T) *selection.Selection {
	return c.eval(func(x T) bool { return lo < x && x < hi })
}

// IsBetweenInclusive selects lo <= x <= hi.
func (c *NumberColumn[T]) IsBetweenInclusive(lo, hi T) *selection.Selection {
	return c.eval(func(x T) bool { return lo <= x && x <= hi })
}

func (c *NumberColumn[T]) IsIn(values ...T) *selection.Selection {
	set := make(map[T]struct{}, len(values))
	for _, v := range values {
		set[v] = struct{}{}
	}
	return c.eval(func(x T) bool {
		_, ok := set[x]
		return ok
	})
}

// IsNotIn selects present cells outside values; missing cells are in
// neither IsIn nor IsNotIn.
func (c *NumberColumn[T]) IsNotIn(values ...T) *selection.Selection {
	set := make(map[T]struct{}, len(values))
	for _, v := range values {
		set[v] = struct{}{}
	}
	return c.eval(func(x T) bool {
		_, ok := set[x]
		return !ok
	})
}

func (c *NumberColumn[T]) IsZero() *selection.Selection {
	return c.eval(func(x T) bool { return x == 0 })
}

func (c *NumberColumn[T]) IsPositive() *selection.Selection {
	return c.eval(func(x T) bool { return x > 0 })
}

func (c *NumberColumn[T]) IsNegative() *selection.Selection {
	return c.eval(func(x T) bool { return x < 0 })
}

func (c *NumberColumn[T]) IsNonNegative() *selection.Selection {
	return c.eval(func(x T) bool { return x >= 0 })
}

// Eval selects present cells for which pred returns true.
func (c *NumberColumn[T]) Eval(pred func(T) bool) *selection.Selection {
	return c.eval(pred)
}

func (c *NumberColumn[T]) IsLessThanColumn(o *NumberColumn[T]) *selection.Selection {
	return c.evalPair(&o.vec, func(a, b T) bool { return a < b })
}

func (c *NumberColumn[T]) IsGreaterThanColumn(o *NumberColumn[T]) *selection.Selection {
	return c.evalPair(&o.vec, func(a, b T) bool { return a > b })
}

func (c *NumberColumn[T]) IsEqualToColumn(o *NumberColumn[T]) *selection.Selection {
	return c.evalPair(&o.vec, func(a, b T) bool { return a == b })
}

// Top returns up to n largest present values, largest first.
func (c *NumberColumn[T]) Top(n int) []T {
	vals := c.present()
	slices.SortFunc(vals, func(a, b T) int { return c.compareValues(b, a) })
	return vals[:max(0, min(n, len(vals)))]
}

// Bottom returns up to n smallest present values, smallest first.
func (c *NumberColumn[T]) Bottom(n int) []T {
	vals := c.present()
	slices.SortFunc(vals, c.compareValues)
	return vals[:max(0, min(n, len(vals)))]
}

func (c *NumberColumn[T]) present() []T {
	out := make([]T, 0, len(c.data))
	for _, x := range c.data {
		if !c.isMissing(x) {
			out = append(out, x)
		}
	}
	return out
}
