package tabula

import (
	"fmt"
	"math"
	"strings"

	"github.com/andreyvit/tabula/selection"
)

const (
	boolTrue    int8 = 1
	boolFalse   int8 = 0
	MissingBool int8 = math.MinInt8
)

// BoolColumn is a tri-state column: true, false or missing.
type BoolColumn struct {
	vec[int8]
}

var _ Column = (*BoolColumn)(nil)

func NewBoolColumn(name string, values ...bool) *BoolColumn {
	c := &BoolColumn{newVec[int8](name, len(values))}
	for _, v := range values {
		c.Append(v)
	}
	return c
}

func boolByte(v bool) int8 {
	if v {
		return boolTrue
	}
	return boolFalse
}

func (c *BoolColumn) Type() ColumnType { return BoolType }

// Bool returns the cell, false for a missing cell.
func (c *BoolColumn) Bool(row int) bool {
	return c.data[row] == boolTrue
}

// Value returns the raw cell: 1, 0 or MissingBool.
func (c *BoolColumn) Value(row int) int8 {
	return c.data[row]
}

func (c *BoolColumn) Append(v bool) *BoolColumn {
	c.data = append(c.data, boolByte(v))
	return c
}

func (c *BoolColumn) SetBool(row int, v bool) {
	checkRow(c.name, row, len(c.data))
	c.data[row] = boolByte(v)
}

func (c *BoolColumn) Get(row int) any {
	x := c.data[row]
	if x == MissingBool {
		return nil
	}
	return x == boolTrue
}

func (c *BoolColumn) GetString(row int) string {
	switch c.data[row] {
	case boolTrue:
		return "true"
	case boolFalse:
		return "false"
	default:
		return ""
	}
}

func (c *BoolColumn) toCell(v any) (int8, error) {
	switch v := v.(type) {
	case nil:
		return MissingBool, nil
	case bool:
		return boolByte(v), nil
	case int8:
		if v != boolTrue && v != boolFalse && v != MissingBool {
			return 0, columnErrf(c.name, -1, ErrInvalidArgument, "raw bool value %d", v)
		}
		return v, nil
	default:
		return 0, typeMismatch(c, v)
	}
}

func (c *BoolColumn) Set(row int, v any) error {
	checkRow(c.name, row, len(c.data))
	x, err := c.toCell(v)
	if err != nil {
		return err
	}
	c.data[row] = x
	return nil
}

func (c *BoolColumn) AppendValue(v any) error {
	x, err := c.toCell(v)
	if err != nil {
		return err
	}
	c.data = append(c.data, x)
	return nil
}

func (c *BoolColumn) parseCell(s string, opt *ParseOptions) (int8, error) {
	opt = opt.resolve()
	if opt.IsMissing(s) {
		return MissingBool, nil
	}
	b, ok := parseBool(strings.TrimSpace(s), opt)
	if !ok {
		return MissingBool, parseErr(c, s, nil)
	}
	return boolByte(b), nil
}

func (c *BoolColumn) AppendCell(s string, opt *ParseOptions) error {
	x, err := c.parseCell(s, opt)
	if err != nil {
		return err
	}
	c.data = append(c.data, x)
	return nil
}

func (c *BoolColumn) SetCell(row int, s string, opt *ParseOptions) error {
	checkRow(c.name, row, len(c.data))
	x, err := c.parseCell(s, opt)
	if err != nil {
		return err
	}
	c.data[row] = x
	return nil
}

func (c *BoolColumn) AppendFromBytes(b []byte) error {
	x, err := c.decodeCellBytes(b)
	if err != nil {
		return err
	}
	if x != boolTrue && x != boolFalse && x != MissingBool {
		return dataErrf(b, 0, nil, "%s: invalid bool cell %d", c.name, x)
	}
	c.data = append(c.data, x)
	return nil
}

func (c *BoolColumn) CountTrue() int {
	return c.count(boolTrue)
}

func (c *BoolColumn) CountFalse() int {
	return c.count(boolFalse)
}

func (c *BoolColumn) count(want int8) int {
	var n int
	for _, x := range c.data {
		if x == want {
			n++
		}
	}
	return n
}

// Any reports whether some present cell is true.
func (c *BoolColumn) Any() bool {
	return c.CountTrue() > 0
}

// All reports whether every present cell is true. Missing cells are
// ignored, so an all-missing column is vacuously true.
func (c *BoolColumn) All() bool {
	return c.CountFalse() == 0
}

// None reports whether no present cell is true.
func (c *BoolColumn) None() bool {
	return c.CountTrue() == 0
}

// ProportionTrue is CountTrue over the number of present cells, NaN if
// there are none.
func (c *BoolColumn) ProportionTrue() float64 {
	t, f := c.CountTrue(), c.CountFalse()
	if t+f == 0 {
		return math.NaN()
	}
	return float64(t) / float64(t+f)
}

func (c *BoolColumn) ProportionFalse() float64 {
	p := c.ProportionTrue()
	if math.IsNaN(p) {
		return p
	}
	return 1 - p
}

func (c *BoolColumn) IsTrue() *selection.Selection {
	return c.eval(func(x int8) bool { return x == boolTrue })
}

func (c *BoolColumn) IsFalse() *selection.Selection {
	return c.eval(func(x int8) bool { return x == boolFalse })
}

// And combines two columns row by row with three-valued logic: false wins
// over missing, missing wins over true.
func (c *BoolColumn) And(o *BoolColumn) *BoolColumn {
	checkSameLen(c, o)
	out := &BoolColumn{newVec[int8](c.name+" and "+o.name, len(c.data))}
	for i, a := range c.data {
		b := o.data[i]
		switch {
		case a == boolFalse || b == boolFalse:
			out.data = append(out.data, boolFalse)
		case a == MissingBool || b == MissingBool:
			out.data = append(out.data, MissingBool)
		default:
			out.data = append(out.data, boolTrue)
		}
	}
	return out
}

// Or is the three-valued disjunction: true wins over missing, missing wins
// over false.
func (c *BoolColumn) Or(o *BoolColumn) *BoolColumn {
	checkSameLen(c, o)
	out := &BoolColumn{newVec[int8](c.name+" or "+o.name, len(c.data))}
	for i, a := range c.data {
		b := o.data[i]
		switch {
		case a == boolTrue || b == boolTrue:
			out.data = append(out.data, boolTrue)
		case a == MissingBool || b == MissingBool:
			out.data = append(out.data, MissingBool)
		default:
			out.data = append(out.data, boolFalse)
		}
	}
	return out
}

// Not flips present cells and keeps missing ones.
func (c *BoolColumn) Not() *BoolColumn {
	out := &BoolColumn{newVec[int8]("not "+c.name, len(c.data))}
	for _, x := range c.data {
		switch x {
		case boolTrue:
			out.data = append(out.data, boolFalse)
		case boolFalse:
			out.data = append(out.data, boolTrue)
		default:
			out.data = append(out.data, MissingBool)
		}
	}
	return out
}

// AsInt16 maps true to 1, false to 0 and keeps missing.
func (c *BoolColumn) AsInt16() *Int16Column {
	out := NewInt16Column(c.name)
	for _, x := range c.data {
		if x == MissingBool {
			out.AppendMissing()
		} else {
			out.Append(int16(x))
		}
	}
	return out
}

func (c *BoolColumn) Copy() Column {
	return &BoolColumn{c.clone(c.name)}
}

func (c *BoolColumn) EmptyCopy() Column {
	return NewBoolColumn(c.name)
}

func (c *BoolColumn) Where(sel *selection.Selection) Column {
	return &BoolColumn{vec[int8]{name: c.name, data: c.where(sel), missing: c.missing}}
}

func (c *BoolColumn) Gather(rows []int) Column {
	return &BoolColumn{vec[int8]{name: c.name, data: c.gather(rows), missing: c.missing}}
}

func (c *BoolColumn) Unique() Column {
	return &BoolColumn{vec[int8]{name: c.name, data: c.unique(), missing: c.missing}}
}

func (c *BoolColumn) Print() string {
	return printColumn(c)
}

func (c *BoolColumn) String() string {
	return fmt.Sprintf("Bool column: %s", c.name)
}

func (c *BoolColumn) appendFrom(src Column, row int) {
	c.data = append(c.data, src.(*BoolColumn).data[row])
}

func (c *BoolColumn) equalCells(i int, other Column, j int) bool {
	o, ok := other.(*BoolColumn)
	return ok && c.data[i] == o.data[j]
}
