package tabula

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/andreyvit/tabula/packed"
	"github.com/andreyvit/tabula/selection"
)

// TimeColumn holds times of day as milliseconds since midnight.
type TimeColumn struct {
	vec[int32]
}

var _ Column = (*TimeColumn)(nil)

func NewTimeColumn(name string, values ...int32) *TimeColumn {
	c := &TimeColumn{newVec[int32](name, len(values))}
	c.data = append(c.data, values...)
	return c
}

func wrapTimes(name string, data []int32) *TimeColumn {
	return &TimeColumn{vec[int32]{name: name, data: data, missing: packed.MissingTime}}
}

func (c *TimeColumn) Type() ColumnType { return TimeType }

func (c *TimeColumn) fields() timeFields[int32] {
	return timeFields[int32]{&c.vec, func(t int32) int32 { return t }}
}

func (c *TimeColumn) Value(row int) int32 {
	return c.data[row]
}

// Values returns a copy of the packed times, missing cells included as sentinels.
func (c *TimeColumn) Values() []int32 {
	return slices.Clone(c.data)
}

func (c *TimeColumn) Append(t int32) *TimeColumn {
	c.data = append(c.data, t)
	return c
}

func (c *TimeColumn) AppendTime(t time.Time) *TimeColumn {
	return c.Append(packed.TimeFromTime(t))
}

func (c *TimeColumn) Get(row int) any {
	t := c.data[row]
	if t == packed.MissingTime {
		return nil
	}
	return t
}

func (c *TimeColumn) GetString(row int) string {
	return packed.FormatTime(c.data[row])
}

func (c *TimeColumn) toCell(v any) (int32, error) {
	switch v := v.(type) {
	case nil:
		return packed.MissingTime, nil
	case int32:
		if v != packed.MissingTime && !packed.IsValidTime(v) {
			return packed.MissingTime, columnErrf(c.name, -1, ErrInvalidArgument, "%d is not a packed time", v)
		}
		return v, nil
	case time.Time:
		return packed.TimeFromTime(v), nil
	default:
		return packed.MissingTime, typeMismatch(c, v)
	}
}

func (c *TimeColumn) Set(row int, v any) error {
	checkRow(c.name, row, len(c.data))
	t, err := c.toCell(v)
	if err != nil {
		return err
	}
	c.data[row] = t
	return nil
}

func (c *TimeColumn) AppendValue(v any) error {
	t, err := c.toCell(v)
	if err != nil {
		return err
	}
	c.data = append(c.data, t)
	return nil
}

func (c *TimeColumn) parseCell(s string, opt *ParseOptions) (int32, error) {
	opt = opt.resolve()
	if opt.IsMissing(s) {
		return packed.MissingTime, nil
	}
	t, err := packed.ParseTime(opt.TimeFormat, strings.TrimSpace(s))
	if err != nil {
		return packed.MissingTime, parseErr(c, s, err)
	}
	return t, nil
}

func (c *TimeColumn) AppendCell(s string, opt *ParseOptions) error {
	t, err := c.parseCell(s, opt)
	if err != nil {
		return err
	}
	c.data = append(c.data, t)
	return nil
}

func (c *TimeColumn) SetCell(row int, s string, opt *ParseOptions) error {
	checkRow(c.name, row, len(c.data))
	t, err := c.parseCell(s, opt)
	if err != nil {
		return err
	}
	c.data[row] = t
	return nil
}

func (c *TimeColumn) AppendFromBytes(b []byte) error {
	return c.appendFromBytes(b)
}

func (c *TimeColumn) Hour() *Int16Column   { return c.fields().hour() }
func (c *TimeColumn) Minute() *Int16Column { return c.fields().minute() }
func (c *TimeColumn) Second() *Int16Column { return c.fields().second() }
func (c *TimeColumn) Milli() *Int16Column  { return c.fields().milli() }

func (c *TimeColumn) IsBefore(t int32) *selection.Selection {
	return c.eval(func(x int32) bool { return x < t })
}

func (c *TimeColumn) IsAfter(t int32) *selection.Selection {
	return c.eval(func(x int32) bool { return x > t })
}

func (c *TimeColumn) IsOnOrBefore(t int32) *selection.Selection {
	return c.eval(func(x int32) bool { return x <= t })
}

func (c *TimeColumn) IsOnOrAfter(t int32) *selection.Selection {
	return c.eval(func(x int32) bool { return x >= t })
}

func (c *TimeColumn) IsEqualTo(t int32) *selection.Selection {
	return c.eval(func(x int32) bool { return x == t })
}

func (c *TimeColumn) IsBetween(lo, hi int32) *selection.Selection {
	return c.eval(func(x int32) bool { return lo <= x && x <= hi })
}

func (c *TimeColumn) IsMidnight() *selection.Selection {
	return c.IsEqualTo(packed.Midnight)
}

func (c *TimeColumn) IsNoon() *selection.Selection {
	return c.IsEqualTo(packed.Noon)
}

func (c *TimeColumn) IsBeforeNoon() *selection.Selection {
	return c.IsBefore(packed.Noon)
}

func (c *TimeColumn) IsAfterNoon() *selection.Selection {
	return c.IsAfter(packed.Noon)
}

// PlusHours and friends wrap around midnight.
func (c *TimeColumn) PlusHours(n int64) *TimeColumn {
	return &TimeColumn{mapPresent(&c.vec, func(t int32) int32 { return packed.PlusHours(t, n) })}
}

func (c *TimeColumn) PlusMinutes(n int64) *TimeColumn {
	return &TimeColumn{mapPresent(&c.vec, func(t int32) int32 { return packed.PlusMinutes(t, n) })}
}

func (c *TimeColumn) PlusSeconds(n int64) *TimeColumn {
	return &TimeColumn{mapPresent(&c.vec, func(t int32) int32 { return packed.PlusSeconds(t, n) })}
}

func (c *TimeColumn) PlusMillis(n int64) *TimeColumn {
	return &TimeColumn{mapPresent(&c.vec, func(t int32) int32 { return packed.PlusMillis(t, n) })}
}

func (c *TimeColumn) Copy() Column {
	return &TimeColumn{c.clone(c.name)}
}

func (c *TimeColumn) EmptyCopy() Column {
	return NewTimeColumn(c.name)
}

func (c *TimeColumn) Where(sel *selection.Selection) Column {
	return wrapTimes(c.name, c.where(sel))
}

func (c *TimeColumn) Gather(rows []int) Column {
	return wrapTimes(c.name, c.gather(rows))
}

func (c *TimeColumn) Unique() Column {
	return wrapTimes(c.name, c.unique())
}

func (c *TimeColumn) Print() string {
	return printColumn(c)
}

func (c *TimeColumn) String() string {
	return fmt.Sprintf("Time column: %s", c.name)
}

func (c *TimeColumn) appendFrom(src Column, row int) {
	c.data = append(c.data, src.(*TimeColumn).data[row])
}

func (c *TimeColumn) equalCells(i int, other Column, j int) bool {
	o, ok := other.(*TimeColumn)
	return ok && c.data[i] == o.data[j]
}
