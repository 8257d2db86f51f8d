package tabula

import (
	"fmt"
	"math"
	"slices"
	"strings"
	"time"

	"github.com/andreyvit/tabula/packed"
	"github.com/andreyvit/tabula/selection"
)

// DateColumn holds packed dates (see package packed).
type DateColumn struct {
	vec[int32]
}

var _ Column = (*DateColumn)(nil)

func NewDateColumn(name string, values ...int32) *DateColumn {
	c := &DateColumn{newVec[int32](name, len(values))}
	c.data = append(c.data, values...)
	return c
}

func wrapDates(name string, data []int32) *DateColumn {
	return &DateColumn{vec[int32]{name: name, data: data, missing: packed.MissingDate}}
}

func (c *DateColumn) Type() ColumnType { return DateType }

func (c *DateColumn) fields() dateFields[int32] {
	return dateFields[int32]{&c.vec, func(d int32) int32 { return d }}
}

// Value returns the packed date, packed.MissingDate if missing.
func (c *DateColumn) Value(row int) int32 {
	return c.data[row]
}

// Values returns a copy of the packed dates, missing cells included as sentinels.
func (c *DateColumn) Values() []int32 {
	return slices.Clone(c.data)
}

// Time returns midnight UTC of the cell, the zero time if missing.
func (c *DateColumn) Time(row int) time.Time {
	d := c.data[row]
	if d == packed.MissingDate {
		return time.Time{}
	}
	return packed.DateToTime(d)
}

func (c *DateColumn) Append(d int32) *DateColumn {
	c.data = append(c.data, d)
	return c
}

func (c *DateColumn) AppendTime(t time.Time) *DateColumn {
	return c.Append(packed.DateFromTime(t))
}

func (c *DateColumn) Get(row int) any {
	d := c.data[row]
	if d == packed.MissingDate {
		return nil
	}
	return d
}

func (c *DateColumn) GetString(row int) string {
	return packed.FormatDate(c.data[row])
}

func (c *DateColumn) toCell(v any) (int32, error) {
	switch v := v.(type) {
	case nil:
		return packed.MissingDate, nil
	case int32:
		if v != packed.MissingDate && !packed.IsValidDate(v) {
			return packed.MissingDate, columnErrf(c.name, -1, ErrInvalidArgument, "%d is not a packed date", v)
		}
		return v, nil
	case time.Time:
		if v.IsZero() {
			return packed.MissingDate, nil
		}
		return packed.PackDate(v.Year(), int(v.Month()), v.Day())
	default:
		return packed.MissingDate, typeMismatch(c, v)
	}
}

func (c *DateColumn) Set(row int, v any) error {
	checkRow(c.name, row, len(c.data))
	d, err := c.toCell(v)
	if err != nil {
		return err
	}
	c.data[row] = d
	return nil
}

func (c *DateColumn) AppendValue(v any) error {
	d, err := c.toCell(v)
	if err != nil {
		return err
	}
	c.data = append(c.data, d)
	return nil
}

func (c *DateColumn) parseCell(s string, opt *ParseOptions) (int32, error) {
	opt = opt.resolve()
	if opt.IsMissing(s) {
		return packed.MissingDate, nil
	}
	d, err := packed.ParseDate(opt.DateFormat, strings.TrimSpace(s))
	if err != nil {
		return packed.MissingDate, parseErr(c, s, err)
	}
	return d, nil
}

func (c *DateColumn) AppendCell(s string, opt *ParseOptions) error {
	d, err := c.parseCell(s, opt)
	if err != nil {
		return err
	}
	c.data = append(c.data, d)
	return nil
}

func (c *DateColumn) SetCell(row int, s string, opt *ParseOptions) error {
	checkRow(c.name, row, len(c.data))
	d, err := c.parseCell(s, opt)
	if err != nil {
		return err
	}
	c.data[row] = d
	return nil
}

func (c *DateColumn) AppendFromBytes(b []byte) error {
	return c.appendFromBytes(b)
}

func (c *DateColumn) Year() *Int16Column           { return c.fields().year() }
func (c *DateColumn) MonthValue() *Int16Column     { return c.fields().month() }
func (c *DateColumn) MonthName() *StringColumn     { return c.fields().monthName() }
func (c *DateColumn) DayOfMonth() *Int16Column     { return c.fields().dayOfMonth() }
func (c *DateColumn) DayOfYear() *Int16Column      { return c.fields().dayOfYear() }
func (c *DateColumn) DayOfWeekValue() *Int16Column { return c.fields().dayOfWeekValue() }
func (c *DateColumn) DayOfWeek() *StringColumn     { return c.fields().dayOfWeek() }
func (c *DateColumn) Quarter() *Int16Column        { return c.fields().quarter() }

func (c *DateColumn) IsBefore(d int32) *selection.Selection {
	return c.eval(func(x int32) bool { return x < d })
}

func (c *DateColumn) IsAfter(d int32) *selection.Selection {
	return c.eval(func(x int32) bool { return x > d })
}

func (c *DateColumn) IsOnOrBefore(d int32) *selection.Selection {
	return c.eval(func(x int32) bool { return x <= d })
}

func (c *DateColumn) IsOnOrAfter(d int32) *selection.Selection {
	return c.eval(func(x int32) bool { return x >= d })
}

func (c *DateColumn) IsEqualTo(d int32) *selection.Selection {
	return c.eval(func(x int32) bool { return x == d })
}

// IsBetween is inclusive on both ends.
func (c *DateColumn) IsBetween(lo, hi int32) *selection.Selection {
	return c.eval(func(x int32) bool { return lo <= x && x <= hi })
}

func (c *DateColumn) IsDayOfWeek(wd time.Weekday) *selection.Selection {
	return c.fields().is(func(d int32) bool { return packed.DayOfWeek(d) == wd })
}

func (c *DateColumn) IsWeekend() *selection.Selection {
	return c.fields().is(isWeekend)
}

func (c *DateColumn) IsWeekday() *selection.Selection {
	return c.fields().is(func(d int32) bool { return !isWeekend(d) })
}

func (c *DateColumn) IsInMonth(m time.Month) *selection.Selection {
	return c.fields().is(func(d int32) bool { return packed.Month(d) == int(m) })
}

func (c *DateColumn) IsInQuarter(q int) *selection.Selection {
	return c.fields().is(func(d int32) bool { return packed.Quarter(d) == q })
}

func (c *DateColumn) IsInYear(y int) *selection.Selection {
	return c.fields().is(func(d int32) bool { return packed.Year(d) == y })
}

func (c *DateColumn) IsFirstDayOfMonth() *selection.Selection {
	return c.fields().is(func(d int32) bool { return packed.Day(d) == 1 })
}

func (c *DateColumn) IsLastDayOfMonth() *selection.Selection {
	return c.fields().is(packed.IsLastDayOfMonth)
}

func (c *DateColumn) IsInLeapYear() *selection.Selection {
	return c.fields().is(func(d int32) bool { return packed.IsLeapYear(packed.Year(d)) })
}

func (c *DateColumn) PlusDays(n int) *DateColumn {
	return &DateColumn{mapPresent(&c.vec, func(d int32) int32 { return packed.PlusDays(d, n) })}
}

func (c *DateColumn) PlusWeeks(n int) *DateColumn {
	return &DateColumn{mapPresent(&c.vec, func(d int32) int32 { return packed.PlusWeeks(d, n) })}
}

// PlusMonths clamps to the end of shorter months: Jan 31 plus one month is
// the last day of February.
func (c *DateColumn) PlusMonths(n int) *DateColumn {
	return &DateColumn{mapPresent(&c.vec, func(d int32) int32 { return packed.PlusMonths(d, n) })}
}

func (c *DateColumn) PlusYears(n int) *DateColumn {
	return &DateColumn{mapPresent(&c.vec, func(d int32) int32 { return packed.PlusYears(d, n) })}
}

// DaysUntil gives other[i] - c[i] in days, missing if either is missing.
func (c *DateColumn) DaysUntil(other *DateColumn) *Int64Column {
	checkSameLen(c, other)
	out := make([]int64, len(c.data))
	for i, a := range c.data {
		b := other.data[i]
		if a == packed.MissingDate || b == packed.MissingDate {
			out[i] = math.MinInt64
		} else {
			out[i] = packed.DaysBetween(a, b)
		}
	}
	return wrapNumbers(c.name+" days until "+other.name, out)
}

// AtTime combines each date with the time in the same row.
func (c *DateColumn) AtTime(t *TimeColumn) *DateTimeColumn {
	checkSameLen(c, t)
	out := make([]int64, len(c.data))
	for i, d := range c.data {
		out[i] = packed.PackDateTime(d, t.data[i])
	}
	return wrapDateTimes(c.name, out)
}

func (c *DateColumn) AtStartOfDay() *DateTimeColumn {
	out := make([]int64, len(c.data))
	for i, d := range c.data {
		out[i] = packed.PackDateTime(d, packed.Midnight)
	}
	return wrapDateTimes(c.name, out)
}

func (c *DateColumn) Min() int32 {
	return c.extreme(-1)
}

func (c *DateColumn) Max() int32 {
	return c.extreme(1)
}

func (c *DateColumn) extreme(sign int) int32 {
	best := packed.MissingDate
	for _, d := range c.data {
		if d == packed.MissingDate {
			continue
		}
		if best == packed.MissingDate || (sign < 0 && d < best) || (sign > 0 && d > best) {
			best = d
		}
	}
	return best
}

func (c *DateColumn) Copy() Column {
	return &DateColumn{c.clone(c.name)}
}

func (c *DateColumn) EmptyCopy() Column {
	return NewDateColumn(c.name)
}

func (c *DateColumn) Where(sel *selection.Selection) Column {
	return wrapDates(c.name, c.where(sel))
}

func (c *DateColumn) Gather(rows []int) Column {
	return wrapDates(c.name, c.gather(rows))
}

func (c *DateColumn) Unique() Column {
	return wrapDates(c.name, c.unique())
}

func (c *DateColumn) Print() string {
	return printColumn(c)
}

func (c *DateColumn) String() string {
	return fmt.Sprintf("Date column: %s", c.name)
}

func (c *DateColumn) appendFrom(src Column, row int) {
	c.data = append(c.data, src.(*DateColumn).data[row])
}

func (c *DateColumn) equalCells(i int, other Column, j int) bool {
	o, ok := other.(*DateColumn)
	return ok && c.data[i] == o.data[j]
}
