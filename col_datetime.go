package tabula

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/andreyvit/tabula/packed"
	"github.com/andreyvit/tabula/selection"
)

// DateTimeColumn holds packed date-times: the date in the high 32 bits,
// the time of day in the low 32 bits.
type DateTimeColumn struct {
	vec[int64]
}

var _ Column = (*DateTimeColumn)(nil)

func NewDateTimeColumn(name string, values ...int64) *DateTimeColumn {
	c := &DateTimeColumn{newVec[int64](name, len(values))}
	c.data = append(c.data, values...)
	return c
}

func wrapDateTimes(name string, data []int64) *DateTimeColumn {
	return &DateTimeColumn{vec[int64]{name: name, data: data, missing: packed.MissingDateTime}}
}

func (c *DateTimeColumn) Type() ColumnType { return DateTimeType }

func (c *DateTimeColumn) dates() dateFields[int64] {
	return dateFields[int64]{&c.vec, packed.DateOf}
}

func (c *DateTimeColumn) clock() timeFields[int64] {
	return timeFields[int64]{&c.vec, packed.TimeOf}
}

func (c *DateTimeColumn) Value(row int) int64 {
	return c.data[row]
}

// Values returns a copy of the packed date-times, missing cells included as sentinels.
func (c *DateTimeColumn) Values() []int64 {
	return slices.Clone(c.data)
}

// Time returns the cell in UTC, the zero time if missing.
func (c *DateTimeColumn) Time(row int) time.Time {
	dt := c.data[row]
	if dt == packed.MissingDateTime {
		return time.Time{}
	}
	return packed.DateTimeToTime(dt)
}

func (c *DateTimeColumn) Append(dt int64) *DateTimeColumn {
	c.data = append(c.data, dt)
	return c
}

func (c *DateTimeColumn) AppendTime(t time.Time) *DateTimeColumn {
	return c.Append(packed.DateTimeFromTime(t))
}

func (c *DateTimeColumn) Get(row int) any {
	dt := c.data[row]
	if dt == packed.MissingDateTime {
		return nil
	}
	return dt
}

func (c *DateTimeColumn) GetString(row int) string {
	return packed.FormatDateTime(c.data[row])
}

func (c *DateTimeColumn) toCell(v any) (int64, error) {
	switch v := v.(type) {
	case nil:
		return packed.MissingDateTime, nil
	case int64:
		if v != packed.MissingDateTime && (!packed.IsValidDate(packed.DateOf(v)) || !packed.IsValidTime(packed.TimeOf(v))) {
			return packed.MissingDateTime, columnErrf(c.name, -1, ErrInvalidArgument, "%d is not a packed date-time", v)
		}
		return v, nil
	case time.Time:
		if v.IsZero() {
			return packed.MissingDateTime, nil
		}
		d, err := packed.PackDate(v.Year(), int(v.Month()), v.Day())
		if err != nil {
			return packed.MissingDateTime, err
		}
		return packed.PackDateTime(d, packed.TimeFromTime(v)), nil
	default:
		return packed.MissingDateTime, typeMismatch(c, v)
	}
}

func (c *DateTimeColumn) Set(row int, v any) error {
	checkRow(c.name, row, len(c.data))
	dt, err := c.toCell(v)
	if err != nil {
		return err
	}
	c.data[row] = dt
	return nil
}

func (c *DateTimeColumn) AppendValue(v any) error {
	dt, err := c.toCell(v)
	if err != nil {
		return err
	}
	c.data = append(c.data, dt)
	return nil
}

func (c *DateTimeColumn) parseCell(s string, opt *ParseOptions) (int64, error) {
	opt = opt.resolve()
	if opt.IsMissing(s) {
		return packed.MissingDateTime, nil
	}
	dt, err := packed.ParseDateTime(opt.DateTimeFormat, strings.TrimSpace(s))
	if err != nil {
		return packed.MissingDateTime, parseErr(c, s, err)
	}
	return dt, nil
}

func (c *DateTimeColumn) AppendCell(s string, opt *ParseOptions) error {
	dt, err := c.parseCell(s, opt)
	if err != nil {
		return err
	}
	c.data = append(c.data, dt)
	return nil
}

func (c *DateTimeColumn) SetCell(row int, s string, opt *ParseOptions) error {
	checkRow(c.name, row, len(c.data))
	dt, err := c.parseCell(s, opt)
	if err != nil {
		return err
	}
	c.data[row] = dt
	return nil
}

func (c *DateTimeColumn) AppendFromBytes(b []byte) error {
	return c.appendFromBytes(b)
}

// Date projects the date part.
func (c *DateTimeColumn) Date() *DateColumn {
	out := make([]int32, len(c.data))
	for i, dt := range c.data {
		out[i] = packed.DateOf(dt)
	}
	return wrapDates(c.name+" date", out)
}

// TimeOfDay projects the time-of-day part.
func (c *DateTimeColumn) TimeOfDay() *TimeColumn {
	out := make([]int32, len(c.data))
	for i, dt := range c.data {
		out[i] = packed.TimeOf(dt)
	}
	return wrapTimes(c.name+" time", out)
}

func (c *DateTimeColumn) Year() *Int16Column           { return c.dates().year() }
func (c *DateTimeColumn) MonthValue() *Int16Column     { return c.dates().month() }
func (c *DateTimeColumn) MonthName() *StringColumn     { return c.dates().monthName() }
func (c *DateTimeColumn) DayOfMonth() *Int16Column     { return c.dates().dayOfMonth() }
func (c *DateTimeColumn) DayOfYear() *Int16Column      { return c.dates().dayOfYear() }
func (c *DateTimeColumn) DayOfWeekValue() *Int16Column { return c.dates().dayOfWeekValue() }
func (c *DateTimeColumn) DayOfWeek() *StringColumn     { return c.dates().dayOfWeek() }
func (c *DateTimeColumn) Quarter() *Int16Column        { return c.dates().quarter() }
func (c *DateTimeColumn) Hour() *Int16Column           { return c.clock().hour() }
func (c *DateTimeColumn) Minute() *Int16Column         { return c.clock().minute() }
func (c *DateTimeColumn) Second() *Int16Column         { return c.clock().second() }
func (c *DateTimeColumn) Milli() *Int16Column          { return c.clock().milli() }

func (c *DateTimeColumn) IsBefore(dt int64) *selection.Selection {
	return c.eval(func(x int64) bool { return x < dt })
}

func (c *DateTimeColumn) IsAfter(dt int64) *selection.Selection {
	return c.eval(func(x int64) bool { return x > dt })
}

func (c *DateTimeColumn) IsOnOrBefore(dt int64) *selection.Selection {
	return c.eval(func(x int64) bool { return x <= dt })
}

func (c *DateTimeColumn) IsOnOrAfter(dt int64) *selection.Selection {
	return c.eval(func(x int64) bool { return x >= dt })
}

func (c *DateTimeColumn) IsEqualTo(dt int64) *selection.Selection {
	return c.eval(func(x int64) bool { return x == dt })
}

func (c *DateTimeColumn) IsBetween(lo, hi int64) *selection.Selection {
	return c.eval(func(x int64) bool { return lo <= x && x <= hi })
}

// IsOnDate selects cells whose date part equals d.
func (c *DateTimeColumn) IsOnDate(d int32) *selection.Selection {
	return c.dates().is(func(x int32) bool { return x == d })
}

func (c *DateTimeColumn) IsDayOfWeek(wd time.Weekday) *selection.Selection {
	return c.dates().is(func(d int32) bool { return packed.DayOfWeek(d) == wd })
}

func (c *DateTimeColumn) IsWeekend() *selection.Selection {
	return c.dates().is(isWeekend)
}

func (c *DateTimeColumn) IsWeekday() *selection.Selection {
	return c.dates().is(func(d int32) bool { return !isWeekend(d) })
}

func (c *DateTimeColumn) IsInMonth(m time.Month) *selection.Selection {
	return c.dates().is(func(d int32) bool { return packed.Month(d) == int(m) })
}

func (c *DateTimeColumn) IsInQuarter(q int) *selection.Selection {
	return c.dates().is(func(d int32) bool { return packed.Quarter(d) == q })
}

func (c *DateTimeColumn) IsInYear(y int) *selection.Selection {
	return c.dates().is(func(d int32) bool { return packed.Year(d) == y })
}

func (c *DateTimeColumn) IsFirstDayOfMonth() *selection.Selection {
	return c.dates().is(func(d int32) bool { return packed.Day(d) == 1 })
}

func (c *DateTimeColumn) IsLastDayOfMonth() *selection.Selection {
	return c.dates().is(packed.IsLastDayOfMonth)
}

func (c *DateTimeColumn) IsInLeapYear() *selection.Selection {
	return c.dates().is(func(d int32) bool { return packed.IsLeapYear(packed.Year(d)) })
}

func (c *DateTimeColumn) IsMidnight() *selection.Selection {
	return c.clock().is(func(t int32) bool { return t == packed.Midnight })
}

func (c *DateTimeColumn) IsNoon() *selection.Selection {
	return c.clock().is(func(t int32) bool { return t == packed.Noon })
}

func (c *DateTimeColumn) IsBeforeNoon() *selection.Selection {
	return c.clock().is(func(t int32) bool { return t < packed.Noon })
}

func (c *DateTimeColumn) IsAfterNoon() *selection.Selection {
	return c.clock().is(func(t int32) bool { return t > packed.Noon })
}

func (c *DateTimeColumn) plus(fn func(int64) int64) *DateTimeColumn {
	return &DateTimeColumn{mapPresent(&c.vec, fn)}
}

func (c *DateTimeColumn) PlusDays(n int) *DateTimeColumn {
	return c.plus(func(dt int64) int64 { return packed.DateTimePlusDays(dt, n) })
}

func (c *DateTimeColumn) PlusWeeks(n int) *DateTimeColumn {
	return c.PlusDays(7 * n)
}

// PlusMonths clamps the day like DateColumn.PlusMonths and keeps the time.
func (c *DateTimeColumn) PlusMonths(n int) *DateTimeColumn {
	return c.plus(func(dt int64) int64 { return packed.DateTimePlusMonths(dt, n) })
}

func (c *DateTimeColumn) PlusYears(n int) *DateTimeColumn {
	return c.PlusMonths(12 * n)
}

// PlusMillis and the other clock units carry into the date.
func (c *DateTimeColumn) PlusMillis(n int64) *DateTimeColumn {
	return c.plus(func(dt int64) int64 { return packed.DateTimePlusMillis(dt, n) })
}

func (c *DateTimeColumn) PlusSeconds(n int64) *DateTimeColumn { return c.PlusMillis(n * 1000) }
func (c *DateTimeColumn) PlusMinutes(n int64) *DateTimeColumn { return c.PlusMillis(n * 60_000) }
func (c *DateTimeColumn) PlusHours(n int64) *DateTimeColumn   { return c.PlusMillis(n * 3_600_000) }

func (c *DateTimeColumn) Copy() Column {
	return &DateTimeColumn{c.clone(c.name)}
}

func (c *DateTimeColumn) EmptyCopy() Column {
	return NewDateTimeColumn(c.name)
}

func (c *DateTimeColumn) Where(sel *selection.Selection) Column {
	return wrapDateTimes(c.name, c.where(sel))
}

func (c *DateTimeColumn) Gather(rows []int) Column {
	return wrapDateTimes(c.name, c.gather(rows))
}

func (c *DateTimeColumn) Unique() Column {
	return wrapDateTimes(c.name, c.unique())
}

func (c *DateTimeColumn) Print() string {
	return printColumn(c)
}

func (c *DateTimeColumn) String() string {
	return fmt.Sprintf("DateTime column: %s", c.name)
}

func (c *DateTimeColumn) appendFrom(src Column, row int) {
	c.data = append(c.data, src.(*DateTimeColumn).data[row])
}

func (c *DateTimeColumn) equalCells(i int, other Column, j int) bool {
	o, ok := other.(*DateTimeColumn)
	return ok && c.data[i] == o.data[j]
}
