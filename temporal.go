package tabula

import (
	"math"
	"time"

	"github.com/andreyvit/tabula/packed"
	"github.com/andreyvit/tabula/selection"
)

// derive16 builds an int16 column from a calendar field of each present
// cell.
func derive16[T cell](v *vec[T], suffix string, fn func(T) int) *Int16Column {
	out := make([]int16, len(v.data))
	for i, x := range v.data {
		if v.isMissing(x) {
			out[i] = math.MinInt16
		} else {
			out[i] = int16(fn(x))
		}
	}
	return wrapNumbers(v.name+" "+suffix, out)
}

func deriveCategory[T cell](v *vec[T], suffix string, fn func(T) string) *StringColumn {
	out := NewCategoryColumn(v.name + " " + suffix)
	for _, x := range v.data {
		if v.isMissing(x) {
			out.AppendMissing()
		} else {
			out.Append(fn(x))
		}
	}
	return out
}

func mapPresent[T cell](v *vec[T], fn func(T) T) vec[T] {
	out := vec[T]{name: v.name, data: make([]T, len(v.data)), missing: v.missing}
	for i, x := range v.data {
		if v.isMissing(x) {
			out.data[i] = v.missing
		} else {
			out.data[i] = fn(x)
		}
	}
	return out
}

// dateFields is the calendar view shared by date and date-time columns.
type dateFields[T cell] struct {
	v    *vec[T]
	date func(T) int32
}

func (f dateFields[T]) year() *Int16Column {
	return derive16(f.v, "year", func(x T) int { return packed.Year(f.date(x)) })
}

func (f dateFields[T]) month() *Int16Column {
	return derive16(f.v, "month", func(x T) int { return packed.Month(f.date(x)) })
}

func (f dateFields[T]) monthName() *StringColumn {
	return deriveCategory(f.v, "month", func(x T) string { return time.Month(packed.Month(f.date(x))).String() })
}

func (f dateFields[T]) dayOfMonth() *Int16Column {
	return derive16(f.v, "day of month", func(x T) int { return packed.Day(f.date(x)) })
}

func (f dateFields[T]) dayOfYear() *Int16Column {
	return derive16(f.v, "day of year", func(x T) int { return packed.DayOfYear(f.date(x)) })
}

// dayOfWeekValue numbers days ISO style, Monday 1 to Sunday 7.
func (f dateFields[T]) dayOfWeekValue() *Int16Column {
	return derive16(f.v, "day of week", func(x T) int { return isoWeekday(packed.DayOfWeek(f.date(x))) })
}

func (f dateFields[T]) dayOfWeek() *StringColumn {
	return deriveCategory(f.v, "day of week", func(x T) string { return packed.DayOfWeek(f.date(x)).String() })
}

func (f dateFields[T]) quarter() *Int16Column {
	return derive16(f.v, "quarter", func(x T) int { return packed.Quarter(f.date(x)) })
}

func (f dateFields[T]) is(pred func(d int32) bool) *selection.Selection {
	return f.v.eval(func(x T) bool { return pred(f.date(x)) })
}

func isoWeekday(wd time.Weekday) int {
	if wd == time.Sunday {
		return 7
	}
	return int(wd)
}

func isWeekend(d int32) bool {
	wd := packed.DayOfWeek(d)
	return wd == time.Saturday || wd == time.Sunday
}

// timeFields is the clock view shared by time and date-time columns.
type timeFields[T cell] struct {
	v    *vec[T]
	time func(T) int32
}

func (f timeFields[T]) hour() *Int16Column {
	return derive16(f.v, "hour", func(x T) int { return packed.Hour(f.time(x)) })
}

func (f timeFields[T]) minute() *Int16Column {
	return derive16(f.v, "minute", func(x T) int { return packed.Minute(f.time(x)) })
}

func (f timeFields[T]) second() *Int16Column {
	return derive16(f.v, "second", func(x T) int { return packed.Second(f.time(x)) })
}

func (f timeFields[T]) milli() *Int16Column {
	return derive16(f.v, "milli", func(x T) int { return packed.Milli(f.time(x)) })
}

func (f timeFields[T]) is(pred func(t int32) bool) *selection.Selection {
	return f.v.eval(func(x T) bool { return pred(f.time(x)) })
}
