// Package packed stores calendar values as plain integers.
//
// A date is packed as year*10000 + month*100 + day into an int32, a time of
// day as the number of milliseconds since midnight into an int32, and a
// date-time as the date in the high 32 bits and the time in the low 32 bits
// of an int64. With these layouts ordinary integer comparison matches
// calendar ordering, so filters and sorts never have to unpack.
//
// Each layout reserves the smallest integer of its width to mean “missing”.
// No valid packed value can be equal to it.
package packed

import (
	"fmt"
	"math"
	"time"
)

const (
	MinYear = -9999
	MaxYear = 9999

	// MissingDate is the packed date that means “no value”.
	MissingDate int32 = math.MinInt32
)

// PackDate composes a packed date. Fails on out-of-range fields or a day
// that does not exist in the given month.
func PackDate(year, month, day int) (int32, error) {
	if year < MinYear || year > MaxYear {
		return MissingDate, fmt.Errorf("packed: year %d out of range [%d, %d]", year, MinYear, MaxYear)
	}
	if month < 1 || month > 12 {
		return MissingDate, fmt.Errorf("packed: invalid month %d", month)
	}
	if day < 1 || day > LengthOfMonth(year, month) {
		return MissingDate, fmt.Errorf("packed: invalid day %d for %04d-%02d", day, year, month)
	}
	return packDate(year, month, day), nil
}

// MustPackDate is like PackDate but panics on invalid input.
func MustPackDate(year, month, day int) int32 {
	d, err := PackDate(year, month, day)
	if err != nil {
		panic(err)
	}
	return d
}

func packDate(year, month, day int) int32 {
	return int32(year*10000 + month*100 + day)
}

// UnpackDate is the exact inverse of PackDate. Negative years use floor
// division, so -0001-12-31 round-trips.
func UnpackDate(d int32) (year, month, day int) {
	v := int(d)
	year = floorDiv(v, 10000)
	rem := v - year*10000
	return year, rem / 100, rem % 100
}

func Year(d int32) int {
	return floorDiv(int(d), 10000)
}

func Month(d int32) int {
	_, m, _ := UnpackDate(d)
	return m
}

func Day(d int32) int {
	_, _, day := UnpackDate(d)
	return day
}

// IsValidDate reports whether d is a packed value PackDate could produce.
func IsValidDate(d int32) bool {
	if d == MissingDate {
		return false
	}
	y, m, day := UnpackDate(d)
	_, err := PackDate(y, m, day)
	return err == nil
}

func DateFromTime(t time.Time) int32 {
	y, m, d := t.Date()
	return packDate(y, int(m), d)
}

// DateToTime returns midnight UTC of the given date.
func DateToTime(d int32) time.Time {
	y, m, day := UnpackDate(d)
	return time.Date(y, time.Month(m), day, 0, 0, 0, 0, time.UTC)
}

// ParseDate parses s with a Go time layout.
func ParseDate(layout, s string) (int32, error) {
	t, err := time.Parse(layout, s)
	if err != nil {
		return MissingDate, err
	}
	return PackDate(t.Year(), int(t.Month()), t.Day())
}

func FormatDate(d int32) string {
	if d == MissingDate {
		return ""
	}
	y, m, day := UnpackDate(d)
	if y < 0 {
		return fmt.Sprintf("-%04d-%02d-%02d", -y, m, day)
	}
	return fmt.Sprintf("%04d-%02d-%02d", y, m, day)
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

func floorMod(a, b int) int {
	return a - floorDiv(a, b)*b
}
