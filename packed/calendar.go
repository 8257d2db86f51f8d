package packed

import "time"

var monthLengths = [13]int{0, 31, 28, 31, 30, 31, 30, 31, 31, 30, 31, 30, 31}

// IsLeapYear uses proleptic Gregorian rules.
func IsLeapYear(year int) bool {
	return year%4 == 0 && (year%100 != 0 || year%400 == 0)
}

func LengthOfMonth(year, month int) int {
	if month == 2 && IsLeapYear(year) {
		return 29
	}
	return monthLengths[month]
}

func LengthOfYear(year int) int {
	if IsLeapYear(year) {
		return 366
	}
	return 365
}

// EpochDay returns the number of days since 1970-01-01.
func EpochDay(d int32) int64 {
	y, m, day := UnpackDate(d)
	return daysFromCivil(int64(y), int64(m), int64(day))
}

func DateFromEpochDay(n int64) int32 {
	y, m, d := civilFromDays(n)
	return packDate(int(y), int(m), int(d))
}

func daysFromCivil(y, m, d int64) int64 {
	if m <= 2 {
		y--
	}
	era := y
	if era < 0 {
		era -= 399
	}
	era /= 400
	yoe := y - era*400
	var mp int64
	if m > 2 {
		mp = m - 3
	} else {
		mp = m + 9
	}
	doy := (153*mp+2)/5 + d - 1
	doe := yoe*365 + yoe/4 - yoe/100 + doy
	return era*146097 + doe - 719468
}

func civilFromDays(z int64) (y, m, d int64) {
	z += 719468
	era := z
	if era < 0 {
		era -= 146096
	}
	era /= 146097
	doe := z - era*146097
	yoe := (doe - doe/1460 + doe/36524 - doe/146096) / 365
	y = yoe + era*400
	doy := doe - (365*yoe + yoe/4 - yoe/100)
	mp := (5*doy + 2) / 153
	d = doy - (153*mp+2)/5 + 1
	if mp < 10 {
		m = mp + 3
	} else {
		m = mp - 9
	}
	if m <= 2 {
		y++
	}
	return y, m, d
}

func PlusDays(d int32, n int) int32 {
	if d == MissingDate {
		return MissingDate
	}
	return DateFromEpochDay(EpochDay(d) + int64(n))
}

func PlusWeeks(d int32, n int) int32 {
	return PlusDays(d, n*7)
}

// PlusMonths adds n calendar months. A day that does not exist in the
// target month is clamped to the month's last day, so Jan 31 + 1 month is
// Feb 28 (Feb 29 in leap years).
func PlusMonths(d int32, n int) int32 {
	if d == MissingDate {
		return MissingDate
	}
	y, m, day := UnpackDate(d)
	total := y*12 + (m - 1) + n
	ny := floorDiv(total, 12)
	nm := total - ny*12 + 1
	if last := LengthOfMonth(ny, nm); day > last {
		day = last
	}
	return packDate(ny, nm, day)
}

// PlusYears adds n years, clamping Feb 29 to Feb 28 in non-leap years.
func PlusYears(d int32, n int) int32 {
	return PlusMonths(d, n*12)
}

// DaysBetween returns b - a in days.
func DaysBetween(a, b int32) int64 {
	return EpochDay(b) - EpochDay(a)
}

func DayOfWeek(d int32) time.Weekday {
	// 1970-01-01 was a Thursday.
	return time.Weekday(floorMod(int(EpochDay(d))+4, 7))
}

// DayOfYear returns 1..366.
func DayOfYear(d int32) int {
	y, m, day := UnpackDate(d)
	n := day
	for i := 1; i < m; i++ {
		n += LengthOfMonth(y, i)
	}
	return n
}

// Quarter returns 1..4.
func Quarter(d int32) int {
	return (Month(d)-1)/3 + 1
}

func IsLastDayOfMonth(d int32) bool {
	y, m, day := UnpackDate(d)
	return day == LengthOfMonth(y, m)
}

// WithDayOfMonth replaces the day, clamping to the month length.
func WithDayOfMonth(d int32, day int) int32 {
	y, m, _ := UnpackDate(d)
	if last := LengthOfMonth(y, m); day > last {
		day = last
	}
	if day < 1 {
		day = 1
	}
	return packDate(y, m, day)
}
