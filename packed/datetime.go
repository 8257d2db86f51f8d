package packed

import (
	"math"
	"time"
)

const MissingDateTime int64 = math.MinInt64

// PackDateTime puts the date in the high 32 bits, so the date dominates
// the ordering and the time breaks ties.
func PackDateTime(date, t int32) int64 {
	if date == MissingDate || t == MissingTime {
		return MissingDateTime
	}
	return int64(date)<<32 | int64(uint32(t))
}

func DateOf(dt int64) int32 {
	if dt == MissingDateTime {
		return MissingDate
	}
	return int32(dt >> 32)
}

func TimeOf(dt int64) int32 {
	if dt == MissingDateTime {
		return MissingTime
	}
	return int32(uint32(dt))
}

func DateTimeFromTime(t time.Time) int64 {
	return PackDateTime(DateFromTime(t), TimeFromTime(t))
}

// DateTimeToTime interprets dt in UTC.
func DateTimeToTime(dt int64) time.Time {
	y, m, d := UnpackDate(DateOf(dt))
	h, mi, s, ms := UnpackTime(TimeOf(dt))
	return time.Date(y, time.Month(m), d, h, mi, s, ms*int(time.Millisecond), time.UTC)
}

// EpochMillis returns milliseconds since 1970-01-01T00:00:00.
func EpochMillis(dt int64) int64 {
	return EpochDay(DateOf(dt))*MillisPerDay + int64(TimeOf(dt))
}

func DateTimeFromEpochMillis(ms int64) int64 {
	day := ms / MillisPerDay
	rem := ms % MillisPerDay
	if rem < 0 {
		rem += MillisPerDay
		day--
	}
	return PackDateTime(DateFromEpochDay(day), int32(rem))
}

// DateTimePlusMillis carries time overflow into the date part.
func DateTimePlusMillis(dt int64, n int64) int64 {
	if dt == MissingDateTime {
		return MissingDateTime
	}
	return DateTimeFromEpochMillis(EpochMillis(dt) + n)
}

func DateTimePlusDays(dt int64, n int) int64 {
	if dt == MissingDateTime {
		return MissingDateTime
	}
	return PackDateTime(PlusDays(DateOf(dt), n), TimeOf(dt))
}

func DateTimePlusMonths(dt int64, n int) int64 {
	if dt == MissingDateTime {
		return MissingDateTime
	}
	return PackDateTime(PlusMonths(DateOf(dt), n), TimeOf(dt))
}

func ParseDateTime(layout, s string) (int64, error) {
	t, err := time.Parse(layout, s)
	if err != nil {
		return MissingDateTime, err
	}
	d, err := PackDate(t.Year(), int(t.Month()), t.Day())
	if err != nil {
		return MissingDateTime, err
	}
	return PackDateTime(d, TimeFromTime(t)), nil
}

func FormatDateTime(dt int64) string {
	if dt == MissingDateTime {
		return ""
	}
	return FormatDate(DateOf(dt)) + "T" + FormatTime(TimeOf(dt))
}
