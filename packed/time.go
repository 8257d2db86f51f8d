package packed

import (
	"fmt"
	"math"
	"time"
)

const (
	MissingTime int32 = math.MinInt32

	MillisPerDay = 24 * 60 * 60 * 1000

	Midnight int32 = 0
	Noon     int32 = 12 * 60 * 60 * 1000
)

func PackTime(hour, minute, second, millis int) (int32, error) {
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 || second < 0 || second > 59 || millis < 0 || millis > 999 {
		return MissingTime, fmt.Errorf("packed: invalid time %02d:%02d:%02d.%03d", hour, minute, second, millis)
	}
	return packTime(hour, minute, second, millis), nil
}

func MustPackTime(hour, minute, second, millis int) int32 {
	t, err := PackTime(hour, minute, second, millis)
	if err != nil {
		panic(err)
	}
	return t
}

func packTime(hour, minute, second, millis int) int32 {
	return int32(((hour*60+minute)*60+second)*1000 + millis)
}

func UnpackTime(t int32) (hour, minute, second, millis int) {
	v := int(t)
	millis = v % 1000
	v /= 1000
	second = v % 60
	v /= 60
	minute = v % 60
	hour = v / 60
	return
}

func Hour(t int32) int   { return int(t) / 3_600_000 }
func Minute(t int32) int { return int(t) / 60_000 % 60 }
func Second(t int32) int { return int(t) / 1000 % 60 }
func Milli(t int32) int  { return int(t) % 1000 }

func IsValidTime(t int32) bool {
	return t >= 0 && t < MillisPerDay
}

// PlusMillis adds n milliseconds, wrapping around midnight.
func PlusMillis(t int32, n int64) int32 {
	if t == MissingTime {
		return MissingTime
	}
	v := (int64(t) + n) % MillisPerDay
	if v < 0 {
		v += MillisPerDay
	}
	return int32(v)
}

func PlusSeconds(t int32, n int64) int32 { return PlusMillis(t, n*1000) }
func PlusMinutes(t int32, n int64) int32 { return PlusMillis(t, n*60_000) }
func PlusHours(t int32, n int64) int32   { return PlusMillis(t, n*3_600_000) }

func TimeFromTime(t time.Time) int32 {
	return packTime(t.Hour(), t.Minute(), t.Second(), t.Nanosecond()/int(time.Millisecond))
}

func ParseTime(layout, s string) (int32, error) {
	t, err := time.Parse(layout, s)
	if err != nil {
		return MissingTime, err
	}
	return TimeFromTime(t), nil
}

// FormatTime prints HH:MM:SS, adding .mmm only when milliseconds are set.
func FormatTime(t int32) string {
	if t == MissingTime {
		return ""
	}
	h, m, s, ms := UnpackTime(t)
	if ms != 0 {
		return fmt.Sprintf("%02d:%02d:%02d.%03d", h, m, s, ms)
	}
	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}
