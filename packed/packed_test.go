package packed

import (
	"testing"
	"time"
)

func TestPackDateRoundTrip(t *testing.T) {
	for y := 1; y <= 9999; y += 7 {
		for m := 1; m <= 12; m++ {
			for _, d := range []int{1, 15, LengthOfMonth(y, m)} {
				p, err := PackDate(y, m, d)
				if err != nil {
					t.Fatalf("PackDate(%d, %d, %d) failed: %v", y, m, d, err)
				}
				gy, gm, gd := UnpackDate(p)
				if gy != y || gm != m || gd != d {
					t.Fatalf("UnpackDate(PackDate(%d, %d, %d)) = (%d, %d, %d)", y, m, d, gy, gm, gd)
				}
			}
		}
	}
}

func TestPackDateNegativeYears(t *testing.T) {
	a := MustPackDate(-1, 12, 31)
	b := MustPackDate(0, 1, 1)
	c := MustPackDate(-1, 1, 1)
	if !(c < a && a < b) {
		t.Fatalf("ordering broken: %d, %d, %d", c, a, b)
	}
	y, m, d := UnpackDate(a)
	if y != -1 || m != 12 || d != 31 {
		t.Fatalf("UnpackDate = (%d, %d, %d), wanted (-1, 12, 31)", y, m, d)
	}
	if got := FormatDate(a); got != "-0001-12-31" {
		t.Fatalf("FormatDate = %q", got)
	}
}

func TestPackDateOrdering(t *testing.T) {
	start := time.Date(1999, 1, 1, 0, 0, 0, 0, time.UTC)
	prev := DateFromTime(start)
	for i := 1; i < 3000; i++ {
		cur := DateFromTime(start.AddDate(0, 0, i))
		if !(prev < cur) {
			t.Fatalf("packed(%s) = %d not greater than previous %d", FormatDate(cur), cur, prev)
		}
		if EpochDay(cur)-EpochDay(prev) != 1 {
			t.Fatalf("EpochDay gap at %s", FormatDate(cur))
		}
		prev = cur
	}
}

func TestPackDateInvalid(t *testing.T) {
	tests := []struct{ y, m, d int }{
		{2021, 2, 29},
		{2021, 13, 1},
		{2021, 0, 1},
		{2021, 4, 31},
		{10000, 1, 1},
		{2021, 1, 0},
	}
	for _, tt := range tests {
		if _, err := PackDate(tt.y, tt.m, tt.d); err == nil {
			t.Errorf("PackDate(%d, %d, %d) succeeded, wanted error", tt.y, tt.m, tt.d)
		}
	}
	if _, err := PackDate(2020, 2, 29); err != nil {
		t.Errorf("PackDate(2020-02-29) failed: %v", err)
	}
}

func TestMissingNeverValid(t *testing.T) {
	if IsValidDate(MissingDate) {
		t.Fatalf("MissingDate reported valid")
	}
	if IsValidTime(MissingTime) {
		t.Fatalf("MissingTime reported valid")
	}
	if PackDateTime(MustPackDate(MinYear, 1, 1), 0) == MissingDateTime {
		t.Fatalf("smallest date-time collides with MissingDateTime")
	}
}

func TestDayOfYear(t *testing.T) {
	a := MustPackDate(2011, 12, 31)
	b := MustPackDate(2012, 1, 1)
	if got := DayOfYear(a); got != 365 {
		t.Errorf("DayOfYear(2011-12-31) = %d, wanted 365", got)
	}
	if got := DayOfYear(b); got != 1 {
		t.Errorf("DayOfYear(2012-01-01) = %d, wanted 1", got)
	}
	if got := DayOfYear(MustPackDate(2012, 12, 31)); got != 366 {
		t.Errorf("DayOfYear(2012-12-31) = %d, wanted 366", got)
	}
}

func TestDayOfWeekMatchesTime(t *testing.T) {
	start := time.Date(1600, 2, 27, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 2000; i += 13 {
		tm := start.AddDate(0, 0, i*97)
		d := DateFromTime(tm)
		if got := DayOfWeek(d); got != tm.Weekday() {
			t.Fatalf("DayOfWeek(%s) = %v, wanted %v", FormatDate(d), got, tm.Weekday())
		}
		if got := DayOfYear(d); got != tm.YearDay() {
			t.Fatalf("DayOfYear(%s) = %d, wanted %d", FormatDate(d), got, tm.YearDay())
		}
	}
}

func TestPlusMonthsClamps(t *testing.T) {
	tests := []struct {
		in   int32
		n    int
		want int32
	}{
		{MustPackDate(2021, 1, 31), 1, MustPackDate(2021, 2, 28)},
		{MustPackDate(2020, 1, 31), 1, MustPackDate(2020, 2, 29)},
		{MustPackDate(2021, 3, 31), -1, MustPackDate(2021, 2, 28)},
		{MustPackDate(2021, 11, 15), 3, MustPackDate(2022, 2, 15)},
		{MustPackDate(2021, 1, 15), -13, MustPackDate(2019, 12, 15)},
		{MustPackDate(2020, 2, 29), 12, MustPackDate(2021, 2, 28)},
	}
	for _, tt := range tests {
		if got := PlusMonths(tt.in, tt.n); got != tt.want {
			t.Errorf("PlusMonths(%s, %d) = %s, wanted %s", FormatDate(tt.in), tt.n, FormatDate(got), FormatDate(tt.want))
		}
	}
	if got := PlusYears(MustPackDate(2020, 2, 29), 1); got != MustPackDate(2021, 2, 28) {
		t.Errorf("PlusYears(2020-02-29, 1) = %s", FormatDate(got))
	}
	if got := PlusMonths(MissingDate, 1); got != MissingDate {
		t.Errorf("PlusMonths(missing) = %d", got)
	}
}

func TestPlusDays(t *testing.T) {
	if got := PlusDays(MustPackDate(2011, 12, 31), 1); got != MustPackDate(2012, 1, 1) {
		t.Errorf("PlusDays = %s", FormatDate(got))
	}
	if got := PlusDays(MustPackDate(2012, 3, 1), -1); got != MustPackDate(2012, 2, 29) {
		t.Errorf("PlusDays = %s", FormatDate(got))
	}
	if got := DaysBetween(MustPackDate(2020, 1, 1), MustPackDate(2021, 1, 1)); got != 366 {
		t.Errorf("DaysBetween = %d, wanted 366", got)
	}
}

func TestPackTime(t *testing.T) {
	p := MustPackTime(13, 45, 12, 250)
	h, m, s, ms := UnpackTime(p)
	if h != 13 || m != 45 || s != 12 || ms != 250 {
		t.Fatalf("UnpackTime = %d:%d:%d.%d", h, m, s, ms)
	}
	if Hour(p) != 13 || Minute(p) != 45 || Second(p) != 12 || Milli(p) != 250 {
		t.Fatalf("accessors disagree with UnpackTime")
	}
	if !(MustPackTime(9, 59, 59, 999) < MustPackTime(10, 0, 0, 0)) {
		t.Fatalf("time ordering broken")
	}
	if _, err := PackTime(24, 0, 0, 0); err == nil {
		t.Fatalf("PackTime(24:00) succeeded")
	}
	if got := PlusHours(MustPackTime(23, 0, 0, 0), 2); got != MustPackTime(1, 0, 0, 0) {
		t.Fatalf("PlusHours wrap = %s", FormatTime(got))
	}
	if got := PlusMinutes(MustPackTime(0, 10, 0, 0), -20); got != MustPackTime(23, 50, 0, 0) {
		t.Fatalf("PlusMinutes wrap = %s", FormatTime(got))
	}
	if got := FormatTime(MustPackTime(7, 5, 3, 0)); got != "07:05:03" {
		t.Fatalf("FormatTime = %q", got)
	}
	if got := FormatTime(MustPackTime(7, 5, 3, 9)); got != "07:05:03.009" {
		t.Fatalf("FormatTime = %q", got)
	}
}

func TestPackDateTime(t *testing.T) {
	d := MustPackDate(2012, 1, 1)
	tm := MustPackTime(12, 30, 0, 0)
	dt := PackDateTime(d, tm)
	if DateOf(dt) != d || TimeOf(dt) != tm {
		t.Fatalf("DateOf/TimeOf = %d/%d, wanted %d/%d", DateOf(dt), TimeOf(dt), d, tm)
	}
	earlier := PackDateTime(MustPackDate(2011, 12, 31), MustPackTime(23, 59, 59, 999))
	if !(earlier < dt) {
		t.Fatalf("date-time ordering broken")
	}
	neg := PackDateTime(MustPackDate(-5, 6, 1), MustPackTime(23, 0, 0, 0))
	if DateOf(neg) != MustPackDate(-5, 6, 1) || TimeOf(neg) != MustPackTime(23, 0, 0, 0) {
		t.Fatalf("negative date-time round trip failed")
	}
	if got := DateTimePlusMillis(earlier, 1); got != PackDateTime(d, 0) {
		t.Fatalf("DateTimePlusMillis = %s", FormatDateTime(got))
	}
	tt := time.Date(2020, 5, 17, 8, 9, 10, 11*int(time.Millisecond), time.UTC)
	if got := DateTimeToTime(DateTimeFromTime(tt)); !got.Equal(tt) {
		t.Fatalf("DateTimeToTime = %v, wanted %v", got, tt)
	}
}

func TestParse(t *testing.T) {
	d, err := ParseDate("2006-01-02", "2021-07-25")
	if err != nil || d != MustPackDate(2021, 7, 25) {
		t.Fatalf("ParseDate = (%d, %v)", d, err)
	}
	if _, err := ParseDate("2006-01-02", "2021-17-25"); err == nil {
		t.Fatalf("ParseDate accepted invalid month")
	}
	tm, err := ParseTime("15:04:05", "08:30:00")
	if err != nil || tm != MustPackTime(8, 30, 0, 0) {
		t.Fatalf("ParseTime = (%d, %v)", tm, err)
	}
	dt, err := ParseDateTime("2006-01-02T15:04:05", "2021-07-25T08:30:00")
	if err != nil || dt != PackDateTime(MustPackDate(2021, 7, 25), MustPackTime(8, 30, 0, 0)) {
		t.Fatalf("ParseDateTime = (%d, %v)", dt, err)
	}
}
