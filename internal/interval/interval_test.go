package interval

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func day(s string) time.Time {
	d, err := ParseDate(s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestParseClock(t *testing.T) {
	c, err := ParseClock("07:30")
	assert.NoError(t, err)
	assert.Equal(t, Clock(450), c)
	assert.Equal(t, "07:30", c.String())

	c, err = ParseClock("24:00")
	assert.NoError(t, err)
	assert.Equal(t, Clock(MinutesPerDay), c)

	for _, bad := range []string{"", "7", "25:00", "12:60", "ab:cd", "12:5", "24:30"} {
		_, err := ParseClock(bad)
		assert.ErrorIs(t, err, ErrInvalidClock, bad)
	}
}

func TestDuration(t *testing.T) {
	assert.Equal(t, 8.0, DurationHours(MustParseClock("09:00"), MustParseClock("17:00")))
	assert.Equal(t, 12.0, DurationHours(MustParseClock("20:00"), MustParseClock("08:00")))
	assert.Equal(t, 24.0, DurationHours(MustParseClock("06:00"), MustParseClock("06:00")))
	assert.Equal(t, 90, DurationMinutes(MustParseClock("23:30"), MustParseClock("01:00")))
}

func TestWindow_Overnight(t *testing.T) {
	from, to := Window(day("2025-06-02"), MustParseClock("22:00"), MustParseClock("06:00"))
	assert.Equal(t, time.Date(2025, 6, 2, 22, 0, 0, 0, time.UTC), from)
	assert.Equal(t, time.Date(2025, 6, 3, 6, 0, 0, 0, time.UTC), to)
}

func TestOverlaps(t *testing.T) {
	d := day("2025-06-02")
	w := func(start, end string) (time.Time, time.Time) {
		return Window(d, MustParseClock(start), MustParseClock(end))
	}

	cases := []struct {
		name   string
		a, b   [2]string
		expect bool
	}{
		{"disjoint", [2]string{"06:00", "10:00"}, [2]string{"11:00", "15:00"}, false},
		{"touching", [2]string{"06:00", "10:00"}, [2]string{"10:00", "15:00"}, false},
		{"partial", [2]string{"06:00", "12:00"}, [2]string{"10:00", "15:00"}, true},
		{"contained", [2]string{"06:00", "18:00"}, [2]string{"10:00", "12:00"}, true},
		{"overnight into day", [2]string{"20:00", "08:00"}, [2]string{"21:00", "23:00"}, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			as, ae := w(tc.a[0], tc.a[1])
			bs, be := w(tc.b[0], tc.b[1])
			assert.Equal(t, tc.expect, Overlaps(as, ae, bs, be))
			assert.Equal(t, Overlaps(as, ae, bs, be), Overlaps(bs, be, as, ae), "symmetry")
		})
	}
}

func TestRestGap(t *testing.T) {
	_, prevEnd := Window(day("2025-06-01"), MustParseClock("20:00"), MustParseClock("06:00"))
	nextStart, _ := Window(day("2025-06-02"), MustParseClock("18:00"), MustParseClock("23:00"))
	assert.Equal(t, 12*time.Hour, RestGap(prevEnd, nextStart))
}

func TestWeekKey(t *testing.T) {
	// 2025-01-01 is a Wednesday.
	assert.Equal(t, 1, WeekNumber(day("2025-01-01")))
	assert.Equal(t, 1, WeekNumber(day("2025-01-04")))
	assert.Equal(t, 2, WeekNumber(day("2025-01-05")))
	assert.Equal(t, "Week 23, 2025", WeekKey(day("2025-06-02")))
	assert.Equal(t, WeekKey(day("2025-06-01")), WeekKey(day("2025-06-07")))
	assert.NotEqual(t, WeekKey(day("2025-06-07")), WeekKey(day("2025-06-08")))
	// 2024-01-01 is a Monday.
	assert.Equal(t, "Week 1, 2024", WeekKey(day("2024-01-06")))
	assert.Equal(t, "Week 2, 2024", WeekKey(day("2024-01-07")))
}
