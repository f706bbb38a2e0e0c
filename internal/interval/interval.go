// Package interval holds the time arithmetic shared by shift validation and
// payroll: clock parsing, overnight-aware durations, absolute shift windows,
// half-open overlap and the week bucketing used to group attendance.
package interval

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

const (
	MinutesPerDay = 24 * 60
	DateLayout    = "2006-01-02"
)

var ErrInvalidClock = errors.New("invalid clock time, expected HH:MM")

// Clock is a wall-clock time of day in minutes since midnight.
type Clock int

// ParseClock reads "HH:MM". "24:00" is accepted as an end-of-day marker.
func ParseClock(v string) (Clock, error) {
	h, m, ok := strings.Cut(strings.TrimSpace(v), ":")
	if !ok || len(h) == 0 || len(h) > 2 || len(m) != 2 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidClock, v)
	}
	hour, err := strconv.Atoi(h)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidClock, v)
	}
	minute, err := strconv.Atoi(m)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidClock, v)
	}
	if hour == 24 && minute == 0 {
		return MinutesPerDay, nil
	}
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidClock, v)
	}
	return Clock(hour*60 + minute), nil
}

func MustParseClock(v string) Clock {
	c, err := ParseClock(v)
	if err != nil {
		panic(err)
	}
	return c
}

func (c Clock) String() string {
	return fmt.Sprintf("%02d:%02d", int(c)/60, int(c)%60)
}

// DurationMinutes treats end <= start as crossing midnight.
func DurationMinutes(start, end Clock) int {
	if end <= start {
		end += MinutesPerDay
	}
	return int(end - start)
}

func DurationHours(start, end Clock) float64 {
	return float64(DurationMinutes(start, end)) / 60
}

// Window places a start/end pair on date, rolling the end into the next day
// for overnight shifts.
func Window(date time.Time, start, end Clock) (time.Time, time.Time) {
	day := StartOfDay(date)
	from := day.Add(time.Duration(start) * time.Minute)
	return from, from.Add(time.Duration(DurationMinutes(start, end)) * time.Minute)
}

// Overlaps uses half-open intervals: touching endpoints do not overlap.
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && aEnd.After(bStart)
}

// RestGap is the time between one shift ending and the next starting.
// Negative when they overlap.
func RestGap(prevEnd, nextStart time.Time) time.Duration {
	return nextStart.Sub(prevEnd)
}

func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func ParseDate(v string) (time.Time, error) {
	return time.Parse(DateLayout, strings.TrimSpace(v))
}

// WeekNumber is a grouping key, not an ISO week: weeks run Sunday to
// Saturday and week 1 is the one containing January 1st.
func WeekNumber(date time.Time) int {
	jan1 := time.Date(date.Year(), time.January, 1, 0, 0, 0, 0, time.UTC)
	pastDays := date.YearDay() - 1
	n := pastDays + int(jan1.Weekday()) + 1
	return (n + 6) / 7
}

// WeekKey labels the bucket a date belongs to, e.g. "Week 23, 2025".
func WeekKey(date time.Time) string {
	return fmt.Sprintf("Week %d, %d", WeekNumber(date), date.Year())
}
