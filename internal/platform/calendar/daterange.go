// Package calendar implements the scheduling grid used by the agenda views:
// visible date-range computation, bucketing of appointments into hourly
// cells, and overlap validation for proposed time ranges.
package calendar

import "time"

// DateLayout is the wire format for calendar dates.
const DateLayout = "2006-01-02"

// DateKey formats t as a YYYY-MM-DD grid key.
func DateKey(t time.Time) string {
	return t.Format(DateLayout)
}

// ParseDate parses a YYYY-MM-DD wire date.
func ParseDate(s string) (time.Time, error) {
	return time.Parse(DateLayout, s)
}

// Week returns the Monday-to-Sunday dates of the week containing ref.
// The result is deterministic and recomputed from scratch on every call.
func Week(ref time.Time) [7]time.Time {
	monday := startOfWeek(ref)
	var days [7]time.Time
	for i := range days {
		days[i] = monday.AddDate(0, 0, i)
	}
	return days
}

// startOfWeek truncates ref to midnight on the Monday of its week.
// Sunday counts as offset 6 from Monday, never as the week start.
func startOfWeek(ref time.Time) time.Time {
	day := ref.Truncate(0)
	offset := int(day.Weekday()) - 1
	if day.Weekday() == time.Sunday {
		offset = 6
	}
	return time.Date(day.Year(), day.Month(), day.Day()-offset, 0, 0, 0, 0, day.Location())
}

// Month returns the calendar cells for ref's month: leading nil entries pad
// the first row so that day 1 lands under its weekday (Monday-first), then
// one entry per day of the month.
func Month(ref time.Time) []*time.Time {
	first := time.Date(ref.Year(), ref.Month(), 1, 0, 0, 0, 0, ref.Location())
	padding := int(first.Weekday()) - 1
	if first.Weekday() == time.Sunday {
		padding = 6
	}

	daysInMonth := time.Date(ref.Year(), ref.Month()+1, 0, 0, 0, 0, 0, ref.Location()).Day()

	cells := make([]*time.Time, 0, padding+daysInMonth)
	for i := 0; i < padding; i++ {
		cells = append(cells, nil)
	}
	for d := 1; d <= daysInMonth; d++ {
		day := time.Date(ref.Year(), ref.Month(), d, 0, 0, 0, 0, ref.Location())
		cells = append(cells, &day)
	}
	return cells
}

// NextWeek shifts ref forward by exactly seven days.
func NextWeek(ref time.Time) time.Time { return ref.AddDate(0, 0, 7) }

// PrevWeek shifts ref back by exactly seven days.
func PrevWeek(ref time.Time) time.Time { return ref.AddDate(0, 0, -7) }

// AddMonths shifts ref by whole calendar months, clamping the day of month
// to the target month's length (Jan 31 + 1 month is Feb 28/29, never Mar 3).
func AddMonths(ref time.Time, months int) time.Time {
	first := time.Date(ref.Year(), ref.Month(), 1, 0, 0, 0, 0, ref.Location())
	shifted := first.AddDate(0, months, 0)
	lastDay := time.Date(shifted.Year(), shifted.Month()+1, 0, 0, 0, 0, 0, ref.Location()).Day()
	day := ref.Day()
	if day > lastDay {
		day = lastDay
	}
	return time.Date(shifted.Year(), shifted.Month(), day,
		ref.Hour(), ref.Minute(), ref.Second(), ref.Nanosecond(), ref.Location())
}
