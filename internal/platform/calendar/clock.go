package calendar

import (
	"fmt"
	"strconv"
	"strings"
)

// ClockMinutes parses a time-of-day string ("9:00", "09:00", "09:00:00")
// into minutes since midnight. Comparing minutes instead of strings avoids
// the "9:00" vs "09:00" ordering pitfall across hour boundaries.
func ClockMinutes(clock string) (int, error) {
	parts := strings.Split(strings.TrimSpace(clock), ":")
	if len(parts) < 2 || len(parts) > 3 {
		return 0, fmt.Errorf("invalid clock value %q", clock)
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, fmt.Errorf("invalid hour in %q", clock)
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, fmt.Errorf("invalid minute in %q", clock)
	}
	if h < 0 || h > 23 || m < 0 || m > 59 {
		return 0, fmt.Errorf("clock value %q out of range", clock)
	}
	return h*60 + m, nil
}

// FormatClock renders minutes since midnight as a zero-padded HH:MM string.
func FormatClock(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// ValidateTimes checks a start/end pair at the write boundary: both must
// parse and start must come strictly before end. The original system left
// this undefined; rejecting at creation keeps the stored data well-formed.
func ValidateTimes(start, end string) error {
	s, err := ClockMinutes(start)
	if err != nil {
		return fmt.Errorf("start time: %w", err)
	}
	e, err := ClockMinutes(end)
	if err != nil {
		return fmt.Errorf("end time: %w", err)
	}
	if s >= e {
		return fmt.Errorf("start time %s must be before end time %s", start, end)
	}
	return nil
}
