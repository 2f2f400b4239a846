package calendar

import "github.com/google/uuid"

// Candidate is a proposed appointment time range. It is deliberately a
// struct rather than positional arguments: the system this replaces had the
// same check duplicated across views, and one call site silently disabled
// itself by swapping parameters. ExcludeID, when non-zero, removes that
// appointment from the comparison set so an edit never conflicts with its
// own prior state.
type Candidate struct {
	Date      string
	Start     string
	End       string
	ExcludeID uuid.UUID
}

// IsFree reports whether the candidate range is free of conflicts among the
// existing entries. Only entries sharing the candidate's date are compared.
// Intervals are half-open: an appointment ending exactly when another starts
// is not a conflict. A candidate with malformed times is never free (callers
// are expected to reject those earlier via ValidateTimes); malformed stored
// entries are skipped rather than treated as blocking.
func IsFree(existing []Entry, c Candidate) bool {
	start, err := ClockMinutes(c.Start)
	if err != nil {
		return false
	}
	end, err := ClockMinutes(c.End)
	if err != nil {
		return false
	}

	for _, e := range existing {
		if e.Date != c.Date {
			continue
		}
		if c.ExcludeID != uuid.Nil && e.ID == c.ExcludeID {
			continue
		}
		s, err := ClockMinutes(e.Start)
		if err != nil {
			continue
		}
		en, err := ClockMinutes(e.End)
		if err != nil {
			continue
		}
		if start < en && end > s {
			return false
		}
	}
	return true
}
