package calendar

import (
	"fmt"

	"github.com/google/uuid"
)

// Entry is an appointment projected onto the grid. Label carries the
// display name (patient), Note the free-text description; neither affects
// bucketing or validation.
type Entry struct {
	ID    uuid.UUID `json:"id"`
	Date  string    `json:"fecha"`
	Start string    `json:"comenzar"`
	End   string    `json:"finalizar"`
	Label string    `json:"paciente,omitempty"`
	Note  string    `json:"descripcion,omitempty"`
}

// SlotKey identifies one (date, hour) cell of the grid.
type SlotKey struct {
	Date string
	Hour int
}

func (k SlotKey) String() string {
	return fmt.Sprintf("%s-%02d:00", k.Date, k.Hour)
}

// HourRange is the inclusive span of hour rows shown by a view.
type HourRange struct {
	First int
	Last  int
}

// WorkdayHours matches the agenda's 07:00-23:00 rows.
func WorkdayHours() HourRange { return HourRange{First: 7, Last: 23} }

// MapToSlots buckets entries into hourly cells. An entry occupies every cell
// h with startHour <= h < endHour, both endpoints truncated to whole hours;
// sub-hour placement is a rendering overlay, not a slot concern. Entries
// dated outside visible are dropped. Pure function of its inputs: safe to
// call on every render, and two calls with equal inputs agree.
//
// Several entries may legally share a cell here; conflict detection happens
// only at write time via IsFree.
func MapToSlots(entries []Entry, visible []string, hours HourRange) map[SlotKey][]Entry {
	visibleSet := make(map[string]bool, len(visible))
	for _, d := range visible {
		visibleSet[d] = true
	}

	slots := make(map[SlotKey][]Entry)
	for _, e := range entries {
		if !visibleSet[e.Date] {
			continue
		}
		start, err := ClockMinutes(e.Start)
		if err != nil {
			continue
		}
		end, err := ClockMinutes(e.End)
		if err != nil {
			continue
		}
		for h := start / 60; h < end/60; h++ {
			if h < hours.First || h > hours.Last {
				continue
			}
			key := SlotKey{Date: e.Date, Hour: h}
			slots[key] = append(slots[key], e)
		}
	}
	return slots
}
