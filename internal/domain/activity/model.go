package activity

import (
	"time"

	"github.com/google/uuid"
)

// Activity is a recurring group session (pilates, back school, relaxation)
// that repeats on fixed weekdays rather than being booked appointment by
// appointment. RecurrenceDays holds lowercase Spanish weekday names.
type Activity struct {
	ID             uuid.UUID   `db:"id" json:"id"`
	Name           string      `db:"name" json:"name"`
	Description    string      `db:"description" json:"description"`
	StartDate      *string     `db:"start_date" json:"start_date,omitempty"`
	RecurrenceDays []string    `db:"recurrence_days" json:"recurrence_days"`
	StartTime      string      `db:"start_time" json:"start_time"`
	EndTime        string      `db:"end_time" json:"end_time"`
	MonitorID      *uuid.UUID  `db:"monitor_id" json:"monitor_id,omitempty"`
	Precio         float64     `db:"precio" json:"precio"`
	Pacientes      []uuid.UUID `db:"-" json:"pacientes"`
	CreatedAt      time.Time   `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time   `db:"updated_at" json:"updated_at"`
}

// Occurrence is one concrete session of an activity on a given date.
type Occurrence struct {
	ActivityID uuid.UUID `json:"activity_id"`
	Name       string    `json:"name"`
	Fecha      string    `json:"fecha"`
	StartTime  string    `json:"start_time"`
	EndTime    string    `json:"end_time"`
}
