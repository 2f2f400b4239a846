package note

import (
	"time"

	"github.com/google/uuid"
)

// DefaultColor is the sticky-note yellow applied when none is chosen.
const DefaultColor = "#FFEE8C"

// Note is a free-form board note, optionally with a reminder date.
type Note struct {
	ID           uuid.UUID `db:"id" json:"id"`
	Titulo       string    `db:"titulo" json:"titulo"`
	Contenido    string    `db:"contenido" json:"contenido"`
	ReminderDate *string   `db:"reminder_date" json:"reminder_date,omitempty"`
	Color        string    `db:"color" json:"color"`
	IsImportant  bool      `db:"is_important" json:"is_important"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}
