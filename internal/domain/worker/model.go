package worker

import (
	"time"

	"github.com/google/uuid"
)

// Branches the clinic operates.
const (
	BranchFisioterapia = "fisioterapia"
	BranchPsicologia   = "psicologia"
)

// Worker maps to the workers table: a staff member who takes appointments.
type Worker struct {
	ID         uuid.UUID `db:"id" json:"id"`
	FirstName  string    `db:"first_name" json:"first_name"`
	LastName   string    `db:"last_name" json:"last_name"`
	Branch     string    `db:"branch" json:"branch"`
	DNI        string    `db:"dni" json:"dni"`
	Phone      *string   `db:"phone" json:"phone,omitempty"`
	Address    string    `db:"address" json:"address"`
	PostalCode string    `db:"postal_code" json:"postal_code"`
	Country    string    `db:"country" json:"country"`
	IsActive   bool      `db:"is_active" json:"is_active"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time `db:"updated_at" json:"updated_at"`
}
