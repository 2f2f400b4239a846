package training

import (
	"time"

	"github.com/google/uuid"
)

// Training is a continuing-education session a clinic professional attends.
type Training struct {
	ID          uuid.UUID `db:"id" json:"id"`
	Titulo      string    `db:"titulo" json:"titulo"`
	Profesional string    `db:"profesional" json:"profesional"`
	Lugar       string    `db:"lugar" json:"lugar"`
	Tematica    string    `db:"tematica" json:"tematica"`
	Fecha       string    `db:"fecha" json:"fecha"`
	Hora        string    `db:"hora" json:"hora"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}
