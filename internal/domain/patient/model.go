package patient

import (
	"time"

	"github.com/google/uuid"
)

// Patient maps to the patients table. JSON field names match the wire
// format the clinic front-end already speaks.
type Patient struct {
	ID              uuid.UUID `db:"id" json:"id"`
	Nombre          string    `db:"nombre" json:"nombre"`
	PrimerApellido  string    `db:"primer_apellido" json:"primer_apellido"`
	SegundoApellido string    `db:"segundo_apellido" json:"segundo_apellido"`
	Email           string    `db:"email" json:"email"`
	Phone           *string   `db:"phone" json:"phone,omitempty"`
	FechaNacimiento string    `db:"fecha_nacimiento" json:"fecha_nacimiento"`
	DNI             string    `db:"dni" json:"dni"`
	Address         string    `db:"address" json:"address"`
	City            string    `db:"city" json:"city"`
	CodePostal      string    `db:"code_postal" json:"code_postal"`
	Country         string    `db:"country" json:"country"`
	Alergias        bool      `db:"alergias" json:"alergias"`
	Patologias      []string  `db:"patologias" json:"patologias"`
	Notas           *string   `db:"notas" json:"notas,omitempty"`
	CreatedAt       time.Time `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time `db:"updated_at" json:"updated_at"`
}

// FullName returns "nombre primer_apellido segundo_apellido".
func (p *Patient) FullName() string {
	name := p.Nombre + " " + p.PrimerApellido
	if p.SegundoApellido != "" {
		name += " " + p.SegundoApellido
	}
	return name
}
