package billing

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Invoice bills exactly one appointment. NumeroFactura is the sequential
// series number; Numero is its display form with the configured prefix.
type Invoice struct {
	ID            uuid.UUID `db:"id" json:"id"`
	CitaID        uuid.UUID `db:"cita_id" json:"cita_id"`
	NumeroFactura int       `db:"numero_factura" json:"numero_factura"`
	Numero        string    `db:"-" json:"numero"`
	Total         float64   `db:"total" json:"total"`
	FechaCreacion time.Time `db:"fecha_creacion" json:"fecha_creacion"`
	CreatedBy     uuid.UUID `db:"created_by" json:"created_by"`

	// PacienteNombre is joined through the appointment, read-only.
	PacienteNombre string `db:"-" json:"paciente,omitempty"`
}

// FormatNumero renders the display number, e.g. "F-000042".
func FormatNumero(prefix string, n int) string {
	return fmt.Sprintf("%s-%06d", prefix, n)
}

// SeriesConfig is the single-row invoice numbering configuration: the first
// number issued when the series is empty.
type SeriesConfig struct {
	NumeroInicial int       `db:"numero_inicial" json:"numero_inicial"`
	UpdatedAt     time.Time `db:"updated_at" json:"updated_at"`
}
