package appointment

import (
	"time"

	"github.com/google/uuid"

	"github.com/clinicops/clinic-server/internal/platform/calendar"
)

// Accepted payment methods.
const (
	PayCash     = "efectivo"
	PayBizum    = "bizum"
	PayCard     = "tarjeta"
	PayTransfer = "transferencia"
)

// Appointment maps to the appointments table. Field names on the wire are
// the Spanish ones the clinic front-end already uses: fecha is a YYYY-MM-DD
// date, comenzar/finalizar are HH:MM clock times.
type Appointment struct {
	ID          uuid.UUID  `db:"id" json:"id"`
	PacienteID  *uuid.UUID `db:"paciente_id" json:"paciente_id,omitempty"`
	WorkerID    *uuid.UUID `db:"worker_id" json:"worker_id,omitempty"`
	Fecha       string     `db:"fecha" json:"fecha"`
	Comenzar    string     `db:"comenzar" json:"comenzar"`
	Finalizar   string     `db:"finalizar" json:"finalizar"`
	Descripcion *string    `db:"descripcion" json:"descripcion,omitempty"`
	Precio      float64    `db:"precio" json:"precio"`
	Cotizada    bool       `db:"cotizada" json:"cotizada"`
	IRPF        bool       `db:"irpf" json:"irpf"`
	MetodoPago  string     `db:"metodo_pago" json:"metodo_pago"`
	Pagado      bool       `db:"pagado" json:"pagado"`
	CreatedAt   time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time  `db:"updated_at" json:"updated_at"`

	// PacienteNombre is the joined display name, read-only.
	PacienteNombre string `db:"-" json:"paciente,omitempty"`
}

// ToEntry projects the appointment onto the scheduling grid.
func (a *Appointment) ToEntry() calendar.Entry {
	entry := calendar.Entry{
		ID:    a.ID,
		Date:  a.Fecha,
		Start: a.Comenzar,
		End:   a.Finalizar,
		Label: a.PacienteNombre,
	}
	if a.Descripcion != nil {
		entry.Note = *a.Descripcion
	}
	return entry
}

// PriceConfig is the single-row global default price for new appointments.
type PriceConfig struct {
	PrecioGlobal float64   `db:"precio_global" json:"precio_global"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}
