package finance

import (
	"time"

	"github.com/google/uuid"
)

// Transaction types. Appointment income splits on whether the appointment
// was marked cotizada when the money was recorded.
const (
	TipoIngreso         = "INGRESO"
	TipoGasto           = "GASTO"
	TipoIngresoCotizado = "INGRESO_COTIZADO"
)

// Period filters for listings and balances.
const (
	PeriodTotal     = "total"
	PeriodMensual   = "mensual"
	PeriodTrimestre = "trimestral"
	PeriodAnual     = "anual"
)

// Transaction is one money movement: appointment income, activity income
// or a standalone expense. CitaRegistrada guards against recording the
// same appointment's income twice.
type Transaction struct {
	ID             uuid.UUID  `db:"id" json:"id"`
	Tipo           string     `db:"tipo" json:"tipo"`
	Monto          float64    `db:"monto" json:"monto"`
	Descripcion    string     `db:"descripcion" json:"descripcion"`
	Fecha          time.Time  `db:"fecha" json:"fecha"`
	CitaID         *uuid.UUID `db:"cita_id" json:"cita,omitempty"`
	ActividadID    *uuid.UUID `db:"actividad_id" json:"actividad,omitempty"`
	URL            *string    `db:"url" json:"url,omitempty"`
	CitaRegistrada bool       `db:"cita_registrada" json:"cita_registrada"`
	CreatedBy      uuid.UUID  `db:"created_by" json:"created_by"`
}

// Balance is the income/expense summary across the standard periods.
type Balance struct {
	IngresosTotales           float64 `json:"ingresos_totales"`
	IngresosCotizadosTotales  float64 `json:"ingresos_cotizados_totales"`
	GastosTotales             float64 `json:"gastos_totales"`
	IngresosMes               float64 `json:"ingresos_mes"`
	IngresosCotizadosMes      float64 `json:"ingresos_cotizados_mes"`
	GastosMes                 float64 `json:"gastos_mes"`
	IngresosTrimestre         float64 `json:"ingresos_trimestre"`
	IngresosCotizadosTrimetre float64 `json:"ingresos_cotizados_trimestre"`
	GastosTrimestre           float64 `json:"gastos_trimestre"`
	IngresosAnio              float64 `json:"ingresos_anio"`
	IngresosCotizadosAnio     float64 `json:"ingresos_cotizados_anio"`
	GastosAnio                float64 `json:"gastos_anio"`
}

// Config carries the base prices used when quoting sessions.
type Config struct {
	PrecioCitaBase      float64   `db:"precio_cita_base" json:"precio_cita_base"`
	PrecioActividadBase float64   `db:"precio_actividad_base" json:"precio_actividad_base"`
	UpdatedAt           time.Time `db:"updated_at" json:"ultima_actualizacion"`
}
