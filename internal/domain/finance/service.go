package finance

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/clinicops/clinic-server/internal/domain/appointment"
)

// ErrAlreadyRegistered rejects recording the same appointment's income twice.
var ErrAlreadyRegistered = errors.New("appointment income already recorded")

type Service struct {
	repo  Repository
	appts appointment.Repository
}

func NewService(repo Repository, appts appointment.Repository) *Service {
	return &Service{repo: repo, appts: appts}
}

// RecordCitaIncome books the income of one appointment. The tipo follows
// the appointment's cotizada flag at recording time.
func (s *Service) RecordCitaIncome(ctx context.Context, citaID uuid.UUID, monto float64, descripcion string, createdBy uuid.UUID) (*Transaction, error) {
	if monto <= 0 {
		return nil, errors.New("monto must be positive")
	}
	if strings.TrimSpace(descripcion) == "" {
		return nil, errors.New("descripcion is required")
	}

	cita, err := s.appts.GetByID(ctx, citaID)
	if err != nil {
		return nil, err
	}
	registered, err := s.repo.HasCitaTransaction(ctx, citaID)
	if err != nil {
		return nil, err
	}
	if registered {
		return nil, ErrAlreadyRegistered
	}

	tipo := TipoIngreso
	if cita.Cotizada {
		tipo = TipoIngresoCotizado
	}
	t := &Transaction{
		Tipo:           tipo,
		Monto:          monto,
		Descripcion:    descripcion,
		CitaID:         &citaID,
		CitaRegistrada: true,
		CreatedBy:      createdBy,
	}
	if err := s.repo.Create(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

// MarkCitaCotizada flags the appointment so later income records as
// INGRESO_COTIZADO.
func (s *Service) MarkCitaCotizada(ctx context.Context, citaID uuid.UUID) error {
	cita, err := s.appts.GetByID(ctx, citaID)
	if err != nil {
		return err
	}
	cita.Cotizada = true
	return s.appts.Update(ctx, cita)
}

// RecordGasto books a standalone expense, optionally linking a receipt URL.
func (s *Service) RecordGasto(ctx context.Context, monto float64, descripcion string, url *string, createdBy uuid.UUID) (*Transaction, error) {
	if monto <= 0 {
		return nil, errors.New("monto must be positive")
	}
	if strings.TrimSpace(descripcion) == "" {
		return nil, errors.New("descripcion is required")
	}
	t := &Transaction{
		Tipo:        TipoGasto,
		Monto:       monto,
		Descripcion: descripcion,
		URL:         url,
		CreatedBy:   createdBy,
	}
	if err := s.repo.Create(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

// ListIncomes returns appointment income (both tipos) within the period.
func (s *Service) ListIncomes(ctx context.Context, period string, limit, offset int) ([]*Transaction, int, error) {
	since, err := periodStart(period, time.Now())
	if err != nil {
		return nil, 0, err
	}
	return s.repo.ListByTipos(ctx, []string{TipoIngreso, TipoIngresoCotizado}, since, limit, offset)
}

// ListGastos returns expenses within the period.
func (s *Service) ListGastos(ctx context.Context, period string, limit, offset int) ([]*Transaction, int, error) {
	since, err := periodStart(period, time.Now())
	if err != nil {
		return nil, 0, err
	}
	return s.repo.ListByTipos(ctx, []string{TipoGasto}, since, limit, offset)
}

// RegisteredCitas lists the appointment IDs whose income is already booked,
// so the front-end can disable their record buttons.
func (s *Service) RegisteredCitas(ctx context.Context) ([]uuid.UUID, error) {
	return s.repo.RegisteredCitas(ctx)
}

// GetBalance sums every tipo across the total, month, quarter and year
// windows.
func (s *Service) GetBalance(ctx context.Context) (*Balance, error) {
	now := time.Now()
	var b Balance

	cells := []struct {
		dest   *float64
		tipo   string
		period string
	}{
		{&b.IngresosTotales, TipoIngreso, PeriodTotal},
		{&b.IngresosCotizadosTotales, TipoIngresoCotizado, PeriodTotal},
		{&b.GastosTotales, TipoGasto, PeriodTotal},
		{&b.IngresosMes, TipoIngreso, PeriodMensual},
		{&b.IngresosCotizadosMes, TipoIngresoCotizado, PeriodMensual},
		{&b.GastosMes, TipoGasto, PeriodMensual},
		{&b.IngresosTrimestre, TipoIngreso, PeriodTrimestre},
		{&b.IngresosCotizadosTrimetre, TipoIngresoCotizado, PeriodTrimestre},
		{&b.GastosTrimestre, TipoGasto, PeriodTrimestre},
		{&b.IngresosAnio, TipoIngreso, PeriodAnual},
		{&b.IngresosCotizadosAnio, TipoIngresoCotizado, PeriodAnual},
		{&b.GastosAnio, TipoGasto, PeriodAnual},
	}
	for _, cell := range cells {
		since, err := periodStart(cell.period, now)
		if err != nil {
			return nil, err
		}
		sum, err := s.repo.SumByTipo(ctx, cell.tipo, since)
		if err != nil {
			return nil, err
		}
		*cell.dest = sum
	}
	return &b, nil
}

func (s *Service) GetConfig(ctx context.Context) (*Config, error) {
	cfg, err := s.repo.GetConfig(ctx)
	if errors.Is(err, ErrNotFound) {
		return &Config{}, nil
	}
	return cfg, err
}

func (s *Service) SetConfig(ctx context.Context, cfg *Config) error {
	if cfg.PrecioCitaBase < 0 || cfg.PrecioActividadBase < 0 {
		return errors.New("base prices must not be negative")
	}
	return s.repo.SetConfig(ctx, cfg)
}

// periodStart resolves a period filter to its inclusive lower bound; the
// zero time means unbounded. "trimestral" is a rolling 90 days, matching
// how the books were always cut.
func periodStart(period string, now time.Time) (time.Time, error) {
	switch strings.ToLower(strings.TrimSpace(period)) {
	case PeriodTotal, "":
		return time.Time{}, nil
	case PeriodMensual:
		return time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()), nil
	case PeriodTrimestre:
		return now.AddDate(0, 0, -90), nil
	case PeriodAnual:
		return time.Date(now.Year(), 1, 1, 0, 0, 0, 0, now.Location()), nil
	default:
		return time.Time{}, fmt.Errorf("unknown period %q", period)
	}
}
