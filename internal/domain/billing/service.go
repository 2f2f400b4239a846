package billing

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/clinicops/clinic-server/internal/domain/appointment"
	"github.com/clinicops/clinic-server/internal/platform/calendar"
)

var (
	// ErrNotBillable rejects invoicing an appointment not marked cotizada.
	ErrNotBillable = errors.New("appointment is not marked for invoicing")
	// ErrAlreadyInvoiced enforces the one-invoice-per-appointment rule.
	ErrAlreadyInvoiced = errors.New("appointment already has an invoice")
)

// TxRunner runs fn inside one database transaction.
type TxRunner interface {
	InTx(ctx context.Context, fn func(ctx context.Context) error) error
}

type Service struct {
	repo   Repository
	appts  appointment.Repository
	tx     TxRunner
	prefix string
}

func NewService(repo Repository, appts appointment.Repository, tx TxRunner, prefix string) *Service {
	return &Service{repo: repo, appts: appts, tx: tx, prefix: prefix}
}

// CreateInvoice issues the next invoice in the series for the given
// appointment. Number assignment and insert run in one transaction so
// concurrent billing cannot mint duplicate numbers.
func (s *Service) CreateInvoice(ctx context.Context, citaID, createdBy uuid.UUID) (*Invoice, error) {
	cita, err := s.appts.GetByID(ctx, citaID)
	if err != nil {
		return nil, err
	}
	if !cita.Cotizada {
		return nil, ErrNotBillable
	}
	if _, err := s.repo.GetByCita(ctx, citaID); err == nil {
		return nil, ErrAlreadyInvoiced
	} else if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	inv := &Invoice{
		CitaID:    citaID,
		Total:     cita.Precio,
		CreatedBy: createdBy,
	}
	err = s.tx.InTx(ctx, func(ctx context.Context) error {
		number, err := s.nextNumber(ctx)
		if err != nil {
			return err
		}
		inv.NumeroFactura = number
		return s.repo.Create(ctx, inv)
	})
	if err != nil {
		return nil, err
	}
	inv.Numero = FormatNumero(s.prefix, inv.NumeroFactura)
	inv.PacienteNombre = cita.PacienteNombre
	return inv, nil
}

// nextNumber continues the series from the last issued invoice, or starts
// it at the configured numero_inicial (1 when unconfigured).
func (s *Service) nextNumber(ctx context.Context) (int, error) {
	last, err := s.repo.LastNumber(ctx)
	if err != nil {
		return 0, err
	}
	if last > 0 {
		return last + 1, nil
	}
	cfg, err := s.repo.GetConfig(ctx)
	if errors.Is(err, ErrNotFound) {
		return 1, nil
	}
	if err != nil {
		return 0, err
	}
	return cfg.NumeroInicial, nil
}

func (s *Service) GetInvoice(ctx context.Context, id uuid.UUID) (*Invoice, error) {
	inv, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	inv.Numero = FormatNumero(s.prefix, inv.NumeroFactura)
	return inv, nil
}

func (s *Service) DeleteInvoice(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

// ListInvoices accepts a named creation-date filter (hoy, semana, mes, año)
// or an explicit fecha; both empty lists everything.
func (s *Service) ListInvoices(ctx context.Context, filtro, fecha string, limit, offset int) ([]*Invoice, int, error) {
	from, to, err := creationRange(filtro, fecha, time.Now())
	if err != nil {
		return nil, 0, err
	}
	invoices, total, err := s.repo.List(ctx, from, to, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	s.decorate(invoices)
	return invoices, total, nil
}

func (s *Service) ListByPatient(ctx context.Context, pacienteID uuid.UUID, limit, offset int) ([]*Invoice, int, error) {
	invoices, total, err := s.repo.ListByPatient(ctx, pacienteID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	s.decorate(invoices)
	return invoices, total, nil
}

func (s *Service) decorate(invoices []*Invoice) {
	for _, inv := range invoices {
		inv.Numero = FormatNumero(s.prefix, inv.NumeroFactura)
	}
}

func (s *Service) GetSeriesConfig(ctx context.Context) (*SeriesConfig, error) {
	cfg, err := s.repo.GetConfig(ctx)
	if errors.Is(err, ErrNotFound) {
		return &SeriesConfig{NumeroInicial: 1}, nil
	}
	return cfg, err
}

func (s *Service) SetSeriesConfig(ctx context.Context, numeroInicial int) error {
	if numeroInicial < 1 {
		return errors.New("numero_inicial must be positive")
	}
	return s.repo.SetConfig(ctx, numeroInicial)
}

// creationRange maps the list filters onto inclusive date bounds. "semana"
// is week-to-date from Monday, "mes" and "año" are calendar periods.
func creationRange(filtro, fecha string, now time.Time) (string, string, error) {
	if fecha != "" {
		if _, err := calendar.ParseDate(fecha); err != nil {
			return "", "", fmt.Errorf("fecha must be YYYY-MM-DD: %w", err)
		}
		return fecha, fecha, nil
	}
	today := calendar.DateKey(now)
	switch strings.ToLower(strings.TrimSpace(filtro)) {
	case "hoy":
		return today, today, nil
	case "semana":
		week := calendar.Week(now)
		return calendar.DateKey(week[0]), today, nil
	case "mes":
		first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
		last := time.Date(now.Year(), now.Month()+1, 0, 0, 0, 0, 0, now.Location())
		return calendar.DateKey(first), calendar.DateKey(last), nil
	case "año":
		return fmt.Sprintf("%04d-01-01", now.Year()), fmt.Sprintf("%04d-12-31", now.Year()), nil
	case "":
		return "", "", nil
	default:
		return "", "", fmt.Errorf("unknown filtro %q", filtro)
	}
}
