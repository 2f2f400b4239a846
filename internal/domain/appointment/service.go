package appointment

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/clinicops/clinic-server/internal/platform/calendar"
)

// ErrConflict is returned when the requested time range overlaps an existing
// appointment.
var ErrConflict = errors.New("appointment overlaps an existing one")

var validMetodoPago = map[string]bool{
	PayCash:     true,
	PayBizum:    true,
	PayCard:     true,
	PayTransfer: true,
}

// Date range filters accepted by the list endpoint.
const (
	FilterToday    = "hoy"
	FilterTomorrow = "mañana"
	FilterWeek     = "semana"
	FilterMonth    = "mes"
	FilterAll      = "todos"
)

type Service struct {
	repo         Repository
	defaultPrice float64
}

// NewService wires the repository and the configured fallback price used
// when neither the request nor the stored global price supplies one.
func NewService(repo Repository, defaultPrice float64) *Service {
	return &Service{repo: repo, defaultPrice: defaultPrice}
}

func (s *Service) validate(a *Appointment) error {
	if _, err := calendar.ParseDate(a.Fecha); err != nil {
		return fmt.Errorf("fecha must be YYYY-MM-DD: %w", err)
	}
	if err := calendar.ValidateTimes(a.Comenzar, a.Finalizar); err != nil {
		return err
	}
	if a.MetodoPago != "" && !validMetodoPago[a.MetodoPago] {
		return fmt.Errorf("unknown metodo_pago %q", a.MetodoPago)
	}
	if a.Precio < 0 {
		return errors.New("precio must not be negative")
	}
	return nil
}

// normalizeTimes rewrites the clock fields as zero-padded HH:MM so stored
// values sort and compare consistently. Call only after validate.
func normalizeTimes(a *Appointment) {
	start, _ := calendar.ClockMinutes(a.Comenzar)
	end, _ := calendar.ClockMinutes(a.Finalizar)
	a.Comenzar = calendar.FormatClock(start)
	a.Finalizar = calendar.FormatClock(end)
}

// checkFree rejects the candidate when it collides with another appointment.
// Appointments assigned to a different worker are not in the way (two rooms);
// unassigned appointments block every candidate, and vice versa.
func (s *Service) checkFree(ctx context.Context, a *Appointment, excludeID uuid.UUID) error {
	existing, err := s.repo.ListRange(ctx, a.Fecha, a.Fecha, nil)
	if err != nil {
		return err
	}
	entries := make([]calendar.Entry, 0, len(existing))
	for _, e := range existing {
		if a.WorkerID != nil && e.WorkerID != nil && *e.WorkerID != *a.WorkerID {
			continue
		}
		entries = append(entries, e.ToEntry())
	}
	free := calendar.IsFree(entries, calendar.Candidate{
		Date:      a.Fecha,
		Start:     a.Comenzar,
		End:       a.Finalizar,
		ExcludeID: excludeID,
	})
	if !free {
		return ErrConflict
	}
	return nil
}

// DefaultPrice resolves the price applied to appointments created without
// one: the stored global price when set, otherwise the configured fallback.
func (s *Service) DefaultPrice(ctx context.Context) float64 {
	cfg, err := s.repo.GetPriceConfig(ctx)
	if err != nil {
		return s.defaultPrice
	}
	return cfg.PrecioGlobal
}

func (s *Service) CreateAppointment(ctx context.Context, a *Appointment) error {
	if err := s.validate(a); err != nil {
		return err
	}
	normalizeTimes(a)
	if a.Precio == 0 {
		a.Precio = s.DefaultPrice(ctx)
	}
	if a.MetodoPago == "" {
		a.MetodoPago = PayCash
	}
	if err := s.checkFree(ctx, a, uuid.Nil); err != nil {
		return err
	}
	return s.repo.Create(ctx, a)
}

func (s *Service) GetAppointment(ctx context.Context, id uuid.UUID) (*Appointment, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) UpdateAppointment(ctx context.Context, a *Appointment) error {
	if err := s.validate(a); err != nil {
		return err
	}
	normalizeTimes(a)
	if err := s.checkFree(ctx, a, a.ID); err != nil {
		return err
	}
	return s.repo.Update(ctx, a)
}

func (s *Service) DeleteAppointment(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

// ListAppointments resolves a named filter or explicit from/to pair to a date
// range and lists it. With neither, every appointment in a wide fixed window
// is returned, matching the filter "todos".
func (s *Service) ListAppointments(ctx context.Context, filter, from, to string, workerID *uuid.UUID) ([]*Appointment, error) {
	if from == "" || to == "" {
		f, t, err := RangeForFilter(filter, time.Now())
		if err != nil {
			return nil, err
		}
		from, to = f, t
	}
	return s.repo.ListRange(ctx, from, to, workerID)
}

func (s *Service) ListByPatient(ctx context.Context, pacienteID uuid.UUID, limit, offset int) ([]*Appointment, int, error) {
	return s.repo.ListByPatient(ctx, pacienteID, limit, offset)
}

func (s *Service) GetPriceConfig(ctx context.Context) (*PriceConfig, error) {
	cfg, err := s.repo.GetPriceConfig(ctx)
	if errors.Is(err, ErrNotFound) {
		return &PriceConfig{PrecioGlobal: s.defaultPrice}, nil
	}
	return cfg, err
}

func (s *Service) SetPriceConfig(ctx context.Context, precio float64) error {
	if precio < 0 {
		return errors.New("precio_global must not be negative")
	}
	return s.repo.SetPriceConfig(ctx, precio)
}

// RangeForFilter maps a named filter to its inclusive YYYY-MM-DD bounds
// relative to now: hoy and mañana are single days, semana is the Monday-first
// week containing now, mes the calendar month. "todos" (or empty) spans ten
// years either side, wide enough for any clinic history.
func RangeForFilter(filter string, now time.Time) (from, to string, err error) {
	switch strings.ToLower(strings.TrimSpace(filter)) {
	case FilterToday:
		d := calendar.DateKey(now)
		return d, d, nil
	case FilterTomorrow:
		d := calendar.DateKey(now.AddDate(0, 0, 1))
		return d, d, nil
	case FilterWeek:
		week := calendar.Week(now)
		return calendar.DateKey(week[0]), calendar.DateKey(week[6]), nil
	case FilterMonth:
		first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
		last := time.Date(now.Year(), now.Month()+1, 0, 0, 0, 0, 0, now.Location())
		return calendar.DateKey(first), calendar.DateKey(last), nil
	case FilterAll, "":
		return calendar.DateKey(now.AddDate(-10, 0, 0)), calendar.DateKey(now.AddDate(10, 0, 0)), nil
	default:
		return "", "", fmt.Errorf("unknown filter_type %q", filter)
	}
}
