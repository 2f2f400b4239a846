package billing

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/clinicops/clinic-server/internal/domain/appointment"
)

type mockRepo struct {
	invoices map[uuid.UUID]*Invoice
	byCita   map[uuid.UUID]*Invoice
	config   *SeriesConfig
	last     int
}

func newMockRepo() *mockRepo {
	return &mockRepo{
		invoices: make(map[uuid.UUID]*Invoice),
		byCita:   make(map[uuid.UUID]*Invoice),
	}
}

func (m *mockRepo) Create(_ context.Context, inv *Invoice) error {
	inv.ID = uuid.New()
	inv.FechaCreacion = time.Now()
	m.invoices[inv.ID] = inv
	m.byCita[inv.CitaID] = inv
	if inv.NumeroFactura > m.last {
		m.last = inv.NumeroFactura
	}
	return nil
}

func (m *mockRepo) GetByID(_ context.Context, id uuid.UUID) (*Invoice, error) {
	inv, ok := m.invoices[id]
	if !ok {
		return nil, ErrNotFound
	}
	return inv, nil
}

func (m *mockRepo) GetByCita(_ context.Context, citaID uuid.UUID) (*Invoice, error) {
	inv, ok := m.byCita[citaID]
	if !ok {
		return nil, ErrNotFound
	}
	return inv, nil
}

func (m *mockRepo) Delete(_ context.Context, id uuid.UUID) error {
	inv, ok := m.invoices[id]
	if !ok {
		return ErrNotFound
	}
	delete(m.byCita, inv.CitaID)
	delete(m.invoices, id)
	return nil
}

func (m *mockRepo) List(_ context.Context, from, to string, limit, offset int) ([]*Invoice, int, error) {
	var result []*Invoice
	for _, inv := range m.invoices {
		day := inv.FechaCreacion.Format("2006-01-02")
		if from != "" && day < from {
			continue
		}
		if to != "" && day > to {
			continue
		}
		result = append(result, inv)
	}
	return result, len(result), nil
}

func (m *mockRepo) ListByPatient(_ context.Context, _ uuid.UUID, _, _ int) ([]*Invoice, int, error) {
	return nil, 0, nil
}

func (m *mockRepo) LastNumber(_ context.Context) (int, error) { return m.last, nil }

func (m *mockRepo) GetConfig(_ context.Context) (*SeriesConfig, error) {
	if m.config == nil {
		return nil, ErrNotFound
	}
	return m.config, nil
}

func (m *mockRepo) SetConfig(_ context.Context, numeroInicial int) error {
	m.config = &SeriesConfig{NumeroInicial: numeroInicial, UpdatedAt: time.Now()}
	return nil
}

type mockAppts struct {
	appts map[uuid.UUID]*appointment.Appointment
}

func (m *mockAppts) GetByID(_ context.Context, id uuid.UUID) (*appointment.Appointment, error) {
	a, ok := m.appts[id]
	if !ok {
		return nil, appointment.ErrNotFound
	}
	return a, nil
}

func (m *mockAppts) Create(_ context.Context, _ *appointment.Appointment) error { return nil }
func (m *mockAppts) Update(_ context.Context, _ *appointment.Appointment) error { return nil }
func (m *mockAppts) Delete(_ context.Context, _ uuid.UUID) error                { return nil }
func (m *mockAppts) ListRange(_ context.Context, _, _ string, _ *uuid.UUID) ([]*appointment.Appointment, error) {
	return nil, nil
}
func (m *mockAppts) ListByPatient(_ context.Context, _ uuid.UUID, _, _ int) ([]*appointment.Appointment, int, error) {
	return nil, 0, nil
}
func (m *mockAppts) ListByIDs(_ context.Context, _ []uuid.UUID) ([]*appointment.Appointment, error) {
	return nil, nil
}
func (m *mockAppts) GetPriceConfig(_ context.Context) (*appointment.PriceConfig, error) {
	return nil, appointment.ErrNotFound
}
func (m *mockAppts) SetPriceConfig(_ context.Context, _ float64) error { return nil }

// passthroughTx runs the callback without a real transaction.
type passthroughTx struct{}

func (passthroughTx) InTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func billableCita() *appointment.Appointment {
	return &appointment.Appointment{
		ID:       uuid.New(),
		Fecha:    "2026-09-01",
		Precio:   25,
		Cotizada: true,
	}
}

func newTestService() (*Service, *mockRepo, *mockAppts) {
	repo := newMockRepo()
	appts := &mockAppts{appts: make(map[uuid.UUID]*appointment.Appointment)}
	return NewService(repo, appts, passthroughTx{}, "F"), repo, appts
}

func TestCreateInvoice_SequentialNumbers(t *testing.T) {
	svc, _, appts := newTestService()

	first := billableCita()
	second := billableCita()
	appts.appts[first.ID] = first
	appts.appts[second.ID] = second

	inv1, err := svc.CreateInvoice(context.Background(), first.ID, uuid.New())
	if err != nil {
		t.Fatalf("first invoice: %v", err)
	}
	inv2, err := svc.CreateInvoice(context.Background(), second.ID, uuid.New())
	if err != nil {
		t.Fatalf("second invoice: %v", err)
	}

	if inv1.NumeroFactura != 1 || inv2.NumeroFactura != 2 {
		t.Errorf("numbers = %d, %d, want 1, 2", inv1.NumeroFactura, inv2.NumeroFactura)
	}
	if inv1.Numero != "F-000001" {
		t.Errorf("numero = %q, want F-000001", inv1.Numero)
	}
	if inv1.Total != 25 {
		t.Errorf("total = %v, want the appointment price", inv1.Total)
	}
}

func TestCreateInvoice_StartsAtConfiguredNumber(t *testing.T) {
	svc, repo, appts := newTestService()
	repo.SetConfig(context.Background(), 1000)

	cita := billableCita()
	appts.appts[cita.ID] = cita

	inv, err := svc.CreateInvoice(context.Background(), cita.ID, uuid.New())
	if err != nil {
		t.Fatalf("CreateInvoice() error: %v", err)
	}
	if inv.NumeroFactura != 1000 {
		t.Errorf("first number = %d, want configured 1000", inv.NumeroFactura)
	}
}

func TestCreateInvoice_RejectsUnbillable(t *testing.T) {
	svc, _, appts := newTestService()

	cita := billableCita()
	cita.Cotizada = false
	appts.appts[cita.ID] = cita

	if _, err := svc.CreateInvoice(context.Background(), cita.ID, uuid.New()); !errors.Is(err, ErrNotBillable) {
		t.Errorf("error = %v, want ErrNotBillable", err)
	}
}

func TestCreateInvoice_RejectsDuplicate(t *testing.T) {
	svc, _, appts := newTestService()

	cita := billableCita()
	appts.appts[cita.ID] = cita

	if _, err := svc.CreateInvoice(context.Background(), cita.ID, uuid.New()); err != nil {
		t.Fatalf("first invoice: %v", err)
	}
	if _, err := svc.CreateInvoice(context.Background(), cita.ID, uuid.New()); !errors.Is(err, ErrAlreadyInvoiced) {
		t.Errorf("error = %v, want ErrAlreadyInvoiced", err)
	}
}

func TestCreationRange(t *testing.T) {
	// A Wednesday.
	now := time.Date(2026, 9, 16, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		filtro   string
		from, to string
	}{
		{"hoy", "2026-09-16", "2026-09-16"},
		{"semana", "2026-09-14", "2026-09-16"},
		{"mes", "2026-09-01", "2026-09-30"},
		{"año", "2026-01-01", "2026-12-31"},
		{"", "", ""},
	}
	for _, tt := range tests {
		from, to, err := creationRange(tt.filtro, "", now)
		if err != nil {
			t.Fatalf("creationRange(%q) error: %v", tt.filtro, err)
		}
		if from != tt.from || to != tt.to {
			t.Errorf("%q: range = %s..%s, want %s..%s", tt.filtro, from, to, tt.from, tt.to)
		}
	}

	if _, _, err := creationRange("trimestre", "", now); err == nil {
		t.Error("expected error for unknown filtro")
	}

	from, to, err := creationRange("", "2026-03-05", now)
	if err != nil || from != "2026-03-05" || to != "2026-03-05" {
		t.Errorf("explicit fecha: %s..%s (%v)", from, to, err)
	}
}
