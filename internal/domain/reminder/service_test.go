package reminder

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/clinicops/clinic-server/internal/domain/appointment"
	"github.com/clinicops/clinic-server/internal/domain/patient"
)

type mockAppts struct {
	appts map[uuid.UUID]*appointment.Appointment
}

func (m *mockAppts) ListByIDs(_ context.Context, ids []uuid.UUID) ([]*appointment.Appointment, error) {
	var result []*appointment.Appointment
	for _, id := range ids {
		if a, ok := m.appts[id]; ok {
			result = append(result, a)
		}
	}
	return result, nil
}

func (m *mockAppts) ListRange(_ context.Context, from, to string, _ *uuid.UUID) ([]*appointment.Appointment, error) {
	var result []*appointment.Appointment
	for _, a := range m.appts {
		if a.Fecha >= from && a.Fecha <= to {
			result = append(result, a)
		}
	}
	return result, nil
}

func (m *mockAppts) Create(_ context.Context, _ *appointment.Appointment) error { return nil }
func (m *mockAppts) GetByID(_ context.Context, _ uuid.UUID) (*appointment.Appointment, error) {
	return nil, appointment.ErrNotFound
}
func (m *mockAppts) Update(_ context.Context, _ *appointment.Appointment) error { return nil }
func (m *mockAppts) Delete(_ context.Context, _ uuid.UUID) error                { return nil }
func (m *mockAppts) ListByPatient(_ context.Context, _ uuid.UUID, _, _ int) ([]*appointment.Appointment, int, error) {
	return nil, 0, nil
}
func (m *mockAppts) GetPriceConfig(_ context.Context) (*appointment.PriceConfig, error) {
	return nil, appointment.ErrNotFound
}
func (m *mockAppts) SetPriceConfig(_ context.Context, _ float64) error { return nil }

type mockPatients struct {
	patients map[uuid.UUID]*patient.Patient
}

func (m *mockPatients) GetByID(_ context.Context, id uuid.UUID) (*patient.Patient, error) {
	p, ok := m.patients[id]
	if !ok {
		return nil, patient.ErrNotFound
	}
	return p, nil
}

func (m *mockPatients) Create(_ context.Context, _ *patient.Patient) error { return nil }
func (m *mockPatients) GetByEmail(_ context.Context, _ string) (*patient.Patient, error) {
	return nil, patient.ErrNotFound
}
func (m *mockPatients) Update(_ context.Context, _ *patient.Patient) error { return nil }
func (m *mockPatients) Delete(_ context.Context, _ uuid.UUID) error        { return nil }
func (m *mockPatients) List(_ context.Context, _, _ int) ([]*patient.Patient, int, error) {
	return nil, 0, nil
}
func (m *mockPatients) Search(_ context.Context, _ string, _, _ int) ([]*patient.Patient, int, error) {
	return nil, 0, nil
}

type mockSender struct {
	sent []string
	fail bool
}

func (m *mockSender) Send(_ context.Context, to, body string) error {
	if m.fail {
		return errors.New("delivery rejected")
	}
	m.sent = append(m.sent, to+": "+body)
	return nil
}

type mockDeduper struct {
	seen map[string]bool
}

func (m *mockDeduper) MarkSent(_ context.Context, citaID uuid.UUID, day string) (bool, error) {
	key := citaID.String() + ":" + day
	if m.seen[key] {
		return false, nil
	}
	if m.seen == nil {
		m.seen = map[string]bool{}
	}
	m.seen[key] = true
	return true, nil
}

func (m *mockDeduper) Release(_ context.Context, citaID uuid.UUID, day string) error {
	delete(m.seen, citaID.String()+":"+day)
	return nil
}

func newFixture() (*Service, *mockAppts, *mockPatients, *mockSender) {
	appts := &mockAppts{appts: make(map[uuid.UUID]*appointment.Appointment)}
	patients := &mockPatients{patients: make(map[uuid.UUID]*patient.Patient)}
	sender := &mockSender{}
	svc := NewService(appts, patients, sender, &mockDeduper{seen: map[string]bool{}}, zerolog.Nop())
	return svc, appts, patients, sender
}

func seedAppt(appts *mockAppts, patients *mockPatients, phone *string) *appointment.Appointment {
	p := &patient.Patient{ID: uuid.New(), Nombre: "Ana", PrimerApellido: "García", Phone: phone}
	patients.patients[p.ID] = p
	a := &appointment.Appointment{
		ID:         uuid.New(),
		PacienteID: &p.ID,
		Fecha:      "2026-09-16",
		Comenzar:   "10:00",
		Finalizar:  "11:00",
	}
	appts.appts[a.ID] = a
	return a
}

func TestSendByIDs(t *testing.T) {
	svc, appts, patients, sender := newFixture()

	phone := "+34600111222"
	withPhone := seedAppt(appts, patients, &phone)
	noPhone := seedAppt(appts, patients, nil)
	missing := uuid.New()

	results, err := svc.SendByIDs(context.Background(), []uuid.UUID{withPhone.ID, noPhone.ID, missing})
	if err != nil {
		t.Fatalf("SendByIDs() error: %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}

	byID := map[uuid.UUID]Result{}
	for _, r := range results {
		byID[r.CitaID] = r
	}
	if byID[withPhone.ID].Status != StatusSent {
		t.Errorf("with phone: %+v", byID[withPhone.ID])
	}
	if byID[noPhone.ID].Status != StatusSkipped {
		t.Errorf("no phone: %+v", byID[noPhone.ID])
	}
	if byID[missing].Status != StatusFailed {
		t.Errorf("missing: %+v", byID[missing])
	}

	if len(sender.sent) != 1 {
		t.Fatalf("expected 1 delivery, got %d", len(sender.sent))
	}
}

func TestSendByIDs_MessageContents(t *testing.T) {
	svc, appts, patients, sender := newFixture()

	phone := "+34600111222"
	a := seedAppt(appts, patients, &phone)

	if _, err := svc.SendByIDs(context.Background(), []uuid.UUID{a.ID}); err != nil {
		t.Fatalf("SendByIDs() error: %v", err)
	}
	msg := sender.sent[0]
	for _, want := range []string{"+34600111222", "Ana", "2026-09-16", "10:00"} {
		if !strings.Contains(msg, want) {
			t.Errorf("message %q missing %q", msg, want)
		}
	}
}

func TestSendByIDs_DedupesSameDay(t *testing.T) {
	svc, appts, patients, sender := newFixture()

	phone := "+34600111222"
	a := seedAppt(appts, patients, &phone)

	svc.SendByIDs(context.Background(), []uuid.UUID{a.ID})
	results, err := svc.SendByIDs(context.Background(), []uuid.UUID{a.ID})
	if err != nil {
		t.Fatalf("SendByIDs() error: %v", err)
	}
	if results[0].Status != StatusSkipped {
		t.Errorf("second send = %+v, want skipped", results[0])
	}
	if len(sender.sent) != 1 {
		t.Errorf("expected 1 delivery total, got %d", len(sender.sent))
	}
}

func TestSendByIDs_DeliveryFailure(t *testing.T) {
	svc, appts, patients, sender := newFixture()
	sender.fail = true

	phone := "+34600111222"
	a := seedAppt(appts, patients, &phone)

	results, err := svc.SendByIDs(context.Background(), []uuid.UUID{a.ID})
	if err != nil {
		t.Fatalf("SendByIDs() error: %v", err)
	}
	if results[0].Status != StatusFailed {
		t.Errorf("result = %+v, want failed", results[0])
	}

	// The failed attempt must not burn the daily claim.
	sender.fail = false
	retry, err := svc.SendByIDs(context.Background(), []uuid.UUID{a.ID})
	if err != nil {
		t.Fatalf("SendByIDs() retry error: %v", err)
	}
	if retry[0].Status != StatusSent {
		t.Errorf("retry = %+v, want sent", retry[0])
	}
}
