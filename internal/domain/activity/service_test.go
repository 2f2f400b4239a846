package activity

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
)

type mockRepo struct {
	activities map[uuid.UUID]*Activity
}

func newMockRepo() *mockRepo {
	return &mockRepo{activities: make(map[uuid.UUID]*Activity)}
}

func (m *mockRepo) Create(_ context.Context, a *Activity) error {
	a.ID = uuid.New()
	a.CreatedAt = time.Now()
	a.UpdatedAt = time.Now()
	m.activities[a.ID] = a
	return nil
}

func (m *mockRepo) GetByID(_ context.Context, id uuid.UUID) (*Activity, error) {
	a, ok := m.activities[id]
	if !ok {
		return nil, ErrNotFound
	}
	return a, nil
}

func (m *mockRepo) Update(_ context.Context, a *Activity) error {
	if _, ok := m.activities[a.ID]; !ok {
		return ErrNotFound
	}
	m.activities[a.ID] = a
	return nil
}

func (m *mockRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := m.activities[id]; !ok {
		return ErrNotFound
	}
	delete(m.activities, id)
	return nil
}

func (m *mockRepo) List(_ context.Context, limit, offset int) ([]*Activity, int, error) {
	var result []*Activity
	for _, a := range m.activities {
		result = append(result, a)
	}
	return result, len(result), nil
}

func (m *mockRepo) ListAll(_ context.Context) ([]*Activity, error) {
	var result []*Activity
	for _, a := range m.activities {
		result = append(result, a)
	}
	return result, nil
}

func (m *mockRepo) SetPacientes(_ context.Context, _ uuid.UUID, _ []uuid.UUID) error {
	return nil
}

func validActivity() *Activity {
	return &Activity{
		Name:           "Pilates terapéutico",
		Description:    "Grupo reducido de espalda",
		RecurrenceDays: []string{"lunes", "miércoles"},
		StartTime:      "18:00",
		EndTime:        "19:00",
		Precio:         30,
	}
}

func TestCreateActivity_Validation(t *testing.T) {
	svc := NewService(newMockRepo())

	tests := []struct {
		name   string
		mutate func(*Activity)
	}{
		{"missing name", func(a *Activity) { a.Name = "" }},
		{"end before start", func(a *Activity) { a.StartTime = "19:00"; a.EndTime = "18:00" }},
		{"unknown day", func(a *Activity) { a.RecurrenceDays = []string{"funday"} }},
		{"negative price", func(a *Activity) { a.Precio = -1 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := validActivity()
			tt.mutate(a)
			if err := svc.CreateActivity(context.Background(), a); err == nil {
				t.Error("expected validation error")
			}
		})
	}

	a := validActivity()
	if err := svc.CreateActivity(context.Background(), a); err != nil {
		t.Fatalf("CreateActivity() error: %v", err)
	}
}

func TestOccurrences_WeeklyExpansion(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo)

	a := validActivity()
	if err := svc.CreateActivity(context.Background(), a); err != nil {
		t.Fatalf("create: %v", err)
	}

	// Mon 14 to Sun 27 Sep 2026: two Mondays, two Wednesdays.
	occ, err := svc.Occurrences(context.Background(), "2026-09-14", "2026-09-27")
	if err != nil {
		t.Fatalf("Occurrences() error: %v", err)
	}
	if len(occ) != 4 {
		t.Fatalf("expected 4 sessions over two weeks, got %d", len(occ))
	}

	dates := map[string]bool{}
	for _, o := range occ {
		dates[o.Fecha] = true
		if o.StartTime != "18:00" || o.EndTime != "19:00" {
			t.Errorf("session times = %s-%s", o.StartTime, o.EndTime)
		}
	}
	for _, want := range []string{"2026-09-14", "2026-09-16", "2026-09-21", "2026-09-23"} {
		if !dates[want] {
			t.Errorf("missing expected session on %s", want)
		}
	}
}

func TestOccurrences_RespectsStartDate(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo)

	start := "2026-09-21"
	a := validActivity()
	a.StartDate = &start
	if err := svc.CreateActivity(context.Background(), a); err != nil {
		t.Fatalf("create: %v", err)
	}

	occ, err := svc.Occurrences(context.Background(), "2026-09-14", "2026-09-27")
	if err != nil {
		t.Fatalf("Occurrences() error: %v", err)
	}
	for _, o := range occ {
		if o.Fecha < start {
			t.Errorf("session %s precedes the activity start date", o.Fecha)
		}
	}
	if len(occ) != 2 {
		t.Errorf("expected 2 sessions from the start date on, got %d", len(occ))
	}
}

func TestOccurrences_NoRecurrenceSingleDate(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo)

	start := "2026-09-16"
	a := validActivity()
	a.RecurrenceDays = nil
	a.StartDate = &start
	if err := svc.CreateActivity(context.Background(), a); err != nil {
		t.Fatalf("create: %v", err)
	}

	occ, err := svc.Occurrences(context.Background(), "2026-09-14", "2026-09-27")
	if err != nil {
		t.Fatalf("Occurrences() error: %v", err)
	}
	if len(occ) != 1 || occ[0].Fecha != start {
		t.Errorf("expected one session on %s, got %+v", start, occ)
	}
}
