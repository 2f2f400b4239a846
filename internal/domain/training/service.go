package training

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/clinicops/clinic-server/internal/platform/calendar"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func validate(t *Training) error {
	if strings.TrimSpace(t.Titulo) == "" {
		return fmt.Errorf("titulo is required")
	}
	if strings.TrimSpace(t.Profesional) == "" {
		return fmt.Errorf("profesional is required")
	}
	if _, err := calendar.ParseDate(t.Fecha); err != nil {
		return fmt.Errorf("fecha must be YYYY-MM-DD: %w", err)
	}
	if t.Hora != "" {
		min, err := calendar.ClockMinutes(t.Hora)
		if err != nil {
			return err
		}
		t.Hora = calendar.FormatClock(min)
	}
	return nil
}

func (s *Service) CreateTraining(ctx context.Context, t *Training) error {
	if err := validate(t); err != nil {
		return err
	}
	return s.repo.Create(ctx, t)
}

func (s *Service) GetTraining(ctx context.Context, id uuid.UUID) (*Training, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) UpdateTraining(ctx context.Context, t *Training) error {
	if err := validate(t); err != nil {
		return err
	}
	return s.repo.Update(ctx, t)
}

func (s *Service) DeleteTraining(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

func (s *Service) ListTrainings(ctx context.Context, limit, offset int) ([]*Training, int, error) {
	return s.repo.List(ctx, limit, offset)
}
