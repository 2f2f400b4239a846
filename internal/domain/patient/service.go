package patient

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

func (s *Service) validate(p *Patient) error {
	if strings.TrimSpace(p.Nombre) == "" {
		return fmt.Errorf("nombre is required")
	}
	if strings.TrimSpace(p.PrimerApellido) == "" {
		return fmt.Errorf("primer_apellido is required")
	}
	if p.Email == "" || !strings.Contains(p.Email, "@") {
		return fmt.Errorf("a valid email is required")
	}
	if p.DNI == "" {
		return fmt.Errorf("dni is required")
	}
	if _, err := calendar.ParseDate(p.FechaNacimiento); err != nil {
		return fmt.Errorf("fecha_nacimiento must be YYYY-MM-DD: %w", err)
	}
	if p.Patologias == nil {
		p.Patologias = []string{}
	}
	return nil
}

func (s *Service) CreatePatient(ctx context.Context, p *Patient) error {
	if err := s.validate(p); err != nil {
		return err
	}
	if existing, err := s.repo.GetByEmail(ctx, p.Email); err == nil && existing != nil {
		return fmt.Errorf("a patient with email %s already exists", p.Email)
	}
	return s.repo.Create(ctx, p)
}

func (s *Service) GetPatient(ctx context.Context, id uuid.UUID) (*Patient, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) UpdatePatient(ctx context.Context, p *Patient) error {
	if err := s.validate(p); err != nil {
		return err
	}
	if existing, err := s.repo.GetByEmail(ctx, p.Email); err == nil && existing != nil && existing.ID != p.ID {
		return fmt.Errorf("a patient with email %s already exists", p.Email)
	}
	return s.repo.Update(ctx, p)
}

func (s *Service) DeletePatient(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

func (s *Service) ListPatients(ctx context.Context, limit, offset int) ([]*Patient, int, error) {
	return s.repo.List(ctx, limit, offset)
}

// SearchPatients matches the query against name parts, DNI and email.
func (s *Service) SearchPatients(ctx context.Context, query string, limit, offset int) ([]*Patient, int, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return s.repo.List(ctx, limit, offset)
	}
	return s.repo.Search(ctx, query, limit, offset)
}
