package worker

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

var validBranches = map[string]bool{
	BranchFisioterapia: true,
	BranchPsicologia:   true,
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) validate(w *Worker) error {
	if strings.TrimSpace(w.FirstName) == "" {
		return fmt.Errorf("first_name is required")
	}
	if strings.TrimSpace(w.LastName) == "" {
		return fmt.Errorf("last_name is required")
	}
	if !validBranches[w.Branch] {
		return fmt.Errorf("branch must be %s or %s", BranchFisioterapia, BranchPsicologia)
	}
	return nil
}

func (s *Service) CreateWorker(ctx context.Context, w *Worker) error {
	if err := s.validate(w); err != nil {
		return err
	}
	w.IsActive = true
	return s.repo.Create(ctx, w)
}

func (s *Service) GetWorker(ctx context.Context, id uuid.UUID) (*Worker, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) UpdateWorker(ctx context.Context, w *Worker) error {
	if err := s.validate(w); err != nil {
		return err
	}
	return s.repo.Update(ctx, w)
}

// DeactivateWorker keeps the record (appointments reference it) but removes
// the worker from active listings.
func (s *Service) DeactivateWorker(ctx context.Context, id uuid.UUID) error {
	w, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	w.IsActive = false
	return s.repo.Update(ctx, w)
}

func (s *Service) DeleteWorker(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

func (s *Service) ListWorkers(ctx context.Context, onlyActive bool, limit, offset int) ([]*Worker, int, error) {
	return s.repo.List(ctx, onlyActive, limit, offset)
}

func (s *Service) ListWorkersByBranch(ctx context.Context, branch string, limit, offset int) ([]*Worker, int, error) {
	if !validBranches[branch] {
		return nil, 0, fmt.Errorf("invalid branch: %s", branch)
	}
	return s.repo.ListByBranch(ctx, branch, limit, offset)
}
