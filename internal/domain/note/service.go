package note

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/google/uuid"

	"github.com/clinicops/clinic-server/internal/platform/calendar"
)

var colorRe = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func validate(n *Note) error {
	if strings.TrimSpace(n.Titulo) == "" {
		return fmt.Errorf("titulo is required")
	}
	if n.Color == "" {
		n.Color = DefaultColor
	}
	if !colorRe.MatchString(n.Color) {
		return fmt.Errorf("color must be a #RRGGBB value")
	}
	if n.ReminderDate != nil && *n.ReminderDate != "" {
		if _, err := calendar.ParseDate(*n.ReminderDate); err != nil {
			return fmt.Errorf("reminder_date must be YYYY-MM-DD: %w", err)
		}
	}
	return nil
}

func (s *Service) CreateNote(ctx context.Context, n *Note) error {
	if err := validate(n); err != nil {
		return err
	}
	return s.repo.Create(ctx, n)
}

func (s *Service) GetNote(ctx context.Context, id uuid.UUID) (*Note, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) UpdateNote(ctx context.Context, n *Note) error {
	if err := validate(n); err != nil {
		return err
	}
	return s.repo.Update(ctx, n)
}

func (s *Service) DeleteNote(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

func (s *Service) ListNotes(ctx context.Context, limit, offset int) ([]*Note, int, error) {
	return s.repo.List(ctx, limit, offset)
}

// NotesDueOn returns the notes whose reminder falls on the given day.
func (s *Service) NotesDueOn(ctx context.Context, date string) ([]*Note, error) {
	return s.repo.DueOn(ctx, date)
}
