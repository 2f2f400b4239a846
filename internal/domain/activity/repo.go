package activity

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

var ErrNotFound = errors.New("activity not found")

type Repository interface {
	Create(ctx context.Context, a *Activity) error
	GetByID(ctx context.Context, id uuid.UUID) (*Activity, error)
	Update(ctx context.Context, a *Activity) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, limit, offset int) ([]*Activity, int, error)
	ListAll(ctx context.Context) ([]*Activity, error)

	// Enrollment management for the pacientes many-to-many set.
	SetPacientes(ctx context.Context, activityID uuid.UUID, pacientes []uuid.UUID) error
}
