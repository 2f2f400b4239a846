package worker

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

// ErrNotFound is returned when no worker matches the lookup.
var ErrNotFound = errors.New("worker not found")

type Repository interface {
	Create(ctx context.Context, w *Worker) error
	GetByID(ctx context.Context, id uuid.UUID) (*Worker, error)
	Update(ctx context.Context, w *Worker) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, onlyActive bool, limit, offset int) ([]*Worker, int, error)
	ListByBranch(ctx context.Context, branch string, limit, offset int) ([]*Worker, int, error)
}
