package training

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

var ErrNotFound = errors.New("training not found")

type Repository interface {
	Create(ctx context.Context, t *Training) error
	GetByID(ctx context.Context, id uuid.UUID) (*Training, error)
	Update(ctx context.Context, t *Training) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, limit, offset int) ([]*Training, int, error)
}
