package note

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

var ErrNotFound = errors.New("note not found")

type Repository interface {
	Create(ctx context.Context, n *Note) error
	GetByID(ctx context.Context, id uuid.UUID) (*Note, error)
	Update(ctx context.Context, n *Note) error
	Delete(ctx context.Context, id uuid.UUID) error

	// List orders important notes first, then newest first.
	List(ctx context.Context, limit, offset int) ([]*Note, int, error)

	// DueOn returns notes whose reminder date is the given YYYY-MM-DD day.
	DueOn(ctx context.Context, date string) ([]*Note, error)
}
