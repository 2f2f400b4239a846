package billing

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

var ErrNotFound = errors.New("invoice not found")

type Repository interface {
	Create(ctx context.Context, inv *Invoice) error
	GetByID(ctx context.Context, id uuid.UUID) (*Invoice, error)
	GetByCita(ctx context.Context, citaID uuid.UUID) (*Invoice, error)
	Delete(ctx context.Context, id uuid.UUID) error

	// List filters by creation date (inclusive YYYY-MM-DD bounds, empty
	// strings skip the bound), ordered by descending series number.
	List(ctx context.Context, from, to string, limit, offset int) ([]*Invoice, int, error)
	ListByPatient(ctx context.Context, pacienteID uuid.UUID, limit, offset int) ([]*Invoice, int, error)

	// LastNumber returns the highest issued series number, 0 when none.
	LastNumber(ctx context.Context) (int, error)

	GetConfig(ctx context.Context) (*SeriesConfig, error)
	SetConfig(ctx context.Context, numeroInicial int) error
}
