package appointment

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

// ErrNotFound is returned when no appointment matches the lookup.
var ErrNotFound = errors.New("appointment not found")

type Repository interface {
	Create(ctx context.Context, a *Appointment) error
	GetByID(ctx context.Context, id uuid.UUID) (*Appointment, error)
	Update(ctx context.Context, a *Appointment) error
	Delete(ctx context.Context, id uuid.UUID) error

	// ListRange returns every appointment with from <= fecha <= to
	// (YYYY-MM-DD, inclusive), optionally restricted to one worker.
	// The agenda grid and the overlap check both build on it.
	ListRange(ctx context.Context, from, to string, workerID *uuid.UUID) ([]*Appointment, error)

	ListByPatient(ctx context.Context, pacienteID uuid.UUID, limit, offset int) ([]*Appointment, int, error)
	ListByIDs(ctx context.Context, ids []uuid.UUID) ([]*Appointment, error)

	GetPriceConfig(ctx context.Context) (*PriceConfig, error)
	SetPriceConfig(ctx context.Context, precio float64) error
}
