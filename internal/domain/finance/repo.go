package finance

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

var ErrNotFound = errors.New("transaction not found")

type Repository interface {
	Create(ctx context.Context, t *Transaction) error

	// ListByTipos returns transactions of any listed tipo with fecha >=
	// since (zero time means no lower bound), newest first.
	ListByTipos(ctx context.Context, tipos []string, since time.Time, limit, offset int) ([]*Transaction, int, error)

	// SumByTipo totals monto for one tipo with fecha >= since.
	SumByTipo(ctx context.Context, tipo string, since time.Time) (float64, error)

	// HasCitaTransaction reports whether the appointment's income was
	// already recorded.
	HasCitaTransaction(ctx context.Context, citaID uuid.UUID) (bool, error)

	// RegisteredCitas lists appointment IDs with recorded income.
	RegisteredCitas(ctx context.Context) ([]uuid.UUID, error)

	GetConfig(ctx context.Context) (*Config, error)
	SetConfig(ctx context.Context, cfg *Config) error
}
