package finance

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/clinicops/clinic-server/internal/platform/db"
)

type repoPG struct {
	pool *pgxpool.Pool
}

func NewRepo(pool *pgxpool.Pool) Repository {
	return &repoPG{pool: pool}
}

type querier interface {
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
}

func (r *repoPG) conn(ctx context.Context) querier {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	return r.pool
}

const txCols = `id, tipo, monto, descripcion, fecha, cita_id, actividad_id, url, cita_registrada, created_by`

func (r *repoPG) Create(ctx context.Context, t *Transaction) error {
	t.ID = uuid.New()
	return r.conn(ctx).QueryRow(ctx, `
		INSERT INTO transactions (id, tipo, monto, descripcion, cita_id, actividad_id, url, cita_registrada, created_by)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
		RETURNING fecha`,
		t.ID, t.Tipo, t.Monto, t.Descripcion, t.CitaID, t.ActividadID, t.URL, t.CitaRegistrada, t.CreatedBy,
	).Scan(&t.Fecha)
}

func (r *repoPG) ListByTipos(ctx context.Context, tipos []string, since time.Time, limit, offset int) ([]*Transaction, int, error) {
	where := ` WHERE tipo = ANY($1)`
	args := []interface{}{tipos}
	if !since.IsZero() {
		args = append(args, since)
		where += fmt.Sprintf(` AND fecha >= $%d`, len(args))
	}

	var total int
	if err := r.conn(ctx).QueryRow(ctx,
		`SELECT COUNT(*) FROM transactions`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	args = append(args, limit, offset)
	rows, err := r.conn(ctx).Query(ctx,
		`SELECT `+txCols+` FROM transactions`+where+
			fmt.Sprintf(` ORDER BY fecha DESC LIMIT $%d OFFSET $%d`, len(args)-1, len(args)),
		args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var txs []*Transaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, 0, err
		}
		txs = append(txs, t)
	}
	return txs, total, rows.Err()
}

func (r *repoPG) SumByTipo(ctx context.Context, tipo string, since time.Time) (float64, error) {
	query := `SELECT COALESCE(SUM(monto), 0) FROM transactions WHERE tipo = $1`
	args := []interface{}{tipo}
	if !since.IsZero() {
		query += ` AND fecha >= $2`
		args = append(args, since)
	}
	var sum float64
	err := r.conn(ctx).QueryRow(ctx, query, args...).Scan(&sum)
	return sum, err
}

func (r *repoPG) HasCitaTransaction(ctx context.Context, citaID uuid.UUID) (bool, error) {
	var exists bool
	err := r.conn(ctx).QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM transactions WHERE cita_id = $1 AND cita_registrada)`,
		citaID).Scan(&exists)
	return exists, err
}

func (r *repoPG) RegisteredCitas(ctx context.Context) ([]uuid.UUID, error) {
	rows, err := r.conn(ctx).Query(ctx,
		`SELECT cita_id FROM transactions WHERE cita_registrada AND cita_id IS NOT NULL`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ids := []uuid.UUID{}
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (r *repoPG) GetConfig(ctx context.Context) (*Config, error) {
	var cfg Config
	err := r.conn(ctx).QueryRow(ctx,
		`SELECT precio_cita_base, precio_actividad_base, updated_at FROM finance_config LIMIT 1`).
		Scan(&cfg.PrecioCitaBase, &cfg.PrecioActividadBase, &cfg.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &cfg, nil
}

func (r *repoPG) SetConfig(ctx context.Context, cfg *Config) error {
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO finance_config (only_row, precio_cita_base, precio_actividad_base)
		VALUES (TRUE, $1, $2)
		ON CONFLICT (only_row) DO UPDATE
			SET precio_cita_base = $1, precio_actividad_base = $2, updated_at = NOW()`,
		cfg.PrecioCitaBase, cfg.PrecioActividadBase)
	return err
}

func scanTransaction(row pgx.Row) (*Transaction, error) {
	var t Transaction
	err := row.Scan(&t.ID, &t.Tipo, &t.Monto, &t.Descripcion, &t.Fecha,
		&t.CitaID, &t.ActividadID, &t.URL, &t.CitaRegistrada, &t.CreatedBy)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &t, nil
}
