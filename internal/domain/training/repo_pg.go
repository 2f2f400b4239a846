package training

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/clinicops/clinic-server/internal/platform/calendar"
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

const trainingCols = `id, titulo, profesional, lugar, tematica, fecha, hora, created_at, updated_at`

func (r *repoPG) Create(ctx context.Context, t *Training) error {
	t.ID = uuid.New()
	fecha, err := calendar.ParseDate(t.Fecha)
	if err != nil {
		return fmt.Errorf("parse fecha: %w", err)
	}
	_, err = r.conn(ctx).Exec(ctx, `
		INSERT INTO trainings (id, titulo, profesional, lugar, tematica, fecha, hora)
		VALUES ($1,$2,$3,$4,$5,$6,$7)`,
		t.ID, t.Titulo, t.Profesional, t.Lugar, t.Tematica, fecha, t.Hora)
	return err
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Training, error) {
	return scanTraining(r.conn(ctx).QueryRow(ctx,
		`SELECT `+trainingCols+` FROM trainings WHERE id = $1`, id))
}

func (r *repoPG) Update(ctx context.Context, t *Training) error {
	fecha, err := calendar.ParseDate(t.Fecha)
	if err != nil {
		return fmt.Errorf("parse fecha: %w", err)
	}
	tag, err := r.conn(ctx).Exec(ctx, `
		UPDATE trainings SET titulo=$2, profesional=$3, lugar=$4, tematica=$5,
			fecha=$6, hora=$7, updated_at=NOW()
		WHERE id = $1`,
		t.ID, t.Titulo, t.Profesional, t.Lugar, t.Tematica, fecha, t.Hora)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repoPG) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.conn(ctx).Exec(ctx, `DELETE FROM trainings WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repoPG) List(ctx context.Context, limit, offset int) ([]*Training, int, error) {
	var total int
	if err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM trainings`).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.conn(ctx).Query(ctx,
		`SELECT `+trainingCols+` FROM trainings ORDER BY fecha DESC, hora DESC LIMIT $1 OFFSET $2`,
		limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var trainings []*Training
	for rows.Next() {
		t, err := scanTraining(rows)
		if err != nil {
			return nil, 0, err
		}
		trainings = append(trainings, t)
	}
	return trainings, total, rows.Err()
}

func scanTraining(row pgx.Row) (*Training, error) {
	var t Training
	var fecha time.Time
	err := row.Scan(&t.ID, &t.Titulo, &t.Profesional, &t.Lugar, &t.Tematica,
		&fecha, &t.Hora, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	t.Fecha = calendar.DateKey(fecha)
	return &t, nil
}
