package worker

import (
	"context"
	"errors"

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

const workerCols = `id, first_name, last_name, branch, dni, phone, address,
	postal_code, country, is_active, created_at, updated_at`

func (r *repoPG) Create(ctx context.Context, w *Worker) error {
	w.ID = uuid.New()
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO workers (
			id, first_name, last_name, branch, dni, phone, address,
			postal_code, country, is_active
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)`,
		w.ID, w.FirstName, w.LastName, w.Branch, w.DNI, w.Phone, w.Address,
		w.PostalCode, w.Country, w.IsActive,
	)
	return err
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Worker, error) {
	return scanWorker(r.conn(ctx).QueryRow(ctx, `SELECT `+workerCols+` FROM workers WHERE id = $1`, id))
}

func (r *repoPG) Update(ctx context.Context, w *Worker) error {
	tag, err := r.conn(ctx).Exec(ctx, `
		UPDATE workers SET
			first_name=$2, last_name=$3, branch=$4, dni=$5, phone=$6,
			address=$7, postal_code=$8, country=$9, is_active=$10, updated_at=NOW()
		WHERE id = $1`,
		w.ID, w.FirstName, w.LastName, w.Branch, w.DNI, w.Phone,
		w.Address, w.PostalCode, w.Country, w.IsActive,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repoPG) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.conn(ctx).Exec(ctx, `DELETE FROM workers WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repoPG) List(ctx context.Context, onlyActive bool, limit, offset int) ([]*Worker, int, error) {
	where := ""
	if onlyActive {
		where = "WHERE is_active"
	}
	var total int
	if err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM workers `+where).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.conn(ctx).Query(ctx,
		`SELECT `+workerCols+` FROM workers `+where+` ORDER BY last_name, first_name LIMIT $1 OFFSET $2`,
		limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	return collectWorkers(rows, total)
}

func (r *repoPG) ListByBranch(ctx context.Context, branch string, limit, offset int) ([]*Worker, int, error) {
	var total int
	if err := r.conn(ctx).QueryRow(ctx,
		`SELECT COUNT(*) FROM workers WHERE branch = $1 AND is_active`, branch).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.conn(ctx).Query(ctx,
		`SELECT `+workerCols+` FROM workers WHERE branch = $1 AND is_active
		 ORDER BY last_name, first_name LIMIT $2 OFFSET $3`,
		branch, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	return collectWorkers(rows, total)
}

func scanWorker(row pgx.Row) (*Worker, error) {
	var w Worker
	err := row.Scan(
		&w.ID, &w.FirstName, &w.LastName, &w.Branch, &w.DNI, &w.Phone, &w.Address,
		&w.PostalCode, &w.Country, &w.IsActive, &w.CreatedAt, &w.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &w, nil
}

func collectWorkers(rows pgx.Rows, total int) ([]*Worker, int, error) {
	var workers []*Worker
	for rows.Next() {
		w, err := scanWorker(rows)
		if err != nil {
			return nil, 0, err
		}
		workers = append(workers, w)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return workers, total, nil
}
