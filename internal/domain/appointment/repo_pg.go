package appointment

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

// Columns are selected with a left join on patients so listings carry the
// display name without a second query.
const apptCols = `a.id, a.paciente_id, a.worker_id, a.fecha, a.comenzar, a.finalizar,
	a.descripcion, a.precio, a.cotizada, a.irpf, a.metodo_pago, a.pagado,
	a.created_at, a.updated_at,
	COALESCE(p.nombre || ' ' || p.primer_apellido, '') AS paciente`

const apptFrom = `FROM appointments a LEFT JOIN patients p ON p.id = a.paciente_id`

func (r *repoPG) Create(ctx context.Context, a *Appointment) error {
	a.ID = uuid.New()
	fecha, err := calendar.ParseDate(a.Fecha)
	if err != nil {
		return fmt.Errorf("parse fecha: %w", err)
	}
	_, err = r.conn(ctx).Exec(ctx, `
		INSERT INTO appointments (
			id, paciente_id, worker_id, fecha, comenzar, finalizar,
			descripcion, precio, cotizada, irpf, metodo_pago, pagado
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)`,
		a.ID, a.PacienteID, a.WorkerID, fecha, a.Comenzar, a.Finalizar,
		a.Descripcion, a.Precio, a.Cotizada, a.IRPF, a.MetodoPago, a.Pagado,
	)
	return err
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Appointment, error) {
	return scanAppt(r.conn(ctx).QueryRow(ctx,
		`SELECT `+apptCols+` `+apptFrom+` WHERE a.id = $1`, id))
}

func (r *repoPG) Update(ctx context.Context, a *Appointment) error {
	fecha, err := calendar.ParseDate(a.Fecha)
	if err != nil {
		return fmt.Errorf("parse fecha: %w", err)
	}
	tag, err := r.conn(ctx).Exec(ctx, `
		UPDATE appointments SET
			paciente_id=$2, worker_id=$3, fecha=$4, comenzar=$5, finalizar=$6,
			descripcion=$7, precio=$8, cotizada=$9, irpf=$10, metodo_pago=$11,
			pagado=$12, updated_at=NOW()
		WHERE id = $1`,
		a.ID, a.PacienteID, a.WorkerID, fecha, a.Comenzar, a.Finalizar,
		a.Descripcion, a.Precio, a.Cotizada, a.IRPF, a.MetodoPago, a.Pagado,
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
	tag, err := r.conn(ctx).Exec(ctx, `DELETE FROM appointments WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repoPG) ListRange(ctx context.Context, from, to string, workerID *uuid.UUID) ([]*Appointment, error) {
	fromDate, err := calendar.ParseDate(from)
	if err != nil {
		return nil, fmt.Errorf("parse from: %w", err)
	}
	toDate, err := calendar.ParseDate(to)
	if err != nil {
		return nil, fmt.Errorf("parse to: %w", err)
	}

	query := `SELECT ` + apptCols + ` ` + apptFrom + ` WHERE a.fecha BETWEEN $1 AND $2`
	args := []interface{}{fromDate, toDate}
	if workerID != nil {
		query += ` AND a.worker_id = $3`
		args = append(args, *workerID)
	}
	query += ` ORDER BY a.fecha, a.comenzar`

	rows, err := r.conn(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectAppts(rows)
}

func (r *repoPG) ListByPatient(ctx context.Context, pacienteID uuid.UUID, limit, offset int) ([]*Appointment, int, error) {
	var total int
	if err := r.conn(ctx).QueryRow(ctx,
		`SELECT COUNT(*) FROM appointments WHERE paciente_id = $1`, pacienteID).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.conn(ctx).Query(ctx,
		`SELECT `+apptCols+` `+apptFrom+` WHERE a.paciente_id = $1
		 ORDER BY a.fecha DESC, a.comenzar DESC LIMIT $2 OFFSET $3`,
		pacienteID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	appts, err := collectAppts(rows)
	return appts, total, err
}

func (r *repoPG) ListByIDs(ctx context.Context, ids []uuid.UUID) ([]*Appointment, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	rows, err := r.conn(ctx).Query(ctx,
		`SELECT `+apptCols+` `+apptFrom+` WHERE a.id = ANY($1) ORDER BY a.fecha, a.comenzar`, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectAppts(rows)
}

func (r *repoPG) GetPriceConfig(ctx context.Context) (*PriceConfig, error) {
	var cfg PriceConfig
	err := r.conn(ctx).QueryRow(ctx,
		`SELECT precio_global, updated_at FROM appointment_price_config LIMIT 1`).
		Scan(&cfg.PrecioGlobal, &cfg.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &cfg, nil
}

func (r *repoPG) SetPriceConfig(ctx context.Context, precio float64) error {
	// Single-row table keyed on TRUE so the upsert stays one statement.
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO appointment_price_config (only_row, precio_global)
		VALUES (TRUE, $1)
		ON CONFLICT (only_row) DO UPDATE SET precio_global = $1, updated_at = NOW()`,
		precio)
	return err
}

func scanAppt(row pgx.Row) (*Appointment, error) {
	var a Appointment
	var fecha time.Time
	err := row.Scan(
		&a.ID, &a.PacienteID, &a.WorkerID, &fecha, &a.Comenzar, &a.Finalizar,
		&a.Descripcion, &a.Precio, &a.Cotizada, &a.IRPF, &a.MetodoPago, &a.Pagado,
		&a.CreatedAt, &a.UpdatedAt, &a.PacienteNombre,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	a.Fecha = calendar.DateKey(fecha)
	return &a, nil
}

func collectAppts(rows pgx.Rows) ([]*Appointment, error) {
	var appts []*Appointment
	for rows.Next() {
		a, err := scanAppt(rows)
		if err != nil {
			return nil, err
		}
		appts = append(appts, a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return appts, nil
}
