package billing

import (
	"context"
	"errors"
	"fmt"

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

const invoiceCols = `i.id, i.cita_id, i.numero_factura, i.total, i.fecha_creacion, i.created_by,
	COALESCE(p.nombre || ' ' || p.primer_apellido, '') AS paciente`

const invoiceFrom = `FROM invoices i
	JOIN appointments a ON a.id = i.cita_id
	LEFT JOIN patients p ON p.id = a.paciente_id`

func (r *repoPG) Create(ctx context.Context, inv *Invoice) error {
	inv.ID = uuid.New()
	return r.conn(ctx).QueryRow(ctx, `
		INSERT INTO invoices (id, cita_id, numero_factura, total, created_by)
		VALUES ($1,$2,$3,$4,$5)
		RETURNING fecha_creacion`,
		inv.ID, inv.CitaID, inv.NumeroFactura, inv.Total, inv.CreatedBy,
	).Scan(&inv.FechaCreacion)
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Invoice, error) {
	return scanInvoice(r.conn(ctx).QueryRow(ctx,
		`SELECT `+invoiceCols+` `+invoiceFrom+` WHERE i.id = $1`, id))
}

func (r *repoPG) GetByCita(ctx context.Context, citaID uuid.UUID) (*Invoice, error) {
	return scanInvoice(r.conn(ctx).QueryRow(ctx,
		`SELECT `+invoiceCols+` `+invoiceFrom+` WHERE i.cita_id = $1`, citaID))
}

func (r *repoPG) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.conn(ctx).Exec(ctx, `DELETE FROM invoices WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repoPG) List(ctx context.Context, from, to string, limit, offset int) ([]*Invoice, int, error) {
	where := ` WHERE TRUE`
	args := []interface{}{}
	if from != "" {
		d, err := calendar.ParseDate(from)
		if err != nil {
			return nil, 0, fmt.Errorf("parse from: %w", err)
		}
		args = append(args, d)
		where += fmt.Sprintf(` AND i.fecha_creacion::date >= $%d`, len(args))
	}
	if to != "" {
		d, err := calendar.ParseDate(to)
		if err != nil {
			return nil, 0, fmt.Errorf("parse to: %w", err)
		}
		args = append(args, d)
		where += fmt.Sprintf(` AND i.fecha_creacion::date <= $%d`, len(args))
	}

	var total int
	if err := r.conn(ctx).QueryRow(ctx,
		`SELECT COUNT(*) FROM invoices i`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	args = append(args, limit, offset)
	rows, err := r.conn(ctx).Query(ctx,
		`SELECT `+invoiceCols+` `+invoiceFrom+where+
			fmt.Sprintf(` ORDER BY i.numero_factura DESC LIMIT $%d OFFSET $%d`, len(args)-1, len(args)),
		args...)
	if err != nil {
		return nil, 0, err
	}
	invoices, err := collectInvoices(rows)
	return invoices, total, err
}

func (r *repoPG) ListByPatient(ctx context.Context, pacienteID uuid.UUID, limit, offset int) ([]*Invoice, int, error) {
	var total int
	if err := r.conn(ctx).QueryRow(ctx, `
		SELECT COUNT(*) FROM invoices i
		JOIN appointments a ON a.id = i.cita_id
		WHERE a.paciente_id = $1`, pacienteID).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.conn(ctx).Query(ctx,
		`SELECT `+invoiceCols+` `+invoiceFrom+` WHERE a.paciente_id = $1
		 ORDER BY i.fecha_creacion DESC LIMIT $2 OFFSET $3`,
		pacienteID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	invoices, err := collectInvoices(rows)
	return invoices, total, err
}

func (r *repoPG) LastNumber(ctx context.Context) (int, error) {
	var last int
	err := r.conn(ctx).QueryRow(ctx,
		`SELECT COALESCE(MAX(numero_factura), 0) FROM invoices`).Scan(&last)
	return last, err
}

func (r *repoPG) GetConfig(ctx context.Context) (*SeriesConfig, error) {
	var cfg SeriesConfig
	err := r.conn(ctx).QueryRow(ctx,
		`SELECT numero_inicial, updated_at FROM invoice_series_config LIMIT 1`).
		Scan(&cfg.NumeroInicial, &cfg.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &cfg, nil
}

func (r *repoPG) SetConfig(ctx context.Context, numeroInicial int) error {
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO invoice_series_config (only_row, numero_inicial)
		VALUES (TRUE, $1)
		ON CONFLICT (only_row) DO UPDATE SET numero_inicial = $1, updated_at = NOW()`,
		numeroInicial)
	return err
}

func scanInvoice(row pgx.Row) (*Invoice, error) {
	var inv Invoice
	err := row.Scan(&inv.ID, &inv.CitaID, &inv.NumeroFactura, &inv.Total,
		&inv.FechaCreacion, &inv.CreatedBy, &inv.PacienteNombre)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &inv, nil
}

func collectInvoices(rows pgx.Rows) ([]*Invoice, error) {
	defer rows.Close()
	var invoices []*Invoice
	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			return nil, err
		}
		invoices = append(invoices, inv)
	}
	return invoices, rows.Err()
}
