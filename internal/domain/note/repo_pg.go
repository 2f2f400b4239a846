package note

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

const noteCols = `id, titulo, contenido, reminder_date, color, is_important, created_at, updated_at`

func (r *repoPG) Create(ctx context.Context, n *Note) error {
	n.ID = uuid.New()
	reminder, err := nullableDate(n.ReminderDate)
	if err != nil {
		return err
	}
	_, err = r.conn(ctx).Exec(ctx, `
		INSERT INTO notes (id, titulo, contenido, reminder_date, color, is_important)
		VALUES ($1,$2,$3,$4,$5,$6)`,
		n.ID, n.Titulo, n.Contenido, reminder, n.Color, n.IsImportant)
	return err
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Note, error) {
	return scanNote(r.conn(ctx).QueryRow(ctx,
		`SELECT `+noteCols+` FROM notes WHERE id = $1`, id))
}

func (r *repoPG) Update(ctx context.Context, n *Note) error {
	reminder, err := nullableDate(n.ReminderDate)
	if err != nil {
		return err
	}
	tag, err := r.conn(ctx).Exec(ctx, `
		UPDATE notes SET titulo=$2, contenido=$3, reminder_date=$4, color=$5,
			is_important=$6, updated_at=NOW()
		WHERE id = $1`,
		n.ID, n.Titulo, n.Contenido, reminder, n.Color, n.IsImportant)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repoPG) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.conn(ctx).Exec(ctx, `DELETE FROM notes WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repoPG) List(ctx context.Context, limit, offset int) ([]*Note, int, error) {
	var total int
	if err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM notes`).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.conn(ctx).Query(ctx,
		`SELECT `+noteCols+` FROM notes
		 ORDER BY is_important DESC, created_at DESC LIMIT $1 OFFSET $2`,
		limit, offset)
	if err != nil {
		return nil, 0, err
	}
	notes, err := collectNotes(rows)
	return notes, total, err
}

func (r *repoPG) DueOn(ctx context.Context, date string) ([]*Note, error) {
	d, err := calendar.ParseDate(date)
	if err != nil {
		return nil, fmt.Errorf("parse date: %w", err)
	}
	rows, err := r.conn(ctx).Query(ctx,
		`SELECT `+noteCols+` FROM notes WHERE reminder_date = $1 ORDER BY created_at`, d)
	if err != nil {
		return nil, err
	}
	return collectNotes(rows)
}

func nullableDate(s *string) (*time.Time, error) {
	if s == nil || *s == "" {
		return nil, nil
	}
	t, err := calendar.ParseDate(*s)
	if err != nil {
		return nil, fmt.Errorf("parse reminder_date: %w", err)
	}
	return &t, nil
}

func scanNote(row pgx.Row) (*Note, error) {
	var n Note
	var reminder *time.Time
	err := row.Scan(&n.ID, &n.Titulo, &n.Contenido, &reminder, &n.Color,
		&n.IsImportant, &n.CreatedAt, &n.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if reminder != nil {
		key := calendar.DateKey(*reminder)
		n.ReminderDate = &key
	}
	return &n, nil
}

func collectNotes(rows pgx.Rows) ([]*Note, error) {
	defer rows.Close()
	var notes []*Note
	for rows.Next() {
		n, err := scanNote(rows)
		if err != nil {
			return nil, err
		}
		notes = append(notes, n)
	}
	return notes, rows.Err()
}
