package activity

import (
	"context"
	"encoding/json"
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

const activityCols = `id, name, description, start_date, recurrence_days, start_time, end_time,
	monitor_id, precio, created_at, updated_at`

func (r *repoPG) Create(ctx context.Context, a *Activity) error {
	a.ID = uuid.New()
	startDate, err := nullableDate(a.StartDate)
	if err != nil {
		return err
	}
	days, err := json.Marshal(a.RecurrenceDays)
	if err != nil {
		return fmt.Errorf("marshal recurrence_days: %w", err)
	}
	_, err = r.conn(ctx).Exec(ctx, `
		INSERT INTO activities (id, name, description, start_date, recurrence_days,
			start_time, end_time, monitor_id, precio)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)`,
		a.ID, a.Name, a.Description, startDate, days,
		a.StartTime, a.EndTime, a.MonitorID, a.Precio)
	if err != nil {
		return err
	}
	return r.SetPacientes(ctx, a.ID, a.Pacientes)
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Activity, error) {
	a, err := scanActivity(r.conn(ctx).QueryRow(ctx,
		`SELECT `+activityCols+` FROM activities WHERE id = $1`, id))
	if err != nil {
		return nil, err
	}
	if err := r.loadPacientes(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

func (r *repoPG) Update(ctx context.Context, a *Activity) error {
	startDate, err := nullableDate(a.StartDate)
	if err != nil {
		return err
	}
	days, err := json.Marshal(a.RecurrenceDays)
	if err != nil {
		return fmt.Errorf("marshal recurrence_days: %w", err)
	}
	tag, err := r.conn(ctx).Exec(ctx, `
		UPDATE activities SET name=$2, description=$3, start_date=$4, recurrence_days=$5,
			start_time=$6, end_time=$7, monitor_id=$8, precio=$9, updated_at=NOW()
		WHERE id = $1`,
		a.ID, a.Name, a.Description, startDate, days,
		a.StartTime, a.EndTime, a.MonitorID, a.Precio)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return r.SetPacientes(ctx, a.ID, a.Pacientes)
}

func (r *repoPG) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.conn(ctx).Exec(ctx, `DELETE FROM activities WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repoPG) List(ctx context.Context, limit, offset int) ([]*Activity, int, error) {
	var total int
	if err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM activities`).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.conn(ctx).Query(ctx,
		`SELECT `+activityCols+` FROM activities ORDER BY name LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	activities, err := collectActivities(rows)
	if err != nil {
		return nil, 0, err
	}
	for _, a := range activities {
		if err := r.loadPacientes(ctx, a); err != nil {
			return nil, 0, err
		}
	}
	return activities, total, nil
}

func (r *repoPG) ListAll(ctx context.Context) ([]*Activity, error) {
	rows, err := r.conn(ctx).Query(ctx, `SELECT `+activityCols+` FROM activities ORDER BY name`)
	if err != nil {
		return nil, err
	}
	return collectActivities(rows)
}

func (r *repoPG) SetPacientes(ctx context.Context, activityID uuid.UUID, pacientes []uuid.UUID) error {
	q := r.conn(ctx)
	if _, err := q.Exec(ctx,
		`DELETE FROM activity_pacientes WHERE activity_id = $1`, activityID); err != nil {
		return err
	}
	for _, p := range pacientes {
		if _, err := q.Exec(ctx,
			`INSERT INTO activity_pacientes (activity_id, paciente_id) VALUES ($1, $2)`,
			activityID, p); err != nil {
			return err
		}
	}
	return nil
}

func (r *repoPG) loadPacientes(ctx context.Context, a *Activity) error {
	rows, err := r.conn(ctx).Query(ctx,
		`SELECT paciente_id FROM activity_pacientes WHERE activity_id = $1`, a.ID)
	if err != nil {
		return err
	}
	defer rows.Close()

	a.Pacientes = []uuid.UUID{}
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return err
		}
		a.Pacientes = append(a.Pacientes, id)
	}
	return rows.Err()
}

func nullableDate(s *string) (*time.Time, error) {
	if s == nil || *s == "" {
		return nil, nil
	}
	t, err := calendar.ParseDate(*s)
	if err != nil {
		return nil, fmt.Errorf("parse start_date: %w", err)
	}
	return &t, nil
}

func scanActivity(row pgx.Row) (*Activity, error) {
	var a Activity
	var startDate *time.Time
	var days []byte
	err := row.Scan(&a.ID, &a.Name, &a.Description, &startDate, &days,
		&a.StartTime, &a.EndTime, &a.MonitorID, &a.Precio, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if startDate != nil {
		key := calendar.DateKey(*startDate)
		a.StartDate = &key
	}
	if err := json.Unmarshal(days, &a.RecurrenceDays); err != nil {
		return nil, fmt.Errorf("unmarshal recurrence_days: %w", err)
	}
	if a.RecurrenceDays == nil {
		a.RecurrenceDays = []string{}
	}
	a.Pacientes = []uuid.UUID{}
	return &a, nil
}

func collectActivities(rows pgx.Rows) ([]*Activity, error) {
	defer rows.Close()
	var activities []*Activity
	for rows.Next() {
		a, err := scanActivity(rows)
		if err != nil {
			return nil, err
		}
		activities = append(activities, a)
	}
	return activities, rows.Err()
}
