package patient

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

const patientCols = `id, nombre, primer_apellido, segundo_apellido, email, phone,
	fecha_nacimiento, dni, address, city, code_postal, country,
	alergias, patologias, notas, created_at, updated_at`

func (r *repoPG) Create(ctx context.Context, p *Patient) error {
	p.ID = uuid.New()
	birth, err := time.Parse(calendar.DateLayout, p.FechaNacimiento)
	if err != nil {
		return fmt.Errorf("parse fecha_nacimiento: %w", err)
	}
	patologias, err := json.Marshal(p.Patologias)
	if err != nil {
		return fmt.Errorf("encode patologias: %w", err)
	}
	_, err = r.conn(ctx).Exec(ctx, `
		INSERT INTO patients (
			id, nombre, primer_apellido, segundo_apellido, email, phone,
			fecha_nacimiento, dni, address, city, code_postal, country,
			alergias, patologias, notas
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15)`,
		p.ID, p.Nombre, p.PrimerApellido, p.SegundoApellido, p.Email, p.Phone,
		birth, p.DNI, p.Address, p.City, p.CodePostal, p.Country,
		p.Alergias, patologias, p.Notas,
	)
	return err
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Patient, error) {
	return scanPatient(r.conn(ctx).QueryRow(ctx, `SELECT `+patientCols+` FROM patients WHERE id = $1`, id))
}

func (r *repoPG) GetByEmail(ctx context.Context, email string) (*Patient, error) {
	return scanPatient(r.conn(ctx).QueryRow(ctx, `SELECT `+patientCols+` FROM patients WHERE email = $1`, email))
}

func (r *repoPG) Update(ctx context.Context, p *Patient) error {
	birth, err := time.Parse(calendar.DateLayout, p.FechaNacimiento)
	if err != nil {
		return fmt.Errorf("parse fecha_nacimiento: %w", err)
	}
	patologias, err := json.Marshal(p.Patologias)
	if err != nil {
		return fmt.Errorf("encode patologias: %w", err)
	}
	tag, err := r.conn(ctx).Exec(ctx, `
		UPDATE patients SET
			nombre=$2, primer_apellido=$3, segundo_apellido=$4, email=$5, phone=$6,
			fecha_nacimiento=$7, dni=$8, address=$9, city=$10, code_postal=$11,
			country=$12, alergias=$13, patologias=$14, notas=$15, updated_at=NOW()
		WHERE id = $1`,
		p.ID, p.Nombre, p.PrimerApellido, p.SegundoApellido, p.Email, p.Phone,
		birth, p.DNI, p.Address, p.City, p.CodePostal,
		p.Country, p.Alergias, patologias, p.Notas,
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
	tag, err := r.conn(ctx).Exec(ctx, `DELETE FROM patients WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repoPG) List(ctx context.Context, limit, offset int) ([]*Patient, int, error) {
	var total int
	if err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM patients`).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.conn(ctx).Query(ctx,
		`SELECT `+patientCols+` FROM patients ORDER BY created_at DESC LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	return collectPatients(rows, total)
}

func (r *repoPG) Search(ctx context.Context, query string, limit, offset int) ([]*Patient, int, error) {
	pattern := "%" + query + "%"
	where := `WHERE nombre ILIKE $1 OR primer_apellido ILIKE $1 OR segundo_apellido ILIKE $1
		OR dni ILIKE $1 OR email ILIKE $1`

	var total int
	if err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM patients `+where, pattern).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.conn(ctx).Query(ctx,
		`SELECT `+patientCols+` FROM patients `+where+` ORDER BY created_at DESC LIMIT $2 OFFSET $3`,
		pattern, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	return collectPatients(rows, total)
}

func scanPatient(row pgx.Row) (*Patient, error) {
	var p Patient
	var birth time.Time
	var patologias []byte
	err := row.Scan(
		&p.ID, &p.Nombre, &p.PrimerApellido, &p.SegundoApellido, &p.Email, &p.Phone,
		&birth, &p.DNI, &p.Address, &p.City, &p.CodePostal, &p.Country,
		&p.Alergias, &patologias, &p.Notas, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	p.FechaNacimiento = calendar.DateKey(birth)
	if len(patologias) > 0 {
		if err := json.Unmarshal(patologias, &p.Patologias); err != nil {
			return nil, fmt.Errorf("decode patologias: %w", err)
		}
	}
	if p.Patologias == nil {
		p.Patologias = []string{}
	}
	return &p, nil
}

func collectPatients(rows pgx.Rows, total int) ([]*Patient, int, error) {
	var patients []*Patient
	for rows.Next() {
		p, err := scanPatient(rows)
		if err != nil {
			return nil, 0, err
		}
		patients = append(patients, p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return patients, total, nil
}
