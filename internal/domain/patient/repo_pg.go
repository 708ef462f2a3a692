package patient

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/medcare/medcare/internal/platform/db"
	"github.com/medcare/medcare/internal/platform/interchange"
	"github.com/medcare/medcare/pkg/pagination"
)

type repoPG struct{ pool *pgxpool.Pool }

func NewRepoPG(pool *pgxpool.Pool) Repository {
	return &repoPG{pool: pool}
}

const patientCols = `id, name, email, phone, date_of_birth, gender,
	address, emergency_contact, blood_type, allergies, medications, created_at`

func scanPatient(row pgx.Row) (*Patient, error) {
	var p Patient
	var dob time.Time
	var gender string
	err := row.Scan(&p.ID, &p.Name, &p.Email, &p.Phone, &dob, &gender,
		&p.Address, &p.EmergencyContact, &p.BloodType, &p.Allergies, &p.Medications, &p.CreatedAt)
	if err != nil {
		return nil, err
	}
	p.DateOfBirth = interchange.DateOf(dob)
	p.Gender = Gender(gender)
	return &p, nil
}

func (r *repoPG) Create(ctx context.Context, p *Patient) error {
	err := db.Conn(ctx, r.pool).QueryRow(ctx, `
		INSERT INTO patients (name, email, phone, date_of_birth, gender,
			address, emergency_contact, blood_type, allergies, medications)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
		RETURNING id, created_at`,
		p.Name, p.Email, p.Phone, db.Date(p.DateOfBirth), string(p.Gender),
		p.Address, p.EmergencyContact, p.BloodType, db.TextArray(p.Allergies), db.TextArray(p.Medications),
	).Scan(&p.ID, &p.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert patient: %w", err)
	}
	return nil
}

func (r *repoPG) GetByID(ctx context.Context, id int64) (*Patient, error) {
	p, err := scanPatient(db.Conn(ctx, r.pool).QueryRow(ctx, `SELECT `+patientCols+` FROM patients WHERE id = $1`, id))
	if db.IsNoRows(err) {
		return nil, ErrNotFound
	}
	return p, err
}

func (r *repoPG) Update(ctx context.Context, p *Patient) error {
	err := db.Conn(ctx, r.pool).QueryRow(ctx, `
		UPDATE patients SET name=$2, email=$3, phone=$4, date_of_birth=$5, gender=$6,
			address=$7, emergency_contact=$8, blood_type=$9, allergies=$10, medications=$11
		WHERE id = $1
		RETURNING created_at`,
		p.ID, p.Name, p.Email, p.Phone, db.Date(p.DateOfBirth), string(p.Gender),
		p.Address, p.EmergencyContact, p.BloodType, db.TextArray(p.Allergies), db.TextArray(p.Medications),
	).Scan(&p.CreatedAt)
	if db.IsNoRows(err) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("update patient %d: %w", p.ID, err)
	}
	return nil
}

func (r *repoPG) Delete(ctx context.Context, id int64) error {
	tag, err := db.Conn(ctx, r.pool).Exec(ctx, `DELETE FROM patients WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete patient %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repoPG) List(ctx context.Context, pg pagination.Params) ([]*Patient, error) {
	return r.query(ctx, `SELECT `+patientCols+` FROM patients ORDER BY id`+pg.SQL())
}

func (r *repoPG) SearchByName(ctx context.Context, name string, pg pagination.Params) ([]*Patient, error) {
	return r.query(ctx, `SELECT `+patientCols+` FROM patients
		WHERE LOWER(name) LIKE '%' || LOWER($1) || '%' ORDER BY name, id`+pg.SQL(), name)
}

func (r *repoPG) query(ctx context.Context, sql string, args ...any) ([]*Patient, error) {
	rows, err := db.Conn(ctx, r.pool).Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []*Patient
	for rows.Next() {
		p, err := scanPatient(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, p)
	}
	return items, rows.Err()
}
