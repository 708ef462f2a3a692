package ehr

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/medcare/medcare/internal/platform/apperr"
	"github.com/medcare/medcare/internal/platform/db"
	"github.com/medcare/medcare/internal/platform/interchange"
	"github.com/medcare/medcare/pkg/pagination"
)

type repoPG struct{ pool *pgxpool.Pool }

func NewRepoPG(pool *pgxpool.Pool) Repository {
	return &repoPG{pool: pool}
}

const recordCols = `id, patient_id, date, type, title, description,
	doctor_id, doctor_name, attachments, created_at`

func scanRecord(row pgx.Row) (*Record, error) {
	var r Record
	var date time.Time
	var typ string
	err := row.Scan(&r.ID, &r.PatientID, &date, &typ, &r.Title, &r.Description,
		&r.DoctorID, &r.DoctorName, &r.Attachments, &r.CreatedAt)
	if err != nil {
		return nil, err
	}
	r.Date = interchange.DateOf(date)
	r.Type = Type(typ)
	return &r, nil
}

func writeErr(r *Record, op string, err error) error {
	if db.IsForeignKeyViolation(err) {
		return apperr.Invalidf("Patient %d does not exist", r.PatientID)
	}
	return fmt.Errorf("%s ehr record: %w", op, err)
}

func (p *repoPG) Create(ctx context.Context, r *Record) error {
	err := db.Conn(ctx, p.pool).QueryRow(ctx, `
		INSERT INTO ehr_records (patient_id, date, type, title, description,
			doctor_id, doctor_name, attachments)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
		RETURNING id, created_at`,
		r.PatientID, db.Date(r.Date), string(r.Type), r.Title, r.Description,
		r.DoctorID, r.DoctorName, db.TextArray(r.Attachments),
	).Scan(&r.ID, &r.CreatedAt)
	if err != nil {
		return writeErr(r, "insert", err)
	}
	return nil
}

func (p *repoPG) GetByID(ctx context.Context, id int64) (*Record, error) {
	r, err := scanRecord(db.Conn(ctx, p.pool).QueryRow(ctx, `SELECT `+recordCols+` FROM ehr_records WHERE id = $1`, id))
	if db.IsNoRows(err) {
		return nil, ErrNotFound
	}
	return r, err
}

func (p *repoPG) Update(ctx context.Context, r *Record) error {
	err := db.Conn(ctx, p.pool).QueryRow(ctx, `
		UPDATE ehr_records SET patient_id=$2, date=$3, type=$4, title=$5, description=$6,
			doctor_id=$7, doctor_name=$8, attachments=$9
		WHERE id = $1
		RETURNING created_at`,
		r.ID, r.PatientID, db.Date(r.Date), string(r.Type), r.Title, r.Description,
		r.DoctorID, r.DoctorName, db.TextArray(r.Attachments),
	).Scan(&r.CreatedAt)
	if db.IsNoRows(err) {
		return ErrNotFound
	}
	if err != nil {
		return writeErr(r, "update", err)
	}
	return nil
}

func (p *repoPG) Delete(ctx context.Context, id int64) error {
	tag, err := db.Conn(ctx, p.pool).Exec(ctx, `DELETE FROM ehr_records WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete ehr record %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (p *repoPG) List(ctx context.Context, pg pagination.Params) ([]*Record, error) {
	return p.query(ctx, `SELECT `+recordCols+` FROM ehr_records ORDER BY date DESC, id`+pg.SQL())
}

func (p *repoPG) ListByPatient(ctx context.Context, patientID int64, pg pagination.Params) ([]*Record, error) {
	return p.query(ctx, `SELECT `+recordCols+` FROM ehr_records WHERE patient_id = $1 ORDER BY date DESC, id`+pg.SQL(), patientID)
}

func (p *repoPG) query(ctx context.Context, sql string, args ...any) ([]*Record, error) {
	rows, err := db.Conn(ctx, p.pool).Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []*Record
	for rows.Next() {
		r, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, r)
	}
	return items, rows.Err()
}
