package appointment

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
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

const apptCols = `id, patient_id, patient_name, doctor_id, doctor_name,
	date, time, duration, type, status, notes, created_at`

func scanAppointment(row pgx.Row) (*Appointment, error) {
	var a Appointment
	var date time.Time
	var tod pgtype.Time
	var typ, status string
	err := row.Scan(&a.ID, &a.PatientID, &a.PatientName, &a.DoctorID, &a.DoctorName,
		&date, &tod, &a.Duration, &typ, &status, &a.Notes, &a.CreatedAt)
	if err != nil {
		return nil, err
	}
	a.Date = interchange.DateOf(date)
	a.Time = db.TimeOfDay(tod)
	a.Type = Type(typ)
	a.Status = Status(status)
	return &a, nil
}

// writeErr translates constraint failures on the patient reference.
func writeErr(a *Appointment, op string, err error) error {
	if db.IsForeignKeyViolation(err) {
		return apperr.Invalidf("Patient %d does not exist", a.PatientID)
	}
	return fmt.Errorf("%s appointment: %w", op, err)
}

func (r *repoPG) Create(ctx context.Context, a *Appointment) error {
	err := db.Conn(ctx, r.pool).QueryRow(ctx, `
		INSERT INTO appointments (patient_id, patient_name, doctor_id, doctor_name,
			date, time, duration, type, status, notes)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
		RETURNING id, created_at`,
		a.PatientID, a.PatientName, a.DoctorID, a.DoctorName,
		db.Date(a.Date), db.Time(a.Time), a.Duration, string(a.Type), string(a.Status), a.Notes,
	).Scan(&a.ID, &a.CreatedAt)
	if err != nil {
		return writeErr(a, "insert", err)
	}
	return nil
}

func (r *repoPG) GetByID(ctx context.Context, id int64) (*Appointment, error) {
	a, err := scanAppointment(db.Conn(ctx, r.pool).QueryRow(ctx, `SELECT `+apptCols+` FROM appointments WHERE id = $1`, id))
	if db.IsNoRows(err) {
		return nil, ErrNotFound
	}
	return a, err
}

func (r *repoPG) Update(ctx context.Context, a *Appointment) error {
	err := db.Conn(ctx, r.pool).QueryRow(ctx, `
		UPDATE appointments SET patient_id=$2, patient_name=$3, doctor_id=$4, doctor_name=$5,
			date=$6, time=$7, duration=$8, type=$9, status=$10, notes=$11
		WHERE id = $1
		RETURNING created_at`,
		a.ID, a.PatientID, a.PatientName, a.DoctorID, a.DoctorName,
		db.Date(a.Date), db.Time(a.Time), a.Duration, string(a.Type), string(a.Status), a.Notes,
	).Scan(&a.CreatedAt)
	if db.IsNoRows(err) {
		return ErrNotFound
	}
	if err != nil {
		return writeErr(a, "update", err)
	}
	return nil
}

func (r *repoPG) UpdateStatus(ctx context.Context, id int64, status Status) error {
	tag, err := db.Conn(ctx, r.pool).Exec(ctx, `UPDATE appointments SET status = $2 WHERE id = $1`, id, string(status))
	if err != nil {
		return fmt.Errorf("update appointment %d status: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repoPG) Delete(ctx context.Context, id int64) error {
	tag, err := db.Conn(ctx, r.pool).Exec(ctx, `DELETE FROM appointments WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete appointment %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repoPG) List(ctx context.Context, pg pagination.Params) ([]*Appointment, error) {
	return r.query(ctx, `SELECT `+apptCols+` FROM appointments ORDER BY date, time, id`+pg.SQL())
}

func (r *repoPG) ListByPatient(ctx context.Context, patientID int64, pg pagination.Params) ([]*Appointment, error) {
	return r.query(ctx, `SELECT `+apptCols+` FROM appointments WHERE patient_id = $1 ORDER BY date, time, id`+pg.SQL(), patientID)
}

func (r *repoPG) ListByDate(ctx context.Context, date interchange.Date, pg pagination.Params) ([]*Appointment, error) {
	return r.query(ctx, `SELECT `+apptCols+` FROM appointments WHERE date = $1 ORDER BY time, id`+pg.SQL(), db.Date(date))
}

func (r *repoPG) query(ctx context.Context, sql string, args ...any) ([]*Appointment, error) {
	rows, err := db.Conn(ctx, r.pool).Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []*Appointment
	for rows.Next() {
		a, err := scanAppointment(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, a)
	}
	return items, rows.Err()
}
