package billing

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

// Amounts are read back as whole cents.
const billCols = `id, patient_id, patient_name, date,
	(subtotal * 100)::bigint, (tax * 100)::bigint, (total * 100)::bigint,
	status, due_date, created_at`

const itemCols = `id, bill_id, description, quantity, (unit_price * 100)::bigint, (total * 100)::bigint`

func scanBill(row pgx.Row) (*Bill, error) {
	var b Bill
	var date, due time.Time
	var subtotal, tax, total int64
	var status string
	err := row.Scan(&b.ID, &b.PatientID, &b.PatientName, &date,
		&subtotal, &tax, &total, &status, &due, &b.CreatedAt)
	if err != nil {
		return nil, err
	}
	b.Date = interchange.DateOf(date)
	b.DueDate = interchange.DateOf(due)
	b.Subtotal = interchange.Cents(subtotal)
	b.Tax = interchange.Cents(tax)
	b.Total = interchange.Cents(total)
	b.Status = Status(status)
	b.Items = []Item{}
	return &b, nil
}

func scanItem(row pgx.Row) (Item, error) {
	var it Item
	var unit, total int64
	if err := row.Scan(&it.ID, &it.BillID, &it.Description, &it.Quantity, &unit, &total); err != nil {
		return Item{}, err
	}
	it.UnitPrice = interchange.Cents(unit)
	it.Total = interchange.Cents(total)
	return it, nil
}

// Create inserts the bill and its items in one transaction.
func (r *repoPG) Create(ctx context.Context, b *Bill) error {
	return db.InTx(ctx, r.pool, func(ctx context.Context) error {
		q := db.Conn(ctx, r.pool)
		err := q.QueryRow(ctx, `
			INSERT INTO bills (patient_id, patient_name, date, subtotal, tax, total, status, due_date)
			VALUES ($1,$2,$3,$4::text::numeric,$5::text::numeric,$6::text::numeric,$7,$8)
			RETURNING id, created_at`,
			b.PatientID, b.PatientName, db.Date(b.Date),
			b.Subtotal.String(), b.Tax.String(), b.Total.String(), string(b.Status), db.Date(b.DueDate),
		).Scan(&b.ID, &b.CreatedAt)
		if db.IsForeignKeyViolation(err) {
			return apperr.Invalidf("Patient %d does not exist", b.PatientID)
		}
		if err != nil {
			return fmt.Errorf("insert bill: %w", err)
		}
		return insertItems(ctx, q, b)
	})
}

func insertItems(ctx context.Context, q db.Querier, b *Bill) error {
	for i := range b.Items {
		it := &b.Items[i]
		it.BillID = b.ID
		err := q.QueryRow(ctx, `
			INSERT INTO bill_items (bill_id, description, quantity, unit_price, total)
			VALUES ($1,$2,$3,$4::text::numeric,$5::text::numeric)
			RETURNING id`,
			it.BillID, it.Description, it.Quantity, it.UnitPrice.String(), it.Total.String(),
		).Scan(&it.ID)
		if err != nil {
			return fmt.Errorf("insert bill item: %w", err)
		}
	}
	return nil
}

// Update rewrites the bill row and swaps its items for b.Items in one
// transaction.
func (r *repoPG) Update(ctx context.Context, b *Bill) error {
	return db.InTx(ctx, r.pool, func(ctx context.Context) error {
		q := db.Conn(ctx, r.pool)
		tag, err := q.Exec(ctx, `
			UPDATE bills SET patient_id = $2, patient_name = $3, date = $4,
				subtotal = $5::text::numeric, tax = $6::text::numeric, total = $7::text::numeric,
				status = $8, due_date = $9
			WHERE id = $1`,
			b.ID, b.PatientID, b.PatientName, db.Date(b.Date),
			b.Subtotal.String(), b.Tax.String(), b.Total.String(), string(b.Status), db.Date(b.DueDate),
		)
		if db.IsForeignKeyViolation(err) {
			return apperr.Invalidf("Patient %d does not exist", b.PatientID)
		}
		if err != nil {
			return fmt.Errorf("update bill %d: %w", b.ID, err)
		}
		if tag.RowsAffected() == 0 {
			return ErrNotFound
		}
		if _, err := q.Exec(ctx, `DELETE FROM bill_items WHERE bill_id = $1`, b.ID); err != nil {
			return fmt.Errorf("clear bill %d items: %w", b.ID, err)
		}
		return insertItems(ctx, q, b)
	})
}

func (r *repoPG) GetByID(ctx context.Context, id int64) (*Bill, error) {
	b, err := scanBill(db.Conn(ctx, r.pool).QueryRow(ctx, `SELECT `+billCols+` FROM bills WHERE id = $1`, id))
	if db.IsNoRows(err) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if err := r.loadItems(ctx, []*Bill{b}); err != nil {
		return nil, err
	}
	return b, nil
}

func (r *repoPG) UpdateStatus(ctx context.Context, id int64, status Status) error {
	tag, err := db.Conn(ctx, r.pool).Exec(ctx, `UPDATE bills SET status = $2 WHERE id = $1`, id, string(status))
	if err != nil {
		return fmt.Errorf("update bill %d status: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes the bill; its items go with it through the cascade.
func (r *repoPG) Delete(ctx context.Context, id int64) error {
	tag, err := db.Conn(ctx, r.pool).Exec(ctx, `DELETE FROM bills WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete bill %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repoPG) List(ctx context.Context, pg pagination.Params) ([]*Bill, error) {
	return r.query(ctx, `SELECT `+billCols+` FROM bills ORDER BY date DESC, id DESC`+pg.SQL())
}

func (r *repoPG) ListByPatient(ctx context.Context, patientID int64, pg pagination.Params) ([]*Bill, error) {
	return r.query(ctx, `SELECT `+billCols+` FROM bills WHERE patient_id = $1 ORDER BY date DESC, id DESC`+pg.SQL(), patientID)
}

func (r *repoPG) query(ctx context.Context, sql string, args ...any) ([]*Bill, error) {
	rows, err := db.Conn(ctx, r.pool).Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	var bills []*Bill
	for rows.Next() {
		b, err := scanBill(rows)
		if err != nil {
			rows.Close()
			return nil, err
		}
		bills = append(bills, b)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if err := r.loadItems(ctx, bills); err != nil {
		return nil, err
	}
	return bills, nil
}

// loadItems fills Items for every bill with a single query.
func (r *repoPG) loadItems(ctx context.Context, bills []*Bill) error {
	if len(bills) == 0 {
		return nil
	}
	byID := make(map[int64]*Bill, len(bills))
	ids := make([]int64, 0, len(bills))
	for _, b := range bills {
		byID[b.ID] = b
		ids = append(ids, b.ID)
	}
	rows, err := db.Conn(ctx, r.pool).Query(ctx, `SELECT `+itemCols+` FROM bill_items WHERE bill_id = ANY($1) ORDER BY id`, ids)
	if err != nil {
		return fmt.Errorf("load bill items: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return err
		}
		if b := byID[it.BillID]; b != nil {
			b.Items = append(b.Items, it)
		}
	}
	return rows.Err()
}
