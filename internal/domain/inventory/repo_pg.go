package inventory

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

// Cost is read back as whole cents.
const itemCols = `id, name, category, quantity, min_stock, unit, supplier,
	expiry_date, (cost * 100)::bigint, location, created_at`

func scanItem(row pgx.Row) (*Item, error) {
	var it Item
	var category string
	var expiry *time.Time
	var cents int64
	err := row.Scan(&it.ID, &it.Name, &category, &it.Quantity, &it.MinStock, &it.Unit, &it.Supplier,
		&expiry, &cents, &it.Location, &it.CreatedAt)
	if err != nil {
		return nil, err
	}
	it.Category = Category(category)
	it.ExpiryDate = db.ScannedDate(expiry)
	it.Cost = interchange.Cents(cents)
	return &it, nil
}

func (r *repoPG) Create(ctx context.Context, it *Item) error {
	err := db.Conn(ctx, r.pool).QueryRow(ctx, `
		INSERT INTO inventory_items (name, category, quantity, min_stock, unit, supplier,
			expiry_date, cost, location)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8::text::numeric,$9)
		RETURNING id, created_at`,
		it.Name, string(it.Category), it.Quantity, it.MinStock, it.Unit, it.Supplier,
		db.OptionalDate(it.ExpiryDate), it.Cost.String(), it.Location,
	).Scan(&it.ID, &it.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert inventory item: %w", err)
	}
	return nil
}

func (r *repoPG) GetByID(ctx context.Context, id int64) (*Item, error) {
	it, err := scanItem(db.Conn(ctx, r.pool).QueryRow(ctx, `SELECT `+itemCols+` FROM inventory_items WHERE id = $1`, id))
	if db.IsNoRows(err) {
		return nil, ErrNotFound
	}
	return it, err
}

func (r *repoPG) Update(ctx context.Context, it *Item) error {
	err := db.Conn(ctx, r.pool).QueryRow(ctx, `
		UPDATE inventory_items SET name=$2, category=$3, quantity=$4, min_stock=$5, unit=$6,
			supplier=$7, expiry_date=$8, cost=$9::text::numeric, location=$10
		WHERE id = $1
		RETURNING created_at`,
		it.ID, it.Name, string(it.Category), it.Quantity, it.MinStock, it.Unit,
		it.Supplier, db.OptionalDate(it.ExpiryDate), it.Cost.String(), it.Location,
	).Scan(&it.CreatedAt)
	if db.IsNoRows(err) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("update inventory item %d: %w", it.ID, err)
	}
	return nil
}

func (r *repoPG) Delete(ctx context.Context, id int64) error {
	tag, err := db.Conn(ctx, r.pool).Exec(ctx, `DELETE FROM inventory_items WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete inventory item %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repoPG) List(ctx context.Context, pg pagination.Params) ([]*Item, error) {
	return r.query(ctx, `SELECT `+itemCols+` FROM inventory_items ORDER BY id`+pg.SQL())
}

func (r *repoPG) ListLowStock(ctx context.Context, pg pagination.Params) ([]*Item, error) {
	return r.query(ctx, `SELECT `+itemCols+` FROM inventory_items
		WHERE quantity <= min_stock ORDER BY quantity - min_stock, id`+pg.SQL())
}

func (r *repoPG) query(ctx context.Context, sql string, args ...any) ([]*Item, error) {
	rows, err := db.Conn(ctx, r.pool).Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []*Item
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, rows.Err()
}
