package inventory

import (
	"time"

	"github.com/medcare/medcare/internal/platform/interchange"
)

type Category string

const (
	Medication Category = "medication"
	Equipment  Category = "equipment"
	Supplies   Category = "supplies"
)

func (c Category) Label() string { return string(c) }

var categories = []string{string(Medication), string(Equipment), string(Supplies)}

// Item maps to the inventory_items table.
type Item struct {
	ID         int64
	Name       string
	Category   Category
	Quantity   int
	MinStock   int
	Unit       *string
	Supplier   *string
	ExpiryDate *interchange.Date
	Cost       interchange.Decimal
	Location   *string
	CreatedAt  time.Time
}

func (i Item) Fields() []interchange.Field {
	return []interchange.Field{
		{Name: "id", Value: i.ID},
		{Name: "name", Value: i.Name},
		{Name: "category", Value: i.Category},
		{Name: "quantity", Value: i.Quantity},
		{Name: "minStock", Value: i.MinStock},
		{Name: "unit", Value: i.Unit},
		{Name: "supplier", Value: i.Supplier},
		{Name: "expiryDate", Value: i.ExpiryDate},
		{Name: "cost", Value: i.Cost},
		{Name: "location", Value: i.Location},
		{Name: "createdAt", Value: i.CreatedAt},
	}
}

// LowStock reports whether the item is at or below its reorder level.
func (i Item) LowStock() bool {
	return i.Quantity <= i.MinStock
}

func FromBody(b interchange.Body) (*Item, error) {
	it := &Item{
		Name:     b.String("name"),
		Unit:     b.Optional("unit"),
		Supplier: b.Optional("supplier"),
		Location: b.Optional("location"),
	}
	var err error
	if b.Has("category") {
		c, err := b.Label("category", categories...)
		if err != nil {
			return nil, err
		}
		it.Category = Category(c)
	}
	if b.Has("quantity") {
		if it.Quantity, err = b.Int("quantity"); err != nil {
			return nil, err
		}
	}
	if b.Has("minStock") {
		if it.MinStock, err = b.Int("minStock"); err != nil {
			return nil, err
		}
	}
	if b.Has("cost") {
		if it.Cost, err = b.Decimal("cost"); err != nil {
			return nil, err
		}
	}
	if it.ExpiryDate, err = b.OptionalDate("expiryDate"); err != nil {
		return nil, err
	}
	return it, nil
}
