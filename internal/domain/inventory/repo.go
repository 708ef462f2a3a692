package inventory

import (
	"context"

	"github.com/medcare/medcare/pkg/pagination"
)

type Repository interface {
	Create(ctx context.Context, it *Item) error
	GetByID(ctx context.Context, id int64) (*Item, error)
	Update(ctx context.Context, it *Item) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, pg pagination.Params) ([]*Item, error)
	ListLowStock(ctx context.Context, pg pagination.Params) ([]*Item, error)
}
