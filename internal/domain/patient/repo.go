package patient

import (
	"context"

	"github.com/medcare/medcare/pkg/pagination"
)

type Repository interface {
	Create(ctx context.Context, p *Patient) error
	GetByID(ctx context.Context, id int64) (*Patient, error)
	Update(ctx context.Context, p *Patient) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, pg pagination.Params) ([]*Patient, error)
	SearchByName(ctx context.Context, name string, pg pagination.Params) ([]*Patient, error)
}
