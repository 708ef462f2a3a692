package billing

import (
	"context"

	"github.com/medcare/medcare/pkg/pagination"
)

// Repository stores bills together with their items. Reads always return
// bills with Items loaded.
type Repository interface {
	Create(ctx context.Context, b *Bill) error
	GetByID(ctx context.Context, id int64) (*Bill, error)
	// Update replaces the bill row and all of its items.
	Update(ctx context.Context, b *Bill) error
	UpdateStatus(ctx context.Context, id int64, status Status) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, pg pagination.Params) ([]*Bill, error)
	ListByPatient(ctx context.Context, patientID int64, pg pagination.Params) ([]*Bill, error)
}
