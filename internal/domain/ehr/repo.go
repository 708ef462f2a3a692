package ehr

import (
	"context"

	"github.com/medcare/medcare/pkg/pagination"
)

type Repository interface {
	Create(ctx context.Context, r *Record) error
	GetByID(ctx context.Context, id int64) (*Record, error)
	Update(ctx context.Context, r *Record) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, pg pagination.Params) ([]*Record, error)
	ListByPatient(ctx context.Context, patientID int64, pg pagination.Params) ([]*Record, error)
}
