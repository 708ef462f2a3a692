package appointment

import (
	"context"

	"github.com/medcare/medcare/internal/platform/interchange"
	"github.com/medcare/medcare/pkg/pagination"
)

type Repository interface {
	Create(ctx context.Context, a *Appointment) error
	GetByID(ctx context.Context, id int64) (*Appointment, error)
	Update(ctx context.Context, a *Appointment) error
	UpdateStatus(ctx context.Context, id int64, status Status) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, pg pagination.Params) ([]*Appointment, error)
	ListByPatient(ctx context.Context, patientID int64, pg pagination.Params) ([]*Appointment, error)
	ListByDate(ctx context.Context, date interchange.Date, pg pagination.Params) ([]*Appointment, error)
}
