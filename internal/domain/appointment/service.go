package appointment

import (
	"context"

	"github.com/medcare/medcare/internal/platform/apperr"
	"github.com/medcare/medcare/internal/platform/events"
	"github.com/medcare/medcare/internal/platform/interchange"
	"github.com/medcare/medcare/pkg/pagination"
)

const Resource = "appointments"

var ErrNotFound = apperr.NotFound("Appointment not found")

type Service struct {
	repo   Repository
	events events.Publisher
}

func NewService(repo Repository, pub events.Publisher) *Service {
	if pub == nil {
		pub = events.Nop{}
	}
	return &Service{repo: repo, events: pub}
}

func (s *Service) CreateAppointment(ctx context.Context, a *Appointment) error {
	if a.Status == "" {
		a.Status = Scheduled
	}
	if err := validate(a); err != nil {
		return err
	}
	if err := s.repo.Create(ctx, a); err != nil {
		return err
	}
	s.events.Publish(ctx, events.Event{Action: events.Created, Resource: Resource, ID: a.ID, Data: a})
	return nil
}

func (s *Service) GetAppointment(ctx context.Context, id int64) (*Appointment, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) UpdateAppointment(ctx context.Context, id int64, a *Appointment) error {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return err
	}
	a.ID = id
	if a.Status == "" {
		a.Status = Scheduled
	}
	if err := validate(a); err != nil {
		return err
	}
	if err := s.repo.Update(ctx, a); err != nil {
		return err
	}
	s.events.Publish(ctx, events.Event{Action: events.Updated, Resource: Resource, ID: a.ID, Data: a})
	return nil
}

// UpdateStatus changes only the status and returns the updated appointment.
func (s *Service) UpdateStatus(ctx context.Context, id int64, status Status) (*Appointment, error) {
	if err := s.repo.UpdateStatus(ctx, id, status); err != nil {
		return nil, err
	}
	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	s.events.Publish(ctx, events.Event{Action: events.Updated, Resource: Resource, ID: a.ID, Data: a})
	return a, nil
}

func (s *Service) DeleteAppointment(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.events.Publish(ctx, events.Event{Action: events.Deleted, Resource: Resource, ID: id})
	return nil
}

func (s *Service) ListAppointments(ctx context.Context, pg pagination.Params) ([]*Appointment, error) {
	return s.repo.List(ctx, pg)
}

func (s *Service) ListByPatient(ctx context.Context, patientID int64, pg pagination.Params) ([]*Appointment, error) {
	return s.repo.ListByPatient(ctx, patientID, pg)
}

func (s *Service) ListByDate(ctx context.Context, date interchange.Date, pg pagination.Params) ([]*Appointment, error) {
	return s.repo.ListByDate(ctx, date, pg)
}

func validate(a *Appointment) error {
	if a.PatientID == 0 {
		return apperr.Invalid("Patient ID is required")
	}
	if a.DoctorID == 0 {
		return apperr.Invalid("Doctor ID is required")
	}
	if a.Date.IsZero() {
		return apperr.Invalid("Appointment date is required")
	}
	if a.Duration <= 0 {
		return apperr.Invalid("Appointment duration must be positive")
	}
	if a.Type == "" {
		return apperr.Invalid("Appointment type is required")
	}
	return nil
}
