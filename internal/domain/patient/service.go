package patient

import (
	"context"
	"strings"

	"github.com/medcare/medcare/internal/platform/apperr"
	"github.com/medcare/medcare/internal/platform/events"
	"github.com/medcare/medcare/pkg/pagination"
)

// Resource is the change-feed topic for patients.
const Resource = "patients"

var ErrNotFound = apperr.NotFound("Patient not found")

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

func (s *Service) CreatePatient(ctx context.Context, p *Patient) error {
	if err := validate(p); err != nil {
		return err
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return err
	}
	s.events.Publish(ctx, events.Event{Action: events.Created, Resource: Resource, ID: p.ID, Data: p})
	return nil
}

func (s *Service) GetPatient(ctx context.Context, id int64) (*Patient, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) UpdatePatient(ctx context.Context, id int64, p *Patient) error {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return err
	}
	p.ID = id
	if err := validate(p); err != nil {
		return err
	}
	if err := s.repo.Update(ctx, p); err != nil {
		return err
	}
	s.events.Publish(ctx, events.Event{Action: events.Updated, Resource: Resource, ID: p.ID, Data: p})
	return nil
}

func (s *Service) DeletePatient(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.events.Publish(ctx, events.Event{Action: events.Deleted, Resource: Resource, ID: id})
	return nil
}

func (s *Service) ListPatients(ctx context.Context, pg pagination.Params) ([]*Patient, error) {
	return s.repo.List(ctx, pg)
}

// SearchPatients matches a case-insensitive substring of the name. An
// empty query lists every patient.
func (s *Service) SearchPatients(ctx context.Context, name string, pg pagination.Params) ([]*Patient, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return s.repo.List(ctx, pg)
	}
	return s.repo.SearchByName(ctx, name, pg)
}

func validate(p *Patient) error {
	if strings.TrimSpace(p.Name) == "" {
		return apperr.Invalid("Patient name is required")
	}
	if strings.TrimSpace(p.Email) == "" {
		return apperr.Invalid("Patient email is required")
	}
	if strings.TrimSpace(p.Phone) == "" {
		return apperr.Invalid("Patient phone is required")
	}
	if p.DateOfBirth.IsZero() {
		return apperr.Invalid("Patient date of birth is required")
	}
	if p.Gender == "" {
		return apperr.Invalid("Patient gender is required")
	}
	return nil
}
