package ehr

import (
	"context"
	"strings"
	"time"

	"github.com/medcare/medcare/internal/platform/apperr"
	"github.com/medcare/medcare/internal/platform/events"
	"github.com/medcare/medcare/internal/platform/interchange"
	"github.com/medcare/medcare/pkg/pagination"
)

const Resource = "ehr"

var ErrNotFound = apperr.NotFound("Record not found")

type Service struct {
	repo   Repository
	events events.Publisher
	now    func() time.Time
}

func NewService(repo Repository, pub events.Publisher) *Service {
	if pub == nil {
		pub = events.Nop{}
	}
	return &Service{repo: repo, events: pub, now: time.Now}
}

// CreateRecord stores a new record. A record without a date is dated today.
func (s *Service) CreateRecord(ctx context.Context, r *Record) error {
	if r.Date.IsZero() {
		r.Date = interchange.DateOf(s.now())
	}
	if err := validate(r); err != nil {
		return err
	}
	if err := s.repo.Create(ctx, r); err != nil {
		return err
	}
	s.events.Publish(ctx, events.Event{Action: events.Created, Resource: Resource, ID: r.ID, Data: r})
	return nil
}

func (s *Service) GetRecord(ctx context.Context, id int64) (*Record, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) UpdateRecord(ctx context.Context, id int64, r *Record) error {
	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	r.ID = id
	if r.Date.IsZero() {
		r.Date = existing.Date
	}
	if err := validate(r); err != nil {
		return err
	}
	if err := s.repo.Update(ctx, r); err != nil {
		return err
	}
	s.events.Publish(ctx, events.Event{Action: events.Updated, Resource: Resource, ID: r.ID, Data: r})
	return nil
}

func (s *Service) DeleteRecord(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.events.Publish(ctx, events.Event{Action: events.Deleted, Resource: Resource, ID: id})
	return nil
}

func (s *Service) ListRecords(ctx context.Context, pg pagination.Params) ([]*Record, error) {
	return s.repo.List(ctx, pg)
}

func (s *Service) ListByPatient(ctx context.Context, patientID int64, pg pagination.Params) ([]*Record, error) {
	return s.repo.ListByPatient(ctx, patientID, pg)
}

func validate(r *Record) error {
	if r.PatientID == 0 {
		return apperr.Invalid("Patient ID is required")
	}
	if r.Type == "" {
		return apperr.Invalid("Record type is required")
	}
	if strings.TrimSpace(r.Title) == "" {
		return apperr.Invalid("Record title is required")
	}
	return nil
}
