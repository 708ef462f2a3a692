package billing

import (
	"context"
	"strings"
	"time"

	"github.com/medcare/medcare/internal/platform/apperr"
	"github.com/medcare/medcare/internal/platform/events"
	"github.com/medcare/medcare/internal/platform/interchange"
	"github.com/medcare/medcare/pkg/pagination"
)

const (
	Resource = "bills"

	// TaxPercent applies when a bill is created without an explicit tax.
	TaxPercent = 10
	// PaymentTermDays is the default gap between bill date and due date.
	PaymentTermDays = 30
)

var ErrNotFound = apperr.NotFound("Bill not found")

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

// CreateBill fills in defaults, computes the totals and stores the bill
// with its items.
func (s *Service) CreateBill(ctx context.Context, b *Bill) error {
	if b.Date.IsZero() {
		b.Date = interchange.DateOf(s.now())
	}
	if b.DueDate.IsZero() {
		b.DueDate = b.Date.AddDays(PaymentTermDays)
	}
	if b.Status == "" {
		b.Status = Pending
	}
	if err := validate(b); err != nil {
		return err
	}
	if err := ComputeTotals(b); err != nil {
		return err
	}
	if err := s.repo.Create(ctx, b); err != nil {
		return err
	}
	s.events.Publish(ctx, events.Event{Action: events.Created, Resource: Resource, ID: b.ID, Data: b})
	return nil
}

// ComputeTotals sets each item total, the subtotal, the tax (unless it was
// supplied) and the grand total. Amounts that do not fit are rejected.
func ComputeTotals(b *Bill) error {
	var subtotal interchange.Decimal
	var err error
	for i := range b.Items {
		if b.Items[i].Total, err = b.Items[i].UnitPrice.Mul(b.Items[i].Quantity); err != nil {
			return errAmountRange
		}
		if subtotal, err = subtotal.Add(b.Items[i].Total); err != nil {
			return errAmountRange
		}
	}
	b.Subtotal = subtotal
	if !b.taxGiven {
		b.Tax = subtotal.Percent(TaxPercent)
	}
	if b.Total, err = b.Subtotal.Add(b.Tax); err != nil {
		return errAmountRange
	}
	return nil
}

var errAmountRange = apperr.Invalid("Bill amounts are out of range")

func (s *Service) GetBill(ctx context.Context, id int64) (*Bill, error) {
	return s.repo.GetByID(ctx, id)
}

// UpdateBill replaces the bill and its items. Date, due date and status
// keep their stored values when the replacement leaves them out.
func (s *Service) UpdateBill(ctx context.Context, id int64, b *Bill) error {
	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	b.ID = id
	b.CreatedAt = existing.CreatedAt
	if b.Date.IsZero() {
		b.Date = existing.Date
	}
	if b.DueDate.IsZero() {
		if b.Date.Equal(existing.Date) {
			b.DueDate = existing.DueDate
		} else {
			b.DueDate = b.Date.AddDays(PaymentTermDays)
		}
	}
	if !b.statusGiven {
		b.Status = existing.Status
	}
	if err := validate(b); err != nil {
		return err
	}
	if err := ComputeTotals(b); err != nil {
		return err
	}
	if err := s.repo.Update(ctx, b); err != nil {
		return err
	}
	s.events.Publish(ctx, events.Event{Action: events.Updated, Resource: Resource, ID: b.ID, Data: b})
	return nil
}

func (s *Service) UpdateStatus(ctx context.Context, id int64, status Status) (*Bill, error) {
	if err := s.repo.UpdateStatus(ctx, id, status); err != nil {
		return nil, err
	}
	b, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	s.events.Publish(ctx, events.Event{Action: events.Updated, Resource: Resource, ID: b.ID, Data: b})
	return b, nil
}

func (s *Service) DeleteBill(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.events.Publish(ctx, events.Event{Action: events.Deleted, Resource: Resource, ID: id})
	return nil
}

func (s *Service) ListBills(ctx context.Context, pg pagination.Params) ([]*Bill, error) {
	return s.repo.List(ctx, pg)
}

func (s *Service) ListByPatient(ctx context.Context, patientID int64, pg pagination.Params) ([]*Bill, error) {
	return s.repo.ListByPatient(ctx, patientID, pg)
}

func validate(b *Bill) error {
	if b.PatientID == 0 {
		return apperr.Invalid("Patient ID is required")
	}
	if len(b.Items) == 0 {
		return apperr.Invalid("Bill must have at least one item")
	}
	for _, it := range b.Items {
		if strings.TrimSpace(it.Description) == "" {
			return apperr.Invalid("Bill item description is required")
		}
		if it.Quantity <= 0 {
			return apperr.Invalid("Bill item quantity must be positive")
		}
		if it.UnitPrice < 0 {
			return apperr.Invalid("Bill item unit price cannot be negative")
		}
	}
	if b.taxGiven && b.Tax < 0 {
		return apperr.Invalid("Bill tax cannot be negative")
	}
	if b.DueDate.Before(b.Date) {
		return apperr.Invalid("Bill due date cannot be before the bill date")
	}
	return nil
}
