package inventory

import (
	"context"
	"strings"

	"github.com/medcare/medcare/internal/platform/apperr"
	"github.com/medcare/medcare/internal/platform/events"
	"github.com/medcare/medcare/pkg/pagination"
)

const Resource = "inventory"

var ErrNotFound = apperr.NotFound("Inventory item not found")

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

func (s *Service) CreateItem(ctx context.Context, it *Item) error {
	if err := validate(it); err != nil {
		return err
	}
	if err := s.repo.Create(ctx, it); err != nil {
		return err
	}
	s.events.Publish(ctx, events.Event{Action: events.Created, Resource: Resource, ID: it.ID, Data: it})
	return nil
}

func (s *Service) GetItem(ctx context.Context, id int64) (*Item, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) UpdateItem(ctx context.Context, id int64, it *Item) error {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return err
	}
	it.ID = id
	if err := validate(it); err != nil {
		return err
	}
	if err := s.repo.Update(ctx, it); err != nil {
		return err
	}
	s.events.Publish(ctx, events.Event{Action: events.Updated, Resource: Resource, ID: it.ID, Data: it})
	return nil
}

func (s *Service) DeleteItem(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.events.Publish(ctx, events.Event{Action: events.Deleted, Resource: Resource, ID: id})
	return nil
}

func (s *Service) ListItems(ctx context.Context, pg pagination.Params) ([]*Item, error) {
	return s.repo.List(ctx, pg)
}

// ListLowStock returns items whose quantity is at or below their minimum.
func (s *Service) ListLowStock(ctx context.Context, pg pagination.Params) ([]*Item, error) {
	return s.repo.ListLowStock(ctx, pg)
}

func validate(it *Item) error {
	if strings.TrimSpace(it.Name) == "" {
		return apperr.Invalid("Item name is required")
	}
	if it.Category == "" {
		return apperr.Invalid("Item category is required")
	}
	if it.Quantity < 0 {
		return apperr.Invalid("Item quantity cannot be negative")
	}
	if it.MinStock < 0 {
		return apperr.Invalid("Item minimum stock cannot be negative")
	}
	if it.Cost < 0 {
		return apperr.Invalid("Item cost cannot be negative")
	}
	return nil
}
