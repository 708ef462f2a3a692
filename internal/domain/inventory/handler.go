package inventory

import (
	"context"

	"github.com/medcare/medcare/internal/platform/router"
	"github.com/medcare/medcare/pkg/pagination"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(b *router.Builder) {
	b.GET("/api/inventory", h.ListItems)
	b.POST("/api/inventory", h.CreateItem)
	b.GET("/api/inventory/low-stock", h.ListLowStock)
	b.GET("/api/inventory/{id}", h.GetItem)
	b.PUT("/api/inventory/{id}", h.UpdateItem)
	b.DELETE("/api/inventory/{id}", h.DeleteItem)
}

func (h *Handler) ListItems(ctx context.Context, req *router.Request) (*router.Response, error) {
	items, err := h.svc.ListItems(ctx, pagination.FromQuery(req.Query))
	if err != nil {
		return nil, err
	}
	return router.OK(items), nil
}

func (h *Handler) ListLowStock(ctx context.Context, req *router.Request) (*router.Response, error) {
	items, err := h.svc.ListLowStock(ctx, pagination.FromQuery(req.Query))
	if err != nil {
		return nil, err
	}
	return router.OK(items), nil
}

func (h *Handler) CreateItem(ctx context.Context, req *router.Request) (*router.Response, error) {
	it, err := FromBody(req.Body)
	if err != nil {
		return nil, router.FromError(err)
	}
	if err := h.svc.CreateItem(ctx, it); err != nil {
		return nil, router.FromError(err)
	}
	return router.Created(it), nil
}

func (h *Handler) GetItem(ctx context.Context, req *router.Request) (*router.Response, error) {
	it, err := h.svc.GetItem(ctx, req.Params.Int64("id"))
	if err != nil {
		return nil, router.FromError(err)
	}
	return router.OK(it), nil
}

func (h *Handler) UpdateItem(ctx context.Context, req *router.Request) (*router.Response, error) {
	it, err := FromBody(req.Body)
	if err != nil {
		return nil, router.FromError(err)
	}
	if err := h.svc.UpdateItem(ctx, req.Params.Int64("id"), it); err != nil {
		return nil, router.FromError(err)
	}
	return router.OK(it), nil
}

func (h *Handler) DeleteItem(ctx context.Context, req *router.Request) (*router.Response, error) {
	if err := h.svc.DeleteItem(ctx, req.Params.Int64("id")); err != nil {
		return nil, router.FromError(err)
	}
	return router.Message("Inventory item deleted successfully"), nil
}
