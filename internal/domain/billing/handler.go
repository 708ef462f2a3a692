package billing

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
	b.GET("/api/patients/{id}/bills", h.ListPatientBills)
	b.GET("/api/billing", h.ListBills)
	b.POST("/api/billing", h.CreateBill)
	b.GET("/api/billing/{id}", h.GetBill)
	b.PUT("/api/billing/{id}", h.UpdateBill)
	b.DELETE("/api/billing/{id}", h.DeleteBill)
	b.PUT("/api/billing/{id}/status", h.UpdateBillStatus)
}

func (h *Handler) ListBills(ctx context.Context, req *router.Request) (*router.Response, error) {
	bills, err := h.svc.ListBills(ctx, pagination.FromQuery(req.Query))
	if err != nil {
		return nil, err
	}
	return router.OK(bills), nil
}

func (h *Handler) ListPatientBills(ctx context.Context, req *router.Request) (*router.Response, error) {
	bills, err := h.svc.ListByPatient(ctx, req.Params.Int64("id"), pagination.FromQuery(req.Query))
	if err != nil {
		return nil, err
	}
	return router.OK(bills), nil
}

func (h *Handler) CreateBill(ctx context.Context, req *router.Request) (*router.Response, error) {
	b, err := FromBody(req.Body)
	if err != nil {
		return nil, router.FromError(err)
	}
	if err := h.svc.CreateBill(ctx, b); err != nil {
		return nil, router.FromError(err)
	}
	return router.Created(b), nil
}

func (h *Handler) GetBill(ctx context.Context, req *router.Request) (*router.Response, error) {
	b, err := h.svc.GetBill(ctx, req.Params.Int64("id"))
	if err != nil {
		return nil, router.FromError(err)
	}
	return router.OK(b), nil
}

func (h *Handler) UpdateBill(ctx context.Context, req *router.Request) (*router.Response, error) {
	b, err := FromBody(req.Body)
	if err != nil {
		return nil, router.FromError(err)
	}
	if err := h.svc.UpdateBill(ctx, req.Params.Int64("id"), b); err != nil {
		return nil, router.FromError(err)
	}
	return router.OK(b), nil
}

func (h *Handler) UpdateBillStatus(ctx context.Context, req *router.Request) (*router.Response, error) {
	status, err := StatusFromBody(req.Body)
	if err != nil {
		return nil, router.FromError(err)
	}
	b, err := h.svc.UpdateStatus(ctx, req.Params.Int64("id"), status)
	if err != nil {
		return nil, router.FromError(err)
	}
	return router.OK(b), nil
}

func (h *Handler) DeleteBill(ctx context.Context, req *router.Request) (*router.Response, error) {
	if err := h.svc.DeleteBill(ctx, req.Params.Int64("id")); err != nil {
		return nil, router.FromError(err)
	}
	return router.Message("Bill deleted successfully"), nil
}
