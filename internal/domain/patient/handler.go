package patient

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
	b.GET("/api/patients", h.ListPatients)
	b.POST("/api/patients", h.CreatePatient)
	b.GET("/api/patients/search", h.SearchPatients)
	b.GET("/api/patients/{id}", h.GetPatient)
	b.PUT("/api/patients/{id}", h.UpdatePatient)
	b.DELETE("/api/patients/{id}", h.DeletePatient)
}

func (h *Handler) ListPatients(ctx context.Context, req *router.Request) (*router.Response, error) {
	items, err := h.svc.ListPatients(ctx, pagination.FromQuery(req.Query))
	if err != nil {
		return nil, err
	}
	return router.OK(items), nil
}

func (h *Handler) SearchPatients(ctx context.Context, req *router.Request) (*router.Response, error) {
	items, err := h.svc.SearchPatients(ctx, req.Query.Get("name"), pagination.FromQuery(req.Query))
	if err != nil {
		return nil, err
	}
	return router.OK(items), nil
}

func (h *Handler) CreatePatient(ctx context.Context, req *router.Request) (*router.Response, error) {
	p, err := FromBody(req.Body)
	if err != nil {
		return nil, router.FromError(err)
	}
	if err := h.svc.CreatePatient(ctx, p); err != nil {
		return nil, router.FromError(err)
	}
	return router.Created(p), nil
}

func (h *Handler) GetPatient(ctx context.Context, req *router.Request) (*router.Response, error) {
	p, err := h.svc.GetPatient(ctx, req.Params.Int64("id"))
	if err != nil {
		return nil, router.FromError(err)
	}
	return router.OK(p), nil
}

func (h *Handler) UpdatePatient(ctx context.Context, req *router.Request) (*router.Response, error) {
	p, err := FromBody(req.Body)
	if err != nil {
		return nil, router.FromError(err)
	}
	if err := h.svc.UpdatePatient(ctx, req.Params.Int64("id"), p); err != nil {
		return nil, router.FromError(err)
	}
	return router.OK(p), nil
}

func (h *Handler) DeletePatient(ctx context.Context, req *router.Request) (*router.Response, error) {
	if err := h.svc.DeletePatient(ctx, req.Params.Int64("id")); err != nil {
		return nil, router.FromError(err)
	}
	return router.Message("Patient deleted successfully"), nil
}
