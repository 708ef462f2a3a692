package ehr

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
	b.GET("/api/patients/{id}/records", h.ListPatientRecords)
	b.GET("/api/ehr", h.ListRecords)
	b.POST("/api/ehr", h.CreateRecord)
	b.GET("/api/ehr/{id}", h.GetRecord)
	b.PUT("/api/ehr/{id}", h.UpdateRecord)
	b.DELETE("/api/ehr/{id}", h.DeleteRecord)
}

func (h *Handler) ListRecords(ctx context.Context, req *router.Request) (*router.Response, error) {
	items, err := h.svc.ListRecords(ctx, pagination.FromQuery(req.Query))
	if err != nil {
		return nil, err
	}
	return router.OK(items), nil
}

func (h *Handler) ListPatientRecords(ctx context.Context, req *router.Request) (*router.Response, error) {
	items, err := h.svc.ListByPatient(ctx, req.Params.Int64("id"), pagination.FromQuery(req.Query))
	if err != nil {
		return nil, err
	}
	return router.OK(items), nil
}

func (h *Handler) CreateRecord(ctx context.Context, req *router.Request) (*router.Response, error) {
	r, err := FromBody(req.Body)
	if err != nil {
		return nil, router.FromError(err)
	}
	if err := h.svc.CreateRecord(ctx, r); err != nil {
		return nil, router.FromError(err)
	}
	return router.Created(r), nil
}

func (h *Handler) GetRecord(ctx context.Context, req *router.Request) (*router.Response, error) {
	r, err := h.svc.GetRecord(ctx, req.Params.Int64("id"))
	if err != nil {
		return nil, router.FromError(err)
	}
	return router.OK(r), nil
}

func (h *Handler) UpdateRecord(ctx context.Context, req *router.Request) (*router.Response, error) {
	r, err := FromBody(req.Body)
	if err != nil {
		return nil, router.FromError(err)
	}
	if err := h.svc.UpdateRecord(ctx, req.Params.Int64("id"), r); err != nil {
		return nil, router.FromError(err)
	}
	return router.OK(r), nil
}

func (h *Handler) DeleteRecord(ctx context.Context, req *router.Request) (*router.Response, error) {
	if err := h.svc.DeleteRecord(ctx, req.Params.Int64("id")); err != nil {
		return nil, router.FromError(err)
	}
	return router.Message("Record deleted successfully"), nil
}
