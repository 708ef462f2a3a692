package appointment

import (
	"context"

	"github.com/medcare/medcare/internal/platform/interchange"
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
	b.GET("/api/patients/{id}/appointments", h.ListPatientAppointments)
	b.GET("/api/appointments", h.ListAppointments)
	b.POST("/api/appointments", h.CreateAppointment)
	b.GET("/api/appointments/{id}", h.GetAppointment)
	b.PUT("/api/appointments/{id}", h.UpdateAppointment)
	b.DELETE("/api/appointments/{id}", h.DeleteAppointment)
	b.PUT("/api/appointments/{id}/status", h.UpdateAppointmentStatus)
}

// ListAppointments lists every appointment, or those on ?date=YYYY-MM-DD.
func (h *Handler) ListAppointments(ctx context.Context, req *router.Request) (*router.Response, error) {
	pg := pagination.FromQuery(req.Query)
	if raw := req.Query.Get("date"); raw != "" {
		date, err := interchange.ParseDate(raw)
		if err != nil {
			return nil, router.BadRequest("date must be a date (YYYY-MM-DD)")
		}
		items, err := h.svc.ListByDate(ctx, date, pg)
		if err != nil {
			return nil, err
		}
		return router.OK(items), nil
	}
	items, err := h.svc.ListAppointments(ctx, pg)
	if err != nil {
		return nil, err
	}
	return router.OK(items), nil
}

func (h *Handler) ListPatientAppointments(ctx context.Context, req *router.Request) (*router.Response, error) {
	items, err := h.svc.ListByPatient(ctx, req.Params.Int64("id"), pagination.FromQuery(req.Query))
	if err != nil {
		return nil, err
	}
	return router.OK(items), nil
}

func (h *Handler) CreateAppointment(ctx context.Context, req *router.Request) (*router.Response, error) {
	a, err := FromBody(req.Body)
	if err != nil {
		return nil, router.FromError(err)
	}
	if err := h.svc.CreateAppointment(ctx, a); err != nil {
		return nil, router.FromError(err)
	}
	return router.Created(a), nil
}

func (h *Handler) GetAppointment(ctx context.Context, req *router.Request) (*router.Response, error) {
	a, err := h.svc.GetAppointment(ctx, req.Params.Int64("id"))
	if err != nil {
		return nil, router.FromError(err)
	}
	return router.OK(a), nil
}

func (h *Handler) UpdateAppointment(ctx context.Context, req *router.Request) (*router.Response, error) {
	a, err := FromBody(req.Body)
	if err != nil {
		return nil, router.FromError(err)
	}
	if err := h.svc.UpdateAppointment(ctx, req.Params.Int64("id"), a); err != nil {
		return nil, router.FromError(err)
	}
	return router.OK(a), nil
}

func (h *Handler) UpdateAppointmentStatus(ctx context.Context, req *router.Request) (*router.Response, error) {
	status, err := StatusFromBody(req.Body)
	if err != nil {
		return nil, router.FromError(err)
	}
	a, err := h.svc.UpdateStatus(ctx, req.Params.Int64("id"), status)
	if err != nil {
		return nil, router.FromError(err)
	}
	return router.OK(a), nil
}

func (h *Handler) DeleteAppointment(ctx context.Context, req *router.Request) (*router.Response, error) {
	if err := h.svc.DeleteAppointment(ctx, req.Params.Int64("id")); err != nil {
		return nil, router.FromError(err)
	}
	return router.Message("Appointment deleted successfully"), nil
}
