package main

import (
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/medcare/medcare/internal/domain/appointment"
	"github.com/medcare/medcare/internal/domain/billing"
	"github.com/medcare/medcare/internal/domain/ehr"
	"github.com/medcare/medcare/internal/domain/inventory"
	"github.com/medcare/medcare/internal/domain/patient"
	"github.com/medcare/medcare/internal/domain/user"
	"github.com/medcare/medcare/internal/platform/events"
	"github.com/medcare/medcare/internal/platform/router"
	"github.com/medcare/medcare/internal/platform/token"
)

// services holds one service per resource.
type services struct {
	users        *user.Service
	patients     *patient.Service
	appointments *appointment.Service
	inventory    *inventory.Service
	billing      *billing.Service
	ehr          *ehr.Service
}

func newServices(pool *pgxpool.Pool, codec token.Codec, pub events.Publisher) *services {
	return &services{
		users:        user.NewService(user.NewRepoPG(pool), codec),
		patients:     patient.NewService(patient.NewRepoPG(pool), pub),
		appointments: appointment.NewService(appointment.NewRepoPG(pool), pub),
		inventory:    inventory.NewService(inventory.NewRepoPG(pool), pub),
		billing:      billing.NewService(billing.NewRepoPG(pool), pub),
		ehr:          ehr.NewService(ehr.NewRepoPG(pool), pub),
	}
}

// buildTable registers every API route. Registration order matters: the
// first matching route wins.
func buildTable(svc *services, requireAuth bool) *router.Table {
	b := router.NewBuilder()
	b.Use(router.Authenticate(user.NewResolver(svc.users)))
	if requireAuth {
		b.Use(router.RequireAuth())
	}

	user.NewHandler(svc.users).RegisterRoutes(b)
	patient.NewHandler(svc.patients).RegisterRoutes(b)
	appointment.NewHandler(svc.appointments).RegisterRoutes(b)
	inventory.NewHandler(svc.inventory).RegisterRoutes(b)
	billing.NewHandler(svc.billing).RegisterRoutes(b)
	ehr.NewHandler(svc.ehr).RegisterRoutes(b)

	return b.Build()
}
