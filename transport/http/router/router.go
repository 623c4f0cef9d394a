package router

import (
	"scheduler/internal/handlers/availability"
	"scheduler/internal/handlers/booking"
	"scheduler/internal/handlers/calendar"
	"scheduler/internal/handlers/link"
	"scheduler/internal/handlers/slot"
	"scheduler/transport/http/middleware"

	"github.com/go-chi/chi/v5"
	httpSwagger "github.com/swaggo/http-swagger"
)

type DomainHandlers struct {
	Availability availability.Handler
	Link         link.Handler
	Calendar     calendar.Handler
	Slot         slot.Handler
	Booking      booking.Handler
}

type Router struct {
	DomainHandlers DomainHandlers
	AuthRole       middleware.AuthRole
	Middleware     middleware.AppMiddleware
}

func (r *Router) SetupRoutes(router chi.Router) {
	router.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))

	router.Route("/v1", func(routerGroup chi.Router) {
		routerGroup.Use(r.AuthRole.APIKey, r.AuthRole.Auth, r.AuthRole.RBAC)
		routerGroup.Use(r.Middleware.RateLimit())

		r.DomainHandlers.Availability.Router(routerGroup)
		r.DomainHandlers.Link.Router(routerGroup)
		r.DomainHandlers.Calendar.Router(routerGroup)
		r.DomainHandlers.Slot.Router(routerGroup)
		r.DomainHandlers.Booking.Router(routerGroup)
	})
}

func New(domainHandlers DomainHandlers, authRole middleware.AuthRole, appMiddleware middleware.AppMiddleware) Router {
	return Router{
		DomainHandlers: domainHandlers,
		AuthRole:       authRole,
		Middleware:     appMiddleware,
	}
}
