package router

import (
	"hostel/internal/handlers/activity"
	"hostel/internal/handlers/activitybooking"
	"hostel/internal/handlers/auth"
	"hostel/internal/handlers/availability"
	"hostel/internal/handlers/booking"
	"hostel/internal/handlers/guest"
	"hostel/internal/handlers/offer"
	"hostel/internal/handlers/room"
	"hostel/internal/handlers/user"

	"github.com/go-chi/chi/v5"
)

type DomainHandlers struct {
	Auth            auth.Handler
	User            user.Handler
	Room            room.Handler
	Guest           guest.Handler
	Availability    availability.Handler
	Booking         booking.Handler
	Offer           offer.Handler
	Activity        activity.Handler
	ActivityBooking activitybooking.Handler
}

type Router struct {
	DomainHandlers DomainHandlers
}

func (r *Router) SetupRoutes(router chi.Router) {
	router.Route("/api", func(routerGroup chi.Router) {
		r.DomainHandlers.Auth.Router(routerGroup)
		r.DomainHandlers.User.Router(routerGroup)
		r.DomainHandlers.Room.Router(routerGroup)
		r.DomainHandlers.Guest.Router(routerGroup)
		r.DomainHandlers.Availability.Router(routerGroup)
		r.DomainHandlers.Booking.Router(routerGroup)
		r.DomainHandlers.Offer.Router(routerGroup)
		r.DomainHandlers.Activity.Router(routerGroup)
		r.DomainHandlers.ActivityBooking.Router(routerGroup)
	})
}

func New(domainHandlers DomainHandlers) Router {
	return Router{
		DomainHandlers: domainHandlers,
	}
}
