//go:build wireinject
// +build wireinject

package di

import (
	"hostel/config"
	"hostel/infras/broker"
	"hostel/infras/jwt"
	"hostel/infras/otel"
	"hostel/infras/postgres"
	"hostel/infras/redis"
	"hostel/infras/s3"
	"hostel/internal/worker"
	"hostel/permissions"
	"hostel/shared/cache"
	"hostel/transport/http"
	"hostel/transport/http/middleware"
	"hostel/transport/http/router"

	"github.com/google/wire"

	activityRepository "hostel/internal/domains/activity/repository"
	activityService "hostel/internal/domains/activity/service"
	activityBookingRepository "hostel/internal/domains/activitybooking/repository"
	activityBookingService "hostel/internal/domains/activitybooking/service"
	authService "hostel/internal/domains/auth/service"
	availabilityService "hostel/internal/domains/availability/service"
	bookingRepository "hostel/internal/domains/booking/repository"
	bookingService "hostel/internal/domains/booking/service"
	guestRepository "hostel/internal/domains/guest/repository"
	guestService "hostel/internal/domains/guest/service"
	offerRepository "hostel/internal/domains/offer/repository"
	offerService "hostel/internal/domains/offer/service"
	roomRepository "hostel/internal/domains/room/repository"
	roomService "hostel/internal/domains/room/service"
	userRepository "hostel/internal/domains/user/repository"
	userService "hostel/internal/domains/user/service"

	activityHandler "hostel/internal/handlers/activity"
	activityBookingHandler "hostel/internal/handlers/activitybooking"
	authHandler "hostel/internal/handlers/auth"
	availabilityHandler "hostel/internal/handlers/availability"
	bookingHandler "hostel/internal/handlers/booking"
	guestHandler "hostel/internal/handlers/guest"
	offerHandler "hostel/internal/handlers/offer"
	roomHandler "hostel/internal/handlers/room"
	userHandler "hostel/internal/handlers/user"
)

var configurations = wire.NewSet(
	config.Get,
	permissions.Get,
)

var infrastructures = wire.NewSet(
	postgres.New,
	postgres.NewTransactor,
	otel.New,
	redis.New,
	jwt.New,
	s3.New,
	broker.New,
)

var middlewares = wire.NewSet(
	middleware.NewAppMiddleware,
	middleware.NewAuthRoleMiddleware,
)

var sharedHelpers = wire.NewSet(
	cache.NewRedisCache,
)

var userDomain = wire.NewSet(
	userRepository.New,
	userService.New,
	authService.New,
)

var inventoryDomain = wire.NewSet(
	roomRepository.New,
	roomService.New,
	availabilityService.New,
	guestRepository.New,
	guestService.New,
)

var bookingDomain = wire.NewSet(
	bookingRepository.New,
	bookingService.New,
	offerRepository.New,
	offerService.New,
)

var activityDomain = wire.NewSet(
	activityRepository.New,
	activityService.New,
	activityBookingRepository.New,
	activityBookingService.New,
)

var domains = wire.NewSet(
	userDomain,
	inventoryDomain,
	bookingDomain,
	activityDomain,
)

var routing = wire.NewSet(
	wire.Struct(new(router.DomainHandlers), "*"),
	authHandler.New,
	userHandler.New,
	roomHandler.New,
	guestHandler.New,
	availabilityHandler.New,
	bookingHandler.New,
	offerHandler.New,
	activityHandler.New,
	activityBookingHandler.New,
	router.New,
)

func InitializeService() *http.HTTP {
	wire.Build(
		configurations,
		infrastructures,
		middlewares,
		sharedHelpers,
		domains,
		routing,
		http.New,
	)

	return &http.HTTP{}
}

func InitializeWorker() *worker.BookingEvents {
	wire.Build(
		config.Get,
		otel.New,
		redis.New,
		broker.New,
		sharedHelpers,
		worker.NewBookingEvents,
	)

	return &worker.BookingEvents{}
}
