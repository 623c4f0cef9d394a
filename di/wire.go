//go:build wireinject
// +build wireinject

package di

import (
	"scheduler/config"
	"scheduler/infras/calendar/caldav"
	"scheduler/infras/calendar/google"
	"scheduler/infras/jwt"
	"scheduler/infras/kafka"
	"scheduler/infras/mailer"
	"scheduler/infras/otel"
	"scheduler/infras/postgres"
	"scheduler/infras/redis"
	"scheduler/permissions"
	"scheduler/shared/cache"
	"scheduler/transport/event"
	"scheduler/transport/http"
	"scheduler/transport/http/middleware"
	"scheduler/transport/http/router"

	availabilityRepository "scheduler/internal/domains/availability/repository"
	availabilityService "scheduler/internal/domains/availability/service"
	bookingRepository "scheduler/internal/domains/booking/repository"
	bookingService "scheduler/internal/domains/booking/service"
	calendarRepository "scheduler/internal/domains/calendar/repository"
	calendarService "scheduler/internal/domains/calendar/service"
	linkRepository "scheduler/internal/domains/link/repository"
	linkService "scheduler/internal/domains/link/service"
	notificationService "scheduler/internal/domains/notification/service"
	slotService "scheduler/internal/domains/slot/service"

	"github.com/google/wire"

	availabilityHandler "scheduler/internal/handlers/availability"
	bookingHandler "scheduler/internal/handlers/booking"
	calendarHandler "scheduler/internal/handlers/calendar"
	linkHandler "scheduler/internal/handlers/link"
	slotHandler "scheduler/internal/handlers/slot"
)

var configurations = wire.NewSet(
	config.Get,
	permissions.Get,
)

var infrastructures = wire.NewSet(
	postgres.New,
	otel.New,
	redis.New,
	jwt.New,
	kafka.New,
	mailer.New,
	google.New,
	caldav.New,
	calendarProviders,
)

var middlewares = wire.NewSet(
	middleware.NewAppMiddleware,
	middleware.NewAuthRoleMiddleware,
)

var sharedHelpers = wire.NewSet(
	cache.NewRedisCache,
)

var availabilityDomain = wire.NewSet(
	availabilityRepository.New,
	availabilityService.New,
)

var linkDomain = wire.NewSet(
	linkRepository.New,
	linkService.New,
)

var calendarDomain = wire.NewSet(
	calendarRepository.New,
	calendarService.New,
)

var bookingDomain = wire.NewSet(
	bookingRepository.New,
	bookingService.New,
	slotService.New,
	notificationService.New,
)

var domains = wire.NewSet(
	availabilityDomain,
	linkDomain,
	calendarDomain,
	bookingDomain,
)

var routing = wire.NewSet(
	wire.Struct(new(router.DomainHandlers), "*"),
	availabilityHandler.New,
	linkHandler.New,
	calendarHandler.New,
	slotHandler.New,
	bookingHandler.New,
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

func InitializeConsumer() *event.Consumer {
	wire.Build(
		config.Get,
		otel.New,
		kafka.New,
		mailer.New,
		notificationService.New,
		event.New,
	)

	return &event.Consumer{}
}
