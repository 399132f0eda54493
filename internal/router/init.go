package router

import (
	"github.com/gin-gonic/gin"

	"github.com/atlastrek/tours-api/internal/application"
	"github.com/atlastrek/tours-api/internal/container"
	"github.com/atlastrek/tours-api/internal/domain/entity"
	"github.com/atlastrek/tours-api/internal/infrastructure/payment"
	pginfra "github.com/atlastrek/tours-api/internal/infrastructure/postgres"
	handlers "github.com/atlastrek/tours-api/internal/interface/http"
	"github.com/atlastrek/tours-api/internal/interface/middleware"
	"github.com/atlastrek/tours-api/internal/router/modules"
	"github.com/atlastrek/tours-api/pkg/helpers"
	"github.com/atlastrek/tours-api/pkg/mailer"
)

// InitModules builds every feature module from the container singletons and
// registers it with the router registry. Called once during startup.
func InitModules(r *Registry) {
	cfg := container.GetConfig()
	logger := container.GetLogger()
	pool := container.GetPGPool()

	users := pginfra.NewUserRepository(pool)
	tours := pginfra.NewTourRepository(pool)
	reviews := pginfra.NewReviewRepository(pool)
	bookings := pginfra.NewBookingRepository(pool)

	// Interface fields must stay nil when the backing client was never
	// constructed, otherwise the nil checks downstream see a typed non-nil.
	var mailSender mailer.Sender
	if mg := container.GetMailgun(); mg != nil {
		mailSender = mg
	}
	var queue application.QueuePublisher
	if pub := container.GetRabbitPub(); pub != nil {
		queue = pub
	}

	authSvc := application.NewAuthService(
		users,
		mailSender,
		queue,
		logger,
		cfg.ResetPasswordURL,
		cfg.FrontendURL,
		cfg.MailSendEnabled,
	)
	userSvc := application.NewUserService(users, container.GetGCS(), cfg.GCSBucket, logger)
	tourSvc := application.NewTourService(tours, container.GetGCS(), cfg.GCSBucket, container.GetES(), cfg.ESToursIndex, logger)
	reviewSvc := application.NewReviewService(reviews, tours, logger)

	checkout := payment.NewHostedClient(cfg.CheckoutEndpoint, cfg.CheckoutAPIKey)
	bookingSvc := application.NewBookingService(bookings, tours, checkout, logger, cfg.FrontendURL, cfg.CheckoutCurrency)

	base := handlers.Base{Logger: logger, Env: cfg.Env}
	cookies := helpers.NewCookie(cfg.CookieDomain, cfg.CookieSecure)

	authHandler := handlers.NewAuthHandler(base, authSvc, container.GetJWT(), cookies)
	userHandler := handlers.NewUserHandler(base, users, userSvc)
	reviewHandler := handlers.NewReviewHandler(base, reviews, reviewSvc)
	tourHandler := handlers.NewTourHandler(base, tours, tourSvc)
	bookingHandler := handlers.NewBookingHandler(base, bookings, bookingSvc)

	protect := middleware.Protect(users, container.GetJWT(), logger, cfg.Env)
	maybeAuth := middleware.MaybeAuth(users, container.GetJWT())
	restrict := func(roles ...entity.Role) gin.HandlerFunc {
		return middleware.RestrictTo(logger, cfg.Env, roles...)
	}
	admin := restrict(entity.RoleAdmin)

	r.Add(modules.NewUserModule(authHandler, userHandler, protect, admin))
	r.Add(modules.NewTourModule(tourHandler, reviewHandler, protect, maybeAuth, restrict))
	r.Add(modules.NewReviewModule(reviewHandler, protect, restrict))
	r.Add(modules.NewBookingModule(bookingHandler, protect, restrict))
}
