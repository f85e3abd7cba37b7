package main

import (
	"log"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"spacebook/internal/config"
	"spacebook/internal/database"
	"spacebook/internal/middleware"
	"spacebook/internal/modules/availability"
	"spacebook/internal/modules/booking"
	"spacebook/internal/modules/catalog"
	"spacebook/internal/notify"
	jwtsvc "spacebook/internal/pkg/jwt"
	"spacebook/internal/repository"
	"spacebook/internal/sweeper"
)

func main() {
	cfg := config.Load()

	db, err := database.Connect(cfg.DatabaseDSN)
	if err != nil {
		log.Fatal(err)
	}
	if err := repository.Migrate(db); err != nil {
		log.Fatal(err)
	}

	spaceRepo := repository.NewSpaceRepository(db)
	cachedSpaces := repository.NewCachedSpaceRepository(spaceRepo, cfg.SpaceCacheTTL)
	bookingRepo := repository.NewBookingRepository(db)
	addonRepo := repository.NewAddonServiceRepository(db)

	j := jwtsvc.New(cfg.JWTSecret, 24*time.Hour)

	var sender notify.Sender
	if cfg.SendGridAPIKey != "" {
		sender = notify.NewSendGridSender(cfg.SendGridAPIKey, cfg.EmailFrom, cfg.EmailFromName)
	} else {
		sender = notify.NewLogSender()
	}

	catalogService := catalog.NewService(cachedSpaces)
	catalogHandler := catalog.NewHandler(catalogService)

	calc := booking.NewCalculator(cfg.DailyRateThreshold)
	bookingService := booking.NewService(bookingRepo, cachedSpaces, addonRepo, sender, calc)
	bookingHandler := booking.NewHandler(bookingService)

	availabilityService := availability.NewService(spaceRepo, bookingRepo)
	availabilityHandler := availability.NewHandler(availabilityService)

	sw := sweeper.New(bookingRepo, cfg.SweepInterval, cfg.OverdueGrace, cfg.NoShowAfter)
	if err := sw.Start(); err != nil {
		log.Fatal(err)
	}
	defer sw.Stop()

	r := gin.Default()
	r.Use(middleware.CORS())
	r.Use(middleware.ErrorLogger())
	r.Use(middleware.RateLimiter(rate.Limit(cfg.RateLimitRPS), cfg.RateLimitBurst))

	v1 := r.Group("/api/v1")
	{
		// public reads
		catalogHandler.RegisterPublicRoutes(v1)
		availabilityHandler.RegisterRoutes(v1)

		// booking creation works for guests too, so auth is optional here
		guest := v1.Group("/")
		guest.Use(middleware.OptionalAuth(j))
		{
			bookingHandler.RegisterGuestRoutes(guest)
		}

		protected := v1.Group("/")
		protected.Use(middleware.JWTAuth(j))
		{
			bookingHandler.RegisterAuthRoutes(protected)
			catalogHandler.RegisterOwnerRoutes(protected)

			admin := protected.Group("/")
			admin.Use(middleware.RequireRole("admin"))
			{
				catalogHandler.RegisterAdminRoutes(admin)
			}
		}
	}

	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatal(err)
	}
}
