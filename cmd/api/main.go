package main

import (
	"context"
	"log"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"

	"koskita/internal/config"
	"koskita/internal/database"
	"koskita/internal/jobs"
	"koskita/internal/middleware"
	"koskita/internal/modules/booking"
	"koskita/internal/modules/catalog"
	"koskita/internal/modules/ledger"
	"koskita/internal/modules/payment"
	"koskita/internal/modules/reconcile"
	jwtsvc "koskita/internal/pkg/jwt"
	"koskita/internal/repository"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.LoadRuntimeConfig()
	if err != nil {
		log.Fatal(err)
	}

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatal(err)
	}
	if err := database.Migrate(db); err != nil {
		log.Fatal("migration failed: ", err)
	}

	propertyRepo := repository.NewPropertyRepository(db)
	roomRepo := repository.NewRoomRepository(db)
	bookingRepo := repository.NewBookingRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)
	ledgerRepo := repository.NewLedgerRepository(db)

	j := jwtsvc.New(cfg.JWTSecret, cfg.JWTAccessTTL)

	bookingService := booking.NewService(bookingRepo, roomRepo, paymentRepo, ledgerRepo, cfg.PaymentWindow)
	bookingHandler := booking.NewHandler(bookingService)

	catalogService := catalog.NewService(propertyRepo, roomRepo)
	catalogHandler := catalog.NewHandler(catalogService)

	ledgerService := ledger.NewService(ledgerRepo)
	ledgerHandler := ledger.NewHandler(ledgerService)

	snapClient := payment.NewHTTPSnapClient(cfg.SnapBaseURL, cfg.MidtransServerKey)
	paymentService := payment.NewService(paymentRepo, bookingRepo, bookingService, ledgerRepo, snapClient, cfg.MidtransServerKey, log.Printf)
	paymentHandler := payment.NewHandler(paymentService, log.Printf)

	reconcileService := reconcile.NewService(paymentRepo, ledgerRepo, bookingRepo, log.Printf)
	reconcileHandler := reconcile.NewHandler(reconcileService)

	// Bootstrap system accounts and backfill any drifted entries on startup.
	// Initialize is idempotent, so reruns are safe.
	if result, err := reconcileService.Initialize(context.Background()); err != nil {
		log.Printf("startup_initialize status=error err=%v", err)
	} else {
		log.Printf("startup_initialize status=ok accounts_created=%d entries_backfilled=%d", result.AccountsCreated, result.EntriesBackfilled)
	}

	c := cron.New()
	if _, err := c.AddJob(cfg.ExpiryCronSpec, jobs.NewExpiryJob(bookingService)); err != nil {
		log.Fatal("schedule expiry sweep: ", err)
	}
	if _, err := c.AddJob(cfg.ReconcileCronSpec, jobs.NewReconcileJob(reconcileService)); err != nil {
		log.Fatal("schedule reconcile sweep: ", err)
	}
	c.Start()
	defer c.Stop()

	r := gin.New()
	r.Use(gin.Logger(), middleware.ErrorLogger(), middleware.CORS())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	v1 := r.Group("/api/v1")
	{
		// Gateway webhook authenticates itself by signature.
		paymentHandler.RegisterPublicRoutes(v1)

		protected := v1.Group("/")
		protected.Use(middleware.JWTAuth(j))
		{
			bookingHandler.RegisterRoutes(protected)
			paymentHandler.RegisterProtectedRoutes(protected)

			owners := protected.Group("/")
			owners.Use(middleware.RequireRole("superadmin", "adminkos"))
			{
				catalogHandler.RegisterRoutes(owners)
			}

			staff := protected.Group("/")
			staff.Use(middleware.StaffOnly())
			{
				ledgerHandler.RegisterRoutes(staff)
			}

			admin := protected.Group("/")
			admin.Use(middleware.RequireRole("superadmin", "adminkos"))
			{
				reconcileHandler.RegisterRoutes(admin)
			}
		}
	}

	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatal(err)
	}
}
