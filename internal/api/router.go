package api

import (
	"time"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	echoswagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/stashspace/booking-system/internal/api/handler"
	"github.com/stashspace/booking-system/internal/api/middleware"
	"github.com/stashspace/booking-system/internal/core/domain"
	"github.com/stashspace/booking-system/internal/core/ports"
	"github.com/stashspace/booking-system/internal/core/service"
	"github.com/stashspace/booking-system/internal/infrastructure/config"
	mongodb "github.com/stashspace/booking-system/internal/infrastructure/db/mongo"
	redisdb "github.com/stashspace/booking-system/internal/infrastructure/db/redis"
	"github.com/stashspace/booking-system/pkg/logger"
)

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(
	client *mongo.Client,
	db *mongo.Database,
	rdb *redis.Client,
	gateway ports.PaymentGateway,
	notifier ports.BookingNotifier,
	cfg *config.Config,
) *echo.Echo {
	log := logger.Get()

	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("booking"))

	// --- Repositories ---
	userRepo := mongodb.NewUserRepository(db)
	spaceRepo := mongodb.NewSpaceRepository(db)
	bookingRepo := mongodb.NewBookingRepository(db)
	convRepo := mongodb.NewConversationRepository(db)
	txRunner := mongodb.NewTxRunner(client)
	receipts := redisdb.NewReceiptStore(rdb)

	// --- Services ---
	convService := service.NewConversationService(convRepo, log)
	bookingService := service.NewBookingService(
		userRepo, spaceRepo, bookingRepo, convRepo,
		convService, gateway, receipts, txRunner, notifier,
		service.BookingConfig{
			Currency:      cfg.Stripe.Currency,
			PageSize:      cfg.Booking.PageSize,
			RejectOverlap: cfg.Booking.RejectOverlap,
		},
		log,
	)
	authService := service.NewAuthService(userRepo, gateway, cfg.JWTSecret, 24*time.Hour, log)

	// --- Handlers ---
	authHandler := handler.NewAuthHandler(authService)
	bookingHandler := handler.NewBookingHandler(bookingService)
	convHandler := handler.NewConversationHandler(convService)
	authRequired := middleware.Auth(cfg.JWTSecret)
	adminOnly := middleware.RBAC(domain.RoleAdmin)

	// --- Auth routes ---
	e.POST("/auth/register", authHandler.Register)
	e.POST("/auth/login", authHandler.Login)

	// --- Booking routes ---
	v1 := e.Group("/v1", authRequired)
	v1.POST("/bookings", bookingHandler.Create)
	v1.GET("/bookings", bookingHandler.ListAll, adminOnly)
	v1.GET("/bookings/:id", bookingHandler.Get)
	v1.GET("/users/:userId/bookings", bookingHandler.ListByUser)
	v1.GET("/owners/:ownerId/bookings", bookingHandler.ListByOwner)
	v1.GET("/managers/:managerId/bookings", bookingHandler.ListByManager)
	v1.GET("/spaces/:spaceId/bookings", bookingHandler.ListBySpace)

	// --- Conversation / messaging routes ---
	v1.POST("/conversations", convHandler.Start)
	v1.GET("/users/:userId/conversations", convHandler.ListByUser)
	v1.PATCH("/conversations/:id/members", convHandler.AddMember)
	v1.GET("/conversations/:id/messages", convHandler.ListMessages)
	v1.POST("/messages", convHandler.SendMessage)

	// --- Observability and docs ---
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoswagger.WrapHandler)

	// --- Health probes (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(db, rdb)

	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", readinessHandler.Readiness)

	return e
}
