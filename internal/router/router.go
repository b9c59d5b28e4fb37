package router

import (
	"time"

	"github.com/alceillini1999/Zaad.POS/internal/config"
	"github.com/alceillini1999/Zaad.POS/internal/handler"
	"github.com/alceillini1999/Zaad.POS/internal/infra"
	"github.com/alceillini1999/Zaad.POS/internal/middleware"
	"github.com/alceillini1999/Zaad.POS/internal/repository"
	"github.com/alceillini1999/Zaad.POS/internal/service"
	"github.com/alceillini1999/Zaad.POS/internal/store"
	"github.com/alceillini1999/Zaad.POS/internal/worker"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← RowStore/Redis
func New(cfg *config.Config, st store.RowStore, rdb *redis.Client, sheetsCB *infra.CircuitBreaker, loc *time.Location) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS())
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.RateLimiter(1000, time.Minute)) // 1000 req/min per IP

	// ── Repositories ─────────────────────────────────────────────────────────
	salesRepo := repository.NewSalesRepository(st, cfg.SalesTab)
	deliveryRepo := repository.NewDeliveryRepository(st, cfg.DeliveryTab)
	cashRepo := repository.NewCashRepository(st, cfg.CashOpenTab, cfg.CashCloseTab)
	clientRepo := repository.NewClientRepository(st, cfg.ClientsTab)

	// ── Services ─────────────────────────────────────────────────────────────
	seq := service.NewInvoiceSequencer(loc)
	authSvc := service.NewAuthService(cfg)
	loyaltySvc := service.NewLoyaltyService(clientRepo)
	salesSvc := service.NewSalesService(salesRepo, loyaltySvc, seq)
	cashSvc := service.NewCashService(cashRepo, salesRepo, seq, rdb)

	// Worker dispatcher — injected into services that enqueue async jobs
	var dispatcher service.CleanupDispatcher
	if rdb != nil {
		dispatcher = worker.NewDispatcher(rdb)
	}
	deliverySvc := service.NewDeliveryService(deliveryRepo, salesSvc, loyaltySvc, dispatcher)

	// ── Handlers ─────────────────────────────────────────────────────────────
	authH := handler.NewAuthHandler(authSvc)
	cashH := handler.NewCashHandler(cashSvc)
	salesH := handler.NewSalesHandler(salesSvc)
	deliveryH := handler.NewDeliveryHandler(deliverySvc)

	// ── Routes ───────────────────────────────────────────────────────────────

	// Public
	r.GET("/health", handler.Health(rdb, sheetsCB))
	r.POST("/api/auth/login", middleware.LoginRateLimiter(), authH.Login)

	// Protected routes
	api := r.Group("/api", middleware.JWTAuth(cfg.JWTSecret))
	{
		cash := api.Group("/cash")
		{
			cash.POST("/open", cashH.Open)
			cash.POST("/close", cashH.Close)
			cash.GET("/today", cashH.Today)
			cash.POST("/reconcile", cashH.Reconcile)
		}

		api.GET("/sales", salesH.List)
		api.POST("/sales", salesH.Record)

		api.GET("/delivery", deliveryH.List)
		api.POST("/delivery", deliveryH.Create)
		api.POST("/delivery/:id/pay", deliveryH.Pay)
	}

	return r
}
