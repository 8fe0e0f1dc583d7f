package router

import (
	"time"

	"l2lsales/internal/config"
	"l2lsales/internal/handler"
	"l2lsales/internal/infra"
	"l2lsales/internal/middleware"
	"l2lsales/internal/repository"
	"l2lsales/internal/service"
	"l2lsales/internal/worker"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
// rdb and dispatcher may be nil; the unit lock and the audit trail are then skipped.
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client, dispatcher *worker.Dispatcher) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS(cfg.AllowedOrigins(), cfg.Env == "production"))
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.NewRateLimiter(cfg.RateLimitPerMinute, time.Minute).Handler())

	// ── Infrastructure ───────────────────────────────────────────────────────
	loc, err := cfg.Location()
	if err != nil {
		// config.Load already rejected bad zones; only hand-built configs get here.
		log.Warn().Err(err).Msg("router: falling back to UTC business timezone")
		loc = time.UTC
	}
	locker := infra.NewLocker(rdb, cfg.UnitLockTTL())

	// The services take an interface; a nil *Dispatcher must stay a nil interface.
	var pub service.EventPublisher
	if dispatcher != nil {
		pub = dispatcher
	}

	// ── Repositories ─────────────────────────────────────────────────────────
	inventoryRepo := repository.NewInventoryRepository(db)
	chequeRepo := repository.NewChequeRepository(db)
	planRepo := repository.NewPlanRepository(db)
	auditRepo := repository.NewAuditRepository(db)

	// ── Services ─────────────────────────────────────────────────────────────
	stockSvc := service.NewStockService(inventoryRepo, locker, pub, service.WithLocation(loc))
	chequeSvc := service.NewChequeService(chequeRepo, pub, service.WithLocation(loc))
	planSvc := service.NewPlanService(planRepo, pub)
	statsSvc := service.NewStatsService(inventoryRepo, chequeRepo)
	auditSvc := service.NewAuditService(auditRepo)

	// ── Handlers ─────────────────────────────────────────────────────────────
	stocksH := handler.NewStocksHandler(stockSvc)
	chequesH := handler.NewChequesHandler(chequeSvc)
	plansH := handler.NewPlansHandler(planSvc)
	statsH := handler.NewStatsHandler(statsSvc)
	auditH := handler.NewAuditHandler(auditSvc)

	// ── Routes ───────────────────────────────────────────────────────────────

	// Public
	r.GET("/health", handler.Health(db, rdb, dispatcher))

	v1 := r.Group("/v1")
	if cfg.JWTSecret != "" {
		v1.Use(middleware.JWTAuth(cfg.JWTSecret))
	} else {
		log.Warn().Msg("router: JWT_SECRET not set, /v1 is unauthenticated")
	}
	registerV1(v1, stocksH, chequesH, plansH, statsH, auditH)

	// Swagger UI: only enabled outside production
	if cfg.Env != "production" {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}

func registerV1(
	v1 *gin.RouterGroup,
	stocksH *handler.StocksHandler,
	chequesH *handler.ChequesHandler,
	plansH *handler.PlansHandler,
	statsH *handler.StatsHandler,
	auditH *handler.AuditHandler,
) {
	stocks := v1.Group("/stocks")
	{
		stocks.POST("", stocksH.Create)
		stocks.GET("", stocksH.List)
		stocks.GET("/:id", stocksH.Get)
		stocks.PUT("/:id", stocksH.Update)
		stocks.DELETE("/:id", stocksH.Delete)
	}
	v1.GET("/units/:id", stocksH.GetUnit)

	cheques := v1.Group("/cheques")
	{
		cheques.POST("", chequesH.Create)
		cheques.GET("", chequesH.List)
		cheques.GET("/:id", chequesH.Get)
		cheques.PUT("/:id/send-to-bank", chequesH.SendToBank)
		cheques.PUT("/:id/bank-feedback", chequesH.BankFeedback)
	}

	plans := v1.Group("/plans")
	{
		plans.POST("", plansH.CreatePlan)
		plans.GET("", plansH.ListPlans)
		plans.GET("/:id", plansH.GetPlan)
		plans.GET("/:id/completion", plansH.Completion)
		plans.DELETE("/:id", plansH.DeletePlan)
		plans.POST("/:id/installments", plansH.AddInstallment)
	}

	installments := v1.Group("/installments")
	{
		installments.POST("/validate", plansH.ValidateInstallment)
		installments.PUT("/:id", plansH.UpdateInstallment)
		installments.DELETE("/:id", plansH.RemoveInstallment)
	}

	stats := v1.Group("/stats")
	{
		stats.GET("/units", statsH.Units)
		stats.GET("/cheques", statsH.Cheques)
	}

	v1.GET("/audit/:entity_type/:entity_id", auditH.History)
}
