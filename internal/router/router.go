package router

import (
	"time"

	"github.com/Azmii1122/Rumah-Rasa-Project/internal/config"
	"github.com/Azmii1122/Rumah-Rasa-Project/internal/handler"
	"github.com/Azmii1122/Rumah-Rasa-Project/internal/middleware"
	"github.com/Azmii1122/Rumah-Rasa-Project/internal/repository"
	"github.com/Azmii1122/Rumah-Rasa-Project/internal/service"
	"github.com/Azmii1122/Rumah-Rasa-Project/internal/worker"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Store ← DB/Redis
// rdb and dispatcher may be nil when Redis is not configured.
func New(cfg *config.Config, store repository.Store, rdb *redis.Client, dispatcher *worker.Dispatcher) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS())
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.RateLimiter(cfg.RateLimitPerMinute, time.Minute))

	// ── Services ─────────────────────────────────────────────────────────────
	cache := service.NewProductCache(rdb, cfg.ProductsCacheTTL)
	ledger := service.NewStockLedger(cfg.StockFloorPolicy)
	coord := service.NewCoordinator(store, ledger, cfg.SalePricePolicy, cache, dispatcher)
	recipeSvc := service.NewRecipeService(store, cache)
	catalogSvc := service.NewCatalogService(store, cache)
	supplierSvc := service.NewSupplierService(store)
	reportSvc := service.NewReportService(store)

	// ── Handlers ─────────────────────────────────────────────────────────────
	workflowH := handler.NewWorkflowHandler(coord)
	recipesH := handler.NewRecipesHandler(recipeSvc)
	catalogH := handler.NewCatalogHandler(catalogSvc)
	suppliersH := handler.NewSuppliersHandler(supplierSvc)
	reportsH := handler.NewReportsHandler(reportSvc)

	// ── Routes ───────────────────────────────────────────────────────────────
	r.GET("/health", handler.Health(store, rdb))

	api := r.Group("/api")
	{
		// Stock workflows: each one is a single unit of work
		api.POST("/production", workflowH.Produce)
		api.POST("/purchases", workflowH.ReceivePurchase)
		api.POST("/transaction", workflowH.Sell)
		api.GET("/transaction/:number/receipt", reportsH.Receipt)

		api.GET("/recipes", recipesH.List)
		api.GET("/recipes/:productId", recipesH.Get)
		api.PUT("/recipes/:productId", recipesH.Replace)

		inv := api.Group("/inventory")
		{
			inv.GET("", catalogH.ListItems)
			inv.POST("", catalogH.CreateItem)
			inv.GET("/alerts", catalogH.Alerts)
			inv.GET("/movements", catalogH.Movements)
		}

		api.GET("/units", catalogH.ListUnits)
		api.POST("/units", catalogH.CreateUnit)
		api.GET("/products", catalogH.ListProducts)
		api.POST("/variants", catalogH.CreateVariant)

		api.GET("/suppliers", suppliersH.List)
		api.POST("/suppliers", suppliersH.Create)
		api.GET("/purchases", suppliersH.ListPurchases)

		api.GET("/reports", reportsH.Summary)
	}

	return r
}
