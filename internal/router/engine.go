package router

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"up2you.app/storefront/pkg/ai"
	"up2you.app/storefront/pkg/cart"
	"up2you.app/storefront/pkg/inventory"
)

// Deps are the collaborators the HTTP layer calls into.
type Deps struct {
	Inventory *inventory.Store
	Carts     *cart.Manager
	Reports   *ai.Service
	Metrics   *Metrics
	Logger    *slog.Logger

	AdminTokenHash    []byte
	UploadDir         string
	AllowedOrigins    []string
	LowStockThreshold int
	Release           bool

	// Now stamps uploaded file names. Defaults to time.Now.
	Now func() time.Time
}

type Router struct {
	engine    *gin.Engine
	inventory *inventory.Store
	carts     *cart.Manager
	reports   *ai.Service
	metrics   *Metrics
	logger    *slog.Logger

	uploadDir         string
	lowStockThreshold int
	now               func() time.Time
}

// New builds the gin engine and registers every route.
func New(deps Deps) *Router {
	if deps.Release {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	if deps.Metrics == nil {
		deps.Metrics = NewMetrics()
	}
	if deps.Reports == nil {
		deps.Reports = ai.NewService(ai.Config{}, deps.Logger)
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}

	r := &Router{
		engine:            gin.New(),
		inventory:         deps.Inventory,
		carts:             deps.Carts,
		reports:           deps.Reports,
		metrics:           deps.Metrics,
		logger:            deps.Logger.With("component", "http"),
		uploadDir:         deps.UploadDir,
		lowStockThreshold: deps.LowStockThreshold,
		now:               deps.Now,
	}

	r.engine.Use(gin.Recovery(), r.metrics.Middleware(), RequestLogger(r.logger))
	r.engine.Use(cors.New(cors.Config{
		AllowOrigins:     deps.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Requested-With", AdminTokenHeader},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition", "X-Total-Count"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	r.routes(AdminOnly(deps.AdminTokenHash))
	return r
}

// Handler exposes the engine for http.Server and httptest.
func (r *Router) Handler() http.Handler {
	return r.engine
}

func (r *Router) routes(admin gin.HandlerFunc) {
	r.engine.GET("/health", r.healthCheck)
	r.engine.GET("/metrics", r.serveMetrics)
	if r.uploadDir != "" {
		r.engine.Static("/uploads", r.uploadDir)
	}

	api := r.engine.Group("/api")
	{
		api.GET("/health", r.healthCheck)
		api.GET("/categories", r.listCategories)

		items := api.Group("/items")
		{
			items.GET("", r.listItems)
			items.GET("/:id", r.getItem)
			items.POST("", admin, r.createItem)
			items.PUT("/:id", admin, r.updateItem)
			items.DELETE("/:id", admin, r.deleteItem)
		}

		stats := api.Group("/stats")
		{
			stats.GET("", r.getStats)
			stats.GET("/low-stock", r.getLowStock)
			stats.GET("/report", r.getReport)
		}

		api.GET("/export/csv", r.exportCSV)

		carts := api.Group("/cart")
		{
			carts.GET("/:sessionId", r.getCart)
			carts.POST("/:sessionId/items", r.addToCart)
			carts.PUT("/:sessionId/items/:lineId", r.updateCartItem)
			carts.DELETE("/:sessionId/items/:lineId", r.removeFromCart)
			carts.DELETE("/:sessionId/clear", r.clearCart)
		}

		api.GET("/metrics", r.serveMetrics)
	}
}
