package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/unicornstore/prebook/internal/api/handlers"
	"github.com/unicornstore/prebook/internal/api/middleware"
	"github.com/unicornstore/prebook/internal/config"
	"github.com/unicornstore/prebook/internal/metrics"
	"github.com/unicornstore/prebook/internal/repository"
)

// Services are the application services the routes delegate to
type Services struct {
	Leads   handlers.LeadCreator
	Catalog handlers.CatalogReader
}

// NewRouter creates and configures the Gin router. repos may be nil when no
// database is configured; the admin routes are left out then.
func NewRouter(cfg *config.Config, svc Services, repos *repository.Repositories, logger *zap.Logger) *gin.Engine {
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Middleware
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(loggingMiddleware(logger))
	router.Use(middleware.CORS(cfg.CORSOrigins))

	router.GET("/health", handlers.HandleHealth())
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := router.Group("/api")
	{
		api.POST("/create-lead", handlers.HandleCreateLead(svc.Leads, logger))
		api.GET("/store", handlers.HandleGetStore(cfg.StoreID, logger))

		catalog := api.Group("/catalog")
		{
			catalog.GET("", handlers.HandleCatalogCounts(svc.Catalog))
			catalog.GET("/resolve", handlers.HandleResolveVariant(svc.Catalog, logger))
			catalog.GET("/search", handlers.HandleSearchProducts(svc.Catalog))
			catalog.GET("/:category", handlers.HandleListProducts(svc.Catalog, logger))
			catalog.GET("/:category/:model/options", handlers.HandleProductOptions(svc.Catalog, logger))
		}
	}

	if repos != nil && repos.LeadSubmission != nil && cfg.Admin.APIKeyHash != "" {
		admin := router.Group("/v1/admin")
		admin.Use(middleware.AdminAuth(cfg.Admin.APIKeyHash, logger))
		{
			admin.GET("/leads", handlers.HandleListLeadSubmissions(repos, logger))
			admin.GET("/leads/:id", handlers.HandleGetLeadSubmission(repos, logger))
		}
	} else {
		logger.Info("Admin routes disabled", zap.Bool("database", repos != nil))
	}

	return router
}

// loggingMiddleware logs HTTP requests and counts them by route
func loggingMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		method := c.Request.Method

		c.Next()

		status := c.Writer.Status()
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		// Preflights abort before reaching a route
		if method == http.MethodOptions {
			route = "preflight"
		}
		metrics.HTTPRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()

		logger.Info("HTTP request",
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status", status),
			zap.Duration("latency", time.Since(start)),
			zap.String("request_id", middleware.GetRequestID(c)),
		)
	}
}
