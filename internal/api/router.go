package api

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/triply/content-engine/internal/config"
	"github.com/triply/content-engine/internal/metrics"
	"github.com/triply/content-engine/internal/service"
)

// HealthChecker reports backing-store liveness and pool statistics for
// the health endpoint. *database.DB satisfies it; tests pass nil.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
	Stats() sql.DBStats
}

// NewRouter creates and configures the Gin router
func NewRouter(services *service.Services, cfg *config.Config, log zerolog.Logger, collector metrics.Collector, registry *prometheus.Registry, health HealthChecker) *gin.Engine {
	// Set Gin mode
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()

	// Middleware
	router.Use(recoveryMiddleware(log))
	router.Use(loggingMiddleware(log))
	router.Use(metricsMiddleware(collector))
	router.Use(rateLimitMiddleware(&cfg.RateLimit))
	router.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Handlers
	queueHandler := NewQueueHandler(services, log)
	postHandler := NewPostHandler(services, log)
	contentHandler := NewContentHandler(services, log)

	// Health check and metrics
	router.GET("/health", healthCheck(health))
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))

	auth := operatorAuth(&cfg.Operator)

	// API v1
	v1 := router.Group("/v1")
	{
		// Content queue endpoints
		queue := v1.Group("/queue")
		{
			queue.POST("", auth, queueHandler.CreateQueueItem)
			queue.GET("", queueHandler.ListQueue)
			queue.GET("/:id", queueHandler.GetQueueItem)
			queue.PUT("/:id", auth, queueHandler.UpdateQueueItem)
			queue.DELETE("/:id", auth, queueHandler.DeleteQueueItem)
			queue.POST("/:id/transition", auth, queueHandler.TransitionQueueItem)
			queue.GET("/:id/graph", queueHandler.GetClusterGraph)
		}

		// Topic cluster endpoints
		hubs := v1.Group("/hubs")
		{
			hubs.GET("/:slug/descendants", queueHandler.GetHubDescendants)
		}

		// Batch scheduling endpoints
		batches := v1.Group("/batches")
		{
			batches.GET("/:batch/due", queueHandler.GetBatchDue)
		}

		// Post endpoints
		posts := v1.Group("/posts")
		{
			posts.POST("", auth, postHandler.CreatePost)
			posts.GET("/:id", postHandler.GetPost)
			posts.PUT("/:id", auth, postHandler.UpdatePost)
			posts.POST("/:id/score", auth, postHandler.ScorePost)
		}

		// Taxonomy endpoints
		categories := v1.Group("/categories")
		{
			categories.POST("", auth, contentHandler.CreateCategory)
			categories.GET("", contentHandler.ListCategories)
		}
		tags := v1.Group("/tags")
		{
			tags.POST("", auth, contentHandler.CreateTag)
			tags.GET("", contentHandler.ListTags)
		}
		authors := v1.Group("/authors")
		{
			authors.POST("", auth, contentHandler.CreateAuthor)
			authors.GET("", contentHandler.ListAuthors)
		}

		// Media metadata endpoints
		media := v1.Group("/media")
		{
			media.POST("", auth, contentHandler.CreateMedia)
			media.GET("/:id", contentHandler.GetMedia)
		}
	}

	return router
}

// healthCheck returns the health status
func healthCheck(health HealthChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		response := gin.H{
			"status":    "healthy",
			"timestamp": time.Now().Format(time.RFC3339),
			"service":   "content-engine",
		}
		if health != nil {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
			defer cancel()
			if err := health.HealthCheck(ctx); err != nil {
				response["status"] = "degraded"
				response["database"] = err.Error()
				c.JSON(http.StatusServiceUnavailable, response)
				return
			}
			stats := health.Stats()
			response["database"] = gin.H{
				"open_connections": stats.OpenConnections,
				"in_use":           stats.InUse,
				"idle":             stats.Idle,
			}
		}
		c.JSON(http.StatusOK, response)
	}
}
