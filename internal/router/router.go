// Package router assembles the FinBridge HTTP API.
package router

import (
	"net/http"
	"slices"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"

	"finbridge/internal/config"
	_ "finbridge/internal/docs" // registers the swagger spec
	"finbridge/internal/handlers"
	"finbridge/internal/metrics"
	"finbridge/internal/middleware"
	"finbridge/internal/personality"
	"finbridge/internal/services"
	"finbridge/internal/validator"
)

// Deps are the shared resources the API is built from. Metrics and Catalog
// are optional.
type Deps struct {
	DB      *gorm.DB
	Config  *config.Config
	Metrics *metrics.Metrics
	Catalog *personality.Catalog
	Options []services.Option
}

// New builds the Gin engine with middleware and every route.
func New(d Deps) *gin.Engine {
	opts := append([]services.Option{services.WithMetrics(d.Metrics)}, d.Options...)
	if d.Catalog != nil {
		opts = append(opts, services.WithCatalog(d.Catalog))
	}

	healthService := services.NewHealthScoreService(d.DB, opts...)
	personalityService := services.NewPersonalityService(d.DB, opts...)
	alertService := services.NewAlertService(d.DB, opts...)
	auditService := services.NewAuditService(d.DB)

	healthHandler := handlers.NewHealthScoreHandler(healthService, auditService)
	personalityHandler := handlers.NewPersonalityHandler(personalityService, auditService)
	alertHandler := handlers.NewAlertHandler(alertService, auditService)
	pipelineHandler := handlers.NewPipelineHandler(healthService)

	validator.Register()

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogging(d.Metrics))
	r.Use(middleware.ErrorHandler())
	r.Use(cors.New(corsConfig(d.Config.CORSAllowedOrigins)))

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	if d.Config.MetricsEnabled {
		r.GET("/metrics", gin.WrapH(d.Metrics.Handler()))
	}
	r.GET("/api/health", liveness(d.DB))

	v1 := r.Group("/api/v1")

	protected := v1.Group("")
	protected.Use(middleware.AuthMiddleware(middleware.AuthOptions{
		JWTSecret:       d.Config.SupabaseJWTSecret,
		AllowUserHeader: d.Config.AllowUserHeader,
	}))

	score := protected.Group("/health-score")
	score.GET("", healthHandler.GetHealthScore)
	score.POST("/calculate", healthHandler.CalculateHealthScore)
	score.GET("/history", healthHandler.GetScoreHistory)
	score.GET("/breakdown", healthHandler.GetBreakdown)
	protected.GET("/resilience/insights", healthHandler.GetResilienceInsights)

	profiler := protected.Group("/personality-profiler")
	profiler.POST("/assessment", personalityHandler.SubmitAssessment)
	profiler.GET("/profile", personalityHandler.GetProfile)
	profiler.GET("/types", personalityHandler.ListTypes)
	profiler.GET("/challenges", personalityHandler.ListChallenges)
	profiler.POST("/challenges/generate", personalityHandler.GenerateChallenges)
	profiler.PUT("/challenges/:id/progress", personalityHandler.UpdateChallengeProgress)
	profiler.GET("/insights", personalityHandler.GetBehavioralInsights)

	alerts := protected.Group("/alerts")
	alerts.GET("", alertHandler.ListAlerts)
	alerts.POST("", alertHandler.CreateAlert)
	alerts.GET("/upcoming", alertHandler.GetUpcomingAlerts)
	alerts.POST("/generate", alertHandler.GenerateAutomaticAlerts)
	alerts.GET("/settings", alertHandler.GetAlertSettings)
	alerts.PUT("/settings", alertHandler.UpdateAlertSettings)
	alerts.PATCH("/:id", alertHandler.UpdateAlert)
	alerts.PATCH("/:id/read", alertHandler.MarkAlertRead)
	alerts.DELETE("/:id", alertHandler.DeleteAlert)

	pipeline := v1.Group("/pipeline")
	pipeline.Use(middleware.PipelineAuthMiddleware(d.Config.PipelineAPIKey))
	pipeline.POST("/health-scores/recalculate", pipelineHandler.RecalculateHealthScores)

	return r
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Authorization", "X-User-ID", "X-API-Key", "X-Request-ID"},
		ExposeHeaders: []string{"X-Request-ID"},
	}
	if len(origins) == 0 || slices.Contains(origins, "*") {
		cfg.AllowAllOrigins = true
		return cfg
	}
	cfg.AllowOrigins = origins
	cfg.AllowCredentials = true
	return cfg
}

func liveness(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		sqlDB, err := db.DB()
		if err == nil {
			err = sqlDB.PingContext(c.Request.Context())
		}
		if err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "database": "unreachable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok", "message": "FinBridge API is running"})
	}
}
