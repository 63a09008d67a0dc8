package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/etell/placement-backend/internal/config"
	"github.com/etell/placement-backend/internal/handler"
	"github.com/etell/placement-backend/internal/logging"
	"github.com/etell/placement-backend/internal/middleware"
	"github.com/etell/placement-backend/internal/observability"
)

// Deps are the collaborators the router wires into routes
type Deps struct {
	Config   *config.Config
	Logger   *logging.Logger
	Metrics  *observability.Collector
	Limiter  *middleware.RateLimiter
	Sessions *handler.SessionHandler
	Layouts  *handler.LayoutHandler
}

// SetupRouter 设置路由
func SetupRouter(d Deps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.Logger(d.Logger))

	// CORS 中间件
	r.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PATCH, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	})

	// 健康检查
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"message": "E-tell placement API is running",
			"version": d.Config.Version,
		})
	})
	r.GET("/metrics", gin.WrapH(d.Metrics.Handler()))

	api := r.Group("/api/v1")
	api.Use(middleware.Auth(d.Config.JWTSecret, d.Config.AuthEnabled), middleware.RateLimit(d.Limiter))
	{
		sessions := api.Group("/sessions")
		{
			sessions.POST("", d.Sessions.CreateSession)
			sessions.GET("", d.Sessions.ListSessions)
			sessions.GET("/:id", d.Sessions.GetSession)
			sessions.POST("/:id/samples", d.Sessions.AddSample)
			sessions.POST("/:id/end", d.Sessions.EndSession)
			sessions.POST("/:id/analysis", d.Sessions.AnalyzePlacement)
			sessions.POST("/:id/layout", d.Layouts.BuildLayout)
		}

		api.GET("/analysis/:id", d.Sessions.GetAnalysis)

		layouts := api.Group("/layouts")
		{
			layouts.GET("/:id", d.Layouts.GetLayout)
			layouts.PATCH("/:id/rooms/:roomId", d.Layouts.UpdateRoom)
			layouts.POST("/:id/analysis", d.Layouts.AnalyzeLayout)
		}
	}

	return r
}
