package api

import (
	"github.com/gin-gonic/gin"

	"github.com/perfmaster/perf_go_server/config"
	"github.com/perfmaster/perf_go_server/internal/api/handler"
	"github.com/perfmaster/perf_go_server/internal/api/middleware"
)

type Router struct {
	authHandler      *handler.AuthHandler
	projectHandler   *handler.ProjectHandler
	metricHandler    *handler.MetricHandler
	aiHandler        *handler.AIHandler
	websocketHandler *handler.WebSocketHandler
	cfg              *config.Config
}

func NewRouter(
	authHandler *handler.AuthHandler,
	projectHandler *handler.ProjectHandler,
	metricHandler *handler.MetricHandler,
	aiHandler *handler.AIHandler,
	websocketHandler *handler.WebSocketHandler,
	cfg *config.Config,
) *Router {
	return &Router{
		authHandler:      authHandler,
		projectHandler:   projectHandler,
		metricHandler:    metricHandler,
		aiHandler:        aiHandler,
		websocketHandler: websocketHandler,
		cfg:              cfg,
	}
}

func (r *Router) Setup() *gin.Engine {
	if r.cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(middleware.CORS(r.cfg.CORS))

	api := engine.Group("/api/v1")
	{
		// WebSocket（token 走 query）
		api.GET("/ws", r.websocketHandler.Handle)

		// 公开接口 - 认证
		auth := api.Group("/auth")
		{
			auth.POST("/register", r.authHandler.Register)
			auth.POST("/login", r.authHandler.Login)
		}

		// 需要认证的接口
		authenticated := api.Group("")
		authenticated.Use(middleware.Auth(r.cfg.JWT.Secret))
		{
			// 项目
			projects := authenticated.Group("/projects")
			{
				projects.POST("", r.projectHandler.Create)
				projects.GET("", r.projectHandler.List)
				projects.GET("/:id", r.projectHandler.Get)
				projects.PUT("/:id", r.projectHandler.Update)
				projects.DELETE("/:id", r.projectHandler.Delete)
				projects.POST("/:id/metrics", r.metricHandler.Record)
				projects.GET("/:id/metrics", r.metricHandler.List)
				projects.GET("/:id/components", r.metricHandler.ListComponents)
			}

			// AI 分析
			ai := authenticated.Group("/ai")
			{
				ai.POST("/analyze-code", r.aiHandler.AnalyzeCode)
				ai.POST("/detect-patterns", r.aiHandler.DetectPatterns)
				ai.GET("/jobs/:id", r.aiHandler.GetJob)
				ai.GET("/analyses", r.aiHandler.ListAnalyses)
				ai.GET("/patterns", r.aiHandler.ListPatterns)
				ai.GET("/suggestions", r.aiHandler.ListSuggestions)
			}
		}
	}

	return engine
}
