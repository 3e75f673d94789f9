package main

import (
	"context"
	"fmt"
	"log"

	"github.com/perfmaster/perf_go_server/config"
	"github.com/perfmaster/perf_go_server/internal/api"
	"github.com/perfmaster/perf_go_server/internal/api/handler"
	"github.com/perfmaster/perf_go_server/internal/database"
	pkgcron "github.com/perfmaster/perf_go_server/internal/pkg/cron"
	"github.com/perfmaster/perf_go_server/internal/pkg/pubsub"
	"github.com/perfmaster/perf_go_server/internal/pkg/queue"
	"github.com/perfmaster/perf_go_server/internal/pkg/ws"
	"github.com/perfmaster/perf_go_server/internal/repository"
	"github.com/perfmaster/perf_go_server/internal/service"
)

func main() {
	// 加载配置
	cfg, err := config.Load("config.yaml")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// 初始化数据库
	db, err := database.NewMySQL(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect database: %v", err)
	}
	if err := database.AutoMigrate(db); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}
	log.Println("Database connected")

	// 初始化 Redis
	rdb, err := database.NewRedis(&cfg.Redis)
	if err != nil {
		log.Fatalf("Failed to connect redis: %v", err)
	}
	log.Println("Redis connected")

	// 初始化 Queue
	jobQueue := queue.NewQueue(rdb, cfg.Queue.AnalysisQueue)

	// 初始化 WebSocket Hub
	hub := ws.NewHub()
	log.Println("WebSocket hub started")

	// 订阅 worker 的任务进度，转发到项目广播组
	subscriber := pubsub.NewSubscriber(rdb)
	go func() {
		err := subscriber.Subscribe(context.Background(), func(event *pubsub.JobEventMessage) {
			hub.Broadcast(event.ProjectID, &ws.Message{
				Type: ws.MessageJobUpdate,
				Data: event,
			}, nil)
		})
		if err != nil && err != context.Canceled {
			log.Printf("Job event subscriber stopped: %v", err)
		}
	}()

	// 初始化 Repository
	userRepo := repository.NewUserRepository(db)
	projectRepo := repository.NewProjectRepository(db)
	metricRepo := repository.NewMetricRepository(db)
	jobRepo := repository.NewJobRepository(db)
	analysisRepo := repository.NewAnalysisRepository(db)

	// 初始化 Service
	authService := service.NewAuthService(userRepo, cfg)
	projectService := service.NewProjectService(projectRepo)
	metricService := service.NewMetricService(metricRepo, projectService)
	aiService := service.NewAIService(jobRepo, analysisRepo, projectService, jobQueue)

	// 初始化 Handler
	authHandler := handler.NewAuthHandler(authService)
	projectHandler := handler.NewProjectHandler(projectService)
	metricHandler := handler.NewMetricHandler(metricService)
	aiHandler := handler.NewAIHandler(aiService)
	websocketHandler := handler.NewWebSocketHandler(hub, metricService, projectService, cfg.JWT.Secret, cfg.Realtime)

	// 启动定时任务（指标保留期 + 卡死任务对账）
	cronService := pkgcron.NewService(metricRepo, jobRepo, cfg.Cleanup.MetricRetentionDays, cfg.Cleanup.StuckJobTimeoutMinutes)
	cronService.Start()
	defer cronService.Stop()

	// 初始化 Router
	router := api.NewRouter(
		authHandler,
		projectHandler,
		metricHandler,
		aiHandler,
		websocketHandler,
		cfg,
	)
	engine := router.Setup()

	// 启动服务器
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	log.Printf("Server starting on %s", addr)
	if err := engine.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
