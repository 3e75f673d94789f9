package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/perfmaster/perf_go_server/config"
	"github.com/perfmaster/perf_go_server/internal/api/middleware"
	"github.com/perfmaster/perf_go_server/internal/pkg/jwt"
	"github.com/perfmaster/perf_go_server/internal/pkg/queue"
	"github.com/perfmaster/perf_go_server/internal/pkg/response"
	"github.com/perfmaster/perf_go_server/internal/repository"
	"github.com/perfmaster/perf_go_server/internal/service"
	"github.com/perfmaster/perf_go_server/internal/testutil"
)

const testJWTSecret = "handler-test-secret"

func init() {
	gin.SetMode(gin.TestMode)
}

// testEnv 完整的 handler 测试环境：SQLite + miniredis + 真实 service 栈
type testEnv struct {
	engine   *gin.Engine
	db       *gorm.DB
	jobQueue *queue.Queue
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db := testutil.SetupTestDB(t)
	t.Cleanup(func() { testutil.CleanupTestDB(t, db) })

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	jobQueue := queue.NewQueue(client, "test_analysis_jobs")

	cfg := &config.Config{}
	cfg.JWT.Secret = testJWTSecret
	cfg.JWT.ExpireHours = 24

	userRepo := repository.NewUserRepository(db)
	projectRepo := repository.NewProjectRepository(db)
	metricRepo := repository.NewMetricRepository(db)
	jobRepo := repository.NewJobRepository(db)
	analysisRepo := repository.NewAnalysisRepository(db)

	authService := service.NewAuthService(userRepo, cfg)
	projectService := service.NewProjectService(projectRepo)
	metricService := service.NewMetricService(metricRepo, projectService)
	aiService := service.NewAIService(jobRepo, analysisRepo, projectService, jobQueue)

	authHandler := NewAuthHandler(authService)
	projectHandler := NewProjectHandler(projectService)
	metricHandler := NewMetricHandler(metricService)
	aiHandler := NewAIHandler(aiService)

	engine := gin.New()
	api := engine.Group("/api/v1")
	{
		auth := api.Group("/auth")
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
		}

		authenticated := api.Group("")
		authenticated.Use(middleware.Auth(testJWTSecret))
		{
			projects := authenticated.Group("/projects")
			{
				projects.POST("", projectHandler.Create)
				projects.GET("", projectHandler.List)
				projects.GET("/:id", projectHandler.Get)
				projects.PUT("/:id", projectHandler.Update)
				projects.DELETE("/:id", projectHandler.Delete)
				projects.POST("/:id/metrics", metricHandler.Record)
				projects.GET("/:id/metrics", metricHandler.List)
				projects.GET("/:id/components", metricHandler.ListComponents)
			}

			ai := authenticated.Group("/ai")
			{
				ai.POST("/analyze-code", aiHandler.AnalyzeCode)
				ai.POST("/detect-patterns", aiHandler.DetectPatterns)
				ai.GET("/jobs/:id", aiHandler.GetJob)
				ai.GET("/analyses", aiHandler.ListAnalyses)
				ai.GET("/patterns", aiHandler.ListPatterns)
				ai.GET("/suggestions", aiHandler.ListSuggestions)
			}
		}
	}

	return &testEnv{engine: engine, db: db, jobQueue: jobQueue}
}

func (e *testEnv) tokenFor(t *testing.T, userID int64) string {
	t.Helper()

	token, err := jwt.GenerateToken(userID, testJWTSecret, 1)
	require.NoError(t, err)
	return token
}

func (e *testEnv) doJSON(t *testing.T, method, path, token string, body interface{}) response.Response {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	e.engine.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var resp response.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}
