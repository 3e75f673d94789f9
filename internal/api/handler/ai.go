package handler

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/perfmaster/perf_go_server/internal/api/middleware"
	"github.com/perfmaster/perf_go_server/internal/model"
	"github.com/perfmaster/perf_go_server/internal/model/dto"
	"github.com/perfmaster/perf_go_server/internal/pkg/response"
	"github.com/perfmaster/perf_go_server/internal/service"
)

type AIHandler struct {
	aiService *service.AIService
}

func NewAIHandler(aiService *service.AIService) *AIHandler {
	return &AIHandler{aiService: aiService}
}

// AnalyzeCode 提交代码分析任务
// POST /api/v1/ai/analyze-code
func (h *AIHandler) AnalyzeCode(c *gin.Context) {
	h.submit(c, model.JobTypeCodeAnalysis)
}

// DetectPatterns 提交模式检测任务
// POST /api/v1/ai/detect-patterns
func (h *AIHandler) DetectPatterns(c *gin.Context) {
	h.submit(c, model.JobTypePatternDetection)
}

func (h *AIHandler) submit(c *gin.Context, jobType string) {
	userID := middleware.GetUserID(c)

	var req dto.SubmitAnalysisRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		// 缺字段在任务创建前同步拒绝
		response.ParamError(c, "project_id, code_content and file_path are required")
		return
	}

	job, err := h.aiService.SubmitJob(c.Request.Context(), userID, jobType, &req)
	if err != nil {
		writeProjectError(c, err)
		return
	}

	response.Success(c, job)
}

// GetJob 查询任务状态
// GET /api/v1/ai/jobs/:id
func (h *AIHandler) GetJob(c *gin.Context) {
	userID := middleware.GetUserID(c)
	jobID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.ParamError(c, "")
		return
	}

	job, err := h.aiService.GetJob(userID, jobID)
	if err != nil {
		if errors.Is(err, service.ErrJobNotFound) {
			response.NotFoundError(c, err.Error())
			return
		}
		writeProjectError(c, err)
		return
	}

	response.Success(c, job)
}

// ListAnalyses 查询代码分析结果
// GET /api/v1/ai/analyses?project_id=1
func (h *AIHandler) ListAnalyses(c *gin.Context) {
	userID := middleware.GetUserID(c)
	projectID, err := strconv.ParseInt(c.Query("project_id"), 10, 64)
	if err != nil {
		response.ParamError(c, "project_id is required")
		return
	}

	page, pageSize := pagination(c)
	analyses, total, err := h.aiService.ListAnalyses(userID, projectID, page, pageSize)
	if err != nil {
		writeProjectError(c, err)
		return
	}

	response.SuccessPage(c, total, page, pageSize, analyses)
}

// ListPatterns 查询模式检测结果
// GET /api/v1/ai/patterns?project_id=1
func (h *AIHandler) ListPatterns(c *gin.Context) {
	userID := middleware.GetUserID(c)
	projectID, err := strconv.ParseInt(c.Query("project_id"), 10, 64)
	if err != nil {
		response.ParamError(c, "project_id is required")
		return
	}

	page, pageSize := pagination(c)
	patterns, total, err := h.aiService.ListPatterns(userID, projectID, page, pageSize)
	if err != nil {
		writeProjectError(c, err)
		return
	}

	response.SuccessPage(c, total, page, pageSize, patterns)
}

// ListSuggestions 查询优化建议
// GET /api/v1/ai/suggestions?project_id=1
func (h *AIHandler) ListSuggestions(c *gin.Context) {
	userID := middleware.GetUserID(c)
	projectID, err := strconv.ParseInt(c.Query("project_id"), 10, 64)
	if err != nil {
		response.ParamError(c, "project_id is required")
		return
	}

	page, pageSize := pagination(c)
	suggestions, total, err := h.aiService.ListSuggestions(userID, projectID, page, pageSize)
	if err != nil {
		writeProjectError(c, err)
		return
	}

	response.SuccessPage(c, total, page, pageSize, suggestions)
}
