package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/perfmaster/perf_go_server/internal/api/middleware"
	"github.com/perfmaster/perf_go_server/internal/model/dto"
	"github.com/perfmaster/perf_go_server/internal/pkg/response"
	"github.com/perfmaster/perf_go_server/internal/service"
)

type MetricHandler struct {
	metricService *service.MetricService
}

func NewMetricHandler(metricService *service.MetricService) *MetricHandler {
	return &MetricHandler{metricService: metricService}
}

// Record 上报指标
// POST /api/v1/projects/:id/metrics
func (h *MetricHandler) Record(c *gin.Context) {
	userID := middleware.GetUserID(c)
	projectID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.ParamError(c, "")
		return
	}

	var req dto.RecordMetricRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, err.Error())
		return
	}

	metric, err := h.metricService.Record(userID, projectID, &req)
	if err != nil {
		writeProjectError(c, err)
		return
	}

	response.Success(c, metric)
}

// List 查询指标
// GET /api/v1/projects/:id/metrics?metric_type=lcp&page=1
func (h *MetricHandler) List(c *gin.Context) {
	userID := middleware.GetUserID(c)
	projectID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.ParamError(c, "")
		return
	}

	page, pageSize := pagination(c)
	metricType := c.Query("metric_type")

	metrics, total, err := h.metricService.List(userID, projectID, metricType, page, pageSize)
	if err != nil {
		writeProjectError(c, err)
		return
	}

	response.SuccessPage(c, total, page, pageSize, metrics)
}

// ListComponents 查询组件分析数据
// GET /api/v1/projects/:id/components
func (h *MetricHandler) ListComponents(c *gin.Context) {
	userID := middleware.GetUserID(c)
	projectID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.ParamError(c, "")
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if limit < 1 || limit > 200 {
		limit = 50
	}

	analyses, err := h.metricService.ListComponents(userID, projectID, limit)
	if err != nil {
		writeProjectError(c, err)
		return
	}

	response.Success(c, analyses)
}
