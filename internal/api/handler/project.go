package handler

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/perfmaster/perf_go_server/internal/api/middleware"
	"github.com/perfmaster/perf_go_server/internal/model/dto"
	"github.com/perfmaster/perf_go_server/internal/pkg/response"
	"github.com/perfmaster/perf_go_server/internal/service"
)

type ProjectHandler struct {
	projectService *service.ProjectService
}

func NewProjectHandler(projectService *service.ProjectService) *ProjectHandler {
	return &ProjectHandler{projectService: projectService}
}

// Create 创建项目
// POST /api/v1/projects
func (h *ProjectHandler) Create(c *gin.Context) {
	userID := middleware.GetUserID(c)

	var req dto.CreateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, err.Error())
		return
	}

	project, err := h.projectService.Create(userID, &req)
	if err != nil {
		response.ServerError(c, "")
		return
	}

	response.Success(c, project)
}

// List 项目列表
// GET /api/v1/projects?page=1&page_size=20
func (h *ProjectHandler) List(c *gin.Context) {
	userID := middleware.GetUserID(c)
	page, pageSize := pagination(c)

	projects, total, err := h.projectService.List(userID, page, pageSize)
	if err != nil {
		response.ServerError(c, "")
		return
	}

	response.SuccessPage(c, total, page, pageSize, projects)
}

// Get 项目详情
// GET /api/v1/projects/:id
func (h *ProjectHandler) Get(c *gin.Context) {
	userID := middleware.GetUserID(c)
	projectID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.ParamError(c, "")
		return
	}

	project, err := h.projectService.Get(userID, projectID)
	if err != nil {
		writeProjectError(c, err)
		return
	}

	response.Success(c, project)
}

// Update 更新项目
// PUT /api/v1/projects/:id
func (h *ProjectHandler) Update(c *gin.Context) {
	userID := middleware.GetUserID(c)
	projectID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.ParamError(c, "")
		return
	}

	var req dto.UpdateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, err.Error())
		return
	}

	project, err := h.projectService.Update(userID, projectID, &req)
	if err != nil {
		writeProjectError(c, err)
		return
	}

	response.Success(c, project)
}

// Delete 删除项目
// DELETE /api/v1/projects/:id
func (h *ProjectHandler) Delete(c *gin.Context) {
	userID := middleware.GetUserID(c)
	projectID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.ParamError(c, "")
		return
	}

	if err := h.projectService.Delete(userID, projectID); err != nil {
		writeProjectError(c, err)
		return
	}

	response.Success(c, nil)
}

func writeProjectError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrProjectNotFound):
		response.NotFoundError(c, err.Error())
	case errors.Is(err, service.ErrProjectPermission):
		response.PermissionError(c, err.Error())
	default:
		response.ServerError(c, "")
	}
}

func pagination(c *gin.Context) (int, int) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	return page, pageSize
}
