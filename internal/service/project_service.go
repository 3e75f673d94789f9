package service

import (
	"errors"

	"gorm.io/gorm"

	"github.com/perfmaster/perf_go_server/internal/model"
	"github.com/perfmaster/perf_go_server/internal/model/dto"
	"github.com/perfmaster/perf_go_server/internal/repository"
)

var (
	ErrProjectNotFound   = errors.New("项目不存在")
	ErrProjectPermission = errors.New("无权操作此项目")
)

type ProjectService struct {
	projectRepo *repository.ProjectRepository
}

func NewProjectService(projectRepo *repository.ProjectRepository) *ProjectService {
	return &ProjectService{projectRepo: projectRepo}
}

// Create 创建项目
func (s *ProjectService) Create(userID int64, req *dto.CreateProjectRequest) (*model.Project, error) {
	project := &model.Project{
		UserID:      userID,
		Name:        req.Name,
		Description: req.Description,
		IsActive:    true,
	}
	if err := s.projectRepo.Create(project); err != nil {
		return nil, err
	}
	return project, nil
}

// Get 获取项目详情并校验归属
func (s *ProjectService) Get(userID, projectID int64) (*model.Project, error) {
	project, err := s.projectRepo.GetByID(projectID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, err
	}

	if project.UserID != userID {
		return nil, ErrProjectPermission
	}

	return project, nil
}

// List 获取用户的项目列表
func (s *ProjectService) List(userID int64, page, pageSize int) ([]*model.Project, int64, error) {
	return s.projectRepo.ListByUserID(userID, page, pageSize)
}

// Update 更新项目
func (s *ProjectService) Update(userID, projectID int64, req *dto.UpdateProjectRequest) (*model.Project, error) {
	project, err := s.Get(userID, projectID)
	if err != nil {
		return nil, err
	}

	if req.Name != "" {
		project.Name = req.Name
	}
	if req.Description != nil {
		project.Description = *req.Description
	}
	if req.IsActive != nil {
		project.IsActive = *req.IsActive
	}

	if err := s.projectRepo.Update(project); err != nil {
		return nil, err
	}
	return project, nil
}

// Delete 删除项目
func (s *ProjectService) Delete(userID, projectID int64) error {
	if _, err := s.Get(userID, projectID); err != nil {
		return err
	}
	return s.projectRepo.Delete(projectID)
}
