package service

import (
	"time"

	"github.com/perfmaster/perf_go_server/internal/model"
	"github.com/perfmaster/perf_go_server/internal/model/dto"
	"github.com/perfmaster/perf_go_server/internal/repository"
)

type MetricService struct {
	metricRepo     *repository.MetricRepository
	projectService *ProjectService
}

func NewMetricService(metricRepo *repository.MetricRepository, projectService *ProjectService) *MetricService {
	return &MetricService{
		metricRepo:     metricRepo,
		projectService: projectService,
	}
}

// Record 持久化一条指标，先校验项目归属
func (s *MetricService) Record(userID, projectID int64, req *dto.RecordMetricRequest) (*model.PerformanceMetric, error) {
	if _, err := s.projectService.Get(userID, projectID); err != nil {
		return nil, err
	}
	return s.RecordForProject(projectID, req)
}

// RecordForProject 不做归属校验直接落库。
// 仅限连接建立时已经校验过项目归属的调用方（WebSocket 链路）。
func (s *MetricService) RecordForProject(projectID int64, req *dto.RecordMetricRequest) (*model.PerformanceMetric, error) {
	metric := &model.PerformanceMetric{
		ProjectID:  projectID,
		MetricType: req.MetricType,
		Value:      req.Value,
		URL:        req.URL,
		UserAgent:  req.UserAgent,
		Timestamp:  time.Now(),
	}
	if err := s.metricRepo.Create(metric); err != nil {
		return nil, err
	}
	return metric, nil
}

// RecordComponent 持久化一条组件分析数据，先校验项目归属
func (s *MetricService) RecordComponent(userID, projectID int64, req *dto.ComponentAnalysisRequest) (*model.ComponentAnalysis, error) {
	if _, err := s.projectService.Get(userID, projectID); err != nil {
		return nil, err
	}
	return s.RecordComponentForProject(projectID, req)
}

// RecordComponentForProject 不做归属校验直接落库，约束同 RecordForProject
func (s *MetricService) RecordComponentForProject(projectID int64, req *dto.ComponentAnalysisRequest) (*model.ComponentAnalysis, error) {
	analysis := &model.ComponentAnalysis{
		ProjectID:     projectID,
		ComponentName: req.ComponentName,
		FilePath:      req.FilePath,
		RenderTime:    req.RenderTime,
		MemoryUsage:   req.MemoryUsage,
		ReRenderCount: req.ReRenderCount,
		PropsCount:    req.PropsCount,
		ChildrenCount: req.ChildrenCount,
		Timestamp:     time.Now(),
	}
	if err := s.metricRepo.CreateComponentAnalysis(analysis); err != nil {
		return nil, err
	}
	return analysis, nil
}

// ListRecent 项目最近 N 条指标（周期快照）
func (s *MetricService) ListRecent(projectID int64, limit int) ([]*model.PerformanceMetric, error) {
	return s.metricRepo.ListRecent(projectID, limit)
}

// List 分页查询项目指标
func (s *MetricService) List(userID, projectID int64, metricType string, page, pageSize int) ([]*model.PerformanceMetric, int64, error) {
	if _, err := s.projectService.Get(userID, projectID); err != nil {
		return nil, 0, err
	}
	return s.metricRepo.ListByProject(projectID, metricType, page, pageSize)
}

// ListComponents 项目最近的组件分析数据
func (s *MetricService) ListComponents(userID, projectID int64, limit int) ([]*model.ComponentAnalysis, error) {
	if _, err := s.projectService.Get(userID, projectID); err != nil {
		return nil, err
	}
	return s.metricRepo.ListComponents(projectID, limit)
}
