package service

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/perfmaster/perf_go_server/internal/model"
	"github.com/perfmaster/perf_go_server/internal/model/dto"
	"github.com/perfmaster/perf_go_server/internal/pkg/queue"
	"github.com/perfmaster/perf_go_server/internal/repository"
)

var ErrJobNotFound = errors.New("任务不存在")

// AIService 接收分析提交，创建任务并入队。
// 执行是异步的：提交方拿到 job 后只能通过任务状态观察结果。
type AIService struct {
	jobRepo        *repository.JobRepository
	analysisRepo   *repository.AnalysisRepository
	projectService *ProjectService
	jobQueue       *queue.Queue
}

func NewAIService(
	jobRepo *repository.JobRepository,
	analysisRepo *repository.AnalysisRepository,
	projectService *ProjectService,
	jobQueue *queue.Queue,
) *AIService {
	return &AIService{
		jobRepo:        jobRepo,
		analysisRepo:   analysisRepo,
		projectService: projectService,
		jobQueue:       jobQueue,
	}
}

// SubmitJob 创建一个 pending 任务并推入队列
func (s *AIService) SubmitJob(ctx context.Context, userID int64, jobType string, req *dto.SubmitAnalysisRequest) (*model.AnalysisJob, error) {
	if _, err := s.projectService.Get(userID, req.ProjectID); err != nil {
		return nil, err
	}

	job := &model.AnalysisJob{
		ProjectID:   req.ProjectID,
		UserID:      userID,
		JobType:     jobType,
		Status:      model.JobStatusPending,
		CodeContent: req.CodeContent,
		FilePath:    req.FilePath,
	}
	if err := s.jobRepo.Create(job); err != nil {
		return nil, err
	}

	if err := s.jobQueue.Push(ctx, &queue.JobMessage{
		JobID:     job.ID,
		ProjectID: job.ProjectID,
		UserID:    job.UserID,
		JobType:   job.JobType,
	}); err != nil {
		return nil, err
	}

	return job, nil
}

// GetJob 获取任务详情并校验归属
func (s *AIService) GetJob(userID, jobID int64) (*model.AnalysisJob, error) {
	job, err := s.jobRepo.GetByID(jobID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrJobNotFound
		}
		return nil, err
	}

	if job.UserID != userID {
		return nil, ErrProjectPermission
	}

	return job, nil
}

// ListAnalyses 项目的代码分析结果
func (s *AIService) ListAnalyses(userID, projectID int64, page, pageSize int) ([]*model.CodeAnalysis, int64, error) {
	if _, err := s.projectService.Get(userID, projectID); err != nil {
		return nil, 0, err
	}
	return s.analysisRepo.ListAnalyses(projectID, page, pageSize)
}

// ListPatterns 项目的模式检测结果
func (s *AIService) ListPatterns(userID, projectID int64, page, pageSize int) ([]*model.PatternDetection, int64, error) {
	if _, err := s.projectService.Get(userID, projectID); err != nil {
		return nil, 0, err
	}
	return s.analysisRepo.ListPatterns(projectID, page, pageSize)
}

// ListSuggestions 项目的优化建议
func (s *AIService) ListSuggestions(userID, projectID int64, page, pageSize int) ([]*model.OptimizationSuggestion, int64, error) {
	if _, err := s.projectService.Get(userID, projectID); err != nil {
		return nil, 0, err
	}
	return s.analysisRepo.ListSuggestions(projectID, page, pageSize)
}
