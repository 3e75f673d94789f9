package repository

import (
	"time"

	"gorm.io/gorm"

	"github.com/perfmaster/perf_go_server/internal/model"
)

type JobRepository struct {
	db *gorm.DB
}

func NewJobRepository(db *gorm.DB) *JobRepository {
	return &JobRepository{db: db}
}

func (r *JobRepository) Create(job *model.AnalysisJob) error {
	return r.db.Create(job).Error
}

func (r *JobRepository) GetByID(id int64) (*model.AnalysisJob, error) {
	var job model.AnalysisJob
	err := r.db.Where("id = ?", id).First(&job).Error
	if err != nil {
		return nil, err
	}
	return &job, nil
}

func (r *JobRepository) Update(job *model.AnalysisJob) error {
	return r.db.Save(job).Error
}

func (r *JobRepository) ListByProject(projectID int64, page, pageSize int) ([]*model.AnalysisJob, int64, error) {
	var jobs []*model.AnalysisJob
	var total int64

	query := r.db.Model(&model.AnalysisJob{}).Where("project_id = ?", projectID)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.Order("created_at DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&jobs).Error
	return jobs, total, err
}

// FailStuckRunning 将卡在 running 超过时限的任务置为 failed（外部对账，不自动重试）
func (r *JobRepository) FailStuckRunning(cutoff time.Time) (int64, error) {
	now := time.Now()
	result := r.db.Model(&model.AnalysisJob{}).
		Where("status = ? AND started_at < ?", model.JobStatusRunning, cutoff).
		Updates(map[string]interface{}{
			"status":        model.JobStatusFailed,
			"error_message": "job exceeded running timeout",
			"completed_at":  now,
		})
	return result.RowsAffected, result.Error
}
