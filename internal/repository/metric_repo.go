package repository

import (
	"time"

	"gorm.io/gorm"

	"github.com/perfmaster/perf_go_server/internal/model"
)

type MetricRepository struct {
	db *gorm.DB
}

func NewMetricRepository(db *gorm.DB) *MetricRepository {
	return &MetricRepository{db: db}
}

func (r *MetricRepository) Create(metric *model.PerformanceMetric) error {
	return r.db.Create(metric).Error
}

// ListRecent 获取项目最近的 N 条指标（周期快照用）
func (r *MetricRepository) ListRecent(projectID int64, limit int) ([]*model.PerformanceMetric, error) {
	var metrics []*model.PerformanceMetric
	err := r.db.Where("project_id = ?", projectID).
		Order("timestamp DESC").
		Limit(limit).
		Find(&metrics).Error
	return metrics, err
}

func (r *MetricRepository) ListByProject(projectID int64, metricType string, page, pageSize int) ([]*model.PerformanceMetric, int64, error) {
	var metrics []*model.PerformanceMetric
	var total int64

	query := r.db.Model(&model.PerformanceMetric{}).Where("project_id = ?", projectID)
	if metricType != "" {
		query = query.Where("metric_type = ?", metricType)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.Order("timestamp DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&metrics).Error
	return metrics, total, err
}

// DeleteOlderThan 删除早于 cutoff 的指标，返回删除行数
func (r *MetricRepository) DeleteOlderThan(cutoff time.Time) (int64, error) {
	result := r.db.Where("timestamp < ?", cutoff).Delete(&model.PerformanceMetric{})
	return result.RowsAffected, result.Error
}

func (r *MetricRepository) CreateComponentAnalysis(analysis *model.ComponentAnalysis) error {
	return r.db.Create(analysis).Error
}

func (r *MetricRepository) ListComponents(projectID int64, limit int) ([]*model.ComponentAnalysis, error) {
	var analyses []*model.ComponentAnalysis
	err := r.db.Where("project_id = ?", projectID).
		Order("timestamp DESC").
		Limit(limit).
		Find(&analyses).Error
	return analyses, err
}
