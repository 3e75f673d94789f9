package repository

import (
	"gorm.io/gorm"

	"github.com/perfmaster/perf_go_server/internal/model"
)

type AnalysisRepository struct {
	db *gorm.DB
}

func NewAnalysisRepository(db *gorm.DB) *AnalysisRepository {
	return &AnalysisRepository{db: db}
}

func (r *AnalysisRepository) CreateAnalysis(analysis *model.CodeAnalysis) error {
	return r.db.Create(analysis).Error
}

func (r *AnalysisRepository) GetAnalysisByID(id int64) (*model.CodeAnalysis, error) {
	var analysis model.CodeAnalysis
	err := r.db.Where("id = ?", id).First(&analysis).Error
	if err != nil {
		return nil, err
	}
	return &analysis, nil
}

func (r *AnalysisRepository) ListAnalyses(projectID int64, page, pageSize int) ([]*model.CodeAnalysis, int64, error) {
	var analyses []*model.CodeAnalysis
	var total int64

	query := r.db.Model(&model.CodeAnalysis{}).Where("project_id = ?", projectID)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.Order("created_at DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&analyses).Error
	return analyses, total, err
}

func (r *AnalysisRepository) CreatePattern(pattern *model.PatternDetection) error {
	return r.db.Create(pattern).Error
}

func (r *AnalysisRepository) ListPatterns(projectID int64, page, pageSize int) ([]*model.PatternDetection, int64, error) {
	var patterns []*model.PatternDetection
	var total int64

	query := r.db.Model(&model.PatternDetection{}).Where("project_id = ?", projectID)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.Order("confidence DESC, created_at DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&patterns).Error
	return patterns, total, err
}

func (r *AnalysisRepository) CreateSuggestion(suggestion *model.OptimizationSuggestion) error {
	return r.db.Create(suggestion).Error
}

func (r *AnalysisRepository) ListSuggestions(projectID int64, page, pageSize int) ([]*model.OptimizationSuggestion, int64, error) {
	var suggestions []*model.OptimizationSuggestion
	var total int64

	query := r.db.Model(&model.OptimizationSuggestion{}).Where("project_id = ?", projectID)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.Order("priority_score DESC, created_at DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&suggestions).Error
	return suggestions, total, err
}
