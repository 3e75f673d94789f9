package model

import (
	"database/sql/driver"
	"encoding/json"
	"time"
)

// ChunkScore 单个代码块的分类输出
type ChunkScore struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

// ChunkResults 每个代码块一个结果列表（可能为空，表示该块没有产出）
type ChunkResults [][]ChunkScore

func (r ChunkResults) Value() (driver.Value, error) {
	if r == nil {
		return "[]", nil
	}
	return json.Marshal(r)
}

func (r *ChunkResults) Scan(value interface{}) error {
	if value == nil {
		*r = ChunkResults{}
		return nil
	}
	bytes, ok := value.([]byte)
	if !ok {
		if s, ok := value.(string); ok {
			bytes = []byte(s)
		} else {
			return nil
		}
	}
	return json.Unmarshal(bytes, r)
}

type CodeAnalysis struct {
	ID                   int64        `gorm:"primaryKey" json:"id"`
	ProjectID            int64        `gorm:"not null;index" json:"project_id"`
	FilePath             string       `gorm:"size:500;not null" json:"file_path"`
	CodeContent          string       `gorm:"type:text" json:"code_content"`
	AnalysisResult       ChunkResults `gorm:"type:json" json:"analysis_result"`
	ComplexityScore      float64      `json:"complexity_score"`
	PerformanceScore     float64      `json:"performance_score"`
	MaintainabilityScore float64      `json:"maintainability_score"`
	CreatedAt            time.Time    `gorm:"index" json:"created_at"`
}

func (CodeAnalysis) TableName() string {
	return "code_analyses"
}

// 模式类别
const (
	PatternAntiPattern             = "anti_pattern"
	PatternPerformanceIssue        = "performance_issue"
	PatternMemoryLeak              = "memory_leak"
	PatternOptimizationOpportunity = "optimization_opportunity"
)

type PatternDetection struct {
	ID           int64     `gorm:"primaryKey" json:"id"`
	ProjectID    int64     `gorm:"not null;index" json:"project_id"`
	PatternType  string    `gorm:"size:30;not null" json:"pattern_type"`
	PatternName  string    `gorm:"size:200;not null" json:"pattern_name"`
	Description  string    `gorm:"type:text" json:"description"`
	FilePath     string    `gorm:"size:500;not null" json:"file_path"`
	LineStart    int       `json:"line_start"`
	LineEnd      int       `json:"line_end"`
	Confidence   float64   `json:"confidence_score"`
	SuggestedFix string    `gorm:"type:text" json:"suggested_fix"`
	CreatedAt    time.Time `gorm:"index" json:"created_at"`
}

func (PatternDetection) TableName() string {
	return "pattern_detections"
}

type OptimizationSuggestion struct {
	ID                   int64     `gorm:"primaryKey" json:"id"`
	ProjectID            int64     `gorm:"not null;index" json:"project_id"`
	SuggestionType       string    `gorm:"size:30;not null" json:"suggestion_type"`
	Title                string    `gorm:"size:200;not null" json:"title"`
	Description          string    `gorm:"type:text" json:"description"`
	CodeExample          string    `gorm:"type:text" json:"code_example,omitempty"`
	EstimatedImprovement string    `gorm:"size:100" json:"estimated_improvement,omitempty"`
	PriorityScore        int       `gorm:"default:0" json:"priority_score"`
	IsImplemented        bool      `gorm:"default:false" json:"is_implemented"`
	CreatedAt            time.Time `gorm:"index" json:"created_at"`
}

func (OptimizationSuggestion) TableName() string {
	return "optimization_suggestions"
}
