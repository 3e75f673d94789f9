package model

import (
	"time"
)

// 指标类型常量（与前端上报字段保持一致）
const (
	MetricLCP        = "lcp"
	MetricFID        = "fid"
	MetricCLS        = "cls"
	MetricFCP        = "fcp"
	MetricTTFB       = "ttfb"
	MetricBundleSize = "bundle_size"
	MetricMemory     = "memory_usage"
	MetricCPU        = "cpu_usage"
)

type PerformanceMetric struct {
	ID         int64     `gorm:"primaryKey" json:"id"`
	ProjectID  int64     `gorm:"not null;index:idx_project_type_ts" json:"project_id"`
	MetricType string    `gorm:"size:20;not null;index:idx_project_type_ts" json:"metric_type"`
	Value      float64   `gorm:"not null" json:"value"`
	URL        string    `gorm:"size:500" json:"url,omitempty"`
	UserAgent  string    `gorm:"type:text" json:"user_agent,omitempty"`
	Timestamp  time.Time `gorm:"index:idx_project_type_ts" json:"timestamp"`
}

func (PerformanceMetric) TableName() string {
	return "performance_metrics"
}

type ComponentAnalysis struct {
	ID            int64     `gorm:"primaryKey" json:"id"`
	ProjectID     int64     `gorm:"not null;index" json:"project_id"`
	ComponentName string    `gorm:"size:200;not null;index" json:"component_name"`
	FilePath      string    `gorm:"size:500" json:"file_path"`
	RenderTime    float64   `json:"render_time"`
	MemoryUsage   float64   `json:"memory_usage"`
	ReRenderCount int       `gorm:"default:0" json:"re_render_count"`
	PropsCount    int       `gorm:"default:0" json:"props_count"`
	ChildrenCount int       `gorm:"default:0" json:"children_count"`
	Timestamp     time.Time `gorm:"index" json:"timestamp"`
}

func (ComponentAnalysis) TableName() string {
	return "component_analyses"
}
