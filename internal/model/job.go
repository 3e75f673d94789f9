package model

import (
	"database/sql/driver"
	"encoding/json"
	"time"
)

// 任务类型（有限集合，Processor 中穷举分发）
const (
	JobTypeCodeAnalysis     = "code_analysis"
	JobTypePatternDetection = "pattern_detection"
)

// 任务状态（单向流转 pending → running → completed/failed）
const (
	JobStatusPending   = "pending"
	JobStatusRunning   = "running"
	JobStatusCompleted = "completed"
	JobStatusFailed    = "failed"
)

// JSONMap 用于 JSON 对象字段
type JSONMap map[string]interface{}

func (m JSONMap) Value() (driver.Value, error) {
	if m == nil {
		return "{}", nil
	}
	return json.Marshal(m)
}

func (m *JSONMap) Scan(value interface{}) error {
	if value == nil {
		*m = JSONMap{}
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
	return json.Unmarshal(bytes, m)
}

type AnalysisJob struct {
	ID           int64      `gorm:"primaryKey" json:"id"`
	ProjectID    int64      `gorm:"not null;index" json:"project_id"`
	UserID       int64      `gorm:"not null;index" json:"user_id"`
	JobType      string     `gorm:"size:50;not null" json:"job_type"` // code_analysis, pattern_detection
	Status       string     `gorm:"size:20;default:pending;index" json:"status"`
	CodeContent  string     `gorm:"type:text;not null" json:"code_content"`
	FilePath     string     `gorm:"size:500;not null" json:"file_path"`
	Result       JSONMap    `gorm:"type:json" json:"result,omitempty"`
	ErrorMessage string     `gorm:"type:text" json:"error_message,omitempty"`
	CreatedAt    time.Time  `gorm:"index" json:"created_at"`
	StartedAt    *time.Time `json:"started_at,omitempty"`
	CompletedAt  *time.Time `json:"completed_at,omitempty"`
}

func (AnalysisJob) TableName() string {
	return "analysis_jobs"
}

// IsTerminal 任务是否已到达终态
func (j *AnalysisJob) IsTerminal() bool {
	return j.Status == JobStatusCompleted || j.Status == JobStatusFailed
}
