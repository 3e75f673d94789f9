package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"gorm.io/gorm"

	"github.com/perfmaster/perf_go_server/internal/model"
)

var fixtureSeq int64

// TestUser 创建测试用户
func TestUser(t *testing.T, db *gorm.DB, opts ...func(*model.User)) *model.User {
	t.Helper()

	seq := atomic.AddInt64(&fixtureSeq, 1)
	user := &model.User{
		Username:     fmt.Sprintf("testuser_%d", seq),
		Email:        fmt.Sprintf("test_%d@example.com", seq),
		PasswordHash: "$2a$10$abcdefghijklmnopqrstuvwxyz123456", // bcrypt hash placeholder
	}

	for _, opt := range opts {
		opt(user)
	}

	if err := db.Create(user).Error; err != nil {
		t.Fatalf("Failed to create test user: %v", err)
	}

	return user
}

// WithUsername 设置用户名
func WithUsername(username string) func(*model.User) {
	return func(u *model.User) {
		u.Username = username
	}
}

// TestProject 创建测试项目
func TestProject(t *testing.T, db *gorm.DB, userID int64, opts ...func(*model.Project)) *model.Project {
	t.Helper()

	project := &model.Project{
		UserID:   userID,
		Name:     fmt.Sprintf("Test Project %d", time.Now().UnixNano()%10000),
		IsActive: true,
	}

	for _, opt := range opts {
		opt(project)
	}

	if err := db.Create(project).Error; err != nil {
		t.Fatalf("Failed to create test project: %v", err)
	}

	return project
}

// WithProjectName 设置项目名
func WithProjectName(name string) func(*model.Project) {
	return func(p *model.Project) {
		p.Name = name
	}
}

// TestJob 创建测试任务
func TestJob(t *testing.T, db *gorm.DB, userID, projectID int64, jobType, status string) *model.AnalysisJob {
	t.Helper()

	job := &model.AnalysisJob{
		ProjectID:   projectID,
		UserID:      userID,
		JobType:     jobType,
		Status:      status,
		CodeContent: "const x = 1;",
		FilePath:    "src/App.tsx",
	}

	if err := db.Create(job).Error; err != nil {
		t.Fatalf("Failed to create test job: %v", err)
	}

	return job
}

// TestMetric 创建测试指标
func TestMetric(t *testing.T, db *gorm.DB, projectID int64, metricType string, value float64) *model.PerformanceMetric {
	t.Helper()

	metric := &model.PerformanceMetric{
		ProjectID:  projectID,
		MetricType: metricType,
		Value:      value,
		Timestamp:  time.Now(),
	}

	if err := db.Create(metric).Error; err != nil {
		t.Fatalf("Failed to create test metric: %v", err)
	}

	return metric
}
