package handler

import (
	"context"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/perfmaster/perf_go_server/internal/model"
	"github.com/perfmaster/perf_go_server/internal/pkg/response"
	"github.com/perfmaster/perf_go_server/internal/testutil"
)

func TestAnalyzeCode_SubmitsJob(t *testing.T) {
	env := newTestEnv(t)
	user := testutil.TestUser(t, env.db)
	project := testutil.TestProject(t, env.db, user.ID)
	token := env.tokenFor(t, user.ID)

	resp := env.doJSON(t, http.MethodPost, "/api/v1/ai/analyze-code", token, gin.H{
		"project_id":   project.ID,
		"code_content": "const x = 1;",
		"file_path":    "src/App.tsx",
	})
	require.Equal(t, response.CodeSuccess, resp.Code)

	job := resp.Data.(map[string]interface{})
	assert.Equal(t, model.JobStatusPending, job["status"])
	assert.Equal(t, model.JobTypeCodeAnalysis, job["job_type"])

	// 任务已入队
	msg, err := env.jobQueue.Pop(context.Background(), time.Second)
	require.NoError(t, err)
	require.NotNil(t, msg)
	assert.Equal(t, int64(job["id"].(float64)), msg.JobID)
}

func TestDetectPatterns_SubmitsJob(t *testing.T) {
	env := newTestEnv(t)
	user := testutil.TestUser(t, env.db)
	project := testutil.TestProject(t, env.db, user.ID)
	token := env.tokenFor(t, user.ID)

	resp := env.doJSON(t, http.MethodPost, "/api/v1/ai/detect-patterns", token, gin.H{
		"project_id":   project.ID,
		"code_content": "useState(x); useState(y)",
		"file_path":    "src/App.tsx",
	})
	require.Equal(t, response.CodeSuccess, resp.Code)

	job := resp.Data.(map[string]interface{})
	assert.Equal(t, model.JobTypePatternDetection, job["job_type"])
}

func TestSubmit_MissingFieldsRejectedSynchronously(t *testing.T) {
	env := newTestEnv(t)
	user := testutil.TestUser(t, env.db)
	project := testutil.TestProject(t, env.db, user.ID)
	token := env.tokenFor(t, user.ID)

	tests := []struct {
		name string
		body gin.H
	}{
		{"no project_id", gin.H{"code_content": "x", "file_path": "a.ts"}},
		{"no code_content", gin.H{"project_id": project.ID, "file_path": "a.ts"}},
		{"no file_path", gin.H{"project_id": project.ID, "code_content": "x"}},
		{"empty body", gin.H{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := env.doJSON(t, http.MethodPost, "/api/v1/ai/analyze-code", token, tt.body)
			assert.Equal(t, response.CodeParamError, resp.Code)
			assert.Equal(t, "project_id, code_content and file_path are required", resp.Message)
		})
	}

	// 拒绝的请求不会产生任务或队列消息
	var count int64
	env.db.Model(&model.AnalysisJob{}).Count(&count)
	assert.Equal(t, int64(0), count)

	length, err := env.jobQueue.Length(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(0), length)
}

func TestSubmit_OtherUsersProject(t *testing.T) {
	env := newTestEnv(t)
	owner := testutil.TestUser(t, env.db)
	intruder := testutil.TestUser(t, env.db)
	project := testutil.TestProject(t, env.db, owner.ID)

	resp := env.doJSON(t, http.MethodPost, "/api/v1/ai/analyze-code", env.tokenFor(t, intruder.ID), gin.H{
		"project_id":   project.ID,
		"code_content": "const x = 1;",
		"file_path":    "src/App.tsx",
	})
	assert.Equal(t, response.CodePermissionDenied, resp.Code)
}

func TestGetJob(t *testing.T) {
	env := newTestEnv(t)
	user := testutil.TestUser(t, env.db)
	project := testutil.TestProject(t, env.db, user.ID)
	job := testutil.TestJob(t, env.db, user.ID, project.ID, model.JobTypeCodeAnalysis, model.JobStatusCompleted)
	token := env.tokenFor(t, user.ID)

	resp := env.doJSON(t, http.MethodGet, fmt.Sprintf("/api/v1/ai/jobs/%d", job.ID), token, nil)
	require.Equal(t, response.CodeSuccess, resp.Code)

	got := resp.Data.(map[string]interface{})
	assert.Equal(t, model.JobStatusCompleted, got["status"])
}

func TestGetJob_NotFound(t *testing.T) {
	env := newTestEnv(t)
	user := testutil.TestUser(t, env.db)

	resp := env.doJSON(t, http.MethodGet, "/api/v1/ai/jobs/99999", env.tokenFor(t, user.ID), nil)
	assert.Equal(t, response.CodeResourceNotFound, resp.Code)
}

func TestListPatterns(t *testing.T) {
	env := newTestEnv(t)
	user := testutil.TestUser(t, env.db)
	project := testutil.TestProject(t, env.db, user.ID)
	token := env.tokenFor(t, user.ID)

	require.NoError(t, env.db.Create(&model.PatternDetection{
		ProjectID:   project.ID,
		PatternType: model.PatternPerformanceIssue,
		PatternName: "Multiple useState calls",
		FilePath:    "src/App.tsx",
		Confidence:  0.8,
	}).Error)

	resp := env.doJSON(t, http.MethodGet, fmt.Sprintf("/api/v1/ai/patterns?project_id=%d", project.ID), token, nil)
	require.Equal(t, response.CodeSuccess, resp.Code)

	page := resp.Data.(map[string]interface{})
	assert.Equal(t, float64(1), page["total"])
}

func TestListAnalyses_MissingProjectID(t *testing.T) {
	env := newTestEnv(t)
	user := testutil.TestUser(t, env.db)

	resp := env.doJSON(t, http.MethodGet, "/api/v1/ai/analyses", env.tokenFor(t, user.ID), nil)
	assert.Equal(t, response.CodeParamError, resp.Code)
}
